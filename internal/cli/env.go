// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package cli

import "github.com/kelseyhightower/envconfig"

// envPrefix prefixes every environment variable read by the CLI.
const envPrefix = "BIOGRID"

// environment holds the flag defaults taken from the environment.
type environment struct {
	Model     string  `envconfig:"MODEL"`
	TEnd      float64 `envconfig:"T_END" default:"10"`
	Steps     int     `envconfig:"STEPS" default:"100"`
	Substeps  int     `envconfig:"SUBSTEPS" default:"100"`
	LogFormat string  `envconfig:"LOG_FORMAT" default:"text"`
	LogLevel  string  `envconfig:"LOG_LEVEL" default:"info"`
}

func loadEnvironment() (*environment, error) {
	var env environment
	if err := envconfig.Process(envPrefix, &env); err != nil {
		return nil, err
	}
	return &env, nil
}
