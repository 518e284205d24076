// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package compiler

import (
	"context"
	"maps"

	"github.com/specialistvlad/biogrid/internal/ctxlog"
	"github.com/specialistvlad/biogrid/internal/entitypath"
	"github.com/specialistvlad/biogrid/internal/model"
)

// Entry describes one compiled value.
type Entry struct {
	Index   int
	Path    string
	Default float64
}

// paramEntry is a compiled parameter: a literal-bearing entity.
type paramEntry struct {
	path    string
	literal float64
}

// slotEntry is a compiled species state slot. Its initial value is either a
// literal or follows parameter source scaled by factor.
type slotEntry struct {
	path    string
	literal float64
	source  int
	factor  float64
}

// alias maps a species path to the slot it stands for.
type alias struct {
	slot int
	st   float64
}

// paramAlias maps a parameter path to the entry it follows. Its value is
// factor times the entry's value.
type paramAlias struct {
	index  int
	factor float64
}

// Compiler holds the flattened form of a model. It is immutable after New
// and safe for concurrent use.
type Compiler struct {
	root  *model.Container
	limit int

	values       map[string]string
	slots        []slotEntry
	aliases      map[string]alias
	params       []paramEntry
	paramAliases map[string]paramAlias
	reactions    []reaction
}

// New compiles root, which should be sealed. Errors from broken or cyclic
// reference chains are returned as the model package's typed errors.
func New(ctx context.Context, root *model.Container) (*Compiler, error) {
	logger := ctxlog.FromContext(ctx)
	c := &Compiler{
		root:         root,
		limit:        root.CountContents(),
		values:       make(map[string]string),
		aliases:      make(map[string]alias),
		paramAliases: make(map[string]paramAlias),
	}

	var reactionNodes []*model.Container
	err := root.Walk(func(_ entitypath.Path, _ *model.Container, _ string, n model.Node) error {
		if sub, ok := n.(*model.Container); ok && sub.Flavor() == model.Reaction {
			reactionNodes = append(reactionNodes, sub)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, rc := range reactionNodes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		r, err := c.compileReaction(rc)
		if err != nil {
			return nil, err
		}
		c.reactions = append(c.reactions, r)
	}

	logger.Debug("Model compiled.",
		"model", root.Name(),
		"reactions", len(c.reactions),
		"species", len(c.slots),
		"parameters", len(c.params))
	return c, nil
}

// Root returns the compiled model.
func (c *Compiler) Root() *model.Container { return c.root }

// Values returns, for every entity reached from a reaction, the path of the
// entity it follows. Literal-bearing entities map to themselves.
func (c *Compiler) Values() map[string]string { return maps.Clone(c.values) }

// Species returns the state slots in index order.
func (c *Compiler) Species() []Entry {
	p := c.parameterValues()
	out := make([]Entry, len(c.slots))
	for i, s := range c.slots {
		out[i] = Entry{Index: i, Path: s.path, Default: s.initial(p)}
	}
	return out
}

// Parameters returns the parameters in index order. There is one entry per
// literal-bearing parameter; parameters following another share its entry.
func (c *Compiler) Parameters() []Entry {
	out := make([]Entry, len(c.params))
	for i, e := range c.params {
		out[i] = Entry{Index: i, Path: e.path, Default: e.literal}
	}
	return out
}

// SpeciesIndex returns the slot index for a species path, following
// aliases.
func (c *Compiler) SpeciesIndex(path string) (int, bool) {
	a, ok := c.aliases[path]
	return a.slot, ok
}

// ParameterIndex returns the entry index a parameter path follows and the
// multiplier applied to that entry's value along the way.
func (c *Compiler) ParameterIndex(path string) (index int, factor float64, ok bool) {
	a, ok := c.paramAliases[path]
	return a.index, a.factor, ok
}

func (s slotEntry) initial(p []float64) float64 {
	if s.source >= 0 {
		return s.factor * p[s.source]
	}
	return s.literal
}

// parameterValues returns the default parameter vector.
func (c *Compiler) parameterValues() []float64 {
	out := make([]float64, len(c.params))
	for i, e := range c.params {
		out[i] = e.literal
	}
	return out
}

// chainLimitError builds the error for a chain exceeding the hop bound.
func chainLimitError(trail []model.Reference) error {
	paths := make([]string, len(trail))
	for i, r := range trail {
		paths[i] = r.Path().String()
	}
	return &model.CyclicReferenceError{Path: paths}
}

// species resolves the slot a species reference stands for.
func (c *Compiler) species(ref model.Reference) (alias, error) {
	path := ref.Path().String()
	if a, ok := c.aliases[path]; ok {
		return a, nil
	}

	cur := ref
	cur.Stoichiometry = 1
	trail := []model.Reference{cur}
	hopSt := []float64{1}
	source, factor := -1, 1.0
	var literal float64
	for hops := 0; ; hops++ {
		if hops > c.limit {
			return alias{}, chainLimitError(trail)
		}
		curPath := cur.Path().String()
		if known, ok := c.aliases[curPath]; ok {
			// Joins a chain compiled before.
			return c.linkAliases(trail[:len(trail)-1], hopSt, known), nil
		}
		nxt, linked, err := cur.Next()
		if err != nil {
			return alias{}, err
		}
		if !linked {
			content, err := cur.Resolve(false)
			if err != nil {
				return alias{}, err
			}
			literal = content.Literal()
			c.values[curPath] = curPath
			break
		}
		c.values[curPath] = nxt.Path().String()
		if nxt.Kind != model.Species {
			pa, err := c.parameter(nxt)
			if err != nil {
				return alias{}, err
			}
			source, factor = pa.index, nxt.Stoichiometry*pa.factor
			break
		}
		hopSt = append(hopSt, nxt.Stoichiometry)
		cur = nxt
		trail = append(trail, cur)
	}

	slot := len(c.slots)
	c.slots = append(c.slots, slotEntry{
		path:    trail[len(trail)-1].Path().String(),
		literal: literal,
		source:  source,
		factor:  factor,
	})
	return c.linkAliases(trail, hopSt, alias{slot: slot, st: 1}), nil
}

// linkAliases records trail as aliases of end, which trail's last element
// reaches with the hop multiplier following it. hopSt[i] is the multiplier
// of the hop arriving at trail[i].
func (c *Compiler) linkAliases(trail []model.Reference, hopSt []float64, end alias) alias {
	st := end.st
	if len(trail) < len(hopSt) {
		st *= hopSt[len(trail)]
	}
	for i := len(trail) - 1; i >= 0; i-- {
		c.aliases[trail[i].Path().String()] = alias{slot: end.slot, st: st}
		st *= hopSt[i]
	}
	return c.aliases[trail[0].Path().String()]
}

// parameter compiles a parameter reference. Every parameter on the chain
// becomes an alias of the literal-bearing parameter at its end.
func (c *Compiler) parameter(ref model.Reference) (paramAlias, error) {
	path := ref.Path().String()
	if a, ok := c.paramAliases[path]; ok {
		return a, nil
	}

	var (
		trail []model.Reference
		hopSt []float64
		end   paramAlias
	)
	cur := ref
	for hops := 0; ; hops++ {
		curPath := cur.Path().String()
		if a, ok := c.paramAliases[curPath]; ok {
			// Joins a chain compiled before.
			end = a
			break
		}
		if hops > c.limit {
			return paramAlias{}, chainLimitError(append(trail, cur))
		}
		nxt, linked, err := cur.Next()
		if err != nil {
			return paramAlias{}, err
		}
		if !linked {
			content, err := cur.Resolve(false)
			if err != nil {
				return paramAlias{}, err
			}
			end = paramAlias{index: len(c.params), factor: 1}
			c.params = append(c.params, paramEntry{path: curPath, literal: content.Literal()})
			c.paramAliases[curPath] = end
			c.values[curPath] = curPath
			break
		}
		c.values[curPath] = nxt.Path().String()
		trail = append(trail, cur)
		hopSt = append(hopSt, nxt.Stoichiometry)
		cur = nxt
	}

	for i := len(trail) - 1; i >= 0; i-- {
		end.factor *= hopSt[i]
		c.paramAliases[trail[i].Path().String()] = end
	}
	return c.paramAliases[path], nil
}
