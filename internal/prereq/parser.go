// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package prereq

import (
	"github.com/pdiddy/prereqs/pkg/types"
)

// Parser turns prerequisite descriptions into LogicTrees. The zero value is
// not usable; create one with New.
type Parser struct {
	cfg types.ParserConfig
}

// New returns a Parser for cfg. Zero values fall back to the defaults of
// types.DefaultParserConfig.
func New(cfg types.ParserConfig) *Parser {
	def := types.DefaultParserConfig()
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = def.MaxDepth
	}
	if cfg.MinCodeLength <= 0 && cfg.MaxCodeLength <= 0 {
		cfg.MinCodeLength, cfg.MaxCodeLength = def.MinCodeLength, def.MaxCodeLength
	}
	return &Parser{cfg: cfg}
}

// Config returns the effective configuration.
func (p *Parser) Config() types.ParserConfig {
	return p.cfg
}

var defaultParser = New(types.DefaultParserConfig())

// Parse parses src with the default configuration.
func Parse(src string) (types.LogicTree, error) {
	return defaultParser.Parse(src)
}

// ParseAndExpand parses src with the default configuration and expands it.
func ParseAndExpand(src string) (types.Result, error) {
	return defaultParser.ParseAndExpand(src)
}

// Parse builds the LogicTree for src. Empty or blank input yields an empty
// tree. The first error aborts the parse and no partial tree is returned.
func (p *Parser) Parse(src string) (types.LogicTree, error) {
	toks, err := Tokenize(src)
	if err != nil {
		return types.LogicTree{}, err
	}
	match, err := matchParens(toks)
	if err != nil {
		return types.LogicTree{}, err
	}

	run := &parseRun{p: p, src: src, toks: toks, match: match}
	groups, err := run.parseRange(0, len(toks)-1, 0)
	if err != nil {
		return types.LogicTree{}, err
	}
	if groups == nil {
		groups = []types.RequiredGroup{}
	}
	return types.LogicTree{Groups: groups, HasExamRequirement: run.exam}, nil
}

// ParseAndExpand parses src and pairs the tree with its DNF.
func (p *Parser) ParseAndExpand(src string) (types.Result, error) {
	tree, err := p.Parse(src)
	if err != nil {
		return types.Result{}, err
	}
	return types.Result{Tree: tree, DNF: Expand(tree.Groups)}, nil
}

// parseRun carries the read-only inputs of one Parse call through the
// recursion. exam is the only field written during the run.
type parseRun struct {
	p     *Parser
	src   string
	toks  []Token
	match []int
	exam  bool
}

// parseRange parses toks[lo:hi] as one frame. Parenthesized sub-expressions
// recurse with depth+1.
func (r *parseRun) parseRange(lo, hi, depth int) ([]types.RequiredGroup, error) {
	var f frame
	for i := lo; i < hi; {
		t := r.toks[i]
		switch t.Kind {
		case TokOpenParen:
			if depth+1 > r.p.cfg.MaxDepth {
				return nil, errorf(RecursionLimitExceeded, t.Start, "parentheses nested deeper than %d", r.p.cfg.MaxDepth)
			}
			closeAt := r.match[i]
			sub, err := r.parseRange(i+1, closeAt, depth+1)
			if err != nil {
				return nil, err
			}
			f.group(sub)
			i = closeAt + 1
		case TokAnd:
			f.and()
			i++
		case TokOr:
			f.or()
			i++
		default:
			leaf, next, err := r.p.extractClause(r.src, r.toks, i)
			if err != nil {
				return nil, err
			}
			if leaf.IsExam() {
				r.exam = true
			}
			f.clause(leaf)
			i = next
		}
	}
	return f.finish(), nil
}
