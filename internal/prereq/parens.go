// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package prereq

import (
	"github.com/emirpasic/gods/stacks/arraystack"
)

// matchParens pairs every open parenthesis with the close parenthesis that
// returns the nesting depth to its level. The result maps a token index to
// the index of its partner; entries for other tokens are -1.
func matchParens(toks []Token) ([]int, error) {
	match := make([]int, len(toks))
	for i := range match {
		match[i] = -1
	}

	open := arraystack.New()
	for i, t := range toks {
		switch t.Kind {
		case TokOpenParen:
			open.Push(i)
		case TokCloseParen:
			v, ok := open.Pop()
			if !ok {
				return nil, errorf(UnbalancedParenthesis, t.Start, "')' without matching '('")
			}
			j := v.(int)
			match[i], match[j] = j, i
		}
	}

	// Report the outermost unclosed parenthesis.
	var unclosed = -1
	for !open.Empty() {
		v, _ := open.Pop()
		unclosed = v.(int)
	}
	if unclosed >= 0 {
		return nil, errorf(UnbalancedParenthesis, toks[unclosed].Start, "'(' without matching ')'")
	}
	return match, nil
}
