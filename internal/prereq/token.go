// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package prereq

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/timtadh/lexmachine"
	"github.com/timtadh/lexmachine/machines"
)

// TokenKind identifies a lexical category of a prerequisite description.
type TokenKind int

const (
	TokEnd TokenKind = iota
	TokOpenParen
	TokCloseParen
	TokColon
	TokAnd
	TokOr
	TokOrBetter
	TokConcurrently
	TokWord
)

var tokenNames = [...]string{
	TokEnd:          "End",
	TokOpenParen:    "OpenParen",
	TokCloseParen:   "CloseParen",
	TokColon:        "Colon",
	TokAnd:          "And",
	TokOr:           "Or",
	TokOrBetter:     "OrBetter",
	TokConcurrently: "Concurrently",
	TokWord:         "Word",
}

func (k TokenKind) String() string {
	if k >= 0 && int(k) < len(tokenNames) {
		return tokenNames[k]
	}
	return fmt.Sprintf("TokenKind(%d)", int(k))
}

// Token is one lexeme with its byte span [Start, End) in the input.
type Token struct {
	Kind  TokenKind
	Start int
	End   int
}

// Text returns the token's lexeme within src.
func (t Token) Text(src string) string {
	return src[t.Start:t.End]
}

const ws = `( |\t|\r|\n)+`

// Patterns are added in priority order: on equal-length matches the first
// one wins, so keywords beat Word only when they are the whole word.
var patterns = []struct {
	regex string
	kind  TokenKind
}{
	{`\(`, TokOpenParen},
	{`\)`, TokCloseParen},
	{`:`, TokColon},
	{`[Oo][Rr]` + ws + `[Bb][Ee][Tt][Tt][Ee][Rr]`, TokOrBetter},
	{`[Cc][Aa][Nn]` + ws + `[Bb][Ee]` + ws + `[Tt][Aa][Kk][Ee][Nn]` + ws + `[Cc][Oo][Nn][Cc][Uu][Rr][Rr][Ee][Nn][Tt][Ll][Yy]`, TokConcurrently},
	{`[Aa][Nn][Dd]`, TokAnd},
	{`[Oo][Rr]`, TokOr},
	{`[^ \t\r\n\(\):,;]+`, TokWord},
}

var (
	lexerOnce sync.Once
	lexer     *lexmachine.Lexer
	lexerErr  error
)

func skip(*lexmachine.Scanner, *machines.Match) (interface{}, error) {
	return nil, nil
}

func makeToken(kind TokenKind) lexmachine.Action {
	return func(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
		return s.Token(int(kind), nil, m), nil
	}
}

// compiledLexer builds the DFA once. The compiled lexer is only read
// afterwards, so scanners may be created from several goroutines.
func compiledLexer() (*lexmachine.Lexer, error) {
	lexerOnce.Do(func() {
		l := lexmachine.NewLexer()
		for _, p := range patterns {
			l.Add([]byte(p.regex), makeToken(p.kind))
		}
		l.Add([]byte(`( |\t|\r|\n|,|;)+`), skip)
		if err := l.Compile(); err != nil {
			lexerErr = fmt.Errorf("compiling prerequisite lexer: %w", err)
			return
		}
		lexer = l
	})
	return lexer, lexerErr
}

// nbsp is U+00A0, which scraped catalog text uses between words. It is
// two bytes in UTF-8, so replacing it with two spaces keeps offsets.
const nbsp = "\u00a0"

// Tokenize splits src into tokens. The returned slice always ends with a
// TokEnd token positioned at len(src). Commas, semicolons and no-break
// spaces separate tokens like whitespace.
func Tokenize(src string) ([]Token, error) {
	l, err := compiledLexer()
	if err != nil {
		return nil, err
	}
	scanned := strings.ReplaceAll(src, nbsp, "  ")
	scanner, err := l.Scanner([]byte(scanned))
	if err != nil {
		return nil, fmt.Errorf("creating scanner: %w", err)
	}

	var toks []Token
	for {
		tok, err, eos := scanner.Next()
		if eos {
			break
		}
		if err != nil {
			var ui *machines.UnconsumedInput
			if errors.As(err, &ui) {
				end := max(ui.StartTC, min(ui.FailTC, len(src)))
				return nil, errorf(MalformedClause, ui.StartTC, "unrecognized input %q", src[ui.StartTC:end])
			}
			return nil, fmt.Errorf("scanning: %w", err)
		}
		t := tok.(*lexmachine.Token)
		toks = append(toks, Token{
			Kind:  TokenKind(t.Type),
			Start: t.TC,
			End:   t.TC + len(t.Lexeme),
		})
	}
	toks = splitOrBetter(scanned, toks)
	return append(toks, Token{Kind: TokEnd, Start: len(src), End: len(src)}), nil
}

// splitOrBetter undoes an OrBetter match that ends inside a longer word,
// as in "C or betterx": it becomes Or followed by the word "betterx".
func splitOrBetter(src string, toks []Token) []Token {
	const better = len("better")
	for i := 0; i+1 < len(toks); i++ {
		t, next := toks[i], toks[i+1]
		if t.Kind != TokOrBetter || next.Kind != TokWord || next.Start != t.End || !isWordByte(src[next.Start]) {
			continue
		}
		toks[i] = Token{Kind: TokOr, Start: t.Start, End: t.Start + len("or")}
		toks[i+1] = Token{Kind: TokWord, Start: t.End - better, End: next.End}
	}
	return toks
}

func isWordByte(b byte) bool {
	return b == '_' || b >= 0x80 ||
		('0' <= b && b <= '9') || ('a' <= b && b <= 'z') || ('A' <= b && b <= 'Z')
}
