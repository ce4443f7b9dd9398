package expr

import (
	"fmt"
	"unicode"
)

// LexError reports a character the tokenizer cannot interpret.
type LexError struct {
	Char   rune
	Offset int
}

// Error implements the error interface for LexError.
func (e *LexError) Error() string {
	return fmt.Sprintf("invalid character %q at position %d", e.Char, e.Offset)
}

func isNameRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// Tokenize splits an expression into tokens. Whitespace is skipped, offsets
// count characters, and the returned slice always ends with an End token.
// The two-character conditional operator is matched before the single
// arrow (longest match first). Blank input is the caller's problem: the
// tokenizer happily returns a lone End token for it.
func Tokenize(src string) ([]Token, error) {
	runes := []rune(src)
	var tokens []Token

	pos := 0
	for pos < len(runes) {
		r := runes[pos]

		if unicode.IsSpace(r) {
			pos++
			continue
		}

		if r == '→' && pos+1 < len(runes) && runes[pos+1] == '?' {
			tokens = append(tokens, Token{Kind: TokenConditional, Text: "→?", Offset: pos})
			pos += 2
			continue
		}

		switch r {
		case '→':
			tokens = append(tokens, Token{Kind: TokenArrow, Text: "→", Offset: pos})
			pos++
			continue
		case '⇄':
			tokens = append(tokens, Token{Kind: TokenParallel, Text: "⇄", Offset: pos})
			pos++
			continue
		case ',':
			tokens = append(tokens, Token{Kind: TokenComma, Text: ",", Offset: pos})
			pos++
			continue
		case '(':
			tokens = append(tokens, Token{Kind: TokenLParen, Text: "(", Offset: pos})
			pos++
			continue
		case ')':
			tokens = append(tokens, Token{Kind: TokenRParen, Text: ")", Offset: pos})
			pos++
			continue
		}

		if isNameRune(r) {
			start := pos
			for pos < len(runes) && isNameRune(runes[pos]) {
				pos++
			}
			tokens = append(tokens, Token{Kind: TokenName, Text: string(runes[start:pos]), Offset: start})
			continue
		}

		return nil, &LexError{Char: r, Offset: pos}
	}

	tokens = append(tokens, Token{Kind: TokenEnd, Text: "", Offset: pos})
	return tokens, nil
}
