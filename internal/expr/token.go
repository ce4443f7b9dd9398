// Package expr implements the operator-expression language for pipelines:
// `→` composes sequentially, `⇄` composes concurrently, and `→?` branches on
// a field of the running result. It provides a tokenizer and a recursive
// descent parser producing an ir tree.
package expr

import "fmt"

// TokenKind identifies the lexical class of a token.
type TokenKind int

const (
	// TokenName is a resource name: a maximal run of letters, digits and
	// underscores.
	TokenName TokenKind = iota
	// TokenArrow is the sequence operator `→`.
	TokenArrow
	// TokenParallel is the concurrent operator `⇄`.
	TokenParallel
	// TokenConditional is the two-character branch operator `→?`.
	TokenConditional
	// TokenComma separates the branches of a conditional.
	TokenComma
	// TokenLParen and TokenRParen group sub-expressions.
	TokenLParen
	TokenRParen
	// TokenEnd terminates every token stream.
	TokenEnd
)

var tokenKindNames = map[TokenKind]string{
	TokenName:        "NAME",
	TokenArrow:       "ARROW",
	TokenParallel:    "PARALLEL",
	TokenConditional: "CONDITIONAL",
	TokenComma:       "COMMA",
	TokenLParen:      "LPAREN",
	TokenRParen:      "RPAREN",
	TokenEnd:         "END",
}

// String returns the upper-case name of the token kind.
func (k TokenKind) String() string {
	if name, ok := tokenKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("TokenKind(%d)", int(k))
}

// Token is one lexical unit of an expression. Tokens are created only by
// Tokenize and never mutated. Offset is the character position in the input.
type Token struct {
	Kind   TokenKind
	Text   string
	Offset int
}

// String renders the token for error messages and debugging.
func (t Token) String() string {
	return fmt.Sprintf("Token(%s, %q, offset=%d)", t.Kind, t.Text, t.Offset)
}
