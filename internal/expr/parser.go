package expr

import (
	"fmt"
	"strings"

	"github.com/pipegen/pipegen/internal/ir"
)

// ParseError reports a syntax problem with the character offset where it was
// detected. Offset is -1 when no position applies (for example empty input).
type ParseError struct {
	Message string
	Offset  int
}

// Error implements the error interface for ParseError.
func (e *ParseError) Error() string {
	if e.Offset < 0 {
		return e.Message
	}
	return fmt.Sprintf("%s at position %d", e.Message, e.Offset)
}

// parser is a recursive descent parser over a token stream.
//
// Grammar, tightest binding first:
//
//	expression  := sequence
//	sequence    := conditional (ARROW conditional)*
//	conditional := parallel (CONDITIONAL LPAREN expression (COMMA expression)? RPAREN)*
//	parallel    := primary (PARALLEL primary)*
//	primary     := NAME | LPAREN expression RPAREN
type parser struct {
	tokens []Token
	pos    int
}

func (p *parser) current() Token {
	return p.tokens[p.pos]
}

func (p *parser) advance() {
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
}

func (p *parser) expect(kind TokenKind) (Token, error) {
	tok := p.current()
	if tok.Kind != kind {
		return Token{}, &ParseError{
			Message: fmt.Sprintf("expected %s, got %s", kind, tok.Kind),
			Offset:  tok.Offset,
		}
	}
	p.advance()
	return tok, nil
}

// Parse tokenizes and parses an expression into a canonical ir tree.
// Directly nested same-kind compositions are flattened, every leaf starts
// with ir.KindUnknown, and leftover tokens after the expression are an error.
func Parse(src string) (ir.Node, error) {
	if strings.TrimSpace(src) == "" {
		return nil, &ParseError{Message: "empty expression", Offset: -1}
	}

	tokens, err := Tokenize(src)
	if err != nil {
		return nil, err
	}

	p := &parser{tokens: tokens}
	node, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	if tok := p.current(); tok.Kind != TokenEnd {
		return nil, &ParseError{
			Message: fmt.Sprintf("unexpected token %s", tok.Kind),
			Offset:  tok.Offset,
		}
	}

	return node, nil
}

func (p *parser) parseExpression() (ir.Node, error) {
	return p.parseSequence()
}

// parseSequence left-folds repeated arrows into one Sequence. A single
// operand collapses: no wrapper node is created.
func (p *parser) parseSequence() (ir.Node, error) {
	first, err := p.parseConditional()
	if err != nil {
		return nil, err
	}
	children := []ir.Node{first}

	for p.current().Kind == TokenArrow {
		p.advance()
		next, err := p.parseConditional()
		if err != nil {
			return nil, err
		}
		children = append(children, next)
	}

	if len(children) == 1 {
		return children[0], nil
	}
	seq, err := ir.NewSequence(children)
	if err != nil {
		return nil, err
	}
	return ir.FlattenSequence(seq), nil
}

// parseConditional handles the branch operator. The left operand must be
// exactly a resource leaf; its name becomes the condition key read off the
// running result.
func (p *parser) parseConditional() (ir.Node, error) {
	node, err := p.parseParallel()
	if err != nil {
		return nil, err
	}

	for p.current().Kind == TokenConditional {
		opTok := p.current()
		p.advance()

		leaf, ok := node.(*ir.Resource)
		if !ok {
			return nil, &ParseError{
				Message: "conditional operator requires a condition name before →?",
				Offset:  opTok.Offset,
			}
		}

		if _, err := p.expect(TokenLParen); err != nil {
			return nil, err
		}

		trueBranch, err := p.parseExpression()
		if err != nil {
			return nil, err
		}

		var falseBranch ir.Node
		if p.current().Kind == TokenComma {
			p.advance()
			falseBranch, err = p.parseExpression()
			if err != nil {
				return nil, err
			}
		}

		if _, err := p.expect(TokenRParen); err != nil {
			return nil, err
		}

		node, err = ir.NewBranch(leaf.Name, trueBranch, falseBranch)
		if err != nil {
			return nil, err
		}
	}

	return node, nil
}

// parseParallel left-folds the concurrent operator, with the same
// single-operand collapse rule as parseSequence.
func (p *parser) parseParallel() (ir.Node, error) {
	first, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	children := []ir.Node{first}

	for p.current().Kind == TokenParallel {
		p.advance()
		next, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}
		children = append(children, next)
	}

	if len(children) == 1 {
		return children[0], nil
	}
	con, err := ir.NewConcurrent(children)
	if err != nil {
		return nil, err
	}
	return ir.FlattenConcurrent(con), nil
}

func (p *parser) parsePrimary() (ir.Node, error) {
	tok := p.current()

	switch tok.Kind {
	case TokenLParen:
		p.advance()
		node, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokenRParen); err != nil {
			return nil, err
		}
		return node, nil

	case TokenName:
		p.advance()
		// The resource kind is not known yet; the resolver fills it in.
		return ir.NewResource(tok.Text, ir.KindUnknown)
	}

	return nil, &ParseError{
		Message: fmt.Sprintf("unexpected token %s", tok.Kind),
		Offset:  tok.Offset,
	}
}
