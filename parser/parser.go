// Package parser reads s-expression source into an abstract syntax tree.
//
// The input must contain exactly one top-level expression.
package parser

import (
	"context"
	"fmt"
	"strconv"

	"github.com/chrisvm/chris/ast"
	"github.com/chrisvm/chris/errors"
	"github.com/chrisvm/chris/internal/lexer"
	"github.com/chrisvm/chris/internal/token"
)

// DefaultMaxDepth is the default maximum list nesting depth.
const DefaultMaxDepth = 500

// Option is a configuration function for a Parser.
type Option func(*Parser)

// WithFilename sets the file name reported in positions and errors.
func WithFilename(filename string) Option {
	return func(p *Parser) {
		p.filename = filename
	}
}

// WithMaxDepth sets the maximum nesting depth for the parser.
// This prevents stack overflow on deeply nested input.
func WithMaxDepth(depth int) Option {
	return func(p *Parser) {
		p.maxDepth = depth
	}
}

// Parse the provided input and return the AST of its single expression.
func Parse(ctx context.Context, input string, options ...Option) (ast.Node, error) {
	return New(input, options...).Parse(ctx)
}

// Parser object. A Parser is used once.
type Parser struct {
	ctx      context.Context
	l        *lexer.Lexer
	curToken token.Token
	filename string
	depth    int
	maxDepth int
}

// New returns a Parser for the given input.
func New(input string, options ...Option) *Parser {
	p := &Parser{maxDepth: DefaultMaxDepth}
	for _, opt := range options {
		opt(p)
	}
	p.l = lexer.New(input)
	p.l.SetFilename(p.filename)
	return p
}

// Parse reads one expression followed by the end of input.
func (p *Parser) Parse(ctx context.Context) (ast.Node, error) {
	p.ctx = ctx
	if err := p.nextToken(); err != nil {
		return nil, err
	}
	if p.curToken.Type == token.EOF {
		return nil, p.tokenError(p.curToken, errors.E1003, "expected an expression, got end of file")
	}
	node, err := p.parseNode()
	if err != nil {
		return nil, err
	}
	if err := p.nextToken(); err != nil {
		return nil, err
	}
	if p.curToken.Type != token.EOF {
		return nil, p.tokenError(p.curToken, errors.E1003,
			"unexpected %s after expression", tokenDescription(p.curToken))
	}
	return node, nil
}

func (p *Parser) nextToken() error {
	tok, err := p.l.Next()
	p.curToken = tok
	if err == nil {
		return nil
	}
	// Every lexer error is a syntax error.
	code := errors.E1003
	if lexErr, ok := err.(*lexer.Error); ok {
		code = lexErr.Code
	}
	return p.newError(tok, code, err)
}

func (p *Parser) parseNode() (ast.Node, error) {
	tok := p.curToken
	switch tok.Type {
	case token.NUMBER:
		value, err := strconv.ParseFloat(tok.Literal, 64)
		if err != nil {
			return nil, p.tokenError(tok, errors.E1008, "invalid number literal %q", tok.Literal)
		}
		return &ast.Number{ValuePos: tok.StartPosition, Literal: tok.Literal, Value: value}, nil
	case token.STRING:
		return &ast.String{ValuePos: tok.StartPosition, EndPos: tok.EndPosition, Value: tok.Literal}, nil
	case token.SYMBOL:
		return &ast.Symbol{NamePos: tok.StartPosition, Name: tok.Literal}, nil
	case token.LPAREN:
		return p.parseList()
	default:
		return nil, p.tokenError(tok, errors.E1001, "unexpected %s", tokenDescription(tok))
	}
}

func (p *Parser) parseList() (ast.Node, error) {
	lparen := p.curToken
	p.depth++
	defer func() { p.depth-- }()
	if p.depth > p.maxDepth {
		return nil, p.tokenError(lparen, errors.E1009, "maximum nesting depth exceeded (%d)", p.maxDepth)
	}
	if p.cancelled() {
		return nil, p.newError(lparen, errors.E1003, p.ctx.Err())
	}
	list := &ast.List{Lparen: lparen.StartPosition}
	for {
		if err := p.nextToken(); err != nil {
			return nil, err
		}
		switch p.curToken.Type {
		case token.RPAREN:
			list.Rparen = p.curToken.StartPosition
			return list, nil
		case token.EOF:
			return nil, p.tokenError(lparen, errors.E1007, "unclosed delimiter: expected )")
		}
		item, err := p.parseNode()
		if err != nil {
			return nil, err
		}
		list.Items = append(list.Items, item)
	}
}

func (p *Parser) cancelled() bool {
	if p.ctx == nil {
		return false
	}
	select {
	case <-p.ctx.Done():
		return true
	default:
		return false
	}
}

func (p *Parser) tokenError(tok token.Token, code errors.ErrorCode, format string, args ...any) *ParseError {
	return &ParseError{
		Code:          code,
		Message:       fmt.Sprintf(format, args...),
		File:          p.filename,
		StartPosition: tok.StartPosition,
		EndPosition:   tok.EndPosition,
		SourceCode:    p.l.GetLineText(tok),
	}
}

func (p *Parser) newError(tok token.Token, code errors.ErrorCode, cause error) *ParseError {
	err := p.tokenError(tok, code, "%s", cause.Error())
	err.Cause = cause
	return err
}

func tokenDescription(t token.Token) string {
	switch t.Type {
	case token.EOF:
		return "end of file"
	case token.RPAREN:
		return `")"`
	case token.LPAREN:
		return `"("`
	default:
		return fmt.Sprintf("%s %q", t.Type.Description(), t.Literal)
	}
}
