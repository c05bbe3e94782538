// Package compiler is used to compile an s-expression abstract syntax tree
// (AST) into the corresponding bytecode.
//
// Compilation is a single recursive pass. Literals become CONST instructions
// that reference a deduplicated constant pool. A list whose head names a
// binary operator compiles its two operands in source order and then emits
// the operator. The whole program is terminated with HALT.
//
// The compiler keeps going after an error so that problems in independent
// sub-expressions are all reported at once. Nothing is returned unless the
// whole tree compiled cleanly.
package compiler

import (
	"fmt"
	"strings"

	"github.com/chrisvm/chris/ast"
	"github.com/chrisvm/chris/bytecode"
	"github.com/chrisvm/chris/errors"
	"github.com/chrisvm/chris/internal/token"
	"github.com/chrisvm/chris/op"
	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"
)

// arithmetic maps operator symbols to their opcodes.
var arithmetic = map[string]op.Code{
	"+": op.Add,
	"-": op.Sub,
	"*": op.Mul,
	"/": op.Div,
}

// Option is a configuration function for a Compiler.
type Option func(*Compiler)

// WithName sets the diagnostic name of the compiled code unit.
func WithName(name string) Option {
	return func(c *Compiler) {
		c.name = name
	}
}

// WithFilename sets the source filename, used for error messages.
func WithFilename(filename string) Option {
	return func(c *Compiler) {
		c.filename = filename
	}
}

// WithSource sets the original source code, used for error messages.
func WithSource(source string) Option {
	return func(c *Compiler) {
		c.source = source
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Compiler) {
		c.logger = logger
	}
}

// Compiler is used to compile an AST into bytecode. A Compiler may be reused;
// each call to Compile starts from an empty code unit.
type Compiler struct {
	name     string
	filename string
	source   string
	logger   zerolog.Logger

	// State of the current compilation
	current  *Code
	errs     *multierror.Error
	overflow bool
}

// New creates and returns a new Compiler.
func New(options ...Option) *Compiler {
	c := &Compiler{
		name:   bytecode.DefaultName,
		logger: zerolog.Nop(),
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

// Compile compiles the given AST node and returns immutable bytecode.
func Compile(node ast.Node, options ...Option) (*bytecode.Code, error) {
	return New(options...).Compile(node)
}

// Compile compiles the given AST node. On failure the returned error holds
// one *errors.CompileError per problem found and no code is returned.
func (c *Compiler) Compile(node ast.Node) (*bytecode.Code, error) {
	if node == nil {
		return nil, fmt.Errorf("compile error: nil node")
	}
	source := c.source
	if source == "" {
		source = node.String()
	}
	c.current = newCode(c.name, c.filename, source)
	c.errs = nil
	c.overflow = false

	c.compile(node)
	c.emit(op.Halt)

	if err := c.errs.ErrorOrNil(); err != nil {
		c.logger.Debug().
			Str("name", c.name).
			Int("errors", c.errs.Len()).
			Msg("compilation failed")
		if c.errs.Len() == 1 {
			return nil, c.errs.Errors[0]
		}
		c.errs.ErrorFormat = formatErrors
		return nil, c.errs
	}
	code := c.current.ToBytecode()
	c.logger.Debug().
		Str("name", code.Name()).
		Int("instructions", code.InstructionCount()).
		Int("constants", code.ConstantCount()).
		Msg("compiled code unit")
	return code, nil
}

func (c *Compiler) compile(node ast.Node) {
	switch node := node.(type) {
	case *ast.Number:
		c.emitConstant(node.Value, node.Pos())
	case *ast.String:
		c.emitConstant(node.Value, node.Pos())
	case *ast.Symbol:
		c.unsupported(errors.E2001, node.Pos(),
			"unsupported construct: symbol %q outside operator position", node.Name)
	case *ast.List:
		c.compileList(node)
	default:
		c.addError(errors.E2004, token.NoPos, "unsupported node type %T", node)
	}
}

func (c *Compiler) compileList(node *ast.List) {
	head := node.Head()
	if head == nil {
		c.unsupported(errors.E2004, node.Pos(), "unsupported construct: empty list")
		return
	}
	sym, ok := head.(*ast.Symbol)
	if !ok {
		c.unsupported(errors.E2004, head.Pos(),
			"unsupported construct: list head must be an operator symbol, got %s", head.String())
		return
	}
	if opcode, ok := arithmetic[sym.Name]; ok {
		if c.compileOperands(sym, node.Args()) {
			c.emit(opcode)
		}
		return
	}
	if cmp, ok := op.CompareOpFromSymbol(sym.Name); ok {
		if c.compileOperands(sym, node.Args()) {
			c.emit(op.Compare, op.Code(cmp))
		}
		return
	}
	c.unsupported(errors.E2002, sym.Pos(), "unsupported operator %q", sym.Name)
}

// compileOperands compiles exactly two operands in source order. It reports
// false if the operator was applied to the wrong number of operands.
func (c *Compiler) compileOperands(sym *ast.Symbol, args []ast.Node) bool {
	if len(args) != 2 {
		c.addError(errors.E2003, sym.Pos(),
			"operator %q expects 2 operands, got %d", sym.Name, len(args))
		return false
	}
	c.compile(args[0])
	c.compile(args[1])
	return true
}

func (c *Compiler) emitConstant(value any, pos token.Position) {
	index, ok := c.constant(value, pos)
	if !ok {
		return
	}
	c.emit(op.Const, op.Code(index))
}

// constant returns the pool index for value, reusing an existing entry of the
// same kind and value when there is one.
func (c *Compiler) constant(value any, pos token.Position) (int, bool) {
	code := c.current
	if index, found := code.findConstant(value); found {
		return index, true
	}
	if len(code.constants) >= MaxConstants {
		if !c.overflow {
			c.overflow = true
			c.addError(errors.E2008, pos,
				"too many constants: a code unit holds at most %d", MaxConstants)
		}
		return 0, false
	}
	code.constants = append(code.constants, value)
	return len(code.constants) - 1, true
}

func (c *Compiler) emit(opcode op.Code, operands ...op.Code) int {
	inst := makeInstruction(opcode, operands...)
	code := c.current
	pos := len(code.instructions)
	code.instructions = append(code.instructions, inst...)
	return pos
}

func makeInstruction(opcode op.Code, operands ...op.Code) []op.Code {
	opInfo := op.GetInfo(opcode)
	if len(operands) != opInfo.OperandCount {
		panic("compile error: wrong operand count")
	}
	instruction := make([]op.Code, 0, 1+opInfo.OperandCount)
	instruction = append(instruction, opcode)
	return append(instruction, operands...)
}

func (c *Compiler) unsupported(code errors.ErrorCode, pos token.Position, format string, args ...any) {
	err := c.formatError(code, fmt.Sprintf(format, args...), pos)
	err.Unsupported = true
	c.errs = multierror.Append(c.errs, err)
}

func (c *Compiler) addError(code errors.ErrorCode, pos token.Position, format string, args ...any) {
	c.errs = multierror.Append(c.errs, c.formatError(code, fmt.Sprintf(format, args...), pos))
}

func (c *Compiler) formatError(code errors.ErrorCode, msg string, pos token.Position) *errors.CompileError {
	filename := c.filename
	if filename == "" {
		filename = "unknown"
	}
	return &errors.CompileError{
		Code:       code,
		Message:    msg,
		Filename:   filename,
		Line:       pos.LineNumber(),
		Column:     pos.ColumnNumber(),
		SourceLine: c.getSourceLine(pos.Line),
	}
}

// getSourceLine retrieves a specific line from the source code.
// lineNum is 0-indexed.
func (c *Compiler) getSourceLine(lineNum int) string {
	source := c.current.source
	if source == "" {
		return ""
	}
	lines := strings.Split(source, "\n")
	if lineNum < 0 || lineNum >= len(lines) {
		return ""
	}
	return lines[lineNum]
}

// formatErrors renders several compile errors one per line.
func formatErrors(errs []error) string {
	msgs := make([]string, 0, len(errs))
	for _, err := range errs {
		if ce, ok := err.(*errors.CompileError); ok {
			msgs = append(msgs, fmt.Sprintf("%s: %s", ce.Location(), ce.Message))
			continue
		}
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("%d compile errors:\n\t%s", len(errs), strings.Join(msgs, "\n\t"))
}
