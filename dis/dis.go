// Package dis supports analysis of bytecode by disassembling it.
// This works with the opcodes defined in the `op` package and uses the
// InstructionIter type from the `bytecode` package.
package dis

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chrisvm/chris/bytecode"
	"github.com/chrisvm/chris/object"
	"github.com/chrisvm/chris/op"
	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
)

// Instruction represents a single bytecode instruction and its operands.
type Instruction struct {
	Offset     int       `json:"offset"`
	Name       string    `json:"name"`
	Opcode     op.Code   `json:"opcode"`
	Operands   []int     `json:"operands,omitempty"`
	Annotation string    `json:"annotation,omitempty"`
	Constant   any       `json:"constant,omitempty"`
}

// Disassemble returns a parsed representation of the given bytecode.
func Disassemble(code *bytecode.Code) ([]Instruction, error) {
	var instructions []Instruction
	iter := bytecode.NewInstructionIter(code)
	for {
		offset := iter.Offset()
		val, ok := iter.Next()
		if !ok {
			break
		}
		info := op.GetInfo(val[0])
		name := info.Name
		if name == "" {
			name = fmt.Sprintf("UNKNOWN_0x%02X", uint8(val[0]))
		}
		if len(val) < 1+info.OperandCount {
			return nil, fmt.Errorf("missing operand for %s at offset %d", name, offset)
		}
		var constant any
		var annotation string
		switch val[0] {
		case op.Const:
			var err error
			constant, err = getConstantValue(code, int(val[1]))
			if err != nil {
				return nil, err
			}
			annotation = formatConstant(constant)
		case op.Compare:
			annotation = op.CompareOpType(val[1]).String()
			if annotation == "" {
				annotation = fmt.Sprintf("invalid comparator %d", uint8(val[1]))
			}
		}
		var operands []int
		for _, o := range val[1:] {
			operands = append(operands, int(o))
		}
		instructions = append(instructions, Instruction{
			Offset:     offset,
			Name:       name,
			Opcode:     val[0],
			Operands:   operands,
			Annotation: annotation,
			Constant:   constant,
		})
	}
	return instructions, nil
}

func getConstantValue(code *bytecode.Code, index int) (any, error) {
	if index < 0 || index >= code.ConstantCount() {
		return nil, fmt.Errorf("constant index %d out of range", index)
	}
	return code.ConstantAt(index), nil
}

func formatConstant(c any) string {
	switch c := c.(type) {
	case float64:
		return object.FormatNumber(c)
	case string:
		if len(c) > 80 {
			c = c[:77] + "..."
		}
		return fmt.Sprintf("%q", c)
	default:
		return fmt.Sprintf("%v", c)
	}
}

var (
	colorOpcode  = color.New(color.Bold)
	colorUnknown = color.New(color.FgRed, color.Bold)
	colorNumber  = color.New(color.FgYellow)
	colorString  = color.New(color.FgGreen)
	colorCompare = color.New(color.FgHiCyan)
)

type cell struct {
	text  string
	paint *color.Color
}

type alignment int

const (
	alignLeft alignment = iota
	alignRight
	alignCenter
)

var (
	headerAlignment = []alignment{alignCenter, alignCenter, alignCenter, alignCenter}
	columnAlignment = []alignment{alignRight, alignLeft, alignRight, alignLeft}
)

// Print a string representation of the given instructions to the given writer.
// Colors follow the fatih/color global settings.
func Print(instructions []Instruction, writer io.Writer) {
	header := []cell{{text: "OFFSET"}, {text: "OPCODE"}, {text: "OPERANDS"}, {text: "INFO"}}
	rows := make([][]cell, 0, len(instructions))
	for _, instr := range instructions {
		opcode := cell{text: instr.Name, paint: colorOpcode}
		if !op.IsKnown(instr.Opcode) {
			opcode.paint = colorUnknown
		}
		info := cell{text: instr.Annotation}
		switch instr.Constant.(type) {
		case float64:
			info.paint = colorNumber
		case string:
			info.paint = colorString
		default:
			if instr.Opcode == op.Compare {
				info.paint = colorCompare
			}
		}
		rows = append(rows, []cell{
			{text: fmt.Sprintf("%d", instr.Offset)},
			opcode,
			{text: formatOperands(instr.Operands)},
			info,
		})
	}

	widths := make([]int, len(header))
	for i, c := range header {
		widths[i] = runewidth.StringWidth(c.text)
	}
	for _, row := range rows {
		for i, c := range row {
			if w := runewidth.StringWidth(c.text); w > widths[i] {
				widths[i] = w
			}
		}
	}

	var sb strings.Builder
	writeBorder(&sb, widths)
	writeRow(&sb, header, widths, headerAlignment)
	writeBorder(&sb, widths)
	for _, row := range rows {
		writeRow(&sb, row, widths, columnAlignment)
	}
	writeBorder(&sb, widths)
	io.WriteString(writer, sb.String())
}

func writeBorder(sb *strings.Builder, widths []int) {
	sb.WriteString("+")
	for _, w := range widths {
		sb.WriteString(strings.Repeat("-", w+2))
		sb.WriteString("+")
	}
	sb.WriteString("\n")
}

func writeRow(sb *strings.Builder, cells []cell, widths []int, align []alignment) {
	sb.WriteString("|")
	for i, c := range cells {
		sb.WriteString(" ")
		sb.WriteString(pad(c, widths[i], align[i]))
		sb.WriteString(" |")
	}
	sb.WriteString("\n")
}

// pad aligns a cell within width columns. Width is measured on the plain
// text so color escapes do not skew the layout.
func pad(c cell, width int, align alignment) string {
	text := c.text
	if c.paint != nil && text != "" {
		text = c.paint.Sprint(text)
	}
	gap := width - runewidth.StringWidth(c.text)
	switch align {
	case alignRight:
		return strings.Repeat(" ", gap) + text
	case alignCenter:
		left := gap / 2
		return strings.Repeat(" ", left) + text + strings.Repeat(" ", gap-left)
	default:
		return text + strings.Repeat(" ", gap)
	}
}

func formatOperands(operands []int) string {
	parts := make([]string, 0, len(operands))
	for _, o := range operands {
		parts = append(parts, strconv.Itoa(o))
	}
	return strings.Join(parts, ", ")
}
