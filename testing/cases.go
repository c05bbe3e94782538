package testing

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/chrisvm/chris/object"
	"gopkg.in/yaml.v3"
)

// Case is one program and its expected outcome. Exactly one of Number,
// Bool, String or Error must be set. Error matches any error whose message
// contains it.
type Case struct {
	Name   string   `yaml:"name"`
	Source string   `yaml:"source"`
	Number *float64 `yaml:"number,omitempty"`
	Bool   *bool    `yaml:"bool,omitempty"`
	String *string  `yaml:"string,omitempty"`
	Error  string   `yaml:"error,omitempty"`
	Skip   string   `yaml:"skip,omitempty"`

	// Line is the line of the case in its file.
	Line int `yaml:"-"`
}

// ParseCases decodes a case file. Unnamed cases are named case_N.
func ParseCases(data []byte) ([]Case, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if len(doc.Content) == 0 {
		return nil, nil
	}
	seq := doc.Content[0]
	if seq.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("line %d: expected a list of cases", seq.Line)
	}
	cases := make([]Case, 0, len(seq.Content))
	for i, item := range seq.Content {
		var c Case
		if err := item.Decode(&c); err != nil {
			return nil, fmt.Errorf("line %d: %w", item.Line, err)
		}
		c.Line = item.Line
		if c.Name == "" {
			c.Name = fmt.Sprintf("case_%d", i+1)
		}
		if err := c.validate(); err != nil {
			return nil, fmt.Errorf("line %d: %w", c.Line, err)
		}
		cases = append(cases, c)
	}
	return cases, nil
}

func (c *Case) validate() error {
	set := 0
	if c.Number != nil {
		set++
	}
	if c.Bool != nil {
		set++
	}
	if c.String != nil {
		set++
	}
	if c.Error != "" {
		set++
	}
	if set != 1 {
		return fmt.Errorf("case %q must set exactly one of number, bool, string or error", c.Name)
	}
	return nil
}

// want returns the expected value of a case that expects success.
func (c *Case) want() object.Value {
	switch {
	case c.Number != nil:
		return object.NewNumber(*c.Number)
	case c.Bool != nil:
		return object.NewBool(*c.Bool)
	default:
		return object.NewString(*c.String)
	}
}

// check compares an outcome with the expectation. The program error is
// returned as is when the case expects a value.
func (c *Case) check(result object.Value, err error) (*AssertionError, error) {
	if c.Error != "" {
		want := "error containing " + strconv.Quote(c.Error)
		if err == nil {
			return &AssertionError{Message: "expected an error", Got: result.Inspect(), Want: want}, nil
		}
		if !strings.Contains(err.Error(), c.Error) {
			return &AssertionError{Message: "wrong error", Got: err.Error(), Want: want}, nil
		}
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	want := c.want()
	if !result.Equals(want) {
		return &AssertionError{Message: "wrong result", Got: result.Inspect(), Want: want.Inspect()}, nil
	}
	return nil, nil
}
