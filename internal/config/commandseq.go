package config

import (
	"fmt"

	shellwords "github.com/mattn/go-shellwords"
	"gopkg.in/yaml.v3"
)

// CommandSeq is a non-empty command line: the first token is the program,
// the rest are its arguments.
type CommandSeq []string

// NewCommandSeq validates a token list.
func NewCommandSeq(tokens []string) (CommandSeq, error) {
	if len(tokens) == 0 {
		return nil, fmt.Errorf("command requires at least one element")
	}
	return CommandSeq(tokens), nil
}

// ParseCommandSeq splits a shell-style command string into tokens.
func ParseCommandSeq(s string) (CommandSeq, error) {
	tokens, err := shellwords.Parse(s)
	if err != nil {
		return nil, fmt.Errorf("parsing command %q: %w", s, err)
	}
	return NewCommandSeq(tokens)
}

// Program returns the executable token.
func (c CommandSeq) Program() string {
	return c[0]
}

// Args returns the argument tokens.
func (c CommandSeq) Args() []string {
	return c[1:]
}

// UnmarshalYAML accepts either a single shell-style string or a sequence of
// tokens.
func (c *CommandSeq) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var s string
		if err := value.Decode(&s); err != nil {
			return err
		}
		seq, err := ParseCommandSeq(s)
		if err != nil {
			return err
		}
		*c = seq
		return nil
	case yaml.SequenceNode:
		var tokens []string
		if err := value.Decode(&tokens); err != nil {
			return err
		}
		seq, err := NewCommandSeq(tokens)
		if err != nil {
			return err
		}
		*c = seq
		return nil
	default:
		return fmt.Errorf("command must be a string or a sequence of strings")
	}
}
