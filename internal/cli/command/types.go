package command

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/google/shlex"
)

// Command defines one REPL command.
type Command struct {
	Name    string
	Aliases []string
	Usage   string
	Summary string
	MinArgs int
	MaxArgs int // -1 for unbounded
}

// Invocation is a parsed command line.
type Invocation struct {
	Command Command
	Args    []string
}

// Arg returns the i-th argument or "".
func (inv Invocation) Arg(i int) string {
	if i < 0 || i >= len(inv.Args) {
		return ""
	}
	return inv.Args[i]
}

// Rest joins the arguments from i on with single spaces.
func (inv Invocation) Rest(i int) string {
	if i >= len(inv.Args) {
		return ""
	}
	return strings.Join(inv.Args[i:], " ")
}

// UsageError reports a malformed invocation.
type UsageError struct {
	Usage string
}

func (e *UsageError) Error() string {
	return "usage: " + e.Usage
}

// Parse tokenizes line and resolves it against the registry.
func Parse(registry map[string]Command, line string) (Invocation, error) {
	tokens, err := shlex.Split(line)
	if err != nil {
		return Invocation{}, fmt.Errorf("parse command failed: %w", err)
	}
	if len(tokens) == 0 {
		return Invocation{}, fmt.Errorf("empty command")
	}
	cmd, ok := registry[strings.ToLower(tokens[0])]
	if !ok {
		return Invocation{}, fmt.Errorf("unknown command: %s", tokens[0])
	}
	args := tokens[1:]
	if len(args) < cmd.MinArgs || (cmd.MaxArgs >= 0 && len(args) > cmd.MaxArgs) {
		return Invocation{}, &UsageError{Usage: cmd.Usage}
	}
	return Invocation{Command: cmd, Args: args}, nil
}

func ParseInt64(value string) (int64, error) {
	return strconv.ParseInt(strings.TrimSpace(value), 10, 64)
}

func ParseInt(value string) (int, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(value), 10, 32)
	return int(n), err
}

func ParseFloat(value string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(value), 64)
}

func ReadFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read file failed: %w", err)
	}
	return string(data), nil
}

// TextArg resolves "@path" to the file's content; any other value is used
// as-is with the escapes \n and \t expanded.
func TextArg(value string) (string, error) {
	if strings.HasPrefix(value, "@") && len(value) > 1 {
		return ReadFile(value[1:])
	}
	return strings.NewReplacer(`\n`, "\n", `\t`, "\t").Replace(value), nil
}
