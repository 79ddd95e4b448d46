package command

import (
	"sort"
	"strings"
)

// Registry returns all REPL commands keyed by name and alias.
func Registry() map[string]Command {
	commands := []Command{
		{Name: "code", Usage: "code load <file> | code show | code reset", Summary: "load, print or reset the buffer", MinArgs: 1, MaxArgs: 2},
		{Name: "lang", Aliases: []string{"language"}, Usage: "lang [cpp|c|java|python]", Summary: "show or switch the language", MinArgs: 0, MaxArgs: 1},
		{Name: "theme", Usage: "theme [name]", Summary: "show or set the editor theme", MinArgs: 0, MaxArgs: 1},
		{Name: "font", Usage: "font <8-32>", Summary: "set the editor font size", MinArgs: 1, MaxArgs: 1},
		{Name: "tab", Usage: "tab <2|4|6|8>", Summary: "set the indent width", MinArgs: 1, MaxArgs: 1},
		{Name: "samples", Usage: "samples", Summary: "list the problem's sample cases", MinArgs: 0, MaxArgs: 0},
		{Name: "sample", Usage: "sample <index>", Summary: "copy a sample into the debug input", MinArgs: 1, MaxArgs: 1},
		{Name: "input", Usage: "input <text|@file>", Summary: "set a custom debug input", MinArgs: 1, MaxArgs: -1},
		{Name: "expect", Usage: "expect <text|@file>", Summary: "set the expected output", MinArgs: 1, MaxArgs: -1},
		{Name: "run", Aliases: []string{"debug"}, Usage: "run", Summary: "debug the buffer against the input", MinArgs: 0, MaxArgs: 0},
		{Name: "submit", Usage: "submit", Summary: "submit the buffer for grading", MinArgs: 0, MaxArgs: 0},
		{Name: "result", Usage: "result [input|output]", Summary: "show the debug panel", MinArgs: 0, MaxArgs: 1},
		{Name: "layout", Usage: "layout toggle | layout drag <from> <to> | layout viewport <width> | layout show", Summary: "control the side panel", MinArgs: 1, MaxArgs: 3},
		{Name: "open", Usage: "open <problem-id>", Summary: "load another problem", MinArgs: 1, MaxArgs: 1},
		{Name: "help", Usage: "help", Summary: "show this help", MinArgs: 0, MaxArgs: 0},
		{Name: "exit", Aliases: []string{"quit"}, Usage: "exit", Summary: "leave the workspace", MinArgs: 0, MaxArgs: 0},
	}

	registry := make(map[string]Command, len(commands)*2)
	for _, cmd := range commands {
		registry[cmd.Name] = cmd
		for _, alias := range cmd.Aliases {
			registry[strings.ToLower(alias)] = cmd
		}
	}
	return registry
}

// List returns each command once, sorted by name.
func List(registry map[string]Command) []Command {
	seen := make(map[string]bool, len(registry))
	out := make([]Command, 0, len(registry))
	for _, cmd := range registry {
		if seen[cmd.Name] {
			continue
		}
		seen[cmd.Name] = true
		out = append(out, cmd)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
