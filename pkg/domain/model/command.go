package model

import "strings"

// CommandResult is the structured output of a git subprocess
type CommandResult struct {
	Args     []string
	ExitCode int
	Stdout   string
	Stderr   string
}

// Success reports a zero exit code
func (x *CommandResult) Success() bool {
	return x != nil && x.ExitCode == 0
}

// StdoutLines returns non-empty stdout lines
func (x *CommandResult) StdoutLines() []string {
	if x == nil {
		return nil
	}
	return splitLines(x.Stdout)
}

// StderrLines returns non-empty stderr lines
func (x *CommandResult) StderrLines() []string {
	if x == nil {
		return nil
	}
	return splitLines(x.Stderr)
}

// Contains reports whether either stream contains s, ignoring case
func (x *CommandResult) Contains(s string) bool {
	if x == nil {
		return false
	}
	needle := strings.ToLower(s)
	return strings.Contains(strings.ToLower(x.Stdout), needle) ||
		strings.Contains(strings.ToLower(x.Stderr), needle)
}

func splitLines(s string) []string {
	var lines []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}
