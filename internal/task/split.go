// Package task runs the user command the agent triggers after a change has
// been merged into the workspace.
package task

import "strings"

// Split breaks a command line on whitespace into a program and its
// arguments. There is no quoting or escaping: `sh -c "a b"` yields the
// arguments `-c`, `"a` and `b"`. ok is false for a blank line.
func Split(commandLine string) (program string, args []string, ok bool) {
	fields := strings.Fields(commandLine)
	if len(fields) == 0 {
		return "", nil, false
	}
	return fields[0], fields[1:], true
}
