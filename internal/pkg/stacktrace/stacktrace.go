// Package stacktrace trims raw goroutine stacks down to this module's frames.
package stacktrace

import "strings"

// InternalPaths returns the "internal/...go:line" frames of a debug.Stack dump.
func InternalPaths(stack []byte) []string {
	lines := strings.Split(string(stack), "\n")
	paths := make([]string, 0, len(lines))

	for _, line := range lines {
		line = strings.TrimSpace(line)
		idx := strings.Index(line, ".go:")
		if idx == -1 {
			continue
		}

		internalIdx := strings.Index(line, "/internal/")
		if internalIdx == -1 || internalIdx > idx {
			continue
		}

		end := strings.IndexByte(line[idx:], ' ')
		if end == -1 {
			end = len(line)
		} else {
			end += idx
		}

		paths = append(paths, line[internalIdx+1:end])
	}

	return paths
}
