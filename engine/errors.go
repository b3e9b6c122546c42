package engine

import (
	"fmt"
	"strings"
)

// CircularDependencyError reports a cycle in the system dependency graph.
// Cycle lists every system on the cycle in traversal order, starting and
// ending at the revisited node's position.
type CircularDependencyError struct {
	Cycle []string
}

func (e *CircularDependencyError) Error() string {
	return fmt.Sprintf("circular system dependency: %s", strings.Join(e.Cycle, " -> "))
}

// MissingDependencyError reports a system whose declared dependency was never
// registered.
type MissingDependencyError struct {
	Component string
	Missing   string
}

func (e *MissingDependencyError) Error() string {
	return fmt.Sprintf("system %q depends on unregistered system %q", e.Component, e.Missing)
}
