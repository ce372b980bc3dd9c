// Package geometry computes the scroll adjustments needed to bring a
// rectangle into view across a chain of nested scrollable containers.
//
// The solver is independent of any document model: callers describe
// their node tree through the Layout interface and apply the returned
// Computations, innermost container first.
package geometry
