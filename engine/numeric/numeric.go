// Package numeric holds the small calculations behind a few built-in
// commands and the status bar.
package numeric

import (
	"context"
	"errors"
	"math/big"
	"strings"
)

const defaultTolerance = 1e-8

// ErrTimeout is returned when a calculation outlives its context.
var ErrTimeout = errors.New("calculation exceeded the time limit")

// Fibonacci returns the n-th element of the sequence 0, 1, 1, 2, 3, ...
// (n starts at 1). The context is checked on every iteration.
func Fibonacci(ctx context.Context, n int) (*big.Int, error) {
	if n < 1 {
		return nil, errors.New("fibonacci: n must be positive")
	}
	first, second := big.NewInt(0), big.NewInt(1)
	for i := 1; i < n; i++ {
		if ctx.Err() != nil {
			return nil, ErrTimeout
		}
		first.Add(first, second)
		first, second = second, first
	}
	return first, nil
}

// BreakColumns inserts a backslash and newline so that no line of s is
// longer than cols characters. Each broken line ends with the backslash in
// place of its last character, which moves to the next line.
func BreakColumns(s string, cols int) string {
	runes := []rune(s)
	if cols < 2 || len(runes) <= cols {
		return s
	}
	var b strings.Builder
	line := make([]rune, 0, cols)
	for _, r := range runes {
		if len(line) == cols {
			last := line[len(line)-1]
			b.WriteString(string(line[:len(line)-1]))
			b.WriteString("\\\n")
			line = append(line[:0], last)
		}
		line = append(line, r)
	}
	b.WriteString(string(line))
	return b.String()
}

// FuzzyCompare compares two floats, treating values within 1e-8 as equal.
func FuzzyCompare(a, b float64) int {
	switch {
	case a+defaultTolerance < b:
		return -1
	case a-defaultTolerance > b:
		return 1
	default:
		return 0
	}
}

// WeightedAverage moves from first toward second by fraction (0..1).
func WeightedAverage(first, second, fraction float64) float64 {
	return first + (second-first)*fraction
}
