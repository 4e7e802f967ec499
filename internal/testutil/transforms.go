package testutil

import (
	"sync/atomic"

	"github.com/agbru/fourierbench/internal/transform"
)

// Identity returns an implementation labelled name whose output is a copy of
// its input.
func Identity(name string) transform.Implementation {
	return transform.Func(name, func(in []complex128) ([]complex128, error) {
		return append([]complex128{}, in...), nil
	})
}

// Failing returns an implementation labelled name that always fails with err.
func Failing(name string, err error) transform.Implementation {
	return transform.Func(name, func([]complex128) ([]complex128, error) {
		return nil, err
	})
}

// Counting wraps impl and counts the number of Transform calls.
type Counting struct {
	transform.Implementation
	calls atomic.Int64
}

// NewCounting wraps impl in a call counter.
func NewCounting(impl transform.Implementation) *Counting {
	return &Counting{Implementation: impl}
}

// Transform forwards to the wrapped implementation.
func (c *Counting) Transform(in []complex128) ([]complex128, error) {
	c.calls.Add(1)
	return c.Implementation.Transform(in)
}

// Calls returns the number of Transform calls so far.
func (c *Counting) Calls() int64 {
	return c.calls.Load()
}
