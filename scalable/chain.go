// Copyright (c) 2014 Dataence, LLC. All rights reserved.
// Copyright (c) 2020 Blocknative Corporation. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package scalable implements the chained (scalable) Bloom filter: an
// ordered sequence of bloom.Filter rings that grows on demand, addressing
// "the problem of having to choose an a priori maximum size for the set,
// and allows an arbitrary growth of the set being presented."
//
// Reference: Scalable Bloom Filters (http://gsd.di.uminho.pt/members/cbm/ps/dbloom.pdf)
package scalable

import (
	"errors"

	"github.com/blocknative/bloomchain/bloom"
	"github.com/blocknative/bloomchain/internal/hash"
)

// DefaultError is the target false-positive rate used when a Chain is
// constructed without WithError/SetError.
const DefaultError = 0.003

// MinError is the smallest target false-positive rate accepted by
// SetError/WithError.
const MinError = 1e-10

// ErrErrorTooSmall is returned when SetError is given an error rate below
// MinError. WithError discards it and leaves the error rate unchanged.
var ErrErrorTooSmall = errors.New("scalable: error too small")

// ErrErrorConflict is returned when SetError is called with a value that
// differs from the chain's already-frozen error rate.
var ErrErrorConflict = errors.New("scalable: cannot change error on existing bloom filter")

// Chain is a scalable (chained) partitioned Bloom filter: an ordered
// sequence of bloom.Filter rings, each larger and tighter than the last.
// An element is "present" if any filter in the chain reports membership.
//
// A Chain starts in the Empty state (no filters yet, e mutable) and moves
// to Growing on the first Add, after which e is frozen and the chain may
// only ever append new filters — never shrink or reset.
type Chain struct {
	e       float64
	filters []*bloom.Filter
}

// New creates an empty Chain with e = DefaultError, customizable via
// Option.
func New(opts ...Option) *Chain {
	c := &Chain{e: DefaultError}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Error returns the chain's target asymptotic false-positive rate.
func (c *Chain) Error() float64 { return c.e }

// NumFilters returns the number of filters currently in the chain.
func (c *Chain) NumFilters() int { return len(c.filters) }

// Empty reports whether the chain is in the Empty state (no filters yet,
// e still mutable).
func (c *Chain) Empty() bool { return len(c.filters) == 0 }

// SetError sets the chain's target error rate. Allowed only while the
// chain is Empty; idempotent if e equals the stored value; rejects
// e < MinError without changing state.
func (c *Chain) SetError(e float64) error {
	if e == c.e {
		return nil
	}
	if e < MinError {
		return ErrErrorTooSmall
	}
	if !c.Empty() {
		return ErrErrorConflict
	}
	c.e = e
	return nil
}

// Add hashes elem once, ensures a tail filter exists (allocating the
// first filter lazily), appends a new tail if the current one has reached
// its saturation threshold, then inserts into the tail. It returns
// whether elem was novel to the tail filter.
func (c *Chain) Add(elem []byte) bool {
	h := hash.Hash64(elem)

	if len(c.filters) == 0 {
		c.grow()
	} else if c.tail().Full() {
		c.grow()
	}

	return c.tail().Add(h)
}

// Exists hashes elem once and reports true if any filter in the chain
// reports membership. It is idempotent and side-effect-free.
func (c *Chain) Exists(elem []byte) bool {
	if len(c.filters) == 0 {
		return false
	}

	h := hash.Hash64(elem)
	for _, f := range c.filters {
		if f.Contains(h) {
			return true
		}
	}
	return false
}

// Cardinality sums the per-filter cardinality estimate over the whole
// chain.
func (c *Chain) Cardinality() uint64 {
	var total uint64
	for _, f := range c.filters {
		total += f.Cardinality()
	}
	return total
}

// FillRatio returns the average of every filter's observed fill ratio (a
// diagnostic; Cardinality does not use it).
func (c *Chain) FillRatio() float64 {
	if len(c.filters) == 0 {
		return 0
	}

	var total float64
	for _, f := range c.filters {
		total += f.FillRatioObserved()
	}
	return total / float64(len(c.filters))
}

// Filter returns the idx-th filter in the chain (0-based), or nil if idx
// is out of range.
func (c *Chain) Filter(idx int) *bloom.Filter {
	if idx < 0 || idx >= len(c.filters) {
		return nil
	}
	return c.filters[idx]
}

func (c *Chain) tail() *bloom.Filter {
	return c.filters[len(c.filters)-1]
}

// grow appends a new filter at index NumFilters(), with geometry derived
// for that index from the chain's (frozen, post-first-add) error rate.
func (c *Chain) grow() {
	i := len(c.filters)
	c.filters = append(c.filters, bloom.New(c.e, i))
}
