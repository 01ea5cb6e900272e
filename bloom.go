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

// Package bloom implements a single partitioned Bloom filter: k disjoint
// bit partitions, one per hash function, addressed via the
// Kirsch-Mitzenmacher double-hashing trick. It is the unit a scalable
// chain (package scalable) links together as it grows.
//
// Reference: Scalable Bloom Filters (http://gsd.di.uminho.pt/members/cbm/ps/dbloom.pdf)
package bloom

import (
	"math"

	"github.com/blocknative/bloomchain/internal/hash"
	"github.com/blocknative/bloomchain/internal/partition"
)

// Geometry constants shared by every filter in a chain. They are pure
// parameters, not global mutable state.
const (
	// BaseSizeBytes sizes the first filter in a chain: its bit count is
	// approximately BaseSizeBytes*8.
	BaseSizeBytes = 2048

	// FillRatio (P) is the target fraction of set bits per partition at
	// which a filter is considered full.
	FillRatio = 0.5

	// GrowthRatio (GROW) is the multiplier applied to target capacity n
	// from one filter in the chain to the next.
	GrowthRatio = 2.0

	// TightenRatio (TIGHTEN) is the per-step shrink factor applied to the
	// per-filter target error rate across the chain.
	TightenRatio = 0.85
)

// Params holds the fully-derived geometry of one filter: the number of
// partitions k, the bits per partition s, and the saturation threshold
// bmax. Once a Filter is built these never change.
type Params struct {
	K    uint
	S    uint
	BMax uint
}

// DeriveParams computes the geometry of filter index i (0-based) in a
// chain whose target asymptotic false-positive rate is e. i is the
// chain's numfilters at the moment this filter is allocated.
func DeriveParams(e float64, i int) Params {
	logPTerm := math.Log(FillRatio) * math.Log(1-FillRatio)

	n0 := BaseSizeBytes * 8 * (logPTerm / math.Abs(math.Log(e)))
	e0 := e * (1 - TightenRatio) * 2

	ni := n0 * math.Pow(GrowthRatio, float64(i))
	ei := e0 * math.Pow(TightenRatio, float64(i))

	k := uint(math.Ceil(-math.Log2(ei)))
	mi := ni / (logPTerm / math.Abs(math.Log(ei)))
	s := uint(math.Floor(mi / float64(k)))
	bmax := uint(math.Floor(float64(s) * float64(k) * FillRatio))

	return Params{K: k, S: s, BMax: bmax}
}

// Filter is one ring in a scalable chain: k partitions, each s bits, plus
// the running count of set bits b and the saturation threshold bmax.
// Once built, k, s and bmax never change.
type Filter struct {
	k    uint
	s    uint
	bmax uint
	b    uint

	parts []*partition.Partition

	// idxs is a reusable scratch buffer for the k bit indices of the
	// element currently being added/tested. A Filter is only ever
	// touched by one caller at a time, so reusing it across calls
	// avoids an allocation per Add/Contains.
	idxs []uint
}

// New builds an empty Filter with the geometry derived for chain error
// rate e and filter index i.
func New(e float64, i int) *Filter {
	return NewWithParams(DeriveParams(e, i))
}

// NewWithParams builds an empty Filter from already-derived geometry.
func NewWithParams(p Params) *Filter {
	parts := make([]*partition.Partition, p.K)
	for j := range parts {
		parts[j] = partition.New(p.S)
	}
	return &Filter{k: p.K, s: p.S, bmax: p.BMax, parts: parts, idxs: make([]uint, p.K)}
}

// K returns the number of partitions (hash functions).
func (f *Filter) K() uint { return f.k }

// S returns the size of each partition in bits.
func (f *Filter) S() uint { return f.s }

// M returns the total bit count s*k.
func (f *Filter) M() uint { return f.s * f.k }

// B returns the current count of set bits across all partitions.
func (f *Filter) B() uint { return f.b }

// BMax returns the saturation threshold: once B() >= BMax() the chain
// appends a new tail filter rather than continuing to fill this one.
func (f *Filter) BMax() uint { return f.bmax }

// Full reports whether the filter has reached its saturation threshold.
func (f *Filter) Full() bool { return f.b >= f.bmax }

// indices computes the k bit indices for h using a Kirsch-Mitzenmacher
// double-hashing walk: idx starts at a = low32(h); each step reduces idx
// into [0, s) via fast unbiased modulo (idx*s)>>32, then advances
// a += b; b += j (wrapping 32-bit) before the next step.
func (f *Filter) indices(h uint64, out []uint) {
	a, b := hash.Split(h)
	idx := a

	for j := uint(0); j < f.k; j++ {
		out[j] = uint((uint64(idx) * uint64(f.s)) >> 32)

		a += b
		b += uint32(j)
		idx = a
	}
}

// Add sets the k bits addressed by h, returning true if at least one bit
// was previously unset (the item is novel to this filter).
func (f *Filter) Add(h uint64) bool {
	f.indices(h, f.idxs)

	var nbits uint
	for j, idx := range f.idxs {
		if f.parts[j].Set(idx) {
			nbits++
		}
	}
	f.b += nbits
	return nbits > 0
}

// Contains reports whether all k bits addressed by h are set.
func (f *Filter) Contains(h uint64) bool {
	f.indices(h, f.idxs)

	for j, idx := range f.idxs {
		if !f.parts[j].Get(idx) {
			return false
		}
	}
	return true
}

// Cardinality estimates the number of distinct elements added to this
// filter from its observed bit-fill.
func (f *Filter) Cardinality() uint64 {
	if f.b == 0 {
		return 0
	}

	p := (float64(f.b) / float64(f.bmax)) * FillRatio
	if p >= 1 {
		return math.MaxInt32
	}

	n := math.Floor(float64(f.s)*-math.Log(1-p) + 0.5)
	return uint64(n)
}

// FillRatioObserved returns the average fraction of set bits across all
// k partitions (a diagnostic, not used by Cardinality).
func (f *Filter) FillRatioObserved() float64 {
	if f.k == 0 {
		return 0
	}

	var total float64
	for _, part := range f.parts {
		total += float64(part.Count()) / float64(part.Len())
	}
	return total / float64(f.k)
}

// Parts exposes the underlying partitions for diagnostics (BFDEBUG FILTER,
// persistence). Callers must not mutate the returned slice's contents
// through anything but Add.
func (f *Filter) Parts() []*partition.Partition {
	return f.parts
}
