// Copyright (c) 2014 Dataence, LLC. All rights reserved.
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

// Package partition implements the single bit array that backs one hash
// function's slice of a partitioned Bloom filter. Keeping it as its own
// type (rather than a shared m-bit array) is what makes the filter
// "partitioned": each of the k hash functions owns a disjoint s-bit range.
package partition

import "github.com/bits-and-blooms/bitset"

// Partition is a fixed-size bit vector, all bits initially zero.
type Partition struct {
	bits *bitset.BitSet
	size uint
}

// New allocates a zero-initialized Partition of the given number of bits.
func New(size uint) *Partition {
	return &Partition{
		bits: bitset.New(size),
		size: size,
	}
}

// Len returns the partition's bit count (s in spec terms).
func (p *Partition) Len() uint {
	return p.size
}

// Get reports whether bit i is set. i must be < Len().
func (p *Partition) Get(i uint) bool {
	return p.bits.Test(i)
}

// Set sets bit i and reports whether it was previously unset. i must be
// < Len().
func (p *Partition) Set(i uint) (wasUnset bool) {
	wasUnset = !p.bits.Test(i)
	p.bits.Set(i)
	return wasUnset
}

// Count returns the number of set bits in the partition.
func (p *Partition) Count() uint {
	return p.bits.Count()
}

// Bytes packs the partition into ceil(Len()/8) bytes, bit i stored at
// byte[i>>3], bit (i&7), LSB-first within the byte. bitset's native word
// size (64 bits) is otherwise opaque to callers that need raw bytes in
// this layout.
func (p *Partition) Bytes() []byte {
	out := make([]byte, (p.size+7)/8)
	for i := uint(0); i < p.size; i++ {
		if p.bits.Test(i) {
			out[i>>3] |= 1 << (i & 7)
		}
	}
	return out
}
