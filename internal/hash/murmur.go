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

// Package hash provides the single 64-bit hash function the rest of the
// module is calibrated against. Every error-rate and cardinality formula in
// package bloom assumes this exact function, so it is not pluggable.
package hash

import "encoding/binary"

// Seed is the fixed MurmurHash64A seed every Filter in a chain hashes with.
const Seed uint64 = 0xc5fb9af2

const (
	mul64 uint64 = 0xc6a4a7935bd1e995
	r64          = 47
)

// Hash64 computes MurmurHash64A (Appleby's original 64-bit variant, not
// Murmur3) over data using the fixed Seed. Same input always yields the
// same value.
func Hash64(data []byte) uint64 {
	return murmurHash64A(data, Seed)
}

// murmurHash64A is a direct, byte-for-byte port of the reference C
// implementation (64-bit multiply/xor-shift mix, little-endian 8-byte
// reads, tail handled by length mod 8).
func murmurHash64A(data []byte, seed uint64) uint64 {
	h := seed ^ (uint64(len(data)) * mul64)

	n := len(data) / 8
	for i := 0; i < n; i++ {
		k := binary.LittleEndian.Uint64(data[i*8:])

		k *= mul64
		k ^= k >> r64
		k *= mul64

		h ^= k
		h *= mul64
	}

	tail := data[n*8:]
	switch len(tail) {
	case 7:
		h ^= uint64(tail[6]) << 48
		fallthrough
	case 6:
		h ^= uint64(tail[5]) << 40
		fallthrough
	case 5:
		h ^= uint64(tail[4]) << 32
		fallthrough
	case 4:
		h ^= uint64(tail[3]) << 24
		fallthrough
	case 3:
		h ^= uint64(tail[2]) << 16
		fallthrough
	case 2:
		h ^= uint64(tail[1]) << 8
		fallthrough
	case 1:
		h ^= uint64(tail[0])
		h *= mul64
	}

	h ^= h >> r64
	h *= mul64
	h ^= h >> r64

	return h
}

// Split returns the low and high 32-bit halves of h, consumed by the
// double-hashing walk in package bloom.
func Split(h uint64) (a, b uint32) {
	return uint32(h), uint32(h >> 32)
}
