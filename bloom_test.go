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

package bloom

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/blocknative/bloomchain/internal/hash"
)

func words(n int, seed int64) [][]byte {
	r := rand.New(rand.NewSource(seed))
	out := make([][]byte, n)
	for i := range out {
		b := make([]byte, 4+r.Intn(12))
		r.Read(b)
		out[i] = b
	}
	return out
}

func TestDeriveParamsMonotonic(t *testing.T) {
	p0 := DeriveParams(0.01, 0)
	p1 := DeriveParams(0.01, 1)
	p2 := DeriveParams(0.01, 2)

	if p1.S <= p0.S {
		t.Fatalf("s should grow with filter index: s0=%d s1=%d", p0.S, p1.S)
	}
	if p2.S <= p1.S {
		t.Fatalf("s should grow with filter index: s1=%d s2=%d", p1.S, p2.S)
	}
	if p1.K < p0.K {
		t.Fatalf("k should not shrink with filter index: k0=%d k1=%d", p0.K, p1.K)
	}
}

func TestDeriveParamsFirstFilterSizedToBase(t *testing.T) {
	p := DeriveParams(0.003, 0)
	got := float64(p.S) * float64(p.K)
	want := float64(BaseSizeBytes * 8)

	ratio := got / want
	if ratio < 0.3 || ratio > 3 {
		t.Fatalf("first filter bit count %v far from BaseSizeBytes*8=%v (ratio %v)", got, want, ratio)
	}
}

func TestFilterNoFalseNegatives(t *testing.T) {
	f := New(0.01, 0)

	items := words(2000, 1)
	for _, it := range items {
		f.Add(hash.Hash64(it))
	}

	for _, it := range items {
		if !f.Contains(hash.Hash64(it)) {
			t.Fatalf("false negative for %x", it)
		}
	}
}

func TestFilterAddNoveltyBoolean(t *testing.T) {
	f := New(0.01, 0)

	h := hash.Hash64([]byte("a"))
	if !f.Add(h) {
		t.Fatal("first add of a fresh element must report novelty")
	}
	if f.Add(h) {
		t.Fatal("re-adding the same element must not report novelty")
	}
}

func TestBMaxWithinFilterCapacity(t *testing.T) {
	f := New(0.1, 0)
	if f.BMax() > f.M() {
		t.Fatalf("bmax=%d exceeds total bit count m=%d", f.BMax(), f.M())
	}
}

func TestFullReflectsBMax(t *testing.T) {
	f := New(0.1, 0)
	if f.Full() {
		t.Fatal("fresh filter must not report Full")
	}

	for i := 0; i < int(f.BMax())*2 && !f.Full(); i++ {
		f.Add(hash.Hash64([]byte(fmt.Sprintf("item-%d", i))))
	}
	if !f.Full() {
		t.Fatal("filter never reached its saturation threshold after 2*bmax distinct inserts")
	}
}

func TestCardinalityZeroWhenEmpty(t *testing.T) {
	f := New(0.01, 0)
	if got := f.Cardinality(); got != 0 {
		t.Fatalf("empty filter cardinality = %d, want 0", got)
	}
}

func TestCardinalityTracksInsertions(t *testing.T) {
	f := New(0.01, 0)
	n := int(float64(f.BMax()) * 0.8)

	for i := 0; i < n; i++ {
		f.Add(hash.Hash64([]byte(fmt.Sprintf("card-%d", i))))
	}

	est := f.Cardinality()
	drift := float64(int(est)-n) / float64(n)
	if drift < -0.1 || drift > 0.1 {
		t.Fatalf("cardinality estimate %d too far from true count %d (drift %.3f)", est, n, drift)
	}
}

func TestIndicesDeterministic(t *testing.T) {
	f := New(0.01, 0)
	h := hash.Hash64([]byte("deterministic"))

	a := make([]uint, f.K())
	b := make([]uint, f.K())
	f.indices(h, a)
	f.indices(h, b)

	for j := range a {
		if a[j] != b[j] {
			t.Fatalf("indices for same hash differ at partition %d: %d != %d", j, a[j], b[j])
		}
	}
}
