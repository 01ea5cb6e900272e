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

// Package command binds a scalable.Chain to a named slot in a minimal
// keyed store and implements the five wire verbs BFADD, BFEXIST, BFCOUNT,
// BFDEBUG STATUS and BFDEBUG FILTER.
//
// The real key-value store, its argument tokenizer, and its generic value
// wrapper are a host's responsibility, not this package's — it only binds
// a key string to *scalable.Chain behind a small map and enforces the
// type/error-taxonomy contract a host would delegate to it.
package command

import (
	"fmt"
	"log"
	"strconv"
	"sync"

	"github.com/blocknative/bloomchain/scalable"
)

// Store is a minimal, thread-safe registry of named chains. It stands in
// for a surrounding key-value store that is out of scope here; everything
// it does is serialize access to a map and apply the
// BFADD/BFEXIST/BFCOUNT/BFDEBUG contracts on top of it.
type Store struct {
	mu   sync.Mutex
	data map[string]interface{}
	log  *log.Logger
}

// NewStore creates an empty Store. logger may be nil, in which case chain
// growth is not logged.
func NewStore(logger *log.Logger) *Store {
	return &Store{
		data: make(map[string]interface{}),
		log:  logger,
	}
}

// chain fetches the *scalable.Chain bound to key, if any. ok is false if
// the key is absent; err is ErrWrongType if key is bound to something
// else. Caller must hold s.mu.
func (s *Store) chain(key string) (c *scalable.Chain, ok bool, err error) {
	v, present := s.data[key]
	if !present {
		return nil, false, nil
	}
	c, isChain := v.(*scalable.Chain)
	if !isChain {
		return nil, true, ErrWrongType
	}
	return c, true, nil
}

// BFAdd implements `BFADD key [ERROR e] [ELEMENTS v1 v2 …]`. It returns
// the number of elements considered novel by the tail filter (the sum of
// each element's per-add novelty bit).
func (s *Store) BFAdd(key string, args []string) (int, error) {
	errorOverride, elements, err := parseBFAdd(args)
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c, existed, err := s.chain(key)
	if err != nil {
		return 0, err
	}

	created := !existed
	if created {
		c = scalable.New()
	}

	if errorOverride != nil {
		if created {
			if serr := c.SetError(*errorOverride); serr != nil {
				return 0, ErrOutOfRange
			}
		} else if *errorOverride != c.Error() {
			return 0, ErrErrorConflict
		}
	}

	if created {
		s.data[key] = c
	}

	novel := 0
	for _, e := range elements {
		before := c.NumFilters()
		if c.Add(e) {
			novel++
		}
		if s.log != nil && c.NumFilters() > before {
			s.log.Printf("bloom: key %q grew to %d filters", key, c.NumFilters())
		}
	}

	if created && len(elements) == 0 {
		return 1, nil
	}
	return novel, nil
}

// BFExist implements `BFEXIST key value`. A missing key replies false,
// not an error.
func (s *Store) BFExist(key string, value []byte) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, existed, err := s.chain(key)
	if err != nil {
		return false, err
	}
	if !existed {
		return false, nil
	}
	return c.Exists(value), nil
}

// BFCount implements `BFCOUNT key`. A missing key replies 0, not an
// error.
func (s *Store) BFCount(key string) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, existed, err := s.chain(key)
	if err != nil {
		return 0, err
	}
	if !existed {
		return 0, nil
	}
	return c.Cardinality(), nil
}

// BFDebugStatus implements `BFDEBUG STATUS key`, replying
// "n:<numfilters> e:<e>".
func (s *Store) BFDebugStatus(key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, existed, err := s.chain(key)
	if err != nil {
		return "", err
	}
	if !existed {
		return "", ErrMissingKey
	}

	return fmt.Sprintf("n:%d e:%g", c.NumFilters(), c.Error()), nil
}

// BFDebugFilter implements `BFDEBUG FILTER key idx`, replying
// "k:<k> s:<s> b:<b>" for the idx-th filter.
func (s *Store) BFDebugFilter(key string, idx int) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, existed, err := s.chain(key)
	if err != nil {
		return "", err
	}
	if !existed {
		return "", ErrMissingKey
	}

	f := c.Filter(idx)
	if f == nil {
		return "", ErrOutOfRange
	}

	return fmt.Sprintf("k:%d s:%d b:%d", f.K(), f.S(), f.B()), nil
}

// parseBFAdd splits BFADD's argument tokens into an optional error-rate
// override and the list of elements to insert. Argument validation
// completes before any insertion, so a malformed argument list never
// touches the chain.
func parseBFAdd(args []string) (errorOverride *float64, elements [][]byte, err error) {
	i := 0
	for i < len(args) {
		switch args[i] {
		case "ERROR":
			if i+1 >= len(args) {
				return nil, nil, fmt.Errorf("%w: no error specified", ErrBadArgument)
			}
			e, perr := strconv.ParseFloat(args[i+1], 64)
			if perr != nil {
				return nil, nil, fmt.Errorf("%w: no error specified", ErrBadArgument)
			}
			errorOverride = &e
			i += 2
		case "ELEMENTS":
			elements = make([][]byte, 0, len(args)-i-1)
			for _, v := range args[i+1:] {
				elements = append(elements, []byte(v))
			}
			return errorOverride, elements, nil
		default:
			return nil, nil, fmt.Errorf("%w: invalid option: %s", ErrBadArgument, args[i])
		}
	}
	return errorOverride, elements, nil
}
