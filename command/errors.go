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

package command

import "errors"

// The five error kinds of the command surface. Each is reported to the
// caller with no state change; nothing in this package is fatal.
var (
	// ErrBadArgument covers a malformed argument list: ERROR with no
	// value, or an option token this verb does not recognize.
	ErrBadArgument = errors.New("bad argument")

	// ErrOutOfRange covers an error rate below MinError, or a filter
	// index outside [0, numfilters) in BFDEBUG FILTER.
	ErrOutOfRange = errors.New("out of range")

	// ErrErrorConflict covers an attempt to change a chain's frozen
	// error rate.
	ErrErrorConflict = errors.New("cannot change error on existing bloom filter")

	// ErrWrongType covers a key already bound to a non-chain value.
	ErrWrongType = errors.New("wrong type")

	// ErrMissingKey covers a BFDEBUG verb run against an absent key.
	ErrMissingKey = errors.New("missing key")
)
