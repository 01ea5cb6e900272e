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

package scalable

// Option configures a Chain at construction time.
type Option func(*Chain)

// WithError sets the chain's target asymptotic false-positive rate. It is
// equivalent to calling SetError immediately after New, and is subject to
// the same validation (rejects e < MinError).
func WithError(e float64) Option {
	return func(c *Chain) {
		// Errors from a constructor option have nowhere to go; New returns
		// the zero-value chain's default error unchanged on invalid input,
		// matching SetError's "reject, no state change" contract.
		_ = c.SetError(e)
	}
}
