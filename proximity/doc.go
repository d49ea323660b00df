// Copyright 2025 Poiesic Systems
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

// Package proximity ranks pairs of ELS occurrences by how closely they sit
// in the text.
//
// Every pair is measured over the full letter positions of both occurrences:
//
//   - min distance: smallest |p - q| over letters p of A and q of B
//   - range overlap: max(0, min(hiA, hiB) - max(loA, loB)) of the two spans
//   - skip difference: the difference of the absolute skips
//
// The version 1 score is 1/(min distance + 1) + overlap/1000 - skip difference/100.
// Every record carries the version of the formula that scored it.
package proximity
