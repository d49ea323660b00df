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

// Package search finds every equidistant letter sequence of one pattern
// across a range of skips.
//
// For each skip d the text splits into d phase-shifted subsequences
// (positions start, start+d, start+2d, ...). A forward occurrence at skip d is
// an ordinary substring match of the pattern inside one subsequence. A
// backward occurrence is a match of the reversed pattern in the same
// subsequences, reported at skip -d and positioned at its highest-indexed
// letter.
//
// Results are ordered by |skip|, then position, then forward before backward.
// The Searcher caches results in memory and, when given a repository,
// persists them as search artifacts keyed by text hash, pattern and skip range.
//
// A Session runs one query at a time: starting a new query cancels the one
// in flight.
package search
