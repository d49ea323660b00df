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

// Package index builds and queries the full word to occurrence index of a text.
//
// The Builder walks the lexicon trie once per skip value and start position,
// so every lexicon word is found at a given skip in a single pass over the
// text. Work is sharded by skip: each skip runs as one worker pool task and
// writes its own immutable partial result. Partial results are merged into a
// frozen Index only after every skip has completed.
//
// A skip that fails is retried with exponential backoff. A build that is
// cancelled, or where any skip exhausts its retries, returns
// core.ErrPartialBuild and no index.
package index
