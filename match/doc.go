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


// Package match scores query text against candidate address text.
//
// The scorer is a pure function with no I/O and no access to the index,
// so candidates can be scored in parallel and tested in isolation. Two
// layers are provided:
//
//   - Target/Search scoring of one string pair: substring matches first,
//     then a forward walk that consumes the search at word starts, case
//     humps and punctuation. Contiguous runs score quadratically; matches
//     at the string start or a word start earn fixed bonuses.
//   - ScoreAddress combines per-field matches with field-type weights and
//     translates winning ranges to display-text offsets for highlighting.
//
// Scores are integers per string pair and weighted floats per address;
// for a fixed query the range is bounded by the query length.
package match
