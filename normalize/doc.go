// Package normalize canonicalizes raw address text for indexing and matching.
//
// Tokenization is a pure, total function: lowercasing, punctuation splitting,
// expansion of a fixed table of address abbreviations, and token
// classification. Every token keeps its byte extent in the original string so
// match ranges over canonical text can be mapped back to display offsets.
package normalize
