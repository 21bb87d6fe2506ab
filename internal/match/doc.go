// Package match ranks identifiers by similarity.
//
// Identifiers are compared after normalization (case folding and removal of
// '_', '-' and ' ' separators) using the Levenshtein edit distance. It backs
// the suggestions offered when a type reference does not resolve.
package match
