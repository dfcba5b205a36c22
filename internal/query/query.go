// Package query implements the search string mini-language.
//
// A bracketed query is a sequence of "[category]term" entries, optionally
// carrying an operation: "[category:op]term" where op is one of and, or, not.
// Entries without an operation default to and. Anything without brackets is a
// simple query; callers split it into words and resolve each word's category
// against the database.
package query

import (
	"regexp"
	"strings"
)

// Op selects how a term's result set is combined with the running result.
type Op string

const (
	OpAnd Op = "and"
	OpOr  Op = "or"
	OpNot Op = "not"
)

// Term is one parsed search entry.
type Term struct {
	Category string `json:"category"`
	Value    string `json:"term"`
	Op       Op     `json:"operation"`
}

var bracketPattern = regexp.MustCompile(`\[(\w+)(:\w+)?\](\w+)`)

// IsBracketed reports whether s uses the bracketed category syntax.
func IsBracketed(s string) bool {
	return strings.Contains(s, "[")
}

// Parse extracts all bracketed entries from s. Malformed fragments between
// valid entries are skipped rather than rejected, matching the forgiving
// behavior users rely on when editing queries incrementally.
func Parse(s string) []Term {
	var terms []Term
	for _, m := range bracketPattern.FindAllStringSubmatch(s, -1) {
		op := OpAnd
		if m[2] != "" {
			op = Op(m[2][1:])
		}
		terms = append(terms, Term{Category: m[1], Value: m[3], Op: op})
	}
	return terms
}

// Sanitize removes every character outside the whitelist
// [A-Za-z0-9_() -]. Search terms end up inside ILIKE patterns, so
// anything else is dropped before it reaches the database layer.
func Sanitize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '_' || r == '-' || r == '(' || r == ')' || r == ' ':
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Words splits a simple (bracket-free) query into sanitized words, dropping
// words the sanitizer empties out entirely.
func Words(s string) []string {
	var words []string
	for _, w := range strings.Fields(s) {
		if cleaned := Sanitize(w); cleaned != "" {
			words = append(words, cleaned)
		}
	}
	return words
}
