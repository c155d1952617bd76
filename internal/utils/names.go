package utils

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// QualifyName joins a scope name with a child name: `.` for public
// children, `::` for private ones.
func QualifyName(outer, name string, public bool) string {
	if outer == "" {
		return name
	}
	if public {
		return outer + "." + name
	}
	return outer + "::" + name
}

// LastSegment returns the last component of a qualified name.
func LastSegment(qualified string) string {
	if i := strings.LastIndex(qualified, "::"); i >= 0 {
		qualified = qualified[i+2:]
	}
	if i := strings.LastIndex(qualified, "."); i >= 0 {
		return qualified[i+1:]
	}
	return qualified
}

// EditDistance is the Levenshtein distance between two strings.
func EditDistance(a, b string) int {
	dmp := diffmatchpatch.New()
	return dmp.DiffLevenshtein(dmp.DiffMain(a, b, false))
}

// SimilarName picks the candidate closest to query. Candidates further
// than maxDist, or as far away as query is long, are never suggested.
// Ties go to the earliest candidate.
func SimilarName(candidates []string, query string, maxDist int) (string, bool) {
	best, bestDist := "", -1
	for _, c := range candidates {
		if c == query {
			continue
		}
		d := EditDistance(c, query)
		if d > maxDist || d >= len(query) {
			continue
		}
		if bestDist < 0 || d < bestDist {
			best, bestDist = c, d
		}
	}
	return best, bestDist >= 0
}
