// Package dedupe normalizes identity keys and removes repeated entries.
package dedupe

import "strings"

// Normalize trims surrounding whitespace and case-folds s.
// Every identity comparison in the pipeline goes through it.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Set records normalized keys for first-seen-wins selection.
type Set map[string]struct{}

// Add records key and reports whether it was new.
func (s Set) Add(key string) bool {
	if _, ok := s[key]; ok {
		return false
	}
	s[key] = struct{}{}
	return true
}

// First returns the subsequence of items keeping only the first occurrence
// of each normalized key, in input order.
func First[T any](items []T, key func(T) string) []T {
	seen := make(Set, len(items))
	out := make([]T, 0, len(items))
	for _, it := range items {
		if seen.Add(Normalize(key(it))) {
			out = append(out, it)
		}
	}
	return out
}

// Collisions returns every entry whose normalized key occurs more than
// once, in input order. The first occurrence is included.
func Collisions[T any](items []T, key func(T) string) []T {
	counts := make(map[string]int, len(items))
	for _, it := range items {
		counts[Normalize(key(it))]++
	}
	var out []T
	for _, it := range items {
		if counts[Normalize(key(it))] > 1 {
			out = append(out, it)
		}
	}
	return out
}

// Split is First and Collisions in one call.
func Split[T any](items []T, key func(T) string) (unique, collisions []T) {
	return First(items, key), Collisions(items, key)
}
