// resolve.go
//
// A Go data service backing the atelier portfolio site and admin console
// Copyright (c) 2026 Atelier Studio <dev@atelier-studio.com>
//
// This file is part of portfoliodb.
// portfoliodb is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// portfoliodb is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with portfoliodb.
// If not, see <https://www.gnu.org/licenses/>.

package manifest

// Resolve orders candidates by a manifest, healing drift in both directions.
//
// Manifest entries that reference no candidate are dropped silently: deleting
// an entity never requires manifest cleanup. Candidates the manifest does not
// list (orphans) are appended after all listed entries, in candidate order,
// so a row inserted behind the manifest's back still shows up. Every
// candidate appears exactly once in the result, even when the manifest lists
// it twice.
//
// Pure function; neither input is mutated.
func Resolve[K comparable, T any](manifest []K, candidates []T, keyOf func(T) K) []T {
	byKey := make(map[K]T, len(candidates))
	for _, c := range candidates {
		k := keyOf(c)
		if _, ok := byKey[k]; !ok {
			byKey[k] = c
		}
	}

	seen := make(map[K]struct{}, len(manifest))
	ordered := make([]T, 0, len(candidates))

	// Manifest-listed entries first, in manifest order.
	for _, k := range manifest {
		if _, done := seen[k]; done {
			continue
		}
		if c, ok := byKey[k]; ok {
			ordered = append(ordered, c)
			seen[k] = struct{}{}
		}
	}

	// Orphan recovery: anything not listed keeps its fetch order at the end.
	for _, c := range candidates {
		k := keyOf(c)
		if _, done := seen[k]; done {
			continue
		}
		ordered = append(ordered, c)
		seen[k] = struct{}{}
	}

	return ordered
}

// Keys derives the manifest that would reproduce the given order, the
// inverse of Resolve. Writing the derived manifest back is what prunes
// dangling keys: only entities that actually resolved contribute an entry.
func Keys[K comparable, T any](ordered []T, keyOf func(T) K) []K {
	keys := make([]K, 0, len(ordered))
	for _, c := range ordered {
		keys = append(keys, keyOf(c))
	}
	return keys
}
