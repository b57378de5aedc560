// key.go
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

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind discriminates the two entity types a root manifest can reference.
type Kind int

const (
	KindCollection Kind = iota
	KindArtwork
)

const (
	collectionPrefix = "collection:"
	artworkPrefix    = "artwork:"
)

// Key identifies one entity in a root manifest. Collections are keyed by
// their uuid, artworks by their integer id. The typed-string wire form
// ("collection:<uuid>" / "artwork:<int>") exists only at the store boundary;
// everything above it works with this struct.
type Key struct {
	Kind         Kind
	CollectionID string
	ArtworkID    int64
}

// CollectionKey returns the manifest key for a collection id.
func CollectionKey(id string) Key {
	return Key{Kind: KindCollection, CollectionID: id}
}

// ArtworkKey returns the manifest key for an artwork id.
func ArtworkKey(id int64) Key {
	return Key{Kind: KindArtwork, ArtworkID: id}
}

// String renders the store wire form of the key.
func (k Key) String() string {
	if k.Kind == KindCollection {
		return collectionPrefix + k.CollectionID
	}
	return artworkPrefix + strconv.FormatInt(k.ArtworkID, 10)
}

// ParseKey parses the store wire form of a root manifest element.
// Collection ids are uuid strings and are not validated beyond being
// non-empty; artwork ids must parse as non-negative integers.
func ParseKey(s string) (Key, error) {
	switch {
	case strings.HasPrefix(s, collectionPrefix):
		id := s[len(collectionPrefix):]
		if id == "" {
			return Key{}, fmt.Errorf("manifest: empty collection id in key %q", s)
		}
		return CollectionKey(id), nil

	case strings.HasPrefix(s, artworkPrefix):
		id, err := strconv.ParseInt(s[len(artworkPrefix):], 10, 64)
		if err != nil || id < 0 {
			return Key{}, fmt.Errorf("manifest: bad artwork id in key %q", s)
		}
		return ArtworkKey(id), nil

	default:
		return Key{}, fmt.Errorf("manifest: unrecognized key %q", s)
	}
}
