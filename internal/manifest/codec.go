// codec.go
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
	"encoding/json"
	"fmt"
	"strconv"

	"gorm.io/datatypes"
)

// DecodeRoot parses a site_config.root_structure column value into keys.
// A null or empty column reads as an empty manifest. Malformed elements are
// dropped, the same tolerance Resolve applies to dangling references: a
// manifest is advisory ordering data, never a reason to fail a page load.
func DecodeRoot(raw datatypes.JSON) []Key {
	if len(raw) == 0 {
		return nil
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return nil
	}

	keys := make([]Key, 0, len(elems))
	for _, e := range elems {
		var s string
		if err := json.Unmarshal(e, &s); err != nil {
			continue
		}
		k, err := ParseKey(s)
		if err != nil {
			continue
		}
		keys = append(keys, k)
	}
	return keys
}

// EncodeRoot renders keys into the root_structure wire form, a JSON array of
// typed strings.
func EncodeRoot(keys []Key) (datatypes.JSON, error) {
	elems := make([]string, 0, len(keys))
	for _, k := range keys {
		elems = append(elems, k.String())
	}
	raw, err := json.Marshal(elems)
	if err != nil {
		return nil, fmt.Errorf("manifest: encode root: %w", err)
	}
	return datatypes.JSON(raw), nil
}

// DecodeChildren parses a collections.artwork_order column value. Elements
// are bare artwork ids; legacy rows mix JSON numbers and numeric strings, so
// both are accepted. Anything else is dropped.
func DecodeChildren(raw datatypes.JSON) []int64 {
	if len(raw) == 0 {
		return nil
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return nil
	}

	ids := make([]int64, 0, len(elems))
	for _, e := range elems {
		var n int64
		if err := json.Unmarshal(e, &n); err == nil {
			ids = append(ids, n)
			continue
		}
		var s string
		if err := json.Unmarshal(e, &s); err == nil {
			if n, err := strconv.ParseInt(s, 10, 64); err == nil {
				ids = append(ids, n)
			}
		}
	}
	return ids
}

// EncodeChildren renders artwork ids into the artwork_order wire form, a
// JSON array of numbers.
func EncodeChildren(ids []int64) (datatypes.JSON, error) {
	if ids == nil {
		ids = []int64{}
	}
	raw, err := json.Marshal(ids)
	if err != nil {
		return nil, fmt.Errorf("manifest: encode children: %w", err)
	}
	return datatypes.JSON(raw), nil
}
