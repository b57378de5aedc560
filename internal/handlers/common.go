// common.go
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

package handlers

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// parseArtworkID extracts the numeric artwork id path parameter.
func parseArtworkID(c *fiber.Ctx) (int64, error) {
	raw := strings.TrimSpace(c.Params("id"))
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid artwork id %q", raw)
	}
	return id, nil
}

// parseRecordID extracts a numeric row id path parameter for exhibitions
// and subscribers.
func parseRecordID(c *fiber.Ctx) (uint64, error) {
	raw := strings.TrimSpace(c.Params("id"))
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return id, nil
}
