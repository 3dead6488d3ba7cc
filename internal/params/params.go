// Package params parses the query parameters shared by the API handlers.
package params

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

var ErrInvalidUserID = errors.New("id_usuario debe ser un entero")

// UserID returns the id_usuario query parameter, def when it is absent, and
// ErrInvalidUserID when it is not an integer. The bool reports whether the
// caller supplied it.
func UserID(c *fiber.Ctx, def int) (int, bool, error) {
	raw := strings.TrimSpace(c.Query("id_usuario"))
	if raw == "" {
		return def, false, nil
	}
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, true, ErrInvalidUserID
	}
	return id, true, nil
}

// Limit returns the limit query parameter; missing, malformed or negative
// values fall back to def. Zero is honored and yields an empty page.
func Limit(c *fiber.Ctx, def int) int {
	n, err := strconv.Atoi(c.Query("limit"))
	if err != nil || n < 0 {
		return def
	}
	return n
}
