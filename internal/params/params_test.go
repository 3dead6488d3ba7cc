package params

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func TestUserIDAndLimit(t *testing.T) {
	type result struct {
		id       int
		supplied bool
		err      error
		limit    int
	}
	var got result
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		got.id, got.supplied, got.err = UserID(c, 1)
		got.limit = Limit(c, 10)
		return c.SendStatus(fiber.StatusNoContent)
	})

	cases := []struct {
		url  string
		want result
	}{
		{"/", result{id: 1, limit: 10}},
		{"/?id_usuario=7&limit=3", result{id: 7, supplied: true, limit: 3}},
		{"/?id_usuario=abc&limit=-2", result{supplied: true, err: ErrInvalidUserID, limit: 10}},
		{"/?limit=many", result{id: 1, limit: 10}},
		{"/?limit=0", result{id: 1, limit: 0}},
	}
	for _, tc := range cases {
		if _, err := app.Test(httptest.NewRequest("GET", tc.url, nil)); err != nil {
			t.Fatalf("%s: request failed: %v", tc.url, err)
		}
		if got != tc.want {
			t.Errorf("%s: got %+v, want %+v", tc.url, got, tc.want)
		}
	}
}
