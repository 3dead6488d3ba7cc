package admin

import (
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"

	"github.com/kinetsulist/kinetsulist-backend/internal/catalog/catalogtest"
	"github.com/kinetsulist/kinetsulist-backend/internal/dataset"
)

func newApp(t *testing.T, secret string) *fiber.App {
	t.Helper()
	svc := NewService(catalogtest.New(t), Options{RatingThreshold: 7.5, FallbackImage: "/static/img/imagen_no_encontrada.png"})
	app := fiber.New()
	NewHandler(svc, secret).RegisterProtectedRoutes(app)
	return app
}

func post(t *testing.T, app *fiber.App, body, token string) (int, []byte) {
	t.Helper()
	req := httptest.NewRequest("POST", "/api/admin/demo-local", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	res, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	b, _ := io.ReadAll(res.Body)
	return res.StatusCode, b
}

func TestDemoLocal_RecommendableThreshold(t *testing.T) {
	app := newApp(t, "")

	cases := []struct {
		body      string
		id        int
		name      string
		rating    float64
		recommend bool
		image     string
	}{
		{`{"nombre_anime":"naru"}`, 1, "Naruto", 8.0, true, "https://cdn.test/naruto.jpg"},
		{`{"nombre_anime":"  BLEACH "}`, 2, "Bleach", 7.4, false, "/static/img/imagen_no_encontrada.png"},
		{`{"nombre_anime":"monster"}`, 3, "Monster", 8.9, true, "https://cdn.test/monster.jpg"},
	}
	for _, tc := range cases {
		code, raw := post(t, app, tc.body, "")
		if code != 200 {
			t.Fatalf("%s: expected 200, got %d (%s)", tc.body, code, raw)
		}
		var res DemoResult
		if err := json.Unmarshal(raw, &res); err != nil {
			t.Fatalf("bad json: %v", err)
		}
		if res.AnimeID != tc.id || res.Name != tc.name || res.PredictedRating != tc.rating || res.ImageURL != tc.image {
			t.Fatalf("%s: unexpected result %+v", tc.body, res)
		}
		if res.Recommendable != tc.recommend || res.Recommendable != (res.PredictedRating >= 7.5) {
			t.Fatalf("%s: recommendable flag wrong for %v", tc.body, res.PredictedRating)
		}
	}
}

func TestDemoLocal_RequestErrors(t *testing.T) {
	app := newApp(t, "")

	if code, _ := post(t, app, `{"nombre_anime":"evangelion"}`, ""); code != 404 {
		t.Fatalf("expected 404 for unmatched title, got %d", code)
	}
	if code, _ := post(t, app, `{"nombre_anime":"   "}`, ""); code != 422 {
		t.Fatalf("expected 422 for blank title, got %d", code)
	}
	if code, _ := post(t, app, `{}`, ""); code != 422 {
		t.Fatalf("expected 422 for missing title, got %d", code)
	}
	if code, _ := post(t, app, `{"nombre_anime":`, ""); code != 400 {
		t.Fatalf("expected 400 for malformed json, got %d", code)
	}
}

type stubPredictor struct{ err error }

func (s stubPredictor) DemoLocal(string) (*DemoResult, error) { return nil, s.err }

func TestDemoLocal_ErrorKinds(t *testing.T) {
	cases := []struct {
		err    error
		detail string
	}{
		{&dataset.MissingColumnError{Column: "popularidad"}, "Columna faltante: popularidad"},
		{errors.New("scaler exploded"), "Error: scaler exploded"},
	}
	for _, tc := range cases {
		app := fiber.New()
		NewHandler(stubPredictor{err: tc.err}, "").RegisterProtectedRoutes(app)

		code, raw := post(t, app, `{"nombre_anime":"x"}`, "")
		if code != 500 {
			t.Fatalf("expected 500, got %d", code)
		}
		var body map[string]string
		if err := json.Unmarshal(raw, &body); err != nil {
			t.Fatalf("bad json: %v", err)
		}
		if body["detail"] != tc.detail {
			t.Fatalf("expected detail %q, got %q", tc.detail, body["detail"])
		}
	}
}

func TestDemoLocal_JWT(t *testing.T) {
	const secret = "s3cret"
	app := newApp(t, secret)

	if code, _ := post(t, app, `{"nombre_anime":"naru"}`, ""); code != 401 {
		t.Fatalf("expected 401 without token, got %d", code)
	}
	if code, _ := post(t, app, `{"nombre_anime":"naru"}`, "not-a-token"); code != 401 {
		t.Fatalf("expected 401 with garbage token, got %d", code)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "admin",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	if code, raw := post(t, app, `{"nombre_anime":"naru"}`, signed); code != 200 {
		t.Fatalf("expected 200 with valid token, got %d (%s)", code, raw)
	}
}
