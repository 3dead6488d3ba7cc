package recommendation

import (
	"errors"
	"fmt"
	"io"
	"math"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"

	"github.com/kinetsulist/kinetsulist-backend/internal/catalog/catalogtest"
)

func newTestApp(t *testing.T, opts ...catalogtest.Option) *fiber.App {
	t.Helper()
	svc := NewService(catalogtest.New(t, opts...), Options{LikeThreshold: 0.5, Placeholder: catalogtest.Placeholder})
	app := fiber.New()
	NewHandler(svc, 1, 10).RegisterPublicRoutes(app)
	return app
}

func doJSON(t *testing.T, app *fiber.App, url string, out any) int {
	t.Helper()
	res, err := app.Test(httptest.NewRequest("GET", url, nil))
	if err != nil {
		t.Fatalf("%s: request failed: %v", url, err)
	}
	body, _ := io.ReadAll(res.Body)
	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			t.Fatalf("%s: bad json %q: %v", url, body, err)
		}
	}
	return res.StatusCode
}

type recommendationsResponse struct {
	UserID int              `json:"id_usuario"`
	Total  int              `json:"total"`
	Items  []map[string]any `json:"recomendaciones"`
}

func TestRecommendations_ExcludeHistoryAndRank(t *testing.T) {
	app := newTestApp(t)

	var body recommendationsResponse
	if code := doJSON(t, app, "/api/recomendaciones?id_usuario=1", &body); code != 200 {
		t.Fatalf("expected 200, got %d", code)
	}
	if body.UserID != 1 || body.Total != 3 {
		t.Fatalf("unexpected envelope %+v", body)
	}
	wantOrder := []float64{3, 4, 5}
	for i, rec := range body.Items {
		if rec["id_anime"] != wantOrder[i] {
			t.Fatalf("position %d: expected anime %v, got %v", i, wantOrder[i], rec["id_anime"])
		}
		if rec["id_anime"] == float64(1) || rec["id_anime"] == float64(2) {
			t.Fatalf("history item %v recommended", rec["id_anime"])
		}
		for _, col := range OutputColumns {
			if _, ok := rec[col]; !ok {
				t.Fatalf("record missing column %q: %v", col, rec)
			}
		}
	}
	if body.Items[0]["image_url"] != "https://cdn.test/monster.jpg" {
		t.Fatalf("unexpected image %v", body.Items[0]["image_url"])
	}
	if body.Items[1]["image_url"] != catalogtest.Placeholder {
		t.Fatalf("expected placeholder, got %v", body.Items[1]["image_url"])
	}
	want := 1 / (1 + math.Exp(-1.9))
	if p := body.Items[0]["probabilidad_interes"].(float64); math.Abs(p-want) > 1e-9 {
		t.Fatalf("expected probability %v, got %v", want, p)
	}
}

func TestRecommendations_DefaultUserAndLimit(t *testing.T) {
	app := newTestApp(t)

	var body recommendationsResponse
	if code := doJSON(t, app, "/api/recomendaciones?limit=2", &body); code != 200 {
		t.Fatalf("expected 200, got %d", code)
	}
	if body.UserID != 1 || len(body.Items) != 2 {
		t.Fatalf("expected 2 items for default user, got %+v", body)
	}
}

func TestRecommendations_EverythingSeen(t *testing.T) {
	app := newTestApp(t)

	res, err := app.Test(httptest.NewRequest("GET", "/api/recomendaciones?id_usuario=4", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	raw, _ := io.ReadAll(res.Body)
	if res.StatusCode != 200 {
		t.Fatalf("expected 200, got %d: %s", res.StatusCode, raw)
	}
	var body recommendationsResponse
	if err := json.Unmarshal(raw, &body); err != nil {
		t.Fatalf("bad json %q: %v", raw, err)
	}
	if body.UserID != 4 || body.Total != 0 || len(body.Items) != 0 {
		t.Fatalf("expected no recommendations, got %+v", body)
	}
	if !strings.Contains(string(raw), `"recomendaciones":[]`) {
		t.Fatalf("expected an empty list, got %s", raw)
	}
}

func TestRecommendations_ZeroLimit(t *testing.T) {
	app := newTestApp(t)

	var body recommendationsResponse
	if code := doJSON(t, app, "/api/recomendaciones?id_usuario=1&limit=0", &body); code != 200 {
		t.Fatalf("expected 200, got %d", code)
	}
	if body.Total != 0 || len(body.Items) != 0 {
		t.Fatalf("expected no items for limit=0, got %+v", body)
	}
}

func TestRecommendations_Errors(t *testing.T) {
	app := newTestApp(t)

	var detail map[string]string
	if code := doJSON(t, app, "/api/recomendaciones?id_usuario=42", &detail); code != 404 {
		t.Fatalf("expected 404 for unknown user, got %d", code)
	}
	if detail["detail"] == "" {
		t.Fatalf("expected detail message")
	}
	if code := doJSON(t, app, "/api/recomendaciones?id_usuario=x", nil); code != 400 {
		t.Fatalf("expected 400 for malformed user id, got %d", code)
	}
}

func TestPredict_ThresholdAndPercentage(t *testing.T) {
	app := newTestApp(t)

	cases := []struct {
		user, anime int
		z           float64
		label       string
	}{
		{1, 3, 1.9, "Sí"},
		{2, 2, -0.5, "No"},
		// user 2 has no action preference; the stored row carries user 1's
		{2, 1, 0, "Sí"},
	}
	for _, tc := range cases {
		var pred Prediction
		url := fmt.Sprintf("/api/predecir-anime/%d?id_usuario=%d", tc.anime, tc.user)
		if code := doJSON(t, app, url, &pred); code != 200 {
			t.Fatalf("%s: expected 200, got %d", url, code)
		}
		want := 1 / (1 + math.Exp(-tc.z))
		if math.Abs(pred.Probability-want) > 1e-9 {
			t.Fatalf("%s: expected probability %v, got %v", url, want, pred.Probability)
		}
		if pred.Label != tc.label {
			t.Fatalf("%s: expected %q, got %q", url, tc.label, pred.Label)
		}
		if (pred.Label == "Sí") != (pred.Probability >= 0.5) {
			t.Fatalf("%s: label disagrees with probability", url)
		}
		if pred.Percentage != fmt.Sprintf("%.1f%%", pred.Probability*100) {
			t.Fatalf("%s: unexpected percentage %q", url, pred.Percentage)
		}
		if pred.AnimeID != tc.anime || pred.Title == "" || pred.Message == "" {
			t.Fatalf("%s: incomplete prediction %+v", url, pred)
		}
	}
}

func TestPredict_NotFound(t *testing.T) {
	app := newTestApp(t)

	if code := doJSON(t, app, "/api/predecir-anime/999?id_usuario=1", nil); code != 404 {
		t.Fatalf("expected 404 for unknown anime, got %d", code)
	}
	if code := doJSON(t, app, "/api/predecir-anime/1?id_usuario=77", nil); code != 404 {
		t.Fatalf("expected 404 for unknown user, got %d", code)
	}
	if code := doJSON(t, app, "/api/predecir-anime/abc", nil); code != 404 {
		t.Fatalf("expected non-numeric id to miss the route, got %d", code)
	}
}

type failingClassifier struct{ err error }

func (f failingClassifier) NumFeatures() int { return 4 }

func (f failingClassifier) PredictProba([][]float64) ([]float64, error) { return nil, f.err }

func TestPredict_InferenceError(t *testing.T) {
	app := newTestApp(t, catalogtest.Classifier(failingClassifier{err: errors.New("modelo no disponible")}))

	var detail map[string]string
	if code := doJSON(t, app, "/api/predecir-anime/3?id_usuario=1", &detail); code != 500 {
		t.Fatalf("expected 500, got %d", code)
	}
	if !strings.Contains(detail["detail"], "modelo no disponible") {
		t.Fatalf("expected the inference error in detail, got %q", detail["detail"])
	}

	if code := doJSON(t, app, "/api/recomendaciones?id_usuario=1", &detail); code != 500 {
		t.Fatalf("expected 500 from recommendations, got %d", code)
	}
}

func TestRoutesRegistered(t *testing.T) {
	app := newTestApp(t)
	routes := map[string]bool{}
	for _, grp := range app.Stack() {
		for _, r := range grp {
			routes[r.Path] = true
		}
	}
	for _, p := range []string{"/api/recomendaciones", "/api/predecir-anime/:anime_id<int>"} {
		if !routes[p] {
			t.Fatalf("expected route %q to be registered", p)
		}
	}
}
