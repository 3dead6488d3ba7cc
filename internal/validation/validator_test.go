package validation

import (
	"strings"
	"testing"
)

type titleRequest struct {
	Title string `json:"nombre_anime" validate:"required,notblank,max=20"`
}

func TestValidateStruct(t *testing.T) {
	if err := ValidateStruct(&titleRequest{Title: "Naruto"}); err != nil {
		t.Fatalf("expected valid request, got %v", err)
	}

	err := ValidateStruct(&titleRequest{Title: "   "})
	if err == nil || !strings.Contains(err.Error(), "nombre_anime is required") {
		t.Fatalf("expected blank title to fail with json field name, got %v", err)
	}

	err = ValidateStruct(&titleRequest{Title: strings.Repeat("a", 21)})
	if err == nil || !strings.Contains(err.Error(), "at most 20") {
		t.Fatalf("expected max length error, got %v", err)
	}
}
