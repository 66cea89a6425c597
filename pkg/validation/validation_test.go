package validation

import (
	"errors"
	"math"
	"strings"
	"testing"
)

func TestConfigValidator_RangeFloat(t *testing.T) {
	tests := []struct {
		name    string
		value   float64
		wantErr bool
	}{
		{"inside", 0.015, false},
		{"lower bound", 0, false},
		{"upper bound", 0.05, false},
		{"above", 0.06, true},
		{"negative", -0.01, true},
		{"nan", math.NaN(), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cv := NewConfigValidator("Config").RangeFloat("Threshold", tt.value, 0, 0.05)
			if cv.HasErrors() != tt.wantErr {
				t.Errorf("RangeFloat(%v) errors = %v, want %v", tt.value, cv.Errors(), tt.wantErr)
			}
		})
	}
}

func TestConfigValidator_CollectsAll(t *testing.T) {
	cv := NewConfigValidator("Config").
		Required("Edges", "").
		PositiveFloat("MaxThreshold", 0).
		NonNegative("LargestClusters", -1).
		NonNegative("IndividualField", 0).
		OneOf("LogLevel", "loud", []string{"debug", "info"})

	if got := len(cv.Errors()); got != 4 {
		t.Fatalf("expected 4 errors, got %d: %v", got, cv.Errors())
	}
	err := cv.Validate()
	if err == nil || !strings.Contains(err.Error(), "4 errors") {
		t.Errorf("Validate() = %v", err)
	}
	if !strings.Contains(cv.Errors()[0].Error(), "Config.Edges") {
		t.Errorf("error should be prefixed with config name: %v", cv.Errors()[0])
	}
}

func TestConfigValidator_CustomAndWhen(t *testing.T) {
	sentinel := errors.New("threshold above ceiling")
	cv := NewConfigValidator("Config").
		Custom("Threshold", func() error { return sentinel }).
		When(false, func(cv *ConfigValidator) { cv.Required("Never", "") })

	err := cv.Validate()
	if !errors.Is(err, sentinel) {
		t.Errorf("Validate() = %v, want wrapped sentinel", err)
	}
}

func TestDefaultOr(t *testing.T) {
	if got := DefaultOr("", "|"); got != "|" {
		t.Errorf("DefaultOr empty = %q", got)
	}
	if got := DefaultOr(0.02, 0.015); got != 0.02 {
		t.Errorf("DefaultOr set = %v", got)
	}
}

type colourRequest struct {
	Color     string `validate:"omitempty,hexcolor"`
	Delimiter string `validate:"required,single_rune"`
	Count     int    `validate:"gte=0"`
}

func TestStruct(t *testing.T) {
	tests := []struct {
		name    string
		req     *colourRequest
		wantErr string
	}{
		{"valid", &colourRequest{Color: "#1f77b4", Delimiter: "|"}, ""},
		{"empty colour allowed", &colourRequest{Delimiter: "|"}, ""},
		{"bad colour", &colourRequest{Color: "blue", Delimiter: "|"}, "hex colour"},
		{"long delimiter", &colourRequest{Delimiter: "||"}, "exactly one character"},
		{"missing delimiter", &colourRequest{}, "required"},
		{"negative count", &colourRequest{Delimiter: "|", Count: -1}, "at least 0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Struct(tt.req)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Struct() = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestVar(t *testing.T) {
	if err := Var("color", "#abcdef", "hexcolor"); err != nil {
		t.Errorf("valid colour rejected: %v", err)
	}
	if err := Var("color", "#zzz", "hexcolor"); err == nil {
		t.Error("invalid colour accepted")
	}
}
