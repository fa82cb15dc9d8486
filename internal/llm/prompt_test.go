package llm_test

import (
	"errors"
	"testing"

	"github.com/mcg-platform/componentgen/internal/llm"
)

func TestParseComponent(t *testing.T) {
	raw := `{"jsx": "function Card() { return <div />; }\nrender(<Card />);", "css": ""}`

	component, err := llm.ParseComponent(raw)
	if err != nil {
		t.Fatalf("ParseComponent() error: %v", err)
	}

	if component.JSX == "" {
		t.Error("expected non-empty jsx")
	}
	if component.CSS != "" {
		t.Errorf("expected empty css, got %q", component.CSS)
	}
}

func TestParseComponent_InvalidJSON(t *testing.T) {
	_, err := llm.ParseComponent("not json at all")
	if err == nil {
		t.Fatal("expected error for invalid JSON")
	}

	var outErr *llm.OutputError
	if !errors.As(err, &outErr) {
		t.Fatalf("expected OutputError, got %T", err)
	}
	if outErr.Raw != "not json at all" {
		t.Error("expected raw response to be preserved")
	}
}

func TestParseComponent_MissingFields(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"missing css", `{"jsx": "render(<A />);"}`},
		{"missing jsx", `{"css": ""}`},
		{"wrong types", `{"jsx": 42, "css": true}`},
		{"empty object", `{}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := llm.ParseComponent(tt.raw)
			if err == nil {
				t.Error("expected error for incomplete output")
			}
		})
	}
}

func TestValidateJSX(t *testing.T) {
	tests := []struct {
		name    string
		jsx     string
		wantErr bool
	}{
		{
			"valid component",
			"function Card() { return <div />; }\nrender(<Card />);",
			false,
		},
		{
			"render with space",
			"const A = () => <p />;\nrender (<A />);",
			false,
		},
		{
			"missing render call",
			"function Card() { return <div />; }",
			true,
		},
		{
			"export default",
			"export default function Card() {}\nrender(<Card />);",
			true,
		},
		{
			"named export",
			"export const Card = () => <div />;\nrender(<Card />);",
			true,
		},
		{
			"empty",
			"",
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := llm.ValidateJSX(tt.jsx)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateJSX() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestComponentName(t *testing.T) {
	tests := []struct {
		name     string
		jsx      string
		expected string
	}{
		{
			"simple render",
			"function PricingCard() {}\nrender(<PricingCard />);",
			"PricingCard",
		},
		{
			"render with whitespace",
			"render( < LoginForm /> );",
			"LoginForm",
		},
		{
			"no render call",
			"function Card() {}",
			"Component",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := llm.ComponentName(tt.jsx); got != tt.expected {
				t.Errorf("ComponentName() = %q, want %q", got, tt.expected)
			}
		})
	}
}
