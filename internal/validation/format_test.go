package validation

import (
	"errors"
	"testing"
)

func TestFormatValidValues(t *testing.T) {
	type level string

	const (
		low  level = "low"
		high level = "high"
	)

	got := FormatValidValues([]level{low, high})
	want := "low, high"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestFormatInvalidValueError(t *testing.T) {
	type level string

	const (
		low  level = "low"
		high level = "high"
	)

	base := errors.New("invalid level")
	err := FormatInvalidValueError(base, level("urgent"), []level{low, high})
	if !errors.Is(err, base) {
		t.Fatalf("expected error to wrap %v", base)
	}

	want := "invalid level: \"urgent\" (valid: low, high)"
	if err.Error() != want {
		t.Fatalf("expected %q, got %q", want, err.Error())
	}
}
