package config

import (
	"errors"
	"strings"
	"testing"
)

func TestExpandEnvStrict_MissingVarErrors(t *testing.T) {
	t.Setenv("PRESENT", "ok")

	_, err := ExpandEnvStrict("a=${PRESENT} b=${PPCALC_TEST_MISSING}")
	if err == nil {
		t.Fatalf("expected error")
	}
	if !errors.Is(err, ErrMissingEnv) {
		t.Errorf("error = %v, want ErrMissingEnv", err)
	}
	if !strings.Contains(err.Error(), "PPCALC_TEST_MISSING") {
		t.Fatalf("expected missing var name in error, got: %v", err)
	}
}

func TestExpandEnvStrict_DollarEscape(t *testing.T) {
	t.Setenv("X", "y")

	out, err := ExpandEnvStrict("$$${X}")
	if err != nil {
		t.Fatalf("ExpandEnvStrict() error = %v", err)
	}
	if out != "$y" {
		t.Fatalf("ExpandEnvStrict() = %q, want %q", out, "$y")
	}
}

func TestExpandEnvStrict_PlainStringUnchanged(t *testing.T) {
	out, err := ExpandEnvStrict("https://osu.ppy.sh/osu/")
	if err != nil {
		t.Fatalf("ExpandEnvStrict() error = %v", err)
	}
	if out != "https://osu.ppy.sh/osu/" {
		t.Errorf("ExpandEnvStrict() = %q", out)
	}
}
