package health

import (
	"strings"
	"testing"
)

func TestSentinelErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ErrCheckFailed", ErrCheckFailed},
		{"ErrCheckTimeout", ErrCheckTimeout},
		{"ErrCheckerNotFound", ErrCheckerNotFound},
		{"ErrNotDirectory", ErrNotDirectory},
		{"ErrCircuitOpen", ErrCircuitOpen},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !strings.HasPrefix(tt.err.Error(), "health: ") {
				t.Errorf("%s message = %q, want health: prefix", tt.name, tt.err.Error())
			}
		})
	}
}
