package commands

import (
	"testing"

	"github.com/lp-radius/goradius/internal/radius/registry"
)

func TestParseAcctStatusType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  registry.AcctStatusType
	}{
		{"start", registry.AcctStatusTypeStart},
		{"stop", registry.AcctStatusTypeStop},
		{"interim", registry.AcctStatusTypeInterimUpdate},
		{"on", registry.AcctStatusTypeAccountingOn},
		{"off", registry.AcctStatusTypeAccountingOff},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			got, err := parseAcctStatusType(tt.input)
			if err != nil {
				t.Fatalf("parseAcctStatusType(%q) error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("parseAcctStatusType(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseAcctStatusTypeUnrecognized(t *testing.T) {
	t.Parallel()

	if _, err := parseAcctStatusType("bogus"); err == nil {
		t.Fatal("parseAcctStatusType(\"bogus\") returned nil error")
	}
}
