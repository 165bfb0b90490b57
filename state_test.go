package soaper_test

import (
	"testing"

	"github.com/adamwoolhether/soaper"
)

func TestState_String(t *testing.T) {
	testCases := []struct {
		state soaper.State
		want  string
	}{
		{soaper.StateNew, "NEW"},
		{soaper.StateStarting, "STARTING"},
		{soaper.StateRunning, "RUNNING"},
		{soaper.StateStopping, "STOPPING"},
		{soaper.StateStopped, "STOPPED"},
		{soaper.StateFailed, "FAILED"},
		{soaper.State(42), "State(42)"},
	}

	for _, tc := range testCases {
		if got := tc.state.String(); got != tc.want {
			t.Errorf("String() = %q, want %q", got, tc.want)
		}
	}
}
