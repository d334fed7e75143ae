package output

import (
	"errors"
	"fmt"
	"testing"
)

func TestExitError(t *testing.T) {
	tests := []struct {
		name     string
		err      *ExitError
		wantCode int
		wantMsg  string
	}{
		{"user error", NewUserError("unknown assistant: x"), ExitUserError, "unknown assistant: x"},
		{"system error", NewSystemError("save failed"), ExitSystemError, "save failed"},
		{"conflict error", NewConflictError("file exists"), ExitConflict, "file exists"},
		{"interrupted clean", NewInterruptedError(nil), ExitInterrupted, "interrupted"},
		{"interrupted with save failure", NewInterruptedError(errors.New("disk full")), ExitInterrupted, "interrupted: disk full"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.wantCode {
				t.Errorf("Code = %d, want %d", tt.err.Code, tt.wantCode)
			}
			if tt.err.Error() != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", tt.err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestExitError_Unwrap(t *testing.T) {
	cause := errors.New("permission denied")
	err := NewSystemErrorWithCause("failed to save log", cause)

	if !errors.Is(err, cause) {
		t.Error("errors.Is should find the wrapped cause")
	}
}

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"user error", NewUserError("bad"), ExitUserError},
		{"system error", NewSystemError("bad"), ExitSystemError},
		{"interrupted", NewInterruptedError(nil), ExitInterrupted},
		{"wrapped system error", fmt.Errorf("loading: %w", NewSystemError("bad")), ExitSystemError},
		{"plain error", errors.New("plain"), ExitUserError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetExitCode(tt.err); got != tt.want {
				t.Errorf("GetExitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}
