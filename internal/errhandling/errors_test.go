package errhandling

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"
)

func TestClassifiedError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *ClassifiedError
		contains []string
	}{
		{
			name:     "config error",
			err:      NewConfigError("FILTER only supports ==", nil),
			contains: []string{"config error", "FILTER only supports =="},
		},
		{
			name:     "io error with path",
			err:      NewIOError("in.vcf", "no such file", nil),
			contains: []string{"io error", "in.vcf", "no such file"},
		},
		{
			name:     "io error carries cause",
			err:      NewIOError("out.vcf", "cannot write record", errors.New("device full")),
			contains: []string{"io error", "out.vcf", "cannot write record: device full"},
		},
		{
			name:     "resolution error",
			err:      NewResolutionError("TLOD", "missing"),
			contains: []string{"resolution error", `"TLOD"`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, want := range tt.contains {
				if !strings.Contains(msg, want) {
					t.Errorf("Error() = %q, expected to contain %q", msg, want)
				}
			}
		})
	}
}

func TestClassifiedError_Unwrap(t *testing.T) {
	base := errors.New("boom")
	err := NewIOError("out.vcf", "write failed", base)
	if !errors.Is(err, base) {
		t.Error("expected errors.Is to find the original error")
	}

	wrapped := fmt.Errorf("running filter: %w", err)
	var classified *ClassifiedError
	if !errors.As(wrapped, &classified) {
		t.Fatal("expected errors.As to find ClassifiedError")
	}
	if classified.Category != CategoryIO {
		t.Errorf("Category = %s, want %s", classified.Category, CategoryIO)
	}
}

func TestClassifyError(t *testing.T) {
	_, statErr := os.Stat("/definitely/not/here.vcf")

	tests := []struct {
		name string
		err  error
		want ErrorCategory
	}{
		{"nil", nil, CategoryUnknown},
		{"classified passthrough", NewConfigError("x", nil), CategoryConfig},
		{"parse sentinel", fmt.Errorf("%w: bad json", ErrConfigParse), CategoryConfig},
		{"invalid sentinel", fmt.Errorf("%w: bad op", ErrConfigInvalid), CategoryConfig},
		{"path error", statErr, CategoryIO},
		{"plain error", errors.New("something"), CategoryUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyError(tt.err).Category; got != tt.want {
				t.Errorf("ClassifyError() category = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestIsFatal(t *testing.T) {
	if IsFatal(nil) {
		t.Error("nil should not be fatal")
	}
	if !IsFatal(NewConfigError("bad", nil)) {
		t.Error("config errors should be fatal")
	}
	if !IsFatal(NewIOError("x", "bad", nil)) {
		t.Error("io errors should be fatal")
	}
	if IsFatal(NewResolutionError("DP", "missing")) {
		t.Error("resolution misses should not be fatal")
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"success", nil, ExitSuccess},
		{"parse", fmt.Errorf("%w: eof", ErrConfigParse), ExitParseError},
		{"invalid", fmt.Errorf("%w: FILTER", ErrConfigInvalid), ExitValidationError},
		{"config classified", NewConfigError("bad", nil), ExitValidationError},
		{"classified wrapping parse", NewConfigError("bad", ErrConfigParse), ExitParseError},
		{"io", NewIOError("in.vcf", "missing", nil), ExitRuntimeError},
		{"unknown", errors.New("x"), ExitRuntimeError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCode(tt.err); got != tt.want {
				t.Errorf("ExitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}
