package cli

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/entni-lin/vcf-filter/internal/config"
	"github.com/entni-lin/vcf-filter/pkg/connector"
)

func capture(t *testing.T) (stdout, stderr *bytes.Buffer) {
	t.Helper()
	stdout, stderr = &bytes.Buffer{}, &bytes.Buffer{}
	oldOut, oldErr := Stdout, Stderr
	Stdout, Stderr = stdout, stderr
	t.Cleanup(func() { Stdout, Stderr = oldOut, oldErr })
	return stdout, stderr
}

func TestPrintParseErrors(t *testing.T) {
	_, stderr := capture(t)

	PrintParseErrors([]config.ParseError{
		{Path: "criteria.json", Line: 3, Column: 5, Message: "invalid character", Type: config.ErrorTypeSyntax},
		{Message: "no location"},
	}, true)

	out := stderr.String()
	if !strings.Contains(out, "Parse errors") {
		t.Errorf("expected header, got: %s", out)
	}
	if !strings.Contains(out, "criteria.json:3:5: invalid character") {
		t.Errorf("expected location, got: %s", out)
	}
	if !strings.Contains(out, "Type: syntax") {
		t.Errorf("expected type in verbose mode, got: %s", out)
	}
	if !strings.Contains(out, "  no location\n") {
		t.Errorf("expected bare message, got: %s", out)
	}
}

func TestPrintValidationErrors(t *testing.T) {
	_, stderr := capture(t)

	PrintValidationErrors([]config.ValidationError{
		{Path: "/DP", Type: "type", Message: strings.Repeat("x", 100)},
		{Message: "root problem"},
	}, false, false)

	out := stderr.String()
	if !strings.Contains(out, "/DP: "+strings.Repeat("x", 77)+"...") {
		t.Errorf("expected truncated message, got: %s", out)
	}
	if !strings.Contains(out, "/: root problem") {
		t.Errorf("expected root path, got: %s", out)
	}
	if !strings.Contains(out, "Hint:") {
		t.Errorf("expected hint, got: %s", out)
	}
}

func TestPrintExecutionResult_Success(t *testing.T) {
	stdout, _ := capture(t)
	start := time.Now()

	PrintExecutionResult(&connector.ExecutionResult{
		RunID:            "run-1",
		Status:           "success",
		StartedAt:        start,
		CompletedAt:      start.Add(2 * time.Second),
		RecordsProcessed: 10,
		RecordsAccepted:  4,
		RecordsRejected:  6,
	}, nil, OutputOptions{Verbose: true})

	out := stdout.String()
	if !strings.Contains(out, "Filtering completed") {
		t.Errorf("expected completion line, got: %s", out)
	}
	if !strings.Contains(out, "Processed 10 records in 2.00s") {
		t.Errorf("expected metrics, got: %s", out)
	}
	if !strings.Contains(out, "4 accepted, 6 unchanged") {
		t.Errorf("expected counts, got: %s", out)
	}
	if !strings.Contains(out, "Run ID: run-1") {
		t.Errorf("expected run id in verbose mode, got: %s", out)
	}
}

func TestPrintExecutionResult_Quiet(t *testing.T) {
	stdout, _ := capture(t)

	PrintExecutionResult(&connector.ExecutionResult{Status: "success"}, nil, OutputOptions{Quiet: true})

	if stdout.Len() != 0 {
		t.Errorf("expected no output in quiet mode, got: %s", stdout.String())
	}
}

func TestPrintExecutionResult_Failure(t *testing.T) {
	_, stderr := capture(t)

	PrintExecutionResult(&connector.ExecutionResult{
		RecordsProcessed: 3,
		Error: &connector.ExecutionError{
			Code:    "INPUT_FAILED",
			Message: "io error: calls.vcf: cannot read record",
			Module:  "input",
			Details: map[string]interface{}{"recordIndex": 3},
		},
	}, errors.New("boom"), OutputOptions{})

	out := stderr.String()
	if !strings.Contains(out, "Filtering failed") {
		t.Errorf("expected failure line, got: %s", out)
	}
	if !strings.Contains(out, "Module: input") {
		t.Errorf("expected module, got: %s", out)
	}
	if !strings.Contains(out, "After record: 3") {
		t.Errorf("expected record index, got: %s", out)
	}
}

func TestPrintCriteriaSummary(t *testing.T) {
	stdout, _ := capture(t)

	PrintCriteriaSummary(map[string]string{"TLOD": ">=10", "DP": ">=20"})

	out := stdout.String()
	if !strings.Contains(out, "Conditions (2)") {
		t.Errorf("expected count, got: %s", out)
	}
	if strings.Index(out, "DP >=20") > strings.Index(out, "TLOD >=10") {
		t.Errorf("expected fields sorted, got: %s", out)
	}

	stdout.Reset()
	PrintCriteriaSummary(map[string]string{})
	if !strings.Contains(stdout.String(), "every record is accepted") {
		t.Errorf("expected empty criteria note, got: %s", stdout.String())
	}
}
