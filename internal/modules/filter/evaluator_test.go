package filter

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/entni-lin/vcf-filter/internal/logger"
	"github.com/entni-lin/vcf-filter/pkg/connector"
)

// testRecord is an in-memory connector.Record for evaluator tests.
type testRecord struct {
	fields map[string]connector.FieldValue
	tags   []string
}

func (r *testRecord) Lookup(field string) connector.FieldValue {
	v, ok := r.fields[field]
	if !ok {
		return connector.Missing()
	}
	return v
}

func (r *testRecord) StatusTags() []string { return r.tags }

func (r *testRecord) ReplaceStatusTags(tag string) { r.tags = []string{tag} }

func (r *testRecord) Location() (string, int64) { return "chr1", 12345 }

func mustCompile(t *testing.T, raw map[string]string) *RuleSet {
	t.Helper()
	rules, err := CompileCriteria(raw)
	if err != nil {
		t.Fatalf("CompileCriteria() error = %v", err)
	}
	return rules
}

// TestEvaluate tests the scalar comparison semantics
func TestEvaluate(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		op      Operator
		operand string
		want    bool
	}{
		{"numeric greater - pass", "15", OpGreater, "10", true},
		{"numeric greater - fail", "5", OpGreater, "10", false},
		{"numeric greater - equal fails", "10", OpGreater, "10", false},
		{"numeric greater or equal - equal passes", "10", OpGreaterEqual, "10", true},
		{"numeric less", "0.01", OpLess, "0.05", true},
		{"numeric less or equal", "0.05", OpLessEqual, "0.05", true},
		{"numeric equality across notation", "10.0", OpEqual, "10", true},
		{"numeric equality exponent", "1e1", OpEqual, "10", true},
		{"numeric inequality", "10.0", OpNotEqual, "10", false},
		{"numeric equality is exact", "0.30000000000000004", OpEqual, "0.3", false},
		{"lexical equality", "artifact", OpEqual, "artifact", true},
		{"lexical equality is case sensitive", "Artifact", OpEqual, "artifact", false},
		{"lexical inequality", "germline", OpNotEqual, "artifact", true},
		{"text never ordered - greater", "abc", OpGreater, "10", false},
		{"text never ordered - less", "abc", OpLess, "zzz", false},
		{"text value numeric operand", "artifact", OpGreaterEqual, "10", false},
		{"numeric value text operand", "10", OpLessEqual, "high", false},
		{"mixed equality falls back to text", "10", OpEqual, "ten", false},
		{"mixed inequality falls back to text", "10", OpNotEqual, "ten", true},
		{"missing marker is text", ".", OpGreater, "0", false},
		{"overflow is infinite", "1e400", OpGreater, "10", true},
		{"negative overflow is infinite", "-1e400", OpLess, "-1e300", true},
		{"infinite operand", "1e308", OpLess, "1e400", true},
		{"underflow is zero", "1e-400", OpEqual, "0", true},
		{"hexadecimal is text", "0x1p4", OpEqual, "16", false},
		{"hexadecimal is never ordered", "0x10", OpGreater, "1", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Evaluate(tt.value, tt.op, tt.operand); got != tt.want {
				t.Errorf("Evaluate(%q, %q, %q) = %v, want %v", tt.value, tt.op, tt.operand, got, tt.want)
			}
		})
	}
}

// TestEvaluatorFieldResolution tests scalar, sequence and missing fields
func TestEvaluatorFieldResolution(t *testing.T) {
	tests := []struct {
		name     string
		criteria map[string]string
		record   *testRecord
		wantPass bool
	}{
		{
			name:     "no conditions accepts everything",
			criteria: map[string]string{},
			record:   &testRecord{},
			wantPass: true,
		},
		{
			name:     "scalar match",
			criteria: map[string]string{"DP": ">=20"},
			record:   &testRecord{fields: map[string]connector.FieldValue{"DP": connector.Scalar("25")}},
			wantPass: true,
		},
		{
			name:     "scalar no match",
			criteria: map[string]string{"DP": ">=20"},
			record:   &testRecord{fields: map[string]connector.FieldValue{"DP": connector.Scalar("19")}},
			wantPass: false,
		},
		{
			name:     "sequence existential - one element qualifies",
			criteria: map[string]string{"TLOD": ">=10"},
			record:   &testRecord{fields: map[string]connector.FieldValue{"TLOD": connector.Sequence([]string{"5", "15"})}},
			wantPass: true,
		},
		{
			name:     "sequence existential - none qualifies",
			criteria: map[string]string{"TLOD": ">=10"},
			record:   &testRecord{fields: map[string]connector.FieldValue{"TLOD": connector.Sequence([]string{"5", "9.9"})}},
			wantPass: false,
		},
		{
			name:     "empty sequence never matches",
			criteria: map[string]string{"AF": "!=0"},
			record:   &testRecord{fields: map[string]connector.FieldValue{"AF": connector.Sequence(nil)}},
			wantPass: false,
		},
		{
			name:     "missing field with equality",
			criteria: map[string]string{"DP": "==10"},
			record:   &testRecord{},
			wantPass: false,
		},
		{
			name:     "missing field with inequality",
			criteria: map[string]string{"DP": "!=10"},
			record:   &testRecord{},
			wantPass: false,
		},
		{
			name:     "all conditions required",
			criteria: map[string]string{"TLOD": ">=10", "DP": ">=20"},
			record: &testRecord{fields: map[string]connector.FieldValue{
				"TLOD": connector.Scalar("8"),
				"DP":   connector.Scalar("30"),
			}},
			wantPass: false,
		},
		{
			name:     "field lookup uses criteria casing",
			criteria: map[string]string{"dp": ">=20"},
			record:   &testRecord{fields: map[string]connector.FieldValue{"DP": connector.Scalar("25")}},
			wantPass: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rules := mustCompile(t, tt.criteria)
			if got := Passes(tt.record, rules); got != tt.wantPass {
				t.Errorf("Passes() = %v, want %v", got, tt.wantPass)
			}
		})
	}
}

// TestEvaluatorStatusTags tests the FILTER membership semantics
func TestEvaluatorStatusTags(t *testing.T) {
	tests := []struct {
		name     string
		criteria map[string]string
		tags     []string
		wantPass bool
	}{
		{"no tags", map[string]string{"FILTER": "artifact"}, nil, false},
		{"empty tags", map[string]string{"FILTER": "artifact"}, []string{}, false},
		{"single tag match", map[string]string{"FILTER": "PASS"}, []string{"PASS"}, true},
		{"single tag mismatch", map[string]string{"FILTER": "PASS"}, []string{"artifact"}, false},
		{"membership among several", map[string]string{"FILTER": "artifact"}, []string{"weak_evidence", "artifact"}, true},
		{"no membership", map[string]string{"FILTER": "artifact"}, []string{"weak_evidence", "strand_bias"}, false},
		{"membership is exact", map[string]string{"FILTER": "art"}, []string{"artifact"}, false},
		{"field name case-insensitive", map[string]string{"filter": "==PASS"}, []string{"PASS"}, true},
		{"numeric looking tag compared as text", map[string]string{"FILTER": "1.0"}, []string{"1"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rules := mustCompile(t, tt.criteria)
			record := &testRecord{
				// an INFO field named FILTER must be ignored
				fields: map[string]connector.FieldValue{"FILTER": connector.Scalar(tt.criteria["FILTER"])},
				tags:   tt.tags,
			}
			if got := Passes(record, rules); got != tt.wantPass {
				t.Errorf("Passes() = %v, want %v", got, tt.wantPass)
			}
		})
	}
}

func TestEvaluatorDoesNotMutateRecord(t *testing.T) {
	rules := mustCompile(t, map[string]string{"DP": ">=1"})
	record := &testRecord{
		fields: map[string]connector.FieldValue{"DP": connector.Scalar("5")},
		tags:   []string{"artifact", "weak_evidence"},
	}

	if !NewEvaluator(rules).Accept(record) {
		t.Fatal("expected record to be accepted")
	}
	if len(record.tags) != 2 || record.tags[0] != "artifact" {
		t.Errorf("evaluator mutated status tags: %v", record.tags)
	}
}

func TestEvaluatorMissingFieldDiagnostics(t *testing.T) {
	tests := []struct {
		name       string
		criteria   map[string]string
		opts       []string
		wantFields []string
	}{
		{
			name:       "default fields reported",
			criteria:   map[string]string{"TLOD": ">=10"},
			wantFields: []string{"TLOD"},
		},
		{
			name:       "default fields case-insensitive",
			criteria:   map[string]string{"dp": ">=10"},
			wantFields: []string{"dp"},
		},
		{
			name:       "other fields not reported by default",
			criteria:   map[string]string{"AF": ">=0.1"},
			wantFields: nil,
		},
		{
			name:       "wildcard reports every field",
			criteria:   map[string]string{"AF": ">=0.1"},
			opts:       []string{AllFields},
			wantFields: []string{"AF"},
		},
		{
			name:       "custom set replaces defaults",
			criteria:   map[string]string{"TLOD": ">=10"},
			opts:       []string{"AF"},
			wantFields: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var reported []string
			options := []EvaluatorOption{
				WithMissingFieldReporter(func(m MissingField) {
					reported = append(reported, m.Field)
				}),
			}
			if tt.opts != nil {
				options = append(options, WithDiagnosticFields(tt.opts...))
			}

			ev := NewEvaluator(mustCompile(t, tt.criteria), options...)
			if ev.Accept(&testRecord{}) {
				t.Fatal("record without fields must not be accepted")
			}

			if len(reported) != len(tt.wantFields) {
				t.Fatalf("reported %v, want %v", reported, tt.wantFields)
			}
			for i := range reported {
				if reported[i] != tt.wantFields[i] {
					t.Errorf("reported[%d] = %q, want %q", i, reported[i], tt.wantFields[i])
				}
			}
		})
	}
}

func TestEvaluatorDiagnosticsDoNotChangeOutcome(t *testing.T) {
	rules := mustCompile(t, map[string]string{"TLOD": ">=10", "DP": ">=20"})
	record := &testRecord{fields: map[string]connector.FieldValue{"TLOD": connector.Scalar("12")}}

	silent := NewEvaluator(rules)
	noisy := NewEvaluator(rules,
		WithDiagnosticFields(AllFields),
		WithMissingFieldReporter(func(MissingField) {}),
	)

	if silent.Accept(record) != noisy.Accept(record) {
		t.Error("diagnostic reporting changed the evaluation outcome")
	}
}

func TestLogMissingField(t *testing.T) {
	var buf bytes.Buffer
	originalLogger := logger.Logger
	defer func() { logger.Logger = originalLogger }()
	logger.Logger = slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	LogMissingField(MissingField{Field: "TLOD", Record: &testRecord{}})

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Failed to parse log output: %v", err)
	}
	if entry["level"] != "WARN" {
		t.Errorf("Expected WARN level, got %v", entry["level"])
	}
	if entry["field"] != "TLOD" {
		t.Errorf("Expected field TLOD, got %v", entry["field"])
	}
	if entry["chrom"] != "chr1" || entry["pos"] != float64(12345) {
		t.Errorf("Expected location chr1:12345, got %v:%v", entry["chrom"], entry["pos"])
	}
	if entry["error"] != `resolution error: field "TLOD": not present on record` {
		t.Errorf("Unexpected error attribute: %v", entry["error"])
	}
}
