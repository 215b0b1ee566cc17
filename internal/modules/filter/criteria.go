// Package filter provides the criteria filter module.
// This file compiles the criteria document (field -> condition string) into
// an immutable RuleSet.
package filter

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"github.com/entni-lin/vcf-filter/internal/errhandling"
	"github.com/entni-lin/vcf-filter/internal/logger"
)

// StatusTagField is the field name (case-insensitive) that addresses the
// record's status-tag collection instead of its annotation store.
const StatusTagField = "FILTER"

// Operator is a comparison operator of a condition.
type Operator string

// Supported comparison operators
const (
	OpGreater      Operator = ">"
	OpGreaterEqual Operator = ">="
	OpLess         Operator = "<"
	OpLessEqual    Operator = "<="
	OpEqual        Operator = "=="
	OpNotEqual     Operator = "!="
)

var allowedOperators = map[Operator]bool{
	OpGreater:      true,
	OpGreaterEqual: true,
	OpLess:         true,
	OpLessEqual:    true,
	OpEqual:        true,
	OpNotEqual:     true,
}

// operatorTokens is scanned in order. Two-character tokens must precede their
// one-character prefixes or ">=10" would parse as ">" with operand "=10".
var operatorTokens = []struct {
	token string
	op    Operator
}{
	{">=", OpGreaterEqual},
	{"<=", OpLessEqual},
	{"==", OpEqual},
	{"!=", OpNotEqual},
	{">", OpGreater},
	{"<", OpLess},
}

// IsValid reports whether op is one of the six supported operators.
func (op Operator) IsValid() bool {
	return allowedOperators[op]
}

// IsOrdering reports whether op compares by ordering rather than equality.
func (op Operator) IsOrdering() bool {
	switch op {
	case OpGreater, OpGreaterEqual, OpLess, OpLessEqual:
		return true
	default:
		return false
	}
}

// Condition is a single compiled rule.
type Condition struct {
	Field    string
	Operator Operator
	Operand  string

	// operand parsed once at compile time
	operandNum   float64
	operandIsNum bool
}

// String renders the condition as "FIELD OP OPERAND".
func (c Condition) String() string {
	return fmt.Sprintf("%s %s %s", c.Field, c.Operator, c.Operand)
}

// IsStatusTag reports whether the condition targets the status-tag field.
func (c Condition) IsStatusTag() bool {
	return strings.EqualFold(c.Field, StatusTagField)
}

// RuleSet is the compiled collection of conditions for one run.
// It is read-only after CompileCriteria returns and safe for concurrent use.
type RuleSet struct {
	conditions []Condition
}

// Len returns the number of conditions.
func (r *RuleSet) Len() int {
	if r == nil {
		return 0
	}
	return len(r.conditions)
}

// Conditions returns a copy of the conditions, ordered by field name.
func (r *RuleSet) Conditions() []Condition {
	if r == nil {
		return nil
	}
	out := make([]Condition, len(r.conditions))
	copy(out, r.conditions)
	return out
}

// Get returns the condition compiled for field (exact name match).
func (r *RuleSet) Get(field string) (Condition, bool) {
	if r == nil {
		return Condition{}, false
	}
	for _, c := range r.conditions {
		if c.Field == field {
			return c, true
		}
	}
	return Condition{}, false
}

// ParseCondition parses one condition string of the form "[operator]operand".
// Whitespace is trimmed; when no operator token leads the string the operator
// defaults to "==" and the whole trimmed string is the operand. A token must be
// followed by at least one character, so ">=" parses as ">" with operand "="
// while "==" has no shorter token and is the operand "==".
func ParseCondition(field, raw string) (Condition, error) {
	trimmed := strings.TrimSpace(raw)

	op := OpEqual
	operand := trimmed
	for _, candidate := range operatorTokens {
		// A bare token falls through to a shorter token that still leaves an
		// operand; only when none does is the whole string the operand.
		if !strings.HasPrefix(trimmed, candidate.token) || len(trimmed) == len(candidate.token) {
			continue
		}
		if !candidate.op.IsValid() {
			return Condition{}, errhandling.NewConfigError(
				fmt.Sprintf("operator %q is not allowed in condition %s: %q", candidate.token, field, raw),
				errhandling.ErrConfigInvalid,
			)
		}
		op = candidate.op
		operand = strings.TrimSpace(trimmed[len(candidate.token):])
		break
	}

	cond := Condition{
		Field:    field,
		Operator: op,
		Operand:  operand,
	}
	cond.operandNum, cond.operandIsNum = parseNumber(operand)
	return cond, nil
}

// CompileCriteria compiles a criteria document into a RuleSet.
//
// It fails with a config error when a condition cannot be parsed or when the
// status-tag field is given an operator other than "==". Both are detected
// here so that a run aborts before any record is read.
func CompileCriteria(raw map[string]string) (*RuleSet, error) {
	fields := make([]string, 0, len(raw))
	for field := range raw {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	conditions := make([]Condition, 0, len(fields))
	for _, field := range fields {
		cond, err := ParseCondition(field, raw[field])
		if err != nil {
			return nil, err
		}
		if cond.IsStatusTag() && cond.Operator != OpEqual {
			return nil, errhandling.NewConfigError(
				fmt.Sprintf("%s only supports string equality, got operator %q", field, cond.Operator),
				errhandling.ErrConfigInvalid,
			)
		}
		conditions = append(conditions, cond)
	}

	for _, c := range conditions {
		logger.Debug("criteria condition compiled",
			slog.String("field", c.Field),
			slog.String("operator", string(c.Operator)),
			slog.String("operand", c.Operand),
			slog.Bool("numeric_operand", c.operandIsNum),
		)
	}

	return &RuleSet{conditions: conditions}, nil
}

// parseNumber interprets s as a decimal number. Values beyond the float64
// range become ±Inf; hexadecimal notation is not a number here.
func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" || strings.ContainsAny(s, "xX") {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, false
	}
	return f, true
}
