package filter

// Evaluate compares value against operand with the given operator.
//
// When both sides parse as decimal numbers the comparison is numeric (exact
// float equality, no epsilon). Otherwise "==" and "!=" compare the text and
// every ordering operator evaluates to false: free text is never ordered.
func Evaluate(value string, op Operator, operand string) bool {
	operandNum, operandIsNum := parseNumber(operand)
	return compare(value, op, operand, operandNum, operandIsNum)
}

// matches applies the condition to a single scalar value using the operand
// parsed at compile time.
func (c Condition) matches(value string) bool {
	return compare(value, c.Operator, c.Operand, c.operandNum, c.operandIsNum)
}

func compare(value string, op Operator, operand string, operandNum float64, operandIsNum bool) bool {
	if operandIsNum {
		if valueNum, ok := parseNumber(value); ok {
			return compareNumbers(valueNum, op, operandNum)
		}
	}

	switch op {
	case OpEqual:
		return value == operand
	case OpNotEqual:
		return value != operand
	default:
		return false
	}
}

func compareNumbers(v float64, op Operator, operand float64) bool {
	switch op {
	case OpGreater:
		return v > operand
	case OpGreaterEqual:
		return v >= operand
	case OpLess:
		return v < operand
	case OpLessEqual:
		return v <= operand
	case OpEqual:
		return v == operand
	case OpNotEqual:
		return v != operand
	default:
		return false
	}
}
