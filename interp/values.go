package interp

import "strconv"

// isTruthy implements Lox's truthiness rule: nil and false are
// falsey, everything else (including 0 and "") is truthy.
func isTruthy(v interface{}) bool {
	if v == nil {
		return false
	}
	if b, ok := v.(bool); ok {
		return b
	}
	return true
}

// isEqual never coerces types: "1" and 1.0 are not equal.
func isEqual(a, b interface{}) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return a == b
}

// stringify renders a runtime value for `print` and the REPL's
// bare-expression echo. Lox prints integral floats without the
// trailing ".0" Go's default formatting would add.
func stringify(v interface{}) string {
	if v == nil {
		return "nil"
	}
	switch val := v.(type) {
	case float64:
		// FormatFloat with precision -1 renders 3 as "3", matching
		// jlox's Double.toString() trimming of trailing ".0".
		return strconv.FormatFloat(val, 'f', -1, 64)
	case string:
		return val
	case bool:
		if val {
			return "true"
		}
		return "false"
	case Callable:
		return val.String()
	case *Instance:
		return val.String()
	default:
		return "nil"
	}
}
