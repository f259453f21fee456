package schema

// IsInt64 reports whether s is an optionally signed run of digits.
func IsInt64(s []byte) bool {
	if len(s) == 0 {
		return false
	}
	i := 0
	if s[0] == '-' || s[0] == '+' {
		i++
	}
	if i == len(s) {
		return false
	}
	for ; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// IsFloat64 reports whether s is a decimal number with at most one dot
// and an optional exponent. A dot or an exponent is required, keeping
// plain integers out of this class.
func IsFloat64(s []byte) bool {
	if len(s) == 0 {
		return false
	}
	i := 0
	if s[0] == '-' || s[0] == '+' {
		i++
	}
	if i == len(s) {
		return false
	}
	hasDot := false
	hasDigit := false
	for ; i < len(s); i++ {
		switch {
		case s[i] == '.':
			if hasDot {
				return false
			}
			hasDot = true
		case s[i] >= '0' && s[i] <= '9':
			hasDigit = true
		case s[i] == 'e' || s[i] == 'E':
			if !hasDigit {
				return false
			}
			i++
			if i < len(s) && (s[i] == '+' || s[i] == '-') {
				i++
			}
			if i == len(s) {
				return false
			}
			for ; i < len(s); i++ {
				if s[i] < '0' || s[i] > '9' {
					return false
				}
			}
			return true
		default:
			return false
		}
	}
	return hasDigit && hasDot
}

// isDate matches exactly 10 characters laid out as YYYY-MM-DD, YYYY/MM/DD,
// MM-DD-YYYY or MM/DD/YYYY. Digits are validated positionally; nothing is
// calendar-validated.
func isDate(s []byte) bool {
	if len(s) < 8 || len(s) > 10 {
		return false
	}
	if len(s) == 10 && (s[4] == '-' || s[4] == '/') && (s[7] == '-' || s[7] == '/') {
		for _, i := range [...]int{0, 1, 2, 3, 5, 6, 8, 9} {
			if s[i] < '0' || s[i] > '9' {
				return false
			}
		}
		return true
	}
	if len(s) == 10 && (s[2] == '/' || s[2] == '-') && (s[5] == '/' || s[5] == '-') {
		for _, i := range [...]int{0, 1, 3, 4, 6, 7, 8, 9} {
			if s[i] < '0' || s[i] > '9' {
				return false
			}
		}
		return true
	}
	return false
}

// isCurrency matches an optional leading currency symbol, optional sign,
// digits with commas and at most one dot. The body scan tolerates a
// multi-byte symbol (0xc2-prefixed £ or ¥), but the final verdict still
// requires a literal leading '$'.
func isCurrency(s []byte) bool {
	if len(s) < 2 {
		return false
	}
	i := 0
	if s[0] == '$' || s[0] == 0xc2 {
		i = 1
		if i < len(s) && (s[i] == 0xa3 || s[i] == 0xa5) {
			i++
		}
	}
	if i == len(s) {
		return false
	}
	if s[i] == '-' || s[i] == '+' {
		i++
	}
	hasDigit := false
	hasDot := false
	for ; i < len(s); i++ {
		switch {
		case s[i] >= '0' && s[i] <= '9':
			hasDigit = true
		case s[i] == ',':
		case s[i] == '.':
			if hasDot {
				return false
			}
			hasDot = true
		default:
			return false
		}
	}
	return hasDigit && s[0] == '$'
}

// isBool matches true/false/yes/no/1/0 case-insensitively.
func isBool(s []byte) bool {
	if len(s) < 1 || len(s) > 5 {
		return false
	}
	var buf [5]byte
	for i, c := range s {
		if c >= 'A' && c <= 'Z' {
			c += 32
		}
		buf[i] = c
	}
	switch string(buf[:len(s)]) {
	case "true", "false", "yes", "no", "1", "0":
		return true
	}
	return false
}
