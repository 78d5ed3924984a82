package validator

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// emailPattern is the deliberately loose local@domain.tld shape.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Required fails when value is empty. Whitespace counts as a value.
func Required(field, value string) Rule {
	return Rule{
		Check: func() bool { return value != "" },
		Error: ValidationError{Field: field, Message: field + " is required"},
	}
}

// Email fails when a non-empty value is not shaped like local@domain.tld.
func Email(field, value string) Rule {
	return Rule{
		Check: func() bool { return value == "" || emailPattern.MatchString(value) },
		Error: ValidationError{Field: field, Message: "Invalid email format"},
	}
}

// PositiveDecimal fails when a non-empty value is not a finite number
// strictly greater than zero.
func PositiveDecimal(field, value, message string) Rule {
	if message == "" {
		message = "must be a positive number"
	}
	return Rule{
		Check: func() bool {
			if value == "" {
				return true
			}
			_, ok := ParsePositive(value)
			return ok
		},
		Error: ValidationError{Field: field, Message: message},
	}
}

// MaxLen fails when value has more than n characters.
func MaxLen(field, value string, n int, message string) Rule {
	if message == "" {
		message = fmt.Sprintf("must be %d characters or less", n)
	}
	return Rule{
		Check: func() bool { return utf8.RuneCountInString(value) <= n },
		Error: ValidationError{Field: field, Message: message},
	}
}

// ParsePositive parses a decimal string and reports whether it is a
// finite value greater than zero.
func ParsePositive(value string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f <= 0 {
		return 0, false
	}
	return f, true
}
