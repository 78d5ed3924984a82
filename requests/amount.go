package requests

import (
	"bytes"
	"encoding/json"

	"github.com/happydeel/mailroom/pkg/validator"
)

// Amount is a decimal kept in its submitted textual form. The console form
// posts it as a string; API clients may post a number.
type Amount string

// UnmarshalJSON accepts a JSON number, a JSON string or null. Any other
// token is kept verbatim so validation reports it as an invalid amount.
func (a *Amount) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*a = ""
		return nil
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*a = Amount(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		*a = Amount(b)
		return nil
	}
	*a = Amount(n.String())
	return nil
}

// Value returns the parsed amount and whether it is a finite positive number.
func (a Amount) Value() (float64, bool) {
	return validator.ParsePositive(string(a))
}
