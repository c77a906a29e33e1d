// Package datecode decodes the compact numeric date codes stored on documents.
//
// A code is a run of decimal digits read in two-character groups:
// year-of-century, month, day. Trailing groups are ignored. The century is
// fixed to 19xx; there is no disambiguation.
package datecode

import (
	"fmt"

	"github.com/kailas-cloud/docsearch/internal/domain"
)

// minLength is the number of digits needed for year, month and day.
const minLength = 6

// Decode converts a date code into "19yy-mm-dd".
// ok is false when v is nil, not a string, or not a usable digit string.
// err is non-nil (wrapping domain.ErrDecodeSkipped) only for a value that was
// present but malformed; callers treat it as a recoverable event.
func Decode(v any) (date string, ok bool, err error) {
	if v == nil {
		return "", false, nil
	}
	code, isString := v.(string)
	if !isString {
		return "", false, fmt.Errorf("%w: unexpected type %T", domain.ErrDecodeSkipped, v)
	}
	if !isDigits(code) {
		return "", false, fmt.Errorf("%w: %q is not a digit string", domain.ErrDecodeSkipped, code)
	}
	if len(code) < minLength {
		return "", false, fmt.Errorf("%w: %q is shorter than %d digits", domain.ErrDecodeSkipped, code, minLength)
	}
	return "19" + code[0:2] + "-" + code[2:4] + "-" + code[4:6], true, nil
}

// isDigits reports whether s is non-empty and made only of ASCII digits.
func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
