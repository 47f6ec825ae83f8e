// internal/app/system/phone/phone.go

// Package phone normalizes lead contact numbers to E.164 so the
// (number, working_day) uniqueness key does not depend on how the number
// was typed.
package phone

import (
	"errors"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// DefaultRegion is assumed for numbers submitted without a country code.
const DefaultRegion = "BD"

// ErrInvalidNumber is returned for numbers that do not parse or are not
// valid for their region.
var ErrInvalidNumber = errors.New("invalid phone number")

// Normalize parses raw against the given region (DefaultRegion when
// region is empty) and returns the E.164 form.
func Normalize(raw, region string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrInvalidNumber
	}
	if region == "" {
		region = DefaultRegion
	}

	num, err := phonenumbers.Parse(raw, region)
	if err != nil {
		return "", ErrInvalidNumber
	}
	if !phonenumbers.IsValidNumber(num) {
		return "", ErrInvalidNumber
	}
	return phonenumbers.Format(num, phonenumbers.E164), nil
}
