// Package phone normalizes contact numbers for display and export. Most leads
// carry Bangladeshi mobile numbers typed in by hand, with and without the
// country code.
package phone

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// Validator parses and formats phone numbers against a default region.
type Validator struct {
	defaultRegion string
}

// NewValidator creates a phone validator. region is an ISO 3166-1 alpha-2
// code, e.g. "BD".
func NewValidator(region string) *Validator {
	if region == "" {
		region = "BD"
	}
	return &Validator{defaultRegion: strings.ToUpper(region)}
}

// IsValid reports whether raw parses as a valid number for the default region.
func (v *Validator) IsValid(raw string) bool {
	num, err := phonenumbers.Parse(strings.TrimSpace(raw), v.defaultRegion)
	if err != nil {
		return false
	}
	return phonenumbers.IsValidNumber(num)
}

// Normalize returns raw in E.164 form ("+8801712345678"). Numbers that do not
// parse come back unchanged: export must never drop a row over a typo.
func (v *Validator) Normalize(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	num, err := phonenumbers.Parse(trimmed, v.defaultRegion)
	if err != nil || !phonenumbers.IsValidNumber(num) {
		return trimmed
	}
	return phonenumbers.Format(num, phonenumbers.E164)
}

// Display returns raw in national formatting ("01712-345678"), falling back
// to the input when it does not parse.
func (v *Validator) Display(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	num, err := phonenumbers.Parse(trimmed, v.defaultRegion)
	if err != nil || !phonenumbers.IsValidNumber(num) {
		return trimmed
	}
	return phonenumbers.Format(num, phonenumbers.NATIONAL)
}
