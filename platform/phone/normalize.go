// Package phone normalizes lead phone numbers.
package phone

import (
	"cmp"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// DefaultRegion is used when no region is configured.
const DefaultRegion = "IN"

// NormalizeE164 returns input in E.164 form. National numbers are read in
// region, or DefaultRegion when region is empty. Input that does not parse to
// a valid number comes back trimmed but otherwise untouched.
func NormalizeE164(input, region string) string {
	raw := strings.TrimSpace(input)
	if raw == "" {
		return ""
	}

	num, err := phonenumbers.Parse(raw, cmp.Or(region, DefaultRegion))
	if err != nil || !phonenumbers.IsValidNumber(num) {
		return raw
	}
	return phonenumbers.Format(num, phonenumbers.E164)
}
