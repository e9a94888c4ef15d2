package domain

import "strings"

// NormalizeRegistrationNumber upper-cases a plate and strips spaces and
// hyphens. All matching runs on the normalized form, never on the raw
// display form. Normalization is idempotent.
func NormalizeRegistrationNumber(registrationNumber string) string {
	normalized := strings.ToUpper(registrationNumber)
	normalized = strings.ReplaceAll(normalized, "-", "")
	normalized = strings.ReplaceAll(normalized, " ", "")
	return normalized
}
