package profile

import "regexp"

var (
	emailPattern = regexp.MustCompile(`(?i)\b[a-z0-9._%+-]+@[a-z0-9.-]+\.[a-z]{2,}\b`)
	// Deliberately permissive: any run of 10+ digits, whitespace, hyphens or
	// parentheses counts, so long numeric runs also match.
	phonePattern = regexp.MustCompile(`\+?[\d\s\-()]{10,}`)
)

// ExtractEmail returns the leftmost email-like substring or "".
func ExtractEmail(text string) string {
	return emailPattern.FindString(text)
}

// ExtractPhone returns the leftmost phone-like run or "".
func ExtractPhone(text string) string {
	return phonePattern.FindString(text)
}
