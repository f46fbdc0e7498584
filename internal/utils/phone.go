package utils

import "strings"

// NormalizePhone strips spaces, dashes, parentheses and dots from a phone
// number. A leading + survives; any other + signs are dropped.
func NormalizePhone(phone string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(phone) {
		switch r {
		case ' ', '-', '(', ')', '.':
			continue
		}
		b.WriteRune(r)
	}
	normalized := b.String()
	if strings.HasPrefix(normalized, "+") {
		return normalized
	}
	return strings.ReplaceAll(normalized, "+", "")
}

// PhonesMatch compares two phone numbers after normalization, tolerating
// the presence or absence of a leading + on either side.
func PhonesMatch(a, b string) bool {
	na := NormalizePhone(a)
	nb := NormalizePhone(b)
	naBare := strings.TrimPrefix(na, "+")
	nbBare := strings.TrimPrefix(nb, "+")
	return na == nb || naBare == nbBare || na == nbBare || naBare == nb
}
