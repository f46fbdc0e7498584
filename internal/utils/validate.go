package utils

import (
	"regexp"
	"strings"
)

var (
	meterNumberRe = regexp.MustCompile(`^[A-Z0-9]{6,12}$`)
	phoneRe       = regexp.MustCompile(`^\+?[1-9]\d{7,15}$`)
	emailRe       = regexp.MustCompile(`^\w+([.-]?\w+)*@\w+([.-]?\w+)*(\.\w{2,3})+$`)
	upiRe         = regexp.MustCompile(`^[a-zA-Z0-9.\-_]{2,256}@[a-zA-Z]{2,64}$`)
)

// ValidMeterNumber accepts 6-12 upper-case alphanumerics. Callers normalize
// case before checking.
func ValidMeterNumber(v string) bool {
	return meterNumberRe.MatchString(v)
}

// ValidPhone accepts 8-16 digits with an optional leading +.
func ValidPhone(v string) bool {
	return phoneRe.MatchString(v)
}

// ValidEmail performs a deliberately loose format check; deliverability is
// not our problem.
func ValidEmail(v string) bool {
	return emailRe.MatchString(v)
}

// ValidUpiID accepts name@provider payment identifiers.
func ValidUpiID(v string) bool {
	return upiRe.MatchString(v)
}

// ValidPassword enforces at least 8 characters with one lower-case letter,
// one upper-case letter, one digit and one special character.
func ValidPassword(v string) bool {
	if len(v) < 8 {
		return false
	}
	var lower, upper, digit, special bool
	for _, r := range v {
		switch {
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune("@$!%*?&", r):
			special = true
		}
	}
	return lower && upper && digit && special
}

// ValidName accepts 2-50 characters.
func ValidName(v string) bool {
	n := len(strings.TrimSpace(v))
	return n >= 2 && n <= 50
}

// ValidAddress accepts 10-200 characters.
func ValidAddress(v string) bool {
	n := len(strings.TrimSpace(v))
	return n >= 10 && n <= 200
}
