package momo

import "strings"

// NormalizePhone converts a raw phone number into the international form
// the collection API expects: countryCode followed by 8 or 9 digits, no
// plus sign. Formatting characters are stripped, a leading zero is
// replaced by the country code, and the country code is prepended when
// absent. Normalization is idempotent.
func NormalizePhone(raw, countryCode string) (string, error) {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '(', ')', '\t':
			return -1
		}
		return r
	}, raw)
	cleaned = strings.TrimPrefix(cleaned, "+")

	if cleaned == "" || !isDigits(cleaned) {
		return "", ErrInvalidPhoneNumber
	}

	switch {
	case strings.HasPrefix(cleaned, "0"):
		cleaned = countryCode + cleaned[1:]
	case !strings.HasPrefix(cleaned, countryCode):
		cleaned = countryCode + cleaned
	}

	subscriber := len(cleaned) - len(countryCode)
	if subscriber != 8 && subscriber != 9 {
		return "", ErrInvalidPhoneNumber
	}

	return cleaned, nil
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
