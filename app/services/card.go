package services

import (
	"strings"
	"unicode"
)

// CardForm holds the credit card fields as displayed.
type CardForm struct {
	Number string `json:"number" validate:"required,digits=16"`
	Expiry string `json:"expiry" validate:"required,digits=4"`
	CVC    string `json:"cvc"    validate:"required,size=3"`
}

// FormatCardNumber keeps digits and groups them by four, at most 19
// characters: "4111111111111111" → "4111 1111 1111 1111".
func FormatCardNumber(s string) string {
	return truncate(group(onlyDigits(s), 4, " "), 19)
}

// FormatExpiry renders up to four digits as MM/YY.
func FormatExpiry(s string) string {
	return group(truncate(onlyDigits(s), 4), 2, "/")
}

// FormatCVC keeps digits, grouped like the card number.
func FormatCVC(s string) string {
	return truncate(group(onlyDigits(s), 4, " "), 19)
}

func onlyDigits(s string) string {
	return strings.Map(func(r rune) rune {
		if r < unicode.MaxASCII && unicode.IsDigit(r) {
			return r
		}
		return -1
	}, s)
}

func group(s string, n int, sep string) string {
	var b strings.Builder
	for i := 0; i < len(s); i += n {
		if i > 0 {
			b.WriteString(sep)
		}
		end := i + n
		if end > len(s) {
			end = len(s)
		}
		b.WriteString(s[i:end])
	}
	return b.String()
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
