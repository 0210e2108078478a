package utils

import (
	"regexp"
)

var (
	currencyPattern = regexp.MustCompile(`^[A-Z]{3}$`)
	emailPattern    = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

// ValidateCurrency ISO 4217 三位大写货币代码
func ValidateCurrency(code string) bool {
	return currencyPattern.MatchString(code)
}

func ValidateEmail(email string) bool {
	return emailPattern.MatchString(email)
}
