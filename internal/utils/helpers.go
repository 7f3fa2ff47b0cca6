package utils

import (
	"fmt"
	"path/filepath"
	"strings"
)

// SanitizeString trims whitespace and strips control characters
func SanitizeString(s string) string {
	s = strings.TrimSpace(s)
	var b strings.Builder
	for _, r := range s {
		if r >= 32 || r == '\n' || r == '\t' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// NormalizeEmail lowercases and trims an email address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// FormatPrice renders an amount with two decimal places
func FormatPrice(amount float64) string {
	return fmt.Sprintf("%.2f", amount)
}

// FileExtension returns the lowercase extension without the dot
func FileExtension(filename string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
}

// Truncate shortens s to at most n runes
func Truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
