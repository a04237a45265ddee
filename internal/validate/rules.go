package validate

import (
	"math"
	"net/mail"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

const (
	minPasswordLen = 8
	maxQuantity    = 99
)

var (
	postalCodeRe = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9 -]{1,9}$`)
	countryRe    = regexp.MustCompile(`^[A-Z]{2}$`)
	currencyRe   = regexp.MustCompile(`^[A-Z]{3}$`)
	skuRe        = regexp.MustCompile(`^[A-Za-z0-9._-]{2,64}$`)
	discountRe   = regexp.MustCompile(`^[A-Za-z0-9_-]{3,32}$`)

	// plain decimal only; ParseFloat alone also takes exponents and hex
	amountRe = regexp.MustCompile(`^-?\d+(\.\d+)?$`)
)

func required(errs Errors, field, v string) bool {
	if v == "" {
		errs.Add(field, "This field is required.")
		return false
	}
	return true
}

func email(errs Errors, field, v string) {
	if !required(errs, field, v) {
		return
	}
	addr, err := mail.ParseAddress(v)
	if err != nil || addr.Address != v || !strings.Contains(v[strings.LastIndex(v, "@")+1:], ".") {
		errs.Add(field, "Enter a valid email address.")
	}
}

func password(errs Errors, field, v string) {
	if !required(errs, field, v) {
		return
	}
	if len(v) < minPasswordLen {
		errs.Add(field, "Password must be at least 8 characters.")
		return
	}
	var letter, digit bool
	for _, r := range v {
		switch {
		case unicode.IsLetter(r):
			letter = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	if !letter || !digit {
		errs.Add(field, "Password must contain a letter and a digit.")
	}
}

func maxLen(errs Errors, field, v string, n int) {
	if len([]rune(v)) > n {
		errs.Add(field, "Must be at most "+strconv.Itoa(n)+" characters.")
	}
}

// money parses a positive-or-zero amount with at most two decimals.
func money(errs Errors, field, v string, allowZero bool) float64 {
	if !required(errs, field, v) {
		return 0
	}
	if !amountRe.MatchString(v) {
		errs.Add(field, "Enter a number.")
		return 0
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsInf(f, 0) {
		errs.Add(field, "Enter a number.")
		return 0
	}
	if f < 0 {
		errs.Add(field, "Must not be negative.")
		return 0
	}
	if !allowZero && f == 0 {
		errs.Add(field, "Must be greater than zero.")
		return 0
	}
	if i := strings.IndexByte(v, '.'); i >= 0 && len(v)-i-1 > 2 {
		errs.Add(field, "At most two decimal places.")
		return 0
	}
	return f
}

func intRange(errs Errors, field, v string, lo, hi int) int {
	if !required(errs, field, v) {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		errs.Add(field, "Enter a whole number.")
		return 0
	}
	if n < lo || n > hi {
		errs.Add(field, "Must be between "+strconv.Itoa(lo)+" and "+strconv.Itoa(hi)+".")
		return 0
	}
	return n
}

func checkbox(v string) bool {
	switch strings.ToLower(v) {
	case "on", "true", "1", "yes":
		return true
	}
	return false
}
