package view

import (
	"html/template"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/dto"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/validate"
)

var currencySymbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"JPY": "¥",
}

func funcMap() template.FuncMap {
	return template.FuncMap{
		"money":       money,
		"since":       since,
		"date":        date,
		"upper":       strings.ToUpper,
		"statusClass": statusClass,
		"comma":       func(n int) string { return humanize.Comma(int64(n)) },
		"add":         func(a, b int) int { return a + b },
		"sub":         func(a, b int) int { return a - b },
		"pageRange":   pageRange,
		"pageURL":     pageURL,
		"statuses":    func() []dto.OrderStatus { return dto.OrderStatuses },
		"fields":      fieldArgs,
		"pager":       pagerArgs,
	}
}

type fieldSet struct {
	Prefix string
	Form   url.Values
	Errors validate.Errors
}

// fieldArgs bundles what the address_fields partial needs.
func fieldArgs(prefix string, form url.Values, errs validate.Errors) fieldSet {
	return fieldSet{Prefix: prefix, Form: form, Errors: errs}
}

type pagerSet struct {
	Path    string
	Query   url.Values
	Current int
	Pages   int
}

func pagerArgs(path string, q url.Values, current, pages int) pagerSet {
	return pagerSet{Path: path, Query: q, Current: current, Pages: pages}
}

// money formats an amount with two decimals and thousands separators.
func money(amount float64, currency string) string {
	formatted := humanize.FormatFloat("#,###.##", amount)
	code := strings.ToUpper(currency)
	if sym, ok := currencySymbols[code]; ok {
		if amount < 0 {
			return "-" + sym + strings.TrimPrefix(formatted, "-")
		}
		return sym + formatted
	}
	if code == "" {
		return formatted
	}
	return formatted + " " + code
}

func since(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return humanize.Time(t)
}

func date(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("Jan 2, 2006")
}

func statusClass(s dto.OrderStatus) string {
	switch s {
	case dto.OrderPending:
		return "status-pending"
	case dto.OrderPaid, dto.OrderProcessing:
		return "status-active"
	case dto.OrderShipped, dto.OrderDelivered:
		return "status-done"
	case dto.OrderCancelled, dto.OrderRefunded:
		return "status-closed"
	default:
		return "status-unknown"
	}
}

func pageRange(pages int) []int {
	out := make([]int, 0, pages)
	for i := 1; i <= pages; i++ {
		out = append(out, i)
	}
	return out
}

// pageURL returns path with q's parameters and page replaced.
func pageURL(path string, q url.Values, page int) string {
	v := url.Values{}
	for k, vals := range q {
		v[k] = append([]string(nil), vals...)
	}
	v.Set("page", strconv.Itoa(page))
	return path + "?" + v.Encode()
}
