package catalog

import (
	"strconv"
	"time"
)

// frenchMonths holds the fr-FR month names, indexed by time.Month.
var frenchMonths = [...]string{
	time.January:   "janvier",
	time.February:  "février",
	time.March:     "mars",
	time.April:     "avril",
	time.May:       "mai",
	time.June:      "juin",
	time.July:      "juillet",
	time.August:    "août",
	time.September: "septembre",
	time.October:   "octobre",
	time.November:  "novembre",
	time.December:  "décembre",
}

// ellipsis terminates truncated excerpts.
const ellipsis = "…"

// FormatFrench renders d as a long-form French date such as "5 mars 2024".
// An unparseable date renders as the empty string.
func (d Date) FormatFrench() string {
	if !d.valid {
		return ""
	}
	return strconv.Itoa(d.day) + " " + frenchMonths[d.month] + " " + strconv.Itoa(d.year)
}

// Excerpt shortens s to at most n characters and appends an ellipsis when
// anything was cut. Characters are counted as runes.
func Excerpt(s string, n int) string {
	if n < 0 {
		n = 0
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + ellipsis
}
