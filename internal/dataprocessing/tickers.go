package dataprocessing

import "strings"

// MaxTickerLength bounds ticker symbols accepted from callers.
const MaxTickerLength = 64

// UniqueTickers trims each symbol, drops empties and duplicates, and keeps
// the first-seen order.
func UniqueTickers(tickers []string) []string {
	seen := make(map[string]struct{}, len(tickers))
	out := make([]string, 0, len(tickers))
	for _, t := range tickers {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// ValidTicker reports whether ticker can safely name a file in the data
// directory. Symbols such as "^NSEI" are allowed; path separators are not.
func ValidTicker(ticker string) bool {
	if ticker == "" || len(ticker) > MaxTickerLength {
		return false
	}
	if strings.ContainsAny(ticker, "/\\\x00") || strings.Contains(ticker, "..") {
		return false
	}
	return strings.TrimSpace(ticker) == ticker
}
