// Package api contains the HTTP contract definitions for the index comparison
// dashboard. Version v1 represents the current stable API version.
package api

// ComparisonRequest is the full input snapshot of one dashboard run. Tenure,
// when present, takes precedence over StartDate.
type ComparisonRequest struct {
	Tickers   []string `json:"tickers" query:"tickers" validate:"required,min=1,max=64,dive,ticker"`
	StartDate string   `json:"start_date,omitempty" query:"start" validate:"omitempty,datetime=2006-01-02"`
	EndDate   string   `json:"end_date,omitempty" query:"end" validate:"omitempty,datetime=2006-01-02"`
	Tenure    string   `json:"tenure,omitempty" query:"tenure" validate:"omitempty,tenure"`
	Normalize bool     `json:"normalize" query:"normalize"`
}

// TickerListRequest filters the ticker catalog.
type TickerListRequest struct {
	AvailableOnly bool `json:"available_only" query:"available"`
}
