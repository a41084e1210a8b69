package services

import "errors"

// Comparison request errors
var (
	ErrInvalidRange  = errors.New("start date is after end date")
	ErrUnknownTenure = errors.New("unknown tenure")
	ErrInvalidDate   = errors.New("invalid date")
)
