package validation

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "github.com/PredictRAM-Org/PredictRAM-Index-Charts-Analysis/internal/errors"
	api "github.com/PredictRAM-Org/PredictRAM-Index-Charts-Analysis/pkg/contracts/api/v1"
)

func TestRequestValidator(t *testing.T) {
	tests := []struct {
		name       string
		req        api.ComparisonRequest
		wantFields []string
		wantMsg    string
	}{
		{
			name: "valid",
			req:  api.ComparisonRequest{Tickers: []string{"^NSEI", "^BSESN"}, StartDate: "2022-01-03", EndDate: "2022-01-05", Tenure: "1 year"},
		},
		{
			name:       "no tickers",
			req:        api.ComparisonRequest{},
			wantFields: []string{"tickers"},
			wantMsg:    "tickers is required",
		},
		{
			name:       "empty ticker list",
			req:        api.ComparisonRequest{Tickers: []string{}},
			wantFields: []string{"tickers"},
		},
		{
			name:       "path in ticker",
			req:        api.ComparisonRequest{Tickers: []string{"^NSEI", "../secret"}},
			wantFields: []string{"tickers[1]"},
			wantMsg:    "tickers[1] must be a valid ticker symbol",
		},
		{
			name:       "bad dates",
			req:        api.ComparisonRequest{Tickers: []string{"^NSEI"}, StartDate: "03/01/2022", EndDate: "2022-13-01"},
			wantFields: []string{"start_date", "end_date"},
			wantMsg:    "start_date must be a date in YYYY-MM-DD format",
		},
		{
			name:       "unknown tenure",
			req:        api.ComparisonRequest{Tickers: []string{"^NSEI"}, Tenure: "2 weeks"},
			wantFields: []string{"tenure"},
			wantMsg:    "tenure must be one of: Last 6 months, 1 year, 3 years, 5 years, 10 years",
		},
	}

	v := NewRequestValidator(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(context.Background(), tt.req)
			if len(tt.wantFields) == 0 {
				assert.NoError(t, err)
				return
			}

			var apiErr *apierrors.APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
			assert.Equal(t, apierrors.CodeValidationFailed, apiErr.ErrorCode)

			details := apiErr.Details.(apierrors.ValidationErrors)
			fields := make([]string, 0, len(details.Errors))
			for _, fe := range details.Errors {
				fields = append(fields, fe.Field)
			}
			assert.Equal(t, tt.wantFields, fields)
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, details.Errors[0].Message)
			}
		})
	}
}

func TestRequestValidatorTooManyTickers(t *testing.T) {
	tickers := strings.Split(strings.Repeat("A,", 65), ",")[:65]
	err := NewRequestValidator(nil).Validate(context.Background(), api.ComparisonRequest{Tickers: tickers})

	var apiErr *apierrors.APIError
	require.True(t, errors.As(err, &apiErr))
	details := apiErr.Details.(apierrors.ValidationErrors)
	assert.Equal(t, "tickers must contain at most 64 items", details.Errors[0].Message)
}
