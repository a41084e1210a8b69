package http

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	apierrors "github.com/PredictRAM-Org/PredictRAM-Index-Charts-Analysis/internal/errors"
	api "github.com/PredictRAM-Org/PredictRAM-Index-Charts-Analysis/pkg/contracts/api/v1"
)

// parseComparisonQuery reads a comparison request from URL query
// parameters. Tickers may be repeated, comma separated, or both.
func parseComparisonQuery(values url.Values) (api.ComparisonRequest, error) {
	req := api.ComparisonRequest{
		Tickers:   splitList(values["tickers"]),
		StartDate: strings.TrimSpace(values.Get("start")),
		EndDate:   strings.TrimSpace(values.Get("end")),
		Tenure:    strings.TrimSpace(values.Get("tenure")),
	}

	normalize, err := parseBool(values.Get("normalize"))
	if err != nil {
		return req, apierrors.ErrValidation("normalize", "normalize must be true or false")
	}
	req.Normalize = normalize
	return req, nil
}

func splitList(raw []string) []string {
	var out []string
	for _, item := range raw {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// parseBool accepts the usual boolean spellings plus "on", which browsers
// send for checked checkboxes.
func parseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return false, nil
	case "on":
		return true, nil
	}
	return strconv.ParseBool(s)
}

func setAttachment(w http.ResponseWriter, contentType, filename string) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
}
