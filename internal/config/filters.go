package config

import (
	"fmt"
	"strconv"
	"strings"

	"mercariwatch/internal/models"
)

// ParseFilters builds the filter list from the parallel comma-separated flag
// values. The three lists must have the same length; a mismatch is a fatal
// configuration error.
func ParseFilters(keywords, minPrices, maxPrices string) ([]models.Filter, error) {
	kws := splitList(keywords)
	mins := splitList(minPrices)
	maxs := splitList(maxPrices)

	if len(kws) == 0 {
		return nil, fmt.Errorf("no keywords provided")
	}
	if len(mins) != len(maxs) {
		return nil, fmt.Errorf("min price count (%d) does not match max price count (%d)", len(mins), len(maxs))
	}
	if len(kws) != len(mins) {
		return nil, fmt.Errorf("keyword count (%d) does not match price bound count (%d)", len(kws), len(mins))
	}

	filters := make([]models.Filter, 0, len(kws))
	for i, kw := range kws {
		priceMin, err := strconv.Atoi(mins[i])
		if err != nil {
			return nil, fmt.Errorf("invalid min price '%s' for keyword %q: %w", mins[i], kw, err)
		}
		priceMax, err := strconv.Atoi(maxs[i])
		if err != nil {
			return nil, fmt.Errorf("invalid max price '%s' for keyword %q: %w", maxs[i], kw, err)
		}
		filters = append(filters, models.Filter{
			Keyword:  kw,
			PriceMin: priceMin,
			PriceMax: priceMax,
		})
	}
	return filters, nil
}

func splitList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
