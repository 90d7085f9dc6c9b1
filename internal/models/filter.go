package models

import "fmt"

// Filter defines one marketplace search: a keyword plus inclusive price
// bounds. Each keyword monitor owns exactly one Filter.
type Filter struct {
	Keyword  string `json:"keyword" yaml:"keyword" validate:"required"`
	PriceMin int    `json:"price_min" yaml:"price_min" validate:"min=0"`
	PriceMax int    `json:"price_max" yaml:"price_max" validate:"min=0"`
}

// Validate checks the price bound invariant.
func (f Filter) Validate() error {
	if f.Keyword == "" {
		return fmt.Errorf("filter keyword must not be empty")
	}
	if f.PriceMin >= f.PriceMax {
		return fmt.Errorf("filter %q: price_min (%d) must be strictly less than price_max (%d)", f.Keyword, f.PriceMin, f.PriceMax)
	}
	return nil
}

func (f Filter) String() string {
	return fmt.Sprintf("%s [%d-%d]", f.Keyword, f.PriceMin, f.PriceMax)
}
