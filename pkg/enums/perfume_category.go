package enums

import "fmt"

// PerfumeCategory represents the canonical catalog categories.
type PerfumeCategory string

const (
	PerfumeCategoryMen    PerfumeCategory = "men"
	PerfumeCategoryWomen  PerfumeCategory = "women"
	PerfumeCategoryUnisex PerfumeCategory = "unisex"
)

var validPerfumeCategories = []PerfumeCategory{
	PerfumeCategoryMen,
	PerfumeCategoryWomen,
	PerfumeCategoryUnisex,
}

// String implements fmt.Stringer.
func (c PerfumeCategory) String() string {
	return string(c)
}

// IsValid reports whether the value is a known PerfumeCategory.
func (c PerfumeCategory) IsValid() bool {
	for _, candidate := range validPerfumeCategories {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParsePerfumeCategory converts raw input into a PerfumeCategory.
func ParsePerfumeCategory(value string) (PerfumeCategory, error) {
	for _, candidate := range validPerfumeCategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid perfume category %q", value)
}
