package core

import (
	"fmt"
	"strings"
)

// Category is the closed set of expense categories. Overall is only valid
// on spending limits, where it covers every category.
type Category string

const (
	Food          Category = "food"
	Transport     Category = "transport"
	Entertainment Category = "entertainment"
	Shopping      Category = "shopping"
	Utilities     Category = "utilities"
	Health        Category = "health"
	Education     Category = "education"
	Other         Category = "other"

	Overall Category = "overall"
)

var allCategories = []Category{
	Food, Transport, Entertainment, Shopping, Utilities, Health, Education, Other,
}

// AllCategories returns the expense categories in display order.
func AllCategories() []Category {
	return append([]Category(nil), allCategories...)
}

// Valid reports whether c is an expense category. Overall is not.
func (c Category) Valid() bool {
	switch c {
	case Food, Transport, Entertainment, Shopping, Utilities, Health, Education, Other:
		return true
	}
	return false
}

// ValidForLimit reports whether c can be the target of a spending limit.
func (c Category) ValidForLimit() bool {
	return c == Overall || c.Valid()
}

func (c Category) String() string { return string(c) }

// DisplayName returns the human label for the category.
func (c Category) DisplayName() string {
	switch c {
	case Food:
		return "Food & Dining"
	case Transport:
		return "Transport"
	case Entertainment:
		return "Entertainment"
	case Shopping:
		return "Shopping"
	case Utilities:
		return "Utilities"
	case Health:
		return "Health"
	case Education:
		return "Education"
	case Other:
		return "Other"
	case Overall:
		return "Overall"
	}
	return "Unknown"
}

// Color returns the chart colour assigned to the category.
func (c Category) Color() string {
	switch c {
	case Food:
		return "#FF6B6B"
	case Transport:
		return "#4ECDC4"
	case Entertainment:
		return "#45B7D1"
	case Shopping:
		return "#96CEB4"
	case Utilities:
		return "#FFEAA7"
	case Health:
		return "#DDA0DD"
	case Education:
		return "#98D8C8"
	case Other:
		return "#F7DC6F"
	case Overall:
		return "#6C5CE7"
	}
	return "#B2BEC3"
}

// ParseCategory converts user input into an expense category.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidCategory, s)
	}
	return c, nil
}

// ParseLimitCategory is ParseCategory that also accepts "overall".
func ParseLimitCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if !c.ValidForLimit() {
		return "", fmt.Errorf("%w: %q", ErrInvalidCategory, s)
	}
	return c, nil
}
