package services

import (
	"strings"
	"time"
	"unicode/utf8"

	"spendwise/internal/adapters"
	"spendwise/internal/core"
)

// Expense form limits.
const (
	MinDescriptionLen = 3
	MaxDescriptionLen = 100
)

// MaxExpenseAmount is the largest amount a single expense may carry.
var MaxExpenseAmount = core.Units(999999)

// ExpenseForm is raw user input for an expense.
type ExpenseForm struct {
	Amount      string
	Category    string
	Description string
	Date        string
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors lists every field that failed validation.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	parts := make([]string, len(v))
	for i, e := range v {
		parts[i] = e.Field + ": " + e.Message
	}
	return strings.Join(parts, "; ")
}

// Has reports whether field failed.
func (v ValidationErrors) Has(field string) bool {
	for _, e := range v {
		if e.Field == field {
			return true
		}
	}
	return false
}

func (v *ValidationErrors) add(field, msg string) {
	*v = append(*v, FieldError{Field: field, Message: msg})
}

// ValidateExpense checks form against the expense rules and returns the
// parsed expense. The date must fall between one year before today and
// today, inclusive, in now's location. The returned error is a
// ValidationErrors.
func ValidateExpense(form ExpenseForm, now time.Time) (adapters.NewExpense, error) {
	var errs ValidationErrors
	var out adapters.NewExpense

	switch amount := strings.TrimSpace(form.Amount); {
	case amount == "":
		errs.add("amount", "Amount is required")
	default:
		m, err := core.ParseMoney(amount)
		if err != nil {
			errs.add("amount", "Amount must be a positive number")
			break
		}
		out.Amount = m
	}

	out.Description = strings.TrimSpace(form.Description)

	switch c := strings.TrimSpace(form.Category); {
	case c == "":
		errs.add("category", "Category is required")
	default:
		cat, err := core.ParseCategory(c)
		if err != nil {
			errs.add("category", "Invalid category")
			break
		}
		out.Category = cat
	}

	switch d := strings.TrimSpace(form.Date); {
	case d == "":
		errs.add("date", "Date is required")
	default:
		date, err := core.ParseDate(d)
		if err != nil {
			errs.add("date", "Invalid date format")
			break
		}
		out.Date = date
	}

	errs = append(errs, checkExpense(out, now, errs)...)
	if len(errs) > 0 {
		return adapters.NewExpense{}, errs
	}
	return out, nil
}

// checkExpense applies the value rules to fields that parsed. Fields already
// reported in prior are skipped.
func checkExpense(e adapters.NewExpense, now time.Time, prior ValidationErrors) ValidationErrors {
	var errs ValidationErrors

	if !prior.Has("amount") {
		switch {
		case e.Amount.Cents <= 0:
			errs.add("amount", "Amount must be a positive number")
		case e.Amount.Cents > MaxExpenseAmount.Cents:
			errs.add("amount", "Amount cannot exceed $999,999")
		}
	}

	switch n := utf8.RuneCountInString(strings.TrimSpace(e.Description)); {
	case n == 0:
		errs.add("description", "Description is required")
	case n < MinDescriptionLen:
		errs.add("description", "Description must be at least 3 characters")
	case n > MaxDescriptionLen:
		errs.add("description", "Description cannot exceed 100 characters")
	}

	if !prior.Has("category") && !e.Category.Valid() {
		errs.add("category", "Invalid category")
	}

	if !prior.Has("date") {
		today := core.DateOf(now)
		yearAgo := core.Date{Time: today.AddDate(-1, 0, 0)}
		switch {
		case e.Date.IsZero():
			errs.add("date", "Date is required")
		case e.Date.After(today):
			errs.add("date", "Date cannot be in the future")
		case e.Date.Before(yearAgo):
			errs.add("date", "Date cannot be more than 1 year ago")
		}
	}
	return errs
}
