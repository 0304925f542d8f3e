package limits

// Validate checks a limit draft. Errors make the draft unusable; warnings are
// advisory.
func Validate(d Draft) Validation {
	errs := []string{}
	warnings := []string{}

	if d.Amount.Cents <= 0 {
		errs = append(errs, "Amount must be greater than 0")
	}
	if d.Amount.Cents > UnusualAmount.Cents {
		warnings = append(warnings, "Amount seems unusually high")
	}

	switch {
	case d.Period == "":
		errs = append(errs, "Period is required")
	case !d.Period.Valid():
		errs = append(errs, "Period is invalid")
	}

	switch {
	case d.Category == "":
		errs = append(errs, "Category is required")
	case !d.Category.ValidForLimit():
		errs = append(errs, "Category is invalid")
	}

	return Validation{
		IsValid:  len(errs) == 0,
		Errors:   errs,
		Warnings: warnings,
	}
}
