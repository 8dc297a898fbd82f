package validation

// Result is a validator verdict. Valid is false iff Errors is non-empty;
// warnings alone never invalidate. Results are combined by concatenation,
// never edited in place.
type Result struct {
	Valid    bool
	Errors   []string
	Warnings []string
}

func ok() Result {
	return Result{Valid: true}
}

func invalid(msgs ...string) Result {
	return Result{Valid: false, Errors: msgs}
}

func advisory(msgs ...string) Result {
	return Result{Valid: true, Warnings: msgs}
}

// Merge concatenates errors and warnings in argument order. The merged
// result is valid iff every constituent is.
func Merge(results ...Result) Result {
	merged := Result{Valid: true}
	for _, r := range results {
		if !r.Valid {
			merged.Valid = false
		}
		merged.Errors = append(merged.Errors, r.Errors...)
		merged.Warnings = append(merged.Warnings, r.Warnings...)
	}
	return merged
}
