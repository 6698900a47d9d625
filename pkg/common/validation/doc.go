// Package validation provides common validation utilities shared by
// taskpool components. Validators return *errors.ValidationError values
// that unwrap to errors.ErrInvalidConfiguration.
package validation
