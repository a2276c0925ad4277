package validator

// Validator checks a struct against its validation tags and returns a
// descriptive error when any rule fails.
type Validator interface {
	Validate(data any) error
}
