package validator

// Validator validates request and domain structs.
type Validator interface {
	// Validate returns nil when data passes all struct tag rules.
	Validate(data any) error
}
