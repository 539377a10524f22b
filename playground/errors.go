package playground

import "fmt"

// ConstructionError reports a toy that could not be built. When it is
// returned the space has not been touched: no body, shape, or constraint
// was added.
type ConstructionError struct {
	Variant string
	Err     error
}

func (e *ConstructionError) Error() string {
	return fmt.Sprintf("playground: construct %s: %v", e.Variant, e.Err)
}

func (e *ConstructionError) Unwrap() error {
	return e.Err
}

func constructErr(variant string, err error) error {
	return &ConstructionError{Variant: variant, Err: err}
}
