package errors

import "fmt"

var (
	ErrNotFound       = fmt.Errorf("resource not found")
	ErrCorruptRecord  = fmt.Errorf("stored record is missing a required field")
	ErrIntegrityFault = fmt.Errorf("referenced sub-resource could not be resolved")
)
