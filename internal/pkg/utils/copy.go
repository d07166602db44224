package utils

import (
	"fmt"

	"github.com/mitchellh/copystructure"
)

// DeepCopy returns a structural copy of value sharing no pointers with it.
func DeepCopy[T any](value T) (T, error) {
	copied, err := copystructure.Copy(value)
	if err != nil {
		var zero T
		return zero, err
	}
	typed, ok := copied.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("deep copy returned %T", copied)
	}
	return typed, nil
}
