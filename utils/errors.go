package utils

import (
	"github.com/pkg/errors"
)

// NewUnexpectedTypeError is used when there is a type mismatch.
func NewUnexpectedTypeError(expected interface{}, actual interface{}) error {
	return errors.Errorf("expected %T but got %T", expected, actual)
}

// NewUnsupportedDimensionError is used when data of an unsupported dimensionality is given.
func NewUnsupportedDimensionError(dim int) error {
	return errors.Errorf("unsupported dimension %d, expected 2 or 3", dim)
}

// NewZeroVectorError is used when a vector that must have a direction has zero length.
func NewZeroVectorError(name string) error {
	return errors.Errorf("%s cannot be the zero vector", name)
}
