package bvh

import (
	"github.com/pkg/errors"
)

func newBadMaxObjectsPerLeafError(maxObjectsPerLeaf int) error {
	return errors.Errorf("max objects per leaf must be at least 1, got %d", maxObjectsPerLeaf)
}

func newUnknownKindError(kind Kind) error {
	return errors.Errorf("unknown tree kind %q", kind)
}

func newUnknownHeuristicError(heuristic HeuristicType) error {
	return errors.Errorf("unknown split heuristic %q", heuristic)
}
