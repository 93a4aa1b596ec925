package common

import (
	"errors"
	"fmt"
	"testing"
)

func TestSentinels_AreDistinct(t *testing.T) {
	all := []error{ErrorNotFound, ErrMissingID, ErrNotADocument, ErrVersionConflict, ErrPointerNotFound}
	for i, a := range all {
		for j, b := range all {
			if i != j && errors.Is(a, b) {
				t.Fatalf("%v must not match %v", a, b)
			}
		}
	}
}

func TestSentinels_SurviveWrapping(t *testing.T) {
	err := fmt.Errorf("update docs/1: %w", ErrVersionConflict)
	if !errors.Is(err, ErrVersionConflict) {
		t.Fatalf("expected wrapped error to match ErrVersionConflict, got %v", err)
	}
}
