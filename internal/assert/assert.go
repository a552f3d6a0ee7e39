package assert

import (
	"errors"
	"slices"
	"strings"
	"testing"
)

func Equal[T comparable](t *testing.T, actual, expected T) {
	t.Helper()

	if actual != expected {
		t.Errorf("got: %v; want %v", actual, expected)
	}
}

func SliceEqual[T comparable](t *testing.T, actual, expected []T) {
	t.Helper()

	if !slices.Equal(actual, expected) {
		t.Errorf("got: %v; want %v", actual, expected)
	}
}

func True(t *testing.T, actual bool) {
	t.Helper()

	if !actual {
		t.Errorf("got: false; want true")
	}
}

func False(t *testing.T, actual bool) {
	t.Helper()

	if actual {
		t.Errorf("got: true; want false")
	}
}

func StringContains(t *testing.T, actual, expectedSubstring string) {
	t.Helper()

	if !strings.Contains(actual, expectedSubstring) {
		t.Errorf("got: %q; expected to contain: %q", actual, expectedSubstring)
	}
}

func NilError(t *testing.T, actual error) {
	t.Helper()

	if actual != nil {
		t.Errorf("got: %v; expected: nil", actual)
	}
}

func ErrorIs(t *testing.T, actual, target error) {
	t.Helper()

	if !errors.Is(actual, target) {
		t.Errorf("got: %v; expected error wrapping: %v", actual, target)
	}
}

func StringSliceEqual(t *testing.T, actual, expected []string) {
	t.Helper()

	if slices.Compare(actual, expected) != 0 {
		t.Errorf("got [%s], expected: [%s]", strings.Join(actual, ", "), strings.Join(expected, ","+
			" "))
	}
}
