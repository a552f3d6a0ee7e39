package matchhub

import (
	"errors"
)

var ErrNoValueForKey = errors.New("no value found for key")
var ErrValueNotAsserted = errors.New("value could not be asserted to specified type")

func checkAndAssertIntFromMap(src map[string]any, key string) (int, error) {
	data, ok := src[key]
	if !ok {
		return 0, ErrNoValueForKey
	}

	value, ok := data.(float64)
	if !ok || value != float64(int(value)) {
		return 0, ErrValueNotAsserted
	}

	return int(value), nil
}

func checkAndAssertBoolFromMap(src map[string]any, key string) (bool, error) {
	data, ok := src[key]
	if !ok {
		return false, ErrNoValueForKey
	}

	value, ok := data.(bool)
	if !ok {
		return false, ErrValueNotAsserted
	}

	return value, nil
}

func checkAndAssertIntSliceFromMap(src map[string]any, key string) ([]int, error) {
	data, ok := src[key]
	if !ok {
		return nil, ErrNoValueForKey
	}

	values, ok := data.([]any)
	if !ok {
		return nil, ErrValueNotAsserted
	}

	ints := make([]int, len(values))
	for i, v := range values {
		f, ok := v.(float64)
		if !ok || f != float64(int(f)) {
			return nil, ErrValueNotAsserted
		}
		ints[i] = int(f)
	}

	return ints, nil
}
