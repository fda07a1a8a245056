package enum

import (
	"fmt"
	"reflect"
)

// registry maps an enum's reflect.Type to its map[string]T of known values.
var registry = map[reflect.Type]any{}

// New registers value as a member of its enum type and returns it, so enum
// members can be declared as package-level vars.
func New[T comparable](value T) T {
	t := reflect.TypeOf(value)
	values, ok := registry[t].(map[string]T)
	if !ok {
		values = make(map[string]T)
		registry[t] = values
	}

	values[reflect.ValueOf(value).String()] = value
	return value
}

// ToEnum resolves s to a registered member of T. Unregistered strings are an
// error, which makes this the validation point for client-provided values.
func ToEnum[T comparable](s string) (T, error) {
	var zero T
	values, ok := registry[reflect.TypeOf(zero)].(map[string]T)
	if !ok {
		return zero, fmt.Errorf("no enum registered for type %T", zero)
	}

	value, ok := values[s]
	if !ok {
		return zero, fmt.Errorf("invalid %T value %q", zero, s)
	}

	return value, nil
}
