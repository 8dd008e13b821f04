// Package patch holds helpers for partial updates, where a nil pointer means "leave unchanged".
package patch

// Coalesce returns the value pointed to by ptr if it's not nil, otherwise returns fallback
func Coalesce[T any](ptr *T, fallback T) T {
	if ptr != nil {
		return *ptr
	}
	return fallback
}

// Map converts a present field with fn; an absent field stays absent.
func Map[T, U any](ptr *T, fn func(T) (U, error)) (*U, error) {
	if ptr == nil {
		return nil, nil
	}
	out, err := fn(*ptr)
	if err != nil {
		return nil, err
	}
	return &out, nil
}
