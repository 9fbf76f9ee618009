/*
Package ext is "language extensions", functionality that in a perfect world would be part of the golang standard library
*/
package ext

// DefaultValue returns fallback when value is the zero value of its type.
func DefaultValue[T comparable](value T, fallback T) T {
	var zero T
	if value == zero {
		return fallback
	}
	return value
}
