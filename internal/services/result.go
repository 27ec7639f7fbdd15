package services

// Result carries a value and whether it came from cached or offline data
// instead of a live backend response.
type Result[T any] struct {
	Data         T
	UsedFallback bool
}

func fresh[T any](v T) *Result[T] {
	return &Result[T]{Data: v}
}

func fallback[T any](v T) *Result[T] {
	return &Result[T]{Data: v, UsedFallback: true}
}
