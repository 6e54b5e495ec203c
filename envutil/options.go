package envutil

// Option modifies a Reader. It's used by functions like String and Bool so that
// the caller can provide defaults and validation inline.
type Option[T any] func(Reader[T]) Reader[T]

// Default provides a value to use when the variable is not set.
func Default[T any](dfl T) Option[T] {
	return func(rdr Reader[T]) Reader[T] {
		return rdr.WithDefault(dfl)
	}
}

// Validate runs f on the value; a non-nil error becomes the Reader's error.
func Validate[T any](f func(T) error) Option[T] {
	return func(rdr Reader[T]) Reader[T] {
		return Map(rdr, func(val T) (T, error) {
			return val, f(val)
		})
	}
}
