package alloc

// RedoubtOption is a slot that is either empty or holds exactly one T.
type RedoubtOption[T any] struct {
	value   T
	present bool
}

// NoneOption returns an empty option.
func NoneOption[T any]() RedoubtOption[T] {
	return RedoubtOption[T]{}
}

// SomeOption returns an option holding v.
func SomeOption[T any](v T) RedoubtOption[T] {
	return RedoubtOption[T]{value: v, present: true}
}

// IsPresent reports whether the option currently holds a value.
func (o *RedoubtOption[T]) IsPresent() bool { return o.present }

// Get returns the held value and whether one is present.
func (o *RedoubtOption[T]) Get() (T, bool) { return o.value, o.present }

// Replace installs src as the option's value by reference, zeroizes src
// afterward, and returns whatever the option held previously.
func (o *RedoubtOption[T]) Replace(src *T) (T, bool) {
	prevVal, prevPresent := o.value, o.present
	o.value = *src
	o.present = true
	var zero T
	*src = zero
	return prevVal, prevPresent
}

// Take removes and returns the held value, leaving the option empty.
func (o *RedoubtOption[T]) Take() (T, bool) {
	v, present := o.value, o.present
	var zero T
	o.value = zero
	o.present = false
	return v, present
}

// Release zeroizes the held value, if any, and empties the option.
func (o *RedoubtOption[T]) Release() {
	var zero T
	o.value = zero
	o.present = false
}
