package dto

// FieldOp is the update instruction for one field
type FieldOp int

const (
	// FieldKeep leaves the current value untouched
	FieldKeep FieldOp = iota
	// FieldClear removes the value
	FieldClear
	// FieldSet replaces the value
	FieldSet
)

// Field is a tri-state update instruction: Keep | Clear | Set(v).
// The zero value is Keep.
type Field[T any] struct {
	op    FieldOp
	value T
}

// Keep returns a Keep instruction
func Keep[T any]() Field[T] { return Field[T]{} }

// Clear returns a Clear instruction
func Clear[T any]() Field[T] { return Field[T]{op: FieldClear} }

// Set returns a Set instruction carrying v
func Set[T any](v T) Field[T] { return Field[T]{op: FieldSet, value: v} }

// Op returns the instruction kind
func (f Field[T]) Op() FieldOp { return f.op }

// IsKeep reports a Keep instruction
func (f Field[T]) IsKeep() bool { return f.op == FieldKeep }

// IsClear reports a Clear instruction
func (f Field[T]) IsClear() bool { return f.op == FieldClear }

// IsSet reports a Set instruction
func (f Field[T]) IsSet() bool { return f.op == FieldSet }

// Value returns the carried value and whether the instruction is Set
func (f Field[T]) Value() (T, bool) {
	return f.value, f.op == FieldSet
}

// Apply resolves the instruction against an optional current value
func (f Field[T]) Apply(current *T) *T {
	switch f.op {
	case FieldClear:
		return nil
	case FieldSet:
		v := f.value
		return &v
	default:
		return current
	}
}
