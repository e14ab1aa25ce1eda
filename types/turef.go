package types

// TURef is a capability reference refined by the type of the value it
// addresses. The refinement exists only at compile time: at runtime a TURef
// is exactly the URef it wraps, and the typed accessors in the root package
// use the parameter to fix the codec target.
type TURef[T any] struct {
	uref URef
}

// TURefFromURef refines a plain reference. This is total: the type claim is
// the caller's, checked only when a value is decoded.
func TURefFromURef[T any](u URef) TURef[T] {
	return TURef[T]{uref: u}
}

// TURefFromKey refines the reference inside a key. It is partial: keys whose
// variant is not URef carry no capability and fail with
// ErrUnexpectedKeyVariant.
func TURefFromKey[T any](k Key) (TURef[T], error) {
	if k.URef == nil {
		return TURef[T]{}, ErrUnexpectedKeyVariant
	}
	return TURef[T]{uref: *k.URef}, nil
}

// URef returns the untyped reference this TURef degrades to.
func (t TURef[T]) URef() URef {
	return t.uref
}

// AccessRights returns the rights carried by the underlying reference.
func (t TURef[T]) AccessRights() AccessRights {
	return t.uref.AccessRights()
}

func (t TURef[T]) String() string {
	return t.uref.String()
}
