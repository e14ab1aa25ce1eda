package capenv

import (
	"github.com/meshledger/capenv/types"
)

// Read returns the value under uref in the global partition, or nil if
// nothing is stored there. The reference must carry Read; the host rejects
// anything less and the rejection is fatal. Found bytes that do not decode
// as T surface as a recoverable DeserializeError, distinct from absence.
func Read[T any](e *Env, uref types.URef) (*T, error) {
	key := types.KeyFromURef(uref)
	keyBytes, err := key.MarshalBinary()
	if err != nil {
		e.Revert(types.CodeInvalidArgument)
	}
	return readKey[T](e, OpReadValue, keyBytes)
}

// ReadOrAbort is Read with absence escalated: a missing value aborts the
// instance with CodeValueNotFound and a decode failure with CodeRead. Use
// it where absence is a programming error, not a business outcome.
func ReadOrAbort[T any](e *Env, uref types.URef) T {
	v, err := Read[T](e, uref)
	if err != nil {
		e.Revert(types.CodeRead)
	}
	if v == nil {
		e.Revert(types.CodeValueNotFound)
	}
	return *v
}

// Write stores value under uref in the global partition, replacing whatever
// was there. The reference must carry Write.
func Write[T any](e *Env, uref types.URef, value T) {
	key := types.KeyFromURef(uref)
	keyBytes, err := key.MarshalBinary()
	if err != nil {
		e.Revert(types.CodeInvalidArgument)
	}
	writeKey(e, OpWrite, keyBytes, value)
}

// Add accumulates value into the one under uref. The merge rule is the
// host's and is type-dependent; presenting an operand the stored value
// cannot absorb is fatal. The reference must carry Add.
func Add[T any](e *Env, uref types.URef, value T) {
	key := types.KeyFromURef(uref)
	keyBytes, err := key.MarshalBinary()
	if err != nil {
		e.Revert(types.CodeInvalidArgument)
	}
	writeKey(e, OpAdd, keyBytes, value)
}

// ReadLocal returns the value under key in the calling context's private
// partition, or nil if absent. Local keys are arbitrary serializable
// values; the partition itself is the access boundary, so no reference or
// rights are involved.
func ReadLocal[K any, V any](e *Env, key K) (*V, error) {
	keyBytes, err := types.EncodeValue(key)
	if err != nil {
		e.Revert(types.CodeInvalidArgument)
	}
	return readKey[V](e, OpReadValueLocal, keyBytes)
}

// WriteLocal stores value under key in the calling context's private
// partition.
func WriteLocal[K any, V any](e *Env, key K, value V) {
	keyBytes, err := types.EncodeValue(key)
	if err != nil {
		e.Revert(types.CodeInvalidArgument)
	}
	writeKey(e, OpWriteLocal, keyBytes, value)
}

// AddLocal accumulates value into the one under key in the calling
// context's private partition, under the host's merge rule.
func AddLocal[K any, V any](e *Env, key K, value V) {
	keyBytes, err := types.EncodeValue(key)
	if err != nil {
		e.Revert(types.CodeInvalidArgument)
	}
	writeKey(e, OpAddLocal, keyBytes, value)
}

// NewURef asks the host to mint a fresh reference, store init under it, and
// hand the reference back with full rights. The host phrases the return as
// a key; any variant other than URef is a boundary violation.
func NewURef[T any](e *Env, init T) types.URef {
	valueBytes, err := types.EncodeValue(init)
	if err != nil {
		e.Revert(types.CodeInvalidArgument)
	}
	req := e.encodeRequest(NewURefRequest{Value: valueBytes})
	n := e.invokeOrRevert(OpNewURef, req)
	data := e.fetchOrRevert(n)

	var key types.Key
	if err := key.UnmarshalBinary(data); err != nil {
		e.Revert(types.CodeUnexpectedKeyVariant)
	}
	if key.URef == nil {
		e.Revert(types.CodeUnexpectedKeyVariant)
	}
	return *key.URef
}

// NewTURef is the type-refined allocation path, built on NewURef. The
// returned reference remembers T so later reads decode without restating
// the type at every call site.
func NewTURef[T any](e *Env, init T) types.TURef[T] {
	return types.TURefFromURef[T](NewURef(e, init))
}

// ReadT is Read through a type-refined reference.
func ReadT[T any](e *Env, turef types.TURef[T]) (*T, error) {
	return Read[T](e, turef.URef())
}

// WriteT is Write through a type-refined reference.
func WriteT[T any](e *Env, turef types.TURef[T], value T) {
	Write(e, turef.URef(), value)
}

// AddT is Add through a type-refined reference.
func AddT[T any](e *Env, turef types.TURef[T], value T) {
	Add(e, turef.URef(), value)
}

func readKey[T any](e *Env, op HostOp, keyBytes []byte) (*T, error) {
	req := e.encodeRequest(ReadRequest{Key: keyBytes})
	code, n := e.invoke(op, req)
	switch code {
	case types.CodeSuccess:
	case types.CodeValueNotFound:
		// Absence is a first-class outcome, not an error.
		return nil, nil
	default:
		e.Revert(code)
	}
	data := e.fetchOrRevert(n)

	v, err := types.DecodeValue[T](data)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func writeKey[T any](e *Env, op HostOp, keyBytes []byte, value T) {
	valueBytes, err := types.EncodeValue(value)
	if err != nil {
		e.Revert(types.CodeInvalidArgument)
	}
	req := e.encodeRequest(KVRequest{Key: keyBytes, Value: valueBytes})
	code, _ := e.invoke(op, req)
	if code != types.CodeSuccess {
		e.Revert(code)
	}
}
