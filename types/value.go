package types

import (
	"github.com/shamaton/msgpack/v2"
)

// EncodeValue serializes a value for the host boundary. The byte-level
// rules are the codec's; this layer treats them as opaque.
func EncodeValue(v any) ([]byte, error) {
	return msgpack.Marshal(v)
}

// DecodeValue deserializes host-returned bytes into T. A failure here means
// the bytes exist but are not a T, which the accessor surfaces as the
// recoverable DeserializeError.
func DecodeValue[T any](data []byte) (T, error) {
	var out T
	if err := msgpack.Unmarshal(data, &out); err != nil {
		return out, DeserializeError{Err: err}
	}
	return out, nil
}
