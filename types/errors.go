package types

import (
	"errors"
	"fmt"
)

// ErrCode is the closed set of status codes on the host's error channel.
// Every host call returns one; CodeSuccess and CodeValueNotFound are the
// only codes the accessor handles in place, everything else feeds the
// fatal-abort path.
type ErrCode uint32

const (
	CodeSuccess ErrCode = iota
	// CodeValueNotFound signals a clean absence. It is never an error:
	// the accessor maps it to a nil result.
	CodeValueNotFound
	// CodeRead signals a failure while materializing a read value.
	CodeRead
	// CodeDeserialize signals bytes that do not decode as the expected type.
	CodeDeserialize
	// CodeUnauthorized signals rights insufficient for the operation.
	CodeUnauthorized
	// CodeInvalidArgument signals a malformed request payload.
	CodeInvalidArgument
	// CodeNoSuchContract signals an unknown metadata record.
	CodeNoSuchContract
	// CodeNoSuchContractVersion signals a version absent from the record.
	CodeNoSuchContractVersion
	// CodeDuplicateVersion signals an add of a version the record already
	// holds, under a host policy that rejects collisions.
	CodeDuplicateVersion
	// CodeDuplicateGroupLabel signals a group label already in use on the
	// record.
	CodeDuplicateGroupLabel
	// CodeAddMismatch signals an add whose operand variant is not
	// mergeable with the stored value's variant.
	CodeAddMismatch
	// CodeUnexpectedKeyVariant signals a host-returned key of a variant the
	// caller's request cannot accept, a host contract violation.
	CodeUnexpectedKeyVariant
	// CodeBufferMismatch signals a fetch that does not match the staged
	// response, a violation of the two-phase protocol.
	CodeBufferMismatch
	// CodeHostInternal signals any otherwise-unclassified host failure.
	CodeHostInternal
)

func (c ErrCode) String() string {
	switch c {
	case CodeSuccess:
		return "success"
	case CodeValueNotFound:
		return "value not found"
	case CodeRead:
		return "read"
	case CodeDeserialize:
		return "deserialize"
	case CodeUnauthorized:
		return "unauthorized"
	case CodeInvalidArgument:
		return "invalid argument"
	case CodeNoSuchContract:
		return "no such contract"
	case CodeNoSuchContractVersion:
		return "no such contract version"
	case CodeDuplicateVersion:
		return "duplicate contract version"
	case CodeDuplicateGroupLabel:
		return "duplicate group label"
	case CodeAddMismatch:
		return "add variant mismatch"
	case CodeUnexpectedKeyVariant:
		return "unexpected key variant"
	case CodeBufferMismatch:
		return "host buffer mismatch"
	case CodeHostInternal:
		return "host internal error"
	default:
		return fmt.Sprintf("error code %d", uint32(c))
	}
}

// ApiError is the recoverable tier: a host status surfaced as an ordinary
// error value the caller is expected to branch on.
type ApiError struct {
	Code ErrCode
}

var _ error = ApiError{}

func (e ApiError) Error() string {
	return fmt.Sprintf("host api error: %s", e.Code)
}

// ErrUnexpectedKeyVariant is returned when refining a key whose variant
// carries no capability reference.
var ErrUnexpectedKeyVariant = errors.New("key variant is not a capability reference")

// DeserializeError is the recoverable decode failure on read: bytes were
// found but do not decode as the expected type. Distinct from absence.
type DeserializeError struct {
	Err error
}

var _ error = DeserializeError{}

func (e DeserializeError) Error() string {
	return fmt.Sprintf("value bytes do not decode as the expected type: %v", e.Err)
}

func (e DeserializeError) Unwrap() error {
	return e.Err
}

// Abort is the fatal tier: the calling instance's execution terminates with
// this code. It unwinds to the instance boundary and is converted to a
// terminal status there; intermediate code must never recover it. Values of
// this type are created only by the revert path in the root package.
type Abort struct {
	Code ErrCode
}

var _ error = Abort{}

func (a Abort) Error() string {
	return fmt.Sprintf("instance aborted: %s", a.Code)
}
