package capenv

import (
	"github.com/meshledger/capenv/types"
)

// HostOp identifies one operation on the host boundary.
type HostOp uint32

const (
	OpReadValue HostOp = iota + 1
	OpReadValueLocal
	OpWrite
	OpWriteLocal
	OpAdd
	OpAddLocal
	OpNewURef
	OpCreateContractMetadata
	OpAddContractVersion
	OpRemoveContractVersion
	OpCreateUserGroup
	OpStoreFunction
	OpStoreFunctionAtHash
)

func (op HostOp) String() string {
	switch op {
	case OpReadValue:
		return "read_value"
	case OpReadValueLocal:
		return "read_value_local"
	case OpWrite:
		return "write"
	case OpWriteLocal:
		return "write_local"
	case OpAdd:
		return "add"
	case OpAddLocal:
		return "add_local"
	case OpNewURef:
		return "new_uref"
	case OpCreateContractMetadata:
		return "create_contract_metadata"
	case OpAddContractVersion:
		return "add_contract_version"
	case OpRemoveContractVersion:
		return "remove_contract_version"
	case OpCreateUserGroup:
		return "create_user_group"
	case OpStoreFunction:
		return "store_function"
	case OpStoreFunctionAtHash:
		return "store_function_at_hash"
	default:
		return "unknown_op"
	}
}

// Host is the trust-anchored collaborator every operation crosses into. It
// owns the store, mints every address, and is the sole arbiter of whether an
// operation is permitted; this layer only marshals requests and honors the
// protocol below.
//
// The protocol is two-phase. Invoke submits an operation with its encoded
// request and returns the status code plus the byte length of any staged
// response. A response is then collected with Fetch, passing back exactly
// the length Invoke reported; the staged buffer is consumed by the fetch and
// is never reused across calls.
type Host interface {
	Invoke(op HostOp, req []byte) (code types.ErrCode, respLen uint32)
	Fetch(respLen uint32) ([]byte, error)
}
