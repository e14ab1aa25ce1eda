package capenv

import (
	"github.com/meshledger/capenv/types"
)

// CreateContractMetadata asks the host to allocate a fresh contract
// metadata record: a hash-addressed key and the paired access reference, in
// one atomic host call. The record starts with zero versions and is not
// callable until one is added. The access reference carries full rights and
// must be presented on every later mutation of the record.
func CreateContractMetadata(e *Env) (types.Key, types.URef) {
	n := e.invokeOrRevert(OpCreateContractMetadata, nil)
	data := e.fetchOrRevert(n)

	// Response layout: hash-variant key wire form, then the access
	// reference's wire form.
	const keyLen = 1 + types.HashLen
	if len(data) != keyLen+types.URefSerializedLen {
		e.Revert(types.CodeBufferMismatch)
	}
	var contractKey types.Key
	if err := contractKey.UnmarshalBinary(data[:keyLen]); err != nil {
		e.Revert(types.CodeUnexpectedKeyVariant)
	}
	if contractKey.Hash == nil {
		e.Revert(types.CodeUnexpectedKeyVariant)
	}
	var access types.URef
	if err := access.UnmarshalBinary(data[keyLen:]); err != nil {
		e.Revert(types.CodeBufferMismatch)
	}
	return contractKey, access
}

// AddContractVersion registers one version on the metadata record under
// contract, binding its entry points and named keys. The host verifies that
// access is the record's paired reference and carries the required rights;
// what happens on a version number the record already holds is host policy.
// Any rejection is fatal.
func AddContractVersion(
	e *Env,
	contract types.Key,
	access types.URef,
	version types.SemVer,
	entryPoints types.EntryPoints,
	namedKeys types.NamedKeys,
) {
	contractBytes, err := contract.MarshalBinary()
	if err != nil {
		e.Revert(types.CodeInvalidArgument)
	}
	accessBytes, err := access.MarshalBinary()
	if err != nil {
		e.Revert(types.CodeInvalidArgument)
	}
	wireKeys, err := wireNamedKeys(namedKeys)
	if err != nil {
		e.Revert(types.CodeInvalidArgument)
	}
	req := e.encodeRequest(AddVersionRequest{
		Contract:    contractBytes,
		Access:      accessBytes,
		Version:     version,
		EntryPoints: wireEntryPoints(entryPoints),
		NamedKeys:   wireKeys,
	})
	e.invokeOrRevert(OpAddContractVersion, req)
}

// RemoveContractVersion withdraws one version from the metadata record:
// that version is no longer callable, and removing the last one leaves the
// record in its empty, not-callable state. Removing a version the record
// does not hold is fatal.
func RemoveContractVersion(e *Env, contract types.Key, access types.URef, version types.SemVer) {
	contractBytes, err := contract.MarshalBinary()
	if err != nil {
		e.Revert(types.CodeInvalidArgument)
	}
	accessBytes, err := access.MarshalBinary()
	if err != nil {
		e.Revert(types.CodeInvalidArgument)
	}
	req := e.encodeRequest(RemoveVersionRequest{
		Contract: contractBytes,
		Access:   accessBytes,
		Version:  version,
	})
	e.invokeOrRevert(OpRemoveContractVersion, req)
}

// CreateUserGroup registers a user group under label on the contract's
// metadata record, populated with numNew freshly minted references plus the
// existing ones. It returns exactly the minted references; existing members
// are not echoed back. Insufficient access rights and a label already in
// use come back as a recoverable ApiError, the one recoverable outcome in
// the registry family; callers are expected to branch on it.
func CreateUserGroup(
	e *Env,
	contract types.Key,
	access types.URef,
	label string,
	numNew uint8,
	existing types.URefSet,
) ([]types.URef, error) {
	contractBytes, err := contract.MarshalBinary()
	if err != nil {
		e.Revert(types.CodeInvalidArgument)
	}
	accessBytes, err := access.MarshalBinary()
	if err != nil {
		e.Revert(types.CodeInvalidArgument)
	}
	existingBytes, err := existing.MarshalBinary()
	if err != nil {
		e.Revert(types.CodeInvalidArgument)
	}
	req := e.encodeRequest(CreateGroupRequest{
		Contract: contractBytes,
		Access:   accessBytes,
		Label:    label,
		NumNew:   numNew,
		Existing: existingBytes,
	})
	code, n := e.invoke(OpCreateUserGroup, req)
	switch code {
	case types.CodeSuccess:
	case types.CodeUnauthorized, types.CodeDuplicateGroupLabel:
		return nil, types.ApiError{Code: code}
	default:
		e.Revert(code)
	}
	data := e.fetchOrRevert(n)

	minted, err := types.DecodeURefList(data)
	if err != nil {
		e.Revert(types.CodeBufferMismatch)
	}
	return minted, nil
}

// StoreFunction persists the named executable unit with its named-key
// environment under a freshly minted capability reference. This is the
// legacy unversioned addressing mode; new code should prefer
// CreateContractMetadata and AddContractVersion.
func StoreFunction(e *Env, name string, namedKeys types.NamedKeys) types.ContractRef {
	data := storeFunction(e, OpStoreFunction, name, namedKeys)
	var u types.URef
	if err := u.UnmarshalBinary(data); err != nil {
		e.Revert(types.CodeBufferMismatch)
	}
	return types.ContractRef{URef: &u}
}

// StoreFunctionAtHash persists the named executable unit with its
// named-key environment at an immutable hash address. Legacy, like
// StoreFunction.
func StoreFunctionAtHash(e *Env, name string, namedKeys types.NamedKeys) types.ContractRef {
	data := storeFunction(e, OpStoreFunctionAtHash, name, namedKeys)
	h, err := types.NewHash(data)
	if err != nil {
		e.Revert(types.CodeBufferMismatch)
	}
	return types.ContractRef{Hash: &h}
}

func storeFunction(e *Env, op HostOp, name string, namedKeys types.NamedKeys) []byte {
	wireKeys, err := wireNamedKeys(namedKeys)
	if err != nil {
		e.Revert(types.CodeInvalidArgument)
	}
	req := e.encodeRequest(StoreFunctionRequest{
		Name:      name,
		NamedKeys: wireKeys,
	})
	n := e.invokeOrRevert(op, req)
	return e.fetchOrRevert(n)
}
