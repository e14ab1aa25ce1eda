package hostmock

import (
	"github.com/google/btree"

	"github.com/meshledger/capenv"
	"github.com/meshledger/capenv/types"
)

func newVersionIndex() *btree.BTreeG[versionEntry] {
	return btree.NewG(2, func(a, b versionEntry) bool {
		return a.version.Less(b.version)
	})
}

func (h *Host) createContractMetadata() (types.ErrCode, []byte) {
	hashAddr := h.mintAddr()
	accessAddr, accessWire := h.mintURef(types.AccessReadAddWrite)

	var contractHash types.Hash
	copy(contractHash[:], hashAddr[:])
	h.contracts[contractHash] = &contractRecord{
		accessAddr: accessAddr,
		versions:   newVersionIndex(),
		groups:     make(map[string]map[[types.URefAddrLen]byte]struct{}),
	}

	resp := make([]byte, 0, 1+types.HashLen+types.URefSerializedLen)
	resp = append(resp, types.KeyTagHash)
	resp = append(resp, hashAddr[:]...)
	resp = append(resp, accessWire...)
	return types.CodeSuccess, resp
}

// lookupRecord resolves a contract key and verifies the presented access
// reference against the record's paired one.
func (h *Host) lookupRecord(contractBytes, accessBytes []byte, required types.AccessRights) (*contractRecord, types.ErrCode) {
	var key types.Key
	if err := key.UnmarshalBinary(contractBytes); err != nil {
		return nil, types.CodeInvalidArgument
	}
	if key.Hash == nil {
		return nil, types.CodeInvalidArgument
	}
	record, ok := h.contracts[*key.Hash]
	if !ok {
		return nil, types.CodeNoSuchContract
	}
	var access types.URef
	if err := access.UnmarshalBinary(accessBytes); err != nil {
		return nil, types.CodeInvalidArgument
	}
	if code := h.authorize(access, required); code != types.CodeSuccess {
		return nil, code
	}
	if access.Addr() != record.accessAddr {
		return nil, types.CodeUnauthorized
	}
	return record, types.CodeSuccess
}

func (h *Host) addContractVersion(req []byte) (types.ErrCode, []byte) {
	r, err := types.DecodeValue[capenv.AddVersionRequest](req)
	if err != nil {
		return types.CodeInvalidArgument, nil
	}
	record, code := h.lookupRecord(r.Contract, r.Access, types.AccessWrite)
	if code != types.CodeSuccess {
		return code, nil
	}
	entry := versionEntry{
		version:     r.Version,
		entryPoints: r.EntryPoints,
		namedKeys:   r.NamedKeys,
	}
	if h.versionPolicy == RejectDuplicate {
		if _, exists := record.versions.Get(entry); exists {
			return types.CodeDuplicateVersion, nil
		}
	}
	record.versions.ReplaceOrInsert(entry)
	return types.CodeSuccess, nil
}

func (h *Host) removeContractVersion(req []byte) (types.ErrCode, []byte) {
	r, err := types.DecodeValue[capenv.RemoveVersionRequest](req)
	if err != nil {
		return types.CodeInvalidArgument, nil
	}
	record, code := h.lookupRecord(r.Contract, r.Access, types.AccessWrite)
	if code != types.CodeSuccess {
		return code, nil
	}
	if _, removed := record.versions.Delete(versionEntry{version: r.Version}); !removed {
		return types.CodeNoSuchContractVersion, nil
	}
	return types.CodeSuccess, nil
}

func (h *Host) createUserGroup(req []byte) (types.ErrCode, []byte) {
	r, err := types.DecodeValue[capenv.CreateGroupRequest](req)
	if err != nil {
		return types.CodeInvalidArgument, nil
	}
	record, code := h.lookupRecord(r.Contract, r.Access, types.AccessWrite)
	if code != types.CodeSuccess {
		return code, nil
	}
	if _, taken := record.groups[r.Label]; taken {
		return types.CodeDuplicateGroupLabel, nil
	}
	existing, err := types.DecodeURefList(r.Existing)
	if err != nil {
		return types.CodeInvalidArgument, nil
	}

	members := make(map[[types.URefAddrLen]byte]struct{}, len(existing)+int(r.NumNew))
	for _, u := range existing {
		members[u.Addr()] = struct{}{}
	}
	// Only the freshly minted references go back to the caller; existing
	// members are already in the caller's hands.
	resp := make([]byte, 0, int(r.NumNew)*types.URefSerializedLen)
	for i := uint8(0); i < r.NumNew; i++ {
		addr, wire := h.mintURef(types.AccessReadAddWrite)
		members[addr] = struct{}{}
		resp = append(resp, wire...)
	}
	record.groups[r.Label] = members
	return types.CodeSuccess, resp
}

func (h *Host) storeFunction(req []byte, atHash bool) (types.ErrCode, []byte) {
	r, err := types.DecodeValue[capenv.StoreFunctionRequest](req)
	if err != nil {
		return types.CodeInvalidArgument, nil
	}
	fn := storedFunction{name: r.Name, namedKeys: r.NamedKeys}
	if atHash {
		addr := h.mintAddr()
		var hash types.Hash
		copy(hash[:], addr[:])
		h.functions[hash] = fn
		return types.CodeSuccess, addr[:]
	}
	addr, wire := h.mintURef(types.AccessReadAddWrite)
	var slot types.Hash
	copy(slot[:], addr[:])
	h.functions[slot] = fn
	return types.CodeSuccess, wire
}

// Inspection and state-surgery helpers for tests.

// ClearValue removes whatever the global partition holds under the slot u
// names, leaving the reference minted but its slot absent. The boundary has
// no delete operation; this models host-side state (e.g. a slot from an
// earlier era) the client can only observe as ValueNotFound.
func (h *Host) ClearValue(u types.URef) {
	addr := u.Addr()
	slot := append([]byte{types.KeyTagURef}, addr[:]...)
	if err := h.global.Delete(slot); err != nil {
		panic(err)
	}
}

// VersionCount returns the number of callable versions on the record under
// contract, or -1 if no such record exists.
func (h *Host) VersionCount(contract types.Key) int {
	if contract.Hash == nil {
		return -1
	}
	record, ok := h.contracts[*contract.Hash]
	if !ok {
		return -1
	}
	return record.versions.Len()
}

// HasVersion reports whether the record under contract holds the version.
func (h *Host) HasVersion(contract types.Key, version types.SemVer) bool {
	if contract.Hash == nil {
		return false
	}
	record, ok := h.contracts[*contract.Hash]
	if !ok {
		return false
	}
	return record.versions.Has(versionEntry{version: version})
}

// GroupSize returns the member count of the labelled group on the record
// under contract, or -1 if the record or group does not exist.
func (h *Host) GroupSize(contract types.Key, label string) int {
	if contract.Hash == nil {
		return -1
	}
	record, ok := h.contracts[*contract.Hash]
	if !ok {
		return -1
	}
	members, ok := record.groups[label]
	if !ok {
		return -1
	}
	return len(members)
}

// GroupContains reports whether the labelled group holds a reference with
// the same address as u.
func (h *Host) GroupContains(contract types.Key, label string, u types.URef) bool {
	if contract.Hash == nil {
		return false
	}
	record, ok := h.contracts[*contract.Hash]
	if !ok {
		return false
	}
	_, ok = record.groups[label][u.Addr()]
	return ok
}

// HasStoredFunction reports whether a legacy function contract exists at
// the address the given contract ref names.
func (h *Host) HasStoredFunction(ref types.ContractRef) bool {
	var slot types.Hash
	switch {
	case ref.URef != nil:
		addr := ref.URef.Addr()
		copy(slot[:], addr[:])
	case ref.Hash != nil:
		slot = *ref.Hash
	default:
		return false
	}
	_, ok := h.functions[slot]
	return ok
}
