package hostmock

import (
	"github.com/meshledger/capenv"
	"github.com/meshledger/capenv/types"
)

func (h *Host) readValue(req []byte) (types.ErrCode, []byte) {
	r, err := types.DecodeValue[capenv.ReadRequest](req)
	if err != nil {
		return types.CodeInvalidArgument, nil
	}
	var key types.Key
	if err := key.UnmarshalBinary(r.Key); err != nil {
		return types.CodeInvalidArgument, nil
	}
	if key.URef != nil {
		if code := h.authorize(*key.URef, types.AccessRead); code != types.CodeSuccess {
			return code, nil
		}
	}
	slot, err := slotKey(key)
	if err != nil {
		return types.CodeInvalidArgument, nil
	}
	value, err := h.global.Get(slot)
	if err != nil {
		return types.CodeHostInternal, nil
	}
	if value == nil {
		return types.CodeValueNotFound, nil
	}
	return types.CodeSuccess, value
}

func (h *Host) readValueLocal(req []byte) (types.ErrCode, []byte) {
	r, err := types.DecodeValue[capenv.ReadRequest](req)
	if err != nil {
		return types.CodeInvalidArgument, nil
	}
	value, err := h.local.Get(h.localSlot(r.Key))
	if err != nil {
		return types.CodeHostInternal, nil
	}
	if value == nil {
		return types.CodeValueNotFound, nil
	}
	return types.CodeSuccess, value
}

func (h *Host) write(req []byte) (types.ErrCode, []byte) {
	r, err := types.DecodeValue[capenv.KVRequest](req)
	if err != nil {
		return types.CodeInvalidArgument, nil
	}
	var key types.Key
	if err := key.UnmarshalBinary(r.Key); err != nil {
		return types.CodeInvalidArgument, nil
	}
	// Only reference-addressed slots are writable; hash slots are
	// immutable content addresses.
	if key.URef == nil {
		return types.CodeUnauthorized, nil
	}
	if code := h.authorize(*key.URef, types.AccessWrite); code != types.CodeSuccess {
		return code, nil
	}
	slot, err := slotKey(key)
	if err != nil {
		return types.CodeInvalidArgument, nil
	}
	if err := h.global.Set(slot, r.Value); err != nil {
		return types.CodeHostInternal, nil
	}
	return types.CodeSuccess, nil
}

func (h *Host) writeLocal(req []byte) (types.ErrCode, []byte) {
	r, err := types.DecodeValue[capenv.KVRequest](req)
	if err != nil {
		return types.CodeInvalidArgument, nil
	}
	if err := h.local.Set(h.localSlot(r.Key), r.Value); err != nil {
		return types.CodeHostInternal, nil
	}
	return types.CodeSuccess, nil
}

func (h *Host) add(req []byte) (types.ErrCode, []byte) {
	r, err := types.DecodeValue[capenv.KVRequest](req)
	if err != nil {
		return types.CodeInvalidArgument, nil
	}
	var key types.Key
	if err := key.UnmarshalBinary(r.Key); err != nil {
		return types.CodeInvalidArgument, nil
	}
	if key.URef == nil {
		return types.CodeUnauthorized, nil
	}
	if code := h.authorize(*key.URef, types.AccessAdd); code != types.CodeSuccess {
		return code, nil
	}
	slot, err := slotKey(key)
	if err != nil {
		return types.CodeInvalidArgument, nil
	}
	return h.mergeInto(h.global, slot, r.Value), nil
}

func (h *Host) addLocal(req []byte) (types.ErrCode, []byte) {
	r, err := types.DecodeValue[capenv.KVRequest](req)
	if err != nil {
		return types.CodeInvalidArgument, nil
	}
	return h.mergeInto(h.local, h.localSlot(r.Key), r.Value), nil
}

func (h *Host) newURef(req []byte) (types.ErrCode, []byte) {
	r, err := types.DecodeValue[capenv.NewURefRequest](req)
	if err != nil {
		return types.CodeInvalidArgument, nil
	}
	addr, urefWire := h.mintURef(types.AccessReadAddWrite)
	slot := append([]byte{types.KeyTagURef}, addr[:]...)
	if err := h.global.Set(slot, r.Value); err != nil {
		return types.CodeHostInternal, nil
	}
	// The response is key-shaped: URef tag followed by the reference.
	resp := append([]byte{types.KeyTagURef}, urefWire...)
	return types.CodeSuccess, resp
}
