package hostmock

import (
	dbm "github.com/cometbft/cometbft-db"

	"github.com/meshledger/capenv/types"
)

// mergeInto applies the host's add rule at slot: decode the stored value
// and the operand, merge by variant, and store the result. An absent stored
// value merges from the variant's identity, so the first add behaves like a
// write of the operand.
func (h *Host) mergeInto(db dbm.DB, slot, operand []byte) types.ErrCode {
	stored, err := db.Get(slot)
	if err != nil {
		return types.CodeHostInternal
	}
	if stored == nil {
		if err := db.Set(slot, operand); err != nil {
			return types.CodeHostInternal
		}
		return types.CodeSuccess
	}

	have, err := types.DecodeValue[any](stored)
	if err != nil {
		return types.CodeHostInternal
	}
	delta, err := types.DecodeValue[any](operand)
	if err != nil {
		return types.CodeInvalidArgument
	}
	merged, code := mergeValues(have, delta)
	if code != types.CodeSuccess {
		return code
	}
	out, err := types.EncodeValue(merged)
	if err != nil {
		return types.CodeHostInternal
	}
	if err := db.Set(slot, out); err != nil {
		return types.CodeHostInternal
	}
	return types.CodeSuccess
}

// mergeValues is the variant-dependent merge: numeric sum, list append, map
// union. Anything else, or a variant mismatch, cannot absorb the operand.
func mergeValues(have, delta any) (any, types.ErrCode) {
	if hi, ok := asInt64(have); ok {
		di, ok := asInt64(delta)
		if !ok {
			return nil, types.CodeAddMismatch
		}
		return hi + di, types.CodeSuccess
	}
	if hf, ok := asFloat64(have); ok {
		df, ok := asFloat64(delta)
		if !ok {
			return nil, types.CodeAddMismatch
		}
		return hf + df, types.CodeSuccess
	}
	switch hv := have.(type) {
	case []any:
		dv, ok := delta.([]any)
		if !ok {
			return nil, types.CodeAddMismatch
		}
		return append(hv, dv...), types.CodeSuccess
	case map[string]any:
		dv, ok := delta.(map[string]any)
		if !ok {
			return nil, types.CodeAddMismatch
		}
		for k, v := range dv {
			hv[k] = v
		}
		return hv, types.CodeSuccess
	case map[any]any:
		dv, ok := delta.(map[any]any)
		if !ok {
			return nil, types.CodeAddMismatch
		}
		for k, v := range dv {
			hv[k] = v
		}
		return hv, types.CodeSuccess
	default:
		return nil, types.CodeAddMismatch
	}
}

// asInt64 normalizes the integer widths the codec may hand back.
func asInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint:
		return int64(n), true
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint64:
		return int64(n), true
	default:
		return 0, false
	}
}

func asFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}
