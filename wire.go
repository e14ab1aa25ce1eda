package capenv

import (
	"github.com/meshledger/capenv/types"
)

// Request payloads crossing the host boundary. Each is encoded with the
// value codec; keys and references travel in their fixed wire forms inside.
// These shapes are the boundary contract, shared with any Host
// implementation.

// ReadRequest asks for the value under a key. For the local partition, Key
// holds the serialized local key instead of a global key's wire form.
type ReadRequest struct {
	Key []byte `json:"key"`
}

// KVRequest carries a key plus an encoded value, used by write and add in
// both partitions.
type KVRequest struct {
	Key   []byte `json:"key"`
	Value []byte `json:"value"`
}

// NewURefRequest asks the host to mint a fresh reference over an initial
// value. The response is the wire form of a URef-variant Key.
type NewURefRequest struct {
	Value []byte `json:"value"`
}

// WireEntryPoint is the boundary form of an entry point signature, with the
// access union flattened for the codec.
type WireEntryPoint struct {
	Name   string            `json:"name"`
	Args   []types.Parameter `json:"args"`
	Ret    string            `json:"ret"`
	Public bool              `json:"public"`
	Groups []string          `json:"groups"`
}

// AddVersionRequest registers one version on a contract metadata record.
type AddVersionRequest struct {
	Contract    []byte                    `json:"contract"`
	Access      []byte                    `json:"access"`
	Version     types.SemVer              `json:"version"`
	EntryPoints map[string]WireEntryPoint `json:"entry_points"`
	NamedKeys   map[string][]byte         `json:"named_keys"`
}

// RemoveVersionRequest withdraws one version from a contract metadata
// record.
type RemoveVersionRequest struct {
	Contract []byte       `json:"contract"`
	Access   []byte       `json:"access"`
	Version  types.SemVer `json:"version"`
}

// CreateGroupRequest registers a user group under a label, asking the host
// to mint NumNew fresh references and fold in the existing ones.
type CreateGroupRequest struct {
	Contract []byte `json:"contract"`
	Access   []byte `json:"access"`
	Label    string `json:"label"`
	NumNew   uint8  `json:"num_new"`
	Existing []byte `json:"existing"`
}

// StoreFunctionRequest persists a named executable unit with its named-key
// environment, in the legacy unversioned addressing mode.
type StoreFunctionRequest struct {
	Name      string            `json:"name"`
	NamedKeys map[string][]byte `json:"named_keys"`
}

func wireEntryPoints(eps types.EntryPoints) map[string]WireEntryPoint {
	out := make(map[string]WireEntryPoint, len(eps))
	for name, ep := range eps {
		w := WireEntryPoint{
			Name: ep.Name,
			Args: ep.Args,
			Ret:  ep.Ret,
		}
		switch {
		case ep.Access.Groups != nil:
			w.Groups = *ep.Access.Groups
		default:
			// Unset access means public; host treats them alike.
			w.Public = true
		}
		out[name] = w
	}
	return out
}

func wireNamedKeys(nks types.NamedKeys) (map[string][]byte, error) {
	out := make(map[string][]byte, len(nks))
	for name, key := range nks {
		bz, err := key.MarshalBinary()
		if err != nil {
			return nil, err
		}
		out[name] = bz
	}
	return out, nil
}
