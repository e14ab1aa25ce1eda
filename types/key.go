package types

import (
	"fmt"
)

// AccountAddrLen is the length of an account address in bytes.
const AccountAddrLen = 32

// AccountHash identifies an account in the global partition.
type AccountHash [AccountAddrLen]byte

// Key tag bytes on the wire. Host implementations compose key payloads from
// these directly; the client only ever goes through the Key codec.
const (
	KeyTagAccount byte = iota
	KeyTagHash
	KeyTagURef
	KeyTagLocal
)

// Key is the universal address of a storage slot in the global partition.
// It is a closed sum: exactly one of the fields is set.
//
// Note that the Local variant names a slot in the host's local-partition
// index; it is produced by the host, never assembled by a program, and is
// carried here only so host-returned named keys round trip.
type Key struct {
	Account *AccountHash `json:"account,omitempty"`
	Hash    *Hash        `json:"hash,omitempty"`
	URef    *URef        `json:"uref,omitempty"`
	Local   *Hash        `json:"local,omitempty"`
}

// KeyFromURef wraps a capability reference as a Key, carrying its rights.
func KeyFromURef(u URef) Key {
	return Key{URef: &u}
}

// KeyFromHash wraps a content address as a Key.
func KeyFromHash(h Hash) Key {
	return Key{Hash: &h}
}

// KeyFromAccount wraps an account address as a Key.
func KeyFromAccount(a AccountHash) Key {
	return Key{Account: &a}
}

// Equal reports whether two keys address the same slot. URef keys compare
// by address only, like the references they carry.
func (k Key) Equal(other Key) bool {
	switch {
	case k.Account != nil && other.Account != nil:
		return *k.Account == *other.Account
	case k.Hash != nil && other.Hash != nil:
		return *k.Hash == *other.Hash
	case k.URef != nil && other.URef != nil:
		return k.URef.Equal(*other.URef)
	case k.Local != nil && other.Local != nil:
		return *k.Local == *other.Local
	default:
		return false
	}
}

func (k Key) String() string {
	switch {
	case k.Account != nil:
		return fmt.Sprintf("account-%x", k.Account[:])
	case k.Hash != nil:
		return fmt.Sprintf("hash-%s", k.Hash)
	case k.URef != nil:
		return k.URef.String()
	case k.Local != nil:
		return fmt.Sprintf("local-%s", k.Local)
	default:
		return "key-unset"
	}
}

// MarshalBinary encodes the key as one tag byte followed by the variant
// payload.
func (k Key) MarshalBinary() ([]byte, error) {
	switch {
	case k.Account != nil:
		return append([]byte{KeyTagAccount}, k.Account[:]...), nil
	case k.Hash != nil:
		return append([]byte{KeyTagHash}, k.Hash[:]...), nil
	case k.URef != nil:
		bz, err := k.URef.MarshalBinary()
		if err != nil {
			return nil, err
		}
		return append([]byte{KeyTagURef}, bz...), nil
	case k.Local != nil:
		return append([]byte{KeyTagLocal}, k.Local[:]...), nil
	default:
		return nil, fmt.Errorf("cannot encode a key with no variant set")
	}
}

// UnmarshalBinary decodes a tagged key payload produced by MarshalBinary or
// by the host.
func (k *Key) UnmarshalBinary(data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("cannot decode an empty key")
	}
	tag, payload := data[0], data[1:]
	switch tag {
	case KeyTagAccount:
		if len(payload) != AccountAddrLen {
			return fmt.Errorf("wrong account key length: got %d, want %d", len(payload), AccountAddrLen)
		}
		var a AccountHash
		copy(a[:], payload)
		*k = Key{Account: &a}
	case KeyTagHash:
		h, err := NewHash(payload)
		if err != nil {
			return err
		}
		*k = Key{Hash: &h}
	case KeyTagURef:
		var u URef
		if err := u.UnmarshalBinary(payload); err != nil {
			return err
		}
		*k = Key{URef: &u}
	case KeyTagLocal:
		h, err := NewHash(payload)
		if err != nil {
			return err
		}
		*k = Key{Local: &h}
	default:
		return fmt.Errorf("unknown key tag %#x", tag)
	}
	return nil
}
