package types

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
)

// URefAddrLen is the length of a capability address in bytes.
const URefAddrLen = 32

// URefSerializedLen is the wire size of a URef: address plus one rights byte.
const URefSerializedLen = URefAddrLen + 1

// ErrUpgradeRights is returned by URef.Restrict when the requested rights
// are not a subset of the rights already held.
var ErrUpgradeRights = errors.New("cannot upgrade access rights of a capability reference")

// URef is an unforgeable capability reference: a host-minted 32-byte address
// paired with explicit access rights. The zero value is not a valid
// reference. There is deliberately no constructor taking raw address bytes;
// references enter a program only by host minting or by decoding the host's
// wire form.
type URef struct {
	address [URefAddrLen]byte
	rights  AccessRights
}

// Addr returns a copy of the 32-byte address.
func (u URef) Addr() [URefAddrLen]byte {
	return u.address
}

// AccessRights returns the rights carried by this reference.
func (u URef) AccessRights() AccessRights {
	return u.rights
}

// Equal reports whether two references name the same slot. Rights are a
// capability, not identity: references to the same address are equal even
// when their rights differ.
func (u URef) Equal(other URef) bool {
	return u.address == other.address
}

// Restrict returns a copy of the reference carrying exactly the given
// rights. Rights can only be narrowed: if rights is not a subset of the
// rights already held, ErrUpgradeRights is returned. Only the host can
// produce a reference with more rights.
func (u URef) Restrict(rights AccessRights) (URef, error) {
	if !rights.valid() || !u.rights.Covers(rights) {
		return URef{}, ErrUpgradeRights
	}
	return URef{address: u.address, rights: rights}, nil
}

func (u URef) String() string {
	return fmt.Sprintf("uref-%s-%03o", hex.EncodeToString(u.address[:]), uint8(u.rights))
}

// MarshalBinary encodes the reference in its wire form:
// 32 address bytes followed by one rights byte.
func (u URef) MarshalBinary() ([]byte, error) {
	out := make([]byte, URefSerializedLen)
	copy(out, u.address[:])
	out[URefAddrLen] = byte(u.rights)
	return out, nil
}

// UnmarshalBinary decodes the wire form produced by the host. This is the
// deserialization boundary, not a constructor: bytes that did not originate
// from a mint still name nothing the host will honor.
func (u *URef) UnmarshalBinary(data []byte) error {
	if len(data) != URefSerializedLen {
		return fmt.Errorf("wrong uref length: got %d, want %d", len(data), URefSerializedLen)
	}
	rights := AccessRights(data[URefAddrLen])
	if !rights.valid() {
		return fmt.Errorf("invalid access rights byte %#x", data[URefAddrLen])
	}
	copy(u.address[:], data[:URefAddrLen])
	u.rights = rights
	return nil
}

// URefSet is an ordered, deduplicated collection of references, compared by
// address. It is the request form for group membership.
type URefSet struct {
	refs []URef
}

// NewURefSet builds a set from the given references, dropping duplicates.
func NewURefSet(refs ...URef) URefSet {
	var s URefSet
	for _, r := range refs {
		s.Insert(r)
	}
	return s
}

// Insert adds a reference unless one with the same address is present.
func (s *URefSet) Insert(r URef) {
	for _, have := range s.refs {
		if have.Equal(r) {
			return
		}
	}
	s.refs = append(s.refs, r)
}

// Contains reports whether a reference with the same address is present.
func (s URefSet) Contains(r URef) bool {
	for _, have := range s.refs {
		if have.Equal(r) {
			return true
		}
	}
	return false
}

// Len returns the number of references in the set.
func (s URefSet) Len() int {
	return len(s.refs)
}

// Slice returns the references in insertion order.
func (s URefSet) Slice() []URef {
	out := make([]URef, len(s.refs))
	copy(out, s.refs)
	return out
}

// MarshalBinary encodes the set as the concatenation of its members' wire
// forms, ordered by address so the encoding is canonical.
func (s URefSet) MarshalBinary() ([]byte, error) {
	sorted := s.Slice()
	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0 && bytes.Compare(sorted[j].address[:], sorted[j-1].address[:]) < 0; j-- {
			sorted[j], sorted[j-1] = sorted[j-1], sorted[j]
		}
	}
	out := make([]byte, 0, len(sorted)*URefSerializedLen)
	for _, r := range sorted {
		bz, err := r.MarshalBinary()
		if err != nil {
			return nil, err
		}
		out = append(out, bz...)
	}
	return out, nil
}

// DecodeURefList decodes a concatenation of URef wire forms, as returned by
// the host from group creation.
func DecodeURefList(data []byte) ([]URef, error) {
	if len(data)%URefSerializedLen != 0 {
		return nil, fmt.Errorf("uref list length %d is not a multiple of %d", len(data), URefSerializedLen)
	}
	out := make([]URef, 0, len(data)/URefSerializedLen)
	for off := 0; off < len(data); off += URefSerializedLen {
		var u URef
		if err := u.UnmarshalBinary(data[off : off+URefSerializedLen]); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, nil
}
