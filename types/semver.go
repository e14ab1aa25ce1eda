package types

import (
	"encoding/binary"
	"fmt"
)

// SemVerSerializedLen is the wire size of a semantic version.
const SemVerSerializedLen = 12

// SemVer is the semantic version of one contract metadata entry.
type SemVer struct {
	Major uint32 `json:"major"`
	Minor uint32 `json:"minor"`
	Patch uint32 `json:"patch"`
}

func NewSemVer(major, minor, patch uint32) SemVer {
	return SemVer{Major: major, Minor: minor, Patch: patch}
}

func (v SemVer) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

func (v SemVer) Equal(other SemVer) bool {
	return v == other
}

// Less orders versions major, then minor, then patch.
func (v SemVer) Less(other SemVer) bool {
	if v.Major != other.Major {
		return v.Major < other.Major
	}
	if v.Minor != other.Minor {
		return v.Minor < other.Minor
	}
	return v.Patch < other.Patch
}

// MarshalBinary encodes the version as three big-endian uint32s.
func (v SemVer) MarshalBinary() ([]byte, error) {
	out := make([]byte, SemVerSerializedLen)
	binary.BigEndian.PutUint32(out[0:4], v.Major)
	binary.BigEndian.PutUint32(out[4:8], v.Minor)
	binary.BigEndian.PutUint32(out[8:12], v.Patch)
	return out, nil
}

// UnmarshalBinary decodes the wire form produced by MarshalBinary.
func (v *SemVer) UnmarshalBinary(data []byte) error {
	if len(data) != SemVerSerializedLen {
		return fmt.Errorf("wrong semver length: got %d, want %d", len(data), SemVerSerializedLen)
	}
	v.Major = binary.BigEndian.Uint32(data[0:4])
	v.Minor = binary.BigEndian.Uint32(data[4:8])
	v.Patch = binary.BigEndian.Uint32(data[8:12])
	return nil
}
