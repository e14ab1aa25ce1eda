package types

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
)

// HashLen is the length of a content address in bytes.
const HashLen = 32

// Hash is a fixed-size content address, used to identify contract metadata
// records and legacy hash-stored functions. The host derives it; this layer
// only carries it around.
type Hash [HashLen]byte

func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

// Bytes returns the hash as a byte slice.
func (h Hash) Bytes() []byte {
	return h[:]
}

// MarshalJSON implements the json.Marshaler interface for Hash.
// It converts the hash to a hex-encoded string.
func (h Hash) MarshalJSON() ([]byte, error) {
	return json.Marshal(hex.EncodeToString(h[:]))
}

// UnmarshalJSON implements the json.Unmarshaler interface for Hash.
// It parses a hex-encoded string into a hash.
func (h *Hash) UnmarshalJSON(input []byte) error {
	var hexString string
	err := json.Unmarshal(input, &hexString)
	if err != nil {
		return err
	}

	data, err := hex.DecodeString(hexString)
	if err != nil {
		return err
	}
	if len(data) != HashLen {
		return fmt.Errorf("got wrong number of bytes for hash")
	}
	copy(h[:], data)
	return nil
}

// NewHash creates a new Hash from a byte slice.
// Returns an error if the slice length is not HashLen.
func NewHash(b []byte) (Hash, error) {
	if len(b) != HashLen {
		return Hash{}, errors.New("got wrong number of bytes for hash")
	}
	var h Hash
	copy(h[:], b)
	return h, nil
}

// ForceNewHash creates a Hash from a hex string.
// It panics in case the input is invalid.
func ForceNewHash(input string) Hash {
	data, err := hex.DecodeString(input)
	if err != nil {
		panic("could not decode hex bytes")
	}
	if len(data) != HashLen {
		panic("got wrong number of bytes")
	}
	var h Hash
	copy(h[:], data)
	return h
}
