package types

import (
	"fmt"
)

// Parameter is a named argument in an entry point signature.
type Parameter struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// EntryPointAccess gates who may invoke an entry point.
// Exactly one of the fields should be set.
type EntryPointAccess struct {
	// Public permits any caller.
	Public *struct{} `json:"public,omitempty"`
	// Groups permits callers holding a reference from at least one of the
	// named user groups on the contract's metadata record. The host checks
	// membership; this layer only declares the labels.
	Groups *[]string `json:"groups,omitempty"`
}

// PublicAccess returns an access declaration permitting any caller.
func PublicAccess() EntryPointAccess {
	return EntryPointAccess{Public: &struct{}{}}
}

// GroupAccess returns an access declaration restricted to the given group
// labels.
func GroupAccess(labels ...string) EntryPointAccess {
	return EntryPointAccess{Groups: &labels}
}

func (a EntryPointAccess) String() string {
	switch {
	case a.Public != nil:
		return "public"
	case a.Groups != nil:
		return fmt.Sprintf("groups%v", *a.Groups)
	default:
		return "access-unset"
	}
}

// EntryPoint is one callable signature in a contract version.
type EntryPoint struct {
	Name   string           `json:"name"`
	Args   []Parameter      `json:"args"`
	Ret    string           `json:"ret"`
	Access EntryPointAccess `json:"access"`
}

// EntryPoints maps entry point name to signature for one contract version.
type EntryPoints = map[string]EntryPoint

// NamedKeys is the named-key environment bound to a contract version or a
// legacy function contract.
type NamedKeys = map[string]Key

// ContractRef is the addressing mode of a stored legacy function contract.
// Exactly one of the fields should be set.
type ContractRef struct {
	URef *URef `json:"uref,omitempty"`
	Hash *Hash `json:"hash,omitempty"`
}

// Key converts the contract reference to the universal key addressing it.
func (c ContractRef) Key() (Key, error) {
	switch {
	case c.URef != nil:
		return KeyFromURef(*c.URef), nil
	case c.Hash != nil:
		return KeyFromHash(*c.Hash), nil
	default:
		return Key{}, fmt.Errorf("cannot convert a contract ref with no variant set")
	}
}

func (c ContractRef) String() string {
	switch {
	case c.URef != nil:
		return fmt.Sprintf("contract-%s", c.URef)
	case c.Hash != nil:
		return fmt.Sprintf("contract-hash-%s", c.Hash)
	default:
		return "contract-unset"
	}
}
