package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTURefFromKey(t *testing.T) {
	uref := testURef(0x55, AccessReadAddWrite)

	turef, err := TURefFromKey[uint64](KeyFromURef(uref))
	require.NoError(t, err)
	assert.True(t, turef.URef().Equal(uref))
	assert.Equal(t, AccessReadAddWrite, turef.AccessRights())
}

func TestTURefFromKeyRejectsOtherVariants(t *testing.T) {
	var hash Hash
	hash[0] = 0x66
	var account AccountHash
	account[0] = 0x77

	// a hash address denotes no capability; refinement must fail, never
	// silently succeed
	_, err := TURefFromKey[uint64](KeyFromHash(hash))
	require.ErrorIs(t, err, ErrUnexpectedKeyVariant)

	_, err = TURefFromKey[string](KeyFromAccount(account))
	require.ErrorIs(t, err, ErrUnexpectedKeyVariant)

	_, err = TURefFromKey[string](Key{})
	require.ErrorIs(t, err, ErrUnexpectedKeyVariant)
}

func TestTURefDegradesToURef(t *testing.T) {
	uref := testURef(0x88, AccessRead)
	turef := TURefFromURef[string](uref)
	assert.True(t, turef.URef().Equal(uref))
	assert.Equal(t, uref.String(), turef.String())
}
