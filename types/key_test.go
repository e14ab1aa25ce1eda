package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyRoundTrip(t *testing.T) {
	var account AccountHash
	account[0] = 0x11
	var hash Hash
	hash[0] = 0x22
	uref := testURef(0x33, AccessReadWrite)

	keys := []Key{
		KeyFromAccount(account),
		KeyFromHash(hash),
		KeyFromURef(uref),
	}
	for _, key := range keys {
		bz, err := key.MarshalBinary()
		require.NoError(t, err, key.String())

		var got Key
		require.NoError(t, got.UnmarshalBinary(bz), key.String())
		assert.True(t, got.Equal(key), key.String())
	}
}

func TestKeyFromURefCarriesRights(t *testing.T) {
	uref := testURef(0x44, AccessReadAdd)
	key := KeyFromURef(uref)
	require.NotNil(t, key.URef)
	assert.Equal(t, AccessReadAdd, key.URef.AccessRights())

	bz, err := key.MarshalBinary()
	require.NoError(t, err)
	var got Key
	require.NoError(t, got.UnmarshalBinary(bz))
	require.NotNil(t, got.URef)
	assert.Equal(t, AccessReadAdd, got.URef.AccessRights())
}

func TestKeyEqual(t *testing.T) {
	var hash Hash
	hash[0] = 0x01
	uref := testURef(0x01, AccessRead)

	// same variant, same payload
	assert.True(t, KeyFromHash(hash).Equal(KeyFromHash(hash)))
	// uref keys compare by address, not rights
	other := testURef(0x01, AccessReadAddWrite)
	assert.True(t, KeyFromURef(uref).Equal(KeyFromURef(other)))
	// different variants never compare equal, even with identical raw bytes
	assert.False(t, KeyFromHash(hash).Equal(KeyFromURef(uref)))
}

func TestKeyUnmarshalRejectsBadInput(t *testing.T) {
	var k Key
	require.Error(t, k.UnmarshalBinary(nil))
	require.Error(t, k.UnmarshalBinary([]byte{0xEE, 0x01, 0x02}))

	// truncated payloads
	require.Error(t, k.UnmarshalBinary(append([]byte{KeyTagHash}, make([]byte, HashLen-1)...)))
	require.Error(t, k.UnmarshalBinary(append([]byte{KeyTagURef}, make([]byte, URefSerializedLen-1)...)))
}

func TestKeyMarshalRequiresVariant(t *testing.T) {
	var unset Key
	_, err := unset.MarshalBinary()
	require.Error(t, err)
	assert.Equal(t, "key-unset", unset.String())
}
