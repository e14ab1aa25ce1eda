package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessRightsPredicates(t *testing.T) {
	assert.False(t, AccessNone.IsReadable())
	assert.False(t, AccessNone.IsWriteable())
	assert.False(t, AccessNone.IsAddable())

	assert.True(t, AccessRead.IsReadable())
	assert.True(t, AccessWrite.IsWriteable())
	assert.True(t, AccessAdd.IsAddable())

	assert.True(t, AccessReadAddWrite.IsReadable())
	assert.True(t, AccessReadAddWrite.IsWriteable())
	assert.True(t, AccessReadAddWrite.IsAddable())

	assert.True(t, AccessReadAdd.IsReadable())
	assert.True(t, AccessReadAdd.IsAddable())
	assert.False(t, AccessReadAdd.IsWriteable())
}

func TestAccessRightsCovers(t *testing.T) {
	// every combination covers itself and none
	all := []AccessRights{
		AccessNone, AccessRead, AccessWrite, AccessAdd,
		AccessReadWrite, AccessReadAdd, AccessAddWrite, AccessReadAddWrite,
	}
	for _, r := range all {
		assert.True(t, r.Covers(r), r.String())
		assert.True(t, r.Covers(AccessNone), r.String())
		assert.True(t, AccessReadAddWrite.Covers(r), r.String())
	}

	require.False(t, AccessRead.Covers(AccessWrite))
	require.False(t, AccessRead.Covers(AccessReadWrite))
	require.False(t, AccessAddWrite.Covers(AccessRead))
	require.True(t, AccessReadWrite.Covers(AccessWrite))
}

func TestAccessRightsString(t *testing.T) {
	assert.Equal(t, "NONE", AccessNone.String())
	assert.Equal(t, "READ", AccessRead.String())
	assert.Equal(t, "READ_ADD_WRITE", AccessReadAddWrite.String())
	assert.Equal(t, "ADD_WRITE", AccessAddWrite.String())
}
