package capenv_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meshledger/capenv"
	"github.com/meshledger/capenv/hostmock"
	"github.com/meshledger/capenv/types"
)

func newTestEnv(t *testing.T, opts ...hostmock.Option) (*capenv.Env, *hostmock.Host) {
	t.Helper()
	host := hostmock.New(opts...)
	return capenv.NewEnv(host), host
}

func TestWriteReadRoundTrip(t *testing.T) {
	env, _ := newTestEnv(t)

	code := env.Run(func() {
		uref := capenv.NewURef(env, "initial")
		require.Equal(t, types.AccessReadAddWrite, uref.AccessRights())

		got, err := capenv.Read[string](env, uref)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "initial", *got)

		capenv.Write(env, uref, "replaced")
		got, err = capenv.Read[string](env, uref)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "replaced", *got)
	})
	require.Equal(t, types.CodeSuccess, code)
}

func TestWriteIsLastWriterWins(t *testing.T) {
	env, _ := newTestEnv(t)

	code := env.Run(func() {
		uref := capenv.NewURef(env, uint64(1))
		capenv.Write(env, uref, uint64(2))
		capenv.Write(env, uref, uint64(3))
		assert.Equal(t, uint64(3), capenv.ReadOrAbort[uint64](env, uref))
	})
	require.Equal(t, types.CodeSuccess, code)
}

func TestReadAbsentIsNilNotError(t *testing.T) {
	env, _ := newTestEnv(t)

	code := env.Run(func() {
		// a fresh local partition has nothing under any key
		got, err := capenv.ReadLocal[string, uint64](env, "never written")
		require.NoError(t, err)
		assert.Nil(t, got)
	})
	require.Equal(t, types.CodeSuccess, code)
}

func TestReadBeforeAnyWriteIsNil(t *testing.T) {
	env, host := newTestEnv(t)

	code := env.Run(func() {
		uref := capenv.NewURef(env, uint64(0))
		// model a reference whose slot the host never populated
		host.ClearValue(uref)

		got, err := capenv.Read[uint64](env, uref)
		require.NoError(t, err)
		assert.Nil(t, got)

		// a later write fills the slot again
		capenv.Write(env, uref, uint64(8))
		got, err = capenv.Read[uint64](env, uref)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, uint64(8), *got)
	})
	require.Equal(t, types.CodeSuccess, code)
}

func TestReadOrAbortEscalatesAbsence(t *testing.T) {
	env, host := newTestEnv(t)

	code := env.Run(func() {
		uref := capenv.NewURef(env, uint64(0))
		host.ClearValue(uref)

		_ = capenv.ReadOrAbort[uint64](env, uref)
		t.Error("unreachable after aborting read")
	})
	require.Equal(t, types.CodeValueNotFound, code)
}

func TestReadDeserializeFailureIsRecoverable(t *testing.T) {
	env, _ := newTestEnv(t)

	code := env.Run(func() {
		uref := capenv.NewURef(env, "not a number")

		_, err := capenv.Read[uint64](env, uref)
		require.Error(t, err)
		var deser types.DeserializeError
		require.ErrorAs(t, err, &deser)

		// the instance keeps running after branching on the error
		capenv.Write(env, uref, uint64(12))
		got, err := capenv.Read[uint64](env, uref)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, uint64(12), *got)
	})
	require.Equal(t, types.CodeSuccess, code)
}

func TestReadOrAbortEscalatesDecodeFailure(t *testing.T) {
	env, _ := newTestEnv(t)

	code := env.Run(func() {
		uref := capenv.NewURef(env, "not a number")
		_ = capenv.ReadOrAbort[uint64](env, uref)
		t.Error("unreachable after aborting read")
	})
	require.Equal(t, types.CodeRead, code)
}

func TestAddAccumulates(t *testing.T) {
	env, _ := newTestEnv(t)

	code := env.Run(func() {
		counter := capenv.NewURef(env, int64(0))
		capenv.Add(env, counter, int64(3))
		capenv.Add(env, counter, int64(4))
		assert.Equal(t, int64(7), capenv.ReadOrAbort[int64](env, counter))
	})
	require.Equal(t, types.CodeSuccess, code)
}

func TestAddListAppends(t *testing.T) {
	env, _ := newTestEnv(t)

	code := env.Run(func() {
		log := capenv.NewURef(env, []string{"a"})
		capenv.Add(env, log, []string{"b", "c"})
		assert.Equal(t, []string{"a", "b", "c"}, capenv.ReadOrAbort[[]string](env, log))
	})
	require.Equal(t, types.CodeSuccess, code)
}

func TestAddVariantMismatchIsFatal(t *testing.T) {
	env, _ := newTestEnv(t)

	code := env.Run(func() {
		counter := capenv.NewURef(env, int64(5))
		capenv.Add(env, counter, []string{"not a number"})
		t.Error("unreachable after aborting add")
	})
	require.Equal(t, types.CodeAddMismatch, code)
}

func TestLocalPartitionRoundTrip(t *testing.T) {
	env, _ := newTestEnv(t)

	type session struct {
		Nonce uint64 `json:"nonce"`
		Actor string `json:"actor"`
	}

	code := env.Run(func() {
		capenv.WriteLocal(env, "current", session{Nonce: 9, Actor: "alice"})
		got, err := capenv.ReadLocal[string, session](env, "current")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, session{Nonce: 9, Actor: "alice"}, *got)

		capenv.AddLocal(env, "hits", int64(1))
		capenv.AddLocal(env, "hits", int64(2))
		hits, err := capenv.ReadLocal[string, int64](env, "hits")
		require.NoError(t, err)
		require.NotNil(t, hits)
		assert.Equal(t, int64(3), *hits)
	})
	require.Equal(t, types.CodeSuccess, code)
}

func TestLocalAndGlobalPartitionsNeverCollide(t *testing.T) {
	env, _ := newTestEnv(t)

	code := env.Run(func() {
		uref := capenv.NewURef(env, "global value")

		// use the global slot's own wire bytes as a local key: even a
		// byte-identical key must land in the other partition
		key := types.KeyFromURef(uref)
		keyBytes, err := key.MarshalBinary()
		require.NoError(t, err)

		capenv.WriteLocal(env, keyBytes, "local value")

		global, err := capenv.Read[string](env, uref)
		require.NoError(t, err)
		require.NotNil(t, global)
		assert.Equal(t, "global value", *global)

		local, err := capenv.ReadLocal[[]byte, string](env, keyBytes)
		require.NoError(t, err)
		require.NotNil(t, local)
		assert.Equal(t, "local value", *local)
	})
	require.Equal(t, types.CodeSuccess, code)
}

func TestInsufficientRightsAbort(t *testing.T) {
	env, _ := newTestEnv(t)

	t.Run("write through read-only reference", func(t *testing.T) {
		code := env.Run(func() {
			uref := capenv.NewURef(env, uint64(1))
			readOnly, err := uref.Restrict(types.AccessRead)
			require.NoError(t, err)

			capenv.Write(env, readOnly, uint64(2))
			t.Error("unreachable after aborting write")
		})
		require.Equal(t, types.CodeUnauthorized, code)
	})

	t.Run("read through write-only reference", func(t *testing.T) {
		code := env.Run(func() {
			uref := capenv.NewURef(env, uint64(1))
			writeOnly, err := uref.Restrict(types.AccessWrite)
			require.NoError(t, err)

			_, _ = capenv.Read[uint64](env, writeOnly)
			t.Error("unreachable after aborting read")
		})
		require.Equal(t, types.CodeUnauthorized, code)
	})

	t.Run("add through read-write reference", func(t *testing.T) {
		code := env.Run(func() {
			uref := capenv.NewURef(env, int64(0))
			noAdd, err := uref.Restrict(types.AccessReadWrite)
			require.NoError(t, err)

			capenv.Add(env, noAdd, int64(1))
			t.Error("unreachable after aborting add")
		})
		require.Equal(t, types.CodeUnauthorized, code)
	})
}

func TestTypedReferences(t *testing.T) {
	env, _ := newTestEnv(t)

	code := env.Run(func() {
		balance := capenv.NewTURef(env, uint64(100))

		got, err := capenv.ReadT(env, balance)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, uint64(100), *got)

		capenv.WriteT(env, balance, uint64(50))
		capenv.AddT(env, balance, uint64(25))

		got, err = capenv.ReadT(env, balance)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, uint64(75), *got)

		// the typed reference degrades to its plain capability
		plain, err := capenv.Read[uint64](env, balance.URef())
		require.NoError(t, err)
		require.NotNil(t, plain)
		assert.Equal(t, uint64(75), *plain)
	})
	require.Equal(t, types.CodeSuccess, code)
}

func TestRunPassesThroughForeignPanics(t *testing.T) {
	env, _ := newTestEnv(t)

	require.Panics(t, func() {
		env.Run(func() {
			panic("not an abort")
		})
	})
}
