// Package hostmock is an in-memory implementation of the capenv host
// boundary. It honors the same two-phase Invoke/Fetch protocol, enforces
// rights the way a real host would, and keeps the global and local
// partitions in separate MemDB instances so the state access layer and code
// built on it can be tested without a real host.
package hostmock

import (
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"

	dbm "github.com/cometbft/cometbft-db"
	"github.com/google/btree"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/blake2b"

	"github.com/meshledger/capenv"
	"github.com/meshledger/capenv/types"
)

// VersionPolicy is the host's stance on adding a version number a metadata
// record already holds.
type VersionPolicy int

const (
	// RejectDuplicate refuses the add with CodeDuplicateVersion.
	RejectDuplicate VersionPolicy = iota
	// Supersede replaces the stored version's entry points and named keys.
	Supersede
)

// Option configures the mock host.
type Option func(*Host)

// WithVersionPolicy selects the version-collision policy.
func WithVersionPolicy(p VersionPolicy) Option {
	return func(h *Host) {
		h.versionPolicy = p
	}
}

// WithLogger attaches a structured logger. Operations log at debug level.
func WithLogger(logger zerolog.Logger) Option {
	return func(h *Host) {
		h.logger = logger
	}
}

type versionEntry struct {
	version     types.SemVer
	entryPoints map[string]capenv.WireEntryPoint
	namedKeys   map[string][]byte
}

type contractRecord struct {
	accessAddr [types.URefAddrLen]byte
	versions   *btree.BTreeG[versionEntry]
	groups     map[string]map[[types.URefAddrLen]byte]struct{}
}

type storedFunction struct {
	name      string
	namedKeys map[string][]byte
}

// Host is the mock. One Host models the view of one calling context:
// the local partition it serves is that context's private one. Not safe for
// concurrent use, matching the one-call-at-a-time execution model.
type Host struct {
	global dbm.DB
	local  dbm.DB

	// minted records every capability address the host has handed out,
	// with the rights granted at mint time. A presented reference must be
	// known here and must not claim more than was granted.
	minted    map[[types.URefAddrLen]byte]types.AccessRights
	usedAddrs map[[types.URefAddrLen]byte]struct{}

	contracts map[types.Hash]*contractRecord
	functions map[types.Hash]storedFunction

	versionPolicy VersionPolicy
	contextID     [types.URefAddrLen]byte
	mintSeed      [types.URefAddrLen]byte
	mintCounter   uint64

	pending []byte
	staged  bool

	logger zerolog.Logger
}

var _ capenv.Host = (*Host)(nil)

// New creates a mock host with empty partitions.
func New(opts ...Option) *Host {
	h := &Host{
		global:        dbm.NewMemDB(),
		local:         dbm.NewMemDB(),
		minted:        make(map[[types.URefAddrLen]byte]types.AccessRights),
		usedAddrs:     make(map[[types.URefAddrLen]byte]struct{}),
		contracts:     make(map[types.Hash]*contractRecord),
		functions:     make(map[types.Hash]storedFunction),
		versionPolicy: RejectDuplicate,
		logger:        zerolog.Nop(),
	}
	if _, err := rand.Read(h.mintSeed[:]); err != nil {
		panic(err)
	}
	if _, err := rand.Read(h.contextID[:]); err != nil {
		panic(err)
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Invoke dispatches one operation. Any previously staged response is
// discarded: buffers never survive across calls.
func (h *Host) Invoke(op capenv.HostOp, req []byte) (types.ErrCode, uint32) {
	h.pending = nil
	h.staged = false

	code, resp := h.dispatch(op, req)
	h.logger.Debug().
		Stringer("op", op).
		Stringer("code", code).
		Int("resp_len", len(resp)).
		Msg("mock host call")
	if code == types.CodeSuccess && resp != nil {
		h.pending = resp
		h.staged = true
		return code, uint32(len(resp))
	}
	return code, 0
}

// Fetch consumes the staged response. The length must match what Invoke
// reported; a second fetch, or one with the wrong length, errors.
func (h *Host) Fetch(respLen uint32) ([]byte, error) {
	if !h.staged {
		return nil, errors.New("no response staged")
	}
	if int(respLen) != len(h.pending) {
		return nil, fmt.Errorf("staged response has %d bytes, fetch asked for %d", len(h.pending), respLen)
	}
	out := h.pending
	h.pending = nil
	h.staged = false
	return out, nil
}

func (h *Host) dispatch(op capenv.HostOp, req []byte) (types.ErrCode, []byte) {
	switch op {
	case capenv.OpReadValue:
		return h.readValue(req)
	case capenv.OpReadValueLocal:
		return h.readValueLocal(req)
	case capenv.OpWrite:
		return h.write(req)
	case capenv.OpWriteLocal:
		return h.writeLocal(req)
	case capenv.OpAdd:
		return h.add(req)
	case capenv.OpAddLocal:
		return h.addLocal(req)
	case capenv.OpNewURef:
		return h.newURef(req)
	case capenv.OpCreateContractMetadata:
		return h.createContractMetadata()
	case capenv.OpAddContractVersion:
		return h.addContractVersion(req)
	case capenv.OpRemoveContractVersion:
		return h.removeContractVersion(req)
	case capenv.OpCreateUserGroup:
		return h.createUserGroup(req)
	case capenv.OpStoreFunction:
		return h.storeFunction(req, false)
	case capenv.OpStoreFunctionAtHash:
		return h.storeFunction(req, true)
	default:
		return types.CodeInvalidArgument, nil
	}
}

// mintAddr derives a fresh, never-before-used 32-byte address.
func (h *Host) mintAddr() [types.URefAddrLen]byte {
	for {
		h.mintCounter++
		var buf [types.URefAddrLen + 8]byte
		copy(buf[:], h.mintSeed[:])
		binary.BigEndian.PutUint64(buf[types.URefAddrLen:], h.mintCounter)
		addr := blake2b.Sum256(buf[:])
		if _, used := h.usedAddrs[addr]; used {
			continue
		}
		h.usedAddrs[addr] = struct{}{}
		return addr
	}
}

// mintURef mints an address, grants it the given rights, and returns its
// wire form.
func (h *Host) mintURef(rights types.AccessRights) ([types.URefAddrLen]byte, []byte) {
	addr := h.mintAddr()
	h.minted[addr] = rights
	wire := make([]byte, 0, types.URefSerializedLen)
	wire = append(wire, addr[:]...)
	wire = append(wire, byte(rights))
	return addr, wire
}

// authorize checks a presented reference: it must be a reference the host
// minted, must not claim rights beyond the grant, and must cover what the
// operation requires.
func (h *Host) authorize(u types.URef, required types.AccessRights) types.ErrCode {
	granted, known := h.minted[u.Addr()]
	if !known {
		return types.CodeUnauthorized
	}
	if !granted.Covers(u.AccessRights()) {
		return types.CodeUnauthorized
	}
	if !u.AccessRights().Covers(required) {
		return types.CodeUnauthorized
	}
	return types.CodeSuccess
}

// slotKey normalizes a key to its storage slot identity: variant tag plus
// raw address. Rights carried by URef keys are a capability, not identity,
// and must not fork the slot.
func slotKey(k types.Key) ([]byte, error) {
	switch {
	case k.Account != nil:
		return append([]byte{types.KeyTagAccount}, k.Account[:]...), nil
	case k.Hash != nil:
		return append([]byte{types.KeyTagHash}, k.Hash[:]...), nil
	case k.URef != nil:
		addr := k.URef.Addr()
		return append([]byte{types.KeyTagURef}, addr[:]...), nil
	case k.Local != nil:
		return append([]byte{types.KeyTagLocal}, k.Local[:]...), nil
	default:
		return nil, errors.New("key has no variant set")
	}
}

// localSlot namespaces a serialized local key under the calling context.
// The prefix makes collisions with the global partition impossible: global
// slots live in a different MemDB entirely, but the prefix also keeps two
// contexts apart if a future test shares one store.
func (h *Host) localSlot(keyBytes []byte) []byte {
	out := make([]byte, 0, len(h.contextID)+len(keyBytes))
	out = append(out, h.contextID[:]...)
	out = append(out, keyBytes...)
	return out
}
