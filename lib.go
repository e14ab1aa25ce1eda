// Package capenv is a capability-addressed state access layer for programs
// running against a trust-anchored host. Every piece of persistent state is
// reached through an unforgeable, rights-bearing reference; the host, not
// the calling program, decides whether an operation is permitted.
//
// The package marshals requests across the host boundary and maps the
// host's status channel onto two tiers: recoverable errors the caller
// branches on, and fatal aborts that terminate the calling instance.
package capenv

import (
	"github.com/rs/zerolog"

	"github.com/meshledger/capenv/types"
)

// Env is the execution environment of one program instance: a handle on the
// injected host boundary plus instance-scoped concerns. All operations in
// this package go through an Env. It is not safe for concurrent use;
// execution is one synchronous host round trip at a time, in program order.
type Env struct {
	host   Host
	logger zerolog.Logger
}

// Option configures an Env.
type Option func(*Env)

// WithLogger attaches a structured logger. Operations log at debug level.
func WithLogger(logger zerolog.Logger) Option {
	return func(e *Env) {
		e.logger = logger
	}
}

// NewEnv creates an environment over the given host boundary.
func NewEnv(host Host, opts ...Option) *Env {
	e := &Env{
		host:   host,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run executes fn as one program instance and returns its terminal status:
// CodeSuccess if fn returns, or the abort code if the instance reverted.
// This is the only place an abort is recovered; any other panic propagates.
func (e *Env) Run(fn func()) (code types.ErrCode) {
	defer func() {
		if r := recover(); r != nil {
			abort, ok := r.(types.Abort)
			if !ok {
				panic(r)
			}
			e.logger.Debug().Stringer("code", abort.Code).Msg("instance aborted")
			code = abort.Code
		}
	}()
	fn()
	return types.CodeSuccess
}

// Revert terminates the calling instance with the given code. It does not
// return. State already mutated through the host is the host's to commit or
// roll back atomically.
func (e *Env) Revert(code types.ErrCode) {
	panic(types.Abort{Code: code})
}

// invoke submits one operation, logging it.
func (e *Env) invoke(op HostOp, req []byte) (types.ErrCode, uint32) {
	code, n := e.host.Invoke(op, req)
	e.logger.Debug().
		Stringer("op", op).
		Stringer("code", code).
		Uint32("resp_len", n).
		Msg("host call")
	return code, n
}

// invokeOrRevert submits an operation for which any non-success status is
// fatal.
func (e *Env) invokeOrRevert(op HostOp, req []byte) uint32 {
	code, n := e.invoke(op, req)
	if code != types.CodeSuccess {
		e.Revert(code)
	}
	return n
}

// fetchOrRevert collects the staged response. A host that cannot honor its
// own staged length has violated the boundary contract.
func (e *Env) fetchOrRevert(n uint32) []byte {
	data, err := e.host.Fetch(n)
	if err != nil {
		e.logger.Debug().Err(err).Msg("host buffer fetch failed")
		e.Revert(types.CodeBufferMismatch)
	}
	return data
}

// encodeRequest serializes a request payload, treating a codec failure on
// our own request as an instance bug.
func (e *Env) encodeRequest(req any) []byte {
	bz, err := types.EncodeValue(req)
	if err != nil {
		e.Revert(types.CodeInvalidArgument)
	}
	return bz
}
