package runtime

import (
	"context"
	"io"

	addr "github.com/filecoin-project/go-address"
	"github.com/filecoin-project/go-state-types/abi"
	"github.com/filecoin-project/go-state-types/exitcode"
	cid "github.com/ipfs/go-cid"
)

// Runtime is the VM's internal runtime object.
// This is everything that is accessible to actors, beyond parameters.
//
// The VM applies messages strictly sequentially: no two invocations on the
// same actor ever interleave, and an abort rolls back every state change and
// ledger instruction issued by the current message. Actor code relies on
// these guarantees instead of synchronizing itself.
type Runtime interface {
	// Information related to the current message being executed.
	Message() Message

	// The current chain epoch number, a proxy for time within the VM.
	// The genesis block has epoch zero.
	CurrEpoch() abi.ChainEpoch

	// Validates the caller against some predicate.
	// Exported actor methods must invoke at least one caller validation before returning.
	ValidateImmediateCallerAcceptAny()
	ValidateImmediateCallerIs(addrs ...addr.Address)

	// The balance of the receiver in the VM's native token.
	CurrentBalance() abi.TokenAmount

	// TokenLedger gives access to the external token ledger, scoped to the
	// receiving actor's own account.
	TokenLedger

	// Records a domain event for external observers. Events have no effect on
	// state and are rolled back with the message on abort.
	EmitEvent(evt CBORMarshaler)

	// Provides a handle for the actor's state object.
	State() StateHandle

	Store() Store

	// Halts execution upon an error from which the receiver cannot recover.
	// The caller will receive the exit code and an empty return value. State
	// changes made within this call will be rolled back.
	// This method does not return.
	// The message and args are for diagnostic purposes and do not persist on
	// chain. They should be suitable for passing to fmt.Errorf(msg, args...).
	Abortf(errExitCode exitcode.ExitCode, msg string, args ...interface{})

	// Emits a diagnostic message. Not observable on chain.
	Log(level LogLevel, msg string, args ...interface{})

	// Provides a Go context for use by HAMT, etc.
	// The VM is intended to provide an idealised machine abstraction, with
	// infinite storage etc, so this context should not be used by actor code
	// directly.
	Context() context.Context
}

// TokenLedger is the surface of the external token ledger consumed by actor
// code. The ledger owns all balances; actors only read their own balance and
// instruct transfers out of their own account.
type TokenLedger interface {
	// The receiver's balance of the given token as recorded by the ledger.
	// Never negative; reading an unknown token yields zero.
	TokenBalance(token addr.Address) abi.TokenAmount

	// Instructs the ledger to move `amount` of `token` from the receiver to
	// `to`. Settlement is atomic all-or-nothing: a failure (including an
	// insufficient receiver balance) moves nothing. The exit code reports the
	// outcome; actor code decides whether a failure aborts the message.
	TransferToken(token addr.Address, to addr.Address, amount abi.TokenAmount) exitcode.ExitCode
}

// Store defines the storage module exposed to actors.
type Store interface {
	// Retrieves and deserializes an object from the store into `o`. Returns whether successful.
	Get(c cid.Cid, o CBORUnmarshaler) bool
	// Serializes and stores an object, returning its CID.
	Put(x CBORMarshaler) cid.Cid
}

// Message contains information available to the actor about the executing message.
type Message interface {
	// The address of the immediate calling actor. Always an ID-address.
	Caller() addr.Address

	// The address of the actor receiving the message. Always an ID-address.
	Receiver() addr.Address

	// The value attached to the message being processed, implicitly added to
	// CurrentBalance() before method invocation.
	ValueReceived() abi.TokenAmount
}

// StateHandle provides mutable, exclusive access to actor state.
type StateHandle interface {
	// Create initializes the state object.
	// This is only valid in a constructor function and when the state has not yet been initialized.
	Create(obj CBORMarshaler)

	// Readonly loads a readonly copy of the state into the argument.
	//
	// Any modification to the state is illegal and will result in an abort.
	Readonly(obj CBORUnmarshaler)

	// Transaction loads a mutable version of the state into the `obj`
	// argument and protects the execution from side effects (including the
	// token ledger). The mutated state is flushed when `f` returns, before
	// any subsequent ledger instruction can observe it.
	Transaction(obj CBORer, f func())
}

// Invokee is the method-dispatch interface all actor code satisfies.
// The index of a method in Exports is its method number.
type Invokee interface {
	Exports() []interface{}
}

// LogLevel for Runtime.Log.
type LogLevel int64

const (
	DEBUG LogLevel = iota
	INFO
	WARN
	ERROR
)

// These interfaces are intended to match those from whyrusleeping/cbor-gen, such that code generated from that
// system is automatically usable here (but not mandatory).
type CBORMarshaler interface {
	MarshalCBOR(w io.Writer) error
}

type CBORUnmarshaler interface {
	UnmarshalCBOR(r io.Reader) error
}

type CBORer interface {
	CBORMarshaler
	CBORUnmarshaler
}
