package vesting

import (
	addr "github.com/filecoin-project/go-address"
	"github.com/filecoin-project/go-state-types/abi"
	big "github.com/filecoin-project/go-state-types/big"
	"github.com/filecoin-project/go-state-types/exitcode"
	cbg "github.com/whyrusleeping/cbor-gen"

	builtin "github.com/vesting-project/vesting-actors/actors/builtin"
	vmr "github.com/vesting-project/vesting-actors/actors/runtime"
	adt "github.com/vesting-project/vesting-actors/actors/util/adt"
)

// The vesting schedule actor releases tokens held in its ledger account to a
// beneficiary along a linear curve with a cliff, one schedule per deployment,
// with independent release/revocation bookkeeping per token.
type Actor struct{}

func (a Actor) Exports() []interface{} {
	return []interface{}{
		builtin.MethodConstructor: a.Constructor,
		2:                         a.Release,
		3:                         a.PartialRelease,
		4:                         a.Revoke,
		5:                         a.ReplaceBeneficiary,
		6:                         a.Beneficiary,
		7:                         a.Schedule,
		8:                         a.Released,
		9:                         a.Revoked,
		10:                        a.VestedAmount,
		11:                        a.ReleasableAmount,
	}
}

var _ vmr.Invokee = Actor{}

// Exit codes specific to rejected vesting operations.
const (
	ErrInvalidBeneficiary = exitcode.FirstActorSpecificExitCode + iota
	ErrInvalidCliff
	ErrInvalidDuration
	ErrInvalidStart
	ErrNothingDue
	ErrExcessiveAmount
	ErrNotRevocable
	ErrAlreadyRevoked
	ErrTransferFailed
)

// TokensReleased is emitted on every successful release.
type TokensReleased struct {
	Token  addr.Address
	Amount abi.TokenAmount
}

// TokenVestingRevoked is emitted on every successful revocation.
type TokenVestingRevoked struct {
	Token addr.Address
}

type ConstructorParams struct {
	Owner         addr.Address
	Beneficiary   addr.Address
	Start         abi.ChainEpoch
	CliffDuration abi.ChainEpoch
	Duration      abi.ChainEpoch
	Revocable     bool
}

func (a Actor) Constructor(rt vmr.Runtime, params *ConstructorParams) *abi.EmptyValue {
	rt.ValidateImmediateCallerIs(builtin.InitActorAddr)

	if params.Beneficiary.Empty() {
		rt.Abortf(ErrInvalidBeneficiary, "beneficiary must not be the zero address")
	}
	if params.CliffDuration < 0 || params.CliffDuration > params.Duration {
		rt.Abortf(ErrInvalidCliff, "cliff duration %v must lie between zero and total duration %v", params.CliffDuration, params.Duration)
	}
	if params.Duration <= 0 {
		rt.Abortf(ErrInvalidDuration, "duration %v must be positive", params.Duration)
	}
	if params.Start+params.Duration <= rt.CurrEpoch() {
		rt.Abortf(ErrInvalidStart, "schedule ending at %v is not after creation epoch %v", params.Start+params.Duration, rt.CurrEpoch())
	}

	st, err := ConstructState(adt.AsStore(rt), params)
	builtin.RequireNoErr(rt, err, exitcode.ErrIllegalState, "failed to construct state")
	rt.State().Create(st)
	return nil
}

type TokenParams struct {
	Token addr.Address
}

// Release transfers every currently claimable unit of the token to the
// beneficiary. Anyone may trigger it; tokens only ever flow to the
// beneficiary.
func (a Actor) Release(rt vmr.Runtime, params *TokenParams) *abi.EmptyValue {
	rt.ValidateImmediateCallerAcceptAny()

	var st State
	var unreleased abi.TokenAmount
	rt.State().Transaction(&st, func() {
		store := adt.AsStore(rt)
		balance := rt.TokenBalance(params.Token)

		var err error
		unreleased, err = st.ReleasableAmount(store, params.Token, rt.CurrEpoch(), balance)
		builtin.RequireNoErr(rt, err, exitcode.ErrIllegalState, "failed to compute releasable amount of %v", params.Token)
		if unreleased.Sign() == 0 {
			rt.Abortf(ErrNothingDue, "no tokens due for release of %v", params.Token)
		}

		// The released total is committed before the ledger moves anything,
		// so a re-entrant call cannot observe a stale total.
		err = st.AddReleased(store, params.Token, unreleased)
		builtin.RequireNoErr(rt, err, exitcode.ErrIllegalState, "failed to record release of %v", params.Token)
	})

	code := rt.TransferToken(params.Token, st.Beneficiary, unreleased)
	if !code.IsSuccess() {
		rt.Abortf(ErrTransferFailed, "ledger rejected transfer of %v %v to %v: %v", unreleased, params.Token, st.Beneficiary, code)
	}
	rt.Log(vmr.INFO, "released %v of %v to %v", unreleased, params.Token, st.Beneficiary)

	rt.EmitEvent(&TokensReleased{Token: params.Token, Amount: unreleased})
	return nil
}

type PartialReleaseParams struct {
	Token  addr.Address
	Amount abi.TokenAmount
}

// PartialRelease transfers an explicitly chosen amount, no greater than the
// currently claimable balance, to the beneficiary.
func (a Actor) PartialRelease(rt vmr.Runtime, params *PartialReleaseParams) *abi.EmptyValue {
	rt.ValidateImmediateCallerAcceptAny()
	builtin.RequireParam(rt, params.Amount.GreaterThanEqual(big.Zero()), exitcode.ErrIllegalArgument,
		"release amount %v must be non-negative", params.Amount)

	var st State
	rt.State().Transaction(&st, func() {
		store := adt.AsStore(rt)
		balance := rt.TokenBalance(params.Token)

		unreleased, err := st.ReleasableAmount(store, params.Token, rt.CurrEpoch(), balance)
		builtin.RequireNoErr(rt, err, exitcode.ErrIllegalState, "failed to compute releasable amount of %v", params.Token)
		if unreleased.Sign() == 0 {
			rt.Abortf(ErrNothingDue, "no tokens due for release of %v", params.Token)
		}
		if params.Amount.GreaterThan(unreleased) {
			rt.Abortf(ErrExcessiveAmount, "requested %v of %v exceeds releasable %v", params.Amount, params.Token, unreleased)
		}

		err = st.AddReleased(store, params.Token, params.Amount)
		builtin.RequireNoErr(rt, err, exitcode.ErrIllegalState, "failed to record release of %v", params.Token)
	})

	code := rt.TransferToken(params.Token, st.Beneficiary, params.Amount)
	if !code.IsSuccess() {
		rt.Abortf(ErrTransferFailed, "ledger rejected transfer of %v %v to %v: %v", params.Amount, params.Token, st.Beneficiary, code)
	}

	rt.EmitEvent(&TokensReleased{Token: params.Token, Amount: params.Amount})
	return nil
}

// Revoke freezes vesting of the token and refunds the never-vested portion to
// the owner. The vested-but-unreleased portion stays claimable by the
// beneficiary via Release.
func (a Actor) Revoke(rt vmr.Runtime, params *TokenParams) *abi.EmptyValue {
	var st State
	var refund abi.TokenAmount
	rt.State().Transaction(&st, func() {
		rt.ValidateImmediateCallerIs(st.Owner)

		if !st.Revocable {
			rt.Abortf(ErrNotRevocable, "schedule is not revocable")
		}

		store := adt.AsStore(rt)
		revoked, err := st.IsRevoked(store, params.Token)
		builtin.RequireNoErr(rt, err, exitcode.ErrIllegalState, "failed to load revoked flag of %v", params.Token)
		if revoked {
			rt.Abortf(ErrAlreadyRevoked, "vesting of %v already revoked", params.Token)
		}

		balance := rt.TokenBalance(params.Token)
		unreleased, err := st.ReleasableAmount(store, params.Token, rt.CurrEpoch(), balance)
		builtin.RequireNoErr(rt, err, exitcode.ErrIllegalState, "failed to compute releasable amount of %v", params.Token)
		refund = big.Sub(balance, unreleased)

		// Vesting is frozen before the refund moves.
		err = st.MarkRevoked(store, params.Token)
		builtin.RequireNoErr(rt, err, exitcode.ErrIllegalState, "failed to record revocation of %v", params.Token)
	})

	code := rt.TransferToken(params.Token, st.Owner, refund)
	if !code.IsSuccess() {
		rt.Abortf(ErrTransferFailed, "ledger rejected refund of %v %v to %v: %v", refund, params.Token, st.Owner, code)
	}

	rt.EmitEvent(&TokenVestingRevoked{Token: params.Token})
	return nil
}

type ReplaceBeneficiaryParams struct {
	NewBeneficiary addr.Address
}

// ReplaceBeneficiary transfers the beneficiary role. Only the current
// beneficiary may call it.
func (a Actor) ReplaceBeneficiary(rt vmr.Runtime, params *ReplaceBeneficiaryParams) *abi.EmptyValue {
	var st State
	rt.State().Transaction(&st, func() {
		rt.ValidateImmediateCallerIs(st.Beneficiary)

		// TODO: the new address is accepted unconditionally, including the
		// zero identity, which strands all future releases. Decide whether
		// to reject it.
		st.Beneficiary = params.NewBeneficiary
	})
	return nil
}

func (a Actor) Beneficiary(rt vmr.Runtime, _ *abi.EmptyValue) *addr.Address {
	rt.ValidateImmediateCallerAcceptAny()
	var st State
	rt.State().Readonly(&st)
	return &st.Beneficiary
}

// ScheduleInfo reports the schedule's immutable timing parameters.
type ScheduleInfo struct {
	Start         abi.ChainEpoch
	CliffDuration abi.ChainEpoch
	Cliff         abi.ChainEpoch
	Duration      abi.ChainEpoch
	Revocable     bool
}

func (a Actor) Schedule(rt vmr.Runtime, _ *abi.EmptyValue) *ScheduleInfo {
	rt.ValidateImmediateCallerAcceptAny()
	var st State
	rt.State().Readonly(&st)
	return &ScheduleInfo{
		Start:         st.Start,
		CliffDuration: st.CliffDuration,
		Cliff:         st.Cliff(),
		Duration:      st.Duration,
		Revocable:     st.Revocable,
	}
}

func (a Actor) Released(rt vmr.Runtime, params *TokenParams) *abi.TokenAmount {
	rt.ValidateImmediateCallerAcceptAny()
	var st State
	rt.State().Readonly(&st)
	amount, err := st.LoadReleased(adt.AsStore(rt), params.Token)
	builtin.RequireNoErr(rt, err, exitcode.ErrIllegalState, "failed to load released amount of %v", params.Token)
	return &amount
}

func (a Actor) Revoked(rt vmr.Runtime, params *TokenParams) *cbg.CborBool {
	rt.ValidateImmediateCallerAcceptAny()
	var st State
	rt.State().Readonly(&st)
	revoked, err := st.IsRevoked(adt.AsStore(rt), params.Token)
	builtin.RequireNoErr(rt, err, exitcode.ErrIllegalState, "failed to load revoked flag of %v", params.Token)
	flag := cbg.CborBool(revoked)
	return &flag
}

func (a Actor) VestedAmount(rt vmr.Runtime, params *TokenParams) *abi.TokenAmount {
	rt.ValidateImmediateCallerAcceptAny()
	var st State
	rt.State().Readonly(&st)
	vested, err := st.VestedAmount(adt.AsStore(rt), params.Token, rt.CurrEpoch(), rt.TokenBalance(params.Token))
	builtin.RequireNoErr(rt, err, exitcode.ErrIllegalState, "failed to compute vested amount of %v", params.Token)
	return &vested
}

func (a Actor) ReleasableAmount(rt vmr.Runtime, params *TokenParams) *abi.TokenAmount {
	rt.ValidateImmediateCallerAcceptAny()
	var st State
	rt.State().Readonly(&st)
	releasable, err := st.ReleasableAmount(adt.AsStore(rt), params.Token, rt.CurrEpoch(), rt.TokenBalance(params.Token))
	builtin.RequireNoErr(rt, err, exitcode.ErrIllegalState, "failed to compute releasable amount of %v", params.Token)
	return &releasable
}
