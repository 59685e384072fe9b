package vesting_test

import (
	"context"
	"strings"
	"testing"

	addr "github.com/filecoin-project/go-address"
	"github.com/filecoin-project/go-state-types/abi"
	big "github.com/filecoin-project/go-state-types/big"
	"github.com/filecoin-project/go-state-types/exitcode"
	cbg "github.com/whyrusleeping/cbor-gen"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vesting-project/vesting-actors/actors/builtin"
	"github.com/vesting-project/vesting-actors/actors/builtin/vesting"
	"github.com/vesting-project/vesting-actors/actors/util/adt"
	"github.com/vesting-project/vesting-actors/support/mock"
)

var ether = big.NewInt(1_000_000_000_000_000_000)

func TestExports(t *testing.T) {
	exports := vesting.Actor{}.Exports()
	require.Len(t, exports, int(builtin.MethodsVesting.ReleasableAmount)+1)
	assert.Nil(t, exports[builtin.MethodSend])
	for i := int(builtin.MethodConstructor); i < len(exports); i++ {
		assert.NotNil(t, exports[i], "method %d has no export", i)
	}
}

func TestConstruction(t *testing.T) {
	actor := vesting.Actor{}

	receiver := newIDAddr(t, 100)
	owner := newIDAddr(t, 101)
	beneficiary := newIDAddr(t, 102)

	builder := mock.NewBuilder(context.Background(), receiver).
		WithCaller(builtin.InitActorAddr, builtin.InitActorCodeID)

	t.Run("simple construction", func(t *testing.T) {
		rt := builder.Build(t)
		params := vesting.ConstructorParams{
			Owner:         owner,
			Beneficiary:   beneficiary,
			Start:         0,
			CliffDuration: 10_000,
			Duration:      100_000,
			Revocable:     true,
		}

		rt.ExpectValidateCallerAddr(builtin.InitActorAddr)
		ret := rt.Call(actor.Constructor, &params)
		assert.Nil(t, ret)
		rt.Verify()

		var st vesting.State
		rt.GetState(&st)
		assert.Equal(t, owner, st.Owner)
		assert.Equal(t, beneficiary, st.Beneficiary)
		assert.Equal(t, abi.ChainEpoch(0), st.Start)
		assert.Equal(t, abi.ChainEpoch(10_000), st.CliffDuration)
		assert.Equal(t, abi.ChainEpoch(100_000), st.Duration)
		assert.True(t, st.Revocable)

		released := adt.AsMap(adt.AsStore(rt), st.Released)
		keys, err := released.CollectKeys()
		require.NoError(t, err)
		assert.Empty(t, keys)

		revoked := adt.AsMap(adt.AsStore(rt), st.Revoked)
		keys, err = revoked.CollectKeys()
		require.NoError(t, err)
		assert.Empty(t, keys)

		checkState(t, rt)
	})

	t.Run("rejects empty beneficiary", func(t *testing.T) {
		rt := builder.Build(t)
		params := vesting.ConstructorParams{
			Owner:       owner,
			Beneficiary: addr.Undef,
			Duration:    100_000,
		}

		rt.ExpectValidateCallerAddr(builtin.InitActorAddr)
		rt.ExpectAbort(vesting.ErrInvalidBeneficiary, func() {
			rt.Call(actor.Constructor, &params)
		})
		rt.Verify()
	})

	t.Run("rejects cliff longer than duration", func(t *testing.T) {
		rt := builder.Build(t)
		params := vesting.ConstructorParams{
			Owner:         owner,
			Beneficiary:   beneficiary,
			CliffDuration: 100_001,
			Duration:      100_000,
		}

		rt.ExpectValidateCallerAddr(builtin.InitActorAddr)
		rt.ExpectAbort(vesting.ErrInvalidCliff, func() {
			rt.Call(actor.Constructor, &params)
		})
		rt.Verify()
	})

	t.Run("rejects negative cliff duration", func(t *testing.T) {
		rt := builder.Build(t)
		params := vesting.ConstructorParams{
			Owner:         owner,
			Beneficiary:   beneficiary,
			Start:         100_000,
			CliffDuration: -50_000,
			Duration:      100_000,
		}

		rt.ExpectValidateCallerAddr(builtin.InitActorAddr)
		rt.ExpectAbort(vesting.ErrInvalidCliff, func() {
			rt.Call(actor.Constructor, &params)
		})
		rt.Verify()
	})

	t.Run("rejects non-positive duration", func(t *testing.T) {
		rt := builder.Build(t)
		params := vesting.ConstructorParams{
			Owner:       owner,
			Beneficiary: beneficiary,
			Duration:    0,
		}

		rt.ExpectValidateCallerAddr(builtin.InitActorAddr)
		rt.ExpectAbort(vesting.ErrInvalidDuration, func() {
			rt.Call(actor.Constructor, &params)
		})
		rt.Verify()
	})

	t.Run("rejects schedule ending at or before creation", func(t *testing.T) {
		rt := builder.WithEpoch(2_000).Build(t)
		params := vesting.ConstructorParams{
			Owner:       owner,
			Beneficiary: beneficiary,
			Start:       1_000,
			Duration:    1_000,
		}

		rt.ExpectValidateCallerAddr(builtin.InitActorAddr)
		rt.ExpectAbort(vesting.ErrInvalidStart, func() {
			rt.Call(actor.Constructor, &params)
		})
		rt.Verify()
	})

	t.Run("rejects caller other than init actor", func(t *testing.T) {
		rt := builder.Build(t)
		rt.SetCaller(owner, builtin.AccountActorCodeID)
		params := vesting.ConstructorParams{
			Owner:       owner,
			Beneficiary: beneficiary,
			Duration:    100_000,
		}

		rt.ExpectValidateCallerAddr(builtin.InitActorAddr)
		rt.ExpectAbort(exitcode.ErrForbidden, func() {
			rt.Call(actor.Constructor, &params)
		})
		rt.Verify()
	})
}

func TestRelease(t *testing.T) {
	receiver := newIDAddr(t, 100)
	owner := newIDAddr(t, 101)
	beneficiary := newIDAddr(t, 102)
	anne := newIDAddr(t, 103)
	token := newIDAddr(t, 104)

	builder := mock.NewBuilder(context.Background(), receiver).
		WithCaller(builtin.InitActorAddr, builtin.InitActorCodeID).
		WithTokenBalance(token, ether)

	schedule := vesting.ConstructorParams{
		Owner:         owner,
		Beneficiary:   beneficiary,
		Start:         0,
		CliffDuration: 10_000,
		Duration:      100_000,
		Revocable:     true,
	}

	actor := vestingHarness{vesting.Actor{}, t}

	t.Run("nothing due before the cliff", func(t *testing.T) {
		rt := builder.Build(t)
		actor.constructAndVerify(rt, &schedule)

		rt.SetEpoch(5_000)
		rt.SetCaller(anne, builtin.AccountActorCodeID)
		rt.ExpectValidateCallerAny()
		rt.ExpectAbort(vesting.ErrNothingDue, func() {
			rt.Call(actor.Release, &vesting.TokenParams{Token: token})
		})
		rt.Verify()
		checkState(t, rt)
	})

	t.Run("releases the vested amount at the midpoint", func(t *testing.T) {
		rt := builder.Build(t)
		actor.constructAndVerify(rt, &schedule)

		rt.SetEpoch(50_000)
		half := big.Div(ether, big.NewInt(2))

		rt.SetCaller(anne, builtin.AccountActorCodeID)
		rt.ExpectValidateCallerAny()
		rt.ExpectTransferToken(token, beneficiary, half, exitcode.Ok)
		rt.ExpectEmittedEvent(&vesting.TokensReleased{Token: token, Amount: half})
		rt.Call(actor.Release, &vesting.TokenParams{Token: token})
		rt.Verify()

		assert.Equal(t, half, rt.GetTokenBalance(token))
		assert.Equal(t, half, actor.released(rt, token))
		checkState(t, rt)

		// An immediate repeat has nothing left to claim.
		rt.ExpectValidateCallerAny()
		rt.ExpectAbort(vesting.ErrNothingDue, func() {
			rt.Call(actor.Release, &vesting.TokenParams{Token: token})
		})
		rt.Verify()
		checkState(t, rt)
	})

	t.Run("releases everything at the end of the schedule", func(t *testing.T) {
		rt := builder.Build(t)
		actor.constructAndVerify(rt, &schedule)

		rt.SetEpoch(100_000)
		rt.SetCaller(anne, builtin.AccountActorCodeID)
		rt.ExpectValidateCallerAny()
		rt.ExpectTransferToken(token, beneficiary, ether, exitcode.Ok)
		rt.ExpectEmittedEvent(&vesting.TokensReleased{Token: token, Amount: ether})
		rt.Call(actor.Release, &vesting.TokenParams{Token: token})
		rt.Verify()

		assert.True(t, rt.GetTokenBalance(token).Equals(big.Zero()))
		assert.Equal(t, ether, actor.released(rt, token))
		checkState(t, rt)
	})

	t.Run("rejected transfer aborts and rolls back bookkeeping", func(t *testing.T) {
		rt := builder.Build(t)
		actor.constructAndVerify(rt, &schedule)

		rt.SetEpoch(50_000)
		half := big.Div(ether, big.NewInt(2))

		rt.SetCaller(anne, builtin.AccountActorCodeID)
		rt.ExpectValidateCallerAny()
		rt.ExpectTransferToken(token, beneficiary, half, exitcode.ErrInsufficientFunds)
		rt.ExpectAbort(vesting.ErrTransferFailed, func() {
			rt.Call(actor.Release, &vesting.TokenParams{Token: token})
		})
		rt.Verify()

		assert.Equal(t, ether, rt.GetTokenBalance(token))
		assert.Equal(t, big.Zero(), actor.released(rt, token))
		checkState(t, rt)
	})

	t.Run("tokens never released to the caller", func(t *testing.T) {
		rt := builder.Build(t)
		actor.constructAndVerify(rt, &schedule)

		rt.SetEpoch(50_000)
		half := big.Div(ether, big.NewInt(2))

		// The owner triggers the release; the beneficiary is still paid.
		rt.SetCaller(owner, builtin.AccountActorCodeID)
		rt.ExpectValidateCallerAny()
		rt.ExpectTransferToken(token, beneficiary, half, exitcode.Ok)
		rt.ExpectEmittedEvent(&vesting.TokensReleased{Token: token, Amount: half})
		rt.Call(actor.Release, &vesting.TokenParams{Token: token})
		rt.Verify()
		checkState(t, rt)
	})
}

func TestPartialRelease(t *testing.T) {
	receiver := newIDAddr(t, 100)
	owner := newIDAddr(t, 101)
	beneficiary := newIDAddr(t, 102)
	anne := newIDAddr(t, 103)
	token := newIDAddr(t, 104)

	builder := mock.NewBuilder(context.Background(), receiver).
		WithCaller(builtin.InitActorAddr, builtin.InitActorCodeID).
		WithTokenBalance(token, ether)

	schedule := vesting.ConstructorParams{
		Owner:         owner,
		Beneficiary:   beneficiary,
		Start:         0,
		CliffDuration: 10_000,
		Duration:      100_000,
		Revocable:     true,
	}

	actor := vestingHarness{vesting.Actor{}, t}

	t.Run("releases the requested amount", func(t *testing.T) {
		rt := builder.Build(t)
		actor.constructAndVerify(rt, &schedule)

		rt.SetEpoch(50_000)
		quarter := big.Div(ether, big.NewInt(4))

		rt.SetCaller(anne, builtin.AccountActorCodeID)
		rt.ExpectValidateCallerAny()
		rt.ExpectTransferToken(token, beneficiary, quarter, exitcode.Ok)
		rt.ExpectEmittedEvent(&vesting.TokensReleased{Token: token, Amount: quarter})
		rt.Call(actor.PartialRelease, &vesting.PartialReleaseParams{Token: token, Amount: quarter})
		rt.Verify()

		assert.Equal(t, quarter, actor.released(rt, token))
		checkState(t, rt)

		// The remainder of the vested half is still claimable in full.
		rt.ExpectValidateCallerAny()
		rt.ExpectTransferToken(token, beneficiary, quarter, exitcode.Ok)
		rt.ExpectEmittedEvent(&vesting.TokensReleased{Token: token, Amount: quarter})
		rt.Call(actor.Release, &vesting.TokenParams{Token: token})
		rt.Verify()

		assert.Equal(t, big.Div(ether, big.NewInt(2)), actor.released(rt, token))
		checkState(t, rt)
	})

	t.Run("rejects amount above the releasable balance", func(t *testing.T) {
		rt := builder.Build(t)
		actor.constructAndVerify(rt, &schedule)

		rt.SetEpoch(50_000)
		half := big.Div(ether, big.NewInt(2))
		tooMuch := big.Add(half, big.NewInt(1))

		rt.SetCaller(anne, builtin.AccountActorCodeID)
		rt.ExpectValidateCallerAny()
		rt.ExpectAbort(vesting.ErrExcessiveAmount, func() {
			rt.Call(actor.PartialRelease, &vesting.PartialReleaseParams{Token: token, Amount: tooMuch})
		})
		rt.Verify()

		assert.Equal(t, big.Zero(), actor.released(rt, token))
		checkState(t, rt)
	})

	t.Run("rejects negative amount", func(t *testing.T) {
		rt := builder.Build(t)
		actor.constructAndVerify(rt, &schedule)

		rt.SetEpoch(50_000)
		rt.SetCaller(anne, builtin.AccountActorCodeID)
		rt.ExpectValidateCallerAny()
		rt.ExpectAbort(exitcode.ErrIllegalArgument, func() {
			rt.Call(actor.PartialRelease, &vesting.PartialReleaseParams{Token: token, Amount: big.NewInt(-1)})
		})
		rt.Verify()
	})

	t.Run("nothing due before the cliff", func(t *testing.T) {
		rt := builder.Build(t)
		actor.constructAndVerify(rt, &schedule)

		rt.SetEpoch(5_000)
		rt.SetCaller(anne, builtin.AccountActorCodeID)
		rt.ExpectValidateCallerAny()
		rt.ExpectAbort(vesting.ErrNothingDue, func() {
			rt.Call(actor.PartialRelease, &vesting.PartialReleaseParams{Token: token, Amount: big.NewInt(1)})
		})
		rt.Verify()
	})
}

func TestRevoke(t *testing.T) {
	receiver := newIDAddr(t, 100)
	owner := newIDAddr(t, 101)
	beneficiary := newIDAddr(t, 102)
	token := newIDAddr(t, 104)

	builder := mock.NewBuilder(context.Background(), receiver).
		WithCaller(builtin.InitActorAddr, builtin.InitActorCodeID).
		WithTokenBalance(token, ether)

	schedule := vesting.ConstructorParams{
		Owner:         owner,
		Beneficiary:   beneficiary,
		Start:         0,
		CliffDuration: 10_000,
		Duration:      100_000,
		Revocable:     true,
	}

	actor := vestingHarness{vesting.Actor{}, t}

	t.Run("refunds the unvested portion to the owner", func(t *testing.T) {
		rt := builder.Build(t)
		actor.constructAndVerify(rt, &schedule)

		rt.SetEpoch(19_998)
		vested := big.Div(big.Mul(ether, big.NewInt(19_998)), big.NewInt(100_000))
		refund := big.Sub(ether, vested)

		rt.SetCaller(owner, builtin.AccountActorCodeID)
		rt.ExpectValidateCallerAddr(owner)
		rt.ExpectTransferToken(token, owner, refund, exitcode.Ok)
		rt.ExpectEmittedEvent(&vesting.TokenVestingRevoked{Token: token})
		rt.Call(actor.Revoke, &vesting.TokenParams{Token: token})
		rt.Verify()

		assert.True(t, bool(actor.revoked(rt, token)))
		assert.Equal(t, vested, rt.GetTokenBalance(token))
		checkState(t, rt)

		// Vesting is frozen: the whole remaining balance is vested and the
		// beneficiary can drain it.
		rt.ExpectValidateCallerAny()
		rt.ExpectTransferToken(token, beneficiary, vested, exitcode.Ok)
		rt.ExpectEmittedEvent(&vesting.TokensReleased{Token: token, Amount: vested})
		rt.Call(actor.Release, &vesting.TokenParams{Token: token})
		rt.Verify()

		assert.True(t, rt.GetTokenBalance(token).Equals(big.Zero()))
		assert.Equal(t, vested, actor.released(rt, token))
		checkState(t, rt)
	})

	t.Run("vested amount stays frozen after revocation", func(t *testing.T) {
		rt := builder.Build(t)
		actor.constructAndVerify(rt, &schedule)

		rt.SetEpoch(20_000)
		vested := big.Div(big.Mul(ether, big.NewInt(20_000)), big.NewInt(100_000))
		refund := big.Sub(ether, vested)

		rt.SetCaller(owner, builtin.AccountActorCodeID)
		rt.ExpectValidateCallerAddr(owner)
		rt.ExpectTransferToken(token, owner, refund, exitcode.Ok)
		rt.ExpectEmittedEvent(&vesting.TokenVestingRevoked{Token: token})
		rt.Call(actor.Revoke, &vesting.TokenParams{Token: token})
		rt.Verify()

		// Later epochs do not grow the vested amount past the frozen total.
		rt.SetEpoch(60_000)
		rt.ExpectValidateCallerAny()
		ret := rt.Call(actor.VestedAmount, &vesting.TokenParams{Token: token}).(*abi.TokenAmount)
		rt.Verify()
		assert.Equal(t, vested, *ret)
		checkState(t, rt)
	})

	t.Run("rejects revoke by non-owner", func(t *testing.T) {
		rt := builder.Build(t)
		actor.constructAndVerify(rt, &schedule)

		rt.SetEpoch(19_998)
		rt.SetCaller(beneficiary, builtin.AccountActorCodeID)
		rt.ExpectValidateCallerAddr(owner)
		rt.ExpectAbort(exitcode.ErrForbidden, func() {
			rt.Call(actor.Revoke, &vesting.TokenParams{Token: token})
		})
		rt.Verify()

		assert.False(t, bool(actor.revoked(rt, token)))
		checkState(t, rt)
	})

	t.Run("rejects revoke of a non-revocable schedule", func(t *testing.T) {
		rt := builder.Build(t)
		irrevocable := schedule
		irrevocable.Revocable = false
		actor.constructAndVerify(rt, &irrevocable)

		rt.SetEpoch(19_998)
		rt.SetCaller(owner, builtin.AccountActorCodeID)
		rt.ExpectValidateCallerAddr(owner)
		rt.ExpectAbort(vesting.ErrNotRevocable, func() {
			rt.Call(actor.Revoke, &vesting.TokenParams{Token: token})
		})
		rt.Verify()
		checkState(t, rt)
	})

	t.Run("rejects a second revoke of the same token", func(t *testing.T) {
		rt := builder.Build(t)
		actor.constructAndVerify(rt, &schedule)

		rt.SetEpoch(19_998)
		vested := big.Div(big.Mul(ether, big.NewInt(19_998)), big.NewInt(100_000))
		refund := big.Sub(ether, vested)

		rt.SetCaller(owner, builtin.AccountActorCodeID)
		rt.ExpectValidateCallerAddr(owner)
		rt.ExpectTransferToken(token, owner, refund, exitcode.Ok)
		rt.ExpectEmittedEvent(&vesting.TokenVestingRevoked{Token: token})
		rt.Call(actor.Revoke, &vesting.TokenParams{Token: token})
		rt.Verify()

		rt.ExpectValidateCallerAddr(owner)
		rt.ExpectAbort(vesting.ErrAlreadyRevoked, func() {
			rt.Call(actor.Revoke, &vesting.TokenParams{Token: token})
		})
		rt.Verify()
		checkState(t, rt)
	})
}

func TestReplaceBeneficiary(t *testing.T) {
	receiver := newIDAddr(t, 100)
	owner := newIDAddr(t, 101)
	beneficiary := newIDAddr(t, 102)
	bob := newIDAddr(t, 103)
	token := newIDAddr(t, 104)

	builder := mock.NewBuilder(context.Background(), receiver).
		WithCaller(builtin.InitActorAddr, builtin.InitActorCodeID).
		WithTokenBalance(token, ether)

	schedule := vesting.ConstructorParams{
		Owner:         owner,
		Beneficiary:   beneficiary,
		Start:         0,
		CliffDuration: 10_000,
		Duration:      100_000,
		Revocable:     true,
	}

	actor := vestingHarness{vesting.Actor{}, t}

	t.Run("beneficiary hands over the role", func(t *testing.T) {
		rt := builder.Build(t)
		actor.constructAndVerify(rt, &schedule)

		rt.SetCaller(beneficiary, builtin.AccountActorCodeID)
		rt.ExpectValidateCallerAddr(beneficiary)
		rt.Call(actor.ReplaceBeneficiary, &vesting.ReplaceBeneficiaryParams{NewBeneficiary: bob})
		rt.Verify()

		var st vesting.State
		rt.GetState(&st)
		assert.Equal(t, bob, st.Beneficiary)
		checkState(t, rt)

		// Subsequent releases pay the replacement.
		rt.SetEpoch(50_000)
		half := big.Div(ether, big.NewInt(2))
		rt.ExpectValidateCallerAny()
		rt.ExpectTransferToken(token, bob, half, exitcode.Ok)
		rt.ExpectEmittedEvent(&vesting.TokensReleased{Token: token, Amount: half})
		rt.Call(actor.Release, &vesting.TokenParams{Token: token})
		rt.Verify()
		checkState(t, rt)
	})

	t.Run("rejects replacement by anyone else", func(t *testing.T) {
		rt := builder.Build(t)
		actor.constructAndVerify(rt, &schedule)

		rt.SetCaller(owner, builtin.AccountActorCodeID)
		rt.ExpectValidateCallerAddr(beneficiary)
		rt.ExpectAbort(exitcode.ErrForbidden, func() {
			rt.Call(actor.ReplaceBeneficiary, &vesting.ReplaceBeneficiaryParams{NewBeneficiary: bob})
		})
		rt.Verify()

		var st vesting.State
		rt.GetState(&st)
		assert.Equal(t, beneficiary, st.Beneficiary)
	})

	t.Run("accepts the zero identity", func(t *testing.T) {
		rt := builder.Build(t)
		actor.constructAndVerify(rt, &schedule)

		zero := newIDAddr(t, 0)
		rt.SetCaller(beneficiary, builtin.AccountActorCodeID)
		rt.ExpectValidateCallerAddr(beneficiary)
		rt.Call(actor.ReplaceBeneficiary, &vesting.ReplaceBeneficiaryParams{NewBeneficiary: zero})
		rt.Verify()

		var st vesting.State
		rt.GetState(&st)
		assert.Equal(t, zero, st.Beneficiary)
	})
}

func TestGetters(t *testing.T) {
	receiver := newIDAddr(t, 100)
	owner := newIDAddr(t, 101)
	beneficiary := newIDAddr(t, 102)
	token := newIDAddr(t, 104)
	otherToken := newIDAddr(t, 105)

	builder := mock.NewBuilder(context.Background(), receiver).
		WithCaller(builtin.InitActorAddr, builtin.InitActorCodeID).
		WithTokenBalance(token, ether)

	schedule := vesting.ConstructorParams{
		Owner:         owner,
		Beneficiary:   beneficiary,
		Start:         1_000,
		CliffDuration: 10_000,
		Duration:      100_000,
		Revocable:     false,
	}

	actor := vestingHarness{vesting.Actor{}, t}

	t.Run("reports the schedule", func(t *testing.T) {
		rt := builder.Build(t)
		actor.constructAndVerify(rt, &schedule)

		rt.ExpectValidateCallerAny()
		info := rt.Call(actor.Schedule, nil).(*vesting.ScheduleInfo)
		rt.Verify()

		assert.Equal(t, abi.ChainEpoch(1_000), info.Start)
		assert.Equal(t, abi.ChainEpoch(10_000), info.CliffDuration)
		assert.Equal(t, abi.ChainEpoch(11_000), info.Cliff)
		assert.Equal(t, abi.ChainEpoch(100_000), info.Duration)
		assert.False(t, info.Revocable)
	})

	t.Run("reports the beneficiary", func(t *testing.T) {
		rt := builder.Build(t)
		actor.constructAndVerify(rt, &schedule)

		rt.ExpectValidateCallerAny()
		b := rt.Call(actor.Beneficiary, nil).(*addr.Address)
		rt.Verify()
		assert.Equal(t, beneficiary, *b)
	})

	t.Run("defaults for a token never touched", func(t *testing.T) {
		rt := builder.Build(t)
		actor.constructAndVerify(rt, &schedule)

		assert.Equal(t, big.Zero(), actor.released(rt, otherToken))
		assert.False(t, bool(actor.revoked(rt, otherToken)))
	})

	t.Run("nothing vested before the cliff regardless of balance", func(t *testing.T) {
		rt := builder.Build(t)
		actor.constructAndVerify(rt, &schedule)

		rt.SetEpoch(6_000)
		rt.SetTokenBalance(token, big.Mul(ether, big.NewInt(1_000)))

		rt.ExpectValidateCallerAny()
		vested := rt.Call(actor.VestedAmount, &vesting.TokenParams{Token: token}).(*abi.TokenAmount)
		rt.Verify()
		assert.Equal(t, big.Zero(), *vested)
	})

	t.Run("vested and releasable amounts mid-schedule", func(t *testing.T) {
		rt := builder.Build(t)
		actor.constructAndVerify(rt, &schedule)

		rt.SetEpoch(51_000)
		expected := big.Div(ether, big.NewInt(2))

		rt.ExpectValidateCallerAny()
		vested := rt.Call(actor.VestedAmount, &vesting.TokenParams{Token: token}).(*abi.TokenAmount)
		rt.Verify()
		assert.Equal(t, expected, *vested)

		rt.ExpectValidateCallerAny()
		releasable := rt.Call(actor.ReleasableAmount, &vesting.TokenParams{Token: token}).(*abi.TokenAmount)
		rt.Verify()
		assert.Equal(t, expected, *releasable)
	})
}

//
// Test helpers
//

type vestingHarness struct {
	vesting.Actor
	t testing.TB
}

func (h *vestingHarness) constructAndVerify(rt *mock.Runtime, params *vesting.ConstructorParams) {
	rt.ExpectValidateCallerAddr(builtin.InitActorAddr)
	ret := rt.Call(h.Constructor, params)
	assert.Nil(h.t, ret)
	rt.Verify()
}

func (h *vestingHarness) released(rt *mock.Runtime, token addr.Address) abi.TokenAmount {
	rt.ExpectValidateCallerAny()
	ret := rt.Call(h.Released, &vesting.TokenParams{Token: token}).(*abi.TokenAmount)
	rt.Verify()
	return *ret
}

func (h *vestingHarness) revoked(rt *mock.Runtime, token addr.Address) cbg.CborBool {
	rt.ExpectValidateCallerAny()
	ret := rt.Call(h.Revoked, &vesting.TokenParams{Token: token}).(*cbg.CborBool)
	rt.Verify()
	return *ret
}

func checkState(t *testing.T, rt *mock.Runtime) {
	var st vesting.State
	rt.GetState(&st)
	_, acc, err := vesting.CheckStateInvariants(&st, adt.AsStore(rt))
	require.NoError(t, err)
	assert.True(t, acc.IsEmpty(), strings.Join(acc.Messages(), "\n"))
}

func newIDAddr(t *testing.T, id uint64) addr.Address {
	address, err := addr.NewIDAddress(id)
	if err != nil {
		t.Fatal(err)
	}
	return address
}
