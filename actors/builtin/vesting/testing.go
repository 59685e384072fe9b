package vesting

import (
	"github.com/filecoin-project/go-address"
	"github.com/filecoin-project/go-state-types/abi"
	big "github.com/filecoin-project/go-state-types/big"
	cbg "github.com/whyrusleeping/cbor-gen"

	"github.com/vesting-project/vesting-actors/actors/builtin"
	"github.com/vesting-project/vesting-actors/actors/util/adt"
)

type StateSummary struct {
	ReleasedTokenCount int
	RevokedTokenCount  int
	TotalReleased      abi.TokenAmount
}

// Checks internal invariants of vesting schedule state.
func CheckStateInvariants(st *State, store adt.Store) (*StateSummary, *builtin.MessageAccumulator, error) {
	acc := &builtin.MessageAccumulator{}

	acc.Require(st.Duration > 0, "schedule duration %d is not positive", st.Duration)
	acc.Require(st.CliffDuration >= 0, "cliff duration %d is negative", st.CliffDuration)
	acc.Require(st.CliffDuration <= st.Duration, "cliff duration %d exceeds total duration %d", st.CliffDuration, st.Duration)

	releasedCount := 0
	totalReleased := big.Zero()
	released := adt.AsMap(store, st.Released)
	var amount abi.TokenAmount
	err := released.ForEach(&amount, func(key string) error {
		token, err := address.NewFromBytes([]byte(key))
		acc.RequireNoError(err, "released map key is not an address")
		if err == nil {
			acc.Require(amount.GreaterThanEqual(big.Zero()), "released amount %v for %v is negative", amount, token)
		}
		releasedCount++
		totalReleased = big.Add(totalReleased, amount)
		return nil
	})
	if err != nil {
		return nil, acc, err
	}

	revokedCount := 0
	revoked := adt.AsMap(store, st.Revoked)
	var flag cbg.CborBool
	err = revoked.ForEach(&flag, func(key string) error {
		token, err := address.NewFromBytes([]byte(key))
		acc.RequireNoError(err, "revoked map key is not an address")
		if err == nil {
			acc.Require(st.Revocable, "vesting of %v revoked on a non-revocable schedule", token)
			acc.Require(bool(flag), "revoked flag for %v stored as false", token)
		}
		revokedCount++
		return nil
	})
	if err != nil {
		return nil, acc, err
	}

	return &StateSummary{
		ReleasedTokenCount: releasedCount,
		RevokedTokenCount:  revokedCount,
		TotalReleased:      totalReleased,
	}, acc, nil
}
