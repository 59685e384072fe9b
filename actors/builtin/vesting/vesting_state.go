package vesting

import (
	addr "github.com/filecoin-project/go-address"
	"github.com/filecoin-project/go-state-types/abi"
	big "github.com/filecoin-project/go-state-types/big"
	cid "github.com/ipfs/go-cid"
	cbg "github.com/whyrusleeping/cbor-gen"
	"golang.org/x/xerrors"

	autil "github.com/vesting-project/vesting-actors/actors/util"
	adt "github.com/vesting-project/vesting-actors/actors/util/adt"
)

// State of a single vesting schedule. Timing parameters are fixed at
// construction; only the per-token bookkeeping maps and the beneficiary
// evolve over the schedule's lifetime. The schedule is never destroyed.
type State struct {
	// Administrative role permitted to revoke vesting and receive refunds.
	// Distinct from the beneficiary.
	Owner addr.Address

	// Recipient of released tokens. Replaceable only by itself.
	Beneficiary addr.Address

	// Epoch at which vesting begins.
	Start abi.ChainEpoch
	// No tokens vest before Start+CliffDuration, regardless of elapsed time.
	CliffDuration abi.ChainEpoch
	// Vesting completes at Start+Duration.
	Duration abi.ChainEpoch

	// Whether the owner may revoke vesting per token.
	Revocable bool

	// Cumulative amounts already transferred to the beneficiary.
	// Monotonically non-decreasing per token.
	Released cid.Cid // HAMT[addr.Address]abi.TokenAmount

	// Tokens whose vesting has been frozen. Entries are only ever set true.
	Revoked cid.Cid // HAMT[addr.Address]cbg.CborBool
}

func ConstructState(store adt.Store, params *ConstructorParams) (*State, error) {
	emptyReleased, err := adt.MakeEmptyMap(store)
	if err != nil {
		return nil, xerrors.Errorf("failed to create empty released map: %w", err)
	}
	emptyRevoked, err := adt.MakeEmptyMap(store)
	if err != nil {
		return nil, xerrors.Errorf("failed to create empty revoked map: %w", err)
	}

	return &State{
		Owner:         params.Owner,
		Beneficiary:   params.Beneficiary,
		Start:         params.Start,
		CliffDuration: params.CliffDuration,
		Duration:      params.Duration,
		Revocable:     params.Revocable,
		Released:      emptyReleased.Root(),
		Revoked:       emptyRevoked.Root(),
	}, nil
}

// Cliff is the epoch before which nothing vests.
func (st *State) Cliff() abi.ChainEpoch {
	return st.Start + st.CliffDuration
}

// LoadReleased returns the cumulative amount of `token` already released,
// zero for tokens never released.
func (st *State) LoadReleased(store adt.Store, token addr.Address) (abi.TokenAmount, error) {
	released := adt.AsMap(store, st.Released)
	var amount abi.TokenAmount
	found, err := released.Get(abi.AddrKey(token), &amount)
	if err != nil {
		return big.Zero(), xerrors.Errorf("failed to load released amount for %v: %w", token, err)
	}
	if !found {
		return big.Zero(), nil
	}
	return amount, nil
}

// AddReleased records a further release of `amount` of `token`.
// Released totals only ever grow.
func (st *State) AddReleased(store adt.Store, token addr.Address, amount abi.TokenAmount) error {
	autil.AssertMsg(amount.GreaterThanEqual(big.Zero()), "released amount %v would decrease total for %v", amount, token)

	prev, err := st.LoadReleased(store, token)
	if err != nil {
		return err
	}

	released := adt.AsMap(store, st.Released)
	sum := big.Add(prev, amount)
	if err := released.Put(abi.AddrKey(token), &sum); err != nil {
		return xerrors.Errorf("failed to put released amount for %v: %w", token, err)
	}
	st.Released = released.Root()
	return nil
}

// IsRevoked reports whether vesting of `token` has been revoked,
// false for tokens never revoked.
func (st *State) IsRevoked(store adt.Store, token addr.Address) (bool, error) {
	revoked := adt.AsMap(store, st.Revoked)
	var flag cbg.CborBool
	found, err := revoked.Get(abi.AddrKey(token), &flag)
	if err != nil {
		return false, xerrors.Errorf("failed to load revoked flag for %v: %w", token, err)
	}
	return found && bool(flag), nil
}

// MarkRevoked freezes vesting of `token`. Never reset.
func (st *State) MarkRevoked(store adt.Store, token addr.Address) error {
	revoked := adt.AsMap(store, st.Revoked)
	flag := cbg.CborBool(true)
	if err := revoked.Put(abi.AddrKey(token), &flag); err != nil {
		return xerrors.Errorf("failed to put revoked flag for %v: %w", token, err)
	}
	st.Revoked = revoked.Root()
	return nil
}

// VestedAmount computes the cumulative amount of `token` unlocked as of epoch
// `now`, given the schedule's current ledger balance. The total ever
// controlled by the schedule is that balance plus whatever has already been
// released; nothing vests before the cliff, everything is vested at the end
// of the schedule or once revoked, and in between the total vests linearly.
func (st *State) VestedAmount(store adt.Store, token addr.Address, now abi.ChainEpoch, balance abi.TokenAmount) (abi.TokenAmount, error) {
	released, err := st.LoadReleased(store, token)
	if err != nil {
		return big.Zero(), err
	}
	revoked, err := st.IsRevoked(store, token)
	if err != nil {
		return big.Zero(), err
	}

	total := big.Add(balance, released)
	switch {
	case now < st.Cliff():
		return big.Zero(), nil
	case now >= st.Start+st.Duration || revoked:
		return total, nil
	default:
		// Multiplication before the floor division to avoid precision loss
		// with integer values.
		// TODO: the linear curve here is provisional; confirm it before any
		// reconciliation relies on exact mid-schedule amounts.
		elapsed := big.NewInt(int64(now - st.Start))
		return big.Div(big.Mul(total, elapsed), big.NewInt(int64(st.Duration))), nil
	}
}

// ReleasableAmount is the vested amount not yet released: the claimable
// balance of `token` at epoch `now`. A negative result is unreachable while
// released totals only grow, and is reported as an error.
func (st *State) ReleasableAmount(store adt.Store, token addr.Address, now abi.ChainEpoch, balance abi.TokenAmount) (abi.TokenAmount, error) {
	vested, err := st.VestedAmount(store, token, now, balance)
	if err != nil {
		return big.Zero(), err
	}
	released, err := st.LoadReleased(store, token)
	if err != nil {
		return big.Zero(), err
	}

	releasable := big.Sub(vested, released)
	if releasable.LessThan(big.Zero()) {
		return big.Zero(), xerrors.Errorf("released %v of token %v exceeds vested %v", released, token, vested)
	}
	return releasable, nil
}
