package adt_test

import (
	"context"
	"testing"

	addr "github.com/filecoin-project/go-address"
	"github.com/filecoin-project/go-state-types/abi"
	big "github.com/filecoin-project/go-state-types/big"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vesting-project/vesting-actors/actors/util/adt"
	"github.com/vesting-project/vesting-actors/support/mock"
)

func TestMapPutGet(t *testing.T) {
	rt := mock.NewBuilder(context.Background(), newIDAddr(t, 100)).Build(t)
	store := adt.AsStore(rt)

	m, err := adt.MakeEmptyMap(store)
	require.NoError(t, err)

	key := abi.AddrKey(newIDAddr(t, 101))
	value := abi.NewTokenAmount(42)
	require.NoError(t, m.Put(key, &value))

	var out abi.TokenAmount
	found, err := m.Get(key, &out)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, value, out)

	// Reloading from the root sees the same entry.
	reloaded := adt.AsMap(store, m.Root())
	found, err = reloaded.Get(key, &out)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, value, out)
}

func TestMapMissingKey(t *testing.T) {
	rt := mock.NewBuilder(context.Background(), newIDAddr(t, 100)).Build(t)
	store := adt.AsStore(rt)

	m, err := adt.MakeEmptyMap(store)
	require.NoError(t, err)

	var out abi.TokenAmount
	found, err := m.Get(abi.AddrKey(newIDAddr(t, 101)), &out)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestMapDelete(t *testing.T) {
	rt := mock.NewBuilder(context.Background(), newIDAddr(t, 100)).Build(t)
	store := adt.AsStore(rt)

	m, err := adt.MakeEmptyMap(store)
	require.NoError(t, err)

	key := abi.AddrKey(newIDAddr(t, 101))
	value := abi.NewTokenAmount(42)
	require.NoError(t, m.Put(key, &value))
	require.NoError(t, m.Delete(key))

	var out abi.TokenAmount
	found, err := m.Get(key, &out)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestMapForEach(t *testing.T) {
	rt := mock.NewBuilder(context.Background(), newIDAddr(t, 100)).Build(t)
	store := adt.AsStore(rt)

	m, err := adt.MakeEmptyMap(store)
	require.NoError(t, err)

	total := big.Zero()
	for i := uint64(101); i < 105; i++ {
		value := abi.NewTokenAmount(int64(i))
		require.NoError(t, m.Put(abi.AddrKey(newIDAddr(t, i)), &value))
		total = big.Add(total, value)
	}

	seen := 0
	sum := big.Zero()
	var out abi.TokenAmount
	err = m.ForEach(&out, func(key string) error {
		seen++
		sum = big.Add(sum, out)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 4, seen)
	assert.Equal(t, total, sum)

	keys, err := m.CollectKeys()
	require.NoError(t, err)
	assert.Len(t, keys, 4)
}

func newIDAddr(t *testing.T, id uint64) addr.Address {
	a, err := addr.NewIDAddress(id)
	if err != nil {
		t.Fatal(err)
	}
	return a
}
