package builtin

import (
	addr "github.com/filecoin-project/go-address"

	autil "github.com/vesting-project/vesting-actors/actors/util"
)

// Addresses of singleton actors, defined at genesis.
var (
	SystemActorAddr = mustMakeAddress(0)
	InitActorAddr   = mustMakeAddress(1)
)

func mustMakeAddress(id uint64) addr.Address {
	address, err := addr.NewIDAddress(id)
	autil.AssertNoError(err)
	return address
}
