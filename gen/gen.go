package main

import (
	vesting "github.com/vesting-project/vesting-actors/actors/builtin/vesting"

	gen "github.com/whyrusleeping/cbor-gen"
)

func main() {
	if err := gen.WriteTupleEncodersToFile("./actors/builtin/vesting/cbor_gen.go", "vesting",
		// actor state
		vesting.State{},
		// method params
		vesting.ConstructorParams{},
		vesting.TokenParams{},
		vesting.PartialReleaseParams{},
		vesting.ReplaceBeneficiaryParams{},
		// returns and events
		vesting.ScheduleInfo{},
		vesting.TokensReleased{},
		vesting.TokenVestingRevoked{},
	); err != nil {
		panic(err)
	}
}
