package builtin

import (
	"github.com/filecoin-project/go-state-types/abi"
)

const (
	MethodSend        = abi.MethodNum(0)
	MethodConstructor = abi.MethodNum(1)
)

type iaMethods struct {
	Constructor abi.MethodNum
	Exec        abi.MethodNum
}

var MethodsInit = iaMethods{MethodConstructor, 2}

type vestingMethods struct {
	Constructor        abi.MethodNum
	Release            abi.MethodNum
	PartialRelease     abi.MethodNum
	Revoke             abi.MethodNum
	ReplaceBeneficiary abi.MethodNum
	Beneficiary        abi.MethodNum
	Schedule           abi.MethodNum
	Released           abi.MethodNum
	Revoked            abi.MethodNum
	VestedAmount       abi.MethodNum
	ReleasableAmount   abi.MethodNum
}

var MethodsVesting = vestingMethods{MethodConstructor, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11}
