package builtin

import (
	"fmt"

	"github.com/filecoin-project/go-state-types/exitcode"

	"github.com/vesting-project/vesting-actors/actors/runtime"
)

///// Code shared by multiple built-in actors. /////

// Aborts with a formatted message and the provided exit code if the error is non-nil.
func RequireNoErr(rt runtime.Runtime, err error, defaultExitCode exitcode.ExitCode, msg string, args ...interface{}) {
	if err != nil {
		fullMsg := fmt.Sprintf(msg, args...)
		rt.Abortf(defaultExitCode, "%s: %s", fullMsg, err)
	}
}

// Aborts with the given exit code if the predicate is false.
func RequireParam(rt runtime.Runtime, predicate bool, code exitcode.ExitCode, msg string, args ...interface{}) {
	if !predicate {
		rt.Abortf(code, msg, args...)
	}
}
