package assert

import "github.com/fujix-tas/fujix/oerror"

// IsTrue panics with an invalid state error when ok is false.
func IsTrue(ok bool, message string, args ...interface{}) {
	if !ok {
		panic(oerror.Newf(oerror.KindInvalidState, message, args...))
	}
}
