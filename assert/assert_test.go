package assert

import (
	"errors"
	"testing"

	"github.com/fujix-tas/fujix/oerror"
)

func TestIsTruePanicsWithInvalidState(t *testing.T) {
	defer func() {
		v := recover()
		err, ok := v.(error)
		if !ok {
			t.Fatalf("expected an error panic, got %v", v)
		}
		if !errors.Is(err, oerror.ErrInvalidState) {
			t.Fatalf("expected an invalid state error, got %v", err)
		}
		if err.Error() != "invalid state: capacity must be positive, got 0" {
			t.Fatalf("unexpected message %q", err.Error())
		}
	}()
	IsTrue(true, "never raised")
	IsTrue(false, "capacity must be positive, got %d", 0)
	t.Fatalf("expected IsTrue to panic")
}
