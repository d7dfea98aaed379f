package oerror

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindMatching(t *testing.T) {
	err := Newf(KindMalformedLogRecord, "record %d truncated", 3)
	if !errors.Is(err, ErrMalformedLogRecord) {
		t.Fatalf("expected %v to match ErrMalformedLogRecord", err)
	}
	if errors.Is(err, ErrStaleSnapshot) {
		t.Fatalf("did not expect %v to match ErrStaleSnapshot", err)
	}

	wrapped := fmt.Errorf("load replay: %w", err)
	if !errors.Is(wrapped, ErrMalformedLogRecord) {
		t.Fatalf("expected wrapped error to match its kind")
	}
	if got := err.Error(); got != "malformed log record: record 3 truncated" {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestUnknownKindMessage(t *testing.T) {
	err := &FujixError{Err: "no kind"}
	if err.Error() != "no kind" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}
