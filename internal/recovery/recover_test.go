package recovery

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestRecoverToValuePassesThrough(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))

	v, err := RecoverToValue(logger, "ok", func() (int, error) { return 7, nil })
	if err != nil || v != 7 {
		t.Errorf("expected (7, nil), got (%d, %v)", v, err)
	}

	want := errors.New("plain failure")
	_, err = RecoverToValue(logger, "fail", func() (int, error) { return 0, want })
	if !errors.Is(err, want) {
		t.Errorf("expected %v, got %v", want, err)
	}
}

func TestRecoverToValuePanic(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	v, err := RecoverToValue(logger, "decode", func() (*int, error) {
		panic("bad input")
	})
	if v != nil {
		t.Errorf("expected zero value, got %v", v)
	}
	if status.Code(err) != codes.Internal {
		t.Errorf("expected Internal status, got %v", err)
	}
	if !strings.Contains(err.Error(), "decode panicked: bad input") {
		t.Errorf("unexpected error message: %v", err)
	}
	if !strings.Contains(logs.String(), "operation=decode") {
		t.Errorf("expected panic to be logged, got %q", logs.String())
	}
}
