package errors

import (
	"strings"
	"testing"

	"github.com/pkg/errors"
)

func TestRegisterRejectsReuse(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("panic expected")
		}
	}()
	// code 2 belongs to ErrUnauthorized
	Register(2, "must not pass")
}

func TestRegisterRejectsInternalCode(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("panic expected")
		}
	}()
	Register(1, "reserved for non-categorized errors")
}

func TestIsMatchesWrappedError(t *testing.T) {
	err := Wrap(ErrNotFound, "outer context")
	if !ErrNotFound.Is(err) {
		t.Fatal("wrapping must preserve the root error")
	}
	if ErrUnauthorized.Is(err) {
		t.Fatal("wrong root matched")
	}

	// several layers deep
	err = Wrap(Wrap(err, "middle"), "top")
	if !ErrNotFound.Is(err) {
		t.Fatal("multiple wrap layers must preserve the root error")
	}
}

func TestIsNil(t *testing.T) {
	var kind *Error
	if !kind.Is(nil) {
		t.Fatal("nil kind must match nil error")
	}
	if ErrNotFound.Is(nil) {
		t.Fatal("a root error must not match nil")
	}
}

func TestWrapNilIsNil(t *testing.T) {
	if err := Wrap(nil, "description"); err != nil {
		t.Fatalf("wrapping nil must return nil, got %+v", err)
	}
}

func TestWrapAttachesStackTraceOnce(t *testing.T) {
	err := Wrap(ErrHuman, "inner")
	st := stackTrace(err)
	if st == nil {
		t.Fatal("first wrap must attach a stack trace")
	}

	// the outer wrap reuses the inner trace instead of attaching a new,
	// shallower one
	outer := Wrap(err, "outer")
	if got := stackTrace(outer); len(got) != len(st) {
		t.Fatal("second wrap must not attach another stack trace")
	}
}

func TestErrorMessageComposition(t *testing.T) {
	err := Wrapf(ErrAmount, "%d units", 42)
	want := "42 units: invalid amount"
	if got := err.Error(); got != want {
		t.Fatalf("want %q, got %q", want, got)
	}
}

func TestABCIInfo(t *testing.T) {
	cases := map[string]struct {
		err      error
		debug    bool
		wantCode uint32
		wantLog  string
	}{
		"nil error is a success": {
			err: nil, wantCode: SuccessABCICode, wantLog: "",
		},
		"root error": {
			err: ErrNotFound, wantCode: 3, wantLog: "not found",
		},
		"wrapped error keeps the code": {
			err: Wrap(ErrNotFound, "box"), wantCode: 3, wantLog: "box: not found",
		},
		"stdlib error is redacted": {
			err: errors.New("secret db path"), wantCode: 1, wantLog: "internal error",
		},
		"stdlib error in debug mode": {
			err: errors.New("secret db path"), debug: true, wantCode: 1, wantLog: "secret db path",
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			code, log := ABCIInfo(tc.err, tc.debug)
			if code != tc.wantCode {
				t.Fatalf("want code %d, got %d", tc.wantCode, code)
			}
			if tc.debug {
				if !strings.Contains(log, tc.wantLog) {
					t.Fatalf("want log containing %q, got %q", tc.wantLog, log)
				}
			} else if log != tc.wantLog {
				t.Fatalf("want log %q, got %q", tc.wantLog, log)
			}
		})
	}
}

func TestRecover(t *testing.T) {
	fail := func() (err error) {
		defer Recover(&err)
		panic("the disk is on fire")
	}
	err := fail()
	if !ErrPanic.Is(err) {
		t.Fatalf("want ErrPanic, got %+v", err)
	}
	if !strings.Contains(err.Error(), "the disk is on fire") {
		t.Fatalf("panic message lost: %q", err)
	}
}
