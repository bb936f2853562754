package testutil

import (
	"errors"
	"os"
	"testing"
)

// mockTB captures whether a test failure occurred.
type mockTB struct {
	testing.TB // embedded for unimplemented methods
	failed     bool
}

func (m *mockTB) Helper()                           {}
func (m *mockTB) Fatal(args ...any)                 { m.failed = true }
func (m *mockTB) Fatalf(format string, args ...any) { m.failed = true }

func TestEqual(t *testing.T) {
	m := &mockTB{}

	Equal(m, 1, 1)
	if m.failed {
		t.Error("Equal(1, 1) should pass")
	}

	m.failed = false
	Equal(m, "foo", "foo")
	if m.failed {
		t.Error("Equal(foo, foo) should pass")
	}

	m.failed = false
	Equal(m, 1, 2)
	if !m.failed {
		t.Error("Equal(1, 2) should fail")
	}
}

func TestSliceEqual(t *testing.T) {
	m := &mockTB{}

	SliceEqual(m, []int{1, 2, 3}, []int{1, 2, 3})
	if m.failed {
		t.Error("equal slices should pass")
	}

	m.failed = false
	SliceEqual(m, []int{1, 2}, []int{1, 2, 3})
	if !m.failed {
		t.Error("different length slices should fail")
	}

	m.failed = false
	SliceEqual(m, []int{1, 2, 3}, []int{1, 9, 3})
	if !m.failed {
		t.Error("different content should fail")
	}
}

func TestErrorHelpers(t *testing.T) {
	m := &mockTB{}
	NoError(m, nil)
	if m.failed {
		t.Error("NoError(nil) should pass")
	}
	NoError(m, os.ErrNotExist)
	if !m.failed {
		t.Error("NoError(err) should fail")
	}

	m.failed = false
	Error(m, nil)
	if !m.failed {
		t.Error("Error(nil) should fail")
	}

	m.failed = false
	ErrorContains(m, errors.New("Value missing!"), "Value missing")
	if m.failed {
		t.Error("ErrorContains should match substring")
	}
	ErrorContains(m, errors.New("other"), "Value missing")
	if !m.failed {
		t.Error("ErrorContains should fail on mismatch")
	}

	m.failed = false
	ErrorIs(m, &os.PathError{Err: os.ErrNotExist}, os.ErrNotExist)
	if m.failed {
		t.Error("ErrorIs should unwrap")
	}
}

func TestNilNotNil(t *testing.T) {
	m := &mockTB{}
	v := 1
	NotNil(m, &v)
	Nil[int](m, nil)
	if m.failed {
		t.Error("Nil/NotNil should pass")
	}
	Nil(m, &v)
	if !m.failed {
		t.Error("Nil(non-nil) should fail")
	}
}

func TestLenAndEmpty(t *testing.T) {
	m := &mockTB{}
	Len(m, []string{"a", "b"}, 2)
	NotEmpty(m, []int{1})
	if m.failed {
		t.Error("Len/NotEmpty should pass")
	}
	NotEmpty(m, []int{})
	if !m.failed {
		t.Error("NotEmpty(empty) should fail")
	}
}

func TestTrueFalseContains(t *testing.T) {
	m := &mockTB{}
	True(m, true)
	False(m, false)
	Contains(m, "CHOICE Additions", "Additions")
	if m.failed {
		t.Error("should pass")
	}
	Contains(m, "abc", "z")
	if !m.failed {
		t.Error("Contains should fail")
	}
}

func TestFormatMsg(t *testing.T) {
	if got := formatMsg(nil); got != "assertion failed" {
		t.Errorf("formatMsg(nil) = %q", got)
	}
	if got := formatMsg([]any{"bit %d", 7}); got != "bit 7" {
		t.Errorf("formatMsg = %q", got)
	}
	if got := formatMsg([]any{42}); got != "assertion failed" {
		t.Errorf("formatMsg(non-string) = %q", got)
	}
}
