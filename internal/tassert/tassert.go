// Package tassert provides the module's fatal-on-mismatch test helpers, in
// the shape of the teacher's own tools/tassert package (referenced
// throughout aistore's _test.go files, though the retrieval pack didn't
// include tools/tassert's source — its call shape is inferable from every
// caller: `tassert.CheckFatal(t, err)` for plain error checks,
// `tassert.Fatalf(t, cond, format, args...)` for boolean conditions).
package tassert

import "testing"

// CheckFatal fails the test immediately if err is non-nil.
func CheckFatal(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatal(err)
	}
}

// Fatalf fails the test immediately if cond is false.
func Fatalf(t *testing.T, cond bool, format string, args ...any) {
	t.Helper()
	if !cond {
		t.Fatalf(format, args...)
	}
}

// Errorf reports a non-fatal failure if cond is false, letting the test continue.
func Errorf(t *testing.T, cond bool, format string, args ...any) {
	t.Helper()
	if !cond {
		t.Errorf(format, args...)
	}
}
