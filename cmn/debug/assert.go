package debug

import "fmt"

// Assert panics with args if cond is false and assertions are enabled
// (see Enable, or build with -tags debug). No-op otherwise — callers
// should never rely on Assert for control flow.
func Assert(cond bool, args ...any) {
	if !enabled || cond {
		return
	}
	panic(fmt.Sprint(args...))
}

func Assertf(cond bool, format string, args ...any) {
	if !enabled || cond {
		return
	}
	panic(fmt.Sprintf(format, args...))
}
