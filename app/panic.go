package app

import (
	"errors"
	"fmt"
	"runtime/debug"
	"strings"

	"fbsplash/hal"
)

// ErrPanic is returned by Run when the splash goroutine panicked. The last
// presented frame stays on screen.
var ErrPanic = errors.New("app: splash panicked")

// recoverPanic turns a panic into ErrPanic, logging the value and stack one
// line at a time. Use as a deferred call with the named error result.
func recoverPanic(log hal.Logger, err *error) {
	v := recover()
	if v == nil {
		return
	}
	log.WriteLineString(fmt.Sprintf("fbsplash panic: %v", v))
	for _, line := range strings.Split(string(debug.Stack()), "\n") {
		if line == "" {
			continue
		}
		log.WriteLineString(line)
	}
	*err = fmt.Errorf("%w: %v", ErrPanic, v)
}
