//go:build !unix

package main

import (
	"errors"
	"os"
)

var stopSignals = []os.Signal{os.Interrupt}

func daemonChild() bool { return false }

func daemonSetup() {}

func daemonize() error {
	return errors.New("detaching is not supported on this platform, use -foreground")
}
