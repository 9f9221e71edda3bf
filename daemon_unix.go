//go:build unix

package main

import (
	"fmt"
	"os"
	"os/exec"
	"syscall"

	"golang.org/x/sys/unix"
)

const daemonEnv = "FBSPLASH_DETACHED"

var stopSignals = []os.Signal{os.Interrupt, unix.SIGTERM, unix.SIGUSR1}

func daemonChild() bool { return os.Getenv(daemonEnv) == "1" }

// daemonSetup runs first thing in the detached copy.
func daemonSetup() { unix.Umask(0) }

// daemonize starts a copy of this process with the same arguments in a new
// session. The caller is expected to exit right after.
func daemonize() error {
	exe, err := os.Executable()
	if err != nil {
		return err
	}
	null, err := os.Open(os.DevNull)
	if err != nil {
		return err
	}
	defer null.Close()

	cmd := exec.Command(exe, os.Args[1:]...)
	cmd.Env = append(os.Environ(), daemonEnv+"=1")
	cmd.Stdin = null
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", exe, err)
	}
	return cmd.Process.Release()
}
