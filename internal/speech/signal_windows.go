//go:build windows

package speech

import (
	"errors"
	"os/exec"
)

var errNoPause = errors.New("pause is not supported on this platform")

func suspend(*exec.Cmd) error { return errNoPause }

func resume(*exec.Cmd) error { return errNoPause }
