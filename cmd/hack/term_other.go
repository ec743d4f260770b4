//go:build !linux && !darwin

package main

import (
	"errors"
)

func enterRawTerm() (restore func(), err error) {
	err = errors.New("raw keyboard input is not supported on this platform")
	return
}
