//go:build headless

package main

import (
	"errors"
	"io"
)

var errHeadless = errors.New("audio output is not available in headless builds")

func openOutput(int, io.Reader) (audioOutput, error) {
	return nil, errHeadless
}
