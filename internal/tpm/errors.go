package tpm

import "errors"

var errUnavailable = errors.New("tpm: no usable device on this platform")
