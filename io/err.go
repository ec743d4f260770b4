package io

import (
	"errors"

	"github.com/ezrec/hack/translate"
)

var f = translate.From

var (
	// Screen errors
	ErrScale = errors.New(f("scale must be at least 1"))
)
