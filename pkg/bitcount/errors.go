/*
Copyright 2023 The Nuclio Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package bitcount

import (
	"fmt"

	"github.com/nuclio/errors"
)

type ErrorKind int

const (
	ReadFailure ErrorKind = iota + 1
	WriteFailure
	InvalidLocator
	UnalignedCounts
)

func (ek ErrorKind) String() string {
	switch ek {
	case ReadFailure:
		return "ReadFailure"
	case WriteFailure:
		return "WriteFailure"
	case InvalidLocator:
		return "InvalidLocator"
	case UnalignedCounts:
		return "UnalignedCounts"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(ek))
	}
}

// CodecError is returned by the counter, the reconstructor and the locator codec. Callers
// classify it with IsKind
type CodecError struct {
	Kind    ErrorKind
	message string
	cause   error
}

func NewCodecError(kind ErrorKind, cause error, format string, args ...interface{}) *CodecError {
	return &CodecError{
		Kind:    kind,
		message: fmt.Sprintf(format, args...),
		cause:   cause,
	}
}

func (ce *CodecError) Error() string {
	if ce.cause == nil {
		return ce.message
	}

	return fmt.Sprintf("%s: %s", ce.message, ce.cause.Error())
}

// Cause returns the underlying error, if any
func (ce *CodecError) Cause() error {
	return ce.cause
}

func (ce *CodecError) Unwrap() error {
	return ce.cause
}

// IsKind returns true if err, or anything in its cause chain, is a CodecError of the given kind.
// Both Unwrap() chains and github.com/nuclio/errors causes are followed
func IsKind(err error, kind ErrorKind) bool {
	codecError := FindCodecError(err)
	return codecError != nil && codecError.Kind == kind
}

// FindCodecError returns the outermost CodecError in err's cause chain, or nil
func FindCodecError(err error) *CodecError {

	// bound the walk in case of a self referencing chain
	for depth := 0; err != nil && depth < 64; depth++ {
		if codecError, ok := err.(*CodecError); ok {
			return codecError
		}

		if unwrapper, ok := err.(interface{ Unwrap() error }); ok {
			err = unwrapper.Unwrap()
		} else {
			err = errors.Cause(err)
		}
	}

	return nil
}
