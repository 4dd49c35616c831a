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

package common

import (
	"github.com/nuclio/errors"
	"github.com/nuclio/nuclio-sdk-go"
)

// ResolveErrorStatusCodeOrDefault returns the status code of the outermost status error in err's
// cause chain, or defaultStatusCode if there is none
func ResolveErrorStatusCodeOrDefault(err error, defaultStatusCode int) int {
	for depth := 0; err != nil && depth < maxCauseDepth; depth++ {
		if errWithStatus, ok := err.(nuclio.WithStatusCode); ok {
			return errWithStatus.StatusCode()
		}

		err = directCause(err)
	}

	// unable to resolve, returning default
	return defaultStatusCode
}

const maxCauseDepth = 64

// directCause returns the error err wraps, following both github.com/nuclio/errors and stdlib
// conventions
func directCause(err error) error {
	if unwrapper, ok := err.(interface{ Unwrap() error }); ok {
		return unwrapper.Unwrap()
	}

	return errors.Cause(err)
}
