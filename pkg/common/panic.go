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
	"context"
	"fmt"
	"runtime/debug"

	"github.com/nuclio/errors"
	"github.com/nuclio/logger"
)

// CatchAndLogPanic is deferred by goroutines that must not take the process down. It logs the
// recovered value with its call stack and hands the resulting error to the custom handler
func CatchAndLogPanic(ctx context.Context,
	loggerInstance logger.Logger,
	actionName string,
	options *CatchAndLogPanicOptions) {
	if recoveredValue := recover(); recoveredValue != nil {
		err := LogPanic(ctx, loggerInstance, actionName, options, debug.Stack(), recoveredValue)

		if options != nil && options.CustomHandler != nil {
			options.CustomHandler(err)
		}
	}
}

// LogPanic logs a recovered panic and returns it as an error
func LogPanic(ctx context.Context,
	loggerInstance logger.Logger,
	actionName string,
	options *CatchAndLogPanicOptions,
	callStack []byte,
	recoveredValue interface{}) error {

	logArgs := []interface{}{
		"action", actionName,
		"err", recoveredValue,
		"stack", string(callStack),
	}

	if ctx != nil {
		if requestID := ctx.Value(RequestIDContextKey); requestID != nil {
			logArgs = append(logArgs, "requestID", requestID)
		}
	}

	if options != nil {
		logArgs = append(logArgs, options.Args...)
	}

	loggerInstance.ErrorWith("Panic caught", logArgs...)

	return ErrorFromRecoveredError(recoveredValue)
}

// ErrorFromRecoveredError converts a value returned by recover() into an error
func ErrorFromRecoveredError(recoveredValue interface{}) error {
	switch typedValue := recoveredValue.(type) {
	case error:
		return errors.Wrap(typedValue, "Panic caught")
	case string:
		return errors.New(typedValue)
	default:
		return errors.New(fmt.Sprintf("Panic caught: %v", typedValue))
	}
}
