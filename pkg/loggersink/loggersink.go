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

package loggersink

import (
	"sort"

	"github.com/nuclio/deepatlantic/pkg/storageconfig"

	"github.com/nuclio/errors"
	"github.com/nuclio/logger"
	"github.com/nuclio/zap"
	"github.com/samber/lo"
)

// CreateSystemLogger creates the process logger from the configured system sink bindings
func CreateSystemLogger(name string, configuration *storageconfig.Config) (logger.Logger, error) {
	systemLoggerSinksByName, err := configuration.GetSystemLoggerSinks()
	if err != nil {
		return nil, errors.Wrap(err, "Failed to get system logger sinks")
	}

	if len(systemLoggerSinksByName) == 0 {
		return nil, errors.New("No system logger sinks configured")
	}

	// create in a stable order
	sinkNames := lo.Keys(systemLoggerSinksByName)
	sort.Strings(sinkNames)

	var systemLoggers []logger.Logger

	for _, sinkName := range sinkNames {
		loggerSinkConfiguration := systemLoggerSinksByName[sinkName]

		loggerInstance, err := RegistrySingleton.NewLoggerSink(loggerSinkConfiguration.Sink.Kind,
			name,
			&loggerSinkConfiguration)
		if err != nil {
			return nil, errors.Wrapf(err, "Failed to create logger for sink %s", sinkName)
		}

		systemLoggers = append(systemLoggers, loggerInstance)
	}

	// a mux logger carries some overhead, use it only when there's more than one sink
	if len(systemLoggers) == 1 {
		return systemLoggers[0], nil
	}

	systemLogger, err := nucliozap.NewMuxLogger(systemLoggers...)
	if err != nil {
		return nil, errors.Wrap(err, "Failed to create system mux logger")
	}

	return systemLogger, nil
}
