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
	"io"
	"os"

	"github.com/nuclio/deepatlantic/pkg/storageconfig"

	"github.com/nuclio/errors"
	"github.com/nuclio/logger"
	"github.com/nuclio/zap"
)

// writerFactory creates zap loggers over a fixed writer
type writerFactory struct {
	writer io.Writer
}

func (f *writerFactory) Create(name string,
	loggerSinkConfiguration *storageconfig.LoggerSinkWithLevel) (logger.Logger, error) {
	configuration, err := NewConfiguration(name, loggerSinkConfiguration)
	if err != nil {
		return nil, errors.Wrap(err, "Failed to create logger sink configuration")
	}

	return newZapLogger(configuration, f.writer)
}

// fileFactory appends to the file named by the "path" attribute
type fileFactory struct{}

func (f *fileFactory) Create(name string,
	loggerSinkConfiguration *storageconfig.LoggerSinkWithLevel) (logger.Logger, error) {
	configuration, err := NewConfiguration(name, loggerSinkConfiguration)
	if err != nil {
		return nil, errors.Wrap(err, "Failed to create logger sink configuration")
	}

	if configuration.Path == "" {
		return nil, errors.New("File path must not be empty")
	}

	// lives as long as the process
	logFile, err := os.OpenFile(configuration.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to open log file %s", configuration.Path)
	}

	return newZapLogger(configuration, logFile)
}

func newZapLogger(configuration *Configuration, writer io.Writer) (logger.Logger, error) {

	// get the default encoding and override line ending to newline
	encoderConfig := nucliozap.NewEncoderConfig()
	encoderConfig.JSON.LineEnding = "\n"

	return nucliozap.NewNuclioZap(configuration.Name,
		configuration.Encoding,
		encoderConfig,
		writer,
		writer,
		configuration.Level)
}

// register factories
func init() {
	RegistrySingleton.Register(storageconfig.LoggerSinkKindStdout, &writerFactory{writer: os.Stdout})
	RegistrySingleton.Register(storageconfig.LoggerSinkKindStderr, &writerFactory{writer: os.Stderr})
	RegistrySingleton.Register(storageconfig.LoggerSinkKindFile, &fileFactory{})
}
