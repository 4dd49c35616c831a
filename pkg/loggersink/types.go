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
	"strings"

	"github.com/nuclio/deepatlantic/pkg/storageconfig"

	"github.com/mitchellh/mapstructure"
	"github.com/nuclio/errors"
	"github.com/nuclio/zap"
)

// Configuration is what every sink kind reads from its attributes
type Configuration struct {
	Name     string
	Level    nucliozap.Level
	Encoding string

	// used by the file sink only
	Path string
}

func NewConfiguration(name string, loggerSinkConfiguration *storageconfig.LoggerSinkWithLevel) (*Configuration, error) {
	level, err := ParseLevel(loggerSinkConfiguration.Level)
	if err != nil {
		return nil, errors.Wrap(err, "Failed to parse logger sink level")
	}

	newConfiguration := Configuration{}

	// parse attributes
	if err := mapstructure.Decode(loggerSinkConfiguration.Sink.Attributes, &newConfiguration); err != nil {
		return nil, errors.Wrap(err, "Failed to decode attributes")
	}

	newConfiguration.Name = name
	newConfiguration.Level = level

	switch newConfiguration.Encoding {
	case "":
		newConfiguration.Encoding = "console"
	case "console", "json":
	default:
		return nil, errors.Errorf("Unsupported logger encoding: %s", newConfiguration.Encoding)
	}

	return &newConfiguration, nil
}

// ParseLevel maps a configured level name to a zap level. An empty name means debug
func ParseLevel(levelName string) (nucliozap.Level, error) {
	switch strings.ToLower(levelName) {
	case "", "debug":
		return nucliozap.DebugLevel, nil
	case "info":
		return nucliozap.InfoLevel, nil
	case "warn", "warning":
		return nucliozap.WarnLevel, nil
	case "error":
		return nucliozap.ErrorLevel, nil
	}

	return nucliozap.DebugLevel, errors.Errorf("Unknown log level: %s", levelName)
}
