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

package storageconfig

import (
	"github.com/nuclio/errors"
)

type Config struct {
	WebServer   WebServer `json:"webServer,omitempty" toml:"webServer,omitempty"`
	HealthCheck WebServer `json:"healthCheck,omitempty" toml:"healthCheck,omitempty"`

	// origin that relative locators resolve against, and that uploads report
	BaseURL string  `json:"baseURL,omitempty" toml:"baseURL,omitempty"`
	Logger  Logger  `json:"logger,omitempty" toml:"logger,omitempty"`
	Metrics Metrics `json:"metrics,omitempty" toml:"metrics,omitempty"`
	Stream  Stream  `json:"stream,omitempty" toml:"stream,omitempty"`
	Upload  Upload  `json:"upload,omitempty" toml:"upload,omitempty"`
	CORS    CORS    `json:"cors,omitempty" toml:"cors,omitempty"`
}

func (config *Config) GetSystemLoggerSinks() (map[string]LoggerSinkWithLevel, error) {
	result := map[string]LoggerSinkWithLevel{}

	for _, sinkBinding := range config.Logger.System {
		sink, sinkFound := config.Logger.Sinks[sinkBinding.Sink]
		if !sinkFound {
			return nil, errors.Errorf("Failed to find logger sink %s", sinkBinding.Sink)
		}

		result[sinkBinding.Sink] = LoggerSinkWithLevel{
			Level: sinkBinding.Level,
			Sink:  sink,
		}
	}

	return result, nil
}

// MetricsEnabled returns true unless metrics were explicitly disabled
func (config *Config) MetricsEnabled() bool {
	return config.Metrics.Enabled == nil || *config.Metrics.Enabled
}

func (config *Config) Validate() error {
	if config.WebServer.ListenAddress == "" {
		return errors.New("Web server listen address must not be empty")
	}

	if config.Stream.BufferSize <= 0 {
		return errors.Errorf("Stream buffer size must be positive, got %d", config.Stream.BufferSize)
	}

	if config.Upload.MaxBodyBytes < 0 {
		return errors.Errorf("Upload body limit must not be negative, got %d", config.Upload.MaxBodyBytes)
	}

	if len(config.Logger.System) == 0 {
		return errors.New("At least one system logger sink binding is required")
	}

	return nil
}
