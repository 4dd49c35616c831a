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
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/imdario/mergo"
	"github.com/mitchellh/go-homedir"
	"github.com/nuclio/errors"
	"github.com/pelletier/go-toml/v2"
	"sigs.k8s.io/yaml"
)

const (
	ConfigTypeYAML = "yaml"
	ConfigTypeTOML = "toml"

	DefaultListenAddress = "[::1]:3000"
	DefaultBufferSize    = 8192
	DefaultMetricsPath   = "/metrics"
)

type Reader struct{}

func NewReader() (*Reader, error) {
	return &Reader{}, nil
}

func (r *Reader) Read(reader io.Reader, configType string, config *Config) error {
	configBytes, err := io.ReadAll(reader)
	if err != nil {
		return errors.Wrap(err, "Failed to read configuration")
	}

	switch configType {
	case ConfigTypeYAML:
		err = yaml.Unmarshal(configBytes, config)
	case ConfigTypeTOML:
		err = toml.Unmarshal(configBytes, config)
	default:
		return errors.Errorf("Unsupported configuration type: %s", configType)
	}

	if err != nil {
		return errors.Wrapf(err, "Failed to decode %s configuration", configType)
	}

	return nil
}

// ReadFileOrDefault decodes the configuration at configurationPath on top of the default
// configuration. A missing file yields the default configuration
func (r *Reader) ReadFileOrDefault(configurationPath string) (*Config, error) {
	if configurationPath == "" {
		return r.GetDefaultConfiguration(), nil
	}

	expandedPath, err := homedir.Expand(configurationPath)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to expand configuration path %s", configurationPath)
	}

	configurationFile, err := os.Open(expandedPath)
	if err != nil {
		if os.IsNotExist(err) {
			return r.GetDefaultConfiguration(), nil
		}

		return nil, errors.Wrapf(err, "Failed to open configuration file %s", expandedPath)
	}

	// close after
	defer configurationFile.Close() // nolint: errcheck

	configuration := r.GetDefaultConfiguration()
	if err := r.Read(configurationFile, GetConfigType(expandedPath), configuration); err != nil {
		return nil, errors.Wrapf(err, "Failed to read configuration file %s", expandedPath)
	}

	return configuration, nil
}

// Override sets every non empty field of overrides on config. Flags are applied this way
func (r *Reader) Override(config *Config, overrides *Config) error {
	if err := mergo.Merge(config, overrides, mergo.WithOverride); err != nil {
		return errors.Wrap(err, "Failed to apply configuration overrides")
	}

	return nil
}

func (r *Reader) GetDefaultConfiguration() *Config {
	trueValue := true
	falseValue := false
	defaultSinkName := "stderr"

	return &Config{
		WebServer: WebServer{
			Enabled:       &trueValue,
			ListenAddress: DefaultListenAddress,
		},
		HealthCheck: WebServer{
			Enabled:       &falseValue,
			ListenAddress: "[::1]:3001",
		},
		Logger: Logger{

			// logs go to stderr so that stdout can carry reconstructed streams
			Sinks: map[string]LoggerSink{
				defaultSinkName: {Kind: LoggerSinkKindStderr},
			},
			System: []LoggerSinkBinding{
				{Level: "info", Sink: defaultSinkName},
			},
		},
		Metrics: Metrics{
			Enabled: &trueValue,
			Path:    DefaultMetricsPath,
		},
		Stream: Stream{
			BufferSize: DefaultBufferSize,
		},
	}
}

// GetConfigType infers the configuration type from a file extension, defaulting to yaml
func GetConfigType(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return ConfigTypeTOML
	}

	return ConfigTypeYAML
}
