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
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/suite"
)

type StorageConfigTestSuite struct {
	suite.Suite
	reader  *Reader
	tempDir string
}

func (suite *StorageConfigTestSuite) SetupTest() {
	suite.reader, _ = NewReader()
	suite.tempDir = suite.T().TempDir()
}

func (suite *StorageConfigTestSuite) TestReadYAML() {
	configurationContents := `
webServer:
  listenAddress: 0.0.0.0:8080
baseURL: https://storage.example.com
logger:
  sinks:
    stdout:
      kind: stdout
      attributes:
        encoding: json
  system:
  - level: debug
    sink: stdout
stream:
  bufferSize: 4096
upload:
  maxBodyBytes: 1048576
`

	var readConfiguration Config
	err := suite.reader.Read(bytes.NewBufferString(configurationContents), ConfigTypeYAML, &readConfiguration)
	suite.Require().NoError(err)

	suite.Require().Equal("0.0.0.0:8080", readConfiguration.WebServer.ListenAddress)
	suite.Require().Nil(readConfiguration.WebServer.Enabled)
	suite.Require().Equal("https://storage.example.com", readConfiguration.BaseURL)
	suite.Require().Equal(4096, readConfiguration.Stream.BufferSize)
	suite.Require().Equal(int64(1048576), readConfiguration.Upload.MaxBodyBytes)
	suite.Require().Equal(LoggerSinkKindStdout, readConfiguration.Logger.Sinks["stdout"].Kind)
	suite.Require().Equal("json", readConfiguration.Logger.Sinks["stdout"].Attributes["encoding"])
}

func (suite *StorageConfigTestSuite) TestReadTOML() {
	configurationContents := `
baseURL = "http://localhost:9000"

[webServer]
listenAddress = ":9000"

[healthCheck]
enabled = true
listenAddress = ":9001"

[stream]
bufferSize = 1024
`

	var readConfiguration Config
	err := suite.reader.Read(bytes.NewBufferString(configurationContents), ConfigTypeTOML, &readConfiguration)
	suite.Require().NoError(err)

	suite.Require().Equal(":9000", readConfiguration.WebServer.ListenAddress)
	suite.Require().True(*readConfiguration.HealthCheck.Enabled)
	suite.Require().Equal(":9001", readConfiguration.HealthCheck.ListenAddress)
	suite.Require().Equal(1024, readConfiguration.Stream.BufferSize)
	suite.Require().Equal("http://localhost:9000", readConfiguration.BaseURL)
}

func (suite *StorageConfigTestSuite) TestReadUnsupportedType() {
	var readConfiguration Config
	err := suite.reader.Read(bytes.NewBufferString("{}"), "ini", &readConfiguration)
	suite.Require().Error(err)
}

func (suite *StorageConfigTestSuite) TestReadInvalidYAML() {
	var readConfiguration Config
	err := suite.reader.Read(bytes.NewBufferString("stream: [unterminated"), ConfigTypeYAML, &readConfiguration)
	suite.Require().Error(err)
}

func (suite *StorageConfigTestSuite) TestReadFileOrDefaultMissingFile() {
	configuration, err := suite.reader.ReadFileOrDefault(filepath.Join(suite.tempDir, "missing.yaml"))
	suite.Require().NoError(err)
	suite.Require().Empty(cmp.Diff(suite.reader.GetDefaultConfiguration(), configuration))
	suite.Require().NoError(configuration.Validate())

	configuration, err = suite.reader.ReadFileOrDefault("")
	suite.Require().NoError(err)
	suite.Require().Equal(DefaultListenAddress, configuration.WebServer.ListenAddress)
}

func (suite *StorageConfigTestSuite) TestReadFileOrDefaultMergesDefaults() {
	configurationPath := filepath.Join(suite.tempDir, "dasctl.yaml")
	err := os.WriteFile(configurationPath, []byte("healthCheck:\n  enabled: true\nstream:\n  bufferSize: 100\n"), 0600)
	suite.Require().NoError(err)

	configuration, err := suite.reader.ReadFileOrDefault(configurationPath)
	suite.Require().NoError(err)

	// explicit values are kept
	suite.Require().True(*configuration.HealthCheck.Enabled)
	suite.Require().Equal(100, configuration.Stream.BufferSize)

	// everything else comes from the defaults
	suite.Require().Equal("[::1]:3001", configuration.HealthCheck.ListenAddress)
	suite.Require().Equal(DefaultListenAddress, configuration.WebServer.ListenAddress)
	suite.Require().True(*configuration.WebServer.Enabled)
	suite.Require().True(configuration.MetricsEnabled())
	suite.Require().Equal(DefaultMetricsPath, configuration.Metrics.Path)
	suite.Require().NoError(configuration.Validate())
}

func (suite *StorageConfigTestSuite) TestReadFileOrDefaultKeepsExplicitFalse() {
	configurationPath := filepath.Join(suite.tempDir, "dasctl.toml")
	err := os.WriteFile(configurationPath, []byte("[metrics]\nenabled = false\n"), 0600)
	suite.Require().NoError(err)

	configuration, err := suite.reader.ReadFileOrDefault(configurationPath)
	suite.Require().NoError(err)
	suite.Require().False(configuration.MetricsEnabled())
	suite.Require().Equal(DefaultBufferSize, configuration.Stream.BufferSize)
}

func (suite *StorageConfigTestSuite) TestOverride() {
	configuration := suite.reader.GetDefaultConfiguration()

	err := suite.reader.Override(configuration, &Config{
		WebServer: WebServer{
			ListenAddress: "127.0.0.1:4000",
		},
		BaseURL: "http://storage:4000",
	})
	suite.Require().NoError(err)

	suite.Require().Equal("127.0.0.1:4000", configuration.WebServer.ListenAddress)
	suite.Require().Equal("http://storage:4000", configuration.BaseURL)

	// empty overrides leave the configuration untouched
	suite.Require().True(*configuration.WebServer.Enabled)
	suite.Require().Equal(DefaultBufferSize, configuration.Stream.BufferSize)
	suite.Require().Len(configuration.Logger.System, 1)
}

func (suite *StorageConfigTestSuite) TestReadFileOrDefaultInvalidFile() {
	configurationPath := filepath.Join(suite.tempDir, "broken.toml")
	err := os.WriteFile(configurationPath, []byte("[stream\n"), 0600)
	suite.Require().NoError(err)

	_, err = suite.reader.ReadFileOrDefault(configurationPath)
	suite.Require().Error(err)
}

func (suite *StorageConfigTestSuite) TestGetConfigType() {
	suite.Require().Equal(ConfigTypeTOML, GetConfigType("/etc/dasctl.TOML"))
	suite.Require().Equal(ConfigTypeYAML, GetConfigType("/etc/dasctl.yml"))
	suite.Require().Equal(ConfigTypeYAML, GetConfigType("dasctl"))
}

func (suite *StorageConfigTestSuite) TestGetSystemLoggerSinks() {
	configuration := suite.reader.GetDefaultConfiguration()

	loggerSinks, err := configuration.GetSystemLoggerSinks()
	suite.Require().NoError(err)
	suite.Require().Len(loggerSinks, 1)
	suite.Require().Equal("info", loggerSinks["stderr"].Level)
	suite.Require().Equal(LoggerSinkKindStderr, loggerSinks["stderr"].Sink.Kind)

	configuration.Logger.System = append(configuration.Logger.System, LoggerSinkBinding{
		Level: "debug",
		Sink:  "missing",
	})

	_, err = configuration.GetSystemLoggerSinks()
	suite.Require().Error(err)
}

func (suite *StorageConfigTestSuite) TestValidate() {
	for _, testCase := range []struct {
		name   string
		modify func(*Config)
	}{
		{name: "NoListenAddress", modify: func(config *Config) { config.WebServer.ListenAddress = "" }},
		{name: "ZeroBufferSize", modify: func(config *Config) { config.Stream.BufferSize = 0 }},
		{name: "NegativeBodyLimit", modify: func(config *Config) { config.Upload.MaxBodyBytes = -1 }},
		{name: "NoLoggerBindings", modify: func(config *Config) { config.Logger.System = nil }},
	} {
		suite.Run(testCase.name, func() {
			configuration := suite.reader.GetDefaultConfiguration()
			testCase.modify(configuration)
			suite.Require().Error(configuration.Validate())
		})
	}
}

func TestStorageConfigTestSuite(t *testing.T) {
	suite.Run(t, new(StorageConfigTestSuite))
}
