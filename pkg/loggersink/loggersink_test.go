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
	"os"
	"path/filepath"
	"testing"

	"github.com/nuclio/deepatlantic/pkg/storageconfig"

	"github.com/nuclio/zap"
	"github.com/stretchr/testify/suite"
)

type LoggerSinkTestSuite struct {
	suite.Suite
	tempDir string
}

func (suite *LoggerSinkTestSuite) SetupTest() {
	suite.tempDir = suite.T().TempDir()
}

func (suite *LoggerSinkTestSuite) TestParseLevel() {
	for _, testCase := range []struct {
		name     string
		expected nucliozap.Level
	}{
		{"", nucliozap.DebugLevel},
		{"debug", nucliozap.DebugLevel},
		{"INFO", nucliozap.InfoLevel},
		{"warn", nucliozap.WarnLevel},
		{"warning", nucliozap.WarnLevel},
		{"error", nucliozap.ErrorLevel},
	} {
		level, err := ParseLevel(testCase.name)
		suite.Require().NoError(err)
		suite.Require().Equal(testCase.expected, level)
	}

	_, err := ParseLevel("verbose")
	suite.Require().Error(err)
}

func (suite *LoggerSinkTestSuite) TestNewConfiguration() {
	configuration, err := NewConfiguration("test", &storageconfig.LoggerSinkWithLevel{
		Level: "info",
		Sink: storageconfig.LoggerSink{
			Kind: storageconfig.LoggerSinkKindFile,
			Attributes: map[string]interface{}{
				"encoding": "json",
				"path":     "/var/log/dasctl.log",
			},
		},
	})
	suite.Require().NoError(err)
	suite.Require().Equal("test", configuration.Name)
	suite.Require().Equal(nucliozap.InfoLevel, configuration.Level)
	suite.Require().Equal("json", configuration.Encoding)
	suite.Require().Equal("/var/log/dasctl.log", configuration.Path)

	// encoding defaults to console
	configuration, err = NewConfiguration("test", &storageconfig.LoggerSinkWithLevel{
		Sink: storageconfig.LoggerSink{Kind: storageconfig.LoggerSinkKindStdout},
	})
	suite.Require().NoError(err)
	suite.Require().Equal("console", configuration.Encoding)

	_, err = NewConfiguration("test", &storageconfig.LoggerSinkWithLevel{
		Sink: storageconfig.LoggerSink{
			Kind:       storageconfig.LoggerSinkKindStdout,
			Attributes: map[string]interface{}{"encoding": "xml"},
		},
	})
	suite.Require().Error(err)
}

func (suite *LoggerSinkTestSuite) TestCreateSystemLoggerDefault() {
	reader, _ := storageconfig.NewReader()

	systemLogger, err := CreateSystemLogger("test", reader.GetDefaultConfiguration())
	suite.Require().NoError(err)
	suite.Require().NotNil(systemLogger)
}

func (suite *LoggerSinkTestSuite) TestCreateSystemLoggerFileSink() {
	logPath := filepath.Join(suite.tempDir, "dasctl.log")

	configuration := &storageconfig.Config{
		Logger: storageconfig.Logger{
			Sinks: map[string]storageconfig.LoggerSink{
				"file": {
					Kind: storageconfig.LoggerSinkKindFile,
					Attributes: map[string]interface{}{
						"encoding": "json",
						"path":     logPath,
					},
				},
				"stderr": {Kind: storageconfig.LoggerSinkKindStderr},
			},
			System: []storageconfig.LoggerSinkBinding{
				{Level: "warn", Sink: "file"},
				{Level: "error", Sink: "stderr"},
			},
		},
	}

	systemLogger, err := CreateSystemLogger("test", configuration)
	suite.Require().NoError(err)

	systemLogger.InfoWith("Filtered out", "key", "value")
	systemLogger.WarnWith("Written out", "key", "value")
	systemLogger.Flush()

	logContents, err := os.ReadFile(logPath)
	suite.Require().NoError(err)
	suite.Require().Contains(string(logContents), "Written out")
	suite.Require().NotContains(string(logContents), "Filtered out")
}

func (suite *LoggerSinkTestSuite) TestCreateSystemLoggerErrors() {
	for _, testCase := range []struct {
		name          string
		configuration *storageconfig.Config
	}{
		{
			name:          "NoBindings",
			configuration: &storageconfig.Config{},
		},
		{
			name: "MissingSink",
			configuration: &storageconfig.Config{
				Logger: storageconfig.Logger{
					System: []storageconfig.LoggerSinkBinding{{Level: "info", Sink: "missing"}},
				},
			},
		},
		{
			name: "UnknownKind",
			configuration: &storageconfig.Config{
				Logger: storageconfig.Logger{
					Sinks:  map[string]storageconfig.LoggerSink{"es": {Kind: "elasticsearch"}},
					System: []storageconfig.LoggerSinkBinding{{Level: "info", Sink: "es"}},
				},
			},
		},
		{
			name: "FileWithoutPath",
			configuration: &storageconfig.Config{
				Logger: storageconfig.Logger{
					Sinks:  map[string]storageconfig.LoggerSink{"file": {Kind: storageconfig.LoggerSinkKindFile}},
					System: []storageconfig.LoggerSinkBinding{{Level: "info", Sink: "file"}},
				},
			},
		},
	} {
		suite.Run(testCase.name, func() {
			_, err := CreateSystemLogger("test", testCase.configuration)
			suite.Require().Error(err)
		})
	}
}

func TestLoggerSinkTestSuite(t *testing.T) {
	suite.Run(t, new(LoggerSinkTestSuite))
}
