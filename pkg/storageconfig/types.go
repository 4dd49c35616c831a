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

type LoggerSinkKind string

const (
	LoggerSinkKindStdout LoggerSinkKind = "stdout"
	LoggerSinkKindStderr LoggerSinkKind = "stderr"
	LoggerSinkKindFile   LoggerSinkKind = "file"
)

type LoggerSink struct {
	Kind       LoggerSinkKind         `json:"kind,omitempty" toml:"kind,omitempty"`
	Attributes map[string]interface{} `json:"attributes,omitempty" toml:"attributes,omitempty"`
}

type LoggerSinkWithLevel struct {
	Level string
	Sink  LoggerSink
}

type LoggerSinkBinding struct {
	Level string `json:"level,omitempty" toml:"level,omitempty"`
	Sink  string `json:"sink,omitempty" toml:"sink,omitempty"`
}

type Logger struct {
	Sinks  map[string]LoggerSink `json:"sinks,omitempty" toml:"sinks,omitempty"`
	System []LoggerSinkBinding   `json:"system,omitempty" toml:"system,omitempty"`
}

type WebServer struct {
	Enabled       *bool  `json:"enabled,omitempty" toml:"enabled,omitempty"`
	ListenAddress string `json:"listenAddress,omitempty" toml:"listenAddress,omitempty"`
}

type Metrics struct {
	Enabled *bool  `json:"enabled,omitempty" toml:"enabled,omitempty"`
	Path    string `json:"path,omitempty" toml:"path,omitempty"`
}

type Stream struct {

	// size of the buffer between the reconstructor and the response
	BufferSize int `json:"bufferSize,omitempty" toml:"bufferSize,omitempty"`
}

type Upload struct {

	// zero means unlimited
	MaxBodyBytes int64 `json:"maxBodyBytes,omitempty" toml:"maxBodyBytes,omitempty"`
}

type CORS struct {
	AllowedOrigins []string `json:"allowedOrigins,omitempty" toml:"allowedOrigins,omitempty"`
}
