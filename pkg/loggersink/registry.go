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
	"sync"

	"github.com/nuclio/deepatlantic/pkg/storageconfig"

	"github.com/nuclio/errors"
	"github.com/nuclio/logger"
)

// Factory creates a logger writing to one kind of sink
type Factory interface {
	Create(name string, loggerSinkConfiguration *storageconfig.LoggerSinkWithLevel) (logger.Logger, error)
}

// Registry maps sink kinds to their factories. Factories register on package initialization
type Registry struct {
	lock       sync.Mutex
	registered map[storageconfig.LoggerSinkKind]Factory
}

var RegistrySingleton = &Registry{
	registered: map[storageconfig.LoggerSinkKind]Factory{},
}

func (r *Registry) Register(kind storageconfig.LoggerSinkKind, factory Factory) {
	r.lock.Lock()
	defer r.lock.Unlock()

	if _, found := r.registered[kind]; found {

		// registries register things on package initialization; no place for error handling
		panic("Already registered: " + string(kind))
	}

	r.registered[kind] = factory
}

func (r *Registry) NewLoggerSink(kind storageconfig.LoggerSinkKind,
	name string,
	loggerSinkConfiguration *storageconfig.LoggerSinkWithLevel) (logger.Logger, error) {
	r.lock.Lock()
	factory, found := r.registered[kind]
	r.lock.Unlock()

	if !found {
		return nil, errors.Errorf("Unknown logger sink kind: %s", kind)
	}

	return factory.Create(name, loggerSinkConfiguration)
}
