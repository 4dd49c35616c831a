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
	"os"
	"path/filepath"

	"github.com/nuclio/errors"
)

// RequestIDContextKey is the context key under which the storage server keeps the request id
const RequestIDContextKey = "requestID"

// IsFile returns true if the object @ path is a file
func IsFile(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}

// GetBasename returns the last element of a filename, rejecting names that don't have a usable
// one (empty, ".", "..", or a bare separator)
func GetBasename(filename string) (string, error) {
	basename := filepath.Base(filepath.FromSlash(filename))

	switch basename {
	case "", ".", "..", string(filepath.Separator):
		return "", errors.Errorf("Bad filename: %q", filename)
	}

	return basename, nil
}
