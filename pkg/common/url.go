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
	"net/url"
	"strings"

	"github.com/nuclio/errors"
)

const (
	HTTPPrefix  = "http://"
	HTTPSPrefix = "https://"
)

func IsURL(s string) bool {
	return strings.HasPrefix(s, HTTPPrefix) || strings.HasPrefix(s, HTTPSPrefix)
}

// ResolveURL resolves reference (typically a Location header) against baseURL
// example: ("http://host:3000/upload/x", "/12/1e/x") -> "http://host:3000/12/1e/x"
func ResolveURL(baseURL string, reference string) (string, error) {
	parsedBaseURL, err := url.Parse(baseURL)
	if err != nil {
		return "", errors.Wrapf(err, "Failed to parse base URL %s", baseURL)
	}

	parsedReference, err := url.Parse(reference)
	if err != nil {
		return "", errors.Wrapf(err, "Failed to parse URL reference %s", reference)
	}

	return parsedBaseURL.ResolveReference(parsedReference).String(), nil
}

// ListenAddressToURL turns a listen address into a URL clients can reach
// examples:
// ":3000" -> "http://localhost:3000"
// "[::1]:3000" -> "http://[::1]:3000"
func ListenAddressToURL(listenAddress string) string {
	if IsURL(listenAddress) {
		return strings.TrimSuffix(listenAddress, "/")
	}

	if strings.HasPrefix(listenAddress, ":") {
		listenAddress = "localhost" + listenAddress
	}

	return HTTPPrefix + listenAddress
}
