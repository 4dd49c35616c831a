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

package locator

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/nuclio/deepatlantic/pkg/bitcount"

	"github.com/nuclio/errors"
)

const segmentCount = 3

// Locator identifies a reconstructable stream: its bit counts and a filename
type Locator struct {
	Counts   bitcount.BitCounts `json:"counts"`
	Filename string             `json:"filename"`
}

// String returns the locator path with the filename path-escaped, so that it always decodes back
func (l Locator) String() string {
	return EncodeEscaped(l.Counts, l.Filename)
}

// Encode returns "/<cnt0>/<cnt1>/<filename>", counts in lowercase hex. The filename is not escaped,
// so the result decodes back only for URL-safe filenames (no '%', '?', '#' or '/'). Use
// EncodeEscaped for anything else
func Encode(counts bitcount.BitCounts, filename string) string {
	return "/" + strconv.FormatUint(counts.Cnt0, 16) +
		"/" + strconv.FormatUint(counts.Cnt1, 16) +
		"/" + filename
}

// EncodeEscaped is like Encode but path-escapes the filename, for use in URLs and headers
func EncodeEscaped(counts bitcount.BitCounts, filename string) string {
	return Encode(counts, url.PathEscape(filename))
}

// Decoder parses locators, optionally resolving relative ones against a base origin
type Decoder struct {
	baseURL *url.URL
}

// NewDecoder creates a decoder. An empty baseURL means relative locators are taken as-is. Only the
// origin (scheme and host) of baseURL is kept, since locator paths always start at the root
func NewDecoder(baseURL string) (*Decoder, error) {
	newDecoder := &Decoder{}

	if baseURL != "" {
		parsedBaseURL, err := url.Parse(baseURL)
		if err != nil {
			return nil, errors.Wrapf(err, "Failed to parse base URL %s", baseURL)
		}

		if !parsedBaseURL.IsAbs() {
			return nil, errors.Errorf("Base URL must be absolute: %s", baseURL)
		}

		newDecoder.baseURL = &url.URL{
			Scheme: parsedBaseURL.Scheme,
			User:   parsedBaseURL.User,
			Host:   parsedBaseURL.Host,
			Path:   "/",
		}
	}

	return newDecoder, nil
}

// Decode parses an absolute URL or a path into a locator. Anything other than exactly three
// path segments whose first two are hex integers yields an InvalidLocator error
func (d *Decoder) Decode(locator string) (Locator, error) {
	parsedURL, err := url.Parse(locator)
	if err != nil {
		return Locator{}, d.invalid(locator, err, "Failed to parse locator URL")
	}

	if d.baseURL != nil {
		parsedURL = d.baseURL.ResolveReference(parsedURL)
	}

	escapedPath := strings.TrimPrefix(parsedURL.EscapedPath(), "/")
	segments := strings.Split(escapedPath, "/")
	if len(segments) != segmentCount {
		return Locator{}, d.invalid(locator, nil, "Expected %d path segments, got %d", segmentCount, len(segments))
	}

	for segmentIdx, segment := range segments {
		segments[segmentIdx], err = url.PathUnescape(segment)
		if err != nil {
			return Locator{}, d.invalid(locator, err, "Failed to unescape path segment %d", segmentIdx)
		}
	}

	cnt0, err := ParseCount(segments[0])
	if err != nil {
		return Locator{}, d.invalid(locator, err, "Invalid zero-bit count")
	}

	cnt1, err := ParseCount(segments[1])
	if err != nil {
		return Locator{}, d.invalid(locator, err, "Invalid one-bit count")
	}

	return Locator{
		Counts: bitcount.BitCounts{
			Cnt0: cnt0,
			Cnt1: cnt1,
		},
		Filename: segments[2],
	}, nil
}

func (d *Decoder) invalid(locator string, cause error, format string, args ...interface{}) error {
	return bitcount.NewCodecError(bitcount.InvalidLocator,
		cause,
		"Invalid locator %q: %s",
		locator,
		fmt.Sprintf(format, args...))
}

// Decode parses a locator without a base origin
func Decode(locator string) (Locator, error) {
	decoder, _ := NewDecoder("")
	return decoder.Decode(locator)
}

// ParseCount parses a hex count as it appears in a locator
func ParseCount(segment string) (uint64, error) {

	// ParseUint with an explicit base accepts neither a sign nor a 0x prefix
	return strconv.ParseUint(segment, 16, 64)
}
