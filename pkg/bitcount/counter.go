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

package bitcount

import (
	"io"
)

const readChunkSize = 32 * 1024

// Counter scans byte sources and counts their zero and one bits
type Counter struct {
	onesTable *OnesTable
}

// NewCounter creates a counter around a shared table. A nil table means the process wide one
func NewCounter(onesTable *OnesTable) *Counter {
	if onesTable == nil {
		onesTable = GetOnesTable()
	}

	return &Counter{
		onesTable: onesTable,
	}
}

// Count reads reader until EOF. Memory use does not depend on the input length. On a read
// failure, zero counts and a ReadFailure error are returned
func (c *Counter) Count(reader io.Reader) (BitCounts, error) {
	var totalBytes, cnt1 uint64

	chunk := make([]byte, readChunkSize)

	for {
		bytesRead, err := reader.Read(chunk)

		// consume what was read before looking at the error, as io.Reader allows both
		for _, value := range chunk[:bytesRead] {
			cnt1 += uint64(c.onesTable[value])
		}
		totalBytes += uint64(bytesRead)

		if err == io.EOF {
			break
		}

		if err != nil {
			return BitCounts{}, NewCodecError(ReadFailure,
				err,
				"Failed to read input after %d bytes",
				totalBytes)
		}
	}

	return BitCounts{
		Cnt0: totalBytes*8 - cnt1,
		Cnt1: cnt1,
	}, nil
}

// Count counts reader with the process wide table
func Count(reader io.Reader) (BitCounts, error) {
	return NewCounter(nil).Count(reader)
}
