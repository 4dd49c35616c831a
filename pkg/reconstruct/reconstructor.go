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

// Package reconstruct produces a byte stream whose bit counts match a given BitCounts: all the
// zero bits first, then all the one bits, most significant bit first
package reconstruct

import (
	"io"
	"sync"

	"github.com/nuclio/deepatlantic/pkg/bitcount"
)

// PageSize is the size of each write issued for long runs
const PageSize = 1024

type pages struct {
	zeros [PageSize]byte
	ones  [PageSize]byte
}

// shared by all reconstructors, never written after being built
var sharedPages = sync.OnceValue(func() *pages {
	newPages := pages{}
	for byteIdx := range newPages.ones {
		newPages.ones[byteIdx] = 0xFF
	}

	return &newPages
})

// Reconstructor writes reconstructed streams. It holds no per-stream state and may be used
// concurrently
type Reconstructor struct {
	pages *pages
}

func NewReconstructor() *Reconstructor {
	return &Reconstructor{
		pages: sharedPages(),
	}
}

// Write emits counts.TotalBytes() bytes to writer: Cnt0/8 zero bytes, a boundary byte if the
// counts have leftover bits, and Cnt1/8 one bytes. Unaligned counts are rejected before anything
// is written. On a write failure, whatever was written is a prefix of the full stream
func (r *Reconstructor) Write(writer io.Writer, counts bitcount.BitCounts) (int64, error) {
	if err := counts.Validate(); err != nil {
		return 0, err
	}

	output := pageWriter{writer: writer}

	bytes0 := counts.Cnt0 / 8
	bytes1 := counts.Cnt1 / 8
	extra0 := counts.Cnt0 % 8
	extra1 := counts.Cnt1 % 8

	if err := output.writeRun(r.pages.zeros[:], bytes0); err != nil {
		return output.written, err
	}

	// alignment means extra0+extra1 is either 0 or 8, so a boundary byte holds exactly the
	// leftover zeros in its high bits and the leftover ones in its low bits
	if extra0+extra1 > 0 {
		boundary := []byte{0xFF >> extra0}
		if err := output.writeRun(boundary, 1); err != nil {
			return output.written, err
		}
	}

	if err := output.writeRun(r.pages.ones[:], bytes1); err != nil {
		return output.written, err
	}

	return output.written, nil
}

// Write reconstructs counts into writer with a default reconstructor
func Write(writer io.Writer, counts bitcount.BitCounts) (int64, error) {
	return NewReconstructor().Write(writer, counts)
}

type pageWriter struct {
	writer  io.Writer
	written int64
}

// writeRun writes count bytes taken from the repeated page, in page sized writes
func (pw *pageWriter) writeRun(page []byte, count uint64) error {
	pageSize := uint64(len(page))

	for count > 0 {
		chunk := page
		if count < pageSize {
			chunk = page[:count]
		}

		if err := pw.write(chunk); err != nil {
			return err
		}

		count -= uint64(len(chunk))
	}

	return nil
}

func (pw *pageWriter) write(chunk []byte) error {
	bytesWritten, err := pw.writer.Write(chunk)
	if bytesWritten > 0 {
		pw.written += int64(bytesWritten)
	}

	if err == nil && bytesWritten != len(chunk) {
		err = io.ErrShortWrite
	}

	if err != nil {
		return bitcount.NewCodecError(bitcount.WriteFailure,
			err,
			"Failed to write output after %d bytes",
			pw.written)
	}

	return nil
}
