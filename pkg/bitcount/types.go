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

import "fmt"

// BitCounts holds the number of zero bits and one bits of a logical bitstream
type BitCounts struct {
	Cnt0 uint64 `json:"cnt0"`
	Cnt1 uint64 `json:"cnt1"`
}

// TotalBytes returns (Cnt0+Cnt1)/8. Only meaningful for byte aligned counts
func (bc BitCounts) TotalBytes() uint64 {

	// split each count so that the sum can't overflow
	return bc.Cnt0/8 + bc.Cnt1/8 + (bc.Cnt0%8+bc.Cnt1%8)/8
}

// IsByteAligned returns true if Cnt0+Cnt1 is a whole number of bytes
func (bc BitCounts) IsByteAligned() bool {
	return (bc.Cnt0%8+bc.Cnt1%8)%8 == 0
}

// Validate returns an UnalignedCounts error if the counts can't describe a byte stream
func (bc BitCounts) Validate() error {
	if !bc.IsByteAligned() {
		return NewCodecError(UnalignedCounts,
			nil,
			"Bit counts are not byte aligned (cnt0: %d, cnt1: %d)",
			bc.Cnt0,
			bc.Cnt1)
	}

	return nil
}

func (bc BitCounts) String() string {
	return fmt.Sprintf("cnt0=%d cnt1=%d", bc.Cnt0, bc.Cnt1)
}
