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

package reconstruct

import (
	"bytes"
	"sync"
	"testing"

	"github.com/nuclio/deepatlantic/pkg/bitcount"

	"github.com/nuclio/errors"
	"github.com/stretchr/testify/suite"
)

// failingWriter accepts limit bytes and then fails
type failingWriter struct {
	bytes.Buffer
	limit int
}

func (fw *failingWriter) Write(p []byte) (int, error) {
	remaining := fw.limit - fw.Len()
	if remaining <= 0 {
		return 0, errors.New("Sink closed")
	}

	if len(p) > remaining {
		fw.Buffer.Write(p[:remaining]) // nolint: errcheck
		return remaining, errors.New("Sink closed")
	}

	return fw.Buffer.Write(p)
}

// recordingWriter remembers the size of every write
type recordingWriter struct {
	bytes.Buffer
	writeSizes []int
}

func (rw *recordingWriter) Write(p []byte) (int, error) {
	rw.writeSizes = append(rw.writeSizes, len(p))
	return rw.Buffer.Write(p)
}

type ReconstructorTestSuite struct {
	suite.Suite
	reconstructor *Reconstructor
}

func (suite *ReconstructorTestSuite) SetupTest() {
	suite.reconstructor = NewReconstructor()
}

func (suite *ReconstructorTestSuite) TestWholePages() {
	counts := bitcount.BitCounts{
		Cnt0: 3 * PageSize * 8,
		Cnt1: 2 * PageSize * 8,
	}

	output := suite.reconstruct(counts)
	suite.Require().Len(output, 5*PageSize)

	middleIndex := 3 * PageSize
	suite.requireAllEqual(output[:middleIndex], 0x00)
	suite.requireAllEqual(output[middleIndex:], 0xFF)
}

func (suite *ReconstructorTestSuite) TestMiddleByte() {
	counts := bitcount.BitCounts{
		Cnt0: (3*PageSize+5)*8 + 6,
		Cnt1: 2 + (7+2*PageSize)*8,
	}

	output := suite.reconstruct(counts)
	suite.Require().Len(output, 3*PageSize+5+1+7+2*PageSize)

	middleIndex := 3*PageSize + 5
	suite.requireAllEqual(output[:middleIndex], 0x00)
	suite.Require().Equal(byte(0b00000011), output[middleIndex])
	suite.requireAllEqual(output[middleIndex+1:], 0xFF)
}

func (suite *ReconstructorTestSuite) TestSmall() {
	output := suite.reconstruct(bitcount.BitCounts{Cnt0: 0x12, Cnt1: 0x1e})
	suite.Require().Equal([]byte{0x00, 0x00, 0x3F, 0xFF, 0xFF, 0xFF}, output)
}

func (suite *ReconstructorTestSuite) TestEdgeCases() {
	for _, testCase := range []struct {
		name     string
		counts   bitcount.BitCounts
		expected []byte
	}{
		{
			name:     "Empty",
			counts:   bitcount.BitCounts{},
			expected: []byte{},
		},
		{
			name:     "ZerosOnly",
			counts:   bitcount.BitCounts{Cnt0: 24},
			expected: []byte{0x00, 0x00, 0x00},
		},
		{
			name:     "OnesOnly",
			counts:   bitcount.BitCounts{Cnt1: 16},
			expected: []byte{0xFF, 0xFF},
		},
		{
			name:     "BoundaryOnly",
			counts:   bitcount.BitCounts{Cnt0: 1, Cnt1: 7},
			expected: []byte{0x7F},
		},
		{
			name:     "BoundaryWithSevenZeros",
			counts:   bitcount.BitCounts{Cnt0: 15, Cnt1: 1},
			expected: []byte{0x00, 0x01},
		},
	} {
		suite.Run(testCase.name, func() {
			suite.Require().Equal(testCase.expected, suite.reconstruct(testCase.counts))
		})
	}
}

func (suite *ReconstructorTestSuite) TestLengthMatchesTotalBytes() {
	for cnt0 := uint64(0); cnt0 < 3*PageSize*8; cnt0 += 1021 {
		for _, cnt1 := range []uint64{0, 8, 9, 1031, PageSize * 8} {
			counts := bitcount.BitCounts{Cnt0: cnt0, Cnt1: cnt1}
			if !counts.IsByteAligned() {
				counts.Cnt1 += 8 - (cnt0+cnt1)%8
			}

			output := suite.reconstruct(counts)
			suite.Require().Equal(counts.TotalBytes(), uint64(len(output)))

			recounted, err := bitcount.Count(bytes.NewReader(output))
			suite.Require().NoError(err)
			suite.Require().Equal(counts, recounted)
		}
	}
}

func (suite *ReconstructorTestSuite) TestPagedWrites() {
	writer := recordingWriter{}
	counts := bitcount.BitCounts{Cnt0: (2*PageSize + 10) * 8, Cnt1: 3 * 8}

	written, err := suite.reconstructor.Write(&writer, counts)
	suite.Require().NoError(err)
	suite.Require().Equal(int64(2*PageSize+13), written)
	suite.Require().Equal([]int{PageSize, PageSize, 10, 3}, writer.writeSizes)
}

func (suite *ReconstructorTestSuite) TestUnalignedRejected() {
	writer := recordingWriter{}

	written, err := suite.reconstructor.Write(&writer, bitcount.BitCounts{Cnt0: 3, Cnt1: 3})
	suite.Require().Error(err)
	suite.Require().True(bitcount.IsKind(err, bitcount.UnalignedCounts))
	suite.Require().Zero(written)
	suite.Require().Empty(writer.writeSizes)
}

func (suite *ReconstructorTestSuite) TestWriteFailureLeavesPrefix() {
	counts := bitcount.BitCounts{Cnt0: (PageSize + 5) * 8, Cnt1: PageSize * 8}
	full := suite.reconstruct(counts)

	for _, limit := range []int{0, 1, PageSize, PageSize + 3, PageSize + 6} {
		writer := failingWriter{limit: limit}

		written, err := suite.reconstructor.Write(&writer, counts)
		suite.Require().Error(err)
		suite.Require().True(bitcount.IsKind(err, bitcount.WriteFailure))
		suite.Require().Equal(int64(limit), written)
		suite.Require().Len(writer.Bytes(), limit)
		suite.Require().True(bytes.Equal(full[:limit], writer.Bytes()), "limit %d", limit)
	}
}

func (suite *ReconstructorTestSuite) TestConcurrentReconstructions() {
	var waitGroup sync.WaitGroup

	outputs := make([][]byte, 16)
	for workerIdx := range outputs {
		waitGroup.Add(1)

		go func(workerIdx int) {
			defer waitGroup.Done()

			buffer := bytes.Buffer{}
			counts := bitcount.BitCounts{Cnt0: uint64(workerIdx) * 8 * 100, Cnt1: 8 * 100}
			_, err := Write(&buffer, counts)
			if err == nil {
				outputs[workerIdx] = buffer.Bytes()
			}
		}(workerIdx)
	}

	waitGroup.Wait()

	for workerIdx, output := range outputs {
		suite.Require().Len(output, workerIdx*100+100)
		suite.requireAllEqual(output[:workerIdx*100], 0x00)
		suite.requireAllEqual(output[workerIdx*100:], 0xFF)
	}
}

func (suite *ReconstructorTestSuite) reconstruct(counts bitcount.BitCounts) []byte {
	buffer := bytes.Buffer{}

	written, err := suite.reconstructor.Write(&buffer, counts)
	suite.Require().NoError(err)
	suite.Require().Equal(int64(buffer.Len()), written)

	output := buffer.Bytes()
	if output == nil {
		output = []byte{}
	}

	return output
}

func (suite *ReconstructorTestSuite) requireAllEqual(output []byte, value byte) {
	for byteIdx, outputByte := range output {
		if outputByte != value {
			suite.Failf("Unexpected byte", "index %d: expected 0x%02x, got 0x%02x", byteIdx, value, outputByte)
			return
		}
	}
}

func TestReconstructorTestSuite(t *testing.T) {
	suite.Run(t, new(ReconstructorTestSuite))
}
