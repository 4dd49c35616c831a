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

package storageserver

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/nuclio/deepatlantic/pkg/bitcount"
	"github.com/nuclio/deepatlantic/pkg/common"
	"github.com/nuclio/deepatlantic/pkg/common/headers"
	"github.com/nuclio/deepatlantic/pkg/errgroup"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/nuclio/errors"
)

// streamReconstruction runs the reconstructor in a producer goroutine that writes into a pipe
// buffered by stream.bufferSize bytes, and copies the pipe into writer. A slow writer blocks the
// producer once the buffer is full; a failed writer fails the producer's next write
func (s *Server) streamReconstruction(ctx context.Context,
	writer io.Writer,
	counts bitcount.BitCounts) (int64, error) {
	pipeReader, pipeWriter := io.Pipe()

	producerGroup, _ := errgroup.WithContext(ctx, s.Logger, 1)
	producerGroup.Go("reconstruct", func() error {
		bufferedWriter := bufio.NewWriterSize(pipeWriter, s.configuration.Stream.BufferSize)

		_, err := s.reconstructor.Write(bufferedWriter, counts)
		if err == nil {
			if flushErr := bufferedWriter.Flush(); flushErr != nil {
				err = bitcount.NewCodecError(bitcount.WriteFailure, flushErr, "Failed to flush stream")
			}
		}

		// a nil error closes the pipe with EOF
		pipeWriter.CloseWithError(err) // nolint: errcheck
		return err
	})

	copiedBytes, copyErr := io.Copy(writer, pipeReader)

	// unblocks the producer if the copy stopped early
	pipeReader.CloseWithError(copyErr) // nolint: errcheck

	producerErr := producerGroup.Wait()

	if copyErr != nil {
		return copiedBytes, errors.Wrap(copyErr, "Failed to copy stream to response")
	}

	if producerErr != nil {
		return copiedBytes, errors.Wrap(producerErr, "Failed to reconstruct stream")
	}

	return copiedBytes, nil
}

// errorResponse is the body of every failed request
type errorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"requestID,omitempty"`
}

func (s *Server) writeError(responseWriter http.ResponseWriter, request *http.Request, err error) {
	statusCode := common.ResolveErrorStatusCodeOrDefault(err, http.StatusInternalServerError)
	requestID := middleware.GetReqID(request.Context())

	s.Logger.DebugWith("Request failed",
		"requestID", requestID,
		"statusCode", statusCode,
		"err", err.Error())

	s.writeJSON(responseWriter, statusCode, &errorResponse{
		Error:     err.Error(),
		RequestID: requestID,
	})
}

func (s *Server) writeJSON(responseWriter http.ResponseWriter, statusCode int, body interface{}) {
	responseWriter.Header().Set(headers.ContentType, headers.JSON)
	responseWriter.WriteHeader(statusCode)

	if err := json.NewEncoder(responseWriter).Encode(body); err != nil {
		s.Logger.WarnWith("Failed to write response body", "err", err.Error())
	}
}

func (s *Server) recordUpload(result string, countedBytes uint64) {
	if s.metrics != nil {
		s.metrics.RecordUpload(result, countedBytes)
	}
}

func (s *Server) recordDownload(result string, streamedBytes int64) {
	if s.metrics != nil {
		s.metrics.RecordDownload(result, streamedBytes)
	}
}
