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
	"net/http"
	"net/url"
	"strconv"

	"github.com/nuclio/deepatlantic/pkg/bitcount"
	"github.com/nuclio/deepatlantic/pkg/common"
	"github.com/nuclio/deepatlantic/pkg/common/headers"
	"github.com/nuclio/deepatlantic/pkg/locator"
	"github.com/nuclio/deepatlantic/pkg/metrics"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/nuclio/errors"
	"github.com/nuclio/nuclio-sdk-go"
)

// UploadResponse is the body of a successful upload
type UploadResponse struct {
	Cnt0       uint64 `json:"cnt0"`
	Cnt1       uint64 `json:"cnt1"`
	TotalBytes uint64 `json:"totalBytes"`
	Filename   string `json:"filename"`
	Locator    string `json:"locator"`
}

// handleDownload decodes the request path as a locator and streams its reconstruction
func (s *Server) handleDownload(responseWriter http.ResponseWriter, request *http.Request) {
	requestedLocator, err := s.decoder.Decode(request.URL.RequestURI())
	if err == nil {
		err = requestedLocator.Counts.Validate()
	}

	if err != nil {
		s.recordDownload(metrics.ResultNotFound, 0)
		s.writeError(responseWriter, request, nuclio.NewErrNotFound(err.Error()))
		return
	}

	counts := requestedLocator.Counts

	responseHeaders := responseWriter.Header()
	responseHeaders.Set(headers.ContentType, headers.OctetStream)
	responseHeaders.Set(headers.ContentDisposition, headers.Attachment)
	responseHeaders.Set(headers.ContentLength, strconv.FormatUint(counts.TotalBytes(), 10))
	setCountHeaders(responseHeaders, counts)
	responseWriter.WriteHeader(http.StatusOK)

	if request.Method == http.MethodHead {
		return
	}

	streamedBytes, err := s.streamReconstruction(request.Context(), responseWriter, counts)
	if err != nil {

		// headers are out, all that's left is to cut the body short
		s.Logger.WarnWith("Failed to stream reconstruction",
			"requestID", middleware.GetReqID(request.Context()),
			"locator", requestedLocator.String(),
			"streamedBytes", streamedBytes,
			"err", err.Error())

		s.recordDownload(metrics.ResultFailure, streamedBytes)
		return
	}

	s.recordDownload(metrics.ResultSuccess, streamedBytes)
}

// handleUpload counts the request body and responds with the locator of the result
func (s *Server) handleUpload(responseWriter http.ResponseWriter, request *http.Request) {
	filename, err := uploadFilename(request)
	if err != nil {
		s.writeError(responseWriter, request, nuclio.WrapErrBadRequest(err))
		return
	}

	body := request.Body
	if s.configuration.Upload.MaxBodyBytes > 0 {
		body = http.MaxBytesReader(responseWriter, body, s.configuration.Upload.MaxBodyBytes)
	}

	counts, err := s.counter.Count(body)
	if err != nil {
		s.recordUpload(metrics.ResultFailure, 0)
		s.writeError(responseWriter, request, uploadError(err))
		return
	}

	s.recordUpload(metrics.ResultSuccess, counts.TotalBytes())

	encodedLocator := locator.EncodeEscaped(counts, filename)

	uploadResponse := UploadResponse{
		Cnt0:       counts.Cnt0,
		Cnt1:       counts.Cnt1,
		TotalBytes: counts.TotalBytes(),
		Filename:   filename,
		Locator:    encodedLocator,
	}

	if s.configuration.BaseURL != "" {
		absoluteLocator, err := common.ResolveURL(s.configuration.BaseURL, encodedLocator)
		if err == nil {
			uploadResponse.Locator = absoluteLocator
		}
	}

	s.Logger.DebugWith("Counted upload",
		"requestID", middleware.GetReqID(request.Context()),
		"filename", filename,
		"cnt0", counts.Cnt0,
		"cnt1", counts.Cnt1)

	responseWriter.Header().Set(headers.Location, encodedLocator)
	setCountHeaders(responseWriter.Header(), counts)
	s.writeJSON(responseWriter, http.StatusCreated, &uploadResponse)
}

func setCountHeaders(responseHeaders http.Header, counts bitcount.BitCounts) {
	responseHeaders.Set(headers.Cnt0, strconv.FormatUint(counts.Cnt0, 16))
	responseHeaders.Set(headers.Cnt1, strconv.FormatUint(counts.Cnt1, 16))
	responseHeaders.Set(headers.TotalBytes, strconv.FormatUint(counts.TotalBytes(), 10))
}

// uploadFilename returns the unescaped filename route parameter
func uploadFilename(request *http.Request) (string, error) {
	filename := chi.URLParam(request, "filename")

	// chi routes on the raw path when there is one, leaving parameters escaped
	if request.URL.RawPath != "" {
		unescapedFilename, err := url.PathUnescape(filename)
		if err != nil {
			return "", errors.Wrap(err, "Failed to unescape filename")
		}

		filename = unescapedFilename
	}

	if filename == "" {
		return "", errors.New("Filename must not be empty")
	}

	return filename, nil
}

func uploadError(err error) error {
	if codecError := bitcount.FindCodecError(err); codecError != nil {
		if _, exceeded := codecError.Cause().(*http.MaxBytesError); exceeded {
			return nuclio.GetByStatusCode(http.StatusRequestEntityTooLarge)(err.Error())
		}
	}

	return nuclio.WrapErrInternalServerError(err)
}
