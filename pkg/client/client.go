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

// Package client talks to a running storage server
package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/nuclio/deepatlantic/pkg/bitcount"
	"github.com/nuclio/deepatlantic/pkg/common"
	"github.com/nuclio/deepatlantic/pkg/common/headers"
	"github.com/nuclio/deepatlantic/pkg/storageserver"

	"github.com/nuclio/errors"
	"github.com/nuclio/logger"
	"github.com/nuclio/nuclio-sdk-go"
)

// limit on how much of an error response is read into the returned error
const maxErrorBodySize = 4096

type UploadResult struct {
	Counts bitcount.BitCounts

	// absolute URL of the uploaded stream
	Locator string
}

type Client struct {
	logger     logger.Logger
	serverURL  string
	httpClient *http.Client
}

func NewClient(parentLogger logger.Logger, serverURL string) (*Client, error) {
	if !common.IsURL(serverURL) {
		return nil, errors.Errorf("Server URL must be an http(s) URL: %s", serverURL)
	}

	return &Client{
		logger:     parentLogger.GetChild("client"),
		serverURL:  strings.TrimSuffix(serverURL, "/"),
		httpClient: &http.Client{},
	}, nil
}

// Upload posts body to the server's upload path and returns the locator the server assigned
func (c *Client) Upload(ctx context.Context, filename string, body io.Reader) (*UploadResult, error) {
	uploadURL := c.serverURL + storageserver.UploadPathPrefix + url.PathEscape(filename)

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, uploadURL, body)
	if err != nil {
		return nil, errors.Wrap(err, "Failed to create upload request")
	}

	request.Header.Set(headers.ContentType, headers.OctetStream)

	c.logger.DebugWith("Uploading", "url", uploadURL)

	response, err := c.httpClient.Do(request)
	if err != nil {
		return nil, errors.Wrap(err, "Failed to send upload request")
	}

	defer response.Body.Close() // nolint: errcheck

	if response.StatusCode != http.StatusCreated {
		return nil, errors.Wrap(responseError(response), "Upload was rejected")
	}

	location := response.Header.Get(headers.Location)
	if location == "" {
		return nil, errors.New("Upload response carries no Location header")
	}

	uploadResponse := storageserver.UploadResponse{}
	if err := json.NewDecoder(response.Body).Decode(&uploadResponse); err != nil {
		return nil, errors.Wrap(err, "Failed to decode upload response")
	}

	absoluteLocator, err := common.ResolveURL(uploadURL, location)
	if err != nil {
		return nil, errors.Wrap(err, "Failed to resolve Location header")
	}

	return &UploadResult{
		Counts: bitcount.BitCounts{
			Cnt0: uploadResponse.Cnt0,
			Cnt1: uploadResponse.Cnt1,
		},
		Locator: absoluteLocator,
	}, nil
}

// Download fetches the stream at locatorURL into writer. Relative locators resolve against the
// server URL. The number of received bytes is checked against the response's Content-Length
func (c *Client) Download(ctx context.Context, locatorURL string, writer io.Writer) (int64, error) {
	downloadURL, err := common.ResolveURL(c.serverURL+"/", locatorURL)
	if err != nil {
		return 0, errors.Wrap(err, "Failed to resolve locator URL")
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, downloadURL, nil)
	if err != nil {
		return 0, errors.Wrap(err, "Failed to create download request")
	}

	c.logger.DebugWith("Downloading", "url", downloadURL)

	response, err := c.httpClient.Do(request)
	if err != nil {
		return 0, errors.Wrap(err, "Failed to send download request")
	}

	defer response.Body.Close() // nolint: errcheck

	if response.StatusCode != http.StatusOK {
		return 0, errors.Wrap(responseError(response), "Download was rejected")
	}

	written, err := io.Copy(writer, response.Body)
	if err != nil {
		return written, errors.Wrap(err, "Failed to receive stream")
	}

	if response.ContentLength != -1 && written != response.ContentLength {
		return written, errors.Errorf("Received length (%d) is different than content length (%d)",
			written,
			response.ContentLength)
	}

	return written, nil
}

// responseError turns a failed response into a status error carrying the server's message
func responseError(response *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(response.Body, maxErrorBodySize))

	message := strings.TrimSpace(string(body))

	errorBody := struct {
		Error string `json:"error"`
	}{}
	if json.Unmarshal(body, &errorBody) == nil && errorBody.Error != "" {
		message = errorBody.Error
	}

	if message == "" {
		message = http.StatusText(response.StatusCode)
	}

	if newStatusError := nuclio.GetByStatusCode(response.StatusCode); newStatusError != nil {
		return newStatusError(message)
	}

	return errors.Errorf("Unexpected status code %d: %s", response.StatusCode, message)
}
