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

package headers

// Standard headers
const (
	ContentType        = "Content-Type"
	ContentLength      = "Content-Length"
	ContentDisposition = "Content-Disposition"
	Location           = "Location"
	Accept             = "Accept"
)

// Storage headers
const (
	RequestID  = "X-Request-Id"
	Cnt0       = "X-Storage-Cnt0"
	Cnt1       = "X-Storage-Cnt1"
	TotalBytes = "X-Storage-Total-Bytes"
)

// Header values
const (
	OctetStream = "application/octet-stream"
	JSON        = "application/json"
	Attachment  = "attachment"
)
