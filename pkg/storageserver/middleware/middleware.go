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

package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/nuclio/deepatlantic/pkg/common"
	"github.com/nuclio/deepatlantic/pkg/common/headers"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/nuclio/logger"
	"github.com/rs/xid"
)

// RequestID injects a request ID into the context of each request and echoes it in the response.
// An incoming X-Request-Id is honoured, otherwise a new one is generated
func RequestID(next http.Handler) http.Handler {
	fn := func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(headers.RequestID)
		if requestID == "" {
			requestID = xid.New().String()
		}

		ctx := context.WithValue(r.Context(), middleware.RequestIDKey, requestID)
		ctx = context.WithValue(ctx, common.RequestIDContextKey, requestID)

		w.Header().Set(headers.RequestID, requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	}

	return http.HandlerFunc(fn)
}

// RequestResponseLogger logs handled requests. Bodies are streams of arbitrary size and are
// never logged
func RequestResponseLogger(loggerInstance logger.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, request *http.Request) {

			// create a response wrapper so we can access stuff
			responseWrapper := middleware.NewWrapResponseWriter(w, request.ProtoMajor)

			// take start time
			requestStartTime := time.Now()

			// when request processing is done, log the request / response
			defer func() {
				loggerInstance.DebugWith("Handled request",
					"requestID", middleware.GetReqID(request.Context()),
					"requestMethod", request.Method,
					"requestPath", request.URL.Path,
					"responseStatus", responseWrapper.Status(),
					"responseBytes", responseWrapper.BytesWritten(),
					"responseTime", time.Since(requestStartTime))
			}()

			// call next middleware
			next.ServeHTTP(responseWrapper, request)
		}

		return http.HandlerFunc(fn)
	}
}
