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
	"context"
	"net"
	"net/http"
	"time"

	"github.com/nuclio/deepatlantic/pkg/bitcount"
	"github.com/nuclio/deepatlantic/pkg/common"
	"github.com/nuclio/deepatlantic/pkg/common/headers"
	"github.com/nuclio/deepatlantic/pkg/common/healthcheck"
	"github.com/nuclio/deepatlantic/pkg/common/status"
	"github.com/nuclio/deepatlantic/pkg/errgroup"
	"github.com/nuclio/deepatlantic/pkg/locator"
	"github.com/nuclio/deepatlantic/pkg/metrics"
	"github.com/nuclio/deepatlantic/pkg/reconstruct"
	"github.com/nuclio/deepatlantic/pkg/storageconfig"
	storagemiddleware "github.com/nuclio/deepatlantic/pkg/storageserver/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/nuclio/errors"
	"github.com/nuclio/logger"
	"github.com/nuclio/nuclio-sdk-go"
)

const (
	UploadPathPrefix = "/upload/"

	shutdownTimeout = 10 * time.Second
)

// Server serves reconstructed streams at their locators and counts uploads
type Server struct {
	Logger        logger.Logger
	Router        chi.Router
	configuration *storageconfig.Config
	decoder       *locator.Decoder
	counter       *bitcount.Counter
	reconstructor *reconstruct.Reconstructor
	metrics       *metrics.Recorder
	status        status.Holder

	healthCheckServer *healthcheck.Server
	httpServer        *http.Server
	listener          net.Listener
}

func NewServer(parentLogger logger.Logger, configuration *storageconfig.Config) (*Server, error) {
	if err := configuration.Validate(); err != nil {
		return nil, errors.Wrap(err, "Invalid configuration")
	}

	decoder, err := locator.NewDecoder(configuration.BaseURL)
	if err != nil {
		return nil, errors.Wrap(err, "Failed to create locator decoder")
	}

	newServer := &Server{
		Logger:        parentLogger.GetChild("server"),
		configuration: configuration,
		decoder:       decoder,
		counter:       bitcount.NewCounter(bitcount.GetOnesTable()),
		reconstructor: reconstruct.NewReconstructor(),
	}

	if configuration.MetricsEnabled() {
		newServer.metrics, err = metrics.NewRecorder(configuration.WebServer.ListenAddress)
		if err != nil {
			return nil, errors.Wrap(err, "Failed to create metrics recorder")
		}
	}

	newServer.healthCheckServer, err = healthcheck.NewServer(newServer.Logger,
		&newServer.status,
		&configuration.HealthCheck)
	if err != nil {
		return nil, errors.Wrap(err, "Failed to create health check server")
	}

	newServer.Router = newServer.createRouter()

	return newServer, nil
}

func (s *Server) ServeHTTP(responseWriter http.ResponseWriter, request *http.Request) {
	s.Router.ServeHTTP(responseWriter, request)
}

func (s *Server) GetStatus() status.Status {
	return s.status.GetStatus()
}

// Start listens on the configured address and serves in the background
func (s *Server) Start() error {
	if s.configuration.WebServer.Enabled != nil && !*s.configuration.WebServer.Enabled {
		s.Logger.Debug("Disabled, not listening")
		return nil
	}

	if err := s.healthCheckServer.Start(); err != nil {
		return errors.Wrap(err, "Failed to start health check server")
	}

	listener, err := net.Listen("tcp", s.configuration.WebServer.ListenAddress)
	if err != nil {
		s.status.SetStatus(status.Error)
		return errors.Wrapf(err, "Failed to listen on %s", s.configuration.WebServer.ListenAddress)
	}

	s.listener = listener
	s.httpServer = &http.Server{
		Handler:           s.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		defer common.CatchAndLogPanic(context.Background(), s.Logger, "serve", nil)

		if err := s.httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			s.Logger.ErrorWith("Server stopped unexpectedly", "err", err.Error())
			s.status.SetStatus(status.Error)
		}
	}()

	s.status.SetStatus(status.Ready)
	s.Logger.InfoWith("Listening", "listenAddress", listener.Addr().String())

	return nil
}

// Run starts the server and blocks until ctx is done, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	if err := s.Start(); err != nil {
		return errors.Wrap(err, "Failed to start server")
	}

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return s.Stop(shutdownCtx)
}

// Stop shuts the server and its health check listener down
func (s *Server) Stop(ctx context.Context) error {
	s.status.SetStatus(status.Stopped)

	shutdownGroup, _ := errgroup.WithContext(ctx, s.Logger, 2)

	shutdownGroup.Go("shutdown server", func() error {
		if s.httpServer == nil {
			return nil
		}

		return s.httpServer.Shutdown(ctx)
	})

	shutdownGroup.Go("shutdown health check", func() error {
		return s.healthCheckServer.Stop(ctx)
	})

	if err := shutdownGroup.Wait(); err != nil {
		return errors.Wrap(err, "Failed to shut down")
	}

	s.Logger.Info("Stopped")
	return nil
}

// Address returns the address actually listened on, once started
func (s *Server) Address() string {
	if s.listener == nil {
		return ""
	}

	return s.listener.Addr().String()
}

func (s *Server) createRouter() chi.Router {
	router := chi.NewRouter()

	router.Use(middleware.Recoverer)
	router.Use(storagemiddleware.RequestID)
	router.Use(storagemiddleware.RequestResponseLogger(s.Logger))

	allowedOrigins := s.configuration.CORS.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodHead, http.MethodPost, http.MethodOptions},
		ExposedHeaders: []string{
			headers.ContentDisposition,
			headers.ContentLength,
			headers.Location,
			headers.RequestID,
			headers.Cnt0,
			headers.Cnt1,
			headers.TotalBytes,
		},
	}))

	if s.metrics != nil {
		router.Method(http.MethodGet, s.configuration.Metrics.Path, s.metrics.Handler())
	}

	router.Post(UploadPathPrefix+"{filename}", s.handleUpload)

	// every other path is a candidate locator
	router.Get("/*", s.handleDownload)
	router.Head("/*", s.handleDownload)

	router.NotFound(func(responseWriter http.ResponseWriter, request *http.Request) {
		s.writeError(responseWriter, request, nuclio.NewErrNotFound("Not found"))
	})

	router.MethodNotAllowed(func(responseWriter http.ResponseWriter, request *http.Request) {
		s.writeError(responseWriter,
			request,
			nuclio.GetByStatusCode(http.StatusMethodNotAllowed)("Method not allowed"))
	})

	return router
}
