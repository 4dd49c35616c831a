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

package healthcheck

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/nuclio/deepatlantic/pkg/common/status"
	"github.com/nuclio/deepatlantic/pkg/storageconfig"

	"github.com/heptiolabs/healthcheck"
	"github.com/nuclio/errors"
	"github.com/nuclio/logger"
)

// Server serves /live and /ready on a listener of its own
type Server struct {
	Enabled        bool
	ListenAddress  string
	Logger         logger.Logger
	StatusProvider status.Provider
	Handler        healthcheck.Handler

	httpServer *http.Server
	listener   net.Listener
}

func NewServer(parentLogger logger.Logger,
	statusProvider status.Provider,
	configuration *storageconfig.WebServer) (*Server, error) {
	if configuration.Enabled == nil {
		return nil, errors.New("Enabled must carry a value")
	}

	server := &Server{
		Enabled:        *configuration.Enabled,
		ListenAddress:  configuration.ListenAddress,
		Logger:         parentLogger.GetChild("healthcheck"),
		StatusProvider: statusProvider,
		Handler:        healthcheck.NewHandler(),
	}

	// readiness follows the provider, liveness only requires that we're serving at all
	server.Handler.AddReadinessCheck("storage_readiness", func() error {
		if currentStatus := server.StatusProvider.GetStatus(); currentStatus != status.Ready {
			return errors.Errorf("Storage server not ready (%s)", currentStatus)
		}

		return nil
	})

	server.Handler.AddLivenessCheck("storage_liveness", func() error {
		if server.StatusProvider.GetStatus() == status.Error {
			return errors.New("Storage server failed")
		}

		return nil
	})

	return server, nil
}

// Start listens and serves in the background. Does nothing when disabled
func (s *Server) Start() error {
	if !s.Enabled {
		s.Logger.Debug("Disabled, not listening")
		return nil
	}

	listener, err := net.Listen("tcp", s.ListenAddress)
	if err != nil {
		return errors.Wrapf(err, "Failed to listen on %s", s.ListenAddress)
	}

	s.listener = listener
	s.httpServer = &http.Server{
		Handler:           s.Handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go s.httpServer.Serve(listener) // nolint: errcheck

	s.Logger.InfoWith("Listening", "listenAddress", listener.Addr().String())
	return nil
}

// Address returns the address actually listened on, once started
func (s *Server) Address() string {
	if s.listener == nil {
		return ""
	}

	return s.listener.Addr().String()
}

func (s *Server) Stop(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}

	return s.httpServer.Shutdown(ctx)
}
