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
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/nuclio/deepatlantic/pkg/common/status"
	"github.com/nuclio/deepatlantic/pkg/storageconfig"

	"github.com/nuclio/logger"
	"github.com/nuclio/zap"
	"github.com/stretchr/testify/suite"
)

type HealthCheckTestSuite struct {
	suite.Suite
	logger logger.Logger
	status *status.Holder
}

func (suite *HealthCheckTestSuite) SetupTest() {
	suite.logger, _ = nucliozap.NewNuclioZapTest("test")
	suite.status = &status.Holder{}
}

func (suite *HealthCheckTestSuite) TestEnabledRequired() {
	_, err := NewServer(suite.logger, suite.status, &storageconfig.WebServer{})
	suite.Require().Error(err)
}

func (suite *HealthCheckTestSuite) TestReadiness() {
	server := suite.newServer(true, "127.0.0.1:0")

	suite.Require().Equal(http.StatusServiceUnavailable, suite.get(server, "/ready"))
	suite.Require().Equal(http.StatusOK, suite.get(server, "/live"))

	suite.status.SetStatus(status.Ready)
	suite.Require().Equal(http.StatusOK, suite.get(server, "/ready"))

	suite.status.SetStatus(status.Error)
	suite.Require().Equal(http.StatusServiceUnavailable, suite.get(server, "/ready"))
	suite.Require().Equal(http.StatusServiceUnavailable, suite.get(server, "/live"))
}

func (suite *HealthCheckTestSuite) TestStartDisabled() {
	server := suite.newServer(false, "127.0.0.1:0")

	suite.Require().NoError(server.Start())
	suite.Require().Empty(server.Address())
	suite.Require().NoError(server.Stop(context.Background()))
}

func (suite *HealthCheckTestSuite) TestStartAndServe() {
	server := suite.newServer(true, "127.0.0.1:0")
	suite.status.SetStatus(status.Ready)

	suite.Require().NoError(server.Start())
	defer server.Stop(context.Background()) // nolint: errcheck

	response, err := http.Get("http://" + server.Address() + "/ready")
	suite.Require().NoError(err)
	response.Body.Close() // nolint: errcheck
	suite.Require().Equal(http.StatusOK, response.StatusCode)
}

func (suite *HealthCheckTestSuite) newServer(enabled bool, listenAddress string) *Server {
	server, err := NewServer(suite.logger, suite.status, &storageconfig.WebServer{
		Enabled:       &enabled,
		ListenAddress: listenAddress,
	})
	suite.Require().NoError(err)

	return server
}

func (suite *HealthCheckTestSuite) get(server *Server, path string) int {
	recorder := httptest.NewRecorder()
	server.Handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, path, nil))

	return recorder.Code
}

func TestHealthCheckTestSuite(t *testing.T) {
	suite.Run(t, new(HealthCheckTestSuite))
}
