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

package command

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/nuclio/deepatlantic/pkg/common"
	"github.com/nuclio/deepatlantic/pkg/storageconfig"
	"github.com/nuclio/deepatlantic/pkg/storageserver"

	"github.com/nuclio/errors"
	"github.com/spf13/cobra"
	"github.com/v3io/version-go"
)

type serveCommandeer struct {
	cmd            *cobra.Command
	rootCommandeer *RootCommandeer
	overrides      storageconfig.Config
}

func newServeCommandeer(rootCommandeer *RootCommandeer) *serveCommandeer {
	commandeer := &serveCommandeer{
		rootCommandeer: rootCommandeer,
	}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the storage server",
		RunE: func(cmd *cobra.Command, args []string) error {

			// initialize root
			if err := rootCommandeer.initialize(); err != nil {
				return errors.Wrap(err, "Failed to initialize root")
			}

			configuration := rootCommandeer.configuration
			if err := rootCommandeer.configurationReader.Override(configuration, &commandeer.overrides); err != nil {
				return errors.Wrap(err, "Failed to apply flags")
			}

			// uploads report locators relative to where we listen unless told otherwise
			if configuration.BaseURL == "" {
				configuration.BaseURL = common.ListenAddressToURL(configuration.WebServer.ListenAddress)
			}

			server, err := storageserver.NewServer(rootCommandeer.loggerInstance, configuration)
			if err != nil {
				return errors.Wrap(err, "Failed to create server")
			}

			versionInfo := version.Get()
			if versionInfo == nil {
				versionInfo = &version.Info{}
			}

			rootCommandeer.loggerInstance.InfoWith("Starting",
				"version", versionInfo,
				"listenAddress", configuration.WebServer.ListenAddress,
				"baseURL", configuration.BaseURL)

			ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return server.Run(ctx)
		},
	}

	cmd.Flags().StringVarP(&commandeer.overrides.WebServer.ListenAddress,
		"listen",
		"l",
		"",
		"Listen HOST:PORT (default from configuration, "+storageconfig.DefaultListenAddress+")")
	cmd.Flags().StringVar(&commandeer.overrides.BaseURL,
		"base-url",
		"",
		"Origin that relative locators resolve against")

	commandeer.cmd = cmd

	return commandeer
}
