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
	"context"
	"os"

	"github.com/nuclio/deepatlantic/pkg/loggersink"
	"github.com/nuclio/deepatlantic/pkg/storageconfig"

	"github.com/nuclio/errors"
	"github.com/nuclio/logger"
	"github.com/spf13/cobra"
)

const defaultConfigurationPath = "~/.dasctl.yaml"

type RootCommandeer struct {
	loggerInstance      logger.Logger
	cmd                 *cobra.Command
	verbose             bool
	configurationPath   string
	configuration       *storageconfig.Config
	configurationReader *storageconfig.Reader
}

func NewRootCommandeer() *RootCommandeer {
	commandeer := &RootCommandeer{}

	cmd := &cobra.Command{
		Use:           "dasctl [command]",
		Short:         "Deep Atlantic Storage command-line interface",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	defaultConfiguration := os.Getenv("DASCTL_CONFIG")
	if defaultConfiguration == "" {
		defaultConfiguration = defaultConfigurationPath
	}

	cmd.PersistentFlags().BoolVarP(&commandeer.verbose, "verbose", "v", false, "Verbose output")
	cmd.PersistentFlags().StringVarP(&commandeer.configurationPath,
		"config",
		"c",
		defaultConfiguration,
		"Path to a configuration file (YAML, or TOML by extension)")

	// add children
	cmd.AddCommand(
		newUploadCommandeer(commandeer).cmd,
		newDownloadCommandeer(commandeer).cmd,
		newInspectCommandeer(commandeer).cmd,
		newServeCommandeer(commandeer).cmd,
		newVersionCommandeer(commandeer).cmd,
	)

	commandeer.cmd = cmd

	return commandeer
}

// Execute uses os.Args to execute the command
func (rc *RootCommandeer) Execute() error {
	return rc.cmd.Execute()
}

// GetCmd returns the underlying cobra command
func (rc *RootCommandeer) GetCmd() *cobra.Command {
	return rc.cmd
}

func (rc *RootCommandeer) initialize() error {
	var err error

	rc.configurationReader, err = storageconfig.NewReader()
	if err != nil {
		return errors.Wrap(err, "Failed to create configuration reader")
	}

	rc.configuration, err = rc.configurationReader.ReadFileOrDefault(rc.configurationPath)
	if err != nil {
		return errors.Wrap(err, "Failed to read configuration")
	}

	rc.loggerInstance, err = rc.createLogger()
	if err != nil {
		return errors.Wrap(err, "Failed to create logger")
	}

	rc.loggerInstance.DebugWith("Initialized", "configurationPath", rc.configurationPath)

	return nil
}

func (rc *RootCommandeer) createLogger() (logger.Logger, error) {

	// verbose overrides whatever levels were configured
	if rc.verbose {
		for bindingIdx := range rc.configuration.Logger.System {
			rc.configuration.Logger.System[bindingIdx].Level = "debug"
		}
	}

	loggerInstance, err := loggersink.CreateSystemLogger("dasctl", rc.configuration)
	if err != nil {
		return nil, errors.Wrap(err, "Failed to create system logger")
	}

	return loggerInstance, nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}

	return context.Background()
}
