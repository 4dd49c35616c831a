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
	"github.com/nuclio/deepatlantic/pkg/locator"
	"github.com/nuclio/deepatlantic/pkg/renderer"

	"github.com/nuclio/errors"
	"github.com/spf13/cobra"
)

type inspectCommandeer struct {
	cmd            *cobra.Command
	rootCommandeer *RootCommandeer
	output         string
}

func newInspectCommandeer(rootCommandeer *RootCommandeer) *inspectCommandeer {
	commandeer := &inspectCommandeer{
		rootCommandeer: rootCommandeer,
	}

	cmd := &cobra.Command{
		Use:   "inspect LOCATOR [LOCATOR...]",
		Short: "Decode locators and show their counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return errors.New("Inspect requires at least one locator")
			}

			// initialize root
			if err := rootCommandeer.initialize(); err != nil {
				return errors.Wrap(err, "Failed to initialize root")
			}

			decoder, err := locator.NewDecoder(rootCommandeer.configuration.BaseURL)
			if err != nil {
				return errors.Wrap(err, "Failed to create locator decoder")
			}

			var decodedLocators []locator.Locator
			for _, encodedLocator := range args {
				decodedLocator, err := decoder.Decode(encodedLocator)
				if err != nil {
					return errors.Wrap(err, "Failed to decode locator")
				}

				decodedLocators = append(decodedLocators, decodedLocator)
			}

			return renderer.NewRenderer(cmd.OutOrStdout()).RenderLocators(decodedLocators, commandeer.output)
		},
	}

	addOutputFormatFlag(cmd.Flags(), &commandeer.output)

	commandeer.cmd = cmd

	return commandeer
}
