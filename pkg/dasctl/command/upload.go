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
	"fmt"
	"io"
	"os"

	"github.com/nuclio/deepatlantic/pkg/bitcount"
	"github.com/nuclio/deepatlantic/pkg/client"
	"github.com/nuclio/deepatlantic/pkg/common"
	"github.com/nuclio/deepatlantic/pkg/locator"

	"github.com/nuclio/errors"
	"github.com/spf13/cobra"
)

type uploadCommandeer struct {
	cmd            *cobra.Command
	rootCommandeer *RootCommandeer
	stdin          bool
	serverURL      string
}

func newUploadCommandeer(rootCommandeer *RootCommandeer) *uploadCommandeer {
	commandeer := &uploadCommandeer{
		rootCommandeer: rootCommandeer,
	}

	cmd := &cobra.Command{
		Use:   "upload FILENAME",
		Short: "Count a file's bits and print its locator",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("Upload requires a filename")
			}

			// initialize root
			if err := rootCommandeer.initialize(); err != nil {
				return errors.Wrap(err, "Failed to initialize root")
			}

			return commandeer.upload(cmd, args[0])
		},
	}

	cmd.Flags().BoolVar(&commandeer.stdin, "stdin", false, "Read content from stdin, naming it FILENAME")
	addServerFlag(cmd.Flags(), &commandeer.serverURL, "Upload to a running storage server at this URL")

	commandeer.cmd = cmd

	return commandeer
}

func (u *uploadCommandeer) upload(cmd *cobra.Command, filename string) error {
	basename, err := common.GetBasename(filename)
	if err != nil {
		return errors.Wrap(err, "Failed to get basename")
	}

	var input io.Reader

	if u.stdin {
		input = cmd.InOrStdin()
	} else {
		if !common.IsFile(filename) {
			return errors.Errorf("Not a regular file: %s", filename)
		}

		inputFile, err := os.Open(filename)
		if err != nil {
			return errors.Wrapf(err, "Failed to open %s", filename)
		}

		defer inputFile.Close() // nolint: errcheck

		input = inputFile
	}

	var uploadedLocator string

	if u.serverURL != "" {
		storageClient, err := client.NewClient(u.rootCommandeer.loggerInstance, u.serverURL)
		if err != nil {
			return errors.Wrap(err, "Failed to create client")
		}

		uploadResult, err := storageClient.Upload(commandContext(cmd), basename, input)
		if err != nil {
			return errors.Wrap(err, "Failed to upload")
		}

		uploadedLocator = uploadResult.Locator
	} else {
		counts, err := bitcount.Count(input)
		if err != nil {
			return errors.Wrapf(err, "Failed to count %s", filename)
		}

		uploadedLocator = locator.EncodeEscaped(counts, basename)
	}

	u.rootCommandeer.loggerInstance.DebugWith("Uploaded",
		"filename", filename,
		"locator", uploadedLocator)

	fmt.Fprintln(cmd.OutOrStdout(), uploadedLocator) // nolint: errcheck

	return nil
}
