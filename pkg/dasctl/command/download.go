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
	"bufio"
	"io"
	"net/url"
	"os"
	"path/filepath"

	"github.com/nuclio/deepatlantic/pkg/client"
	"github.com/nuclio/deepatlantic/pkg/common"
	"github.com/nuclio/deepatlantic/pkg/locator"
	"github.com/nuclio/deepatlantic/pkg/reconstruct"

	"github.com/nuclio/errors"
	"github.com/spf13/cobra"
)

const downloadBufferSize = 64 * 1024

type downloadCommandeer struct {
	cmd            *cobra.Command
	rootCommandeer *RootCommandeer
	stdout         bool
	remote         bool
	serverURL      string
	outputDir      string
	counts         countFlags
}

func newDownloadCommandeer(rootCommandeer *RootCommandeer) *downloadCommandeer {
	commandeer := &downloadCommandeer{
		rootCommandeer: rootCommandeer,
	}

	cmd := &cobra.Command{
		Use:   "download URL",
		Short: "Reconstruct the stream a locator describes",
		Long: `Reconstruct the stream a locator describes.

URL is a locator, either a path (/<cnt0>/<cnt1>/<filename>) or an absolute URL. With --cnt0 and
--cnt1 it is a plain filename instead. The output goes to a new file named after the basename of
the locator's filename, unless --stdout is given.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("Download requires a URL")
			}

			if commandeer.remote && commandeer.counts.isSet(cmd.Flags()) {
				return errors.New("Literal counts can't be downloaded from a server")
			}

			// initialize root
			if err := rootCommandeer.initialize(); err != nil {
				return errors.Wrap(err, "Failed to initialize root")
			}

			return commandeer.download(cmd, args[0])
		},
	}

	cmd.Flags().BoolVar(&commandeer.stdout, "stdout", false, "Write content to stdout")
	cmd.Flags().BoolVar(&commandeer.remote, "remote", false, "Fetch the stream from a storage server")
	cmd.Flags().StringVar(&commandeer.outputDir, "output-dir", ".", "Directory to create the output file in")
	addServerFlag(cmd.Flags(), &commandeer.serverURL, "Storage server that relative locators refer to")
	commandeer.counts.addTo(cmd.Flags())

	commandeer.cmd = cmd

	return commandeer
}

func (d *downloadCommandeer) download(cmd *cobra.Command, locatorURL string) error {
	requestedLocator, err := d.resolveLocator(cmd, locatorURL)
	if err != nil {
		return errors.Wrap(err, "Failed to resolve locator")
	}

	// reject bad counts before anything is created
	if err := requestedLocator.Counts.Validate(); err != nil {
		return errors.Wrap(err, "Can't reconstruct")
	}

	writeStream := func(writer io.Writer) error {
		if d.remote {
			return d.downloadRemote(cmd, locatorURL, writer)
		}

		bufferedWriter := bufio.NewWriterSize(writer, downloadBufferSize)
		if _, err := reconstruct.Write(bufferedWriter, requestedLocator.Counts); err != nil {
			return errors.Wrap(err, "Failed to reconstruct")
		}

		return bufferedWriter.Flush()
	}

	if d.stdout {
		return writeStream(cmd.OutOrStdout())
	}

	basename, err := common.GetBasename(requestedLocator.Filename)
	if err != nil {
		return errors.Wrap(err, "Failed to get basename")
	}

	outputPath := filepath.Join(d.outputDir, basename)

	// never overwrite an existing file
	outputFile, err := os.OpenFile(outputPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return errors.Wrapf(err, "Failed to create %s", outputPath)
	}

	writeErr := writeStream(outputFile)
	closeErr := outputFile.Close()

	if writeErr == nil && closeErr != nil {
		writeErr = errors.Wrapf(closeErr, "Failed to close %s", outputPath)
	}

	if writeErr != nil {
		if removeErr := os.Remove(outputPath); removeErr != nil {
			d.rootCommandeer.loggerInstance.WarnWith("Failed to remove partial output",
				"path", outputPath,
				"err", removeErr.Error())
		}

		return writeErr
	}

	d.rootCommandeer.loggerInstance.DebugWith("Downloaded",
		"path", outputPath,
		"totalBytes", requestedLocator.Counts.TotalBytes())

	return nil
}

func (d *downloadCommandeer) resolveLocator(cmd *cobra.Command, locatorURL string) (locator.Locator, error) {
	if d.counts.isSet(cmd.Flags()) {
		return d.counts.toLocator(locatorURL)
	}

	decoder, err := locator.NewDecoder(d.rootCommandeer.configuration.BaseURL)
	if err != nil {
		return locator.Locator{}, errors.Wrap(err, "Failed to create locator decoder")
	}

	return decoder.Decode(locatorURL)
}

func (d *downloadCommandeer) downloadRemote(cmd *cobra.Command, locatorURL string, writer io.Writer) error {
	serverURL := d.serverURL
	if serverURL == "" {
		serverURL = d.rootCommandeer.configuration.BaseURL
	}

	// an absolute locator names its own server
	if common.IsURL(locatorURL) {
		parsedLocatorURL, err := url.Parse(locatorURL)
		if err != nil {
			return errors.Wrap(err, "Failed to parse locator URL")
		}

		serverURL = parsedLocatorURL.Scheme + "://" + parsedLocatorURL.Host
	}

	if serverURL == "" {
		return errors.New("Relative locators require --server or a configured base URL")
	}

	storageClient, err := client.NewClient(d.rootCommandeer.loggerInstance, serverURL)
	if err != nil {
		return errors.Wrap(err, "Failed to create client")
	}

	if _, err := storageClient.Download(commandContext(cmd), locatorURL, writer); err != nil {
		return errors.Wrap(err, "Failed to download")
	}

	return nil
}
