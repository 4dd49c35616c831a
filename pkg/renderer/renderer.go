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

package renderer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/nuclio/deepatlantic/pkg/locator"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/nuclio/errors"
	"sigs.k8s.io/yaml"
)

const (
	OutputFormatTable = "table"
	OutputFormatJSON  = "json"
	OutputFormatYAML  = "yaml"
)

// LocatorRecord is how a decoded locator is presented
type LocatorRecord struct {
	Locator    string `json:"locator"`
	Cnt0       uint64 `json:"cnt0"`
	Cnt1       uint64 `json:"cnt1"`
	TotalBytes uint64 `json:"totalBytes"`
	Filename   string `json:"filename"`
}

type Renderer struct {
	output io.Writer
}

func NewRenderer(output io.Writer) *Renderer {
	return &Renderer{
		output: output,
	}
}

// RenderLocators renders decoded locators in the given output format
func (r *Renderer) RenderLocators(locators []locator.Locator, outputFormat string) error {
	records := make([]LocatorRecord, 0, len(locators))
	for _, decodedLocator := range locators {
		records = append(records, LocatorRecord{
			Locator:    locator.EncodeEscaped(decodedLocator.Counts, decodedLocator.Filename),
			Cnt0:       decodedLocator.Counts.Cnt0,
			Cnt1:       decodedLocator.Counts.Cnt1,
			TotalBytes: decodedLocator.Counts.TotalBytes(),
			Filename:   decodedLocator.Filename,
		})
	}

	switch outputFormat {
	case OutputFormatTable, "":
		header := []interface{}{"Locator", "Cnt0", "Cnt1", "Total bytes", "Filename"}

		var rows [][]interface{}
		for _, record := range records {
			rows = append(rows, []interface{}{
				record.Locator,
				record.Cnt0,
				record.Cnt1,
				record.TotalBytes,
				record.Filename,
			})
		}

		r.RenderTable(header, rows)
		return nil
	case OutputFormatJSON:
		return r.RenderJSON(records)
	case OutputFormatYAML:
		return r.RenderYAML(records)
	}

	return errors.Errorf("Unsupported output format: %s", outputFormat)
}

func (r *Renderer) RenderTable(header []interface{}, rows [][]interface{}) {
	tableWriter := table.NewWriter()
	tableWriter.SetOutputMirror(r.output)
	tableWriter.SetStyle(table.Style{
		Name: "Storage",
		Box: table.BoxStyle{
			MiddleVertical: "|",
			PaddingLeft:    " ",
			PaddingRight:   " ",
		},
		Options: table.Options{
			DoNotColorBordersAndSeparators: true,
			DrawBorder:                     false,
			SeparateColumns:                true,
		},
		Color:  table.ColorOptionsDefault,
		Format: table.FormatOptionsDefault,
		HTML:   table.DefaultHTMLOptions,
		Title:  table.TitleOptionsDefault,
	})

	tableWriter.AppendHeader(table.Row(header))
	for _, row := range rows {
		tableWriter.AppendRow(table.Row(row))
	}

	tableWriter.Render()
}

func (r *Renderer) RenderYAML(items interface{}) error {
	body, err := yaml.Marshal(items)
	if err != nil {
		return errors.Wrap(err, "Failed to render YAML")
	}

	fmt.Fprint(r.output, string(body)) // nolint: errcheck

	return nil
}

func (r *Renderer) RenderJSON(items interface{}) error {
	body, err := json.Marshal(items)
	if err != nil {
		return errors.Wrap(err, "Failed to render JSON")
	}

	var indentedBody bytes.Buffer
	if err := json.Indent(&indentedBody, body, "", "\t"); err != nil {
		return errors.Wrap(err, "Failed to indent JSON")
	}

	fmt.Fprintln(r.output, indentedBody.String()) // nolint: errcheck

	return nil
}
