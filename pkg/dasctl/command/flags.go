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
	"github.com/nuclio/deepatlantic/pkg/bitcount"
	"github.com/nuclio/deepatlantic/pkg/locator"
	"github.com/nuclio/deepatlantic/pkg/renderer"

	"github.com/nuclio/errors"
	"github.com/spf13/pflag"
)

func addServerFlag(flags *pflag.FlagSet, target *string, usage string) {
	flags.StringVarP(target, "server", "s", "", usage)
}

func addOutputFormatFlag(flags *pflag.FlagSet, target *string) {
	flags.StringVarP(target,
		"output",
		"o",
		renderer.OutputFormatTable,
		"Output format - \"table\", \"json\", or \"yaml\"")
}

// countFlags holds literal counts given instead of a locator
type countFlags struct {
	cnt0 string
	cnt1 string
}

func (cf *countFlags) addTo(flags *pflag.FlagSet) {
	flags.StringVar(&cf.cnt0, "cnt0", "", "Zero bit count in hex, used with --cnt1 instead of a locator")
	flags.StringVar(&cf.cnt1, "cnt1", "", "One bit count in hex, used with --cnt0 instead of a locator")
}

func (cf *countFlags) isSet(flags *pflag.FlagSet) bool {
	return flags.Changed("cnt0") || flags.Changed("cnt1")
}

// toLocator builds a locator from the literal counts and a filename
func (cf *countFlags) toLocator(filename string) (locator.Locator, error) {
	cnt0, err := locator.ParseCount(cf.cnt0)
	if err != nil {
		return locator.Locator{}, errors.Wrapf(err, "Invalid zero bit count %q", cf.cnt0)
	}

	cnt1, err := locator.ParseCount(cf.cnt1)
	if err != nil {
		return locator.Locator{}, errors.Wrapf(err, "Invalid one bit count %q", cf.cnt1)
	}

	return locator.Locator{
		Counts: bitcount.BitCounts{
			Cnt0: cnt0,
			Cnt1: cnt1,
		},
		Filename: filename,
	}, nil
}
