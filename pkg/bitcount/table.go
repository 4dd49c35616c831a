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

package bitcount

import "sync"

// OnesTable maps a byte value to the number of set bits in it. Read only once built
type OnesTable [256]uint8

// computed once, published to all callers (racing ones included) fully formed
var onesTableOnce = sync.OnceValue(NewOnesTable)

// GetOnesTable returns the process wide table, building it on first use
func GetOnesTable() *OnesTable {
	return onesTableOnce()
}

// NewOnesTable computes a fresh table
func NewOnesTable() *OnesTable {
	table := OnesTable{}

	for value := 0; value < len(table); value++ {
		var ones uint8

		for shift := 0; shift < 8; shift++ {
			ones += uint8((value >> shift) & 1)
		}

		table[value] = ones
	}

	return &table
}

// Ones returns the population count of b
func (ot *OnesTable) Ones(b byte) uint8 {
	return ot[b]
}
