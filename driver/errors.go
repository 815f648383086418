// Copyright (c) 2026 The Rawcook Authors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of rawcook.
//
// rawcook is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// rawcook is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with rawcook.  If not, see <https://www.gnu.org/licenses/>.

// Package driver orchestrates one run end to end: enumerating input files,
// probing them against the raw-file variants, grouping image sequences,
// building a reversibility segment and codec essence, and finally writing
// or verifying the reconstructed files, in the phase order spec.md §4.6
// lays out.
package driver

import (
	"errors"
	"fmt"
)

// ErrMalformedContainer is returned when an output file doesn't start with
// this driver's own outer framing.
var ErrMalformedContainer = errors.New("driver: malformed container")

// ErrCoherency is returned when cross-stream duration agreement fails
// (§7's Coherency fault category).
var ErrCoherency = errors.New("driver: coherency check failed")

// ErrNoInputFiles is returned when a run's input list is empty after
// enumeration.
var ErrNoInputFiles = errors.New("driver: no input files")

// CoherencyError names the two streams whose durations disagree.
type CoherencyError struct {
	StreamA, StreamB     string
	DurationA, DurationB float64
}

func (e CoherencyError) Error() string {
	return fmt.Sprintf("%v: %q (%.6fs) vs %q (%.6fs)", ErrCoherency, e.StreamA, e.DurationA, e.StreamB, e.DurationB)
}

func (e CoherencyError) Unwrap() error { return ErrCoherency }
