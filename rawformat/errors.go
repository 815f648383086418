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

// Package rawformat implements the raw-file parsers that separate
// codec-compressible payload from the non-payload Before/After/In byte
// ranges of WAV, AIFF, DPX, and TIFF files, and classify the payload's
// flavor (the handshake with the downstream payload codec).
package rawformat

import "fmt"

// Severity names the error-handling-design category a Fault belongs to.
type Severity int

const (
	// Undecodable marks format-level corruption: bad magic after detection,
	// a chunk size overflow, or a truncated container.
	Undecodable Severity = iota
	// Unsupported marks a well-formed file outside the codec's accepted
	// flavor set (e.g. a compression type other than raw PCM).
	Unsupported
	// Coherency marks a cross-stream mismatch discovered by the driver.
	Coherency
	// Reversibility marks a decode-time check failure.
	Reversibility
)

func (s Severity) String() string {
	switch s {
	case Undecodable:
		return "Undecodable"
	case Unsupported:
		return "Unsupported"
	case Coherency:
		return "Coherency"
	case Reversibility:
		return "Reversibility"
	default:
		return "Unknown"
	}
}

// Fault is one diagnostic raised while parsing a single file.
type Fault struct {
	Severity Severity
	Parser   string // e.g. "WAV", "AIFF", "DPX", "TIFF"
	Code     string // short machine-stable reason, e.g. "COMM_compressionType_NotPcm"
	Offset   int64
	Detail   string
}

func (f Fault) Error() string {
	if f.Detail != "" {
		return fmt.Sprintf("%s(%s): %s at offset %d: %s", f.Severity, f.Parser, f.Code, f.Offset, f.Detail)
	}
	return fmt.Sprintf("%s(%s): %s at offset %d", f.Severity, f.Parser, f.Code, f.Offset)
}

// Sink collects faults for one parse pass. It implements the suppression
// rule from the error handling design: the first Undecodable fault raised
// at a given offset by a given parser suppresses any further Undecodable
// fault from that same parser (cascades after a buffer overflow are noise);
// Unsupported faults are never suppressed, so a file can accumulate several
// distinct limitation notes in one pass.
type Sink struct {
	faults    []Fault
	suppress  map[string]bool
}

// NewSink returns an empty fault sink.
func NewSink() *Sink {
	return &Sink{suppress: make(map[string]bool)}
}

// Raise records a fault, honoring Undecodable suppression per parser.
func (s *Sink) Raise(f Fault) {
	if f.Severity == Undecodable {
		if s.suppress[f.Parser] {
			return
		}
		s.suppress[f.Parser] = true
	}
	s.faults = append(s.faults, f)
}

// Faults returns a stable snapshot of everything raised so far.
func (s *Sink) Faults() []Fault {
	out := make([]Fault, len(s.faults))
	copy(out, s.faults)
	return out
}

// HasUndecodable reports whether any Undecodable fault was raised.
func (s *Sink) HasUndecodable() bool {
	for _, f := range s.faults {
		if f.Severity == Undecodable {
			return true
		}
	}
	return false
}

// HasUnsupported reports whether any Unsupported fault was raised.
func (s *Sink) HasUnsupported() bool {
	for _, f := range s.faults {
		if f.Severity == Unsupported {
			return true
		}
	}
	return false
}
