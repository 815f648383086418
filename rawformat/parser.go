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

package rawformat

// Range is a [Start, End) byte range within a parsed buffer.
type Range struct {
	Start, End int
}

// Len reports the width of the range in bytes.
func (r Range) Len() int { return r.End - r.Start }

// Slice returns the bytes of the range from buf.
func (r Range) Slice(buf []byte) []byte { return buf[r.Start:r.End] }

// StreamInfo carries the stream-level metadata a variant can derive from a
// single file: sample rate/frame count for audio, frame rate/pixel
// dimensions/slice count for image sequences.
type StreamInfo struct {
	SampleRate  int
	FrameCount  int
	FrameRate   float64
	Width       int
	Height      int
	SliceCount  int
	DurationSec float64
}

// Variant names which concrete parser produced a Result, used to key the
// fault Sink and to let the sequence detector recognize image variants.
type Variant string

const (
	VariantWAV      Variant = "WAV"
	VariantAIFF     Variant = "AIFF"
	VariantDPX      Variant = "DPX"
	VariantTIFF     Variant = "TIFF"
	VariantHashList Variant = "HashList"
	VariantUnknown  Variant = "Unknown"
)

// IsImage reports whether the variant is one the sequence detector groups
// into multi-file streams.
func (v Variant) IsImage() bool { return v == VariantDPX || v == VariantTIFF }

// Result is what a Parser variant emits for one file's buffer: whether the
// variant recognized the file, whether it is within the codec's supported
// flavor set, the payload/non-payload ranges, and any derived stream info.
type Result struct {
	Variant    Variant
	Detected   bool
	Supported  bool
	Problem    bool // padding-problem flag (§4.1 DPX/TIFF padding-check)
	AudioFlv   *AudioFlavor
	ImageFlv   *ImageFlavor
	Payload    Range
	Before     Range
	After      Range
	In         []Range
	Info       StreamInfo
	Faults     []Fault
}

// FileSize is the sum of every byte range the result accounts for: Before,
// Payload, every In range, and After. This is the invariant §3 requires:
// len(Before) + len(payload) + Σ len(In) + len(After) == FileSize.
func (r Result) FileSize() int {
	total := r.Before.Len() + r.Payload.Len() + r.After.Len()
	for _, in := range r.In {
		total += in.Len()
	}
	return total
}

// Parser is one raw-file variant's entry point: it inspects buf (the full
// contents of one candidate file) and reports detection/support/flavor/
// ranges, recording any faults into sink.
type Parser interface {
	// Name identifies the variant for fault attribution and dispatch order.
	Name() Variant
	// Parse inspects buf and returns a Result. filename is used only for
	// extension-based tie-breaks (e.g. distinguishing DPX from TIFF when
	// magic alone is ambiguous) and is never required to match detection.
	Parse(filename string, buf []byte, opts Options, sink *Sink) Result
}

// Options threads the driver's coherency/truncation/padding policy flags
// into the variant parsers (§6 CLI surface, the subset the parser layer
// itself consults).
type Options struct {
	// AcceptTruncated clamps an overrun chunk/data size to the container's
	// actual length instead of raising Undecodable(TruncatedChunk).
	AcceptTruncated bool
	// CheckPadding scans DPX padding bits for non-zero content and
	// raises the Problem flag instead of silently letting the codec
	// normalize them away.
	CheckPadding bool
}

// Variants is the dispatch order the Driver probes a file against: the
// first variant to set Detected claims the file (§4.6 phase 2). Container
// is intentionally absent — the generic EBML-like element parser is an
// external collaborator per spec.md §1, so dispatch begins at WAV.
func Variants() []Parser {
	return []Parser{
		&wavParser{},
		&aiffParser{},
		&dpxParser{},
		&tiffParser{},
		&hashListParser{},
		&unknownParser{},
	}
}

// Detect runs filename/buf through Variants() in order and returns the
// first Result with Detected set. unknownParser always detects, so Detect
// never returns a false ok.
func Detect(filename string, buf []byte, opts Options, sink *Sink) Result {
	for _, p := range Variants() {
		res := p.Parse(filename, buf, opts, sink)
		if res.Detected {
			return res
		}
	}
	// Unreachable: unknownParser.Parse always sets Detected.
	return Result{Variant: VariantUnknown, Detected: true, Before: Range{0, len(buf)}}
}
