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

import (
	"github.com/avrawcook/rawcook/internal/binary"
)

const (
	tiffTagImageWidth     = 256
	tiffTagImageLength    = 257
	tiffTagBitsPerSample  = 258
	tiffTagSamplesPerPxl  = 277
	tiffTagStripOffsets   = 273
	tiffTagStripByteCnt   = 279
)

type tiffIFDEntry struct {
	tag, typ uint16
	count    uint32
	value    uint32 // the value, or offset to it when it doesn't fit inline
}

type tiffParser struct{}

func (tiffParser) Name() Variant { return VariantTIFF }

//nolint:gocognit // IFD tag scanning inherently branches per tag of interest
func (tiffParser) Parse(_ string, buf []byte, _ Options, sink *Sink) Result {
	res := Result{Variant: VariantTIFF}
	if len(buf) < 8 {
		return res
	}
	order := string(buf[0:2])
	bigEndian := order == "MM"
	if !bigEndian && order != "II" {
		return res
	}
	c := binary.NewCursor(buf)
	c.Seek(2)
	var magic uint16
	if bigEndian {
		magic = c.B2()
	} else {
		magic = c.L2()
	}
	if magic != 42 {
		return res
	}
	res.Detected = true

	var ifdOffset uint32
	if bigEndian {
		ifdOffset = c.B4()
	} else {
		ifdOffset = c.L4()
	}
	if int(ifdOffset)+2 > len(buf) {
		sink.Raise(Fault{Severity: Undecodable, Parser: "TIFF", Code: "bad_ifd_offset"})
		return res
	}

	c.Seek(int(ifdOffset))
	var numEntries uint16
	if bigEndian {
		numEntries = c.B2()
	} else {
		numEntries = c.L2()
	}

	entries := make([]tiffIFDEntry, 0, numEntries)
	for i := 0; i < int(numEntries); i++ {
		var e tiffIFDEntry
		if bigEndian {
			e.tag = c.B2()
			e.typ = c.B2()
			e.count = c.B4()
			e.value = c.B4()
		} else {
			e.tag = c.L2()
			e.typ = c.L2()
			e.count = c.L4()
			e.value = c.L4()
		}
		if c.Overflowed() {
			sink.Raise(Fault{Severity: Undecodable, Parser: "TIFF", Code: "ifd_truncated"})
			return res
		}
		entries = append(entries, e)
	}

	var width, height, bitsPerSample, samplesPerPixel, stripOffset, stripBytes uint32
	samplesPerPixel = 1
	for _, e := range entries {
		switch e.tag {
		case tiffTagImageWidth:
			width = e.value
		case tiffTagImageLength:
			height = e.value
		case tiffTagBitsPerSample:
			if e.count > 1 {
				// Value is an offset to an array; the first sample's depth
				// is representative for flavor purposes.
				bitsPerSample = readTIFFShortAt(buf, int(e.value), bigEndian)
			} else if bigEndian {
				bitsPerSample = e.value >> 16
			} else {
				bitsPerSample = e.value & 0xFFFF
			}
		case tiffTagSamplesPerPxl:
			samplesPerPixel = e.value
			if bigEndian {
				samplesPerPixel = e.value >> 16
			} else {
				samplesPerPixel = e.value & 0xFFFF
			}
		case tiffTagStripOffsets:
			stripOffset = e.value
		case tiffTagStripByteCnt:
			stripBytes = e.value
		}
	}

	if stripOffset == 0 || stripBytes == 0 {
		sink.Raise(Fault{Severity: Undecodable, Parser: "TIFF", Code: "no_strip_data"})
		return res
	}
	payloadEnd := int(stripOffset + stripBytes)
	if payloadEnd > len(buf) {
		sink.Raise(Fault{Severity: Undecodable, Parser: "TIFF", Code: "strip_overruns_file"})
		return res
	}

	res.Supported = true
	res.ImageFlv = &ImageFlavor{BitDepth: int(bitsPerSample), Channels: int(samplesPerPixel), Layout: LayoutPacked,
		Width: int(width), Height: int(height)}
	res.Before = Range{0, int(stripOffset)}
	res.Payload = Range{int(stripOffset), payloadEnd}
	res.After = Range{payloadEnd, len(buf)}
	res.Info.Width = int(width)
	res.Info.Height = int(height)
	res.Info.SliceCount = 1
	return res
}

func readTIFFShortAt(buf []byte, offset int, bigEndian bool) uint32 {
	if offset+2 > len(buf) {
		return 0
	}
	if bigEndian {
		return uint32(buf[offset])<<8 | uint32(buf[offset+1])
	}
	return uint32(buf[offset]) | uint32(buf[offset+1])<<8
}
