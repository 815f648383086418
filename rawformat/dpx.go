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

// DPX header fields this parser reads, at the offsets it reads them:
//
//	Offset 0x00: Magic, "SDPX" (big-endian) or "XPDS" (little-endian)
//	Offset 0x04: Offset to image data
//	Offset 0x10: Total file size
//	Offset 0x31C: Element 0 bit depth (one byte)
//	Offset 0x320: Element 0 packing (bit 0 clear on a 10-bit element means
//	              10-bit samples padded into 32-bit words)
//	Offset 0x328: Pixels per line
//	Offset 0x32C: Lines per image element
const (
	dpxImageHeaderOffset   = 0x400
	dpxPixelsPerLineOffset = 0x328
	dpxLinesOffset         = 0x32C
	dpxBitDepthOffset      = 0x31C
	dpxPackingOffset       = 0x320
)

type dpxParser struct{}

func (dpxParser) Name() Variant { return VariantDPX }

func (dpxParser) Parse(_ string, buf []byte, opts Options, sink *Sink) Result {
	res := Result{Variant: VariantDPX}
	if len(buf) < 4 {
		return res
	}
	magic := string(buf[0:4])
	bigEndian := magic == "SDPX"
	if !bigEndian && magic != "XPDS" {
		return res
	}
	res.Detected = true

	if len(buf) < dpxImageHeaderOffset {
		sink.Raise(Fault{Severity: Undecodable, Parser: "DPX", Code: "header_truncated"})
		return res
	}

	c := binary.NewCursor(buf)
	c.Seek(4)
	var dataOffset, fileSize uint32
	if bigEndian {
		dataOffset = c.B4()
		c.Seek(0x10)
		fileSize = c.B4()
	} else {
		dataOffset = c.L4()
		c.Seek(0x10)
		fileSize = c.L4()
	}
	if c.Overflowed() || int(dataOffset) > len(buf) {
		sink.Raise(Fault{Severity: Undecodable, Parser: "DPX", Code: "bad_data_offset"})
		return res
	}

	c.Seek(dpxPixelsPerLineOffset)
	var width, lines, packing uint32
	var bitDepth int8
	if bigEndian {
		width = c.B4()
		lines = c.B4()
	} else {
		width = c.L4()
		lines = c.L4()
	}
	c.Seek(dpxBitDepthOffset)
	bitDepth = int8(c.X1())
	c.Seek(dpxPackingOffset)
	if bigEndian {
		packing = c.B4()
	} else {
		packing = c.L4()
	}

	end := int(fileSize)
	if end == 0 || end > len(buf) {
		end = len(buf)
	} else if end < len(buf) {
		// declared size smaller than the container: the remainder is After.
		_ = end
	}

	layout := LayoutPacked
	if bitDepth == 10 && packing&0x1 == 0 {
		layout = LayoutPadded10in32
		if opts.CheckPadding && hasNonZeroPadding(buf, int(dataOffset), end) {
			res.Problem = true
		}
	}

	flavor := ImageFlavor{BitDepth: int(bitDepth), Channels: 3, Layout: layout, Width: int(width), Height: int(lines)}
	res.ImageFlv = &flavor
	res.Supported = true
	res.Before = Range{0, int(dataOffset)}
	res.Payload = Range{int(dataOffset), end}
	res.After = Range{end, len(buf)}
	res.Info.Width = int(width)
	res.Info.Height = int(lines)
	res.Info.SliceCount = 1
	return res
}

// hasNonZeroPadding scans a 10-bit-in-32-bit-word payload's padding bits
// (the low two bits of each word when packing uses "filled method A") for
// non-zero content the downstream codec would normalize away silently.
func hasNonZeroPadding(buf []byte, start, end int) bool {
	for off := start; off+4 <= end; off += 4 {
		word := uint32(buf[off])<<24 | uint32(buf[off+1])<<16 | uint32(buf[off+2])<<8 | uint32(buf[off+3])
		if word&0x3 != 0 {
			return true
		}
	}
	return false
}
