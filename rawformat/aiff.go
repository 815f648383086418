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

// walkFORM walks the big-endian chunk list of an AIFF/AIFC FORM container.
func walkFORM(buf []byte, bodyStart int, visit func(c riffChunk) bool) {
	c := binary.NewCursor(buf)
	c.Seek(bodyStart)
	for c.Len() >= 8 && !c.Overflowed() {
		idBytes := c.Bytes(4)
		size := c.B4()
		if c.Overflowed() {
			return
		}
		chunk := riffChunk{id: string(idBytes), start: c.Offset(), length: int(size)}
		if !visit(chunk) {
			return
		}
		advance := int(size)
		if advance%2 == 1 {
			advance++
		}
		c.Seek(c.Offset() + advance)
	}
}

type aiffParser struct{}

func (aiffParser) Name() Variant { return VariantAIFF }

//nolint:gocognit // chunk walking inherently branches per chunk kind
func (aiffParser) Parse(_ string, buf []byte, opts Options, sink *Sink) Result {
	res := Result{Variant: VariantAIFF}
	if len(buf) < 12 || string(buf[0:4]) != "FORM" {
		return res
	}
	formType := string(buf[8:12])
	if formType != "AIFF" && formType != "AIFC" {
		return res
	}
	res.Detected = true

	var (
		haveCOMM                         bool
		channels, bits, frames           int
		rate                             int
		compressionType                  string
		ssnd                             riffChunk
		ssndOffset, ssndBlockSize        uint32
		haveSSND                         bool
	)

	walkFORM(buf, 12, func(c riffChunk) bool {
		switch c.id {
		case "COMM":
			if c.length < 18 || c.start+18 > len(buf) {
				sink.Raise(Fault{Severity: Undecodable, Parser: "AIFF", Code: "COMM_too_small", Offset: int64(c.start)})
				return false
			}
			cur := binary.NewCursor(buf)
			cur.Seek(c.start)
			channels = int(cur.B2())
			frames = int(cur.B4())
			bits = int(cur.B2())
			sampleRate := cur.BF10()
			rate = int(sampleRate + 0.5)
			if formType == "AIFC" && c.length >= 18+4 {
				compressionType = string(buf[c.start+18 : c.start+22])
			} else {
				compressionType = "NONE"
			}
			haveCOMM = true
		case "SSND":
			if !haveCOMM {
				sink.Raise(Fault{Severity: Undecodable, Parser: "AIFF", Code: "SSND_before_COMM", Offset: int64(c.start)})
				return false
			}
			if c.length < 8 || c.start+8 > len(buf) {
				sink.Raise(Fault{Severity: Undecodable, Parser: "AIFF", Code: "SSND_too_small", Offset: int64(c.start)})
				return false
			}
			cur := binary.NewCursor(buf)
			cur.Seek(c.start)
			ssndOffset = cur.B4()
			ssndBlockSize = cur.B4()
			end := c.start + c.length
			if end > len(buf) {
				if !opts.AcceptTruncated {
					sink.Raise(Fault{Severity: Undecodable, Parser: "AIFF", Code: "TruncatedChunk", Offset: int64(c.start)})
					return false
				}
				end = len(buf)
			}
			ssnd = riffChunk{id: "SSND", start: c.start, length: end - c.start}
			haveSSND = true
			return false
		}
		return true
	})

	if !haveCOMM || !haveSSND {
		if !sink.HasUndecodable() {
			sink.Raise(Fault{Severity: Undecodable, Parser: "AIFF", Code: "missing_COMM_or_SSND"})
		}
		return res
	}

	bigEndian := compressionType != "sowt"
	if compressionType != "NONE" && compressionType != "sowt" {
		sink.Raise(Fault{Severity: Unsupported, Parser: "AIFF", Code: "COMM_compressionType_NotPcm",
			Detail: compressionType})
	} else {
		flavor := AudioFlavor{SampleRate: rate, BitDepth: bits, Channels: channels, BigEndian: bigEndian}
		if supported(flavor, AIFFSupportedFlavors()) {
			res.Supported = true
			res.AudioFlv = &flavor
		} else {
			sink.Raise(Fault{Severity: Unsupported, Parser: "AIFF", Code: "COMM_compressionType_NotPcm",
				Detail: flavor.String()})
		}
	}

	// The SSND chunk's own 8-byte offset/blockSize header fields precede the
	// audio sample data; they are non-payload bytes the codec never sees.
	payloadStart := ssnd.start + 8 + int(ssndOffset)
	_ = ssndBlockSize
	res.Before = Range{0, payloadStart}
	res.Payload = Range{payloadStart, ssnd.start + ssnd.length}
	res.After = Range{res.Payload.End, len(buf)}
	if res.AudioFlv != nil && res.AudioFlv.FrameBytes() > 0 {
		res.Info.SampleRate = res.AudioFlv.SampleRate
		res.Info.FrameCount = frames
		if res.AudioFlv.SampleRate > 0 {
			res.Info.DurationSec = float64(frames) / float64(res.AudioFlv.SampleRate)
		}
	}
	return res
}
