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
	wavFormatPCM = 1
)

type riffChunk struct {
	id     string
	start  int // offset of chunk data (after the 8-byte id+size header)
	length int // declared chunk data length (pre-clamp)
}

// walkRIFF walks the top-level chunk list of a RIFF/FORM container, calling
// visit for each chunk header found. It stops (without raising a fault
// itself) once it runs off the end of buf; callers decide whether that is
// Undecodable.
func walkRIFF(buf []byte, bodyStart int, visit func(c riffChunk) bool) {
	c := binary.NewCursor(buf)
	c.Seek(bodyStart)
	for c.Len() >= 8 && !c.Overflowed() {
		idBytes := c.Bytes(4)
		size := c.L4()
		if c.Overflowed() {
			return
		}
		chunk := riffChunk{id: string(idBytes), start: c.Offset(), length: int(size)}
		if !visit(chunk) {
			return
		}
		advance := int(size)
		if advance%2 == 1 {
			advance++ // pad byte belongs to the container, not the chunk
		}
		c.Seek(c.Offset() + advance)
	}
}

type wavParser struct{}

func (wavParser) Name() Variant { return VariantWAV }

//nolint:gocognit // chunk walking inherently branches per chunk kind
func (wavParser) Parse(_ string, buf []byte, opts Options, sink *Sink) Result {
	res := Result{Variant: VariantWAV}
	if len(buf) < 12 || string(buf[0:4]) != "RIFF" || string(buf[8:12]) != "WAVE" {
		return res // not detected; let the next variant try
	}
	res.Detected = true

	var (
		haveFmt                            bool
		formatTag, channels, bits, rate    int
		dataChunk                          riffChunk
		haveData                           bool
	)

	walkRIFF(buf, 12, func(c riffChunk) bool {
		switch c.id {
		case "fmt ":
			if c.length < 16 || c.start+16 > len(buf) {
				sink.Raise(Fault{Severity: Undecodable, Parser: "WAV", Code: "fmt_too_small", Offset: int64(c.start)})
				return false
			}
			cur := binary.NewCursor(buf)
			cur.Seek(c.start)
			formatTag = int(cur.L2())
			channels = int(cur.L2())
			rate = int(cur.L4())
			_ = cur.L4() // avg bytes/sec
			_ = cur.L2() // block align
			bits = int(cur.L2())
			haveFmt = true
		case "data":
			if !haveFmt {
				sink.Raise(Fault{Severity: Undecodable, Parser: "WAV", Code: "data_before_fmt", Offset: int64(c.start)})
				return false
			}
			end := c.start + c.length
			if end > len(buf) {
				if !opts.AcceptTruncated {
					sink.Raise(Fault{Severity: Undecodable, Parser: "WAV", Code: "TruncatedChunk", Offset: int64(c.start)})
					return false
				}
				end = len(buf)
			}
			dataChunk = riffChunk{id: "data", start: c.start, length: end - c.start}
			haveData = true
			return false // data chunk's payload is the terminal chunk of interest
		}
		return true
	})

	if !haveFmt || !haveData {
		if !sink.HasUndecodable() {
			sink.Raise(Fault{Severity: Undecodable, Parser: "WAV", Code: "missing_fmt_or_data"})
		}
		return res
	}

	if formatTag != wavFormatPCM {
		sink.Raise(Fault{Severity: Unsupported, Parser: "WAV", Code: "fmt_NotPcm",
			Detail: "WAVE_FORMAT_PCM required"})
		res.Supported = false
	} else {
		flavor := AudioFlavor{SampleRate: rate, BitDepth: bits, Channels: channels, BigEndian: false}
		if supported(flavor, WAVSupportedFlavors()) {
			res.Supported = true
			res.AudioFlv = &flavor
		} else {
			sink.Raise(Fault{Severity: Unsupported, Parser: "WAV", Code: "fmt_UnsupportedFlavor",
				Detail: flavor.String()})
		}
	}

	res.Before = Range{0, dataChunk.start}
	res.Payload = Range{dataChunk.start, dataChunk.start + dataChunk.length}
	res.After = Range{res.Payload.End, len(buf)}
	if res.AudioFlv != nil && res.AudioFlv.FrameBytes() > 0 {
		res.Info.SampleRate = res.AudioFlv.SampleRate
		res.Info.FrameCount = res.Payload.Len() / res.AudioFlv.FrameBytes()
		res.Info.DurationSec = float64(res.Info.FrameCount) / float64(res.AudioFlv.SampleRate)
	}
	return res
}
