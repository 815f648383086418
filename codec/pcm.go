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

package codec

import (
	"fmt"

	"github.com/avrawcook/rawcook/rawformat"
)

// unpackPCM converts interleaved raw PCM bytes into FLAC's signed int32
// sample representation, honoring the flavor's bit depth and endianness.
// 8-bit samples are always read as unsigned, wider samples as signed.
func unpackPCM(payload []byte, af rawformat.AudioFlavor) ([]int32, error) {
	width := af.BytesPerSample()
	if width == 0 || len(payload)%width != 0 {
		return nil, fmt.Errorf("pcm: payload length %d not a multiple of sample width %d", len(payload), width)
	}
	n := len(payload) / width
	out := make([]int32, n)
	for i := 0; i < n; i++ {
		out[i] = unpackSample(payload[i*width:(i+1)*width], af)
	}
	return out, nil
}

func unpackSample(b []byte, af rawformat.AudioFlavor) int32 {
	switch af.BitDepth {
	case 8:
		// 8-bit samples of either endianness are centered on zero as if
		// unsigned; packSample adds the same 128 back, so the bytes
		// round-trip unchanged.
		return int32(b[0]) - 128
	case 16:
		var v uint16
		if af.BigEndian {
			v = uint16(b[0])<<8 | uint16(b[1])
		} else {
			v = uint16(b[1])<<8 | uint16(b[0])
		}
		return int32(int16(v))
	case 24:
		var v uint32
		if af.BigEndian {
			v = uint32(b[0])<<16 | uint32(b[1])<<8 | uint32(b[2])
		} else {
			v = uint32(b[2])<<16 | uint32(b[1])<<8 | uint32(b[0])
		}
		return sign24(v)
	default:
		return 0
	}
}

// packSample is unpackSample's inverse, writing into a pre-sized buffer.
func packSample(dst []byte, sample int32, af rawformat.AudioFlavor) {
	switch af.BitDepth {
	case 8:
		dst[0] = byte(sample + 128)
	case 16:
		v := uint16(int16(sample))
		if af.BigEndian {
			dst[0] = byte(v >> 8)
			dst[1] = byte(v)
		} else {
			dst[0] = byte(v)
			dst[1] = byte(v >> 8)
		}
	case 24:
		v := uint32(sample) & 0xFFFFFF
		if af.BigEndian {
			dst[0] = byte(v >> 16)
			dst[1] = byte(v >> 8)
			dst[2] = byte(v)
		} else {
			dst[0] = byte(v)
			dst[1] = byte(v >> 8)
			dst[2] = byte(v >> 16)
		}
	}
}

// sign24 sign-extends a 24-bit two's complement value held in the low 24
// bits of v.
func sign24(v uint32) int32 {
	if v&0x800000 != 0 {
		return int32(v | 0xFF000000)
	}
	return int32(v)
}
