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
	"bytes"
	"fmt"
	"io"

	"github.com/ulikunitz/xz/lzma"
)

// LZMACodec is the alternate high-ratio image codec, selected over Zstd by
// configuration when compression ratio matters more than speed. It writes
// and reads a headerless LZMA2 stream (lzma.Writer2/Reader2) and synthesizes the
// properties/dictionary size from the payload length itself, the same way
// the original CHD LZMA codec computes its properties from the hunk size
// rather than reading them from a stream header.
type LZMACodec struct{}

// lzmaDictCap mirrors the original CHD codec's dictionary size derivation:
// the smallest power-of-two (or 1.5x power-of-two) dictionary that still
// covers the uncompressed size: at least 2<<11 (4 KiB), at most 3<<30, and
// 1<<26 for any size above that.
func lzmaDictCap(size int) int {
	reduceSize := uint32(size)
	for i := uint32(11); i <= 30; i++ {
		if reduceSize <= (2 << i) {
			return int(2 << i)
		}
		if reduceSize <= (3 << i) {
			return int(3 << i)
		}
	}
	return 1 << 26
}

func lzmaProperties() lzma.Properties {
	// lc=3, lp=0, pb=2: the same default triple the original codec's
	// synthetic header encodes as the single properties byte 0x5D.
	return lzma.Properties{LC: 3, LP: 0, PB: 2}
}

// Encode compresses payload as an LZMA2 stream with no embedded header; Decode is given the exact payload length out of band and rebuilds
// the same properties to parse it.
func (*LZMACodec) Encode(payload []byte, _ any) ([]byte, error) {
	props := lzmaProperties()
	cfg := lzma.Writer2Config{
		Properties: &props,
		DictCap:    lzmaDictCap(len(payload)),
	}
	var out bytes.Buffer
	w, err := cfg.NewWriter2(&out)
	if err != nil {
		return nil, fmt.Errorf("lzma encode: init: %w", err)
	}
	if _, err := w.Write(payload); err != nil {
		return nil, fmt.Errorf("lzma encode: write: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("lzma encode: close: %w", err)
	}
	return out.Bytes(), nil
}

// Decode reverses Encode. payloadLen both bounds the read and feeds the
// dictionary-size derivation, since the raw stream carries no size field.
func (*LZMACodec) Decode(compressed []byte, payloadLen int, _ any) ([]byte, error) {
	props := lzmaProperties()
	cfg := lzma.Reader2Config{
		Properties: &props,
		DictCap:    lzmaDictCap(payloadLen),
	}
	r, err := cfg.NewReader2(bytes.NewReader(compressed))
	if err != nil {
		return nil, fmt.Errorf("lzma decode: init: %w", err)
	}
	dst := make([]byte, payloadLen)
	n, err := io.ReadFull(r, dst)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, fmt.Errorf("lzma decode: read: %w", err)
	}
	return dst[:n], nil
}
