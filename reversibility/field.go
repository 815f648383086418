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

package reversibility

import (
	"bytes"
	"compress/flate"
	"fmt"
	"io"

	"github.com/avrawcook/rawcook/internal/binary"
)

// encodeFieldValue implements the per-field "store raw or zlib-compress,
// whichever is smaller" rule: attempt raw-deflate compression (the same
// flavor chd/codec_zlib.go decodes), and emit (originalSize, compressed)
// only if that is smaller than the raw form; otherwise emit (0, raw).
func encodeFieldValue(raw []byte) []byte {
	var compressed bytes.Buffer
	w, _ := flate.NewWriter(&compressed, flate.BestCompression)
	_, _ = w.Write(raw)
	_ = w.Close()

	var out bytes.Buffer
	if compressed.Len() < len(raw) {
		out.Write(binary.EncodeVarint(uint64(len(raw))))
		out.Write(compressed.Bytes())
	} else {
		out.Write(binary.EncodeVarint(0))
		out.Write(raw)
	}
	return out.Bytes()
}

// decodeFieldValue is the inverse of encodeFieldValue: it reads the leading
// originalSize varint and either returns the trailing bytes as-is (size 0)
// or inflates them to exactly size bytes.
func decodeFieldValue(payload []byte) ([]byte, error) {
	c := binary.NewCursor(payload)
	originalSize, unlimited := c.EBMLVarint()
	if unlimited || c.Overflowed() {
		return nil, fmt.Errorf("%w: field size prefix", ErrMalformedContainer)
	}
	data := payload[c.Offset():]
	if originalSize == 0 {
		return data, nil
	}
	r := flate.NewReader(bytes.NewReader(data))
	defer func() { _ = r.Close() }()
	out := make([]byte, originalSize)
	if _, err := io.ReadFull(r, out); err != nil {
		return nil, fmt.Errorf("%w: inflate field: %w", ErrMalformedContainer, err)
	}
	return out, nil
}
