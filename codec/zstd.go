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

	"github.com/klauspost/compress/zstd"
)

// ZstdCodec is the default generic codec for image-flavored payload (DPX/TIFF
// pixel data) that doesn't warrant LZMA's extra compression ratio for extra
// CPU time.
type ZstdCodec struct{}

// Encode compresses payload with Zstandard at the default level. flavor is
// ignored: pixel bytes are compressed as an opaque stream.
func (*ZstdCodec) Encode(payload []byte, _ any) ([]byte, error) {
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, fmt.Errorf("zstd encode: init: %w", err)
	}
	defer func() { _ = enc.Close() }()
	return enc.EncodeAll(payload, make([]byte, 0, len(payload))), nil
}

// Decode reverses Encode, growing the destination to payloadLen.
func (*ZstdCodec) Decode(compressed []byte, payloadLen int, _ any) ([]byte, error) {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("zstd decode: init: %w", err)
	}
	defer dec.Close()
	out, err := dec.DecodeAll(compressed, make([]byte, 0, payloadLen))
	if err != nil {
		return nil, fmt.Errorf("zstd decode: %w", err)
	}
	return out, nil
}
