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

// GenericCodec stands in for video payload (FFV1), a format this module
// never implements a bitstream for. It delegates to Zstd so the Driver can
// still route a video-flavored stream through the PayloadEncoder/
// PayloadDecoder interfaces end to end, at ordinary byte-compression ratios
// rather than FFV1's.
type GenericCodec struct {
	zstd ZstdCodec
}

func (g *GenericCodec) Encode(payload []byte, flavor any) ([]byte, error) {
	return g.zstd.Encode(payload, flavor)
}

func (g *GenericCodec) Decode(compressed []byte, payloadLen int, flavor any) ([]byte, error) {
	return g.zstd.Decode(compressed, payloadLen, flavor)
}
