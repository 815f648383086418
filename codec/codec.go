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

// Package codec implements the concrete payload compressors the driver hands
// a parsed stream's payload bytes to: FLAC for audio, and Zstd or LZMA for
// image pixel data. A registry keyed by flavor class lets the driver pick one
// the same way the original CHD reader this module is built from picks a
// decompressor by its 4-byte compression tag.
package codec

import (
	"fmt"
	"sync"

	"github.com/avrawcook/rawcook/rawformat"
)

// PayloadEncoder compresses one stream's payload bytes. flavor carries the
// flavor-specific parameters a codec needs to interpret the raw bytes as
// samples (an *rawformat.AudioFlavor for audio codecs); codecs that treat the
// payload as an opaque byte string ignore it.
type PayloadEncoder interface {
	Encode(payload []byte, flavor any) ([]byte, error)
}

// PayloadDecoder reverses PayloadEncoder. payloadLen is the exact original
// payload length, recovered from the reversibility stream's FileSize/range
// bookkeeping, since several codecs here are fed headerless or
// length-implicit streams.
type PayloadDecoder interface {
	Decode(compressed []byte, payloadLen int, flavor any) ([]byte, error)
}

// Codec implements both directions of one payload compression scheme.
type Codec interface {
	PayloadEncoder
	PayloadDecoder
}

// ErrUnsupportedClass is returned by GetCodec for a class with no registered
// factory.
var ErrUnsupportedClass = fmt.Errorf("codec: no codec registered for flavor class")

var (
	registryMu sync.RWMutex
	registry   = make(map[rawformat.Class]func() Codec)
)

// RegisterCodec registers the codec factory the driver uses for every flavor
// in the given class.
func RegisterCodec(class rawformat.Class, factory func() Codec) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[class] = factory
}

// GetCodec returns a fresh codec instance for class.
func GetCodec(class rawformat.Class) (Codec, error) {
	registryMu.RLock()
	factory, ok := registry[class]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedClass, class)
	}
	return factory(), nil
}

// ErrUnsupportedImageCodec is returned by ByImageCodecName for a name
// other than "zstd" or "lzma".
var ErrUnsupportedImageCodec = fmt.Errorf("codec: unsupported image codec name")

// ByImageCodecName returns a fresh image codec instance by name, matching
// the config.ImageCodec values ("zstd", "lzma") a Driver run is configured
// with. This sits alongside the class-keyed registry above because image
// codec choice is a per-run setting, not a fixed one-codec-per-class
// binding the way audio's FLAC binding is.
func ByImageCodecName(name string) (Codec, error) {
	switch name {
	case "", "zstd":
		return &ZstdCodec{}, nil
	case "lzma":
		return &LZMACodec{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedImageCodec, name)
	}
}

func init() {
	RegisterCodec(rawformat.ClassAudio, func() Codec { return &FLACCodec{} })
	RegisterCodec(rawformat.ClassImage, func() Codec { return &ZstdCodec{} })
}
