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

// FrameRecord is one per-frame reversibility entry: everything needed to
// reattach the non-payload bytes around a decoded payload and reproduce
// the original file exactly.
type FrameRecord struct {
	Filename     string
	Before       []byte
	After        []byte
	In           [][]byte
	FileSize     int64
	Hash         []byte // MD5 digest, nil if hashing was not requested
	IsAttachment bool
}

// TemplateRecord is a track's mask base: the first frame's fields, used to
// delta-encode every subsequent frame in a non-Unique track.
type TemplateRecord struct {
	Filename string
	Before   []byte
	After    []byte
	In       [][]byte
}

// TrackRecord is one logical stream: a template (meaningful only when the
// stream is not Unique) plus its ordered frames.
type TrackRecord struct {
	// Unique marks a single-file stream; its one frame is folded directly
	// into the Track element on the wire instead of nesting a Block.
	Unique bool
	// Template is the mask base subsequent frames are delta-encoded
	// against. It is the zero value when Unique is true.
	Template TemplateRecord
	Frames   []FrameRecord
}

// SegmentRecord is the whole of one reversibility container's payload: the
// writing library's identity (checked on decode against a supported
// range), the path separator used at encode time, and every track.
type SegmentRecord struct {
	LibraryName    string
	LibraryVersion string
	PathSeparator  string
	Tracks         []TrackRecord
}
