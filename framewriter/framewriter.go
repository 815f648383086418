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

// Package framewriter reassembles a decoded payload and its reversibility
// record back into the original file's exact bytes, and writes or verifies
// the result. One TrackWriter runs per logical track, consuming decoded
// payloads in the order the codec produced them and the matching
// reversibility.FrameRecord in the order the container recorded them.
package framewriter

import (
	"github.com/avrawcook/rawcook/reversibility"
)

// AssembleFrame reproduces a frame's exact original bytes from its decoded
// payload and reversibility record: Before, then payload, then every
// in-band byte range the parser pulled out of the payload (§3's FileSize
// invariant: len(Before)+len(payload)+Σlen(In)+len(After) == FileSize), then
// After.
//
// No currently supported flavor populates In with more than zero ranges —
// DPX's padded-10-in-32 layout only raises the Problem flag (see dpx.go),
// it never carves padding into its own range — so this never exercises
// interleaving mid-payload today. It still honors the recorded order so a
// future padded-sample flavor only has to start populating In, not touch
// this function.
func AssembleFrame(rec reversibility.FrameRecord, payload []byte) []byte {
	size := len(rec.Before) + len(payload) + len(rec.After)
	for _, in := range rec.In {
		size += len(in)
	}
	out := make([]byte, 0, size)
	out = append(out, rec.Before...)
	out = append(out, payload...)
	for _, in := range rec.In {
		out = append(out, in...)
	}
	out = append(out, rec.After...)
	return out
}

// AllFramesHashed reports whether every frame in a track carries a hash.
// Partial coverage is treated as "hashes not trusted" for the whole track:
// one frame missing its digest falls the entire track back to disk re-read
// verification, not just the unhashed frame.
func AllFramesHashed(frames []reversibility.FrameRecord) bool {
	for _, f := range frames {
		if len(f.Hash) == 0 {
			return false
		}
	}
	return true
}

// Job pairs one frame's reversibility record with its decoded payload
// bytes, the unit a TrackWriter consumes.
type Job struct {
	Record  reversibility.FrameRecord
	Payload []byte
}

// Outcome reports what happened to one frame.
type Outcome struct {
	Filename    string
	Written     bool
	Verified    bool
	HashMatched bool
	Err         error
}

// VerifyMismatchError reports that an assembled frame did not match its
// recorded or on-disk expectation.
type VerifyMismatchError struct {
	Filename string
	Reason   string
}

func (e VerifyMismatchError) Error() string {
	return "framewriter: verification failed for " + e.Filename + ": " + e.Reason
}
