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

// Package hashutil computes and tracks MD5 digests of raw files, the way the
// reversibility container records a per-frame hash for verification without
// a disk round-trip.
package hashutil

import (
	"crypto/md5"
	"hash"
	"sync"
)

// chunkSize bounds a single Write call the way the reference implementation
// bounds MD5_Update calls to an unsigned long, to keep memory bursts small
// when hashing very large buffers.
const chunkSize = 1 << 20

// Digest is an MD5 digest.
type Digest [md5.Size]byte

// Sum streams buf through MD5 in bounded chunks and returns the digest.
func Sum(buf []byte) Digest {
	h := md5.New()
	writeChunked(h, buf)
	var d Digest
	copy(d[:], h.Sum(nil))
	return d
}

func writeChunked(h hash.Hash, buf []byte) {
	for offset := 0; offset < len(buf); {
		end := offset + chunkSize
		if end > len(buf) {
			end = len(buf)
		}
		h.Write(buf[offset:end])
		offset = end
	}
}

// Table is a concurrency-safe filename -> digest lookup, shared across a
// run: hash-list parsing and per-frame hashing both write into it, frame
// verification reads from it. A single writer lock serializes writers;
// readers proceed concurrently via RLock. After Freeze, writes panic rather
// than silently racing, matching the "Hashes table becomes read-only at
// finalization" resource model.
type Table struct {
	mu     sync.RWMutex
	byName map[string]Digest
	frozen bool
}

// NewTable returns an empty hash table.
func NewTable() *Table {
	return &Table{byName: make(map[string]Digest)}
}

// FromFile records digest for filename.
func (t *Table) FromFile(filename string, digest Digest) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.frozen {
		panic("hashutil: write to frozen Table")
	}
	t.byName[filename] = digest
}

// Lookup returns the recorded digest for filename, if any.
func (t *Table) Lookup(filename string) (Digest, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	d, ok := t.byName[filename]
	return d, ok
}

// Len reports how many filenames have a recorded digest.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.byName)
}

// Freeze transitions the table to read-only; subsequent writes panic.
func (t *Table) Freeze() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.frozen = true
}
