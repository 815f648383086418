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
	"bufio"
	"bytes"
	"encoding/hex"
)

// HashEntry is one parsed line of a hash-list manifest: "<hex digest>
// <filename>", the conventional md5sum(1)/sha1sum(1) output format.
type HashEntry struct {
	Digest   []byte
	Filename string
}

type hashListParser struct{}

func (hashListParser) Name() Variant { return VariantHashList }

// Parse tests whether buf is a plain-text hash manifest: every non-blank
// line must be "<hex digest>  <filename>". A single non-matching line
// disqualifies the whole file as a HashList, letting it fall through to
// Unknown instead.
func (hashListParser) Parse(_ string, buf []byte, _ Options, _ *Sink) Result {
	res := Result{Variant: VariantHashList}
	entries, ok := ParseHashList(buf)
	if !ok || len(entries) == 0 {
		return res
	}
	res.Detected = true
	res.Supported = true
	res.Before = Range{0, len(buf)}
	return res
}

// ParseHashList parses the "hash  filename" manifest format. It returns ok
// == false if any non-blank line fails to match, so callers can distinguish
// "this is a hash list" from "this merely happens to contain hex strings".
func ParseHashList(buf []byte) (entries []HashEntry, ok bool) {
	scanner := bufio.NewScanner(bytes.NewReader(buf))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		fields := bytes.SplitN(line, []byte{' '}, 2)
		if len(fields) != 2 {
			return nil, false
		}
		digest, err := hex.DecodeString(string(fields[0]))
		if err != nil || (len(digest) != 16 && len(digest) != 20 && len(digest) != 32) {
			return nil, false
		}
		filename := string(bytes.TrimLeft(fields[1], " *"))
		if filename == "" {
			return nil, false
		}
		entries = append(entries, HashEntry{Digest: digest, Filename: filename})
	}
	if err := scanner.Err(); err != nil {
		return nil, false
	}
	return entries, len(entries) > 0
}
