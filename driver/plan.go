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

package driver

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/avrawcook/rawcook/rawformat"
	"github.com/avrawcook/rawcook/sequence"
)

// planFile is one file's probe result, carried alongside its path and raw
// bytes through the rest of planning.
type planFile struct {
	path   string
	name   string
	buf    []byte
	result rawformat.Result
}

// streamPlan is one track-to-be: either a single Unique file or an ordered
// image sequence, sharing one flavor.
type streamPlan struct {
	variant rawformat.Variant
	unique  bool
	files   []planFile // in frame order
}

// buildPlan enumerates every regular file directly under dir, probes each
// against the RawParser variants, and groups detected image sequences
// using the natural-sort sequence detector. HashList files are returned
// separately (they feed the Hashes table, not a track); Unknown files
// become attachment candidates.
func buildPlan(dir string, opts rawformat.Options, sink *rawformat.Sink) (streams []streamPlan, hashLists []planFile, attachments []planFile, err error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("read input directory: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		names = append(names, e.Name())
	}
	if len(names) == 0 {
		return nil, nil, nil, ErrNoInputFiles
	}
	sequence.SortNatural(names)

	byName := make(map[string]planFile, len(names))
	for _, name := range names {
		path := filepath.Join(dir, name)
		buf, readErr := os.ReadFile(path) //nolint:gosec // path built from a directory listing
		if readErr != nil {
			return nil, nil, nil, fmt.Errorf("read %s: %w", path, readErr)
		}
		res := rawformat.Detect(name, buf, opts, sink)
		byName[name] = planFile{path: path, name: name, buf: buf, result: res}
	}

	remaining := append([]string(nil), names...)
	for len(remaining) > 0 {
		name := remaining[0]
		remaining = remaining[1:]
		pf := byName[name]

		switch {
		case pf.result.Variant == rawformat.VariantHashList:
			hashLists = append(hashLists, pf)
		case pf.result.Variant == rawformat.VariantUnknown:
			attachments = append(attachments, pf)
		case pf.result.Variant.IsImage():
			var siblingNames []string
			for _, other := range remaining {
				if byName[other].result.Variant == pf.result.Variant {
					siblingNames = append(siblingNames, other)
				}
			}
			seq, _, ok := sequence.Detect(name, append([]string{name}, siblingNames...))
			if !ok {
				streams = append(streams, streamPlan{variant: pf.result.Variant, unique: true, files: []planFile{pf}})
				continue
			}
			files := make([]planFile, 0, len(seq.Files))
			for _, f := range seq.Files {
				files = append(files, byName[f])
			}
			streams = append(streams, streamPlan{variant: pf.result.Variant, unique: len(seq.Files) == 1, files: files})
			remaining = removeAll(remaining, seq.Files)
		default:
			streams = append(streams, streamPlan{variant: pf.result.Variant, unique: true, files: []planFile{pf}})
		}
	}
	return streams, hashLists, attachments, nil
}

// removeAll drops every name in consumed from remaining, preserving order.
func removeAll(remaining, consumed []string) []string {
	consumedSet := make(map[string]bool, len(consumed))
	for _, c := range consumed {
		consumedSet[c] = true
	}
	out := make([]string, 0, len(remaining))
	for _, name := range remaining {
		if !consumedSet[name] {
			out = append(out, name)
		}
	}
	return out
}
