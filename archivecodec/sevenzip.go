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

package archivecodec

import (
	"fmt"
	"io"

	"github.com/bodgit/sevenzip"
)

// SevenZipBundle provides read access to files in a 7z attachment bundle.
// This module never writes 7z: sevenzip has no public writer, so 7z bundles
// are a read-only input this module can unpack when given one, not a
// bundling output format it produces (see DESIGN.md). Its
// List/Open/OpenReaderAt/Close all come from memberIndex, the same shared
// implementation ZIPBundle builds on.
type SevenZipBundle struct {
	*memberIndex
	reader *sevenzip.ReadCloser
}

// OpenSevenZipBundle opens a 7z bundle for reading.
func OpenSevenZipBundle(path string) (*SevenZipBundle, error) {
	reader, err := sevenzip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open 7z bundle: %w", err)
	}

	var entries []*sevenzip.File
	files := make([]FileInfo, 0, len(reader.File))
	for _, file := range reader.File {
		if file.FileInfo().IsDir() {
			continue
		}
		files = append(files, FileInfo{
			Name: file.Name,
			Size: int64(file.UncompressedSize), //nolint:gosec // file sizes don't exceed int64
		})
		entries = append(entries, file)
	}

	return &SevenZipBundle{
		memberIndex: &memberIndex{
			path:  path,
			files: files,
			open: func(i int) (io.ReadCloser, error) {
				r, err := entries[i].Open()
				if err != nil {
					return nil, fmt.Errorf("open member in 7z bundle: %w", err)
				}
				return r, nil
			},
			closeFn: reader.Close,
		},
		reader: reader,
	}, nil
}
