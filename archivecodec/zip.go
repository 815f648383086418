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
	"archive/zip"
	"fmt"
	"io"
	"path/filepath"
)

// ZIPBundle provides read access to files in a ZIP attachment bundle. Its
// List/Open/OpenReaderAt/Close all come from memberIndex; ZIP's own job is
// building that index from *zip.ReadCloser's central directory.
type ZIPBundle struct {
	*memberIndex
	reader *zip.ReadCloser
}

// OpenZIPBundle opens a ZIP bundle for reading.
func OpenZIPBundle(path string) (*ZIPBundle, error) {
	reader, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open zip bundle: %w", err)
	}

	var entries []*zip.File
	files := make([]FileInfo, 0, len(reader.File))
	for _, file := range reader.File {
		if file.FileInfo().IsDir() {
			continue
		}
		files = append(files, FileInfo{
			Name: file.Name,
			Size: int64(file.UncompressedSize64), //nolint:gosec // file sizes don't exceed int64
		})
		entries = append(entries, file)
	}

	return &ZIPBundle{
		memberIndex: &memberIndex{
			path:  path,
			files: files,
			open: func(i int) (io.ReadCloser, error) {
				r, err := entries[i].Open()
				if err != nil {
					return nil, fmt.Errorf("open member in zip bundle: %w", err)
				}
				return r, nil
			},
			closeFn: reader.Close,
		},
		reader: reader,
	}, nil
}

// ZIPBundleWriter builds a ZIP attachment bundle one member at a time. The
// Driver routes every Unknown-parsed file that attachment bundling claims
// through AddFile instead of a per-file reversibility attachment entity.
type ZIPBundleWriter struct {
	w *zip.Writer
}

// NewZIPBundleWriter wraps w (typically the sidecar archive's output file)
// as a ZIP bundle builder.
func NewZIPBundleWriter(w io.Writer) *ZIPBundleWriter {
	return &ZIPBundleWriter{w: zip.NewWriter(w)}
}

// AddFile stores name's contents verbatim (deflate-compressed) as one
// member of the bundle.
func (bw *ZIPBundleWriter) AddFile(name string, contents []byte) error {
	fw, err := bw.w.CreateHeader(&zip.FileHeader{
		Name:   filepath.ToSlash(name),
		Method: zip.Deflate,
	})
	if err != nil {
		return fmt.Errorf("create zip bundle member %q: %w", name, err)
	}
	if _, err := fw.Write(contents); err != nil {
		return fmt.Errorf("write zip bundle member %q: %w", name, err)
	}
	return nil
}

// Close flushes the ZIP central directory. The underlying io.Writer is not
// closed; the caller owns it.
func (bw *ZIPBundleWriter) Close() error {
	return bw.w.Close() //nolint:wrapcheck // Close error passthrough is intentional
}
