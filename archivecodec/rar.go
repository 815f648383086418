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
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/nwaples/rardecode/v2"
)

// RARBundle provides read access to files in a RAR attachment bundle. Like
// 7z, RAR is read-only here: rardecode has no encoder, so RAR bundles are an
// input format this module can accept, never one it produces.
type RARBundle struct {
	file *os.File
	path string
}

// OpenRARBundle opens a RAR bundle for reading.
func OpenRARBundle(path string) (*RARBundle, error) {
	file, err := os.Open(path) //nolint:gosec // user-provided path is expected
	if err != nil {
		return nil, fmt.Errorf("open rar bundle: %w", err)
	}
	return &RARBundle{file: file, path: path}, nil
}

// List returns every member of the RAR bundle.
func (rb *RARBundle) List() ([]FileInfo, error) {
	if _, err := rb.file.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seek rar bundle: %w", err)
	}
	reader, err := rardecode.NewReader(rb.file)
	if err != nil {
		return nil, fmt.Errorf("create rar reader: %w", err)
	}

	var files []FileInfo //nolint:prealloc // member count unknown until full scan
	for {
		header, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read rar header: %w", err)
		}
		if header.IsDir {
			continue
		}
		files = append(files, FileInfo{Name: header.Name, Size: header.UnPackedSize})
	}
	return files, nil
}

// Open opens a member of the RAR bundle. RAR requires sequential reading,
// so this seeks back to the start and walks forward each call.
func (rb *RARBundle) Open(internalPath string) (io.ReadCloser, int64, error) {
	internalPath = filepath.ToSlash(internalPath)
	if _, err := rb.file.Seek(0, io.SeekStart); err != nil {
		return nil, 0, fmt.Errorf("seek rar bundle: %w", err)
	}
	reader, err := rardecode.NewReader(rb.file)
	if err != nil {
		return nil, 0, fmt.Errorf("create rar reader: %w", err)
	}

	for {
		header, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, 0, fmt.Errorf("read rar header: %w", err)
		}
		if strings.EqualFold(header.Name, internalPath) {
			return &rarMemberReader{reader: reader}, header.UnPackedSize, nil
		}
	}
	return nil, 0, FileNotFoundError{Bundle: rb.path, InternalPath: internalPath}
}

// OpenReaderAt opens a member and returns an io.ReaderAt, buffering its
// contents in memory.
//
//nolint:revive // 4 return values matches the Bundle.OpenReaderAt contract
func (rb *RARBundle) OpenReaderAt(internalPath string) (io.ReaderAt, int64, io.Closer, error) {
	return bufferMember(rb, internalPath)
}

// Close closes the RAR bundle.
func (rb *RARBundle) Close() error {
	return rb.file.Close() //nolint:wrapcheck // Close error passthrough is intentional
}

// rarMemberReader adapts a rardecode.Reader positioned at one member to
// io.ReadCloser; rardecode has no per-member close.
type rarMemberReader struct {
	reader *rardecode.Reader
}

func (r *rarMemberReader) Read(p []byte) (int, error) {
	return r.reader.Read(p) //nolint:wrapcheck // Read error passthrough is intentional
}

func (*rarMemberReader) Close() error { return nil }
