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
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestZIPBundleWriterAndReaderRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "attachments.zip")

	f, err := os.Create(path) //nolint:gosec // test-controlled path
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	bw := NewZIPBundleWriter(f)
	if err := bw.AddFile("notes/readme.txt", []byte("production notes")); err != nil {
		t.Fatalf("AddFile: %v", err)
	}
	if err := bw.AddFile("manifest.csv", []byte("a,b,c\n1,2,3\n")); err != nil {
		t.Fatalf("AddFile: %v", err)
	}
	if err := bw.Close(); err != nil {
		t.Fatalf("bundle writer Close: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("file Close: %v", err)
	}

	bundle, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer func() { _ = bundle.Close() }()

	list, err := bundle.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 members, got %d", len(list))
	}

	r, size, err := bundle.Open("notes/readme.txt")
	if err != nil {
		t.Fatalf("Open member: %v", err)
	}
	defer func() { _ = r.Close() }()
	got, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if !bytes.Equal(got, []byte("production notes")) {
		t.Fatalf("content mismatch: %q", got)
	}
	if size != int64(len("production notes")) {
		t.Fatalf("size mismatch: got %d", size)
	}
}

func TestOpenRejectsUnsupportedExtension(t *testing.T) {
	_, err := Open("archive.tar.gz")
	if err == nil {
		t.Fatalf("expected error for unsupported extension")
	}
	var fe FormatError
	if !errorsAs(err, &fe) {
		t.Fatalf("expected FormatError, got %T: %v", err, err)
	}
}

func errorsAs(err error, target *FormatError) bool {
	fe, ok := err.(FormatError)
	if ok {
		*target = fe
	}
	return ok
}

func TestVerifyMembersAcceptsMatchingSizes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "attachments.zip")
	f, err := os.Create(path) //nolint:gosec // test-controlled path
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	bw := NewZIPBundleWriter(f)
	if err := bw.AddFile("notes/readme.txt", []byte("production notes")); err != nil {
		t.Fatalf("AddFile: %v", err)
	}
	if err := bw.Close(); err != nil {
		t.Fatalf("bundle writer Close: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("file Close: %v", err)
	}

	bundle, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer func() { _ = bundle.Close() }()

	err = VerifyMembers(bundle, []ExpectedMember{{Name: "notes/readme.txt", Size: int64(len("production notes"))}})
	if err != nil {
		t.Fatalf("VerifyMembers: %v", err)
	}
}

func TestVerifyMembersRejectsSizeMismatch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "attachments.zip")
	f, err := os.Create(path) //nolint:gosec // test-controlled path
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	bw := NewZIPBundleWriter(f)
	if err := bw.AddFile("notes/readme.txt", []byte("production notes")); err != nil {
		t.Fatalf("AddFile: %v", err)
	}
	if err := bw.Close(); err != nil {
		t.Fatalf("bundle writer Close: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("file Close: %v", err)
	}

	bundle, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer func() { _ = bundle.Close() }()

	err = VerifyMembers(bundle, []ExpectedMember{{Name: "notes/readme.txt", Size: 999}})
	if err == nil {
		t.Fatalf("expected a size mismatch error")
	}
	var sm SizeMismatchError
	if !errorsAsSizeMismatch(err, &sm) {
		t.Fatalf("expected SizeMismatchError, got %T: %v", err, err)
	}
	if sm.Want != 999 || sm.Got != int64(len("production notes")) {
		t.Fatalf("unexpected mismatch fields: %+v", sm)
	}
}

func TestVerifyMembersRejectsMissingMember(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "attachments.zip")
	f, err := os.Create(path) //nolint:gosec // test-controlled path
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	bw := NewZIPBundleWriter(f)
	if err := bw.Close(); err != nil {
		t.Fatalf("bundle writer Close: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("file Close: %v", err)
	}

	bundle, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer func() { _ = bundle.Close() }()

	err = VerifyMembers(bundle, []ExpectedMember{{Name: "missing.txt", Size: 1}})
	if err == nil {
		t.Fatalf("expected a not-found error")
	}
	var fe FileNotFoundError
	if !errorsAsFileNotFound(err, &fe) {
		t.Fatalf("expected FileNotFoundError, got %T: %v", err, err)
	}
}

func errorsAsSizeMismatch(err error, target *SizeMismatchError) bool {
	sm, ok := err.(SizeMismatchError)
	if ok {
		*target = sm
	}
	return ok
}

func errorsAsFileNotFound(err error, target *FileNotFoundError) bool {
	fe, ok := err.(FileNotFoundError)
	if ok {
		*target = fe
	}
	return ok
}

func TestIsBundleExtension(t *testing.T) {
	cases := map[string]bool{
		".zip": true, ".ZIP": true, ".7z": true, ".rar": true, ".tar": false, "": false,
	}
	for ext, want := range cases {
		if got := IsBundleExtension(ext); got != want {
			t.Fatalf("IsBundleExtension(%q) = %v, want %v", ext, got, want)
		}
	}
}
