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

package framewriter

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/avrawcook/rawcook/internal/hashutil"
	"github.com/avrawcook/rawcook/reversibility"
)

func TestAssembleFrameConcatenatesInOrder(t *testing.T) {
	rec := reversibility.FrameRecord{
		Before: []byte("HDR"),
		After:  []byte("TRL"),
		In:     [][]byte{[]byte("pad1"), []byte("pad2")},
	}
	got := AssembleFrame(rec, []byte("PAYLOAD"))
	want := "HDRPAYLOADpad1pad2TRL"
	if string(got) != want {
		t.Fatalf("AssembleFrame = %q, want %q", got, want)
	}
}

func TestAssembleFrameNoInRanges(t *testing.T) {
	rec := reversibility.FrameRecord{Before: []byte("AB"), After: []byte("CD")}
	got := AssembleFrame(rec, []byte("XY"))
	if string(got) != "ABXYCD" {
		t.Fatalf("AssembleFrame = %q", got)
	}
}

func TestAllFramesHashed(t *testing.T) {
	hashed := []reversibility.FrameRecord{{Hash: []byte{1, 2, 3}}, {Hash: []byte{4, 5, 6}}}
	if !AllFramesHashed(hashed) {
		t.Fatalf("expected all hashed")
	}
	partial := []reversibility.FrameRecord{{Hash: []byte{1, 2, 3}}, {Hash: nil}}
	if AllFramesHashed(partial) {
		t.Fatalf("expected partial coverage to report false")
	}
	if AllFramesHashed(nil) != true {
		t.Fatalf("empty track should report true (vacuously fully hashed)")
	}
}

func TestTrackWriterWriteOnly(t *testing.T) {
	dir := t.TempDir()
	tw := NewTrackWriter(Options{OutputDir: dir, Write: true}, false)
	jobs := make(chan Job, 1)
	jobs <- Job{Record: reversibility.FrameRecord{Filename: "frame.wav", Before: []byte("RIFF")}, Payload: []byte("DATA")}
	close(jobs)

	var outcomes []Outcome
	for oc := range tw.Run(context.Background(), jobs) {
		outcomes = append(outcomes, oc)
	}
	if len(outcomes) != 1 {
		t.Fatalf("expected 1 outcome, got %d", len(outcomes))
	}
	if outcomes[0].Err != nil {
		t.Fatalf("unexpected error: %v", outcomes[0].Err)
	}
	if !outcomes[0].Written {
		t.Fatalf("expected Written=true")
	}
	got, err := os.ReadFile(filepath.Join(dir, "frame.wav")) //nolint:gosec // test-controlled path
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(got) != "RIFFDATA" {
		t.Fatalf("file content = %q", got)
	}
}

func TestTrackWriterHashVerification(t *testing.T) {
	payload := []byte("samples")
	rec := reversibility.FrameRecord{Filename: "a.wav", Before: []byte("H")}
	sum := hashutil.Sum(AssembleFrame(rec, payload))
	rec.Hash = sum[:]

	tw := NewTrackWriter(Options{Verify: true}, true)
	jobs := make(chan Job, 1)
	jobs <- Job{Record: rec, Payload: payload}
	close(jobs)

	var outcomes []Outcome
	for oc := range tw.Run(context.Background(), jobs) {
		outcomes = append(outcomes, oc)
	}
	if outcomes[0].Err != nil {
		t.Fatalf("unexpected error: %v", outcomes[0].Err)
	}
	if !outcomes[0].Verified || !outcomes[0].HashMatched {
		t.Fatalf("expected hash-verified outcome, got %+v", outcomes[0])
	}
	if outcomes[0].Written {
		t.Fatalf("Verify without Write must not touch disk")
	}
}

func TestTrackWriterHashMismatch(t *testing.T) {
	rec := reversibility.FrameRecord{Filename: "a.wav", Hash: []byte{0xDE, 0xAD, 0xBE, 0xEF}}
	tw := NewTrackWriter(Options{Verify: true}, true)
	jobs := make(chan Job, 1)
	jobs <- Job{Record: rec, Payload: []byte("samples")}
	close(jobs)

	oc := <-tw.Run(context.Background(), jobs)
	var mismatch VerifyMismatchError
	if !asVerifyMismatch(oc.Err, &mismatch) {
		t.Fatalf("expected VerifyMismatchError, got %v", oc.Err)
	}
}

func TestTrackWriterPartialHashFallsBackToDiskReread(t *testing.T) {
	dir := t.TempDir()
	rec := reversibility.FrameRecord{Filename: "a.wav", Before: []byte("H")}
	payload := []byte("samples")

	// allHashed=false forces the disk re-read path even though this
	// particular record has no Hash at all.
	tw := NewTrackWriter(Options{OutputDir: dir, Write: true, Verify: true}, false)
	jobs := make(chan Job, 1)
	jobs <- Job{Record: rec, Payload: payload}
	close(jobs)

	oc := <-tw.Run(context.Background(), jobs)
	if oc.Err != nil {
		t.Fatalf("unexpected error: %v", oc.Err)
	}
	if !oc.Written || !oc.Verified {
		t.Fatalf("expected written+verified, got %+v", oc)
	}
}

func TestTrackWriterConflictPromptDeclines(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "existing.wav")
	if err := os.WriteFile(path, []byte("old"), 0o644); err != nil { //nolint:gosec // test setup
		t.Fatalf("seed file: %v", err)
	}

	prompter := NewPrompter(Ask, func(string) Decision { return No })
	tw := NewTrackWriter(Options{OutputDir: dir, Write: true, Prompter: prompter}, true)
	jobs := make(chan Job, 1)
	jobs <- Job{Record: reversibility.FrameRecord{Filename: "existing.wav"}, Payload: []byte("new")}
	close(jobs)

	oc := <-tw.Run(context.Background(), jobs)
	if oc.Err == nil {
		t.Fatalf("expected declined-overwrite error")
	}
	got, err := os.ReadFile(path) //nolint:gosec // test-controlled path
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(got) != "old" {
		t.Fatalf("file should not have been overwritten, got %q", got)
	}
}

func TestPrompterStickyAlwaysYes(t *testing.T) {
	calls := 0
	p := NewPrompter(Ask, func(string) Decision {
		calls++
		return AlwaysYes
	})
	if !p.Confirm("a") {
		t.Fatalf("expected true")
	}
	if !p.Confirm("b") {
		t.Fatalf("expected sticky true on second call")
	}
	if calls != 1 {
		t.Fatalf("ask should only be invoked once, got %d calls", calls)
	}
}

func asVerifyMismatch(err error, target *VerifyMismatchError) bool {
	vm, ok := err.(VerifyMismatchError)
	if ok {
		*target = vm
	}
	return ok
}
