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
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/avrawcook/rawcook/internal/hashutil"
)

// Options configures how a TrackWriter turns assembled frames into output:
// whether it writes files to disk at all (Check/QuickCheck run with Write
// false), whether it verifies them, and how a conflict with an existing
// file on disk is resolved.
type Options struct {
	OutputDir string
	Write     bool
	Verify    bool
	// NoOutputCheck disables the disk re-read fallback that otherwise runs
	// whenever a track's hashes don't cover every frame (§8 "Check mode, no
	// output" / "Partial hash coverage").
	NoOutputCheck bool
	Prompter      *Prompter
}

// TrackWriter assembles, writes, and/or verifies every frame of one track,
// in the order its jobs are submitted. One TrackWriter instance is not
// shared across tracks: track ordering only has to be respected within a
// single track, never across tracks (§5).
type TrackWriter struct {
	opts      Options
	allHashed bool
}

// NewTrackWriter returns a TrackWriter for one track. allHashed reports
// whether every frame of the track carries a hash; it decides, up front,
// whether hash-based or disk-reread verification applies to the whole track.
func NewTrackWriter(opts Options, allHashed bool) *TrackWriter {
	return &TrackWriter{opts: opts, allHashed: allHashed}
}

// Run consumes jobs in order and emits one Outcome per job, closing the
// result channel when jobs is drained or ctx is canceled.
func (tw *TrackWriter) Run(ctx context.Context, jobs <-chan Job) <-chan Outcome {
	out := make(chan Outcome)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case job, ok := <-jobs:
				if !ok {
					return
				}
				out <- tw.process(job)
			}
		}
	}()
	return out
}

func (tw *TrackWriter) process(job Job) Outcome {
	assembled := AssembleFrame(job.Record, job.Payload)
	oc := Outcome{Filename: job.Record.Filename}

	if tw.opts.Verify && tw.allHashed {
		sum := hashutil.Sum(assembled)
		if !bytes.Equal(sum[:], job.Record.Hash) {
			oc.Err = VerifyMismatchError{Filename: job.Record.Filename, Reason: "hash mismatch"}
			return oc
		}
		oc.Verified = true
		oc.HashMatched = true
	}

	if !tw.opts.Write {
		return oc
	}

	path := filepath.Join(tw.opts.OutputDir, filepath.FromSlash(job.Record.Filename))
	if err := tw.resolveConflict(path); err != nil {
		oc.Err = err
		return oc
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		oc.Err = fmt.Errorf("framewriter: create directory for %s: %w", job.Record.Filename, err)
		return oc
	}
	if err := os.WriteFile(path, assembled, 0o644); err != nil { //nolint:gosec // output permissions match the original file model
		oc.Err = fmt.Errorf("framewriter: write %s: %w", job.Record.Filename, err)
		return oc
	}
	oc.Written = true

	if tw.opts.Verify && !tw.allHashed && !tw.opts.NoOutputCheck {
		onDisk, err := os.ReadFile(path) //nolint:gosec // path is built from filepath.Join above
		if err != nil {
			oc.Err = fmt.Errorf("framewriter: re-read %s: %w", job.Record.Filename, err)
			return oc
		}
		if !bytes.Equal(onDisk, assembled) {
			oc.Err = VerifyMismatchError{Filename: job.Record.Filename, Reason: "disk re-read mismatch"}
			return oc
		}
		oc.Verified = true
	}

	return oc
}

func (tw *TrackWriter) resolveConflict(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("framewriter: stat %s: %w", path, err)
	}
	if tw.opts.Prompter == nil {
		return nil
	}
	if !tw.opts.Prompter.Confirm("overwrite " + path + "?") {
		return fmt.Errorf("framewriter: %s already exists, not overwriting", path)
	}
	return nil
}
