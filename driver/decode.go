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
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/avrawcook/rawcook/archivecodec"
	"github.com/avrawcook/rawcook/codec"
	"github.com/avrawcook/rawcook/framewriter"
	"github.com/avrawcook/rawcook/rawformat"
	"github.com/avrawcook/rawcook/reversibility"
)

// Decode runs the full decode pipeline: read the container, reconstruct
// every track's frames from its codec-compressed essence, and write (or
// verify) them into InputDir, which for a decode run is the reconstruction
// target directory.
func (d *Driver) Decode(ctx context.Context) error {
	d.logPhase("decode: opening %s", d.opts.OutputPath)
	f, err := os.Open(d.opts.OutputPath) //nolint:gosec // path is user-provided by design
	if err != nil {
		return fmt.Errorf("open container: %w", err)
	}
	defer func() { _ = f.Close() }()

	manifest, metadata, trackEssences, err := readContainer(f)
	if err != nil {
		return err
	}
	seg, err := reversibility.Decode(metadata)
	if err != nil {
		return fmt.Errorf("decode reversibility segment: %w", err)
	}
	if len(seg.Tracks) != len(manifest.Streams) {
		return fmt.Errorf("%w: track count mismatch between manifest and reversibility segment", ErrMalformedContainer)
	}
	d.logPhase("decode: library %s %s, %d track(s)", manifest.LibraryName, manifest.LibraryVersion, len(seg.Tracks))

	total := 0
	for _, t := range seg.Tracks {
		total += len(t.Frames)
	}
	d.Progress = NewProgress(total)
	defer d.Progress.End()

	workers := d.cfg.WorkerCount
	if workers <= 0 {
		workers = len(seg.Tracks)
	}
	sem := make(chan struct{}, maxInt(workers, 1))
	var wg sync.WaitGroup
	errs := make([]error, len(seg.Tracks))

	for i := range seg.Tracks {
		i := i
		wg.Add(1)
		sem <- struct{}{}
		go func() {
			defer wg.Done()
			defer func() { <-sem }()
			errs[i] = d.decodeTrack(ctx, seg.Tracks[i], manifest.Streams[i], trackEssences[i])
		}()
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	d.logPhase("decode: wrote %d frame(s) into %s", d.Progress.Completed(), d.opts.InputDir)
	return nil
}

func (d *Driver) decodeTrack(ctx context.Context, track reversibility.TrackRecord, stream StreamManifest, essences [][]byte) error {
	d.logPhase("decode: track %s, %d frame(s)", stream.Class, len(track.Frames))
	if stream.Class == rawformat.ClassAttachment {
		return d.decodeAttachments(track)
	}

	var dec codec.Codec
	var err error
	if stream.Class == rawformat.ClassImage {
		dec, err = codec.ByImageCodecName(stream.ImageCodecName)
	} else {
		dec, err = codec.GetCodec(stream.Class)
	}
	if err != nil {
		return err
	}
	var flavor any
	if stream.AudioFlavor != nil {
		flavor = *stream.AudioFlavor
	} else if stream.ImageFlavor != nil {
		flavor = *stream.ImageFlavor
	}

	allHashed := framewriter.AllFramesHashed(track.Frames)
	tw := framewriter.NewTrackWriter(framewriter.Options{
		OutputDir:     d.opts.InputDir,
		Write:         d.opts.Write,
		Verify:        d.opts.Verify,
		NoOutputCheck: d.opts.NoOutputCheck,
		Prompter:      d.prompter(),
	}, allHashed)

	decodeErr := make(chan error, 1)
	jobs := make(chan framewriter.Job)
	go func() {
		defer close(jobs)
		for i, frame := range track.Frames {
			payloadLen := int(frame.FileSize) - len(frame.Before) - len(frame.After)
			for _, in := range frame.In {
				payloadLen -= len(in)
			}
			var essence []byte
			if i < len(essences) {
				essence = essences[i]
			}
			payload, err := dec.Decode(essence, payloadLen, flavor)
			if err != nil {
				// A decode failure for one frame stops this track; the
				// error reaches the caller once the frames already queued
				// have drained.
				decodeErr <- fmt.Errorf("decode payload of %s: %w", frame.Filename, err)
				return
			}
			select {
			case jobs <- framewriter.Job{Record: frame, Payload: payload}:
			case <-ctx.Done():
				return
			}
		}
	}()

	for outcome := range tw.Run(ctx, jobs) {
		d.Progress.Advance(1)
		if outcome.Err != nil {
			return fmt.Errorf("frame %s: %w", outcome.Filename, outcome.Err)
		}
	}
	select {
	case err := <-decodeErr:
		return err
	default:
		return nil
	}
}

func (d *Driver) decodeAttachments(track reversibility.TrackRecord) error {
	bundlePath := attachmentsBundlePath(d.opts.OutputPath)
	bundle, err := archivecodec.Open(bundlePath)
	if err != nil {
		return fmt.Errorf("open attachments bundle: %w", err)
	}
	defer func() { _ = bundle.Close() }()

	expected := make([]archivecodec.ExpectedMember, len(track.Frames))
	for i, frame := range track.Frames {
		expected[i] = archivecodec.ExpectedMember{Name: frame.Filename, Size: frame.FileSize}
	}
	if err := archivecodec.VerifyMembers(bundle, expected); err != nil {
		return fmt.Errorf("attachments bundle %s disagrees with reversibility metadata: %w", bundlePath, err)
	}

	for _, frame := range track.Frames {
		r, _, err := bundle.Open(frame.Filename)
		if err != nil {
			return fmt.Errorf("open attachment %s: %w", frame.Filename, err)
		}
		if !d.opts.Write {
			_ = r.Close()
			d.Progress.Advance(1)
			continue
		}
		path := filepath.Join(d.opts.InputDir, filepath.FromSlash(frame.Filename))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			_ = r.Close()
			return fmt.Errorf("create directory for %s: %w", frame.Filename, err)
		}
		out, err := os.Create(path) //nolint:gosec // path built from filepath.Join above
		if err != nil {
			_ = r.Close()
			return fmt.Errorf("create %s: %w", frame.Filename, err)
		}
		_, copyErr := io.Copy(out, r)
		_ = r.Close()
		closeErr := out.Close()
		if copyErr != nil {
			return fmt.Errorf("write attachment %s: %w", frame.Filename, copyErr)
		}
		if closeErr != nil {
			return fmt.Errorf("close attachment %s: %w", frame.Filename, closeErr)
		}
		d.Progress.Advance(1)
	}
	return nil
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
