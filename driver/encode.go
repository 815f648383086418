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

	"github.com/avrawcook/rawcook/archivecodec"
	"github.com/avrawcook/rawcook/codec"
	"github.com/avrawcook/rawcook/config"
	"github.com/avrawcook/rawcook/internal/hashutil"
	"github.com/avrawcook/rawcook/rawformat"
	"github.com/avrawcook/rawcook/reversibility"
)

// attachmentsBundlePath names the sidecar ZIP this driver writes Unknown
// files into; the output container's attachment track records only
// filenames and sizes, never attachment content, since that lives here
// instead of duplicated inline.
func attachmentsBundlePath(outputPath string) string {
	return outputPath + ".attachments.zip"
}

// Encode runs the full encode pipeline: enumerate, probe, group sequences,
// compress each track's payload, and write the output container (plus an
// attachments sidecar ZIP, if any Unknown files were found).
func (d *Driver) Encode() error {
	d.logPhase("encode: scanning %s", d.opts.InputDir)
	streams, hashLists, attachments, err := buildPlan(d.opts.InputDir, d.parserOptions(), d.Sink)
	if err != nil {
		return err
	}
	d.logPhase("encode: found %d stream(s), %d attachment(s) (%s)", len(streams), len(attachments), d.cfg.Summary())
	for _, fault := range d.Sink.Faults() {
		d.logPhase("encode: %v", fault)
	}

	for _, hl := range hashLists {
		entries, ok := rawformat.ParseHashList(hl.buf)
		if !ok {
			continue
		}
		for _, e := range entries {
			if len(e.Digest) != 16 {
				continue // only MD5 entries feed the Hashes table; SHA1/SHA256 lines are accepted syntax but not used for MD5-based verification
			}
			var digest hashutil.Digest
			copy(digest[:], e.Digest)
			d.Hashes.FromFile(e.Filename, digest)
		}
	}

	var durationNames []string
	var durations []float64
	for _, s := range streams {
		if s.files[0].result.Info.DurationSec > 0 {
			durationNames = append(durationNames, s.files[0].name)
			durations = append(durations, s.files[0].result.Info.DurationSec)
		}
	}
	if err := checkCoherency(durationNames, durations); err != nil {
		return err
	}

	manifest := Manifest{LibraryName: config.LibraryName, LibraryVersion: config.LibraryVersion}
	var tracks []reversibility.TrackRecord
	var trackEssences [][][]byte

	for _, s := range streams {
		track, stream, essences, err := d.encodeStream(s)
		if err != nil {
			return fmt.Errorf("encode stream %s: %w", s.files[0].name, err)
		}
		d.logPhase("encode: stream %s -> %s, %d frame(s)", s.files[0].name, stream.Class, len(track.Frames))
		tracks = append(tracks, track)
		manifest.Streams = append(manifest.Streams, stream)
		trackEssences = append(trackEssences, essences)
	}

	if len(attachments) > 0 {
		track, stream, err := d.encodeAttachments(attachments)
		if err != nil {
			return fmt.Errorf("encode attachments: %w", err)
		}
		d.logPhase("encode: %d attachment(s) bundled", len(track.Frames))
		tracks = append(tracks, track)
		manifest.Streams = append(manifest.Streams, stream)
		trackEssences = append(trackEssences, make([][]byte, len(track.Frames)))
	}

	seg := reversibility.SegmentRecord{
		LibraryName: config.LibraryName, LibraryVersion: config.LibraryVersion,
		PathSeparator: string(filepath.Separator), Tracks: tracks,
	}
	metadata := reversibility.Encode(seg)

	out, err := os.Create(d.opts.OutputPath) //nolint:gosec // path is user-provided by design
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer func() { _ = out.Close() }()

	if err := writeContainer(out, manifest, metadata, trackEssences); err != nil {
		return fmt.Errorf("write container: %w", err)
	}
	d.logPhase("encode: wrote %s", d.opts.OutputPath)
	return nil
}

// encodeStream compresses one audio/image track's frames and returns its
// reversibility track, manifest entry, and per-frame essence bytes.
func (d *Driver) encodeStream(s streamPlan) (reversibility.TrackRecord, StreamManifest, [][]byte, error) {
	first := s.files[0].result
	var class rawformat.Class
	var flavor any
	var audioFlv *rawformat.AudioFlavor
	var imageFlv *rawformat.ImageFlavor
	switch {
	case first.AudioFlv != nil:
		class, flavor, audioFlv = rawformat.ClassAudio, *first.AudioFlv, first.AudioFlv
	case first.ImageFlv != nil:
		class, flavor, imageFlv = rawformat.ClassImage, *first.ImageFlv, first.ImageFlv
	default:
		return reversibility.TrackRecord{}, StreamManifest{}, nil, fmt.Errorf("stream %s has no supported flavor", s.files[0].name)
	}

	var enc codec.Codec
	var err error
	var imageCodecName string
	if class == rawformat.ClassImage {
		imageCodecName = string(d.cfg.ImageCodec)
		enc, err = codec.ByImageCodecName(imageCodecName)
	} else {
		enc, err = codec.GetCodec(class)
	}
	if err != nil {
		return reversibility.TrackRecord{}, StreamManifest{}, nil, err
	}

	frames := make([]reversibility.FrameRecord, 0, len(s.files))
	essences := make([][]byte, 0, len(s.files))
	for _, pf := range s.files {
		res := pf.result
		if res.Problem {
			return reversibility.TrackRecord{}, StreamManifest{}, nil, fmt.Errorf("%s: non-zero DPX padding bits", pf.name)
		}
		payload := res.Payload.Slice(pf.buf)
		compressed, err := enc.Encode(payload, flavor)
		if err != nil {
			return reversibility.TrackRecord{}, StreamManifest{}, nil, fmt.Errorf("compress %s: %w", pf.name, err)
		}
		frame := reversibility.FrameRecord{
			Filename: pf.name,
			Before:   res.Before.Slice(pf.buf),
			After:    res.After.Slice(pf.buf),
			In:       sliceInRanges(pf.buf, res.In),
			FileSize: int64(len(pf.buf)),
		}
		if d.opts.Hash {
			sum := hashutil.Sum(pf.buf)
			frame.Hash = sum[:]
			d.Hashes.FromFile(pf.name, sum)
		}
		frames = append(frames, frame)
		essences = append(essences, compressed)
	}

	template := reversibility.TemplateRecord{Filename: frames[0].Filename, Before: frames[0].Before, After: frames[0].After, In: frames[0].In}
	track := reversibility.TrackRecord{Unique: s.unique, Template: template, Frames: frames}
	stream := StreamManifest{Class: class, AudioFlavor: audioFlv, ImageFlavor: imageFlv, FrameCount: len(frames), ImageCodecName: imageCodecName}
	return track, stream, essences, nil
}

// encodeAttachments stores every Unknown file's content in a sidecar ZIP
// and records a content-free reversibility frame (Filename/FileSize/Hash
// only) per file.
func (d *Driver) encodeAttachments(attachments []planFile) (reversibility.TrackRecord, StreamManifest, error) {
	bundlePath := attachmentsBundlePath(d.opts.OutputPath)
	f, err := os.Create(bundlePath) //nolint:gosec // path derived from OutputPath
	if err != nil {
		return reversibility.TrackRecord{}, StreamManifest{}, fmt.Errorf("create attachments bundle: %w", err)
	}
	defer func() { _ = f.Close() }()

	bw := archivecodec.NewZIPBundleWriter(f)
	frames := make([]reversibility.FrameRecord, 0, len(attachments))
	for _, pf := range attachments {
		if err := bw.AddFile(pf.name, pf.buf); err != nil {
			return reversibility.TrackRecord{}, StreamManifest{}, err
		}
		frame := reversibility.FrameRecord{Filename: pf.name, FileSize: int64(len(pf.buf)), IsAttachment: true}
		if d.opts.Hash {
			sum := hashutil.Sum(pf.buf)
			frame.Hash = sum[:]
			d.Hashes.FromFile(pf.name, sum)
		}
		frames = append(frames, frame)
	}
	if err := bw.Close(); err != nil {
		return reversibility.TrackRecord{}, StreamManifest{}, err
	}

	unique := len(frames) == 1
	template := reversibility.TemplateRecord{}
	if !unique {
		template.Filename = frames[0].Filename
	}
	track := reversibility.TrackRecord{Unique: unique, Template: template, Frames: frames}
	stream := StreamManifest{Class: rawformat.ClassAttachment, FrameCount: len(frames)}
	return track, stream, nil
}

func sliceInRanges(buf []byte, ranges []rawformat.Range) [][]byte {
	if len(ranges) == 0 {
		return nil
	}
	out := make([][]byte, len(ranges))
	for i, r := range ranges {
		out[i] = r.Slice(buf)
	}
	return out
}
