package main

import (
	"bytes"
	"context"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"log/slog"
	"sync"
	"testing"
)

// recordingRecorder keeps every entry for inspection.
type recordingRecorder struct {
	mu      sync.Mutex
	entries []ActivityEntry
}

func (r *recordingRecorder) Record(_ context.Context, e ActivityEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, e)
}

func (r *recordingRecorder) Entries() []ActivityEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]ActivityEntry(nil), r.entries...)
}

// fakeDescriber returns a canned answer and remembers the last request.
type fakeDescriber struct {
	text  string
	err   error
	calls int
	last  DescribeRequest
}

func (f *fakeDescriber) Describe(_ context.Context, req DescribeRequest) (string, error) {
	f.calls++
	f.last = req
	return f.text, f.err
}

type wantEntry struct {
	actor    string
	activity string
	success  bool
}

func assertEntries(t *testing.T, got []ActivityEntry, want ...wantEntry) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("expected %d activity entries, got %d: %v", len(want), len(got), got)
	}
	for i, w := range want {
		g := got[i]
		if g.Actor != w.actor || g.Activity != w.activity || g.Success != w.success {
			t.Errorf("entry %d: expected %q/%q/%v, got %q/%q/%v",
				i, w.actor, w.activity, w.success, g.Actor, g.Activity, g.Success)
		}
		if g.At.IsZero() {
			t.Errorf("entry %d has no timestamp", i)
		}
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func solidImage(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func jpegBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, solidImage(8, 8, color.RGBA{R: 200, A: 255}), nil); err != nil {
		t.Fatalf("encode jpeg: %v", err)
	}
	return buf.Bytes()
}

func pngBytes(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

// pngHeader returns a PNG signature and IHDR chunk claiming w x h RGBA
// pixels, followed by a truncated IDAT chunk.
func pngHeader(w, h uint32) []byte {
	var buf bytes.Buffer
	buf.WriteString("\x89PNG\r\n\x1a\n")

	ihdr := make([]byte, 13)
	binary.BigEndian.PutUint32(ihdr[0:4], w)
	binary.BigEndian.PutUint32(ihdr[4:8], h)
	ihdr[8] = 8 // bit depth
	ihdr[9] = 6 // RGBA
	writeChunk(&buf, "IHDR", ihdr)

	binary.Write(&buf, binary.BigEndian, uint32(1<<20))
	buf.WriteString("IDAT\x78\x9c")
	return buf.Bytes()
}

func writeChunk(buf *bytes.Buffer, typ string, data []byte) {
	binary.Write(buf, binary.BigEndian, uint32(len(data)))
	crc := crc32.NewIEEE()
	crc.Write([]byte(typ))
	crc.Write(data)
	buf.WriteString(typ)
	buf.Write(data)
	binary.Write(buf, binary.BigEndian, crc.Sum32())
}
