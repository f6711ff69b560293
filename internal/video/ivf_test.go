package video

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
)

type ivfFixtureFrame struct {
	pts  uint64
	data []byte
}

func buildIVF(fourcc string, rate, scale uint32, frames []ivfFixtureFrame) []byte {
	var buf bytes.Buffer
	hdr := make([]byte, ivfFileHeaderSize)
	copy(hdr[0:4], ivfSignature)
	binary.LittleEndian.PutUint16(hdr[6:8], ivfFileHeaderSize)
	copy(hdr[8:12], fourcc)
	binary.LittleEndian.PutUint16(hdr[12:14], 320)
	binary.LittleEndian.PutUint16(hdr[14:16], 240)
	binary.LittleEndian.PutUint32(hdr[16:20], rate)
	binary.LittleEndian.PutUint32(hdr[20:24], scale)
	binary.LittleEndian.PutUint32(hdr[24:28], uint32(len(frames)))
	buf.Write(hdr)

	for _, f := range frames {
		fh := make([]byte, ivfFrameHeaderSize)
		binary.LittleEndian.PutUint32(fh[0:4], uint32(len(f.data)))
		binary.LittleEndian.PutUint64(fh[4:12], f.pts)
		buf.Write(fh)
		buf.Write(f.data)
	}
	return buf.Bytes()
}

func writeIVF(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "jump.ivf")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

// interframe payloads have the low bit of the first byte set
func interframes(n int) []ivfFixtureFrame {
	frames := make([]ivfFixtureFrame, n)
	for i := range frames {
		frames[i] = ivfFixtureFrame{pts: uint64(i), data: []byte{0x01, 0x02, 0x03, 0x04}}
	}
	return frames
}

func TestIVFBackend_Metadata(t *testing.T) {
	path := writeIVF(t, buildIVF("VP80", 30, 1, interframes(45)))

	src, err := NewIVFBackend().Open(context.Background(), path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer src.Close()

	if src.FrameCount() != 45 {
		t.Errorf("expected 45 frames, got %d", src.FrameCount())
	}
	if src.FrameRate() != 30 {
		t.Errorf("expected 30 fps, got %v", src.FrameRate())
	}
}

func TestIVFBackend_FrameRateFromTimestamps(t *testing.T) {
	tests := []struct {
		name    string
		rate    uint32
		scale   uint32
		frames  int
		spacing uint64
		want    float64
	}{
		{name: "millisecond timebase 40ms", rate: 1000, scale: 1, frames: 11, spacing: 40, want: 25},
		{name: "millisecond timebase 33ms", rate: 1000, scale: 1, frames: 31, spacing: 33, want: 1000.0 / 33},
		{name: "timebase is the frame rate", rate: 60, scale: 1, frames: 5, spacing: 1, want: 60},
		{name: "single frame falls back to timebase", rate: 30000, scale: 1001, frames: 1, spacing: 1, want: 30000.0 / 1001},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			frames := make([]ivfFixtureFrame, tt.frames)
			for i := range frames {
				frames[i] = ivfFixtureFrame{pts: uint64(i) * tt.spacing, data: []byte{0x01}}
			}
			path := writeIVF(t, buildIVF("VP80", tt.rate, tt.scale, frames))

			src, err := NewIVFBackend().Open(context.Background(), path)
			if err != nil {
				t.Fatalf("open: %v", err)
			}
			defer src.Close()

			if math.Abs(src.FrameRate()-tt.want) > 1e-9 {
				t.Errorf("expected %v fps, got %v", tt.want, src.FrameRate())
			}
		})
	}
}

func TestIVFBackend_TruncatedTrailingFrame(t *testing.T) {
	data := buildIVF("VP80", 30, 1, interframes(3))
	data = data[:len(data)-2]
	path := writeIVF(t, data)

	src, err := NewIVFBackend().Open(context.Background(), path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer src.Close()

	if src.FrameCount() != 2 {
		t.Errorf("expected 2 complete frames, got %d", src.FrameCount())
	}
}

func TestIVFBackend_UndecodableFrames(t *testing.T) {
	frames := interframes(3)
	// keyframe bit set but no valid VP8 start code
	frames[0].data = []byte{0x00, 0x00, 0x00, 0xAA, 0xBB, 0xCC, 0x00, 0x00, 0x00, 0x00}
	path := writeIVF(t, buildIVF("VP80", 30, 1, frames))

	src, err := NewIVFBackend().Open(context.Background(), path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer src.Close()

	for _, idx := range []int{0, 1, 2, 3, -1} {
		if _, err := src.Frame(context.Background(), idx); !errors.Is(err, ErrFrameUnavailable) {
			t.Errorf("index %d: expected ErrFrameUnavailable, got %v", idx, err)
		}
	}
}

func TestIVFBackend_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		data    []byte
		wantErr error
	}{
		{
			name:    "wrong signature",
			data:    append([]byte("RIFF"), make([]byte, 60)...),
			wantErr: ErrUnsupportedFormat,
		},
		{
			name:    "vp9 codec",
			data:    buildIVF("VP90", 30, 1, interframes(2)),
			wantErr: ErrUnsupportedFormat,
		},
		{
			name:    "no frames",
			data:    buildIVF("VP80", 30, 1, nil),
			wantErr: ErrInvalidMetadata,
		},
		{
			name:    "zero timebase",
			data:    buildIVF("VP80", 0, 0, interframes(2)),
			wantErr: ErrInvalidMetadata,
		},
		{
			name:    "short file",
			data:    []byte("DKIF"),
			wantErr: ErrUnsupportedFormat,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeIVF(t, tt.data)
			_, err := NewIVFBackend().Open(context.Background(), path)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}
