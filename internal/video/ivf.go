package video

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"sync"

	"golang.org/x/image/vp8"
)

const (
	ivfSignature       = "DKIF"
	ivfFileHeaderSize  = 32
	ivfFrameHeaderSize = 12
)

// IVFBackend reads VP8 streams stored in the IVF container without any external
// tooling. Only keyframes can be decoded; interframes report ErrFrameUnavailable.
type IVFBackend struct{}

func NewIVFBackend() *IVFBackend {
	return &IVFBackend{}
}

func (b *IVFBackend) Name() string {
	return "ivf"
}

func (b *IVFBackend) Open(_ context.Context, path string) (Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}

	src, err := parseIVF(f, info.Size())
	if err != nil {
		f.Close()
		return nil, err
	}
	src.file = f
	return src, nil
}

type ivfHeader struct {
	FourCC string
	Width  int
	Height int
	Rate   uint32
	Scale  uint32
}

type ivfFrame struct {
	offset int64
	size   uint32
	pts    uint64
}

type ivfSource struct {
	header ivfHeader
	frames []ivfFrame
	fps    float64

	mu   sync.Mutex
	file io.ReaderAt
}

func parseIVF(r io.ReaderAt, size int64) (*ivfSource, error) {
	hdr := make([]byte, ivfFileHeaderSize)
	if _, err := r.ReadAt(hdr, 0); err != nil {
		return nil, fmt.Errorf("%w: read ivf header: %v", ErrUnsupportedFormat, err)
	}
	if string(hdr[0:4]) != ivfSignature {
		return nil, fmt.Errorf("%w: missing DKIF signature", ErrUnsupportedFormat)
	}

	header := ivfHeader{
		FourCC: string(hdr[8:12]),
		Width:  int(binary.LittleEndian.Uint16(hdr[12:14])),
		Height: int(binary.LittleEndian.Uint16(hdr[14:16])),
		Rate:   binary.LittleEndian.Uint32(hdr[16:20]),
		Scale:  binary.LittleEndian.Uint32(hdr[20:24]),
	}
	if header.FourCC != "VP80" {
		return nil, fmt.Errorf("%w: codec %q (only VP80 supported)", ErrUnsupportedFormat, header.FourCC)
	}

	offset := int64(binary.LittleEndian.Uint16(hdr[6:8]))
	if offset < ivfFileHeaderSize {
		offset = ivfFileHeaderSize
	}

	var frames []ivfFrame
	fh := make([]byte, ivfFrameHeaderSize)
	for offset+ivfFrameHeaderSize <= size {
		if _, err := r.ReadAt(fh, offset); err != nil {
			return nil, fmt.Errorf("read frame header at %d: %w", offset, err)
		}
		frameSize := binary.LittleEndian.Uint32(fh[0:4])
		dataOffset := offset + ivfFrameHeaderSize
		if dataOffset+int64(frameSize) > size {
			// truncated trailing frame
			break
		}
		frames = append(frames, ivfFrame{
			offset: dataOffset,
			size:   frameSize,
			pts:    binary.LittleEndian.Uint64(fh[4:12]),
		})
		offset = dataOffset + int64(frameSize)
	}

	src := &ivfSource{header: header, frames: frames}
	src.fps = ivfFrameRate(header, frames)
	if err := (Metadata{FrameCount: len(frames), FrameRate: src.fps}).Validate(); err != nil {
		return nil, err
	}
	return src, nil
}

// ivfFrameRate prefers the spacing of presentation timestamps, since many muxers
// write a millisecond timebase rather than the real frame rate.
func ivfFrameRate(h ivfHeader, frames []ivfFrame) float64 {
	if h.Rate == 0 || h.Scale == 0 {
		return 0
	}
	tick := float64(h.Scale) / float64(h.Rate)
	if n := len(frames); n >= 2 {
		first, last := frames[0].pts, frames[n-1].pts
		if last > first {
			return float64(n-1) / (float64(last-first) * tick)
		}
	}
	return 1 / tick
}

func (s *ivfSource) FrameCount() int {
	return len(s.frames)
}

func (s *ivfSource) FrameRate() float64 {
	return s.fps
}

func (s *ivfSource) Frame(_ context.Context, index int) (image.Image, error) {
	if index < 0 || index >= len(s.frames) {
		return nil, fmt.Errorf("%w: index %d outside [0,%d]", ErrFrameUnavailable, index, len(s.frames)-1)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	fr := s.frames[index]
	data := make([]byte, fr.size)
	if _, err := s.file.ReadAt(data, fr.offset); err != nil {
		return nil, fmt.Errorf("%w: read frame %d: %v", ErrFrameUnavailable, index, err)
	}

	img, err := decodeVP8(data)
	if err != nil {
		return nil, fmt.Errorf("%w: frame %d: %v", ErrFrameUnavailable, index, err)
	}
	return img, nil
}

func (s *ivfSource) Close() error {
	if c, ok := s.file.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

var errInterframe = errors.New("interframe (only keyframes can be decoded)")

func decodeVP8(data []byte) (image.Image, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty frame data")
	}
	if data[0]&0x01 != 0 {
		return nil, errInterframe
	}

	decoder := vp8.NewDecoder()
	decoder.Init(bytes.NewReader(data), len(data))

	fh, err := decoder.DecodeFrameHeader()
	if err != nil {
		return nil, fmt.Errorf("decode frame header: %w", err)
	}
	if !fh.KeyFrame {
		return nil, errInterframe
	}
	if fh.Width == 0 || fh.Height == 0 {
		return nil, fmt.Errorf("invalid frame dimensions: %dx%d", fh.Width, fh.Height)
	}

	img, err := decoder.DecodeFrame()
	if err != nil {
		return nil, fmt.Errorf("decode frame: %w", err)
	}
	return img, nil
}
