package jpegutil_test

import (
	"encoding/binary"
	"errors"

	"github.com/amitkriit/jpegutil"
)

// identityCodec is a test codec that stores the planar data uncompressed.
// The compress side collects row groups back into planes; the decompress
// side serves interleaved scanlines upsampled from them. It can be told to
// misreport dimensions and to raise corrupt-data warnings on the first N
// scanline reads.
type identityCodec struct {
	reportWidth  int // 0 means the real width
	reportHeight int
	warnReads    int
}

// The "compressed" representation: the packed planes prefixed with the
// big-endian dimensions.
func (c *identityCodec) Compress(cfg jpegutil.CompressConfig) (jpegutil.CompressSession, error) {
	if cfg.Format != jpegutil.ColorFormatYUV420 {
		return nil, errors.New("identity codec only supports YUV 4:2:0")
	}
	return &identityCompress{
		frame: jpegutil.NewYUV420Frame(cfg.Width, cfg.Height),
	}, nil
}

func (c *identityCodec) Decompress(data []byte) (jpegutil.DecompressSession, error) {
	if len(data) < 8 {
		return nil, errors.New("short blob")
	}
	w := int(binary.BigEndian.Uint32(data))
	h := int(binary.BigEndian.Uint32(data[4:]))
	frame, err := jpegutil.FrameFromPacked(append([]byte(nil), data[8:]...), w, h)
	if err != nil {
		return nil, err
	}
	s := &identityDecompress{frame: frame, config: jpegutil.ImageConfig{Width: w, Height: h}, warnReads: c.warnReads}
	if c.reportWidth != 0 {
		s.config.Width = c.reportWidth
	}
	if c.reportHeight != 0 {
		s.config.Height = c.reportHeight
	}
	return s, nil
}

type identityCompress struct {
	frame  *jpegutil.YUV420Frame
	marker []byte
	row    int
}

func (s *identityCompress) WriteMarker(payload []byte) error {
	if s.row > 0 {
		return errors.New("marker after rows")
	}
	s.marker = payload
	return nil
}

func (s *identityCompress) WriteRowGroup(g *jpegutil.RowGroup) error {
	f := s.frame
	for i, row := range g.Y {
		if row == nil {
			return errors.New("nil luma row")
		}
		r := s.row + i
		if r >= f.Height {
			continue
		}
		copy(f.Y[r*f.Width:], row)
		if i&1 == 0 {
			if g.Cb[i/2] == nil || g.Cr[i/2] == nil {
				return errors.New("nil chroma row")
			}
			copy(f.Cb[(r/2)*(f.Width/2):], g.Cb[i/2])
			copy(f.Cr[(r/2)*(f.Width/2):], g.Cr[i/2])
		}
	}
	s.row += 16
	return nil
}

func (s *identityCompress) WriteScanline([]byte) error {
	return errors.New("not supported")
}

func (s *identityCompress) Finish() ([]byte, error) {
	f := s.frame
	out := binary.BigEndian.AppendUint32(nil, uint32(f.Width))
	out = binary.BigEndian.AppendUint32(out, uint32(f.Height))
	out = append(out, f.Y...)
	out = append(out, f.Cb...)
	out = append(out, f.Cr...)
	return out, nil
}

func (s *identityCompress) Close() error { return nil }

type identityDecompress struct {
	frame     *jpegutil.YUV420Frame
	config    jpegutil.ImageConfig
	row       int
	reads     int
	warnReads int
	warnings  int
}

func (s *identityDecompress) Config() jpegutil.ImageConfig { return s.config }

func (s *identityDecompress) ReadScanline(dst []byte) error {
	s.reads++
	if s.reads <= s.warnReads {
		s.warnings++
	}
	f := s.frame
	r := s.row
	for c := 0; c < f.Width; c++ {
		dst[c*3] = f.Y[r*f.Width+c]
		ci := (r/2)*(f.Width/2) + c/2
		dst[c*3+1] = f.Cb[ci]
		dst[c*3+2] = f.Cr[ci]
	}
	s.row++
	return nil
}

func (s *identityDecompress) Warnings() int { return s.warnings }

func (s *identityDecompress) Close() error { return nil }
