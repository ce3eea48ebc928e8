package jpegutil

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
)

// stdCodec is the default Codec, backed by the standard library JPEG
// implementation. Compression collects the raw rows into an image.YCbCr and
// encodes it in Finish; the application marker is spliced into the produced
// stream immediately after SOI, which is where compressors insert APP1.
type stdCodec struct{}

// DefaultCodec is used when Options.Codec is nil.
var DefaultCodec Codec = stdCodec{}

func (stdCodec) Compress(cfg CompressConfig) (CompressSession, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("invalid image dimensions %dx%d", cfg.Width, cfg.Height)
	}
	s := &stdCompressSession{cfg: cfg}
	rect := image.Rect(0, 0, cfg.Width, cfg.Height)
	switch cfg.Format {
	case ColorFormatYUV420:
		s.ycbcr = image.NewYCbCr(rect, image.YCbCrSubsampleRatio420)
	case ColorFormatGray:
		s.gray = image.NewGray(rect)
	default:
		return nil, fmt.Errorf("unsupported color format %d", cfg.Format)
	}
	return s, nil
}

func (stdCodec) Decompress(data []byte) (DecompressSession, error) {
	img, err := jpeg.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	b := img.Bounds()
	return &stdDecompressSession{
		img:    img,
		config: ImageConfig{Width: b.Dx(), Height: b.Dy()},
	}, nil
}

type stdCompressSession struct {
	cfg    CompressConfig
	ycbcr  *image.YCbCr
	gray   *image.Gray
	marker []byte
	row    int
}

func (s *stdCompressSession) WriteMarker(payload []byte) error {
	if s.row > 0 {
		return errors.New("marker must be written before the first row")
	}
	if s.marker != nil {
		return errors.New("marker already written")
	}
	if len(payload)+2 > 0xffff {
		return fmt.Errorf("marker payload too long (%d bytes)", len(payload))
	}
	s.marker = payload
	return nil
}

func (s *stdCompressSession) WriteRowGroup(g *RowGroup) error {
	if s.ycbcr == nil {
		return errors.New("row groups require the YUV 4:2:0 color format")
	}
	img := s.ycbcr
	for i, row := range g.Y {
		r := s.row + i
		if r >= s.cfg.Height {
			break
		}
		copy(img.Y[r*img.YStride:], row[:s.cfg.Width])
		if i&1 == 0 {
			c := r / 2
			copy(img.Cb[c*img.CStride:], g.Cb[i/2][:s.cfg.Width/2])
			copy(img.Cr[c*img.CStride:], g.Cr[i/2][:s.cfg.Width/2])
		}
	}
	s.row += rowGroupLumaRows
	return nil
}

func (s *stdCompressSession) WriteScanline(line []byte) error {
	if s.gray == nil {
		return errors.New("scanlines require the grayscale color format")
	}
	if s.row >= s.cfg.Height {
		return errors.New("image already complete")
	}
	copy(s.gray.Pix[s.row*s.gray.Stride:], line[:s.cfg.Width])
	s.row++
	return nil
}

func (s *stdCompressSession) Finish() ([]byte, error) {
	quality := s.cfg.Quality
	if quality <= 0 {
		quality = jpeg.DefaultQuality
	} else if quality > 100 {
		quality = 100
	}

	var img image.Image
	if s.ycbcr != nil {
		img = s.ycbcr
	} else {
		img = s.gray
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, err
	}
	if s.marker == nil {
		return buf.Bytes(), nil
	}
	return spliceAPP1(buf.Bytes(), s.marker)
}

func (s *stdCompressSession) Close() error {
	s.ycbcr = nil
	s.gray = nil
	s.marker = nil
	return nil
}

// spliceAPP1 inserts an APP1 segment carrying payload right after the SOI
// marker of an encoded JPEG stream.
func spliceAPP1(jpg, payload []byte) ([]byte, error) {
	if len(jpg) < 2 || jpg[0] != 0xff || jpg[1] != markerSOI&0xff {
		return nil, errors.New("not a JPEG stream")
	}
	segLen := len(payload) + 2
	if segLen > 0xffff {
		return nil, fmt.Errorf("APP1 payload too long (%d bytes)", len(payload))
	}

	out := make([]byte, 0, len(jpg)+4+len(payload))
	out = append(out, jpg[:2]...)
	out = append(out, 0xff, markerAPP1&0xff, byte(segLen>>8), byte(segLen))
	out = append(out, payload...)
	out = append(out, jpg[2:]...)
	return out, nil
}

type stdDecompressSession struct {
	img    image.Image
	config ImageConfig
	row    int
}

func (s *stdDecompressSession) Config() ImageConfig {
	return s.config
}

func (s *stdDecompressSession) ReadScanline(dst []byte) error {
	if s.row >= s.config.Height {
		return errors.New("no scanlines left")
	}
	y := s.row

	switch img := s.img.(type) {
	case *image.YCbCr:
		for x := 0; x < s.config.Width; x++ {
			dst[x*3] = img.Y[img.YOffset(x, y)]
			ci := img.COffset(x, y)
			dst[x*3+1] = img.Cb[ci]
			dst[x*3+2] = img.Cr[ci]
		}
	case *image.Gray:
		for x := 0; x < s.config.Width; x++ {
			dst[x*3] = img.Pix[y*img.Stride+x]
			dst[x*3+1] = 128
			dst[x*3+2] = 128
		}
	default:
		for x := 0; x < s.config.Width; x++ {
			r, g, b, _ := s.img.At(x, y).RGBA()
			yy, cb, cr := color.RGBToYCbCr(uint8(r>>8), uint8(g>>8), uint8(b>>8))
			dst[x*3] = yy
			dst[x*3+1] = cb
			dst[x*3+2] = cr
		}
	}

	s.row++
	return nil
}

// Warnings always returns zero: the standard library decoder reports
// corruption as a hard error, never as a recoverable warning.
func (s *stdDecompressSession) Warnings() int {
	return 0
}

func (s *stdDecompressSession) Close() error {
	s.img = nil
	return nil
}
