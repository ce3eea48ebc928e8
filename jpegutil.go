// Package jpegutil encodes and decodes camera frames as JPEG, adapting
// between planar YUV 4:2:0 buffers and the row formats an image codec
// consumes, and stamping images with a byte-exact TIFF/EXIF APP1 marker.
package jpegutil

// ImageConfig contains basic image configuration.
type ImageConfig struct {
	Width  int
	Height int
}

// maxDecodeWarnings is how many recoverable corrupt-data warnings one decode
// tolerates before the result is considered a partial image and rejected.
const maxDecodeWarnings = 2

// Options contains the per-call options for Encode and Decode.
type Options struct {
	// Quality is the JPEG quality in the 1-100 range.
	// If zero, the codec's default is used.
	Quality int

	// Metadata, if non-nil and non-zero, is serialized into an EXIF APP1
	// marker attached to the encoded image.
	Metadata *Metadata

	// Codec is the image codec collaborator. If nil, DefaultCodec is used.
	Codec Codec

	// Warnf will be called for each warning.
	Warnf func(string, ...any)
}

func (o *Options) init() {
	if o.Codec == nil {
		o.Codec = DefaultCodec
	}
	if o.Warnf == nil {
		o.Warnf = func(string, ...any) {}
	}
}

// Encode compresses a planar 4:2:0 frame to JPEG. The frame's planes are
// grouped into raw-subsampled row batches and handed to the codec; if
// metadata is present, its EXIF marker is attached after compression starts
// and before the first row is written. The call is synchronous and owns no
// state beyond its stack frame; independent frames may be encoded
// concurrently with independent calls.
func Encode(frame *YUV420Frame, opts Options) ([]byte, error) {
	opts.init()
	if err := frame.valid(); err != nil {
		return nil, err
	}

	session, err := opts.Codec.Compress(CompressConfig{
		Width:   frame.Width,
		Height:  frame.Height,
		Quality: opts.Quality,
		Format:  ColorFormatYUV420,
	})
	if err != nil {
		return nil, &CodecError{Op: "compress", Err: err}
	}
	defer session.Close()

	if err := writeExifMarker(session, opts.Metadata); err != nil {
		return nil, err
	}

	for _, g := range frame.RowGroups() {
		if err := session.WriteRowGroup(&g); err != nil {
			return nil, &CodecError{Op: "compress", Err: err}
		}
	}

	data, err := session.Finish()
	if err != nil {
		return nil, &CodecError{Op: "compress", Err: err}
	}
	return data, nil
}

// EncodeGray compresses a single-plane grayscale image to JPEG, one scanline
// at a time, with the same EXIF marker handling as Encode.
func EncodeGray(pix []byte, width, height int, opts Options) ([]byte, error) {
	opts.init()
	if width <= 0 || height <= 0 || len(pix) < width*height {
		return nil, &CodecError{Op: "compress", Err: errImageTooSmall(len(pix), width, height)}
	}

	session, err := opts.Codec.Compress(CompressConfig{
		Width:   width,
		Height:  height,
		Quality: opts.Quality,
		Format:  ColorFormatGray,
	})
	if err != nil {
		return nil, &CodecError{Op: "compress", Err: err}
	}
	defer session.Close()

	if err := writeExifMarker(session, opts.Metadata); err != nil {
		return nil, err
	}

	for y := 0; y < height; y++ {
		if err := session.WriteScanline(pix[y*width : (y+1)*width]); err != nil {
			return nil, &CodecError{Op: "compress", Err: err}
		}
	}

	data, err := session.Finish()
	if err != nil {
		return nil, &CodecError{Op: "compress", Err: err}
	}
	return data, nil
}

func writeExifMarker(session CompressSession, m *Metadata) error {
	if m == nil {
		return nil
	}
	marker := m.MarshalExif()
	if len(marker) == 0 {
		// No metadata to attach; omit the APP1 marker entirely.
		return nil
	}
	if err := session.WriteMarker(marker); err != nil {
		return &CodecError{Op: "compress", Err: err}
	}
	return nil
}

// Decode decompresses a JPEG into the given planar 4:2:0 frame. The decoded
// dimensions must equal the frame's declared dimensions; on mismatch the
// frame is left untouched. Scanlines are demultiplexed row by row; if the
// codec reports more than two corrupt-data warnings, the decode fails
// instead of returning a partial image.
func Decode(data []byte, frame *YUV420Frame, opts Options) error {
	opts.init()
	if err := frame.valid(); err != nil {
		return err
	}

	session, err := opts.Codec.Decompress(data)
	if err != nil {
		return &CodecError{Op: "decompress", Err: err}
	}
	defer session.Close()

	declared := ImageConfig{Width: frame.Width, Height: frame.Height}
	decoded := session.Config()
	if decoded != declared {
		return &DimensionMismatchError{Declared: declared, Decoded: decoded}
	}

	line := make([]byte, frame.Width*3)
	for row := 0; row < frame.Height; row++ {
		if err := session.ReadScanline(line); err != nil {
			return &CodecError{Op: "decompress", Err: err}
		}
		frame.writeScanline(row, line)
		if n := session.Warnings(); n > maxDecodeWarnings {
			opts.Warnf("decode aborted after %d corrupt-data warnings", n)
			return &CodecError{Op: "decompress", Err: ErrTooManyWarnings}
		}
	}

	if n := session.Warnings(); n > 0 {
		opts.Warnf("decode finished with %d corrupt-data warnings", n)
	}

	return nil
}
