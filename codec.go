package jpegutil

// ColorFormat selects the pixel layout a compress session consumes.
type ColorFormat int

const (
	// ColorFormatYUV420 feeds the codec pre-subsampled planar rows via
	// WriteRowGroup.
	ColorFormatYUV420 ColorFormat = iota
	// ColorFormatGray feeds the codec single-component scanlines via
	// WriteScanline.
	ColorFormatGray
)

// CompressConfig carries the per-image compression parameters. Quality is in
// the 1-100 range; values outside it are clamped by the codec.
type CompressConfig struct {
	Width   int
	Height  int
	Quality int
	Format  ColorFormat
}

// Codec is the image codec collaborator. Entropy coding, bitstream syntax
// and coding-table management are entirely its concern; this package only
// moves rows and markers across the boundary. Every call returns an explicit
// error; a codec must not panic across this interface.
//
// A Codec must be safe for use from multiple goroutines, but each session it
// produces belongs to a single call on a single goroutine.
type Codec interface {
	Compress(cfg CompressConfig) (CompressSession, error)
	Decompress(data []byte) (DecompressSession, error)
}

// CompressSession compresses one image. The call sequence is: WriteMarker
// (optional, at most once, before any row), then WriteRowGroup or
// WriteScanline for the whole image, then Finish. Close releases the session
// on every exit path and must be safe to call after Finish.
type CompressSession interface {
	// WriteMarker attaches an application marker (APP1 payload for EXIF) to
	// the output stream. It fails if any row has been written.
	WriteMarker(payload []byte) error

	// WriteRowGroup consumes one batch of up to 16 luma and 8+8 chroma rows
	// (ColorFormatYUV420 only).
	WriteRowGroup(g *RowGroup) error

	// WriteScanline consumes one grayscale row (ColorFormatGray only).
	WriteScanline(line []byte) error

	// Finish completes compression and returns the encoded bytes.
	Finish() ([]byte, error)

	Close() error
}

// DecompressSession decompresses one image, one scanline per request.
type DecompressSession interface {
	// Config returns the dimensions encoded in the compressed stream.
	Config() ImageConfig

	// ReadScanline fills dst with the next interleaved 3-component
	// (or grayscale-expanded) scanline.
	ReadScanline(dst []byte) error

	// Warnings returns the number of recoverable corrupt-data warnings
	// accumulated so far in this session.
	Warnings() int

	Close() error
}
