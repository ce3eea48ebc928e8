package jpegutil

import "fmt"

// YUV420Frame is a planar 4:2:0 image: a full resolution luma plane and two
// chroma planes at half resolution in both directions. The planes are owned
// by the caller for the duration of one encode or decode call.
type YUV420Frame struct {
	Y  []byte
	Cb []byte
	Cr []byte

	Width  int
	Height int
}

// NewYUV420Frame allocates a zeroed frame. Width and height must be even.
func NewYUV420Frame(width, height int) *YUV420Frame {
	f, err := FrameFromPacked(make([]byte, width*height+width*height/2), width, height)
	if err != nil {
		panic(err)
	}
	return f
}

// FrameFromPacked slices a packed planar buffer (Y, then Cb, then Cr) into a
// frame without copying. The buffer must hold exactly width*height*3/2 bytes.
func FrameFromPacked(buf []byte, width, height int) (*YUV420Frame, error) {
	if width <= 0 || height <= 0 || width&1 == 1 || height&1 == 1 {
		return nil, fmt.Errorf("jpegutil: invalid 4:2:0 dimensions %dx%d", width, height)
	}
	lumaSize := width * height
	chromaSize := lumaSize / 4
	if len(buf) != lumaSize+2*chromaSize {
		return nil, fmt.Errorf("jpegutil: packed buffer is %d bytes, want %d", len(buf), lumaSize+2*chromaSize)
	}
	return &YUV420Frame{
		Y:      buf[:lumaSize],
		Cb:     buf[lumaSize : lumaSize+chromaSize],
		Cr:     buf[lumaSize+chromaSize:],
		Width:  width,
		Height: height,
	}, nil
}

func (f *YUV420Frame) valid() error {
	if f.Width <= 0 || f.Height <= 0 || f.Width&1 == 1 || f.Height&1 == 1 {
		return fmt.Errorf("jpegutil: invalid 4:2:0 dimensions %dx%d", f.Width, f.Height)
	}
	lumaSize := f.Width * f.Height
	if len(f.Y) < lumaSize || len(f.Cb) < lumaSize/4 || len(f.Cr) < lumaSize/4 {
		return fmt.Errorf("jpegutil: plane buffers too small for %dx%d", f.Width, f.Height)
	}
	return nil
}

// rowGroupLumaRows is what a raw-subsampled codec write consumes per call:
// one MCU row of 16 luma rows with 8 rows from each chroma plane.
const (
	rowGroupLumaRows   = 16
	rowGroupChromaRows = 8
)

// RowGroup is one codec-ready batch of row slices. The final group of an
// image whose height is not a multiple of 16 is completed with shared
// zero-filled rows, never nil rows, so the codec cannot read padding it was
// not given.
type RowGroup struct {
	Y  [rowGroupLumaRows][]byte
	Cb [rowGroupChromaRows][]byte
	Cr [rowGroupChromaRows][]byte
}

// RowGroups batches the frame into codec-ready groups of 16 luma rows each.
// The returned groups alias the frame's planes.
func (f *YUV420Frame) RowGroups() []RowGroup {
	var (
		w          = f.Width
		groups     = make([]RowGroup, 0, (f.Height+rowGroupLumaRows-1)/rowGroupLumaRows)
		zeroLuma   []byte
		zeroChroma []byte
	)

	for j := 0; j < f.Height; j += rowGroupLumaRows {
		var g RowGroup
		for i := 0; i < rowGroupLumaRows; i++ {
			row := j + i
			if row < f.Height {
				g.Y[i] = f.Y[row*w : (row+1)*w]
				if i&1 == 0 {
					c := row / 2
					g.Cb[i/2] = f.Cb[c*(w/2) : (c+1)*(w/2)]
					g.Cr[i/2] = f.Cr[c*(w/2) : (c+1)*(w/2)]
				}
			} else {
				if zeroLuma == nil {
					zeroLuma = make([]byte, w)
					zeroChroma = make([]byte, w/2)
				}
				g.Y[i] = zeroLuma
				if i&1 == 0 {
					g.Cb[i/2] = zeroChroma
					g.Cr[i/2] = zeroChroma
				}
			}
		}
		groups = append(groups, g)
	}

	return groups
}

// writeScanline demultiplexes one interleaved YCbCr scanline into the planes:
// luma from every sample, chroma from every second column, and the chroma
// rows advance on every second scanline (4:2:0).
func (f *YUV420Frame) writeScanline(row int, line []byte) {
	w := f.Width
	yRow := f.Y[row*w : (row+1)*w]
	cbRow := f.Cb[(row/2)*(w/2):]
	crRow := f.Cr[(row/2)*(w/2):]

	for c := 0; c < w; c++ {
		yRow[c] = line[c*3]
		if c&1 == 1 {
			cbRow[c/2] = line[c*3+1]
			crRow[c/2] = line[c*3+2]
		}
	}
}
