package jpegutil_test

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/jpeg"
	"testing"
	"time"

	"github.com/amitkriit/jpegutil"
	"github.com/rwcarlsen/goexif/exif"

	qt "github.com/frankban/quicktest"
)

func flatFrame(width, height int, y, cb, cr byte) *jpegutil.YUV420Frame {
	f := jpegutil.NewYUV420Frame(width, height)
	for i := range f.Y {
		f.Y[i] = y
	}
	for i := range f.Cb {
		f.Cb[i] = cb
		f.Cr[i] = cr
	}
	return f
}

func maxPlaneDiff(a, b []byte) int {
	var max int
	for i := range a {
		d := int(a[i]) - int(b[i])
		if d < 0 {
			d = -d
		}
		if d > max {
			max = d
		}
	}
	return max
}

func TestEncodeDecode(t *testing.T) {
	c := qt.New(t)

	src := flatFrame(96, 64, 128, 90, 160)
	data, err := jpegutil.Encode(src, jpegutil.Options{Quality: 90})
	c.Assert(err, qt.IsNil)
	c.Assert(data[0], qt.Equals, byte(0xff))
	c.Assert(data[1], qt.Equals, byte(0xd8))

	dst := jpegutil.NewYUV420Frame(96, 64)
	c.Assert(jpegutil.Decode(data, dst, jpegutil.Options{}), qt.IsNil)

	// Lossy, but a flat image stays within DC quantization error.
	c.Assert(maxPlaneDiff(dst.Y, src.Y) <= 8, qt.IsTrue)
	c.Assert(maxPlaneDiff(dst.Cb, src.Cb) <= 8, qt.IsTrue)
	c.Assert(maxPlaneDiff(dst.Cr, src.Cr) <= 8, qt.IsTrue)
}

func TestDecodeDeclaredSizeMismatch(t *testing.T) {
	c := qt.New(t)

	src := flatFrame(64, 64, 100, 110, 120)
	data, err := jpegutil.Encode(src, jpegutil.Options{})
	c.Assert(err, qt.IsNil)

	dst := jpegutil.NewYUV420Frame(32, 32)
	err = jpegutil.Decode(data, dst, jpegutil.Options{})
	c.Assert(jpegutil.IsDimensionMismatch(err), qt.IsTrue)
}

func TestDecodeGarbage(t *testing.T) {
	c := qt.New(t)

	dst := jpegutil.NewYUV420Frame(32, 32)
	err := jpegutil.Decode([]byte("not a jpeg at all"), dst, jpegutil.Options{})
	c.Assert(jpegutil.IsCodecError(err), qt.IsTrue)
}

func TestEncodeWithMetadata(t *testing.T) {
	c := qt.New(t)

	loc := time.FixedZone("UTC+2", 2*3600)
	ts := time.Date(2024, 3, 7, 13, 5, 9, 420_000_000, loc)
	meta := jpegutil.NewMetadata(ts, "Sunrise over the driveway", &jpegutil.SubjectArea{X: 10, Y: 20, Width: 4, Height: 6})

	src := flatFrame(64, 48, 128, 128, 128)
	data, err := jpegutil.Encode(src, jpegutil.Options{Metadata: &meta})
	c.Assert(err, qt.IsNil)

	// The stream must still be a decodable JPEG.
	img, err := jpeg.Decode(bytes.NewReader(data))
	c.Assert(err, qt.IsNil)
	c.Assert(img.Bounds().Dx(), qt.Equals, 64)

	// Cross-check the marker with an independent EXIF reader.
	x, err := exif.Decode(bytes.NewReader(data))
	c.Assert(err, qt.IsNil)

	stringVal := func(name exif.FieldName) string {
		tag, err := x.Get(name)
		c.Assert(err, qt.IsNil)
		s, err := tag.StringVal()
		c.Assert(err, qt.IsNil)
		return s
	}

	c.Assert(stringVal(exif.ImageDescription), qt.Equals, "Sunrise over the driveway")
	c.Assert(stringVal(exif.DateTime), qt.Equals, "2024:03:07 13:05:09")
	c.Assert(stringVal(exif.DateTimeOriginal), qt.Equals, "2024:03:07 13:05:09")
	c.Assert(stringVal(exif.SubSecTimeOriginal), qt.Equals, "42")

	area, err := x.Get(exif.SubjectArea)
	c.Assert(err, qt.IsNil)
	var got [4]int64
	for i := range got {
		v, err := area.Int(i)
		c.Assert(err, qt.IsNil)
		got[i] = int64(v)
	}
	c.Assert(got, qt.Equals, [4]int64{10, 20, 4, 6})
}

func TestEncodeWithoutMetadata(t *testing.T) {
	c := qt.New(t)

	src := flatFrame(32, 32, 128, 128, 128)

	for _, meta := range []*jpegutil.Metadata{nil, {}} {
		data, err := jpegutil.Encode(src, jpegutil.Options{Metadata: meta})
		c.Assert(err, qt.IsNil)
		c.Assert(findAPP1(c, data), qt.IsFalse)
	}
}

// findAPP1 walks the JPEG segment chain up to start-of-scan.
func findAPP1(c *qt.C, data []byte) bool {
	c.Assert(binary.BigEndian.Uint16(data), qt.Equals, uint16(0xffd8))
	pos := 2
	for pos+4 <= len(data) {
		marker := binary.BigEndian.Uint16(data[pos:])
		if marker == 0xffda {
			return false
		}
		if marker == 0xffe1 {
			return true
		}
		length := int(binary.BigEndian.Uint16(data[pos+2:]))
		pos += 2 + length
	}
	return false
}

func TestEncodeGray(t *testing.T) {
	c := qt.New(t)

	pix := bytes.Repeat([]byte{200}, 64*48)
	meta := jpegutil.NewMetadata(time.Date(2024, 3, 7, 13, 5, 9, 0, time.UTC), "Night mode", nil)

	data, err := jpegutil.EncodeGray(pix, 64, 48, jpegutil.Options{Quality: 85, Metadata: &meta})
	c.Assert(err, qt.IsNil)

	img, err := jpeg.Decode(bytes.NewReader(data))
	c.Assert(err, qt.IsNil)

	gray, ok := img.(*image.Gray)
	c.Assert(ok, qt.IsTrue)
	c.Assert(gray.Bounds().Dx(), qt.Equals, 64)
	c.Assert(gray.Bounds().Dy(), qt.Equals, 48)
	c.Assert(maxPlaneDiff(gray.Pix[:64], pix[:64]) <= 8, qt.IsTrue)

	x, err := exif.Decode(bytes.NewReader(data))
	c.Assert(err, qt.IsNil)
	tag, err := x.Get(exif.ImageDescription)
	c.Assert(err, qt.IsNil)
	s, err := tag.StringVal()
	c.Assert(err, qt.IsNil)
	c.Assert(s, qt.Equals, "Night mode")

	_, err = jpegutil.EncodeGray(pix[:10], 64, 48, jpegutil.Options{})
	c.Assert(jpegutil.IsCodecError(err), qt.IsTrue)
}

func TestDecodeGrayIntoYUV(t *testing.T) {
	c := qt.New(t)

	pix := bytes.Repeat([]byte{90}, 32*32)
	data, err := jpegutil.EncodeGray(pix, 32, 32, jpegutil.Options{})
	c.Assert(err, qt.IsNil)

	dst := jpegutil.NewYUV420Frame(32, 32)
	c.Assert(jpegutil.Decode(data, dst, jpegutil.Options{}), qt.IsNil)
	c.Assert(maxPlaneDiff(dst.Y, pix) <= 8, qt.IsTrue)
	// Grayscale expands with neutral chroma.
	c.Assert(dst.Cb[0], qt.Equals, byte(128))
	c.Assert(dst.Cr[0], qt.Equals, byte(128))
}
