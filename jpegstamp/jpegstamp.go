// jpegstamp encodes a raw camera frame (planar YUV 4:2:0, or a single
// grayscale plane) to JPEG, stamped with an EXIF description and timestamp.
package main

import (
	"flag"
	"os"
	"time"

	"github.com/amitkriit/jpegutil"
	"github.com/sirupsen/logrus"
)

func main() {
	var (
		in      = flag.String("in", "", "input file with raw pixel data")
		out     = flag.String("out", "out.jpg", "output JPEG file")
		width   = flag.Int("width", 0, "frame width in pixels")
		height  = flag.Int("height", 0, "frame height in pixels")
		quality = flag.Int("quality", 0, "JPEG quality 1-100 (0 = codec default)")
		gray    = flag.Bool("gray", false, "treat input as a single grayscale plane")
		desc    = flag.String("desc", "", "EXIF image description")
	)
	flag.Parse()

	if *in == "" || *width <= 0 || *height <= 0 {
		flag.Usage()
		os.Exit(2)
	}

	log := logrus.WithFields(logrus.Fields{
		"in":     *in,
		"width":  *width,
		"height": *height,
	})

	pix, err := os.ReadFile(*in)
	if err != nil {
		log.WithError(err).Fatal("Reading input frame")
	}

	meta := jpegutil.NewMetadata(time.Now(), *desc, nil)
	opts := jpegutil.Options{
		Quality:  *quality,
		Metadata: &meta,
		Warnf: func(format string, args ...any) {
			logrus.Warnf(format, args...)
		},
	}

	var jpg []byte
	if *gray {
		jpg, err = jpegutil.EncodeGray(pix, *width, *height, opts)
	} else {
		var frame *jpegutil.YUV420Frame
		frame, err = jpegutil.FrameFromPacked(pix, *width, *height)
		if err == nil {
			jpg, err = jpegutil.Encode(frame, opts)
		}
	}
	if err != nil {
		log.WithError(err).Fatal("Encoding JPEG")
	}

	if err := os.WriteFile(*out, jpg, 0o644); err != nil {
		log.WithError(err).Fatal("Writing output")
	}

	log.WithFields(logrus.Fields{
		"out":  *out,
		"size": len(jpg),
	}).Info("Encoded JPEG")
}
