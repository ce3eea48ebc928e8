package jpegutil

// JPEG stream markers.
const (
	markerSOI  = 0xffd8
	markerEOI  = 0xffd9
	markerSOS  = 0xffda
	markerAPP1 = 0xffe1
)

// TIFF tags written to IFD0.
const (
	tagImageDescription = 0x010e
	tagDateTime         = 0x0132
	tagExifIFDPointer   = 0x8769
	tagTimeZoneOffset   = 0x882a
)

// EXIF tags written to the Exif sub-IFD.
const (
	tagExifVersion        = 0x9000
	tagDateTimeOriginal   = 0x9003
	tagSubjectArea        = 0x9214
	tagSubsecTimeOriginal = 0x9291
)

// exifType represents the basic TIFF tag data types.
type exifType uint16

const (
	typeASCII       exifType = 2
	typeUnsignedInt exifType = 3
	typeUnsignedLng exifType = 4
	typeUndef       exifType = 7
	typeSignedInt   exifType = 8
)

// The fixed EXIF signature plus big-endian TIFF header: "MM", magic 42 and
// the offset to IFD0, which always immediately follows the header.
var exifMarkerStart = []byte{
	'E', 'x', 'i', 'f', 0, 0,
	'M', 'M', 0, 42,
	0, 0, 0, 8,
}

// ExifVersion 2.2, written as a raw byte blob.
var exifVersion = []byte{'0', '2', '2', '0'}

const (
	// Size of the EXIF signature preceding the TIFF header. Offsets inside
	// the marker are relative to the TIFF header, not the marker start.
	exifSignatureLen = 6

	// TIFF header size; IFD0 starts right after it.
	tiffHeaderLen = 8

	// Each IFD entry is 12 bytes: tag, type, count, value-or-offset.
	ifdEntryLen = 12
)
