package jpegutil

import (
	"sort"
	"time"
)

// exifDateTimeLayout is the exact format EXIF requires for timestamps.
const exifDateTimeLayout = "2006:01:02 15:04:05"

// SubjectArea is the region of interest recorded in the EXIF SubjectArea tag:
// a rectangle given by its center and extent.
type SubjectArea struct {
	X      uint16
	Y      uint16
	Width  uint16
	Height uint16
}

// Metadata holds the optional fields serialized into the EXIF APP1 marker.
// All fields may be left empty; a zero Metadata produces no marker at all.
// The struct is built once per image and not mutated afterwards.
type Metadata struct {
	// Description is written to the ImageDescription tag. EXIF restricts it
	// to ASCII; use NewMetadata or asciiClean for arbitrary input.
	Description string

	// DateTime is the timestamp formatted as "YYYY:MM:DD HH:MM:SS".
	// It is written both to the TIFF DateTime tag (which most programs treat
	// as last-modified) and to the EXIF DateTimeOriginal tag.
	DateTime string

	// SubsecTime holds the sub-second digits of the timestamp, if any.
	SubsecTime string

	// SubjectArea, if set, is written to the EXIF SubjectArea tag.
	SubjectArea *SubjectArea

	// UTCOffsetHours is the local time zone's offset from UTC in whole
	// hours. Only written when DateTime is present.
	UTCOffsetHours int16
}

// NewMetadata derives a Metadata from a timestamp, an optional description
// and an optional region of interest. The timestamp is rendered in its own
// location; sub-second precision is kept as centiseconds when present.
func NewMetadata(ts time.Time, description string, area *SubjectArea) Metadata {
	_, offsetSeconds := ts.Zone()
	m := Metadata{
		Description:    asciiClean(description),
		DateTime:       ts.Format(exifDateTimeLayout),
		SubjectArea:    area,
		UTCOffsetHours: int16(offsetSeconds / 3600),
	}
	if ns := ts.Nanosecond(); ns != 0 {
		m.SubsecTime = ts.Format(".00")[1:]
	}
	return m
}

// IsZero reports whether no optional field is set.
func (m Metadata) IsZero() bool {
	return m.Description == "" && m.DateTime == "" && m.SubsecTime == "" && m.SubjectArea == nil
}

// ifdEntry is one directory entry plus its encoded payload. Both the marker
// size and the serialized bytes are derived from the same entry list, so the
// two can never disagree.
type ifdEntry struct {
	tag     uint16
	typ     exifType
	count   uint32
	payload []byte
}

// MarshalExif serializes the metadata into a complete APP1 payload: the
// EXIF+TIFF header, IFD0, the Exif sub-IFD when needed, and all out-of-line
// payloads packed 4-byte aligned in reference order. It returns nil when no
// optional field is set; the caller must then omit the APP1 marker entirely.
func (m Metadata) MarshalExif() []byte {
	ifd0, ifd1 := m.entries()
	if len(ifd0) == 0 {
		return nil
	}

	w := newByteWriter(m.markerLen(ifd0, ifd1))
	w.raw(exifMarkerStart)
	writeIFD(w, ifd0)
	if len(ifd1) > 0 {
		writeIFD(w, ifd1)
	}
	w.flush()

	return w.bytes()
}

// entries builds the two directory entry lists, each sorted in ascending
// tag-ID order as TIFF requires. If the sub-IFD is non-empty, IFD0 gains the
// pointer tag and the sub-IFD gains the ExifVersion tag.
func (m Metadata) entries() (ifd0, ifd1 []ifdEntry) {
	if m.Description != "" {
		ifd0 = append(ifd0, ifdEntry{
			tag:     tagImageDescription,
			typ:     typeASCII,
			count:   uint32(len(m.Description) + 1),
			payload: append([]byte(m.Description), 0),
		})
	}

	if m.DateTime != "" {
		dt := append([]byte(m.DateTime), 0)
		ifd0 = append(ifd0, ifdEntry{
			tag:     tagDateTime,
			typ:     typeASCII,
			count:   uint32(len(dt)),
			payload: dt,
		})
		ifd0 = append(ifd0, ifdEntry{
			tag:     tagTimeZoneOffset,
			typ:     typeSignedInt,
			count:   1,
			payload: []byte{byte(uint16(m.UTCOffsetHours) >> 8), byte(uint16(m.UTCOffsetHours))},
		})
		ifd1 = append(ifd1, ifdEntry{
			tag:     tagDateTimeOriginal,
			typ:     typeASCII,
			count:   uint32(len(dt)),
			payload: dt,
		})
	}

	if m.SubjectArea != nil {
		a := m.SubjectArea
		payload := make([]byte, 0, 8)
		for _, v := range []uint16{a.X, a.Y, a.Width, a.Height} {
			payload = append(payload, byte(v>>8), byte(v))
		}
		ifd1 = append(ifd1, ifdEntry{
			tag:     tagSubjectArea,
			typ:     typeUnsignedInt,
			count:   4,
			payload: payload,
		})
	}

	if m.SubsecTime != "" {
		// Not NUL terminated.
		ifd1 = append(ifd1, ifdEntry{
			tag:     tagSubsecTimeOriginal,
			typ:     typeASCII,
			count:   uint32(len(m.SubsecTime)),
			payload: []byte(m.SubsecTime),
		})
	}

	if len(ifd1) > 0 {
		ifd1 = append(ifd1, ifdEntry{
			tag:     tagExifVersion,
			typ:     typeUndef,
			count:   uint32(len(exifVersion)),
			payload: exifVersion,
		})
		ifd0 = append(ifd0, ifdEntry{
			tag:   tagExifIFDPointer,
			typ:   typeUnsignedLng,
			count: 1,
		})
	}

	sort.Slice(ifd0, func(i, j int) bool { return ifd0[i].tag < ifd0[j].tag })
	sort.Slice(ifd1, func(i, j int) bool { return ifd1[i].tag < ifd1[j].tag })

	if len(ifd1) > 0 {
		// The sub-IFD starts right after IFD0.
		ifd1Offset := uint32(tiffHeaderLen + ifdLen(ifd0))
		for i := range ifd0 {
			if ifd0[i].tag == tagExifIFDPointer {
				ifd0[i].payload = []byte{
					byte(ifd1Offset >> 24), byte(ifd1Offset >> 16),
					byte(ifd1Offset >> 8), byte(ifd1Offset),
				}
			}
		}
	}

	return ifd0, ifd1
}

// markerLen computes the exact marker size by running the same offset
// bookkeeping the serialization uses: directory areas first, then each
// out-of-line payload 4-byte aligned at the current free offset.
func (m Metadata) markerLen(ifd0, ifd1 []ifdEntry) int {
	offset := tiffHeaderLen + ifdLen(ifd0) + ifdLen(ifd1)
	for _, e := range append(append([]ifdEntry(nil), ifd0...), ifd1...) {
		if len(e.payload) > 4 {
			offset = (offset + 3) &^ 3
			offset += len(e.payload)
		}
	}
	return exifSignatureLen + offset
}

// ifdLen is the byte length of one directory: entry count, the entries,
// and the next-IFD offset.
func ifdLen(entries []ifdEntry) int {
	if len(entries) == 0 {
		return 0
	}
	return 2 + ifdEntryLen*len(entries) + 4
}

func writeIFD(w *byteWriter, entries []ifdEntry) {
	w.put2(uint16(len(entries)))
	for _, e := range entries {
		w.put2(e.tag)
		w.put2(uint16(e.typ))
		w.put4(e.count)
		if len(e.payload) <= 4 {
			w.inline(e.payload)
		} else {
			w.outOfLine(e.payload)
		}
	}
	// Next IFD offset; we never chain directories.
	w.put4(0)
}
