package probe

import (
	"encoding/base64"
)

const (
	MIMEJPEG = "image/jpeg"
	MIMEPNG  = "image/png"
)

// Image is an encoded preview frame.
type Image struct {
	MIME string
	Data []byte
}

// NewImage sniffs data to pick between JPEG and PNG.
func NewImage(data []byte) Image {
	mime := MIMEPNG
	if IsJPEG(data) {
		mime = MIMEJPEG
	}
	return Image{MIME: mime, Data: data}
}

// IsJPEG reports whether data starts with SOI and ends with EOI.
func IsJPEG(data []byte) bool {
	n := len(data)
	return n > 3 && data[0] == 0xFF && data[1] == 0xD8 && data[n-2] == 0xFF && data[n-1] == 0xD9
}

// DataURL encodes the image as a base64 data URL.
func (i Image) DataURL() string {
	return "data:" + i.MIME + ";base64," + base64.StdEncoding.EncodeToString(i.Data)
}

// Ext is the file extension matching the MIME type.
func (i Image) Ext() string {
	if i.MIME == MIMEJPEG {
		return ".jpg"
	}
	return ".png"
}
