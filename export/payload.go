package export

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"strings"
)

// Image payload handling. Image and signature annotations carry their
// raster data as a data URI; the payload format is detected from the byte
// header, not from the URI media type, so mislabeled payloads still decode.

// ErrUnsupportedImage is returned for payloads that are neither PNG nor
// JPEG. Export skips such annotations with a logged warning.
var ErrUnsupportedImage = errors.New("export: unsupported image payload format")

var (
	pngMagic  = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}
	jpegMagic = []byte{0xff, 0xd8, 0xff}
)

// payloadKind is the sniffed image format.
type payloadKind int

const (
	payloadUnknown payloadKind = iota
	payloadPNG
	payloadJPEG
)

// decodeDataURI strips a data URI prefix and base64-decodes the payload.
// Bare base64 strings (no "data:" prefix) are accepted too.
func decodeDataURI(s string) ([]byte, error) {
	if rest, ok := strings.CutPrefix(s, "data:"); ok {
		_, b64, found := strings.Cut(rest, ",")
		if !found {
			return nil, fmt.Errorf("export: malformed data URI")
		}
		s = b64
	}
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("export: decode image payload: %w", err)
	}
	return data, nil
}

// sniffPayload detects the image format from the byte header.
func sniffPayload(data []byte) payloadKind {
	switch {
	case bytes.HasPrefix(data, pngMagic):
		return payloadPNG
	case bytes.HasPrefix(data, jpegMagic):
		return payloadJPEG
	default:
		return payloadUnknown
	}
}

// decodePayload decodes a data-URI image payload into pixels. Unsupported
// formats return [ErrUnsupportedImage].
func decodePayload(dataURI string) (image.Image, payloadKind, error) {
	data, err := decodeDataURI(dataURI)
	if err != nil {
		return nil, payloadUnknown, err
	}
	switch kind := sniffPayload(data); kind {
	case payloadPNG:
		img, err := png.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, kind, fmt.Errorf("export: decode png: %w", err)
		}
		return img, kind, nil
	case payloadJPEG:
		img, err := jpeg.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, kind, fmt.Errorf("export: decode jpeg: %w", err)
		}
		return img, kind, nil
	default:
		return nil, payloadUnknown, ErrUnsupportedImage
	}
}
