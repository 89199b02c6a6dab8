package blobstore

import (
	"bytes"
	"image"
	"image/jpeg"
	"image/png"
)

// ImageCodec converts between in-memory images and a compressed byte
// format. The store treats the bytes as opaque; which codec to use is
// the embedding application's call.
type ImageCodec interface {
	Encode(img image.Image) ([]byte, error)
	Decode(data []byte) (image.Image, error)
}

// PNGCodec returns the lossless default codec.
func PNGCodec() ImageCodec {
	return pngCodec{}
}

// JPEGCodec returns a lossy codec with the given quality (1-100).
func JPEGCodec(quality int) ImageCodec {
	return jpegCodec{quality: quality}
}

type pngCodec struct{}

func (pngCodec) Encode(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (pngCodec) Decode(data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	return img, err
}

type jpegCodec struct {
	quality int
}

func (c jpegCodec) Encode(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: c.quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (c jpegCodec) Decode(data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	return img, err
}
