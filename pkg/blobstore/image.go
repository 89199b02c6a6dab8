package blobstore

import (
	stderrors "errors"
	"image"
	"io/fs"

	"github.com/arthur-debert/docstore/pkg/errors"
)

// SaveImage encodes the image with the store's codec and writes it
// atomically under the images root.
func (s *Store) SaveImage(img image.Image, id string) error {
	if id == "" {
		return errors.New(errors.ErrInvalidInput, "empty image id")
	}
	if img == nil {
		return errors.New(errors.ErrInvalidInput, "nil image")
	}

	data, err := s.codec.Encode(img)
	if err != nil {
		serr := errors.Wrapf(err, errors.ErrImageEncode, "failed to encode image %s", id)
		s.log.Error().Err(err).Str("id", id).Msg("SaveImage failed")
		return serr
	}
	return s.writeAtomic(s.paths.ImagePath(id), data)
}

// LoadImage reads and decodes the image stored under the given
// identifier.
func (s *Store) LoadImage(id string) (image.Image, error) {
	data, err := s.LoadImageData(id)
	if err != nil {
		return nil, err
	}
	img, err := s.codec.Decode(data)
	if err != nil {
		serr := errors.Wrapf(err, errors.ErrImageDecode, "failed to decode image %s", id)
		s.log.Warn().Err(err).Str("id", id).Msg("LoadImage failed")
		return nil, serr
	}
	return img, nil
}

// LoadImageData returns the raw encoded bytes of an image blob,
// without running them through the codec.
func (s *Store) LoadImageData(id string) ([]byte, error) {
	if id == "" {
		return nil, errors.New(errors.ErrInvalidInput, "empty image id")
	}

	path := s.paths.ImagePath(id)
	data, err := s.fs.ReadFile(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.Newf(errors.ErrNotFound, "no image %s", id)
		}
		return nil, errors.Wrapf(err, errors.ErrFileRead, "failed to read image %s", id)
	}
	return data, nil
}

// DeleteImage removes the image under the given identifier. A missing
// image is logged and ignored.
func (s *Store) DeleteImage(id string) error {
	if id == "" {
		return errors.New(errors.ErrInvalidInput, "empty image id")
	}
	return s.removeIfPresent(s.paths.ImagePath(id))
}
