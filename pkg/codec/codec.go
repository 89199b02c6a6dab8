package codec

import (
	"encoding/json"
	"reflect"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/docstore/pkg/errors"
	"github.com/arthur-debert/docstore/pkg/logging"
)

// Codec encodes entities to JSON and decodes JSON back into typed
// values. Decoding walks an ordered list of profiles and the first one
// that succeeds wins; this is how files written with older date
// representations stay readable.
type Codec struct {
	profiles []Profile
	log      zerolog.Logger
}

// New creates a Codec with the given decode profiles, tried in order.
// With no arguments it uses the default chain: legacy epoch-second
// dates first, then ISO-8601.
func New(profiles ...Profile) *Codec {
	if len(profiles) == 0 {
		profiles = []Profile{LegacyEpoch(), ISO8601()}
	}
	return &Codec{
		profiles: profiles,
		log:      logging.GetLogger("codec"),
	}
}

// Encode renders v as indented UTF-8 JSON. Dates are always written as
// ISO-8601 (RFC 3339) strings regardless of the decode profiles.
func (c *Codec) Encode(v interface{}) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrEncode, "failed to encode entity")
	}
	return data, nil
}

// Decode unmarshals data into v, which must be a non-nil pointer. Each
// profile is tried in order; on exhaustion the last profile error is
// returned wrapped as a DECODE_FAILURE.
func (c *Codec) Decode(data []byte, v interface{}) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return errors.New(errors.ErrInvalidInput, "decode target must be a non-nil pointer")
	}

	var lastErr error
	for _, p := range c.profiles {
		// A failed attempt may have partially populated the target.
		rv.Elem().Set(reflect.Zero(rv.Elem().Type()))

		if err := p.Unmarshal(data, v); err != nil {
			c.log.Trace().Err(err).Str("profile", p.Name()).Msg("Decode profile failed")
			lastErr = err
			continue
		}
		return nil
	}
	return errors.Wrapf(lastErr, errors.ErrDecode, "all %d decode profiles failed", len(c.profiles))
}
