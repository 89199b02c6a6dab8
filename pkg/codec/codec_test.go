package codec_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/docstore/pkg/codec"
	"github.com/arthur-debert/docstore/pkg/errors"
)

type note struct {
	Id        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"createdAt"`
}

type tagged struct {
	Id    string   `json:"id"`
	Tags  []string `json:"tags"`
	Edits []edit   `json:"edits"`
}

type edit struct {
	At time.Time `json:"at"`
	By string    `json:"by"`
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	c := codec.New()

	original := note{
		Id:        "n1",
		Title:     "Foo",
		CreatedAt: time.Date(2024, 3, 17, 10, 30, 0, 0, time.UTC),
	}

	data, err := c.Encode(original)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"2024-03-17T10:30:00Z"`, "dates must be encoded as ISO-8601")

	var decoded note
	require.NoError(t, c.Decode(data, &decoded))
	assert.Equal(t, original, decoded)
}

func TestDecode_FallsBackToISO8601(t *testing.T) {
	// ISO-8601 input decodes even though the legacy profile runs first.
	data := []byte(`{"id":"n1","title":"Foo","createdAt":"2024-03-17T10:30:00Z"}`)

	var decoded note
	require.NoError(t, codec.New().Decode(data, &decoded))
	assert.Equal(t, time.Date(2024, 3, 17, 10, 30, 0, 0, time.UTC), decoded.CreatedAt)
}

func TestDecode_LegacyEpochDates(t *testing.T) {
	// 1710671400 == 2024-03-17T10:30:00Z
	data := []byte(`{"id":"n1","title":"Foo","createdAt":1710671400}`)

	var decoded note
	require.NoError(t, codec.New().Decode(data, &decoded))
	assert.True(t, decoded.CreatedAt.Equal(time.Date(2024, 3, 17, 10, 30, 0, 0, time.UTC)))
}

func TestDecode_LegacyEpochInNestedStructures(t *testing.T) {
	data := []byte(`{
		"id": "n2",
		"tags": ["a", "b"],
		"edits": [
			{"at": 1710671400, "by": "alice"},
			{"at": 1710671460.5, "by": "bob"}
		]
	}`)

	var decoded tagged
	require.NoError(t, codec.New().Decode(data, &decoded))
	require.Len(t, decoded.Edits, 2)
	assert.True(t, decoded.Edits[0].At.Equal(time.Date(2024, 3, 17, 10, 30, 0, 0, time.UTC)))
	assert.Equal(t, "bob", decoded.Edits[1].By)
	assert.True(t, decoded.Edits[1].At.After(decoded.Edits[0].At))
}

func TestDecode_AllProfilesFail(t *testing.T) {
	var decoded note
	err := codec.New().Decode([]byte(`{"id": not json`), &decoded)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrDecode))
}

func TestDecode_InvalidTarget(t *testing.T) {
	err := codec.New().Decode([]byte(`{}`), nil)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))

	var decoded note
	err = codec.New().Decode([]byte(`{}`), decoded) // not a pointer
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestDecode_FailedAttemptDoesNotLeakPartialState(t *testing.T) {
	// The legacy profile rejects this input only after the tree decode,
	// so the target must be re-zeroed before the ISO attempt.
	data := []byte(`{"id":"n1","title":"Bar","createdAt":"2024-03-17T10:30:00Z"}`)

	decoded := note{Id: "stale", Title: "stale"}
	require.NoError(t, codec.New().Decode(data, &decoded))
	assert.Equal(t, "n1", decoded.Id)
	assert.Equal(t, "Bar", decoded.Title)
}

func TestDecode_CollectionOfEntities(t *testing.T) {
	data := []byte(`[
		{"id":"a","title":"A","createdAt":1710671400},
		{"id":"b","title":"B","createdAt":1710671460}
	]`)

	var decoded []note
	require.NoError(t, codec.New().Decode(data, &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, "b", decoded[1].Id)
	assert.False(t, decoded[0].CreatedAt.IsZero())
}

func TestCustomProfileOrder(t *testing.T) {
	// An ISO-only codec must reject legacy files.
	c := codec.New(codec.ISO8601())

	var decoded note
	err := c.Decode([]byte(`{"id":"n1","createdAt":1710671400}`), &decoded)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrDecode))
}

func TestEncode_Unencodable(t *testing.T) {
	_, err := codec.New().Encode(func() {})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrEncode))
	assert.True(t, strings.Contains(err.Error(), "ENCODE_FAILURE"))
}
