// Package codec handles JSON serialization for the document store.
//
// Encoding is fixed: indented JSON with ISO-8601 (RFC 3339) dates.
// Decoding tries an ordered list of profiles until one succeeds,
// because files on disk may have been written by store versions that
// rendered dates as epoch-second numbers instead of strings. The
// default chain tries the legacy numeric representation first and
// falls back to ISO-8601; new profiles can be added via New without
// touching call sites.
package codec
