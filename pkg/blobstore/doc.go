// Package blobstore stores opaque byte payloads outside the typed
// document scheme.
//
// Generic blobs live at <root>/data/<id> and images at
// <root>/images/<id>, where id is a generated UUID and the caller's
// only handle. Writes are atomic: bytes land in a temp file under
// <root>/tmp and are renamed into place, so readers never observe a
// half-written blob. Image payloads pass through an injectable
// ImageCodec; PNG is the default.
package blobstore
