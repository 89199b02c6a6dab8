// Package types defines the shared interfaces for the docstore module.
//
// It contains the FS filesystem abstraction consumed by every component
// and the Entity identity contract for values stored by the document
// store. Keeping these here avoids import cycles between the store
// packages and their collaborators.
package types
