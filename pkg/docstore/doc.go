// Package docstore implements the directory-keyed document store.
//
// Each namespace owns a directory under the store root and each entity
// is persisted as <id>.json inside it:
//
//	<root>/<Namespace>/<id>.json          per-instance documents
//	<root>/<Namespace>/<sub>/<id>.json    subfoldered documents
//	<root>/<Namespace>.json               single-file collection
//
// Namespaces are caller-supplied string keys; the store never derives
// directory names from runtime type information. Operations that need
// a decode target are package-level generic functions taking the Store
// as their first argument:
//
//	s := docstore.New(filesystem.NewOS(), p)
//	_ = s.Save("Contact", contact)
//	all, _ := docstore.LoadAll[Contact](s, "Contact")
//
// Every operation returns a typed *errors.StoreError on failure and
// logs it; absence of a document surfaces as a NOT_FOUND error from
// the single-document loads, as an empty result from LoadAll and
// LoadCollection, and as a no-op from Delete.
package docstore
