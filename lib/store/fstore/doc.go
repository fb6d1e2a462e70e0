// Package fstore implements a store.IBackend that keeps every storage in a flat
// preferences file. It is the persistence used by the host side of the channel
// (`kvprefs serve --backend file`).
//
// File Layout:
//
//	<dir>/default.prefs.json            default storage
//	<dir>/n-<base64url(name)>.prefs.json named storages
//
// With compression enabled the files carry an additional ".zst" suffix and are zstd
// encoded. Each file is a JSON object mapping keys to tagged values
// ({"type":"double","value":1}), so the type declared by the writer survives the round
// trip even where JSON itself would lose it.
//
// Writes read the current file, apply the change and replace the file atomically through
// a temporary file and a rename. Access to the file of a storage is serialized by a mutex
// per storage name; different storages are independent. A missing file is an empty
// storage, and Clear simply removes the file.
package fstore
