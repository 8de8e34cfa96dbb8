// Package jsonstore implements a flat-file JSON document store: one file,
// a handful of named collections, each an ordered list of loosely typed
// records.
//
// The store is deliberately simple. It keeps the whole document in memory,
// serializes every mutation under a single mutex, and rewrites the file on
// each change. That is enough for a single-process service whose dataset
// fits comfortably in one JSON document; anything bigger belongs in a real
// database behind the same repository interfaces.
//
//	store, err := jsonstore.Open("db.json")
//	if err != nil {
//	    // a corrupted file is fatal: refuse to serve
//	}
//	_ = store.Append("products", jsonstore.Record{"id": int64(1), "name": "Keyboard"})
package jsonstore
