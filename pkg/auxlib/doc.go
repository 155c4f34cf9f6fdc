// Package auxlib is an auxiliary runtime shared by the vpkg packages.
//
// It carries static package metadata (Version, Author, License, ...), a quiet
// named logger, and the Null sentinel.
//
// # Logging
//
// Importing auxlib never writes to stderr. Records sent to Logger go nowhere until
// an embedding application attaches a writer:
//
//	auxlib.AttachWriter(zerolog.ConsoleWriter{Out: os.Stderr})
//
// # Null
//
// Null and the Field tri-state type are used where "explicitly null" must be told
// apart from "not given", for example when reading JSON:
//
//	var cfg struct {
//	    CUDA auxlib.Field[string] `json:"cuda"`
//	}
//	_ = json.Unmarshal([]byte(`{"cuda": null}`), &cfg)
//	cfg.CUDA.IsNull()   // true
//	cfg.CUDA.IsAbsent() // false
package auxlib
