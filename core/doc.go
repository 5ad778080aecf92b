// Package storezip encodes named in-memory text buffers into a ZIP archive.
//
// Every entry uses the stored (method 0) compression method, so an archive is
// the verbatim file contents framed by local file headers, followed by a
// central directory and an end of central directory record:
//
//	[local header | name | data] ... [central record | name] ... [EOCD]
//
// Build is a pure function of its input: it performs no I/O, keeps no state
// between calls, and is safe to call from multiple goroutines. Inputs that
// would overflow a 32-bit size or offset field, or the 16-bit entry count,
// are rejected with [ErrCapacityExceeded] rather than producing a corrupt
// archive. Zip64, compression, directories, and permissions are not supported.
//
// Build an archive from a bundle and hand it to a consumer:
//
//	bundle := storezip.BundleFromMap(map[string]string{
//	    "README.md": "# Title\n",
//	    "src/main.go": "package main\n",
//	})
//	archive, err := storezip.Build(bundle)
//	if err != nil {
//	    return err
//	}
//	_, err = archive.WriteTo(w)
package storezip
