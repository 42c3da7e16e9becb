// Package pebblestore wraps Pebble with an fsync policy, prefix scans, and
// a metrics hook. It backs the session ledger.
//
// Usage:
//
//	db, err := pebblestore.Open(pebblestore.Options{
//	    DataDir: "./data/store",
//	    Fsync:   pebblestore.FsyncModeInterval,
//	})
//	if err != nil { /* handle */ }
//	defer db.Close()
//
//	_ = db.Set([]byte("k"), []byte("v"))
//	_ = db.ScanPrefix(ctx, []byte("sess/"), true, func(k, v []byte) bool {
//	    return true
//	})
package pebblestore
