// Package runtime wires storage, config and the session ledger into a
// single dashboard node.
//
// Example:
//
//	cfg := config.Default()
//	rt, _ := runtime.Open(runtime.Options{DataDir: "./data", Fsync: pebblestore.FsyncModeAlways, Config: cfg})
//	defer rt.Close()
//	_ = rt.CheckHealth(context.Background())
//	entries, _ := rt.Ledger().List(context.Background(), ledger.ListOptions{Limit: 10})
package runtime
