// Package serverrun exposes the Run entrypoint used by the CLI to start the
// dashboard with its gRPC and HTTP servers and the ledger retention loop.
//
// Example:
//
//	cfg, _ := serverrun.LoadConfig("dashboard.yaml")
//	opts := serverrun.Options{DataDir: "./data", GRPCAddr: ":5001", HTTPAddr: ":8080", Fsync: pebblestore.FsyncModeInterval, Config: cfg}
//	ctx, cancel := context.WithCancel(context.Background())
//	defer cancel()
//	_ = serverrun.Run(ctx, opts)
package serverrun
