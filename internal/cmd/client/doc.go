// Package client provides the `dashboard` command-line client.
//
// The CLI talks to the dashboard gRPC and HTTP endpoints from a terminal. It
// is primarily intended for developers and operators.
//
// # Address configuration
//
// The HTTP base URL is discovered by the application that embeds the
// commands via a BaseURLFunc. When using the standalone binary, it
// defaults to http://127.0.0.1:8080. The gRPC address is read from the
// DASH_GRPC environment variable (default 127.0.0.1:5001). API keys come
// from --api-key or DASH_API_KEY.
//
// Usage
//
//	# One JSON line per point; stop after 10
//	dashboard subscribe --source sensor-1 --interval-ms 250 --limit 10
//
//	# Server-side CEL filter
//	dashboard subscribe --source sensor-1 --filter 'value > 90'
//
//	dashboard sessions --source sensor-1 --limit 20
//
//	# Mint a key; put the hash in the server's apiKeys config
//	dashboard keys new
//	dashboard keys hash dash_existingkey
//
// Notes
//
//   - subscribe connects to DashboardService.Subscribe. gRPC errors are
//     printed as "Code: message".
//   - sessions uses the HTTP API and needs history enabled on the server.
package client
