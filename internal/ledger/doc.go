// Package ledger keeps a durable history of terminated stream sessions in
// Pebble, keyed by session id so scans return sessions in start order.
package ledger
