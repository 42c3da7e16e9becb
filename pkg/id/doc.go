// Package id provides the 128-bit sortable identifiers used for session IDs.
//
// An ID is [8 bytes ms_timestamp][8 bytes sequence], big-endian, so byte
// order is start order. The ledger relies on that: its keys embed session
// IDs and a forward scan returns sessions oldest first.
//
// A Generator never goes backwards. A regressing clock pins to the last
// millisecond and bumps the sequence.
//
//	g := id.NewGenerator(clock.New())
//	sid := g.Next().String()
package id
