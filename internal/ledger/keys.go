package ledger

import (
	"encoding/binary"

	"github.com/ChameeraD/RealTimeDashboard/pkg/id"
)

// Layout: sess/{id:16}. The id leads with its start millisecond, so the
// keyspace sorts by session start time.
var sessPrefix = []byte("sess/")

func keySession(sid id.ID) []byte {
	k := make([]byte, 0, len(sessPrefix)+16)
	k = append(k, sessPrefix...)
	return append(k, sid[:]...)
}

// keyBefore is the exclusive upper bound for sessions started before ms.
func keyBefore(ms int64) []byte {
	var lo id.ID
	binary.BigEndian.PutUint64(lo[:8], uint64(ms))
	return keySession(lo)
}

func idFromKey(k []byte) (id.ID, bool) {
	if len(k) != len(sessPrefix)+16 {
		return id.Zero, false
	}
	sid, err := id.FromBytes(k[len(sessPrefix):])
	return sid, err == nil
}
