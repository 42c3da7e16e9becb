package ledger

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"hash/crc32"
)

// Value encoding: varint headerLen | header | payload | crc32c(header|payload).
// The header holds the fixed-width counters; the payload is JSON for the
// descriptive fields so new ones can be added without a format bump.

const recordVersion = 1

var castagnoli = crc32.MakeTable(crc32.Castagnoli)

var errCorrupt = errors.New("ledger: corrupt record")

type header struct {
	version      byte
	startedMs    int64
	endedMs      int64
	messagesSent uint64
}

const headerLen = 1 + 8 + 8 + 8

type payload struct {
	SourceID   string `json:"source_id"`
	IntervalMs int32  `json:"interval_ms"`
	Filter     string `json:"filter,omitempty"`
	Subject    string `json:"subject,omitempty"`
	Peer       string `json:"peer,omitempty"`
	Reason     string `json:"reason"`
}

func encodeRecord(h header, p payload) ([]byte, error) {
	body, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	var hb [headerLen]byte
	hb[0] = h.version
	binary.BigEndian.PutUint64(hb[1:9], uint64(h.startedMs))
	binary.BigEndian.PutUint64(hb[9:17], uint64(h.endedMs))
	binary.BigEndian.PutUint64(hb[17:25], h.messagesSent)

	out := make([]byte, 0, binary.MaxVarintLen64+headerLen+len(body)+4)
	out = binary.AppendUvarint(out, headerLen)
	out = append(out, hb[:]...)
	out = append(out, body...)
	crc := crc32.Update(0, castagnoli, hb[:])
	crc = crc32.Update(crc, castagnoli, body)
	return binary.BigEndian.AppendUint32(out, crc), nil
}

func decodeRecord(b []byte) (header, payload, error) {
	var h header
	var p payload
	if len(b) < 1+4 {
		return h, p, errCorrupt
	}
	hlen, n := binary.Uvarint(b)
	if n <= 0 || hlen < headerLen || hlen > uint64(len(b)) || n+int(hlen)+4 > len(b) {
		return h, p, errCorrupt
	}
	hb := b[n : n+int(hlen)]
	body := b[n+int(hlen) : len(b)-4]
	crc := crc32.Update(0, castagnoli, hb)
	crc = crc32.Update(crc, castagnoli, body)
	if crc != binary.BigEndian.Uint32(b[len(b)-4:]) {
		return h, p, errCorrupt
	}
	h.version = hb[0]
	h.startedMs = int64(binary.BigEndian.Uint64(hb[1:9]))
	h.endedMs = int64(binary.BigEndian.Uint64(hb[9:17]))
	h.messagesSent = binary.BigEndian.Uint64(hb[17:25])
	if err := json.Unmarshal(body, &p); err != nil {
		return h, p, errCorrupt
	}
	return h, p, nil
}
