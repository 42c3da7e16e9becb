package telemetry

import (
	"sync"

	logpkg "github.com/ChameeraD/RealTimeDashboard/pkg/log"
)

type record struct {
	level  string
	msg    string
	fields map[string]any
}

// recorder captures observer calls for assertions.
type recorder struct {
	mu   sync.Mutex
	recs []record
}

func (r *recorder) add(level, msg string, fields []logpkg.Field) {
	m := make(map[string]any, len(fields))
	for _, f := range fields {
		m[f.Key] = f.Value
	}
	r.mu.Lock()
	r.recs = append(r.recs, record{level: level, msg: msg, fields: m})
	r.mu.Unlock()
}

func (r *recorder) Debug(msg string, f ...logpkg.Field) { r.add("debug", msg, f) }
func (r *recorder) Info(msg string, f ...logpkg.Field)  { r.add("info", msg, f) }
func (r *recorder) Warn(msg string, f ...logpkg.Field)  { r.add("warn", msg, f) }
func (r *recorder) Error(msg string, f ...logpkg.Field) { r.add("error", msg, f) }

func (r *recorder) find(msg string) []record {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []record
	for _, rec := range r.recs {
		if rec.msg == msg {
			out = append(out, rec)
		}
	}
	return out
}
