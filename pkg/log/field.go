package log

import "time"

// Field is a single structured key/value pair.
type Field struct {
	Key   string
	Value any
}

// F builds a Field from an arbitrary value.
func F(key string, value any) Field { return Field{Key: key, Value: value} }

func Str(key, value string) Field { return Field{Key: key, Value: value} }

func Int(key string, value int) Field { return Field{Key: key, Value: value} }

func Int64(key string, value int64) Field { return Field{Key: key, Value: value} }

func Uint64(key string, value uint64) Field { return Field{Key: key, Value: value} }

func Float64(key string, value float64) Field { return Field{Key: key, Value: value} }

func Bool(key string, value bool) Field { return Field{Key: key, Value: value} }

// Dur records a duration in its String form.
func Dur(key string, value time.Duration) Field { return Field{Key: key, Value: value.String()} }

// Err records an error under the "error" key. A nil error is recorded as nil.
func Err(err error) Field {
	if err == nil {
		return Field{Key: "error", Value: nil}
	}
	return Field{Key: "error", Value: err.Error()}
}

// Component tags the record with a component name.
func Component(name string) Field { return Field{Key: ComponentKey, Value: name} }

func keyvals(fields []Field) []any {
	if len(fields) == 0 {
		return nil
	}
	kv := make([]any, 0, len(fields)*2)
	for _, f := range fields {
		kv = append(kv, f.Key, f.Value)
	}
	return kv
}
