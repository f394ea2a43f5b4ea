package logging

import (
	"time"
)

// Common field constructors
func String(key, value string) Field {
	return Field{Key: key, Value: value}
}

func Int(key string, value int) Field {
	return Field{Key: key, Value: value}
}

func Int64(key string, value int64) Field {
	return Field{Key: key, Value: value}
}

func Float64(key string, value float64) Field {
	return Field{Key: key, Value: value}
}

func Bool(key string, value bool) Field {
	return Field{Key: key, Value: value}
}

func Duration(key string, value time.Duration) Field {
	return Field{Key: key, Value: value.String()}
}

func Error(err error) Field {
	if err == nil {
		return Field{Key: "error", Value: nil}
	}
	return Field{Key: "error", Value: err.Error()}
}

func Any(key string, value any) Field {
	return Field{Key: key, Value: value}
}

// Field helpers for names that recur across the codebase
func Component(name string) Field {
	return String("component", name)
}

func Dataset(scope string) Field {
	return String("dataset", scope)
}

func NodeID(id string) Field {
	return String("node_id", id)
}

func EdgeKey(key string) Field {
	return String("edge_key", key)
}

func FetchID(id string) Field {
	return String("fetch_id", id)
}

func FocusID(id string) Field {
	return String("focus_id", id)
}

func Operation(op string) Field {
	return String("operation", op)
}

func Latency(d time.Duration) Field {
	return Duration("latency", d)
}

func Count(n int) Field {
	return Int("count", n)
}

func Ticks(n int) Field {
	return Int("ticks", n)
}
