package logging

import "time"

func String(key, value string) Field          { return Field{Key: key, Value: value} }
func Int(key string, value int) Field         { return Field{Key: key, Value: value} }
func Float64(key string, value float64) Field { return Field{Key: key, Value: value} }
func Bool(key string, value bool) Field       { return Field{Key: key, Value: value} }
func Any(key string, value any) Field         { return Field{Key: key, Value: value} }

// Duration records d in its String form ("1.5s").
func Duration(key string, d time.Duration) Field {
	return Field{Key: key, Value: d.String()}
}

// Error records err's message under "error"; a nil error records null.
func Error(err error) Field {
	if err == nil {
		return Field{Key: "error", Value: nil}
	}
	return Field{Key: "error", Value: err.Error()}
}

func Component(name string) Field   { return String("component", name) }
func Stage(name string) Field       { return String("stage", name) }
func Path(p string) Field           { return String("path", p) }
func Latency(d time.Duration) Field { return Duration("latency", d) }

// Threshold is the active distance cutoff.
func Threshold(t float64) Field { return Float64("threshold", t) }

// Generation identifies one dataset upload within a session.
func Generation(id string) Field { return String("generation", id) }

func Nodes(n int) Field    { return Int("nodes", n) }
func Edges(n int) Field    { return Int("edges", n) }
func Clusters(n int) Field { return Int("clusters", n) }
func View(id string) Field { return String("view", id) }
