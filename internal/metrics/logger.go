// Package metrics provides JSONL event logging for index and retrieval
// analytics.
package metrics

import (
	"encoding/json"
	"os"
	"sync"
	"time"
)

// Logger writes metrics events to a JSONL file.
type Logger struct {
	file *os.File
	mu   sync.Mutex
}

// NewLogger creates a new metrics logger appending to path.
func NewLogger(path string) (*Logger, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, err
	}

	return &Logger{file: file}, nil
}

// Close closes the log file.
func (l *Logger) Close() error {
	return l.file.Close()
}

func (l *Logger) log(event string, data map[string]interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	e := map[string]interface{}{
		"ts":    time.Now().UTC().Format(time.RFC3339),
		"event": event,
	}
	for k, v := range data {
		e[k] = v
	}

	line, _ := json.Marshal(e)
	l.file.Write(line)
	l.file.Write([]byte("\n"))
}

// LogIndexFile logs one file's indexing outcome.
func (l *Logger) LogIndexFile(collection, path string, chunks int) {
	l.log("index_file", map[string]interface{}{
		"collection": collection,
		"file":       path,
		"chunks":     chunks,
	})
}

// LogIndexComplete logs an indexing run summary.
func (l *Logger) LogIndexComplete(collection string, files, chunks, errors int, latencyMs int64) {
	l.log("index_complete", map[string]interface{}{
		"collection": collection,
		"files":      files,
		"chunks":     chunks,
		"errors":     errors,
		"latency_ms": latencyMs,
	})
}

// LogRetrieval logs a context retrieval event.
func (l *Logger) LogRetrieval(collection, question string, candidateFiles, chunks int, latencyMs int64, cacheHit bool) {
	l.log("retrieval", map[string]interface{}{
		"collection":      collection,
		"question":        question,
		"candidate_files": candidateFiles,
		"chunks":          chunks,
		"latency_ms":      latencyMs,
		"cache_hit":       cacheHit,
	})
}

// LogError logs an error event.
func (l *Logger) LogError(operation, message string) {
	l.log("error", map[string]interface{}{
		"operation": operation,
		"message":   message,
	})
}
