package predlog

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"
)

// RotatingJSONLStore stores prediction records in a JSONL file with
// automatic rotation.
type RotatingJSONLStore struct {
	logger *lumberjack.Logger
	path   string
}

// NewRotatingJSONLStore creates a store with rotation options in
// megabytes and days.
func NewRotatingJSONLStore(path string, maxSizeMB, maxBackups, maxAgeDays int) (*RotatingJSONLStore, error) {
	lj := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxSizeMB,
		MaxBackups: maxBackups,
		MaxAge:     maxAgeDays,
		Compress:   false,
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	return &RotatingJSONLStore{logger: lj, path: path}, nil
}

// Append writes the record and triggers rotation if needed.
func (s *RotatingJSONLStore) Append(ctx context.Context, rec Record) error {
	_ = ctx
	enc := json.NewEncoder(s.logger)
	return enc.Encode(rec)
}

// Query reads all log files including rotated ones.
func (s *RotatingJSONLStore) Query(ctx context.Context, q Query) ([]Record, error) {
	_ = ctx
	files, err := filepath.Glob(s.path + "*")
	if err != nil {
		return nil, err
	}
	var res []Record
	for _, f := range files {
		file, err := os.Open(f)
		if err != nil {
			continue
		}
		scanner := bufio.NewScanner(file)
		for scanner.Scan() {
			var r Record
			if err := json.Unmarshal(scanner.Bytes(), &r); err != nil {
				continue
			}
			if q.matches(r) {
				res = append(res, r)
			}
		}
		_ = file.Close()
	}
	return res, nil
}

// Close closes the underlying writer.
func (s *RotatingJSONLStore) Close() error {
	return s.logger.Close()
}
