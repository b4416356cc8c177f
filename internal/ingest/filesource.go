package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tracelens/tracelens/internal/contract"
	"github.com/tracelens/tracelens/schema"
)

// FileSource serves a recorded trace file through the RecordSource
// paging interface, standing in for the live capture layer.
type FileSource struct {
	trace *schema.TraceFile
}

var _ contract.RecordSource = &FileSource{} // Compile-time check

// NewFileSource wraps a parsed trace file.
func NewFileSource(trace *schema.TraceFile) *FileSource {
	return &FileSource{trace: trace}
}

// List returns one page of raw records from the trace.
func (fs *FileSource) List(_ context.Context, pageIndex, pageSize int) ([]schema.RawRecord, error) {
	if fs.trace == nil {
		return nil, fmt.Errorf("no trace loaded")
	}
	start := pageIndex * pageSize
	if start >= len(fs.trace.Records) {
		return []schema.RawRecord{}, nil
	}
	end := start + pageSize
	if end > len(fs.trace.Records) {
		end = len(fs.trace.Records)
	}
	return fs.trace.Records[start:end], nil
}

// Get looks up a raw record by URL. The first match wins.
func (fs *FileSource) Get(_ context.Context, url string) (*schema.RawRecord, error) {
	if fs.trace == nil {
		return nil, fmt.Errorf("no trace loaded")
	}
	for i := range fs.trace.Records {
		if fs.trace.Records[i].URL == url {
			return &fs.trace.Records[i], nil
		}
	}
	return nil, nil
}

// LoadTraceFile reads and decodes a recorded trace from disk. The test
// name falls back to the file's base name when the trace does not carry
// one.
func LoadTraceFile(path string) (*schema.TraceFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &contract.CollectionError{Op: "read trace", Err: err}
	}
	var trace schema.TraceFile
	if err := json.Unmarshal(data, &trace); err != nil {
		return nil, &contract.CollectionError{Op: "decode trace", Err: err}
	}
	if trace.TestName == "" {
		base := filepath.Base(path)
		trace.TestName = base[:len(base)-len(filepath.Ext(base))]
	}
	return &trace, nil
}
