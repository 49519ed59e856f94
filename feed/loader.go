package feed

import (
	"archive/zip"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"strings"
)

// ZipProvider yields tables from a GTFS zip archive held in memory. Every
// .txt member becomes a table named after the file without its extension;
// all fields stay text.
type ZipProvider struct {
	data   []byte
	logger *slog.Logger
}

// NewZipProvider wraps raw zip bytes. A nil logger falls back to slog.Default.
func NewZipProvider(data []byte, logger *slog.Logger) *ZipProvider {
	if logger == nil {
		logger = slog.Default()
	}
	return &ZipProvider{data: data, logger: logger}
}

// Tables parses every .txt member of the archive.
func (p *ZipProvider) Tables() ([]*Table, error) {
	zr, err := zip.NewReader(bytes.NewReader(p.data), int64(len(p.data)))
	if err != nil {
		return nil, fmt.Errorf("open feed zip: %w", err)
	}
	var tables []*Table
	for _, f := range zr.File {
		base := strings.ToLower(path.Base(f.Name))
		if !strings.HasSuffix(base, ".txt") {
			continue
		}
		name := strings.TrimSuffix(base, ".txt")
		t, err := readCSVTable(name, f)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", f.Name, err)
		}
		if t != nil {
			tables = append(tables, t)
			p.logger.Debug("table loaded", "table", name, "records", t.Len())
		}
	}
	return tables, nil
}

func readCSVTable(name string, f *zip.File) (*Table, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("open member: %w", err)
	}
	defer rc.Close()

	r := csv.NewReader(rc)
	r.LazyQuotes = true
	r.TrimLeadingSpace = true
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	var rows [][]string
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read record: %w", err)
		}
		rows = append(rows, rec)
	}
	return NewTable(name, header, rows), nil
}

// NewStoreFromZipBytes builds a validated Store from raw GTFS zip bytes.
func NewStoreFromZipBytes(data []byte, logger *slog.Logger) (*Store, error) {
	return NewStoreFromProvider(NewZipProvider(data, logger))
}

// NewStoreFromZipFile builds a validated Store from a GTFS zip on disk.
func NewStoreFromZipFile(filename string, logger *slog.Logger) (*Store, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("read feed zip: %w", err)
	}
	return NewStoreFromZipBytes(data, logger)
}
