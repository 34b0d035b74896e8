// Package dataset reads raw translation records, deduplicates cleaned
// sentence pairs and splits them into train, dev and test sets.
package dataset

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rutooro/translation-manager/internal/domain"
)

// maxLineSize bounds a single JSON Lines record.
const maxLineSize = 16 * 1024 * 1024

// Alias keys checked for each side of a record, highest priority first.
var (
	SourceKeys = []string{"en", "english", "source"}
	TargetKeys = []string{"ttj", "tt", "rutooro", "target"}
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ErrEmptyInput is returned when an input file holds no JSON at all.
var ErrEmptyInput = errors.New("input is empty")

// ExtractPair returns the raw source and target text of rec. Keys are read
// from the nested "translation" object when present, otherwise from the
// record itself. The first non-empty string under a side's aliases wins.
func ExtractPair(rec domain.RawRecord) (source, target string, ok bool) {
	fields := map[string]any(rec)
	if t, present := rec["translation"]; present {
		nested, isMap := t.(map[string]any)
		if !isMap {
			return "", "", false
		}
		fields = nested
	}

	source = firstString(fields, SourceKeys)
	target = firstString(fields, TargetKeys)
	if source == "" || target == "" {
		return "", "", false
	}
	return source, target, true
}

func firstString(fields map[string]any, keys []string) string {
	for _, k := range keys {
		if s, ok := fields[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

// ReadRecords loads raw records from a JSON array or JSON Lines file.
func ReadRecords(path string) ([]domain.RawRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	records, err := DecodeRecords(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return records, nil
}

// DecodeRecords reads a JSON array of records, or JSON Lines when the first
// non-space byte is not '['. Elements that are valid JSON but not objects
// come back as nil records so callers can count them as malformed.
func DecodeRecords(r io.Reader) ([]domain.RawRecord, error) {
	br := bufio.NewReader(r)
	first, err := peekNonSpace(br)
	if err == io.EOF {
		return nil, ErrEmptyInput
	}
	if err != nil {
		return nil, err
	}

	if first == '[' {
		return decodeArray(br)
	}
	return decodeLines(br)
}

func decodeArray(r io.Reader) ([]domain.RawRecord, error) {
	var raw []json.RawMessage
	dec := json.NewDecoder(r)
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("parse JSON array: %w", err)
	}
	// the array must be the only value in the input
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("parse JSON array: trailing data after array")
	}

	records := make([]domain.RawRecord, 0, len(raw))
	for _, elem := range raw {
		records = append(records, toRecord(elem))
	}
	return records, nil
}

func decodeLines(r io.Reader) ([]domain.RawRecord, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var records []domain.RawRecord
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}
		if !json.Valid(line) {
			return nil, fmt.Errorf("parse JSON line %d: invalid JSON", lineNo)
		}
		records = append(records, toRecord(line))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read JSON lines: %w", err)
	}
	return records, nil
}

// toRecord returns nil for anything that is not a JSON object.
func toRecord(data []byte) domain.RawRecord {
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil
	}
	return m
}

func peekNonSpace(br *bufio.Reader) (byte, error) {
	if bom, _ := br.Peek(len(utf8BOM)); bytes.Equal(bom, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}
	for {
		b, err := br.Peek(1)
		if err != nil {
			return 0, err
		}
		switch b[0] {
		case ' ', '\t', '\r', '\n':
			_, _ = br.Discard(1)
			continue
		}
		return b[0], nil
	}
}

// WriteJSON writes records as an indented JSON array. The data goes to a
// temporary file in the same directory first and is then renamed over path,
// so an existing file is never left half written.
func WriteJSON(path string, records []domain.Record) error {
	if records == nil {
		records = []domain.Record{}
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	w := bufio.NewWriter(tmp)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		tmp.Close()
		return fmt.Errorf("encode records: %w", err)
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("chmod %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("rename into %s: %w", path, err)
	}
	return nil
}
