package storage

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
)

// ExportJSONLZstd writes turns to w as zstd-compressed JSON lines.
func ExportJSONLZstd(w io.Writer, turns []TurnRecord) error {
	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return fmt.Errorf("failed to create zstd encoder: %w", err)
	}

	bw := bufio.NewWriter(enc)
	je := json.NewEncoder(bw)
	for _, t := range turns {
		if err := je.Encode(t); err != nil {
			enc.Close()
			return fmt.Errorf("failed to encode turn %d: %w", t.TurnIndex, err)
		}
	}

	if err := bw.Flush(); err != nil {
		enc.Close()
		return fmt.Errorf("failed to flush export: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to finish export: %w", err)
	}
	return nil
}

// ReadJSONLZstd decodes an export written by ExportJSONLZstd.
func ReadJSONLZstd(r io.Reader) ([]TurnRecord, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
	}
	defer dec.Close()

	var turns []TurnRecord
	jd := json.NewDecoder(dec)
	for {
		var t TurnRecord
		if err := jd.Decode(&t); err == io.EOF {
			break
		} else if err != nil {
			return nil, fmt.Errorf("failed to decode turn: %w", err)
		}
		turns = append(turns, t)
	}
	return turns, nil
}
