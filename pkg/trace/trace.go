// Package trace records game state snapshots as zstd-compressed JSON lines.
package trace

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/cbodonnell/stride/pkg/state"
	"github.com/klauspost/compress/zstd"
)

type Writer struct {
	compWriter *zstd.Encoder
	encoder    *json.Encoder
}

func NewWriter(w io.Writer) (*Writer, error) {
	compWriter, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd writer: %v", err)
	}
	return &Writer{
		compWriter: compWriter,
		encoder:    json.NewEncoder(compWriter),
	}, nil
}

func (w *Writer) Write(gameState *state.GameState) error {
	if err := w.encoder.Encode(gameState); err != nil {
		return fmt.Errorf("failed to encode game state: %v", err)
	}
	return nil
}

// Close flushes the compressed stream. It does not close the underlying writer.
func (w *Writer) Close() error {
	if err := w.compWriter.Close(); err != nil {
		return fmt.Errorf("failed to close zstd writer: %v", err)
	}
	return nil
}

type Reader struct {
	compReader *zstd.Decoder
	decoder    *json.Decoder
}

func NewReader(r io.Reader) (*Reader, error) {
	compReader, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd reader: %v", err)
	}
	return &Reader{
		compReader: compReader,
		decoder:    json.NewDecoder(bufio.NewReader(compReader)),
	}, nil
}

// Next returns the next snapshot, or io.EOF when the trace is exhausted.
func (r *Reader) Next() (*state.GameState, error) {
	gameState := &state.GameState{}
	if err := r.decoder.Decode(gameState); err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("failed to decode game state: %v", err)
	}
	return gameState, nil
}

func (r *Reader) Close() {
	r.compReader.Close()
}
