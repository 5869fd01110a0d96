package processing

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

const (
	frameHeaderSize = 4

	// DefaultMaxFrameSize bounds the payload of a single frame
	DefaultMaxFrameSize = 16 * 1024 * 1024 // 16 MB
)

var ErrFrameTooLarge = errors.New("frame exceeds maximum size")

// writeFrame writes a frame to the writer with the format:
// - 4 bytes: data length (uint32, big endian)
// - N bytes: data payload
// The frame is only buffered, the caller decides when to flush.
func writeFrame(w *bufio.Writer, data []byte) error {
	var header [frameHeaderSize]byte
	binary.BigEndian.PutUint32(header[:], uint32(len(data)))

	if _, err := w.Write(header[:]); err != nil {
		return err
	}
	_, err := w.Write(data)
	return err
}

// readFrame reads one frame and returns its payload.
// io.EOF is returned unchanged if the stream ends cleanly before a new frame,
// a stream ending inside a frame yields io.ErrUnexpectedEOF.
func readFrame(r *bufio.Reader, maxSize uint32) ([]byte, error) {
	var header [frameHeaderSize]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, err
	}

	contentLength := binary.BigEndian.Uint32(header[:])
	if maxSize > 0 && contentLength > maxSize {
		return nil, fmt.Errorf("%w: %d > %d bytes", ErrFrameTooLarge, contentLength, maxSize)
	}

	if contentLength == 0 {
		return []byte{}, nil
	}

	data := make([]byte, contentLength)
	if _, err := io.ReadFull(r, data); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}
	return data, nil
}
