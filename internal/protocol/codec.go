package protocol

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
)

// Codec frames one compact JSON object per newline-terminated UTF-8 line over
// a byte stream; both sides read a line at a time.
type Codec struct {
	reader *bufio.Reader
	writer io.Writer
}

func NewCodec(rw io.ReadWriter) *Codec {
	return &Codec{
		reader: bufio.NewReader(rw),
		writer: rw,
	}
}

// ReadClient - reads the next client message. A line that is not valid JSON
// yields the synthetic bad_json error message, never a decode error; a real
// error means the stream is gone.
func (that *Codec) ReadClient() (*ClientMessage, error) {
	line, err := that.readLine()
	if err != nil {
		return nil, err
	}

	var message ClientMessage
	if err := json.Unmarshal(line, &message); err != nil {
		return &ClientMessage{Type: TypeError, Error: ErrBadJSON}, nil
	}

	return &message, nil
}

// ReadServer - reads the next server message on the client side, with the
// same bad_json fallback as ReadClient.
func (that *Codec) ReadServer() (*ServerMessage, error) {
	line, err := that.readLine()
	if err != nil {
		return nil, err
	}

	var message ServerMessage
	if err := json.Unmarshal(line, &message); err != nil {
		return &ServerMessage{Type: TypeError, Error: ErrBadJSON}, nil
	}

	return &message, nil
}

// Write - marshals v compactly and writes it as one newline-terminated line.
func (that *Codec) Write(v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	payload = append(payload, '\n')
	if _, err = that.writer.Write(payload); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	return nil
}

func (that *Codec) readLine() ([]byte, error) {
	line, err := that.reader.ReadBytes('\n')
	if err != nil && len(line) == 0 {
		return nil, fmt.Errorf("failed to read line: %w", err)
	}

	return line, nil
}
