package protocol

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-netplay/internal/entity"
)

func TestCodec_Write(t *testing.T) {
	// Given: a codec over an in-memory buffer
	var buf bytes.Buffer
	codec := NewCodec(&readWriter{&bytes.Buffer{}, &buf})

	// When: a hello message is written
	err := codec.Write(&ClientMessage{Type: TypeHello, Name: "alice", Pin: "1234"})
	require.NoError(t, err)

	// Then: exactly one compact newline-terminated JSON object comes out
	require.Equal(t, `{"type":"hello","name":"alice","pin":"1234"}`+"\n", buf.String())
}

func TestCodec_ReadClient(t *testing.T) {
	t.Run("Parses a move line", func(t *testing.T) {
		// Given: one framed move message
		in := bytes.NewBufferString(`{"type":"move","idx":5}` + "\n")
		codec := NewCodec(&readWriter{in, &bytes.Buffer{}})

		// When: reading
		message, err := codec.ReadClient()

		// Then: the typed message comes back
		require.NoError(t, err)
		require.Equal(t, TypeMove, message.Type)
		require.Equal(t, 5, message.Idx)
	})

	t.Run("Malformed line becomes the synthetic bad_json value", func(t *testing.T) {
		// Given: a line that is not JSON
		in := bytes.NewBufferString("not json at all\n")
		codec := NewCodec(&readWriter{in, &bytes.Buffer{}})

		// When: reading
		message, err := codec.ReadClient()

		// Then: no error is raised; the value carries the bad_json code
		require.NoError(t, err)
		assert.Equal(t, TypeError, message.Type)
		assert.Equal(t, ErrBadJSON, message.Error)
	})

	t.Run("End of stream is an error", func(t *testing.T) {
		codec := NewCodec(&readWriter{&bytes.Buffer{}, &bytes.Buffer{}})

		_, err := codec.ReadClient()
		require.Error(t, err)
	})
}

func TestStateMessage_WinnerEncoding(t *testing.T) {
	t.Run("Winner is null while undecided", func(t *testing.T) {
		// Given: a fresh game
		message := NewStateMessage(entity.NewGame())

		payload, err := json.Marshal(message)
		require.NoError(t, err)

		// Then: the winner field is present and null
		assert.Contains(t, string(payload), `"winner":null`)
		assert.Contains(t, string(payload), `"terminal":false`)
	})

	t.Run("Winner carries the mark after a win", func(t *testing.T) {
		// Given: X owns the top row
		game := &entity.Game{
			Board: [9]string{entity.PlayerX, entity.PlayerX, entity.PlayerX, entity.PlayerO, entity.PlayerO, "", "", "", ""},
			Turn:  entity.PlayerO,
		}

		payload, err := json.Marshal(NewStateMessage(game))
		require.NoError(t, err)

		assert.Contains(t, string(payload), `"winner":"X"`)
		assert.Contains(t, string(payload), `"terminal":true`)
	})
}

func TestCodec_RoundTrip(t *testing.T) {
	// Given: a server-side write buffer read back by a client codec
	var buf bytes.Buffer
	server := NewCodec(&readWriter{&bytes.Buffer{}, &buf})

	require.NoError(t, server.Write(&StatusMessage{Status: StatusMatched, You: entity.PlayerX, Opponent: "bob"}))
	require.NoError(t, server.Write(NewYourTurnMessage()))

	client := NewCodec(&readWriter{&buf, &bytes.Buffer{}})

	// When: the client reads both lines
	first, err := client.ReadServer()
	require.NoError(t, err)
	second, err := client.ReadServer()
	require.NoError(t, err)

	// Then: message boundaries and contents survive
	assert.Equal(t, StatusMatched, first.Status)
	assert.Equal(t, entity.PlayerX, first.You)
	assert.Equal(t, "bob", first.Opponent)
	assert.Equal(t, TypeYourTurn, second.Type)
}

// readWriter joins separate read and write ends into one stream for tests.
type readWriter struct {
	r *bytes.Buffer
	w *bytes.Buffer
}

func (that *readWriter) Read(p []byte) (int, error)  { return that.r.Read(p) }
func (that *readWriter) Write(p []byte) (int, error) { return that.w.Write(p) }
