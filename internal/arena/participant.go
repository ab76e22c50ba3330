package arena

import (
	"crypto/rand"
	"math/big"
	"net"

	"github.com/rocketscienceinc/tictactoe-netplay/internal/protocol"
)

// Participant - a connected endpoint: display name, assigned mark and the
// stream it exchanges protocol messages on. Owned by the waiting slot until
// paired, then exclusively by its session.
type Participant struct {
	Name string
	Mark string

	conn  net.Conn
	codec *protocol.Codec
}

func NewParticipant(name string, conn net.Conn, codec *protocol.Codec) *Participant {
	return &Participant{
		Name:  name,
		conn:  conn,
		codec: codec,
	}
}

// send - writes a message, dropping it if the peer is already gone; peer loss
// is surfaced by the read side.
func (that *Participant) send(v any) {
	_ = that.codec.Write(v)
}

func (that *Participant) close() {
	_ = that.conn.Close()
}

// GenerateMatchID - generates a unique identifier for a match.
func GenerateMatchID() string {
	n, err := rand.Int(rand.Reader, big.NewInt(99999999))
	if err != nil {
		return ""
	}
	return n.String()
}
