package capture

import (
	"fmt"
	"io"
	"time"

	"github.com/gorilla/websocket"
)

// Remote receives JPEG frames pushed over a websocket by a companion
// capture daemon (a phone or a camera box on the same network). Binary
// messages carry one JPEG frame each; text messages are ignored.
type Remote struct {
	ws *websocket.Conn
}

// DialRemote connects to the remote capture endpoint, e.g.
// ws://192.168.1.50:8443/frames.
func DialRemote(url string) (*Remote, error) {
	dialer := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
	}

	ws, _, err := dialer.Dial(url, nil)
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", url, err)
	}

	return &Remote{ws: ws}, nil
}

// Next blocks for the next binary frame from the peer. A normal
// websocket close maps to io.EOF; any other failure is fatal.
func (r *Remote) Next() ([]byte, error) {
	for {
		msgType, data, err := r.ws.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil, io.EOF
			}
			return nil, fmt.Errorf("read frame: %w", err)
		}
		if msgType != websocket.BinaryMessage {
			continue
		}
		return data, nil
	}
}

// Close closes the websocket connection.
func (r *Remote) Close() error {
	return r.ws.Close()
}
