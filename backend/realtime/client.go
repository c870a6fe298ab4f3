package realtime

import "github.com/gorilla/websocket"

// Client is the hub's handle on one live connection.
type Client struct {
	ConnID string
	Conn   *websocket.Conn
	Send   chan []byte
}

// WritePump drains the send queue onto the websocket. It exits when
// the hub closes the queue or the transport fails.
func (c *Client) WritePump() {
	defer c.Conn.Close()
	for message := range c.Send {
		if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
}
