package preview

import (
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vango-dev/vtree/pkg/protocol"
)

const writeTimeout = 10 * time.Second

var clientIDs atomic.Uint64

// client is one websocket connection. The loop owns send: only the loop
// goroutine writes to or closes it.
type client struct {
	id   uint64
	conn *websocket.Conn
	send chan []byte
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	conn.SetReadLimit(protocol.FrameHeaderSize + protocol.MaxPayloadSize)

	c := &client{
		id:   clientIDs.Add(1),
		conn: conn,
		send: make(chan []byte, s.config.SendBuffer),
	}
	if err := s.loop.Post(func() { s.attach(c) }); err != nil {
		conn.Close()
		return
	}

	go s.writeLoop(c)
	s.readLoop(c)
}

// writeLoop sends queued frames until the loop closes c.send or stops.
func (s *Server) writeLoop(c *client) {
	defer c.conn.Close()
	for {
		select {
		case frame, ok := <-c.send:
			if !ok {
				_ = c.conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
					time.Now().Add(writeTimeout))
				return
			}
			c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.conn.WriteMessage(websocket.BinaryMessage, frame); err != nil {
				s.logger.Debug("write error", "client", c.id, "error", err)
				return
			}
		case <-s.loop.Done():
			return
		}
	}
}

// readLoop decodes frames from the client until the connection fails.
func (s *Server) readLoop(c *client) {
	defer func() {
		_ = s.loop.Post(func() { s.detach(c) })
	}()

	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				s.logger.Error("read error", "client", c.id, "error", err)
			}
			return
		}

		frame, err := protocol.DecodeFrame(msg)
		if err != nil {
			s.logger.Warn("frame decode error", "client", c.id, "error", err)
			s.reply(c, protocol.NewError(protocol.ErrInvalidFrame, err.Error()))
			continue
		}

		switch frame.Type {
		case protocol.FrameEvent:
			ev, err := protocol.DecodeEvent(frame.Payload)
			if err != nil {
				s.logger.Warn("event decode error", "client", c.id, "error", err)
				s.reply(c, protocol.NewError(protocol.ErrInvalidEvent, "invalid event format"))
				continue
			}
			_ = s.loop.Post(func() {
				if em := s.dispatch(ev); em != nil {
					s.logger.Warn("event rejected", "client", c.id, "type", ev.Type, "error", em)
					s.send(c, errorFrame(em))
				}
			})

		case protocol.FrameError:
			if em, err := protocol.DecodeErrorMessage(frame.Payload); err == nil {
				s.logger.Warn("client error", "client", c.id, "error", em)
				if em.Fatal {
					return
				}
			}

		default:
			s.logger.Warn("unexpected frame type", "client", c.id, "type", frame.Type)
			s.reply(c, protocol.NewError(protocol.ErrInvalidFrame, "unexpected "+frame.Type.String()+" frame"))
		}
	}
}

// reply queues an error for c from outside the loop.
func (s *Server) reply(c *client, em *protocol.ErrorMessage) {
	frame := errorFrame(em)
	_ = s.loop.Post(func() { s.send(c, frame) })
}

func errorFrame(em *protocol.ErrorMessage) []byte {
	return protocol.NewFrame(protocol.FrameError, protocol.EncodeErrorMessage(em)).Encode()
}
