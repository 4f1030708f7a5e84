package web

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	internalstrings "github.com/amonks/taskagent/internal/strings"
)

const (
	socketBufferSize = 1024
	socketWriteWait  = 10 * time.Second
)

// socketReply is written for every message the client sends.
type socketReply struct {
	Reply string `json:"reply,omitempty"`
	Error string `json:"error,omitempty"`
}

// handleSocket upgrades to a websocket and answers chatRequest frames until
// the client goes away.
func (s *Server) handleSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written an HTTP error response.
		s.logf("websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	for {
		var payload chatRequest
		if err := conn.ReadJSON(&payload); err != nil {
			if !isSocketClosed(err) {
				s.logf("websocket read failed: %v", err)
			}
			return
		}

		reply := socketReply{}
		if internalstrings.IsBlank(payload.Message) {
			reply.Error = errMessageRequired.Error()
		} else {
			reply.Reply = s.converse(r, payload.Message)
		}

		_ = conn.SetWriteDeadline(time.Now().Add(socketWriteWait))
		if err := conn.WriteJSON(reply); err != nil {
			s.logf("websocket write failed: %v", err)
			return
		}
	}
}

func isSocketClosed(err error) bool {
	var closeErr *websocket.CloseError
	return errors.As(err, &closeErr)
}
