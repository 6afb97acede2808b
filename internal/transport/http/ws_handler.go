package http

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"team-quiz-service/internal/app"
)

// WSHandler streams quiz snapshots to connected displays and accepts host commands.
type WSHandler struct {
	engine   *app.QuizEngine
	upgrader websocket.Upgrader
}

func NewWSHandler(engine *app.QuizEngine) *WSHandler {
	return &WSHandler{
		engine: engine,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type answerPayload struct {
	TeamID    int  `json:"team_id"`
	PlayerID  int  `json:"player_id"`
	IsCorrect bool `json:"is_correct"`
}

type advancedPayload struct {
	Success bool `json:"success"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type messagePayload struct {
	Message string `json:"message"`
}

// ServeWS upgrades the request and pushes a "state" message on connect and after every change.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()
	// Server read/write timeouts survive the hijack; live displays idle for long stretches.
	_ = conn.NetConn().SetDeadline(time.Time{})

	updates, cancel := h.engine.Subscribe()
	defer cancel()

	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	updatesDone := make(chan struct{})

	// Single writer; gorilla connections do not support concurrent writes.
	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Printf("ws write error: %v", err)
				// unblock ReadJSON so the handler can unwind
				conn.Close()
				return
			}
		}
	}()

	// reply reports false once the writer is gone.
	reply := func(msg outboundMessage[any]) bool {
		select {
		case send <- msg:
			return true
		case <-writerDone:
			return false
		}
	}

	go func() {
		defer close(updatesDone)
		for {
			select {
			case update, ok := <-updates:
				if !ok {
					return
				}
				select {
				case send <- outboundMessage[any]{Type: "state", Payload: update}:
				case <-writerDone:
					return
				case <-closeSignals:
					return
				}
			case <-closeSignals:
				return
			}
		}
	}()

	for h.handle(conn, reply) {
	}

	close(closeSignals)
	<-updatesDone
	close(send)
	<-writerDone
}

// handle reads one inbound command and queues its reply. It returns false when
// the connection is finished.
func (h *WSHandler) handle(conn *websocket.Conn, reply func(outboundMessage[any]) bool) bool {
	var inbound inboundMessage
	if err := conn.ReadJSON(&inbound); err != nil {
		return false
	}
	switch inbound.Type {
	case "answer":
		var payload answerPayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			return reply(outboundMessage[any]{Type: "error", Payload: messagePayload{Message: "invalid answer payload"}})
		}
		result, err := h.engine.RecordAnswer(payload.TeamID, payload.PlayerID, payload.IsCorrect)
		if err != nil {
			return reply(outboundMessage[any]{Type: "error", Payload: messagePayload{Message: err.Error()}})
		}
		return reply(outboundMessage[any]{Type: "answerResult", Payload: result})
	case "next":
		return reply(outboundMessage[any]{Type: "advanced", Payload: advancedPayload{Success: h.engine.Advance()}})
	default:
		return reply(outboundMessage[any]{Type: "error", Payload: messagePayload{Message: "unsupported message type"}})
	}
}
