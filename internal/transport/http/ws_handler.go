package http

import (
	"context"
	"encoding/json"
	"net/http"

	"animation-quiz/internal/app"
	"animation-quiz/internal/domain"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// CueMiddleware decorates the per-connection cue emitter (metrics, logging).
type CueMiddleware interface {
	Wrap(next app.CueEmitter) app.CueEmitter
}

type WSHandler struct {
	service  *app.QuizService
	cues     CueMiddleware
	log      zerolog.Logger
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.QuizService, cues CueMiddleware, log zerolog.Logger) *WSHandler {
	return &WSHandler{
		service: service,
		cues:    cues,
		log:     log.With().Str("component", "ws_handler").Logger(),
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

type selectPayload struct {
	Option int `json:"option"`
}

type gotoPayload struct {
	Position int `json:"position"`
}

type audioPayload struct {
	Enabled bool `json:"enabled"`
}

type cuePayload struct {
	Cue domain.Cue `json:"cue"`
}

type historyPayload struct {
	Records []domain.HistoryRecord `json:"records"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeWS upgrades HTTP requests to websockets and maps inbound UI events onto
// the player's quiz session.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	playerID := r.URL.Query().Get("playerId")
	if playerID == "" {
		http.Error(w, "missing playerId", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("ws upgrade failed")
		return
	}
	defer conn.Close()

	log := h.log.With().Str("player_id", playerID).Logger()
	ctx := r.Context()

	cues := make(chan domain.Cue, 16)
	var emitter app.CueEmitter = app.CueFunc(func(c domain.Cue) {
		select {
		case cues <- c:
		default:
			// presentation layer is behind; cues are fire-and-forget
		}
	})
	if h.cues != nil {
		emitter = h.cues.Wrap(emitter)
	}

	joined := h.service.Join(ctx, playerID, emitter)
	defer h.service.Leave(ctx, playerID)

	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	cuesDone := make(chan struct{})

	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Debug().Err(err).Msg("ws write error")
				for range send {
				}
				return
			}
		}
	}()

	go func() {
		defer close(cuesDone)
		for {
			select {
			case cue := <-cues:
				select {
				case send <- outboundMessage[any]{Type: "cue", Payload: cuePayload{Cue: cue}}:
				case <-closeSignals:
					return
				}
			case <-closeSignals:
				return
			}
		}
	}()

	send <- outboundMessage[any]{Type: "state", Payload: newStateView(joined)}

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		msg := h.handle(ctx, playerID, inbound)
		send <- msg
	}

	close(closeSignals)
	<-cuesDone
	close(send)
	<-writerDone
}

func (h *WSHandler) handle(ctx context.Context, playerID string, inbound inboundMessage) outboundMessage[any] {
	var (
		snap domain.Snapshot
		err  error
	)
	switch inbound.Type {
	case "start":
		snap, err = h.service.Start(ctx, playerID)
	case "select":
		var p selectPayload
		if err := json.Unmarshal(inbound.Payload, &p); err != nil {
			return errorMessage("invalid select payload")
		}
		snap, err = h.service.Select(ctx, playerID, p.Option)
	case "goto":
		var p gotoPayload
		if err := json.Unmarshal(inbound.Payload, &p); err != nil {
			return errorMessage("invalid goto payload")
		}
		snap, err = h.service.Goto(ctx, playerID, p.Position)
	case "next":
		snap, err = h.service.Advance(ctx, playerID)
	case "prev":
		snap, err = h.service.Retreat(ctx, playerID)
	case "submit":
		snap, err = h.service.Submit(ctx, playerID)
	case "reset":
		snap, err = h.service.Reset(ctx, playerID)
	case "state":
		snap, err = h.service.Snapshot(ctx, playerID)
	case "history":
		return outboundMessage[any]{Type: "history", Payload: historyPayload{Records: h.service.History(ctx, playerID)}}
	case "audio":
		var p audioPayload
		if err := json.Unmarshal(inbound.Payload, &p); err != nil {
			return errorMessage("invalid audio payload")
		}
		if err := h.service.SetAudio(ctx, playerID, p.Enabled); err != nil {
			h.log.Warn().Err(err).Str("player_id", playerID).Msg("store audio preference")
		}
		snap, err = h.service.Snapshot(ctx, playerID)
	default:
		return errorMessage("unsupported message type")
	}
	if err != nil {
		return errorMessage(err.Error())
	}
	return outboundMessage[any]{Type: "state", Payload: newStateView(snap)}
}

func errorMessage(msg string) outboundMessage[any] {
	return outboundMessage[any]{Type: "error", Payload: errorPayload{Message: msg}}
}
