// Package wsserver exposes a streaming vad.Engine over a WebSocket
// connection: one connection is one stream, with its own Engine instance
// and session ID, so concurrent streams are fully isolated — the same
// per-stream isolation contract as the teacher's gRPC Server.DetectSpeech,
// adapted from a bidirectional gRPC stream onto gorilla/websocket frames
// (the teacher's transport, google.golang.org/grpc + a sibling-module
// generated service, has no counterpart anywhere in the retrieval pack and
// is dropped; see the repository's design notes for the full rationale).
package wsserver

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	vad "github.com/silerostream/vad-engine"
)

// MaxPCMChunkBytes limits a single binary WebSocket message to prevent
// memory spikes from oversized frames. 1 MB ~= 32 seconds at 16 kHz mono
// s16le, mirroring the teacher's MaxPCMChunkBytes.
const MaxPCMChunkBytes = 1 << 20

// Server upgrades HTTP connections to WebSocket streams and feeds each one
// into its own vad.Engine.
type Server struct {
	log       *slog.Logger
	newEngine func() (*vad.Engine, error)
	upgrader  websocket.Upgrader
}

// New returns a Server. newEngine is called once per accepted connection to
// create an isolated Engine instance for that stream.
func New(logger *slog.Logger, newEngine func() (*vad.Engine, error)) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		log:       logger.With("component", "wsserver"),
		newEngine: newEngine,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  32 * 1024,
			WriteBufferSize: 32 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// controlMessage is the JSON shape of a client text frame.
type controlMessage struct {
	Op string `json:"op"`
}

// wireEvent is the JSON shape of a server text frame, one per emitted
// vad.Event. Audio and Frame marshal through encoding/json's default
// []byte-as-base64 and []float32-as-array behavior respectively.
type wireEvent struct {
	Kind      string    `json:"kind"`
	T         float64   `json:"t"`
	IsSpeech  float32   `json:"isSpeech,omitempty"`
	NotSpeech float32   `json:"notSpeech,omitempty"`
	Frame     []float32 `json:"frame,omitempty"`
	Audio     []byte    `json:"audio,omitempty"`
	IsFinal   bool      `json:"isFinal,omitempty"`
	Message   string    `json:"message,omitempty"`
}

func toWireEvent(e vad.Event) wireEvent {
	return wireEvent{
		Kind:      e.Kind.String(),
		T:         e.T,
		IsSpeech:  e.IsSpeech,
		NotSpeech: e.NotSpeech,
		Frame:     e.Frame,
		Audio:     e.Audio,
		IsFinal:   e.IsFinal,
		Message:   e.Message,
	}
}

// ServeHTTP implements http.Handler, upgrading the connection and running
// one isolated stream to completion.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()
	conn.SetReadLimit(MaxPCMChunkBytes + 4096)

	sessionID := uuid.New().String()
	log := s.log.With("session_id", sessionID)

	eng, err := s.newEngine()
	if err != nil {
		log.Error("engine init failed", "error", err)
		s.sendEvent(conn, vad.Event{Kind: vad.Error, Message: err.Error()})
		return
	}
	defer eng.Release()

	log.Info("stream opened")
	defer log.Info("stream closed")

	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Warn("websocket read error", "error", err)
			}
			return
		}

		switch msgType {
		case websocket.BinaryMessage:
			if len(data)%2 != 0 {
				s.sendEvent(conn, vad.Event{Kind: vad.Error, Message: "PCM buffer has odd length, s16le requires 2 bytes per sample"})
				continue
			}
			for _, evt := range eng.ProcessAudioData(data) {
				if !s.sendEvent(conn, evt) {
					return
				}
			}
		case websocket.TextMessage:
			var ctrl controlMessage
			if err := json.Unmarshal(data, &ctrl); err != nil {
				s.sendEvent(conn, vad.Event{Kind: vad.Error, Message: "malformed control message"})
				continue
			}
			if !s.handleControl(conn, eng, ctrl) {
				return
			}
		}
	}
}

func (s *Server) handleControl(conn *websocket.Conn, eng *vad.Engine, ctrl controlMessage) bool {
	switch ctrl.Op {
	case "forceEndSpeech":
		for _, evt := range eng.ForceEndSpeech() {
			if !s.sendEvent(conn, evt) {
				return false
			}
		}
	case "reset":
		eng.Reset()
	default:
		return s.sendEvent(conn, vad.Event{Kind: vad.Error, Message: "unrecognized op " + ctrl.Op})
	}
	return true
}

func (s *Server) sendEvent(conn *websocket.Conn, evt vad.Event) bool {
	if err := conn.WriteJSON(toWireEvent(evt)); err != nil {
		if !errors.Is(err, websocket.ErrCloseSent) {
			s.log.Warn("websocket write error", "error", err)
		}
		return false
	}
	return true
}
