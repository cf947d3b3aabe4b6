package ws

import (
	"context"
	"encoding/json"
	"math/rand"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"go.uber.org/zap"

	"github.com/wordarena/wordarena-backend/internal/broker"
	"github.com/wordarena/wordarena-backend/internal/game"
	"github.com/wordarena/wordarena-backend/pkg/types"
)

// Identifier is the identity-verification collaborator: it resolves a
// connection token to a player exactly once, before channel admission.
type Identifier interface {
	Identify(ctx context.Context, token string) (game.Player, error)
}

// IdentifierFunc adapts a function to the Identifier interface.
type IdentifierFunc func(ctx context.Context, token string) (game.Player, error)

func (f IdentifierFunc) Identify(ctx context.Context, token string) (game.Player, error) {
	return f(ctx, token)
}

func Handler(b *broker.Broker, ident Identifier, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := r.URL.Query().Get("token")
		if token == "" {
			http.Error(w, "missing token", http.StatusUnauthorized)
			return
		}

		// reject unauthenticated connections outright; there is no
		// anonymous channel membership
		user, err := ident.Identify(r.Context(), token)
		if err != nil {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		out := make(chan types.ServerMessage, 8)
		clientID := randID(6)
		log.Info("websocket open",
			zap.String("client_id", clientID),
			zap.String("username", user.Username))

		b.Inbox() <- broker.Connect{ClientID: clientID, User: user, Outbox: out}
		defer func() { b.Inbox() <- broker.Disconnect{ClientID: clientID} }()

		// Writer goroutine
		writeCtx, writeCancel := context.WithCancel(r.Context())
		defer writeCancel()
		go func() {
			for msg := range out {
				payload, _ := json.Marshal(msg)
				ctx, cancel := context.WithTimeout(writeCtx, 3*time.Second)
				_ = conn.Write(ctx, websocket.MessageText, payload)
				cancel()
			}
		}()

		// Reader loop
		for {
			_, data, err := conn.Read(r.Context())
			if err != nil {
				switch websocket.CloseStatus(err) {
				case websocket.StatusNormalClosure, websocket.StatusGoingAway:
					return
				}
				// broker.Disconnect in the defer handles the roster
				return
			}

			var cm types.ClientMessage
			if err := json.Unmarshal(data, &cm); err != nil {
				_ = conn.Write(r.Context(), websocket.MessageText,
					[]byte(`{"type":"error","error":"bad json"}`))
				continue
			}

			msg, ok := toBrokerMsg(clientID, cm)
			if !ok {
				_ = conn.Write(r.Context(), websocket.MessageText,
					[]byte(`{"type":"error","error":"unknown type"}`))
				continue
			}

			b.Inbox() <- msg
		}
	}
}

func toBrokerMsg(clientID string, m types.ClientMessage) (broker.Msg, bool) {
	switch m.Type {
	case types.MsgSubscribeLobby:
		return broker.SubscribeLobby{ClientID: clientID}, true
	case types.MsgLobbyChat:
		return broker.LobbyChat{ClientID: clientID, Text: m.Text}, true
	case types.MsgJoinGame:
		return broker.JoinGame{ClientID: clientID, GameID: m.GameID}, true
	case types.MsgGuess:
		return broker.SubmitGuess{ClientID: clientID, GameID: m.GameID, Guess: m.Guess}, true
	case types.MsgGameChat:
		return broker.GameChat{ClientID: clientID, GameID: m.GameID, Text: m.Text}, true
	default:
		return nil, false
	}
}

func randID(length int) string {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	b := make([]byte, length)
	for i := range b {
		b[i] = charset[rand.Intn(len(charset))]
	}
	return string(b)
}
