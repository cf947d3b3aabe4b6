package broker

import (
	"github.com/wordarena/wordarena-backend/internal/game"
	"github.com/wordarena/wordarena-backend/pkg/types"
)

type Msg interface{ isBrokerMsg() }

// Connect registers an authenticated connection. Identity verification has
// already happened at the edge; the broker never admits an anonymous client.
type Connect struct {
	ClientID string
	User     game.Player
	Outbox   chan types.ServerMessage
}

// SubscribeLobby moves the connection into the lobby channel and replies with
// the current listing plus lobby chat history.
type SubscribeLobby struct {
	ClientID string
}

type LobbyChat struct {
	ClientID string
	Text     string
}

// CreateGame builds a new game with the host auto-joined to its roster and
// replies with the created snapshot. Sent by the HTTP layer, not over the
// websocket.
type CreateGame struct {
	Spec  game.Spec
	Reply chan game.Snapshot
}

// JoinGame moves the connection out of the lobby channel and into the game's
// channel, joining its roster.
type JoinGame struct {
	ClientID string
	GameID   string
}

type SubmitGuess struct {
	ClientID string
	GameID   string
	Guess    string
}

type GameChat struct {
	ClientID string
	GameID   string
	Text     string
}

// Disconnect is the implicit leave: dropped connections come through here.
type Disconnect struct {
	ClientID string
}

// GetView reflects internal state for tests without data races.
type GetView struct {
	Reply chan View
}

type Shutdown struct{}

func (Connect) isBrokerMsg()        {}
func (SubscribeLobby) isBrokerMsg() {}
func (LobbyChat) isBrokerMsg()      {}
func (CreateGame) isBrokerMsg()     {}
func (JoinGame) isBrokerMsg()       {}
func (SubmitGuess) isBrokerMsg()    {}
func (GameChat) isBrokerMsg()       {}
func (Disconnect) isBrokerMsg()     {}
func (GetView) isBrokerMsg()        {}
func (Shutdown) isBrokerMsg()       {}
