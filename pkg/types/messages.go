package types

import (
	"github.com/wordarena/wordarena-backend/internal/chat"
	"github.com/wordarena/wordarena-backend/internal/game"
	"github.com/wordarena/wordarena-backend/internal/registry"
)

// Client -> server message types.
const (
	MsgSubscribeLobby = "subscribe-lobby"
	MsgLobbyChat      = "lobby-chat"
	MsgJoinGame       = "join-game"
	MsgGuess          = "guess"
	MsgGameChat       = "game-chat"
)

// Server -> client message types. Chat history replies reuse the chat types
// with the History field set.
const (
	MsgLobbyGames       = "lobby-games"
	MsgLobbyChatHistory = "lobby-chat-history"
	MsgGameState        = "game-state"
	MsgGameChatHistory  = "game-chat-history"
	MsgError            = "error"
)

type ClientMessage struct {
	Type   string `json:"type"`
	GameID string `json:"game_id,omitempty"`
	Text   string `json:"text,omitempty"`
	Guess  string `json:"guess,omitempty"`
}

type ServerMessage struct {
	Type    string                 `json:"type"`
	Games   []registry.ListingItem `json:"games,omitempty"`
	Chat    *chat.Message          `json:"chat,omitempty"`
	History []chat.Message         `json:"history,omitempty"`
	State   *game.Snapshot         `json:"state,omitempty"`
	Error   string                 `json:"error,omitempty"`
}
