package broker

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/wordarena/wordarena-backend/internal/chat"
	"github.com/wordarena/wordarena-backend/internal/game"
	"github.com/wordarena/wordarena-backend/internal/registry"
	"github.com/wordarena/wordarena-backend/internal/word"
	"github.com/wordarena/wordarena-backend/pkg/types"
)

var ErrGameNotFound = errors.New("game not found")

// contextKind tags which channel a connection belongs to. A connection is a
// member of at most one channel at a time; joining a game leaves the lobby.
type contextKind int

const (
	ctxNone contextKind = iota
	ctxLobby
	ctxGame
)

type clientContext struct {
	kind   contextKind
	gameID string
}

type client struct {
	user   game.Player
	outbox chan types.ServerMessage
	ctx    clientContext
}

// View reflects broker internals for tests.
type View struct {
	NumClients int
	NumGames   int
	Listing    []registry.ListingItem
}

// Broker is the single writer over the registry, every game, the chat rings,
// and channel membership. One goroutine consumes the inbox, so mutations on
// a game are serialized and every channel sees snapshots in application
// order.
type Broker struct {
	inbox     chan Msg
	clients   map[string]*client
	registry  *registry.Registry
	lobbyChat *chat.Ring
	log       *zap.Logger
	now       func() time.Time
	ctx       context.Context
	cancel    context.CancelFunc
}

func New(parent context.Context, reg *registry.Registry, log *zap.Logger) *Broker {
	ctx, cancel := context.WithCancel(parent)
	b := &Broker{
		inbox:     make(chan Msg, 64),
		clients:   make(map[string]*client),
		registry:  reg,
		lobbyChat: chat.NewRing(chat.DefaultCapacity),
		log:       log,
		now:       time.Now,
		ctx:       ctx,
		cancel:    cancel,
	}
	go b.loop()
	return b
}

func (b *Broker) Inbox() chan<- Msg { return b.inbox }

func (b *Broker) loop() {
	for {
		select {
		case <-b.ctx.Done():
			b.shutdown()
			return

		case m := <-b.inbox:
			switch msg := m.(type) {
			case Connect:
				b.clients[msg.ClientID] = &client{user: msg.User, outbox: msg.Outbox}
				b.log.Info("client connected",
					zap.String("client_id", msg.ClientID),
					zap.String("username", msg.User.Username))

			case SubscribeLobby:
				b.subscribeLobby(msg)

			case LobbyChat:
				b.lobbyChatSend(msg)

			case CreateGame:
				g := b.registry.Create(msg.Spec)
				// host joins the roster immediately; the add cannot fail on
				// a fresh game
				_ = g.AddPlayer(msg.Spec.Host)
				b.log.Info("game created",
					zap.String("game_id", g.ID),
					zap.String("host", g.HostUsername))
				b.broadcastLobbyListing()
				msg.Reply <- g.Snapshot()

			case JoinGame:
				b.joinGame(msg)

			case SubmitGuess:
				b.submitGuess(msg)

			case GameChat:
				b.gameChatSend(msg)

			case Disconnect:
				b.disconnect(msg.ClientID)

			case GetView:
				msg.Reply <- View{
					NumClients: len(b.clients),
					NumGames:   b.registry.Len(),
					Listing:    b.registry.Listing(),
				}

			case Shutdown:
				b.shutdown()
				return
			}
		}
	}
}

func (b *Broker) subscribeLobby(msg SubscribeLobby) {
	c := b.clients[msg.ClientID]
	if c == nil {
		return
	}
	// returning to the lobby is an explicit leave: release the roster seat
	// so the game can empty out and be deleted
	b.leaveGame(c)
	c.ctx = clientContext{kind: ctxLobby}
	b.send(msg.ClientID, c, types.ServerMessage{
		Type:  types.MsgLobbyGames,
		Games: b.registry.Listing(),
	})
	b.send(msg.ClientID, c, types.ServerMessage{
		Type:    types.MsgLobbyChatHistory,
		History: b.lobbyChat.History(),
	})
}

func (b *Broker) lobbyChatSend(msg LobbyChat) {
	c := b.clients[msg.ClientID]
	if c == nil || c.ctx.kind != ctxLobby {
		return // lobby chat from outside the lobby is dropped, not an error
	}
	safe := word.SanitizeChat(msg.Text)
	if safe == "" {
		return
	}
	entry := chat.Message{Ts: b.now(), Username: c.user.Username, Text: safe}
	b.lobbyChat.Push(entry)
	b.broadcastLobby(types.ServerMessage{Type: types.MsgLobbyChat, Chat: &entry})
}

func (b *Broker) joinGame(msg JoinGame) {
	c := b.clients[msg.ClientID]
	if c == nil {
		return
	}
	// leaving the lobby first keeps lobby chat from leaking into the game
	// view even when the join fails; switching games releases the old seat
	if c.ctx.kind == ctxGame && c.ctx.gameID != msg.GameID {
		b.leaveGame(c)
	}
	if c.ctx.kind == ctxLobby {
		c.ctx = clientContext{}
	}

	g, ok := b.registry.Get(msg.GameID)
	if !ok {
		b.sendError(msg.ClientID, c, ErrGameNotFound)
		return
	}
	if err := g.AddPlayer(c.user); err != nil {
		b.sendError(msg.ClientID, c, err)
		return
	}

	c.ctx = clientContext{kind: ctxGame, gameID: g.ID}
	b.send(msg.ClientID, c, types.ServerMessage{
		Type:    types.MsgGameChatHistory,
		History: g.Chat.History(),
	})
	b.broadcastGameState(g)
	b.broadcastLobbyListing()
}

func (b *Broker) submitGuess(msg SubmitGuess) {
	c := b.clients[msg.ClientID]
	if c == nil {
		return
	}
	g, ok := b.registry.Get(msg.GameID)
	if !ok {
		b.sendError(msg.ClientID, c, ErrGameNotFound)
		return
	}
	if !g.HasPlayer(c.user.ID) {
		b.sendError(msg.ClientID, c, game.ErrNotInGame)
		return
	}

	outcome, err := g.Guess(c.user, msg.Guess)
	if err != nil {
		b.sendError(msg.ClientID, c, err)
		return
	}

	if outcome.Narration != "" {
		sys := chat.Message{Ts: b.now(), Username: chat.SystemSender, Text: outcome.Narration}
		g.Chat.Push(sys)
		b.broadcastGame(g.ID, types.ServerMessage{Type: types.MsgGameChat, Chat: &sys})
	}
	b.broadcastGameState(g)
	b.broadcastLobbyListing()
}

func (b *Broker) gameChatSend(msg GameChat) {
	c := b.clients[msg.ClientID]
	if c == nil {
		return
	}
	g, ok := b.registry.Get(msg.GameID)
	if !ok {
		b.sendError(msg.ClientID, c, ErrGameNotFound)
		return
	}
	if !g.HasPlayer(c.user.ID) {
		b.sendError(msg.ClientID, c, game.ErrNotInGame)
		return
	}
	safe := word.SanitizeChat(msg.Text)
	if safe == "" {
		return
	}
	entry := chat.Message{Ts: b.now(), Username: c.user.Username, Text: safe}
	g.Chat.Push(entry)
	b.broadcastGame(g.ID, types.ServerMessage{Type: types.MsgGameChat, Chat: &entry})
}

// disconnect is the implicit leave path: drop roster membership, delete the
// game if its roster emptied, and refresh the affected channels.
func (b *Broker) disconnect(clientID string) {
	c := b.clients[clientID]
	if c == nil {
		return
	}
	delete(b.clients, clientID)
	close(c.outbox)
	b.leaveGame(c)
}

// leaveGame releases c's roster seat if it holds one, deleting the game when
// the roster empties, and refreshes the affected channels. A no-op for
// clients outside a game channel.
func (b *Broker) leaveGame(c *client) {
	if c.ctx.kind != ctxGame {
		return
	}
	gameID := c.ctx.gameID
	c.ctx = clientContext{}

	g, ok := b.registry.Get(gameID)
	if !ok {
		return
	}
	if g.RemovePlayer(c.user.ID) {
		b.registry.Delete(g.ID)
		b.log.Info("game deleted, roster empty", zap.String("game_id", g.ID))
	} else {
		b.broadcastGameState(g)
	}
	b.broadcastLobbyListing()
}

func (b *Broker) broadcastGameState(g *game.Game) {
	snap := g.Snapshot()
	b.broadcastGame(g.ID, types.ServerMessage{Type: types.MsgGameState, State: &snap})
}

func (b *Broker) broadcastLobbyListing() {
	b.broadcastLobby(types.ServerMessage{
		Type:  types.MsgLobbyGames,
		Games: b.registry.Listing(),
	})
}

func (b *Broker) broadcastLobby(msg types.ServerMessage) {
	b.broadcast(ctxLobby, "", msg)
}

func (b *Broker) broadcastGame(gameID string, msg types.ServerMessage) {
	b.broadcast(ctxGame, gameID, msg)
}

func (b *Broker) broadcast(kind contextKind, gameID string, msg types.ServerMessage) {
	var dropped []string
	for id, c := range b.clients {
		if c.ctx.kind != kind || c.ctx.gameID != gameID {
			continue
		}
		select {
		case c.outbox <- msg:
		default:
			// client is slow/full - drop them
			dropped = append(dropped, id)
		}
	}
	for _, id := range dropped {
		b.log.Warn("dropping slow client", zap.String("client_id", id))
		b.disconnect(id)
	}
}

// send unicasts to one client, dropping them if their outbox is full.
func (b *Broker) send(clientID string, c *client, msg types.ServerMessage) {
	select {
	case c.outbox <- msg:
	default:
		b.log.Warn("dropping slow client", zap.String("client_id", clientID))
		b.disconnect(clientID)
	}
}

// sendError unicasts a failure to the originator only; errors are never
// broadcast to other channel members.
func (b *Broker) sendError(clientID string, c *client, err error) {
	b.send(clientID, c, types.ServerMessage{Type: types.MsgError, Error: err.Error()})
}

func (b *Broker) shutdown() {
	for id, c := range b.clients {
		close(c.outbox)
		delete(b.clients, id)
	}
	b.cancel()
}
