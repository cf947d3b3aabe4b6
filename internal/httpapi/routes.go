package httpapi

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/wordarena/wordarena-backend/internal/auth"
	"github.com/wordarena/wordarena-backend/internal/broker"
	"github.com/wordarena/wordarena-backend/internal/game"
	"github.com/wordarena/wordarena-backend/internal/ws"
)

func SetupRoutes(b *broker.Broker, store *auth.Store, tokens *auth.TokenManager, log *zap.Logger) http.Handler {
	ident := ws.IdentifierFunc(func(ctx context.Context, token string) (game.Player, error) {
		userID, ok := tokens.Verify(token)
		if !ok {
			return game.Player{}, auth.ErrInvalidCredentials
		}
		u, err := store.GetUserByID(ctx, userID)
		if err != nil {
			return game.Player{}, err
		}
		return game.Player{ID: u.ID, Username: u.Username}, nil
	})

	r := chi.NewRouter()

	// Public routes
	r.Post("/signup", Signup(store, tokens, log))
	r.Post("/login", Login(store, tokens, log))
	r.Get("/healthz", Healthz)

	// Token-authenticated routes
	r.Post("/games", CreateGame(b, store, tokens, log))
	r.Get("/ws", ws.Handler(b, ident, log))
	return r
}
