package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/wordarena/wordarena-backend/internal/auth"
	"github.com/wordarena/wordarena-backend/internal/broker"
	"github.com/wordarena/wordarena-backend/internal/game"
)

type signupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type authResponse struct {
	Token    string `json:"token"`
	UserID   string `json:"user_id"`
	Username string `json:"username"`
}

type createGameRequest struct {
	Name       string `json:"name"`
	Capacity   int    `json:"capacity"`
	SecretWord string `json:"secret_word"`
}

func Signup(store *auth.Store, tokens *auth.TokenManager, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req signupRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad json")
			return
		}

		u, err := store.CreateUser(r.Context(), req.Username, req.Email, req.Password)
		switch {
		case errors.Is(err, auth.ErrMissingFields), errors.Is(err, auth.ErrUserExists):
			writeError(w, http.StatusBadRequest, err.Error())
			return
		case err != nil:
			log.Error("signup failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "sign up failed")
			return
		}

		token, err := tokens.Issue(u.ID)
		if err != nil {
			log.Error("token issue failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "sign up failed")
			return
		}
		writeJSON(w, http.StatusCreated, authResponse{Token: token, UserID: u.ID, Username: u.Username})
	}
}

func Login(store *auth.Store, tokens *auth.TokenManager, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad json")
			return
		}

		u, err := store.VerifyUser(r.Context(), req.Login, req.Password)
		if errors.Is(err, auth.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		if err != nil {
			log.Error("login failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "login failed")
			return
		}

		token, err := tokens.Issue(u.ID)
		if err != nil {
			log.Error("token issue failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "login failed")
			return
		}
		writeJSON(w, http.StatusOK, authResponse{Token: token, UserID: u.ID, Username: u.Username})
	}
}

// CreateGame requests a new game from the broker and replies with its
// snapshot. The host is on the roster immediately; their connection enters
// the game channel when it sends join-game.
func CreateGame(b *broker.Broker, store *auth.Store, tokens *auth.TokenManager, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		host, ok := requireUser(w, r, store, tokens)
		if !ok {
			return
		}

		var req createGameRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad json")
			return
		}

		reply := make(chan game.Snapshot, 1)
		b.Inbox() <- broker.CreateGame{
			Spec: game.Spec{
				Host:       host,
				Name:       req.Name,
				Capacity:   req.Capacity,
				SecretWord: req.SecretWord,
			},
			Reply: reply,
		}
		snap := <-reply

		log.Info("game created", zap.String("game_id", snap.ID), zap.String("host", host.Username))
		writeJSON(w, http.StatusCreated, snap)
	}
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// requireUser authenticates the bearer token and resolves the acting player.
func requireUser(w http.ResponseWriter, r *http.Request, store *auth.Store, tokens *auth.TokenManager) (game.Player, bool) {
	token := bearerToken(r)
	if token == "" {
		writeError(w, http.StatusUnauthorized, "missing token")
		return game.Player{}, false
	}
	userID, ok := tokens.Verify(token)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return game.Player{}, false
	}
	u, err := store.GetUserByID(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return game.Player{}, false
	}
	return game.Player{ID: u.ID, Username: u.Username}, true
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return ""
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, struct {
		Error string `json:"error"`
	}{Error: msg})
}
