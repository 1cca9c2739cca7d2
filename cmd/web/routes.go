package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/markbates/goth/gothic"
	"github.com/tkaczmarz/rocket-arena/internal/bracket"
	"github.com/tkaczmarz/rocket-arena/internal/db"
	"github.com/tkaczmarz/rocket-arena/internal/events"
	"github.com/tkaczmarz/rocket-arena/internal/httputil"
	"github.com/tkaczmarz/rocket-arena/internal/middleware"
	"github.com/tkaczmarz/rocket-arena/internal/service"
	"github.com/tkaczmarz/rocket-arena/internal/store"
)

func newRouter(sessionManager *scs.SessionManager, hub *events.Hub) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)

	origin := os.Getenv("ARENA_ORIGIN")
	if origin == "" {
		origin = "http://localhost:5173"
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{origin},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Use(sessionManager.LoadAndSave)

	dbConn := db.GetDB()
	tournamentStore := store.NewTournamentStore(dbConn)
	playerStore := store.NewPlayerStore(dbConn)
	userStore := store.NewUserStore(dbConn)
	guard := service.NewGuard()

	tournamentService := service.NewTournamentService(dbConn, tournamentStore, playerStore, guard, hub)
	rosterService := service.NewRosterService(dbConn, tournamentStore, playerStore, guard, hub)
	matchService := service.NewMatchService(dbConn, tournamentStore, guard, hub)
	leaderboardService := service.NewLeaderboardService(tournamentStore)
	userService := service.NewUserService(dbConn, userStore, playerStore)

	// Observers (bracket screens, spectators) subscribe without logging in.
	r.Get("/ws/tournaments/{id}", func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			httputil.BadRequest(w, "invalid tournament ID", err)
			return
		}
		events.ServeWS(hub, w, r, id.String())
	})

	r.Get("/auth/{provider}", func(w http.ResponseWriter, r *http.Request) {
		provider := chi.URLParam(r, "provider")
		r = r.WithContext(context.WithValue(r.Context(), "provider", provider))

		gothic.BeginAuthHandler(w, r)
	})

	r.Get("/auth/{provider}/callback", func(w http.ResponseWriter, r *http.Request) {
		provider := chi.URLParam(r, "provider")
		r = r.WithContext(context.WithValue(r.Context(), "provider", provider))

		gothUser, err := gothic.CompleteUserAuth(w, r)
		if err != nil {
			httputil.BadRequest(w, "authentication failure", err)
			return
		}

		user, err := userService.FindOrCreateUserByProvider(r.Context(), gothUser)
		if err != nil {
			httputil.InternalServerError(w, "failed to find or create user", err)
			return
		}

		sessionManager.Put(r.Context(), "userID", user.ID.String())
		http.Redirect(w, r, origin, http.StatusFound)
	})

	r.Post("/logout", func(w http.ResponseWriter, r *http.Request) {
		sessionManager.Destroy(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(sessionManager, userStore))

		r.Get("/api/me", func(w http.ResponseWriter, r *http.Request) {
			user := middleware.GetAuthenticatedUser(r.Context())
			if user == nil {
				httputil.NotFound(w, "account not found", nil)
				return
			}
			httputil.JSON(w, http.StatusOK, user)
		})

		r.Get("/api/tournaments", func(w http.ResponseWriter, r *http.Request) {
			userID, _ := middleware.GetUserIDFromContext(r.Context())
			tournaments, err := tournamentService.ByOwner(r.Context(), userID)
			if err != nil {
				httputil.ServiceError(w, err)
				return
			}
			httputil.JSON(w, http.StatusOK, tournaments)
		})

		r.Post("/api/tournaments", func(w http.ResponseWriter, r *http.Request) {
			var req struct {
				Name string `json:"name"`
			}
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				httputil.BadRequest(w, "invalid request body", err)
				return
			}
			userID, _ := middleware.GetUserIDFromContext(r.Context())
			tournament, err := tournamentService.Create(r.Context(), userID, req.Name)
			if err != nil {
				httputil.ServiceError(w, err)
				return
			}
			httputil.JSON(w, http.StatusCreated, tournament)
		})

		r.Get("/api/tournaments/{id}", func(w http.ResponseWriter, r *http.Request) {
			id, err := uuid.Parse(chi.URLParam(r, "id"))
			if err != nil {
				httputil.BadRequest(w, "invalid tournament ID", err)
				return
			}
			data, err := tournamentService.Data(r.Context(), id)
			if err != nil {
				httputil.ServiceError(w, err)
				return
			}
			httputil.JSON(w, http.StatusOK, data)
		})

		r.Post("/api/tournaments/{id}/start", func(w http.ResponseWriter, r *http.Request) {
			id, err := uuid.Parse(chi.URLParam(r, "id"))
			if err != nil {
				httputil.BadRequest(w, "invalid tournament ID", err)
				return
			}
			userID, _ := middleware.GetUserIDFromContext(r.Context())
			tournament, err := tournamentService.Start(r.Context(), userID, id)
			if err != nil {
				httputil.ServiceError(w, err)
				return
			}
			httputil.JSON(w, http.StatusOK, tournament)
		})

		r.Post("/api/tournaments/join", func(w http.ResponseWriter, r *http.Request) {
			var req struct {
				Code string `json:"code"`
			}
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				httputil.BadRequest(w, "invalid request body", err)
				return
			}
			userID, _ := middleware.GetUserIDFromContext(r.Context())
			tournament, err := tournamentService.JoinByCode(r.Context(), userID, req.Code)
			if err != nil {
				httputil.ServiceError(w, err)
				return
			}
			httputil.JSON(w, http.StatusOK, tournament)
		})

		r.Get("/api/tournaments/{id}/roster", func(w http.ResponseWriter, r *http.Request) {
			id, err := uuid.Parse(chi.URLParam(r, "id"))
			if err != nil {
				httputil.BadRequest(w, "invalid tournament ID", err)
				return
			}
			roster, err := rosterService.List(r.Context(), id)
			if err != nil {
				httputil.ServiceError(w, err)
				return
			}
			httputil.JSON(w, http.StatusOK, roster)
		})

		r.Post("/api/tournaments/{id}/roster", func(w http.ResponseWriter, r *http.Request) {
			id, err := uuid.Parse(chi.URLParam(r, "id"))
			if err != nil {
				httputil.BadRequest(w, "invalid tournament ID", err)
				return
			}
			var req struct {
				Name       string `json:"name"`
				SkillLevel int    `json:"skill_level"`
			}
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				httputil.BadRequest(w, "invalid request body", err)
				return
			}
			if req.SkillLevel == 0 {
				req.SkillLevel = bracket.SkillLevelMin
			}
			userID, _ := middleware.GetUserIDFromContext(r.Context())
			player, err := rosterService.Add(r.Context(), userID, id, req.Name, req.SkillLevel)
			if err != nil {
				httputil.ServiceError(w, err)
				return
			}
			httputil.JSON(w, http.StatusCreated, player)
		})

		r.Delete("/api/tournaments/{id}/roster/{playerID}", func(w http.ResponseWriter, r *http.Request) {
			id, err := uuid.Parse(chi.URLParam(r, "id"))
			if err != nil {
				httputil.BadRequest(w, "invalid tournament ID", err)
				return
			}
			playerID, err := uuid.Parse(chi.URLParam(r, "playerID"))
			if err != nil {
				httputil.BadRequest(w, "invalid player ID", err)
				return
			}
			userID, _ := middleware.GetUserIDFromContext(r.Context())
			if err := rosterService.Remove(r.Context(), userID, id, playerID); err != nil {
				httputil.ServiceError(w, err)
				return
			}
			w.WriteHeader(http.StatusNoContent)
		})

		r.Get("/api/tournaments/{id}/leaderboard", func(w http.ResponseWriter, r *http.Request) {
			id, err := uuid.Parse(chi.URLParam(r, "id"))
			if err != nil {
				httputil.BadRequest(w, "invalid tournament ID", err)
				return
			}
			leaderboard, err := leaderboardService.Compute(r.Context(), id)
			if err != nil {
				httputil.ServiceError(w, err)
				return
			}
			httputil.JSON(w, http.StatusOK, leaderboard)
		})

		r.Get("/api/tournaments/{id}/history", func(w http.ResponseWriter, r *http.Request) {
			id, err := uuid.Parse(chi.URLParam(r, "id"))
			if err != nil {
				httputil.BadRequest(w, "invalid tournament ID", err)
				return
			}
			history, err := matchService.History(r.Context(), id)
			if err != nil {
				httputil.ServiceError(w, err)
				return
			}
			httputil.JSON(w, http.StatusOK, history)
		})

		r.Get("/api/players/{id}", func(w http.ResponseWriter, r *http.Request) {
			id, err := uuid.Parse(chi.URLParam(r, "id"))
			if err != nil {
				httputil.BadRequest(w, "invalid player ID", err)
				return
			}
			player, err := rosterService.Player(r.Context(), id)
			if err != nil {
				httputil.ServiceError(w, err)
				return
			}
			httputil.JSON(w, http.StatusOK, struct {
				bracket.Player
				SkillName string `json:"skill_name"`
			}{*player, bracket.SkillLevelName(player.SkillLevel)})
		})

		r.Get("/api/matches/{id}", func(w http.ResponseWriter, r *http.Request) {
			id, err := uuid.Parse(chi.URLParam(r, "id"))
			if err != nil {
				httputil.BadRequest(w, "invalid match ID", err)
				return
			}
			match, err := matchService.Get(r.Context(), id)
			if err != nil {
				httputil.ServiceError(w, err)
				return
			}
			httputil.JSON(w, http.StatusOK, match)
		})

		r.Post("/api/matches/{id}/score", func(w http.ResponseWriter, r *http.Request) {
			id, err := uuid.Parse(chi.URLParam(r, "id"))
			if err != nil {
				httputil.BadRequest(w, "invalid match ID", err)
				return
			}
			var sheet service.ScoreSheet
			if err := json.NewDecoder(r.Body).Decode(&sheet); err != nil {
				httputil.BadRequest(w, "invalid request body", err)
				return
			}
			userID, _ := middleware.GetUserIDFromContext(r.Context())
			match, err := matchService.RecordScore(r.Context(), userID, id, sheet)
			if err != nil {
				httputil.ServiceError(w, err)
				return
			}
			httputil.JSON(w, http.StatusOK, match)
		})
	})

	return r
}
