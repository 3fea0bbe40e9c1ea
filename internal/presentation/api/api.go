package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/trustnote/roomsync/internal/infrastructure/configs"
	"github.com/trustnote/roomsync/internal/infrastructure/logging"
	"github.com/trustnote/roomsync/internal/infrastructure/metrics"
	"github.com/trustnote/roomsync/internal/infrastructure/ratelimiter"
	friendsHandler "github.com/trustnote/roomsync/internal/presentation/handler/friends"
	healthHandler "github.com/trustnote/roomsync/internal/presentation/handler/health"
	invitesHandler "github.com/trustnote/roomsync/internal/presentation/handler/invites"
	roomsHandler "github.com/trustnote/roomsync/internal/presentation/handler/rooms"
)

type Application struct {
	config         configs.Config
	roomsHandler   roomsHandler.Handler
	invitesHandler invitesHandler.Handler
	friendsHandler friendsHandler.Handler
	healthHandler  healthHandler.Handler
	logger         logging.Logger
	metrics        *metrics.Metrics
	ratelimiter    ratelimiter.Limiter
}

func NewApplication(
	config configs.Config,
	roomsHandler roomsHandler.Handler,
	invitesHandler invitesHandler.Handler,
	friendsHandler friendsHandler.Handler,
	healthHandler healthHandler.Handler,
	logger logging.Logger,
	m *metrics.Metrics,
	ratelimiter ratelimiter.Limiter,
) *Application {
	return &Application{
		config:         config,
		roomsHandler:   roomsHandler,
		invitesHandler: invitesHandler,
		friendsHandler: friendsHandler,
		healthHandler:  healthHandler,
		logger:         logger,
		metrics:        m,
		ratelimiter:    ratelimiter,
	}
}

func (app *Application) Mount() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Use(app.rateLimiterMiddleware)
	r.Use(app.enableCors)
	r.Use(app.loggerMiddleware)
	r.Use(app.prometheusMiddleware)

	r.Route("/api", func(r chi.Router) {
		r.Route("/rooms", func(r chi.Router) {
			r.Post("/", app.roomsHandler.CreateRoomHandler)
			r.Get("/{roomId}", app.roomsHandler.GetRoomHandler)
			r.Get("/{roomId}/subscribe", app.roomsHandler.SubscribeHandler)
			r.Post("/{roomId}/join", app.roomsHandler.JoinRoomHandler)
			r.Post("/{roomId}/start", app.roomsHandler.StartGameHandler)
			r.Post("/{roomId}/votes", app.roomsHandler.SubmitVoteHandler)
			r.Post("/{roomId}/end", app.roomsHandler.EndRoomHandler)
			r.Get("/{roomId}/history", app.roomsHandler.GetRoomHistoryHandler)

			r.Post("/{roomId}/invites", app.invitesHandler.InviteFriendHandler)
		})

		r.Route("/invites", func(r chi.Router) {
			r.Get("/", app.invitesHandler.ListPendingInvitesHandler)
			r.Post("/{inviteId}/accept", app.invitesHandler.AcceptInviteHandler)
		})

		r.Get("/friends", app.friendsHandler.ListFriendsHandler)

		r.Get("/health", app.healthHandler.GetHealth)
		r.Get("/healthz", app.healthHandler.GetHealth)
		r.Get("/ready", app.healthHandler.GetHealth)
		r.Get("/live", app.healthHandler.GetHealth)
	})

	r.Handle("/metrics", metrics.Handler())

	return otelhttp.NewHandler(r, "roomsync.http")
}

func (app *Application) Run(mux http.Handler) error {
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", app.config.HTTP.Host, app.config.HTTP.Port),
		Handler:      mux,
		WriteTimeout: app.config.HTTP.WriteTimeout,
		ReadTimeout:  app.config.HTTP.ReadTimeout,
		IdleTimeout:  time.Minute,
	}

	shutdown := make(chan error)

	go func() {
		quit := make(chan os.Signal, 1)

		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		app.logger.Info(logging.General, logging.Shutdown, "signal caught", map[logging.ExtraKey]any{
			"signal": s.String(),
		})

		shutdown <- srv.Shutdown(ctx)
	}()

	app.logger.Info(logging.General, logging.Startup, "server has started", map[logging.ExtraKey]any{
		"addr": srv.Addr,
	})

	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	err = <-shutdown
	if err != nil {
		return err
	}

	app.logger.Info(logging.General, logging.Shutdown, "server has stopped", map[logging.ExtraKey]any{
		"addr": srv.Addr,
	})

	return nil
}
