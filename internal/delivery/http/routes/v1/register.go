package v1

import (
	"log"

	"homepro/internal/config"
	"homepro/internal/database"
	"homepro/internal/delivery/http/handler"
	"homepro/internal/delivery/http/middleware"
	"homepro/internal/infrastructure/cache"
	"homepro/internal/pkg/jwt"
	"homepro/internal/repository"
	"homepro/internal/usecase"
	"homepro/internal/ws"

	"github.com/gofiber/fiber/v3"
)

type Deps struct {
	Config config.Config
	DB     database.DB
	Cache  *cache.Redis
	Hub    *ws.Hub
	Logger *log.Logger
}

func Register(r fiber.Router, d Deps) {
	if r == nil {
		return
	}

	jwtSvc := jwt.NewHMACService(
		d.Config.JWT.AccessSecret,
		d.Config.JWT.RefreshSecret,
		d.Config.JWT.AccessExpiresIn,
		d.Config.JWT.RefreshExpiresIn,
	)

	authMw := middleware.NewAuthMiddleware(jwtSvc)
	notifier := ws.NewNotifier(d.Hub)

	profileRepo := repository.NewPostgresProfileRepository(d.DB)
	jobRepo := repository.NewPostgresJobRepository(d.DB)
	bidRepo := repository.NewPostgresBidRepository(d.DB)
	convRepo := repository.NewPostgresConversationRepository(d.DB)
	msgRepo := repository.NewPostgresMessageRepository(d.DB)

	authUC := usecase.NewAuthUsecase(profileRepo, jwtSvc)
	profileUC := usecase.NewProfileUsecase(profileRepo)
	jobUC := usecase.NewJobUsecase(jobRepo, profileRepo, d.Cache, d.Logger)
	bidUC := usecase.NewBidUsecase(bidRepo, jobRepo, profileRepo, d.Cache, notifier, d.Logger)
	chatUC := usecase.NewChatUsecase(convRepo, msgRepo, jobRepo, bidRepo, d.Cache, notifier, d.Logger)

	authHandler := handler.NewAuthHandler(authUC)
	profileHandler := handler.NewProfileHandler(profileUC)
	jobHandler := handler.NewJobHandler(jobUC)
	bidHandler := handler.NewBidHandler(bidUC)
	chatHandler := handler.NewChatHandler(chatUC)
	wsHandler := ws.NewHandler(d.Hub, jwtSvc, d.Logger)

	authGroup := r.Group("/auth")
	authHandler.RegisterRoutes(authGroup)

	// WebSocket authenticates via token query param, not the bearer header.
	r.Get("/events/ws", wsHandler.HandleEventsWS)

	// Browsing jobs needs no account; registered ahead of the auth gate.
	jobHandler.RegisterPublicRoutes(r.Group("/jobs"))

	protected := r.Group("", authMw.Middleware())

	profileHandler.RegisterRoutes(protected.Group("/profiles"))

	jobsGroup := protected.Group("/jobs")
	jobHandler.RegisterRoutes(jobsGroup)
	bidHandler.RegisterJobRoutes(jobsGroup)

	bidHandler.RegisterRoutes(protected.Group("/bids"))
	chatHandler.RegisterRoutes(protected.Group("/conversations"))
}
