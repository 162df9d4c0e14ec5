package apiapp

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	achievementsvc "github.com/NetworklyINC/Networkly-Main/backend/internal/services/achievements"
	analyticsvc "github.com/NetworklyINC/Networkly-Main/backend/internal/services/analytics"
	connsvc "github.com/NetworklyINC/Networkly-Main/backend/internal/services/connections"
	extrasvc "github.com/NetworklyINC/Networkly-Main/backend/internal/services/extracurriculars"
	mediasvc "github.com/NetworklyINC/Networkly-Main/backend/internal/services/media"
	messagesvc "github.com/NetworklyINC/Networkly-Main/backend/internal/services/messages"
	profilesvc "github.com/NetworklyINC/Networkly-Main/backend/internal/services/profiles"
	userssvc "github.com/NetworklyINC/Networkly-Main/backend/internal/services/users"
	"github.com/NetworklyINC/Networkly-Main/backend/internal/transport/http/handlers"
)

type Dependencies struct {
	AchievementService     *achievementsvc.Service
	AnalyticsService       *analyticsvc.Service
	ConnectionService      *connsvc.Service
	ExtracurricularService *extrasvc.Service
	MediaService           *mediasvc.Service
	MessageService         *messagesvc.Service
	ProfileService         *profilesvc.Service
	UserService            *userssvc.Service
	TokenVerifier          TokenVerifier
	MetricsHandler         http.Handler
	Logger                 *zap.Logger
}

func RegisterRoutes(r chi.Router, deps Dependencies) {
	healthHandler := handlers.NewHealthHandler()
	profileHandler := handlers.NewProfileHandler(deps.ProfileService)
	mediaHandler := handlers.NewMediaHandler(deps.MediaService)
	achievementsHandler := handlers.NewAchievementsHandler(deps.AchievementService)
	extracurricularsHandler := handlers.NewExtracurricularsHandler(deps.ExtracurricularService)
	connectionsHandler := handlers.NewConnectionsHandler(deps.ConnectionService)
	messagesHandler := handlers.NewMessagesHandler(deps.MessageService)
	eventsHandler := handlers.NewEventsHandler(deps.AnalyticsService, deps.UserService)
	authMW := AuthMiddleware(deps.TokenVerifier, deps.Logger)

	r.Get("/healthz", healthHandler.Get)
	if deps.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", deps.MetricsHandler)
	}

	r.Route("/v1", func(r chi.Router) {
		r.Use(authMW)

		r.Get("/profiles/{user_id}", profileHandler.Get)
		r.Get("/profiles/{user_id}/strength", profileHandler.Strength)
		r.Patch("/profile", profileHandler.Update)
		r.Post("/profile/completeness", profileHandler.Completeness)
		r.Post("/profile/avatar", mediaHandler.AvatarUpload)

		r.Post("/achievements", achievementsHandler.Create)
		r.Delete("/achievements/{id}", achievementsHandler.Delete)
		r.Post("/extracurriculars", extracurricularsHandler.Create)
		r.Delete("/extracurriculars/{id}", extracurricularsHandler.Delete)

		r.Get("/connections", connectionsHandler.List)
		r.Post("/connections", connectionsHandler.Request)
		r.Post("/connections/{id}/accept", connectionsHandler.Accept)

		r.Post("/messages", messagesHandler.Send)
		r.Get("/messages/{user_id}", messagesHandler.Conversation)

		r.Post("/events", eventsHandler.Batch)
	})
}
