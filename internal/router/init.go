package router

import (
	"github.com/ugogo-app/ugogo-api/internal/application"
	"github.com/ugogo-app/ugogo-api/internal/container"
	"github.com/ugogo-app/ugogo-api/internal/infrastructure/collections"
	handlers "github.com/ugogo-app/ugogo-api/internal/interface/http"
	"github.com/ugogo-app/ugogo-api/internal/router/modules"
)

// Deps holds the constructed application services shared by the modules.
type Deps struct {
	Identity  *application.IdentityService
	Directory *application.EventService
	Payments  *application.PaymentService
	Assist    *application.AssistService
	Sessions  *application.SessionManager
}

// BuildDeps assembles the application layer from the container singletons.
func BuildDeps() Deps {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	store := container.GetStore()

	users := collections.NewUserCollection(store)
	events := collections.NewEventCollection(store)

	identity := application.NewIdentityService(users, container.GetJWT(), container.GetRedis(), logger, container.GetGCS(), cfg.GCSBucket)
	directory := application.NewEventService(events, logger, container.GetES(), cfg.ESEventsIndex).
		WithUploads(container.GetGCS(), cfg.GCSBucket)
	payments := application.NewPaymentService(container.GetRedis(), logger)
	assist := application.NewAssistService(container.GetGenAI(), logger)
	sessions := application.NewSessionManager(identity, directory, payments, assist, logger)

	return Deps{
		Identity:  identity,
		Directory: directory,
		Payments:  payments,
		Assist:    assist,
		Sessions:  sessions,
	}
}

// InitModules initializes all application modules and registers them with
// the router registry. Called once during startup.
func InitModules(r *Registry) {
	deps := BuildDeps()
	cfg := container.GetConfig()
	logger := container.GetLogger()
	jwt := container.GetJWT()

	authHandler := handlers.NewAuthHandler(deps.Identity, deps.Sessions, container.GetRedis(), logger, cfg)
	userHandler := handlers.NewUserHandler(deps.Identity, deps.Sessions, logger)
	eventHandler := handlers.NewEventHandler(deps.Identity, deps.Directory, deps.Sessions, deps.Payments, deps.Assist, container.GetRabbitPub(), logger)
	supportHandler := handlers.NewSupportHandler(deps.Sessions, logger)

	r.Add(modules.NewAuthModule(authHandler, jwt))
	r.Add(modules.NewUserModule(userHandler, jwt))
	r.Add(modules.NewEventModule(eventHandler, jwt))
	r.Add(modules.NewSupportModule(supportHandler, jwt))
}
