package jobs

import (
	"github.com/redis/go-redis/v9"

	"github.com/hulujobs/hulujobs-sdk/modules/jobs/handlers"
	"github.com/hulujobs/hulujobs-sdk/modules/jobs/infrastructure/persistence"
	"github.com/hulujobs/hulujobs-sdk/modules/jobs/presentation/controllers"
	"github.com/hulujobs/hulujobs-sdk/modules/jobs/services"
	"github.com/hulujobs/hulujobs-sdk/pkg/application"
	"github.com/hulujobs/hulujobs-sdk/pkg/configuration"
	"github.com/hulujobs/hulujobs-sdk/pkg/notification"
)

func NewModule() application.Module {
	return &Module{}
}

type Module struct {
	// Notifier overrides the configuration-selected notification backend.
	// Tests inject a recorder here.
	Notifier notification.Port
}

func (m *Module) Register(app application.Application) error {
	conf := configuration.Use()

	jobRepo := persistence.NewJobRepository()
	requestRepo := persistence.NewRequestRepository()

	app.RegisterServices(
		services.NewJobService(jobRepo, app.EventPublisher()),
		services.NewPromotionService(jobRepo, app.EventPublisher(), conf.Promotion.ExtensionDays),
		services.NewApprovalService(jobRepo, requestRepo, app.EventPublisher(), conf.Promotion.DurationDays),
		services.NewBulkService(jobRepo, app.EventPublisher()),
	)
	app.RegisterControllers(
		controllers.NewJobsAPIController(app),
	)

	notifier := m.Notifier
	if notifier == nil {
		switch conf.Notification.Backend {
		case "redis":
			client := redis.NewClient(&redis.Options{Addr: conf.Notification.RedisURL})
			notifier = notification.NewRedisNotifier(client, conf.Notification.Queue)
		default:
			notifier = notification.NewLogNotifier(app.Logger())
		}
	}
	handlers.RegisterNotificationHandlers(app, notifier)
	return nil
}

func (m *Module) Name() string {
	return "jobs"
}
