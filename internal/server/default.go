package server

import (
	"net/http"
	"time"

	"github.com/NYTimes/gziphandler"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/hulujobs/hulujobs-sdk/pkg/application"
	"github.com/hulujobs/hulujobs-sdk/pkg/configuration"
	"github.com/hulujobs/hulujobs-sdk/pkg/constants"
	"github.com/hulujobs/hulujobs-sdk/pkg/middleware"
)

type DefaultOptions struct {
	Logger        *logrus.Logger
	Configuration *configuration.Configuration
	Application   application.Application
	Pool          *pgxpool.Pool
}

// Default assembles the HTTP server: the shared middleware stack, every
// registered controller, and gzip on top.
func Default(options *DefaultOptions) (*http.Server, error) {
	app := options.Application

	app.RegisterMiddleware(
		middleware.WithLogger(options.Logger),
		middleware.Provide(constants.AppKey, app),
		middleware.Provide(constants.PoolKey, options.Pool),
		middleware.ProvideActor(),
		middleware.Cors(options.Configuration.Origin),
	)

	router := mux.NewRouter()
	router.Use(app.Middleware()...)
	for _, controller := range app.Controllers() {
		controller.Register(router)
	}

	return &http.Server{
		Addr:              options.Configuration.SocketAddress,
		Handler:           gziphandler.GzipHandler(router),
		ReadHeaderTimeout: 5 * time.Second,
	}, nil
}
