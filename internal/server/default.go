package server

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/fullcircle-hr/fullcircle/pkg/application"
	"github.com/fullcircle-hr/fullcircle/pkg/configuration"
	"github.com/fullcircle-hr/fullcircle/pkg/constants"
	"github.com/fullcircle-hr/fullcircle/pkg/middleware"
	"github.com/fullcircle-hr/fullcircle/pkg/server"
)

type DefaultOptions struct {
	Logger        *logrus.Logger
	Configuration *configuration.Configuration
	Application   application.Application
	Pool          *pgxpool.Pool
}

func Default(options *DefaultOptions) (*server.HTTPServer, error) {
	app := options.Application

	middlewares := []mux.MiddlewareFunc{
		middleware.WithLogger(options.Logger),
		middleware.Provide(constants.PoolKey, options.Pool),
		middleware.TenantFromHeader(),
	}
	app.RegisterMiddleware(middlewares...)

	notFound := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	})
	methodNotAllowed := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	})

	return server.NewHTTPServer(app, notFound, methodNotAllowed), nil
}
