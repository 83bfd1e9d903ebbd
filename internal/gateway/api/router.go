package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/dmi3ev1987/foodgram/internal/gateway/proxy"
)

// Route is a single admin endpoint.
type Route interface {
	http.Handler

	// Pattern reports the path at which this is registered.
	Pattern() string
	Method() string
}

func NewRouter(routes []Route, logger *zerolog.Logger) *mux.Router {
	router := mux.NewRouter()
	for _, route := range routes {
		logger.Info().Msgf("Registering admin route: %s", route.Pattern())
		router.Handle(route.Pattern(), route).Methods(route.Method())
	}

	router.Use(func(h http.Handler) http.Handler {
		return proxy.AccessLog(logger, h)
	})
	return router
}
