package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/dmi3ev1987/foodgram/internal/gateway/api"
	"github.com/dmi3ev1987/foodgram/internal/gateway/config"
	"github.com/dmi3ev1987/foodgram/internal/gateway/logging"
	"github.com/dmi3ev1987/foodgram/internal/gateway/proxy"
)

var log = logging.NewLogger()

func main() {
	gatewayConfig, err := config.NewGatewayConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load gateway config")
	}

	rules, err := gatewayConfig.BuildRuleSet()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build rule set")
	}
	for _, rule := range rules.Rules() {
		log.Info().Msgf("Registered route %s: %s -> %s (%s)", rule.Name, rule.Prefix, rule.Target, rule.Kind)
	}

	// ctx.Done() returns when SIGINT/SIGTERM is received or cancel() is called.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// egCtx is cancelled if any function called with eg.Go() returns an error.
	eg, egCtx := errgroup.WithContext(ctx)

	gateway := proxy.NewServer(log, rules, gatewayConfig.MaxBodyBytes)
	gatewayServer := &http.Server{
		Addr:    gatewayConfig.ListenAddr,
		Handler: proxy.AccessLog(log, gateway),
	}
	eg.Go(serveFn(gatewayServer, "gateway"))

	routes := []api.Route{
		api.NewVersionHandler(),
		api.NewHealthHandler(),
		api.NewRoutesHandler(rules),
	}
	adminServer := &http.Server{
		Addr:    gatewayConfig.AdminAddr,
		Handler: api.NewRouter(routes, log),
	}
	eg.Go(serveFn(adminServer, "admin"))

	// Wait for a signal, which triggers ctx.Done(), or for one of the servers
	// to error, which triggers egCtx.Done().
	select {
	case <-egCtx.Done():
		log.Err(egCtx.Err()).Msg("sub-service errored, shutting down gateway")
		cancel()
	case <-ctx.Done():
		log.Info().Msg("Interrupt signal received, gracefully closing gateway")
	}

	err = gatewayServer.Shutdown(context.Background())
	if err != nil {
		log.Err(err).Msg("error on gateway shutdown")
	}

	err = adminServer.Shutdown(context.Background())
	if err != nil {
		log.Err(err).Msg("error on admin server shutdown")
	}

	err = eg.Wait()
	if err != nil {
		log.Err(err).Msg("received error on eg.Wait()")
	}
}

// serveFn takes an http.Server and returns a callback that can be run in a
// separate go-routine under the errgroup.
func serveFn(srv *http.Server, name string) func() error {
	return func() error {
		log.Info().Msgf("Starting %s server at %s", name, srv.Addr)
		err := srv.ListenAndServe()
		if err != http.ErrServerClosed {
			log.Err(err).Msgf("server %s closed with abnormal error", name)
			return err
		}
		return nil
	}
}
