// Package main implements the SkyLedger backend server: a REST gateway over
// the UTM smart contracts (zones, drone identities, operators, reputation
// token, route logging, route permission, violations).
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/blockchain-unitn/skyledger-backend/internal/chain"
	"github.com/blockchain-unitn/skyledger-backend/internal/config"
	"github.com/blockchain-unitn/skyledger-backend/internal/httpapi"
	"github.com/blockchain-unitn/skyledger-backend/internal/logging"
	"github.com/blockchain-unitn/skyledger-backend/internal/services/drones"
	"github.com/blockchain-unitn/skyledger-backend/internal/services/operators"
	"github.com/blockchain-unitn/skyledger-backend/internal/services/permission"
	"github.com/blockchain-unitn/skyledger-backend/internal/services/routelog"
	"github.com/blockchain-unitn/skyledger-backend/internal/services/token"
	"github.com/blockchain-unitn/skyledger-backend/internal/services/violations"
	"github.com/blockchain-unitn/skyledger-backend/internal/services/zones"
)

func main() {
	port := flag.Int("port", 0, "listen port (overrides PORT)")
	debug := flag.Bool("debug", false, "enable debug logging (overrides DEBUG)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}
	if *port != 0 {
		cfg.Port = *port
	}
	if *debug {
		cfg.Debug = true
	}

	log := logging.New("skyledger-backend", cfg.Debug)

	client, err := chain.Dial(chain.Config{
		RPCURL:     cfg.RPCURL,
		ChainID:    cfg.ChainID,
		PrivateKey: cfg.PrivateKey,
		Timeout:    cfg.RPCTimeout,
	}, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to chain")
	}
	defer client.Close()

	zonesSvc, err := zones.New(client, cfg.ZonesAddress, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to bind Zones contract")
	}
	dronesSvc, err := drones.New(client, cfg.DroneNFTAddress, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to bind DroneIdentityNFT contract")
	}
	operatorsSvc, err := operators.New(client, cfg.OperatorAddress, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to bind Operator contract")
	}
	tokenSvc, err := token.New(client, cfg.ReputationTokenAddress, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to bind ReputationToken contract")
	}
	routesSvc, err := routelog.New(client, cfg.RouteLoggingAddress, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to bind RouteLogging contract")
	}
	permissionSvc, err := permission.New(client, cfg.RoutePermissionAddress, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to bind RoutePermission contract")
	}
	violationsSvc, err := violations.New(client, cfg.ViolationsAddress, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to bind ViolationsAlerting contract")
	}

	api := httpapi.New(httpapi.Config{
		Logger: log,
		Chain:  client,
		ContractAddresses: map[string]string{
			"zones":            cfg.ZonesAddress,
			"droneIdentityNFT": cfg.DroneNFTAddress,
			"operator":         cfg.OperatorAddress,
			"reputationToken":  cfg.ReputationTokenAddress,
			"routeLogging":     cfg.RouteLoggingAddress,
			"routePermission":  cfg.RoutePermissionAddress,
			"violations":       cfg.ViolationsAddress,
		},
		AllowedOrigins: cfg.AllowedOrigins,
		RateLimit:      cfg.RateLimit,
		RateBurst:      cfg.RateBurst,
		Zones:          zonesSvc,
		Drones:         dronesSvc,
		Operators:      operatorsSvc,
		Tokens:         tokenSvc,
		Routes:         routesSvc,
		Permissions:    permissionSvc,
		Violations:     violationsSvc,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      api.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second, // transactions wait for confirmation
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Int("port", cfg.Port).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("shutdown failed")
	}
	log.Info().Msg("server stopped")
}
