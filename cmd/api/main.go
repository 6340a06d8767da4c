package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"

	"craftshop-checkout/internal/client"
	"craftshop-checkout/internal/config"
	"craftshop-checkout/internal/metrics"
	"craftshop-checkout/internal/repository"
	"craftshop-checkout/internal/server"
	"craftshop-checkout/internal/service"
)

func main() {
	// load .env into os.Environ
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found (ok in prod)")
	}

	cfg := &config.Config{}
	if err := env.Parse(cfg); err != nil {
		fmt.Printf("Failed to parse config: %v\n", err)
		os.Exit(1)
	}

	db := client.InitSqliteClient(cfg.DatabaseURL)
	gatewayClient := client.NewGatewayClient(&cfg.Gateway)
	commerceClient := client.NewCommerceClient(&cfg.Commerce)

	orderRepo := repository.NewOrderRepository(db)
	correlationRepo := repository.NewCorrelationRepository(db)

	checkoutMetrics := metrics.NewCheckoutMetrics()

	checkoutService := service.NewCheckoutService(
		db,
		gatewayClient,
		commerceClient,
		cfg.BaseURL,
		orderRepo,
		correlationRepo,
		checkoutMetrics,
	)

	serverAddr := cfg.HTTP.Host + ":" + cfg.HTTP.Port

	// Init HTTP server
	srv := server.NewServer(checkoutService, cfg.Session.JWTSecret)

	log.Println("Starting HTTP server on", serverAddr)
	go func() {
		if err := srv.Start(serverAddr); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	<-sigChan
	log.Println("Signal received, starting graceful shutdown...")

	_, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(); err != nil {
		log.Fatal("HTTP server shutdown error")
	}
}
