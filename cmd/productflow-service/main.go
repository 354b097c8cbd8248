// cmd/productflow-service/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"productflow/internal/activation"
	"productflow/internal/audit"
	"productflow/internal/onboarding"
	"productflow/internal/token"
	"productflow/pkg/config"
	"productflow/pkg/db"
	"productflow/pkg/httpclient"
	"productflow/pkg/logger"
	"productflow/pkg/middleware"
	"productflow/pkg/secrets"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.Env)

	pool := db.MustConnect(cfg, log)
	if pool != nil {
		if err := audit.EnsureSchema(context.Background(), pool); err != nil {
			log.Fatalw("schema", "err", err)
		}
	}
	journal := audit.NewJournal(pool, log)

	var store secrets.Store
	if cli := db.MustRedis(cfg, log); cli != nil {
		store = secrets.NewRedisStore(cli)
	} else {
		store = secrets.NewMemoryStoreFromEnv(log)
	}
	resolver := secrets.NewResolver(store, cfg.Credentials(), log)

	client := httpclient.New(cfg)
	issuer := token.NewIssuer(resolver, client, log)
	onboard := onboarding.NewService(cfg, issuer, client, journal, log)
	activate := activation.NewService(cfg, issuer, client, journal, log)

	r := chi.NewRouter()
	r.Use(middleware.RequestID())
	r.Use(middleware.Recover(log))
	r.Use(middleware.Tracing(cfg))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.Write([]byte("ok")) })
	r.Get("/ping", func(w http.ResponseWriter, _ *http.Request) { w.Write([]byte("pong")) })
	onboarding.RegisterHTTP(r, onboard)
	activation.RegisterHTTP(r, activate)
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: r}
	go func() {
		log.Infow("productflow-service listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("ListenAndServe", "err", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	fmt.Println("productflow-service stopped")
}
