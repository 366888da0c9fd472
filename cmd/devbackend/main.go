// Command devbackend runs a local stand-in for the CrowdSpark backend and push service.
//
// Everything is kept in memory and lost on exit. Not for production use.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kunall-01/crowdspark-frontend/internal/adapters/httpapi"
	memcampaignrepo "github.com/kunall-01/crowdspark-frontend/internal/adapters/memory/campaignrepo"
	memcontributionrepo "github.com/kunall-01/crowdspark-frontend/internal/adapters/memory/contributionrepo"
	memidempotency "github.com/kunall-01/crowdspark-frontend/internal/adapters/memory/idempotency"
	memimagestore "github.com/kunall-01/crowdspark-frontend/internal/adapters/memory/imagestore"
	memuserrepo "github.com/kunall-01/crowdspark-frontend/internal/adapters/memory/userrepo"
	"github.com/kunall-01/crowdspark-frontend/internal/app/accounts"
	"github.com/kunall-01/crowdspark-frontend/internal/app/fundraising"
	"github.com/kunall-01/crowdspark-frontend/internal/platform/auth/sessiontoken"
	platformclock "github.com/kunall-01/crowdspark-frontend/internal/platform/clock"
	"github.com/kunall-01/crowdspark-frontend/internal/platform/config"
	"github.com/kunall-01/crowdspark-frontend/internal/platform/logging"
)

func main() {
	cfg, err := config.LoadDevBackendFromEnv()
	if err != nil {
		_, _ = os.Stderr.WriteString("invalid config: " + err.Error() + "\n")
		os.Exit(2)
	}
	log, zl := logging.New(cfg.LogLevel)
	defer func() { _ = zl.Sync() }()

	clk := platformclock.NewSystemClock()
	users := memuserrepo.NewRepo()
	acc := accounts.NewService(users, clk)
	fr := fundraising.NewService(
		memcampaignrepo.NewRepo(),
		memcontributionrepo.NewRepo(),
		users,
		memidempotency.NewStore(),
		clk,
		fundraising.Options{PaymentSecret: cfg.PaymentSecret, Currency: cfg.Currency},
	)

	if cfg.SeedAdminEmail != "" {
		admin, err := acc.SeedAdmin(context.Background(), cfg.SeedAdminEmail, cfg.SeedAdminPassword)
		if err != nil {
			log.Error(err, "seed admin failed")
			os.Exit(1)
		}
		log.Info("admin account ready", "email", admin.Email, "id", admin.ID)
	}

	api := httpapi.NewServer(acc, fr, memimagestore.NewStore(), sessiontoken.New(cfg.Session), httpapi.ServerOptions{
		CookieName: cfg.Session.CookieName,
		PublicURL:  cfg.PublicURL,
		Log:        log.WithName("api"),
	})
	handler := httpapi.NewRouter(api, httpapi.RouterOptions{
		AllowedOrigin: cfg.AllowedOrigin,
		PushPath:      cfg.PushPath,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info("dev backend listening", "addr", srv.Addr, "push", cfg.PushPath)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error(err, "listen")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	// Hijacked push connections are not tracked by Shutdown; they end with the process.
	_ = srv.Shutdown(shutdownCtx)
}
