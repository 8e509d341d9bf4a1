package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/favicon"
	fiberrecover "github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/do/v2"
	"github.com/solstream-labs/creator-gateway/internal/config"
	"github.com/solstream-labs/creator-gateway/internal/postgres"
	"github.com/solstream-labs/creator-gateway/modules/registry/api/httphandler"
	"github.com/solstream-labs/creator-gateway/modules/registry/records"
	"github.com/solstream-labs/creator-gateway/modules/registry/repository/chain"
	registrypostgres "github.com/solstream-labs/creator-gateway/modules/registry/repository/postgres"
	"github.com/solstream-labs/creator-gateway/modules/registry/session"
	"github.com/solstream-labs/creator-gateway/modules/registry/usecase"
	"github.com/solstream-labs/creator-gateway/pkg/automaxprocs"
	"github.com/solstream-labs/creator-gateway/pkg/cryptoutil"
	"github.com/solstream-labs/creator-gateway/pkg/ipfs"
	"github.com/solstream-labs/creator-gateway/pkg/logger"
	"github.com/solstream-labs/creator-gateway/pkg/logger/slogx"
	"github.com/solstream-labs/creator-gateway/pkg/middleware/errorhandler"
	"github.com/solstream-labs/creator-gateway/pkg/middleware/requestcontext"
	"github.com/solstream-labs/creator-gateway/pkg/middleware/requestlogger"
	"github.com/solstream-labs/creator-gateway/pkg/solana"
	"github.com/spf13/cobra"
)

func NewRunCommand() *cobra.Command {
	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Start creator-gateway service",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := automaxprocs.Init(); err != nil {
				logger.Error("Failed to set GOMAXPROCS", slogx.Error(err))
			}
			return runHandler(cmd, args)
		},
	}

	// Add local flags
	flags := runCmd.Flags()
	flags.Int("port", 8080, "Port to bind the HTTP server to")

	// Bind flags to configuration
	config.BindPFlag("http_server.port", flags.Lookup("port"))

	return runCmd
}

const shutdownTimeout = 60 * time.Second

func runHandler(cmd *cobra.Command, _ []string) error {
	conf := config.Load()

	// Initialize application process context
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	adminWallets := make([]records.Pubkey, 0, len(conf.AdminWallets))
	for _, raw := range conf.AdminWallets {
		wallet, err := records.ParsePubkey(raw)
		if err != nil {
			return errors.Wrapf(err, "invalid admin wallet %q", raw)
		}
		adminWallets = append(adminWallets, wallet)
	}

	pool, err := postgres.NewPool(ctx, conf.Claims.Postgres)
	if err != nil {
		return errors.Wrap(err, "can't create Postgres connection pool")
	}
	defer pool.Close()

	injector := do.New()
	do.ProvideValue(injector, conf)
	do.ProvideValue(injector, ctx)
	do.ProvideValue(injector, pool)

	// Initialize Solana RPC client
	do.Provide(injector, func(i do.Injector) (*solana.Client, error) {
		conf := do.MustInvoke[config.Config](i)

		client, err := solana.New(conf.Solana)
		if err != nil {
			return nil, errors.Wrap(err, "invalid Solana RPC configuration")
		}
		return client, nil
	})

	// Initialize on-chain account repository
	do.Provide(injector, func(i do.Injector) (*chain.Repository, error) {
		conf := do.MustInvoke[config.Config](i)
		client := do.MustInvoke[*solana.Client](i)

		repo, err := chain.NewRepository(client, conf.Programs)
		if err != nil {
			return nil, errors.Wrap(err, "invalid program configuration")
		}
		return repo, nil
	})

	// Initialize content storage gateway
	do.Provide(injector, func(i do.Injector) (*ipfs.Gateway, error) {
		conf := do.MustInvoke[config.Config](i)

		gateway, err := ipfs.NewGateway(conf.Storage)
		if err != nil {
			return nil, errors.Wrap(err, "invalid storage gateway configuration")
		}
		return gateway, nil
	})

	// Initialize claim ledger repository
	do.Provide(injector, func(i do.Injector) (*registrypostgres.Repository, error) {
		pool := do.MustInvoke[*pgxpool.Pool](i)
		return registrypostgres.NewRepository(pool), nil
	})

	// Initialize content key ring
	do.Provide(injector, func(i do.Injector) (*cryptoutil.Keyring, error) {
		conf := do.MustInvoke[config.Config](i)

		keyring, err := cryptoutil.NewKeyring(conf.Content.MasterKey)
		if err != nil {
			return nil, errors.Wrap(err, "invalid content master key")
		}
		return keyring, nil
	})

	// Initialize session verifier
	do.Provide(injector, func(i do.Injector) (*session.Verifier, error) {
		conf := do.MustInvoke[config.Config](i)
		return session.NewVerifier(conf.Session), nil
	})

	// Initialize registry usecase
	do.Provide(injector, func(i do.Injector) (*usecase.Usecase, error) {
		chainRepo := do.MustInvoke[*chain.Repository](i)
		claimsRepo := do.MustInvoke[*registrypostgres.Repository](i)
		storage := do.MustInvoke[*ipfs.Gateway](i)
		keyring := do.MustInvoke[*cryptoutil.Keyring](i)
		verifier := do.MustInvoke[*session.Verifier](i)

		return usecase.New(chainRepo, chainRepo, claimsRepo, storage, verifier, keyring, adminWallets), nil
	})

	// Initialize HTTP server
	do.Provide(injector, func(i do.Injector) (*fiber.App, error) {
		app := fiber.New(fiber.Config{
			AppName: "Creator Gateway",
		})
		app.
			Use(favicon.New()).
			Use(cors.New()).
			Use(requestid.New()).
			Use(requestcontext.New(
				requestcontext.WithRequestId(),
				requestcontext.WithClientIP(conf.HTTPServer.RequestIP),
			)).
			Use(requestlogger.New(conf.HTTPServer.Logger)).
			Use(errorhandler.New()).
			Use(fiberrecover.New(fiberrecover.Config{
				EnableStackTrace: true,
				StackTraceHandler: func(c *fiber.Ctx, e interface{}) {
					buf := make([]byte, 1024) // bufLen = 1024
					buf = buf[:runtime.Stack(buf, false)]
					logger.ErrorContext(c.UserContext(), "Something went wrong, panic in http handler", slogx.Any("panic", e), slog.String("stacktrace", string(buf)))
				},
			})).
			Use(compress.New(compress.Config{
				Level: compress.LevelDefault,
			}))

		// Health check
		app.Get("/", func(c *fiber.Ctx) error {
			return errors.WithStack(c.SendStatus(http.StatusOK))
		})

		handler := httphandler.New(do.MustInvoke[*usecase.Usecase](i))
		if err := handler.Mount(app); err != nil {
			return nil, errors.Wrap(err, "can't mount registry HTTP handler")
		}

		return app, nil
	})

	// Run API server
	httpServer := do.MustInvoke[*fiber.App](injector)
	go func() {
		// stop main process if API stopped
		defer stop()

		logger.InfoContext(ctx, "Started HTTP server", slog.Int("port", conf.HTTPServer.Port))
		if err := httpServer.Listen(fmt.Sprintf(":%d", conf.HTTPServer.Port)); err != nil {
			logger.PanicContext(ctx, "Something went wrong, error during running HTTP server", slogx.Error(err))
		}
	}()

	logger.InfoContext(ctx, "Creator Gateway started",
		slogx.Int("admins", len(adminWallets)),
		slogx.String("rpc", conf.Solana.URL))

	// Wait for interrupt signal to gracefully stop the server
	<-ctx.Done()

	// Force shutdown if timeout exceeded or got signal again
	go func() {
		defer os.Exit(1)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		select {
		case <-ctx.Done():
			logger.FatalContext(ctx, "Received exit signal again. Force shutdown...")
		case <-time.After(shutdownTimeout + 15*time.Second):
			logger.FatalContext(ctx, "Shutdown timeout exceeded. Force shutdown...")
		}
	}()

	if err := injector.Shutdown(); err != nil {
		logger.PanicContext(ctx, "Failed while gracefully shutting down", slogx.Error(err))
	}

	return nil
}
