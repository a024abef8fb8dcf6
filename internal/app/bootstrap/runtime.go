package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"google.golang.org/grpc"

	"github.com/KOSASIH/nexus-revoluter/internal/adapters/assets"
	"github.com/KOSASIH/nexus-revoluter/internal/adapters/cache"
	eventadapter "github.com/KOSASIH/nexus-revoluter/internal/adapters/events"
	grpcadapter "github.com/KOSASIH/nexus-revoluter/internal/adapters/grpc"
	httpadapter "github.com/KOSASIH/nexus-revoluter/internal/adapters/http"
	"github.com/KOSASIH/nexus-revoluter/internal/adapters/memory"
	"github.com/KOSASIH/nexus-revoluter/internal/adapters/postgres"
	"github.com/KOSASIH/nexus-revoluter/internal/adapters/security"
	"github.com/KOSASIH/nexus-revoluter/internal/application"
	"github.com/KOSASIH/nexus-revoluter/internal/domain"
	"github.com/KOSASIH/nexus-revoluter/internal/ports"
)

type Runtime struct {
	cfg        Config
	logger     *slog.Logger
	httpServer *http.Server
	grpcServer *grpc.Server
	grpcLis    net.Listener
	outbox     *eventadapter.OutboxWorker
	cleanupFn  func(context.Context)
}

func NewRuntime(ctx context.Context, configPath string) (*Runtime, error) {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	var closers []io.Closer

	var (
		locks     ports.LockRepository
		stakes    ports.StakeRepository
		proposals ports.ProposalRepository
		nfts      ports.NFTRepository
		roles     ports.RoleRepository
		settings  ports.SettingsRepository
		outboxRep ports.OutboxRepository
	)
	if cfg.DatabaseURL != "" {
		db, err := postgres.Connect(ctx, cfg.DatabaseURL, cfg.MaxDBConns)
		if err != nil {
			return nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		if err := postgres.RunMigrations(ctx, db); err != nil {
			_ = sqlDB.Close()
			return nil, err
		}
		repos := postgres.NewRepositories(db)
		locks, stakes, proposals = repos.Locks, repos.Stakes, repos.Proposals
		nfts, roles, settings, outboxRep = repos.NFTs, repos.Roles, repos.Settings, repos.Outbox
		closers = append(closers, sqlDB)
	} else {
		logger.InfoContext(ctx, "no database configured, using in-memory repositories")
		repos := memory.NewRepositories()
		locks, stakes, proposals = repos.Locks, repos.Stakes, repos.Proposals
		nfts, roles, settings, outboxRep = repos.NFTs, repos.Roles, repos.Settings, repos.Outbox
	}

	var kyc ports.KYCVerifier = grpcadapter.PermissiveKYC{}
	if cfg.KYCOracleAddr != "" {
		oracle, err := grpcadapter.NewKYCOracleClient(cfg.KYCOracleAddr)
		if err != nil {
			cleanup(closers)
			return nil, err
		}
		closers = append(closers, oracle)
		kyc = oracle
	}
	if cfg.RedisURL != "" {
		redisClient, err := cache.Connect(ctx, cfg.RedisURL)
		if err != nil {
			cleanup(closers)
			return nil, err
		}
		closers = append(closers, redisClient)
		kyc = cache.NewRedisKYCStore(redisClient, kyc, cfg.KYCCacheTTL)
	}

	var (
		domainPub    ports.DomainPublisher
		analyticsPub ports.AnalyticsPublisher
		dlqPub       ports.DLQPublisher
	)
	memPublisher := eventadapter.NewMemoryPublisher()
	domainPub, analyticsPub = memPublisher, memPublisher
	dlqPub = eventadapter.NewLoggingDLQPublisher(logger)
	if len(cfg.KafkaBrokers) > 0 {
		kafkaPublisher, pubErr := eventadapter.NewKafkaPublisher(cfg.KafkaBrokers, cfg.AnalyticsTopic, cfg.DLQTopic, nil)
		if pubErr != nil {
			logger.WarnContext(ctx, "kafka publisher disabled, using memory publisher", "error", pubErr)
		} else {
			domainPub, analyticsPub, dlqPub = kafkaPublisher, kafkaPublisher, kafkaPublisher
			closers = append(closers, kafkaPublisher)
		}
	}

	service := application.NewService(application.Dependencies{
		Config: application.Config{
			ServiceName:          cfg.ServiceName,
			CustodyAccount:       cfg.CustodyAccount,
			OutboxFlushBatchSize: cfg.OutboxBatchSize,
			DLQTopic:             cfg.DLQTopic,
		},
		Locks:        locks,
		Stakes:       stakes,
		Proposals:    proposals,
		NFTs:         nfts,
		Roles:        roles,
		Settings:     settings,
		Outbox:       outboxRep,
		NFTCustody:   assets.NewCollection(nfts),
		Tokens:       assets.NewTokenLedger(cfg.CustodyAccount),
		Native:       assets.NewNativeVault(),
		KYC:          kyc,
		DomainEvents: domainPub,
		Analytics:    analyticsPub,
		DLQ:          dlqPub,
	})

	if err := seedRoles(ctx, roles, cfg.AdminAccount); err != nil {
		cleanup(closers)
		return nil, err
	}

	var verifier ports.TokenVerifier
	if cfg.DevAuthMode {
		logger.WarnContext(ctx, "dev auth mode enabled, bearer tokens are trusted verbatim")
		verifier = security.StaticVerifier{}
	} else {
		jwtVerifier, err := security.NewJWTVerifier(cfg.JWTSecret)
		if err != nil {
			cleanup(closers)
			return nil, err
		}
		verifier = jwtVerifier
	}

	handler := httpadapter.NewHandler(service, verifier)
	router := httpadapter.NewRouter(handler)
	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	grpcServer := grpc.NewServer()
	grpcadapter.Register(grpcServer, grpcadapter.NewHealthServer(service))
	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.GRPCPort))
	if err != nil {
		cleanup(closers)
		return nil, err
	}

	outboxWorker := eventadapter.NewOutboxWorker(logger, service, cfg.OutboxPollInterval)

	return &Runtime{
		cfg:        cfg,
		logger:     logger,
		httpServer: httpServer,
		grpcServer: grpcServer,
		grpcLis:    lis,
		outbox:     outboxWorker,
		cleanupFn: func(context.Context) {
			cleanup(closers)
		},
	}, nil
}

func cleanup(closers []io.Closer) {
	for _, closer := range closers {
		_ = closer.Close()
	}
}

// seedRoles grants the bootstrap admin every administrative role so a
// fresh deployment is operable before governance takes over grants.
func seedRoles(ctx context.Context, roles ports.RoleRepository, adminAccount string) error {
	if adminAccount == "" {
		return nil
	}
	for _, role := range []domain.Role{domain.RoleDefaultAdmin, domain.RoleAdmin, domain.RoleApprover, domain.RoleMinter, domain.RoleUpgrader} {
		if err := roles.Grant(ctx, adminAccount, role); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runtime) RunAPI(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	errCh := make(chan error, 3)

	go func() {
		if err := r.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	go func() {
		if err := r.grpcServer.Serve(r.grpcLis); err != nil {
			errCh <- err
		}
	}()
	go func() {
		if err := r.outbox.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		r.logger.ErrorContext(ctx, "runtime failure", "error", err)
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = r.httpServer.Shutdown(shutdownCtx)
	r.grpcServer.GracefulStop()
	r.cleanupFn(shutdownCtx)
	return nil
}
