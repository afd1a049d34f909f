package apiapp

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/minio/minio-go/v7"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/rukshanyomal11/CeylonHomes/internal/config"
	"github.com/rukshanyomal11/CeylonHomes/internal/infra/mailer"
	s3infra "github.com/rukshanyomal11/CeylonHomes/internal/infra/s3"
	"github.com/rukshanyomal11/CeylonHomes/internal/jobs/cleanup"
	pgrepo "github.com/rukshanyomal11/CeylonHomes/internal/repo/postgres"
	redrepo "github.com/rukshanyomal11/CeylonHomes/internal/repo/redis"
	adminsvc "github.com/rukshanyomal11/CeylonHomes/internal/services/admin"
	authsvc "github.com/rukshanyomal11/CeylonHomes/internal/services/auth"
	inquirysvc "github.com/rukshanyomal11/CeylonHomes/internal/services/inquiries"
	listingsvc "github.com/rukshanyomal11/CeylonHomes/internal/services/listings"
	mediasvc "github.com/rukshanyomal11/CeylonHomes/internal/services/media"
	ratesvc "github.com/rukshanyomal11/CeylonHomes/internal/services/rate"
	reportsvc "github.com/rukshanyomal11/CeylonHomes/internal/services/reports"
	sellersvc "github.com/rukshanyomal11/CeylonHomes/internal/services/sellers"
)

// Auth endpoints share one attempt budget per subject.
const (
	authAttemptsPerMinute = 5
	authAttemptsPerHour   = 30
)

type App struct {
	cfg        config.Config
	logger     *zap.Logger
	server     *http.Server
	postgres   *pgxpool.Pool
	redis      *goredis.Client
	s3         *minio.Client
	cleanupJob *cleanup.Job
	jobCancel  context.CancelFunc
	httpRouter http.Handler
}

func New(ctx context.Context, cfg config.Config, log *zap.Logger) (*App, error) {
	if log == nil {
		return nil, fmt.Errorf("logger is nil")
	}

	r := chi.NewRouter()
	ApplyMiddlewares(r, log)

	pool, err := pgrepo.NewPool(ctx, cfg.Postgres.DSN)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	redisClient, err := redrepo.NewClient(ctx, cfg.Redis)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("connect redis: %w", err)
	}

	var s3Client *minio.Client
	if c, err := s3infra.NewClient(cfg.S3); err != nil {
		log.Warn("s3 init failed, photo uploads will be unavailable", zap.Error(err))
	} else {
		s3Client = c
	}

	userRepo := pgrepo.NewUserRepo(pool)
	listingRepo := pgrepo.NewListingRepo(pool)
	photoRepo := pgrepo.NewPhotoRepo(pool)
	approvalRepo := pgrepo.NewApprovalRepo(pool)
	reportRepo := pgrepo.NewReportRepo(pool)
	inquiryRepo := pgrepo.NewInquiryRepo(pool)
	moderationRepo := pgrepo.NewModerationRepo(pool, listingRepo, approvalRepo)
	sessionRepo := redrepo.NewSessionRepo(redisClient)
	rateRepo := redrepo.NewRateRepo(redisClient)
	resetCodeRepo := redrepo.NewResetCodeRepo(redisClient, cfg.Auth.ResetCodeTTL)

	jwtManager := authsvc.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTAccessTTL)
	smtpMailer := mailer.NewSMTP(cfg.Mail)
	authService := authsvc.NewService(jwtManager, sessionRepo, userRepo, resetCodeRepo, smtpMailer, cfg.Auth.RefreshTTL)
	rateLimiter := ratesvc.NewLimiter(rateRepo, authAttemptsPerMinute, authAttemptsPerHour)

	mediaStorage := mediasvc.NewS3Storage(s3Client, cfg.S3.Bucket)
	mediaService := mediasvc.NewService(photoRepo, mediaStorage, cfg.Listings.MaxPhotos)

	listingService := listingsvc.NewService(listingRepo, mediaService, cfg.Listings.PublicPageSize, cfg.Listings.MaxPageSize)
	sellerService := sellersvc.NewService(listingRepo, mediaService, inquiryRepo, cfg.Listings.AdminPageSize, cfg.Listings.MaxPageSize)
	sellerService.AttachModerationAlerts(smtpMailer, cfg.Admin.Email, log)
	adminService := adminsvc.NewService(listingRepo, moderationRepo, approvalRepo, reportRepo, mediaService, cfg.Listings.AdminPageSize, cfg.Listings.MaxPageSize)
	reportService := reportsvc.NewService(reportRepo, listingRepo)
	inquiryService := inquirysvc.NewService(inquiryRepo, listingRepo)

	if err := authService.EnsureAdmin(ctx, cfg.Admin.Name, cfg.Admin.Email, cfg.Admin.Phone, cfg.Admin.Password); err != nil {
		log.Warn("admin account seeding failed", zap.Error(err))
	}

	RegisterRoutes(r, Dependencies{
		AuthService:    authService,
		RateLimiter:    rateLimiter,
		ListingService: listingService,
		SellerService:  sellerService,
		AdminService:   adminService,
		ReportService:  reportService,
		InquiryService: inquiryService,
		Logger:         log,
		Config:         cfg,
	})

	server := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      r,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	return &App{
		cfg:        cfg,
		logger:     log,
		server:     server,
		postgres:   pool,
		redis:      redisClient,
		s3:         s3Client,
		cleanupJob: cleanup.New(listingRepo, cfg.Jobs.ClosedRetention, log),
		httpRouter: r,
	}, nil
}

func (a *App) Run() error {
	jobCtx, cancel := context.WithCancel(context.Background())
	a.jobCancel = cancel
	go a.cleanupJob.Start(jobCtx, a.cfg.Jobs.CleanupInterval)

	a.logger.Info("api server started", zap.String("addr", a.cfg.HTTP.Addr))
	err := a.server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (a *App) Shutdown(ctx context.Context) error {
	var shutdownErr error

	if a.jobCancel != nil {
		a.jobCancel()
	}
	if err := a.server.Shutdown(ctx); err != nil {
		shutdownErr = err
	}
	if a.postgres != nil {
		a.postgres.Close()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil && shutdownErr == nil {
			shutdownErr = err
		}
	}

	return shutdownErr
}

func (a *App) Handler() http.Handler {
	return a.httpRouter
}
