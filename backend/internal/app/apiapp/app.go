package apiapp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/NetworklyINC/Networkly-Main/backend/internal/config"
	"github.com/NetworklyINC/Networkly-Main/backend/internal/infra/events"
	"github.com/NetworklyINC/Networkly-Main/backend/internal/infra/metrics"
	s3infra "github.com/NetworklyINC/Networkly-Main/backend/internal/infra/s3"
	"github.com/NetworklyINC/Networkly-Main/backend/internal/infra/tracing"
	pgrepo "github.com/NetworklyINC/Networkly-Main/backend/internal/repo/postgres"
	redrepo "github.com/NetworklyINC/Networkly-Main/backend/internal/repo/redis"
	achievementsvc "github.com/NetworklyINC/Networkly-Main/backend/internal/services/achievements"
	analyticsvc "github.com/NetworklyINC/Networkly-Main/backend/internal/services/analytics"
	authsvc "github.com/NetworklyINC/Networkly-Main/backend/internal/services/auth"
	connsvc "github.com/NetworklyINC/Networkly-Main/backend/internal/services/connections"
	extrasvc "github.com/NetworklyINC/Networkly-Main/backend/internal/services/extracurriculars"
	mediasvc "github.com/NetworklyINC/Networkly-Main/backend/internal/services/media"
	messagesvc "github.com/NetworklyINC/Networkly-Main/backend/internal/services/messages"
	profilesvc "github.com/NetworklyINC/Networkly-Main/backend/internal/services/profiles"
	ratesvc "github.com/NetworklyINC/Networkly-Main/backend/internal/services/rate"
	userssvc "github.com/NetworklyINC/Networkly-Main/backend/internal/services/users"
)

const (
	tracerServiceName = "networkly-api"
	accessTokenTTL    = 15 * time.Minute
)

type App struct {
	cfg        config.Config
	logger     *zap.Logger
	server     *http.Server
	postgres   *pgxpool.Pool
	redis      *goredis.Client
	publisher  events.Publisher
	shutdownTP tracing.ShutdownFunc
	httpRouter http.Handler
}

func New(ctx context.Context, cfg config.Config, log *zap.Logger) (*App, error) {
	if log == nil {
		return nil, fmt.Errorf("logger is nil")
	}

	shutdownTP, err := tracing.Init(ctx, tracing.Config{
		Endpoint:    cfg.Tracing.Endpoint,
		Insecure:    cfg.Tracing.Insecure,
		SampleRatio: cfg.Tracing.SampleRatio,
		ServiceName: tracerServiceName,
		Env:         cfg.Env,
	})
	if err != nil {
		log.Warn("tracing init failed, continuing without traces", zap.Error(err))
		shutdownTP = func(context.Context) error { return nil }
	}

	m := metrics.New()
	r := chi.NewRouter()
	ApplyMiddlewares(r, cfg, log, m)

	var pool *pgxpool.Pool
	if p, err := pgrepo.NewPool(ctx, pgrepo.PoolOptions{
		DSN:      cfg.Postgres.DSN,
		MaxConns: cfg.Postgres.MaxConns,
	}); err != nil {
		log.Warn("postgres init failed, continuing in degraded mode", zap.Error(err))
	} else {
		pool = p
	}

	redisClient, err := redrepo.NewClient(redrepo.ClientOptions{
		URL:      cfg.Redis.URL,
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return nil, fmt.Errorf("create redis client: %w", err)
	}

	publisher := newPublisher(cfg.Kafka, log)

	userRepo := pgrepo.NewUserRepo(pool)
	achievementRepo := pgrepo.NewAchievementRepo(pool)
	extracurricularRepo := pgrepo.NewExtracurricularRepo(pool)
	recommendationRepo := pgrepo.NewRecommendationRepo(pool)
	connectionRepo := pgrepo.NewConnectionRepo(pool)
	messageRepo := pgrepo.NewMessageRepo(pool)
	txManager := pgrepo.NewTxManager(pool)
	rateRepo := redrepo.NewRateRepo(redisClient)

	jwtManager := authsvc.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.Issuer, accessTokenTTL)
	rateLimiter := ratesvc.NewLimiter(rateRepo)
	rateLimiter.AttachObserver(m)
	userService := userssvc.NewService(userRepo)
	analyticsService := analyticsvc.NewService(publisher, analyticsvc.Config{MaxBatchSize: 100})
	analyticsService.AttachObserver(m)

	profileService := profilesvc.NewService(profilesvc.Dependencies{
		Users:            userRepo,
		Caller:           userService,
		Connections:      connectionRepo,
		Achievements:     achievementRepo,
		Extracurriculars: extracurricularRepo,
		Recommendations:  recommendationRepo,
		Limiter:          rateLimiter,
		Activity:         analyticsService,
		Views:            m,
		Logger:           log,
	}, profilesvc.Config{
		ViewQuota:   quota(cfg.Limits.ProfileView),
		UpdateQuota: quota(cfg.Limits.ProfileUpdate),
	})

	achievementService := achievementsvc.NewService(achievementRepo, userService, rateLimiter, achievementsvc.Config{
		WriteQuota: quota(cfg.Limits.AchievementWrite),
	}, log)
	achievementService.AttachActivity(analyticsService)

	extracurricularService := extrasvc.NewService(extracurricularRepo, userService, rateLimiter, extrasvc.Config{
		WriteQuota: quota(cfg.Limits.ExtracurricularWrite),
	}, log)
	extracurricularService.AttachActivity(analyticsService)

	connectionService := connsvc.NewService(connsvc.Dependencies{
		Store:    connectionRepo,
		Counters: userRepo,
		Tx:       txManager,
		Users:    userService,
		Limiter:  rateLimiter,
		Activity: analyticsService,
		Logger:   log,
	}, connsvc.Config{
		RequestQuota: quota(cfg.Limits.ConnectionRequest),
	})

	messageService := messagesvc.NewService(messageRepo, userService, rateLimiter, messagesvc.Config{
		SendQuota: quota(cfg.Limits.MessageSend),
	}, log)
	messageService.AttachActivity(analyticsService)

	var mediaService *mediasvc.Service
	if s3Client, err := s3infra.NewClient(s3infra.Config{
		Endpoint:  cfg.S3.Endpoint,
		AccessKey: cfg.S3.AccessKey,
		SecretKey: cfg.S3.SecretKey,
		Region:    cfg.S3.Region,
		UseSSL:    cfg.S3.UseSSL,
	}); err != nil {
		log.Warn("s3 init failed, avatar uploads disabled", zap.Error(err))
	} else {
		storage := mediasvc.NewS3Storage(s3Client, cfg.S3.Bucket, cfg.S3.PublicBaseURL)
		mediaService = mediasvc.NewService(userRepo, userService, storage, rateLimiter, mediasvc.Config{
			UploadQuota: quota(cfg.Limits.AvatarUpload),
		}, log)
		mediaService.AttachActivity(analyticsService)
	}

	RegisterRoutes(r, Dependencies{
		AchievementService:     achievementService,
		AnalyticsService:       analyticsService,
		ConnectionService:      connectionService,
		ExtracurricularService: extracurricularService,
		MediaService:           mediaService,
		MessageService:         messageService,
		ProfileService:         profileService,
		UserService:            userService,
		TokenVerifier:          jwtManager,
		MetricsHandler:         m.Handler(),
		Logger:                 log,
	})

	server := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      otelhttp.NewHandler(r, "http.server"),
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
		publisher:  publisher,
		shutdownTP: shutdownTP,
		httpRouter: r,
	}, nil
}

func newPublisher(cfg config.KafkaConfig, log *zap.Logger) events.Publisher {
	pub, err := events.NewKafkaPublisher(events.KafkaConfig{
		Brokers:      cfg.Brokers,
		Topic:        cfg.Topic,
		BatchTimeout: cfg.BatchTimeout,
		Async:        cfg.Async,
	})
	if err != nil {
		if errors.Is(err, events.ErrNoBrokers) {
			log.Info("kafka brokers not configured, activity events disabled")
		} else {
			log.Warn("kafka publisher init failed, activity events disabled", zap.Error(err))
		}
		return events.NoopPublisher{}
	}
	return pub
}

func quota(q config.QuotaConfig) ratesvc.Quota {
	return ratesvc.Quota{Limit: q.Limit, Window: q.Window}
}

func (a *App) Run() error {
	a.logger.Info("api server started", zap.String("addr", a.cfg.HTTP.Addr))
	err := a.server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (a *App) Shutdown(ctx context.Context) error {
	var shutdownErr error

	if err := a.server.Shutdown(ctx); err != nil {
		shutdownErr = err
	}
	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil && shutdownErr == nil {
			shutdownErr = err
		}
	}
	if a.postgres != nil {
		a.postgres.Close()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil && shutdownErr == nil {
			shutdownErr = err
		}
	}
	if a.shutdownTP != nil {
		if err := a.shutdownTP(ctx); err != nil && shutdownErr == nil {
			shutdownErr = err
		}
	}

	return shutdownErr
}

func (a *App) Handler() http.Handler {
	return a.httpRouter
}
