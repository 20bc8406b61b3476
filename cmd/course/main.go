package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Miraines/MoonyAndStarry/course-service/internal/adapters/db/postgres"
	redisrepo "github.com/Miraines/MoonyAndStarry/course-service/internal/adapters/db/redis"
	"github.com/Miraines/MoonyAndStarry/course-service/internal/adapters/events/kafka"
	httptransport "github.com/Miraines/MoonyAndStarry/course-service/internal/adapters/transport/http"
	"github.com/Miraines/MoonyAndStarry/course-service/internal/app/auth/jwt"
	"github.com/Miraines/MoonyAndStarry/course-service/internal/app/auth/service"
	"github.com/Miraines/MoonyAndStarry/course-service/internal/domain/auth/events"
	"github.com/Miraines/MoonyAndStarry/course-service/internal/infra/config"
	lg "github.com/Miraines/MoonyAndStarry/course-service/internal/infra/log"
	"github.com/Miraines/MoonyAndStarry/course-service/internal/infra/migrate"
	"github.com/Miraines/MoonyAndStarry/course-service/internal/infra/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	zapLog := lg.Must(cfg.LogLevel, cfg.IsProduction())
	defer zapLog.Sync()

	if err := run(cfg, zapLog); err != nil {
		zapLog.Error("server terminated", zap.Error(err))
		_ = zapLog.Sync()
		os.Exit(1)
	}
}

func run(cfg *config.Config, zapLog *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := postgres.Open(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	if err := migrate.Up(sqlDB); err != nil {
		return err
	}
	zapLog.Info("migrations applied")

	rdb, err := redisrepo.Connect(ctx, cfg.RedisURL)
	if err != nil {
		return err
	}
	defer rdb.Close()

	var publisher events.Publisher = events.Nop{}
	if len(cfg.KafkaBrokers) > 0 {
		kp := kafka.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer kp.Close()
		publisher = kp
		zapLog.Info("audit events enabled", zap.Strings("brokers", cfg.KafkaBrokers), zap.String("topic", cfg.KafkaTopic))
	}

	userRepo := postgres.NewPostgresUserRepo(db)
	tokenRepo := redisrepo.NewRedisTokenRepo(rdb)

	jwtUtil, err := jwt.NewJWTUtil(cfg)
	if err != nil {
		return err
	}

	svc, err := service.New(userRepo, tokenRepo, jwtUtil, cfg, validator.New(), publisher, zapLog)
	if err != nil {
		return err
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	handler := httptransport.NewHandler(svc, cfg, zapLog, map[string]httptransport.Pinger{
		"postgres": userRepo,
		"redis":    tokenRepo,
	})
	router := httptransport.NewRouter(handler, cfg, zapLog, reg)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.StartHTTPServer(gctx, cfg.HTTPAddress, router, zapLog)
	})
	g.Go(func() error {
		<-gctx.Done()
		zapLog.Info("shutdown signal received")
		return nil
	})

	return g.Wait()
}
