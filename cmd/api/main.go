package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"bizhood/internal/config"
	"bizhood/internal/handler"
	"bizhood/internal/pkg"
	"bizhood/internal/repository/mysql"
	"bizhood/internal/repository/redis"
	"bizhood/internal/router"
	"bizhood/internal/service"
)

func main() {
	configPath := flag.String("config", "", "path to config yaml")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("load config", "err", err)
		os.Exit(1)
	}
	pkg.SetupLogging(cfg.Log.Level)

	db, err := mysql.InitDB(cfg.Database.DSN, cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns)
	if err != nil {
		slog.Error("connect mysql", "err", err)
		os.Exit(1)
	}
	// 自动建表（开发阶段 OK）
	if err := mysql.AutoMigrate(db); err != nil {
		slog.Error("migrate", "err", err)
		os.Exit(1)
	}

	rdb, err := redis.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		slog.Error("connect redis", "err", err)
		os.Exit(1)
	}
	defer rdb.Close()

	issuer := pkg.NewIssuer(cfg.JWT.AccessSecret, cfg.JWT.RefreshSecret, cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL)
	sessions := redis.NewSessionRepository(rdb, issuer.AccessTTL())

	userRepo := &mysql.UserRepository{DB: db}
	communityRepo := &mysql.CommunityRepository{DB: db}
	businessRepo := &mysql.BusinessRepository{DB: db}
	postRepo := &mysql.PostRepository{DB: db}
	outboxRepo := &mysql.OutboxRepository{DB: db}

	userSvc := service.NewUserService(userRepo, communityRepo, issuer, sessions)
	communitySvc := service.NewCommunityService(communityRepo, userRepo)
	businessSvc := service.NewBusinessService(businessRepo, communityRepo, userRepo)
	discoverySvc := service.NewDiscoveryService(businessRepo, communityRepo)
	postSvc := service.NewPostService(postRepo, communityRepo)

	// 认证事件投递：配了 broker 走 Kafka，否则降级打日志
	sender := service.LogSender
	if len(cfg.Kafka.Brokers) > 0 {
		publisher := pkg.NewVerifyPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		defer publisher.Close()
		sender = service.KafkaSender(publisher)
	}
	relay := service.NewVerifyRelay(outboxRepo, sender)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go relay.Run(ctx)

	r := router.InitRouter(router.Handlers{
		User:      handler.NewUserHandler(userSvc),
		Community: handler.NewCommunityHandler(communitySvc),
		Business:  handler.NewBusinessHandler(businessSvc, discoverySvc),
		Post:      handler.NewPostHandler(postSvc),
	}, issuer, sessions)

	slog.Info("listening", "addr", cfg.Server.Addr)
	if err := r.Run(cfg.Server.Addr); err != nil {
		slog.Error("server exited", "err", err)
		os.Exit(1)
	}
}
