package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"CivicReport/internal/config"
	"CivicReport/internal/handler"
	"CivicReport/internal/model"
	"CivicReport/internal/pkg"
	"CivicReport/internal/repository/mysql"
	"CivicReport/internal/repository/redis"
	"CivicReport/internal/router"
	"CivicReport/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	pkg.InitJWT(cfg.AccessSecret, cfg.RefreshSecret)

	db, err := mysql.Open(cfg.MySQLDSN)
	if err != nil {
		panic(err)
	}

	// 连接redis
	rdb, err := redis.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		panic(err)
	}

	// 自动建表（开发阶段 OK）
	db.AutoMigrate(
		&model.User{},
		&model.Community{},
		&model.Membership{},
		&model.Report{},
		&model.DeviceToken{},
		&model.NotificationRecord{},
		&model.NotificationBatchLog{},
		&model.ModerationOutbox{},
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 推送通道：有 FCM 凭证走 FCM，否则日志降级
	var push pkg.PushSender = pkg.LogPushSender{}
	if cfg.FCMCredentialsFile != "" {
		sender, err := pkg.NewFCMSender(ctx, cfg.FCMCredentialsFile)
		if err != nil {
			panic(err)
		}
		push = sender
	}

	// kafka 镜像可选，不配置 broker 则关闭
	var mirror *pkg.KafkaProducer
	if len(cfg.KafkaBrokers) > 0 {
		mirror, err = pkg.NewKafkaProducer(pkg.KafkaConfig{
			Brokers: cfg.KafkaBrokers,
			Topic:   cfg.KafkaTopic,
		})
		if err != nil {
			panic(err)
		}
		defer mirror.Close()
	}

	sessions := &redis.SessionRepository{Client: rdb}
	tokenRepo := &mysql.DeviceTokenRepository{DB: db}
	notifRepo := &mysql.NotificationRepository{DB: db}

	communitySvc := service.NewCommunityService(db)
	moderationSvc := service.NewModerationService(db, communitySvc)
	reportSvc := service.NewReportService(db, communitySvc)
	deviceSvc := service.NewDeviceService(db)
	cascadeSvc := service.NewCascadeService(db, communitySvc)
	userSvc := service.NewUserService(db, sessions, cascadeSvc)

	fanout := service.NewFanoutService(tokenRepo, notifRepo, push, cfg.PushTimeout)
	relayer := service.NewOutboxRelayer(db, fanout, mirror, cfg.OutboxBatch, cfg.OutboxTick)
	go relayer.Run(ctx)

	r := router.InitRouter(router.Handlers{
		User:      handler.NewUserHandler(userSvc),
		Community: handler.NewCommunityHandler(communitySvc, moderationSvc, cascadeSvc),
		Report:    handler.NewReportHandler(reportSvc),
		Device:    handler.NewDeviceHandler(deviceSvc, notifRepo),
		Sessions:  sessions,
	})
	if err := r.Run(cfg.HTTPAddr); err != nil {
		log.Fatal(err)
	}
}
