package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/etag"
	"github.com/rs/zerolog/log"

	"kostku_backend/internals/configs"
	database "kostku_backend/internals/databases"
	billService "kostku_backend/internals/features/billing/bills/service"
	"kostku_backend/internals/features/billing/engine"
	"kostku_backend/internals/features/billing/events"
	"kostku_backend/internals/features/billing/reminders"
	paymentService "kostku_backend/internals/features/payments/midtrans/service"
	scheduler "kostku_backend/internals/features/users/auth/scheduler"
	helper "kostku_backend/internals/helpers"
	middlewares "kostku_backend/internals/middlewares"
	authMiddleware "kostku_backend/internals/middlewares/auth"
	"kostku_backend/internals/middlewares/logger"
	routes "kostku_backend/internals/route"
)

func main() {
	configs.LoadEnv()
	configs.SetupLogger(configs.LogLevel)

	app := fiber.New(fiber.Config{
		JSONEncoder:             sonic.Marshal,
		JSONDecoder:             sonic.Unmarshal,
		DisableStartupMessage:   true,
		ProxyHeader:             fiber.HeaderXForwardedFor,
		EnableTrustedProxyCheck: true,
		TrustedProxies:          configs.TrustedProxies,
		ErrorHandler:            helper.JsonFromFiberError,
	})

	app.Use(middlewares.RecoveryMiddleware())
	app.Use(logger.LoggerMiddleware())
	app.Use(middlewares.MetricsMiddleware())
	app.Use(compress.New(compress.Config{Level: compress.LevelDefault}))
	app.Use(etag.New())
	app.Use(middlewares.CorsMiddleware(configs.CORSOrigins))
	app.Use(middlewares.GlobalRateLimiter())

	// 🔌 DB connect + pool + warm-up + migrasi
	database.ConnectDB()
	database.TunePool()
	database.WarmUpQueries()

	migrateCtx, cancelMigrate := context.WithTimeout(context.Background(), time.Minute)
	if err := database.MigrateUp(migrateCtx, database.DB); err != nil {
		cancelMigrate()
		log.Fatal().Err(err).Msg("❌ migrasi gagal")
	}
	cancelMigrate()

	// 📣 event bus (opsional)
	opts := []billService.Option{
		billService.WithProrationMode(engine.ParseProrationMode(configs.ProrationMode)),
	}
	publisher, natsConn, err := events.Connect(configs.NATSURL)
	if err != nil {
		log.Warn().Err(err).Msg("NATS tidak tersedia, event tagihan dimatikan")
	} else if publisher != nil {
		opts = append(opts, billService.WithPublisher(publisher))
	}

	bills := billService.NewService(billService.NewGormStore(database.DB), opts...)

	// ✅ MIDTRANS (nonaktif kalau server key kosong)
	var snapClient paymentService.SnapCreator
	if configs.MidtransServerKey != "" {
		snapClient = paymentService.NewSnapClient(configs.MidtransServerKey, configs.MidtransUseProd)
	}
	payments := paymentService.NewPaymentService(database.DB, bills, snapClient, configs.MidtransServerKey)

	// ⏰ pengingat tagihan
	tpl, err := reminders.LoadTemplates(configs.ReminderTemplate)
	if err != nil {
		log.Fatal().Err(err).Msg("❌ template pengingat tidak valid")
	}
	var senders []reminders.Sender
	if configs.TelegramBotToken != "" {
		tg, err := reminders.NewTelegramSender(configs.TelegramBotToken)
		if err != nil {
			log.Warn().Err(err).Msg("Telegram sender nonaktif")
		} else {
			senders = append(senders, tg)
		}
	}
	if configs.SendgridAPIKey != "" {
		senders = append(senders, reminders.NewSendgridSender(configs.SendgridAPIKey, configs.SendgridFrom))
	}
	job := reminders.NewJob(database.DB, tpl, senders...)

	cr, err := job.Start(configs.ReminderCron)
	if err != nil {
		log.Fatal().Err(err).Msg("❌ jadwal pengingat tidak valid")
	}
	if err := scheduler.StartBlacklistCleanupScheduler(cr, database.DB, configs.TokenBlacklistTTLDays); err != nil {
		log.Error().Err(err).Msg("cleanup blacklist tidak terjadwal")
	}

	enforcer, err := authMiddleware.NewEnforcer()
	if err != nil {
		log.Fatal().Err(err).Msg("❌ RBAC gagal dimuat")
	}

	// ✅ Routes
	routes.SetupRoutes(app, routes.Deps{
		DB:        database.DB,
		Bills:     bills,
		Payments:  payments,
		Templates: tpl,
		Reminders: job,
		Enforcer:  enforcer,
	})

	// 🔒 Keep-Alive & timeout koneksi server
	app.Server().ReadTimeout = 15 * time.Second
	app.Server().WriteTimeout = 30 * time.Second
	app.Server().IdleTimeout = 90 * time.Second

	go func() {
		log.Info().Str("port", configs.Port).Msg("✅ Listening")
		if err := app.Listen("0.0.0.0:" + configs.Port); err != nil {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// graceful shutdown: cron -> http -> nats -> pool DB
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down...")

	<-cr.Stop().Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = app.ShutdownWithContext(ctx)

	if natsConn != nil {
		_ = natsConn.Drain()
	}
	if sqlDB, err := database.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
