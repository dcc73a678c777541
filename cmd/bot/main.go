package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/todofuken-quiz-bot/internal/auth"
	"github.com/aliskhannn/todofuken-quiz-bot/internal/config"
	httpapi "github.com/aliskhannn/todofuken-quiz-bot/internal/delivery/http"
	"github.com/aliskhannn/todofuken-quiz-bot/internal/delivery/telegram"
	"github.com/aliskhannn/todofuken-quiz-bot/internal/infra/postgres"
	pgrepo "github.com/aliskhannn/todofuken-quiz-bot/internal/infra/postgres/repository"
	"github.com/aliskhannn/todofuken-quiz-bot/internal/logger"
	"github.com/aliskhannn/todofuken-quiz-bot/internal/quiz"
	"github.com/aliskhannn/todofuken-quiz-bot/internal/repository"
	"github.com/aliskhannn/todofuken-quiz-bot/internal/service"
	"github.com/aliskhannn/todofuken-quiz-bot/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	lg, err := logger.New(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = lg.Sync() }()

	bot, err := tgbotapi.NewBotAPI(cfg.TelegramAPIToken)
	if err != nil {
		lg.Fatal("failed to create bot", zap.Error(err))
	}

	// Set commands.
	commands := []tgbotapi.BotCommand{
		{Command: "start", Description: "はじめる"},
		{Command: "quiz", Description: "クイズ（/quiz mc_map, mc_capital, text_input）"},
		{Command: "study", Description: "場所を覚える（/study 27, /study 1 sub）"},
		{Command: "reset", Description: "クイズと学習をリセット"},
		{Command: "stats", Description: "苦手な都道府県"},
		{Command: "history", Description: "最近の結果"},
		{Command: "map", Description: "ブラウザの地図で答える"},
		{Command: "help", Description: "使い方"},
	}

	if _, err := bot.Request(tgbotapi.NewSetMyCommands(commands...)); err != nil {
		lg.Warn("failed to set bot commands", zap.Error(err))
	}

	bot.Debug = cfg.Env != "production"
	lg.Info("authorized", zap.String("account", bot.Self.UserName))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Reference data.
	prefectureRepo, err := repository.NewPrefectureRepository()
	if err != nil {
		lg.Fatal("failed to load prefectures", zap.Error(err))
	}
	regionRepo := repository.NewRegionRepository(cfg.GeoJSONDir)

	// Result history.
	dsn, err := cfg.DB.DSN()
	if err != nil {
		lg.Fatal("database is not configured", zap.Error(err))
	}
	pool, err := postgres.NewPool(ctx, dsn, postgres.PoolConfig{
		MaxConns:        int32(cfg.DB.MaxConnections),
		MaxConnLifetime: cfg.DB.MaxConnLifetime,
	})
	if err != nil {
		lg.Fatal("failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	resultRepo := pgrepo.NewResultRepository(pool, postgres.NewTransactor(pool))

	// In-memory sessions.
	quizSessions := storage.NewSessionStore[*quiz.Session]()
	studySessions := storage.NewSessionStore[*service.StudySession]()
	messageStorage := storage.NewMessageStorage()

	quizService := service.NewQuizService(
		prefectureRepo,
		regionRepo,
		resultRepo,
		quizSessions,
		service.QuizConfig{
			QuestionCount: cfg.Quiz.QuestionCount,
			DefaultMode:   cfg.Quiz.DefaultMode,
		},
		lg,
	)
	studyService := service.NewStudyService(prefectureRepo, regionRepo, studySessions, nil, lg)

	sweeper := service.NewSweeper(cfg.Quiz.SweepSchedule, cfg.Quiz.SessionTTL, lg, quizSessions, studySessions)
	go sweeper.Start(ctx)

	tokens := auth.NewJWTAuth(cfg.HTTP.JWTSecret, cfg.HTTP.TokenTTL, cfg.HTTP.MapURL)
	router := httpapi.NewRouter(httpapi.NewHandler(quizService, prefectureRepo, regionRepo, lg), tokens, lg)
	srv := httpapi.NewServer(cfg.HTTP.Addr, router)
	go func() {
		if err := httpapi.Serve(ctx, srv, lg); err != nil {
			lg.Error("http server error", zap.Error(err))
			stop()
		}
	}()

	handler := telegram.NewHandler(bot, lg, quizService, studyService, messageStorage, tokens, cfg.Location)
	if err := handler.Run(ctx); err != nil && ctx.Err() == nil {
		lg.Error("telegram handler stopped", zap.Error(err))
	}

	lg.Info("shutdown signal received")
}
