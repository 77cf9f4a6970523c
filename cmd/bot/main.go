package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"salonbot/internal/bot"
	"salonbot/internal/catalog"
	"salonbot/internal/config"
	"salonbot/internal/database"
	"salonbot/internal/domain"
	"salonbot/internal/events"
	"salonbot/internal/logging"
	"salonbot/internal/models"
	"salonbot/internal/repository"
	"salonbot/internal/service"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v2"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	cfg, salon, logger, closer, loadErr := loadConfigAndLogger()
	if loadErr != nil {
		return loadErr
	}
	if closer != nil {
		defer (func(c io.Closer) { _ = c.Close() })(closer)
	}

	if err := prepareDirectories(cfg, logger); err != nil {
		return err
	}

	db, err := database.NewDB(cfg.Database.Path, logger)
	if err != nil {
		logger.Error().Err(err).Msg("Ошибка инициализации базы данных")
		return err
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	redisClient, sessionService := initSessionService(ctx, cfg, logger)
	if redisClient != nil {
		defer func() { _ = repository.Close(redisClient) }()
	}

	catalogClient := catalog.NewClient(cfg.Catalog.BaseURL, time.Duration(cfg.Catalog.TimeoutSeconds)*time.Second)

	botAPI, err := tgbotapi.NewBotAPI(cfg.Telegram.BotToken)
	if err != nil {
		logger.Error().Err(err).Msg("Ошибка создания BotAPI")
		return err
	}
	botAPI.Debug = cfg.Telegram.Debug

	tgService := service.NewTelegramService(bot.NewTelegramBotWrapper(botAPI))
	notifier := service.NewNotifier(tgService, db, cfg.Admins, cfg.Bot.NotifyRPS, cfg.Bot.NotifyBurst, logger)

	eventBus := events.NewEventBus()
	metrics := bot.NewMetrics()
	subscribeStaffNotifications(ctx, eventBus, notifier, metrics, logger)

	if cfg.Monitoring.PrometheusEnabled {
		startMetricsServer(cfg.Monitoring.PrometheusPort, logger)
	}

	telegramBot, err := bot.NewBot(tgService, cfg, sessionService, catalogClient, db, eventBus, salon, metrics, logger)
	if err != nil {
		logger.Error().Err(err).Msg("Ошибка создания бота")
		return err
	}

	logger.Info().Msg("Бот запущен...")
	telegramBot.Start(ctx)

	logger.Info().Msg("Shutdown complete.")
	return nil
}

func loadConfigAndLogger() (*config.Config, models.SalonCard, *zerolog.Logger, io.Closer, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, models.SalonCard{}, nil, nil, err
	}

	baseLogger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return nil, models.SalonCard{}, nil, nil, err
	}
	logger := baseLogger.With().Str("component", "bot-main").Logger()

	salonPath := os.Getenv("SALON_PATH")
	if salonPath == "" {
		salonPath = "configs/salon.yaml"
	}
	salonData, err := os.ReadFile(salonPath)
	if err != nil {
		logger.Error().Err(err).Msgf("Ошибка чтения %s", salonPath)
		return nil, models.SalonCard{}, nil, closer, err
	}

	var salonConfig struct {
		Salon models.SalonCard `yaml:"salon"`
	}
	if err := yaml.Unmarshal(salonData, &salonConfig); err != nil {
		logger.Error().Err(err).Msg("Ошибка парсинга salon.yaml")
		return nil, models.SalonCard{}, nil, closer, err
	}

	return cfg, salonConfig.Salon, &logger, closer, nil
}

func prepareDirectories(cfg *config.Config, logger *zerolog.Logger) error {
	if cfg == nil {
		return os.ErrInvalid
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		logger.Error().Err(err).Msg("Ошибка создания директории для базы данных")
		return err
	}
	if err := os.MkdirAll(cfg.Exports.Path, 0o755); err != nil {
		logger.Error().Err(err).Msg("Ошибка создания директории для экспорта")
		return err
	}
	return nil
}

func initSessionService(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) (*redis.Client, *service.SessionService) {
	ttl := time.Duration(cfg.Bot.SessionTTL) * time.Second
	fallbackRepo := repository.NewMemorySessionRepository(ttl)
	fallbackRepo.StartJanitor(ctx, time.Minute)

	if cfg.Redis.Address == "" {
		logger.Info().Msg("Redis не настроен, сессии хранятся в памяти")
		return nil, service.NewSessionService(fallbackRepo, logger)
	}

	redisClient := repository.NewRedisClient(cfg.Redis)
	if errPing := repository.Ping(ctx, redisClient); errPing != nil {
		logger.Warn().Err(errPing).Msg("Redis unavailable")
	}

	primaryRepo := repository.NewRedisSessionRepository(redisClient, ttl)
	sessionRepo := repository.NewFailoverSessionRepository(primaryRepo, fallbackRepo, logger)
	return redisClient, service.NewSessionService(sessionRepo, logger)
}

// subscribeStaffNotifications связывает события оркестратора с рассылкой
// персоналу. Сбои рассылки никогда не поднимаются выше этого места.
func subscribeStaffNotifications(ctx context.Context, bus *events.EventBus, notifier domain.StaffNotifier, metrics *bot.Metrics, logger *zerolog.Logger) {
	handler := func(ev *events.Event) error {
		var payload events.StaffNotification
		if err := json.Unmarshal(ev.Payload, &payload); err != nil {
			logger.Error().Err(err).Str("event", ev.Type).Msg("event bus: decode payload")
			return nil
		}

		sent := notifier.Broadcast(ctx, payload.Text)
		if metrics != nil {
			metrics.NotificationsSent.Add(float64(sent))
		}
		logger.Info().Str("event", ev.Type).Int("sent", sent).Msg("Staff notification dispatched")
		return nil
	}

	bus.Subscribe(events.EventBookingCreated, handler)
	bus.Subscribe(events.EventOrderCreated, handler)
}

func startMetricsServer(port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	go func() {
		addr := fmt.Sprintf(":%d", port)
		logger.Info().Str("addr", addr).Msg("Metrics server listening")
		if err := http.ListenAndServe(addr, mux); err != nil {
			logger.Error().Err(err).Msg("Metrics server error")
		}
	}()
}
