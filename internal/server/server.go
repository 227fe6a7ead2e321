package server

import (
	"context"
	"log"
	"net"
	"net/http"
	"time"

	"backend-honeymoonhq/internal/chat"
	"backend-honeymoonhq/internal/config"
	"backend-honeymoonhq/internal/db"
	"backend-honeymoonhq/internal/gateway"
	"backend-honeymoonhq/internal/itinerary"
	"backend-honeymoonhq/internal/receipt"
	"backend-honeymoonhq/internal/storage"
	"backend-honeymoonhq/internal/stream"
	"backend-honeymoonhq/internal/tripconfig"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

const (
	bodyLimit        = 12 << 20
	extractTimeout   = 90 * time.Second
	migrationTimeout = 5 * time.Second
)

type Server struct {
	App    *fiber.App
	Cfg    config.Config
	DB     *pgxpool.Pool
	Redis  *redis.Client
	Stream *stream.Hub

	Itinerary  *itinerary.Store
	TripConfig *tripconfig.Store
	Chats      *chat.Registry
	Receipts   *receipt.Pipeline
	Storage    *storage.Service
	Gateway    *gateway.Service
}

func NewServer(cfg config.Config, pg *pgxpool.Pool, redisClient *redis.Client) *Server {
	app := fiber.New(fiber.Config{BodyLimit: bodyLimit, ProxyHeader: cfg.ProxyHeader})
	app.Use(recover.New())
	app.Use(logger.New())

	s := &Server{
		App:    app,
		Cfg:    cfg,
		DB:     pg,
		Redis:  redisClient,
		Stream: stream.NewHub(redisClient),
	}

	// a nil pool must stay a nil interface
	var q db.Querier
	if pg != nil {
		q = pg
		ctx, cancel := context.WithTimeout(context.Background(), migrationTimeout)
		if err := db.Migrate(ctx, q); err != nil {
			log.Printf("storage metadata disabled: migrate: %v", err)
			q = nil
		}
		cancel()
	}

	s.wire(q)
	registerRoutes(s)
	return s
}

func (s *Server) wire(q db.Querier) {
	cfg := s.Cfg

	var seed []itinerary.Country
	if cfg.SeedItinerary {
		seed = itinerary.Seed()
	}
	s.Itinerary = itinerary.NewStore(seed)
	s.Itinerary.OnChange(func(countries []itinerary.Country) {
		s.Stream.BroadcastJSON(stream.TopicItinerary, countries)
	})

	s.TripConfig = tripconfig.NewStore(s.Redis)

	s.Storage = storage.NewService(q, storage.Options{
		Dir:     cfg.StorageDir,
		Secret:  cfg.StorageSecret,
		BaseURL: cfg.PublicBaseURL,
	})

	s.Gateway = gateway.NewService(gateway.Config{
		APIKey:       cfg.AIAPIKey,
		BaseURL:      cfg.AIBaseURL,
		ChatModel:    cfg.ChatModel,
		ExtractModel: cfg.ExtractModel,
	})

	chatURL, receiptURL := cfg.ChatURL, cfg.ReceiptURL
	if chatURL == "" {
		chatURL = selfURL(cfg.ServerPort) + "/functions/v1/chat"
	}
	if receiptURL == "" {
		receiptURL = selfURL(cfg.ServerPort) + "/functions/v1/parse-receipt"
	}

	streamer := chat.NewHTTPStreamer(chatURL, &http.Client{})
	s.Chats = chat.NewRegistry(func(id string) *chat.Session {
		session := chat.NewSession(id, streamer,
			chat.WithMaxPending(cfg.StreamMaxPending),
			chat.WithTripContext(s.tripContext),
		)
		session.OnChange(func(snap chat.Snapshot) {
			s.Stream.BroadcastJSON(stream.ChatTopic(id), snap)
		})
		return session
	})

	opts := receipt.DefaultOptions()
	opts.ConfirmOnUploadBeforeVerify = cfg.ConfirmOnUpload
	extractor := receipt.NewHTTPExtractor(receiptURL, &http.Client{Timeout: extractTimeout})
	s.Receipts = receipt.NewPipeline(s.Storage, extractor, s.Itinerary, opts)
	s.Receipts.OnState(func(u receipt.Update) {
		s.Stream.BroadcastJSON(stream.TopicUploads, u)
	})
}

// tripContext reads the persisted trip config for a chat turn. Failures
// only drop the context.
func (s *Server) tripContext(ctx context.Context) *chat.TripContext {
	cfg, err := s.TripConfig.Get(ctx)
	if err != nil {
		log.Printf("chat: trip config unavailable: %v", err)
		return nil
	}
	tc := &chat.TripContext{}
	if cfg.StartDate != nil {
		tc.StartDate = *cfg.StartDate
	}
	if cfg.EndDate != nil {
		tc.EndDate = *cfg.EndDate
	}
	for _, name := range cfg.CoupleNames {
		if name != "" {
			tc.CoupleNames = append(tc.CoupleNames, name)
		}
	}
	if tc.StartDate == "" && tc.EndDate == "" && len(tc.CoupleNames) == 0 {
		return nil
	}
	return tc
}

// Close stops chat sessions and the stream relay.
func (s *Server) Close() {
	s.Chats.CloseAll()
	s.Stream.Close()
}

func registerRoutes(s *Server) {
	s.App.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	limit := gateway.NewIPLimiter(s.Cfg.RateLimitPerMinute, s.Cfg.RateLimitBurst).Handler()

	// Turns and uploads reach the gateway over loopback, so they are
	// limited here by the caller's address.
	s.App.Post("/api/chat/messages", limit)
	s.App.Post("/api/itinerary/events/:id/receipt", limit)

	gateway.RegisterRoutes(s.App.Group("/functions/v1"), s.Gateway, limit)
	chat.RegisterRoutes(s.App.Group("/api/chat"), s.Chats, s.Itinerary)
	itinerary.RegisterRoutes(s.App.Group("/api/itinerary"), s.Itinerary, s.TripConfig)
	receipt.RegisterRoutes(s.App.Group("/api/itinerary"), s.Receipts)
	tripconfig.RegisterRoutes(s.App.Group("/api/config"), s.TripConfig)
	storage.RegisterRoutes(s.App.Group("/storage"), s.Storage)
	stream.RegisterRoutes(s.App.Group("/stream"), s.Stream)
}

// selfURL is the loopback base URL of this process's own listener.
func selfURL(addr string) string {
	host, port, err := net.SplitHostPort(addr)
	if err != nil || port == "" || port == "0" {
		return "http://127.0.0.1:8080"
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "127.0.0.1"
	}
	return "http://" + net.JoinHostPort(host, port)
}
