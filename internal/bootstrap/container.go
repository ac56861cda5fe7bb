package bootstrap

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/modernreader/orchestrator/internal/config"
	"github.com/modernreader/orchestrator/internal/controller"
	"github.com/modernreader/orchestrator/internal/pkg/logger"
	"github.com/modernreader/orchestrator/internal/quota"
	"github.com/modernreader/orchestrator/internal/websocket"
	"github.com/modernreader/orchestrator/pkg/agentruntime"
	"github.com/modernreader/orchestrator/pkg/device"
	"github.com/modernreader/orchestrator/pkg/embedding"
	"github.com/modernreader/orchestrator/pkg/embedding/jina"
	"github.com/modernreader/orchestrator/pkg/emotion"
	"github.com/modernreader/orchestrator/pkg/llm/factory"
	"github.com/modernreader/orchestrator/pkg/mapping"
	"github.com/modernreader/orchestrator/pkg/memory"
	pktNats "github.com/modernreader/orchestrator/pkg/nats"
	"github.com/modernreader/orchestrator/pkg/orchestrator"
	"github.com/modernreader/orchestrator/pkg/sync"
	"github.com/modernreader/orchestrator/pkg/tts"
)

// Container wires the nine orchestrator components (C1-C9) into the
// Gateway's controllers. Everything is constructed once at startup and
// handed to main.go, which owns the goroutines that keep it alive
// (device sweeps, manifest notifications, the Redis relay).
type Container struct {
	OrchestratorController controller.IOrchestratorController
	SegmentController      controller.ISegmentController
	HapticsController      controller.IHapticsController
	EmotionController      controller.IEmotionController
	VoiceController        controller.IVoiceController
	BroadcastController    controller.IBroadcastController
	SyncController         controller.ISyncController
	RAGController          controller.IRAGController
	ModelSelectController  controller.IModelSelectController
	HealthController       controller.IHealthController

	Log      logger.ILogger
	Registry *device.Registry
	PushHub  *sync.PushHub
	WSHub    *websocket.Hub
	NatsSub  *pktNats.Subscriber

	HeartbeatPeriod time.Duration
	SyncCacheTTL    time.Duration
}

// NewContainer builds the full dependency graph. cfg.Memory.SQLitePath must
// point at a writable location; a construction failure there is fatal since
// every orchestrator session depends on MemoryStore for preferences, RAG and
// bookmarks.
func NewContainer(cfg *config.Config) *Container {
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	var embeddingProvider embedding.EmbeddingProvider
	switch cfg.Ai.EmbeddingProvider {
	case "ollama":
		embeddingProvider = embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.OllamaModel)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaModel)
	case "jina":
		embeddingProvider = jina.NewJinaProvider(cfg.Keys.Jina)
		log.Printf("[INFO] Using Embedding Provider: JINA AI")
	default:
		embeddingProvider = embedding.NewGeminiProvider(cfg.Keys.GoogleGemini)
		log.Printf("[INFO] Using Embedding Provider: GEMINI")
	}

	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Keys.HuggingFace,
	)
	if err != nil {
		log.Fatalf("[FATAL] failed to initialize LLM provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] failed to connect NATS subscriber: %v", err)
	}

	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] failed to connect NATS publisher: %v", err)
	}

	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] failed to parse redis URL: %v, using direct addr", err)
		opt = &redis.Options{Addr: cfg.App.RedisURL}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] failed to connect to redis: %v", err)
	}

	mem, err := memory.New(cfg.Memory.SQLitePath, embeddingProvider)
	if err != nil {
		log.Fatalf("[FATAL] failed to open MemoryStore at %s: %v", cfg.Memory.SQLitePath, err)
	}

	tables := mapping.New()
	registry := device.NewRegistry(cfg.Orchestrator.HeartbeatPeriod)
	broadcaster := device.NewBroadcaster(registry, tables, cfg.Orchestrator.DeviceTimeout)
	speaker := tts.NewLocalStub(cfg.App.BaseURL)

	var engineOpts []emotion.Option
	if llmProvider != nil {
		engineOpts = append(engineOpts, emotion.WithRemoteTextClassifier(emotion.NewLLMTextClassifier(llmProvider)))
	}
	engine := emotion.New(sysLogger, engineOpts...)

	// natsPub is typed nil when NATS is unreachable; assign through an
	// interface-typed variable so Orchestrator's nil check (o.events != nil)
	// doesn't see a non-nil interface wrapping a nil *Publisher.
	var eventPub orchestrator.EventPublisher
	if natsPub != nil {
		eventPub = natsPub
	}

	orch := orchestrator.New(orchestrator.Config{
		ReadingWPM:        cfg.Orchestrator.ReadingWPM,
		MaxChunkChars:     4000,
		SessionTTL:        cfg.Orchestrator.SessionTTL,
		SegmentStrategy:   "adaptive",
		MaxInFlightPerSes: cfg.Orchestrator.MaxInFlightPerSes,
	}, engine, tables, mem, broadcaster, speaker, eventPub)

	syncSvc := sync.New(cfg.Sync.RootDir, cfg.Sync.AllowedPaths, cfg.Sync.CacheTTL)
	pushHub := sync.NewPushHub(syncSvc)
	wsHub := websocket.NewHub(pushHub, rdb)

	enforcer := quota.NewEnforcer(rdb, quota.DailyLimits{
		Play:     cfg.Quota.DailyPlay,
		TTS:      cfg.Quota.DailyTTS,
		ImageGen: cfg.Quota.DailyImageGen,
	}, cfg.Quota.BurstPerSec)

	if natsSub != nil {
		if err := agentruntime.IngestHeartbeats(natsSub, registry); err != nil {
			log.Printf("[WARN] failed to subscribe to device heartbeats: %v", err)
		}
	}

	return &Container{
		OrchestratorController: controller.NewOrchestratorController(orch, enforcer),
		SegmentController:      controller.NewSegmentController(cfg.Orchestrator.ReadingWPM, 4000),
		HapticsController:      controller.NewHapticsController(tables, engine),
		EmotionController:      controller.NewEmotionController(engine, enforcer),
		VoiceController:        controller.NewVoiceController(speaker, speaker, tables, cfg.Orchestrator.ReadingWPM, enforcer),
		BroadcastController:    controller.NewBroadcastController(registry, broadcaster),
		SyncController:         controller.NewSyncController(syncSvc),
		RAGController:          controller.NewRAGController(mem),
		ModelSelectController:  controller.NewModelSelectController(),
		HealthController:       controller.NewHealthController(),

		Log:             sysLogger,
		Registry:        registry,
		PushHub:         pushHub,
		WSHub:           wsHub,
		NatsSub:         natsSub,
		HeartbeatPeriod: cfg.Orchestrator.HeartbeatPeriod,
		SyncCacheTTL:    cfg.Sync.CacheTTL,
	}
}
