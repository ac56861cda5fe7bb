package orchestrator

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/modernreader/orchestrator/internal/apierr"
	"github.com/modernreader/orchestrator/internal/entity"
	"github.com/modernreader/orchestrator/pkg/agentruntime"
	"github.com/modernreader/orchestrator/pkg/device"
	"github.com/modernreader/orchestrator/pkg/emotion"
	"github.com/modernreader/orchestrator/pkg/events"
	"github.com/modernreader/orchestrator/pkg/mapping"
	"github.com/modernreader/orchestrator/pkg/memory"
	"github.com/modernreader/orchestrator/pkg/textseg"
	"github.com/modernreader/orchestrator/pkg/tts"
)

// EventPublisher is the outbound half of the event bus: whatever Play and
// the fan-out want other processes to know about. Satisfied by
// pkg/nats.Publisher; nil-able so the orchestrator works without NATS.
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

// sessionPlayEvent announces a session entering play state on
// "events.session.play_started", for whatever out-of-process listener (an
// analytics agent, a companion app) wants to know without polling Summary.
type sessionPlayEvent struct {
	sessionID  string
	userID     string
	emotion    string
	occurredAt time.Time
}

func (e sessionPlayEvent) EventType() string { return "session.play_started" }

func (e sessionPlayEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"session_id": e.sessionID,
		"user_id":    e.userID,
		"emotion":    e.emotion,
	}
}

func (e sessionPlayEvent) Timestamp() time.Time { return e.occurredAt }

// Config tunes the segmentation/broadcast defaults every Play call falls back to.
type Config struct {
	ReadingWPM        int
	MaxChunkChars     int
	SessionTTL        time.Duration
	SegmentStrategy   textseg.Strategy
	MaxInFlightPerSes int
}

// Orchestrator coordinates the Segmenter, EmotionEngine, MappingTables,
// MemoryStore and device Broadcaster into the play/pause/seek/summary
// lifecycle. One Orchestrator is shared by every session in the process.
type Orchestrator struct {
	cfg         Config
	sessions    *sessionTable
	emotion     *emotion.Engine
	tables      *mapping.Tables
	memoryStore *memory.MemoryStore
	broadcaster *device.Broadcaster
	tts         tts.Port
	scheduler   *agentruntime.Scheduler
	events      EventPublisher

	cancels   map[string]context.CancelFunc
	cancelsMu sync.Mutex
}

func New(cfg Config, e *emotion.Engine, tables *mapping.Tables, mem *memory.MemoryStore, bc *device.Broadcaster, speaker tts.Port, pub EventPublisher) *Orchestrator {
	if cfg.ReadingWPM == 0 {
		cfg.ReadingWPM = 200
	}
	if cfg.MaxChunkChars == 0 {
		cfg.MaxChunkChars = textseg.DefaultMaxChunkChars
	}
	if cfg.SessionTTL == 0 {
		cfg.SessionTTL = 30 * time.Minute
	}
	if cfg.SegmentStrategy == "" {
		cfg.SegmentStrategy = textseg.StrategyAdaptive
	}
	return &Orchestrator{
		cfg:         cfg,
		sessions:    newSessionTable(cfg.SessionTTL),
		emotion:     e,
		tables:      tables,
		memoryStore: mem,
		broadcaster: bc,
		tts:         speaker,
		scheduler:   agentruntime.NewScheduler(cfg.MaxInFlightPerSes, cfg.SessionTTL),
		events:      pub,
		cancels:     make(map[string]context.CancelFunc),
	}
}

// Play segments text, scores its emotion, fetches preferences, builds a
// PlaybackPlan, kicks off the device broadcast for the session's current
// emotion and returns the plan. Calling Play again on the same session_id
// cancels any still-running broadcast from the previous plan.
func (o *Orchestrator) Play(ctx context.Context, sessionID, userID, text string, strategy textseg.Strategy) (entity.PlaybackPlan, error) {
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	if strategy == "" {
		strategy = o.cfg.SegmentStrategy
	}
	lock := o.sessions.lockFor(sessionID)
	lock.mu.Lock()
	defer lock.mu.Unlock()

	result := textseg.Segment(text, strategy, o.cfg.MaxChunkChars, o.cfg.ReadingWPM)
	reading := o.emotion.Predict(ctx, emotion.Payload{Text: text})

	var prefs map[string]string
	if o.memoryStore != nil {
		var err error
		prefs, err = o.memoryStore.Prefs.All(ctx, userID)
		if err != nil {
			return entity.PlaybackPlan{}, apierr.Upstream("failed to load preferences", err)
		}
	}

	existing, had := o.sessions.get(sessionID)
	gen := int64(1)
	if had {
		gen = atomic.AddInt64(&existing.PlanGeneration, 1)
	}

	session := &entity.Session{
		ID:             sessionID,
		UserID:         userID,
		State:          entity.StatePlaying,
		Segments:       result.Segments,
		CurrentIndex:   0,
		Playing:        true,
		LastEmotion:    reading,
		PlanGeneration: gen,
		UpdatedAt:      time.Now().UTC(),
	}
	if had {
		session.StartedAt = existing.StartedAt
	} else {
		session.StartedAt = session.UpdatedAt
	}
	o.sessions.put(session)

	prosody := o.tables.Prosody(reading.Primary)
	applyVoicePreference(&prosody, prefs)

	plan := buildPlan(sessionID, gen, result.Segments, reading, prosody, o.tables)

	if o.tts != nil {
		url, err := o.tts.Synthesize(ctx, text, prosody)
		if err == nil {
			plan.PlaybackURL = url
		}
	}

	if o.events != nil {
		go o.events.Publish(context.Background(), sessionPlayEvent{
			sessionID:  sessionID,
			userID:     userID,
			emotion:    string(reading.Primary),
			occurredAt: session.UpdatedAt,
		})
	}

	o.cancelPrevious(sessionID)
	if o.broadcaster != nil {
		bgCtx, cancel := context.WithCancel(context.Background())
		o.cancelsMu.Lock()
		o.cancels[sessionID] = cancel
		o.cancelsMu.Unlock()
		go func() {
			defer cancel()
			o.scheduler.Submit(bgCtx, sessionID, func(ctx context.Context) {
				o.broadcaster.Broadcast(ctx, reading, device.ContentRefs{Text: text}, nil)
			})
		}()
	}

	return plan, nil
}

func (o *Orchestrator) cancelPrevious(sessionID string) {
	o.cancelsMu.Lock()
	defer o.cancelsMu.Unlock()
	if cancel, ok := o.cancels[sessionID]; ok {
		cancel()
		delete(o.cancels, sessionID)
	}
}

func applyVoicePreference(p *entity.ProsodyPreset, prefs map[string]string) {
	if prefs == nil {
		return
	}
	if v, ok := prefs["preferred_voice"]; ok && v != "" {
		p.VoiceID = v
	}
	if v, ok := prefs["voice_speed"]; ok && v != "" {
		var speed float64
		if _, err := fmt.Sscanf(v, "%f", &speed); err == nil && speed > 0 {
			p.Rate = speed
		}
	}
}

func buildPlan(sessionID string, gen int64, segments []entity.Segment, reading entity.EmotionReading, prosody entity.ProsodyPreset, tables *mapping.Tables) entity.PlaybackPlan {
	haptic := tables.Haptic(reading.Primary, reading.Intensity)
	scent := tables.Scent(reading.Primary, reading.Intensity)
	overlay := tables.AR(reading.Primary, reading.Intensity)

	plan := entity.PlaybackPlan{
		SessionID:      sessionID,
		PlanGeneration: gen,
		Segments:       segments,
		Emotion:        reading,
		Prosody:        prosody,
	}

	for i, seg := range segments {
		plan.HapticEvents = append(plan.HapticEvents, entity.HapticEvent{
			SegmentIndex: i,
			AtSeconds:    seg.StartTimeSeconds,
			Pattern:      haptic,
		})
	}
	if len(segments) > 0 {
		onset := segments[0].StartTimeSeconds
		plan.ScentEvents = []entity.ScentEvent{{AtSeconds: onset, Recipe: scent}}
		plan.AREvents = []entity.AREvent{{AtSeconds: onset, Overlay: overlay}}
	}

	var total float64
	for _, seg := range segments {
		total += seg.EstDurationSeconds
	}
	plan.DurationTotal = total
	return plan
}

// Pause flips playing=false; idempotent.
func (o *Orchestrator) Pause(sessionID string) (*entity.Session, error) {
	lock := o.sessions.lockFor(sessionID)
	lock.mu.Lock()
	defer lock.mu.Unlock()

	s, ok := o.sessions.get(sessionID)
	if !ok {
		return nil, apierr.NotFoundf("session %s not found", sessionID)
	}
	s.Playing = false
	s.State = entity.StatePaused
	s.UpdatedAt = time.Now().UTC()
	o.sessions.touch(sessionID)
	return s, nil
}

// Seek validates 0 <= index < N, then updates current_index. An invalid
// index returns invalid_segment without mutating state.
func (o *Orchestrator) Seek(sessionID string, index int) (*entity.Session, error) {
	lock := o.sessions.lockFor(sessionID)
	lock.mu.Lock()
	defer lock.mu.Unlock()

	s, ok := o.sessions.get(sessionID)
	if !ok {
		return nil, apierr.NotFoundf("session %s not found", sessionID)
	}
	if index < 0 || index >= len(s.Segments) {
		return nil, apierr.Invalid("invalid_segment")
	}
	s.CurrentIndex = index
	s.UpdatedAt = time.Now().UTC()
	o.sessions.touch(sessionID)
	return s, nil
}

type Summary struct {
	TotalSegments   int                  `json:"total_segments"`
	TotalHighlights int                  `json:"total_highlights"`
	CurrentIndex    int                  `json:"current_index"`
	LastEmotion     entity.EmotionReading `json:"last_emotion"`
	Playing         bool                 `json:"playing"`
	Text            string               `json:"text"`
}

// Summary returns counts plus a short textual summary composed from the
// highest-weight highlights across all segments.
func (o *Orchestrator) Summary(sessionID string) (Summary, error) {
	lock := o.sessions.lockFor(sessionID)
	lock.mu.Lock()
	defer lock.mu.Unlock()

	s, ok := o.sessions.get(sessionID)
	if !ok {
		return Summary{}, apierr.NotFoundf("session %s not found", sessionID)
	}

	type scored struct {
		text   string
		weight float64
	}
	var all []scored
	totalHighlights := 0
	for _, seg := range s.Segments {
		for _, h := range seg.Highlights {
			totalHighlights++
			start, end := h.StartChar, h.EndChar
			if start < 0 || end > len([]rune(seg.Text)) || start >= end {
				continue
			}
			snippet := string([]rune(seg.Text)[start:end])
			all = append(all, scored{text: snippet, weight: h.Weight})
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].weight > all[j].weight })

	const maxSnippets = 3
	if len(all) > maxSnippets {
		all = all[:maxSnippets]
	}
	text := ""
	for i, sn := range all {
		if i > 0 {
			text += " ... "
		}
		text += sn.text
	}

	return Summary{
		TotalSegments:   len(s.Segments),
		TotalHighlights: totalHighlights,
		CurrentIndex:    s.CurrentIndex,
		LastEmotion:     s.LastEmotion,
		Playing:         s.Playing,
		Text:            text,
	}, nil
}
