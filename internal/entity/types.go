// Package entity holds the internal, transport-agnostic records described in
// the data model: segments, emotion readings, mapping outputs, devices,
// sessions, RAG documents and the sync manifest. JSON tags exist only because
// the Gateway and SyncService marshal these directly at their edges; nothing
// in the domain packages depends on encoding/json.
package entity

import "time"

// Highlight is a scored span inside a Segment.
type HighlightKind string

const (
	HighlightQuote    HighlightKind = "quote"
	HighlightEmphasis HighlightKind = "emphasis"
	HighlightExclaim  HighlightKind = "exclaim"
	HighlightQuestion HighlightKind = "question"
	HighlightEllipsis HighlightKind = "ellipsis"
)

type Highlight struct {
	StartChar int           `json:"start_char"`
	EndChar   int           `json:"end_char"`
	Kind      HighlightKind `json:"kind"`
	Weight    float64       `json:"weight"`
}

// Segment is one addressable unit of the input text.
type Segment struct {
	ID                 string      `json:"id"`
	Index              int         `json:"index"`
	Text               string      `json:"text"`
	StartChar          int         `json:"start_char"`
	EndChar             int        `json:"end_char"`
	WordCount          int         `json:"word_count"`
	EstDurationSeconds float64     `json:"est_duration_seconds"`
	StartTimeSeconds   float64     `json:"start_time_seconds"`
	Highlights         []Highlight `json:"highlights"`
	// TrailingSeparator is the whitespace/punctuation run that was stripped
	// between this segment and the next one, kept so the original text can be
	// reconstructed exactly.
	TrailingSeparator string `json:"trailing_separator,omitempty"`
}

// EmotionLabel is the closed seven-label set; unknown input collapses to Neutral.
type EmotionLabel string

const (
	Happy    EmotionLabel = "happy"
	Sad      EmotionLabel = "sad"
	Angry    EmotionLabel = "angry"
	Fear     EmotionLabel = "fear"
	Surprise EmotionLabel = "surprise"
	Disgust  EmotionLabel = "disgust"
	Neutral  EmotionLabel = "neutral"
)

var AllEmotionLabels = []EmotionLabel{Happy, Sad, Angry, Fear, Surprise, Disgust, Neutral}

func IsKnownEmotionLabel(l EmotionLabel) bool {
	for _, known := range AllEmotionLabels {
		if known == l {
			return true
		}
	}
	return false
}

// EmotionSource records which modality produced an EmotionReading.
type EmotionSource string

const (
	SourceText  EmotionSource = "text"
	SourceImage EmotionSource = "image"
	SourceAudio EmotionSource = "audio"
)

type EmotionReading struct {
	Primary    EmotionLabel   `json:"primary"`
	Intensity  float64        `json:"intensity"`
	Secondary  []EmotionLabel `json:"secondary"`
	Features   string         `json:"features"`
	Source     EmotionSource  `json:"source"`
	Confidence float64        `json:"confidence"`
	TsUnix     int64          `json:"ts_unix"`
}

// ProsodyPreset drives a TTS port.
type ProsodyPreset struct {
	VoiceID string  `json:"voice_id"`
	Rate    float64 `json:"rate"`
	Pitch   float64 `json:"pitch"`
	Volume  float64 `json:"volume"`
}

// RepeatSpec describes how many times, and at what period, a HapticPattern repeats.
type RepeatSpec struct {
	Count      int  `json:"count,omitempty"`
	Infinite   bool `json:"infinite,omitempty"`
	PeriodMs   int  `json:"period_ms"`
}

type BodyRegion string

const (
	RegionChest     BodyRegion = "chest"
	RegionShoulders BodyRegion = "shoulders"
	RegionBack      BodyRegion = "back"
	RegionArms      BodyRegion = "arms"
	RegionSpine     BodyRegion = "spine"
	RegionStomach   BodyRegion = "stomach"
)

type HapticPattern struct {
	Name        string       `json:"name"`
	Intensity   float64      `json:"intensity"`
	FrequencyHz int          `json:"frequency_hz"`
	DurationMs  int          `json:"duration_ms"`
	Regions     []BodyRegion `json:"regions"`
	Repeat      RepeatSpec   `json:"repeat"`
}

type ScentRecipe struct {
	Name            string   `json:"name"`
	Notes           []string `json:"notes"`
	Intensity       float64  `json:"intensity"`
	DurationSeconds float64  `json:"duration_seconds"`
}

type AROverlay struct {
	Kind      string  `json:"kind"`
	ColorRGB  string  `json:"color_rgb"`
	Opacity   float64 `json:"opacity"`
	Animation string  `json:"animation"`
	Particles int     `json:"particles"`
}

// Capability is a typed declaration of what a device can render.
type Capability string

const (
	CapHaptic  Capability = "haptic"
	CapScent   Capability = "scent"
	CapAR      Capability = "ar"
	CapTTS     Capability = "tts"
	CapDisplay Capability = "display"
)

type DeviceClass string

const (
	ClassWatch          DeviceClass = "watch"
	ClassARGlasses      DeviceClass = "ar_glasses"
	ClassFullBodyHaptic DeviceClass = "full_body_haptic"
	ClassHapticVest     DeviceClass = "haptic_vest"
	ClassScent          DeviceClass = "scent"
	ClassTaste          DeviceClass = "taste"
	ClassGenericTTS     DeviceClass = "generic_tts"
	ClassGenericDisplay DeviceClass = "generic_display"
)

type DeviceStatus string

const (
	DeviceOnline   DeviceStatus = "online"
	DeviceDegraded DeviceStatus = "degraded"
	DeviceOffline  DeviceStatus = "offline"
)

type DeviceDescriptor struct {
	ID           string           `json:"id"`
	Class        DeviceClass      `json:"class"`
	Capabilities map[Capability]bool `json:"capabilities"`
	Addr         string           `json:"addr"`
	Status       DeviceStatus     `json:"status"`
	LastSeen     time.Time        `json:"last_seen"`
}

func (d DeviceDescriptor) Has(c Capability) bool {
	return d.Capabilities != nil && d.Capabilities[c]
}

// DispatchStatus records the outcome of one device's dispatch; never silently dropped.
type DispatchStatus string

const (
	DispatchSuccess            DispatchStatus = "success"
	DispatchRetriedSuccess     DispatchStatus = "retried_success"
	DispatchFailed             DispatchStatus = "failed"
	DispatchSkippedIncompatible DispatchStatus = "skipped_incompatible"
)

type DispatchResult struct {
	Status    DispatchStatus `json:"status"`
	Attempts  int            `json:"attempts"`
	Error     string         `json:"error,omitempty"`
	LatencyMs int64          `json:"latency_ms"`
}

// SessionState is the orchestrator's playback state machine.
type SessionState string

const (
	StateIdle    SessionState = "idle"
	StatePlaying SessionState = "playing"
	StatePaused  SessionState = "paused"
	StateEnded   SessionState = "ended"
)

// Session is the in-memory state of one play-through of a text for one
// client; not durable across restart.
type Session struct {
	ID             string
	UserID         string
	State          SessionState
	Segments       []Segment
	CurrentIndex   int
	Playing        bool
	LastEmotion    EmotionReading
	PlanGeneration int64
	StartedAt      time.Time
	UpdatedAt      time.Time
}

// HapticEvent anchors a HapticPattern to a segment's start time within a PlaybackPlan.
type HapticEvent struct {
	SegmentIndex   int           `json:"segment_index"`
	AtSeconds      float64       `json:"at_seconds"`
	Pattern        HapticPattern `json:"pattern"`
}

// ScentEvent schedules a ScentRecipe at emotion onset.
type ScentEvent struct {
	AtSeconds float64     `json:"at_seconds"`
	Recipe    ScentRecipe `json:"recipe"`
}

// AREvent mirrors a ScentEvent with an AR overlay.
type AREvent struct {
	AtSeconds float64   `json:"at_seconds"`
	Overlay   AROverlay `json:"overlay"`
}

// PlaybackPlan is the complete output of Orchestrator.Play: everything a
// client needs to render one pass through a text across every modality.
type PlaybackPlan struct {
	SessionID        string        `json:"session_id"`
	PlanGeneration   int64         `json:"plan_generation"`
	Segments         []Segment     `json:"segments"`
	Emotion          EmotionReading `json:"emotion"`
	Prosody          ProsodyPreset `json:"prosody"`
	HapticEvents     []HapticEvent `json:"haptic_events"`
	ScentEvents      []ScentEvent  `json:"scent_events"`
	AREvents         []AREvent     `json:"ar_events"`
	DurationTotal    float64       `json:"duration_total"`
	PlaybackURL      string        `json:"playback_url"`
}

// RAGDoc is a document in the lightweight retrieval store.
type RAGDoc struct {
	DocID  string         `json:"doc_id"`
	Text   string         `json:"text"`
	Tokens map[string]int `json:"tokens"`
	Meta   map[string]any `json:"meta,omitempty"`
}

// ManifestEntry describes one file in the syncable content set.
type ManifestEntry struct {
	Path      string `json:"path"`
	SHA256    string `json:"sha256"`
	MtimeUnix int64  `json:"mtime_unix"`
	SizeBytes int64  `json:"size_bytes"`
	Category  string `json:"category"`
}

// Manifest is the content-addressed description of the syncable file set.
type Manifest struct {
	ETag      string          `json:"etag"`
	FileCount int             `json:"file_count"`
	Files     []ManifestEntry `json:"files"`
}
