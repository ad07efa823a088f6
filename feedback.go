package psyche

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/zoobzio/capitan"
	"github.com/zoobzio/zyn"
)

// Provider defines the interface for generative-feedback providers.
// This matches zyn.Provider for compatibility.
type Provider interface {
	Call(ctx context.Context, messages []zyn.Message, temperature float32) (*zyn.ProviderResponse, error)
	Name() string
}

// ErrNoProvider is returned when no provider can be resolved.
var ErrNoProvider = errors.New("no provider configured: set via Feedback or global")

var (
	globalProvider   Provider
	globalProviderMu sync.RWMutex
)

// SetProvider sets the global fallback provider used by Feedback when no
// explicit provider was supplied.
func SetProvider(p Provider) {
	globalProviderMu.Lock()
	defer globalProviderMu.Unlock()
	globalProvider = p
}

func resolveProvider(explicit Provider) (Provider, error) {
	if explicit != nil {
		return explicit, nil
	}
	globalProviderMu.RLock()
	defer globalProviderMu.RUnlock()
	if globalProvider != nil {
		return globalProvider, nil
	}
	return nil, ErrNoProvider
}

// JourneyEntry is one step of the legacy single-track mode: the scene, the
// choice the user made, the body reading and their free-text reflection.
type JourneyEntry struct {
	Scene      string `json:"scene"`
	Choice     string `json:"choice"`
	Sensation  string `json:"sensation"`
	Reflection string `json:"reflection"`
}

// FeedbackResult is the collaborator's opaque output: free text plus a
// numeric score. The engine never interprets the text.
type FeedbackResult struct {
	Text  string `json:"text"`
	Score int    `json:"score"`
}

// Feedback is the generative collaborator for the legacy single-track
// mode. It is consulted only by that mode, never by Analyze, and it is
// failure-tolerant: callers receive a nil result and an error on any
// network or parse failure, never a panic.
type Feedback struct {
	provider Provider
}

// NewFeedback creates a feedback collaborator using the global provider.
func NewFeedback() *Feedback {
	return &Feedback{}
}

// WithProvider sets an explicit provider, taking precedence over the
// global default.
func (f *Feedback) WithProvider(p Provider) *Feedback {
	f.provider = p
	return f
}

const feedbackStyle = `Respond with a single JSON object: {"text": <supportive reflection on the journey, two to four sentences>, "score": <integer 0-100 rating overall congruence>}. No other output.`

// Generate sends the journey transcript to the provider and parses the
// text+score JSON it returns.
func (f *Feedback) Generate(ctx context.Context, entries []JourneyEntry) (*FeedbackResult, error) {
	provider, err := resolveProvider(f.provider)
	if err != nil {
		return nil, err
	}

	synapse, err := zyn.Transform("Reflect a questionnaire journey back as supportive feedback", provider)
	if err != nil {
		return nil, fmt.Errorf("failed to create feedback synapse: %w", err)
	}

	out, err := synapse.FireWithInput(ctx, zyn.NewSession(), zyn.TransformInput{
		Text:  renderJourney(entries),
		Style: feedbackStyle,
	})
	if err != nil {
		f.emitFailed(ctx, err)
		return nil, fmt.Errorf("feedback synapse execution failed: %w", err)
	}

	result, err := parseFeedback(out)
	if err != nil {
		f.emitFailed(ctx, err)
		return nil, err
	}

	capitan.Emit(ctx, FeedbackGenerated,
		FieldScore.Field(result.Score),
	)
	return result, nil
}

func (f *Feedback) emitFailed(ctx context.Context, err error) {
	capitan.Error(ctx, FeedbackFailed,
		FieldError.Field(err),
	)
}

// renderJourney formats the transcript one step per line, the same shape
// every provider sees.
func renderJourney(entries []JourneyEntry) string {
	var builder strings.Builder
	for i, e := range entries {
		if i > 0 {
			builder.WriteString("\n")
		}
		fmt.Fprintf(&builder, "scene: %s | choice: %s | body: %s | reflection: %s",
			e.Scene, e.Choice, e.Sensation, e.Reflection)
	}
	return builder.String()
}

// parseFeedback tolerantly extracts the result JSON: providers sometimes
// wrap the object in prose, so the outermost braces are tried before
// giving up.
func parseFeedback(raw string) (*FeedbackResult, error) {
	var result FeedbackResult
	if err := json.Unmarshal([]byte(raw), &result); err == nil {
		return &result, nil
	}

	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start >= 0 && end > start {
		if err := json.Unmarshal([]byte(raw[start:end+1]), &result); err == nil {
			return &result, nil
		}
	}
	return nil, fmt.Errorf("unusable feedback output: %q", raw)
}
