package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/yogavignesh-engineer/text-to-cad-generator-sub000/internal/estimate"
	"github.com/yogavignesh-engineer/text-to-cad-generator-sub000/internal/genclient"
	"github.com/yogavignesh-engineer/text-to-cad-generator-sub000/internal/geometry"
	"github.com/yogavignesh-engineer/text-to-cad-generator-sub000/internal/history"
	"github.com/yogavignesh-engineer/text-to-cad-generator-sub000/internal/metrics"
	"github.com/yogavignesh-engineer/text-to-cad-generator-sub000/internal/storage/models"
	"github.com/yogavignesh-engineer/text-to-cad-generator-sub000/pkg/logger"
)

// Generator produces CAD files from resolved geometry. genclient.Client is
// the production implementation.
type Generator interface {
	Generate(ctx context.Context, prompt string, g geometry.Parsed) (*genclient.GenerateResult, error)
}

// GenerationLog persists the generation audit trail. The sqlite client is
// the production implementation; a nil log disables persistence.
type GenerationLog interface {
	InsertGeneration(record *models.GenerationRecord) error
}

// Generation statuses reported to clients.
const (
	StatusGenerated = models.StatusGenerated
	StatusRejected  = models.StatusRejected
	StatusFailed    = models.StatusFailed
)

const DefaultSession = "default"

type session struct {
	history  *history.Store
	current  *geometry.Parsed
	prompt   string
	material string
}

// Engine orchestrates the prompt-to-model pipeline: modification detection,
// parsing, validation, generation, history. One Engine serves all sessions.
type Engine struct {
	mu           sync.Mutex
	sessions     map[string]*session
	generator    Generator
	log          GenerationLog
	historyLimit int
}

func NewEngine(generator Generator, log GenerationLog, historyLimit int) *Engine {
	return &Engine{
		sessions:     make(map[string]*session),
		generator:    generator,
		log:          log,
		historyLimit: historyLimit,
	}
}

func (e *Engine) session(id string) *session {
	if id == "" {
		id = DefaultSession
	}
	s, ok := e.sessions[id]
	if !ok {
		s = &session{history: history.NewStore(e.historyLimit)}
		e.sessions[id] = s
	}
	return s
}

// PreviewResult is the response of a dry-run parse: no generation, no
// history, no session state.
type PreviewResult struct {
	Prompt     string                    `json:"prompt"`
	Geometry   geometry.Parsed           `json:"geometry"`
	Validation geometry.ValidationResult `json:"validation"`
	BOM        *estimate.BillOfMaterials `json:"bom,omitempty"`
}

// Preview parses, validates and prices a prompt without touching any state.
// It is a pure function of its inputs, which is what makes it cacheable.
func Preview(prompt, material string) PreviewResult {
	if material == "" {
		material = "steel"
	}

	parsed := geometry.Parse(prompt)
	metrics.ParseTotal.WithLabelValues(string(parsed.Shape)).Inc()

	return PreviewResult{
		Prompt:     prompt,
		Geometry:   parsed,
		Validation: geometry.Validate(parsed),
		BOM:        estimate.BOM(parsed, material),
	}
}

type GenerateInput struct {
	SessionID string
	Prompt    string
	Material  string
	// Force generates despite validation errors, for users who know better.
	Force bool
}

type GenerateOutput struct {
	Status         string                    `json:"status"`
	GenerationID   string                    `json:"generationId"`
	ResolvedPrompt string                    `json:"resolvedPrompt"`
	Modified       bool                      `json:"modified"`
	Geometry       geometry.Parsed           `json:"geometry"`
	Validation     geometry.ValidationResult `json:"validation"`
	Result         *genclient.GenerateResult `json:"result,omitempty"`
}

// Generate runs the full pipeline for one prompt. Modification prompts are
// resolved against the session's current geometry, rebuilt into an absolute
// prompt and re-parsed, so downstream stages never see deltas. History is
// only advanced on a successful generation.
func (e *Engine) Generate(ctx context.Context, in GenerateInput) (*GenerateOutput, error) {
	start := time.Now()

	// Snapshot the session under the lock; the generator call below can take
	// seconds and must not hold it, and concurrent requests on one session
	// otherwise race with the post-generation writes.
	e.mu.Lock()
	s := e.session(in.SessionID)
	material := strings.ToLower(in.Material)
	if material == "" {
		material = s.material
	}
	var current *geometry.Parsed
	if s.current != nil {
		clone := s.current.Clone()
		current = &clone
	}
	e.mu.Unlock()

	if material == "" {
		material = "steel"
	}

	resolved := in.Prompt
	modified := false

	mod := geometry.DetectModification(in.Prompt)
	if mod.IsModification && current != nil {
		applied := geometry.Apply(*current, mod)
		resolved = geometry.RebuildPrompt(applied)
		modified = true
		metrics.ModificationTotal.WithLabelValues(string(mod.Operation)).Inc()
		logger.Debug("Modification resolved",
			zap.String("operation", string(mod.Operation)),
			zap.String("resolved_prompt", resolved),
		)
	}

	parsed := geometry.Parse(resolved)
	metrics.ParseTotal.WithLabelValues(string(parsed.Shape)).Inc()

	validation := geometry.Validate(parsed)
	metrics.ValidationWarnings.Add(float64(len(validation.Warnings)))

	out := &GenerateOutput{
		GenerationID:   uuid.New().String(),
		ResolvedPrompt: resolved,
		Modified:       modified,
		Geometry:       parsed,
		Validation:     validation,
	}

	if !validation.Valid && !in.Force {
		out.Status = StatusRejected
		metrics.ValidationFailures.WithLabelValues(string(parsed.Shape)).Inc()
		metrics.GenerationTotal.WithLabelValues(StatusRejected).Inc()
		e.record(out, in, material, start)
		return out, nil
	}

	result, err := e.generator.Generate(ctx, resolved, parsed)
	if err != nil {
		out.Status = StatusFailed
		metrics.GeneratorErrors.Inc()
		metrics.GenerationTotal.WithLabelValues(StatusFailed).Inc()
		e.record(out, in, material, start)
		// No history push: the user's last good model is still current.
		return out, err
	}

	out.Status = StatusGenerated
	out.Result = result

	e.mu.Lock()
	s.current = &parsed
	s.prompt = resolved
	s.material = material
	s.history.Push(history.Entry{
		Prompt:    resolved,
		Material:  material,
		Shape:     parsed.Shape,
		Timestamp: time.Now().UTC(),
	})
	metrics.HistoryDepth.Set(float64(s.history.Len()))
	e.mu.Unlock()

	metrics.GenerationTotal.WithLabelValues(StatusGenerated).Inc()
	metrics.GenerationDuration.WithLabelValues(string(parsed.Shape)).Observe(time.Since(start).Seconds())

	e.record(out, in, material, start)

	logger.Info("Generation completed",
		zap.String("generation_id", out.GenerationID),
		zap.String("shape", string(parsed.Shape)),
		zap.Bool("modified", modified),
	)

	return out, nil
}

func (e *Engine) record(out *GenerateOutput, in GenerateInput, material string, start time.Time) {
	if e.log == nil {
		return
	}

	geomJSON, err := json.Marshal(out.Geometry)
	if err != nil {
		logger.Warn("Failed to record generation", zap.Error(fmt.Errorf("encode geometry: %w", err)))
		return
	}

	err = e.log.InsertGeneration(&models.GenerationRecord{
		ID:           out.GenerationID,
		SessionID:    in.SessionID,
		Prompt:       in.Prompt,
		Shape:        string(out.Geometry.Shape),
		Geometry:     string(geomJSON),
		Material:     material,
		Valid:        out.Validation.Valid,
		WarningCount: len(out.Validation.Warnings),
		Status:       out.Status,
		LatencyMS:    time.Since(start).Milliseconds(),
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		logger.Warn("Failed to record generation", zap.Error(err))
	}
}

// Current returns the session's active geometry, if any.
func (e *Engine) Current(sessionID string) (geometry.Parsed, string, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := e.session(sessionID)
	if s.current == nil {
		return geometry.Parsed{}, "", false
	}
	return s.current.Clone(), s.prompt, true
}

// SetCurrent replaces the session's active geometry, used when restoring a
// named version.
func (e *Engine) SetCurrent(sessionID string, p geometry.Parsed, prompt string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := e.session(sessionID)
	clone := p.Clone()
	s.current = &clone
	s.prompt = prompt
}

// History returns the session's undo stack, oldest first, plus the pointer.
func (e *Engine) History(sessionID string) ([]history.Entry, int) {
	e.mu.Lock()
	s := e.session(sessionID)
	e.mu.Unlock()

	return s.history.Entries(), s.history.Index()
}

// Undo steps the session back one generation. The returned entry's prompt is
// re-parsed so the session's current geometry tracks the pointer.
func (e *Engine) Undo(sessionID string) (history.Entry, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := e.session(sessionID)
	entry, ok := s.history.Undo()
	if !ok {
		return history.Entry{}, false
	}
	e.applyEntry(s, entry)
	return entry, true
}

// Redo steps the session forward again after an undo.
func (e *Engine) Redo(sessionID string) (history.Entry, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := e.session(sessionID)
	entry, ok := s.history.Redo()
	if !ok {
		return history.Entry{}, false
	}
	e.applyEntry(s, entry)
	return entry, true
}

func (e *Engine) applyEntry(s *session, entry history.Entry) {
	parsed := geometry.Parse(entry.Prompt)
	s.current = &parsed
	s.prompt = entry.Prompt
	s.material = entry.Material
}
