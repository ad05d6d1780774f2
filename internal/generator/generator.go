// Package generator turns a brief into a finished Midjourney prompt. Every
// model call degrades to a static or locally assembled answer, so callers
// only ever see validation and cancellation errors.
package generator

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"thumbgenius/internal/brief"
	"thumbgenius/internal/catalog"
	"thumbgenius/internal/gemini"
	"thumbgenius/internal/history"
	"thumbgenius/internal/prompt"
)

type Source string

const (
	SourceAI       Source = "ai"
	SourceFallback Source = "fallback"
)

const (
	OfflineHook     = "WATCH THIS!"
	ErrorHook       = "SHOCKING TRUTH!"
	OfflineAnalysis = "Cinematic lighting, high contrast, 8k resolution"
	ErrorAnalysis   = "Professional studio lighting, 8k resolution, cinematic depth of field, high dynamic range"

	detailedTemperature  = 0.9
	defaultMaxConcurrent = 4
)

// TextModel is the subset of the Gemini client the generator needs.
type TextModel interface {
	GenerateText(ctx context.Context, prompt string, opts gemini.TextOptions) (string, error)
	DescribeImage(ctx context.Context, img gemini.ImageInput, instruction string) (string, error)
}

type Options struct {
	// Model may be nil, which puts the service in offline mode.
	Model         TextModel
	Catalog       *catalog.Catalog
	History       *history.Store
	Logger        *slog.Logger
	MaxConcurrent int
	// CallTimeout bounds each model call. Zero means no extra bound.
	CallTimeout time.Duration
}

type Service struct {
	model       TextModel
	catalog     *catalog.Catalog
	history     *history.Store
	logger      *slog.Logger
	sem         *semaphore.Weighted
	callTimeout time.Duration
}

type Request struct {
	Brief brief.Brief
	// Image is an optional reference already prepared by refimage.
	Image *gemini.ImageInput
}

type Result struct {
	ID            string      `json:"id"`
	Prompt        string      `json:"prompt"`
	Hook          string      `json:"hook"`
	StyleAnalysis string      `json:"styleAnalysis,omitempty"`
	Source        Source      `json:"source"`
	Brief         brief.Brief `json:"brief"`
}

func New(opts Options) *Service {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	cat := opts.Catalog
	if cat == nil {
		cat = catalog.Default()
	}
	maxConcurrent := opts.MaxConcurrent
	if maxConcurrent <= 0 {
		maxConcurrent = defaultMaxConcurrent
	}

	return &Service{
		model:       opts.Model,
		catalog:     cat,
		history:     opts.History,
		logger:      logger,
		sem:         semaphore.NewWeighted(int64(maxConcurrent)),
		callTimeout: opts.CallTimeout,
	}
}

func (s *Service) Offline() bool {
	return s.model == nil
}

func (s *Service) Catalog() *catalog.Catalog {
	return s.catalog
}

func (s *Service) CatchyHook(ctx context.Context, topic, language string) string {
	if s.Offline() {
		return OfflineHook
	}

	text, err := s.callText(ctx, prompt.HookInstruction(topic, language), gemini.TextOptions{})
	if err != nil {
		s.logger.Warn("hook generation failed, using fallback", "err", err)
		return ErrorHook
	}
	hook := cleanModelText(text)
	if hook == "" {
		return ErrorHook
	}
	return hook
}

func (s *Service) AnalyzeStyle(ctx context.Context, img gemini.ImageInput) string {
	if s.Offline() {
		return OfflineAnalysis
	}

	text, err := s.callImage(ctx, img, prompt.StyleAnalysisInstruction)
	if err != nil {
		s.logger.Warn("style analysis failed, using fallback", "err", err)
		return ErrorAnalysis
	}
	return text
}

// DetailedPrompt expects a normalized brief.
func (s *Service) DetailedPrompt(ctx context.Context, b brief.Brief, hook string) (string, Source) {
	if s.Offline() {
		return prompt.Fallback(b, hook), SourceFallback
	}

	text, err := s.callText(ctx, prompt.DetailedInstruction(b, hook), gemini.TextOptions{Temperature: detailedTemperature})
	if err != nil {
		s.logger.Warn("prompt generation failed, using local template", "err", err)
		return prompt.Fallback(b, hook), SourceFallback
	}
	return strings.TrimSpace(text), SourceAI
}

// Generate normalizes the brief, resolves the hook and the reference style
// concurrently, builds the prompt and records it in history.
func (s *Service) Generate(ctx context.Context, req Request) (Result, error) {
	b, err := req.Brief.Normalize(s.catalog)
	if err != nil {
		return Result{}, err
	}
	if err := b.Validate(); err != nil {
		return Result{}, err
	}

	var hook string
	analysis := b.ReferenceImageAnalysis

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if b.WantsAIHook() {
			hook = s.CatchyHook(gctx, b.Topic, b.Language)
		} else {
			hook = b.ManualHook()
		}
		return nil
	})
	if req.Image != nil && len(req.Image.Data) > 0 && analysis == "" {
		img := *req.Image
		g.Go(func() error {
			analysis = s.AnalyzeStyle(gctx, img)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	b.ReferenceImageAnalysis = analysis
	text, source := s.DetailedPrompt(ctx, b, hook)
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	id := uuid.NewString()
	if s.history != nil {
		entry, _ := s.history.Add(text, hook, string(source))
		id = entry.ID
	}

	s.logger.Info("prompt generated", "id", id, "source", source, "has_reference", analysis != "", "chars", len(text))

	return Result{
		ID:            id,
		Prompt:        text,
		Hook:          hook,
		StyleAnalysis: analysis,
		Source:        source,
		Brief:         b,
	}, nil
}

func (s *Service) callText(ctx context.Context, instruction string, opts gemini.TextOptions) (string, error) {
	ctx, cancel := s.withCallTimeout(ctx)
	defer cancel()

	if err := s.sem.Acquire(ctx, 1); err != nil {
		return "", err
	}
	defer s.sem.Release(1)

	return s.model.GenerateText(ctx, instruction, opts)
}

func (s *Service) callImage(ctx context.Context, img gemini.ImageInput, instruction string) (string, error) {
	ctx, cancel := s.withCallTimeout(ctx)
	defer cancel()

	if err := s.sem.Acquire(ctx, 1); err != nil {
		return "", err
	}
	defer s.sem.Release(1)

	return s.model.DescribeImage(ctx, img, instruction)
}

func (s *Service) withCallTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.callTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.callTimeout)
}

// cleanModelText drops wrapping quotes and markdown emphasis the model adds
// despite being told not to.
func cleanModelText(text string) string {
	text = strings.TrimSpace(text)
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = strings.TrimSpace(text[:i])
	}
	return strings.TrimSpace(strings.Trim(text, "\"'`*“”‘’"))
}
