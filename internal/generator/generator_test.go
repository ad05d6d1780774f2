package generator

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"thumbgenius/internal/brief"
	"thumbgenius/internal/catalog"
	"thumbgenius/internal/gemini"
	"thumbgenius/internal/history"
	"thumbgenius/internal/prompt"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var errUpstream = errors.New("upstream unavailable")

func newService(model TextModel, maxConcurrent int) (*Service, *history.Store) {
	h := history.NewStore(history.Options{})
	svc := New(Options{
		Model:         model,
		Catalog:       catalog.Default(),
		History:       h,
		MaxConcurrent: maxConcurrent,
	})
	return svc, h
}

func antarcticaBrief() brief.Brief {
	b := brief.Defaults(catalog.Default())
	b.Topic = "Surviving 24 hours in Antarctica"
	return b
}

func referenceImage() *gemini.ImageInput {
	return &gemini.ImageInput{Data: []byte("jpeg-bytes"), MimeType: "image/jpeg"}
}

func TestGenerate_Offline(t *testing.T) {
	svc, h := newService(nil, 0)
	require.True(t, svc.Offline())

	res, err := svc.Generate(context.Background(), Request{Brief: antarcticaBrief()})
	require.NoError(t, err)

	assert.Equal(t, OfflineHook, res.Hook)
	assert.Equal(t, SourceFallback, res.Source)
	assert.Empty(t, res.StyleAnalysis)
	assert.Equal(t, prompt.Fallback(res.Brief, OfflineHook), res.Prompt)

	entries := h.List()
	require.Len(t, entries, 1)
	assert.Equal(t, res.ID, entries[0].ID)
	assert.Equal(t, "fallback", entries[0].Source)
}

func TestGenerate_OfflineWithReference(t *testing.T) {
	svc, _ := newService(nil, 0)

	res, err := svc.Generate(context.Background(), Request{Brief: antarcticaBrief(), Image: referenceImage()})
	require.NoError(t, err)
	assert.Equal(t, OfflineAnalysis, res.StyleAnalysis)
	assert.Contains(t, res.Prompt, "style inspired by: "+OfflineAnalysis)
}

func TestGenerate_ModelSuccess(t *testing.T) {
	model := &fakeModel{
		hook:     `"FROZEN ALIVE"`,
		detailed: "  A freezing explorer, teal and orange --ar 16:9 --v 6.0 --stylize 750 --style raw \n",
		analysis: "Teal and orange, rim lighting",
	}
	svc, _ := newService(model, 4)

	res, err := svc.Generate(context.Background(), Request{Brief: antarcticaBrief(), Image: referenceImage()})
	require.NoError(t, err)

	assert.Equal(t, "FROZEN ALIVE", res.Hook)
	assert.Equal(t, "Teal and orange, rim lighting", res.StyleAnalysis)
	assert.Equal(t, SourceAI, res.Source)
	assert.Equal(t, "A freezing explorer, teal and orange --ar 16:9 --v 6.0 --stylize 750 --style raw", res.Prompt)

	call, ok := model.detailedCall()
	require.True(t, ok)
	assert.InDelta(t, 0.9, call.Opts.Temperature, 1e-6)
	assert.Contains(t, call.Prompt, `"FROZEN ALIVE"`)
	assert.Contains(t, call.Prompt, "CRITICAL STYLE OVERRIDE")
	assert.Len(t, model.ImageCalls(), 1)
}

func TestGenerate_ModelErrorsDegrade(t *testing.T) {
	model := &fakeModel{hookErr: errUpstream, detailedErr: errUpstream, analysisErr: errUpstream}
	svc, _ := newService(model, 4)

	res, err := svc.Generate(context.Background(), Request{Brief: antarcticaBrief(), Image: referenceImage()})
	require.NoError(t, err)

	assert.Equal(t, ErrorHook, res.Hook)
	assert.Equal(t, ErrorAnalysis, res.StyleAnalysis)
	assert.Equal(t, SourceFallback, res.Source)
	assert.Equal(t, prompt.Fallback(res.Brief, ErrorHook), res.Prompt)
}

func TestGenerate_ManualHookSkipsModel(t *testing.T) {
	model := &fakeModel{detailed: "prompt"}
	svc, _ := newService(model, 4)

	b := antarcticaBrief()
	b.TextMode = brief.TextModeManual
	b.CustomText = "  -40 DEGREES  "

	res, err := svc.Generate(context.Background(), Request{Brief: b})
	require.NoError(t, err)
	assert.Equal(t, "-40 DEGREES", res.Hook)

	calls := model.TextCalls()
	require.Len(t, calls, 1)
	assert.False(t, isHookInstruction(calls[0].Prompt))
}

func TestGenerate_NoTextLeavesHookEmpty(t *testing.T) {
	svc, _ := newService(nil, 0)

	b := antarcticaBrief()
	b.HasText = false

	res, err := svc.Generate(context.Background(), Request{Brief: b})
	require.NoError(t, err)
	assert.Empty(t, res.Hook)
	assert.NotContains(t, res.Prompt, "text overlay")
}

func TestGenerate_ExistingAnalysisIsReused(t *testing.T) {
	model := &fakeModel{hook: "GO", detailed: "prompt"}
	svc, _ := newService(model, 4)

	b := antarcticaBrief()
	b.ReferenceImageAnalysis = "Muted film grain"

	res, err := svc.Generate(context.Background(), Request{Brief: b, Image: referenceImage()})
	require.NoError(t, err)
	assert.Equal(t, "Muted film grain", res.StyleAnalysis)
	assert.Empty(t, model.ImageCalls())
}

func TestGenerate_ValidationErrors(t *testing.T) {
	svc, h := newService(nil, 0)

	_, err := svc.Generate(context.Background(), Request{Brief: brief.Defaults(catalog.Default())})
	assert.ErrorIs(t, err, brief.ErrTopicRequired)

	b := antarcticaBrief()
	b.AspectRatio = "4:5"
	_, err = svc.Generate(context.Background(), Request{Brief: b})
	assert.ErrorIs(t, err, catalog.ErrInvalidAspectRatio)

	assert.Zero(t, h.Len())
}

func TestGenerate_RespectsConcurrencyLimit(t *testing.T) {
	model := &fakeModel{hook: "GO", detailed: "prompt", analysis: "style", delay: 20 * time.Millisecond}
	svc, _ := newService(model, 1)

	_, err := svc.Generate(context.Background(), Request{Brief: antarcticaBrief(), Image: referenceImage()})
	require.NoError(t, err)
	assert.Equal(t, int32(1), model.maxSeen.Load())
	assert.Len(t, model.TextCalls(), 2)
}

func TestGenerate_CanceledContext(t *testing.T) {
	model := &fakeModel{hook: "GO", detailed: "prompt", delay: time.Second}
	svc, h := newService(model, 4)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Generate(ctx, Request{Brief: antarcticaBrief()})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, h.Len())
}

func TestCatchyHook_EmptyModelOutput(t *testing.T) {
	svc, _ := newService(&fakeModel{hook: `""`}, 1)
	assert.Equal(t, ErrorHook, svc.CatchyHook(context.Background(), "topic", "English"))
}

func TestCleanModelText(t *testing.T) {
	tests := map[string]string{
		`"FROZEN ALIVE"`:           "FROZEN ALIVE",
		"**Don't Look Down**":      "Don't Look Down",
		"“GAME OVER”\nExplanation": "GAME OVER",
		"  plain  ":                "plain",
	}
	for in, want := range tests {
		assert.Equal(t, want, cleanModelText(in), in)
	}
}
