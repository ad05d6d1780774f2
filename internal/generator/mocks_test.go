package generator

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"thumbgenius/internal/gemini"
)

type textCall struct {
	Prompt string
	Opts   gemini.TextOptions
}

// fakeModel answers hook requests and detailed-prompt requests separately so
// a test can fail one without the other.
type fakeModel struct {
	mu         sync.Mutex
	textCalls  []textCall
	imageCalls []gemini.ImageInput

	hook        string
	hookErr     error
	detailed    string
	detailedErr error
	analysis    string
	analysisErr error

	delay    time.Duration
	inFlight atomic.Int32
	maxSeen  atomic.Int32
}

func (f *fakeModel) GenerateText(ctx context.Context, prompt string, opts gemini.TextOptions) (string, error) {
	f.enter()
	defer f.inFlight.Add(-1)

	f.mu.Lock()
	f.textCalls = append(f.textCalls, textCall{Prompt: prompt, Opts: opts})
	f.mu.Unlock()

	if err := f.wait(ctx); err != nil {
		return "", err
	}
	if isHookInstruction(prompt) {
		return f.hook, f.hookErr
	}
	return f.detailed, f.detailedErr
}

func (f *fakeModel) DescribeImage(ctx context.Context, img gemini.ImageInput, _ string) (string, error) {
	f.enter()
	defer f.inFlight.Add(-1)

	f.mu.Lock()
	f.imageCalls = append(f.imageCalls, img)
	f.mu.Unlock()

	if err := f.wait(ctx); err != nil {
		return "", err
	}
	return f.analysis, f.analysisErr
}

func (f *fakeModel) enter() {
	n := f.inFlight.Add(1)
	for {
		seen := f.maxSeen.Load()
		if n <= seen || f.maxSeen.CompareAndSwap(seen, n) {
			return
		}
	}
}

func (f *fakeModel) wait(ctx context.Context) error {
	if f.delay <= 0 {
		return nil
	}
	select {
	case <-time.After(f.delay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (f *fakeModel) TextCalls() []textCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]textCall(nil), f.textCalls...)
}

func (f *fakeModel) ImageCalls() []gemini.ImageInput {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]gemini.ImageInput(nil), f.imageCalls...)
}

func (f *fakeModel) detailedCall() (textCall, bool) {
	for _, c := range f.TextCalls() {
		if !isHookInstruction(c.Prompt) {
			return c, true
		}
	}
	return textCall{}, false
}

func isHookInstruction(prompt string) bool {
	return strings.Contains(prompt, "text overlay (2-4 words max)")
}
