package service

import (
	"context"
	"sync"
)

type call struct {
	kind   string // "classify", "enrich" or "image"
	system string
	user   string
}

// recorder is a fake provider that logs every call in order.
type recorder struct {
	mu    sync.Mutex
	calls []call

	classifyOut string
	classifyErr error
	enrichOut   string
	enrichErr   error
	imageOut    string
	imageErr    error
}

func (r *recorder) CompleteText(_ context.Context, system, user string, json bool) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if json {
		r.calls = append(r.calls, call{kind: "classify", system: system, user: user})
		return r.classifyOut, r.classifyErr
	}
	r.calls = append(r.calls, call{kind: "enrich", system: system, user: user})
	return r.enrichOut, r.enrichErr
}

func (r *recorder) GenerateImage(_ context.Context, prompt string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, call{kind: "image", user: prompt})
	return r.imageOut, r.imageErr
}

func (r *recorder) kinds() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.calls))
	for _, c := range r.calls {
		out = append(out, c.kind)
	}
	return out
}
