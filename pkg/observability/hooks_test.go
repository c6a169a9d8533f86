package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	e := NoopEditorHooks{}
	e.OnSaveStart(ctx, "p1")
	e.OnSaveComplete(ctx, "p1", 3, time.Second, nil)

	r := NoopRenderHooks{}
	r.OnRenderStart(ctx, "svg", 10)
	r.OnRenderComplete(ctx, "svg", 2048, time.Second, nil)

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "diagram")
	c.OnCacheMiss(ctx, "diagram")
	c.OnCacheSet(ctx, "diagram", 1024)
}

type recordingCacheHooks struct {
	hits, misses, sets int
}

func (h *recordingCacheHooks) OnCacheHit(context.Context, string)      { h.hits++ }
func (h *recordingCacheHooks) OnCacheMiss(context.Context, string)     { h.misses++ }
func (h *recordingCacheHooks) OnCacheSet(context.Context, string, int) { h.sets++ }

func TestSetAndResetHooks(t *testing.T) {
	defer Reset()

	rec := &recordingCacheHooks{}
	SetCacheHooks(rec)
	Cache().OnCacheHit(context.Background(), "diagram")
	Cache().OnCacheMiss(context.Background(), "diagram")
	if rec.hits != 1 || rec.misses != 1 {
		t.Errorf("hooks not invoked: hits=%d misses=%d", rec.hits, rec.misses)
	}

	Reset()
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Reset did not restore noop cache hooks")
	}
}

func TestSetHooks_NilIgnored(t *testing.T) {
	defer Reset()
	SetCacheHooks(nil)
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("nil registration should keep the noop implementation")
	}
}
