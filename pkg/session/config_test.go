package session

import "testing"

func TestConfigWithDefaultsFillsUnsetFields(t *testing.T) {
	cfg := Config{ScreenModule: clockScreen{}}.WithDefaults()

	if cfg.BatchWindowMs != DefaultBatchWindowMs {
		t.Errorf("BatchWindowMs = %d, want %d", cfg.BatchWindowMs, DefaultBatchWindowMs)
	}
	if cfg.MaxPendingOps != DefaultMaxPendingOps {
		t.Errorf("MaxPendingOps = %d, want %d", cfg.MaxPendingOps, DefaultMaxPendingOps)
	}
	if cfg.Scheduler == nil {
		t.Error("Scheduler = nil, want batcher.RealScheduler{}")
	}
	if cfg.Logger == nil {
		t.Error("Logger = nil, want slog.Default()")
	}
}

func TestConfigWithDefaultsPreservesExplicitValues(t *testing.T) {
	sched := &fakeScheduler{}
	cfg := Config{
		ScreenModule:  clockScreen{},
		BatchWindowMs: 250,
		MaxPendingOps: 10,
		Scheduler:     sched,
	}.WithDefaults()

	if cfg.BatchWindowMs != 250 {
		t.Errorf("BatchWindowMs = %d, want 250 (explicit value preserved)", cfg.BatchWindowMs)
	}
	if cfg.MaxPendingOps != 10 {
		t.Errorf("MaxPendingOps = %d, want 10 (explicit value preserved)", cfg.MaxPendingOps)
	}
	if cfg.Scheduler != sched {
		t.Error("Scheduler was replaced, want the explicit fake preserved")
	}
}
