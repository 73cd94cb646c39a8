package session

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/isaiahdw/projection/pkg/batcher"
	"github.com/isaiahdw/projection/pkg/bridge"
	"github.com/isaiahdw/projection/pkg/protocol"
	"github.com/isaiahdw/projection/pkg/router"
	"github.com/isaiahdw/projection/pkg/screen"
	"github.com/isaiahdw/projection/pkg/subscription"
	"github.com/isaiahdw/projection/pkg/telemetry"
	"github.com/isaiahdw/projection/pkg/vm"
)

const (
	intentRouteNavigate = "ui.route.navigate"
	intentRoutePatch    = "ui.route.patch"
	intentRouteBack     = "ui.back"
)

// Session is the per-connection state machine of §4.9.
type Session struct {
	appTitle string
	bridge   bridge.Bridge
	logger   *slog.Logger
	tel      *telemetry.Telemetry
	corrID   string

	table   *router.Table
	screens Registry
	nav     *router.Nav

	screenModule screen.Module
	screenName   string // route identity label; constant in single-screen mode
	screenAction string
	screenParams map[string]string
	screenSess   string
	screenState  *screen.State

	// identity of the last VM actually emitted, for scoped-diff identity
	// flip detection (§4.3).
	prevScreenName   string
	prevScreenAction string

	dispatcher *screen.Dispatcher
	subs       *subscription.Syncer
	batch      *batcher.Batcher

	sid   string
	rev   uint64
	curVM vm.Map

	tickPeriod time.Duration
	scheduler  batcher.Scheduler
	tickCancel batcher.Cancel
}

// New constructs a Session in router mode (Config.Table set) or
// single-screen mode (Config.ScreenModule set). It mounts the initial
// screen and performs the first render, but emits nothing: no sid is set
// until the first inbound ready (§4.9).
func New(cfg Config) (*Session, error) {
	routerMode := cfg.Table != nil
	singleMode := cfg.ScreenModule != nil
	if routerMode == singleMode {
		return nil, fmt.Errorf("%w: exactly one of Table or ScreenModule must be set", ErrInvalidConfig)
	}

	corrID := newCorrelationID()
	logger := cfg.logger().With("session", corrID)
	s := &Session{
		appTitle:   cfg.AppTitle,
		bridge:     cfg.Bridge,
		logger:     logger,
		tel:        cfg.Telemetry,
		corrID:     corrID,
		table:      cfg.Table,
		screens:    cfg.Screens,
		tickPeriod: cfg.TickPeriod,
		scheduler:  cfg.Scheduler,
	}
	if s.scheduler == nil {
		s.scheduler = batcher.RealScheduler{}
	}
	s.dispatcher = screen.NewDispatcher(logger)
	s.subs = subscription.New(cfg.SubscriptionHook, logger)
	s.batch = batcher.New(cfg.BatchWindowMs, cfg.MaxPendingOps, s.scheduler, s.onFlush)

	if routerMode {
		initialName := cfg.InitialRoute
		if initialName == "" {
			initialName = cfg.Table.DefaultRouteName()
		}
		nav, err := cfg.Table.InitialNav(initialName, cfg.InitialParams)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrNoInitialRoute, err)
		}
		s.nav = nav
		def, err := cfg.Table.Resolve(initialName)
		if err != nil {
			return nil, err
		}
		mod, ok := cfg.Screens[def.ScreenModule]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrMissingScreenModule, def.ScreenModule)
		}
		if err := s.mountScreen(mod, def.Name, def.Action, cfg.InitialParams, def.ScreenSession); err != nil {
			return nil, err
		}
	} else {
		if err := s.mountScreen(cfg.ScreenModule, "", "", nil, ""); err != nil {
			return nil, err
		}
	}

	s.syncSubscriptions()
	s.runUpdatePipeline(nil)
	return s, nil
}

// mountScreen runs the dispatcher's Mount hook and, on success, installs
// mod as the active screen.
func (s *Session) mountScreen(mod screen.Module, name, action string, params map[string]string, screenSession string) error {
	state, err := s.dispatcher.Mount(mod, params, screenSession)
	if err != nil {
		return err
	}
	s.screenModule = mod
	s.screenName = name
	s.screenAction = action
	s.screenParams = params
	s.screenSess = screenSession
	s.screenState = state
	return nil
}

func (s *Session) syncSubscriptions() {
	topics := s.dispatcher.Subscriptions(s.screenModule, s.screenParams, s.screenSess)
	s.subs.Sync(topics)
}

// HandleReady processes an inbound ready envelope (§4.9).
func (s *Session) HandleReady(incomingSid string) {
	s.batch.Clear()
	if s.sid == "" {
		s.sid = incomingSid
	}
	s.rev++
	s.send(protocol.Render{Sid: s.sid, Rev: s.rev, VM: s.curVM})
	if s.tickPeriod > 0 && s.tickCancel == nil {
		s.armTick()
	}
}

// HandleIntent processes an inbound intent envelope (§4.9).
func (s *Session) HandleIntent(name string, id *int64, payload map[string]any) {
	if payload == nil {
		payload = map[string]any{}
	}
	if s.tel != nil {
		s.tel.IntentReceived(s.sid, s.rev, s.screenName, name, id)
	}

	if s.table != nil {
		switch name {
		case intentRouteNavigate:
			s.handleNavigate(payload, id)
			return
		case intentRoutePatch:
			s.handleRoutePatch(payload, id)
			return
		case intentRouteBack:
			s.handleBack(id)
			return
		}
	}

	next := s.dispatcher.HandleEvent(s.screenModule, name, payload, s.screenState)
	s.screenState = next
	s.runUpdatePipeline(id)
}

func (s *Session) handleNavigate(payload map[string]any, ack *int64) {
	target, ok := payload["to"].(string)
	if !ok || target == "" {
		target, ok = payload["arg"].(string)
	}
	if !ok || target == "" {
		return
	}
	if s.table.ScreenSessionTransition(s.nav, target) {
		s.logger.Warn("blocked cross-boundary navigation", "to", target)
		return
	}
	params := stringifyParams(payload["params"])
	if err := s.table.Navigate(s.nav, target, params); err != nil {
		s.logger.Warn("navigate failed", "to", target, "error", err)
		return
	}
	def, err := s.table.Resolve(target)
	if err != nil {
		return
	}
	mod, ok2 := s.screens[def.ScreenModule]
	if !ok2 {
		s.logger.Warn("navigate target has no registered screen module", "screen_module", def.ScreenModule)
		return
	}
	if err := s.mountScreen(mod, def.Name, def.Action, params, def.ScreenSession); err != nil {
		s.logger.Warn("remount failed on navigate", "to", target, "error", err)
		return
	}
	s.syncSubscriptions()
	s.runUpdatePipeline(ack)
}

func (s *Session) handleRoutePatch(payload map[string]any, ack *int64) {
	params := stringifyParams(payload["params"])
	s.table.Patch(s.nav, params)
	merged := mergeStringMaps(s.screenParams, params)

	next, handled := s.dispatcher.HandleParams(s.screenModule, merged, s.screenState)
	if handled {
		s.screenState = next
		s.screenParams = merged
	} else {
		// Open question (b): a screen without handle_params is re-mounted.
		cur := s.nav.Current()
		if err := s.mountScreen(s.screenModule, cur.Name, s.screenAction, merged, s.screenSess); err != nil {
			s.logger.Warn("remount failed on route patch", "error", err)
			return
		}
	}
	s.syncSubscriptions()
	s.runUpdatePipeline(ack)
}

func (s *Session) handleBack(ack *int64) {
	if err := s.table.Back(s.nav); err != nil {
		s.logger.Warn("back failed", "error", err)
		return
	}
	cur := s.nav.Current()
	def, err := s.table.Resolve(cur.Name)
	if err != nil {
		return
	}
	mod, ok := s.screens[def.ScreenModule]
	if !ok {
		s.logger.Warn("back target has no registered screen module", "screen_module", def.ScreenModule)
		return
	}
	if err := s.mountScreen(mod, def.Name, def.Action, cur.Params, def.ScreenSession); err != nil {
		s.logger.Warn("remount failed on back", "error", err)
		return
	}
	s.syncSubscriptions()
	s.runUpdatePipeline(ack)
}

// runUpdatePipeline renders the active screen, diffs against the current
// VM, and enqueues the result into the batcher (§4.9 "Screen update
// pipeline").
func (s *Session) runUpdatePipeline(ack *int64) {
	changedFields := s.screenState.ChangedFields()
	s.screenState.ClearChanged()
	assigns := s.screenState.Assigns()

	start := time.Now()
	renderedSub, rErr := s.dispatcher.Render(s.screenModule, assigns)
	duration := time.Since(start)
	faulted := rErr != nil

	status := "ok"
	if faulted {
		status = "error"
	}
	if s.tel != nil {
		s.tel.RenderComplete(duration, status)
	}

	var nextVM vm.Map
	var paths []string
	unscoped := false

	if s.table != nil {
		navVM := s.table.ToVM(s.nav)
		if faulted {
			nextVM = errorVM(s.appTitle, navVM, rErr.Error(), s.screenName)
			unscoped = true
			s.prevScreenName, s.prevScreenAction = "error", "render_error"
			if s.tel != nil {
				s.tel.Error("render_exception", rErr.Error(), s.screenName)
			}
		} else {
			nextVM = composeRouterVM(s.appTitle, navVM, s.screenName, s.screenAction, renderedSub)
			identityChanged := s.prevScreenName != s.screenName || s.prevScreenAction != s.screenAction
			if identityChanged {
				paths = []string{"/app", "/nav", "/screen/name", "/screen/action", "/screen/vm"}
			} else {
				paths = append([]string{"/app", "/nav", "/screen/name", "/screen/action"}, fieldsToPaths("/screen/vm", changedFields)...)
			}
			s.prevScreenName, s.prevScreenAction = s.screenName, s.screenAction
		}
	} else {
		if faulted {
			nextVM = errorVM(s.appTitle, nil, rErr.Error(), s.screenName)
			unscoped = true
			s.prevScreenName = "error"
			if s.tel != nil {
				s.tel.Error("render_exception", rErr.Error(), s.screenName)
			}
		} else {
			nextVM = renderedSub
			paths = fieldsToPaths("", changedFields)
			// The previous VM was the error VM, whose shape is unrelated to
			// the screen's: diff the whole tree.
			unscoped = s.prevScreenName == "error"
			s.prevScreenName = ""
		}
	}

	var ops []vm.Op
	if unscoped {
		ops = vm.Diff(s.curVM, nextVM)
	} else {
		ops = vm.DiffAtPaths(s.curVM, nextVM, paths)
	}
	s.curVM = nextVM

	if len(ops) == 0 || s.sid == "" {
		return
	}
	s.batch.Enqueue(ops, ack)
}

func fieldsToPaths(prefix string, fields []string) []string {
	paths := make([]string, len(fields))
	for i, f := range fields {
		paths[i] = prefix + "/" + f
	}
	return paths
}

// onFlush is the batcher's flush callback: it builds and sends the patch
// envelope, advancing rev exactly once per emission (§4.8).
func (s *Session) onFlush(ops []vm.Op, ack *int64) {
	s.rev++
	if s.tel != nil {
		s.tel.PatchSent(s.screenName, len(ops), ack)
	}
	s.send(protocol.Patch{Sid: s.sid, Rev: s.rev, Ops: ops, Ack: ack})
}

func (s *Session) send(env protocol.Envelope) {
	if s.bridge == nil {
		return
	}
	if err := s.bridge.Send(env); err != nil {
		s.logger.Warn("bridge send failed", "error", err)
	}
}

func (s *Session) armTick() {
	s.tickCancel = s.scheduler.Schedule(s.tickPeriod, s.onTick)
}

func (s *Session) onTick() {
	s.tickCancel = nil
	next := s.dispatcher.HandleInfo(s.screenModule, "tick", s.screenState)
	s.screenState = next
	s.runUpdatePipeline(nil)
	if s.tickPeriod > 0 {
		s.armTick()
	}
}

// Close tears down the session: it cancels the flush timer, unsubscribes
// from every topic in the current subscription set, and discards any
// pending patch (§4.9 "Cancellation & shutdown").
func (s *Session) Close() {
	if s.tickCancel != nil {
		s.tickCancel()
		s.tickCancel = nil
	}
	s.batch.Clear()
	s.subs.Terminate()
	if s.bridge != nil {
		_ = s.bridge.Close()
	}
}

func mergeStringMaps(base, patch map[string]string) map[string]string {
	out := make(map[string]string, len(base)+len(patch))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range patch {
		out[k] = v
	}
	return out
}

// stringifyParams coerces a loosely-typed params payload (as decoded from
// JSON, map[string]any) into map[string]string, dropping non-string
// values rather than failing the intent.
func stringifyParams(raw any) map[string]string {
	m, ok := raw.(map[string]any)
	if !ok {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		if s, ok := v.(string); ok {
			out[k] = s
		}
	}
	return out
}
