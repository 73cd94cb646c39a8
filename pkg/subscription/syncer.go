package subscription

import "log/slog"

// Action identifies which side of a subscription change the hook should
// perform.
type Action string

const (
	Subscribe   Action = "subscribe"
	Unsubscribe Action = "unsubscribe"
)

// Hook is the host-provided two-arity callback (§6.4). A non-nil error it
// returns is logged and otherwise ignored; a panic from the hook is caught
// and logged so one bad topic never takes down the session.
type Hook func(action Action, topic string) error

// Syncer maintains the set of topics currently subscribed and computes the
// subscribe/unsubscribe delta against a newly desired set.
type Syncer struct {
	hook    Hook
	logger  *slog.Logger
	current map[string]struct{}
}

// New returns a Syncer that calls hook for each topic transition. A nil
// logger falls back to slog.Default().
func New(hook Hook, logger *slog.Logger) *Syncer {
	return &Syncer{hook: hook, logger: logger, current: make(map[string]struct{})}
}

func (s *Syncer) log() *slog.Logger {
	if s.logger != nil {
		return s.logger
	}
	return slog.Default()
}

// Sync computes to_unsubscribe = current \ desired and to_subscribe =
// desired \ current, invokes the hook once per topic in each set, and
// updates the internal current set regardless of hook faults so the next
// Sync computes a correct delta (§4.7).
func (s *Syncer) Sync(desired []string) {
	want := make(map[string]struct{}, len(desired))
	for _, t := range desired {
		want[t] = struct{}{}
	}

	for t := range s.current {
		if _, ok := want[t]; !ok {
			s.invoke(Unsubscribe, t)
		}
	}
	for t := range want {
		if _, ok := s.current[t]; !ok {
			s.invoke(Subscribe, t)
		}
	}
	s.current = want
}

// Topics returns the currently subscribed set.
func (s *Syncer) Topics() []string {
	out := make([]string, 0, len(s.current))
	for t := range s.current {
		out = append(out, t)
	}
	return out
}

// Terminate unsubscribes from every topic in the current set, as on
// session shutdown (§4.12).
func (s *Syncer) Terminate() {
	for t := range s.current {
		s.invoke(Unsubscribe, t)
	}
	s.current = make(map[string]struct{})
}

func (s *Syncer) invoke(action Action, topic string) {
	defer func() {
		if r := recover(); r != nil {
			s.log().Warn("subscription hook panicked", "action", action, "topic", topic, "panic", r)
		}
	}()
	if s.hook == nil {
		return
	}
	if err := s.hook(action, topic); err != nil {
		s.log().Warn("subscription hook failed", "action", action, "topic", topic, "error", err)
	}
}
