package session

import "errors"

// ErrNoInitialRoute is returned by New in router mode when the initial
// route (Config.InitialRoute, or the table's default route when that is
// empty) is not in the table.
var ErrNoInitialRoute = errors.New("session: no initial route")

// ErrMissingScreenModule is returned by New in router mode when the initial
// route names a screen module absent from the registry. A navigate or back
// whose target module is absent is logged and ignored instead.
var ErrMissingScreenModule = errors.New("session: missing screen module")

// ErrInvalidConfig is returned by New when the Config is internally
// inconsistent (e.g. both or neither of Table/ScreenModule set).
var ErrInvalidConfig = errors.New("session: invalid config")
