package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/isaiahdw/projection/pkg/bridge"
	"github.com/isaiahdw/projection/pkg/protocol"
	"github.com/isaiahdw/projection/pkg/router"
	"github.com/isaiahdw/projection/pkg/session"
	"github.com/isaiahdw/projection/pkg/telemetry"
)

func runCmd() *cobra.Command {
	var (
		logLevel      string
		batchWindowMs int
		tickSeconds   int
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Serve a demo session over a length-framed JSON stream on stdio",
		Long: `run wires up a three-screen demo (clock, devices, settings) behind a
router with two navigation boundaries — "main" (clock, devices) and
"admin" (settings) — and serves the resulting session over a
length-framed JSON stream on stdin/stdout.

Connect a renderer (or a test harness speaking the same frame format)
to this process's stdin/stdout to drive it.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemo(logLevel, batchWindowMs, time.Duration(tickSeconds)*time.Second)
		},
	}

	cmd.Flags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	cmd.Flags().IntVar(&batchWindowMs, "batch-window-ms", 100, "patch coalescing window in milliseconds")
	cmd.Flags().IntVar(&tickSeconds, "tick-seconds", 1, "clock screen tick period in seconds (0 disables ticking)")

	return cmd
}

func demoTable() (*router.Table, error) {
	return router.New([]router.RouteDef{
		{Name: "clock", Path: "/", ScreenModule: "clock", ScreenSession: "main"},
		{Name: "devices", Path: "/devices", ScreenModule: "devices", ScreenSession: "main"},
		{Name: "settings", Path: "/admin/settings", ScreenModule: "settings", ScreenSession: "admin"},
	})
}

func runDemo(logLevel string, batchWindowMs int, tickPeriod time.Duration) error {
	logger := newLogger(logLevel)

	table, err := demoTable()
	if err != nil {
		return err
	}

	var sess *session.Session
	bridgeImpl := bridge.NewStreamBridge(stdioConn{}, func(env protocol.Envelope) {
		dispatchInbound(sess, env)
	}, logger)

	sess, err = session.New(session.Config{
		Table: table,
		Screens: session.Registry{
			"clock":    clockScreen{},
			"devices":  devicesScreen{},
			"settings": settingsScreen{},
		},
		AppTitle:      "projection-demo",
		Bridge:        bridgeImpl,
		BatchWindowMs: batchWindowMs,
		TickPeriod:    tickPeriod,
		Telemetry:     telemetry.New(logger),
		Logger:        logger,
	}.WithDefaults())
	if err != nil {
		return err
	}
	defer sess.Close()

	select {}
}

func dispatchInbound(sess *session.Session, env protocol.Envelope) {
	if sess == nil {
		return
	}
	switch e := env.(type) {
	case protocol.Ready:
		sess.HandleReady(e.Sid)
	case protocol.Intent:
		sess.HandleIntent(e.Name, e.ID, e.Payload)
	}
}
