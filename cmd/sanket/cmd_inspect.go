package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/sanket/config"
	"github.com/shashiranjanraj/sanket/pkg/emitter"
	"github.com/shashiranjanraj/sanket/pkg/inspect"
	"github.com/shashiranjanraj/sanket/pkg/logger"
)

// sanket inspect — serve the introspection/metrics endpoints over a demo
// registry that emits a heartbeat, so there is something to look at.
var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Serve the inspect HTTP surface over a demo registry",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Load(); err != nil {
			return err
		}

		reg := emitter.New(emitter.WithMaxListeners(config.EmitterMaxListeners()))

		if err := reg.On("heartbeat", func(event string, payload any) {
			logger.Debug("demo heartbeat", "tick", payload)
		}); err != nil {
			return err
		}

		go func() {
			tick := 0
			for range time.Tick(5 * time.Second) {
				tick++
				if err := reg.Emit("heartbeat", tick); err != nil {
					logger.Error("heartbeat emit failed", "error", err)
				}
			}
		}()

		return inspect.New(reg).Serve(config.InspectAddr())
	},
}
