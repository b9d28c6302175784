package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/sanket/config"
	"github.com/shashiranjanraj/sanket/pkg/emitter"
)

// message is the demo payload; listeners assert it back out of the emit.
type message struct {
	From string
	Body string
}

// sanket demo — the messenger walkthrough.
var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run the messenger demo (register, emit, once, removal)",
	RunE: func(cmd *cobra.Command, args []string) error {
		reg := emitter.New(
			emitter.WithMaxListeners(config.EmitterMaxListeners()),
			emitter.WithMetrics(false),
		)

		if err := reg.On("message", func(event string, payload any) {
			m := payload.(message)
			fmt.Printf("[%s] %s: %s\n", event, m.From, m.Body)
		}); err != nil {
			return err
		}

		if err := reg.Once("message", func(event string, payload any) {
			m := payload.(message)
			fmt.Printf("[%s] first message ever, welcome %s!\n", event, m.From)
		}); err != nil {
			return err
		}

		if err := reg.Emit("message", message{From: "asha", Body: "hello"}); err != nil {
			return err
		}
		// The once-listener is gone now; only the persistent one fires.
		if err := reg.Emit("message", message{From: "ravi", Body: "hi again"}); err != nil {
			return err
		}

		fmt.Println("known events:", reg.EventNames())
		fmt.Println("listeners on message:", reg.ListenerCount("message"))

		reg.RemoveAllListeners("message")
		// Still a known event — this is a silent no-op, not an error.
		if err := reg.Emit("message", message{From: "asha", Body: "anyone there?"}); err != nil {
			return err
		}
		fmt.Println("after removal:", reg.ListenerCount("message"), "listeners")

		return nil
	},
}
