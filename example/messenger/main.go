// Package main is a minimal consumer of the sanket emitter.
//
// To run this example:
//
//	go run ./example/messenger
package main

import (
	"fmt"

	"github.com/shashiranjanraj/sanket/pkg/emitter"
)

func main() {
	reg := emitter.New(emitter.WithMetrics(false))
	reg.SetMaxListeners(10)

	if err := reg.On("test", func(name string, payload any) {
		fmt.Printf("emitted: %s %v\n", name, payload)
	}); err != nil {
		panic(err)
	}

	if err := reg.Emit("test", "1"); err != nil {
		panic(err)
	}
}
