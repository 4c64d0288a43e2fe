//go:build wasm

package internal

import "sync"

var once sync.Once
var globalRuntime *Runtime

func GetRuntime() *Runtime {
	once.Do(func() {
		globalRuntime = NewRuntime(DefaultConfig())
	})

	return globalRuntime
}

// wasm runs a single goroutine as far as the runtime is concerned.
func getGID() int64 {
	return 0
}
