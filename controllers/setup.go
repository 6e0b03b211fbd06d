package controllers

import (
	"github.com/zaidnahleh2581-boop/halalmapprime-sub000/gates"
)

var (
	gateEngine *gates.Engine
	clock      gates.Clock = gates.SystemClock()
)

// Configure injects the gate engine (and optionally a clock) before routes are
// served. Called once from main; tests substitute fakes here.
func Configure(engine *gates.Engine, clk gates.Clock) {
	gateEngine = engine
	if clk != nil {
		clock = clk
	}
}
