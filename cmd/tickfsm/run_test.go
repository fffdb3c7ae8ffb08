package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comalice/tickfsm/internal/primitives"
	"github.com/comalice/tickfsm/internal/production"
)

func testLogger(t *testing.T) zerolog.Logger {
	return zerolog.New(zerolog.NewTestWriter(t))
}

// toggle flips between two states on every tick.
func toggle() primitives.MachineConfig {
	return primitives.MachineConfig{
		ID:      "toggle",
		Initial: "a",
		States: []*primitives.StateConfig{
			primitives.NewStateConfig("a").WithAction("set on=true").When("on", "b"),
			primitives.NewStateConfig("b").WithAction("set on=false").When("!on", "a"),
		},
	}
}

func TestRunStopsAfterMaxTicks(t *testing.T) {
	var out bytes.Buffer
	cfg := runConfig{TickRate: time.Millisecond, MaxTicks: 10, Trace: true, MachineID: "sw"}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, run(ctx, cfg, toggle(), &out))

	var steps []production.PublishedStep
	sc := bufio.NewScanner(&out)
	for sc.Scan() {
		var s production.PublishedStep
		require.NoError(t, json.Unmarshal(sc.Bytes(), &s))
		steps = append(steps, s)
	}
	require.GreaterOrEqual(t, len(steps), 10)
	assert.Equal(t, "sw", steps[0].MachineID)
	assert.Equal(t, "a", steps[0].From)
	assert.Equal(t, "b", steps[0].To)
	assert.Equal(t, "a", steps[1].To)
}

// TestRunWithHTTPShutsDown runs the HTTP server next to the tick loop; under
// -race it also checks that nothing reads the machine outside the loop.
func TestRunWithHTTPShutsDown(t *testing.T) {
	cfg := runConfig{TickRate: time.Millisecond, MaxTicks: 20, HTTPAddr: "127.0.0.1:0"}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, run(ctx, cfg, toggle(), &bytes.Buffer{}))
	require.NoError(t, ctx.Err(), "run should stop at the tick limit, not the timeout")
}

func TestRunRejectsUnknownAction(t *testing.T) {
	mc := toggle()
	mc.States[0].Action = "explode"
	err := run(context.Background(), runConfig{TickRate: time.Millisecond}, mc, &bytes.Buffer{})
	assert.Error(t, err)
}

func TestRootCommandValidate(t *testing.T) {
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"validate", "testdata/thermostat.yaml"})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "thermostat: 3 states")
}

func TestRootCommandDot(t *testing.T) {
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"dot", "--highlight", "heating", "testdata/thermostat.yaml"})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), `"heating" -> "cooldown" [label="2: after 30s" style=dashed];`)
}
