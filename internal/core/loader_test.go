package core

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comalice/tickfsm"
	"github.com/comalice/tickfsm/internal/extensibility"
	"github.com/comalice/tickfsm/internal/primitives"
	"github.com/comalice/tickfsm/testutil"
)

func thermostat() primitives.MachineConfig {
	return primitives.NewMachineBuilder("thermostat", "idle").
		State("idle").When("temp < 18", "heating").
		State("heating").Action("incr heat_ticks").When("temp >= 21", "idle").After(30*time.Second, "cooldown").
		State("cooldown").Action("set fan=true").After(5*time.Second, "idle").
		Done().Build()
}

func TestLoadIndicesFollowConfigOrder(t *testing.T) {
	m, err := Load(thermostat())
	require.NoError(t, err)

	for i, id := range []string{"idle", "heating", "cooldown"} {
		idx, ok := m.IndexOf(id)
		require.True(t, ok)
		assert.Equal(t, tickfsm.StateIndex(i), idx)
		assert.Equal(t, id, m.NameOf(idx))
	}
	assert.Equal(t, "idle", m.CurrentName())
	assert.Equal(t, "", m.NameOf(7))
	assert.Equal(t, "thermostat", m.Config().ID)
}

func TestLoadedThermostatRuns(t *testing.T) {
	clock := testutil.NewManualClock(0)
	m, err := Load(thermostat(), WithMachineOptions(tickfsm.WithClock(clock)))
	require.NoError(t, err)

	ctx := m.Ctx()
	ctx.Set("temp", 20.0)

	tick := func(at tickfsm.Millis) string {
		t.Helper()
		clock.Set(at)
		_, err := m.Tick()
		require.NoError(t, err)
		return m.CurrentName()
	}

	assert.Equal(t, "idle", tick(0))
	ctx.Set("temp", 17.5)
	assert.Equal(t, "heating", tick(100))
	assert.Equal(t, "heating", tick(200)) // entry: arms the 30s timer
	assert.Equal(t, "heating", tick(30_200))
	assert.Equal(t, "cooldown", tick(30_201))

	v, _ := ctx.Get("heat_ticks")
	assert.Equal(t, 3.0, v)

	assert.Equal(t, "cooldown", tick(30_300))
	fan, _ := ctx.Get("fan")
	assert.Equal(t, true, fan)
	assert.Equal(t, "idle", tick(35_301))
}

func TestLoadWithCustomExtensibility(t *testing.T) {
	ctx := primitives.NewContext()
	pumped := 0
	guards := extensibility.NewNamedGuards().Register("tank_low", func() bool { return true })
	actions := extensibility.NewNamedActions(ctx, testLogger(t)).Register("pump", func() { pumped++ })

	cfg := primitives.NewMachineBuilder("tank", "fill").
		State("fill").Action("pump").When("tank_low", "fill").
		Done().Build()

	m, err := Load(cfg,
		WithContext(ctx),
		WithGuardEvaluator(extensibility.NewExpressionGuardEvaluator(ctx, guards)),
		WithActionRunner(actions),
		WithMachineOptions(tickfsm.WithClock(testutil.NewManualClock(0))),
	)
	require.NoError(t, err)
	assert.Same(t, ctx, m.Ctx())

	for i := 0; i < 3; i++ {
		_, err := m.Tick()
		require.NoError(t, err)
	}
	assert.Equal(t, 3, pumped)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		cfg  primitives.MachineConfig
		want string
	}{
		{
			name: "invalid config",
			cfg:  primitives.MachineConfig{ID: "x"},
			want: "invalid config",
		},
		{
			name: "unknown action",
			cfg:  primitives.NewMachineBuilder("m", "a").State("a").Action("explode").Done().Build(),
			want: `action "explode" not registered`,
		},
		{
			name: "bad guard",
			cfg:  primitives.NewMachineBuilder("m", "a").State("a").When("temp ~ 3", "a").Done().Build(),
			want: `state "a" transition 0`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.cfg)
			require.Error(t, err)
			assert.True(t, strings.Contains(err.Error(), tt.want), err.Error())
		})
	}
}
