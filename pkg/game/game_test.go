package game

import (
	"context"
	"testing"
	"time"

	"github.com/cbodonnell/stride/pkg/collisions"
	"github.com/cbodonnell/stride/pkg/config"
	"github.com/cbodonnell/stride/pkg/input"
	"github.com/cbodonnell/stride/pkg/locomotion"
	"github.com/cbodonnell/stride/pkg/queue"
	"github.com/cbodonnell/stride/pkg/repositories/models"
	"github.com/cbodonnell/stride/pkg/state"
	"github.com/cbodonnell/stride/pkg/workers"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCharacter(t *testing.T, inputs ...locomotion.Input) (*Character, *collisions.Level) {
	t.Helper()
	cfg := config.Default()
	level, err := collisions.NewLevel(cfg.Level)
	require.NoError(t, err)

	sampler := input.NewScriptSampler(queue.NewInMemoryQueue[locomotion.Input](0))
	require.NoError(t, sampler.Push(inputs...))

	c, err := Spawn(level, cfg, sampler)
	require.NoError(t, err)
	return c, level
}

func repeat(in locomotion.Input, n int) []locomotion.Input {
	inputs := make([]locomotion.Input, n)
	for i := range inputs {
		inputs[i] = in
	}
	return inputs
}

func TestNewCharacter_Required(t *testing.T) {
	c, _ := newTestCharacter(t)
	sampler := input.NewScriptSampler(queue.NewInMemoryQueue[locomotion.Input](1))

	_, err := NewCharacter(nil, c.Body(), sampler)
	assert.Error(t, err)
	_, err = NewCharacter(c.Controller(), nil, sampler)
	assert.Error(t, err)
	_, err = NewCharacter(c.Controller(), c.Body(), nil)
	assert.Error(t, err)
}

func TestCharacter_Spawn(t *testing.T) {
	c, level := newTestCharacter(t)
	state := c.State()
	assert.Equal(t, level.Spawn, state.Position)
	assert.True(t, state.Grounded)
	assert.Equal(t, locomotion.StanceStanding, state.Stance)
	assert.InDelta(t, 0, state.Heading, 1e-9)
}

func TestCharacter_Walk(t *testing.T) {
	c, level := newTestCharacter(t, repeat(locomotion.Input{Forward: 1}, 10)...)
	for i := 0; i < 10; i++ {
		c.Tick(0.05)
	}

	state := c.State()
	assert.InDelta(t, level.Spawn.X(), state.Position.X(), 1e-9)
	assert.InDelta(t, level.Spawn.Y(), state.Position.Y(), 1e-9)
	assert.InDelta(t, level.Spawn.Z()+1.5, state.Position.Z(), 1e-9)
	assert.True(t, state.Grounded)
}

func TestCharacter_WalkIntoWall(t *testing.T) {
	c, _ := newTestCharacter(t, repeat(locomotion.Input{Forward: -1, Sprint: true}, 40)...)
	for i := 0; i < 40; i++ {
		c.Tick(0.05)
	}

	// the near wall ends at z=1 and the body radius is 0.3
	assert.InDelta(t, 1.3, c.State().Position.Z(), 1e-9)
}

func TestCharacter_Jump(t *testing.T) {
	c, level := newTestCharacter(t, locomotion.Input{Jump: true})

	c.Tick(0.05)
	assert.True(t, c.LastOutput().Jumped)
	assert.InDelta(t, level.Spawn.Y()+0.4, c.State().Position.Y(), 1e-9)
	assert.False(t, c.State().Grounded)

	for i := 0; i < 40; i++ {
		c.Tick(0.05)
	}
	state := c.State()
	assert.True(t, state.Grounded)
	assert.InDelta(t, level.Spawn.Y(), state.Position.Y(), 1e-9)
	assert.Equal(t, 0.0, state.Velocity.Y())
}

func TestCharacter_Crouch(t *testing.T) {
	c, _ := newTestCharacter(t, locomotion.Input{Crouch: true})

	for i := 0; i < 5; i++ {
		c.Tick(0.05)
		assert.True(t, c.State().Transitioning, "tick %d", i)
	}
	c.Tick(0.05)

	state := c.State()
	assert.False(t, state.Transitioning)
	assert.Equal(t, locomotion.StanceCrouching, state.Stance)
	assert.Equal(t, 0.5, state.Collider.Height)
	assert.True(t, state.Grounded)
	assert.InDelta(t, 0, c.Body().Bounds().Min.Y(), 1e-9)
}

func TestCharacter_MoveDisabled(t *testing.T) {
	c, level := newTestCharacter(t, repeat(locomotion.Input{Forward: 1, LookX: 10}, 5)...)
	c.SetMoveEnabled(false)
	for i := 0; i < 5; i++ {
		c.Tick(0.05)
	}

	state := c.State()
	assert.Equal(t, level.Spawn, state.Position)
	assert.InDelta(t, 0, state.Heading, 1e-9)
}

func TestNewGameManager(t *testing.T) {
	level, err := collisions.NewLevel(collisions.DefaultLevelConfig())
	require.NoError(t, err)

	tests := []struct {
		name    string
		opts    NewGameManagerOptions
		wantErr bool
	}{
		{name: "valid", opts: NewGameManagerOptions{Level: level, GameLoopInterval: time.Second / 60}},
		{name: "missing level", opts: NewGameManagerOptions{GameLoopInterval: time.Second}, wantErr: true},
		{name: "zero interval", opts: NewGameManagerOptions{Level: level}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gm, err := NewGameManager(tt.opts)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, level, gm.Level())
		})
	}
}

func TestGameManager_Run(t *testing.T) {
	cfg := config.Default()
	level, err := collisions.NewLevel(cfg.Level)
	require.NoError(t, err)
	gm, err := NewGameManager(NewGameManagerOptions{Level: level, GameLoopInterval: cfg.Loop.TickInterval()})
	require.NoError(t, err)

	walker := input.NewScriptSampler(queue.NewInMemoryQueue[locomotion.Input](0))
	require.NoError(t, walker.Push(repeat(locomotion.Input{Right: 1}, 4)...))
	a, err := Spawn(level, cfg, walker)
	require.NoError(t, err)
	b, err := Spawn(level, cfg, input.NewScriptSampler(queue.NewInMemoryQueue[locomotion.Input](0)))
	require.NoError(t, err)
	gm.Add(a)
	gm.Add(b)
	require.Len(t, gm.Characters(), 2)

	gm.Run(4, 0.05)
	assert.Equal(t, uint64(4), gm.Ticks())
	assert.InDelta(t, level.Spawn.X()+0.6, a.State().Position.X(), 1e-9)
	assert.Equal(t, level.Spawn, b.State().Position)

	assert.True(t, gm.Remove(a.ID))
	assert.False(t, gm.Remove(a.ID))
	assert.Equal(t, []*Character{b}, gm.Characters())

	gm.Stop()
	assert.Empty(t, gm.Characters())
}

func TestGameManager_Start(t *testing.T) {
	level, err := collisions.NewLevel(collisions.DefaultLevelConfig())
	require.NoError(t, err)
	gm, err := NewGameManager(NewGameManagerOptions{Level: level, GameLoopInterval: time.Millisecond})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	require.NoError(t, gm.Start(ctx))
	assert.Greater(t, gm.Ticks(), uint64(0))
}

func TestCharacter_CameraFollowsPitch(t *testing.T) {
	c, _ := newTestCharacter(t, locomotion.Input{LookY: 10})
	c.Tick(0.05)

	// looking up 20 degrees
	dir := c.Body().LookDirection()
	assert.InDelta(t, -20, c.State().Pitch, 1e-9)
	assert.Greater(t, dir.Y(), 0.0)
	assert.True(t, mgl64.FloatEqualThreshold(dir.Len(), 1, 1e-9))
}

func TestGameManager_PublishesAndSaves(t *testing.T) {
	cfg := config.Default()
	level, err := collisions.NewLevel(cfg.Level)
	require.NoError(t, err)

	stateManager := state.NewInMemoryStateManager()
	saves := make(chan workers.SaveCharacterStateRequest, 4)
	gm, err := NewGameManager(NewGameManagerOptions{
		Level:                  level,
		StateManager:           stateManager,
		SaveCharacterStateChan: saves,
		GameLoopInterval:       cfg.Loop.TickInterval(),
	})
	require.NoError(t, err)

	player, err := Spawn(level, cfg, input.NewScriptSampler(queue.NewInMemoryQueue[locomotion.Input](0)))
	require.NoError(t, err)
	player.Name = "player"
	npc, err := Spawn(level, cfg, input.NewScriptSampler(queue.NewInMemoryQueue[locomotion.Input](0)))
	require.NoError(t, err)
	gm.Add(player)
	gm.Add(npc)

	gm.Run(2, 0.05)
	published, err := stateManager.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(2), published.Tick)
	require.Len(t, published.Characters, 2)
	assert.Equal(t, player.State(), published.Characters[0])
	assert.Equal(t, gm.Snapshot().Characters, published.Characters)

	gm.Stop()
	require.Len(t, saves, 1, "only named characters are saved")
	saved := <-saves
	assert.Equal(t, "player", saved.CharacterState.Name)
	assert.Equal(t, level.Spawn, saved.CharacterState.Position)
}

func TestCharacter_Restore(t *testing.T) {
	c, _ := newTestCharacter(t, locomotion.Input{Forward: 1})
	c.Restore(&models.Character{Name: "player", X: 23, Y: 2, Z: 23, Heading: 90, Pitch: 15})

	state := c.State()
	assert.Equal(t, mgl64.Vec3{23, 2, 23}, state.Position)
	assert.True(t, state.Grounded, "restored on top of the platform")
	assert.InDelta(t, 90, state.Heading, 1e-9)
	assert.Equal(t, 15.0, state.Pitch)

	c.Tick(0.05)
	assert.InDelta(t, 23.15, c.State().Position.X(), 1e-9)
}

func TestCharacter_StandUpBlockedInCrawlspace(t *testing.T) {
	var inputs []locomotion.Input
	inputs = append(inputs, repeat(locomotion.Input{Forward: 1}, 100)...)
	inputs = append(inputs, locomotion.Input{Crouch: true})
	inputs = append(inputs, repeat(locomotion.Input{}, 5)...)
	inputs = append(inputs, repeat(locomotion.Input{Right: -1}, 60)...)
	inputs = append(inputs, locomotion.Input{Crouch: true})
	inputs = append(inputs, repeat(locomotion.Input{}, 10)...)
	inputs = append(inputs, repeat(locomotion.Input{Right: 1}, 60)...)
	inputs = append(inputs, locomotion.Input{Crouch: true})
	inputs = append(inputs, repeat(locomotion.Input{}, 5)...)
	c, _ := newTestCharacter(t, inputs...)

	tickN := func(n int) {
		for i := 0; i < n; i++ {
			c.Tick(0.05)
		}
	}

	tickN(100)
	require.InDelta(t, 23, c.State().Position.Z(), 1e-9)
	tickN(6)
	require.Equal(t, locomotion.StanceCrouching, c.State().Stance)

	// crawl under the roof spanning x 6..12 at y 1.2
	tickN(60)
	state := c.State()
	require.InDelta(t, 11.5, state.Position.X(), 1e-9)
	require.True(t, state.Grounded)
	require.True(t, c.Body().HeadroomBlocked(c.Controller().Config().HeadroomProbeDistance))

	tickN(11)
	state = c.State()
	assert.Equal(t, locomotion.StanceCrouching, state.Stance)
	assert.False(t, state.Transitioning)
	assert.Equal(t, 0.5, state.Collider.Height)

	// back out in the open, standing up succeeds
	tickN(60)
	require.InDelta(t, 16, c.State().Position.X(), 1e-9)
	tickN(6)
	state = c.State()
	assert.Equal(t, locomotion.StanceStanding, state.Stance)
	assert.Equal(t, 2.0, state.Collider.Height)
	assert.InDelta(t, 0, c.Body().Bounds().Min.Y(), 1e-9)
}
