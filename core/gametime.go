package core

// NewGameClock creates a game clock ticking game at cfg.TicksPerSecond
func NewGameClock(cfg TimeConfiguration, game Game) *GameClock {
	tps := cfg.TicksPerSecond
	if tps <= 0 {
		tps = DefaultTicksPerSecond
	}
	maxTicks := cfg.MaxTicks
	if maxTicks <= 0 {
		maxTicks = DefaultMaxTicks
	}
	return &GameClock{
		game:     game,
		tick:     1 / float32(tps),
		maxTicks: maxTicks,
		noTick:   cfg.NoTick,
	}
}

// GameClock turns variable frame times into fixed simulation ticks
type GameClock struct {
	game     Game
	tick     float32
	time     float32
	maxTicks int
	noTick   bool
}

// Add accumulates elapsed seconds and runs as many ticks as fit,
// capped so a long stall does not freeze the frame loop
func (c *GameClock) Add(elapsed float32) {
	if !c.noTick {
		c.time += elapsed
	}

	for ticks := 0; c.time >= c.tick && ticks < c.maxTicks; ticks++ {
		c.game.OnTick()
		c.time -= c.tick
	}
}

// FramePrediction is the fraction of a tick accumulated but not yet simulated
func (c *GameClock) FramePrediction() float32 {
	return c.time / c.tick
}

// Tick returns the length of one tick in seconds
func (c *GameClock) Tick() float32 {
	return c.tick
}
