package engine

import "time"

// Options represents configuration options for the Engine.
type Options struct {
	// CheckpointInterval is how often a verified snapshot is stored. Zero disables the loop.
	CheckpointInterval time.Duration
	// RelayInterval is how often pending events are published. Zero disables the loop.
	RelayInterval  time.Duration
	RelayBatchSize int
	// Clock stamps commands. Defaults to time.Now.
	Clock func() time.Time
}

// DefaultEngineOptions returns the default engine options.
func DefaultEngineOptions() *Options {
	return &Options{
		CheckpointInterval: 30 * time.Second,
		RelayInterval:      500 * time.Millisecond,
		RelayBatchSize:     256,
		Clock:              time.Now,
	}
}
