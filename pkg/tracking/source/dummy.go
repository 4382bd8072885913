package source

import (
	"context"
	"time"

	"github.com/avosc/avosc/internal/config"
)

// Dummy produces nothing. It exists so the pipeline, dashboard and wire
// protocol can run without any tracking hardware attached.
type Dummy struct {
	base
}

var _ Source = (*Dummy)(nil)

// NewDummy builds the no-op adapter.
func NewDummy() *Dummy {
	return &Dummy{base: newBase(config.SourceDummy, 1, time.Second)}
}

// Run blocks until ctx is canceled.
func (d *Dummy) Run(ctx context.Context) error {
	<-ctx.Done()
	return ctx.Err()
}
