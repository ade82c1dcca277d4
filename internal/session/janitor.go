package session

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// DefaultSweepSpec runs the sweep once a minute.
const DefaultSweepSpec = "@every 1m"

// Janitor periodically sweeps expired sessions out of a Store.
type Janitor struct {
	cron  *cron.Cron
	store *Store
	spec  string
	entry cron.EntryID
}

// NewJanitor creates a janitor that sweeps store on the cron spec. Specs use
// the six-field format with seconds, or a descriptor such as "@every 30s".
func NewJanitor(store *Store, spec string) *Janitor {
	if spec == "" {
		spec = DefaultSweepSpec
	}
	return &Janitor{
		cron:  cron.New(cron.WithSeconds()),
		store: store,
		spec:  spec,
	}
}

// Start schedules the sweep and starts the cron runner.
func (j *Janitor) Start() error {
	entry, err := j.cron.AddFunc(j.spec, j.sweep)
	if err != nil {
		return fmt.Errorf("scheduling session sweep %q: %w", j.spec, err)
	}
	j.entry = entry
	j.cron.Start()
	log.Info().Str("spec", j.spec).Msg("Import session janitor started")
	return nil
}

// Stop waits for a running sweep and stops the runner.
func (j *Janitor) Stop() {
	ctx := j.cron.Stop()
	<-ctx.Done()
	log.Info().Msg("Import session janitor stopped")
}

// NextRun returns when the next sweep is due, or nil before Start.
func (j *Janitor) NextRun() *time.Time {
	if j.entry == 0 {
		return nil
	}
	entry := j.cron.Entry(j.entry)
	if entry.Next.IsZero() {
		return nil
	}
	return &entry.Next
}

func (j *Janitor) sweep() {
	if n := j.store.Sweep(); n > 0 {
		log.Debug().Int("expired", n).Int("remaining", j.store.Len()).Msg("Expired import sessions")
	}
}
