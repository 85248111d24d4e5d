package app

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/san-kum/capsim/internal/config"
	"github.com/san-kum/capsim/internal/frame"
)

// Comparison is one preset's run of a shared script.
type Comparison struct {
	Preset string
	Trace  []frame.SimState
}

// Final is the state after the last tick, or the zero state.
func (c Comparison) Final() frame.SimState {
	if len(c.Trace) == 0 {
		return frame.SimState{}
	}
	return c.Trace[len(c.Trace)-1]
}

// Compare plays the same script against every preset concurrently. Each
// run owns its session, so nothing is shared between goroutines. Results
// keep the order of presets.
func Compare(ctx context.Context, presets []string, segs []Segment, log *zap.Logger) ([]Comparison, error) {
	if log == nil {
		log = zap.NewNop()
	}
	results := make([]Comparison, len(presets))
	errs := make([]error, len(presets))

	var wg sync.WaitGroup
	for i, name := range presets {
		wg.Add(1)
		go func(idx int, name string) {
			defer wg.Done()
			if err := ctx.Err(); err != nil {
				errs[idx] = err
				return
			}
			cfg, err := config.GetPreset(name)
			if err != nil {
				errs[idx] = err
				return
			}
			h, err := NewHeadless(cfg, log.With(zap.String("preset", name)))
			if err != nil {
				errs[idx] = err
				return
			}
			results[idx] = Comparison{Preset: name, Trace: h.Run(segs)}
		}(i, name)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}
