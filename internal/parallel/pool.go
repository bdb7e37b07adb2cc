package parallel

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// StripeRows is the number of rows handed to a worker at a time. Stripe
// boundaries depend only on the image height, never on the worker count, so
// reductions that combine per-stripe partials in stripe order produce the
// same numbers regardless of how many goroutines ran.
const StripeRows = 32

// Pool runs row-striped work over an image on a bounded number of goroutines.
type Pool struct {
	workers int
}

// NewPool creates a pool with the specified number of workers
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Pool{workers: workers}
}

// Workers returns the concurrency limit
func (p *Pool) Workers() int {
	return p.workers
}

// StripeCount returns how many stripes a raster of the given height splits into
func StripeCount(height int) int {
	if height <= 0 {
		return 0
	}
	return (height + StripeRows - 1) / StripeRows
}

// Rows runs fn for every stripe of [0, height). fn receives the stripe index
// and the half-open row range [y0, y1). Stripes never overlap, so fn may
// write to rows it owns without locking.
//
// Cancellation is checked before each stripe starts; a canceled context
// stops scheduling and its error is returned.
func (p *Pool) Rows(ctx context.Context, height int, fn func(stripe, y0, y1 int)) error {
	stripes := StripeCount(height)
	if stripes == 0 {
		return ctx.Err()
	}

	// Small rasters are not worth a goroutine
	if stripes == 1 || p.workers == 1 {
		for s := 0; s < stripes; s++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			y0, y1 := bounds(s, height)
			fn(s, y0, y1)
		}
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)
	for s := 0; s < stripes; s++ {
		if gctx.Err() != nil {
			break
		}
		s := s
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			y0, y1 := bounds(s, height)
			fn(s, y0, y1)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

func bounds(stripe, height int) (int, int) {
	y0 := stripe * StripeRows
	y1 := y0 + StripeRows
	if y1 > height {
		y1 = height
	}
	return y0, y1
}
