package health

import (
	"context"
	"runtime"
	"time"

	"github.com/go-faster/errors"
)

// GoroutineCountCheck reports unhealthy when the goroutine count exceeds
// threshold. Useful as a liveness probe for goroutine leaks.
func GoroutineCountCheck(threshold int) CheckFunc {
	return func(_ context.Context) error {
		if count := runtime.NumGoroutine(); count > threshold {
			return errors.Errorf("goroutine count %d exceeds threshold %d", count, threshold)
		}
		return nil
	}
}

// Pinger is the subset of a connection pool needed for a readiness probe.
// *pgxpool.Pool satisfies it.
type Pinger interface {
	Ping(ctx context.Context) error
}

// DatabaseCheck reports unhealthy when the database does not answer a
// ping within the probe timeout.
func DatabaseCheck(db Pinger) CheckFunc {
	return func(ctx context.Context) error {
		if err := db.Ping(ctx); err != nil {
			return errors.Wrap(err, "database ping")
		}
		return nil
	}
}

// UptimeCheck reports healthy once the service has been up at least
// warmup. It gates readiness during startup bursts.
func UptimeCheck(start time.Time, warmup time.Duration) CheckFunc {
	return func(_ context.Context) error {
		if up := time.Since(start); up < warmup {
			return errors.Errorf("warming up: %s of %s", up, warmup)
		}
		return nil
	}
}
