package session

import (
	"context"
	"log"
	"time"
)

const defaultJanitorInterval = 15 * time.Minute

// RunJanitor deletes expired sessions every interval until ctx is done. A
// non-positive interval uses the default.
func RunJanitor(ctx context.Context, repo Repository, interval time.Duration, logger *log.Logger) {
	if interval <= 0 {
		interval = defaultJanitorInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := repo.DeleteExpired(ctx)
			if err != nil {
				logger.Printf("session janitor: %v", err)
				continue
			}
			if n > 0 {
				logger.Printf("session janitor: removed %d expired sessions", n)
			}
		}
	}
}
