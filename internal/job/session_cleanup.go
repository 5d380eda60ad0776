package job

import (
	"context"
	"time"

	"go.uber.org/zap"
)

type SessionCleaner interface {
	CleanupSessions(ctx context.Context) (int64, error)
}

// SessionCleanup deletes expired and long revoked refresh sessions.
func SessionCleanup(cleaner SessionCleaner, timeout time.Duration, log *zap.Logger) func() {
	log = log.With(zap.String("job", "session_cleanup"))

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		start := time.Now()
		deleted, err := cleaner.CleanupSessions(ctx)
		if err != nil {
			log.Error("Session cleanup failed", zap.Error(err))
			return
		}

		log.Info("Session cleanup finished",
			zap.Int64("deleted", deleted),
			zap.Duration("took", time.Since(start)),
		)
	}
}
