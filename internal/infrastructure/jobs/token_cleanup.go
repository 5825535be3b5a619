package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"
	"shortlink.backend/pkg/logger"
)

type expiredTokenDeleter interface {
	DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error)
}

// DefaultTokenRetention keeps expired tokens around long enough that a late
// verification attempt still reports the link as expired
const DefaultTokenRetention = 7 * 24 * time.Hour

// TokenCleanupJob removes action tokens that expired without being used
// more than retention ago
type TokenCleanupJob struct {
	repo      expiredTokenDeleter
	retention time.Duration
	now       func() time.Time
}

func NewTokenCleanupJob(repo expiredTokenDeleter, retention time.Duration) *TokenCleanupJob {
	if retention < 0 {
		retention = DefaultTokenRetention
	}
	return &TokenCleanupJob{repo: repo, retention: retention, now: time.Now}
}

func (j *TokenCleanupJob) Name() string {
	return "action_token_cleanup"
}

func (j *TokenCleanupJob) Run(ctx context.Context) error {
	n, err := j.repo.DeleteExpired(ctx, j.now().Add(-j.retention))
	if err != nil {
		return err
	}
	if n > 0 {
		logger.Info(ctx, "Expired action tokens removed", zap.Int64("count", n))
	}
	return nil
}
