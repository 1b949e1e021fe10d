package service

import (
	"context"
	"time"

	"hr_recruit_backend/internal/util"
	"hr_recruit_backend/pkg/logger"
	"hr_recruit_backend/pkg/monitoring"

	"go.uber.org/zap"
)

// DeadlinePolicy limits how long after the first attempt a user may keep
// working on a testing.
type DeadlinePolicy struct {
	attempts AttemptStore
	anchors  AnchorStore
	now      func() time.Time
}

func NewDeadlinePolicy(attempts AttemptStore, anchors AnchorStore, now func() time.Time) *DeadlinePolicy {
	if now == nil {
		now = time.Now
	}
	return &DeadlinePolicy{attempts: attempts, anchors: anchors, now: now}
}

// Check fails with BadRequest once now is past the first attempt plus
// allottedDays. A user with no attempts always passes.
func (p *DeadlinePolicy) Check(ctx context.Context, userID, testingID string, allottedDays int) error {
	anchor, ok, err := p.anchor(ctx, userID, testingID)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	deadline := anchor.Add(time.Duration(allottedDays) * 24 * time.Hour)
	if p.now().After(deadline) {
		monitoring.DeadlineRejections.Inc()
		logger.Log.Info("testing deadline passed",
			zap.String("user_id", userID),
			zap.String("testing_id", testingID),
			zap.Time("deadline", deadline),
		)
		return util.BadRequestf("testing time expired")
	}
	return nil
}

func (p *DeadlinePolicy) anchor(ctx context.Context, userID, testingID string) (time.Time, bool, error) {
	if p.anchors != nil {
		at, ok, err := p.anchors.Get(ctx, userID, testingID)
		if err != nil {
			logger.Log.Warn("anchor cache read failed", zap.Error(err))
		} else if ok {
			return at, true, nil
		}
	}

	first, err := p.attempts.FindFirst(ctx, userID, testingID)
	if err != nil {
		return time.Time{}, false, err
	}
	if first == nil {
		return time.Time{}, false, nil
	}

	if p.anchors != nil {
		if err := p.anchors.Set(ctx, userID, testingID, first.CreatedAt); err != nil {
			logger.Log.Warn("anchor cache write failed", zap.Error(err))
		}
	}
	return first.CreatedAt, true, nil
}
