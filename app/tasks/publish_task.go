package tasks

import (
	"context"
	"log/slog"
)

// runner is the slice of the pipeline a publish task needs.
type runner interface {
	Run(ctx context.Context, maxCount int)
}

// PublishTask triggers one pipeline run. A failed task is never re-enqueued:
// the pipeline already survives per-article failures, and re-running a
// partially delivered batch risks double-publishing. The next tick covers
// the gap.
type PublishTask struct {
	Task
	pipeline runner
	maxCount int
}

func NewIntervalPublishTask(pipeline runner) *PublishTask {
	return &PublishTask{
		Task:     NewTask(TaskTypeIntervalPublish),
		pipeline: pipeline,
		maxCount: 1,
	}
}

func NewDailyPublishTask(pipeline runner, maxCount int) *PublishTask {
	return &PublishTask{
		Task:     NewTask(TaskTypeDailyPublish),
		pipeline: pipeline,
		maxCount: maxCount,
	}
}

func (t *PublishTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	t.pipeline.Run(ctx, t.maxCount)

	slog.Info("Task completed",
		"type", t.GetType(),
		"max_count", t.maxCount,
		"duration", t.GetDuration())

	return nil
}
