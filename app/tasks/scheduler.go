package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"cntech-bot/app/cfg"
)

type TaskSchedulerInterface interface {
	Start()
	Stop()
	EnqueueTask(task TaskInterface) error
}

var _ TaskSchedulerInterface = (*Scheduler)(nil)

// Scheduler drives the two publish triggers: an interval ticker posting one
// article per tick, and a daily timer posting up to the configured batch at
// a fixed local time. Both enqueue tasks onto the same worker queue; the
// pipeline's run lock keeps overlapping triggers from racing.
type Scheduler struct {
	pipeline        runner
	intervalEnabled bool
	interval        time.Duration
	dailyEnabled    bool
	dailyHour       int
	dailyMinute     int
	dailyCount      int
	ctx             context.Context
	cancel          context.CancelFunc
	wg              sync.WaitGroup
	taskQueue       chan TaskInterface
}

func NewScheduler(pipeline runner) (*Scheduler, error) {
	c := cfg.Get()

	hour, minute, err := parsePublishTime(c.PublishTime)
	if err != nil {
		return nil, fmt.Errorf("invalid publish time %q: %w", c.PublishTime, err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Scheduler{
		pipeline:        pipeline,
		intervalEnabled: c.EnableIntervalPost,
		interval:        time.Duration(c.PublishInterval) * time.Minute,
		dailyEnabled:    c.EnableDailyPost,
		dailyHour:       hour,
		dailyMinute:     minute,
		dailyCount:      c.MaxArticlesPerDay,
		ctx:             ctx,
		cancel:          cancel,
		taskQueue:       make(chan TaskInterface, 16),
	}, nil
}

func (s *Scheduler) Start() {
	s.wg.Add(1)
	go s.worker()

	if s.intervalEnabled {
		s.wg.Add(1)
		go s.intervalLoop()
		slog.Info("Scheduled interval posting", "interval", s.interval.String())
	}

	if s.dailyEnabled {
		s.wg.Add(1)
		go s.dailyLoop()
		slog.Info("Scheduled daily posting", "time", fmt.Sprintf("%02d:%02d", s.dailyHour, s.dailyMinute), "max_articles", s.dailyCount)
	}
}

func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
	close(s.taskQueue)
}

func (s *Scheduler) EnqueueTask(task TaskInterface) error {
	select {
	case s.taskQueue <- task:
		return nil
	case <-s.ctx.Done():
		return s.ctx.Err()
	default:
		return fmt.Errorf("task queue is full")
	}
}

func (s *Scheduler) intervalLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			if err := s.EnqueueTask(NewIntervalPublishTask(s.pipeline)); err != nil {
				slog.Warn("Failed to enqueue interval publish task", "error", err)
			}
		}
	}
}

func (s *Scheduler) dailyLoop() {
	defer s.wg.Done()

	for {
		wait := time.Until(nextDailyRun(time.Now(), s.dailyHour, s.dailyMinute))
		timer := time.NewTimer(wait)

		select {
		case <-s.ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			if err := s.EnqueueTask(NewDailyPublishTask(s.pipeline, s.dailyCount)); err != nil {
				slog.Warn("Failed to enqueue daily publish task", "error", err)
			}
		}
	}
}

func (s *Scheduler) worker() {
	defer s.wg.Done()

	for {
		select {
		case task, ok := <-s.taskQueue:
			if !ok {
				return
			}
			s.executeTask(task)

		case <-s.ctx.Done():
			return
		}
	}
}

// executeTask runs one task with a timeout. Failures are logged and the
// task is dropped; publish work is never re-enqueued (see PublishTask).
func (s *Scheduler) executeTask(task TaskInterface) {
	task.Start()

	taskCtx, cancel := context.WithTimeout(s.ctx, 5*time.Minute)
	defer cancel()

	if err := task.Execute(taskCtx); err != nil {
		slog.Error("Task execution failed", "type", string(task.GetType()), "id", task.GetID(), "error", err)
	}
}

// parsePublishTime parses "HH:MM" into hour and minute.
func parsePublishTime(value string) (int, int, error) {
	parts := strings.Split(value, ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("expected HH:MM format")
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("invalid hour %q", parts[0])
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("invalid minute %q", parts[1])
	}

	return hour, minute, nil
}

// nextDailyRun returns the next occurrence of hour:minute after now, in
// now's location.
func nextDailyRun(now time.Time, hour, minute int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}
