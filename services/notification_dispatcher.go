package services

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"inzichtCoachAPI/internal/metrics"
	"inzichtCoachAPI/internal/notification"
)

type PushNotificationProvider interface {
	SendPush(ctx context.Context, tokens []notification.DeviceToken, title, body string, data map[string]any) error
}

// deliveryRecorder persists the outcome of a dispatch job.
type deliveryRecorder interface {
	markAsSent(ctx context.Context, notificationID uuid.UUID)
	markAsFailed(ctx context.Context, notificationID uuid.UUID, err error)
}

type DispatchJob struct {
	Notification *notification.Notification
	Tokens       []notification.DeviceToken
}

// NotificationDispatcher delivers notifications on a fixed pool of workers.
type NotificationDispatcher struct {
	recorder       deliveryRecorder
	pushProvider   PushNotificationProvider
	workers        int
	enqueueTimeout time.Duration
	jobQueue       chan *DispatchJob
	stopChan       chan struct{}
	stopOnce       sync.Once
	wg             sync.WaitGroup
	mu             sync.RWMutex
}

func NewNotificationDispatcher(recorder deliveryRecorder, workers, queueSize int) *NotificationDispatcher {
	d := &NotificationDispatcher{
		recorder:       recorder,
		workers:        workers,
		enqueueTimeout: 5 * time.Second,
		jobQueue:       make(chan *DispatchJob, queueSize),
		stopChan:       make(chan struct{}),
	}

	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.worker()
	}
	return d
}

func (d *NotificationDispatcher) SetPushProvider(provider PushNotificationProvider) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.pushProvider = provider
}

func (d *NotificationDispatcher) provider() PushNotificationProvider {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.pushProvider
}

func (d *NotificationDispatcher) worker() {
	defer d.wg.Done()
	for {
		select {
		case job := <-d.jobQueue:
			d.processJob(job)
		case <-d.stopChan:
			return
		}
	}
}

func (d *NotificationDispatcher) processJob(job *DispatchJob) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	notif := job.Notification
	push := d.provider()

	if push != nil && len(job.Tokens) > 0 {
		if err := push.SendPush(ctx, job.Tokens, notif.Title, notif.Body, notif.Data); err != nil {
			log.Printf("Push failed for user %s: %v", notif.UserID, err)
			metrics.PushResults.WithLabelValues("failed").Inc()
			d.recorder.markAsFailed(ctx, notif.ID, err)
			return
		}
		metrics.PushResults.WithLabelValues("sent").Inc()
	} else {
		log.Printf("Skipping push for notification %s: tokens=%d provider=%v", notif.ID, len(job.Tokens), push != nil)
		metrics.PushResults.WithLabelValues("skipped").Inc()
	}

	d.recorder.markAsSent(ctx, notif.ID)
}

// Dispatch queues a job. It gives up when the queue stays full past the
// enqueue timeout, when ctx ends, or after Stop.
func (d *NotificationDispatcher) Dispatch(ctx context.Context, job *DispatchJob) bool {
	select {
	case <-d.stopChan:
		return false
	default:
	}

	timer := time.NewTimer(d.enqueueTimeout)
	defer timer.Stop()

	select {
	case d.jobQueue <- job:
		return true
	case <-timer.C:
		log.Printf("Failed to queue notification %s: queue full", job.Notification.ID)
		return false
	case <-ctx.Done():
		return false
	case <-d.stopChan:
		return false
	}
}

// Stop terminates the workers. Jobs still queued are dropped.
func (d *NotificationDispatcher) Stop() {
	d.stopOnce.Do(func() {
		close(d.stopChan)
	})
	d.wg.Wait()
}
