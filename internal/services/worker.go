package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"alfredoptarigan/hiring-pipeline/internal/logger"
	"alfredoptarigan/hiring-pipeline/internal/repositories"
)

type Worker interface {
	Start(ctx context.Context)
	Stop()
	EnqueueJob(screeningID uuid.UUID)
}

type worker struct {
	screeningRepo    repositories.ScreeningRepository
	screeningService ScreeningService
	jobQueue         chan uuid.UUID
	concurrency      int
	pollInterval     time.Duration
	wg               sync.WaitGroup
	stopChan         chan struct{}
	stopOnce         sync.Once

	// inFlight holds queued or running IDs so the poller does not enqueue a
	// screening twice.
	mu       sync.Mutex
	inFlight map[uuid.UUID]struct{}
}

func NewWorker(
	screeningRepo repositories.ScreeningRepository,
	screeningService ScreeningService,
	concurrency int,
	pollInterval time.Duration,
) Worker {
	if concurrency < 1 {
		concurrency = 1
	}
	if pollInterval <= 0 {
		pollInterval = 10 * time.Second
	}
	return &worker{
		screeningRepo:    screeningRepo,
		screeningService: screeningService,
		jobQueue:         make(chan uuid.UUID, 100),
		concurrency:      concurrency,
		pollInterval:     pollInterval,
		stopChan:         make(chan struct{}),
		inFlight:         make(map[uuid.UUID]struct{}),
	}
}

// Start implements Worker.
func (w *worker) Start(ctx context.Context) {
	logger.Infof("🚀 Starting worker with %d concurrent workers", w.concurrency)

	for i := 0; i < w.concurrency; i++ {
		w.wg.Add(1)
		go w.processJobs(ctx, i+1)
	}

	w.wg.Add(1)
	go w.pollPendingJobs(ctx)

	logger.Infof("✅ Worker started successfully")
}

// Stop implements Worker.
func (w *worker) Stop() {
	w.stopOnce.Do(func() {
		logger.Infof("🛑 Stopping worker...")
		close(w.stopChan)
		w.wg.Wait()
		logger.Infof("✅ Worker stopped")
	})
}

// EnqueueJob implements Worker.
func (w *worker) EnqueueJob(screeningID uuid.UUID) {
	if !w.claim(screeningID) {
		return
	}

	select {
	case w.jobQueue <- screeningID:
		logger.Debugf("📥 Job %s enqueued", screeningID)
	case <-w.stopChan:
		w.release(screeningID)
		logger.Warnf("⚠️ Worker stopped, cannot enqueue job %s", screeningID)
	}
}

func (w *worker) claim(id uuid.UUID) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, busy := w.inFlight[id]; busy {
		return false
	}
	w.inFlight[id] = struct{}{}
	return true
}

func (w *worker) release(id uuid.UUID) {
	w.mu.Lock()
	delete(w.inFlight, id)
	w.mu.Unlock()
}

func (w *worker) processJobs(ctx context.Context, workerID int) {
	defer w.wg.Done()
	log := logger.Named("worker").With(logger.FieldWorkerID, workerID)

	for {
		select {
		case <-w.stopChan:
			log.Debugf("👷 Worker stopped")
			return
		case <-ctx.Done():
			return
		case screeningID := <-w.jobQueue:
			log.Infow("👷 processing screening", logger.FieldScreeningID, screeningID)
			if err := w.screeningService.ScreenCandidate(ctx, screeningID); err != nil {
				log.Errorw("❌ screening failed", logger.FieldScreeningID, screeningID, logger.FieldError, err)
			}
			w.release(screeningID)
		}
	}
}

func (w *worker) pollPendingJobs(ctx context.Context) {
	defer w.wg.Done()
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopChan:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			pending, err := w.screeningRepo.FindPendingJobs(10)
			if err != nil {
				logger.Warnf("⚠️ Failed to fetch pending jobs: %v", err)
				continue
			}

			if len(pending) > 0 {
				logger.Debugf("📋 Found %d pending jobs", len(pending))
			}
			for _, job := range pending {
				w.EnqueueJob(job.ID)
			}
		}
	}
}
