// Package job runs email delivery in the background on asynq, a Redis
// backed task queue. Services enqueue through JobService.Enqueue; the
// worker server started by Start executes the handlers in handlers.go.
package job

import (
	"context"

	"github.com/deppfellow/devevent/internal/config"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
)

const (
	QueueDefault = "default"
	QueueLow     = "low"
)

// queueWeights gives booking confirmations three worker slots for every
// reminder slot.
var queueWeights = map[string]int{
	QueueDefault: 3,
	QueueLow:     1,
}

type JobService struct {
	Client *asynq.Client

	server *asynq.Server
	mux    *asynq.ServeMux
	mailer Mailer
	logger *zerolog.Logger
}

func NewJobService(logger *zerolog.Logger, cfg *config.Config) *JobService {
	redisOpt := asynq.RedisClientOpt{Addr: cfg.Redis.Address}

	j := &JobService{
		Client: asynq.NewClient(redisOpt),
		logger: logger,
	}

	j.server = asynq.NewServer(redisOpt, asynq.Config{
		Concurrency:  cfg.Jobs.Concurrency,
		Queues:       queueWeights,
		Logger:       newAsynqLogger(logger),
		LogLevel:     asynq.WarnLevel,
		ErrorHandler: asynq.ErrorHandlerFunc(j.logTaskFailure),
	})

	return j
}

// logTaskFailure logs every failed attempt; the last one at error level.
func (j *JobService) logTaskFailure(ctx context.Context, task *asynq.Task, err error) {
	retried, _ := asynq.GetRetryCount(ctx)
	maxRetry, _ := asynq.GetMaxRetry(ctx)
	taskID, _ := asynq.GetTaskID(ctx)

	e := j.logger.Warn()
	if retried >= maxRetry {
		e = j.logger.Error()
	}

	e.Err(err).
		Str("task_type", task.Type()).
		Str("task_id", taskID).
		Int("retried", retried).
		Int("max_retry", maxRetry).
		Msg("background task failed")
}

// InitHandlers registers the task handlers and the mailer they send through.
func (j *JobService) InitHandlers(mailer Mailer) {
	j.mailer = mailer

	j.mux = asynq.NewServeMux()
	j.mux.HandleFunc(TaskBookingConfirmation, j.handleBookingConfirmationTask)
	j.mux.HandleFunc(TaskEventReminder, j.handleEventReminderTask)
}

// Start runs the workers in the background. InitHandlers must run first.
func (j *JobService) Start() error {
	j.logger.Info().Int("queues", len(queueWeights)).Msg("starting background job server")
	return j.server.Start(j.mux)
}

func (j *JobService) Enqueue(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	return j.Client.EnqueueContext(ctx, task, opts...)
}

// Stop waits for running tasks, then closes the client.
func (j *JobService) Stop() {
	j.logger.Info().Msg("stopping background job server")
	j.server.Shutdown()
	if err := j.Client.Close(); err != nil {
		j.logger.Error().Err(err).Msg("failed to close job client")
	}
}
