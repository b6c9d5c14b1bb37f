package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"investment-service/internal/consumers"
	"investment-service/internal/services"

	"github.com/hibiken/asynq"
)

type Worker struct {
	Processor *consumers.EmailProcessor
}

func NewWorker(processor *consumers.EmailProcessor) *Worker {
	return &Worker{
		Processor: processor,
	}
}

func (w *Worker) HandleDepositEmail(ctx context.Context, t *asynq.Task) error {
	var p services.DepositEmailPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("json.Unmarshal failed: %v: %w", err, asynq.SkipRetry)
	}
	w.Processor.ProcessDepositEmail(p)
	return nil
}

func (w *Worker) HandleWithdrawalEmail(ctx context.Context, t *asynq.Task) error {
	var p services.WithdrawalEmailPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("json.Unmarshal failed: %v: %w", err, asynq.SkipRetry)
	}
	w.Processor.ProcessWithdrawalEmail(p)
	return nil
}

func (w *Worker) HandleReferralEmail(ctx context.Context, t *asynq.Task) error {
	var p services.ReferralEmailPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("json.Unmarshal failed: %v: %w", err, asynq.SkipRetry)
	}
	w.Processor.ProcessReferralEmail(p)
	return nil
}

func StartWorker(redisOpt asynq.RedisClientOpt, processor *consumers.EmailProcessor) {
	srv := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"critical": 6,
				"default":  3,
				"low":      1,
			},
		},
	)

	worker := NewWorker(processor)
	mux := asynq.NewServeMux()

	mux.HandleFunc(TypeDepositEmail, worker.HandleDepositEmail)
	mux.HandleFunc(TypeWithdrawalEmail, worker.HandleWithdrawalEmail)
	mux.HandleFunc(TypeReferralEmail, worker.HandleReferralEmail)

	if err := srv.Run(mux); err != nil {
		log.Fatalf("could not run server: %v", err)
	}
}
