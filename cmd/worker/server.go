package main

import (
	"context"
	"log"
	"time"

	"github.com/hibiken/asynq"

	"bookcatalog-backend/internal/shared"
	"bookcatalog-backend/pkg/container"
)

type asynqServer struct {
	*asynq.Server
}

func setupAsynqServer(c *container.Container, handlers *HandlerRegistry) *asynqServer {
	mux := asynq.NewServeMux()
	handlers.RegisterHandlers(mux)

	redisCfg := c.Config.Redis
	srv := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     redisCfg.Host,
			Password: redisCfg.Password,
			DB:       redisCfg.DB,
		},
		asynq.Config{
			Queues: map[string]int{
				shared.QueueHigh:    20,
				shared.QueueDefault: 10,
				shared.QueueLow:     5,
			},
			Concurrency:     20,
			ShutdownTimeout: 30 * time.Second,
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				log.Printf("task failed: type=%s error=%v", task.Type(), err)
			}),
		},
	)

	go func() {
		log.Println("worker starting")
		if err := srv.Run(mux); err != nil {
			log.Fatalf("worker failed: %v", err)
		}
	}()

	return &asynqServer{Server: srv}
}

// Shutdown waits for in-flight tasks up to the configured
// ShutdownTimeout, then requeues whatever is still running.
func (s *asynqServer) Shutdown() {
	log.Println("worker shutting down, waiting for in-flight tasks")
	s.Server.Shutdown()
}
