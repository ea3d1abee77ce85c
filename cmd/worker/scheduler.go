package main

import (
	"log"

	"bookcatalog-backend/internal/infrastructure/queue"
	"bookcatalog-backend/pkg/container"
)

type asynqScheduler struct {
	*queue.Scheduler
}

func setupScheduler(c *container.Container) *asynqScheduler {
	redisCfg := c.Config.Redis
	scheduler := queue.NewScheduler(redisCfg.Host, redisCfg.Password, redisCfg.DB)

	if err := scheduler.RegisterJobs(); err != nil {
		log.Fatalf("failed to register periodic jobs: %v", err)
	}

	go func() {
		log.Println("scheduler starting")
		if err := scheduler.Start(); err != nil {
			log.Fatalf("scheduler failed: %v", err)
		}
	}()

	return &asynqScheduler{Scheduler: scheduler}
}

func (s *asynqScheduler) Shutdown() {
	log.Println("scheduler shutting down")
	s.Scheduler.Shutdown()
}
