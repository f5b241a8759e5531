package config

import "time"

type DispatcherConfig struct {
	QueueKey                string
	ScheduleDelaySeconds    int
	DispatchDeadlineSeconds int
	PollInterval            time.Duration
	ExecutorURL             string
	ExecutorDiscoveryURL    string
}

func NewDispatcherConfig() *DispatcherConfig {
	return &DispatcherConfig{
		QueueKey:                getEnv("DISPATCH_QUEUE_KEY", "dispatch:queue"),
		ScheduleDelaySeconds:    getIntEnv("DISPATCH_SCHEDULE_DELAY_SEC", 0),
		DispatchDeadlineSeconds: getIntEnv("DISPATCH_DEADLINE_SEC", 300),
		PollInterval:            time.Duration(getIntEnv("DISPATCH_POLL_INTERVAL_SEC", 1)) * time.Second,
		ExecutorURL:             getEnv("EXECUTOR_URL", ""),
		ExecutorDiscoveryURL:    getEnv("EXECUTOR_DISCOVERY_URL", ""),
	}
}
