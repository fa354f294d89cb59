package lib

import (
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
)

var scheduler gocron.Scheduler

func GetScheduler() (gocron.Scheduler, error) {
	if scheduler != nil {
		return scheduler, nil
	}
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("error initializing scheduler: %w", err)
	}
	scheduler = sched
	return sched, nil
}

// CreateIntervalJob registers task to run every interval. A run that is still
// going when the next one is due causes the next one to be rescheduled.
func CreateIntervalJob(name string, interval time.Duration, task func()) (string, error) {
	sched, err := GetScheduler()
	if err != nil {
		return "", err
	}
	j, err := sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(task),
		gocron.WithName(name),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return "", fmt.Errorf("error creating job %s: %w", name, err)
	}
	return j.ID().String(), nil
}
