package service

import (
	"fmt"
	"time"
)

// Countdown is the remaining-time display for one deadlined task. It is a
// pure wall-clock recomputation; nothing in the task changes.
type Countdown struct {
	Hours   int
	Minutes int
	Seconds int
	Expired bool
}

// RemainingUntil computes the countdown from now to deadline. Expired once
// the remaining time reaches zero.
func RemainingUntil(deadline, now time.Time) Countdown {
	left := deadline.Sub(now)
	if left <= 0 {
		return Countdown{Expired: true}
	}
	total := int(left.Seconds())
	return Countdown{
		Hours:   total / 3600,
		Minutes: (total / 60) % 60,
		Seconds: total % 60,
	}
}

func (c Countdown) String() string {
	if c.Expired {
		return "Expired"
	}
	return fmt.Sprintf("%dh %dm %ds", c.Hours, c.Minutes, c.Seconds)
}
