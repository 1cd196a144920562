package service

import (
	"log"

	"github.com/robfig/cron/v3"
)

// Autosave periodically persists both token sets, covering the case where a
// commit-time save failed transiently (snapshot failures never interrupt
// editing, so something has to retry).
type Autosave struct {
	sched *cron.Cron
}

// StartAutosave schedules snapshot saves per spec (a cron expression, e.g.
// "@every 1m"). An invalid expression disables autosave with a logged
// warning rather than failing startup.
func StartAutosave(spec string, theme *ThemeService) *Autosave {
	c := cron.New()
	if _, err := c.AddFunc(spec, func() {
		theme.SaveSnapshots()
	}); err != nil {
		log.Printf("autosave: invalid schedule %q, autosave disabled: %v", spec, err)
		return &Autosave{}
	}
	c.Start()
	return &Autosave{sched: c}
}

// Stop halts the schedule and saves once more.
func (a *Autosave) Stop(theme *ThemeService) {
	if a.sched != nil {
		a.sched.Stop()
	}
	theme.SaveSnapshots()
}
