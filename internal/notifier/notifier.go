package notifier

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mitchellh/go-ps"
	"github.com/robfig/cron/v3"
)

var processesFunc = ps.Processes

// CheckFunc inspects today's adherence state and returns the reminder text to
// print, or "" when no nag is due.
type CheckFunc func() (string, error)

// Reminder runs a daily cron-scheduled adherence check.
type Reminder struct {
	cron  *cron.Cron
	check CheckFunc
}

// New builds a reminder firing every day at "HH:MM" local time.
func New(at string, check CheckFunc) (*Reminder, error) {
	hour, minute, err := parseClock(at)
	if err != nil {
		return nil, err
	}

	c := cron.New()
	r := &Reminder{cron: c, check: check}

	spec := fmt.Sprintf("%d %d * * *", minute, hour)
	if _, err := c.AddFunc(spec, r.fire); err != nil {
		return nil, fmt.Errorf("failed to schedule reminder: %w", err)
	}
	return r, nil
}

// Start begins the schedule. It returns immediately; Stop ends it.
func (r *Reminder) Start() { r.cron.Start() }

func (r *Reminder) Stop() { r.cron.Stop() }

// FireNow runs the check immediately, outside the schedule.
func (r *Reminder) FireNow() { r.fire() }

func (r *Reminder) fire() {
	text, err := r.check()
	if err != nil {
		fmt.Fprintf(os.Stderr, "reminder check failed: %v\n", err)
		return
	}
	if text != "" {
		fmt.Println(text)
	}
}

func parseClock(at string) (hour, minute int, err error) {
	parts := strings.Split(at, ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid time format: %q, want HH:MM", at)
	}
	hour, err = strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("invalid hour in %q", at)
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("invalid minute in %q", at)
	}
	return hour, minute, nil
}

// EnsureSingleInstance fails when another process with this executable's name
// is already running, so two daemons can't double-fire reminders.
func EnsureSingleInstance() error {
	self := filepath.Base(os.Args[0])
	procs, err := processesFunc()
	if err != nil {
		return fmt.Errorf("failed to list processes: %w", err)
	}

	for _, p := range procs {
		if p.Pid() == os.Getpid() {
			continue
		}
		if strings.TrimSuffix(p.Executable(), ".exe") == strings.TrimSuffix(self, ".exe") {
			return fmt.Errorf("another %s process is already running (pid %d)", self, p.Pid())
		}
	}
	return nil
}
