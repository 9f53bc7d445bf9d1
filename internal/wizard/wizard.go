// Package wizard turns a bounded sequence of discrete selections into one
// absolute UTC reminder timestamp.
//
// A [Flow] is an explicit state value walked by a transport layer:
//
//	StateStart -> quick preset (terminal)
//	StateStart -> StateDay -> StateHour -> StateMinuteBucket -> StateMinute (terminal)
//
// Every state accepts [Flow.Cancel], which aborts the whole flow without
// touching stored data; the [Draft] collected alongside is simply discarded.
// The package renders nothing: choice enumerations are exposed as plain data
// for whatever UI drives the flow.
package wizard

import (
	"time"

	"github.com/rfaisal/noteminder/internal/models"
	"github.com/rfaisal/noteminder/internal/shared"
)

// State identifies where a [Flow] is in the selection sequence.
type State int

const (
	StateStart State = iota
	StateDay
	StateHour
	StateMinuteBucket
	StateMinute
	StateDone
	StateCancelled
)

func (s State) String() string {
	switch s {
	case StateStart:
		return "start"
	case StateDay:
		return "day"
	case StateHour:
		return "hour"
	case StateMinuteBucket:
		return "minute-bucket"
	case StateMinute:
		return "minute"
	case StateDone:
		return "done"
	case StateCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Preset is a quick reminder-time shortcut bypassing the custom flow.
type Preset string

const (
	Preset30Min      Preset = "30min"
	Preset1Hour      Preset = "1h"
	Preset2Hours     Preset = "2h"
	Preset6Hours     Preset = "6h"
	PresetTomorrow9  Preset = "tomorrow_09"
	PresetTomorrow18 Preset = "tomorrow_18"
	PresetNone       Preset = "none"
)

// Day is the date anchor of the custom flow. Only the date component is
// used; the time of day comes from the later steps.
type Day string

const (
	DayToday         Day = "today"
	DayTomorrow      Day = "tomorrow"
	DayAfterTomorrow Day = "day_after_tomorrow"
	DayNextWeek      Day = "next_week"
)

func dayOffset(d Day) (int, bool) {
	switch d {
	case DayToday:
		return 0, true
	case DayTomorrow:
		return 1, true
	case DayAfterTomorrow:
		return 2, true
	case DayNextWeek:
		return 7, true
	default:
		return 0, false
	}
}

// Draft carries the note-in-progress collected before the time selection.
// It lives outside the store until the flow completes, so cancelling
// discards it with no cleanup.
type Draft struct {
	CategoryID string
	Title      string
	Text       string
	Priority   models.Priority
}

// Flow is the time-selection state machine. The zero value is not usable;
// construct with [New].
type Flow struct {
	state State
	now   func() time.Time

	day    Day
	hour   int
	bucket int

	result *time.Time
}

// New returns a flow in [StateStart]. now is the clock presets and day
// anchors resolve against; nil means time.Now.
func New(now func() time.Time) *Flow {
	if now == nil {
		now = time.Now
	}
	return &Flow{state: StateStart, now: now}
}

// State returns the flow's current state.
func (f *Flow) State() State {
	return f.state
}

// Cancel aborts the flow from any state. Collected selections are discarded.
func (f *Flow) Cancel() {
	f.state = StateCancelled
	f.result = nil
}

// PickPreset resolves a quick preset against the current clock and finishes
// the flow. [PresetNone] finishes with no timestamp at all.
func (f *Flow) PickPreset(p Preset) error {
	if f.state != StateStart {
		return shared.ErrInvalidSelection
	}

	now := f.now().UTC()
	var at time.Time
	switch p {
	case Preset30Min:
		at = now.Add(30 * time.Minute)
	case Preset1Hour:
		at = now.Add(1 * time.Hour)
	case Preset2Hours:
		at = now.Add(2 * time.Hour)
	case Preset6Hours:
		at = now.Add(6 * time.Hour)
	case PresetTomorrow9:
		at = atClock(now.AddDate(0, 0, 1), 9, 0)
	case PresetTomorrow18:
		at = atClock(now.AddDate(0, 0, 1), 18, 0)
	case PresetNone:
		f.state = StateDone
		f.result = nil
		return nil
	default:
		return shared.ErrInvalidSelection
	}

	f.state = StateDone
	f.result = &at
	return nil
}

// BeginCustom leaves the preset menu for the day/hour/minute sequence.
func (f *Flow) BeginCustom() error {
	if f.state != StateStart {
		return shared.ErrInvalidSelection
	}
	f.state = StateDay
	return nil
}

// PickDay records the date anchor and advances to the hour step.
func (f *Flow) PickDay(d Day) error {
	if f.state != StateDay {
		return shared.ErrInvalidSelection
	}
	if _, ok := dayOffset(d); !ok {
		return shared.ErrInvalidSelection
	}
	f.day = d
	f.state = StateHour
	return nil
}

// PickHour records an hour of day (0-23) and advances to the bucket step.
func (f *Flow) PickHour(hour int) error {
	if f.state != StateHour {
		return shared.ErrInvalidSelection
	}
	if hour < 0 || hour > 23 {
		return shared.ErrInvalidSelection
	}
	f.hour = hour
	f.state = StateMinuteBucket
	return nil
}

// PickBucket records one of the six 10-minute buckets (0 for 00-09 through
// 5 for 50-59) and advances to the final minute step.
func (f *Flow) PickBucket(bucket int) error {
	if f.state != StateMinuteBucket {
		return shared.ErrInvalidSelection
	}
	if bucket < 0 || bucket > 5 {
		return shared.ErrInvalidSelection
	}
	f.bucket = bucket
	f.state = StateMinute
	return nil
}

// PickMinute records the exact minute, which must fall inside the chosen
// bucket, and finishes the flow. The assembled timestamp keeps only the
// selected fields: seconds and below are zeroed. A timestamp in the past is
// not rejected here; the scheduler fires it immediately.
func (f *Flow) PickMinute(minute int) error {
	if f.state != StateMinute {
		return shared.ErrInvalidSelection
	}
	lo := f.bucket * 10
	if minute < lo || minute > lo+9 {
		return shared.ErrInvalidSelection
	}

	offset, _ := dayOffset(f.day)
	at := atClock(f.now().UTC().AddDate(0, 0, offset), f.hour, minute)
	f.state = StateDone
	f.result = &at
	return nil
}

// Result returns the collected timestamp once the flow reached [StateDone].
// ok is false when the flow finished via [PresetNone] (no reminder wanted).
// Calling Result on an unfinished or cancelled flow returns ok == false.
func (f *Flow) Result() (at time.Time, ok bool) {
	if f.state != StateDone || f.result == nil {
		return time.Time{}, false
	}
	return *f.result, true
}

// atClock pins d's date to the given wall-clock time in UTC.
func atClock(d time.Time, hour, minute int) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), hour, minute, 0, 0, time.UTC)
}
