package driver

import "time"

// Status captures the progress state of one unit.
type Status string

const (
	// StatusQueued indicates the unit is waiting for a worker.
	StatusQueued Status = "queued"
	// StatusWorking indicates the unit is inside Phase.
	StatusWorking Status = "working"
	// StatusDone indicates the unit finished without errors.
	StatusDone Status = "done"
	// StatusError indicates the unit failed to load or produced errors.
	StatusError Status = "error"
)

// Event reports progress for a unit.
type Event struct {
	File    string
	Phase   string
	Status  Status
	Elapsed time.Duration
}

// ProgressSink consumes progress events. CheckUnits calls it from several
// goroutines.
type ProgressSink interface {
	OnEvent(Event)
}

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- evt
}

func notify(sink ProgressSink, evt Event) {
	if sink != nil {
		sink.OnEvent(evt)
	}
}

func finished(res *Result) Status {
	if res.Failed() {
		return StatusError
	}
	return StatusDone
}
