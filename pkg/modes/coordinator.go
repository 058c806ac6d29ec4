package modes

import (
	"log/slog"

	"github.com/spotter-ai/go-spotter/pkg/command"
	"github.com/spotter-ai/go-spotter/pkg/detect"
)

// Mode is the coordinator's operating state.
type Mode string

const (
	ModeIdle       Mode = "idle"
	ModeFind       Mode = "find"
	ModeWhat       Mode = "what"
	ModeRead       Mode = "read"
	ModeDetails    Mode = "details"
	ModeTerminated Mode = "terminated"
)

// TickResult is what one coordinator iteration hands back to the frame
// loop for the HUD and session snapshot.
type TickResult struct {
	Mode      Mode
	Query     string
	Locked    bool
	Target    detect.Detection
	HasTarget bool
	Direction string
	Loading   bool
	Quit      bool
}

// Coordinator owns the current mode and dispatches commands and frames to
// the active handler. It runs on the main loop only; mode never changes
// mid-frame.
type Coordinator struct {
	queue    Announcer
	commands <-chan command.Command
	logger   *slog.Logger

	find     *Find
	identify *Identify
	read     *Read
	analyze  *Analyze

	mode Mode
}

// NewCoordinator wires the four handlers to the command channel.
func NewCoordinator(queue Announcer, commands <-chan command.Command, find *Find, identify *Identify, read *Read, analyze *Analyze) *Coordinator {
	return &Coordinator{
		queue:    queue,
		commands: commands,
		logger:   slog.Default().With("component", "modes.coordinator"),
		find:     find,
		identify: identify,
		read:     read,
		analyze:  analyze,
		mode:     ModeIdle,
	}
}

// Mode returns the current operating state.
func (c *Coordinator) Mode() Mode { return c.mode }

// Tick runs one iteration: drain at most one pending command, apply any
// transition, then feed the frame to the active handler.
func (c *Coordinator) Tick(detections []detect.Detection, frame detect.Frame) TickResult {
	select {
	case cmd := <-c.commands:
		c.apply(cmd, frame)
	default:
	}

	if c.mode == ModeTerminated {
		return TickResult{Mode: ModeTerminated, Quit: true}
	}

	loading := c.mode == ModeDetails && c.analyze.Loading()

	var complete bool
	switch c.mode {
	case ModeFind:
		c.find.Process(detections, frame)
	case ModeWhat:
		complete = c.identify.Process(detections, frame)
	case ModeRead:
		complete = c.read.Process(detections, frame)
	case ModeDetails:
		complete = c.analyze.Process(detections, frame)
	}
	if complete {
		c.transition(ModeIdle)
	}

	res := TickResult{
		Mode:    c.mode,
		Loading: loading,
	}
	if c.mode == ModeFind {
		res.Query = c.find.Query()
		res.Locked = c.find.Locked()
		res.Target, res.HasTarget = c.find.Target()
		res.Direction = c.find.Direction()
	}
	return res
}

// apply executes one command. Starting a mode while another is active is
// an implicit stop followed by the new start.
func (c *Coordinator) apply(cmd command.Command, frame detect.Frame) {
	switch cmd.Action {
	case command.ActionQuit:
		c.resetActive()
		c.mode = ModeTerminated
		c.queue.ResetThrottle()
		c.logger.Info("terminating")

	case command.ActionStop:
		if c.mode != ModeIdle {
			c.transition(ModeIdle)
			c.queue.SayNow("Stopped.")
		}

	case command.ActionFind:
		if cmd.Argument == "" {
			return
		}
		c.transition(ModeFind)
		c.find.Start(cmd.Argument)

	case command.ActionWhat:
		c.transition(ModeWhat)
		c.identify.Start()

	case command.ActionRead:
		c.transition(ModeRead)
		c.read.Start()

	case command.ActionDetails:
		c.resetActive()
		c.mode = ModeIdle
		c.queue.ResetThrottle()
		if c.analyze.Start(frame) {
			c.mode = ModeDetails
		}
	}
}

// transition resets the outgoing handler, clears the throttle memory, and
// sets the new mode. Queued announcements are not purged.
func (c *Coordinator) transition(next Mode) {
	if c.mode == next && next == ModeIdle {
		return
	}
	c.resetActive()
	c.mode = next
	c.queue.ResetThrottle()
	c.logger.Debug("mode transition", "mode", next)
}

func (c *Coordinator) resetActive() {
	switch c.mode {
	case ModeFind:
		c.find.Reset()
	case ModeWhat:
		c.identify.Reset()
	case ModeRead:
		c.read.Reset()
	case ModeDetails:
		c.analyze.Reset()
	}
}
