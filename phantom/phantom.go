package phantom

import (
	"github.com/fujix-tas/fujix/physics"
	"github.com/fujix-tas/fujix/replay"
	"github.com/fujix-tas/fujix/utils"
	"github.com/sirupsen/logrus"
)

// Mode is what drives the phantom.
type Mode uint8

const (
	ModeOff Mode = iota
	// ModeLive mirrors inputs pushed by the live player.
	ModeLive
	// ModePlayback consumes a loaded input log.
	ModePlayback
	// ModeFinished means playback reached the end of the log. The phantom stays where it ended.
	ModeFinished
)

func (m Mode) String() string {
	switch m {
	case ModeOff:
		return "off"
	case ModeLive:
		return "live"
	case ModePlayback:
		return "playback"
	case ModeFinished:
		return "finished"
	}
	return "unknown"
}

// HistoryEntry is the phantom state right after the tick it was recorded for.
type HistoryEntry struct {
	Tick            int32
	Core            physics.CharacterCore
	Prev            physics.CharacterCore
	Input           physics.InputFrame
	FreezeCountdown int32
}

type Options struct {
	// HistorySize bounds the number of ticks a rollback can reach back.
	HistorySize int
	// RollbackOnFreeze rolls a live phantom back RollbackTicks ticks as soon as it freezes while its
	// input is being recorded.
	RollbackOnFreeze bool
	RollbackTicks    int32
}

// Simulator runs a second character core, independent of the predicted one, either mirroring live
// input or playing an input log back.
type Simulator struct {
	sim  *physics.Simulator
	log  logrus.FieldLogger
	opts Options

	mode Mode
	core physics.CharacterCore
	prev physics.CharacterCore
	// tick is the log offset of the last applied tick, -1 before the first one.
	tick  int32
	input physics.InputFrame

	pending []replay.TickEntry
	history *utils.CircularQueue[HistoryEntry]

	playback  *replay.Log
	playIndex int

	// recording is set while the mirrored live input is also being recorded.
	recording bool

	rollbacks int
}

func New(sim *physics.Simulator, opts Options, log logrus.FieldLogger) *Simulator {
	if opts.HistorySize <= 0 {
		opts.HistorySize = 250
	}
	return &Simulator{
		sim:     sim,
		log:     log,
		opts:    opts,
		tick:    -1,
		history: utils.NewCircularQueue[HistoryEntry](opts.HistorySize),
	}
}

// StartLive seeds the phantom with core and starts mirroring pushed inputs.
func (p *Simulator) StartLive(core physics.CharacterCore) {
	p.reset(core)
	p.mode = ModeLive
	p.log.Debugf("phantom mirroring live input from %v", core.Pos)
}

// StartPlayback seeds the phantom with core and plays log back as Step is called.
func (p *Simulator) StartPlayback(core physics.CharacterCore, log *replay.Log) {
	p.reset(core)
	p.mode = ModePlayback
	p.playback = log
	p.log.Debugf("phantom playing %d ticks from %v", log.Len(), core.Pos)
	if log.Len() == 0 {
		p.mode = ModeFinished
	}
}

func (p *Simulator) Stop() {
	p.mode = ModeOff
	p.recording = false
	p.pending = nil
	p.playback = nil
	p.history.Clear()
}

func (p *Simulator) reset(core physics.CharacterCore) {
	p.core, p.prev = core, core
	p.tick = -1
	p.input = physics.InputFrame{}
	p.pending = nil
	p.playback = nil
	p.playIndex = 0
	p.rollbacks = 0
	p.history.Clear()
}

// SetRollbackOnFreeze toggles automatic rollback.
func (p *Simulator) SetRollbackOnFreeze(enabled bool) {
	p.opts.RollbackOnFreeze = enabled
}

// SetRecording tells the phantom whether the live input it mirrors is being recorded. A freeze only
// triggers an automatic rollback while it is.
func (p *Simulator) SetRecording(recording bool) {
	p.recording = recording
}

// SetRollbackTicks sets how far an automatic rollback reaches back.
func (p *Simulator) SetRollbackTicks(ticks int32) {
	p.opts.RollbackTicks = ticks
}

func (p *Simulator) Options() Options {
	return p.opts
}

func (p *Simulator) Mode() Mode {
	return p.mode
}

// Active reports whether the phantom exists, whether or not it is still moving.
func (p *Simulator) Active() bool {
	return p.mode != ModeOff
}

func (p *Simulator) Core() physics.CharacterCore {
	return p.core
}

// Tick returns the log offset of the last applied tick.
func (p *Simulator) Tick() int32 {
	return p.tick
}

func (p *Simulator) Pending() int {
	return len(p.pending)
}

func (p *Simulator) HistoryLen() int {
	return p.history.Len()
}

func (p *Simulator) Rollbacks() int {
	return p.rollbacks
}
