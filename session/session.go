package session

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fujix-tas/fujix/phantom"
	"github.com/fujix-tas/fujix/physics"
	"github.com/fujix-tas/fujix/prediction"
	"github.com/fujix-tas/fujix/replay"
	"github.com/fujix-tas/fujix/settings"
	"github.com/fujix-tas/fujix/utils"
	"github.com/fujix-tas/fujix/worker"
	"github.com/fujix-tas/fujix/world"
	"github.com/sirupsen/logrus"
)

// Session glues the local player's prediction, the input recorder and the phantom together. All
// methods must be called from the goroutine that runs the tick loop.
type Session struct {
	log      *logrus.Logger
	settings settings.Settings

	mapName string
	world   *world.World
	sim     *physics.Simulator

	prediction *prediction.Engine
	recorder   *replay.Recorder
	phantom    *phantom.Simulator
	// phantomStart is the absolute tick of phantom offset zero.
	phantomStart int32

	// playing is set while a loaded log drives the local input.
	playing   bool
	playPath  string
	playStart int32
	playLog   *replay.Log

	loadPath string
	loading  <-chan worker.Result[*replay.Recording]

	stopPlay    bool
	stopPhantom bool

	// saved is the state stored with save_state, nil until one is saved.
	saved *physics.CharacterCore
	// recordStarts holds the core every recording of this session started from, by path.
	recordStarts map[string]physics.CharacterCore
	avoider      *freezeAvoider

	tick   int32
	stats  *Stats
	output func(string)

	// corrections holds the distances of the latest snapshot corrections.
	corrections *utils.CircularQueue[float64]
}

// New creates a session on the map w. Console output is sent to output, which may be nil.
func New(log *logrus.Logger, s settings.Settings, mapName string, w *world.World, output func(string)) *Session {
	sess := &Session{
		log:         log,
		settings:    s,
		stats:       &Stats{},
		corrections: utils.NewCircularQueue[float64](100),
		output:      output,
		recorder:    replay.NewRecorder(log.WithField("component", "recorder"), s.Recording.FillGaps),
		avoider:     newFreezeAvoider(s.Avoidance.Enabled, s.Avoidance.PredictTicks),
	}
	sess.LoadWorld(mapName, w)
	return sess
}

// LoadWorld switches to a new map. Recording, playback and the phantom are stopped first and the
// prediction restarts from the spawn of the new map.
func (s *Session) LoadWorld(mapName string, w *world.World) {
	if s.recorder.Recording() {
		s.recorder.RequestStop()
	}
	if s.phantom != nil {
		s.phantom.Stop()
	}
	s.playing, s.playLog, s.loading = false, nil, nil
	s.stopPlay, s.stopPhantom = false, false
	s.saved = nil
	s.recordStarts = make(map[string]physics.CharacterCore)
	s.avoider.state = avoidIdle

	s.mapName = mapName
	s.world = w
	s.sim = physics.NewSimulator(w, s.settings.Tuning)
	s.sim.Options.Debugf = s.log.WithField("component", "physics").Tracef

	s.prediction = prediction.NewEngine(s.sim, s.settings.Prediction.HistorySize, s.log.WithField("component", "prediction"))
	s.prediction.Reset(s.SpawnCore(), s.tick)
	s.phantom = phantom.New(s.sim, phantom.Options{
		HistorySize:      s.settings.Phantom.HistorySize,
		RollbackOnFreeze: s.settings.Phantom.RollbackEnabled,
		RollbackTicks:    s.settings.Phantom.RollbackTicks,
	}, s.log.WithField("component", "phantom"))
	s.log.Infof("loaded map %s (%dx%d)", mapName, w.Width(), w.Height())
}

// SpawnCore is the fixed start state of the current map.
func (s *Session) SpawnCore() physics.CharacterCore {
	pos, ok := s.world.SpawnPoint()
	if !ok {
		pos = world.TileCenter(s.world.Width()/2, 0)
	}
	return physics.NewCore(pos, s.settings.Tuning)
}

// playbackSeed returns the core a log at path is played from: the core a recording of this session
// started with, else the saved state, else the spawn.
func (s *Session) playbackSeed(path string) (physics.CharacterCore, string) {
	if core, ok := s.recordStarts[filepath.Clean(path)]; ok {
		return core, "recording start"
	}
	if s.saved != nil {
		return *s.saved, "saved state"
	}
	return s.SpawnCore(), "spawn"
}

// Close finalizes a running recording and stops everything else.
func (s *Session) Close(ctx context.Context) error {
	s.phantom.Stop()
	s.playing = false
	return s.recorder.Close(ctx)
}

// PredictedCore is the core of the local player to render.
func (s *Session) PredictedCore() physics.CharacterCore {
	return s.prediction.Predicted()
}

// PhantomCore returns the phantom core and whether a phantom is shown.
func (s *Session) PhantomCore() (physics.CharacterCore, bool) {
	return s.phantom.Core(), s.phantom.Mode() != phantom.ModeOff
}

func (s *Session) Prediction() *prediction.Engine {
	return s.prediction
}

func (s *Session) Recorder() *replay.Recorder {
	return s.recorder
}

func (s *Session) Phantom() *phantom.Simulator {
	return s.phantom
}

func (s *Session) Stats() *Stats {
	return s.stats
}

func (s *Session) Tick() int32 {
	return s.tick
}

func (s *Session) MapName() string {
	return s.mapName
}

// Playing reports whether a loaded log drives the local input.
func (s *Session) Playing() bool {
	return s.playing
}

// SavedState returns the state stored with save_state.
func (s *Session) SavedState() (physics.CharacterCore, bool) {
	if s.saved == nil {
		return physics.CharacterCore{}, false
	}
	return *s.saved, true
}

// Loading reports whether a log is being loaded in the background.
func (s *Session) Loading() bool {
	return s.loading != nil
}

func (s *Session) print(format string, args ...any) {
	s.log.Infof(format, args...)
	if s.output != nil {
		s.output(fmt.Sprintf(format, args...))
	}
}
