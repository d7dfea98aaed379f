package session

import (
	"time"

	"github.com/fujix-tas/fujix/game"
	"github.com/fujix-tas/fujix/phantom"
	"github.com/fujix-tas/fujix/physics"
	"github.com/fujix-tas/fujix/prediction"
	"github.com/fujix-tas/fujix/replay"
)

// HandleInput feeds the local input for tick. While a log is played back its input for tick is used
// instead, otherwise freeze avoidance may rewrite the hook. The input is predicted, recorded and
// mirrored to a live phantom. A tick whose prediction turned non-finite is neither recorded nor
// mirrored.
func (s *Session) HandleInput(tick int32, in physics.InputFrame) (physics.Result, error) {
	start := time.Now()
	if s.playing {
		if i, ok := s.playLog.Find(tick - s.playStart); ok {
			in = s.playLog.At(i).Input
		} else if last, ok := s.playLog.Last(); ok && tick-s.playStart > last.Tick {
			in = last.Input
		}
	} else {
		var rehooked bool
		in, rehooked = s.avoider.adjust(s.sim, s.prediction.Predicted(), in)
		if rehooked {
			s.stats.FreezeRescues.Inc()
			s.log.Debugf("freeze ahead on tick %d, re-hooking towards %v", tick, s.avoider.target)
		}
	}

	res, err := s.prediction.PushInput(tick, in)
	if err != nil {
		return res, err
	}
	s.tick = tick
	s.stats.Inputs.Inc()
	if res.Outcome == physics.OutcomeNonFinite {
		s.stats.NonFiniteTicks.Inc()
		s.log.Warnf("tick %d produced a non-finite state, it is not recorded", tick)
		s.stats.addTick(time.Since(start))
		return res, nil
	}

	if s.recorder.Recording() {
		added := s.recorder.Record(tick, in)
		s.stats.RecordedTicks.Add(int64(len(added)))
		if s.phantom.Mode() == phantom.ModeLive {
			s.phantom.Push(added...)
		}
	} else if s.phantom.Mode() == phantom.ModeLive {
		s.phantom.Push(replay.NewEntry(tick-s.phantomStart, in))
	}
	s.stats.addTick(time.Since(start))
	return res, nil
}

// HandleSnapshot reconciles the prediction with an authoritative snapshot.
func (s *Session) HandleSnapshot(snap prediction.Snapshot) prediction.Reconciliation {
	s.stats.Snapshots.Inc()
	rec := s.prediction.Reconcile(snap)
	switch {
	case rec.Err != nil:
		s.stats.RejectedSnapshots.Inc()
	case rec.Stale:
		s.stats.StaleSnapshots.Inc()
	case !rec.Converged:
		s.stats.Divergences.Inc()
		s.corrections.Append(float64(game.Length(rec.Correction)))
	}
	return rec
}

// EndTick runs everything that happens between two ticks: pending stops take effect, the phantom
// advances, the recorder flushes and finished background loads are picked up. It never blocks.
func (s *Session) EndTick() {
	if s.stopPlay {
		s.stopPlay = false
		s.stopPlayback("stopped playback")
		if m := s.phantom.Mode(); m == phantom.ModePlayback || m == phantom.ModeFinished {
			s.phantom.Stop()
		}
	}
	if s.stopPhantom {
		s.stopPhantom = false
		if s.phantom.Mode() != phantom.ModeOff {
			s.phantom.Stop()
			s.stopPlayback("stopped playback")
			s.print("phantom stopped")
		}
	}

	switch s.phantom.Mode() {
	case phantom.ModeLive:
		s.phantom.SetRecording(s.recorder.Recording())
		res := s.phantom.Advance()
		s.stats.PhantomTicks.Add(int64(res.Applied))
		if res.Froze && !res.RolledBack {
			s.log.Debugf("phantom froze on tick %d", s.phantom.Tick())
		}
		if res.RolledBack {
			s.afterRollback(res.Rollback)
		}
	case phantom.ModePlayback:
		res := s.phantom.Step(s.tick - s.playStart)
		s.stats.PhantomTicks.Add(int64(res.Applied))
		if s.phantom.Mode() == phantom.ModeFinished {
			s.stopPlayback("playback finished")
		}
	}

	s.recorder.OnTickBoundary()
	s.pollLoad()
}

// afterRollback discards what was recorded after the rollback target and lines the next live tick
// up with the tick after it.
func (s *Session) afterRollback(rb phantom.Rollback) {
	s.stats.Rollbacks.Inc()
	s.phantomStart = s.tick - rb.Target
	if s.playing {
		s.playStart = s.phantomStart
	}
	if s.recorder.Recording() {
		s.recorder.TruncateAfter(rb.Target, s.tick)
	}
	s.print("rolled back to tick %d", rb.Target)
}

func (s *Session) stopPlayback(reason string) {
	if !s.playing {
		return
	}
	s.playing = false
	s.playLog = nil
	s.print("%s: %s", reason, s.playPath)
}

// pollLoad picks up the result of a background load without waiting for it.
func (s *Session) pollLoad() {
	if s.loading == nil {
		return
	}
	select {
	case res := <-s.loading:
		s.loading = nil
		if res.Err != nil {
			s.stats.LoadFailures.Inc()
			s.log.WithError(res.Err).Warnf("unable to play %s", s.loadPath)
			s.print("failed to load %s", s.loadPath)
			return
		}
		s.startPlayback(res.Value)
	default:
	}
}

// startPlayback moves the local player and the phantom onto the start of the log; both then replay
// it from the next tick on.
func (s *Session) startPlayback(rec *replay.Recording) {
	seed, from := s.playbackSeed(s.loadPath)
	s.playing = true
	s.playPath = s.loadPath
	s.playLog = rec.Log
	s.playStart = s.tick + 1
	s.phantomStart = s.playStart
	s.prediction.Reset(seed, s.tick)
	s.phantom.StartPlayback(seed, rec.Log)
	s.print("playing %s from the %s (%d ticks, session %s)", s.playPath, from, rec.Log.Len(), rec.Header.Session)
	if s.phantom.Mode() == phantom.ModeFinished {
		s.stopPlayback("nothing to play")
	}
}
