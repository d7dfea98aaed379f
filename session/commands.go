package session

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/fujix-tas/fujix/game"
	"github.com/fujix-tas/fujix/oerror"
	"github.com/fujix-tas/fujix/phantom"
	"github.com/fujix-tas/fujix/replay"
	"github.com/fujix-tas/fujix/worker"
	"github.com/samber/lo"
)

// Exec runs a console command. Commands only change state; anything that affects a simulation takes
// effect at the next tick boundary.
func (s *Session) Exec(line string) error {
	args := strings.Fields(line)
	if len(args) == 0 {
		return nil
	}
	switch args[0] {
	case "record":
		return s.startRecording(args[1:])
	case "stop_record":
		if !s.recorder.Recording() {
			return oerror.Newf(oerror.KindInvalidState, "not recording")
		}
		s.recorder.RequestStop()
		if s.phantom.Mode() == phantom.ModeLive {
			s.stopPhantom = true
		}
		return nil
	case "play":
		if len(args) < 2 {
			return fmt.Errorf("usage: play <file>")
		}
		return s.play(args[1])
	case "stop_play":
		if !s.playing && s.loading == nil {
			return oerror.Newf(oerror.KindInvalidState, "not playing")
		}
		s.loading = nil
		s.stopPlay = true
		return nil
	case "phantom":
		if s.phantom.Mode() != phantom.ModeOff && s.phantom.Mode() != phantom.ModeFinished {
			return oerror.Newf(oerror.KindInvalidState, "phantom already running in %v mode", s.phantom.Mode())
		}
		s.startPhantom()
		s.print("phantom started at %v", s.phantom.Core().Pos)
		return nil
	case "stop_phantom":
		if s.phantom.Mode() == phantom.ModeOff {
			return oerror.Newf(oerror.KindInvalidState, "no phantom running")
		}
		s.stopPhantom = true
		return nil
	case "rollback":
		return s.rollback(args[1:])
	case "rollback_enable":
		if len(args) < 2 {
			return fmt.Errorf("usage: rollback_enable <0|1>")
		}
		enabled, err := strconv.ParseBool(args[1])
		if err != nil {
			return fmt.Errorf("rollback_enable: %w", err)
		}
		s.phantom.SetRollbackOnFreeze(enabled)
		s.print("rollback on freeze %s", lo.Ternary(enabled, "enabled", "disabled"))
		return nil
	case "save_state":
		core := s.prediction.Predicted()
		s.saved = &core
		s.print("state saved at %v", core.Pos)
		return nil
	case "load_state":
		return s.loadState()
	case "avoid_freeze":
		if len(args) < 2 {
			return fmt.Errorf("usage: avoid_freeze <0|1> [ticks]")
		}
		enabled, err := strconv.ParseBool(args[1])
		if err != nil {
			return fmt.Errorf("avoid_freeze: %w", err)
		}
		if len(args) > 2 {
			ticks, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("avoid_freeze: %w", err)
			}
			s.avoider.setTicks(ticks)
		}
		s.avoider.setEnabled(enabled)
		s.print("freeze avoidance %s, looking %d ticks ahead", lo.Ternary(enabled, "enabled", "disabled"), s.avoider.ticks)
		return nil
	case "status":
		s.status()
		return nil
	}
	return fmt.Errorf("unknown command %q", args[0])
}

func (s *Session) startRecording(args []string) error {
	if s.playing || s.loading != nil {
		return oerror.Newf(oerror.KindInvalidState, "recording on replay is not allowed")
	}
	path := filepath.Join(s.settings.Recording.Dir, fmt.Sprintf("%s_%s.fjx", s.mapName, time.Now().Format("20060102-150405")))
	if len(args) > 0 {
		path = args[0]
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create recording directory: %w", err)
		}
	}
	if err := s.recorder.Start(path, s.tick); err != nil {
		return err
	}
	s.recordStarts[filepath.Clean(path)] = s.prediction.Predicted()
	// The phantom mirrors the recording so it can be rolled back.
	s.startPhantom()
	s.phantomStart = s.recorder.StartTick()
	s.print("recording to %s", path)
	return nil
}

func (s *Session) startPhantom() {
	s.stopPhantom = false
	s.phantomStart = s.tick + 1
	s.phantom.StartLive(s.prediction.Predicted())
}

// loadState puts the local player back onto the saved state. A running test phantom restarts from
// there too.
func (s *Session) loadState() error {
	if s.saved == nil {
		return oerror.Newf(oerror.KindInvalidState, "no state saved")
	}
	if s.recorder.Recording() || s.playing || s.loading != nil {
		return oerror.Newf(oerror.KindInvalidState, "cannot load a state while recording or playing")
	}
	s.prediction.Reset(*s.saved, s.tick)
	if s.phantom.Mode() == phantom.ModeLive {
		s.startPhantom()
	}
	s.print("state loaded at %v", s.saved.Pos)
	return nil
}

func (s *Session) play(path string) error {
	if s.loading != nil {
		return oerror.Newf(oerror.KindInvalidState, "already loading %s", s.loadPath)
	}
	s.loadPath = path
	s.loading = worker.Go(func() (*replay.Recording, error) {
		return replay.Load(path)
	})
	s.print("loading %s", path)
	return nil
}

func (s *Session) rollback(args []string) error {
	if s.phantom.Mode() == phantom.ModeOff || s.phantom.HistoryLen() == 0 {
		return oerror.Newf(oerror.KindInvalidState, "no phantom history to roll back")
	}
	ticks := s.phantom.Options().RollbackTicks
	if len(args) > 0 {
		n, err := strconv.ParseInt(args[0], 10, 32)
		if err != nil {
			return fmt.Errorf("rollback: %w", err)
		}
		ticks = int32(n)
	}
	ticks = lo.Clamp(ticks, 1, int32(s.phantom.HistoryLen()))
	s.afterRollback(s.phantom.Rollback(ticks))
	return nil
}

func (s *Session) status() {
	fields := s.stats.Snapshot()
	fields.Set("map", s.mapName)
	fields.Set("tick", s.tick)
	fields.Set("predicted", s.prediction.Predicted().Pos)
	fields.Set("pending", s.prediction.Pending())
	fields.Set("recorder", s.recorder.State())
	fields.Set("phantom", s.phantom.Mode())
	if s.phantom.Mode() != phantom.ModeOff {
		fields.Set("phantom_pos", s.phantom.Core().Pos)
	}
	fields.Set("rollback_on_freeze", s.phantom.Options().RollbackOnFreeze)
	fields.Set("avoid_freeze", s.avoider.enabled)
	fields.Set("saved_state", s.saved != nil)
	fields.Set("playing", lo.Ternary(s.playing, s.playPath, "-"))
	if s.corrections.Len() > 0 {
		var dist []float64
		for _, d := range s.corrections.Iter() {
			dist = append(dist, d)
		}
		fields.Set("correction_mean", fmt.Sprintf("%.2f", game.Mean(dist)))
		fields.Set("correction_median", fmt.Sprintf("%.2f", game.Median(dist)))
		fields.Set("correction_stddev", fmt.Sprintf("%.2f", game.StandardDeviation(dist)))
		fields.Set("correction_max", fmt.Sprintf("%.2f", lo.Max(dist)))
	}

	var b strings.Builder
	for el := fields.Front(); el != nil; el = el.Next() {
		if b.Len() > 0 {
			b.WriteString(" ")
		}
		fmt.Fprintf(&b, "%s=%v", el.Key, el.Value)
	}
	s.print("%s", b.String())
}
