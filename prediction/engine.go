package prediction

import (
	"github.com/elliotchance/orderedmap/v2"
	"github.com/fujix-tas/fujix/oerror"
	"github.com/fujix-tas/fujix/physics"
	"github.com/fujix-tas/fujix/utils"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/sirupsen/logrus"
)

// Snapshot is an authoritative state the server confirmed for a tick.
type Snapshot struct {
	Tick int32                 `msgpack:"tick"`
	Core physics.CharacterCore `msgpack:"core"`
}

// Reconciliation describes what a snapshot did to the prediction.
type Reconciliation struct {
	Tick int32
	// Stale snapshots are older than the confirmed state and were ignored.
	Stale bool
	// Gap is set when ticks between the previous and this snapshot were never confirmed.
	Gap bool
	// Converged is set when the prediction for the snapshot tick matched it exactly.
	Converged bool
	// Correction is how far the predicted position moved because of the snapshot.
	Correction mgl32.Vec2
	// Resimulated is the number of pending ticks replayed on top of the snapshot.
	Resimulated int
	// Err is set when the snapshot was rejected, for example because it carries a non-finite core.
	// A rejected snapshot leaves the engine untouched.
	Err error
}

type predictedState struct {
	tick int32
	core physics.CharacterCore
}

// Engine keeps a confirmed core from the server and a predicted core that runs ahead of it with
// local inputs the server has not acknowledged yet.
type Engine struct {
	sim *physics.Simulator
	log logrus.FieldLogger

	confirmed     physics.CharacterCore
	confirmedTick int32
	predicted     physics.CharacterCore
	predictedTick int32
	lastInput     physics.InputFrame

	pending *orderedmap.OrderedMap[int32, physics.InputFrame]
	history *utils.CircularQueue[predictedState]
}

// NewEngine returns an engine that remembers historySize predicted ticks for divergence checks.
func NewEngine(sim *physics.Simulator, historySize int, log logrus.FieldLogger) *Engine {
	if historySize <= 0 {
		historySize = 128
	}
	return &Engine{
		sim:     sim,
		log:     log,
		pending: orderedmap.NewOrderedMap[int32, physics.InputFrame](),
		history: utils.NewCircularQueue[predictedState](historySize),
	}
}

// Reset seeds both cores with core at tick and forgets all pending input.
func (e *Engine) Reset(core physics.CharacterCore, tick int32) {
	e.confirmed, e.predicted = core, core
	e.confirmedTick, e.predictedTick = tick, tick
	e.lastInput = physics.InputFrame{}
	e.pending = orderedmap.NewOrderedMap[int32, physics.InputFrame]()
	e.history.Clear()
}

// PushInput records the local input for tick and advances the predicted core to it. Skipped ticks
// repeat the previous input. Input for a tick that is still pending replaces it and the prediction is
// rebuilt.
func (e *Engine) PushInput(tick int32, in physics.InputFrame) (physics.Result, error) {
	if tick <= e.confirmedTick {
		return physics.Result{}, oerror.Newf(oerror.KindOutOfOrder, "input for tick %d is already confirmed up to %d", tick, e.confirmedTick)
	}
	if _, ok := e.pending.Get(tick); ok {
		e.pending.Set(tick, in)
		if back := e.pending.Back(); back != nil && back.Key == tick {
			e.lastInput = in
		}
		return e.rebuild(), nil
	}
	if tick <= e.predictedTick {
		return physics.Result{}, oerror.Newf(oerror.KindOutOfOrder, "input for tick %d arrived after tick %d", tick, e.predictedTick)
	}

	var res physics.Result
	for t := e.predictedTick + 1; t < tick; t++ {
		e.pending.Set(t, e.lastInput)
		res = e.step(t, e.lastInput)
	}
	e.pending.Set(tick, in)
	e.lastInput = in
	res = e.step(tick, in)
	return res, nil
}

// Reconcile applies an authoritative snapshot: the confirmed core is replaced, acknowledged inputs
// are dropped and the prediction is rebuilt from the snapshot with the inputs still pending.
func (e *Engine) Reconcile(snap Snapshot) Reconciliation {
	rec := Reconciliation{Tick: snap.Tick}
	if snap.Tick < e.confirmedTick {
		rec.Stale = true
		e.log.Debugf("ignoring stale snapshot for tick %d, confirmed up to %d", snap.Tick, e.confirmedTick)
		return rec
	}
	if !snap.Core.Finite() {
		rec.Err = oerror.Newf(oerror.KindNonFiniteState, "snapshot for tick %d at %v", snap.Tick, snap.Core.Pos)
		e.log.WithError(rec.Err).Warn("rejecting snapshot")
		return rec
	}
	rec.Gap = snap.Tick > e.confirmedTick+1
	if prev, ok := e.predictedAt(snap.Tick); ok {
		rec.Converged = prev == snap.Core
	}

	before := e.predicted
	e.confirmed, e.confirmedTick = snap.Core, snap.Tick
	for el := e.pending.Front(); el != nil && el.Key <= snap.Tick; el = e.pending.Front() {
		e.pending.Delete(el.Key)
	}
	if snap.Tick > e.predictedTick {
		e.predictedTick = snap.Tick
	}

	rec.Resimulated = e.pending.Len()
	e.rebuild()
	rec.Correction = e.predicted.Pos.Sub(before.Pos)
	if !rec.Converged {
		e.log.Debugf("snapshot %d diverged (checksum %x), corrected prediction by %v over %d ticks",
			snap.Tick, snap.Core.Checksum(), rec.Correction, rec.Resimulated)
	}
	return rec
}

// rebuild resimulates every pending tick on top of the confirmed core.
func (e *Engine) rebuild() physics.Result {
	e.dropHistoryAfter(e.confirmedTick)
	e.predicted = e.confirmed
	var res physics.Result
	for el := e.pending.Front(); el != nil; el = el.Next() {
		res = e.step(el.Key, el.Value)
	}
	if back := e.pending.Back(); back != nil {
		e.predictedTick = back.Key
	} else {
		e.predictedTick = max(e.predictedTick, e.confirmedTick)
	}
	return res
}

func (e *Engine) step(tick int32, in physics.InputFrame) physics.Result {
	next, res := e.sim.Tick(e.predicted, in)
	if res.Outcome == physics.OutcomeNonFinite {
		e.log.Warnf("prediction for tick %d produced a non-finite state, holding the previous one", tick)
	}
	e.predicted = next
	e.predictedTick = tick
	e.history.Append(predictedState{tick: tick, core: next})
	return res
}

func (e *Engine) predictedAt(tick int32) (physics.CharacterCore, bool) {
	for _, s := range e.history.Backward() {
		if s.tick == tick {
			return s.core, true
		}
		if s.tick < tick {
			break
		}
	}
	return physics.CharacterCore{}, false
}

func (e *Engine) dropHistoryAfter(tick int32) {
	keep := e.history.Len()
	for i, s := range e.history.Backward() {
		if s.tick <= tick {
			break
		}
		keep = i
	}
	e.history.Truncate(keep)
}

func (e *Engine) Predicted() physics.CharacterCore {
	return e.predicted
}

func (e *Engine) Confirmed() physics.CharacterCore {
	return e.confirmed
}

func (e *Engine) PredictedTick() int32 {
	return e.predictedTick
}

func (e *Engine) ConfirmedTick() int32 {
	return e.confirmedTick
}

// Pending returns the number of inputs not yet acknowledged.
func (e *Engine) Pending() int {
	return e.pending.Len()
}

// PendingInput returns the pending input for tick.
func (e *Engine) PendingInput(tick int32) (physics.InputFrame, bool) {
	return e.pending.Get(tick)
}
