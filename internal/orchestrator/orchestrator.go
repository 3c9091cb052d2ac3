package orchestrator

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/petasbytes/simplemath/internal/animation"
	"github.com/petasbytes/simplemath/internal/extract"
	"github.com/petasbytes/simplemath/internal/metrics"
	"github.com/petasbytes/simplemath/internal/provider"
	"github.com/petasbytes/simplemath/internal/settings"
	"github.com/petasbytes/simplemath/internal/telemetry"
	"github.com/petasbytes/simplemath/memory"
)

// Options configure an Orchestrator. The zero value is usable.
type Options struct {
	// Rounds overrides round labels or prompts; empty fields keep the defaults.
	Rounds [TotalRounds]Round
	// Animations receives extracted code. Nil disables the hand-off.
	Animations animation.Creator
	// AnimationTitle defaults to DefaultAnimationTitle.
	AnimationTitle string
	// OnStatus receives a snapshot after every status change.
	OnStatus func(Status)
	// Settings supplies the system prompt of GenerateCode. Nil means settings.Defaults.
	Settings settings.Source
	// Now defaults to time.Now.
	Now func() time.Time
}

// Result of a successful run.
type Result struct {
	ConversationID string               `json:"conversationId"`
	Reply          string               `json:"reply"`
	Code           string               `json:"code,omitempty"`
	Animation      *animation.Animation `json:"animation,omitempty"`
	Run            Status               `json:"run"`
}

// Orchestrator drives the three-round pipeline. One run at a time.
type Orchestrator struct {
	client     provider.Client
	store      *memory.Store
	rounds     [TotalRounds]Round
	animations animation.Creator
	title      string
	onStatus   func(Status)
	settings   settings.Source
	now        func() time.Time

	busy atomic.Bool

	mu      sync.Mutex
	status  Status
	lastRun Status
	lastErr error
}

func New(client provider.Client, store *memory.Store, opts Options) *Orchestrator {
	o := &Orchestrator{
		client:     client,
		store:      store,
		rounds:     withDefaults(opts.Rounds),
		animations: opts.Animations,
		title:      opts.AnimationTitle,
		onStatus:   opts.OnStatus,
		settings:   opts.Settings,
		now:        opts.Now,
		status:     idleStatus(),
		lastRun:    idleStatus(),
	}
	if o.title == "" {
		o.title = DefaultAnimationTitle
	}
	if o.settings == nil {
		o.settings = settings.Static(settings.Defaults())
	}
	if o.now == nil {
		o.now = time.Now
	}
	return o
}

// Status returns a snapshot of the live run status.
func (o *Orchestrator) Status() Status {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.status.clone()
}

// LastRun returns the status of the most recent run as it stood when it ended.
func (o *Orchestrator) LastRun() Status {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.lastRun.clone()
}

// LastError returns the error of the most recent run, or nil.
func (o *Orchestrator) LastError() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.lastErr
}

// Busy reports whether a run is in flight.
func (o *Orchestrator) Busy() bool { return o.busy.Load() }

func (o *Orchestrator) updateStatus(fn func(*Status)) {
	o.mu.Lock()
	fn(&o.status)
	snap := o.status.clone()
	o.mu.Unlock()
	if o.onStatus != nil {
		o.onStatus(snap)
	}
}

// finish records the run outcome and returns the live status to idle.
func (o *Orchestrator) finish(err error) Status {
	o.mu.Lock()
	run := o.status.clone()
	run.IsProcessing = false
	o.lastRun = run
	o.lastErr = err
	o.status = idleStatus()
	snap := o.status.clone()
	o.mu.Unlock()
	if o.onStatus != nil {
		o.onStatus(snap)
	}
	return run
}

func progressID(round int, phase string, t time.Time) string {
	return fmt.Sprintf("progress-%d-%s-%d", round, phase, t.UnixNano())
}

// SendMessage runs the pipeline for userText. It returns ErrEmptyInput or
// ErrBusy without touching any state, and a *RoundError when a round fails.
func (o *Orchestrator) SendMessage(ctx context.Context, userText string) (*Result, error) {
	if strings.TrimSpace(userText) == "" {
		return nil, ErrEmptyInput
	}
	if !o.busy.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}
	defer o.busy.Store(false)

	o.updateStatus(func(s *Status) {
		*s = Status{
			IsProcessing:    true,
			TotalRounds:     TotalRounds,
			RoundResults:    []string{},
			CompletedRounds: []int{},
		}
	})

	conv := o.store.EnsureCurrent()
	turnID, ok := telemetry.TurnIDFromContext(ctx)
	if !ok {
		turnID = fmt.Sprintf("turn-%d", o.now().UnixNano())
	}
	ctx = telemetry.WithTurnID(ctx, turnID)
	ctx = telemetry.WithConversationID(ctx, conv.ID)
	logger := log.WithFields(log.Fields{"conversation": conv.ID, "turn": turnID})

	telemetry.Emit("turn_started", map[string]any{
		"turn_id":         turnID,
		"conversation_id": conv.ID,
		"input_size":      len(userText),
	})
	telemetry.EmitLocalFeatures(ctx, userText)

	if _, err := o.store.AppendTo(conv.ID, memory.Message{Role: memory.RoleUser, Content: userText}); err != nil {
		return nil, o.fail(logger, 0, "", err)
	}

	var (
		input       = userText
		reply       string
		completions []string
	)
	for i, r := range o.rounds {
		round := i + 1
		o.updateStatus(func(s *Status) {
			s.CurrentRound = round
			s.RoundName = r.Name
		})
		rlog := logger.WithField("round", round)
		rlog.WithField("name", r.Name).Info("round started")
		telemetry.Emit("round_started", map[string]any{"turn_id": turnID, "round": round, "input_size": len(input)})

		startID := o.appendProgress(conv.ID, memory.Message{
			ID:      progressID(round, "start", o.now()),
			Content: fmt.Sprintf("第%d轮：正在进行%s...", round, r.Name),
			Round:   round,
		}, rlog)

		started := time.Now()
		out, err := o.client.GenerateResponse(ctx, []provider.Message{
			{Role: provider.RoleSystem, Content: r.Prompt},
			{Role: provider.RoleUser, Content: input},
		})
		elapsed := time.Since(started)
		metrics.ObserveRound(round, elapsed, err)
		if err != nil {
			telemetry.Emit("round_failed", map[string]any{
				"turn_id":     turnID,
				"round":       round,
				"duration_ms": elapsed.Milliseconds(),
				"error":       fmt.Sprintf("%T", err),
			})
			return nil, o.fail(rlog, round, r.Name, err)
		}

		o.updateStatus(func(s *Status) {
			s.RoundResults = append(s.RoundResults, out)
			s.CompletedRounds = append(s.CompletedRounds, round)
		})
		if startID != "" {
			if err := o.store.RemoveProgress(conv.ID, startID); err != nil {
				rlog.WithError(err).Warn("failed to remove progress message")
			}
		}
		if doneID := o.appendProgress(conv.ID, memory.Message{
			ID:      progressID(round, "done", o.now()),
			Content: fmt.Sprintf("第%d轮：%s完成", round, r.Name),
			Round:   round,
		}, rlog); doneID != "" {
			completions = append(completions, doneID)
		}
		if round < TotalRounds {
			if _, err := o.store.AppendTo(conv.ID, memory.Message{Role: memory.RoleAssistant, Content: out, Round: round}); err != nil {
				return nil, o.fail(rlog, round, r.Name, err)
			}
		}

		telemetry.Emit("round_completed", map[string]any{
			"turn_id":     turnID,
			"round":       round,
			"duration_ms": elapsed.Milliseconds(),
			"output_size": len(out),
		})
		rlog.WithField("duration", elapsed.Round(time.Millisecond)).Info("round completed")
		input = out
		reply = out
	}

	final, err := o.store.AppendTo(conv.ID, memory.Message{Role: memory.RoleAssistant, Content: reply, Round: TotalRounds})
	if err != nil {
		return nil, o.fail(logger, TotalRounds, o.rounds[TotalRounds-1].Name, err)
	}

	res := &Result{ConversationID: conv.ID, Reply: reply}
	if extract.ContainsP5Code(reply) {
		if code, ok := extract.ExtractCode(reply); ok {
			res.Code = code
			if _, err := o.store.UpdateMessage(conv.ID, final.ID, memory.MessagePatch{GeneratedCode: &code}); err != nil {
				logger.WithError(err).Warn("failed to attach generated code")
			}
			telemetry.Emit("code_extracted", map[string]any{"turn_id": turnID, "code_size": len(code)})
			res.Animation = o.handOff(ctx, code, logger)
		}
	}

	for _, id := range completions {
		if err := o.store.RemoveProgress(conv.ID, id); err != nil {
			logger.WithError(err).Warn("failed to remove progress message")
		}
	}

	res.Run = o.finish(nil)
	logger.Info("request completed")
	return res, nil
}

// appendProgress adds a progress message and returns its id, or "" when it
// could not be appended. Progress entries only drive UI feedback.
func (o *Orchestrator) appendProgress(convID string, m memory.Message, l *log.Entry) string {
	m.Role = memory.RoleSystem
	m.IsProgress = true
	added, err := o.store.AppendTo(convID, m)
	if err != nil {
		l.WithError(err).Warn("failed to append progress message")
		return ""
	}
	return added.ID
}

func (o *Orchestrator) handOff(ctx context.Context, code string, l *log.Entry) *animation.Animation {
	if o.animations == nil {
		return nil
	}
	a, err := o.animations.Create(ctx, animation.Spec{
		Code:   code,
		Title:  o.title,
		Width:  animation.DefaultWidth,
		Height: animation.DefaultHeight,
	})
	metrics.ObserveAnimation(err)
	if err != nil {
		l.WithError(err).Warn("failed to create animation")
		return nil
	}
	turnID, _ := telemetry.TurnIDFromContext(ctx)
	telemetry.Emit("animation_created", map[string]any{"turn_id": turnID, "animation_id": a.ID})
	return &a
}

func (o *Orchestrator) fail(l *log.Entry, round int, name string, err error) error {
	rerr := &RoundError{Round: round, RoundName: name, Err: err}
	rerr.Run = o.finish(rerr)
	l.WithError(err).Error("request failed")
	return rerr
}
