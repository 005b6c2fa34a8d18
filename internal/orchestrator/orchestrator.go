// Package orchestrator drives one story session: it sequences the text and
// image calls for each turn, extracts the offered options, appends narrator
// turns to the store and exposes pending/error state to the presentation layer.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Yates-Labs/storyjourney/internal/narrative"
	"github.com/Yates-Labs/storyjourney/internal/story"
)

var (
	ErrConcurrentAdvanceRejected = errors.New("advance already in progress")
	ErrUnknownOption             = errors.New("unknown option")
)

// Config holds orchestration policy.
type Config struct {
	// DegradeOnImageFailure appends the scene without an illustration when
	// image generation fails. When false the whole turn is dropped.
	DegradeOnImageFailure bool

	// OnTransition, if set, is called after every state change.
	// It runs without the orchestrator lock held.
	OnTransition func(from, to State)
}

// DefaultConfig returns the default orchestration policy.
func DefaultConfig() Config {
	return Config{
		DegradeOnImageFailure: true,
	}
}

// Result is the outcome of a completed advance.
type Result struct {
	Conversation story.Conversation
	Turn         story.Turn
	Options      []narrative.Option
}

// View is a read-only snapshot for the presentation layer.
type View struct {
	SessionID    string
	Conversation story.Conversation
	State        State
	Pending      bool
	LastError    error
	Options      []narrative.Option
}

// HasOptions reports whether the latest scene offered choices.
// Without options the presentation layer falls back to free text input.
func (v View) HasOptions() bool {
	return len(v.Options) > 0
}

// Orchestrator is the turn state machine for one session.
// At most one Advance runs at a time; Snapshot may be called concurrently.
type Orchestrator struct {
	client    narrative.Client
	store     *story.Store
	config    Config
	logger    *zap.Logger
	sessionID string

	mu      sync.Mutex
	state   State
	lastErr error
	options []narrative.Option
}

// New creates an orchestrator over client and store.
// A nil store starts a fresh session; a nil logger disables logging.
func New(client narrative.Client, store *story.Store, config Config, logger *zap.Logger) *Orchestrator {
	if store == nil {
		store = story.NewStore()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	o := &Orchestrator{
		client:    client,
		store:     store,
		config:    config,
		sessionID: uuid.NewString(),
		state:     StateIdle,
	}
	o.logger = logger.With(zap.String("session_id", o.sessionID))

	if last, ok := store.Last(); ok && last.Role == story.RoleAssistant {
		o.options = narrative.ExtractOptions(last.Content)
	}
	return o
}

// SessionID identifies this session in logs.
func (o *Orchestrator) SessionID() string {
	return o.sessionID
}

// Advance runs one full turn: text generation, option extraction, image
// generation and the store append.
//
// The player's input is sent to the text service but never stored; only the
// narrator's answer becomes a turn.
//
// When image generation fails under the default policy, the scene is still
// appended without an illustration and Advance returns both the Result and an
// error matching narrative.ErrImageGeneration.
func (o *Orchestrator) Advance(ctx context.Context, userInput string) (*Result, error) {
	if err := o.begin(userInput); err != nil {
		o.logger.Debug("Advance rejected", zap.Error(err))
		return nil, err
	}

	log := o.logger.With(zap.Int("turn", o.store.Len()))

	// Stage 1: compose the request
	messages, err := narrative.AssembleMessages(o.store.ToHistory(), userInput)
	if err != nil {
		return nil, o.fail(log, err)
	}

	// Stage 2: scene text
	log.Info("Requesting scene text", zap.Int("messages", len(messages)), zap.Int("input_bytes", len(userInput)))
	start := time.Now()
	text, err := o.client.GenerateText(ctx, messages)
	if err != nil {
		return nil, o.fail(log, normalize(err, narrative.OpText))
	}
	log.Info("Scene text received", zap.Int("text_bytes", len(text)), zap.Duration("elapsed", time.Since(start)))

	// Stage 3: options
	options := narrative.ExtractOptions(text)
	log.Debug("Options extracted", zap.Int("options", len(options)))

	// Stage 4: illustration
	o.transition(StateRequestingImage)
	start = time.Now()
	imageURL, imageErr := o.client.GenerateImage(ctx, text)
	if imageErr != nil {
		imageErr = normalize(imageErr, narrative.OpImage)
		if !o.config.DegradeOnImageFailure {
			log.Warn("Dropping turn after image failure")
			return nil, o.fail(log, imageErr)
		}
		log.Warn("Image generation failed, keeping scene without illustration",
			zap.Error(imageErr), zap.Duration("elapsed", time.Since(start)))
		imageURL = ""
	} else if imageURL == "" {
		log.Info("Image service returned no candidate", zap.Duration("elapsed", time.Since(start)))
	} else {
		log.Info("Illustration received", zap.Duration("elapsed", time.Since(start)))
	}

	// Stage 5: append
	turn := story.Turn{Role: story.RoleAssistant, Content: text, Image: imageURL}
	conv, err := o.store.Append(turn)
	if err != nil {
		return nil, o.fail(log, err)
	}

	o.finish(options, imageErr)
	log.Info("Turn appended", zap.Int("turns", len(conv)), zap.Bool("illustrated", turn.HasImage()))

	return &Result{
		Conversation: conv,
		Turn:         turn,
		Options:      options,
	}, imageErr
}

// SubmitFreeText advances the story with the player's own words.
func (o *Orchestrator) SubmitFreeText(ctx context.Context, text string) (*Result, error) {
	return o.Advance(ctx, text)
}

// SelectOption advances the story with one of the latest options.
// The option label is sent as the player's input.
func (o *Orchestrator) SelectOption(ctx context.Context, label string) (*Result, error) {
	o.mu.Lock()
	opt, ok := narrative.FindOption(o.options, label)
	o.mu.Unlock()

	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownOption, label)
	}
	return o.Advance(ctx, opt.Label)
}

// Snapshot returns the current conversation and orchestration state.
func (o *Orchestrator) Snapshot() View {
	o.mu.Lock()
	defer o.mu.Unlock()

	return View{
		SessionID:    o.sessionID,
		Conversation: o.store.Conversation(),
		State:        o.state,
		Pending:      o.state.Pending(),
		LastError:    o.lastErr,
		Options:      append([]narrative.Option(nil), o.options...),
	}
}

// State returns the current state.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// begin enforces the single-flight guard. Empty input is recorded as the last
// error without leaving StateIdle.
func (o *Orchestrator) begin(userInput string) error {
	o.mu.Lock()
	if o.state != StateIdle {
		o.mu.Unlock()
		return ErrConcurrentAdvanceRejected
	}
	if strings.TrimSpace(userInput) == "" {
		o.lastErr = narrative.ErrEmptyInput
		o.mu.Unlock()
		return narrative.ErrEmptyInput
	}
	o.state = StateRequestingText
	o.mu.Unlock()

	o.notify(StateIdle, StateRequestingText)
	return nil
}

func (o *Orchestrator) transition(to State) {
	o.mu.Lock()
	from := o.state
	o.state = to
	o.mu.Unlock()

	o.notify(from, to)
}

// fail passes through StateFailed back to StateIdle and records err.
// The store is left untouched.
func (o *Orchestrator) fail(log *zap.Logger, err error) error {
	log.Warn("Advance failed", zap.Error(err), zap.String("cause", string(narrative.CauseOf(err))))

	o.mu.Lock()
	from := o.state
	o.state = StateIdle
	o.lastErr = err
	o.mu.Unlock()

	o.notify(from, StateFailed)
	o.notify(StateFailed, StateIdle)
	return err
}

// finish returns to StateIdle after an append. imageErr is nil on full success.
func (o *Orchestrator) finish(options []narrative.Option, imageErr error) {
	o.mu.Lock()
	from := o.state
	o.state = StateIdle
	o.lastErr = imageErr
	o.options = options
	o.mu.Unlock()

	if imageErr != nil {
		o.notify(from, StateFailed)
		o.notify(StateFailed, StateIdle)
		return
	}
	o.notify(from, StateIdle)
}

func (o *Orchestrator) notify(from, to State) {
	if o.config.OnTransition != nil {
		o.config.OnTransition(from, to)
	}
}

// normalize makes sure a client error matches the error kind of op.
func normalize(err error, op narrative.Op) error {
	kind := narrative.ErrTextGeneration
	if op == narrative.OpImage {
		kind = narrative.ErrImageGeneration
	}
	if errors.Is(err, kind) {
		return err
	}

	cause := narrative.CauseTransport
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		cause = narrative.CauseTimeout
	case errors.Is(err, context.Canceled):
		cause = narrative.CauseCanceled
	}
	return &narrative.GenerationError{Op: op, Cause: cause, Err: err}
}
