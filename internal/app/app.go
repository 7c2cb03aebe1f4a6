// Package app wires the frame source, the gesture engine and the action,
// cue and history collaborators into the running leapmedia pipeline.
package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/ayusman/leapmedia/internal/capture"
	"github.com/ayusman/leapmedia/internal/cue"
	"github.com/ayusman/leapmedia/internal/gesture"
	"github.com/ayusman/leapmedia/internal/hand"
	"github.com/ayusman/leapmedia/internal/plugin"
	"github.com/ayusman/leapmedia/internal/render"
	"github.com/ayusman/leapmedia/internal/server"
	"github.com/ayusman/leapmedia/internal/store"
)

// Pipeline defaults.
const (
	// DefaultReconnectMin is the first delay before reopening a failed source.
	DefaultReconnectMin = 500 * time.Millisecond
	// DefaultReconnectMax caps the reconnect backoff.
	DefaultReconnectMax = 10 * time.Second
	// HistoryQueueSize bounds history writes waiting for the database.
	HistoryQueueSize = 64
)

// ErrNoSource is returned by New when no frame source is configured.
var ErrNoSource = errors.New("no frame source configured")

// Config holds configuration options for the application.
type Config struct {
	Store  *store.Store
	Source capture.Source

	// PluginDir is scanned for action plugins. Runner defaults to a
	// subprocess executor with PluginTimeout.
	PluginDir     string
	PluginTimeout time.Duration
	Runner        plugin.Runner
	QueueSize     int

	// Cue and Hands are optional.
	Cue   *cue.Player
	Hands *server.Broadcaster

	Laterality hand.Laterality
	Presets    []string
	Timing     gesture.Timing

	// Retention prunes history older than this when the app is created.
	Retention time.Duration

	ReconnectMin time.Duration
	ReconnectMax time.Duration
}

// App is the main application that orchestrates gesture detection and action execution.
type App struct {
	config     Config
	engine     *gesture.Engine
	pluginMgr  *plugin.Manager
	dispatcher *plugin.Dispatcher
	history    *recorder

	mu         sync.RWMutex
	enabled    bool
	state      gesture.State
	lastAction string
	onAction   []func(gesture.Action)

	// frameTS is the timestamp of the frame being processed. Only the
	// pipeline goroutine touches it.
	frameTS hand.Timestamp

	frames   atomic.Int64
	acquired atomic.Int64

	runMu  sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// New creates a new App instance with the given configuration.
func New(config Config) (*App, error) {
	if config.Source == nil {
		return nil, ErrNoSource
	}
	if config.Store == nil {
		return nil, errors.New("no store configured")
	}
	if config.PluginTimeout <= 0 {
		config.PluginTimeout = 5 * time.Second
	}
	if config.Runner == nil {
		config.Runner = plugin.NewExecutor(config.PluginTimeout)
	}
	if config.ReconnectMin <= 0 {
		config.ReconnectMin = DefaultReconnectMin
	}
	if config.ReconnectMax < config.ReconnectMin {
		config.ReconnectMax = max(DefaultReconnectMax, config.ReconnectMin)
	}

	a := &App{
		config:    config,
		pluginMgr: plugin.NewManager(config.PluginDir),
		done:      make(chan struct{}),
	}
	close(a.done)

	detectors := make([]gesture.Detector, 0, len(config.Presets))
	for _, name := range config.Presets {
		d, err := gesture.NewPreset(name, a.actionSink(name), config.Timing)
		if err != nil {
			return nil, err
		}
		detectors = append(detectors, d)
	}

	engine, err := gesture.NewEngine(gesture.EngineConfig{
		Laterality: config.Laterality,
		OnAcquired: a.handAcquired,
		Detectors:  detectors,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build engine: %w", err)
	}
	a.engine = engine

	a.dispatcher = plugin.NewDispatcher(a.pluginMgr, config.Runner, plugin.DispatcherConfig{
		QueueSize: config.QueueSize,
		OnResult:  a.actionDone,
	})

	enabled, err := config.Store.Settings().GetBool(store.SettingEnabled, true)
	if err != nil {
		log.Printf("Ignoring stored enabled setting: %v", err)
		enabled = true
	}
	a.enabled = enabled

	if config.Retention > 0 {
		n, err := config.Store.Events().DeleteBefore(time.Now().Add(-config.Retention))
		if err != nil {
			log.Printf("Failed to prune history: %v", err)
		} else if n > 0 {
			log.Printf("Pruned %d events older than %s", n, config.Retention)
		}
	}

	return a, nil
}

// DiscoverPlugins scans the plugin directory and loads available plugins.
func (a *App) DiscoverPlugins() error {
	if err := a.pluginMgr.Discover(); err != nil {
		return err
	}
	bindings := a.pluginMgr.Bindings()
	for _, act := range gesture.Actions() {
		if name, ok := bindings[act.String()]; ok {
			log.Printf("%s -> plugin %s", act, name)
		} else {
			log.Printf("No plugin handles %s", act)
		}
	}
	return nil
}

// OnAction registers fn to be called, on the pipeline goroutine, whenever a
// detector fires. fn must not block.
func (a *App) OnAction(fn func(gesture.Action)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.onAction = append(a.onAction, fn)
}

// SetEnabled pauses or resumes gesture tracking and persists the choice.
func (a *App) SetEnabled(enabled bool) error {
	a.mu.Lock()
	changed := a.enabled != enabled
	a.enabled = enabled
	a.mu.Unlock()

	if changed {
		if enabled {
			log.Println("Gesture tracking resumed")
		} else {
			log.Println("Gesture tracking paused")
		}
	}
	return a.config.Store.Settings().SetBool(store.SettingEnabled, enabled)
}

// IsEnabled returns whether gesture detection is currently enabled.
func (a *App) IsEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// Status returns a snapshot of what the pipeline saw last.
func (a *App) Status() render.Status {
	a.mu.RLock()
	defer a.mu.RUnlock()

	st := a.state
	if st.Sample != nil {
		sample := *st.Sample
		st.Sample = &sample
	}
	return render.Status{State: st, Enabled: a.enabled, LastAction: a.lastAction}
}

// Stats counts pipeline activity.
type Stats struct {
	Frames         int64                  `json:"frames"`
	Acquired       int64                  `json:"acquired"`
	SourceDropped  int64                  `json:"sourceDropped"`
	HistoryDropped int64                  `json:"historyDropped"`
	CuePlays       int64                  `json:"cuePlays"`
	CueSkipped     int64                  `json:"cueSkipped"`
	FeedPublished  uint64                 `json:"feedPublished"`
	FeedDropped    uint64                 `json:"feedDropped"`
	Dispatch       plugin.DispatcherStats `json:"dispatch"`
}

// droppedCounter is implemented by sources that discard bad samples.
type droppedCounter interface {
	Dropped() int64
}

// Stats returns the pipeline counters.
func (a *App) Stats() Stats {
	s := Stats{
		Frames:   a.frames.Load(),
		Acquired: a.acquired.Load(),
		Dispatch: a.dispatcher.Stats(),
	}
	if dc, ok := a.config.Source.(droppedCounter); ok {
		s.SourceDropped = dc.Dropped()
	}
	if a.config.Cue != nil {
		s.CuePlays = a.config.Cue.Plays()
		s.CueSkipped = a.config.Cue.Skipped()
	}
	if a.config.Hands != nil {
		s.FeedPublished = a.config.Hands.Published()
		s.FeedDropped = a.config.Hands.Dropped()
	}
	a.runMu.Lock()
	if a.history != nil {
		s.HistoryDropped = a.history.dropped.Load()
	}
	a.runMu.Unlock()
	return s
}

// Start launches the dispatcher, the history writer and the frame pipeline.
func (a *App) Start(ctx context.Context) error {
	a.runMu.Lock()
	defer a.runMu.Unlock()

	// Don't start if already running
	if a.cancel != nil {
		return nil
	}

	ctx, a.cancel = context.WithCancel(ctx)
	done := make(chan struct{})
	a.done = done
	a.history = newRecorder(a.config.Store.Events(), HistoryQueueSize)
	a.dispatcher.Start(ctx)

	go func() {
		defer close(done)
		a.runPipeline(ctx)
	}()

	log.Println("Gesture pipeline started")
	return nil
}

// Done is closed when the pipeline stops, either through Stop or because a
// finite source ran out of frames.
func (a *App) Done() <-chan struct{} {
	a.runMu.Lock()
	defer a.runMu.Unlock()
	return a.done
}

// Stop halts the pipeline, finishes the action in flight and flushes history.
func (a *App) Stop() {
	a.runMu.Lock()
	defer a.runMu.Unlock()

	if a.cancel == nil {
		return
	}
	a.cancel()
	<-a.done
	a.cancel = nil

	a.dispatcher.Stop()
	a.history.close()
	if a.config.Cue != nil {
		a.config.Cue.Wait()
	}

	log.Println("Gesture pipeline stopped")
}

// PluginManager returns the plugin manager.
func (a *App) PluginManager() *plugin.Manager {
	return a.pluginMgr
}

// actionSink returns the sink for the named preset. It runs on the pipeline
// goroutine: the action is queued for execution and recorded without waiting.
func (a *App) actionSink(detector string) gesture.ActionSink {
	return func(act gesture.Action) {
		actor, _ := a.engine.CurrentActor()
		e := &store.Event{
			ID:       uuid.New().String(),
			Kind:     store.KindAction,
			Action:   act.String(),
			Detector: detector,
			ActorID:  actor,
			FrameTS:  int64(a.frameTS),
		}
		log.Printf("%s fired %s (hand %d)", detector, act, actor)

		if err := a.history.create(e); err != nil {
			log.Printf("Not recording %s: %v", act, err)
		}
		if err := a.dispatcher.Enqueue(plugin.Job{
			ID:       e.ID,
			Action:   e.Action,
			Detector: detector,
			ActorID:  actor,
			FrameTS:  e.FrameTS,
		}); err != nil {
			a.history.setResult(e.ID, false, err.Error())
		}

		a.mu.Lock()
		a.lastAction = e.Action
		listeners := a.onAction
		a.mu.Unlock()
		for _, fn := range listeners {
			fn(act)
		}
	}
}

// handAcquired runs on the pipeline goroutine when a new hand takes over.
func (a *App) handAcquired(actorID int) {
	a.acquired.Add(1)
	if a.config.Cue != nil {
		a.config.Cue.Play()
	}
	err := a.history.create(&store.Event{
		Kind:    store.KindAcquired,
		ActorID: actorID,
		FrameTS: int64(a.frameTS),
	})
	if err != nil {
		log.Printf("Not recording hand %d: %v", actorID, err)
	}
}

// actionDone runs on the dispatcher worker after each job.
func (a *App) actionDone(r plugin.Result) {
	errMsg := ""
	if r.Err != nil {
		errMsg = r.Err.Error()
		log.Printf("Action %s failed after %s: %v", r.Job.Action, r.Duration.Round(time.Millisecond), r.Err)
	}
	if r.Job.ID == "" {
		return
	}
	if err := a.history.setResult(r.Job.ID, r.OK(), errMsg); err != nil {
		log.Printf("Not recording result of %s: %v", r.Job.Action, err)
	}
}
