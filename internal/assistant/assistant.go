package assistant

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"go-rental-pos/internal/store"
)

// State is the lifecycle stage of the background-loaded inference engine.
type State string

const (
	StateInitial State = "initial"
	StateLoading State = "loading"
	StateReady   State = "ready"
	StateFailed  State = "failed"
)

// Status is the readiness snapshot exposed to the dashboard and chat UI.
type Status struct {
	State   State  `json:"state"`
	Message string `json:"message"`
}

// EngineOpener performs the one-time (and possibly slow) engine construction.
// It runs on the loader goroutine, never on a request path.
type EngineOpener func() (Engine, error)

// Chunk is one unit of a streamed chat reply: a text fragment or an error.
type Chunk struct {
	Text string
	Err  error
}

// Assistant owns the readiness state machine and serves chat queries. The
// mutex guards state/message/engine against a torn read between the loader
// goroutine and concurrent status queries; everything else is read-only after
// construction.
type Assistant struct {
	store     *store.Store
	open      EngineOpener
	maxTokens int
	charDelay time.Duration // pacing of the synthetic fallback stream

	mu      sync.Mutex
	state   State
	message string
	engine  Engine
}

func New(st *store.Store, open EngineOpener) *Assistant {
	return &Assistant{
		store:     st,
		open:      open,
		maxTokens: 200,
		charDelay: 10 * time.Millisecond,
		state:     StateInitial,
		message:   "Starting...",
	}
}

// LoadInBackground kicks off the one-time model load on its own goroutine so
// request serving never blocks on it. Calling again while loading or after
// success is a no-op. A failed load is terminal until process restart; the
// fallback answers keep working.
func (a *Assistant) LoadInBackground() {
	a.mu.Lock()
	if a.state == StateLoading || a.state == StateReady {
		a.mu.Unlock()
		return
	}
	a.state = StateLoading
	a.message = "Loading model..."
	a.mu.Unlock()

	go a.load()
}

func (a *Assistant) load() {
	engine, err := a.open()

	a.mu.Lock()
	defer a.mu.Unlock()
	if err != nil {
		a.state = StateFailed
		a.message = "Error: " + err.Error()
		log.Printf("assistant: model load failed: %v", err)
		return
	}
	a.engine = engine
	a.state = StateReady
	a.message = "Assistant operational"
	log.Println("assistant: model loaded")
}

func (a *Assistant) Status() Status {
	a.mu.Lock()
	defer a.mu.Unlock()
	return Status{State: a.state, Message: a.message}
}

func (a *Assistant) readyEngine() (Engine, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.engine, a.state == StateReady && a.engine != nil
}

// Query answers a free-text question as a stream of chunks. The business
// snapshot is built first in every case. If the engine is not ready the reply
// comes from the keyword rules, streamed character by character so the caller
// sees one interface either way. Engine failures surface as a single error
// chunk rather than tearing down the stream.
func (a *Assistant) Query(ctx context.Context, question string) <-chan Chunk {
	out := make(chan Chunk)

	go func() {
		defer close(out)

		snap, err := BuildSnapshot(a.store)
		if err != nil {
			emitChunk(ctx, out, Chunk{Err: err})
			return
		}

		engine, ok := a.readyEngine()
		if !ok {
			a.streamFallback(ctx, out, question, snap)
			return
		}

		prompt := buildPrompt(snap.Text(), question)
		var full strings.Builder
		tokens := 0
		err = engine.Predict(ctx, prompt, a.maxTokens, func(token string) bool {
			tokens++
			full.WriteString(token)
			// Heuristic loop breaker: once the reply drifts into a closing
			// pleasantry the model is done saying anything useful.
			if closingPleasantry(full.String()) {
				return false
			}
			if !emitChunk(ctx, out, Chunk{Text: token}) {
				return false
			}
			return tokens < a.maxTokens
		})
		if err != nil {
			emitChunk(ctx, out, Chunk{Err: err})
		}
	}()

	return out
}

func (a *Assistant) streamFallback(ctx context.Context, out chan<- Chunk, question string, snap *Snapshot) {
	reply := ""
	if a.Status().State == StateLoading {
		reply = "The assistant model is still loading. Here is a structured answer in the meantime:\n\n"
	}
	reply += fallbackAnswer(question, snap)

	for _, r := range reply {
		if !emitChunk(ctx, out, Chunk{Text: string(r)}) {
			return
		}
		if a.charDelay > 0 {
			time.Sleep(a.charDelay)
		}
	}
}

func emitChunk(ctx context.Context, out chan<- Chunk, c Chunk) bool {
	select {
	case <-ctx.Done():
		return false
	case out <- c:
		return true
	}
}

var closingMarkers = []string{
	"can i help you",
	"anything else",
	"do you need anything",
}

func closingPleasantry(s string) bool {
	ls := strings.ToLower(s)
	for _, m := range closingMarkers {
		if strings.Contains(ls, m) {
			return true
		}
	}
	return false
}
