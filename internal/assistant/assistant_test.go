package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"go-rental-pos/internal/database"
	"go-rental-pos/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// fakeEngine replays a fixed token stream.
type fakeEngine struct {
	tokens []string
	err    error
	prompt string
	closed bool
}

func (f *fakeEngine) Predict(_ context.Context, prompt string, _ int, emit func(string) bool) error {
	f.prompt = prompt
	for _, tok := range f.tokens {
		if !emit(tok) {
			return nil
		}
	}
	return f.err
}

func (f *fakeEngine) Close() { f.closed = true }

func newTestAssistant(t *testing.T, open EngineOpener) *Assistant {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	a := New(store.New(db), open)
	a.charDelay = 0 // no pacing in tests
	return a
}

// collect drains a reply stream into the joined text and the first error.
func collect(t *testing.T, ch <-chan Chunk) (string, error) {
	t.Helper()
	var b strings.Builder
	var firstErr error
	for c := range ch {
		if c.Err != nil && firstErr == nil {
			firstErr = c.Err
		}
		b.WriteString(c.Text)
	}
	return b.String(), firstErr
}

func waitForState(t *testing.T, a *Assistant, want State) {
	t.Helper()
	require.Eventually(t, func() bool {
		return a.Status().State == want
	}, 2*time.Second, 5*time.Millisecond)
}

func TestLoadInBackgroundSuccess(t *testing.T) {
	engine := &fakeEngine{tokens: []string{"ok"}}
	a := newTestAssistant(t, func() (Engine, error) { return engine, nil })

	assert.Equal(t, StateInitial, a.Status().State)

	a.LoadInBackground()
	waitForState(t, a, StateReady)
	assert.Equal(t, "Assistant operational", a.Status().Message)

	// A second call after success is a no-op.
	a.LoadInBackground()
	assert.Equal(t, StateReady, a.Status().State)
}

func TestLoadInBackgroundFailure(t *testing.T) {
	a := newTestAssistant(t, func() (Engine, error) {
		return nil, errors.New("model file not found")
	})

	a.LoadInBackground()
	waitForState(t, a, StateFailed)
	assert.Contains(t, a.Status().Message, "model file not found")
}

func TestQueryFallbackBeforeLoad(t *testing.T) {
	a := newTestAssistant(t, func() (Engine, error) { return nil, errors.New("unused") })

	text, err := collect(t, a.Query(context.Background(), "what is the total revenue?"))
	require.NoError(t, err)
	assert.Contains(t, text, "Statistics:")
	assert.NotContains(t, text, "still loading")
}

func TestQueryFallbackWhileLoading(t *testing.T) {
	release := make(chan struct{})
	a := newTestAssistant(t, func() (Engine, error) {
		<-release
		return &fakeEngine{}, nil
	})
	defer close(release)

	a.LoadInBackground()
	require.Equal(t, StateLoading, a.Status().State)

	text, err := collect(t, a.Query(context.Background(), "total revenue"))
	require.NoError(t, err)
	assert.Contains(t, text, "still loading")
	assert.Contains(t, text, "Statistics:")
}

func TestQueryFallbackStreamsCharByChar(t *testing.T) {
	a := newTestAssistant(t, func() (Engine, error) { return nil, errors.New("unused") })

	var chunks []string
	for c := range a.Query(context.Background(), "anything at all") {
		require.NoError(t, c.Err)
		chunks = append(chunks, c.Text)
	}
	require.NotEmpty(t, chunks)
	for _, c := range chunks {
		assert.Len(t, []rune(c), 1)
	}
	assert.Equal(t, fallbackHelp, strings.Join(chunks, ""))
}

func TestQueryUsesEngineWhenReady(t *testing.T) {
	engine := &fakeEngine{tokens: []string{"Stock ", "is ", "fine."}}
	a := newTestAssistant(t, func() (Engine, error) { return engine, nil })
	a.LoadInBackground()
	waitForState(t, a, StateReady)

	text, err := collect(t, a.Query(context.Background(), "how is the stock?"))
	require.NoError(t, err)
	assert.Equal(t, "Stock is fine.", text)
	assert.Contains(t, engine.prompt, "how is the stock?")
	assert.Contains(t, engine.prompt, "BUSINESS DATA SNAPSHOT")
}

func TestQueryStopsOnClosingPleasantry(t *testing.T) {
	engine := &fakeEngine{tokens: []string{
		"Sales are up. ",
		"Can I help you with anything else?",
		"Sales are up. ", // must never arrive
	}}
	a := newTestAssistant(t, func() (Engine, error) { return engine, nil })
	a.LoadInBackground()
	waitForState(t, a, StateReady)

	text, err := collect(t, a.Query(context.Background(), "sales?"))
	require.NoError(t, err)
	assert.Equal(t, "Sales are up. ", text)
}

func TestQueryEnforcesTokenCap(t *testing.T) {
	tokens := make([]string, 1000)
	for i := range tokens {
		tokens[i] = "x"
	}
	a := newTestAssistant(t, func() (Engine, error) { return &fakeEngine{tokens: tokens}, nil })
	a.LoadInBackground()
	waitForState(t, a, StateReady)

	text, err := collect(t, a.Query(context.Background(), "go on forever"))
	require.NoError(t, err)
	assert.Equal(t, a.maxTokens, len(text))
}

func TestQueryEngineErrorBecomesChunk(t *testing.T) {
	engine := &fakeEngine{tokens: []string{"partial "}, err: errors.New("inference blew up")}
	a := newTestAssistant(t, func() (Engine, error) { return engine, nil })
	a.LoadInBackground()
	waitForState(t, a, StateReady)

	text, err := collect(t, a.Query(context.Background(), "sales?"))
	assert.Equal(t, "partial ", text)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "inference blew up")
}

func TestQueryHonorsContextCancel(t *testing.T) {
	a := newTestAssistant(t, func() (Engine, error) { return nil, errors.New("unused") })

	ctx, cancel := context.WithCancel(context.Background())
	ch := a.Query(ctx, "what products are there?")
	<-ch // first chunk arrived
	cancel()

	require.Eventually(t, func() bool {
		_, open := <-ch
		return !open
	}, 2*time.Second, 5*time.Millisecond)
}
