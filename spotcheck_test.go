package spotcheck_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/spotcheck"
	"github.com/aretw0/spotcheck/pkg/adapters/memory"
	redisstore "github.com/aretw0/spotcheck/pkg/adapters/redis"
	"github.com/aretw0/spotcheck/pkg/domain"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	eng      *spotcheck.Engine
	store    *memory.Store
	recorder *memory.Recorder
}

func newFixture(t *testing.T, steps ...domain.Step) *fixture {
	t.Helper()
	n := 0
	f := &fixture{store: memory.NewStore(), recorder: memory.NewRecorder()}
	eng, err := spotcheck.New(
		spotcheck.WithCatalog(memory.NewCatalog(steps...)),
		spotcheck.WithRecorder(f.recorder),
		spotcheck.WithStore(f.store),
		spotcheck.WithTokenGenerator(func() string {
			n++
			return fmt.Sprintf("tok-%d", n)
		}),
	)
	require.NoError(t, err)
	f.eng = eng
	return f
}

func threeSteps() []domain.Step {
	return []domain.Step{
		{Instruction: "one", Hotspot: domain.Hotspot{X1: 10, Y1: 10, X2: 50, Y2: 50}},
		{Instruction: "two", Hotspot: domain.Hotspot{X1: 10, Y1: 10, X2: 50, Y2: 50}},
		{Instruction: "three", Hotspot: domain.Hotspot{X1: 10, Y1: 10, X2: 50, Y2: 50}},
	}
}

func click(x, y, i int) domain.Interaction {
	return domain.Interaction{Click: &domain.Click{X: x, Y: y, StepIndex: i}}
}

func answers(d int) domain.Interaction {
	return domain.Interaction{Questionnaire: &domain.Questionnaire{Difficulty: d, UnclearStep: "none", ExpectedMissing: "none"}}
}

func TestNew_RequiresCatalogAndRecorder(t *testing.T) {
	_, err := spotcheck.New(spotcheck.WithRecorder(memory.NewRecorder()))
	assert.Error(t, err)
	_, err = spotcheck.New(spotcheck.WithCatalog(memory.NewCatalog()))
	assert.Error(t, err)
}

func TestInteract_RenderHasNoSideEffects(t *testing.T) {
	f := newFixture(t, threeSteps()...)
	ctx := context.Background()

	out, err := f.eng.Interact(ctx, "", domain.Interaction{})
	require.NoError(t, err)
	assert.Equal(t, "one", out.View.Instruction)
	assert.NotEmpty(t, out.Token)

	ids, _ := f.store.List(ctx)
	assert.Empty(t, ids, "page load must not create a session")
	assert.Equal(t, 0, f.recorder.Len())
}

func TestInteract_FirstClickCreatesSession(t *testing.T) {
	f := newFixture(t, threeSteps()...)
	ctx := context.Background()

	out, err := f.eng.Interact(ctx, "", click(30, 30, 0))
	require.NoError(t, err)
	assert.Equal(t, "two", out.View.Instruction)

	state, err := f.store.Load(ctx, out.Token)
	require.NoError(t, err)
	assert.Equal(t, 1, state.StepIndex)
}

func TestInteract_CompletionRotatesToken(t *testing.T) {
	// Scenario: questionnaire completes the attempt and the old token is absorbing
	f := newFixture(t, threeSteps()...)
	ctx := context.Background()

	out, err := f.eng.Interact(ctx, "", click(5, 5, 0))
	require.NoError(t, err)
	assert.Equal(t, domain.PhaseAwaitingQuestionnaire, out.View.Phase)
	oldToken := out.Token

	out, err = f.eng.Interact(ctx, oldToken, answers(7))
	require.NoError(t, err)
	assert.True(t, out.Rotated)
	assert.NotEqual(t, oldToken, out.Token)
	assert.Equal(t, domain.PhaseCompleted, out.View.Phase)
	assert.Equal(t, 2, f.recorder.Len())

	t.Run("Old Token Resubmit", func(t *testing.T) {
		again, err := f.eng.Interact(ctx, oldToken, answers(3))
		require.NoError(t, err)
		assert.Equal(t, domain.PhaseCompleted, again.View.Phase)
		assert.False(t, again.Rotated)
		assert.Equal(t, 2, f.recorder.Len(), "no second questionnaire row")
	})

	t.Run("Old Token Click", func(t *testing.T) {
		again, err := f.eng.Interact(ctx, oldToken, click(30, 30, 0))
		require.NoError(t, err)
		assert.Equal(t, domain.PhaseCompleted, again.View.Phase)
		assert.Equal(t, 2, f.recorder.Len(), "completed is absorbing")
	})

	t.Run("New Token Is Completed", func(t *testing.T) {
		again, err := f.eng.Interact(ctx, out.Token, domain.Interaction{})
		require.NoError(t, err)
		assert.Equal(t, domain.CompletionMessage, again.View.Message)
	})
}

func TestInteract_UnknownTokenStartsFresh(t *testing.T) {
	f := newFixture(t, threeSteps()...)
	ctx := context.Background()

	out, err := f.eng.Interact(ctx, "expired-or-forged", click(30, 30, 0))
	require.NoError(t, err)
	assert.NotEqual(t, "expired-or-forged", out.Token, "client-chosen tokens are never adopted")
	assert.Equal(t, 1, f.recorder.Len())

	_, err = f.store.Load(ctx, "expired-or-forged")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestInteract_EmptyCatalog(t *testing.T) {
	// Scenario: no steps, nothing stored
	f := newFixture(t)
	ctx := context.Background()

	out, err := f.eng.Interact(ctx, "", domain.Interaction{})
	assert.ErrorIs(t, err, domain.ErrEmptyCatalog)
	assert.Nil(t, out)

	_, err = f.eng.Interact(ctx, "", click(1, 1, 0))
	assert.ErrorIs(t, err, domain.ErrEmptyCatalog)

	ids, _ := f.store.List(ctx)
	assert.Empty(t, ids)
}

func TestInteract_ProtocolErrorReturnsCurrentView(t *testing.T) {
	f := newFixture(t, threeSteps()...)
	ctx := context.Background()

	out, err := f.eng.Interact(ctx, "", click(30, 30, 0))
	require.NoError(t, err)
	token := out.Token

	// Replaying the same click from a second tab.
	out, err = f.eng.Interact(ctx, token, click(30, 30, 0))
	assert.ErrorIs(t, err, domain.ErrStepMismatch)
	require.NotNil(t, out)
	assert.Equal(t, 1, out.View.StepIndex)
	assert.Equal(t, "two", out.View.Instruction)
	assert.Equal(t, 1, f.recorder.Len())
}

func TestInteract_QuestionnaireBeforeClicks(t *testing.T) {
	f := newFixture(t, threeSteps()...)
	out, err := f.eng.Interact(context.Background(), "", answers(5))
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	require.NotNil(t, out)
	assert.Equal(t, domain.PhaseInProgress, out.View.Phase)
	assert.Equal(t, 0, f.recorder.Len())
}

type failingStore struct{ *memory.Store }

func (failingStore) Save(ctx context.Context, id string, s *domain.State) error {
	return errors.New("store offline")
}

func TestInteract_StoreFailure(t *testing.T) {
	rec := memory.NewRecorder()
	eng, err := spotcheck.New(
		spotcheck.WithCatalog(memory.NewCatalog(threeSteps()...)),
		spotcheck.WithRecorder(rec),
		spotcheck.WithStore(failingStore{memory.NewStore()}),
	)
	require.NoError(t, err)

	out, err := eng.Interact(context.Background(), "", click(30, 30, 0))
	assert.Error(t, err)
	assert.Nil(t, out)
}

// flakyStore fails the next n saves.
type flakyStore struct {
	*memory.Store
	failures int
}

func (s *flakyStore) Save(ctx context.Context, id string, state *domain.State) error {
	if s.failures > 0 {
		s.failures--
		return errors.New("store offline")
	}
	return s.Store.Save(ctx, id, state)
}

func TestInteract_QuestionnaireRetryAfterRetireFailure(t *testing.T) {
	rec := memory.NewRecorder()
	store := &flakyStore{Store: memory.NewStore()}
	eng, err := spotcheck.New(
		spotcheck.WithCatalog(memory.NewCatalog(threeSteps()...)),
		spotcheck.WithRecorder(rec),
		spotcheck.WithStore(store),
	)
	require.NoError(t, err)
	ctx := context.Background()

	out, err := eng.Interact(ctx, "", click(5, 5, 0))
	require.NoError(t, err)
	token := out.Token

	// The answers are recorded but the session cannot be retired.
	store.failures = 1
	_, err = eng.Interact(ctx, token, answers(7))
	require.Error(t, err)
	assert.Equal(t, 2, rec.Len())

	// The participant resubmits under the same token.
	out, err = eng.Interact(ctx, token, answers(7))
	require.NoError(t, err)
	assert.True(t, out.Rotated)
	assert.Equal(t, domain.PhaseCompleted, out.View.Phase)
	assert.Equal(t, 2, rec.Len(), "no second questionnaire row")
}

func TestInteract_RedisReservedKeysStartFresh(t *testing.T) {
	mr := miniredis.RunT(t)
	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	store := redisstore.NewFromClient(client)
	rec := memory.NewRecorder()
	eng, err := spotcheck.New(
		spotcheck.WithCatalog(memory.NewCatalog(threeSteps()...)),
		spotcheck.WithRecorder(rec),
		spotcheck.WithStore(store),
		spotcheck.WithLocker(redisstore.NewLocker(client, store.Prefix())),
	)
	require.NoError(t, err)
	ctx := context.Background()

	// A real attempt populates the index.
	out, err := eng.Interact(ctx, "", click(30, 30, 0))
	require.NoError(t, err)
	require.NotEqual(t, "index", out.Token)

	for _, token := range []string{"index", "lock:" + out.Token} {
		fresh, err := eng.Interact(ctx, token, click(30, 30, 0))
		require.NoError(t, err, "token %q", token)
		assert.NotEqual(t, token, fresh.Token)
		assert.Equal(t, 1, fresh.View.StepIndex)
	}
}
