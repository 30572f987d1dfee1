package services

import (
	"context"
	"errors"
	"guide-tracking-service/internal/adapters/repositories"
	"guide-tracking-service/internal/domain"
	"guide-tracking-service/internal/render"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

var cot = time.FixedZone("COT", -5*60*60)

type stepClock struct {
	t time.Time
}

func (c *stepClock) Now() time.Time {
	c.t = c.t.Add(15 * time.Minute)
	return c.t
}

func newTestTracker(t *testing.T) (*Tracker, *repositories.MemoryGuideStore) {
	t.Helper()

	clock := &stepClock{t: time.Date(2024, 3, 1, 8, 0, 0, 0, cot)}
	store := repositories.NewMemoryGuideStore(clock.Now)
	tr := NewTracker(store, render.NewRenderer(render.NewFormatter(cot)), zaptest.NewLogger(t))

	seeds, err := repositories.LoadSeeds("", cot)
	require.NoError(t, err)
	require.NoError(t, tr.Start(context.Background(), seeds))

	return tr, store
}

func validForm(id string) GuideForm {
	return GuideForm{
		ID:            id,
		Origin:        "Quito",
		Destination:   "Lima",
		Recipient:     "J. Perez",
		CreationDate:  "2024-01-01",
		InitialStatus: "pendiente",
	}
}

// flakyStore fails List on demand, which is what RenderAll reads first.
type flakyStore struct {
	*repositories.MemoryGuideStore
	failList bool
}

func (s *flakyStore) List(ctx context.Context) ([]domain.Guide, error) {
	if s.failList {
		return nil, errors.New("list: connection lost")
	}
	return s.MemoryGuideStore.List(ctx)
}
