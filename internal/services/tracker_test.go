package services

import (
	"context"
	"errors"
	"fmt"
	"guide-tracking-service/internal/adapters/repositories"
	"guide-tracking-service/internal/domain"
	"guide-tracking-service/internal/render"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestStartRendersSeeds(t *testing.T) {
	tr, _ := newTestTracker(t)

	s := tr.Screen()
	assert.Equal(t, render.Overview{Total: 2, InTransit: 1, Delivered: 1}, s.Overview)
	assert.Equal(t, uint64(1), s.Generation)
}

func TestSubmitNewGuideUpdatesOverview(t *testing.T) {
	ctx := context.Background()
	tr, store := newTestTracker(t)
	before := tr.Screen().Overview

	g, err := tr.Submit(ctx, validForm("HE-111"))
	require.NoError(t, err)
	assert.Len(t, g.History, 1)
	assert.Equal(t, domain.StatusPending, g.Status)

	after := tr.Screen()
	assert.Equal(t, before.Total+1, after.Overview.Total)
	assert.Equal(t, before.InTransit, after.Overview.InTransit)
	assert.Equal(t, before.Delivered, after.Overview.Delivered)
	assert.Equal(t, "HE-111", after.Rows[len(after.Rows)-1].ID)

	n, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestAdvanceSeededInTransitGuide(t *testing.T) {
	ctx := context.Background()
	tr, store := newTestTracker(t)
	before := tr.Screen()

	adv := before.Rows[0].Advance
	require.Equal(t, "HE-987654321", before.Rows[0].ID)
	require.NotNil(t, adv.Action)

	out, err := tr.Dispatch(ctx, *adv.Action)
	require.NoError(t, err)
	assert.True(t, out.Mutated)

	g, _, err := store.FindByID(ctx, "HE-987654321")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDelivered, g.Status)
	assert.Len(t, g.History, 3)

	after := tr.Screen()
	assert.Equal(t, before.Overview.Delivered+1, after.Overview.Delivered)
	assert.Equal(t, before.Overview.InTransit-1, after.Overview.InTransit)
	assert.True(t, after.Rows[0].Advance.Disabled)
	assert.Nil(t, after.Rows[0].Advance.Action)
	assert.Greater(t, after.Generation, before.Generation)
}

func TestSubmitDuplicateLeavesScreenAlone(t *testing.T) {
	ctx := context.Background()
	tr, store := newTestTracker(t)
	before := tr.Screen()

	_, err := tr.Submit(ctx, validForm("HE-123456789"))
	var de *domain.DuplicateIDError
	require.True(t, errors.As(err, &de))
	msg, _ := UserMessage(err)
	assert.Equal(t, "El número de guía ya existe.", msg)

	n, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, before.Generation, tr.Screen().Generation, "rejected submissions must not redraw")
}

// Random submissions and advances: counts always match the statuses held,
// and every guide keeps a chronological history ending at its status.
func TestRandomSequencesKeepInvariants(t *testing.T) {
	ctx := context.Background()
	tr, store := newTestTracker(t)
	rng := rand.New(rand.NewSource(7))

	want := map[domain.Status]int{domain.StatusInTransit: 1, domain.StatusDelivered: 1}
	ids := []string{"HE-987654321", "HE-123456789"}

	for i := 0; i < 200; i++ {
		if rng.Intn(3) == 0 {
			f := validForm(fmt.Sprintf("HE-R%03d", i))
			st := domain.Statuses()[rng.Intn(3)]
			f.InitialStatus = st.String()
			_, err := tr.Submit(ctx, f)
			require.NoError(t, err)
			want[st]++
			ids = append(ids, f.ID)
			continue
		}

		row := tr.Screen().Rows[rng.Intn(len(ids))]
		if row.Advance.Action == nil {
			continue
		}
		g, _, err := store.FindByID(ctx, row.ID)
		require.NoError(t, err)

		_, err = tr.Dispatch(ctx, *row.Advance.Action)
		require.NoError(t, err)
		want[g.Status]--
		want[row.Advance.Action.NextStatus]++
	}

	counts, err := store.CountByStatus(ctx)
	require.NoError(t, err)
	for _, s := range domain.Statuses() {
		assert.Equal(t, want[s], counts[s], "status %v", s)
	}

	snap, err := tr.Snapshot(ctx)
	require.NoError(t, err)
	for _, g := range snap.Guides {
		assert.NoError(t, g.CheckInvariants(), "guide %s", g.ID)
	}

	ov := tr.Screen().Overview
	assert.Equal(t, len(ids), ov.Total)
	assert.Equal(t, counts[domain.StatusInTransit], ov.InTransit)
	assert.Equal(t, counts[domain.StatusDelivered], ov.Delivered)
}

func TestConcurrentDispatchAdvancesOnce(t *testing.T) {
	ctx := context.Background()
	tr, store := newTestTracker(t)

	_, err := tr.Submit(ctx, validForm("HE-111"))
	require.NoError(t, err)
	a := render.Action{Kind: render.ActionAdvance, GuideID: "HE-111", NextStatus: domain.StatusInTransit}

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = tr.Dispatch(ctx, a)
		}()
	}
	wg.Wait()

	g, _, err := store.FindByID(ctx, "HE-111")
	require.NoError(t, err)
	assert.Len(t, g.History, 2, "the same payload must advance only once")
}

func TestSnapshotListAgreesWithOverview(t *testing.T) {
	ctx := context.Background()
	tr, _ := newTestTracker(t)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _ = tr.Submit(ctx, validForm(fmt.Sprintf("HE-C%02d", i)))
		}(i)
	}

	for i := 0; i < 50; i++ {
		snap, err := tr.Snapshot(ctx)
		require.NoError(t, err)
		assert.Equal(t, len(snap.Guides), snap.Screen.Overview.Total)
		assert.Len(t, snap.Screen.Rows, len(snap.Guides))
	}
	wg.Wait()

	snap, err := tr.Snapshot(ctx)
	require.NoError(t, err)
	assert.Len(t, snap.Guides, 10)
}

func TestSubmitKeepsCommitWhenRedrawFails(t *testing.T) {
	ctx := context.Background()
	clock := &stepClock{t: time.Date(2024, 3, 1, 8, 0, 0, 0, cot)}
	store := &flakyStore{MemoryGuideStore: repositories.NewMemoryGuideStore(clock.Now)}
	tr := NewTracker(store, render.NewRenderer(render.NewFormatter(cot)), zaptest.NewLogger(t))

	seeds, err := repositories.LoadSeeds("", cot)
	require.NoError(t, err)
	require.NoError(t, tr.Start(ctx, seeds))
	gen := tr.Screen().Generation

	store.failList = true
	g, err := tr.Submit(ctx, validForm("HE-111"))
	var re *RenderError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, "HE-111", g.ID, "the committed guide is still returned")

	_, found, err := store.FindByID(ctx, "HE-111")
	require.NoError(t, err)
	assert.True(t, found)

	store.failList = false
	s := tr.Screen()
	assert.Equal(t, 3, s.Overview.Total, "the next read redraws")
	assert.Greater(t, s.Generation, gen)
}

func TestDispatchKeepsOutcomeWhenRedrawFails(t *testing.T) {
	ctx := context.Background()
	store := &flakyStore{MemoryGuideStore: repositories.NewMemoryGuideStore(nil)}
	tr := NewTracker(store, render.NewRenderer(render.NewFormatter(cot)), zaptest.NewLogger(t))

	seeds, err := repositories.LoadSeeds("", cot)
	require.NoError(t, err)
	require.NoError(t, tr.Start(ctx, seeds))

	store.failList = true
	out, err := tr.Dispatch(ctx, render.Action{Kind: render.ActionAdvance, GuideID: "HE-987654321", NextStatus: domain.StatusDelivered})
	var re *RenderError
	require.True(t, errors.As(err, &re))
	assert.True(t, out.Mutated)

	store.failList = false
	assert.Equal(t, 2, tr.Screen().Overview.Delivered)
}

func TestStartSeedsThroughSeedStore(t *testing.T) {
	ctx := context.Background()
	tr, _ := newTestTracker(t)

	seeds, err := repositories.LoadSeeds("", cot)
	require.NoError(t, err)

	err = tr.Start(ctx, seeds)
	var de *domain.DuplicateIDError
	require.True(t, errors.As(err, &de))
	assert.Contains(t, err.Error(), "seed store")
}

func TestSeedStoreStopsOnDuplicate(t *testing.T) {
	ctx := context.Background()
	store := repositories.NewMemoryGuideStore(nil)

	guides, err := repositories.LoadSeeds("", cot)
	require.NoError(t, err)
	require.NoError(t, SeedStore(ctx, store, guides))

	err = SeedStore(ctx, store, guides)
	var de *domain.DuplicateIDError
	require.True(t, errors.As(err, &de))

	n, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}
