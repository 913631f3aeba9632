// Reelrec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrec

package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"

	"github.com/tomtom215/reelrec/internal/metrics"
	"github.com/tomtom215/reelrec/internal/ratings"
	"github.com/tomtom215/reelrec/internal/recommend"
	"github.com/tomtom215/reelrec/internal/recommend/algorithms"
)

// mockRecommendEngine counts Train calls and reports a fixed status.
type mockRecommendEngine struct {
	mu         sync.Mutex
	trainCalls int
	trainErr   error
	version    int
}

func (m *mockRecommendEngine) Train(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.trainCalls++
	if m.trainErr == nil {
		m.version++
	}
	return m.trainErr
}

func (m *mockRecommendEngine) Status() recommend.TrainingStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	return recommend.TrainingStatus{
		ModelReady:    m.version > 0,
		ModelVersion:  m.version,
		LastTrainedAt: time.Unix(1700000000, 0),
		Corpus:        algorithms.CorpusFingerprint{Users: 3, Movies: 4, NNZ: 9},
		Rejected:      ratings.BuildStats{OutOfRange: 1, Malformed: 2},
	}
}

func (m *mockRecommendEngine) getTrainCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.trainCalls
}

func runFor(t *testing.T, svc *RecommendService, d time.Duration) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), d)
	defer cancel()
	if err := svc.Serve(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Serve() error = %v, want context.DeadlineExceeded", err)
	}
}

func TestRecommendService_String(t *testing.T) {
	svc := NewRecommendService(&mockRecommendEngine{}, RecommendServiceConfig{}, zerolog.Nop())
	if got := svc.String(); got != "recommend-service" {
		t.Errorf("String() = %q, want %q", got, "recommend-service")
	}
}

func TestRecommendService_TrainOnStartup(t *testing.T) {
	engine := &mockRecommendEngine{}
	svc := NewRecommendService(engine, RecommendServiceConfig{
		Algorithm:      "item_knn",
		TrainOnStartup: true,
		TrainInterval:  time.Hour,
	}, zerolog.Nop())

	runFor(t, svc, 100*time.Millisecond)

	if got := engine.getTrainCalls(); got != 1 {
		t.Errorf("Train() called %d times, want 1", got)
	}
}

func TestRecommendService_NoTrainOnStartup(t *testing.T) {
	engine := &mockRecommendEngine{}
	svc := NewRecommendService(engine, RecommendServiceConfig{TrainInterval: time.Hour}, zerolog.Nop())

	runFor(t, svc, 50*time.Millisecond)

	if got := engine.getTrainCalls(); got != 0 {
		t.Errorf("Train() called %d times, want 0", got)
	}
}

func TestRecommendService_ScheduledTraining(t *testing.T) {
	engine := &mockRecommendEngine{}
	svc := NewRecommendService(engine, RecommendServiceConfig{
		Algorithm:     "item_knn",
		TrainInterval: 20 * time.Millisecond,
	}, zerolog.Nop())

	runFor(t, svc, 110*time.Millisecond)

	if got := engine.getTrainCalls(); got < 2 {
		t.Errorf("Train() called %d times, want at least 2", got)
	}
}

func TestRecommendService_ZeroIntervalDisablesRetraining(t *testing.T) {
	engine := &mockRecommendEngine{}
	svc := NewRecommendService(engine, RecommendServiceConfig{}, zerolog.Nop())

	runFor(t, svc, 50*time.Millisecond)

	if got := engine.getTrainCalls(); got != 0 {
		t.Errorf("Train() called %d times, want 0", got)
	}
}

func TestRecommendService_Metrics(t *testing.T) {
	t.Run("success publishes model gauges", func(t *testing.T) {
		engine := &mockRecommendEngine{}
		svc := NewRecommendService(engine, RecommendServiceConfig{
			Algorithm:      "svc_success",
			TrainOnStartup: true,
			CatalogMovies:  4,
		}, zerolog.Nop())

		runFor(t, svc, 30*time.Millisecond)

		if got := testutil.ToFloat64(metrics.TrainingRunsTotal.WithLabelValues("svc_success", "success")); got != 1 {
			t.Errorf("success runs = %v, want 1", got)
		}
		if got := testutil.ToFloat64(metrics.ModelVersion); got != 1 {
			t.Errorf("model version = %v, want 1", got)
		}
		if got := testutil.ToFloat64(metrics.RatingsStored); got != 9 {
			t.Errorf("ratings stored = %v, want 9", got)
		}
		if got := testutil.ToFloat64(metrics.CatalogMovies); got != 4 {
			t.Errorf("catalog movies = %v, want 4", got)
		}
	})

	t.Run("failure is counted and not fatal", func(t *testing.T) {
		engine := &mockRecommendEngine{trainErr: recommend.ErrEmptyCorpus}
		svc := NewRecommendService(engine, RecommendServiceConfig{
			Algorithm:      "svc_failure",
			TrainOnStartup: true,
		}, zerolog.Nop())

		runFor(t, svc, 30*time.Millisecond)

		if got := testutil.ToFloat64(metrics.TrainingRunsTotal.WithLabelValues("svc_failure", "failure")); got != 1 {
			t.Errorf("failure runs = %v, want 1", got)
		}
	})

	t.Run("in-progress run is skipped", func(t *testing.T) {
		engine := &mockRecommendEngine{trainErr: recommend.ErrTrainingInProgress}
		svc := NewRecommendService(engine, RecommendServiceConfig{
			Algorithm:      "svc_skipped",
			TrainOnStartup: true,
		}, zerolog.Nop())

		runFor(t, svc, 30*time.Millisecond)

		if got := testutil.ToFloat64(metrics.TrainingRunsTotal.WithLabelValues("svc_skipped", "skipped")); got != 1 {
			t.Errorf("skipped runs = %v, want 1", got)
		}
		if got := testutil.ToFloat64(metrics.TrainingRunsTotal.WithLabelValues("svc_skipped", "failure")); got != 0 {
			t.Errorf("failure runs = %v, want 0", got)
		}
	})
}

func TestRecommendService_WithEngine(t *testing.T) {
	var _ RecommendEngine = (*recommend.Engine)(nil)
}
