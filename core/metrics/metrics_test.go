package metrics_test

import (
	"errors"
	"fmt"
	"testing"

	"feedsync/core/metrics"
	"feedsync/core/reconcile"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestOutcome(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, "ok"},
		{reconcile.Wrap(reconcile.ErrFetchFailed, errors.New("boom")), "fetch_failed"},
		{fmt.Errorf("register: %w", reconcile.ErrMalformedFeed), "malformed_feed"},
		{reconcile.ErrNotFound, "not_found"},
		{reconcile.Wrap(reconcile.ErrStorage, errors.New("locked")), "storage_error"},
		{errors.New("other"), "error"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, metrics.Outcome(tt.err))
		})
	}
}

func TestNewIngestion_Registers(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewIngestion(reg)

	m.Runs.WithLabelValues("register", "ok").Inc()
	m.ArticlesCreated.Add(3)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Runs.WithLabelValues("register", "ok")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.ArticlesCreated))

	count, err := testutil.GatherAndCount(reg)
	assert.NoError(t, err)
	assert.Equal(t, 5, count)
}
