package metrics

import (
	"context"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveOutcomes_Counts(t *testing.T) {
	before := testutil.ToFloat64(ResolveOutcomes.WithLabelValues("bulk"))
	ResolveOutcomes.WithLabelValues("bulk").Inc()
	ResolveOutcomes.WithLabelValues("bulk").Inc()
	assert.Equal(t, before+2, testutil.ToFloat64(ResolveOutcomes.WithLabelValues("bulk")))
}

func TestEngineSteps_ByVerb(t *testing.T) {
	before := testutil.ToFloat64(EngineSteps.WithLabelValues("take"))
	EngineSteps.WithLabelValues("take").Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(EngineSteps.WithLabelValues("take")))
}

func freeAddr(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())
	return addr
}

func TestServe_ExposesMetricsUntilCancelled(t *testing.T) {
	addr := freeAddr(t)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Serve(ctx, addr) }()

	EngineSteps.WithLabelValues("look").Inc()

	var body []byte
	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + addr + "/metrics")
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		body, err = io.ReadAll(resp.Body)
		return err == nil && resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)
	assert.Contains(t, string(body), "dungeon_engine_steps_total")

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}
