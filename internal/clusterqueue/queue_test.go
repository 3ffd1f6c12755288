package clusterqueue

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dreamware/indexcoord/internal/cluster"
	"github.com/dreamware/indexcoord/internal/metadata"
)

func newTestState() metadata.ClusterState {
	return metadata.NewClusterState(cluster.NewDiscoveryNodes("n1"))
}

func TestSubmitAppliesTaskAndAdvancesVersion(t *testing.T) {
	q := New(newTestState())
	defer q.Close()

	ctx := context.Background()
	result, err := q.Submit(ctx, func(cs metadata.ClusterState) metadata.ClusterState {
		return cs.WithMetaData(cs.MetaData().WithAlias("a"))
	})
	require.NoError(t, err)
	assert.True(t, result.MetaData().HasAlias("a"))
	assert.Equal(t, int64(2), result.Version())
	assert.Equal(t, result, q.Current())
}

func TestSubmitsAreSerialized(t *testing.T) {
	q := New(newTestState())
	defer q.Close()

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := q.Submit(context.Background(), func(cs metadata.ClusterState) metadata.ClusterState {
				return cs.WithMetaData(cs.MetaData())
			})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	final := q.Current()
	// Each task bumps the version by one regardless of interleaving order.
	assert.Equal(t, int64(1+n), final.Version())
}

func TestSubmitRespectsContextCancellation(t *testing.T) {
	q := New(newTestState())
	defer q.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := q.Submit(ctx, func(cs metadata.ClusterState) metadata.ClusterState { return cs })
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCloseStopsTheQueue(t *testing.T) {
	q := New(newTestState())
	q.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_, err := q.Submit(ctx, func(cs metadata.ClusterState) metadata.ClusterState { return cs })
	assert.Error(t, err)
}
