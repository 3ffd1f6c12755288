package integration

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dreamware/indexcoord/internal/cluster"
	"github.com/dreamware/indexcoord/internal/clusterqueue"
	"github.com/dreamware/indexcoord/internal/coordinator"
	"github.com/dreamware/indexcoord/internal/localstore"
	"github.com/dreamware/indexcoord/internal/mapping"
	"github.com/dreamware/indexcoord/internal/metadata"
	"github.com/dreamware/indexcoord/internal/routing"
)

type cluster3 struct {
	coord    *coordinator.Coordinator
	queue    *clusterqueue.Queue
	registry *coordinator.NotifyRegistry
}

func newCluster(t *testing.T, configRoot string, peerIDs ...string) *cluster3 {
	t.Helper()
	nodes := cluster.NewDiscoveryNodes("n0")
	for _, id := range peerIDs {
		nodes.Add(cluster.NodeInfo{ID: id, Addr: "http://" + id})
	}
	queue := clusterqueue.New(metadata.NewClusterState(nodes))
	t.Cleanup(queue.Close)
	registry := coordinator.NewNotifyRegistry()
	loader := mapping.New(configRoot)
	store := localstore.New()
	coord := coordinator.New(queue, registry, loader, store, routing.RoundRobinStrategy{}, "n0")
	return &cluster3{coord: coord, queue: queue, registry: registry}
}

type listener struct {
	resp chan coordinator.Response
	fail chan error
}

func newListener() *listener {
	return &listener{resp: make(chan coordinator.Response, 1), fail: make(chan error, 1)}
}
func (l *listener) OnResponse(r coordinator.Response) { l.resp <- r }
func (l *listener) OnFailure(err error)               { l.fail <- err }

// S1: happy path, 3 nodes, two peers ack within the window.
func TestS1HappyPathThreeNodes(t *testing.T) {
	c := newCluster(t, t.TempDir(), "n1", "n2")
	l := newListener()

	req := coordinator.NewCreateIndexRequest("logs-2024").
		Cause("test").
		Settings(metadata.NewSettings(map[string]string{metadata.SettingNumberOfShards: "3"})).
		Timeout(5 * time.Second)
	c.coord.CreateIndex(context.Background(), req, l)

	time.Sleep(20 * time.Millisecond)
	c.registry.Notify("logs-2024", "n1")
	c.registry.Notify("logs-2024", "n2")

	select {
	case resp := <-l.resp:
		assert.True(t, resp.Acknowledged)
	case err := <-l.fail:
		t.Fatalf("unexpected failure: %v", err)
	case <-time.After(time.Second):
		t.Fatal("timed out")
	}

	final := c.queue.Current()
	idx, ok := final.MetaData().Index("logs-2024")
	require.True(t, ok)
	assert.Equal(t, 3, idx.NumberOfShards())
	assert.Equal(t, 1, idx.NumberOfReplicas())

	rt, ok := final.RoutingTable().Index("logs-2024")
	require.True(t, ok)
	assert.Len(t, rt.PrimaryShardIDs(), 3)
	for _, s := range rt.Shards {
		assert.Equal(t, routing.Initializing, s.State)
	}
}

// S2: name collision with an existing alias.
func TestS2NameCollisionWithAlias(t *testing.T) {
	c := newCluster(t, t.TempDir())
	_, err := c.queue.Submit(context.Background(), func(cs metadata.ClusterState) metadata.ClusterState {
		return cs.WithMetaData(cs.MetaData().WithAlias("events"))
	})
	require.NoError(t, err)

	l := newListener()
	c.coord.CreateIndex(context.Background(), coordinator.NewCreateIndexRequest("events"), l)

	select {
	case err := <-l.fail:
		var createErr *coordinator.CreateError
		require.ErrorAs(t, err, &createErr)
		assert.Equal(t, metadata.ReasonCollidesWithAlias, createErr.Reason)
	case resp := <-l.resp:
		t.Fatalf("unexpected success: %+v", resp)
	case <-time.After(time.Second):
		t.Fatal("timed out")
	}
}

// S3: uppercase index name.
func TestS3UppercaseName(t *testing.T) {
	c := newCluster(t, t.TempDir())
	l := newListener()
	c.coord.CreateIndex(context.Background(), coordinator.NewCreateIndexRequest("LOGS"), l)

	select {
	case err := <-l.fail:
		var createErr *coordinator.CreateError
		require.ErrorAs(t, err, &createErr)
		assert.Equal(t, metadata.ReasonMustBeLowercase, createErr.Reason)
	case <-time.After(time.Second):
		t.Fatal("timed out")
	}
}

// S4: timeout. Only one of two peers reports; the index still materializes
// and routes despite acknowledged=false.
func TestS4Timeout(t *testing.T) {
	c := newCluster(t, t.TempDir(), "n1", "n2")
	l := newListener()
	c.coord.CreateIndex(context.Background(), coordinator.NewCreateIndexRequest("logs-2024").Timeout(50*time.Millisecond), l)

	time.Sleep(10 * time.Millisecond)
	c.registry.Notify("logs-2024", "n1")

	select {
	case resp := <-l.resp:
		assert.False(t, resp.Acknowledged)
	case err := <-l.fail:
		t.Fatalf("unexpected failure: %v", err)
	case <-time.After(time.Second):
		t.Fatal("timed out")
	}

	final := c.queue.Current()
	assert.True(t, final.MetaData().HasIndex("logs-2024"))
	assert.True(t, final.RoutingTable().HasIndex("logs-2024"))
}

// S5: mapping layering — request mappings win over per-index, which win
// over _default.
func TestS5MappingLayering(t *testing.T) {
	root := t.TempDir()
	mustWriteFile(t, filepath.Join(root, "mappings", "_default", "doc.json"), "A")
	mustWriteFile(t, filepath.Join(root, "mappings", "logs", "doc.json"), "B")

	c := newCluster(t, root)
	l := newListener()
	c.coord.CreateIndex(context.Background(), coordinator.NewCreateIndexRequest("logs").Mappings(map[string]string{"doc": "C"}), l)

	select {
	case resp := <-l.resp:
		assert.True(t, resp.Acknowledged)
	case err := <-l.fail:
		t.Fatalf("unexpected failure: %v", err)
	case <-time.After(time.Second):
		t.Fatal("timed out")
	}

	idx, ok := c.queue.Current().MetaData().Index("logs")
	require.True(t, ok)
	src, ok := idx.Mapping("doc")
	require.True(t, ok)
	assert.Equal(t, "C", src)
}

// S6: mapping parse failure rolls back the local index and leaves cluster
// state untouched.
func TestS6MappingParseFailure(t *testing.T) {
	c := newCluster(t, t.TempDir())
	l := newListener()
	c.coord.CreateIndex(context.Background(), coordinator.NewCreateIndexRequest("logs-2024").Mappings(map[string]string{"bad": "!!!"}), l)

	select {
	case err := <-l.fail:
		var createErr *coordinator.CreateError
		require.ErrorAs(t, err, &createErr)
		assert.Equal(t, coordinator.KindMapperParsing, createErr.Kind)
		assert.Equal(t, "bad", createErr.Type)
	case resp := <-l.resp:
		t.Fatalf("unexpected success: %+v", resp)
	case <-time.After(time.Second):
		t.Fatal("timed out")
	}

	final := c.queue.Current()
	assert.False(t, final.MetaData().HasIndex("logs-2024"))
	assert.False(t, final.RoutingTable().HasIndex("logs-2024"))
}

// Re-submitting an identical request after success fails with
// IndexAlreadyExists and leaves the already-committed state untouched.
func TestResubmitAfterSuccessFailsWithAlreadyExists(t *testing.T) {
	c := newCluster(t, t.TempDir())
	l1 := newListener()
	c.coord.CreateIndex(context.Background(), coordinator.NewCreateIndexRequest("logs"), l1)
	<-l1.resp

	l2 := newListener()
	c.coord.CreateIndex(context.Background(), coordinator.NewCreateIndexRequest("logs"), l2)

	select {
	case err := <-l2.fail:
		var createErr *coordinator.CreateError
		require.ErrorAs(t, err, &createErr)
		assert.Equal(t, coordinator.KindAlreadyExists, createErr.Kind)
	case <-time.After(time.Second):
		t.Fatal("timed out")
	}
}

func mustWriteFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}
