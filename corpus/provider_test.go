package corpus

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fingraph/fingraph/model"
)

type fakeChunkSource struct {
	chunks []*model.Chunk
	err    error
}

func (f *fakeChunkSource) SelectAllChunks() ([]*model.Chunk, error) {
	return f.chunks, f.err
}

type fakeGraphSource struct {
	nodes    []*model.GraphNode
	edges    []*model.GraphEdge
	mentions map[string][]uuid.UUID
	err      error
}

func (f *fakeGraphSource) SelectAllNodes() ([]*model.GraphNode, error) {
	return f.nodes, f.err
}

func (f *fakeGraphSource) SelectAllEdges() ([]*model.GraphEdge, error) {
	return f.edges, f.err
}

func (f *fakeGraphSource) SelectAllMentions() (map[string][]uuid.UUID, error) {
	return f.mentions, f.err
}

func TestProviderCurrent(t *testing.T) {
	t.Run("Fails fast without a snapshot", func(t *testing.T) {
		provider := NewProvider()

		snapshot, err := provider.Current()
		assert.Nil(t, snapshot)
		assert.ErrorIs(t, err, model.ErrCorpusUnavailable)
	})

	t.Run("Returns the installed snapshot", func(t *testing.T) {
		provider := NewProvider()
		snapshot := NewSnapshot(nil, nil, nil, nil)
		provider.Swap(snapshot)

		current, err := provider.Current()
		require.NoError(t, err)
		assert.Same(t, snapshot, current)
	})
}

func TestProviderReload(t *testing.T) {
	t.Run("Builds and installs a snapshot from the sources", func(t *testing.T) {
		provider := NewProvider()
		chunks := &fakeChunkSource{chunks: testChunks()}
		graph := &fakeGraphSource{
			nodes: []*model.GraphNode{{ID: "x"}, {ID: "y"}},
			edges: []*model.GraphEdge{{SourceID: "x", TargetID: "y", Weight: 0.5}},
		}

		snapshot, err := provider.Reload(chunks, graph)
		require.NoError(t, err)
		assert.Equal(t, 2, snapshot.Stats().Chunks)
		assert.Equal(t, 2, snapshot.Stats().Nodes)

		current, err := provider.Current()
		require.NoError(t, err)
		assert.Same(t, snapshot, current)
	})

	t.Run("Keeps the old snapshot on load failure", func(t *testing.T) {
		provider := NewProvider()
		old := NewSnapshot(nil, nil, nil, nil)
		provider.Swap(old)

		loadErr := errors.New("connection refused")
		_, err := provider.Reload(&fakeChunkSource{err: loadErr}, &fakeGraphSource{})
		require.ErrorIs(t, err, loadErr)

		current, err := provider.Current()
		require.NoError(t, err)
		assert.Same(t, old, current, "a failed reload must not disturb the serving snapshot")
	})

	t.Run("Reload swaps the new snapshot atomically", func(t *testing.T) {
		provider := NewProvider()
		_, err := provider.Reload(&fakeChunkSource{}, &fakeGraphSource{})
		require.NoError(t, err)

		first, err := provider.Current()
		require.NoError(t, err)

		_, err = provider.Reload(&fakeChunkSource{chunks: testChunks()}, &fakeGraphSource{})
		require.NoError(t, err)

		second, err := provider.Current()
		require.NoError(t, err)
		assert.NotSame(t, first, second)
		assert.NotEqual(t, fmt.Sprint(first.Version), fmt.Sprint(second.Version))
	})
}
