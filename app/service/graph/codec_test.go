package graph

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeGraph(t *testing.T) {
	t.Run("empty input decodes to empty graph", func(t *testing.T) {
		graph, err := decodeGraph(strings.NewReader(""))

		require.NoError(t, err)
		assert.Empty(t, graph.Entities)
		assert.Empty(t, graph.Relations)
	})

	t.Run("blank lines are skipped", func(t *testing.T) {
		input := "\n" +
			`{"kind":"entity","name":"Alice","entityType":"person","observations":["likes coffee"]}` + "\n" +
			"   \n" +
			`{"kind":"relation","from":"Alice","to":"Bob","relationType":"knows"}` + "\n\n"

		graph, err := decodeGraph(strings.NewReader(input))

		require.NoError(t, err)
		require.Len(t, graph.Entities, 1)
		assert.Equal(t, "Alice", graph.Entities[0].Name)
		assert.Equal(t, "person", graph.Entities[0].EntityType)
		assert.Equal(t, []string{"likes coffee"}, graph.Entities[0].Observations)
		require.Len(t, graph.Relations, 1)
		assert.Equal(t, Relation{From: "Alice", To: "Bob", RelationType: "knows"}, graph.Relations[0])
	})

	t.Run("malformed line fails the whole decode", func(t *testing.T) {
		input := `{"kind":"entity","name":"Alice"}` + "\n" + "{not json}\n"

		_, err := decodeGraph(strings.NewReader(input))

		assert.Error(t, err)
	})

	t.Run("unknown kind fails the whole decode", func(t *testing.T) {
		_, err := decodeGraph(strings.NewReader(`{"kind":"widget","name":"Alice"}` + "\n"))

		require.Error(t, err)
		assert.Contains(t, err.Error(), "widget")
	})
}

func TestEncodeGraph(t *testing.T) {
	t.Run("entities come before relations", func(t *testing.T) {
		graph := &KnowledgeGraph{
			Entities:  []Entity{{Name: "Alice", EntityType: "person"}},
			Relations: []Relation{{From: "Alice", To: "Bob", RelationType: "knows"}},
		}

		var buf bytes.Buffer
		require.NoError(t, encodeGraph(&buf, graph))

		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		require.Len(t, lines, 2)
		assert.Contains(t, lines[0], `"kind":"entity"`)
		assert.Contains(t, lines[1], `"kind":"relation"`)
	})

	t.Run("round trip preserves the graph", func(t *testing.T) {
		original := &KnowledgeGraph{
			Entities: []Entity{
				{Name: "Alice", EntityType: "person", Observations: []string{"likes coffee", "works remotely"}},
				{Name: "Bob", EntityType: "person"},
			},
			Relations: []Relation{
				{From: "Alice", To: "Bob", RelationType: "knows"},
				{From: "Bob", To: "Charlie", RelationType: "mentors"},
			},
		}

		var buf bytes.Buffer
		require.NoError(t, encodeGraph(&buf, original))

		decoded, err := decodeGraph(&buf)
		require.NoError(t, err)

		assert.ElementsMatch(t, original.Entities, decoded.Entities)
		assert.ElementsMatch(t, original.Relations, decoded.Relations)
	})
}

func TestFileStore(t *testing.T) {
	ctx := context.Background()

	t.Run("first use creates parent directories and an empty file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "dir", "memory.jsonl")

		store, err := NewFileStore(path)
		require.NoError(t, err)

		_, err = os.Stat(path)
		require.NoError(t, err)

		graph, err := store.Load(ctx)
		require.NoError(t, err)
		assert.Empty(t, graph.Entities)
		assert.Empty(t, graph.Relations)
	})

	t.Run("missing file loads as empty graph", func(t *testing.T) {
		store := &FileStore{path: filepath.Join(t.TempDir(), "absent.jsonl")}

		graph, err := store.Load(ctx)

		require.NoError(t, err)
		assert.Empty(t, graph.Entities)
		assert.Empty(t, graph.Relations)
	})

	t.Run("save replaces the file contents in full", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "memory.jsonl")

		store, err := NewFileStore(path)
		require.NoError(t, err)

		first := &KnowledgeGraph{
			Entities:  []Entity{{Name: "Alice", EntityType: "person", Observations: []string{}}},
			Relations: []Relation{},
		}
		require.NoError(t, store.Save(ctx, first))

		second := &KnowledgeGraph{
			Entities:  []Entity{{Name: "Bob", EntityType: "person", Observations: []string{}}},
			Relations: []Relation{},
		}
		require.NoError(t, store.Save(ctx, second))

		loaded, err := store.Load(ctx)
		require.NoError(t, err)
		require.Len(t, loaded.Entities, 1)
		assert.Equal(t, "Bob", loaded.Entities[0].Name)
	})
}
