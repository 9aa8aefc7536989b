// Package graphsource loads notebook skill graphs from the local store or
// from a Neo4j knowledge graph.
package graphsource

import (
	"context"
	"fmt"

	"github.com/abhisek/skillpath/internal/skillgraph"
	"github.com/abhisek/skillpath/internal/store"
)

// Source loads and validates a notebook's skill graph.
type Source interface {
	Load(ctx context.Context, notebookID string) (*skillgraph.Graph, error)
}

// Writer stores a notebook's skill graph.
type Writer interface {
	Save(ctx context.Context, notebookID string, skills []skillgraph.SkillNode, edges []skillgraph.Prerequisite) error
}

// StoreSource reads graphs imported into the SQLite store.
type StoreSource struct {
	Repo store.GraphRepo
}

func (s StoreSource) Load(ctx context.Context, notebookID string) (*skillgraph.Graph, error) {
	skills, edges, err := s.Repo.LoadGraph(ctx, notebookID)
	if err != nil {
		return nil, fmt.Errorf("load graph %s: %w", notebookID, err)
	}
	g, err := skillgraph.New(skills, edges)
	if err != nil {
		return nil, fmt.Errorf("load graph %s: %w", notebookID, err)
	}
	return g, nil
}

func (s StoreSource) Save(ctx context.Context, notebookID string, skills []skillgraph.SkillNode, edges []skillgraph.Prerequisite) error {
	return s.Repo.SaveGraph(ctx, notebookID, skills, edges)
}
