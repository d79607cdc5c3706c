package graph

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"memograph/app/config"

	"github.com/elliotchance/pie/v2"
	"github.com/samber/do"
	"github.com/samber/oops"
)

// ErrEntityNotFound aborts a whole AddObservations batch when any named
// entity is absent from the loaded graph.
var ErrEntityNotFound = errors.New("entity not found")

// Service implements the graph operations. Every operation reloads the full
// graph from the store, applies its change and writes the full graph back;
// there is no cached state between calls. The mutex serializes the whole
// load-modify-save sequence so in-process callers cannot overwrite each
// other's writes.
type Service struct {
	store Store
	mu    sync.RWMutex
}

func New(di *do.Injector) (*Service, error) {
	cfg := do.MustInvoke[*config.Config](di)

	store, err := NewFileStore(cfg.Memory.FilePath)
	if err != nil {
		return nil, err
	}

	return NewService(store), nil
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

func (s *Service) CreateEntities(ctx context.Context, candidates []Entity) ([]Entity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	graph, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	added := make([]Entity, 0, len(candidates))
	for _, candidate := range candidates {
		if hasEntity(graph, candidate.Name) {
			continue
		}

		graph.Entities = append(graph.Entities, candidate)
		added = append(added, candidate)
	}

	if err = s.store.Save(ctx, graph); err != nil {
		return nil, err
	}

	slog.Info("Created entities", "requested", len(candidates), "added", len(added))

	return added, nil
}

func (s *Service) CreateRelations(ctx context.Context, candidates []Relation) ([]Relation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	graph, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	added := make([]Relation, 0, len(candidates))
	for _, candidate := range candidates {
		if hasRelation(graph, candidate) {
			continue
		}

		graph.Relations = append(graph.Relations, candidate)
		added = append(added, candidate)
	}

	if err = s.store.Save(ctx, graph); err != nil {
		return nil, err
	}

	slog.Info("Created relations", "requested", len(candidates), "added", len(added))

	return added, nil
}

func (s *Service) AddObservations(ctx context.Context, additions []ObservationAddition) ([]ObservationAddResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	graph, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	// The whole batch fails before any mutation if one name is unknown.
	for _, addition := range additions {
		if !hasEntity(graph, addition.EntityName) {
			return nil, oops.Errorf("entity with name %s: %w", addition.EntityName, ErrEntityNotFound)
		}
	}

	results := make([]ObservationAddResult, 0, len(additions))
	for _, addition := range additions {
		entity := findEntity(graph, addition.EntityName)

		addedObservations := make([]string, 0, len(addition.Contents))
		for _, content := range addition.Contents {
			if pie.Contains(entity.Observations, content) {
				continue
			}

			entity.Observations = append(entity.Observations, content)
			addedObservations = append(addedObservations, content)
		}

		results = append(results, ObservationAddResult{
			EntityName:        addition.EntityName,
			AddedObservations: addedObservations,
		})
	}

	if err = s.store.Save(ctx, graph); err != nil {
		return nil, err
	}

	slog.Info("Added observations", "entities", len(additions))

	return results, nil
}

func (s *Service) DeleteEntities(ctx context.Context, names []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	graph, err := s.store.Load(ctx)
	if err != nil {
		return err
	}

	doomed := make(map[string]bool, len(names))
	for _, name := range names {
		doomed[name] = true
	}

	graph.Entities = pie.Filter(graph.Entities, func(e Entity) bool {
		return !doomed[e.Name]
	})

	// Cascade: drop every relation touching a deleted entity in the same write.
	graph.Relations = pie.Filter(graph.Relations, func(r Relation) bool {
		return !doomed[r.From] && !doomed[r.To]
	})

	if err = s.store.Save(ctx, graph); err != nil {
		return err
	}

	slog.Info("Deleted entities", "names", names)

	return nil
}

func (s *Service) DeleteObservations(ctx context.Context, deletions []ObservationDeletion) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	graph, err := s.store.Load(ctx)
	if err != nil {
		return err
	}

	for _, deletion := range deletions {
		entity := findEntity(graph, deletion.EntityName)
		if entity == nil {
			continue
		}

		toDelete := make(map[string]bool, len(deletion.Observations))
		for _, observation := range deletion.Observations {
			toDelete[observation] = true
		}

		entity.Observations = pie.Filter(entity.Observations, func(observation string) bool {
			return !toDelete[observation]
		})
	}

	if err = s.store.Save(ctx, graph); err != nil {
		return err
	}

	slog.Info("Deleted observations", "entities", len(deletions))

	return nil
}

func (s *Service) DeleteRelations(ctx context.Context, candidates []Relation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	graph, err := s.store.Load(ctx)
	if err != nil {
		return err
	}

	graph.Relations = pie.Filter(graph.Relations, func(r Relation) bool {
		return !pie.Contains(candidates, r)
	})

	if err = s.store.Save(ctx, graph); err != nil {
		return err
	}

	slog.Info("Deleted relations", "count", len(candidates))

	return nil
}

func (s *Service) ReadGraph(ctx context.Context) (*KnowledgeGraph, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.store.Load(ctx)
}

// SearchNodes matches query case-insensitively against entity names, types
// and observations. An empty query matches every entity.
func (s *Service) SearchNodes(ctx context.Context, query string) (*KnowledgeGraph, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	graph, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(query)

	matched := pie.Filter(graph.Entities, func(e Entity) bool {
		if strings.Contains(strings.ToLower(e.Name), needle) {
			return true
		}
		if strings.Contains(strings.ToLower(e.EntityType), needle) {
			return true
		}

		return pie.Any(e.Observations, func(observation string) bool {
			return strings.Contains(strings.ToLower(observation), needle)
		})
	})

	result := &KnowledgeGraph{
		Entities:  matched,
		Relations: inducedRelations(matched, graph.Relations),
	}

	slog.Info("Search completed",
		"query", query,
		"entities_count", len(result.Entities),
		"relations_count", len(result.Relations),
	)

	return result, nil
}

func (s *Service) OpenNodes(ctx context.Context, names []string) (*KnowledgeGraph, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	graph, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	wanted := make(map[string]bool, len(names))
	for _, name := range names {
		wanted[name] = true
	}

	matched := pie.Filter(graph.Entities, func(e Entity) bool {
		return wanted[e.Name]
	})

	return &KnowledgeGraph{
		Entities:  matched,
		Relations: inducedRelations(matched, graph.Relations),
	}, nil
}

func hasEntity(graph *KnowledgeGraph, name string) bool {
	return findEntity(graph, name) != nil
}

func findEntity(graph *KnowledgeGraph, name string) *Entity {
	for i := range graph.Entities {
		if graph.Entities[i].Name == name {
			return &graph.Entities[i]
		}
	}

	return nil
}

func hasRelation(graph *KnowledgeGraph, candidate Relation) bool {
	return pie.Contains(graph.Relations, candidate)
}

// inducedRelations keeps only relations whose both endpoints are present in
// the given entity subset, which naturally drops dangling edges from
// search/open results.
func inducedRelations(entities []Entity, relations []Relation) []Relation {
	names := make(map[string]bool, len(entities))
	for _, e := range entities {
		names[e.Name] = true
	}

	return pie.Filter(relations, func(r Relation) bool {
		return names[r.From] && names[r.To]
	})
}
