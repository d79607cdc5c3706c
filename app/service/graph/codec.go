package graph

import (
	"bufio"
	"encoding/json"
	"io"
	"strings"

	"github.com/samber/oops"
)

// decodeGraph reads the JSONL representation: one record per non-blank line,
// each carrying a "kind" discriminator. Any malformed line fails the whole
// decode.
func decodeGraph(r io.Reader) (*KnowledgeGraph, error) {
	graph := &KnowledgeGraph{
		Entities:  []Entity{},
		Relations: []Relation{},
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var record jsonLineRecord
		if err := json.Unmarshal([]byte(line), &record); err != nil {
			return nil, oops.Errorf("failed to parse memory line %d: %w", lineNo, err)
		}

		switch record.Kind {
		case kindEntity:
			graph.Entities = append(graph.Entities, Entity{
				Name:         record.Name,
				EntityType:   record.EntityType,
				Observations: record.Observations,
			})
		case kindRelation:
			graph.Relations = append(graph.Relations, Relation{
				From:         record.From,
				To:           record.To,
				RelationType: record.RelationType,
			})
		default:
			return nil, oops.Errorf("unknown record kind %q at memory line %d", record.Kind, lineNo)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, oops.Errorf("error reading memory data: %w", err)
	}

	return graph, nil
}

// encodeGraph writes entities first, then relations, one record per line.
func encodeGraph(w io.Writer, graph *KnowledgeGraph) error {
	writer := bufio.NewWriter(w)

	writeRecord := func(record jsonLineRecord) error {
		data, err := json.Marshal(record)
		if err != nil {
			return oops.Errorf("failed to marshal record: %w", err)
		}
		if _, err = writer.WriteString(string(data) + "\n"); err != nil {
			return oops.Errorf("failed to write record: %w", err)
		}
		return nil
	}

	for _, e := range graph.Entities {
		err := writeRecord(jsonLineRecord{
			Kind:         kindEntity,
			Name:         e.Name,
			EntityType:   e.EntityType,
			Observations: e.Observations,
		})
		if err != nil {
			return err
		}
	}

	for _, r := range graph.Relations {
		err := writeRecord(jsonLineRecord{
			Kind:         kindRelation,
			From:         r.From,
			To:           r.To,
			RelationType: r.RelationType,
		})
		if err != nil {
			return err
		}
	}

	if err := writer.Flush(); err != nil {
		return oops.Errorf("failed to flush writer: %w", err)
	}

	return nil
}
