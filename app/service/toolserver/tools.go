package toolserver

import (
	"github.com/mark3labs/mcp-go/mcp"
)

func objectSchema(properties map[string]any, required ...string) mcp.ToolInputSchema {
	return mcp.ToolInputSchema{
		Type:       "object",
		Properties: properties,
		Required:   required,
	}
}

func stringProperty(description string) map[string]any {
	return map[string]any{
		"type":        "string",
		"description": description,
	}
}

func arrayProperty(description string, items map[string]any) map[string]any {
	return map[string]any{
		"type":        "array",
		"description": description,
		"items":       items,
	}
}

var stringItems = map[string]any{"type": "string"}

var entityItems = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"name":         stringProperty("The name of the entity"),
		"entityType":   stringProperty("The type of the entity"),
		"observations": arrayProperty("An array of observation contents associated with the entity", stringItems),
	},
	"required": []string{"name", "entityType", "observations"},
}

var relationItems = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"from":         stringProperty("The name of the entity where the relation starts"),
		"to":           stringProperty("The name of the entity where the relation ends"),
		"relationType": stringProperty("The type of the relation"),
	},
	"required": []string{"from", "to", "relationType"},
}

func (s *Service) registerTools() {
	s.srv.AddTool(mcp.Tool{
		Name:        "create_entities",
		Description: "Create multiple new entities in the knowledge graph",
		InputSchema: objectSchema(map[string]any{
			"entities": arrayProperty("Entities to create", entityItems),
		}, "entities"),
	}, s.handleCreateEntities)

	s.srv.AddTool(mcp.Tool{
		Name:        "create_relations",
		Description: "Create multiple new relations between entities in the knowledge graph. Relations should be in active voice",
		InputSchema: objectSchema(map[string]any{
			"relations": arrayProperty("Relations to create", relationItems),
		}, "relations"),
	}, s.handleCreateRelations)

	s.srv.AddTool(mcp.Tool{
		Name:        "add_observations",
		Description: "Add new observations to existing entities in the knowledge graph",
		InputSchema: objectSchema(map[string]any{
			"observations": arrayProperty("Observations to add", map[string]any{
				"type": "object",
				"properties": map[string]any{
					"entityName": stringProperty("The name of the entity to add the observations to"),
					"contents":   arrayProperty("An array of observation contents to add", stringItems),
				},
				"required": []string{"entityName", "contents"},
			}),
		}, "observations"),
	}, s.handleAddObservations)

	s.srv.AddTool(mcp.Tool{
		Name:        "delete_entities",
		Description: "Delete multiple entities and their associated relations from the knowledge graph",
		InputSchema: objectSchema(map[string]any{
			"entityNames": arrayProperty("An array of entity names to delete", stringItems),
		}, "entityNames"),
	}, s.handleDeleteEntities)

	s.srv.AddTool(mcp.Tool{
		Name:        "delete_observations",
		Description: "Delete specific observations from entities in the knowledge graph",
		InputSchema: objectSchema(map[string]any{
			"deletions": arrayProperty("Observations to delete", map[string]any{
				"type": "object",
				"properties": map[string]any{
					"entityName":   stringProperty("The name of the entity containing the observations"),
					"observations": arrayProperty("An array of observations to delete", stringItems),
				},
				"required": []string{"entityName", "observations"},
			}),
		}, "deletions"),
	}, s.handleDeleteObservations)

	s.srv.AddTool(mcp.Tool{
		Name:        "delete_relations",
		Description: "Delete multiple relations from the knowledge graph",
		InputSchema: objectSchema(map[string]any{
			"relations": arrayProperty("Relations to delete", relationItems),
		}, "relations"),
	}, s.handleDeleteRelations)

	s.srv.AddTool(mcp.Tool{
		Name:        "read_graph",
		Description: "Read the entire knowledge graph",
		InputSchema: objectSchema(map[string]any{}),
	}, s.handleReadGraph)

	s.srv.AddTool(mcp.Tool{
		Name:        "search_nodes",
		Description: "Search for nodes in the knowledge graph based on a query",
		InputSchema: objectSchema(map[string]any{
			"query": stringProperty("The search query to match against entity names, types, and observation content"),
		}, "query"),
	}, s.handleSearchNodes)

	s.srv.AddTool(mcp.Tool{
		Name:        "open_nodes",
		Description: "Open specific nodes in the knowledge graph by their names",
		InputSchema: objectSchema(map[string]any{
			"names": arrayProperty("An array of entity names to retrieve", stringItems),
		}, "names"),
	}, s.handleOpenNodes)

	s.srv.AddTool(mcp.Tool{
		Name:        "fetch_url",
		Description: "Fetch a URL and extract its readable text content",
		InputSchema: objectSchema(map[string]any{
			"url": stringProperty("The URL to fetch"),
		}, "url"),
	}, s.handleFetchURL)
}
