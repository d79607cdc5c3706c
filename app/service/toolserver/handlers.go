package toolserver

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"memograph/app/service/graph"

	"github.com/mark3labs/mcp-go/mcp"
)

// bindArguments checks the required keys are present in the loosely-typed
// argument bag, then decodes it into out. It returns a tool error result on
// failure so no handler touches the store with a malformed payload.
func bindArguments(req mcp.CallToolRequest, required []string, out any) *mcp.CallToolResult {
	args := req.GetArguments()

	for _, key := range required {
		if _, ok := args[key]; !ok {
			return errorResult(fmt.Sprintf("missing required argument: %s", key))
		}
	}

	data, err := json.Marshal(args)
	if err != nil {
		return errorResult(fmt.Sprintf("invalid arguments: %v", err))
	}
	if err = json.Unmarshal(data, out); err != nil {
		return errorResult(fmt.Sprintf("invalid arguments: %v", err))
	}

	return nil
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

func jsonResult(value any) *mcp.CallToolResult {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return errorResult(fmt.Sprintf("failed to encode result: %v", err))
	}

	return textResult(string(data))
}

func errorResult(message string) *mcp.CallToolResult {
	result := textResult(message)
	result.IsError = true

	return result
}

// operationError converts an operation failure into a tool error result.
// Cancellation is reported generically so no internal detail leaks.
func operationError(ctx context.Context, err error) *mcp.CallToolResult {
	if ctx.Err() != nil {
		return errorResult("execution interrupted")
	}

	slog.Error("Tool call failed", "error", err)

	return errorResult(err.Error())
}

func (s *Service) handleCreateEntities(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args struct {
		Entities []graph.Entity `json:"entities"`
	}
	if res := bindArguments(req, []string{"entities"}, &args); res != nil {
		return res, nil
	}

	added, err := s.graphSvc.CreateEntities(ctx, args.Entities)
	if err != nil {
		return operationError(ctx, err), nil
	}

	return jsonResult(added), nil
}

func (s *Service) handleCreateRelations(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args struct {
		Relations []graph.Relation `json:"relations"`
	}
	if res := bindArguments(req, []string{"relations"}, &args); res != nil {
		return res, nil
	}

	added, err := s.graphSvc.CreateRelations(ctx, args.Relations)
	if err != nil {
		return operationError(ctx, err), nil
	}

	return jsonResult(added), nil
}

func (s *Service) handleAddObservations(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args struct {
		Observations []graph.ObservationAddition `json:"observations"`
	}
	if res := bindArguments(req, []string{"observations"}, &args); res != nil {
		return res, nil
	}

	results, err := s.graphSvc.AddObservations(ctx, args.Observations)
	if err != nil {
		return operationError(ctx, err), nil
	}

	return jsonResult(results), nil
}

func (s *Service) handleDeleteEntities(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args struct {
		EntityNames []string `json:"entityNames"`
	}
	if res := bindArguments(req, []string{"entityNames"}, &args); res != nil {
		return res, nil
	}

	if err := s.graphSvc.DeleteEntities(ctx, args.EntityNames); err != nil {
		return operationError(ctx, err), nil
	}

	return textResult("Entities deleted successfully"), nil
}

func (s *Service) handleDeleteObservations(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args struct {
		Deletions []graph.ObservationDeletion `json:"deletions"`
	}
	if res := bindArguments(req, []string{"deletions"}, &args); res != nil {
		return res, nil
	}

	if err := s.graphSvc.DeleteObservations(ctx, args.Deletions); err != nil {
		return operationError(ctx, err), nil
	}

	return textResult("Observations deleted successfully"), nil
}

func (s *Service) handleDeleteRelations(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args struct {
		Relations []graph.Relation `json:"relations"`
	}
	if res := bindArguments(req, []string{"relations"}, &args); res != nil {
		return res, nil
	}

	if err := s.graphSvc.DeleteRelations(ctx, args.Relations); err != nil {
		return operationError(ctx, err), nil
	}

	return textResult("Relations deleted successfully"), nil
}

func (s *Service) handleReadGraph(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := s.graphSvc.ReadGraph(ctx)
	if err != nil {
		return operationError(ctx, err), nil
	}

	return jsonResult(result), nil
}

func (s *Service) handleSearchNodes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args struct {
		Query string `json:"query"`
	}
	if res := bindArguments(req, []string{"query"}, &args); res != nil {
		return res, nil
	}

	result, err := s.graphSvc.SearchNodes(ctx, args.Query)
	if err != nil {
		return operationError(ctx, err), nil
	}

	return jsonResult(result), nil
}

func (s *Service) handleOpenNodes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args struct {
		Names []string `json:"names"`
	}
	if res := bindArguments(req, []string{"names"}, &args); res != nil {
		return res, nil
	}

	result, err := s.graphSvc.OpenNodes(ctx, args.Names)
	if err != nil {
		return operationError(ctx, err), nil
	}

	return jsonResult(result), nil
}

func (s *Service) handleFetchURL(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args struct {
		URL string `json:"url"`
	}
	if res := bindArguments(req, []string{"url"}, &args); res != nil {
		return res, nil
	}

	content, err := s.fetchSvc.Fetch(ctx, args.URL)
	if err != nil {
		return operationError(ctx, err), nil
	}

	return textResult(content), nil
}
