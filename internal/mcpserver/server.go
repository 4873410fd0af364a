// Package mcpserver exposes the transcript store to MCP clients over
// stdio, so assistants can search and read stored meetings.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"scribe/internal/db"
	"scribe/internal/version"
)

// New builds the MCP server with its tool set registered.
func New(store *db.Store) *server.MCPServer {
	s := server.NewMCPServer("scribe", version.Version, server.WithToolCapabilities(false))

	s.AddTool(mcp.NewTool("search_transcripts",
		mcp.WithDescription("Full-text search across stored meeting transcripts. Returns ranked matches with snippets."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search terms")),
		mcp.WithNumber("meeting_id", mcp.Description("Restrict the search to one meeting")),
		mcp.WithNumber("limit", mcp.Description("Maximum results, default 25")),
	), searchHandler(store))

	s.AddTool(mcp.NewTool("list_meetings",
		mcp.WithDescription("List stored meetings with their metadata."),
	), listHandler(store))

	s.AddTool(mcp.NewTool("get_transcript",
		mcp.WithDescription("Fetch a meeting's full transcript and latest summary."),
		mcp.WithNumber("meeting_id", mcp.Required(), mcp.Description("Meeting id")),
	), transcriptHandler(store))

	return s
}

// ServeStdio blocks serving MCP requests on stdin/stdout.
func ServeStdio(store *db.Store) error {
	return server.ServeStdio(New(store))
}

func searchHandler(store *db.Store) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query, err := req.RequireString("query")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		meetingID := int64(req.GetInt("meeting_id", 0))
		limit := req.GetInt("limit", 25)

		hits, err := store.Search(ctx, query, meetingID, limit)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		type hit struct {
			MeetingID int64   `json:"meeting_id"`
			Sequence  int     `json:"sequence"`
			Start     float64 `json:"start"`
			End       float64 `json:"end"`
			Snippet   string  `json:"snippet"`
		}
		out := make([]hit, 0, len(hits))
		for _, h := range hits {
			out = append(out, hit{
				MeetingID: h.MeetingID,
				Sequence:  h.SequenceNumber,
				Start:     h.Start,
				End:       h.End,
				Snippet:   h.Snippet,
			})
		}
		return jsonResult(out)
	}
}

func listHandler(store *db.Store) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		meetings, err := store.ListMeetings(ctx)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		type meeting struct {
			ID              int64   `json:"id"`
			CreatedAt       string  `json:"created_at"`
			SourcePath      string  `json:"source_path"`
			Language        string  `json:"language"`
			ModelName       string  `json:"model_name"`
			DurationSeconds float64 `json:"duration_seconds"`
		}
		out := make([]meeting, 0, len(meetings))
		for _, m := range meetings {
			out = append(out, meeting{
				ID:              m.ID,
				CreatedAt:       m.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
				SourcePath:      m.SourcePath,
				Language:        m.Language,
				ModelName:       m.ModelName,
				DurationSeconds: m.DurationSeconds,
			})
		}
		return jsonResult(out)
	}
}

func transcriptHandler(store *db.Store) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := req.RequireInt("meeting_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		segments, err := store.ListSegments(ctx, int64(id))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		summary, err := store.LatestSummary(ctx, int64(id))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		type segment struct {
			Sequence int     `json:"sequence"`
			Start    float64 `json:"start"`
			End      float64 `json:"end"`
			Text     string  `json:"text"`
		}
		var out struct {
			Summary  string    `json:"summary,omitempty"`
			Segments []segment `json:"segments"`
		}
		if summary != nil {
			out.Summary = summary.Text
		}
		for _, s := range segments {
			out.Segments = append(out.Segments, segment{
				Sequence: s.SequenceNumber,
				Start:    s.Start,
				End:      s.End,
				Text:     s.Text,
			})
		}
		return jsonResult(out)
	}
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}
