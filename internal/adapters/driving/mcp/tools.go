package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/intervo/internal/core/domain"
)

// ListGuidesInput is the input schema for the list_guides tool.
type ListGuidesInput struct{}

// GuideOutput represents one guide in tool output.
type GuideOutput struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	Description    string `json:"description,omitempty"`
	CurrentVersion int    `json:"current_version"`
}

// ListGuidesOutput is the output schema for the list_guides tool.
type ListGuidesOutput struct {
	Guides []GuideOutput `json:"guides"`
	Count  int           `json:"count"`
}

// GetGuideInput is the input schema for the get_guide tool.
type GetGuideInput struct {
	GuideID string `json:"guide_id" jsonschema:"the id of the guide to fetch"`
}

// GetGuideOutput is the output schema for the get_guide tool.
type GetGuideOutput struct {
	Guide         GuideOutput       `json:"guide"`
	ActiveVersion int               `json:"active_version"`
	Questions     []domain.Question `json:"questions"`
}

// StartSessionInput is the input schema for the start_session tool.
type StartSessionInput struct {
	GuideID string `json:"guide_id" jsonschema:"the id of the guide to interview against"`
}

// QuestionOutput represents the current question in tool output.
type QuestionOutput struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// SessionOutput is the output schema for session tools.
type SessionOutput struct {
	SessionID       string          `json:"session_id"`
	GuideID         string          `json:"guide_id"`
	CurrentQuestion *QuestionOutput `json:"current_question,omitempty"`
	Answered        int             `json:"answered"`
	IsComplete      bool            `json:"is_complete"`
}

// GetSessionInput is the input schema for the get_session tool.
type GetSessionInput struct {
	SessionID string `json:"session_id" jsonschema:"the id of the session to fetch"`
}

// SubmitAnswerInput is the input schema for the submit_answer tool.
type SubmitAnswerInput struct {
	SessionID  string `json:"session_id" jsonschema:"the id of the session"`
	QuestionID string `json:"question_id" jsonschema:"the id of the session's current question"`
	Answer     string `json:"answer" jsonschema:"the interviewee's answer text"`
}

// FollowUpOutput represents a generated follow-up prompt.
type FollowUpOutput struct {
	Prompt string `json:"prompt"`
	RuleID string `json:"rule_id,omitempty"`
}

// SubmitAnswerOutput is the output schema for the submit_answer tool.
type SubmitAnswerOutput struct {
	NextQuestion *QuestionOutput  `json:"next_question,omitempty"`
	IsComplete   bool             `json:"is_complete"`
	FollowUps    []FollowUpOutput `json:"follow_ups,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_guides",
		Description: "List all discussion guides",
	}, s.handleListGuides)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_guide",
		Description: "Get a guide with its active question tree",
	}, s.handleGetGuide)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "start_session",
		Description: "Start an interview session against a guide's active version",
	}, s.handleStartSession)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_session",
		Description: "Get an interview session's current state",
	}, s.handleGetSession)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "submit_answer",
		Description: "Submit an answer to the session's current question",
	}, s.handleSubmitAnswer)
}

// handleListGuides handles the list_guides tool invocation.
func (s *Server) handleListGuides(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ ListGuidesInput,
) (*mcp.CallToolResult, ListGuidesOutput, error) {
	guides, err := s.ports.Guide.List(ctx)
	if err != nil {
		return nil, ListGuidesOutput{}, err
	}

	output := ListGuidesOutput{
		Guides: make([]GuideOutput, len(guides)),
		Count:  len(guides),
	}
	for i := range guides {
		output.Guides[i] = guideOutput(&guides[i])
	}
	return nil, output, nil
}

// handleGetGuide handles the get_guide tool invocation.
func (s *Server) handleGetGuide(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input GetGuideInput,
) (*mcp.CallToolResult, GetGuideOutput, error) {
	guide, version, err := s.ports.Guide.ActiveGuide(ctx, input.GuideID)
	if err != nil {
		return nil, GetGuideOutput{}, err
	}

	return nil, GetGuideOutput{
		Guide:         guideOutput(guide),
		ActiveVersion: version.Version,
		Questions:     version.Content.Questions,
	}, nil
}

// handleStartSession handles the start_session tool invocation.
func (s *Server) handleStartSession(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input StartSessionInput,
) (*mcp.CallToolResult, SessionOutput, error) {
	session, question, err := s.ports.Session.Start(ctx, input.GuideID)
	if err != nil {
		return nil, SessionOutput{}, err
	}
	return nil, sessionOutput(session, question), nil
}

// handleGetSession handles the get_session tool invocation.
func (s *Server) handleGetSession(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input GetSessionInput,
) (*mcp.CallToolResult, SessionOutput, error) {
	session, question, err := s.ports.Session.Get(ctx, input.SessionID)
	if err != nil {
		return nil, SessionOutput{}, err
	}
	return nil, sessionOutput(session, question), nil
}

// handleSubmitAnswer handles the submit_answer tool invocation.
func (s *Server) handleSubmitAnswer(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SubmitAnswerInput,
) (*mcp.CallToolResult, SubmitAnswerOutput, error) {
	result, err := s.ports.Session.SubmitAnswer(ctx, input.SessionID, input.QuestionID, input.Answer)
	if err != nil {
		return nil, SubmitAnswerOutput{}, err
	}

	output := SubmitAnswerOutput{
		IsComplete: result.IsComplete,
	}
	if result.NextQuestion != nil {
		output.NextQuestion = &QuestionOutput{
			ID:   result.NextQuestion.ID,
			Text: result.NextQuestion.Text,
		}
	}
	for _, fu := range result.FollowUps {
		output.FollowUps = append(output.FollowUps, FollowUpOutput{
			Prompt: fu.Prompt,
			RuleID: fu.RuleID,
		})
	}
	return nil, output, nil
}

func guideOutput(g *domain.Guide) GuideOutput {
	return GuideOutput{
		ID:             g.ID,
		Title:          g.Title,
		Description:    g.Description,
		CurrentVersion: g.CurrentVersion,
	}
}

func sessionOutput(session *domain.Session, question *domain.Question) SessionOutput {
	out := SessionOutput{
		SessionID:  session.ID,
		GuideID:    session.GuideID,
		Answered:   len(session.State.AnsweredQuestions),
		IsComplete: session.State.IsComplete,
	}
	if question != nil {
		out.CurrentQuestion = &QuestionOutput{ID: question.ID, Text: question.Text}
	}
	return out
}
