package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/specmaker/internal/command"
)

type noParams struct{}

func registerTools(server *sdkmcp.Server, commands CommandHandler) {
	addCommandTool[command.CreateProjectParams](server, commands, command.CreateProject,
		"Create a project with a name, description and optional industry and target audience")
	addCommandTool[noParams](server, commands, command.GetProjects,
		"List all projects, most recently updated first")
	addCommandTool[command.ProjectIDParams](server, commands, command.GetProject,
		"Get a project by ID")
	addCommandTool[command.ProjectIDParams](server, commands, command.DeleteProject,
		"Delete a project by ID; unknown IDs are not an error")
	addCommandTool[command.ProjectIDParams](server, commands, command.CreateConversation,
		"Start a new conversation for a project")
	addCommandTool[command.ProjectIDParams](server, commands, command.GetProjectConversations,
		"List the conversations of a project, newest first")
	addCommandTool[command.ConversationIDParams](server, commands, command.GetConversationMessages,
		"Get the messages of a conversation in creation order")
	addCommandTool[command.SendMessageParams](server, commands, command.SendMessage,
		"Append a message to a conversation and return the assistant reply from the local model")
	addCommandTool[noParams](server, commands, command.CheckOllamaConnection,
		"Report whether the local Ollama server answers")
}

// addCommandTool registers a tool whose arguments are passed through to the
// command of the same name. Results are returned as JSON text content.
func addCommandTool[In any](server *sdkmcp.Server, commands CommandHandler, name, description string) {
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        name,
		Description: description,
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in In) (*sdkmcp.CallToolResult, any, error) {
		params, err := json.Marshal(in)
		if err != nil {
			return nil, nil, fmt.Errorf("encode arguments: %w", err)
		}

		result, err := commands.Handle(ctx, name, params)
		if err != nil {
			return nil, nil, err
		}

		text, err := json.Marshal(result)
		if err != nil {
			return nil, nil, fmt.Errorf("encode result: %w", err)
		}

		return &sdkmcp.CallToolResult{
			Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: string(text)}},
		}, nil, nil
	})
}
