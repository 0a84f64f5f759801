package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `specmaker stores product ideas as Projects → Conversations → Messages and
asks a local model for the next assistant turn.

Workflow:
1) create_project (or get_projects to pick an existing one).
2) create_conversation with the project_id.
3) send_message with role "user" and your content; the reply is the assistant message that was saved.
4) get_conversation_messages to read the full history in order.

If send_message fails, your message is still saved; check check_ollama_connection and resend.
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "specmaker://docs/workflow",
		Name:        "workflow",
		Title:       "Conversation workflow",
		Description: "How projects, conversations and messages fit together",
		Content: `# Conversation workflow

- A project holds the idea: name, description, optional industry and target audience.
  New projects start with status ` + "`ideation`" + `.
- A conversation belongs to one project and starts in phase ` + "`initial_analysis`" + `.
- Messages are append-only. The whole history, in creation order, is sent to the model on every send_message.
- Metadata on a message is stored as given and never sent to the model.
`,
	},
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		doc := doc

		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      doc.URI,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}
