package gmail_tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/averyhq/avery/internal/gmail"
	"github.com/averyhq/avery/internal/instrumentation"
	"github.com/averyhq/avery/internal/server"
	"github.com/averyhq/avery/internal/tools/common"
)

// Mailer is the slice of the Gmail client the tools need. The concrete
// implementation is *gmail.Client; tests substitute fakes.
type Mailer interface {
	CreateDraft(ctx context.Context, msg *gmail.Message) (string, error)
	Send(ctx context.Context, msg *gmail.Message) (string, error)
}

// MailerFactory returns a Mailer for a connected account email.
type MailerFactory func(ctx context.Context, email string) (Mailer, error)

// mailResult is the wire shape returned by the Gmail tools.
type mailResult struct {
	Success   bool   `json:"success"`
	Error     string `json:"error,omitempty"`
	DraftID   string `json:"draft_id,omitempty"`
	MessageID string `json:"message_id,omitempty"`
	Message   string `json:"message,omitempty"`
}

// RegisterGmailTools registers all Gmail-related tools with the MCP server.
// Drafting is always available; sending is a write operation and is only
// registered when readOnly is false.
func RegisterGmailTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	factory := func(ctx context.Context, email string) (Mailer, error) {
		return sc.GmailClientForEmail(email)
	}

	createDraftTool := mcp.NewTool("gmail_create_draft",
		mcp.WithDescription("Create an email draft in a connected account's mailbox without sending it"),
		mcp.WithString("email",
			mcp.Required(),
			mcp.Description("Email address of the sending account (must be a connected account)"),
		),
		mcp.WithString("to",
			mcp.Required(),
			mcp.Description("Comma-separated list of recipient email addresses"),
		),
		mcp.WithString("subject",
			mcp.Required(),
			mcp.Description("Email subject"),
		),
		mcp.WithString("body",
			mcp.Required(),
			mcp.Description("Email body"),
		),
		mcp.WithString("cc",
			mcp.Description("Comma-separated list of CC recipients"),
		),
		mcp.WithBoolean("isHtml",
			mcp.Description("Treat the body as HTML instead of plain text"),
		),
	)

	s.AddTool(createDraftTool, common.InstrumentedToolHandlerWithService(
		"gmail_create_draft", instrumentation.ServiceGmail, instrumentation.OperationCreate, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleCreateDraft(ctx, request, sc, factory)
		}))

	if readOnly {
		return nil
	}

	sendTool := mcp.NewTool("gmail_send",
		mcp.WithDescription("Send an email immediately from a connected account"),
		mcp.WithString("email",
			mcp.Required(),
			mcp.Description("Email address of the sending account (must be a connected account)"),
		),
		mcp.WithString("to",
			mcp.Required(),
			mcp.Description("Comma-separated list of recipient email addresses"),
		),
		mcp.WithString("subject",
			mcp.Required(),
			mcp.Description("Email subject"),
		),
		mcp.WithString("body",
			mcp.Required(),
			mcp.Description("Email body"),
		),
		mcp.WithString("cc",
			mcp.Description("Comma-separated list of CC recipients"),
		),
		mcp.WithBoolean("isHtml",
			mcp.Description("Treat the body as HTML instead of plain text"),
		),
	)

	s.AddTool(sendTool, common.InstrumentedToolHandlerWithService(
		"gmail_send", instrumentation.ServiceGmail, instrumentation.OperationSend, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleSend(ctx, request, sc, factory)
		}))

	return nil
}

// messageFromArgs builds the outgoing message from tool arguments. Returns
// a protocol-level error result for missing required arguments.
func messageFromArgs(args map[string]interface{}) (*gmail.Message, *mcp.CallToolResult) {
	toStr, ok := args["to"].(string)
	if !ok || strings.TrimSpace(toStr) == "" {
		return nil, mcp.NewToolResultError("to is required")
	}
	subject, ok := args["subject"].(string)
	if !ok || subject == "" {
		return nil, mcp.NewToolResultError("subject is required")
	}
	body, ok := args["body"].(string)
	if !ok || body == "" {
		return nil, mcp.NewToolResultError("body is required")
	}

	msg := &gmail.Message{
		To:      splitAddresses(toStr),
		Subject: subject,
		Body:    body,
	}
	if ccStr, ok := args["cc"].(string); ok {
		msg.Cc = splitAddresses(ccStr)
	}
	if isHTML, ok := args["isHtml"].(bool); ok {
		msg.IsHTML = isHTML
	}
	return msg, nil
}

func splitAddresses(s string) []string {
	var out []string
	for _, addr := range strings.Split(s, ",") {
		if addr = strings.TrimSpace(addr); addr != "" {
			out = append(out, addr)
		}
	}
	return out
}

func handleCreateDraft(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext, factory MailerFactory) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	email, errResult := common.RequireEmail(args)
	if errResult != nil {
		return errResult, nil
	}
	msg, errResult := messageFromArgs(args)
	if errResult != nil {
		return errResult, nil
	}

	if _, err := sc.Resolver().Resolve(email); err != nil {
		return common.JSONResult(mailResult{Success: false,
			Error: fmt.Sprintf("mail account not connected for %s", email)}), nil
	}

	mailer, err := factory(ctx, email)
	if err != nil {
		return common.JSONResult(mailResult{Success: false,
			Error: fmt.Sprintf("mail access unavailable for %s: %v", email, err)}), nil
	}

	draftID, err := mailer.CreateDraft(ctx, msg)
	if err != nil {
		return common.JSONResult(mailResult{Success: false,
			Error: fmt.Sprintf("failed to create draft: %v", err)}), nil
	}

	return common.JSONResult(mailResult{
		Success: true,
		DraftID: draftID,
		Message: fmt.Sprintf("draft created for %s", strings.Join(msg.To, ", ")),
	}), nil
}

func handleSend(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext, factory MailerFactory) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	email, errResult := common.RequireEmail(args)
	if errResult != nil {
		return errResult, nil
	}
	msg, errResult := messageFromArgs(args)
	if errResult != nil {
		return errResult, nil
	}

	if _, err := sc.Resolver().Resolve(email); err != nil {
		return common.JSONResult(mailResult{Success: false,
			Error: fmt.Sprintf("mail account not connected for %s", email)}), nil
	}

	mailer, err := factory(ctx, email)
	if err != nil {
		return common.JSONResult(mailResult{Success: false,
			Error: fmt.Sprintf("mail access unavailable for %s: %v", email, err)}), nil
	}

	messageID, err := mailer.Send(ctx, msg)
	if err != nil {
		return common.JSONResult(mailResult{Success: false,
			Error: fmt.Sprintf("failed to send email: %v", err)}), nil
	}

	return common.JSONResult(mailResult{
		Success:   true,
		MessageID: messageID,
		Message:   fmt.Sprintf("email sent to %s", strings.Join(msg.To, ", ")),
	}), nil
}
