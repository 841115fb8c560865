package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/cloudshipai/zoektexec/internal/capabilities"
	"github.com/cloudshipai/zoektexec/internal/config"
	"github.com/cloudshipai/zoektexec/internal/logging"
	"github.com/cloudshipai/zoektexec/internal/render"
	"github.com/cloudshipai/zoektexec/internal/runner"
	"github.com/cloudshipai/zoektexec/internal/version"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the Execution Subsystem as an MCP stdio server",
	Long: `Registers the four broker operations (list_capabilities, read_capability,
run_workflow_cli, run_custom_workflow_code) as MCP tools and serves them over stdio.`,
	RunE: runServe,
}

// broker wires the Manifest Store, Capability Catalog, and Execution
// Runner into MCP tool handlers. This is the thin shim the spec describes
// as "external" to the core subsystem — included here so the module is
// runnable end to end.
type broker struct {
	catalog *capabilities.Catalog
	runner  *runner.Runner
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	catalog, err := capabilities.NewCatalog(cfg.ManifestPath)
	if err != nil {
		return fmt.Errorf("loading capability manifest: %w", err)
	}

	b := &broker{
		catalog: catalog,
		runner:  runner.New(catalog, cfg),
	}

	mcpServer := server.NewMCPServer(
		"zoektexec",
		version.GetVersionString(),
		server.WithToolCapabilities(true),
		server.WithRecovery(),
	)

	mcpServer.AddTool(mcp.NewTool("list_capabilities",
		mcp.WithDescription("List every capability in the loaded manifest"),
	), b.handleListCapabilities)

	mcpServer.AddTool(mcp.NewTool("read_capability",
		mcp.WithDescription("Read the full document for one capability id"),
		mcp.WithString("id", mcp.Required(), mcp.Description("Capability id")),
	), b.handleReadCapability)

	mcpServer.AddTool(mcp.NewTool("run_workflow_cli",
		mcp.WithDescription("Run a catalogued workflow from a CLI-style command string"),
		mcp.WithString("command", mcp.Required(), mcp.Description("e.g. \"symbol_usage --query Foo\"")),
		mcp.WithNumber("timeout_seconds", mcp.Description("Wall-clock timeout; <= 0 uses the server default")),
	), b.handleRunWorkflowCLI)

	mcpServer.AddTool(mcp.NewTool("run_custom_workflow_code",
		mcp.WithDescription("Run caller-supplied Python code after a static safety review"),
		mcp.WithString("code", mcp.Required(), mcp.Description("Python source exposing run(args) or a legacy main(args)")),
		mcp.WithObject("args", mcp.Description("JSON args passed to the code's entrypoint")),
		mcp.WithNumber("timeout_seconds", mcp.Description("Wall-clock timeout; <= 0 uses the server default")),
	), b.handleRunCustomWorkflowCode)

	logging.Info("serve: listening on stdio, %d capabilities loaded", catalog.Len())
	if err := server.ServeStdio(mcpServer); err != nil {
		return fmt.Errorf("mcp stdio server error: %w", err)
	}
	return nil
}

// logRequest tags an inbound MCP tool call with a transport-level
// correlation id, separate from the runner's per-invocation ULID which
// only exists once an execution actually starts.
func logRequest(tool string) string {
	requestID := uuid.NewString()
	logging.Debug("mcp: request %s received for tool %q", requestID, tool)
	return requestID
}

func (b *broker) handleListCapabilities(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	logRequest("list_capabilities")
	hits := b.catalog.List()
	encoded, err := json.Marshal(hits)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode capability list: %v", err)), nil
	}
	return mcp.NewToolResultText(string(encoded)), nil
}

func (b *broker) handleReadCapability(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	logRequest("read_capability")
	id, err := request.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("missing 'id' parameter: %v", err)), nil
	}

	doc, ok := b.catalog.Read(id)
	if !ok {
		doc = capabilities.ErrorDocument(id)
	}
	encoded, err := json.Marshal(doc)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode capability document: %v", err)), nil
	}
	return mcp.NewToolResultText(string(encoded)), nil
}

func (b *broker) handleRunWorkflowCLI(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	logRequest("run_workflow_cli")
	command, err := request.RequireString("command")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("missing 'command' parameter: %v", err)), nil
	}
	timeoutSeconds := request.GetInt("timeout_seconds", 0)

	result := b.runner.RunWorkflowCLI(ctx, command, timeoutSeconds)
	workflowID, _, _ := splitWorkflowID(command)
	return mcp.NewToolResultText(render.FormatWorkflowResult(workflowID, result)), nil
}

func (b *broker) handleRunCustomWorkflowCode(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	logRequest("run_custom_workflow_code")
	code, err := request.RequireString("code")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("missing 'code' parameter: %v", err)), nil
	}
	timeoutSeconds := request.GetInt("timeout_seconds", 0)

	args := map[string]any{}
	if raw, ok := request.GetArguments()["args"]; ok {
		if m, ok := raw.(map[string]any); ok {
			args = m
		}
	}

	result := b.runner.RunCustomCode(ctx, code, args, timeoutSeconds)
	return mcp.NewToolResultText(render.FormatWorkflowResult("custom", result)), nil
}

// splitWorkflowID pulls just the leading token off a CLI-style command
// string, for labelling the rendered report; parsing/validation proper
// happens inside the runner.
func splitWorkflowID(command string) (string, string, bool) {
	for i, r := range command {
		if r == ' ' || r == '\t' {
			return command[:i], command[i:], true
		}
	}
	return command, "", false
}
