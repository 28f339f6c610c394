package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	humanoid "github.com/natsuneko-laboratory/constraint-by-humanoid"
	"github.com/natsuneko-laboratory/constraint-by-humanoid/internal/logging"
	"github.com/natsuneko-laboratory/constraint-by-humanoid/pkg/codec"
	"github.com/natsuneko-laboratory/constraint-by-humanoid/pkg/domain"
	"github.com/natsuneko-laboratory/constraint-by-humanoid/pkg/workspace"
	"golang.org/x/sync/errgroup"
)

// RolesURI is the resource listing the canonical bone roles.
const RolesURI = "cbh://roles"

// ValidateResponse lists the precondition messages for a pass.
type ValidateResponse struct {
	OK       bool     `json:"ok" jsonschema_description:"True when the pass may run"`
	Messages []string `json:"messages" jsonschema_description:"Reasons the pass would be refused"`
}

// ApplyResponse aligns with the HTTP API and provides a unified structure across adapters.
type ApplyResponse struct {
	Refused  bool           `json:"refused" jsonschema_description:"True when preconditions failed and nothing ran"`
	Messages []string       `json:"messages,omitempty" jsonschema_description:"Precondition messages when refused"`
	Report   *domain.Report `json:"report,omitempty" jsonschema_description:"Constraints applied, warnings and skipped roles"`
	Scene    string         `json:"scene,omitempty" jsonschema_description:"Updated scene document (YAML) for inline scenes"`
}

// Server wraps a workspace and exposes it as an MCP Server.
type Server struct {
	scenes    *workspace.Manager
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance. A nil logger discards logs.
func NewServer(scenes *workspace.Manager, logger *slog.Logger) *Server {
	if logger == nil {
		logger = logging.NewNop()
	}
	s := &Server{
		scenes:    scenes,
		logger:    logger,
		mcpServer: server.NewMCPServer("cbh-mcp", strings.TrimSpace(humanoid.Version)),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying protocol server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves the MCP protocol over SSE on port until ctx is done.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("Shutdown signal received, shutting down MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	})
	return g.Wait()
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("list_roles",
		mcp.WithDescription("List the humanoid bone roles visited by apply, in order."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return mcp.NewToolResultText(strings.Join(s.roleNames(), "\n")), nil
	})

	s.mcpServer.AddTool(mcp.NewTool("list_scenes",
		mcp.WithDescription("List the IDs of stored scenes."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ids, err := s.scenes.List(ctx)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("list failed: %v", err)), nil
		}
		return mcp.NewToolResultText(strings.Join(ids, "\n")), nil
	})

	validateTool := mcp.NewTool("validate_scene",
		mcp.WithDescription("Check whether constraints can be applied between two avatar roots."),
		mcp.WithString("scene_id", mcp.Description("ID of a stored scene (or use 'scene')")),
		mcp.WithString("scene", mcp.Description("Inline scene document, YAML or JSON (or use 'scene_id')")),
		mcp.WithString("source", mcp.Description("Node ID of the source avatar root")),
		mcp.WithString("destination", mcp.Description("Node ID of the destination avatar root")),
		mcp.WithOutputSchema[ValidateResponse](),
	)
	s.mcpServer.AddTool(validateTool, mcp.NewStructuredToolHandler(s.handleValidate))

	planTool := mcp.NewTool("plan_constraints", append([]mcp.ToolOption{
		mcp.WithDescription("Report which constraints apply_constraints would attach, without changing the scene."),
	}, sceneArgs()...)...,
	)
	s.mcpServer.AddTool(planTool, mcp.NewStructuredToolHandler(s.handlePlan))

	applyTool := mcp.NewTool("apply_constraints", append([]mcp.ToolOption{
		mcp.WithDescription("Attach one constraint per humanoid bone from the source skeleton to the destination skeleton. " +
			"Stored scenes are updated in place; inline scenes are returned updated."),
	}, sceneArgs()...)...,
	)
	s.mcpServer.AddTool(applyTool, mcp.NewStructuredToolHandler(s.handleApply))
}

func sceneArgs() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithString("scene_id", mcp.Description("ID of a stored scene (or use 'scene')")),
		mcp.WithString("scene", mcp.Description("Inline scene document, YAML or JSON (or use 'scene_id')")),
		mcp.WithString("source", mcp.Required(), mcp.Description("Node ID of the source avatar root")),
		mcp.WithString("destination", mcp.Required(), mcp.Description("Node ID of the destination avatar root")),
		mcp.WithString("kind", mcp.Required(), mcp.Description("Constraint kind: aim, lookat, parent, position, rotation or scale")),
		mcp.WithString("exclude", mcp.Description("Comma-separated node IDs to leave untouched")),
		mcp.WithOutputSchema[ApplyResponse](),
	}
}

func (s *Server) handleValidate(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (ValidateResponse, error) {
	scene, err := s.loadScene(ctx, args)
	if err != nil {
		return ValidateResponse{}, err
	}
	msgs := s.scenes.Engine().Validate(scene, domain.NodeID(stringArg(args, "source")), domain.NodeID(stringArg(args, "destination")))
	if msgs == nil {
		msgs = []string{}
	}
	return ValidateResponse{OK: len(msgs) == 0, Messages: msgs}, nil
}

func (s *Server) handlePlan(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (ApplyResponse, error) {
	req, err := applyRequest(args)
	if err != nil {
		return ApplyResponse{}, err
	}
	scene, err := s.loadScene(ctx, args)
	if err != nil {
		return ApplyResponse{}, err
	}
	return respond(s.scenes.Engine().Plan(ctx, scene, req))
}

func (s *Server) handleApply(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (ApplyResponse, error) {
	req, err := applyRequest(args)
	if err != nil {
		return ApplyResponse{}, err
	}

	if id := stringArg(args, "scene_id"); id != "" {
		s.logger.InfoContext(ctx, "MCP apply on stored scene", "scene_id", id, "kind", req.Kind)
		return respond(s.scenes.Apply(ctx, id, req))
	}

	scene, err := s.loadScene(ctx, args)
	if err != nil {
		return ApplyResponse{}, err
	}
	resp, err := respond(s.scenes.Engine().Apply(ctx, scene, req))
	if err != nil || resp.Refused {
		return resp, err
	}
	data, err := codec.Encode(scene, codec.FormatYAML)
	if err != nil {
		return ApplyResponse{}, err
	}
	resp.Scene = string(data)
	return resp, nil
}

// respond turns a refused pass into a structured answer; other errors fail the tool call.
func respond(report *domain.Report, err error) (ApplyResponse, error) {
	var pre *domain.PreconditionError
	if errors.As(err, &pre) {
		return ApplyResponse{Refused: true, Messages: pre.Messages}, nil
	}
	if err != nil {
		return ApplyResponse{}, err
	}
	return ApplyResponse{Report: report}, nil
}

// loadScene resolves the scene_id or scene argument.
func (s *Server) loadScene(ctx context.Context, args map[string]interface{}) (*domain.Scene, error) {
	if id := stringArg(args, "scene_id"); id != "" {
		return s.scenes.Load(ctx, id)
	}
	doc := stringArg(args, "scene")
	if doc == "" {
		return nil, errors.New("either scene_id or scene is required")
	}
	return codec.Decode([]byte(doc))
}

func applyRequest(args map[string]interface{}) (humanoid.ApplyRequest, error) {
	var exclude []string
	for _, id := range strings.Split(stringArg(args, "exclude"), ",") {
		exclude = append(exclude, strings.TrimSpace(id))
	}
	return humanoid.ParseApplyRequest(stringArg(args, "source"), stringArg(args, "destination"), exclude, stringArg(args, "kind"))
}

func stringArg(args map[string]interface{}, key string) string {
	v, _ := args[key].(string)
	return strings.TrimSpace(v)
}

func (s *Server) roleNames() []string {
	roles := s.scenes.Engine().Roles()
	names := make([]string, len(roles))
	for i, r := range roles {
		names[i] = r.String()
	}
	return names
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(RolesURI, "Humanoid Bone Roles",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		jsonBytes, err := json.Marshal(s.roleNames())
		if err != nil {
			return nil, err
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      RolesURI,
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})

	sceneTemplate := mcp.NewResourceTemplate(
		"cbh://scenes/{id}",
		"Stored Scene",
		mcp.WithTemplateDescription("A stored scene document in YAML"),
		mcp.WithTemplateMIMEType("text/yaml"),
	)
	s.mcpServer.AddResourceTemplate(sceneTemplate, server.ResourceTemplateHandlerFunc(s.handleSceneResource))
}

func (s *Server) handleSceneResource(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	id := strings.TrimPrefix(request.Params.URI, "cbh://scenes/")
	if id == "" || id == request.Params.URI {
		return nil, fmt.Errorf("invalid resource URI: %s", request.Params.URI)
	}
	scene, err := s.scenes.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	data, err := codec.Encode(scene, codec.FormatYAML)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      request.Params.URI,
			MIMEType: "text/yaml",
			Text:     string(data),
		},
	}, nil
}
