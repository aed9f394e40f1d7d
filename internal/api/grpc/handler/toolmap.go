package handler

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dtroode/aitoolmap-server/internal/api/grpc/proto"
	"github.com/dtroode/aitoolmap-server/internal/logger"
	"github.com/dtroode/aitoolmap-server/internal/model"
)

// Library defines collection operations of a user.
type Library interface {
	Load(ctx context.Context, userID uuid.UUID) ([]model.Category, error)
	Categories(ctx context.Context, userID uuid.UUID) ([]model.Category, error)
	AddTool(ctx context.Context, userID uuid.UUID, category string, in model.ToolInput) (model.Tool, error)
	DeleteTool(ctx context.Context, userID uuid.UUID, remoteID string) error
	DeleteCategory(ctx context.Context, userID uuid.UUID, category model.Category) error
}

// Exporter stores a snapshot of a user's map.
type Exporter interface {
	Export(ctx context.Context, userID uuid.UUID) (string, error)
}

// ToolMap handles gRPC endpoints for the tool map.
type ToolMap struct {
	proto.UnimplementedToolMapServer
	library        Library
	exporter       Exporter
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewToolMap creates a new ToolMap handler.
func NewToolMap(library Library, exporter Exporter, contextManager model.ContextManager, logger *logger.Logger) *ToolMap {
	return &ToolMap{
		library:        library,
		exporter:       exporter,
		contextManager: contextManager,
		logger:         logger,
	}
}

// Load returns the map of the caller, seeding it on first use.
func (h *ToolMap) Load(ctx context.Context, _ *proto.LoadRequest) (*proto.LoadResponse, error) {
	identity, err := h.identity(ctx)
	if err != nil {
		return nil, err
	}

	categories, err := h.library.Load(ctx, identity.UserID)
	if err != nil {
		h.logger.Error("ToolMap handler: load failed",
			"user_id", identity.UserID,
			"error", err.Error())
		return nil, handleError(err)
	}

	return &proto.LoadResponse{Categories: toProtoCategories(categories)}, nil
}

// AddTool stores a tool under a category. A new category counts against the limit.
func (h *ToolMap) AddTool(ctx context.Context, req *proto.AddToolRequest) (*proto.AddToolResponse, error) {
	identity, err := h.identity(ctx)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Category)
	if name == "" {
		return nil, handleError(model.ErrEmptyCategoryName)
	}

	categories, err := h.library.Categories(ctx, identity.UserID)
	if err != nil {
		h.logger.Error("ToolMap handler: list categories failed",
			"user_id", identity.UserID,
			"error", err.Error())
		return nil, handleError(err)
	}
	category, found := matchCategory(categories, name)
	if !found && len(categories) >= model.MaxCategories {
		return nil, handleError(model.ErrCategoryLimit)
	}
	if found {
		name = category.Name
	}

	tool, err := h.library.AddTool(ctx, identity.UserID, name, model.ToolInput{
		Name:        req.Name,
		URL:         req.URL,
		Description: req.Description,
	})
	if err != nil {
		return nil, handleError(err)
	}

	h.logger.Info("ToolMap handler: tool added",
		"user_id", identity.UserID,
		"remote_id", tool.RemoteID)
	return &proto.AddToolResponse{Tool: toProtoTool(tool)}, nil
}

// DeleteTool removes one tool.
func (h *ToolMap) DeleteTool(ctx context.Context, req *proto.DeleteToolRequest) (*proto.DeleteToolResponse, error) {
	identity, err := h.identity(ctx)
	if err != nil {
		return nil, err
	}
	if req.RemoteID == "" {
		return nil, status.Error(codes.InvalidArgument, "remote id is required")
	}

	if err := h.library.DeleteTool(ctx, identity.UserID, req.RemoteID); err != nil {
		return nil, handleError(err)
	}
	return &proto.DeleteToolResponse{}, nil
}

// DeleteCategory removes every tool of a category in one batch.
func (h *ToolMap) DeleteCategory(ctx context.Context, req *proto.DeleteCategoryRequest) (*proto.DeleteCategoryResponse, error) {
	identity, err := h.identity(ctx)
	if err != nil {
		return nil, err
	}

	categories, err := h.library.Categories(ctx, identity.UserID)
	if err != nil {
		return nil, handleError(err)
	}
	category, found := matchCategory(categories, strings.TrimSpace(req.Category))
	if !found {
		return nil, handleError(model.ErrCategoryNotFound)
	}

	if err := h.library.DeleteCategory(ctx, identity.UserID, category); err != nil {
		return nil, handleError(err)
	}

	h.logger.Info("ToolMap handler: category deleted",
		"user_id", identity.UserID,
		"category", category.Name,
		"tools", len(category.Tools))
	return &proto.DeleteCategoryResponse{Deleted: len(category.Tools)}, nil
}

// Export stores the caller's map in object storage.
func (h *ToolMap) Export(ctx context.Context, _ *proto.ExportRequest) (*proto.ExportResponse, error) {
	identity, err := h.identity(ctx)
	if err != nil {
		return nil, err
	}

	key, err := h.exporter.Export(ctx, identity.UserID)
	if err != nil {
		return nil, handleError(err)
	}
	return &proto.ExportResponse{Key: key}, nil
}

func (h *ToolMap) identity(ctx context.Context) (model.Identity, error) {
	identity, ok := h.contextManager.GetIdentityFromContext(ctx)
	if !ok {
		return model.Identity{}, status.Error(codes.Unauthenticated, "user not authenticated")
	}
	return identity, nil
}

func matchCategory(categories []model.Category, name string) (model.Category, bool) {
	for _, c := range categories {
		if strings.EqualFold(c.Name, name) {
			return c, true
		}
	}
	return model.Category{}, false
}

func toProtoTool(t model.Tool) *proto.Tool {
	return &proto.Tool{
		ID:          t.ID,
		Name:        t.Name,
		URL:         t.URL,
		Description: t.Description,
		RemoteID:    t.RemoteID,
	}
}

func toProtoCategories(categories []model.Category) []*proto.Category {
	out := make([]*proto.Category, 0, len(categories))
	for _, c := range categories {
		tools := make([]*proto.Tool, 0, len(c.Tools))
		for _, t := range c.Tools {
			tools = append(tools, toProtoTool(t))
		}
		out = append(out, &proto.Category{Name: c.Name, Tools: tools})
	}
	return out
}
