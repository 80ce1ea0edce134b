package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/puzzle-link/internal/link"
	"github.com/serroba/puzzle-link/internal/qr"
	"go.uber.org/zap"
)

// LinkService is what the HTTP layer needs from the link domain.
type LinkService interface {
	CreateLink(ctx context.Context, rawURL string) (*link.Created, error)
	ResolveLink(ctx context.Context, linkCode link.Code) (string, error)
	ResolvePuzzle(ctx context.Context, puzzleCode link.Code) (qr.Payload, error)
}

// LinkHandler handles link creation and lookups.
type LinkHandler struct {
	links  LinkService
	logger *zap.Logger
}

// NewLinkHandler creates a new link handler.
func NewLinkHandler(links LinkService, logger *zap.Logger) *LinkHandler {
	return &LinkHandler{links: links, logger: logger}
}

func (h *LinkHandler) CreateLink(ctx context.Context, req *CreateLinkRequest) (*CreateLinkResponse, error) {
	created, err := h.links.CreateLink(ctx, req.Body.Link)
	if err != nil {
		h.logger.Error("failed to create link", zap.Error(err))

		return nil, huma.Error500InternalServerError("failed to create link")
	}

	resp := &CreateLinkResponse{}
	resp.Body.QRCode = created.QRCode
	resp.Body.PuzzleCode = string(created.PuzzleCode)

	return resp, nil
}

func (h *LinkHandler) ResolveLink(ctx context.Context, req *CodeRequest) (*LookupResponse, error) {
	url, err := h.links.ResolveLink(ctx, link.Code(req.Code))
	if err != nil {
		return h.lookupFailure(err)
	}

	return found(resolvedLink{URL: url})
}

func (h *LinkHandler) ResolvePuzzle(ctx context.Context, req *CodeRequest) (*LookupResponse, error) {
	payload, err := h.links.ResolvePuzzle(ctx, link.Code(req.Code))
	if err != nil {
		return h.lookupFailure(err)
	}

	return found(resolvedPuzzle{QRCode: payload})
}

func (h *LinkHandler) lookupFailure(err error) (*LookupResponse, error) {
	if errors.Is(err, link.ErrNotFound) {
		return &LookupResponse{Status: http.StatusNotFound}, nil
	}

	h.logger.Error("lookup failed", zap.Error(err))

	return nil, huma.Error500InternalServerError("failed to look up code")
}

func found(body any) (*LookupResponse, error) {
	encoded, err := json.Marshal(body)
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to encode response")
	}

	return &LookupResponse{
		Status:      http.StatusOK,
		ContentType: "application/json",
		Body:        encoded,
	}, nil
}
