package handlers

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

// RegisterRoutes registers the link and puzzle routes.
func RegisterRoutes(api huma.API, h *LinkHandler) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-link",
		Method:        http.MethodPost,
		Path:          "/link",
		Summary:       "Create link",
		Description:   "Stores the URL encrypted under a fresh link code and returns its QR payload and a puzzle code.",
		Tags:          []string{"Links"},
		DefaultStatus: http.StatusOK,
	}, h.CreateLink)

	huma.Register(api, huma.Operation{
		OperationID: "resolve-link",
		Method:      http.MethodGet,
		Path:        "/link/{code}",
		Summary:     "Resolve link",
		Description: "Returns the URL stored under the link code. Unknown codes get a 404 with an empty body.",
		Tags:        []string{"Links"},
	}, h.ResolveLink)

	huma.Register(api, huma.Operation{
		OperationID: "resolve-puzzle",
		Method:      http.MethodGet,
		Path:        "/puzzle/{code}",
		Summary:     "Resolve puzzle",
		Description: "Returns the QR payload stored under the puzzle code. Unknown codes get a 404 with an empty body.",
		Tags:        []string{"Puzzles"},
	}, h.ResolvePuzzle)
}
