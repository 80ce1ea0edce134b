package handlers

import "github.com/serroba/puzzle-link/internal/qr"

// CreateLinkRequest is the request body for shortening a URL.
type CreateLinkRequest struct {
	Body struct {
		Link string `doc:"The URL to shorten" example:"https://example.com/article" json:"link" minLength:"1"`
	}
}

// CreateLinkResponse carries the QR payload of the short link and the puzzle code revealing it.
type CreateLinkResponse struct {
	Body struct {
		QRCode     qr.Payload `doc:"QR module matrix encoding <base>/#<linkCode>, 1 is dark" json:"qrCode"`
		PuzzleCode string     `doc:"Code that reveals the QR payload" example:"Qx7Lm2Pa" json:"puzzleCode"`
	}
}

// CodeRequest addresses a link or puzzle by its code.
type CodeRequest struct {
	Code string `doc:"Link or puzzle code" example:"Ab3dEf9H" path:"code"`
}

// LookupResponse is written as raw JSON so that a miss can be answered
// with a bare 404 and no body.
type LookupResponse struct {
	Status      int
	ContentType string `header:"Content-Type"`
	Body        []byte
}

type resolvedLink struct {
	URL string `json:"url"`
}

type resolvedPuzzle struct {
	QRCode qr.Payload `json:"qrCode"`
}
