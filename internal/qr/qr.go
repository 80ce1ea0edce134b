// Package qr turns short-link targets into QR module matrices.
package qr

import (
	"fmt"

	"github.com/skip2/go-qrcode"
)

// Payload is a QR module matrix, row major, where 1 marks a dark module.
// It carries no quiet zone.
type Payload [][]int

// Level is an error correction level numbered 1 (low) to 4 (highest).
type Level int

// Error correction levels.
const (
	LevelLow     Level = 1
	LevelMedium  Level = 2
	LevelHigh    Level = 3
	LevelHighest Level = 4
)

func (l Level) recovery() (qrcode.RecoveryLevel, error) {
	switch l {
	case LevelLow:
		return qrcode.Low, nil
	case LevelMedium:
		return qrcode.Medium, nil
	case LevelHigh:
		return qrcode.High, nil
	case LevelHighest:
		return qrcode.Highest, nil
	default:
		return 0, fmt.Errorf("qr: unsupported error correction level %d", l)
	}
}

// Encoder encodes strings at a fixed error correction level.
type Encoder struct {
	level qrcode.RecoveryLevel
}

// NewEncoder creates an encoder for the given level.
func NewEncoder(level Level) (*Encoder, error) {
	recovery, err := level.recovery()
	if err != nil {
		return nil, err
	}

	return &Encoder{level: recovery}, nil
}

// Encode returns the module matrix for content.
func (e *Encoder) Encode(content string) (Payload, error) {
	code, err := qrcode.New(content, e.level)
	if err != nil {
		return nil, fmt.Errorf("qr: encode: %w", err)
	}

	code.DisableBorder = true

	bitmap := code.Bitmap()
	payload := make(Payload, len(bitmap))

	for y, row := range bitmap {
		payload[y] = make([]int, len(row))

		for x, dark := range row {
			if dark {
				payload[y][x] = 1
			}
		}
	}

	return payload, nil
}
