package link

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/jaevor/go-nanoid"
	"github.com/serroba/puzzle-link/internal/secure"
	"go.uber.org/zap"
)

// Alphabet is the 62-symbol code alphabet.
const Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// DefaultCodeLength is the length of link and puzzle codes.
const DefaultCodeLength = 8

// CodeDrawer draws one candidate code.
type CodeDrawer func() string

// NewCodeDrawer returns a drawer sampling each character uniformly from Alphabet.
func NewCodeDrawer(length int) (CodeDrawer, error) {
	draw, err := nanoid.CustomASCII(Alphabet, length)
	if err != nil {
		return nil, fmt.Errorf("code drawer: %w", err)
	}

	return CodeDrawer(draw), nil
}

// ExistenceChecker is the part of Repository the generator needs.
type ExistenceChecker interface {
	Exists(ctx context.Context, hashed HashedCode, puzzle Code) (bool, error)
}

// Generator draws codes that collide with no stored hashed link code
// and no stored puzzle code.
//
// The check and the later insert are not atomic: two concurrent callers can
// draw the same code and both see it as free.
type Generator struct {
	draw       CodeDrawer
	records    ExistenceChecker
	logger     *zap.Logger
	collisions atomic.Int64
}

// NewGenerator creates a generator backed by records.
func NewGenerator(draw CodeDrawer, records ExistenceChecker, logger *zap.Logger) *Generator {
	return &Generator{
		draw:    draw,
		records: records,
		logger:  logger,
	}
}

// Generate returns a free code and its digest. It retries until a free code is
// drawn; store errors and context cancellation end the loop.
func (g *Generator) Generate(ctx context.Context) (Code, HashedCode, error) {
	for {
		if err := ctx.Err(); err != nil {
			return "", "", err
		}

		code := Code(g.draw())
		hashed := Digest(code)

		exists, err := g.records.Exists(ctx, hashed, code)
		if err != nil {
			return "", "", fmt.Errorf("%w: existence check: %w", ErrStorage, err)
		}

		if !exists {
			return code, hashed, nil
		}

		total := g.collisions.Add(1)
		g.logger.Warn("code collision, drawing again", zap.Int64("collisions", total))
	}
}

// Collisions returns how many drawn codes were discarded so far.
func (g *Generator) Collisions() int64 {
	return g.collisions.Load()
}

// Digest hashes a link code for storage.
func Digest(code Code) HashedCode {
	return HashedCode(secure.Digest(string(code)))
}
