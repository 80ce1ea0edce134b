package link_test

import (
	"context"
	"errors"
	"image"
	"image/color"
	"strings"
	"sync"
	"testing"

	"github.com/makiuchi-d/gozxing"
	zxingqr "github.com/makiuchi-d/gozxing/qrcode"
	"github.com/serroba/puzzle-link/internal/events"
	"github.com/serroba/puzzle-link/internal/link"
	"github.com/serroba/puzzle-link/internal/messaging"
	"github.com/serroba/puzzle-link/internal/qr"
	"github.com/serroba/puzzle-link/internal/store"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testBaseURL = "ngrm.link"

var errBroken = errors.New("broken store")

// captureEncoder records every QR target it is asked to encode.
type captureEncoder struct {
	mu      sync.Mutex
	targets []string
	err     error
}

func (c *captureEncoder) Encode(content string) (qr.Payload, error) {
	if c.err != nil {
		return nil, c.err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.targets = append(c.targets, content)

	return qr.Payload{{1, 0}, {0, len(c.targets) % 2}}, nil
}

func (c *captureEncoder) lastCode(t *testing.T) link.Code {
	t.Helper()

	c.mu.Lock()
	defer c.mu.Unlock()

	require.NotEmpty(t, c.targets)

	target := c.targets[len(c.targets)-1]
	require.True(t, strings.HasPrefix(target, testBaseURL+"/#"), target)

	return link.Code(strings.TrimPrefix(target, testBaseURL+"/#"))
}

// scanCode reads a QR payload the way a phone camera would and returns the
// link code behind its target.
func scanCode(t *testing.T, payload qr.Payload) link.Code {
	t.Helper()

	const quiet, scale = 4, 4

	size := (len(payload) + 2*quiet) * scale
	img := image.NewGray(image.Rect(0, 0, size, size))

	for py := 0; py < size; py++ {
		for px := 0; px < size; px++ {
			shade := uint8(255)

			x, y := px/scale-quiet, py/scale-quiet
			if y >= 0 && y < len(payload) && x >= 0 && x < len(payload[y]) && payload[y][x] == 1 {
				shade = 0
			}

			img.SetGray(px, py, color.Gray{Y: shade})
		}
	}

	bitmap, err := gozxing.NewBinaryBitmapFromImage(img)
	require.NoError(t, err)

	result, err := zxingqr.NewQRCodeReader().Decode(bitmap, nil)
	require.NoError(t, err)

	target := result.GetText()
	require.True(t, strings.HasPrefix(target, testBaseURL+"/#"), target)

	return link.Code(strings.TrimPrefix(target, testBaseURL+"/#"))
}

// brokenRepository wraps a memory store and fails the configured calls.
type brokenRepository struct {
	*store.MemoryStore
	existsErr error
	insertErr error
	findErr   error
}

func (b *brokenRepository) Exists(ctx context.Context, hashed link.HashedCode, puzzle link.Code) (bool, error) {
	if b.existsErr != nil {
		return false, b.existsErr
	}

	return b.MemoryStore.Exists(ctx, hashed, puzzle)
}

func (b *brokenRepository) Insert(ctx context.Context, record *link.Record) error {
	if b.insertErr != nil {
		return b.insertErr
	}

	return b.MemoryStore.Insert(ctx, record)
}

func (b *brokenRepository) FindByHashedLinkCode(ctx context.Context, hashed link.HashedCode) (*link.Record, error) {
	if b.findErr != nil {
		return nil, b.findErr
	}

	return b.MemoryStore.FindByHashedLinkCode(ctx, hashed)
}

func (b *brokenRepository) FindByPuzzleCode(ctx context.Context, puzzle link.Code) (*link.Record, error) {
	if b.findErr != nil {
		return nil, b.findErr
	}

	return b.MemoryStore.FindByPuzzleCode(ctx, puzzle)
}

// sequenceDrawer hands out codes in order and repeats the last one.
func sequenceDrawer(codes ...string) link.CodeDrawer {
	var (
		mu   sync.Mutex
		next int
	)

	return func() string {
		mu.Lock()
		defer mu.Unlock()

		code := codes[next]
		if next < len(codes)-1 {
			next++
		}

		return code
	}
}

// eventRecorder collects published events.
type eventRecorder struct {
	mu     sync.Mutex
	events []*events.LinkCreatedEvent
	err    error
}

func (r *eventRecorder) publish() messaging.Publish[events.LinkCreatedEvent] {
	return func(_ context.Context, event *events.LinkCreatedEvent) error {
		r.mu.Lock()
		defer r.mu.Unlock()

		r.events = append(r.events, event)

		return r.err
	}
}

func newTestService(t *testing.T, repo link.Repository, encoder link.QREncoder, recorder *eventRecorder) *link.Service {
	t.Helper()

	draw, err := link.NewCodeDrawer(link.DefaultCodeLength)
	require.NoError(t, err)

	publish := messaging.NopPublish[events.LinkCreatedEvent]()
	if recorder != nil {
		publish = recorder.publish()
	}

	return link.NewService(
		repo,
		link.NewGenerator(draw, repo, zap.NewNop()),
		encoder,
		testBaseURL,
		publish,
		zap.NewNop(),
	)
}

func nopLogger() *zap.Logger {
	return zap.NewNop()
}
