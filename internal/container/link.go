package container

import (
	"github.com/samber/do"
	"github.com/serroba/puzzle-link/internal/events"
	"github.com/serroba/puzzle-link/internal/link"
	"github.com/serroba/puzzle-link/internal/messaging"
	"github.com/serroba/puzzle-link/internal/qr"
	"go.uber.org/zap"
)

// LinkPackage provides the QR encoder, the code generator and the link service.
func LinkPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*qr.Encoder, error) {
		options := do.MustInvoke[*Options](i)

		return qr.NewEncoder(qr.Level(options.QRLevel))
	})

	do.Provide(injector, func(i *do.Injector) (*link.Generator, error) {
		options := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)

		draw, err := link.NewCodeDrawer(options.CodeLength)
		if err != nil {
			return nil, err
		}

		return link.NewGenerator(draw, do.MustInvoke[link.Repository](i), logger), nil
	})

	do.Provide(injector, func(i *do.Injector) (*link.Service, error) {
		options := do.MustInvoke[*Options](i)

		return link.NewService(
			do.MustInvoke[link.Repository](i),
			do.MustInvoke[*link.Generator](i),
			do.MustInvoke[*qr.Encoder](i),
			options.BaseURL,
			do.MustInvoke[messaging.Publish[events.LinkCreatedEvent]](i),
			do.MustInvoke[*zap.Logger](i),
		), nil
	})
}
