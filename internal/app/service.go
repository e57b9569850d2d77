// Package app holds the operations behind each screen: registration,
// login, account management and favorites. Every failure is logged with
// its detail and returned; callers show the user Message(op, err) instead.
package app

import (
	"context"
	"log/slog"

	"github.com/mesh-intelligence/capitals/pkg/types"
)

// Service runs screen operations against a store.
type Service struct {
	store types.Store
	log   *slog.Logger
}

// New returns a Service. A nil logger discards output.
func New(store types.Store, log *slog.Logger) *Service {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Service{store: store, log: log}
}

func (s *Service) fail(ctx context.Context, op Op, err error, args ...any) error {
	s.log.ErrorContext(ctx, string(op)+" failed", append(args, "err", err)...)
	return err
}
