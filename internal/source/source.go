package source

import (
	"context"
	"github.com/litetable/litetable-sink/internal/translator"
)

// Handler receives change events in source order. A returned error stops the source.
type Handler func(ctx context.Context, event translator.ChangeEvent) error
