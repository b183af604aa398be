// Package export turns shape descriptors into printable artifacts off the
// simulation goroutine.
package export

import (
	"context"
	"fmt"

	"github.com/Jinkieyz/lajfi/superformula"
)

// timestampLayout renders descriptor timestamps as YYYYmmdd_HHMMSS.
const timestampLayout = "20060102_150405"

// Renderer writes one descriptor to path.
type Renderer interface {
	Render(ctx context.Context, desc superformula.ShapeDescriptor, path string) error
}

// RenderFunc adapts a function to the Renderer interface.
type RenderFunc func(ctx context.Context, desc superformula.ShapeDescriptor, path string) error

func (f RenderFunc) Render(ctx context.Context, desc superformula.ShapeDescriptor, path string) error {
	return f(ctx, desc, path)
}

// ArtifactName returns the file name for a descriptor's artifact.
func ArtifactName(desc superformula.ShapeDescriptor) string {
	return fmt.Sprintf("lajfi_%s_gen%d_%s.stl", desc.Name, desc.Generation, desc.Timestamp.UTC().Format(timestampLayout))
}
