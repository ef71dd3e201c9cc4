package sink

import (
	"context"

	"github.com/matzehuels/bddview/pkg/render"
)

// RenderPDF converts the current contents of s to PDF.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(ctx context.Context, s *SVG) ([]byte, error) {
	return render.ToPDF(ctx, s.Bytes())
}
