// Package pipeline runs the parse → plan → render pass shared by the CLI,
// the terminal form and the form server.
//
// # Architecture
//
// One pass consists of three stages:
//
//  1. Parse: read the node list into a [bdd.Diagram] plus diagnostics
//  2. Plan: lay the diagram out and fit the surface around it ([Plan])
//  3. Render: paint the frame onto one surface per requested format
//
// [Plan] and [Paint] are the pure core and take no context. [Runner] wraps
// them with caching, logging and observability hooks.
//
// # Surface growth
//
// A frame never shrinks the surface it was planned for. Callers that keep a
// surface across submissions thread [Result.Frame] Size into the next pass:
//
//	size := pipeline.DefaultSize
//	for text := range submissions {
//	    opts := pipeline.Options{Width: size.Width, Height: size.Height}
//	    res, err := runner.Execute(ctx, text, opts)
//	    if err != nil {
//	        return err
//	    }
//	    size = res.Frame.Size
//	}
package pipeline

import (
	"io"
	"math"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/bddview/pkg/bdd"
	"github.com/matzehuels/bddview/pkg/cache"
	errs "github.com/matzehuels/bddview/pkg/errors"
	"github.com/matzehuels/bddview/pkg/graph"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI, TUI, and Server
// =============================================================================

const (
	// DefaultWidth is the initial surface width.
	DefaultWidth = 800.0

	// DefaultHeight is the initial surface height.
	DefaultHeight = 600.0

	// DefaultScale is the PNG pixel density.
	DefaultScale = 1.0

	// Padding is kept around the drawing when the surface grows.
	Padding = 50.0
)

// DefaultSize is the surface size before any pass.
var DefaultSize = Size{Width: DefaultWidth, Height: DefaultHeight}

// DefaultVizType is the default visualization type.
const DefaultVizType = graph.VizTypeCanvas

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
	FormatDOT  = "dot"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatJSON: true,
	FormatDOT:  true,
}

// ValidVizTypes is the set of supported visualization types.
var ValidVizTypes = map[string]bool{
	graph.VizTypeCanvas:   true,
	graph.VizTypeGraphviz: true,
}

// =============================================================================
// Options - Pass Configuration
// =============================================================================

// Options contains all configuration for one pass.
// This struct supports JSON serialization for form submissions.
type Options struct {
	VizType string `json:"viz_type,omitempty"`

	// Width and Height are the surface size before the pass.
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`

	Formats []string `json:"formats,omitempty"`
	Scale   float64  `json:"scale,omitempty"`

	// Strict turns parser diagnostics into an INVALID_INPUT error instead of
	// drawing what could be recovered.
	Strict bool `json:"strict,omitempty"`

	// NoCache bypasses cache reads and writes.
	NoCache bool `json:"-"`

	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pass.
type Result struct {
	// Diagram is the parsed node sequence.
	Diagram *bdd.Diagram

	// Diagnostics lists parser findings followed by unreachable nodes.
	Diagnostics bdd.Diagnostics

	// Frame is the planned surface. Thread Frame.Size into the next pass.
	Frame Frame

	// Layout is the serialized frame.
	Layout graph.Layout

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pass statistics.
type Stats struct {
	Records    int
	Placed     int
	Edges      int
	ParseTime  time.Duration
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each stage.
type CacheInfo struct {
	LayoutHit bool // Whether the layout came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errs.New(errs.ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, png, pdf, json, dot)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateVizType checks that a visualization type is valid.
func ValidateVizType(vizType string) error {
	if !ValidVizTypes[vizType] {
		return errs.New(errs.ErrCodeInvalidVizType, "invalid viz_type: %q (must be one of: canvas, graphviz)", vizType)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults applies defaults and validates the options for a full
// pass. Calling it more than once has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetLayoutDefaults sets default values for planning.
func (o *Options) SetLayoutDefaults() {
	if o.VizType == "" {
		o.VizType = DefaultVizType
	}
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForLayout validates and sets defaults for planning.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	if !validDimension(o.Width) || !validDimension(o.Height) {
		return errs.New(errs.ErrCodeInvalidInput, "surface size must be a finite non-negative number: %gx%g", o.Width, o.Height)
	}
	return ValidateVizType(o.VizType)
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	o.SetRenderDefaults()
	if !validDimension(o.Scale) {
		return errs.New(errs.ErrCodeInvalidInput, "scale must be positive: %g", o.Scale)
	}
	return ValidateFormats(o.Formats)
}

// validDimension reports whether v is a usable size or scale. NaN fails the
// comparison.
func validDimension(v float64) bool {
	return v >= 0 && !math.IsInf(v, 0)
}

// Size returns the surface size the pass starts from.
func (o *Options) Size() Size {
	return Size{Width: o.Width, Height: o.Height}
}

// IsCanvas returns true if this is a canvas visualization.
func (o *Options) IsCanvas() bool {
	return o.VizType == "" || o.VizType == graph.VizTypeCanvas
}

// IsGraphviz returns true if this is a graphviz visualization.
func (o *Options) IsGraphviz() bool {
	return o.VizType == graph.VizTypeGraphviz
}

// LayoutKeyOpts returns cache key options for planning.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		VizType: o.VizType,
		Width:   o.Width,
		Height:  o.Height,
		Strict:  o.Strict,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	opts := cache.ArtifactKeyOpts{Format: format}
	if format == FormatPNG {
		opts.Scale = o.Scale
	}
	return opts
}
