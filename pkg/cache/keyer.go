package cache

import (
	"encoding/json"
	"strings"
)

// Keyer derives cache keys.
type Keyer interface {
	// LayoutKey keys a computed layout by the hash of the input text.
	LayoutKey(inputHash string, opts LayoutKeyOpts) string
	// ArtifactKey keys a rendered artifact by the hash of its layout.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// LayoutKeyOpts lists the options that change a layout.
type LayoutKeyOpts struct {
	VizType string  `json:"viz_type"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	Strict  bool    `json:"strict,omitempty"`
}

// ArtifactKeyOpts lists the options that change an artifact rendered from a
// given layout.
type ArtifactKeyOpts struct {
	Format string  `json:"format"`
	Scale  float64 `json:"scale,omitempty"`
}

// DefaultKeyer hashes every option into the key.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

func (DefaultKeyer) LayoutKey(inputHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", inputHash, opts)
}

func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}

// hashKey joins kind with the hash of the upstream content hash and the
// options that shape the entry. Keys read "layout:<hex>" or "artifact:<hex>".
func hashKey(kind, upstream string, opts any) string {
	var b strings.Builder
	b.WriteString(upstream)
	b.WriteByte(0)
	// Key option structs hold only strings, numbers and bools.
	optsJSON, _ := json.Marshal(opts)
	b.Write(optsJSON)
	return kind + ":" + Hash([]byte(b.String()))
}
