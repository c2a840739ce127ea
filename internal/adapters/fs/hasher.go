package fs

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/stencil/internal/core/domain"
	"go.trai.ch/stencil/internal/core/ports"
	"go.trai.ch/zerr"
)

var (
	_ ports.Fingerprinter = (*Hasher)(nil)
	_ ports.FileHasher    = (*Hasher)(nil)
)

// Hasher fingerprints compilation passes and hashes files on disk.
type Hasher struct{}

// NewHasher creates a new Hasher.
func NewHasher() *Hasher {
	return &Hasher{}
}

// ComputeFileHash computes the XXHash of a file's content.
func (h *Hasher) ComputeFileHash(path string) (uint64, error) {
	f, err := os.Open(path) //nolint:gosec // Path is controlled by caller
	if err != nil {
		return 0, zerr.With(zerr.Wrap(domain.ErrFileOpenFailed, err.Error()), "path", path)
	}
	defer f.Close() //nolint:errcheck // Best effort close in defer

	hasher := xxhash.New()
	if _, err := io.Copy(hasher, f); err != nil {
		return 0, zerr.With(zerr.Wrap(domain.ErrFileHashFailed, err.Error()), "path", path)
	}

	return hasher.Sum64(), nil
}

// Fingerprint computes the compilation hash of the pass.
//
// Every nested pass is hashed on its own and its hash is stored on it. Child hashes
// are sorted before they are folded into the parent, so the order in which children
// were gathered does not matter. The returned hash is also stored on the root pass.
func (h *Hasher) Fingerprint(compilation *domain.Compilation) (string, error) {
	if err := validate(compilation, 0); err != nil {
		return "", errors.Join(domain.ErrHashComputationFailed, err)
	}
	return h.fingerprintPass(compilation), nil
}

// fingerprintPass expects a validated pass.
func (h *Hasher) fingerprintPass(c *domain.Compilation) string {
	hasher := xxhash.New()

	_, _ = hasher.WriteString(c.Entry.String())
	_, _ = hasher.Write([]byte{0})

	_, _ = hasher.Write(c.Source)
	_, _ = hasher.Write([]byte{0})

	inputs := make([]string, 0, len(c.Inputs))
	for _, in := range c.Inputs {
		inputs = append(inputs, in.String())
	}
	slices.Sort(inputs)
	for _, in := range inputs {
		_, _ = hasher.WriteString(in)
		_, _ = hasher.Write([]byte{0})
	}
	_, _ = hasher.Write([]byte{0}) // Section separator

	children := make([]string, 0, len(c.Children))
	for _, child := range c.Children {
		children = append(children, h.fingerprintPass(child))
	}
	slices.Sort(children)
	for _, child := range children {
		_, _ = hasher.WriteString(child)
		_, _ = hasher.Write([]byte{0})
	}

	c.Hash = fmt.Sprintf("%016x", hasher.Sum64())
	return c.Hash
}

// maxDepth bounds nesting so that a self-referencing result cannot recurse forever.
const maxDepth = 64

func validate(c *domain.Compilation, depth int) error {
	if c == nil {
		return zerr.Wrap(domain.ErrMalformedCompilation, "nil compilation pass")
	}
	if depth > maxDepth {
		return zerr.With(zerr.Wrap(domain.ErrMalformedCompilation, "compilation nested too deeply"), "entry", c.Entry.String())
	}
	if c.Entry.IsZero() || c.Entry.String() == "" {
		return zerr.Wrap(domain.ErrMalformedCompilation, "compilation pass has no entry")
	}
	for _, child := range c.Children {
		if err := validate(child, depth+1); err != nil {
			return zerr.With(err, "parent", c.Entry.String())
		}
	}
	return nil
}
