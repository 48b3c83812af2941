package bump

import (
	"os"

	"github.com/cockroachdb/errors"
)

// LoadDefinition reads an API definition and its overlay files from disk.
func LoadDefinition(path string, overlayPaths []string) (Definition, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Definition{}, errors.Wrapf(err, "reading definition %s", path)
	}

	def := Definition{Path: path, Content: string(content)}
	for _, p := range overlayPaths {
		overlay, err := os.ReadFile(p)
		if err != nil {
			return Definition{}, errors.Wrapf(err, "reading overlay %s", p)
		}
		def.Overlays = append(def.Overlays, string(overlay))
	}
	return def, nil
}
