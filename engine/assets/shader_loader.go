package assets

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// ShaderDir is where LoadShader looks for GLSL sources.
var ShaderDir = filepath.Join("assets", "shaders")

// LoadShader reads a GLSL file from ShaderDir.
func LoadShader(name string) (string, error) {
	path := filepath.Join(ShaderDir, name)
	b, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Wrapf(err, "load shader %q", name)
	}
	if len(b) == 0 {
		return "", errors.Errorf("shader %q is empty", name)
	}
	return string(b), nil
}
