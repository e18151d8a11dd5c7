// Package artifact escribe los artefactos exportados (PNG de QR) en el destino configurado.
package artifact

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jhoicas/lotetracker/internal/application/ports"
)

var _ ports.ArtifactSink = (*FSSink)(nil)

// FSSink escribe en un directorio local.
type FSSink struct {
	dir string
}

// NewFSSink crea el directorio si no existe.
func NewFSSink(dir string) (*FSSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("artefactos: crear %s: %w", dir, err)
	}
	return &FSSink{dir: dir}, nil
}

// Put escribe data en dir/name de forma atómica (archivo temporal + rename) y devuelve la ruta.
func (s *FSSink) Put(_ context.Context, name, _ string, data []byte) (string, error) {
	name, err := cleanName(name)
	if err != nil {
		return "", err
	}
	dst := filepath.Join(s.dir, name)
	tmp, err := os.CreateTemp(s.dir, ".tmp-"+name+"-*")
	if err != nil {
		return "", fmt.Errorf("artefactos: temporal: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return "", fmt.Errorf("artefactos: escribir %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("artefactos: cerrar %s: %w", name, err)
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		return "", fmt.Errorf("artefactos: mover %s: %w", name, err)
	}
	return dst, nil
}

// cleanName rechaza nombres que saldrían del directorio o del prefijo.
func cleanName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("artefactos: nombre inválido %q", name)
	}
	return name, nil
}
