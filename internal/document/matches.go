package document

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/eleven-am/routeshift/internal/domain"
)

const matchedRoutesSeparator = " , "

var matchHeader = []string{"project_id", "component", "config", "host", "matchedRoutes"}

func WriteMatches(w io.Writer, matches []domain.MatchResult) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(matchHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, m := range matches {
		row := []string{
			m.ProjectID,
			m.ComponentID,
			m.ConfigID,
			m.Hostname,
			strings.Join(m.MatchedCIDRs(), matchedRoutesSeparator),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write match for %s: %w", m.Hostname, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

func WriteMatchesFile(path string, matches []domain.MatchResult) error {
	return writeFile(path, func(w io.Writer) error {
		return WriteMatches(w, matches)
	})
}

// writeFile writes through a temporary file in the same directory and
// renames it into place, so a failed run never leaves a truncated document.
func writeFile(path string, write func(io.Writer) error) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod %s: %w", path, err)
	}
	if err := write(tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename %s: %w", path, err)
	}
	return nil
}
