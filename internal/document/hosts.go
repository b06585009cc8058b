package document

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/eleven-am/routeshift/internal/domain"
)

const hostColumns = 4

// LoadHosts reads projectId, componentId, configId, hostname rows. The first
// row is a header and is skipped. Extra trailing columns are ignored. A row
// with an empty hostname is kept; the audit reports it as unresolvable.
func LoadHosts(r io.Reader) ([]domain.HostRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var hosts []domain.HostRecord
	header := true
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: hosts: %v", domain.ErrMalformedInputDocument, err)
		}
		if header {
			header = false
			continue
		}
		if isBlank(row) {
			continue
		}
		line, _ := reader.FieldPos(0)
		if len(row) < hostColumns {
			return nil, fmt.Errorf("%w: hosts line %d: expected %d columns, got %d", domain.ErrMalformedInputDocument, line, hostColumns, len(row))
		}
		host := domain.HostRecord{
			ProjectID:   strings.TrimSpace(row[0]),
			ComponentID: strings.TrimSpace(row[1]),
			ConfigID:    strings.TrimSpace(row[2]),
			Hostname:    strings.TrimSpace(row[3]),
		}
		hosts = append(hosts, host)
	}
	return hosts, nil
}

func LoadHostsFile(path string) ([]domain.HostRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open hosts file %s: %w", path, err)
	}
	defer f.Close()

	hosts, err := LoadHosts(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return hosts, nil
}

func isBlank(row []string) bool {
	for _, col := range row {
		if strings.TrimSpace(col) != "" {
			return false
		}
	}
	return true
}
