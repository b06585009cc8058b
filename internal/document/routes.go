package document

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/eleven-am/routeshift/internal/cidr"
	"github.com/eleven-am/routeshift/internal/domain"
)

type routeRecord struct {
	DestinationCidrBlock *string `json:"DestinationCidrBlock"`
	NetworkInterfaceId   *string `json:"NetworkInterfaceId,omitempty"`
}

// LoadRoutes decodes a JSON array of route objects. Every element must
// carry a string DestinationCidrBlock holding a valid IPv4 CIDR; unknown
// fields are ignored.
func LoadRoutes(r io.Reader) ([]domain.Route, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: read routes: %v", domain.ErrMalformedInputDocument, err)
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '[' {
		return nil, fmt.Errorf("%w: routes document must be a JSON array", domain.ErrMalformedInputDocument)
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: decode routes: %v", domain.ErrMalformedInputDocument, err)
	}

	routes := make([]domain.Route, 0, len(raw))
	for i, item := range raw {
		route, err := decodeRoute(item)
		if err != nil {
			return nil, fmt.Errorf("%w: route %d: %w", domain.ErrMalformedInputDocument, i, err)
		}
		routes = append(routes, route)
	}
	return routes, nil
}

func decodeRoute(item json.RawMessage) (domain.Route, error) {
	if len(item) == 0 || item[0] != '{' {
		return domain.Route{}, fmt.Errorf("expected an object, got %s", truncate(item))
	}
	var rec routeRecord
	if err := json.Unmarshal(item, &rec); err != nil {
		return domain.Route{}, err
	}
	if rec.DestinationCidrBlock == nil {
		return domain.Route{}, fmt.Errorf("missing DestinationCidrBlock")
	}
	if _, err := cidr.ParsePrefix(*rec.DestinationCidrBlock); err != nil {
		return domain.Route{}, err
	}
	route := domain.Route{DestinationCIDR: *rec.DestinationCidrBlock}
	if rec.NetworkInterfaceId != nil {
		route.TargetInterfaceID = *rec.NetworkInterfaceId
	}
	return route, nil
}

func LoadRoutesFile(path string) ([]domain.Route, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open routes file %s: %w", path, err)
	}
	defer f.Close()

	routes, err := LoadRoutes(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return routes, nil
}

// WriteRoutes produces a document LoadRoutes accepts.
func WriteRoutes(w io.Writer, routes []domain.Route) error {
	records := make([]routeRecord, 0, len(routes))
	for _, r := range routes {
		rec := routeRecord{DestinationCidrBlock: stringPtr(r.DestinationCIDR)}
		if r.TargetInterfaceID != "" {
			rec.NetworkInterfaceId = stringPtr(r.TargetInterfaceID)
		}
		records = append(records, rec)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("encode routes: %w", err)
	}
	return nil
}

func WriteRoutesFile(path string, routes []domain.Route) error {
	return writeFile(path, func(w io.Writer) error {
		return WriteRoutes(w, routes)
	})
}

func stringPtr(s string) *string {
	return &s
}

func truncate(b []byte) string {
	const limit = 32
	if len(b) > limit {
		return string(b[:limit]) + "..."
	}
	return string(b)
}
