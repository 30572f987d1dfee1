package repositories

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"guide-tracking-service/internal/domain"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed seeds/guides.json
var defaultSeeds []byte

const (
	seedDateLayout     = "2006-01-02"
	seedDateTimeLayout = "2006-01-02T15:04:05"
)

type HistorySeed struct {
	Status string `json:"status" yaml:"status"`
	At     string `json:"at" yaml:"at"`
}

type GuideSeed struct {
	ID           string        `json:"id" yaml:"id"`
	Origin       string        `json:"origin" yaml:"origin"`
	Destination  string        `json:"destination" yaml:"destination"`
	Recipient    string        `json:"recipient" yaml:"recipient"`
	CreationDate string        `json:"creation_date" yaml:"creation_date"`
	Status       string        `json:"status" yaml:"status"`
	History      []HistorySeed `json:"history" yaml:"history"`
}

// LoadSeeds reads seed guides from path, or the embedded defaults when path
// is empty. Files ending in .yaml/.yml are parsed as YAML, anything else as JSON.
// Local times in the file are interpreted in loc.
func LoadSeeds(path string, loc *time.Location) ([]domain.Guide, error) {
	data := defaultSeeds
	yamlFormat := false

	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("load seeds: read %q: %w", path, err)
		}
		data = b

		switch strings.ToLower(filepath.Ext(path)) {
		case ".yaml", ".yml":
			yamlFormat = true
		}
	}

	return ParseSeeds(data, yamlFormat, loc)
}

func ParseSeeds(data []byte, yamlFormat bool, loc *time.Location) ([]domain.Guide, error) {
	var seeds []GuideSeed
	if yamlFormat {
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&seeds); err != nil {
			return nil, fmt.Errorf("parse seeds: decode yaml: %w", err)
		}
	} else {
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&seeds); err != nil {
			return nil, fmt.Errorf("parse seeds: decode json: %w", err)
		}
	}

	guides := make([]domain.Guide, 0, len(seeds))
	seen := make(map[string]struct{}, len(seeds))
	for i, s := range seeds {
		g, err := s.toGuide(loc)
		if err != nil {
			return nil, fmt.Errorf("parse seeds: item #%d: %w", i+1, err)
		}
		if _, ok := seen[g.ID]; ok {
			return nil, fmt.Errorf("parse seeds: item #%d: %w", i+1, &domain.DuplicateIDError{ID: g.ID})
		}
		seen[g.ID] = struct{}{}
		guides = append(guides, g)
	}

	return guides, nil
}

func (s GuideSeed) toGuide(loc *time.Location) (domain.Guide, error) {
	g := domain.Guide{
		ID:          strings.TrimSpace(s.ID),
		Origin:      strings.TrimSpace(s.Origin),
		Destination: strings.TrimSpace(s.Destination),
		Recipient:   strings.TrimSpace(s.Recipient),
	}

	created, err := time.ParseInLocation(seedDateLayout, strings.TrimSpace(s.CreationDate), loc)
	if err != nil {
		return domain.Guide{}, fmt.Errorf("guide %q: creation_date: %w", g.ID, err)
	}
	g.CreationDate = created

	st, err := domain.ParseStatus(s.Status)
	if err != nil {
		return domain.Guide{}, fmt.Errorf("guide %q: %w", g.ID, err)
	}
	g.Status = st

	for j, h := range s.History {
		hs, err := domain.ParseStatus(h.Status)
		if err != nil {
			return domain.Guide{}, fmt.Errorf("guide %q: history #%d: %w", g.ID, j+1, err)
		}
		at, err := time.ParseInLocation(seedDateTimeLayout, strings.TrimSpace(h.At), loc)
		if err != nil {
			return domain.Guide{}, fmt.Errorf("guide %q: history #%d: %w", g.ID, j+1, err)
		}
		g.History = append(g.History, domain.HistoryEntry{Status: hs, At: at})
	}

	if len(g.History) == 0 {
		g.History = []domain.HistoryEntry{{Status: g.Status, At: created}}
	}

	if err := g.CheckInvariants(); err != nil {
		return domain.Guide{}, err
	}

	return g, nil
}
