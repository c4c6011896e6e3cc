package repository

import (
	"sort"
	"strings"

	"FinScore/internal/domain/models"
	domrepo "FinScore/internal/domain/repository"
	"FinScore/pkg/config"
)

var _ domrepo.UniverseStore = (*ConfigUniverseStore)(nil)

// ConfigUniverseStore serves the universes declared in configuration.
type ConfigUniverseStore struct {
	byID map[string]models.Universe
	ids  []string
}

func NewConfigUniverseStore(universes map[string]config.UniverseConfig) *ConfigUniverseStore {
	s := &ConfigUniverseStore{byID: make(map[string]models.Universe, len(universes))}
	for id, u := range universes {
		symbols := make([]string, 0, len(u.Symbols))
		for _, sym := range u.Symbols {
			if sym = strings.ToUpper(strings.TrimSpace(sym)); sym != "" {
				symbols = append(symbols, sym)
			}
		}
		name := u.Name
		if name == "" {
			name = id
		}
		s.byID[id] = models.Universe{ID: id, Name: name, Symbols: symbols, Names: u.Names}
		s.ids = append(s.ids, id)
	}
	sort.Strings(s.ids)
	return s
}

func (s *ConfigUniverseStore) Universe(id string) (models.Universe, bool) {
	u, ok := s.byID[id]
	return u, ok
}

// Universes lists universes ordered by id.
func (s *ConfigUniverseStore) Universes() []models.Universe {
	out := make([]models.Universe, 0, len(s.ids))
	for _, id := range s.ids {
		out = append(out, s.byID[id])
	}
	return out
}
