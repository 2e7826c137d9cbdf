package specialist

import "github.com/Rrens/medical-agent/internal/domain"

// Directory is the static catalog of specialist personas, ordered by id
type Directory struct {
	list []domain.Specialist
	byID map[int]int
}

// CatalogEntry is the subset of a specialist shown to the triage model
type CatalogEntry struct {
	ID          int    `json:"id"`
	Specialist  string `json:"specialist"`
	Description string `json:"description"`
}

var defaultDirectory = New(catalog)

// Default returns the built-in directory
func Default() *Directory {
	return defaultDirectory
}

// New builds a directory from the given specialists, keeping their order
func New(specialists []domain.Specialist) *Directory {
	d := &Directory{
		list: make([]domain.Specialist, len(specialists)),
		byID: make(map[int]int, len(specialists)),
	}
	copy(d.list, specialists)
	for i, s := range d.list {
		d.byID[s.ID] = i
	}
	return d
}

// All returns a copy of every specialist in directory order
func (d *Directory) All() []domain.Specialist {
	out := make([]domain.Specialist, len(d.list))
	copy(out, d.list)
	return out
}

// Get looks up a specialist by id
func (d *Directory) Get(id int) (domain.Specialist, bool) {
	i, ok := d.byID[id]
	if !ok {
		return domain.Specialist{}, false
	}
	return d.list[i], true
}

// First returns the general-purpose fallback specialist
func (d *Directory) First() domain.Specialist {
	return d.list[0]
}

func (d *Directory) Len() int {
	return len(d.list)
}

// Catalog returns the prompt-facing view of the directory
func (d *Directory) Catalog() []CatalogEntry {
	out := make([]CatalogEntry, 0, len(d.list))
	for _, s := range d.list {
		out = append(out, CatalogEntry{ID: s.ID, Specialist: s.Name, Description: s.Description})
	}
	return out
}
