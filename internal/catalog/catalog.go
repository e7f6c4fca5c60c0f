package catalog

import (
	"encoding/json"
	"fmt"
	"os"
)

// Entry is one catalog item as stored in items.json.
type Entry struct {
	Name string `json:"name"`
}

// Catalog is the immutable id↔name mapping loaded at startup. It is built
// once and passed to every component that needs it; nothing mutates it after
// Load returns.
type Catalog struct {
	nameToID map[string]string
	idToName map[string]string
}

// Load reads the catalog file and builds the lookup maps.
func Load(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	var entries map[string]Entry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	return New(entries), nil
}

// New builds a Catalog from decoded entries.
func New(entries map[string]Entry) *Catalog {
	c := &Catalog{
		nameToID: make(map[string]string, len(entries)),
		idToName: make(map[string]string, len(entries)),
	}
	for id, entry := range entries {
		c.nameToID[entry.Name] = id
		c.idToName[id] = entry.Name
	}
	return c
}

// IDFor resolves a display name to its item id.
func (c *Catalog) IDFor(name string) (string, bool) {
	id, ok := c.nameToID[name]
	return id, ok
}

// DisplayName returns the canonical label stored for an id.
func (c *Catalog) DisplayName(id string) (string, bool) {
	name, ok := c.idToName[id]
	return name, ok
}

// Has reports whether the id is a catalog member.
func (c *Catalog) Has(id string) bool {
	_, ok := c.idToName[id]
	return ok
}

// Len returns the number of catalog entries.
func (c *Catalog) Len() int {
	return len(c.idToName)
}

// Mapping returns a copy of the id→name table for diagnostics snapshots.
func (c *Catalog) Mapping() map[string]string {
	snapshot := make(map[string]string, len(c.idToName))
	for id, name := range c.idToName {
		snapshot[id] = name
	}
	return snapshot
}
