package normalize

import (
	"strings"

	"skyblock-prices/internal/catalog"
)

const (
	petPrefix      = "[Lvl "
	petPlaceholder = "{LVL}"
)

// Resolution is the outcome of resolving one raw listing name. Sanitized is
// always populated; callers record it when Resolved is false.
type Resolution struct {
	ID        string
	Sanitized string
	Resolved  bool
}

// Resolver maps noisy, human-entered listing names to catalog item ids.
type Resolver struct {
	catalog *catalog.Catalog
}

// NewResolver builds a Resolver over an immutable catalog.
func NewResolver(c *catalog.Catalog) *Resolver {
	return &Resolver{catalog: c}
}

// Resolve runs the normalization pipeline in fixed order: sanitize, exact
// override, pet templating, direct lookup, reforge stripping. Every step is
// total; a name no step can place simply comes back unresolved.
func (r *Resolver) Resolve(rawName, category string) Resolution {
	sanitized := Sanitize(rawName)
	res := Resolution{Sanitized: sanitized}

	if canonical, ok := overrides[sanitized]; ok {
		// Override targets are canonical by definition; no further steps.
		if id, ok := r.catalog.IDFor(canonical); ok {
			res.ID = id
			res.Resolved = true
		}
		return res
	}

	if templated, ok := templatePetName(sanitized); ok {
		// Pets resolve by template or not at all; stripping a reforge off
		// a pet name would corrupt the species.
		if id, ok := r.catalog.IDFor(templated); ok {
			res.ID = id
			res.Resolved = true
		}
		return res
	}

	if id, ok := r.catalog.IDFor(sanitized); ok {
		res.ID = id
		res.Resolved = true
		return res
	}

	if base, ok := stripReforge(sanitized, strings.ToLower(category)); ok {
		if id, ok := r.catalog.IDFor(base); ok {
			res.ID = id
			res.Resolved = true
		}
	}

	return res
}

// templatePetName matches the fixed grammar "[Lvl <digits>] <species>" and
// replaces the digit run with the catalog's level placeholder, producing one
// key per species instead of one per level. Matching is explicit rather than
// regex-based so the accepted shape stays auditable.
func templatePetName(name string) (string, bool) {
	if !strings.HasPrefix(name, petPrefix) {
		return "", false
	}

	rest := name[len(petPrefix):]
	digits := 0
	for digits < len(rest) && rest[digits] >= '0' && rest[digits] <= '9' {
		digits++
	}
	if digits == 0 {
		return "", false
	}

	rest = rest[digits:]
	if !strings.HasPrefix(rest, "] ") {
		return "", false
	}

	species := rest[len("] "):]
	if species == "" {
		return "", false
	}
	if alias, ok := petAliases[species]; ok {
		species = alias
	}

	return petPrefix + petPlaceholder + "] " + species, true
}

// stripReforge removes the first matching cosmetic prefix for the category.
// First match in list order wins; no longest-match rule is applied and no
// further prefixes are tried afterwards.
func stripReforge(name, category string) (string, bool) {
	for _, prefix := range reforgesFor(category) {
		if strings.HasPrefix(name, prefix+" ") {
			return name[len(prefix)+1:], true
		}
	}
	return "", false
}
