package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skyblock-prices/internal/catalog"
)

func testResolver() *Resolver {
	return NewResolver(catalog.New(map[string]catalog.Entry{
		"WISE_DRAGON_BOOTS":   {Name: "Wise Dragon Boots"},
		"WISE_DRAGON_ARMOR":   {Name: "Wise Dragon Armor"},
		"SUPER_HEAVY_ARMOR":   {Name: "Super Heavy Armor"},
		"HOOD_OF_THE_CROWN":   {Name: "Hood of the Crown"},
		"ASPECT_OF_THE_END":   {Name: "Aspect of the End"},
		"PET_WOLF":            {Name: "[Lvl {LVL}] Wolf"},
		"PET_GOLDEN_DRAGON":   {Name: "[Lvl {LVL}] Golden Dragon"},
		"FAIR_TRADE_CONTRACT": {Name: "Fair Trade Contract"},
	}))
}

func TestResolveDirectHit(t *testing.T) {
	res := testResolver().Resolve("Aspect of the End", "weapon")
	require.True(t, res.Resolved)
	assert.Equal(t, "ASPECT_OF_THE_END", res.ID)
	assert.Equal(t, "Aspect of the End", res.Sanitized)
}

func TestResolveOverrideBypassesStripping(t *testing.T) {
	// "Very Wise Dragon Armor" stacks two modifiers; the override maps it
	// straight to the base entry instead of stripping "Wise" off the front.
	res := testResolver().Resolve("Very Wise Dragon Armor", "armor")
	require.True(t, res.Resolved)
	assert.Equal(t, "WISE_DRAGON_ARMOR", res.ID)

	res = testResolver().Resolve("Thicc Heavy Armor", "armor")
	require.True(t, res.Resolved)
	assert.Equal(t, "SUPER_HEAVY_ARMOR", res.ID)
}

func TestResolvePetLevelInvariant(t *testing.T) {
	r := testResolver()

	low := r.Resolve("[Lvl 1] Wolf", "misc")
	high := r.Resolve("[Lvl 100] Wolf", "misc")
	require.True(t, low.Resolved)
	require.True(t, high.Resolved)
	assert.Equal(t, low.ID, high.ID)
	assert.Equal(t, "PET_WOLF", low.ID)
}

func TestResolvePetSpeciesAlias(t *testing.T) {
	r := testResolver()

	egg := r.Resolve("[Lvl 25] Golden Dragon Egg", "misc")
	hatched := r.Resolve("[Lvl 1] Golden Dragon", "misc")
	require.True(t, egg.Resolved)
	require.True(t, hatched.Resolved)
	assert.Equal(t, hatched.ID, egg.ID)
}

func TestResolveUnknownPetHasNoPrefixFallback(t *testing.T) {
	// "Fair" is a valid weapon reforge, but pet names never fall through to
	// prefix stripping.
	res := testResolver().Resolve("[Lvl 50] Fair Trade Contract", "weapon")
	assert.False(t, res.Resolved)
	assert.Equal(t, "[Lvl 50] Fair Trade Contract", res.Sanitized)
}

func TestResolveReforgeStripPerCategory(t *testing.T) {
	r := testResolver()

	res := r.Resolve("Mythic Hood of the Crown", "armor")
	require.True(t, res.Resolved)
	assert.Equal(t, "HOOD_OF_THE_CROWN", res.ID)

	res = r.Resolve("Legendary Aspect of the End", "weapon")
	require.True(t, res.Resolved)
	assert.Equal(t, "ASPECT_OF_THE_END", res.ID)

	// Unknown categories use the catch-all list.
	res = r.Resolve("Fair Trade Contract", "UNKNOWN")
	require.True(t, res.Resolved, "direct hit must win before stripping")
	assert.Equal(t, "FAIR_TRADE_CONTRACT", res.ID)
}

func TestResolveCategoryCaseInsensitive(t *testing.T) {
	res := testResolver().Resolve("Mythic Hood of the Crown", "ARMOR")
	require.True(t, res.Resolved)
	assert.Equal(t, "HOOD_OF_THE_CROWN", res.ID)
}

func TestResolveFirstMatchingPrefixWins(t *testing.T) {
	// Only the first list-order prefix is removed; if the remainder is not
	// a catalog entry the name stays unresolved rather than retrying.
	res := testResolver().Resolve("Wise Dragon Boots", "armor")
	require.True(t, res.Resolved, "direct hit before stripping")
	assert.Equal(t, "WISE_DRAGON_BOOTS", res.ID)

	res = testResolver().Resolve("Clean Wise Dragon Boots", "armor")
	require.True(t, res.Resolved)
	assert.Equal(t, "WISE_DRAGON_BOOTS", res.ID)
}

func TestResolveUnmatchedReportsSanitizedName(t *testing.T) {
	res := testResolver().Resolve("Totally Unknown Thing ✦", "misc")
	assert.False(t, res.Resolved)
	assert.Equal(t, "Totally Unknown Thing", res.Sanitized)
	assert.Empty(t, res.ID)
}

func TestResolveMalformedInputNeverPanics(t *testing.T) {
	r := testResolver()
	for _, input := range []string{"", "[Lvl ] Wolf", "[Lvl x] Wolf", "[Lvl 10]", "[Lvl 10] ", "☃☃☃"} {
		assert.NotPanics(t, func() { r.Resolve(input, "") })
	}
}
