package normalize

// Reforge prefix vocabularies per listing category. These are closed sets:
// the upstream display names only ever carry one of these cosmetic prefixes,
// so a linear first-match scan is sufficient. List order is the tie-break
// when prefixes overlap and must not be reordered.
var (
	armorReforges = []string{
		"Clean", "Fierce", "Heavy", "Light", "Mythic", "Pure", "Smart", "Titanic", "Wise", "Ancient", "Bustling",
		"Candied", "Cubic", "Dimensional", "Empowered", "Festive", "Hyper", "Giant", "Jaded", "Mossy", "Necrotic",
		"Perfect", "Reinforced", "Renowned", "Spiked", "Submerged", "Undead", "Loving", "Ridiculous", "Greater Spook", "Calcified",
	}

	weaponReforges = []string{
		"Epic", "Fair", "Fast", "Gentle", "Heroic", "Legendary", "Odd", "Sharp", "Spicy", "Coldfused", "Dirty",
		"Fabled", "Gilded", "Suspicious", "Warped", "Withered", "Bulky", "Jerry's", "Fanged",
		"Awkward", "Deadly", "Fine", "Grand", "Hasty", "Neat", "Rapid", "Rich", "Unreal", "Headstrong",
		"Precise", "Spiritual",
	}

	miscReforges = []string{
		"Stained", "Menacing", "Hefty", "Soft", "Honored", "Blended", "Astute", "Colossal", "Brilliant", "Blazing",
		"Blooming", "Fortified", "Glistening", "Rooted", "Royal", "Snowy", "Strengthened", "Waxed", "Blood-Soaked",
		"Greater Spook", "Epic", "Fair", "Fast", "Gentle", "Heroic", "Legendary", "Odd", "Sharp", "Spicy", "Salty",
		"Treacherous", "Lucky", "Stiff", "Dirty", "Chomp", "Pitchin'", "Unyielding", "Prospector's", "Excellent",
		"Sturdy", "Fortunate", "Ambered", "Auspicious", "Fleet", "Glacial", "Heated", "Lustrous", "Magnetic",
		"Mithraic", "Refined", "Scraped", "Stellar", "Fruitful", "Great", "Rugged", "Lush", "Lumberjack's",
		"Double-Bit", "Moil", "Toil", "Blessed", "Earthy", "Robust", "Zooming", "Peasant's", "Green Thumb",
		"Blessed", "Bountiful", "Beady", "Buzzing",
	}
)

// overrides handles names that stack multiple modifiers: the catalog stores
// the base variant, so the combined form must map straight to it before any
// prefix stripping runs.
var overrides = map[string]string{
	"Very Wise Dragon Armor":             "Wise Dragon Armor",
	"Very Strong Dragon Armor":           "Strong Dragon Armor",
	"Highly Superior Dragon Armor":       "Superior Dragon Armor",
	"Extremely Heavy Armor":              "Heavy Armor",
	"Not So Light Armor":                 "Heavy Armor",
	"Thicc Heavy Armor":                  "Super Heavy Armor",
	"Absolutely Perfect Armor":           "Perfect Armor",
	"Even More Refined Mithril Pickaxe":  "Refined Mithril Pickaxe",
	"Even More Refined Titanium Pickaxe": "Refined Titanium Pickaxe",
	"Greater Greater Spook Armor":        "Great Spook Armor",
}

// petAliases corrects species names that the feed still lists under a
// historical label.
var petAliases = map[string]string{
	"Golden Dragon Egg": "Golden Dragon",
}

// decorativeRunes are the non-ASCII symbols the source display font uses for
// flair (stars, hearts, rarity markers). They survive sanitization because
// some catalog names include them.
var decorativeRunes = map[rune]bool{
	'™': true,
	'◆': true,
	'✧': true,
	'✎': true,
	'❤': true,
	'☘': true,
	'❂': true,
	'☠': true,
	'❁': true,
	'☂': true,
	'❈': true,
	'⸕': true,
	'༕': true,
	'Ⓑ': true,
	'©': true,
	'®': true,
	'⚚': true,
	'à': true,
}

// reforgesFor selects the prefix vocabulary for a (lower-cased) category.
// Anything that is neither armor nor weapon falls through to the misc list.
func reforgesFor(category string) []string {
	switch category {
	case "armor":
		return armorReforges
	case "weapon":
		return weaponReforges
	default:
		return miscReforges
	}
}
