// Package rules holds the merchant and category dictionaries the normalizer
// matches transaction descriptions against. Both tables are ordered lists and
// first match wins: "free mobile" must be tested before "free", so the tables
// are never represented as maps.
package rules

// MerchantRule maps a lowercase substring pattern to a canonical merchant
// display name.
type MerchantRule struct {
	Pattern string `yaml:"pattern"`
	Name    string `yaml:"name"`
}

// CategoryRule maps a category name to the lowercase substring patterns that
// select it.
type CategoryRule struct {
	Name     string   `yaml:"name"`
	Patterns []string `yaml:"patterns"`
}

// Table is the immutable dictionary set injected into the normalizer and the
// detector. Load one from YAML with Store.Load or use DefaultTable.
type Table struct {
	Merchants  []MerchantRule `yaml:"merchants"`
	Categories []CategoryRule `yaml:"categories"`

	// KnownSubscriptionMerchants is the allow-list granting a confidence
	// bonus during detection. Entries are canonical merchant names.
	KnownSubscriptionMerchants []string `yaml:"known_subscription_merchants"`
}

// IsKnownSubscriptionMerchant reports whether name is on the allow-list.
// Matching is exact on the canonical name.
func (t *Table) IsKnownSubscriptionMerchant(name string) bool {
	for _, m := range t.KnownSubscriptionMerchants {
		if m == name {
			return true
		}
	}
	return false
}

// DefaultTable returns the built-in French dictionary set.
func DefaultTable() Table {
	return Table{
		Merchants: []MerchantRule{
			{Pattern: "netflix", Name: "Netflix"},
			{Pattern: "spotify", Name: "Spotify"},
			{Pattern: "deezer", Name: "Deezer"},
			{Pattern: "amazon prime", Name: "Amazon Prime"},
			{Pattern: "prime video", Name: "Amazon Prime"},
			{Pattern: "disney", Name: "Disney+"},
			{Pattern: "canal+", Name: "Canal+"},
			{Pattern: "canal +", Name: "Canal+"},
			{Pattern: "canalplus", Name: "Canal+"},
			{Pattern: "youtube premium", Name: "YouTube Premium"},
			{Pattern: "apple.com/bill", Name: "Apple"},
			{Pattern: "itunes", Name: "Apple"},
			{Pattern: "ocs ", Name: "OCS"},
			// "free mobile" is more specific than "free" and must stay first.
			{Pattern: "free mobile", Name: "Free Mobile"},
			{Pattern: "free telecom", Name: "Free"},
			{Pattern: "free hautdebit", Name: "Free"},
			{Pattern: "sfr", Name: "SFR"},
			{Pattern: "bouygues tel", Name: "Bouygues Telecom"},
			{Pattern: "sosh", Name: "Sosh"},
			{Pattern: "orange sa", Name: "Orange"},
			{Pattern: "basic fit", Name: "Basic-Fit"},
			{Pattern: "basic-fit", Name: "Basic-Fit"},
			{Pattern: "fitness park", Name: "Fitness Park"},
			{Pattern: "neoness", Name: "Neoness"},
			{Pattern: "dropbox", Name: "Dropbox"},
			{Pattern: "ovh", Name: "OVH"},
			{Pattern: "microsoft 365", Name: "Microsoft 365"},
			{Pattern: "office 365", Name: "Microsoft 365"},
			{Pattern: "audible", Name: "Audible"},
			{Pattern: "le monde", Name: "Le Monde"},
			{Pattern: "mediapart", Name: "Mediapart"},
		},
		Categories: []CategoryRule{
			{Name: "groceries", Patterns: []string{
				"carrefour", "leclerc", "auchan", "intermarche", "intermarché",
				"lidl", "aldi", "monoprix", "franprix", "casino", "super u", "picard",
			}},
			{Name: "transport", Patterns: []string{
				"sncf", "ratp", "navigo", "uber", "blablacar", "total", "esso",
				"autoroute", "aprr", "vinci autoroutes",
			}},
			{Name: "restaurant", Patterns: []string{
				"restaurant", "mcdonald", "burger king", "kfc", "deliveroo",
				"uber eats", "brasserie", "bistrot",
			}},
			{Name: "health", Patterns: []string{
				"pharmacie", "docteur", "dr ", "mutuelle", "laboratoire", "dentiste",
				"optique",
			}},
			{Name: "housing", Patterns: []string{
				"loyer", "edf", "engie", "veolia", "suez", "gaz de france", "syndic",
			}},
			{Name: "insurance", Patterns: []string{
				"assurance", "assu ", "axa", "maif", "macif", "matmut", "gmf", "allianz",
			}},
			{Name: "telecom", Patterns: []string{
				"free", "sfr", "orange", "bouygues", "sosh",
			}},
			{Name: "entertainment", Patterns: []string{
				"cinema", "cinéma", "ugc", "pathe", "gaumont", "theatre", "concert",
			}},
			{Name: "shopping", Patterns: []string{
				"amazon", "fnac", "cdiscount", "darty", "zalando", "decathlon", "ikea",
			}},
		},
		KnownSubscriptionMerchants: []string{
			"Netflix", "Spotify", "Deezer", "Amazon Prime", "Disney+", "Canal+",
			"YouTube Premium", "Basic-Fit", "Free Mobile", "Free", "SFR",
			"Bouygues Telecom", "Sosh", "Orange", "Microsoft 365", "Dropbox",
		},
	}
}
