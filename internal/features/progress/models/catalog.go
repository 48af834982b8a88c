package models

// Category is one of the four cosmetic item families.
type Category string

const (
	CategoryColor      Category = "color"
	CategoryAccessory  Category = "accessory"
	CategoryBackground Category = "background"
	CategoryAura       Category = "aura"
)

// Categories lists the families in shop tab order.
var Categories = []Category{CategoryColor, CategoryAccessory, CategoryBackground, CategoryAura}

func (c Category) Valid() bool {
	switch c {
	case CategoryColor, CategoryAccessory, CategoryBackground, CategoryAura:
		return true
	}
	return false
}

// Item is a purchasable cosmetic.
type Item struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Cost int    `json:"cost"`
}

// Catalog maps every family to its items; the first zero-cost item of a family is its default.
type Catalog map[Category][]Item

// DefaultCatalog is the static shop inventory.
var DefaultCatalog = Catalog{
	CategoryColor: {
		{ID: "bg-amber-400", Name: "Sunny Gold", Cost: 0},
		{ID: "bg-sky-400", Name: "Original Blue", Cost: 20},
		{ID: "bg-pink-400", Name: "Soft Pink", Cost: 20},
		{ID: "bg-emerald-400", Name: "Fresh Green", Cost: 20},
		{ID: "bg-indigo-400", Name: "Magic Purple", Cost: 20},
		{ID: "bg-orange-500", Name: "Fire Orange", Cost: 30},
		{ID: "bg-rose-500", Name: "Strong Red", Cost: 40},
		{ID: "bg-violet-600", Name: "Deep Violet", Cost: 40},
		{ID: "bg-slate-800", Name: "Midnight", Cost: 50},
	},
	CategoryAccessory: {
		{ID: "⭐", Name: "Star", Cost: 0},
		{ID: "🦸", Name: "Hero", Cost: 10},
		{ID: "🍦", Name: "Ice Cream", Cost: 20},
		{ID: "🎩", Name: "Top Hat", Cost: 30},
		{ID: "🐱", Name: "Cat", Cost: 40},
		{ID: "🐼", Name: "Panda", Cost: 45},
		{ID: "🦊", Name: "Fox", Cost: 45},
		{ID: "👑", Name: "Crown", Cost: 50},
		{ID: "🚀", Name: "Rocket", Cost: 60},
		{ID: "🦁", Name: "Lion", Cost: 60},
		{ID: "🧚", Name: "Fairy", Cost: 70},
		{ID: "🦄", Name: "Unicorn", Cost: 80},
		{ID: "🐲", Name: "Dragon", Cost: 100},
	},
	CategoryBackground: {
		{ID: "bg-sky-50", Name: "Clear Sky", Cost: 0},
		{ID: "bg-gradient-sunset", Name: "Sunset", Cost: 30},
		{ID: "bg-gradient-ocean", Name: "Ocean", Cost: 30},
		{ID: "bg-gradient-forest", Name: "Forest", Cost: 40},
		{ID: "bg-gradient-space", Name: "Outer Space", Cost: 60},
	},
	CategoryAura: {
		{ID: "none", Name: "No Aura", Cost: 0},
		{ID: "sparkle", Name: "Sparkles", Cost: 40},
		{ID: "glow", Name: "Golden Glow", Cost: 60},
		{ID: "rainbow", Name: "Rainbow", Cost: 90},
		{ID: "fire", Name: "Fire Ring", Cost: 120},
	},
}

// Find looks up an item by family and id.
func (c Catalog) Find(category Category, id string) (Item, bool) {
	for _, it := range c[category] {
		if it.ID == id {
			return it, true
		}
	}
	return Item{}, false
}

// Default returns the zero-cost default of a family.
func (c Catalog) Default(category Category) (Item, bool) {
	for _, it := range c[category] {
		if it.Cost == 0 {
			return it, true
		}
	}
	return Item{}, false
}

// DefaultAvatar equips the default of every family.
func (c Catalog) DefaultAvatar() Avatar {
	var a Avatar
	for _, cat := range Categories {
		if it, ok := c.Default(cat); ok {
			a.Set(cat, it.ID)
		}
	}
	return a
}
