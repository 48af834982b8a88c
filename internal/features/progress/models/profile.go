package models

// Avatar is the currently equipped cosmetic selection.
type Avatar struct {
	Color      string `json:"color"`
	Accessory  string `json:"accessory"`
	Background string `json:"background,omitempty"`
	Aura       string `json:"aura,omitempty"`
}

func (a Avatar) Get(category Category) string {
	switch category {
	case CategoryColor:
		return a.Color
	case CategoryAccessory:
		return a.Accessory
	case CategoryBackground:
		return a.Background
	case CategoryAura:
		return a.Aura
	}
	return ""
}

func (a *Avatar) Set(category Category, id string) {
	switch category {
	case CategoryColor:
		a.Color = id
	case CategoryAccessory:
		a.Accessory = id
	case CategoryBackground:
		a.Background = id
	case CategoryAura:
		a.Aura = id
	}
}

// Ownership records owned item ids per family, in acquisition order.
type Ownership map[Category][]string

func (o Ownership) Owns(category Category, id string) bool {
	for _, v := range o[category] {
		if v == id {
			return true
		}
	}
	return false
}

// Add marks id as owned and reports whether it was newly added.
func (o Ownership) Add(category Category, id string) bool {
	if o.Owns(category, id) {
		return false
	}
	o[category] = append(o[category], id)
	return true
}

func (o Ownership) Clone() Ownership {
	out := make(Ownership, len(o))
	for cat, ids := range o {
		out[cat] = append([]string(nil), ids...)
	}
	return out
}

// Profile is the persisted progress aggregate of one learner.
type Profile struct {
	Coins                  int             `json:"coins"`
	EarnedMinutes          int             `json:"earnedMinutes"`
	ReceivedFirstLevelTime bool            `json:"receivedFirstLevelTime"`
	UnlockedLevels         []LevelID       `json:"unlockedLevels"`
	LevelScores            map[LevelID]int `json:"levelScores"`
	// LevelRewards is the lifetime coin total granted per capped level.
	LevelRewards   map[LevelID]int `json:"levelRewards"`
	PurchasedItems Ownership       `json:"purchasedItems"`
	Avatar         Avatar          `json:"avatar"`
}

// NewProfile builds the state of a learner who has never played.
func NewProfile(order LevelOrder, catalog Catalog) Profile {
	p := Profile{
		UnlockedLevels: []LevelID{},
		LevelScores:    map[LevelID]int{},
		LevelRewards:   map[LevelID]int{},
		PurchasedItems: Ownership{},
		Avatar:         catalog.DefaultAvatar(),
	}
	if first := order.First(); first != "" {
		p.UnlockedLevels = append(p.UnlockedLevels, first)
	}
	p.OwnDefaults(catalog)
	return p
}

// OwnDefaults marks every catalog default as owned.
func (p *Profile) OwnDefaults(catalog Catalog) {
	if p.PurchasedItems == nil {
		p.PurchasedItems = Ownership{}
	}
	for _, cat := range Categories {
		if it, ok := catalog.Default(cat); ok {
			p.PurchasedItems.Add(cat, it.ID)
		}
	}
}

func (p Profile) IsUnlocked(level LevelID) bool {
	for _, l := range p.UnlockedLevels {
		if l == level {
			return true
		}
	}
	return false
}

// Clone returns a deep copy so callers never share maps with the store.
func (p Profile) Clone() Profile {
	out := p
	out.UnlockedLevels = append([]LevelID{}, p.UnlockedLevels...)
	out.LevelScores = make(map[LevelID]int, len(p.LevelScores))
	for k, v := range p.LevelScores {
		out.LevelScores[k] = v
	}
	out.LevelRewards = make(map[LevelID]int, len(p.LevelRewards))
	for k, v := range p.LevelRewards {
		out.LevelRewards[k] = v
	}
	out.PurchasedItems = p.PurchasedItems.Clone()
	return out
}

// Outcome describes the effect of one submitted level result.
type Outcome struct {
	Level        LevelID `json:"level"`
	Score        int     `json:"score"`
	Passed       bool    `json:"passed"`
	CoinsAwarded int     `json:"coinsAwarded"`
	BonusMinutes int     `json:"bonusMinutes"`
	PreviousBest int     `json:"previousBest"`
	NewBest      bool    `json:"newBest"`
	Unlocked     LevelID `json:"unlocked,omitempty"`
}

// PurchaseOutcome describes the effect of one purchase.
type PurchaseOutcome struct {
	Category Category `json:"category"`
	ItemID   string   `json:"itemId"`
	Cost     int      `json:"cost"`
	Balance  int      `json:"balance"`
	// AlreadyOwned is set when the item was equipped without a charge.
	AlreadyOwned bool `json:"alreadyOwned"`
}
