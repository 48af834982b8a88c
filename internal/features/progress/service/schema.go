package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"vocab-progress-backend/internal/features/progress/models"
)

// CurrentSchemaVersion is written into every persisted document.
// Documents without a version field predate versioning and count as 0.
const CurrentSchemaVersion = 3

var errCorruptDocument = errors.New("corrupt profile document")

type document struct {
	Version int `json:"version"`
	models.Profile
}

// Encode serializes a profile as a current-version document.
func Encode(p models.Profile) ([]byte, error) {
	return json.Marshal(document{Version: CurrentSchemaVersion, Profile: p})
}

// DecodeReport tells the store what happened while reading a document.
type DecodeReport struct {
	FromVersion int
	Migrated    bool
	// Future is set when the document was written by a newer schema.
	Future bool
}

type migration func(doc map[string]any, c Codec)

// migrations[v] upgrades a version v document to v+1.
var migrations = []migration{
	migrateBackfillFields,
	migrateNestOwnership,
	migrateRewardLedger,
}

// Codec decodes and migrates documents against one policy and catalog.
type Codec struct {
	Policy  RewardPolicy
	Catalog models.Catalog
}

// Decode parses a stored document, migrating older schemas forward.
// Any error means the payload is unusable and the caller should start fresh.
func (c Codec) Decode(payload []byte) (models.Profile, DecodeReport, error) {
	var raw map[string]any
	if err := json.Unmarshal(payload, &raw); err != nil {
		return models.Profile{}, DecodeReport{}, fmt.Errorf("%w: %v", errCorruptDocument, err)
	}
	if raw == nil {
		return models.Profile{}, DecodeReport{}, fmt.Errorf("%w: empty document", errCorruptDocument)
	}

	version, err := versionOf(raw)
	if err != nil {
		return models.Profile{}, DecodeReport{}, err
	}
	report := DecodeReport{FromVersion: version}
	if report.FromVersion > CurrentSchemaVersion {
		report.Future = true
	}
	for v := report.FromVersion; v < CurrentSchemaVersion; v++ {
		migrations[v](raw, c)
		report.Migrated = true
	}

	upgraded, err := json.Marshal(raw)
	if err != nil {
		return models.Profile{}, report, fmt.Errorf("%w: %v", errCorruptDocument, err)
	}
	var doc document
	if err := json.Unmarshal(upgraded, &doc); err != nil {
		return models.Profile{}, report, fmt.Errorf("%w: %v", errCorruptDocument, err)
	}

	p := doc.Profile
	c.normalize(&p)
	return p, report, nil
}

func (c Codec) normalize(p *models.Profile) {
	if p.Coins < 0 {
		p.Coins = 0
	}
	if p.LevelScores == nil {
		p.LevelScores = map[models.LevelID]int{}
	}
	if p.LevelRewards == nil {
		p.LevelRewards = map[models.LevelID]int{}
	}
	if len(p.UnlockedLevels) == 0 {
		p.UnlockedLevels = []models.LevelID{}
		if first := c.Policy.Order.First(); first != "" {
			p.UnlockedLevels = append(p.UnlockedLevels, first)
		}
	}
	p.OwnDefaults(c.Catalog)
	// equipped items must be owned; anything else falls back to the family default
	for _, cat := range models.Categories {
		id := p.Avatar.Get(cat)
		if id != "" && p.PurchasedItems.Owns(cat, id) {
			continue
		}
		if it, ok := c.Catalog.Default(cat); ok {
			p.Avatar.Set(cat, it.ID)
		}
	}
}

// versionOf reads the schema version. A missing field means version 0.
func versionOf(doc map[string]any) (int, error) {
	raw, ok := doc["version"]
	if !ok || raw == nil {
		return 0, nil
	}
	v, ok := raw.(float64)
	if !ok || v < 0 || v > math.MaxInt32 || v != math.Trunc(v) {
		return 0, fmt.Errorf("%w: bad version %v", errCorruptDocument, raw)
	}
	return int(v), nil
}

// v0 -> v1: backfill fields added after the first release.
func migrateBackfillFields(doc map[string]any, c Codec) {
	setMissing(doc, "coins", float64(0))
	setMissing(doc, "earnedMinutes", float64(0))
	setMissing(doc, "receivedFirstLevelTime", false)
	if _, ok := doc["levelScores"].(map[string]any); !ok {
		doc["levelScores"] = map[string]any{}
	}
	if _, ok := doc["unlockedLevels"].([]any); !ok {
		unlocked := []any{}
		if first := c.Policy.Order.First(); first != "" {
			unlocked = append(unlocked, string(first))
		}
		doc["unlockedLevels"] = unlocked
	}

	avatar, ok := doc["avatar"].(map[string]any)
	if !ok {
		avatar = map[string]any{}
	}
	for _, cat := range models.Categories {
		if id, _ := avatar[string(cat)].(string); id != "" {
			continue
		}
		if it, ok := c.Catalog.Default(cat); ok {
			avatar[string(cat)] = it.ID
		}
	}
	doc["avatar"] = avatar

	items, ok := doc["purchasedItems"].(map[string]any)
	if !ok {
		items = map[string]any{}
		for _, cat := range []models.Category{models.CategoryAccessory, models.CategoryColor} {
			if id, _ := avatar[string(cat)].(string); id != "" {
				items[string(cat)+"-"+id] = true
			}
		}
	}
	for _, cat := range []models.Category{models.CategoryBackground, models.CategoryAura} {
		if id, _ := avatar[string(cat)].(string); id != "" {
			items[string(cat)+"-"+id] = true
		}
	}
	doc["purchasedItems"] = items
	doc["version"] = float64(1)
}

// v1 -> v2: "<category>-<id>": true keys become {category: [ids]}.
func migrateNestOwnership(doc map[string]any, _ Codec) {
	flat, _ := doc["purchasedItems"].(map[string]any)
	keys := make([]string, 0, len(flat))
	for k := range flat {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	nested := map[string]any{}
	for _, key := range keys {
		if owned, _ := flat[key].(bool); !owned {
			continue
		}
		cat, id, found := strings.Cut(key, "-")
		if !found || id == "" || !models.Category(cat).Valid() {
			continue
		}
		ids, _ := nested[cat].([]any)
		nested[cat] = append(ids, id)
	}
	doc["purchasedItems"] = nested
	doc["version"] = float64(2)
}

// v2 -> v3: capped levels get a granted-reward ledger. Before the ledger
// existed the granted total equalled min(best score, cap).
func migrateRewardLedger(doc map[string]any, c Codec) {
	if _, ok := doc["levelRewards"].(map[string]any); !ok {
		ledger := map[string]any{}
		scores, _ := doc["levelScores"].(map[string]any)
		for level, limit := range c.Policy.LifetimeCaps {
			best, _ := scores[string(level)].(float64)
			if best <= 0 {
				continue
			}
			ledger[string(level)] = min(best, float64(limit))
		}
		doc["levelRewards"] = ledger
	}
	doc["version"] = float64(3)
}

func setMissing(doc map[string]any, key string, value any) {
	if _, ok := doc[key]; !ok || doc[key] == nil {
		doc[key] = value
	}
}
