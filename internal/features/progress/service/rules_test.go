package service

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vocab-progress-backend/internal/features/progress/models"
)

func freshProfile() models.Profile {
	return models.NewProfile(models.DefaultLevelOrder, models.DefaultCatalog)
}

func TestApplyResultFirstClear(t *testing.T) {
	policy := DefaultRewardPolicy()
	p := freshProfile()

	next, out, err := ApplyResult(p, policy, models.LevelFlashcards, 7)
	require.NoError(t, err)

	assert.Equal(t, 7, next.Coins)
	assert.Equal(t, 7, out.CoinsAwarded)
	assert.True(t, out.Passed)
	assert.True(t, out.NewBest)
	assert.Equal(t, models.LevelImageQuiz, out.Unlocked)
	assert.Equal(t, []models.LevelID{models.LevelFlashcards, models.LevelImageQuiz}, next.UnlockedLevels)
	assert.Equal(t, 10, next.EarnedMinutes)
	assert.True(t, next.ReceivedFirstLevelTime)

	// input untouched
	assert.Equal(t, 0, p.Coins)
	assert.Len(t, p.UnlockedLevels, 1)
}

func TestApplyResultFirstLevelCapHoldsAcrossSequences(t *testing.T) {
	policy := DefaultRewardPolicy()
	rng := rand.New(rand.NewSource(7))

	for run := 0; run < 50; run++ {
		p := freshProfile()
		for i := 0; i < 20; i++ {
			var err error
			p, _, err = ApplyResult(p, policy, models.LevelFlashcards, rng.Intn(15))
			require.NoError(t, err)
			require.LessOrEqual(t, p.Coins, DefaultFirstLevelCap)
		}
	}
}

func TestApplyResultCapTopsUpToCeiling(t *testing.T) {
	policy := DefaultRewardPolicy()
	p := freshProfile()

	p, out, err := ApplyResult(p, policy, models.LevelFlashcards, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, out.CoinsAwarded)

	p, out, err = ApplyResult(p, policy, models.LevelFlashcards, 3)
	require.NoError(t, err)
	assert.Equal(t, 0, out.CoinsAwarded)

	p, out, err = ApplyResult(p, policy, models.LevelFlashcards, 12)
	require.NoError(t, err)
	assert.Equal(t, 6, out.CoinsAwarded)
	assert.Equal(t, 10, p.Coins)
	assert.Equal(t, 10, p.LevelRewards[models.LevelFlashcards])
}

func TestApplyResultUncappedLevelPaysEveryRound(t *testing.T) {
	policy := DefaultRewardPolicy()
	p := freshProfile()

	p, _, err := ApplyResult(p, policy, models.LevelQuiz, 8)
	require.NoError(t, err)
	p, _, err = ApplyResult(p, policy, models.LevelQuiz, 3)
	require.NoError(t, err)

	assert.Equal(t, 11, p.Coins)
	assert.Empty(t, p.LevelRewards)
}

func TestApplyResultMultiplier(t *testing.T) {
	policy := DefaultRewardPolicy()
	policy.Multipliers[models.LevelWordInvaders] = 3

	next, out, err := ApplyResult(freshProfile(), policy, models.LevelWordInvaders, 4)
	require.NoError(t, err)
	assert.Equal(t, 12, out.CoinsAwarded)
	assert.Equal(t, 12, next.Coins)
	assert.Empty(t, out.Unlocked)
}

func TestApplyResultBestScoreRatchets(t *testing.T) {
	policy := DefaultRewardPolicy()
	p := freshProfile()

	for _, score := range []int{6, 9, 2, 9, 0} {
		var err error
		p, _, err = ApplyResult(p, policy, models.LevelSpelling, score)
		require.NoError(t, err)
	}
	assert.Equal(t, 9, p.LevelScores[models.LevelSpelling])
}

func TestApplyResultUnlockIsPermanent(t *testing.T) {
	policy := DefaultRewardPolicy()
	p := freshProfile()

	p, _, err := ApplyResult(p, policy, models.LevelFlashcards, 5)
	require.NoError(t, err)
	p, out, err := ApplyResult(p, policy, models.LevelFlashcards, 0)
	require.NoError(t, err)

	assert.False(t, out.Passed)
	assert.True(t, p.IsUnlocked(models.LevelImageQuiz))

	p, out, err = ApplyResult(p, policy, models.LevelFlashcards, 10)
	require.NoError(t, err)
	assert.Empty(t, out.Unlocked)
	assert.Len(t, p.UnlockedLevels, 2)
}

func TestApplyResultBelowThreshold(t *testing.T) {
	next, out, err := ApplyResult(freshProfile(), DefaultRewardPolicy(), models.LevelFlashcards, 4)
	require.NoError(t, err)

	assert.False(t, out.Passed)
	assert.Equal(t, 4, next.Coins)
	assert.Equal(t, 0, next.EarnedMinutes)
	assert.False(t, next.ReceivedFirstLevelTime)
	assert.Len(t, next.UnlockedLevels, 1)
}

func TestApplyResultBonusOnlyOnce(t *testing.T) {
	policy := DefaultRewardPolicy()
	p := freshProfile()

	p, _, err := ApplyResult(p, policy, models.LevelFlashcards, 6)
	require.NoError(t, err)
	p, out, err := ApplyResult(p, policy, models.LevelFlashcards, 8)
	require.NoError(t, err)

	assert.Equal(t, 0, out.BonusMinutes)
	assert.Equal(t, 10, p.EarnedMinutes)
}

func TestApplyResultLastLevelUnlocksNothing(t *testing.T) {
	next, out, err := ApplyResult(freshProfile(), DefaultRewardPolicy(), models.LevelWordInvaders, 10)
	require.NoError(t, err)
	assert.Empty(t, out.Unlocked)
	assert.Len(t, next.UnlockedLevels, 1)
}

func TestApplyResultRejects(t *testing.T) {
	policy := DefaultRewardPolicy()
	p := freshProfile()

	_, _, err := ApplyResult(p, policy, "HANGMAN", 3)
	assert.ErrorIs(t, err, ErrInvalidLevel)

	_, _, err = ApplyResult(p, policy, models.LevelQuiz, -1)
	assert.ErrorIs(t, err, ErrInvalidScore)

	_, _, err = ApplyResult(p, policy, models.LevelQuiz, policy.MaxScore+1)
	assert.ErrorIs(t, err, ErrInvalidScore)

	_, _, err = ApplyResult(p, policy, models.LevelMemory, math.MaxInt)
	assert.ErrorIs(t, err, ErrInvalidScore)
}

func TestApplyResultAcceptsMaxScore(t *testing.T) {
	policy := DefaultRewardPolicy()
	next, out, err := ApplyResult(freshProfile(), policy, models.LevelMemory, policy.MaxScore)
	require.NoError(t, err)
	assert.Equal(t, policy.MaxScore, out.CoinsAwarded)
	assert.Equal(t, policy.MaxScore, next.Coins)
}

func TestApplyResultTotalsSaturate(t *testing.T) {
	policy := DefaultRewardPolicy()
	policy.MaxScore = 0
	policy.Multipliers[models.LevelMemory] = 3

	p := freshProfile()
	p.Coins = math.MaxInt - 1

	next, _, err := ApplyResult(p, policy, models.LevelMemory, math.MaxInt)
	require.NoError(t, err)
	assert.Equal(t, math.MaxInt, next.Coins)

	next, _, err = ApplyResult(next, policy, models.LevelMemory, 1)
	require.NoError(t, err)
	assert.Equal(t, math.MaxInt, next.Coins)
	assert.GreaterOrEqual(t, next.Coins, 0)
}

func TestApplyPurchase(t *testing.T) {
	p := freshProfile()
	p.Coins = 25

	next, out, err := ApplyPurchase(p, models.CategoryAccessory, "🦸", 10)
	require.NoError(t, err)

	assert.Equal(t, 15, next.Coins)
	assert.Equal(t, 15, out.Balance)
	assert.Equal(t, "🦸", next.Avatar.Accessory)
	assert.True(t, next.PurchasedItems.Owns(models.CategoryAccessory, "🦸"))
	assert.False(t, p.PurchasedItems.Owns(models.CategoryAccessory, "🦸"))
}

func TestApplyPurchaseInsufficientFundsChangesNothing(t *testing.T) {
	p := freshProfile()
	p.Coins = 5
	before, err := Encode(p)
	require.NoError(t, err)

	next, _, err := ApplyPurchase(p, models.CategoryColor, "bg-sky-400", 20)
	assert.ErrorIs(t, err, ErrInsufficientFunds)

	after, err := Encode(next)
	require.NoError(t, err)
	assert.Equal(t, string(before), string(after))
}

func TestApplyPurchaseValidation(t *testing.T) {
	p := freshProfile()

	_, _, err := ApplyPurchase(p, "hat", "🎩", 0)
	assert.ErrorIs(t, err, ErrUnknownCategory)

	_, _, err = ApplyPurchase(p, models.CategoryAura, "", 0)
	assert.ErrorIs(t, err, ErrInvalidItem)

	_, _, err = ApplyPurchase(p, models.CategoryAura, "glow", -5)
	assert.ErrorIs(t, err, ErrInvalidCost)
}

func TestApplySelect(t *testing.T) {
	next, err := ApplySelect(freshProfile(), models.CategoryBackground, "bg-gradient-ocean")
	require.NoError(t, err)
	assert.Equal(t, "bg-gradient-ocean", next.Avatar.Background)

	_, err = ApplySelect(next, "shoes", "x")
	assert.ErrorIs(t, err, ErrUnknownCategory)
}
