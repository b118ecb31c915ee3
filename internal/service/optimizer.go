package service

import (
	"crypto/sha256"
	"encoding/hex"
	"maps"
	"math"
	"slices"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/guttosm/nutriplan-service/internal/domain/catalog"
	"github.com/guttosm/nutriplan-service/internal/domain/model"
	"github.com/guttosm/nutriplan-service/internal/logger"
	"github.com/guttosm/nutriplan-service/internal/metrics"
	"github.com/guttosm/nutriplan-service/internal/service/cache"
)

// Budget tips, in emission order.
const (
	TipUnderBudget     = "Excellent! You're well under budget. Consider adding more protein-rich foods like eggs, dal, or milk."
	TipGoodManagement  = "Good budget management! You have some room to add nutritious foods like fruits or vegetables."
	TipBudgetExceeded  = "Budget exceeded. Try substituting expensive items with cost-effective alternatives like seasonal vegetables."
	TipBoostProtein    = "Boost protein by combining rice with dal (complete protein) or adding affordable eggs to meals."
	TipIronAbsorption  = "Improve iron absorption by pairing iron-rich foods (spinach, jaggery) with vitamin C sources (tomatoes)."
	TipVitaminA        = "Include orange and green vegetables (carrots, spinach) - they're affordable and rich in vitamin A."
	TipCalcium         = "Strengthen bones with milk, leafy greens, or sesame seeds - all budget-friendly calcium sources."
	TipVitaminC        = "Add citrus fruits or tomatoes to boost vitamin C and help iron absorption."
	TipBulkStaples     = "Buy staples (rice, dal, oil) in bulk to reduce per-unit costs significantly."
	TipSeasonalVeg     = "Choose seasonal vegetables - they're 30-50% cheaper and at peak nutrition."
	TipDalTurmericRice = "Cook dal with turmeric and pair with rice for complete protein at low cost."
)

// Efficiency score weights. Protein and iron dominate because they are the
// scarce nutrients of budget diets.
const (
	weightCalories = 0.3
	weightProtein  = 8
	weightIron     = 50
	weightCalcium  = 0.5
	weightVitaminA = 2
	weightVitaminC = 3
)

// Optimizer builds weekly meal plans.
type Optimizer interface {
	// Optimize computes the plan for the input. It never fails.
	Optimize(input model.PlanInput) model.PlanResult
	// RankFoods orders foods by nutrition score per unit cost at the given prices.
	RankFoods(prices map[string]float64) []model.FoodScore
	// InvalidateCache drops cached plans.
	InvalidateCache()
}

// OptimizerOption configures an OptimizerService.
type OptimizerOption func(*OptimizerService)

// OptimizerService implements Optimizer over the static catalog.
type OptimizerService struct {
	cache cache.Cache
}

// NewOptimizer creates an OptimizerService with the given options.
func NewOptimizer(opts ...OptimizerOption) *OptimizerService {
	s := &OptimizerService{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// WithPlanCache caches plans in process with the given capacity and TTL.
func WithPlanCache(capacity int, ttl time.Duration) OptimizerOption {
	return func(s *OptimizerService) {
		if capacity > 0 {
			s.cache = NewShardedCache(capacity, ttl, 16)
		}
	}
}

// WithPlanCacheBackend injects a cache implementation, e.g. a shared Redis cache.
func WithPlanCacheBackend(c cache.Cache) OptimizerOption {
	return func(s *OptimizerService) {
		s.cache = c
	}
}

// Optimize implements Optimizer. Identical inputs give identical plans, so
// results are served from the cache when one is configured.
func (s *OptimizerService) Optimize(input model.PlanInput) model.PlanResult {
	start := time.Now()

	var key string
	if s.cache != nil {
		key = Fingerprint(input)
		if cached, ok := s.cache.Get(key); ok {
			metrics.RecordOptimization(time.Since(start), "cache")
			return cached.Clone()
		}
	}

	result := optimize(input)

	if s.cache != nil {
		s.cache.Set(key, result.Clone())
	}
	metrics.RecordOptimization(time.Since(start), "computed")
	metrics.RecordUtilization(result.Utilization())

	log := logger.Logger()
	log.Debug().
		Int("family_size", result.FamilySize).
		Float64("budget_used", result.TotalBudgetUsed).
		Float64("weekly_budget", input.WeeklyBudget).
		Int("shopping_lines", len(result.ShoppingList)).
		Msg("Meal plan optimized")

	return result
}

// RankFoods implements Optimizer.
func (s *OptimizerService) RankFoods(prices map[string]float64) []model.FoodScore {
	return RankFoods(prices)
}

// InvalidateCache implements Optimizer.
func (s *OptimizerService) InvalidateCache() {
	if s.cache != nil {
		s.cache.Clear()
	}
}

// Stop releases cache resources.
func (s *OptimizerService) Stop() {
	if s.cache != nil {
		s.cache.Stop()
	}
}

// Fingerprint is a stable cache key for an input. Member order is kept
// because it is observable in the result; price keys are sorted.
func Fingerprint(input model.PlanInput) string {
	var b strings.Builder
	for _, m := range input.FamilyMembers {
		b.WriteString(string(m.Type))
		b.WriteByte(':')
		b.WriteString(strconv.Itoa(m.Count))
		b.WriteByte(';')
	}
	b.WriteByte('|')
	b.WriteString(strconv.FormatFloat(input.WeeklyBudget, 'g', -1, 64))
	b.WriteByte('|')
	for _, id := range slices.Sorted(maps.Keys(input.FoodPrices)) {
		b.WriteString(id)
		b.WriteByte('=')
		b.WriteString(strconv.FormatFloat(input.FoodPrices[id], 'g', -1, 64))
		b.WriteByte(';')
	}
	b.WriteByte('|')
	b.WriteString(input.Currency)

	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}

// TotalRequirements returns the weekly nutrient needs of a family.
// Unknown member types and negative counts contribute nothing.
func TotalRequirements(members []model.FamilyMember) model.Nutrients {
	var total model.Nutrients
	for _, m := range members {
		daily, ok := catalog.DailyRequirement(m.Type)
		if !ok || m.Count <= 0 {
			continue
		}
		total = total.Add(daily.Scale(float64(m.Count * 7)))
	}
	return total
}

// EffectiveFoods overlays price overrides onto the reference table. An
// override applies when it is finite and not negative; zero is honored.
func EffectiveFoods(prices map[string]float64) []model.FoodItem {
	foods := catalog.Foods()
	for i := range foods {
		if p, ok := prices[foods[i].ID]; ok && validPrice(p) {
			foods[i].CostPer100g = p
		}
	}
	return foods
}

func validPrice(p float64) bool {
	return p >= 0 && !math.IsInf(p, 0) && !math.IsNaN(p)
}

// NutritionScore is the weighted nutrient sum of a food per 100 units.
func NutritionScore(n model.Nutrients) float64 {
	return n.Calories*weightCalories +
		n.Protein*weightProtein +
		n.Iron*weightIron +
		n.Calcium*weightCalcium +
		n.VitaminA*weightVitaminA +
		n.VitaminC*weightVitaminC
}

// RankFoods scores every food at the effective prices, best value first.
// Free foods get efficiency 0 rather than an infinite ratio.
func RankFoods(prices map[string]float64) []model.FoodScore {
	foods := EffectiveFoods(prices)
	scores := make([]model.FoodScore, len(foods))
	for i, f := range foods {
		score := NutritionScore(f.Nutrients)
		efficiency := 0.0
		if f.CostPer100g > 0 {
			efficiency = score / f.CostPer100g
		}
		scores[i] = model.FoodScore{
			FoodID:         f.ID,
			Name:           f.Name,
			Cost:           f.CostPer100g,
			NutritionScore: score,
			Efficiency:     efficiency,
		}
	}
	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].Efficiency > scores[j].Efficiency
	})
	return scores
}

type shoppingLine struct {
	name     string
	unit     string
	quantity float64
	unitCost float64
}

func optimize(input model.PlanInput) model.PlanResult {
	familySize := model.FamilySize(input.FamilyMembers)
	required := TotalRequirements(input.FamilyMembers)

	foods := EffectiveFoods(input.FoodPrices)
	byID := make(map[string]model.FoodItem, len(foods))
	byName := make(map[string]model.FoodItem, len(foods))
	for _, f := range foods {
		byID[f.ID] = f
		if _, seen := byName[f.Name]; !seen {
			byName[f.Name] = f
		}
	}

	displayNames := func(ids []string) []string {
		names := make([]string, len(ids))
		for i, id := range ids {
			if f, ok := byID[id]; ok {
				names[i] = f.Name
			} else {
				names[i] = id
			}
		}
		return names
	}

	templates := catalog.MealTemplates()
	mealPlans := make([]model.MealPlan, 0, len(catalog.Weekdays))
	var lines []*shoppingLine
	lineByName := make(map[string]*shoppingLine)

	for i, day := range catalog.Weekdays {
		tpl := templates[i%len(templates)]
		mealPlans = append(mealPlans, model.MealPlan{
			Day:       day,
			Breakfast: displayNames(tpl.Breakfast),
			Lunch:     displayNames(tpl.Lunch),
			Dinner:    displayNames(tpl.Dinner),
		})

		for _, id := range tpl.Slots() {
			f, ok := byID[id]
			if !ok {
				continue
			}
			base, ok := catalog.BaseQuantity(id)
			if !ok || base <= 0 {
				continue
			}
			line, ok := lineByName[f.Name]
			if !ok {
				line = &shoppingLine{name: f.Name, unit: f.Unit}
				lineByName[f.Name] = line
				lines = append(lines, line)
			}
			line.quantity += base * float64(familySize) / 1000
			line.unitCost = f.CostPer100g
		}
	}

	shoppingList := make([]model.ShoppingItem, len(lines))
	total := 0.0
	for i, line := range lines {
		item := model.ShoppingItem{
			Food:     line.name,
			Quantity: round2(line.quantity),
			Unit:     line.unit,
			Price:    round2(line.quantity * line.unitCost),
		}
		shoppingList[i] = item
		total += item.Price
	}

	coverage := Coverage(ActualNutrition(shoppingList, byName), required)

	return model.PlanResult{
		ShoppingList:      shoppingList,
		MealPlans:         mealPlans,
		NutritionCoverage: coverage,
		TotalBudgetUsed:   total,
		BudgetTips:        BudgetTips(total, input.WeeklyBudget, coverage),
		FamilySize:        familySize,
		FamilyMembers:     slices.Clone(input.FamilyMembers),
		WeeklyBudget:      input.WeeklyBudget,
		FoodPrices:        maps.Clone(input.FoodPrices),
		Currency:          input.Currency,
	}
}

// ActualNutrition totals the nutrients bought by a shopping list. Lines whose
// food name is not in byName are skipped.
func ActualNutrition(list []model.ShoppingItem, byName map[string]model.FoodItem) model.Nutrients {
	var total model.Nutrients
	for _, item := range list {
		f, ok := byName[item.Food]
		if !ok {
			continue
		}
		total = total.Add(f.Nutrients.Scale(item.Quantity * 1000 / 100))
	}
	return total
}

// Coverage converts totals into percentages of the requirement in [0, 100].
// A zero requirement yields 0.
func Coverage(actual, required model.Nutrients) model.NutritionCoverage {
	return model.NutritionCoverage{
		Calories: percentOf(actual.Calories, required.Calories),
		Protein:  percentOf(actual.Protein, required.Protein),
		Iron:     percentOf(actual.Iron, required.Iron),
		Calcium:  percentOf(actual.Calcium, required.Calcium),
		VitaminA: percentOf(actual.VitaminA, required.VitaminA),
		VitaminC: percentOf(actual.VitaminC, required.VitaminC),
	}
}

func percentOf(actual, required float64) float64 {
	if required <= 0 {
		return 0
	}
	pct := actual / required * 100
	if math.IsNaN(pct) || pct < 0 {
		return 0
	}
	return math.Min(pct, 100)
}

// BudgetTips selects the advisory tips for a plan. Every matching rule adds
// its tip; the last three tips are always present.
func BudgetTips(budgetUsed, weeklyBudget float64, coverage model.NutritionCoverage) []string {
	tips := make([]string, 0, 11)
	utilization := model.BudgetUtilization(budgetUsed, weeklyBudget)

	if utilization < 0.7 {
		tips = append(tips, TipUnderBudget)
	}
	if utilization >= 0.7 && utilization < 0.9 {
		tips = append(tips, TipGoodManagement)
	}
	if utilization > 1.0 {
		tips = append(tips, TipBudgetExceeded)
	}
	if coverage.Protein < 80 {
		tips = append(tips, TipBoostProtein)
	}
	if coverage.Iron < 70 {
		tips = append(tips, TipIronAbsorption)
	}
	if coverage.VitaminA < 60 {
		tips = append(tips, TipVitaminA)
	}
	if coverage.Calcium < 70 {
		tips = append(tips, TipCalcium)
	}
	if coverage.VitaminC < 60 {
		tips = append(tips, TipVitaminC)
	}

	return append(tips, TipBulkStaples, TipSeasonalVeg, TipDalTurmericRice)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
