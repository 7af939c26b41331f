package actions

import "github.com/napolitain/nation-builder/internal/models"

// maxGreedyPurchases bounds BuyGreedy when a repeatable action costs nothing
const maxGreedyPurchases = 10000

// Cheapest returns the affordable action with the lowest next cost, or nil.
// Ties keep catalogue order so the choice is deterministic.
func Cheapest(s *models.GameState, b *models.Balance) Action {
	return cheapest(s, b, false)
}

func cheapest(s *models.GameState, b *models.Balance, skipRepeatable bool) Action {
	var best Action
	bestCost := 0.0
	for _, a := range Catalogue() {
		if skipRepeatable && isRepeatable(a) {
			continue
		}
		cost, ok := NextCost(s, b, a)
		if !ok || s.Resources.DP < cost {
			continue
		}
		if best == nil || cost < bestCost {
			best = a
			bestCost = cost
		}
	}
	return best
}

// BuyGreedy repeatedly buys the cheapest affordable action until nothing is affordable
// or limit purchases have been made (limit <= 0 means maxGreedyPurchases).
// With skipRepeatable, simple laws and treaties are never picked; otherwise a cheap
// repeatable law absorbs every DP.
func (r *Resolver) BuyGreedy(s *models.GameState, limit int, skipRepeatable bool) []Result {
	if limit <= 0 {
		limit = maxGreedyPurchases
	}
	var results []Result
	for len(results) < limit {
		a := cheapest(s, r.Balance, skipRepeatable)
		if a == nil {
			break
		}
		res := r.Do(s, a)
		if !res.Applied() {
			break
		}
		results = append(results, res)
	}
	return results
}

func isRepeatable(a Action) bool {
	switch a.(type) {
	case PassSimpleLaw, SignTreaty:
		return true
	}
	return false
}
