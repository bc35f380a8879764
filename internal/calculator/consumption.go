package calculator

// Dish is a priced line on the bill. Non-positive prices do not contribute.
type Dish struct {
	ID    string
	Price float64
}

// RatioMatrix maps person ID -> dish ID -> units consumed.
// Missing entries and non-positive units count as zero.
type RatioMatrix map[string]map[string]int

// Units returns how many units of a dish a person consumed, clamped at zero.
func (m RatioMatrix) Units(personID, dishID string) int {
	units := m[personID][dishID]
	if units < 0 {
		return 0
	}
	return units
}

// AllocateConsumption divides each dish price among the people who ate it,
// proportionally to their ratio units. It returns each person's raw
// consumption and the total bill price.
//
// Dishes with price <= 0 are skipped entirely. A priced dish nobody ate still
// counts toward the total but is charged to no one.
func AllocateConsumption(people []string, dishes []Dish, ratios RatioMatrix) (map[string]float64, float64) {
	consumption := make(map[string]float64, len(people))
	if len(people) == 0 {
		return consumption, 0
	}
	for _, id := range people {
		consumption[id] = 0
	}

	total := 0.0
	for _, dish := range dishes {
		if dish.Price <= 0 {
			continue
		}
		total += dish.Price

		totalUnits := 0
		for _, id := range people {
			totalUnits += ratios.Units(id, dish.ID)
		}
		if totalUnits == 0 {
			continue
		}

		unitPrice := dish.Price / float64(totalUnits)
		for _, id := range people {
			if units := ratios.Units(id, dish.ID); units > 0 {
				consumption[id] += unitPrice * float64(units)
			}
		}
	}

	return consumption, total
}
