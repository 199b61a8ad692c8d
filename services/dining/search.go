package dining

import (
	"context"
	"log/slog"
	"regexp"
	"strings"

	"campusdining-backend/lib/scrapers/netnutrition"

	"github.com/antzucaro/matchr"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

func NormalizeDishName(name string) string {
	name = strings.ToLower(name)
	name = strings.Trim(name, " \n\t")
	name = whitespaceRegex.ReplaceAllString(name, "")
	return name
}

// matchDish accepts substring hits and near-misses within two edits,
// enough to forgive "chiken" without matching everything.
func matchDish(query, name string) bool {
	query = NormalizeDishName(query)
	name = NormalizeDishName(name)
	if query == "" {
		return false
	}
	if strings.Contains(name, query) {
		return true
	}
	return matchr.DamerauLevenshtein(query, name) <= 2
}

// DishHit is one dish aggregated across every hall serving it today.
type DishHit struct {
	Name      string   `json:"name"`
	Halls     []string `json:"halls"`
	Calories  *float64 `json:"calories"`
	Allergens []string `json:"allergens"`
}

type hallItems struct {
	hall  string
	items []netnutrition.MenuItem
}

// SearchDishes looks a dish up across today's menus of every
// facility. the fetch is paced by the same batch policy as status
// polling, and duplicate item names (the portal repeats dishes across
// stations) collapse into a single hit here, on the consumer side.
func (s Service) SearchDishes(ctx context.Context, query string) []DishHit {
	ctx, span := tracer.Start(ctx, "SearchDishes")
	defer span.End()

	perHall, processed := RunBatched(ctx, s.batch, s.facilities, func(ctx context.Context, f Facility) hallItems {
		client, err := s.newSession(ctx)
		if err != nil {
			slog.WarnContext(ctx, "dish search session", "facility", f.Name, "err", err)
			return hallItems{hall: f.Name}
		}

		schedule, err := client.MenuSchedule(ctx, f.ExternalUnitId)
		if err != nil || len(schedule) == 0 {
			return hallItems{hall: f.Name}
		}

		var items []netnutrition.MenuItem
		for _, meal := range schedule[0].Meals {
			mealItems, err := client.MenuItems(ctx, meal.Id, f.ExternalUnitId)
			if err != nil {
				slog.WarnContext(ctx, "dish search items", "facility", f.Name, "meal", meal.Name, "err", err)
				continue
			}
			items = append(items, mealItems...)
		}
		return hallItems{hall: f.Name, items: items}
	})
	// facilities skipped by a cancelled context simply contribute no
	// items, the hall name is kept for symmetry with processed entries
	for i := processed; i < len(s.facilities); i++ {
		perHall[i] = hallItems{hall: s.facilities[i].Name}
	}

	hitsByName := map[string]*DishHit{}
	var order []string

	for _, hall := range perHall {
		for _, item := range hall.items {
			if !matchDish(query, item.Name) {
				continue
			}

			key := NormalizeDishName(item.Name)
			hit, seen := hitsByName[key]
			if !seen {
				hit = &DishHit{
					Name:      item.Name,
					Calories:  item.Calories,
					Allergens: item.Allergens,
				}
				hitsByName[key] = hit
				order = append(order, key)
			}

			alreadyListed := false
			for _, h := range hit.Halls {
				if h == hall.hall {
					alreadyListed = true
					break
				}
			}
			if !alreadyListed {
				hit.Halls = append(hit.Halls, hall.hall)
			}
		}
	}

	hits := make([]DishHit, len(order))
	for i, key := range order {
		hits[i] = *hitsByName[key]
	}
	return hits
}
