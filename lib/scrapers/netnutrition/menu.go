package netnutrition

import (
	"regexp"
	"strconv"
	"strings"

	"campusdining-backend/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

type MealRef struct {
	Id   int64  `json:"id"`
	Name string `json:"name"`
}

type MenuDay struct {
	Date  string    `json:"date"`
	Meals []MealRef `json:"meals"`
}

type MenuItem struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Calories    *float64 `json:"calories"`
	Allergens   []string `json:"allergens"`
}

// meal links carry their id only inside an onclick javascript call,
// there is no usable attribute
var menuOnclickRegex = regexp.MustCompile(`menuListSelectMenu\((\d+)\)`)

// parseMenuSchedule walks the unit fragment in document order: date
// header cells open a new day, meal links attach to the day opened
// last. meal links seen before any date header are dropped.
func parseMenuSchedule(fragment string) ([]MenuDay, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return nil, err
	}

	var days []MenuDay
	doc.Find(".cbo_nn_menuCellHeader, a.cbo_nn_menuLink").Each(func(_ int, sel *goquery.Selection) {
		if sel.HasClass("cbo_nn_menuCellHeader") {
			date := htmlutil.CleanText(sel.Text())
			if date == "" {
				return
			}
			days = append(days, MenuDay{Date: date})
			return
		}

		if len(days) == 0 {
			return
		}
		groups := menuOnclickRegex.FindStringSubmatch(sel.AttrOr("onclick", ""))
		if len(groups) < 2 {
			return
		}
		id, err := strconv.ParseInt(groups[1], 10, 64)
		if err != nil {
			return
		}

		current := &days[len(days)-1]
		current.Meals = append(current.Meals, MealRef{
			Id:   id,
			Name: htmlutil.CleanText(sel.Text()),
		})
	})

	return days, nil
}

func parseMenuItems(fragment string) ([]MenuItem, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return nil, err
	}

	var items []MenuItem
	doc.Find("tr.cbo_nn_itemPrimaryRow, tr.cbo_nn_itemAlternateRow").Each(func(_ int, row *goquery.Selection) {
		name := htmlutil.CleanText(row.Find("a.cbo_nn_itemHover").Text())
		if name == "" {
			return
		}

		item := MenuItem{
			Name:        name,
			Description: htmlutil.CleanText(row.Find("div.cbo_nn_itemDesc").Text()),
			Allergens:   []string{},
		}

		caloriesText := htmlutil.CleanText(row.Find("td.cbo_nn_itemColumnCalories").Text())
		if caloriesText != "" {
			calories, err := strconv.ParseFloat(caloriesText, 64)
			if err == nil {
				item.Calories = &calories
			}
		}

		row.Find("img.cbo_nn_allergenIcon").Each(func(_ int, img *goquery.Selection) {
			allergen := htmlutil.CleanText(img.AttrOr("alt", ""))
			if allergen != "" {
				item.Allergens = append(item.Allergens, allergen)
			}
		})

		items = append(items, item)
	})

	return items, nil
}
