package dining

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"campusdining-backend/lib/scrapers/netnutrition"
	"campusdining-backend/lib/telemetry"

	"github.com/stretchr/testify/require"
)

func TestNormalizeDishName(t *testing.T) {
	require.Equal(t, "grilledchicken", NormalizeDishName("  Grilled  Chicken "))
	require.Equal(t, "", NormalizeDishName("   "))
}

func TestMatchDish(t *testing.T) {
	require.True(t, matchDish("chicken", "Grilled Chicken Breast"))
	require.True(t, matchDish("grilled chiken breast", "Grilled Chicken Breast"))
	require.False(t, matchDish("pizza", "Garden Salad"))
	require.False(t, matchDish("", "Garden Salad"))
}

func TestSearchDishes(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:services/dining")
	defer cleanup()

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html></html>"))
	})
	mux.HandleFunc("/Unit/SelectUnitFromUnitsList", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(testScheduleFixture))
	})
	mux.HandleFunc("/Menu/SelectMenu", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(testItemsFixture))
	})
	portal := httptest.NewServer(mux)
	defer portal.Close()

	svc := NewService(Options{
		Portal: netnutrition.ClientOptions{BaseUrl: portal.URL, Timeout: time.Second * 2},
		Batch:  BatchPolicy{Size: 5, Pause: time.Millisecond},
		Facilities: []Facility{
			{Id: 1, Name: "North Commons", ExternalUnitId: 10},
			{Id: 2, Name: "South Commons", ExternalUnitId: 30},
		},
	})

	hits := svc.SearchDishes(context.Background(), "grilled chicken")
	require.Len(t, hits, 1)
	require.Equal(t, "Grilled Chicken", hits[0].Name)
	// both halls serve it today, both meals repeat it, one hit total
	require.ElementsMatch(t, []string{"North Commons", "South Commons"}, hits[0].Halls)
	require.NotNil(t, hits[0].Calories)

	hits = svc.SearchDishes(context.Background(), "salad")
	require.Len(t, hits, 1)
	require.Equal(t, "Garden Salad", hits[0].Name)

	hits = svc.SearchDishes(context.Background(), "pizza")
	require.Empty(t, hits)
}
