package dining

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"campusdining-backend/lib/scrapers/netnutrition"
	"campusdining-backend/lib/telemetry"
	"campusdining-backend/lib/timezone"

	"github.com/stretchr/testify/require"
)

const testHoursFixture = `<table>
<tr class="cbo_nn_openHours"><td>Monday</td><td>11:00 AM</td><td>9:00 PM</td></tr>
<tr class="cbo_nn_closedHours"><td>Tuesday</td></tr>
</table>`

const testScheduleFixture = `<table>
<tr><td class="cbo_nn_menuCellHeader">Monday, September 2, 2024</td></tr>
<tr><td><a class="cbo_nn_menuLink" onclick="menuListSelectMenu(901);">Breakfast</a></td></tr>
<tr><td><a class="cbo_nn_menuLink" onclick="menuListSelectMenu(902);">Lunch</a></td></tr>
</table>`

const testItemsFixture = `<table>
<tr class="cbo_nn_itemPrimaryRow">
<td><a class="cbo_nn_itemHover">Grilled Chicken</a></td>
<td class="cbo_nn_itemColumnCalories">250</td>
</tr>
<tr class="cbo_nn_itemAlternateRow">
<td><a class="cbo_nn_itemHover">Garden Salad</a></td>
</tr>
</table>`

// testPortal serves a NetNutrition-shaped portal where unit 20 is
// permanently broken.
func testPortal(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "ASP.NET_SessionId", Value: "feedface"})
		w.Write([]byte("<html></html>"))
	})
	mux.HandleFunc("/Unit/GetHoursOfOperationMarkup", func(w http.ResponseWriter, r *http.Request) {
		if r.PostFormValue("unitOid") == "20" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(testHoursFixture))
	})
	mux.HandleFunc("/Unit/SelectUnitFromUnitsList", func(w http.ResponseWriter, r *http.Request) {
		if r.PostFormValue("unitOid") == "20" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(testScheduleFixture))
	})
	mux.HandleFunc("/Menu/SelectMenu", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(testItemsFixture))
	})

	return httptest.NewServer(mux)
}

func testService(t *testing.T, portalUrl string) Service {
	t.Helper()
	return NewService(Options{
		Portal: netnutrition.ClientOptions{
			BaseUrl: portalUrl,
			Timeout: time.Second * 2,
		},
		Batch: BatchPolicy{Size: 5, Pause: time.Millisecond},
		Facilities: []Facility{
			{Id: 1, Name: "North Commons", ExternalUnitId: 10},
			{Id: 2, Name: "South Commons", ExternalUnitId: 20},
			{Id: 3, Name: "The Marketplace", ExternalUnitId: 30},
		},
		// 2024-09-02 is a Monday, 2 PM falls inside 11 AM - 9 PM
		Now: func() time.Time {
			return time.Date(2024, 9, 2, 14, 0, 0, 0, timezone.Location)
		},
	})
}

func TestHallStatuses(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:services/dining")
	defer cleanup()

	portal := testPortal(t)
	defer portal.Close()

	svc := testService(t, portal.URL)
	statuses := svc.HallStatuses(context.Background())
	require.Len(t, statuses, 3)

	byId := map[int]HallStatus{}
	for _, s := range statuses {
		byId[s.Id] = s
	}

	north := byId[1]
	require.NotNil(t, north.IsOpen)
	require.True(t, *north.IsOpen)
	require.Equal(t, "11:00 AM - 9:00 PM", north.Hours)

	// the broken facility degrades to indeterminate without touching
	// its siblings
	south := byId[2]
	require.Nil(t, south.IsOpen)
	require.Contains(t, south.Reason, "API error:")

	market := byId[3]
	require.NotNil(t, market.IsOpen)
	require.True(t, *market.IsOpen)
}

func TestHallStatusesPortalDown(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:services/dining")
	defer cleanup()

	// a portal that never answers within the per-call timeout
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(time.Second * 2)
	}))
	defer slow.Close()

	svc := NewService(Options{
		Portal: netnutrition.ClientOptions{
			BaseUrl: slow.URL,
			Timeout: time.Millisecond * 50,
		},
		Batch:      BatchPolicy{Size: 5, Pause: time.Millisecond},
		Facilities: []Facility{{Id: 1, Name: "North Commons", ExternalUnitId: 10}},
	})

	statuses := svc.HallStatuses(context.Background())
	require.Len(t, statuses, 1)
	require.Nil(t, statuses[0].IsOpen)
	require.Contains(t, statuses[0].Reason, "API error:")
}

func TestHallStatusesCancelledMidRun(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:services/dining")
	defer cleanup()

	ctx, cancel := context.WithCancel(context.Background())

	// the portal cancels the run as soon as the first batch reaches it
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html></html>"))
	})
	mux.HandleFunc("/Unit/GetHoursOfOperationMarkup", func(w http.ResponseWriter, r *http.Request) {
		cancel()
		w.Write([]byte(testHoursFixture))
	})
	portal := httptest.NewServer(mux)
	defer portal.Close()

	facilities := make([]Facility, 12)
	for i := range facilities {
		facilities[i] = Facility{
			Id:             i + 1,
			Name:           fmt.Sprintf("Hall %d", i+1),
			ExternalUnitId: 100 + i,
		}
	}

	svc := NewService(Options{
		Portal:     netnutrition.ClientOptions{BaseUrl: portal.URL, Timeout: time.Second * 2},
		Batch:      BatchPolicy{Size: 5, Pause: time.Second * 10},
		Facilities: facilities,
		Now: func() time.Time {
			return time.Date(2024, 9, 2, 14, 0, 0, 0, timezone.Location)
		},
	})

	statuses := svc.HallStatuses(ctx)
	require.Len(t, statuses, 12)

	// cancellation must never leave empty records behind: every entry
	// keeps its facility identity and carries a reason
	for _, s := range statuses {
		require.NotEmpty(t, s.Name)
		require.NotEmpty(t, s.Reason)
	}
	for _, s := range statuses[5:] {
		require.Nil(t, s.IsOpen)
		require.Equal(t, "cancelled", s.Reason)
	}
}

func TestHallMenu(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:services/dining")
	defer cleanup()

	portal := testPortal(t)
	defer portal.Close()

	svc := testService(t, portal.URL)

	menu, err := svc.HallMenu(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, "North Commons", menu.Hall)
	require.Len(t, menu.Schedule, 1)
	require.Equal(t, "Monday, September 2, 2024", menu.Schedule[0].Date)
	require.Len(t, menu.Schedule[0].Meals, 2)

	_, err = svc.HallMenu(context.Background(), 999)
	require.ErrorIs(t, err, ErrUnknownFacility)
}

func TestMenuItems(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:services/dining")
	defer cleanup()

	portal := testPortal(t)
	defer portal.Close()

	svc := testService(t, portal.URL)

	items, err := svc.MenuItems(context.Background(), 901, 10)
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.Equal(t, "Grilled Chicken", items[0].Name)
	require.NotNil(t, items[0].Calories)
	require.Equal(t, 250.0, *items[0].Calories)
	require.Nil(t, items[1].Calories)
}

func TestTwelveFacilitiesOneBroken(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:services/dining")
	defer cleanup()

	portal := testPortal(t)
	defer portal.Close()

	facilities := make([]Facility, 12)
	for i := range facilities {
		unit := 100 + i
		if i == 6 {
			unit = 20
		}
		facilities[i] = Facility{
			Id:             i + 1,
			Name:           fmt.Sprintf("Hall %d", i+1),
			ExternalUnitId: unit,
		}
	}

	svc := NewService(Options{
		Portal:     netnutrition.ClientOptions{BaseUrl: portal.URL, Timeout: time.Second * 2},
		Batch:      BatchPolicy{Size: 5, Pause: time.Millisecond},
		Facilities: facilities,
		Now: func() time.Time {
			return time.Date(2024, 9, 2, 14, 0, 0, 0, timezone.Location)
		},
	})

	require.Equal(t, 3, svc.batch.NumBatches(len(facilities)))

	statuses := svc.HallStatuses(context.Background())
	require.Len(t, statuses, 12)
	for _, s := range statuses {
		if s.Id == 7 {
			require.Nil(t, s.IsOpen)
			require.Contains(t, s.Reason, "API error:")
			continue
		}
		require.NotNil(t, s.IsOpen, "facility %d should have resolved", s.Id)
	}
}
