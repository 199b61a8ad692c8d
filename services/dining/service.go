package dining

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"campusdining-backend/lib/scrapers/netnutrition"
	"campusdining-backend/lib/timezone"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("services/dining")

// Facility is one dining hall. ExternalUnitId is what the upstream
// portal is addressed by, Id is our own surrogate. the list is
// reference data loaded once from config at startup.
type Facility struct {
	Id             int    `json:"id"`
	Name           string `json:"name"`
	ExternalUnitId int    `json:"externalUnitId"`
}

type Options struct {
	Portal     netnutrition.ClientOptions
	Batch      BatchPolicy
	Facilities []Facility
	// Now is the clock used for open/closed evaluation, defaulting
	// to campus-local wall time. tests inject fixed times here.
	Now func() time.Time
}

type Service struct {
	portal     netnutrition.ClientOptions
	batch      BatchPolicy
	facilities []Facility
	now        func() time.Time
}

func NewService(opts Options) Service {
	if opts.Now == nil {
		opts.Now = timezone.Now
	}
	return Service{
		portal:     opts.Portal,
		batch:      opts.Batch,
		facilities: opts.Facilities,
		now:        opts.Now,
	}
}

func (s Service) Facilities() []Facility {
	return s.facilities
}

func (s Service) Facility(id int) (Facility, bool) {
	for _, f := range s.facilities {
		if f.Id == id {
			return f, true
		}
	}
	return Facility{}, false
}

// newSession builds a fresh single-facility client and walks it
// through the cookie bootstrap. every facility fetch gets its own
// session so one stale cookie jar cannot cascade across the batch.
func (s Service) newSession(ctx context.Context) (*netnutrition.Client, error) {
	client, err := netnutrition.NewClient(s.portal)
	if err != nil {
		return nil, err
	}
	err = client.Bootstrap(ctx)
	if err != nil {
		return nil, err
	}
	return client, nil
}

// HallStatus pairs a facility with its live availability.
type HallStatus struct {
	Facility
	netnutrition.AvailabilityStatus
}

// HallStatuses computes "is it open right now" for every known
// facility, paced by the batch policy. failures never abort the run:
// a facility that errors reports an indeterminate status and its
// siblings proceed. facilities skipped by a cancelled context come
// back indeterminate too, never as empty records.
func (s Service) HallStatuses(ctx context.Context) []HallStatus {
	ctx, span := tracer.Start(ctx, "HallStatuses")
	defer span.End()

	statuses, processed := RunBatched(ctx, s.batch, s.facilities, func(ctx context.Context, f Facility) HallStatus {
		return HallStatus{
			Facility:           f,
			AvailabilityStatus: s.fetchStatus(ctx, f),
		}
	})
	for i := processed; i < len(s.facilities); i++ {
		statuses[i] = HallStatus{
			Facility:           s.facilities[i],
			AvailabilityStatus: netnutrition.Indeterminate("cancelled"),
		}
	}
	return statuses
}

func (s Service) fetchStatus(ctx context.Context, f Facility) netnutrition.AvailabilityStatus {
	ctx, span := tracer.Start(ctx, "fetchStatus")
	defer span.End()

	client, err := s.newSession(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return netnutrition.Indeterminate(fmt.Sprintf("API error: %s", err))
	}

	week, err := client.WeeklyHours(ctx, f.ExternalUnitId)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		slog.WarnContext(ctx, "fetch hours", "facility", f.Name, "err", err)
		return netnutrition.Indeterminate(fmt.Sprintf("API error: %s", err))
	}

	return netnutrition.StatusForNow(week, s.now())
}

type HallMenu struct {
	Hall     string                 `json:"hall"`
	Schedule []netnutrition.MenuDay `json:"schedule"`
}

var ErrUnknownFacility = fmt.Errorf("unknown facility")

// HallMenu fetches the multi-day meal schedule for one facility,
// addressed by internal id.
func (s Service) HallMenu(ctx context.Context, id int) (HallMenu, error) {
	ctx, span := tracer.Start(ctx, "HallMenu")
	defer span.End()

	f, ok := s.Facility(id)
	if !ok {
		return HallMenu{}, ErrUnknownFacility
	}

	client, err := s.newSession(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return HallMenu{}, err
	}

	schedule, err := client.MenuSchedule(ctx, f.ExternalUnitId)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return HallMenu{}, err
	}

	return HallMenu{Hall: f.Name, Schedule: schedule}, nil
}

// MenuItems fetches the raw item list for one meal.
func (s Service) MenuItems(ctx context.Context, menuId int64, unitId int) ([]netnutrition.MenuItem, error) {
	ctx, span := tracer.Start(ctx, "MenuItems")
	defer span.End()

	client, err := s.newSession(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	items, err := client.MenuItems(ctx, menuId, unitId)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return items, nil
}
