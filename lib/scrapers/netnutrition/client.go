package netnutrition

import (
	"context"
	"fmt"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"time"

	"campusdining-backend/lib/telemetry"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel/codes"
)

var ErrNoSession = fmt.Errorf("session has not been bootstrapped")

const browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"

type ClientOptions struct {
	BaseUrl string
	// per-call timeout, defaults to 5s
	Timeout time.Duration
	// CSS marker classes the hours table encodes closed/open rows
	// with, defaulting to the portal's current ones
	ClosedMarkerClass string
	OpenMarkerClass   string
}

// Client talks to one NetNutrition-style portal deployment. the
// portal refuses data endpoints until a root GET has planted its
// session cookies, so every Client moves through two states:
// unbootstrapped, then session-active after Bootstrap succeeds.
//
// a Client is meant to live for a single facility fetch. sharing one
// across facilities would also share a cookie jar, and one jar going
// stale upstream would poison every fetch riding on it.
type Client struct {
	BaseUrl *url.URL
	Http    *resty.Client

	classifier   RowClassifier
	bootstrapped bool
}

func NewClient(opts ClientOptions) (*Client, error) {
	baseUrl, err := url.Parse(opts.BaseUrl)
	if err != nil {
		return nil, err
	}
	if opts.Timeout == 0 {
		opts.Timeout = time.Second * 5
	}

	client := resty.New()
	client.SetBaseURL(opts.BaseUrl)
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	client.SetCookieJar(jar)
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)

	client.SetHeader("user-agent", browserUserAgent)
	client.SetHeader("referer", opts.BaseUrl)
	client.SetHeader("origin", fmt.Sprintf("%s://%s", baseUrl.Scheme, baseUrl.Host))
	client.SetRedirectPolicy(resty.DomainCheckRedirectPolicy(baseUrl.Hostname()))
	client.SetTimeout(opts.Timeout)

	telemetry.InstrumentResty(client, "scrapers/netnutrition/http")

	c := &Client{
		BaseUrl:    baseUrl,
		Http:       client,
		classifier: NewMarkerClassifier(opts.ClosedMarkerClass, opts.OpenMarkerClass),
	}
	return c, nil
}

func (c *Client) Classifier() RowClassifier {
	return c.classifier
}

// Bootstrap issues the root GET that makes the portal hand out its
// session cookies. data calls made before this succeeds fail with
// ErrNoSession.
func (c *Client) Bootstrap(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "client:Bootstrap")
	defer span.End()

	res, err := c.Http.R().
		SetContext(ctx).
		Get("/")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch portal root")
		return err
	}
	if !res.IsSuccess() {
		err := fmt.Errorf("portal root returned status %d", res.StatusCode())
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	c.bootstrapped = true
	return nil
}

// postFragment makes the form-encoded AJAX POST the portal's data
// endpoints expect and hands back the raw fragment body.
func (c *Client) postFragment(ctx context.Context, endpoint string, form map[string]string) (string, error) {
	if !c.bootstrapped {
		return "", ErrNoSession
	}

	res, err := c.Http.R().
		SetContext(ctx).
		SetHeader("x-requested-with", "XMLHttpRequest").
		SetHeader("accept", "*/*").
		SetFormData(form).
		Post(endpoint)
	if err != nil {
		return "", err
	}
	if !res.IsSuccess() {
		return "", fmt.Errorf("%s returned status %d", endpoint, res.StatusCode())
	}

	body := res.String()
	if !strings.Contains(body, "<") {
		return "", fmt.Errorf("%s returned a non-markup body", endpoint)
	}
	return body, nil
}

// HoursOfOperationMarkup fetches the weekly hours table fragment for
// a facility, addressed by its external unit id.
func (c *Client) HoursOfOperationMarkup(ctx context.Context, unitOid int) (string, error) {
	ctx, span := tracer.Start(ctx, "client:HoursOfOperationMarkup")
	defer span.End()

	body, err := c.postFragment(ctx, "/Unit/GetHoursOfOperationMarkup", map[string]string{
		"unitOid": strconv.Itoa(unitOid),
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}
	return body, nil
}

// WeeklyHours fetches and parses the hours table in one step.
func (c *Client) WeeklyHours(ctx context.Context, unitOid int) (WeeklyHours, error) {
	fragment, err := c.HoursOfOperationMarkup(ctx, unitOid)
	if err != nil {
		return WeeklyHours{}, err
	}
	return ParseWeeklyHours(fragment, c.classifier)
}

// MenuSchedule fetches the multi-day meal schedule for a facility.
func (c *Client) MenuSchedule(ctx context.Context, unitOid int) ([]MenuDay, error) {
	ctx, span := tracer.Start(ctx, "client:MenuSchedule")
	defer span.End()

	body, err := c.postFragment(ctx, "/Unit/SelectUnitFromUnitsList", map[string]string{
		"unitOid": strconv.Itoa(unitOid),
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return parseMenuSchedule(body)
}

// MenuItems fetches the item list for one meal. the upstream list is
// returned as-is, duplicate suppression belongs to consumers.
func (c *Client) MenuItems(ctx context.Context, menuOid int64, unitOid int) ([]MenuItem, error) {
	ctx, span := tracer.Start(ctx, "client:MenuItems")
	defer span.End()

	body, err := c.postFragment(ctx, "/Menu/SelectMenu", map[string]string{
		"menuOid": strconv.FormatInt(menuOid, 10),
		"unitOid": strconv.Itoa(unitOid),
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return parseMenuItems(body)
}
