package ubhub

import (
	"context"
	"fmt"
	"net/http"
	"time"
	"ubsched/lib/telemetry"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel/codes"
)

const tokenCookieName = "psprd-8083-PORTAL-PSJSESSIONID"

// Endpoints holds the portal URLs the session protocol talks to. The query
// strings look redundant but the server keys session state off them; the
// parameter positions in ScheduleFormat must stay stable for the protocol
// to work.
type Endpoints struct {
	// two-step token handshake against the landing page
	TokenA string
	TokenB string
	// inert priming requests the server demands before the first data
	// request returns correct content
	PrimeA string
	PrimeB string
	// first results page; takes course id, semester id, career id
	ScheduleFormat string
}

var DefaultEndpoints = Endpoints{
	TokenA: "https://www.pub.hub.buffalo.edu/psc/csprdpub/EMPLOYEE/SA/c/NUI_FRAMEWORK.PT_LANDINGPAGE.GBL?tab=DEFAULT",
	TokenB: "https://www.pub.hub.buffalo.edu/psc/csprdpub/EMPLOYEE/SA/c/NUI_FRAMEWORK.PT_LANDINGPAGE.GBL?tab=DEFAULT&",
	PrimeA: "https://www.pub.hub.buffalo.edu/psc/csprdpub_1/EMPLOYEE/SA/c/SSR_STUDENT_FL.SSR_CLSRCH_MAIN_FL.GBL?Page=SSR_CLSRCH_MAIN_FL&pslnkid=CS_S201605302223124733554248&ICAJAXTrf=true&ICAJAX=1&ICMDTarget=start&ICPanelControlStyle=%20pst_side1-fixed%20pst_panel-mode%20",
	PrimeB: "https://www.pub.hub.buffalo.edu/psc/csprdpub_1/EMPLOYEE/SA/c/SSR_STUDENT_FL.SSR_CLSRCH_ES_FL.GBL?Page=SSR_CLSRCH_ES_FL&SEARCH_GROUP=SSR_CLASS_SEARCH_LFF&SEARCH_TEXT=gly%20105&ES_INST=UBFLO&ES_STRM=2231&ES_ADV=N&INVOKE_SEARCHAGAIN=PTSF_GBLSRCH_FLUID",
	ScheduleFormat: "https://www.pub.hub.buffalo.edu/psc/csprdpub_3/EMPLOYEE/SA/c/SSR_STUDENT_FL.SSR_CRSE_INFO_FL.GBL?Page=SSR_CRSE_INFO_FL&Page=SSR_CS_WRAP_FL&CRSE_OFFER_NBR=1&INSTITUTION=UBFLO&CRSE_ID=%s&STRM=%s&ACAD_CAREER=%s",
}

// Token is the opaque session credential extracted from the handshake.
// It is immutable, shared by every request of one session, and expires
// server-side at an unknown time; there is no renewal, an expired token
// surfaces as a failed fetch.
type Token struct {
	cookie string
}

func (t Token) IsZero() bool {
	return t.cookie == ""
}

type ClientOptions struct {
	// defaults to DefaultEndpoints when nil
	Endpoints *Endpoints
}

// Client owns the HTTP connection to the portal. Cookies are forwarded by
// hand rather than through a jar: the protocol cares about exactly one
// named cookie and anything else the server sets must not leak into later
// requests.
type Client struct {
	http      *resty.Client
	endpoints Endpoints
}

func NewClient(opts ClientOptions) *Client {
	endpoints := DefaultEndpoints
	if opts.Endpoints != nil {
		endpoints = *opts.Endpoints
	}

	client := resty.New()
	// no jar: the protocol forwards exactly one named cookie by hand, and
	// a jar would replay everything else the server sets
	client.SetCookieJar(nil)
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)
	client.SetHeader("user-agent", "ubsched")
	client.SetTimeout(time.Second * 30)
	// the handshake reads Set-Cookie off redirect responses themselves
	client.SetRedirectPolicy(resty.RedirectPolicyFunc(
		func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	))

	telemetry.InstrumentResty(client, "scrapers/ubhub/http")

	return &Client{
		http:      client,
		endpoints: endpoints,
	}
}

// Authenticate performs the two-step token handshake: GET the landing page,
// lift the session cookie out of the response headers, then GET it again
// forwarding that cookie and lift the final token the same way. Both steps
// must find the cookie by name; a step without it means the portal changed
// behavior and continuing is pointless.
func (c *Client) Authenticate(ctx context.Context) (Token, error) {
	ctx, span := tracer.Start(ctx, "Authenticate")
	defer span.End()

	res, err := c.http.R().
		SetContext(ctx).
		Get(c.endpoints.TokenA)
	if err != nil {
		span.SetStatus(codes.Error, "handshake step 1 failed")
		return Token{}, fmt.Errorf("handshake step 1: %w", err)
	}
	intermediate, err := tokenCookie(res)
	if err != nil {
		span.SetStatus(codes.Error, "handshake step 1 returned no token cookie")
		return Token{}, fmt.Errorf("handshake step 1: %w", err)
	}

	res, err = c.http.R().
		SetContext(ctx).
		SetHeader("Cookie", intermediate).
		Get(c.endpoints.TokenB)
	if err != nil {
		span.SetStatus(codes.Error, "handshake step 2 failed")
		return Token{}, fmt.Errorf("handshake step 2: %w", err)
	}
	final, err := tokenCookie(res)
	if err != nil {
		span.SetStatus(codes.Error, "handshake step 2 returned no token cookie")
		return Token{}, fmt.Errorf("handshake step 2: %w", err)
	}

	return Token{cookie: final}, nil
}

func tokenCookie(res *resty.Response) (string, error) {
	for _, cookie := range res.Cookies() {
		if cookie.Name == tokenCookieName {
			return fmt.Sprintf("%s=%s", cookie.Name, cookie.Value), nil
		}
	}
	return "", ErrTokenCookieMissing
}

// OpenSession issues the two priming requests that put the server-side
// session into a state where the substantive query returns correct
// content. Their response bodies carry nothing of value and are
// discarded. Skipping or reordering them yields stale or malformed pages,
// an observed server quirk rather than a documented contract.
func (c *Client) OpenSession(ctx context.Context, token Token) (*Session, error) {
	ctx, span := tracer.Start(ctx, "OpenSession")
	defer span.End()

	for i, link := range []string{c.endpoints.PrimeA, c.endpoints.PrimeB} {
		_, err := c.http.R().
			SetContext(ctx).
			SetHeader("Cookie", token.cookie).
			Get(link)
		if err != nil {
			span.SetStatus(codes.Error, "priming request failed")
			return nil, fmt.Errorf("priming request %d: %w", i+1, err)
		}
	}

	return &Session{
		client: c,
		token:  token,
	}, nil
}
