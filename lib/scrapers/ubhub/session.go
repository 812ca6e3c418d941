package ubhub

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/codes"
)

// Query is the identifier triple a schedule fetch is parameterized on.
// All three values are opaque ids understood only by the portal.
type Query struct {
	Course   string
	Semester string
	Career   string
}

// Page is one raw results payload. Whoever holds it owns it; it is handed
// to the decoder, never shared.
type Page struct {
	// 1-based index in the fetch sequence
	Number int
	Body   []byte
}

// Session is an authenticated, primed connection to the portal. Requests
// made through it are strictly sequential; nothing about it is safe for
// concurrent use, and the protocol forbids concurrency anyway.
type Session struct {
	client *Client
	token  Token
}

// Pages returns an iterator over result pages for the query. Pages come
// back strictly in increasing order, one network round-trip per call.
//
// Only the first page is currently reachable: the portal's continuation
// requests for later pages are entangled with hidden form state that is
// not understood well enough to replay, so Next reports
// ErrPaginationUnsupported past page 1 instead of returning wrong data.
func (s *Session) Pages(query Query) *PageIter {
	return &PageIter{
		session: s,
		query:   query,
		next:    1,
	}
}

type PageIter struct {
	session *Session
	query   Query
	next    int
	err     error
}

// Next fetches the next page, suspending until the response body is fully
// buffered. A transport failure poisons the iterator: every later call
// reports ErrSessionAborted, because re-issuing requests mid-sequence
// desynchronizes the server-side cursor. Recovery means starting over at
// Authenticate.
func (it *PageIter) Next(ctx context.Context) (Page, error) {
	if it.err != nil {
		return Page{}, fmt.Errorf("%w: %w", ErrSessionAborted, it.err)
	}
	if it.next > 1 {
		return Page{}, ErrPaginationUnsupported
	}

	ctx, span := tracer.Start(ctx, "PageIter.Next")
	defer span.End()

	link := fmt.Sprintf(
		it.session.client.endpoints.ScheduleFormat,
		it.query.Course,
		it.query.Semester,
		it.query.Career,
	)
	res, err := it.session.client.http.R().
		SetContext(ctx).
		SetHeaderMultiValues(map[string][]string{
			"Cookie": {it.session.token.cookie, "HttpOnly", "Path=/"},
		}).
		Get(link)
	if err != nil {
		it.err = err
		span.SetStatus(codes.Error, "page fetch failed")
		return Page{}, fmt.Errorf("fetch page %d: %w", it.next, err)
	}

	page := Page{
		Number: it.next,
		Body:   res.Body(),
	}
	it.next++
	return page, nil
}
