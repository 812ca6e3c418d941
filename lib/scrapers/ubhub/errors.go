package ubhub

import "errors"

var (
	// ErrTokenCookieMissing means a handshake response did not carry the
	// expected session cookie. The portal changed behavior, not the network.
	ErrTokenCookieMissing = errors.New("session token cookie not found in response")

	// ErrPaginationUnsupported is returned by PageIter.Next for every page
	// after the first. The portal's continuation requests for page 2+ are
	// not understood well enough to replay; see the note on Session.Pages.
	ErrPaginationUnsupported = errors.New("fetching result pages beyond the first is not supported")

	// ErrSessionAborted is returned once a page iterator has observed a
	// transport failure. The request sequence is order-sensitive, so the
	// only safe recovery is a fresh Authenticate.
	ErrSessionAborted = errors.New("session aborted by an earlier transport failure")

	// ErrMissingTag means no element with the synthesized widget id exists
	// in the page.
	ErrMissingTag = errors.New("widget id not present in page")

	// ErrUnknownHtmlFormat means the widget element exists but its markup
	// structure is not what the addressing scheme assumes.
	ErrUnknownHtmlFormat = errors.New("widget markup has an unexpected structure")

	// ErrUnknownElementFormat means the widget's text does not match the
	// known grammar. Always propagated, never coerced: it signals the
	// portal's markup drifted and continuing would fabricate data.
	ErrUnknownElementFormat = errors.New("widget text does not match the expected format")

	// ErrInvalidEncoding means the page payload is not decodable text.
	ErrInvalidEncoding = errors.New("page payload is not valid utf-8")
)
