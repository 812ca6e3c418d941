package ubhub

import (
	"ubsched/lib/restyutil"

	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("scrapers/ubhub")

// SetInstrumentOutput dumps every raw HTTP exchange this client makes to
// the given output. Invaluable when the portal starts answering the
// order-sensitive sequence with garbage.
func (c *Client) SetInstrumentOutput(out restyutil.InstrumentOutput) {
	restyutil.InstrumentClient(c.http, tracer, out)
}
