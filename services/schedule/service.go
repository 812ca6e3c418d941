package schedule

import (
	"context"
	"errors"
	"fmt"
	"ubsched/lib/catalog"
	"ubsched/lib/scrapers/ubhub"
	"ubsched/lib/timezone"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("services/schedule")

// Query names what to fetch in catalog terms. The catalog resolves it to
// the portal's id triple; the career defaults to the one inferred from the
// course when left empty.
type Query struct {
	Course   catalog.Course
	Semester catalog.Semester
	Career   catalog.Career
}

func (q Query) resolve() (ubhub.Query, error) {
	career := q.Career
	if career.Id() == "" {
		inferred, ok := q.Course.Career()
		if !ok {
			return ubhub.Query{}, fmt.Errorf(
				"career is required for course id %q: no catalog mapping to infer it from",
				q.Course.Id(),
			)
		}
		career = inferred
	}
	return ubhub.Query{
		Course:   q.Course.Id(),
		Semester: q.Semester.Id(),
		Career:   career.Id(),
	}, nil
}

// Service fetches schedules through a fresh portal session per call and
// optionally persists the result.
type Service struct {
	client *ubhub.Client
	store  *Store
}

type ServiceOptions struct {
	Client *ubhub.Client
	// when nil, snapshots are not persisted
	Store *Store
}

func NewService(opts ServiceOptions) Service {
	client := opts.Client
	if client == nil {
		client = ubhub.NewClient(ubhub.ClientOptions{})
	}
	return Service{
		client: client,
		store:  opts.Store,
	}
}

// Fetch runs the full session protocol for the query and decodes every
// reachable page into one snapshot. The portal's pagination is not
// replayable, so the snapshot ends where the page sequence does; that is
// expected and not an error.
func (s Service) Fetch(ctx context.Context, query Query) (Snapshot, error) {
	ctx, span := tracer.Start(ctx, "Fetch")
	defer span.End()

	resolved, err := query.resolve()
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return Snapshot{}, err
	}
	span.SetAttributes(
		attribute.String("course", resolved.Course),
		attribute.String("semester", resolved.Semester),
		attribute.String("career", resolved.Career),
	)

	token, err := s.client.Authenticate(ctx)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return Snapshot{}, err
	}
	session, err := s.client.OpenSession(ctx, token)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return Snapshot{}, err
	}

	snapshot := Snapshot{
		Course:    resolved.Course,
		Semester:  resolved.Semester,
		Career:    resolved.Career,
		FetchedAt: timezone.Now(),
	}

	pages := session.Pages(resolved)
	for {
		page, err := pages.Next(ctx)
		if errors.Is(err, ubhub.ErrPaginationUnsupported) {
			break
		}
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
			return Snapshot{}, err
		}

		decoded, err := ubhub.NewClassSchedule(page)
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
			return Snapshot{}, err
		}
		if label, err := decoded.SemesterLabel(); err == nil {
			snapshot.SemesterLabel = label
		}
		snapshot.Groups = append(snapshot.Groups, DecodeGroups(decoded)...)
	}

	if s.store != nil {
		if err := s.store.Save(ctx, snapshot); err != nil {
			span.SetStatus(codes.Error, err.Error())
			return Snapshot{}, fmt.Errorf("persist snapshot: %w", err)
		}
	}
	return snapshot, nil
}
