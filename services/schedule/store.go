package schedule

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
	"ubsched/lib/timezone"
)

var ErrNoSnapshot = errors.New("no snapshot stored for this query")

// Store persists fetched snapshots so schedules can be compared across
// time (seat counts draining, sections opening) without re-hitting the
// portal.
type Store struct {
	db *sql.DB
}

func NewStore(database *sql.DB) Store {
	return Store{db: database}
}

// Save writes the snapshot and all of its groups in one transaction.
func (s Store) Save(ctx context.Context, snapshot Snapshot) error {
	ctx, span := tracer.Start(ctx, "Store.Save")
	defer span.End()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO snapshot (course, semester, career, semester_label, fetched_at)
		 VALUES (?, ?, ?, ?, ?)`,
		snapshot.Course, snapshot.Semester, snapshot.Career,
		snapshot.SemesterLabel, snapshot.FetchedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}
	snapshotId, err := res.LastInsertId()
	if err != nil {
		return err
	}

	for _, group := range snapshot.Groups {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO class_group (snapshot_id, group_index, session_weeks, start_date, end_date)
			 VALUES (?, ?, ?, ?, ?)`,
			snapshotId, group.Index, group.SessionWeeks, group.StartDate, group.EndDate,
		)
		if err != nil {
			return fmt.Errorf("insert group %d: %w", group.Index, err)
		}
		groupId, err := res.LastInsertId()
		if err != nil {
			return err
		}

		for _, offering := range group.Offerings {
			// days ride along as json, they are only ever read back whole
			var days []byte
			if offering.Days != nil {
				days, err = json.Marshal(offering.Days)
				if err != nil {
					return err
				}
			}
			_, err = tx.ExecContext(ctx,
				`INSERT INTO offering
				 (group_id, slot, kind, class_id, section, days, start_time,
				  end_time, room, instructor, open_seats, total_seats, is_open)
				 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				groupId, offering.Slot, offering.Kind, offering.ClassId,
				offering.Section, nullableBytes(days), offering.StartTime,
				offering.EndTime, offering.Room, offering.Instructor,
				offering.OpenSeats, offering.TotalSeats, nullableBool(offering.IsOpen),
			)
			if err != nil {
				return fmt.Errorf("insert offering %d/%d: %w", group.Index, offering.Slot, err)
			}
		}
	}

	return tx.Commit()
}

// Latest returns the most recently stored snapshot for the query triple,
// or ErrNoSnapshot.
func (s Store) Latest(ctx context.Context, course, semester, career string) (Snapshot, error) {
	ctx, span := tracer.Start(ctx, "Store.Latest")
	defer span.End()

	row := s.db.QueryRowContext(ctx,
		`SELECT id, semester_label, fetched_at FROM snapshot
		 WHERE course = ? AND semester = ? AND career = ?
		 ORDER BY fetched_at DESC, id DESC LIMIT 1`,
		course, semester, career,
	)

	var snapshotId int64
	var fetchedAt int64
	snapshot := Snapshot{
		Course:   course,
		Semester: semester,
		Career:   career,
	}
	err := row.Scan(&snapshotId, &snapshot.SemesterLabel, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Snapshot{}, ErrNoSnapshot
	}
	if err != nil {
		return Snapshot{}, err
	}
	snapshot.FetchedAt = time.Unix(fetchedAt, 0).In(timezone.Location)

	snapshot.Groups, err = s.groups(ctx, snapshotId)
	if err != nil {
		return Snapshot{}, err
	}
	return snapshot, nil
}

func (s Store) groups(ctx context.Context, snapshotId int64) ([]Group, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, group_index, session_weeks, start_date, end_date
		 FROM class_group WHERE snapshot_id = ? ORDER BY group_index`,
		snapshotId,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var groups []Group
	var groupIds []int64
	for rows.Next() {
		var id int64
		var group Group
		err := rows.Scan(&id, &group.Index, &group.SessionWeeks, &group.StartDate, &group.EndDate)
		if err != nil {
			return nil, err
		}
		groups = append(groups, group)
		groupIds = append(groupIds, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i, id := range groupIds {
		groups[i].Offerings, err = s.offerings(ctx, id)
		if err != nil {
			return nil, err
		}
		deriveGroupOpen(&groups[i])
	}
	return groups, nil
}

func (s Store) offerings(ctx context.Context, groupId int64) ([]Offering, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT slot, kind, class_id, section, days, start_time, end_time,
		        room, instructor, open_seats, total_seats, is_open
		 FROM offering WHERE group_id = ? ORDER BY slot`,
		groupId,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var offerings []Offering
	for rows.Next() {
		var offering Offering
		var days []byte
		var isOpen *int64
		err := rows.Scan(
			&offering.Slot, &offering.Kind, &offering.ClassId,
			&offering.Section, &days, &offering.StartTime, &offering.EndTime,
			&offering.Room, &offering.Instructor, &offering.OpenSeats,
			&offering.TotalSeats, &isOpen,
		)
		if err != nil {
			return nil, err
		}
		if days != nil {
			if err := json.Unmarshal(days, &offering.Days); err != nil {
				return nil, err
			}
		}
		if isOpen != nil {
			open := *isOpen != 0
			offering.IsOpen = &open
		}
		offerings = append(offerings, offering)
	}
	return offerings, rows.Err()
}

// deriveGroupOpen recomputes the group open flag from its members instead
// of storing it; the members are the source of truth.
func deriveGroupOpen(group *Group) {
	for _, offering := range group.Offerings {
		if offering.IsOpen == nil {
			continue
		}
		if group.IsOpen == nil {
			open := false
			group.IsOpen = &open
		}
		if *offering.IsOpen {
			*group.IsOpen = true
		}
	}
}

func nullableBytes(b []byte) any {
	if b == nil {
		return nil
	}
	return b
}

func nullableBool(b *bool) any {
	if b == nil {
		return nil
	}
	if *b {
		return int64(1)
	}
	return int64(0)
}
