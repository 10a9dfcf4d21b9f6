package database

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/mbolis/pie-reports/model"
)

// CreateRecord stores a flat business record. Codes are unique per kind.
func (s *Store) CreateRecord(ctx context.Context, rec model.Record) (*model.Record, error) {
	if !rec.Kind.Valid() {
		return nil, &model.DataShapeError{Entity: "record", Code: rec.Code, Reason: fmt.Sprintf("unknown kind %q", rec.Kind)}
	}
	rec.Code = model.CleanCode(rec.Code)
	if rec.Code == "" {
		return nil, &model.DataShapeError{Entity: "record", Reason: "empty code"}
	}

	dates, err := json.Marshal(orEmpty(rec.Dates))
	if err != nil {
		return nil, err
	}
	numbers, err := json.Marshal(orEmpty(rec.Numbers))
	if err != nil {
		return nil, err
	}
	text, err := json.Marshal(orEmpty(rec.Text))
	if err != nil {
		return nil, err
	}

	rec.CreatedAt = s.now()
	err = s.QueryRowContext(ctx, `
		INSERT INTO record (kind, code, title, status, dates, numbers, text, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`,
		rec.Kind, rec.Code, rec.Title, rec.Status, string(dates), string(numbers), string(text), rec.CreatedAt,
	).Scan(&rec.ID)
	if err != nil {
		return nil, conflict(err, "record", rec.Code)
	}
	return &rec, nil
}

func orEmpty[V any](m map[string]V) map[string]V {
	if m == nil {
		return map[string]V{}
	}
	return m
}

// DeleteRecord removes the record id only when it is of the given kind.
func (s *Store) DeleteRecord(ctx context.Context, kind model.RecordKind, id int64) error {
	res, err := s.ExecContext(ctx, `DELETE FROM record WHERE id = ? AND kind = ?`, id, kind)
	return affected(res, err, "record", id)
}

// FetchFilteredRecords returns the records of a kind matching every active
// filter, ordered by code. Filters with an empty value are ignored.
func (s *Store) FetchFilteredRecords(ctx context.Context, kind model.RecordKind, filters model.Predicates) ([]model.Record, error) {
	rows, err := s.QueryContext(ctx, `
		SELECT id, kind, code, title, status, dates, numbers, text, created_at
		FROM record
		WHERE kind = ?
		ORDER BY code`,
		kind,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []model.Record{}
	for rows.Next() {
		var rec model.Record
		var dates, numbers, text string
		err = rows.Scan(&rec.ID, &rec.Kind, &rec.Code, &rec.Title, &rec.Status, &dates, &numbers, &text, &rec.CreatedAt)
		if err != nil {
			return nil, err
		}
		if err = decodeFields(&rec, dates, numbers, text); err != nil {
			return nil, err
		}
		if filters.Match(rec) {
			records = append(records, rec)
		}
	}
	return records, rows.Err()
}

func decodeFields(rec *model.Record, dates, numbers, text string) error {
	if err := json.Unmarshal([]byte(dates), &rec.Dates); err != nil {
		return fmt.Errorf("record %s dates: %w", rec.Code, err)
	}
	if err := json.Unmarshal([]byte(numbers), &rec.Numbers); err != nil {
		return fmt.Errorf("record %s numbers: %w", rec.Code, err)
	}
	if err := json.Unmarshal([]byte(text), &rec.Text); err != nil {
		return fmt.Errorf("record %s text: %w", rec.Code, err)
	}
	return nil
}
