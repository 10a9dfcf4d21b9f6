package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/mattn/go-sqlite3"

	"github.com/mbolis/pie-reports/model"
)

// ErrNotFound is returned when the addressed row does not exist.
var ErrNotFound = errors.New("not found")

// Store persists the inspection hierarchy and flat records. It serves as the
// data source of report generation.
type Store struct {
	*sql.DB
	Now func() time.Time
}

func NewStore(db *sql.DB) *Store {
	return &Store{DB: db, Now: time.Now}
}

func (s *Store) now() time.Time {
	return s.Now().UTC().Truncate(time.Second)
}

// conflict turns a uniqueness violation into a DataShapeError about entity.
func conflict(err error, entity, code string) error {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
		return &model.DataShapeError{Entity: entity, Code: code, Reason: "code already in use"}
	}
	return err
}

const instanceColumns = `id, code, title, status, priority, planned_date, responsible, zone, created_at, updated_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanInstance(row scanner) (model.Instance, error) {
	var inst model.Instance
	var planned sql.NullTime
	err := row.Scan(
		&inst.ID, &inst.Code, &inst.Title, &inst.Status, &inst.Priority, &planned,
		&inst.Responsible, &inst.Zone, &inst.CreatedAt, &inst.UpdatedAt,
	)
	if planned.Valid {
		inst.PlannedDate = &planned.Time
	}
	return inst, err
}

// ListInstances returns every instance without its sections, most recent
// first.
func (s *Store) ListInstances(ctx context.Context) ([]model.Instance, error) {
	rows, err := s.QueryContext(ctx, `SELECT `+instanceColumns+` FROM instance ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	instances := []model.Instance{}
	for rows.Next() {
		inst, err := scanInstance(rows)
		if err != nil {
			return nil, err
		}
		instances = append(instances, inst)
	}
	return instances, rows.Err()
}

// FetchInstance loads the full Section→Point→Response tree of an instance.
// The rows are linked and validated by model.Assemble, so a tree breaking
// the hierarchy invariants surfaces as a DataShapeError.
func (s *Store) FetchInstance(ctx context.Context, id int64) (*model.Instance, error) {
	inst, err := scanInstance(s.QueryRowContext(ctx, `SELECT `+instanceColumns+` FROM instance WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("instance %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	sections, err := s.sections(ctx, id)
	if err != nil {
		return nil, err
	}
	points, err := s.points(ctx, id)
	if err != nil {
		return nil, err
	}
	responses, err := s.responses(ctx, id)
	if err != nil {
		return nil, err
	}
	return model.Assemble(inst, sections, points, responses)
}

func (s *Store) sections(ctx context.Context, instanceID int64) ([]model.Section, error) {
	rows, err := s.QueryContext(ctx, `
		SELECT id, instance_id, code, name, description, position, required, active
		FROM section
		WHERE instance_id = ?`,
		instanceID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sections []model.Section
	for rows.Next() {
		var sec model.Section
		err = rows.Scan(&sec.ID, &sec.InstanceID, &sec.Code, &sec.Name, &sec.Description, &sec.Order, &sec.Required, &sec.Active)
		if err != nil {
			return nil, err
		}
		sections = append(sections, sec)
	}
	return sections, rows.Err()
}

func (s *Store) points(ctx context.Context, instanceID int64) ([]model.Point, error) {
	rows, err := s.QueryContext(ctx, `
		SELECT p.id, p.section_id, p.code, p.title, p.description, p.type, p.required, p.position, p.options
		FROM point p
		INNER JOIN section s ON (s.id = p.section_id)
		WHERE s.instance_id = ?`,
		instanceID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var points []model.Point
	for rows.Next() {
		var p model.Point
		var opts string
		err = rows.Scan(&p.ID, &p.SectionID, &p.Code, &p.Title, &p.Description, &p.Type, &p.Required, &p.Order, &opts)
		if err != nil {
			return nil, err
		}
		if opts != "" {
			if err = json.Unmarshal([]byte(opts), &p.Options); err != nil {
				return nil, fmt.Errorf("point %s options: %w", p.Code, err)
			}
		}
		points = append(points, p)
	}
	return points, rows.Err()
}

func (s *Store) responses(ctx context.Context, instanceID int64) ([]model.Response, error) {
	rows, err := s.QueryContext(ctx, `
		SELECT r.id, r.point_id, r.value, r.conformity, r.observations, r.responsible, r.responded_at
		FROM response r
		INNER JOIN point p ON (p.id = r.point_id)
		INNER JOIN section s ON (s.id = p.section_id)
		WHERE s.instance_id = ?`,
		instanceID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var responses []model.Response
	for rows.Next() {
		r, err := scanResponse(rows)
		if err != nil {
			return nil, err
		}
		responses = append(responses, r)
	}
	return responses, rows.Err()
}

func scanResponse(row scanner) (model.Response, error) {
	var r model.Response
	var value sql.NullString
	err := row.Scan(&r.ID, &r.PointID, &value, &r.Conformity, &r.Observations, &r.Responsible, &r.RespondedAt)
	if err != nil {
		return r, err
	}
	if value.Valid {
		r.Value, err = model.DecodeValue([]byte(value.String))
		if err != nil {
			return r, fmt.Errorf("response of point %d: %w", r.PointID, err)
		}
	}
	return r, nil
}

// CreateInstance stores a new instance in draft status. Without a code one
// is generated as PIE-{year}-{sequence}.
func (s *Store) CreateInstance(ctx context.Context, inst model.Instance) (*model.Instance, error) {
	if strings.TrimSpace(inst.Title) == "" {
		return nil, &model.DataShapeError{Entity: "instance", Reason: "empty title"}
	}
	now := s.now()
	inst.CreatedAt, inst.UpdatedAt = now, now
	// instances always start as drafts; later transitions go through UpdateInstance
	inst.Status = model.StatusDraft
	if inst.Priority == "" {
		inst.Priority = model.PriorityMedium
	}

	tx, err := s.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	inst.Code = model.CleanCode(inst.Code)
	if inst.Code == "" {
		inst.Code, err = nextInstanceCode(ctx, tx, now.Year())
		if err != nil {
			return nil, err
		}
	}

	err = tx.QueryRowContext(ctx, `
		INSERT INTO instance (code, title, status, priority, planned_date, responsible, zone, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`,
		inst.Code, inst.Title, inst.Status, inst.Priority, inst.PlannedDate,
		inst.Responsible, inst.Zone, inst.CreatedAt, inst.UpdatedAt,
	).Scan(&inst.ID)
	if err != nil {
		return nil, conflict(err, "instance", inst.Code)
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}
	inst.Sections = []model.Section{}
	return &inst, nil
}

func nextInstanceCode(ctx context.Context, tx *sql.Tx, year int) (string, error) {
	prefix := fmt.Sprintf("PIE-%d-", year)
	rows, err := tx.QueryContext(ctx, `SELECT code FROM instance WHERE code LIKE ?`, prefix+"%")
	if err != nil {
		return "", err
	}
	defer rows.Close()

	seq := 0
	for rows.Next() {
		var code string
		if err = rows.Scan(&code); err != nil {
			return "", err
		}
		if n, err := strconv.Atoi(strings.TrimPrefix(code, prefix)); err == nil && n > seq {
			seq = n
		}
	}
	if err = rows.Err(); err != nil {
		return "", err
	}
	return model.InstanceCode(year, seq+1), nil
}

// UpdateInstance replaces the header attributes of an instance. The code and
// the hierarchy are left untouched.
// UpdateInstance overwrites the editable attributes of an instance. An empty
// status or priority keeps the stored one.
func (s *Store) UpdateInstance(ctx context.Context, inst model.Instance) (*model.Instance, error) {
	res, err := s.ExecContext(ctx, `
		UPDATE instance
		SET
			title = ?,
			status = COALESCE(NULLIF(?, ''), status),
			priority = COALESCE(NULLIF(?, ''), priority),
			planned_date = ?,
			responsible = ?,
			zone = ?,
			updated_at = ?
		WHERE id = ?`,
		inst.Title, inst.Status, inst.Priority, inst.PlannedDate,
		inst.Responsible, inst.Zone, s.now(),
		inst.ID,
	)
	if err := affected(res, err, "instance", inst.ID); err != nil {
		return nil, err
	}
	return s.FetchInstance(ctx, inst.ID)
}

func (s *Store) DeleteInstance(ctx context.Context, id int64) error {
	res, err := s.ExecContext(ctx, `DELETE FROM instance WHERE id = ?`, id)
	return affected(res, err, "instance", id)
}

func affected(res sql.Result, err error, entity string, id int64) error {
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n < 1 {
		return fmt.Errorf("%s %d: %w", entity, id, ErrNotFound)
	}
	return nil
}

// AddSection appends a section after the last one of the instance.
func (s *Store) AddSection(ctx context.Context, instanceID int64, sec model.Section) (*model.Section, error) {
	if strings.TrimSpace(sec.Name) == "" {
		return nil, &model.DataShapeError{Entity: "section", Code: sec.Code, Reason: "empty name"}
	}

	tx, err := s.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var instanceCode string
	err = tx.QueryRowContext(ctx, `SELECT code FROM instance WHERE id = ?`, instanceID).Scan(&instanceCode)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("instance %d: %w", instanceID, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	sec.InstanceID = instanceID
	sec.Order, err = nextPosition(ctx, tx, `SELECT position FROM section WHERE instance_id = ?`, instanceID)
	if err != nil {
		return nil, err
	}
	sec.Code = model.CleanCode(sec.Code)
	if sec.Code == "" {
		sec.Code = model.SectionCode(instanceCode, sec.Order)
	}

	err = tx.QueryRowContext(ctx, `
		INSERT INTO section (instance_id, code, name, description, position, required, active)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		RETURNING id`,
		sec.InstanceID, sec.Code, sec.Name, sec.Description, sec.Order, sec.Required, sec.Active,
	).Scan(&sec.ID)
	if err != nil {
		return nil, conflict(err, "section", sec.Code)
	}
	if err = touch(ctx, tx, instanceID, s.now()); err != nil {
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}
	sec.Points = []model.Point{}
	return &sec, nil
}

func nextPosition(ctx context.Context, tx *sql.Tx, query string, parentID int64) (int, error) {
	rows, err := tx.QueryContext(ctx, query, parentID)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	var orders []int
	for rows.Next() {
		var o int
		if err = rows.Scan(&o); err != nil {
			return 0, err
		}
		orders = append(orders, o)
	}
	if err = rows.Err(); err != nil {
		return 0, err
	}
	return model.NextOrder(orders), nil
}

func touch(ctx context.Context, tx *sql.Tx, instanceID int64, at time.Time) error {
	_, err := tx.ExecContext(ctx, `UPDATE instance SET updated_at = ? WHERE id = ?`, at, instanceID)
	return err
}

// DeleteSection removes a section with its points and their responses.
func (s *Store) DeleteSection(ctx context.Context, id int64) error {
	res, err := s.ExecContext(ctx, `DELETE FROM section WHERE id = ?`, id)
	return affected(res, err, "section", id)
}

// AddPoint appends a point after the last one of the section.
func (s *Store) AddPoint(ctx context.Context, sectionID int64, p model.Point) (*model.Point, error) {
	if strings.TrimSpace(p.Title) == "" {
		return nil, &model.DataShapeError{Entity: "point", Code: p.Code, Reason: "empty title"}
	}
	if !p.Type.Valid() {
		return nil, &model.DataShapeError{Entity: "point", Code: p.Code, Reason: fmt.Sprintf("unknown type %q", p.Type)}
	}

	var opts []byte
	if p.Options != nil {
		var err error
		if opts, err = json.Marshal(p.Options); err != nil {
			return nil, err
		}
	}

	tx, err := s.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var sectionCode string
	var instanceID int64
	err = tx.QueryRowContext(ctx, `SELECT code, instance_id FROM section WHERE id = ?`, sectionID).Scan(&sectionCode, &instanceID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("section %d: %w", sectionID, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	p.SectionID = sectionID
	p.Order, err = nextPosition(ctx, tx, `SELECT position FROM point WHERE section_id = ?`, sectionID)
	if err != nil {
		return nil, err
	}
	p.Code = model.CleanCode(p.Code)
	if p.Code == "" {
		p.Code = model.PointCode(sectionCode, p.Order)
	}

	err = tx.QueryRowContext(ctx, `
		INSERT INTO point (section_id, code, title, description, type, required, position, options)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`,
		p.SectionID, p.Code, p.Title, p.Description, p.Type, p.Required, p.Order, string(opts),
	).Scan(&p.ID)
	if err != nil {
		return nil, conflict(err, "point", p.Code)
	}
	if err = touch(ctx, tx, instanceID, s.now()); err != nil {
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}
	p.Response = nil
	return &p, nil
}

// DeletePoint removes a point with its response.
func (s *Store) DeletePoint(ctx context.Context, id int64) error {
	res, err := s.ExecContext(ctx, `DELETE FROM point WHERE id = ?`, id)
	return affected(res, err, "point", id)
}

// UpsertResponse records the answer of a point, replacing any previous one.
// Points may be answered in any order.
func (s *Store) UpsertResponse(ctx context.Context, pointID int64, r model.Response) (*model.Response, error) {
	tx, err := s.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var point model.Point
	var instanceID int64
	err = tx.QueryRowContext(ctx, `
		SELECT p.id, p.code, p.type, s.instance_id
		FROM point p
		INNER JOIN section s ON (s.id = p.section_id)
		WHERE p.id = ?`,
		pointID,
	).Scan(&point.ID, &point.Code, &point.Type, &instanceID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("point %d: %w", pointID, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	if r.Value != nil && r.Value.Type() != point.Type {
		return nil, &model.DataShapeError{
			Entity: "response",
			Code:   point.Code,
			Reason: fmt.Sprintf("value of type %s for %s point", r.Value.Type(), point.Type),
		}
	}

	r.PointID = pointID
	if r.RespondedAt.IsZero() {
		r.RespondedAt = s.now()
	}
	var value any
	if r.Value != nil {
		raw, err := model.EncodeValue(r.Value)
		if err != nil {
			return nil, err
		}
		value = string(raw)
	}

	err = tx.QueryRowContext(ctx, `
		INSERT INTO response (point_id, value, conformity, observations, responsible, responded_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (point_id) DO UPDATE SET
			value = excluded.value,
			conformity = excluded.conformity,
			observations = excluded.observations,
			responsible = excluded.responsible,
			responded_at = excluded.responded_at
		RETURNING id`,
		r.PointID, value, r.Conformity, r.Observations, r.Responsible, r.RespondedAt,
	).Scan(&r.ID)
	if err != nil {
		return nil, err
	}
	if err = touch(ctx, tx, instanceID, s.now()); err != nil {
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}
	return &r, nil
}
