package model

import "time"

type Status string

const (
	StatusDraft      Status = "draft"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusApproved   Status = "approved"
	StatusCancelled  Status = "cancelled"
)

type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// Instance is one inspection record (a PIE). It exclusively owns its Sections.
type Instance struct {
	ID          int64      `json:"id,omitempty"`
	Code        string     `json:"code"`
	Title       string     `json:"title"`
	Status      Status     `json:"status"`
	Priority    Priority   `json:"priority"`
	PlannedDate *time.Time `json:"planned_date,omitempty"`
	Responsible string     `json:"responsible,omitempty"`
	Zone        string     `json:"zone,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	Sections    []Section  `json:"sections"`
}

type Section struct {
	ID          int64   `json:"id,omitempty"`
	InstanceID  int64   `json:"instance_id,omitempty"`
	Code        string  `json:"code"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Order       int     `json:"order"`
	Required    bool    `json:"required"`
	Active      bool    `json:"active"`
	Points      []Point `json:"points"`
}

type Point struct {
	ID          int64     `json:"id,omitempty"`
	SectionID   int64     `json:"section_id,omitempty"`
	Code        string    `json:"code"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Type        ValueType `json:"type"`
	Required    bool      `json:"required"`
	Order       int       `json:"order"`
	Options     []string  `json:"options,omitempty"`
	Response    *Response `json:"response,omitempty"`
}

// Answered reports whether the point carries a response with either a value
// payload or a conformity verdict.
func (p Point) Answered() bool {
	return p.Response.Answered()
}

// Response is the answer given to a Point. Value is nil when only a
// conformity verdict was recorded.
type Response struct {
	ID           int64      `json:"id,omitempty"`
	PointID      int64      `json:"point_id"`
	Value        Value      `json:"-"`
	Observations string     `json:"observations,omitempty"`
	Responsible  string     `json:"responsible,omitempty"`
	Conformity   Conformity `json:"conforme,omitempty"`
	RespondedAt  time.Time  `json:"responded_at"`
}

func (r *Response) Answered() bool {
	if r == nil {
		return false
	}
	return r.Value != nil || r.Conformity != Unanswered
}

// AllPoints flattens the instance's points in section then point order.
func (inst *Instance) AllPoints() []Point {
	var points []Point
	for _, s := range inst.Sections {
		points = append(points, s.Points...)
	}
	return points
}
