package boardio

import (
	"bytes"
	"cmp"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/sprintboard/pkg/board"
	"github.com/matzehuels/sprintboard/pkg/errors"
	"github.com/matzehuels/sprintboard/pkg/layout"
)

// Report lists what an import changed to make the document a valid board.
type Report struct {
	Sprints int `json:"sprints"`
	Members int `json:"members"`
	Tasks   int `json:"tasks"`

	Parked    []string `json:"parked,omitempty"`    // tasks whose lane did not exist
	Clamped   []string `json:"clamped,omitempty"`   // tasks whose span was adjusted
	Restacked []string `json:"restacked,omitempty"` // tasks moved to a free row
}

// Changed reports whether the import adjusted anything.
func (r Report) Changed() bool {
	return len(r.Parked)+len(r.Clamped)+len(r.Restacked) > 0
}

// Reader decodes board documents. Metrics supplies the minimum task width
// given to tasks whose width is not positive.
type Reader struct {
	Metrics layout.Metrics
}

// NewReader returns a Reader using m, or [layout.DefaultMetrics] when m has
// no minimum task width.
func NewReader(m layout.Metrics) Reader {
	if m.MinTaskWidth <= 0 {
		m = layout.DefaultMetrics()
	}
	return Reader{Metrics: m}
}

// ReadJSON decodes a JSON board document from r. ReadJSON does not close r.
func (rd Reader) ReadJSON(r io.Reader) (*board.Board, Report, error) {
	var doc document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, Report{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode json")
	}
	return rd.fromDocument(doc)
}

// ReadYAML decodes a YAML board document from r. ReadYAML does not close r.
func (rd Reader) ReadYAML(r io.Reader) (*board.Board, Report, error) {
	var doc document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, Report{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode yaml")
	}
	return rd.fromDocument(doc)
}

// Read decodes a board document in the given format.
func (rd Reader) Read(r io.Reader, f Format) (*board.Board, Report, error) {
	switch f {
	case FormatJSON:
		return rd.ReadJSON(r)
	case FormatYAML:
		return rd.ReadYAML(r)
	}
	return nil, Report{}, errors.New(errors.ErrCodeUnsupported, "unsupported format %q", f)
}

// Decode reads a document from raw bytes, trying JSON first and falling back
// to YAML. It serves request bodies whose format is not declared.
func (rd Reader) Decode(data []byte) (*board.Board, Report, error) {
	if json.Valid(data) {
		return rd.ReadJSON(bytes.NewReader(data))
	}
	return rd.ReadYAML(bytes.NewReader(data))
}

// ImportFile reads the board document at path; the extension selects the format.
func (rd Reader) ImportFile(path string) (*board.Board, Report, error) {
	f, err := FormatFromPath(path)
	if err != nil {
		return nil, Report{}, err
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, Report{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()
	return rd.Read(file, f)
}

// ReadJSON decodes a JSON document with the default metrics.
func ReadJSON(r io.Reader) (*board.Board, Report, error) {
	return NewReader(layout.Metrics{}).ReadJSON(r)
}

// ReadYAML decodes a YAML document with the default metrics.
func ReadYAML(r io.Reader) (*board.Board, Report, error) {
	return NewReader(layout.Metrics{}).ReadYAML(r)
}

// Read decodes a document in the given format with the default metrics.
func Read(r io.Reader, f Format) (*board.Board, Report, error) {
	return NewReader(layout.Metrics{}).Read(r, f)
}

// Decode reads a JSON or YAML document with the default metrics.
func Decode(data []byte) (*board.Board, Report, error) {
	return NewReader(layout.Metrics{}).Decode(data)
}

// ImportFile reads the document at path with the default metrics.
func ImportFile(path string) (*board.Board, Report, error) {
	return NewReader(layout.Metrics{}).ImportFile(path)
}

func (rd Reader) fromDocument(doc document) (*board.Board, Report, error) {
	if doc.Sprints == nil || doc.Members == nil || doc.Tasks == nil {
		return nil, Report{}, errors.New(errors.ErrCodeInvalidFormat, "document must contain sprints, members and tasks")
	}

	b := &board.Board{
		ProjectTitle: cmp.Or(doc.ProjectTitle, board.DefaultProjectTitle),
		PrimaryColor: cmp.Or(doc.PrimaryColor, board.DefaultPrimaryColor),
		Sprints:      make([]board.Sprint, 0, len(*doc.Sprints)),
		Members:      make([]board.Member, 0, len(*doc.Members)),
		Tasks:        make([]board.Task, 0, len(*doc.Tasks)),
	}
	if err := errors.ValidateColor(b.PrimaryColor); err != nil {
		return nil, Report{}, err
	}

	seen := make(map[string]string)
	claim := func(kind, id string) error {
		if err := errors.ValidateID(id); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidFormat, err, "%s id", kind)
		}
		if prev, ok := seen[id]; ok {
			return errors.New(errors.ErrCodeInvalidFormat, "duplicate id %q (%s and %s)", id, prev, kind)
		}
		seen[id] = kind
		return nil
	}

	for _, s := range *doc.Sprints {
		if err := claim("sprint", s.ID); err != nil {
			return nil, Report{}, err
		}
		s.Color = cmp.Or(s.Color, board.DefaultSprintColor)
		if err := errors.ValidateDateRange(s.StartDate, s.EndDate); err != nil {
			return nil, Report{}, fmt.Errorf("sprint %s: %w", s.ID, err)
		}
		if err := errors.ValidateColor(s.Color); err != nil {
			return nil, Report{}, fmt.Errorf("sprint %s: %w", s.ID, err)
		}
		b.Sprints = append(b.Sprints, board.Sprint(s))
	}
	for _, m := range *doc.Members {
		if err := claim("member", m.ID); err != nil {
			return nil, Report{}, err
		}
		b.Members = append(b.Members, board.Member(m))
	}
	normaliseOrder(b.Sprints, func(s *board.Sprint) *int { return &s.Order })
	normaliseOrder(b.Members, func(m *board.Member) *int { return &m.Order })

	var rep Report
	minWidth := rd.Metrics.MinTaskWidth
	if minWidth <= 0 {
		minWidth = layout.DefaultMetrics().MinTaskWidth
	}
	nextOrder := 0
	for _, t := range *doc.Tasks {
		if t.StorageOrder != nil {
			nextOrder = max(nextOrder, *t.StorageOrder+1)
		}
	}
	for _, t := range *doc.Tasks {
		if err := claim("task", t.ID); err != nil {
			return nil, Report{}, err
		}
		if err := errors.ValidateColor(t.BackgroundColor); err != nil {
			return nil, Report{}, fmt.Errorf("task %s: %w", t.ID, err)
		}
		bt := board.Task{
			ID:              t.ID,
			Title:           t.Title,
			StartX:          t.StartX,
			Width:           t.Width,
			RowIndex:        t.RowIndex,
			BackgroundColor: t.BackgroundColor,
		}

		if bt.StartX < 0 || math.IsNaN(bt.StartX) || math.IsInf(bt.StartX, 0) {
			bt.StartX = 0
		}
		if bt.Width <= 0 || math.IsNaN(bt.Width) || math.IsInf(bt.Width, 0) {
			bt.Width = minWidth
		}
		if bt.StartX != t.StartX || bt.Width != t.Width {
			rep.Clamped = append(rep.Clamped, t.ID)
		}

		if t.MemberID != nil && *t.MemberID != "" {
			if slices.IndexFunc(b.Members, func(m board.Member) bool { return m.ID == *t.MemberID }) >= 0 {
				bt.MemberID = layout.LaneID(*t.MemberID)
			} else {
				rep.Parked = append(rep.Parked, t.ID)
			}
		}
		if !bt.Placed() {
			bt.RowIndex = 0
			if t.StorageOrder != nil && t.MemberID == nil {
				bt.StorageOrder = *t.StorageOrder
			} else {
				bt.StorageOrder = nextOrder
				nextOrder++
			}
		}
		b.Tasks = append(b.Tasks, bt)
	}

	rep.Restacked = b.Relayout()
	rep.Sprints, rep.Members, rep.Tasks = len(b.Sprints), len(b.Members), len(b.Tasks)
	return b, rep, nil
}

// normaliseOrder renumbers items 0..n-1 following their current order,
// keeping document order for ties.
func normaliseOrder[T any](items []T, order func(*T) *int) {
	idx := make([]int, len(items))
	for i := range idx {
		idx[i] = i
	}
	slices.SortStableFunc(idx, func(a, b int) int {
		return cmp.Compare(*order(&items[a]), *order(&items[b]))
	})
	for n, i := range idx {
		*order(&items[i]) = n
	}
}
