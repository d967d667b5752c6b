package boardio

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/matzehuels/sprintboard/pkg/board"
	"github.com/matzehuels/sprintboard/pkg/errors"
)

// Format is a document encoding.
type Format string

// Supported formats.
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", errors.New(errors.ErrCodeUnsupported, "unsupported file type %q (want .json, .yaml or .yml)", filepath.Ext(path))
}

// ParseFormat validates a format name given on the command line.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatJSON, FormatYAML:
		return f, nil
	case "yml":
		return FormatYAML, nil
	}
	return "", errors.New(errors.ErrCodeUnsupported, "unsupported format %q (want json or yaml)", s)
}

// document is the wire form of a board. Pointer slices tell a missing array
// apart from an empty one.
type document struct {
	ProjectTitle string     `json:"projectTitle" yaml:"projectTitle"`
	PrimaryColor string     `json:"primaryColor" yaml:"primaryColor"`
	Sprints      *[]sprint  `json:"sprints" yaml:"sprints"`
	Members      *[]member  `json:"members" yaml:"members"`
	Tasks        *[]task    `json:"tasks" yaml:"tasks"`
	ExportedAt   *time.Time `json:"exportedAt,omitempty" yaml:"exportedAt,omitempty"`
}

type sprint struct {
	ID        string `json:"id" yaml:"id"`
	Title     string `json:"title" yaml:"title"`
	StartDate string `json:"startDate" yaml:"startDate"`
	EndDate   string `json:"endDate" yaml:"endDate"`
	Color     string `json:"color" yaml:"color"`
	Order     int    `json:"order" yaml:"order"`
}

type member struct {
	ID    string `json:"id" yaml:"id"`
	Name  string `json:"name" yaml:"name"`
	Order int    `json:"order" yaml:"order"`
}

type task struct {
	ID              string  `json:"id" yaml:"id"`
	Title           string  `json:"title" yaml:"title"`
	MemberID        *string `json:"memberId" yaml:"memberId"`
	StartX          float64 `json:"startX" yaml:"startX"`
	Width           float64 `json:"width" yaml:"width"`
	RowIndex        int     `json:"rowIndex" yaml:"rowIndex"`
	StorageOrder    *int    `json:"storageOrder,omitempty" yaml:"storageOrder,omitempty"`
	BackgroundColor string  `json:"backgroundColor,omitempty" yaml:"backgroundColor,omitempty"`
}

func toDocument(b *board.Board, now time.Time) document {
	sprints := make([]sprint, len(b.Sprints))
	for i, s := range b.SortedSprints() {
		sprints[i] = sprint(s)
	}
	members := make([]member, len(b.Members))
	for i, m := range b.SortedMembers() {
		members[i] = member(m)
	}
	tasks := make([]task, len(b.Tasks))
	for i, t := range b.Tasks {
		wt := task{
			ID:              t.ID,
			Title:           t.Title,
			StartX:          t.StartX,
			Width:           t.Width,
			RowIndex:        t.RowIndex,
			BackgroundColor: t.BackgroundColor,
		}
		if t.Placed() {
			id := string(t.MemberID)
			wt.MemberID = &id
		} else {
			order := t.StorageOrder
			wt.StorageOrder = &order
		}
		tasks[i] = wt
	}
	stamp := now.UTC()
	return document{
		ProjectTitle: b.ProjectTitle,
		PrimaryColor: b.PrimaryColor,
		Sprints:      &sprints,
		Members:      &members,
		Tasks:        &tasks,
		ExportedAt:   &stamp,
	}
}
