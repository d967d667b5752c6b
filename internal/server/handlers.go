package server

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/sprintboard/pkg/board"
	"github.com/matzehuels/sprintboard/pkg/boardio"
	"github.com/matzehuels/sprintboard/pkg/errors"
	"github.com/matzehuels/sprintboard/pkg/layout"
	"github.com/matzehuels/sprintboard/pkg/store"
)

// =============================================================================
// Views
// =============================================================================

type laneView struct {
	MemberID string  `json:"memberId"`
	Layers   int     `json:"layers"`
	Height   float64 `json:"height"`
}

type boardView struct {
	ID        string       `json:"id"`
	Board     *board.Board `json:"board"`
	Lanes     []laneView   `json:"lanes"`
	CanUndo   bool         `json:"canUndo"`
	CanRedo   bool         `json:"canRedo"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

func (s *Server) view(doc *store.Document) boardView {
	v := boardView{ID: doc.ID, Board: doc.Board, UpdatedAt: doc.UpdatedAt, Lanes: []laneView{}}
	if doc.History != nil {
		v.CanUndo, v.CanRedo = doc.History.CanUndo(), doc.History.CanRedo()
	}
	for _, m := range doc.Board.SortedMembers() {
		v.Lanes = append(v.Lanes, laneView{
			MemberID: m.ID,
			Layers:   doc.Board.LayerCount(m.Lane()),
			Height:   doc.Board.LaneHeight(m.Lane(), s.metrics),
		})
	}
	return v
}

func (s *Server) writeBoard(w http.ResponseWriter, r *http.Request, id string, status int) {
	doc, err := s.svc.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, status, s.view(doc))
}

// mutate applies fn to the board named in the URL and responds with the
// updated board.
func (s *Server) mutate(w http.ResponseWriter, r *http.Request, op string, fn func(*board.Board) error) {
	id := chi.URLParam(r, "board")
	if _, err := s.svc.Apply(r.Context(), id, op, fn); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeBoard(w, r, id, http.StatusOK)
}

// =============================================================================
// Boards
// =============================================================================

func (s *Server) listBoards(w http.ResponseWriter, r *http.Request) {
	summaries, err := s.svc.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if summaries == nil {
		summaries = []store.Summary{}
	}
	writeJSON(w, http.StatusOK, summaries)
}

func (s *Server) createBoard(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID string `json:"id"`
	}
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	doc, err := s.svc.Create(r.Context(), req.ID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Location", "/api/boards/"+doc.ID)
	writeJSON(w, http.StatusCreated, s.view(doc))
}

func (s *Server) getBoard(w http.ResponseWriter, r *http.Request) {
	s.writeBoard(w, r, chi.URLParam(r, "board"), http.StatusOK)
}

func (s *Server) deleteBoard(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Delete(r.Context(), chi.URLParam(r, "board")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) updateBoard(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProjectTitle *string `json:"projectTitle"`
		PrimaryColor *string `json:"primaryColor"`
	}
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.mutate(w, r, "board.update", func(b *board.Board) error {
		if req.ProjectTitle != nil {
			if err := b.SetTitle(*req.ProjectTitle); err != nil {
				return err
			}
		}
		if req.PrimaryColor != nil {
			return b.SetPrimaryColor(*req.PrimaryColor)
		}
		return nil
	})
}

// importBoard replaces the board with the request document, JSON or YAML.
func (s *Server) importBoard(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBody))
	if err != nil {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "read body: %v", err))
		return
	}

	var (
		b   *board.Board
		rep boardio.Report
		rd  = boardio.NewReader(s.metrics)
	)
	if strings.Contains(r.Header.Get("Content-Type"), "yaml") {
		b, rep, err = rd.ReadYAML(bytes.NewReader(data))
	} else {
		b, rep, err = rd.Decode(data)
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	id := chi.URLParam(r, "board")
	if err := s.svc.Import(r.Context(), id, b); err != nil {
		s.writeError(w, r, err)
		return
	}
	doc, err := s.svc.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Report boardio.Report `json:"report"`
		boardView
	}{rep, s.view(doc)})
}

func (s *Server) exportBoard(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "board")
	doc, err := s.svc.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	format, contentType := boardio.FormatJSON, "application/json"
	if wantsYAML(r) {
		format, contentType = boardio.FormatYAML, "application/yaml"
	}
	var buf bytes.Buffer
	if err := boardio.Write(doc.Board, &buf, format, time.Now()); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.%s"`, id, format))
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) undo(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "board")
	if _, err := s.svc.Undo(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeBoard(w, r, id, http.StatusOK)
}

func (s *Server) redo(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "board")
	if _, err := s.svc.Redo(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeBoard(w, r, id, http.StatusOK)
}

func (s *Server) relayout(w http.ResponseWriter, r *http.Request) {
	s.mutate(w, r, "board.relayout", func(b *board.Board) error {
		b.Relayout()
		return nil
	})
}

// =============================================================================
// Placement
// =============================================================================

type spanRequest struct {
	MemberID string   `json:"memberId"`
	StartX   *float64 `json:"startX"`
	Width    *float64 `json:"width"`
}

// span fills missing coordinates from the task's current span.
func (req spanRequest) span(t board.Task) (start, width float64) {
	start, width = t.StartX, t.Width
	if width <= 0 {
		width = board.DefaultTaskWidth
	}
	if req.StartX != nil {
		start = *req.StartX
	}
	if req.Width != nil {
		width = *req.Width
	}
	return start, width
}

func (s *Server) placeTask(w http.ResponseWriter, r *http.Request) {
	var req spanRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	id, taskID := chi.URLParam(r, "board"), chi.URLParam(r, "task")
	t, err := s.task(r, id, taskID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	start, width := req.span(t)
	res, err := s.svc.Place(r.Context(), id, taskID, layout.LaneID(req.MemberID), start, width)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) resizeTask(w http.ResponseWriter, r *http.Request) {
	var req spanRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	id, taskID := chi.URLParam(r, "board"), chi.URLParam(r, "task")
	t, err := s.task(r, id, taskID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	start, width := req.span(t)
	res, err := s.svc.Resize(r.Context(), id, taskID, start, width)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// preview resolves a drag position. taskId may be omitted for a card that
// does not exist yet.
func (s *Server) preview(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TaskID string `json:"taskId"`
		spanRequest
	}
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	id := chi.URLParam(r, "board")
	t := board.Task{Width: board.DefaultTaskWidth}
	if req.TaskID != "" {
		var err error
		if t, err = s.task(r, id, req.TaskID); err != nil {
			s.writeError(w, r, err)
			return
		}
	}
	start, width := req.span(t)
	res, err := s.svc.Preview(r.Context(), id, req.TaskID, layout.LaneID(req.MemberID), start, width)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) unassignTask(w http.ResponseWriter, r *http.Request) {
	taskID := chi.URLParam(r, "task")
	s.mutate(w, r, "task.unassign", func(b *board.Board) error {
		return b.UnassignTask(taskID)
	})
}

func (s *Server) task(r *http.Request, id, taskID string) (board.Task, error) {
	doc, err := s.svc.Get(r.Context(), id)
	if err != nil {
		return board.Task{}, err
	}
	return doc.Board.Task(taskID)
}

// =============================================================================
// Tasks
// =============================================================================

func (s *Server) addTask(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title           string  `json:"title"`
		BackgroundColor *string `json:"backgroundColor"`
		spanRequest
	}
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.mutate(w, r, "task.add", func(b *board.Board) error {
		t, err := b.AddTask(req.Title)
		if err != nil {
			return err
		}
		if req.BackgroundColor != nil {
			if t, err = b.UpdateTask(t.ID, board.TaskPatch{BackgroundColor: req.BackgroundColor}); err != nil {
				return err
			}
		}
		if req.MemberID == "" {
			return nil
		}
		start, width := req.span(t)
		_, err = b.PlaceTask(t.ID, layout.LaneID(req.MemberID), start, width)
		return err
	})
}

func (s *Server) updateTask(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title           *string `json:"title"`
		BackgroundColor *string `json:"backgroundColor"`
	}
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	taskID := chi.URLParam(r, "task")
	s.mutate(w, r, "task.update", func(b *board.Board) error {
		_, err := b.UpdateTask(taskID, board.TaskPatch{Title: req.Title, BackgroundColor: req.BackgroundColor})
		return err
	})
}

func (s *Server) deleteTask(w http.ResponseWriter, r *http.Request) {
	taskID := chi.URLParam(r, "task")
	s.mutate(w, r, "task.delete", func(b *board.Board) error {
		return b.DeleteTask(taskID)
	})
}

// =============================================================================
// Members
// =============================================================================

func (s *Server) addMember(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name  string `json:"name"`
		After *int   `json:"after"`
	}
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.mutate(w, r, "member.add", func(b *board.Board) error {
		_, err := b.AddMember(req.Name, req.After)
		return err
	})
}

func (s *Server) updateMember(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     *string `json:"name"`
		Position *int    `json:"position"`
	}
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	memberID := chi.URLParam(r, "member")
	s.mutate(w, r, "member.update", func(b *board.Board) error {
		if req.Name != nil {
			if err := b.RenameMember(memberID, *req.Name); err != nil {
				return err
			}
		}
		if req.Position != nil {
			return b.MoveMember(memberID, *req.Position)
		}
		return nil
	})
}

func (s *Server) deleteMember(w http.ResponseWriter, r *http.Request) {
	memberID := chi.URLParam(r, "member")
	s.mutate(w, r, "member.delete", func(b *board.Board) error {
		return b.DeleteMember(memberID)
	})
}

// =============================================================================
// Sprints
// =============================================================================

type sprintRequest struct {
	Title     *string `json:"title"`
	StartDate *string `json:"startDate"`
	EndDate   *string `json:"endDate"`
	Color     *string `json:"color"`
}

func (s *Server) addSprint(w http.ResponseWriter, r *http.Request) {
	var req sprintRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.mutate(w, r, "sprint.add", func(b *board.Board) error {
		start, end := b.NextSprintWindow(time.Now())
		title, color := "", ""
		if req.Title != nil {
			title = *req.Title
		}
		if req.StartDate != nil {
			start = *req.StartDate
		}
		if req.EndDate != nil {
			end = *req.EndDate
		}
		if req.Color != nil {
			color = *req.Color
		}
		_, err := b.AddSprint(title, start, end, color)
		return err
	})
}

func (s *Server) updateSprint(w http.ResponseWriter, r *http.Request) {
	var req sprintRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	sprintID := chi.URLParam(r, "sprint")
	s.mutate(w, r, "sprint.update", func(b *board.Board) error {
		_, err := b.UpdateSprint(sprintID, board.SprintPatch(req))
		return err
	})
}

func (s *Server) deleteSprint(w http.ResponseWriter, r *http.Request) {
	sprintID := chi.URLParam(r, "sprint")
	s.mutate(w, r, "sprint.delete", func(b *board.Board) error {
		return b.DeleteSprint(sprintID)
	})
}
