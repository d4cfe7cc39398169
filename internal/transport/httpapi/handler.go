// internal/transport/httpapi/handler.go
package httpapi

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/gurkanbulca/taskboard/internal/models"
	"github.com/gurkanbulca/taskboard/internal/service"
	"github.com/gurkanbulca/taskboard/internal/view"
)

// Handler serves the JSON API
type Handler struct {
	tasks  view.TaskSource
	auth   *service.AuthService
	logger logrus.FieldLogger
}

// NewHandler creates the API handlers
func NewHandler(tasks view.TaskSource, authService *service.AuthService, logger logrus.FieldLogger) *Handler {
	return &Handler{
		tasks:  tasks,
		auth:   authService,
		logger: logger.WithField("component", "http"),
	}
}

type boardResponse struct {
	Columns []view.Column `json:"columns"`
	Total   int           `json:"total"`
}

type statusRequest struct {
	Status string `json:"status"`
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

func (h *Handler) health(w http.ResponseWriter, _ *http.Request) {
	writeResp(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) signUp(w http.ResponseWriter, r *http.Request) {
	var req service.SignUpInput
	if err := readReq(r, &req); err != nil {
		h.writeErrorResp(w, r, err)
		return
	}

	user, err := h.auth.SignUp(r.Context(), req)
	if err != nil {
		h.writeErrorResp(w, r, err)
		return
	}
	writeResp(w, http.StatusCreated, user)
}

func (h *Handler) signIn(w http.ResponseWriter, r *http.Request) {
	var req signInRequest
	if err := readReq(r, &req); err != nil {
		h.writeErrorResp(w, r, err)
		return
	}

	session, err := h.auth.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		h.writeErrorResp(w, r, err)
		return
	}
	writeResp(w, http.StatusOK, session)
}

func (h *Handler) refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := readReq(r, &req); err != nil {
		h.writeErrorResp(w, r, err)
		return
	}

	session, err := h.auth.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		h.writeErrorResp(w, r, err)
		return
	}
	writeResp(w, http.StatusOK, session)
}

func (h *Handler) signOut(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if r.ContentLength != 0 {
		if err := readReq(r, &req); err != nil {
			h.writeErrorResp(w, r, err)
			return
		}
	}

	if err := h.auth.SignOut(r.Context(), req.RefreshToken); err != nil {
		h.writeErrorResp(w, r, err)
		return
	}
	writeResp(w, http.StatusNoContent, nil)
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	user, err := h.auth.CurrentUser(r.Context())
	if err != nil {
		h.writeErrorResp(w, r, err)
		return
	}
	writeResp(w, http.StatusOK, user)
}

// board returns the user's tasks grouped by status
func (h *Handler) board(w http.ResponseWriter, r *http.Request) {
	dashboard := view.NewDashboard(h.tasks)
	if err := dashboard.Load(r.Context()); err != nil {
		h.writeErrorResp(w, r, err)
		return
	}

	columns := dashboard.Columns()
	total := 0
	for _, c := range columns {
		total += c.Count
	}
	writeResp(w, http.StatusOK, boardResponse{Columns: columns, Total: total})
}

func (h *Handler) createTask(w http.ResponseWriter, r *http.Request) {
	var in models.TaskInput
	if err := readReq(r, &in); err != nil {
		h.writeErrorResp(w, r, err)
		return
	}

	task, err := h.tasks.CreateTask(r.Context(), in)
	if err != nil {
		h.writeErrorResp(w, r, err)
		return
	}
	writeResp(w, http.StatusCreated, task)
}

func (h *Handler) getTask(w http.ResponseWriter, r *http.Request) {
	task, err := h.tasks.GetTask(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.writeErrorResp(w, r, err)
		return
	}
	writeResp(w, http.StatusOK, task)
}

func (h *Handler) updateTask(w http.ResponseWriter, r *http.Request) {
	var in models.TaskInput
	if err := readReq(r, &in); err != nil {
		h.writeErrorResp(w, r, err)
		return
	}

	task, err := h.tasks.UpdateTask(r.Context(), mux.Vars(r)["id"], in)
	if err != nil {
		h.writeErrorResp(w, r, err)
		return
	}
	writeResp(w, http.StatusOK, task)
}

func (h *Handler) updateTaskStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if err := readReq(r, &req); err != nil {
		h.writeErrorResp(w, r, err)
		return
	}

	status := models.Status(strings.TrimSpace(req.Status))
	task, err := h.tasks.UpdateTaskStatus(r.Context(), mux.Vars(r)["id"], status)
	if err != nil {
		h.writeErrorResp(w, r, err)
		return
	}
	writeResp(w, http.StatusOK, task)
}

func (h *Handler) deleteTask(w http.ResponseWriter, r *http.Request) {
	if err := h.tasks.DeleteTask(r.Context(), mux.Vars(r)["id"]); err != nil {
		h.writeErrorResp(w, r, err)
		return
	}
	writeResp(w, http.StatusNoContent, nil)
}
