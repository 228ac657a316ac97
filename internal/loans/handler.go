package loans

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"libralend/internal/faults"
)

// Handler exposes the loan service under
// /patrons/{patronId}/loans. Identifier length checks short-circuit
// here, before any collaborator or ledger call is attempted.
type Handler struct {
	service  Service
	patrons  PatronsAPI
	validate *validator.Validate
}

func NewHandler(service Service, patrons PatronsAPI) *Handler {
	return &Handler{
		service:  service,
		patrons:  patrons,
		validate: validator.New(),
	}
}

// Routes mounts the loan endpoints on a chi router.
func (h *Handler) Routes(r chi.Router) {
	r.Route("/patrons/{patronId}/loans", func(r chi.Router) {
		r.Get("/", h.HandleGetAllLoans)
		r.Post("/", h.HandleAddLoan)
		r.Get("/{loanId}", h.HandleGetLoan)
		r.Put("/{loanId}", h.HandleUpdateLoan)
		r.Delete("/{loanId}", h.HandleDeleteLoan)
	})
}

func (h *Handler) HandleGetAllLoans(w http.ResponseWriter, r *http.Request) {
	patronID := chi.URLParam(r, "patronId")
	if len(patronID) != idLength {
		writeError(w, r, fmt.Errorf("%w: invalid patronId: %s", faults.ErrInvalidInput, patronID))
		return
	}

	// The listing endpoint answers a plain 404 for an unknown patron
	// before the orchestration runs.
	if _, err := h.patrons.GetPatron(r.Context(), patronID); err != nil {
		if errors.Is(err, faults.ErrNotFound) {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		writeError(w, r, err)
		return
	}

	list, err := h.service.GetAllLoans(r.Context(), patronID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *Handler) HandleGetLoan(w http.ResponseWriter, r *http.Request) {
	patronID := chi.URLParam(r, "patronId")
	loanID := chi.URLParam(r, "loanId")
	if len(patronID) != idLength || len(loanID) != idLength {
		writeError(w, r, fmt.Errorf("%w: invalid id", faults.ErrInvalidInput))
		return
	}

	loan, err := h.service.GetLoan(r.Context(), patronID, loanID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, loan)
}

func (h *Handler) HandleAddLoan(w http.ResponseWriter, r *http.Request) {
	patronID := chi.URLParam(r, "patronId")
	if len(patronID) != idLength {
		writeError(w, r, fmt.Errorf("%w: invalid patronId provided: %s", faults.ErrInvalidInput, patronID))
		return
	}

	req, err := h.decodeRequest(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	created, err := h.service.AddLoan(r.Context(), req, patronID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *Handler) HandleUpdateLoan(w http.ResponseWriter, r *http.Request) {
	patronID := chi.URLParam(r, "patronId")
	loanID := chi.URLParam(r, "loanId")
	if len(patronID) != idLength || len(loanID) != idLength {
		writeError(w, r, fmt.Errorf("%w: invalid id", faults.ErrInvalidInput))
		return
	}

	req, err := h.decodeRequest(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	updated, err := h.service.UpdateLoan(r.Context(), req, patronID, loanID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *Handler) HandleDeleteLoan(w http.ResponseWriter, r *http.Request) {
	patronID := chi.URLParam(r, "patronId")
	loanID := chi.URLParam(r, "loanId")
	if len(patronID) != idLength || len(loanID) != idLength {
		writeError(w, r, fmt.Errorf("%w: invalid id", faults.ErrInvalidInput))
		return
	}

	if err := h.service.DeleteLoan(r.Context(), patronID, loanID); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) decodeRequest(r *http.Request) (*LoanRequest, error) {
	var req LoanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, fmt.Errorf("%w: malformed request body: %v", faults.ErrInvalidInput, err)
	}
	if err := h.validate.Struct(&req); err != nil {
		return nil, fmt.Errorf("%w: %v", faults.ErrInvalidInput, err)
	}
	return &req, nil
}

// httpErrorInfo mirrors the error body the collaborator services emit,
// so the gateway sees one shape everywhere.
type httpErrorInfo struct {
	Timestamp  time.Time `json:"timestamp"`
	Path       string    `json:"path"`
	HTTPStatus int       `json:"httpStatus"`
	Message    string    `json:"message"`
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := faults.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		log.Printf("loan request %s %s failed: %v", r.Method, r.URL.Path, err)
	}
	writeJSON(w, status, httpErrorInfo{
		Timestamp:  time.Now().UTC(),
		Path:       r.URL.Path,
		HTTPStatus: status,
		Message:    err.Error(),
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("encode response: %v", err)
	}
}
