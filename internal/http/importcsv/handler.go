package importcsv

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/metromood/internal/cycle"
	"github.com/MrJamesThe3rd/metromood/internal/http/httpx"
	"github.com/MrJamesThe3rd/metromood/internal/importer"
	"github.com/MrJamesThe3rd/metromood/internal/state"
)

const maxUploadSize = 10 << 20

type Handler struct {
	importSvc *importer.Service
	svc       *state.Service
}

func NewHandler(importSvc *importer.Service, svc *state.Service) *Handler {
	return &Handler{
		importSvc: importSvc,
		svc:       svc,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.importCSV)
}

type importResponse struct {
	Imported int                  `json:"imported"`
	Periods  []cycle.PeriodRecord `json:"periods"`
}

// importCSV backfills period history from an uploaded CSV. The optional
// "format" field pins the layout; otherwise it is detected from the header.
func (h *Handler) importCSV(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	params, err := h.importSvc.Import(importer.Format(r.FormValue("format")), file)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if len(params) == 0 {
		http.Error(w, "no periods found in file", http.StatusBadRequest)
		return
	}

	recs, err := h.svc.ImportPeriods(r.Context(), params)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}

	httpx.JSON(w, http.StatusCreated, importResponse{Imported: len(recs), Periods: recs})
}
