package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/iota-uz/acq-directory/modules/directory/domain/aggregates/person"
	"github.com/iota-uz/acq-directory/modules/directory/presentation/controllers/dtos"
	"github.com/iota-uz/acq-directory/modules/directory/presentation/mappers"
	"github.com/iota-uz/acq-directory/modules/directory/presentation/viewmodels"
	"github.com/iota-uz/acq-directory/modules/directory/services"
	"github.com/iota-uz/acq-directory/pkg/application"
	"github.com/iota-uz/acq-directory/pkg/composables"
	"github.com/iota-uz/acq-directory/pkg/httpapi"
)

const (
	csvContentType  = "text/csv; charset=utf-8"
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

type DirectoryAPIController struct {
	app       application.Application
	directory *services.DirectoryService
	apiPrefix string
}

func NewDirectoryAPIController(app application.Application) application.Controller {
	return &DirectoryAPIController{
		app:       app,
		directory: app.Service(services.DirectoryService{}).(*services.DirectoryService),
		apiPrefix: "/directory/api",
	}
}

func (c *DirectoryAPIController) Key() string {
	return c.apiPrefix
}

func (c *DirectoryAPIController) Register(r *mux.Router) {
	api := r.PathPrefix(c.apiPrefix).Subrouter()

	api.HandleFunc("/health", c.instrumentAPI("health", c.Health)).Methods(http.MethodGet)
	api.HandleFunc("/reload", c.instrumentAPI("reload", c.Reload)).Methods(http.MethodPost)

	api.HandleFunc("/persons", c.instrumentAPI("persons.list", c.ListPersons)).Methods(http.MethodGet)
	api.HandleFunc("/persons/{id}", c.instrumentAPI("persons.get", c.GetPerson)).Methods(http.MethodGet)
	api.HandleFunc("/search", c.instrumentAPI("search", c.Search)).Methods(http.MethodGet)

	api.HandleFunc("/hierarchy", c.instrumentAPI("hierarchy", c.GetHierarchy)).Methods(http.MethodGet)
	api.HandleFunc("/hierarchy/{service}", c.instrumentAPI("hierarchy.service", c.GetServiceHierarchy)).Methods(http.MethodGet)

	api.HandleFunc("/stats", c.instrumentAPI("stats", c.GetStats)).Methods(http.MethodGet)
	api.HandleFunc("/stats/quality", c.instrumentAPI("stats.quality", c.GetQualityReport)).Methods(http.MethodGet)
	api.HandleFunc("/values/{field}", c.instrumentAPI("values", c.GetValues)).Methods(http.MethodGet)

	api.HandleFunc("/relationships", c.instrumentAPI("relationships", c.ListRelationships)).Methods(http.MethodGet)
	api.HandleFunc("/relationships/report", c.instrumentAPI("relationships.report", c.GetRelationshipReport)).Methods(http.MethodGet)

	api.HandleFunc("/export.csv", c.instrumentAPI("export.csv", c.ExportCSV)).Methods(http.MethodGet)
	api.HandleFunc("/export.xlsx", c.instrumentAPI("export.xlsx", c.ExportXLSX)).Methods(http.MethodGet)

	api.HandleFunc("/spotlight", c.instrumentAPI("spotlight", c.Spotlight)).Methods(http.MethodGet)
}

// requireLoaded answers 503 when the directory has no usable snapshot.
func (c *DirectoryAPIController) requireLoaded(w http.ResponseWriter, r *http.Request) (*services.Snapshot, bool) {
	snap := c.directory.Snapshot()
	if !snap.Loaded() {
		msg := "directory data is not loaded"
		if snap.Err != nil {
			msg = snap.Err.Error()
		}
		_ = httpapi.WriteRequestError(w, r, http.StatusServiceUnavailable, httpapi.CodeDirectoryNotLoaded, msg)
		return nil, false
	}
	w.Header().Set("X-Directory-Loaded-At", snap.LoadedAt.UTC().Format(time.RFC3339))
	return snap, true
}

func writeInvalid(w http.ResponseWriter, r *http.Request, err error, verrs map[string]string) {
	meta := map[string]string{}
	if id := httpapi.RequestID(r.Context()); id != "" {
		meta["request_id"] = id
	}
	msg := "invalid query"
	if err != nil {
		msg = err.Error()
	}
	for field, rule := range verrs {
		meta[field] = rule
	}
	_ = httpapi.WriteError(w, http.StatusBadRequest, httpapi.CodeInvalidRequest, msg, meta)
}

func (c *DirectoryAPIController) healthViewModel() viewmodels.Health {
	snap := c.directory.Snapshot()
	vm := viewmodels.Health{
		State:         string(c.directory.State()),
		Source:        c.directory.Source(),
		Persons:       len(snap.Persons),
		Relationships: len(snap.Relationships),
	}
	if snap.Loaded() {
		loadedAt := snap.LoadedAt.UTC()
		vm.LoadedAt = &loadedAt
		report := snap.Ingestion
		vm.Ingestion = &report
	}
	if snap.Err != nil {
		vm.Error = snap.Err.Error()
	}
	return vm
}

func (c *DirectoryAPIController) Health(w http.ResponseWriter, r *http.Request) {
	vm := c.healthViewModel()
	status := http.StatusOK
	if vm.LoadedAt == nil {
		status = http.StatusServiceUnavailable
	}
	_ = httpapi.WriteJSON(w, status, vm)
}

func (c *DirectoryAPIController) Reload(w http.ResponseWriter, r *http.Request) {
	if err := c.directory.Reload(r.Context()); err != nil {
		composables.UseLogger(r.Context()).WithError(err).Warn("directory reload failed")
		_ = httpapi.WriteRequestError(w, r, http.StatusServiceUnavailable, httpapi.CodeDirectoryNotLoaded, err.Error())
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, c.healthViewModel())
}

func (c *DirectoryAPIController) ListPersons(w http.ResponseWriter, r *http.Request) {
	q, verrs, err := composables.UseValidQuery(&dtos.PersonsQueryDTO{}, r)
	if err != nil || verrs != nil {
		writeInvalid(w, r, err, verrs)
		return
	}
	snap, ok := c.requireLoaded(w, r)
	if !ok {
		return
	}
	persons := snap.Filter(q.ToCriteria())
	_ = httpapi.WriteJSON(w, http.StatusOK, mappers.PersonsToPage(persons, q.PageLimit(), q.Offset))
}

func (c *DirectoryAPIController) GetPerson(w http.ResponseWriter, r *http.Request) {
	snap, ok := c.requireLoaded(w, r)
	if !ok {
		return
	}
	id := mux.Vars(r)["id"]
	p, found := snap.Person(id)
	if !found {
		_ = httpapi.WriteRequestError(w, r, http.StatusNotFound, httpapi.CodeNotFound, "person "+id+" not found")
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, mappers.PersonToViewModel(p))
}

func (c *DirectoryAPIController) Search(w http.ResponseWriter, r *http.Request) {
	q, verrs, err := composables.UseValidQuery(&dtos.SearchQueryDTO{}, r)
	if err != nil || verrs != nil {
		writeInvalid(w, r, err, verrs)
		return
	}
	snap, ok := c.requireLoaded(w, r)
	if !ok {
		return
	}
	results := snap.Search(q.Q)
	_ = httpapi.WriteJSON(w, http.StatusOK, mappers.SearchResultsToViewModel(q.Q, results))
}

func (c *DirectoryAPIController) GetHierarchy(w http.ResponseWriter, r *http.Request) {
	q, verrs, err := composables.UseValidQuery(&dtos.HierarchyQueryDTO{}, r)
	if err != nil || verrs != nil {
		writeInvalid(w, r, err, verrs)
		return
	}
	snap, ok := c.requireLoaded(w, r)
	if !ok {
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, mappers.HierarchyToViewModel(snap.Hierarchy, q.Tree))
}

func (c *DirectoryAPIController) GetServiceHierarchy(w http.ResponseWriter, r *http.Request) {
	q, verrs, err := composables.UseValidQuery(&dtos.HierarchyQueryDTO{}, r)
	if err != nil || verrs != nil {
		writeInvalid(w, r, err, verrs)
		return
	}
	snap, ok := c.requireLoaded(w, r)
	if !ok {
		return
	}
	service := mux.Vars(r)["service"]
	h := snap.Hierarchy
	for _, s := range h.Services() {
		if strings.EqualFold(s, service) {
			_ = httpapi.WriteJSON(w, http.StatusOK, mappers.ServiceHierarchy(h, s, q.Tree))
			return
		}
	}
	_ = httpapi.WriteRequestError(w, r, http.StatusNotFound, httpapi.CodeNotFound, "service "+service+" has no organizations")
}

func (c *DirectoryAPIController) GetStats(w http.ResponseWriter, r *http.Request) {
	q, verrs, err := composables.UseValidQuery(&dtos.CriteriaQueryDTO{}, r)
	if err != nil || verrs != nil {
		writeInvalid(w, r, err, verrs)
		return
	}
	snap, ok := c.requireLoaded(w, r)
	if !ok {
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, snap.FilteredStats(q.ToCriteria()))
}

func (c *DirectoryAPIController) GetQualityReport(w http.ResponseWriter, r *http.Request) {
	snap, ok := c.requireLoaded(w, r)
	if !ok {
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, snap.QualityReport())
}

func (c *DirectoryAPIController) GetValues(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["field"]
	field, ok := person.ParseField(name)
	if !ok {
		_ = httpapi.WriteRequestError(w, r, http.StatusBadRequest, httpapi.CodeInvalidRequest, "unknown field "+name)
		return
	}
	q, verrs, err := composables.UseValidQuery(&dtos.ValuesQueryDTO{}, r)
	if err != nil || verrs != nil {
		writeInvalid(w, r, err, verrs)
		return
	}
	snap, ok := c.requireLoaded(w, r)
	if !ok {
		return
	}

	values := snap.Values(field, q.Q, q.SuggestLimit())
	if values == nil {
		values = []string{}
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, viewmodels.Values{Field: string(field), Query: q.Q, Values: values})
}

func (c *DirectoryAPIController) ListRelationships(w http.ResponseWriter, r *http.Request) {
	snap, ok := c.requireLoaded(w, r)
	if !ok {
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, mappers.RelationshipsToViewModels(snap.Relationships))
}

func (c *DirectoryAPIController) GetRelationshipReport(w http.ResponseWriter, r *http.Request) {
	snap, ok := c.requireLoaded(w, r)
	if !ok {
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, snap.RelationshipReport)
}

func (c *DirectoryAPIController) filteredForExport(w http.ResponseWriter, r *http.Request) ([]person.Person, bool) {
	q, verrs, err := composables.UseValidQuery(&dtos.CriteriaQueryDTO{}, r)
	if err != nil || verrs != nil {
		writeInvalid(w, r, err, verrs)
		return nil, false
	}
	snap, ok := c.requireLoaded(w, r)
	if !ok {
		return nil, false
	}
	return snap.Filter(q.ToCriteria()), true
}

func (c *DirectoryAPIController) ExportCSV(w http.ResponseWriter, r *http.Request) {
	persons, ok := c.filteredForExport(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", csvContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="directory.csv"`)
	if err := services.WriteCSV(w, persons); err != nil {
		composables.UseLogger(r.Context()).WithError(err).Error("csv export failed")
	}
}

func (c *DirectoryAPIController) ExportXLSX(w http.ResponseWriter, r *http.Request) {
	persons, ok := c.filteredForExport(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="directory.xlsx"`)
	if err := services.WriteXLSX(w, persons); err != nil {
		composables.UseLogger(r.Context()).WithError(err).Error("xlsx export failed")
	}
}

func (c *DirectoryAPIController) Spotlight(w http.ResponseWriter, r *http.Request) {
	q := composables.GetLastQueryParam(r, "q")
	_ = httpapi.WriteJSON(w, http.StatusOK, c.app.Spotlight().Find(r.Context(), q))
}
