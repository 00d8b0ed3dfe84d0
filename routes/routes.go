package routes

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"recordbook/controllers"
	"recordbook/middleware"
	"recordbook/models"
	"recordbook/storage"
)

// SetupRoutes mounts the CRUD endpoints of every schema under
// /{collection}, plus /metrics and /healthz.
func SetupRoutes(store storage.Store, reg *prometheus.Registry, schemas ...models.Schema) http.Handler {
	r := mux.NewRouter()
	r.Use(middleware.NewMetrics(reg).Middleware)

	for _, schema := range schemas {
		c := controllers.NewRecordController(schema, store)
		base := "/" + schema.Collection

		r.HandleFunc(base, c.CreateRecord).Methods("POST")
		r.HandleFunc(base, c.ListRecords).Methods("GET")
		r.HandleFunc(base+"/all", c.ListAllRecords).Methods("GET")
		r.HandleFunc(base+"/{id}", c.GetRecord).Methods("GET")
		r.HandleFunc(base+"/{id}", c.UpdateRecord).Methods("PUT")
		r.HandleFunc(base+"/{id}", c.DeleteRecord).Methods("DELETE")
	}

	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{})).Methods("GET")
	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods("GET")

	return middleware.Logging(middleware.CORS(r))
}
