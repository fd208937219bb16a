package ebui

import (
	"encoding/json"
	"errors"
	"math/rand/v2"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/acksell/jassy/eventbridge/ebgen"
	"github.com/acksell/jassy/eventbridge/ebsdk"
	"github.com/acksell/jassy/eventbridge/ebstore"
	"github.com/acksell/jassy/eventbridge/pattern"
	"github.com/acksell/jassy/eventbridge/registry"
	"github.com/acksell/jassy/eventbridge/schema"
)

// APIHandler provides the JSON API over the registry, generator and bus.
type APIHandler struct {
	registry *registry.Registry
	store    *ebstore.Store
	bus      ebsdk.IO
	metrics  *Metrics
	region   string
	log      zerolog.Logger
}

// NewAPIHandler creates an API handler. Publishing goes through the
// ebsdk client so the server exercises the same entry construction as
// publishing to AWS.
func NewAPIHandler(reg *registry.Registry, store *ebstore.Store, metrics *Metrics, region string, log zerolog.Logger) *APIHandler {
	return &APIHandler{
		registry: reg,
		store:    store,
		bus:      ebsdk.New(store),
		metrics:  metrics,
		region:   region,
		log:      log,
	}
}

// Routes mounts all API routes.
func (h *APIHandler) Routes(r chi.Router) {
	r.Get("/schemas", h.listSchemas)
	r.Post("/generate", h.generateEvent)
	r.Post("/publish", h.publishEvent)
	r.Post("/test-pattern", h.testPattern)
	r.Get("/events", h.listEvents)
	r.Get("/events/{id}", h.getEvent)
	r.Get("/buses", h.listBuses)
	r.Post("/buses", h.createBus)
	r.Get("/rules", h.listRules)
	r.Post("/rules", h.putRule)
	r.Delete("/rules/{name}", h.deleteRule)
	r.Get("/rules/{name}/deliveries", h.listDeliveries)
}

// listSchemas returns the discovered schema files grouped by service.
func (h *APIHandler) listSchemas(w http.ResponseWriter, r *http.Request) {
	entries, err := h.registry.List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "listing schemas: "+err.Error())
		return
	}
	schemas := make([]map[string]any, 0, len(entries))
	services := make(map[string][]string)
	for _, e := range entries {
		schemas = append(schemas, map[string]any{
			"service": e.Service,
			"event":   e.Event,
			"name":    e.Name(),
		})
		services[e.Service] = append(services[e.Service], e.Event)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"schemas":  schemas,
		"services": services,
		"count":    len(schemas),
	})
}

// GenerateRequest is the JSON request body for generating an event.
type GenerateRequest struct {
	// EventType is resolved through the registry lookup strategies,
	// e.g. "s3:ObjectCreated", "s3" or a filename.
	EventType string `json:"eventType"`
	// Seed pins the randomness source for reproducible output.
	Seed *uint64 `json:"seed,omitempty"`
}

// generateEvent generates one sample event from a requested event type.
func (h *APIHandler) generateEvent(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.EventType == "" {
		writeError(w, http.StatusBadRequest, "eventType is required")
		return
	}

	evt, entry, status, err := h.generate(req.EventType, req.Seed)
	if err != nil {
		writeError(w, status, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"eventType": entry.Name(),
		"event":     evt,
	})
}

// PublishRequest is the JSON request body for publishing onto the local
// bus. Either EventType (generate then publish) or Event (publish as
// given) must be set.
type PublishRequest struct {
	EventType string       `json:"eventType,omitempty"`
	Event     *ebgen.Event `json:"event,omitempty"`
	Bus       string       `json:"bus,omitempty"`
	Seed      *uint64      `json:"seed,omitempty"`
}

// publishEvent publishes onto the local bus, generating first when an
// event type was requested instead of a concrete event.
func (h *APIHandler) publishEvent(w http.ResponseWriter, r *http.Request) {
	var req PublishRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	evt := req.Event
	eventType := ""
	if evt == nil {
		if req.EventType == "" {
			writeError(w, http.StatusBadRequest, "eventType or event is required")
			return
		}
		generated, entry, status, err := h.generate(req.EventType, req.Seed)
		if err != nil {
			writeError(w, status, err.Error())
			return
		}
		evt = generated
		eventType = entry.Name()
	}

	id, err := h.bus.Publish(r.Context(), evt, req.Bus)
	if err != nil {
		h.metrics.PublishFailures.Inc()
		writeError(w, http.StatusUnprocessableEntity, "publish: "+err.Error())
		return
	}
	h.metrics.EventsPublished.Inc()
	h.log.Info().Str("eventId", id).Str("source", evt.Source).Msg("event published")

	resp := map[string]any{"eventId": id, "event": evt}
	if eventType != "" {
		resp["eventType"] = eventType
	}
	writeJSON(w, http.StatusOK, resp)
}

// generate resolves an event type to a schema file and produces one
// event, reporting an HTTP status for each failure mode.
func (h *APIHandler) generate(eventType string, seed *uint64) (*ebgen.Event, registry.Entry, int, error) {
	entry, err := h.registry.Find(eventType)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, registry.ErrSchemaNotFound) {
			status = http.StatusNotFound
		}
		return nil, registry.Entry{}, status, err
	}
	doc, err := schema.Load(entry.Path)
	if err != nil {
		return nil, entry, http.StatusInternalServerError, err
	}

	opts := ebgen.Options{Region: h.region}
	if seed != nil {
		opts.Rand = rand.New(rand.NewPCG(*seed, *seed))
	}
	evt, err := ebgen.New(opts).Generate(doc)
	if err != nil {
		// The schema file exists but cannot be generated from.
		return nil, entry, http.StatusUnprocessableEntity, err
	}
	h.metrics.EventsGenerated.Inc()
	return evt, entry, http.StatusOK, nil
}

// TestPatternRequest is the JSON request body for local pattern testing.
type TestPatternRequest struct {
	Pattern json.RawMessage `json:"pattern"`
	Event   json.RawMessage `json:"event"`
}

// testPattern evaluates an event pattern against an event document.
func (h *APIHandler) testPattern(w http.ResponseWriter, r *http.Request) {
	var req TestPatternRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	p, err := pattern.Parse(req.Pattern)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid pattern: "+err.Error())
		return
	}
	matches, err := p.MatchesJSON(req.Event)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid event: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"matches": matches})
}

// listEvents returns archived events, newest first.
func (h *APIHandler) listEvents(w http.ResponseWriter, r *http.Request) {
	q := ebstore.EventQuery{
		Bus:          r.URL.Query().Get("bus"),
		SourcePrefix: r.URL.Query().Get("sourcePrefix"),
		Limit:        parseIntParam(r, "limit", 0),
	}
	events, err := h.store.Events(r.Context(), q)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "listing events: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"events": events, "count": len(events)})
}

// getEvent looks up one archived event by id.
func (h *APIHandler) getEvent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	stored, err := h.store.GetEvent(r.Context(), r.URL.Query().Get("bus"), id)
	if err != nil {
		if errors.Is(err, ebstore.ErrNotFound) {
			writeError(w, http.StatusNotFound, "event not found: "+id)
			return
		}
		writeError(w, http.StatusInternalServerError, "get event: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, stored)
}

// listBuses returns all event buses.
func (h *APIHandler) listBuses(w http.ResponseWriter, r *http.Request) {
	buses, err := h.store.ListBuses(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "listing buses: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"buses": buses})
}

// CreateBusRequest is the JSON request body for creating a bus.
type CreateBusRequest struct {
	Name string `json:"name"`
}

func (h *APIHandler) createBus(w http.ResponseWriter, r *http.Request) {
	var req CreateBusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	if err := h.store.CreateBus(r.Context(), req.Name); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"name": req.Name})
}

// listRules returns the rules of one bus.
func (h *APIHandler) listRules(w http.ResponseWriter, r *http.Request) {
	rules, err := h.store.ListRules(r.Context(), r.URL.Query().Get("bus"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "listing rules: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"rules": rules, "count": len(rules)})
}

// putRule creates or replaces a rule.
func (h *APIHandler) putRule(w http.ResponseWriter, r *http.Request) {
	var rule ebstore.Rule
	if err := json.NewDecoder(r.Body).Decode(&rule); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if err := h.store.PutRule(r.Context(), rule); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"name": rule.Name})
}

// deleteRule removes a rule from its bus.
func (h *APIHandler) deleteRule(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	err := h.store.DeleteRule(r.Context(), r.URL.Query().Get("bus"), name)
	if err != nil {
		if errors.Is(err, ebstore.ErrNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "delete rule: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted": name})
}

// listDeliveries returns the deliveries recorded for one rule.
func (h *APIHandler) listDeliveries(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	deliveries, err := h.store.Deliveries(r.Context(), r.URL.Query().Get("bus"), name)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "listing deliveries: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deliveries": deliveries, "count": len(deliveries)})
}

// Helper functions

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"error": message})
}

func parseIntParam(r *http.Request, name string, defaultVal int) int {
	s := r.URL.Query().Get(name)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return defaultVal
	}
	return v
}
