package registry

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/doctalk-ai/doctalk/internal/domain/docModel"
	"github.com/doctalk-ai/doctalk/pkg/logger_i"
)

// Registry is the in-memory catalogue of uploaded documents. A document
// enters as processing, and becomes ready or failed exactly once. Two
// documents never stay ready under the same filename: promoting a
// document evicts the previous holder of its name.
type Registry struct {
	mu     sync.RWMutex
	byId   map[string]*docModel.Document
	logger *logger_i.Logger
}

func New() *Registry {
	return &Registry{
		byId:   make(map[string]*docModel.Document),
		logger: logger_i.NewLogger("DocumentRegistry"),
	}
}

// Register records a new upload in processing state and returns its
// snapshot. Any existing document under the same name stays untouched
// until this one is promoted, so queries keep working mid-ingestion.
func (r *Registry) Register(name string, language string) docModel.Document {
	doc := docModel.Document{
		Id:         uuid.New().String(),
		Name:       name,
		Language:   language,
		Status:     docModel.StatusProcessing,
		IngestedAt: time.Now().UTC(),
	}

	r.mu.Lock()
	r.byId[doc.Id] = &doc
	r.mu.Unlock()

	r.logger.Info("document registered", "documentId", doc.Id, "name", name)
	return doc
}

// Get returns a snapshot of the document or a not-found error.
func (r *Registry) Get(id string) (docModel.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	doc, ok := r.byId[id]
	if !ok {
		return docModel.Document{}, docModel.E(docModel.KindNotFound, "document "+id+" does not exist", nil)
	}
	return *doc, nil
}

// List returns the ready documents ordered by ingestion time, ties
// broken by ID, so listings are stable across calls.
func (r *Registry) List() []docModel.Document {
	r.mu.RLock()
	out := make([]docModel.Document, 0, len(r.byId))
	for _, doc := range r.byId {
		if doc.Status == docModel.StatusReady {
			out = append(out, *doc)
		}
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].IngestedAt.Equal(out[j].IngestedAt) {
			return out[i].IngestedAt.Before(out[j].IngestedAt)
		}
		return out[i].Id < out[j].Id
	})
	return out
}

// ReadyIds returns the IDs of every queryable document.
func (r *Registry) ReadyIds() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.byId))
	for id, doc := range r.byId {
		if doc.Status == docModel.StatusReady {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// ReadyIdForName returns the ID of the ready document currently holding
// name, excluding excludeId. Used by ingestion to pick the eviction
// target before swapping index contents.
func (r *Registry) ReadyIdForName(name string, excludeId string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for id, doc := range r.byId {
		if id != excludeId && doc.Name == name && doc.Status == docModel.StatusReady {
			return id
		}
	}
	return ""
}

// MarkReady promotes id to ready and, inside the same critical section,
// removes every other document registered under the same name. It
// returns the removed IDs so the caller can purge their index entries.
// Resolving the collision here keeps the registry the single authority
// on which document owns a filename, even when two uploads of the same
// file finish back to back.
func (r *Registry) MarkReady(id string, chunkCount int) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, ok := r.byId[id]
	if !ok {
		return nil, docModel.E(docModel.KindNotFound, "document "+id+" does not exist", nil)
	}
	doc.Status = docModel.StatusReady
	doc.ChunkCount = chunkCount
	doc.FailReason = ""

	var evicted []string
	for otherId, other := range r.byId {
		if otherId == id || other.Name != doc.Name {
			continue
		}
		if other.Status == docModel.StatusReady || other.Status == docModel.StatusFailed {
			delete(r.byId, otherId)
			evicted = append(evicted, otherId)
		}
	}
	sort.Strings(evicted)

	if len(evicted) > 0 {
		r.logger.Info("filename overwrite", "name", doc.Name, "documentId", id, "evicted", evicted)
	}
	return evicted, nil
}

// SetLanguage records the detected document language. Uploads register
// before extraction runs, so the language arrives mid-ingestion.
func (r *Registry) SetLanguage(id string, language string) {
	r.mu.Lock()
	if doc, ok := r.byId[id]; ok {
		doc.Language = language
	}
	r.mu.Unlock()
}

// MarkFailed records a terminal ingestion failure. Failed documents
// never appear in listings but stay retrievable by ID for status polls.
func (r *Registry) MarkFailed(id string, reason string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, ok := r.byId[id]
	if !ok {
		return docModel.E(docModel.KindNotFound, "document "+id+" does not exist", nil)
	}
	doc.Status = docModel.StatusFailed
	doc.FailReason = reason
	return nil
}

// Remove drops the document outright. Missing IDs are not an error so
// cleanup paths can call it unconditionally.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	delete(r.byId, id)
	r.mu.Unlock()
}
