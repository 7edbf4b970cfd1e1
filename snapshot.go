package readthis

import "context"

// Snapshot is one immutable version of the identifier-to-document mapping.
// It is safe for concurrent use; accessors return copies.
type Snapshot struct {
	generation uint64
	documents  []DocumentSpec
	index      map[string]int
}

// NewSnapshot validates docs and returns a snapshot holding a copy of them.
// Returns ECONFIGSCHEMA for an invalid entry and EDUPLICATEID when two
// entries share an identifier.
func NewSnapshot(generation uint64, docs []DocumentSpec) (*Snapshot, error) {
	s := &Snapshot{
		generation: generation,
		documents:  make([]DocumentSpec, len(docs)),
		index:      make(map[string]int, len(docs)),
	}
	for i, doc := range docs {
		if err := doc.Validate(); err != nil {
			return nil, err
		}
		if prev, ok := s.index[doc.ID]; ok {
			return nil, Errorf(EDUPLICATEID, "duplicate document id %q (entries %d and %d)", doc.ID, prev+1, i+1)
		}
		s.index[doc.ID] = i
		s.documents[i] = doc
	}
	return s, nil
}

// Generation returns the snapshot's generation number.
func (s *Snapshot) Generation() uint64 {
	if s == nil {
		return 0
	}
	return s.generation
}

// Len returns the number of documents in the snapshot.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.documents)
}

// Documents returns the documents in file order.
func (s *Snapshot) Documents() []DocumentSpec {
	if s == nil {
		return nil
	}
	docs := make([]DocumentSpec, len(s.documents))
	copy(docs, s.documents)
	return docs
}

// Map returns the documents keyed by identifier.
func (s *Snapshot) Map() map[string]DocumentSpec {
	m := make(map[string]DocumentSpec, s.Len())
	if s == nil {
		return m
	}
	for _, doc := range s.documents {
		m[doc.ID] = doc
	}
	return m
}

// Lookup returns the document registered under id.
func (s *Snapshot) Lookup(id string) (DocumentSpec, bool) {
	if s == nil {
		return DocumentSpec{}, false
	}
	i, ok := s.index[id]
	if !ok {
		return DocumentSpec{}, false
	}
	return s.documents[i], true
}

// Resolve maps a token to an address. A registered identifier resolves to
// its configured URL; otherwise a token that is itself an absolute URI is
// returned unchanged. Anything else fails with EINVALIDREF.
func (s *Snapshot) Resolve(token string) (string, error) {
	if doc, ok := s.Lookup(token); ok {
		return doc.URL, nil
	}
	if IsAbsoluteURL(token) {
		return token, nil
	}
	return "", Errorf(EINVALIDREF, "invalid document id %q: pass a URL or an id defined in the manual file", token)
}

// ReloadResult reports the outcome of a manual reload.
type ReloadResult struct {
	Success       bool                    `json:"success"`
	Message       string                  `json:"message"`
	PreviousCount int                     `json:"previous_documents_count"`
	CurrentCount  int                     `json:"current_documents_count"`
	Generation    uint64                  `json:"generation"`
	Documents     map[string]DocumentSpec `json:"documents"`
}

// ManualRegistry holds the current snapshot and replaces it on reload.
type ManualRegistry interface {
	// Current returns the installed snapshot. Never blocks.
	Current() *Snapshot

	// Resolve resolves token against the current snapshot.
	Resolve(token string) (string, error)

	// Reload loads the manual file and installs it if valid.
	// On failure the current snapshot stays installed and the result
	// reports Success=false.
	Reload(ctx context.Context) *ReloadResult
}
