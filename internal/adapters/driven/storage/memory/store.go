// Package memory provides an in-memory record store for tests and ephemeral sessions.
package memory

import (
	"cmp"
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/custodia-labs/lingua/internal/core/domain"
	"github.com/custodia-labs/lingua/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.RecordStore = (*Store)(nil)

type segmentKey struct {
	articleID string
	index     int
}

// Store is an in-memory implementation of driven.RecordStore.
// Records are copied on the way in and out so callers never share state.
type Store struct {
	mu          sync.RWMutex
	articles    map[string]domain.Article
	segments    map[segmentKey]domain.Segment
	flashcards  map[string]domain.Flashcard
	settings    *domain.Settings
	collections map[string]domain.Collection
}

// NewStore creates a new empty in-memory store.
func NewStore() *Store {
	return &Store{
		articles:    make(map[string]domain.Article),
		segments:    make(map[segmentKey]domain.Segment),
		flashcards:  make(map[string]domain.Flashcard),
		collections: make(map[string]domain.Collection),
	}
}

// Close is a no-op.
func (s *Store) Close() error {
	return nil
}

// Articles returns the article store.
func (s *Store) Articles() driven.ArticleStore { return articleStore{s} }

// Segments returns the segment store.
func (s *Store) Segments() driven.SegmentStore { return segmentStore{s} }

// Flashcards returns the flashcard store.
func (s *Store) Flashcards() driven.FlashcardStore { return flashcardStore{s} }

// Settings returns the settings store.
func (s *Store) Settings() driven.SettingsStore { return settingsStore{s} }

// Collections returns the collection store.
func (s *Store) Collections() driven.CollectionStore { return collectionStore{s} }

// ==================== Transactions ====================

type txKey struct{}

type txState struct {
	store *Store
	mode  driven.TxMode
	kinds []domain.EntityKind
}

func (s *Store) txFrom(ctx context.Context) *txState {
	state, _ := ctx.Value(txKey{}).(*txState)
	if state == nil || state.store != s {
		return nil
	}
	return state
}

// snapshot holds copies of the maps of the kinds a transaction may write.
type snapshot struct {
	articles    map[string]domain.Article
	segments    map[segmentKey]domain.Segment
	flashcards  map[string]domain.Flashcard
	settings    *domain.Settings
	collections map[string]domain.Collection
	kinds       []domain.EntityKind
}

func (s *Store) takeSnapshot(kinds []domain.EntityKind) snapshot {
	snap := snapshot{kinds: kinds}
	for _, kind := range kinds {
		switch kind {
		case domain.KindArticles:
			snap.articles = maps.Clone(s.articles)
		case domain.KindSegments:
			snap.segments = maps.Clone(s.segments)
		case domain.KindFlashcards:
			snap.flashcards = maps.Clone(s.flashcards)
		case domain.KindSettings:
			snap.settings = s.settings
		case domain.KindCollections:
			snap.collections = maps.Clone(s.collections)
		}
	}
	return snap
}

func (s *Store) restore(snap snapshot) {
	for _, kind := range snap.kinds {
		switch kind {
		case domain.KindArticles:
			s.articles = snap.articles
		case domain.KindSegments:
			s.segments = snap.segments
		case domain.KindFlashcards:
			s.flashcards = snap.flashcards
		case domain.KindSettings:
			s.settings = snap.settings
		case domain.KindCollections:
			s.collections = snap.collections
		}
	}
}

// RunInTx runs fn holding the store lock. Read-write transactions take the
// write lock and restore the scoped kinds if fn fails or panics.
func (s *Store) RunInTx(ctx context.Context, mode driven.TxMode, kinds []domain.EntityKind, fn func(ctx context.Context) error) (err error) {
	if outer := s.txFrom(ctx); outer != nil {
		if mode == driven.TxReadWrite && outer.mode != driven.TxReadWrite {
			return fmt.Errorf("%w: read-write transaction inside read-only transaction", domain.ErrTxScope)
		}
		return fn(ctx)
	}

	state := &txState{store: s, mode: mode, kinds: kinds}
	txCtx := context.WithValue(ctx, txKey{}, state)

	if mode != driven.TxReadWrite {
		s.mu.RLock()
		defer s.mu.RUnlock()
		return fn(txCtx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.takeSnapshot(kinds)
	defer func() {
		if p := recover(); p != nil {
			s.restore(snap)
			panic(p)
		}
		if err != nil {
			s.restore(snap)
		}
	}()

	return fn(txCtx)
}

// rlock takes the read lock unless ctx already holds the store in a transaction.
func (s *Store) rlock(ctx context.Context) func() {
	if s.txFrom(ctx) != nil {
		return func() {}
	}
	s.mu.RLock()
	return s.mu.RUnlock
}

// lock takes the write lock for kind, or checks the scope of the transaction in ctx.
func (s *Store) lock(ctx context.Context, kind domain.EntityKind) (func(), error) {
	state := s.txFrom(ctx)
	if state == nil {
		s.mu.Lock()
		return s.mu.Unlock, nil
	}
	if state.mode != driven.TxReadWrite {
		return nil, fmt.Errorf("%w: write to %s in read-only transaction", domain.ErrTxScope, kind)
	}
	if !slices.Contains(state.kinds, kind) {
		return nil, fmt.Errorf("%w: %s is outside the transaction scope", domain.ErrTxScope, kind)
	}
	return func() {}, nil
}

// ==================== Copies ====================

func cloneWord(w domain.WordAnalysis) domain.WordAnalysis {
	w.Collocations = slices.Clone(w.Collocations)
	return w
}

func cloneSegment(seg domain.Segment) domain.Segment {
	if seg.AnalyzedWords != nil {
		words := make([]domain.WordAnalysis, len(seg.AnalyzedWords))
		for i, w := range seg.AnalyzedWords {
			words[i] = cloneWord(w)
		}
		seg.AnalyzedWords = words
	}
	seg.ApprovedWordIDs = slices.Clone(seg.ApprovedWordIDs)
	return seg
}

func cloneArticle(a domain.Article) domain.Article {
	if a.Segments != nil {
		segments := make([]domain.Segment, len(a.Segments))
		for i, seg := range a.Segments {
			segments[i] = cloneSegment(seg)
		}
		a.Segments = segments
	}
	return a
}

func cloneCard(c domain.Flashcard) domain.Flashcard {
	c.WordAnalysis = cloneWord(c.WordAnalysis)
	return c
}

func cloneSettings(s domain.Settings) domain.Settings {
	s.EnabledTypes = slices.Clone(s.EnabledTypes)
	return s
}

// ==================== Article Store ====================

type articleStore struct{ s *Store }

// Put stores or replaces an article.
func (st articleStore) Put(ctx context.Context, article domain.Article) error {
	if article.ID == "" {
		return fmt.Errorf("%w: article id is required", domain.ErrInvalidInput)
	}
	unlock, err := st.s.lock(ctx, domain.KindArticles)
	if err != nil {
		return err
	}
	defer unlock()
	st.s.articles[article.ID] = cloneArticle(article)
	return nil
}

// Get retrieves an article by ID.
func (st articleStore) Get(ctx context.Context, id string) (*domain.Article, error) {
	defer st.s.rlock(ctx)()
	article, ok := st.s.articles[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	article = cloneArticle(article)
	return &article, nil
}

// ListByProcessedAt returns all articles, oldest first.
func (st articleStore) ListByProcessedAt(ctx context.Context) ([]domain.Article, error) {
	defer st.s.rlock(ctx)()
	articles := make([]domain.Article, 0, len(st.s.articles))
	for _, a := range st.s.articles {
		articles = append(articles, cloneArticle(a))
	}
	slices.SortFunc(articles, func(a, b domain.Article) int {
		return cmp.Or(cmp.Compare(a.ProcessedAt, b.ProcessedAt), cmp.Compare(a.ID, b.ID))
	})
	return articles, nil
}

// Count returns the number of articles.
func (st articleStore) Count(ctx context.Context) (int, error) {
	defer st.s.rlock(ctx)()
	return len(st.s.articles), nil
}

// ==================== Segment Store ====================

type segmentStore struct{ s *Store }

// Put stores or replaces a segment.
func (st segmentStore) Put(ctx context.Context, segment domain.Segment) error {
	if segment.ArticleID == "" || segment.Index < 0 {
		return fmt.Errorf("%w: segment needs an article id and a non-negative index", domain.ErrInvalidInput)
	}
	unlock, err := st.s.lock(ctx, domain.KindSegments)
	if err != nil {
		return err
	}
	defer unlock()
	st.s.segments[segmentKey{segment.ArticleID, segment.Index}] = cloneSegment(segment)
	return nil
}

// Get retrieves a segment by article and index.
func (st segmentStore) Get(ctx context.Context, articleID string, index int) (*domain.Segment, error) {
	defer st.s.rlock(ctx)()
	seg, ok := st.s.segments[segmentKey{articleID, index}]
	if !ok {
		return nil, domain.ErrNotFound
	}
	seg = cloneSegment(seg)
	return &seg, nil
}

// ListByArticle returns the segments of one article in index order.
func (st segmentStore) ListByArticle(ctx context.Context, articleID string) ([]domain.Segment, error) {
	defer st.s.rlock(ctx)()
	var out []domain.Segment
	for key, seg := range st.s.segments {
		if key.articleID == articleID {
			out = append(out, cloneSegment(seg))
		}
	}
	slices.SortFunc(out, compareSegments)
	return out, nil
}

// List returns every segment ordered by article id then index.
func (st segmentStore) List(ctx context.Context) ([]domain.Segment, error) {
	defer st.s.rlock(ctx)()
	out := make([]domain.Segment, 0, len(st.s.segments))
	for _, seg := range st.s.segments {
		out = append(out, cloneSegment(seg))
	}
	slices.SortFunc(out, compareSegments)
	return out, nil
}

// Count returns the number of segments.
func (st segmentStore) Count(ctx context.Context) (int, error) {
	defer st.s.rlock(ctx)()
	return len(st.s.segments), nil
}

func compareSegments(a, b domain.Segment) int {
	return cmp.Or(cmp.Compare(a.ArticleID, b.ArticleID), cmp.Compare(a.Index, b.Index))
}

// ==================== Flashcard Store ====================

type flashcardStore struct{ s *Store }

// Put stores or replaces a flashcard.
func (st flashcardStore) Put(ctx context.Context, card domain.Flashcard) error {
	if card.ID == "" {
		return fmt.Errorf("%w: flashcard id is required", domain.ErrInvalidInput)
	}
	unlock, err := st.s.lock(ctx, domain.KindFlashcards)
	if err != nil {
		return err
	}
	defer unlock()
	st.s.flashcards[card.ID] = cloneCard(card)
	return nil
}

// Get retrieves a flashcard by ID.
func (st flashcardStore) Get(ctx context.Context, id string) (*domain.Flashcard, error) {
	defer st.s.rlock(ctx)()
	card, ok := st.s.flashcards[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	card = cloneCard(card)
	return &card, nil
}

// FindByIndex returns flashcards whose index key falls in r.
func (st flashcardStore) FindByIndex(ctx context.Context, index domain.FlashcardIndex, r domain.KeyRange, limit int) ([]domain.Flashcard, error) {
	if !index.IsValid() {
		return nil, fmt.Errorf("%w: unknown flashcard index %q", domain.ErrInvalidInput, index)
	}
	defer st.s.rlock(ctx)()

	var out []domain.Flashcard
	for _, card := range st.s.flashcards {
		if r.Contains(index.KeyOf(&card)) {
			out = append(out, cloneCard(card))
		}
	}
	slices.SortFunc(out, func(a, b domain.Flashcard) int {
		return cmp.Or(domain.CompareKeys(index.KeyOf(&a), index.KeyOf(&b)), cmp.Compare(a.ID, b.ID))
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// List returns every flashcard ordered by id.
func (st flashcardStore) List(ctx context.Context) ([]domain.Flashcard, error) {
	defer st.s.rlock(ctx)()
	out := make([]domain.Flashcard, 0, len(st.s.flashcards))
	for _, card := range st.s.flashcards {
		out = append(out, cloneCard(card))
	}
	slices.SortFunc(out, func(a, b domain.Flashcard) int { return cmp.Compare(a.ID, b.ID) })
	return out, nil
}

// Count returns the number of flashcards.
func (st flashcardStore) Count(ctx context.Context) (int, error) {
	defer st.s.rlock(ctx)()
	return len(st.s.flashcards), nil
}

// ==================== Settings Store ====================

type settingsStore struct{ s *Store }

// Put stores the settings record under the fixed settings id.
func (st settingsStore) Put(ctx context.Context, settings domain.Settings) error {
	unlock, err := st.s.lock(ctx, domain.KindSettings)
	if err != nil {
		return err
	}
	defer unlock()
	settings = cloneSettings(settings)
	settings.ID = domain.SettingsID
	st.s.settings = &settings
	return nil
}

// Get retrieves the stored settings record.
func (st settingsStore) Get(ctx context.Context) (*domain.Settings, error) {
	defer st.s.rlock(ctx)()
	if st.s.settings == nil {
		return nil, domain.ErrNotFound
	}
	settings := cloneSettings(*st.s.settings)
	return &settings, nil
}

// ==================== Collection Store ====================

type collectionStore struct{ s *Store }

// Put stores or replaces a collection.
func (st collectionStore) Put(ctx context.Context, collection domain.Collection) error {
	if collection.ID == "" {
		return fmt.Errorf("%w: collection id is required", domain.ErrInvalidInput)
	}
	unlock, err := st.s.lock(ctx, domain.KindCollections)
	if err != nil {
		return err
	}
	defer unlock()
	st.s.collections[collection.ID] = collection
	return nil
}

// Get retrieves a collection by ID.
func (st collectionStore) Get(ctx context.Context, id string) (*domain.Collection, error) {
	defer st.s.rlock(ctx)()
	c, ok := st.s.collections[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &c, nil
}

// List returns every collection ordered by id.
func (st collectionStore) List(ctx context.Context) ([]domain.Collection, error) {
	defer st.s.rlock(ctx)()
	out := slices.Collect(maps.Values(st.s.collections))
	slices.SortFunc(out, func(a, b domain.Collection) int { return cmp.Compare(a.ID, b.ID) })
	return out, nil
}

// Count returns the number of collections.
func (st collectionStore) Count(ctx context.Context) (int, error) {
	defer st.s.rlock(ctx)()
	return len(st.s.collections), nil
}
