package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/Masterminds/squirrel"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/lingua/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/lingua/internal/core/domain"
	"github.com/custodia-labs/lingua/internal/core/ports/driven"
	"github.com/custodia-labs/lingua/internal/logger"
)

// DatabaseFile is the name of the database file inside the data directory.
const DatabaseFile = "lingua.db"

var _ driven.RecordStore = (*Store)(nil)

// Store is a unified SQLite-based record store that provides access to
// all entity stores through wrapper types.
type Store struct {
	// db begins transactions with BEGIN IMMEDIATE and serves writes.
	db *sql.DB

	// readDB begins deferred transactions and serves reads.
	readDB *sql.DB

	path string

	// writeMu serializes read-write transactions within the process.
	writeMu sync.Mutex
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.lingua/data/lingua.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".lingua", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, DatabaseFile)

	// WAL for concurrent readers; immediate locking so writers queue on busy_timeout
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn+"&_txlock=immediate")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	readDB, err := sql.Open("sqlite", dsn+"&_txlock=deferred")
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("opening read pool: %w", err)
	}
	s.readDB = readDB

	logger.Debug("opened record store at %s", dbPath)
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return errors.Join(s.readDB.Close(), s.db.Close())
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Articles returns an ArticleStore backed by this store.
func (s *Store) Articles() driven.ArticleStore {
	return &articleStore{store: s}
}

// Segments returns a SegmentStore backed by this store.
func (s *Store) Segments() driven.SegmentStore {
	return &segmentStore{store: s}
}

// Flashcards returns a FlashcardStore backed by this store.
func (s *Store) Flashcards() driven.FlashcardStore {
	return &flashcardStore{store: s}
}

// Settings returns a SettingsStore backed by this store.
func (s *Store) Settings() driven.SettingsStore {
	return &settingsStore{store: s}
}

// Collections returns a CollectionStore backed by this store.
func (s *Store) Collections() driven.CollectionStore {
	return &collectionStore{store: s}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}

		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		logger.Debug("applied migration %s", name)
	}

	return nil
}

// ==================== Transactions ====================

// querier is the subset of *sql.DB and *sql.Tx used by the entity stores.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type txKey struct{}

// txState is the transaction carried in a context handed out by RunInTx.
type txState struct {
	tx    *sql.Tx
	mode  driven.TxMode
	kinds []domain.EntityKind
}

func txFromContext(ctx context.Context) *txState {
	state, _ := ctx.Value(txKey{}).(*txState)
	return state
}

// RunInTx runs fn inside a database transaction scoped to kinds.
func (s *Store) RunInTx(ctx context.Context, mode driven.TxMode, kinds []domain.EntityKind, fn func(ctx context.Context) error) (err error) {
	if outer := txFromContext(ctx); outer != nil {
		if mode == driven.TxReadWrite && outer.mode != driven.TxReadWrite {
			return fmt.Errorf("%w: read-write transaction inside read-only transaction", domain.ErrTxScope)
		}
		return fn(ctx)
	}

	pool := s.readDB
	if mode == driven.TxReadWrite {
		s.writeMu.Lock()
		defer s.writeMu.Unlock()
		pool = s.db
	}

	tx, err := pool.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				logger.Warn("rolling back transaction: %v", rbErr)
			}
			return
		}
		if cErr := tx.Commit(); cErr != nil {
			err = fmt.Errorf("committing transaction: %w", cErr)
		}
	}()

	state := &txState{tx: tx, mode: mode, kinds: kinds}
	return fn(context.WithValue(ctx, txKey{}, state))
}

// reader returns the transaction carried by ctx, or the database.
func (s *Store) reader(ctx context.Context) querier {
	if state := txFromContext(ctx); state != nil {
		return state.tx
	}
	return s.readDB
}

// writer returns the querier for a write to kind, or ErrTxScope when the
// transaction in ctx does not permit it.
func (s *Store) writer(ctx context.Context, kind domain.EntityKind) (querier, error) {
	state := txFromContext(ctx)
	if state == nil {
		return s.db, nil
	}
	if state.mode != driven.TxReadWrite {
		return nil, fmt.Errorf("%w: write to %s in read-only transaction", domain.ErrTxScope, kind)
	}
	if !slices.Contains(state.kinds, kind) {
		return nil, fmt.Errorf("%w: %s is outside the transaction scope", domain.ErrTxScope, kind)
	}
	return state.tx, nil
}

// ==================== Encoding ====================

func encode(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("marshalling record: %w", err)
	}
	return string(data), nil
}

func decode[T any](data string) (T, error) {
	var v T
	if err := json.Unmarshal([]byte(data), &v); err != nil {
		return v, fmt.Errorf("unmarshalling record: %w", err)
	}
	return v, nil
}

// getOne scans a single data column into T.
func getOne[T any](row *sql.Row, what string) (*T, error) {
	var data string
	if err := row.Scan(&data); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning %s: %w", what, err)
	}
	v, err := decode[T](data)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// collect decodes every data column returned by rows.
func collect[T any](rows *sql.Rows, what string) ([]T, error) {
	defer rows.Close()

	var out []T //nolint:prealloc // size unknown from query
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scanning %s: %w", what, err)
		}
		v, err := decode[T](data)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating %s: %w", what, err)
	}
	return out, nil
}

func count(ctx context.Context, q querier, table string) (int, error) {
	var n int
	if err := q.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting %s: %w", table, err)
	}
	return n, nil
}

// ==================== Article Store ====================

// articleStore implements driven.ArticleStore.
type articleStore struct {
	store *Store
}

var _ driven.ArticleStore = (*articleStore)(nil)

// Put stores or replaces an article.
func (s *articleStore) Put(ctx context.Context, article domain.Article) error {
	if article.ID == "" {
		return fmt.Errorf("%w: article id is required", domain.ErrInvalidInput)
	}
	q, err := s.store.writer(ctx, domain.KindArticles)
	if err != nil {
		return err
	}
	data, err := encode(article)
	if err != nil {
		return err
	}

	_, err = q.ExecContext(ctx, `
		INSERT INTO articles (id, processed_at, collection_id, data)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			processed_at = excluded.processed_at,
			collection_id = excluded.collection_id,
			data = excluded.data
	`, article.ID, int64(article.ProcessedAt), article.CollectionID, data)
	if err != nil {
		return fmt.Errorf("saving article: %w", err)
	}
	return nil
}

// Get retrieves an article by ID.
func (s *articleStore) Get(ctx context.Context, id string) (*domain.Article, error) {
	row := s.store.reader(ctx).QueryRowContext(ctx, "SELECT data FROM articles WHERE id = ?", id)
	return getOne[domain.Article](row, "article")
}

// ListByProcessedAt returns all articles, oldest first.
func (s *articleStore) ListByProcessedAt(ctx context.Context) ([]domain.Article, error) {
	rows, err := s.store.reader(ctx).QueryContext(ctx,
		"SELECT data FROM articles ORDER BY processed_at ASC, id ASC")
	if err != nil {
		return nil, fmt.Errorf("querying articles: %w", err)
	}
	return collect[domain.Article](rows, "articles")
}

// Count returns the number of articles.
func (s *articleStore) Count(ctx context.Context) (int, error) {
	return count(ctx, s.store.reader(ctx), "articles")
}

// ==================== Segment Store ====================

// segmentStore implements driven.SegmentStore.
type segmentStore struct {
	store *Store
}

var _ driven.SegmentStore = (*segmentStore)(nil)

// Put stores or replaces a segment.
func (s *segmentStore) Put(ctx context.Context, segment domain.Segment) error {
	if segment.ArticleID == "" || segment.Index < 0 {
		return fmt.Errorf("%w: segment needs an article id and a non-negative index", domain.ErrInvalidInput)
	}
	q, err := s.store.writer(ctx, domain.KindSegments)
	if err != nil {
		return err
	}
	data, err := encode(segment)
	if err != nil {
		return err
	}

	_, err = q.ExecContext(ctx, `
		INSERT INTO segments (article_id, idx, data)
		VALUES (?, ?, ?)
		ON CONFLICT(article_id, idx) DO UPDATE SET
			data = excluded.data
	`, segment.ArticleID, segment.Index, data)
	if err != nil {
		return fmt.Errorf("saving segment: %w", err)
	}
	return nil
}

// Get retrieves a segment by article and index.
func (s *segmentStore) Get(ctx context.Context, articleID string, index int) (*domain.Segment, error) {
	row := s.store.reader(ctx).QueryRowContext(ctx,
		"SELECT data FROM segments WHERE article_id = ? AND idx = ?", articleID, index)
	return getOne[domain.Segment](row, "segment")
}

// ListByArticle returns the segments of one article in index order.
func (s *segmentStore) ListByArticle(ctx context.Context, articleID string) ([]domain.Segment, error) {
	rows, err := s.store.reader(ctx).QueryContext(ctx,
		"SELECT data FROM segments WHERE article_id = ? ORDER BY idx ASC", articleID)
	if err != nil {
		return nil, fmt.Errorf("querying segments: %w", err)
	}
	return collect[domain.Segment](rows, "segments")
}

// List returns every segment.
func (s *segmentStore) List(ctx context.Context) ([]domain.Segment, error) {
	rows, err := s.store.reader(ctx).QueryContext(ctx,
		"SELECT data FROM segments ORDER BY article_id ASC, idx ASC")
	if err != nil {
		return nil, fmt.Errorf("querying segments: %w", err)
	}
	return collect[domain.Segment](rows, "segments")
}

// Count returns the number of segments.
func (s *segmentStore) Count(ctx context.Context) (int, error) {
	return count(ctx, s.store.reader(ctx), "segments")
}

// ==================== Flashcard Store ====================

// flashcardStore implements driven.FlashcardStore.
type flashcardStore struct {
	store *Store
}

var _ driven.FlashcardStore = (*flashcardStore)(nil)

// indexColumns maps flashcard indexes to their columns.
var indexColumns = map[domain.FlashcardIndex]string{
	domain.IndexArticleID:  "article_id",
	domain.IndexStage:      "stage",
	domain.IndexNextReview: "next_review",
	domain.IndexType:       "type",
	domain.IndexLevel:      "level",
}

// Put stores or replaces a flashcard.
func (s *flashcardStore) Put(ctx context.Context, card domain.Flashcard) error {
	if card.ID == "" {
		return fmt.Errorf("%w: flashcard id is required", domain.ErrInvalidInput)
	}
	q, err := s.store.writer(ctx, domain.KindFlashcards)
	if err != nil {
		return err
	}
	data, err := encode(card)
	if err != nil {
		return err
	}

	_, err = q.ExecContext(ctx, `
		INSERT INTO flashcards (id, article_id, stage, next_review, type, level, word, data)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			article_id = excluded.article_id,
			stage = excluded.stage,
			next_review = excluded.next_review,
			type = excluded.type,
			level = excluded.level,
			word = excluded.word,
			data = excluded.data
	`, card.ID, card.ArticleID, card.Stage, int64(card.NextReview),
		string(card.Type), card.Level, card.Word, data)
	if err != nil {
		return fmt.Errorf("saving flashcard: %w", err)
	}
	return nil
}

// Get retrieves a flashcard by ID.
func (s *flashcardStore) Get(ctx context.Context, id string) (*domain.Flashcard, error) {
	row := s.store.reader(ctx).QueryRowContext(ctx, "SELECT data FROM flashcards WHERE id = ?", id)
	return getOne[domain.Flashcard](row, "flashcard")
}

// FindByIndex returns flashcards whose index key falls in r.
func (s *flashcardStore) FindByIndex(ctx context.Context, index domain.FlashcardIndex, r domain.KeyRange, limit int) ([]domain.Flashcard, error) {
	column, ok := indexColumns[index]
	if !ok {
		return nil, fmt.Errorf("%w: unknown flashcard index %q", domain.ErrInvalidInput, index)
	}

	query := squirrel.Select("data").From("flashcards").OrderBy(column+" ASC", "id ASC")
	if r.Lower != nil {
		if r.LowerOpen {
			query = query.Where(squirrel.Gt{column: sqlValue(r.Lower)})
		} else {
			query = query.Where(squirrel.GtOrEq{column: sqlValue(r.Lower)})
		}
	}
	if r.Upper != nil {
		if r.UpperOpen {
			query = query.Where(squirrel.Lt{column: sqlValue(r.Upper)})
		} else {
			query = query.Where(squirrel.LtOrEq{column: sqlValue(r.Upper)})
		}
	}
	if limit > 0 {
		query = query.Limit(uint64(limit))
	}

	stmt, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("building flashcard query: %w", err)
	}

	rows, err := s.store.reader(ctx).QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("querying flashcards: %w", err)
	}
	return collect[domain.Flashcard](rows, "flashcards")
}

// List returns every flashcard.
func (s *flashcardStore) List(ctx context.Context) ([]domain.Flashcard, error) {
	rows, err := s.store.reader(ctx).QueryContext(ctx, "SELECT data FROM flashcards ORDER BY id ASC")
	if err != nil {
		return nil, fmt.Errorf("querying flashcards: %w", err)
	}
	return collect[domain.Flashcard](rows, "flashcards")
}

// Count returns the number of flashcards.
func (s *flashcardStore) Count(ctx context.Context) (int, error) {
	return count(ctx, s.store.reader(ctx), "flashcards")
}

// sqlValue converts index keys to driver values.
func sqlValue(v any) any {
	switch k := v.(type) {
	case domain.Timestamp:
		return int64(k)
	case domain.WordType:
		return string(k)
	default:
		return v
	}
}

// ==================== Settings Store ====================

// settingsStore implements driven.SettingsStore.
type settingsStore struct {
	store *Store
}

var _ driven.SettingsStore = (*settingsStore)(nil)

// Put stores the settings record under the fixed settings id.
func (s *settingsStore) Put(ctx context.Context, settings domain.Settings) error {
	q, err := s.store.writer(ctx, domain.KindSettings)
	if err != nil {
		return err
	}
	settings.ID = domain.SettingsID
	data, err := encode(settings)
	if err != nil {
		return err
	}

	_, err = q.ExecContext(ctx, `
		INSERT INTO settings (id, data) VALUES (?, ?)
		ON CONFLICT(id) DO UPDATE SET data = excluded.data
	`, settings.ID, data)
	if err != nil {
		return fmt.Errorf("saving settings: %w", err)
	}
	return nil
}

// Get retrieves the stored settings record.
func (s *settingsStore) Get(ctx context.Context) (*domain.Settings, error) {
	row := s.store.reader(ctx).QueryRowContext(ctx, "SELECT data FROM settings WHERE id = ?", domain.SettingsID)
	return getOne[domain.Settings](row, "settings")
}

// ==================== Collection Store ====================

// collectionStore implements driven.CollectionStore.
type collectionStore struct {
	store *Store
}

var _ driven.CollectionStore = (*collectionStore)(nil)

// Put stores or replaces a collection.
func (s *collectionStore) Put(ctx context.Context, collection domain.Collection) error {
	if collection.ID == "" {
		return fmt.Errorf("%w: collection id is required", domain.ErrInvalidInput)
	}
	q, err := s.store.writer(ctx, domain.KindCollections)
	if err != nil {
		return err
	}
	data, err := encode(collection)
	if err != nil {
		return err
	}

	_, err = q.ExecContext(ctx, `
		INSERT INTO collections (id, name, data) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			data = excluded.data
	`, collection.ID, collection.Name, data)
	if err != nil {
		return fmt.Errorf("saving collection: %w", err)
	}
	return nil
}

// Get retrieves a collection by ID.
func (s *collectionStore) Get(ctx context.Context, id string) (*domain.Collection, error) {
	row := s.store.reader(ctx).QueryRowContext(ctx, "SELECT data FROM collections WHERE id = ?", id)
	return getOne[domain.Collection](row, "collection")
}

// List returns every collection.
func (s *collectionStore) List(ctx context.Context) ([]domain.Collection, error) {
	rows, err := s.store.reader(ctx).QueryContext(ctx, "SELECT data FROM collections ORDER BY id ASC")
	if err != nil {
		return nil, fmt.Errorf("querying collections: %w", err)
	}
	return collect[domain.Collection](rows, "collections")
}

// Count returns the number of collections.
func (s *collectionStore) Count(ctx context.Context) (int, error) {
	return count(ctx, s.store.reader(ctx), "collections")
}
