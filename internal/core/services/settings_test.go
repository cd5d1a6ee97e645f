package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/lingua/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/lingua/internal/core/domain"
	"github.com/custodia-labs/lingua/internal/core/ports/driven"
)

// countingStore records the read-write transactions opened on the store.
type countingStore struct {
	*memory.Store
	writes int
}

func (s *countingStore) RunInTx(ctx context.Context, mode driven.TxMode, kinds []domain.EntityKind, fn func(ctx context.Context) error) error {
	if mode == driven.TxReadWrite {
		s.writes++
	}
	return s.Store.RunInTx(ctx, mode, kinds, fn)
}

func TestSettingsService_LoadCreatesDefaults(t *testing.T) {
	store := memory.NewStore()
	svc := NewSettingsService(store)
	ctx := context.Background()

	_, err := store.Settings().Get(ctx)
	require.ErrorIs(t, err, domain.ErrNotFound)

	settings, err := svc.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultSettings(), *settings)

	stored, err := store.Settings().Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultSettings(), *stored)
}

func TestSettingsService_LoadMergesPartial(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	require.NoError(t, store.Settings().Put(ctx, domain.Settings{
		ID:            domain.SettingsID,
		AnalysisModel: "gpt-4o",
		SegmentLength: 300,
	}))

	settings, err := NewSettingsService(store).Load(ctx)
	require.NoError(t, err)

	defaults := domain.DefaultSettings()
	assert.Equal(t, "gpt-4o", settings.AnalysisModel)
	assert.Equal(t, 300, settings.SegmentLength)
	assert.Equal(t, defaults.TranslationModel, settings.TranslationModel)
	assert.Equal(t, defaults.TTSEngine, settings.TTSEngine)
	assert.Equal(t, defaults.EnabledTypes, settings.EnabledTypes)
}

func TestSettingsService_LoadStoredIsReadOnly(t *testing.T) {
	store := &countingStore{Store: memory.NewStore()}
	svc := NewSettingsService(store)
	ctx := context.Background()

	_, err := svc.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, store.writes, "first load persists the defaults")

	for range 3 {
		_, err := svc.Load(ctx)
		require.NoError(t, err)
	}
	assert.Equal(t, 1, store.writes, "later loads only read")
}

func TestSettingsService_LoadInsideReadOnlyTx(t *testing.T) {
	store := memory.NewStore()
	svc := NewSettingsService(store)
	ctx := context.Background()
	kinds := []domain.EntityKind{domain.KindSettings}

	err := store.RunInTx(ctx, driven.TxReadOnly, kinds, func(ctx context.Context) error {
		settings, err := svc.Load(ctx)
		if err != nil {
			return err
		}
		assert.Equal(t, domain.DefaultSettings(), *settings)
		return nil
	})
	require.NoError(t, err)

	_, err = store.Settings().Get(ctx)
	assert.ErrorIs(t, err, domain.ErrNotFound, "nothing is written from a read-only transaction")

	require.NoError(t, store.Settings().Put(ctx, domain.Settings{ID: domain.SettingsID, SegmentLength: 90}))
	err = store.RunInTx(ctx, driven.TxReadOnly, kinds, func(ctx context.Context) error {
		settings, err := svc.Load(ctx)
		if err != nil {
			return err
		}
		assert.Equal(t, 90, settings.SegmentLength)
		return nil
	})
	require.NoError(t, err)
}

func TestSettingsService_Save(t *testing.T) {
	store := memory.NewStore()
	svc := NewSettingsService(store)
	ctx := context.Background()

	settings := domain.DefaultSettings()
	settings.ID = "ignored"
	settings.TTSEngine = domain.TTSEngineCloud
	require.NoError(t, svc.Save(ctx, settings))

	loaded, err := svc.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.SettingsID, loaded.ID)
	assert.Equal(t, domain.TTSEngineCloud, loaded.TTSEngine)

	settings.SegmentLength = 0
	assert.ErrorIs(t, svc.Save(ctx, settings), domain.ErrInvalidInput)
}

func TestSettingsService_Set(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		check   func(t *testing.T, s *domain.Settings)
		wantErr bool
	}{
		{
			name:  "analysis model",
			key:   KeyAnalysisModel,
			value: "claude-3-5-sonnet-latest",
			check: func(t *testing.T, s *domain.Settings) {
				assert.Equal(t, "claude-3-5-sonnet-latest", s.AnalysisModel)
			},
		},
		{
			name:  "tts engine",
			key:   KeyTTSEngine,
			value: "cloud-ai-voice",
			check: func(t *testing.T, s *domain.Settings) {
				assert.Equal(t, domain.TTSEngineCloud, s.TTSEngine)
			},
		},
		{
			name:  "segment length",
			key:   KeySegmentLength,
			value: " 800 ",
			check: func(t *testing.T, s *domain.Settings) {
				assert.Equal(t, 800, s.SegmentLength)
			},
		},
		{
			name:  "enabled types",
			key:   KeyEnabledTypes,
			value: "Vocabulary, grammar",
			check: func(t *testing.T, s *domain.Settings) {
				assert.Equal(t, []domain.WordType{domain.WordTypeVocabulary, domain.WordTypeGrammar}, s.EnabledTypes)
			},
		},
		{
			name:  "enabled types all",
			key:   KeyEnabledTypes,
			value: "all",
			check: func(t *testing.T, s *domain.Settings) {
				assert.Equal(t, domain.AllWordTypes(), s.EnabledTypes)
			},
		},
		{name: "unknown key", key: "theme", value: "dark", wantErr: true},
		{name: "bad number", key: KeySegmentLength, value: "many", wantErr: true},
		{name: "zero length", key: KeySegmentLength, value: "0", wantErr: true},
		{name: "bad engine", key: KeyTTSEngine, value: "robot", wantErr: true},
		{name: "bad type", key: KeyEnabledTypes, value: "slang", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := memory.NewStore()
			svc := NewSettingsService(store)
			ctx := context.Background()

			got, err := svc.Set(ctx, tt.key, tt.value)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrInvalidInput)
				loaded, err := svc.Load(ctx)
				require.NoError(t, err)
				assert.Equal(t, domain.DefaultSettings(), *loaded)
				return
			}
			require.NoError(t, err)
			tt.check(t, got)

			loaded, err := svc.Load(ctx)
			require.NoError(t, err)
			tt.check(t, loaded)
		})
	}
}

func TestSettingsKeys(t *testing.T) {
	assert.Len(t, SettingsKeys(), 7)
	assert.Contains(t, SettingsKeys(), KeyEnabledTypes)
}
