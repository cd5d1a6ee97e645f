package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/custodia-labs/lingua/internal/core/domain"
	"github.com/custodia-labs/lingua/internal/core/ports/driven"
	"github.com/custodia-labs/lingua/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Settings option names accepted by Set. They match the JSON field names.
const (
	KeyAnalysisModel      = "analysisModel"
	KeyTranslationModel   = "translationModel"
	KeyTTSModel           = "ttsModel"
	KeyPronunciationModel = "pronunciationModel"
	KeyTTSEngine          = "ttsEngine"
	KeySegmentLength      = "segmentLength"
	KeyEnabledTypes       = "enabledTypes"
)

// SettingsKeys returns every option name accepted by Set.
func SettingsKeys() []string {
	return []string{
		KeyAnalysisModel,
		KeyTranslationModel,
		KeyTTSModel,
		KeyPronunciationModel,
		KeyTTSEngine,
		KeySegmentLength,
		KeyEnabledTypes,
	}
}

// SettingsService manages the single settings record.
type SettingsService struct {
	store driven.RecordStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(store driven.RecordStore) *SettingsService {
	return &SettingsService{store: store}
}

// Load returns the stored settings merged over the defaults.
// When nothing is stored the defaults are persisted, unless ctx carries a
// read-only transaction, in which case they are returned unsaved.
func (s *SettingsService) Load(ctx context.Context) (*domain.Settings, error) {
	stored, err := s.store.Settings().Get(ctx)
	if err == nil {
		settings := stored.MergeOver(domain.DefaultSettings())
		return &settings, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	var settings domain.Settings
	err = s.store.RunInTx(ctx, driven.TxReadWrite, []domain.EntityKind{domain.KindSettings}, func(ctx context.Context) error {
		stored, err := s.store.Settings().Get(ctx)
		if errors.Is(err, domain.ErrNotFound) {
			settings = domain.DefaultSettings()
			return s.store.Settings().Put(ctx, settings)
		}
		if err != nil {
			return err
		}
		settings = stored.MergeOver(domain.DefaultSettings())
		return nil
	})
	if errors.Is(err, domain.ErrTxScope) {
		settings = domain.DefaultSettings()
		return &settings, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	return &settings, nil
}

// Save validates and stores the full settings record.
func (s *SettingsService) Save(ctx context.Context, settings domain.Settings) error {
	settings.ID = domain.SettingsID
	if err := settings.Validate(); err != nil {
		return err
	}
	if err := s.store.Settings().Put(ctx, settings); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

// Set updates one option and returns the updated settings.
func (s *SettingsService) Set(ctx context.Context, key, value string) (*domain.Settings, error) {
	var updated *domain.Settings
	err := s.store.RunInTx(ctx, driven.TxReadWrite, []domain.EntityKind{domain.KindSettings}, func(ctx context.Context) error {
		settings, err := s.Load(ctx)
		if err != nil {
			return err
		}
		if err := applySetting(settings, key, strings.TrimSpace(value)); err != nil {
			return err
		}
		if err := s.Save(ctx, *settings); err != nil {
			return err
		}
		updated = settings
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func applySetting(settings *domain.Settings, key, value string) error {
	switch key {
	case KeyAnalysisModel:
		settings.AnalysisModel = value
	case KeyTranslationModel:
		settings.TranslationModel = value
	case KeyTTSModel:
		settings.TTSModel = value
	case KeyPronunciationModel:
		settings.PronunciationModel = value
	case KeyTTSEngine:
		settings.TTSEngine = domain.TTSEngine(value)
	case KeySegmentLength:
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%w: segment length %q is not a number", domain.ErrInvalidInput, value)
		}
		settings.SegmentLength = n
	case KeyEnabledTypes:
		settings.EnabledTypes = parseWordTypes(value)
	default:
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}
	return nil
}

// parseWordTypes reads a comma-separated list of word types. "all" selects every type.
func parseWordTypes(value string) []domain.WordType {
	if strings.EqualFold(value, domain.AnyValue) {
		return domain.AllWordTypes()
	}
	types := []domain.WordType{}
	for _, part := range strings.Split(value, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part != "" {
			types = append(types, domain.WordType(part))
		}
	}
	return types
}
