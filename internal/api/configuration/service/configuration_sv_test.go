package configurationService

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"ProjectKwik/internal/api/configuration"
	configurationRepository "ProjectKwik/internal/api/configuration/repository"
	"ProjectKwik/internal/entity"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConfigStore struct {
	mu   sync.Mutex
	rows map[string]entity.Configuration
}

func newFakeConfigStore() *fakeConfigStore {
	return &fakeConfigStore{rows: make(map[string]entity.Configuration)}
}

func (f *fakeConfigStore) Create(_ context.Context, config entity.Configuration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows[config.ID] = config
	return nil
}

func (f *fakeConfigStore) GetByID(_ context.Context, id string, merchantID string) (entity.Configuration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	config, ok := f.rows[id]
	if !ok || config.MerchantID != merchantID {
		return entity.Configuration{}, configuration.ErrConfigNotFound
	}
	return config, nil
}

func (f *fakeConfigStore) GetActive(_ context.Context, merchantID string) (entity.Configuration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, config := range f.rows {
		if config.MerchantID == merchantID && config.IsActive {
			return config, nil
		}
	}
	return entity.Configuration{}, configuration.ErrNoActiveConfig
}

func (f *fakeConfigStore) GetHistory(_ context.Context, merchantID string, limit int) ([]entity.Configuration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var history []entity.Configuration
	for _, config := range f.rows {
		if config.MerchantID == merchantID {
			history = append(history, config)
		}
	}
	if len(history) > limit {
		history = history[:limit]
	}
	return history, nil
}

func (f *fakeConfigStore) NextVersion(_ context.Context, merchantID string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	max := 0
	for _, config := range f.rows {
		if config.MerchantID == merchantID && config.Version > max {
			max = config.Version
		}
	}
	return max + 1, nil
}

func (f *fakeConfigStore) DeactivateAll(_ context.Context, merchantID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, config := range f.rows {
		if config.MerchantID == merchantID && config.IsActive {
			config.IsActive = false
			f.rows[id] = config
		}
	}
	return nil
}

func (f *fakeConfigStore) Activate(_ context.Context, id string, merchantID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	config, ok := f.rows[id]
	if !ok || config.MerchantID != merchantID {
		return configuration.ErrConfigNotFound
	}
	config.IsActive = true
	f.rows[id] = config
	return nil
}

func (f *fakeConfigStore) UpdateSettings(_ context.Context, config entity.Configuration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	existing, ok := f.rows[config.ID]
	if !ok || existing.MerchantID != config.MerchantID {
		return configuration.ErrConfigNotFound
	}
	existing.Settings = config.Settings
	existing.UpdatedAt = config.UpdatedAt
	f.rows[config.ID] = existing
	return nil
}

func (f *fakeConfigStore) Delete(_ context.Context, id string, merchantID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	config, ok := f.rows[id]
	if !ok || config.MerchantID != merchantID {
		return configuration.ErrConfigNotFound
	}
	delete(f.rows, id)
	return nil
}

type fakeConfigRepo struct {
	store *fakeConfigStore
}

func (f *fakeConfigRepo) NewClient(bool) (configurationRepository.Client, error) {
	return configurationRepository.Client{
		Configurations: f.store,
		Commit:         func() error { return nil },
		Rollback:       func() error { return nil },
	}, nil
}

type fakeS3 struct {
	uploads map[string][]byte
	fail    bool
}

func (f *fakeS3) UploadExport(name string, payload []byte) (string, error) {
	if f.fail {
		return "", errors.New("bucket unavailable")
	}
	if f.uploads == nil {
		f.uploads = make(map[string][]byte)
	}
	f.uploads[name] = payload
	return "s3://exports/" + name, nil
}

func (f *fakeS3) PresignUrl(key string) (string, error) { return "https://exports/" + key, nil }
func (f *fakeS3) DeleteExport(string) error             { return nil }

type fakeUtils struct {
	counter  int
	badColor string
}

func (f *fakeUtils) NewULIDFromTimestamp(time.Time) (string, error) {
	f.counter++
	return fmt.Sprintf("01CONFIG%08d", f.counter), nil
}

func (f *fakeUtils) NewAPICredential() (string, string, error) { return "pk", "sk", nil }

func (f *fakeUtils) IsValidHexColor(color string) bool { return color != f.badColor }

type configFixture struct {
	service IConfigurationService
	store   *fakeConfigStore
	s3      *fakeS3
}

func newConfigFixture() *configFixture {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)

	f := &configFixture{
		store: newFakeConfigStore(),
		s3:    &fakeS3{},
	}
	f.service = New(log, &fakeConfigRepo{store: f.store}, f.s3, &fakeUtils{})
	return f
}

func TestCreateConfig_VersionsStartInactive(t *testing.T) {
	f := newConfigFixture()

	first, err := f.service.CreateConfig(context.Background(), "mer-1", configuration.CreateConfigRequest{
		Settings: entity.DefaultMerchantSettings(),
	})
	require.NoError(t, err)
	assert.False(t, first.IsActive)
	assert.Equal(t, 1, first.Version)

	second, err := f.service.CreateConfig(context.Background(), "mer-1", configuration.CreateConfigRequest{
		Settings: entity.DefaultMerchantSettings(),
	})
	require.NoError(t, err)
	assert.False(t, second.IsActive)
	assert.Equal(t, 2, second.Version)

	_, err = f.service.GetActiveConfig(context.Background(), "mer-1")
	assert.ErrorIs(t, err, configuration.ErrNoActiveConfig)
}

func TestCreateConfig_RejectsInvalidSettings(t *testing.T) {
	f := newConfigFixture()

	settings := entity.DefaultMerchantSettings()
	settings.WidgetPlacement = "floating"

	_, err := f.service.CreateConfig(context.Background(), "mer-1", configuration.CreateConfigRequest{
		Settings: settings,
	})
	assert.ErrorIs(t, err, configuration.ErrInvalidPlacement)
}

func TestActivateVersion_SwapsActiveFlag(t *testing.T) {
	f := newConfigFixture()

	first, err := f.service.CreateConfig(context.Background(), "mer-1", configuration.CreateConfigRequest{
		Settings: entity.DefaultMerchantSettings(),
	})
	require.NoError(t, err)
	second, err := f.service.CreateConfig(context.Background(), "mer-1", configuration.CreateConfigRequest{
		Settings: entity.DefaultMerchantSettings(),
	})
	require.NoError(t, err)

	activated, err := f.service.ActivateVersion(context.Background(), first.ID, "mer-1")
	require.NoError(t, err)
	assert.True(t, activated.IsActive)

	active, err := f.service.GetActiveConfig(context.Background(), "mer-1")
	require.NoError(t, err)
	assert.Equal(t, first.ID, active.ID)

	// Activating another version deactivates the previous one.
	_, err = f.service.ActivateVersion(context.Background(), second.ID, "mer-1")
	require.NoError(t, err)

	active, err = f.service.GetActiveConfig(context.Background(), "mer-1")
	require.NoError(t, err)
	assert.Equal(t, second.ID, active.ID)

	stale, err := f.store.GetByID(context.Background(), first.ID, "mer-1")
	require.NoError(t, err)
	assert.False(t, stale.IsActive)
}

func TestActivateVersion_UnknownOrForeignVersion(t *testing.T) {
	f := newConfigFixture()

	config, err := f.service.CreateConfig(context.Background(), "mer-1", configuration.CreateConfigRequest{
		Settings: entity.DefaultMerchantSettings(),
	})
	require.NoError(t, err)

	_, err = f.service.ActivateVersion(context.Background(), "missing", "mer-1")
	assert.ErrorIs(t, err, configuration.ErrConfigNotFound)

	_, err = f.service.ActivateVersion(context.Background(), config.ID, "mer-2")
	assert.ErrorIs(t, err, configuration.ErrConfigNotFound)
}

func TestValidateConfig(t *testing.T) {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	store := newFakeConfigStore()
	service := New(log, &fakeConfigRepo{store: store}, &fakeS3{}, &fakeUtils{badColor: "#zzz"})

	res := service.ValidateConfig(context.Background(), configuration.ValidateConfigRequest{
		Settings: entity.DefaultMerchantSettings(),
	})
	assert.True(t, res.Valid)
	assert.Empty(t, res.Errors)

	bad := entity.DefaultMerchantSettings()
	bad.WidgetPlacement = "floating"
	bad.WidgetStyles.Colors.Primary = "#zzz"

	res = service.ValidateConfig(context.Background(), configuration.ValidateConfigRequest{
		Settings: bad,
	})
	assert.False(t, res.Valid)
	assert.Len(t, res.Errors, 2)
}

func TestExportConfig(t *testing.T) {
	f := newConfigFixture()

	config, err := f.service.CreateConfig(context.Background(), "mer-1", configuration.CreateConfigRequest{
		Settings: entity.DefaultMerchantSettings(),
	})
	require.NoError(t, err)
	_, err = f.service.ActivateVersion(context.Background(), config.ID, "mer-1")
	require.NoError(t, err)

	res, err := f.service.ExportConfig(context.Background(), "mer-1")
	require.NoError(t, err)
	assert.Equal(t, config.ID, res.Config.ID)
	assert.Equal(t, "s3://exports/config-mer-1", res.ArchiveLocation)
}

func TestExportConfig_ArchiveFailureIsNotFatal(t *testing.T) {
	f := newConfigFixture()
	f.s3.fail = true

	config, err := f.service.CreateConfig(context.Background(), "mer-1", configuration.CreateConfigRequest{
		Settings: entity.DefaultMerchantSettings(),
	})
	require.NoError(t, err)
	_, err = f.service.ActivateVersion(context.Background(), config.ID, "mer-1")
	require.NoError(t, err)

	res, err := f.service.ExportConfig(context.Background(), "mer-1")
	require.NoError(t, err)
	assert.Empty(t, res.ArchiveLocation)
	assert.Equal(t, config.ID, res.Config.ID)
}

func TestImportConfig(t *testing.T) {
	f := newConfigFixture()

	imported, err := f.service.ImportConfig(context.Background(), "mer-1", configuration.ImportConfigRequest{
		Settings: entity.DefaultMerchantSettings(),
	})
	require.NoError(t, err)
	assert.False(t, imported.IsActive)
	assert.Equal(t, 1, imported.Version)

	bad := entity.DefaultMerchantSettings()
	bad.IntentThresholds.HighIntent = 150

	_, err = f.service.ImportConfig(context.Background(), "mer-1", configuration.ImportConfigRequest{
		Settings: bad,
	})
	assert.ErrorIs(t, err, configuration.ErrInvalidImport)
}

func TestUpdateConfig_RewritesInactiveVersion(t *testing.T) {
	f := newConfigFixture()

	config, err := f.service.CreateConfig(context.Background(), "mer-1", configuration.CreateConfigRequest{
		Settings: entity.DefaultMerchantSettings(),
	})
	require.NoError(t, err)

	settings := entity.DefaultMerchantSettings()
	settings.WidgetPlacement = string(entity.PlacementAboveAddToCart)

	updated, err := f.service.UpdateConfig(context.Background(), config.ID, "mer-1", configuration.UpdateConfigRequest{
		Settings: settings,
	})
	require.NoError(t, err)
	assert.Equal(t, string(entity.PlacementAboveAddToCart), updated.Settings.WidgetPlacement)
	assert.Equal(t, config.Version, updated.Version)

	bad := entity.DefaultMerchantSettings()
	bad.IntentThresholds.HighIntent = 150

	_, err = f.service.UpdateConfig(context.Background(), config.ID, "mer-1", configuration.UpdateConfigRequest{
		Settings: bad,
	})
	assert.ErrorIs(t, err, configuration.ErrInvalidThresholds)
}

func TestUpdateConfig_ActiveVersionIsImmutable(t *testing.T) {
	f := newConfigFixture()

	config, err := f.service.CreateConfig(context.Background(), "mer-1", configuration.CreateConfigRequest{
		Settings: entity.DefaultMerchantSettings(),
	})
	require.NoError(t, err)
	_, err = f.service.ActivateVersion(context.Background(), config.ID, "mer-1")
	require.NoError(t, err)

	_, err = f.service.UpdateConfig(context.Background(), config.ID, "mer-1", configuration.UpdateConfigRequest{
		Settings: entity.DefaultMerchantSettings(),
	})
	assert.ErrorIs(t, err, configuration.ErrConfigActive)
}

func TestDeleteConfig(t *testing.T) {
	f := newConfigFixture()

	active, err := f.service.CreateConfig(context.Background(), "mer-1", configuration.CreateConfigRequest{
		Settings: entity.DefaultMerchantSettings(),
	})
	require.NoError(t, err)
	_, err = f.service.ActivateVersion(context.Background(), active.ID, "mer-1")
	require.NoError(t, err)

	draft, err := f.service.CreateConfig(context.Background(), "mer-1", configuration.CreateConfigRequest{
		Settings: entity.DefaultMerchantSettings(),
	})
	require.NoError(t, err)

	require.NoError(t, f.service.DeleteConfig(context.Background(), draft.ID, "mer-1"))
	_, err = f.service.UpdateConfig(context.Background(), draft.ID, "mer-1", configuration.UpdateConfigRequest{
		Settings: entity.DefaultMerchantSettings(),
	})
	assert.ErrorIs(t, err, configuration.ErrConfigNotFound)

	// The live version can only be replaced, never removed.
	err = f.service.DeleteConfig(context.Background(), active.ID, "mer-1")
	assert.ErrorIs(t, err, configuration.ErrConfigActive)
}
