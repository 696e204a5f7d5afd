package merchantService

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"ProjectKwik/internal/api/merchant"
	merchantRepository "ProjectKwik/internal/api/merchant/repository"
	"ProjectKwik/internal/entity"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMerchantStore struct {
	mu   sync.Mutex
	rows map[string]entity.Merchant
}

func newFakeMerchantStore() *fakeMerchantStore {
	return &fakeMerchantStore{rows: make(map[string]entity.Merchant)}
}

func (f *fakeMerchantStore) Create(_ context.Context, m entity.Merchant) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows[m.ID] = m
	return nil
}

func (f *fakeMerchantStore) GetByID(_ context.Context, id string) (entity.Merchant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.rows[id]
	if !ok {
		return entity.Merchant{}, merchant.ErrMerchantNotFound
	}
	return m, nil
}

func (f *fakeMerchantStore) GetByDomain(_ context.Context, domain string) (entity.Merchant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range f.rows {
		if m.Domain == domain {
			return m, nil
		}
	}
	return entity.Merchant{}, merchant.ErrMerchantNotFound
}

func (f *fakeMerchantStore) GetByAPIKey(_ context.Context, apiKey string) (entity.Merchant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range f.rows {
		if m.APIKey == apiKey {
			return m, nil
		}
	}
	return entity.Merchant{}, merchant.ErrMerchantNotFound
}

func (f *fakeMerchantStore) UpdateSettings(_ context.Context, id string, settings entity.MerchantSettings) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.rows[id]
	if !ok {
		return merchant.ErrMerchantNotFound
	}
	m.Settings = settings
	f.rows[id] = m
	return nil
}

func (f *fakeMerchantStore) RotateCredentials(_ context.Context, id string, apiKey string, apiSecret string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.rows[id]
	if !ok {
		return merchant.ErrMerchantNotFound
	}
	m.APIKey = apiKey
	m.APISecret = apiSecret
	f.rows[id] = m
	return nil
}

type fakeMerchantRepo struct {
	store *fakeMerchantStore
}

func (f *fakeMerchantRepo) NewClient(bool) (merchantRepository.Client, error) {
	return merchantRepository.Client{
		Merchants: f.store,
		Commit:    func() error { return nil },
		Rollback:  func() error { return nil },
	}, nil
}

type fakeBcrypt struct{}

func (fakeBcrypt) HashPassword(password string) (string, error) {
	return "hashed:" + password, nil
}

func (fakeBcrypt) ComparePassword(hashPassword string, password string) error {
	if hashPassword != "hashed:"+password {
		return fmt.Errorf("password mismatch")
	}
	return nil
}

type fakeUtils struct {
	counter int
}

func (f *fakeUtils) NewULIDFromTimestamp(time.Time) (string, error) {
	f.counter++
	return fmt.Sprintf("01MERCHANT%06d", f.counter), nil
}

func (f *fakeUtils) NewAPICredential() (string, string, error) {
	f.counter++
	return fmt.Sprintf("kwik_key%d", f.counter), fmt.Sprintf("secret%d", f.counter), nil
}

func (f *fakeUtils) IsValidHexColor(color string) bool { return color != "#zzz" }

type merchantFixture struct {
	service IMerchantService
	store   *fakeMerchantStore
}

func newMerchantFixture() *merchantFixture {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)

	f := &merchantFixture{store: newFakeMerchantStore()}
	f.service = New(log, &fakeMerchantRepo{store: f.store}, fakeBcrypt{}, &fakeUtils{})
	return f
}

func createMerchantRequest() merchant.CreateMerchantRequest {
	return merchant.CreateMerchantRequest{
		Name:     "Trail Outfitters",
		Domain:   "trail-outfitters.example.com",
		Platform: string(entity.PlatformShopify),
	}
}

func TestCreateMerchant(t *testing.T) {
	f := newMerchantFixture()

	res, err := f.service.CreateMerchant(context.Background(), createMerchantRequest())
	require.NoError(t, err)

	assert.NotEmpty(t, res.Merchant.ID)
	assert.NotEmpty(t, res.Merchant.APIKey)
	// The plaintext secret comes back once; the store only holds the hash.
	assert.NotEmpty(t, res.APISecret)
	stored := f.store.rows[res.Merchant.ID]
	assert.Equal(t, "hashed:"+res.APISecret, stored.APISecret)
	assert.Equal(t, entity.DefaultMerchantSettings(), stored.Settings)
}

func TestCreateMerchant_DomainConflict(t *testing.T) {
	f := newMerchantFixture()

	_, err := f.service.CreateMerchant(context.Background(), createMerchantRequest())
	require.NoError(t, err)

	_, err = f.service.CreateMerchant(context.Background(), createMerchantRequest())
	assert.ErrorIs(t, err, merchant.ErrDomainAlreadyExists)
}

func TestGetMerchantByAPIKey(t *testing.T) {
	f := newMerchantFixture()

	res, err := f.service.CreateMerchant(context.Background(), createMerchantRequest())
	require.NoError(t, err)

	m, err := f.service.GetMerchantByAPIKey(context.Background(), res.Merchant.APIKey)
	require.NoError(t, err)
	assert.Equal(t, res.Merchant.ID, m.ID)

	_, err = f.service.GetMerchantByAPIKey(context.Background(), "kwik_unknown")
	assert.ErrorIs(t, err, merchant.ErrMerchantNotFound)
}

func TestUpdateSettings(t *testing.T) {
	f := newMerchantFixture()

	res, err := f.service.CreateMerchant(context.Background(), createMerchantRequest())
	require.NoError(t, err)

	settings := entity.DefaultMerchantSettings()
	settings.WidgetPlacement = string(entity.PlacementAboveAddToCart)
	settings.IntentThresholds.HighIntent = 80

	require.NoError(t, f.service.UpdateSettings(context.Background(), res.Merchant.ID, settings))

	updated, err := f.service.GetMerchant(context.Background(), res.Merchant.ID)
	require.NoError(t, err)
	assert.Equal(t, string(entity.PlacementAboveAddToCart), updated.Settings.WidgetPlacement)
	assert.Equal(t, float64(80), updated.Settings.IntentThresholds.HighIntent)
}

func TestUpdateSettings_Validation(t *testing.T) {
	f := newMerchantFixture()

	res, err := f.service.CreateMerchant(context.Background(), createMerchantRequest())
	require.NoError(t, err)

	settings := entity.DefaultMerchantSettings()
	settings.IntentThresholds.HighIntent = 150
	err = f.service.UpdateSettings(context.Background(), res.Merchant.ID, settings)
	assert.ErrorIs(t, err, merchant.ErrInvalidThreshold)

	settings = entity.DefaultMerchantSettings()
	settings.WidgetStyles.Colors.Primary = "#zzz"
	err = f.service.UpdateSettings(context.Background(), res.Merchant.ID, settings)
	assert.ErrorIs(t, err, merchant.ErrInvalidColor)
}

func TestRotateCredentials(t *testing.T) {
	f := newMerchantFixture()

	res, err := f.service.CreateMerchant(context.Background(), createMerchantRequest())
	require.NoError(t, err)

	rotated, err := f.service.RotateCredentials(context.Background(), res.Merchant.ID)
	require.NoError(t, err)

	assert.NotEqual(t, res.Merchant.APIKey, rotated.APIKey)
	assert.NotEmpty(t, rotated.APISecret)

	// The old key stops resolving, the new one works.
	_, err = f.service.GetMerchantByAPIKey(context.Background(), res.Merchant.APIKey)
	assert.ErrorIs(t, err, merchant.ErrMerchantNotFound)

	m, err := f.service.GetMerchantByAPIKey(context.Background(), rotated.APIKey)
	require.NoError(t, err)
	assert.Equal(t, "hashed:"+rotated.APISecret, m.APISecret)
}

func TestRotateCredentials_UnknownMerchant(t *testing.T) {
	f := newMerchantFixture()

	_, err := f.service.RotateCredentials(context.Background(), "missing")
	assert.ErrorIs(t, err, merchant.ErrMerchantNotFound)
}
