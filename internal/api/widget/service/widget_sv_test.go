package widgetService

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"ProjectKwik/internal/api/widget"
	widgetRepository "ProjectKwik/internal/api/widget/repository"
	"ProjectKwik/internal/entity"
	"ProjectKwik/pkg/intent"
	"ProjectKwik/pkg/redis"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWidgetStore struct {
	mu   sync.Mutex
	rows map[string]entity.Widget
}

func newFakeWidgetStore() *fakeWidgetStore {
	return &fakeWidgetStore{rows: make(map[string]entity.Widget)}
}

func (f *fakeWidgetStore) Create(_ context.Context, w entity.Widget) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows[w.ID] = w
	return nil
}

func (f *fakeWidgetStore) GetByID(_ context.Context, id string, merchantID string) (entity.Widget, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	w, ok := f.rows[id]
	if !ok || w.MerchantID != merchantID {
		return entity.Widget{}, widget.ErrWidgetNotFound
	}
	return w, nil
}

func (f *fakeWidgetStore) GetByMerchant(_ context.Context, merchantID string) ([]entity.Widget, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var widgets []entity.Widget
	for _, w := range f.rows {
		if w.MerchantID == merchantID {
			widgets = append(widgets, w)
		}
	}
	return widgets, nil
}

func (f *fakeWidgetStore) GetByIntentType(_ context.Context, merchantID string, intentType string) ([]entity.Widget, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var widgets []entity.Widget
	for _, w := range f.rows {
		if w.MerchantID == merchantID && w.IntentType == intentType {
			widgets = append(widgets, w)
		}
	}
	return widgets, nil
}

func (f *fakeWidgetStore) GetActiveWidget(_ context.Context, merchantID string, intentType string) (entity.Widget, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var best *entity.Widget
	for id := range f.rows {
		w := f.rows[id]
		if w.MerchantID != merchantID || w.IntentType != intentType || !w.IsActive {
			continue
		}
		if best == nil || w.Version > best.Version {
			best = &w
		}
	}
	if best == nil {
		return entity.Widget{}, widget.ErrNoActiveWidget
	}
	return *best, nil
}

func (f *fakeWidgetStore) NextVersion(_ context.Context, merchantID string, intentType string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	max := 0
	for _, w := range f.rows {
		if w.MerchantID == merchantID && w.IntentType == intentType && w.Version > max {
			max = w.Version
		}
	}
	return max + 1, nil
}

func (f *fakeWidgetStore) Update(_ context.Context, w entity.Widget) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rows[w.ID]; !ok {
		return widget.ErrWidgetNotFound
	}
	f.rows[w.ID] = w
	return nil
}

func (f *fakeWidgetStore) Delete(_ context.Context, id string, merchantID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	w, ok := f.rows[id]
	if !ok || w.MerchantID != merchantID {
		return widget.ErrWidgetNotFound
	}
	delete(f.rows, id)
	return nil
}

func (f *fakeWidgetStore) SetActive(_ context.Context, id string, merchantID string, active bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	w, ok := f.rows[id]
	if !ok || w.MerchantID != merchantID {
		return widget.ErrWidgetNotFound
	}
	w.IsActive = active
	f.rows[id] = w
	return nil
}

func (f *fakeWidgetStore) IncrementImpressions(context.Context, string) error  { return nil }
func (f *fakeWidgetStore) IncrementInteractions(context.Context, string) error { return nil }
func (f *fakeWidgetStore) IncrementConversions(context.Context, string) error  { return nil }

type fakeWidgetRepo struct {
	store *fakeWidgetStore
}

func (f *fakeWidgetRepo) NewClient(bool) (widgetRepository.Client, error) {
	return widgetRepository.Client{
		Widgets:  f.store,
		Commit:   func() error { return nil },
		Rollback: func() error { return nil },
	}, nil
}

type fakeCache struct {
	mu      sync.Mutex
	deletes []string
}

func (f *fakeCache) SetJSON(context.Context, string, []byte, time.Duration) error { return nil }

func (f *fakeCache) GetJSON(context.Context, string) ([]byte, error) {
	return nil, redis.ErrCacheMiss
}

func (f *fakeCache) Delete(_ context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes = append(f.deletes, keys...)
	return nil
}

type fakeUtils struct {
	counter  int
	badColor string
}

func (f *fakeUtils) NewULIDFromTimestamp(time.Time) (string, error) {
	f.counter++
	return fmt.Sprintf("01WIDGET%08d", f.counter), nil
}

func (f *fakeUtils) NewAPICredential() (string, string, error) { return "pk", "sk", nil }
func (f *fakeUtils) IsValidHexColor(color string) bool         { return color != f.badColor }

type widgetFixture struct {
	service IWidgetService
	store   *fakeWidgetStore
	cache   *fakeCache
}

func newWidgetFixture() *widgetFixture {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)

	f := &widgetFixture{
		store: newFakeWidgetStore(),
		cache: &fakeCache{},
	}
	f.service = New(log, &fakeWidgetRepo{store: f.store}, f.cache, &fakeUtils{badColor: "#zzz"})
	return f
}

func createWidgetRequest() widget.CreateWidgetRequest {
	req := widget.CreateWidgetRequest{
		IntentType: string(intent.TypeHighIntent),
		WidgetType: string(entity.WidgetUrgency),
		Name:       "Low stock urgency",
		Content: entity.WidgetContent{
			Title:   "Almost gone!",
			Message: "Only {stock} left",
		},
	}
	req.Styling.Position = string(entity.PlacementBelowPrice)
	return req
}

func TestCreateWidget_VersionsAreMonotonicPerIntent(t *testing.T) {
	f := newWidgetFixture()

	first, err := f.service.CreateWidget(context.Background(), "mer-1", createWidgetRequest())
	require.NoError(t, err)
	assert.Equal(t, 1, first.Version)
	assert.True(t, first.IsActive)

	second, err := f.service.CreateWidget(context.Background(), "mer-1", createWidgetRequest())
	require.NoError(t, err)
	assert.Equal(t, 2, second.Version)

	// A different intent type starts its own version sequence.
	other := createWidgetRequest()
	other.IntentType = string(intent.TypePriceSensitive)
	third, err := f.service.CreateWidget(context.Background(), "mer-1", other)
	require.NoError(t, err)
	assert.Equal(t, 1, third.Version)

	assert.Contains(t, f.cache.deletes, redis.WidgetKey("mer-1", string(intent.TypeHighIntent)))
}

func TestCreateWidget_Validation(t *testing.T) {
	f := newWidgetFixture()

	req := createWidgetRequest()
	req.WidgetType = "banner"
	_, err := f.service.CreateWidget(context.Background(), "mer-1", req)
	assert.ErrorIs(t, err, widget.ErrInvalidWidgetType)

	req = createWidgetRequest()
	req.Styling.Colors.Background = "#zzz"
	_, err = f.service.CreateWidget(context.Background(), "mer-1", req)
	assert.ErrorIs(t, err, widget.ErrInvalidColor)
}

func TestUpdateWidget_PartialUpdate(t *testing.T) {
	f := newWidgetFixture()

	created, err := f.service.CreateWidget(context.Background(), "mer-1", createWidgetRequest())
	require.NoError(t, err)

	f.cache.deletes = nil
	updated, err := f.service.UpdateWidget(context.Background(), "mer-1", widget.UpdateWidgetRequest{
		ID:   created.ID,
		Name: "Renamed urgency",
	})
	require.NoError(t, err)

	assert.Equal(t, "Renamed urgency", updated.Name)
	assert.Equal(t, created.Content, updated.Content)
	assert.Equal(t, created.Version, updated.Version)
	assert.Contains(t, f.cache.deletes, redis.WidgetKey("mer-1", created.IntentType))
}

func TestBulkCreateWidgets(t *testing.T) {
	f := newWidgetFixture()

	other := createWidgetRequest()
	other.IntentType = string(intent.TypePriceSensitive)

	widgets, err := f.service.BulkCreateWidgets(context.Background(), "mer-1",
		[]widget.CreateWidgetRequest{createWidgetRequest(), createWidgetRequest(), other})
	require.NoError(t, err)
	require.Len(t, widgets, 3)

	// Versions stay monotonic per intent type across the batch.
	assert.Equal(t, 1, widgets[0].Version)
	assert.Equal(t, 2, widgets[1].Version)
	assert.Equal(t, 1, widgets[2].Version)

	_, err = f.service.BulkCreateWidgets(context.Background(), "mer-1", nil)
	assert.ErrorIs(t, err, widget.ErrEmptyBulkRequest)
}

func TestBulkUpdateWidgets(t *testing.T) {
	f := newWidgetFixture()

	first, err := f.service.CreateWidget(context.Background(), "mer-1", createWidgetRequest())
	require.NoError(t, err)
	second, err := f.service.CreateWidget(context.Background(), "mer-1", createWidgetRequest())
	require.NoError(t, err)

	updated, err := f.service.BulkUpdateWidgets(context.Background(), "mer-1",
		[]widget.UpdateWidgetRequest{
			{ID: first.ID, Name: "Renamed first"},
			{ID: second.ID, Name: "Renamed second"},
		})
	require.NoError(t, err)
	require.Len(t, updated, 2)
	assert.Equal(t, "Renamed first", updated[0].Name)
	assert.Equal(t, "Renamed second", updated[1].Name)

	_, err = f.service.BulkUpdateWidgets(context.Background(), "mer-1",
		[]widget.UpdateWidgetRequest{{ID: "missing", Name: "nope"}})
	assert.ErrorIs(t, err, widget.ErrWidgetNotFound)
}

func TestBulkDeleteWidgets(t *testing.T) {
	f := newWidgetFixture()

	first, err := f.service.CreateWidget(context.Background(), "mer-1", createWidgetRequest())
	require.NoError(t, err)
	other := createWidgetRequest()
	other.IntentType = string(intent.TypePriceSensitive)
	second, err := f.service.CreateWidget(context.Background(), "mer-1", other)
	require.NoError(t, err)

	f.cache.deletes = nil
	err = f.service.BulkDeleteWidgets(context.Background(), "mer-1", []string{first.ID, second.ID})
	require.NoError(t, err)

	_, err = f.service.GetWidget(context.Background(), first.ID, "mer-1")
	assert.ErrorIs(t, err, widget.ErrWidgetNotFound)

	// Each touched intent type gets its cache entry dropped.
	assert.Contains(t, f.cache.deletes, redis.WidgetKey("mer-1", string(intent.TypeHighIntent)))
	assert.Contains(t, f.cache.deletes, redis.WidgetKey("mer-1", string(intent.TypePriceSensitive)))
}

func TestBulkDeleteWidgets_Errors(t *testing.T) {
	f := newWidgetFixture()

	err := f.service.BulkDeleteWidgets(context.Background(), "mer-1", nil)
	assert.ErrorIs(t, err, widget.ErrEmptyBulkRequest)

	err = f.service.BulkDeleteWidgets(context.Background(), "mer-1", []string{"missing"})
	assert.ErrorIs(t, err, widget.ErrWidgetNotFound)
}

func TestTestWidget_DisplayRules(t *testing.T) {
	f := newWidgetFixture()

	minPrice := 100.0
	req := createWidgetRequest()
	req.DisplayRules = &intent.DisplayRules{MinPrice: &minPrice}

	created, err := f.service.CreateWidget(context.Background(), "mer-1", req)
	require.NoError(t, err)

	// The default sample product costs 49.99, below the widget's floor.
	res, err := f.service.TestWidget(context.Background(), created.ID, "mer-1", widget.TestWidgetRequest{})
	require.NoError(t, err)
	assert.False(t, res.ShouldDisplay)
	assert.Nil(t, res.RenderedContent)
	assert.Equal(t, "desktop", res.DeviceType)

	res, err = f.service.TestWidget(context.Background(), created.ID, "mer-1", widget.TestWidgetRequest{
		Product: &intent.Product{ID: "p", Price: 150, Currency: "USD", Stock: 3},
	})
	require.NoError(t, err)
	assert.True(t, res.ShouldDisplay)
	require.NotNil(t, res.RenderedContent)
	assert.Equal(t, "Only 3 left", res.RenderedContent.Message)
}

func TestPreviewWidget_PicksLatestActiveVersion(t *testing.T) {
	f := newWidgetFixture()

	_, err := f.service.CreateWidget(context.Background(), "mer-1", createWidgetRequest())
	require.NoError(t, err)
	second, err := f.service.CreateWidget(context.Background(), "mer-1", createWidgetRequest())
	require.NoError(t, err)
	third, err := f.service.CreateWidget(context.Background(), "mer-1", createWidgetRequest())
	require.NoError(t, err)

	// Deactivating the newest version falls back to the next highest.
	require.NoError(t, f.service.SetWidgetActive(context.Background(), third.ID, "mer-1", false))

	res, err := f.service.PreviewWidget(context.Background(), "mer-1", string(intent.TypeHighIntent), widget.TestWidgetRequest{})
	require.NoError(t, err)
	assert.Equal(t, second.ID, res.Widget.ID)
}

func TestPreviewWidget_Errors(t *testing.T) {
	f := newWidgetFixture()

	_, err := f.service.PreviewWidget(context.Background(), "mer-1", "impulse-buyer", widget.TestWidgetRequest{})
	assert.ErrorIs(t, err, widget.ErrInvalidIntentType)

	_, err = f.service.PreviewWidget(context.Background(), "mer-1", string(intent.TypeHighIntent), widget.TestWidgetRequest{})
	assert.ErrorIs(t, err, widget.ErrNoActiveWidget)
}

func TestGetPerformance_Rates(t *testing.T) {
	f := newWidgetFixture()

	created, err := f.service.CreateWidget(context.Background(), "mer-1", createWidgetRequest())
	require.NoError(t, err)

	stored := f.store.rows[created.ID]
	stored.Performance = entity.WidgetPerformance{
		Impressions:  200,
		Interactions: 50,
		Conversions:  10,
	}
	f.store.rows[created.ID] = stored

	res, err := f.service.GetPerformance(context.Background(), created.ID, "mer-1")
	require.NoError(t, err)
	assert.Equal(t, int64(200), res.Impressions)
	assert.InDelta(t, 0.25, res.InteractionRate, 0.0001)
	assert.InDelta(t, 0.05, res.ConversionRate, 0.0001)
}

func TestGetPerformance_ZeroImpressions(t *testing.T) {
	f := newWidgetFixture()

	created, err := f.service.CreateWidget(context.Background(), "mer-1", createWidgetRequest())
	require.NoError(t, err)

	res, err := f.service.GetPerformance(context.Background(), created.ID, "mer-1")
	require.NoError(t, err)
	assert.Zero(t, res.InteractionRate)
	assert.Zero(t, res.ConversionRate)
}
