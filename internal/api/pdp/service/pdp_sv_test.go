package pdpService

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"ProjectKwik/internal/api/intentrule"
	intentRuleRepository "ProjectKwik/internal/api/intentrule/repository"
	"ProjectKwik/internal/api/pdp"
	pdpRepository "ProjectKwik/internal/api/pdp/repository"
	"ProjectKwik/internal/api/widget"
	widgetRepository "ProjectKwik/internal/api/widget/repository"
	"ProjectKwik/internal/entity"
	"ProjectKwik/pkg/intent"
	"ProjectKwik/pkg/redis"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- detection store fake ---

type fakeDetections struct {
	mu   sync.Mutex
	rows map[string]entity.Detection
}

func newFakeDetections() *fakeDetections {
	return &fakeDetections{rows: make(map[string]entity.Detection)}
}

func (f *fakeDetections) UpsertBySessionID(_ context.Context, detection entity.Detection) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if existing, ok := f.rows[detection.SessionID]; ok {
		// Re-polls replace the scoring snapshot but keep the outcome fields.
		existing.VisitorID = detection.VisitorID
		existing.Product = detection.Product
		existing.Signals = detection.Signals
		existing.DeviceInfo = detection.DeviceInfo
		existing.IntentType = detection.IntentType
		existing.IntentScore = detection.IntentScore
		existing.WidgetShown = detection.WidgetShown
		existing.UpdatedAt = detection.UpdatedAt
		f.rows[detection.SessionID] = existing
		return nil
	}

	f.rows[detection.SessionID] = detection
	return nil
}

func (f *fakeDetections) GetBySessionID(_ context.Context, sessionID string, merchantID string) (entity.Detection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	detection, ok := f.rows[sessionID]
	if !ok || detection.MerchantID != merchantID {
		return entity.Detection{}, pdp.ErrSessionNotFound
	}
	return detection, nil
}

func (f *fakeDetections) UpdateInteraction(_ context.Context, sessionID string, merchantID string, interactionType string, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	detection, ok := f.rows[sessionID]
	if !ok || detection.MerchantID != merchantID {
		return pdp.ErrSessionNotFound
	}
	detection.WidgetInteracted = true
	detection.WidgetInteractionType = interactionType
	detection.WidgetInteractionTime = &at
	f.rows[sessionID] = detection
	return nil
}

func (f *fakeDetections) UpdateConversion(_ context.Context, sessionID string, merchantID string, conversionType string, value float64, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	detection, ok := f.rows[sessionID]
	if !ok || detection.MerchantID != merchantID {
		return pdp.ErrSessionNotFound
	}
	detection.Converted = true
	detection.ConversionType = conversionType
	detection.ConversionValue = value
	detection.ConversionTime = &at
	f.rows[sessionID] = detection
	return nil
}

func (f *fakeDetections) DeleteExpired(_ context.Context, before time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var deleted int64
	for id, detection := range f.rows {
		if detection.CreatedAt.Before(before) {
			delete(f.rows, id)
			deleted++
		}
	}
	return deleted, nil
}

// --- event store fake ---

type fakeEvents struct {
	mu     sync.Mutex
	events map[string][]entity.DetectionEvent
}

func newFakeEvents() *fakeEvents {
	return &fakeEvents{events: make(map[string][]entity.DetectionEvent)}
}

func (f *fakeEvents) Insert(_ context.Context, event entity.DetectionEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events[event.SessionID] = append(f.events[event.SessionID], event)
	return nil
}

func (f *fakeEvents) GetBySessionID(_ context.Context, sessionID string) ([]entity.DetectionEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.events[sessionID], nil
}

func (f *fakeEvents) TrimToCap(_ context.Context, sessionID string, cap int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	events := f.events[sessionID]
	if len(events) > cap {
		f.events[sessionID] = events[len(events)-cap:]
	}
	return nil
}

type fakePdpRepo struct {
	detections *fakeDetections
	events     *fakeEvents
}

func (f *fakePdpRepo) NewClient(bool) (pdpRepository.Client, error) {
	return pdpRepository.Client{
		Detections: f.detections,
		Events:     f.events,
		Commit:     func() error { return nil },
		Rollback:   func() error { return nil },
	}, nil
}

// --- rule store fake ---

type fakeRules struct {
	active []entity.IntentRule
	loads  int
}

func (f *fakeRules) Create(context.Context, entity.IntentRule) error { return nil }
func (f *fakeRules) GetByID(context.Context, string, string) (entity.IntentRule, error) {
	return entity.IntentRule{}, nil
}
func (f *fakeRules) GetByMerchant(context.Context, string) ([]entity.IntentRule, error) {
	return nil, nil
}
func (f *fakeRules) GetByIntentType(context.Context, string, string) (entity.IntentRule, error) {
	return entity.IntentRule{}, nil
}
func (f *fakeRules) GetActiveRules(context.Context, string) ([]entity.IntentRule, error) {
	f.loads++
	return f.active, nil
}
func (f *fakeRules) Update(context.Context, entity.IntentRule) error          { return nil }
func (f *fakeRules) Delete(context.Context, string, string) error             { return nil }
func (f *fakeRules) SetActive(context.Context, string, string, bool) error    { return nil }
func (f *fakeRules) IncrementPerformance(context.Context, string, bool) error { return nil }

type fakeRuleRepo struct {
	rules *fakeRules
}

func (f *fakeRuleRepo) NewClient(bool) (intentRuleRepository.Client, error) {
	return intentRuleRepository.Client{
		Rules:    f.rules,
		Commit:   func() error { return nil },
		Rollback: func() error { return nil },
	}, nil
}

// --- widget store fake ---

type fakeWidgets struct {
	activeWidget *entity.Widget
	impressions  int
	interactions int
	conversions  int
	loads        int
}

func (f *fakeWidgets) Create(context.Context, entity.Widget) error { return nil }
func (f *fakeWidgets) GetByID(context.Context, string, string) (entity.Widget, error) {
	return entity.Widget{}, nil
}
func (f *fakeWidgets) GetByMerchant(context.Context, string) ([]entity.Widget, error) {
	return nil, nil
}
func (f *fakeWidgets) GetByIntentType(context.Context, string, string) ([]entity.Widget, error) {
	return nil, nil
}
func (f *fakeWidgets) GetActiveWidget(context.Context, string, string) (entity.Widget, error) {
	f.loads++
	if f.activeWidget == nil {
		return entity.Widget{}, widget.ErrNoActiveWidget
	}
	return *f.activeWidget, nil
}
func (f *fakeWidgets) NextVersion(context.Context, string, string) (int, error) { return 1, nil }
func (f *fakeWidgets) Update(context.Context, entity.Widget) error              { return nil }
func (f *fakeWidgets) Delete(context.Context, string, string) error             { return nil }
func (f *fakeWidgets) SetActive(context.Context, string, string, bool) error    { return nil }
func (f *fakeWidgets) IncrementImpressions(context.Context, string) error {
	f.impressions++
	return nil
}
func (f *fakeWidgets) IncrementInteractions(context.Context, string) error {
	f.interactions++
	return nil
}
func (f *fakeWidgets) IncrementConversions(context.Context, string) error {
	f.conversions++
	return nil
}

type fakeWidgetRepo struct {
	widgets *fakeWidgets
}

func (f *fakeWidgetRepo) NewClient(bool) (widgetRepository.Client, error) {
	return widgetRepository.Client{
		Widgets:  f.widgets,
		Commit:   func() error { return nil },
		Rollback: func() error { return nil },
	}, nil
}

// --- cache fake ---

type fakeCache struct {
	mu    sync.Mutex
	items map[string][]byte
}

func newFakeCache() *fakeCache {
	return &fakeCache{items: make(map[string][]byte)}
}

func (f *fakeCache) SetJSON(_ context.Context, key string, payload []byte, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items[key] = payload
	return nil
}

func (f *fakeCache) GetJSON(_ context.Context, key string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	payload, ok := f.items[key]
	if !ok {
		return nil, redis.ErrCacheMiss
	}
	return payload, nil
}

func (f *fakeCache) Delete(_ context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, key := range keys {
		delete(f.items, key)
	}
	return nil
}

type fakeUtils struct {
	counter int
}

func (f *fakeUtils) NewULIDFromTimestamp(time.Time) (string, error) {
	f.counter++
	return fmt.Sprintf("01TESTULID%06d", f.counter), nil
}

func (f *fakeUtils) NewAPICredential() (string, string, error) {
	return "pk_test", "sk_test", nil
}

func (f *fakeUtils) IsValidHexColor(string) bool { return true }

// --- fixture ---

type pdpFixture struct {
	service    IPdpService
	detections *fakeDetections
	events     *fakeEvents
	rules      *fakeRules
	widgets    *fakeWidgets
	cache      *fakeCache
}

func newPdpFixture() *pdpFixture {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)

	f := &pdpFixture{
		detections: newFakeDetections(),
		events:     newFakeEvents(),
		rules:      &fakeRules{},
		widgets:    &fakeWidgets{},
		cache:      newFakeCache(),
	}
	f.service = New(
		log,
		&fakePdpRepo{detections: f.detections, events: f.events},
		&fakeRuleRepo{rules: f.rules},
		&fakeWidgetRepo{widgets: f.widgets},
		f.cache,
		&fakeUtils{},
	)
	return f
}

func highIntentRule() entity.IntentRule {
	return entity.IntentRule{
		ID:         "rule-1",
		MerchantID: "mer-1",
		Rule: intent.Rule{
			IntentType: intent.TypeHighIntent,
			Threshold:  70,
			IsActive:   true,
			BehavioralSignals: []intent.Criterion{
				{Name: "addToCartHover", Enabled: true, Weight: 3},
				{Name: "timeOnPage", Enabled: true, Weight: 3, Threshold: 120},
			},
		},
	}
}

func urgencyWidget() *entity.Widget {
	return &entity.Widget{
		ID:         "wid-1",
		MerchantID: "mer-1",
		IntentType: string(intent.TypeHighIntent),
		WidgetType: string(entity.WidgetUrgency),
		Name:       "Low stock urgency",
		Content: entity.WidgetContent{
			Title:   "Almost gone!",
			Message: "Only {stock} left",
		},
		IsActive: true,
		Version:  3,
	}
}

func pollRequest() pdp.PollRequest {
	return pdp.PollRequest{
		VisitorID: "vis-1",
		SessionID: "ses-1",
		Product:   intent.Product{ID: "prod-1", Price: 49.99, Currency: "USD", Stock: 12},
		BehavioralSignals: intent.SignalSet{
			"addToCartHover": true,
			"timeOnPage":     150.0,
		},
		DeviceInfo: entity.DeviceInfo{Type: "desktop"},
	}
}

// --- tests ---

func TestPoll_ResolvesIntentAndServesWidget(t *testing.T) {
	f := newPdpFixture()
	f.rules.active = []entity.IntentRule{highIntentRule()}
	f.widgets.activeWidget = urgencyWidget()

	res, err := f.service.Poll(context.Background(), "mer-1", pollRequest())
	require.NoError(t, err)

	assert.Equal(t, string(intent.TypeHighIntent), res.Intent)
	assert.InDelta(t, 100, res.Score, 0.0001)
	require.NotNil(t, res.Widget)
	assert.Equal(t, "wid-1", res.Widget.ID)
	assert.Equal(t, "Only 12 left", res.Widget.Content.Message)
	assert.Equal(t, 1, f.widgets.impressions)

	detection, err := f.detections.GetBySessionID(context.Background(), "ses-1", "mer-1")
	require.NoError(t, err)
	assert.Equal(t, string(intent.TypeHighIntent), detection.IntentType)
	assert.Equal(t, "wid-1", detection.WidgetShown)
	assert.Equal(t, "vis-1", detection.VisitorID)
}

func TestPoll_SecondCallServesFromCache(t *testing.T) {
	f := newPdpFixture()
	f.rules.active = []entity.IntentRule{highIntentRule()}
	f.widgets.activeWidget = urgencyWidget()

	_, err := f.service.Poll(context.Background(), "mer-1", pollRequest())
	require.NoError(t, err)
	_, err = f.service.Poll(context.Background(), "mer-1", pollRequest())
	require.NoError(t, err)

	assert.Equal(t, 1, f.rules.loads)
	assert.Equal(t, 1, f.widgets.loads)
	// Both polls count an impression even when served from cache.
	assert.Equal(t, 2, f.widgets.impressions)
}

func TestPoll_NoMatchingRuleRecordsDetectionWithoutWidget(t *testing.T) {
	f := newPdpFixture()
	f.rules.active = []entity.IntentRule{highIntentRule()}
	f.widgets.activeWidget = urgencyWidget()

	req := pollRequest()
	req.BehavioralSignals = intent.SignalSet{
		"addToCartHover": false,
		"timeOnPage":     10.0,
	}

	res, err := f.service.Poll(context.Background(), "mer-1", req)
	require.NoError(t, err)

	assert.Empty(t, res.Intent)
	assert.Zero(t, res.Score)
	assert.Nil(t, res.Widget)
	assert.Zero(t, f.widgets.impressions)

	detection, err := f.detections.GetBySessionID(context.Background(), "ses-1", "mer-1")
	require.NoError(t, err)
	assert.Empty(t, detection.IntentType)
	assert.Empty(t, detection.WidgetShown)
}

func TestPoll_NoActiveWidgetStillResolvesIntent(t *testing.T) {
	f := newPdpFixture()
	f.rules.active = []entity.IntentRule{highIntentRule()}

	res, err := f.service.Poll(context.Background(), "mer-1", pollRequest())
	require.NoError(t, err)

	assert.Equal(t, string(intent.TypeHighIntent), res.Intent)
	assert.Nil(t, res.Widget)
}

func TestPoll_RepollKeepsConversionOutcome(t *testing.T) {
	f := newPdpFixture()
	f.rules.active = []entity.IntentRule{highIntentRule()}

	_, err := f.service.Poll(context.Background(), "mer-1", pollRequest())
	require.NoError(t, err)

	err = f.service.RecordConversion(context.Background(), "mer-1", "ses-1", pdp.ConversionRequest{
		ConversionType:  "purchase",
		ConversionValue: 49.99,
	})
	require.NoError(t, err)

	_, err = f.service.Poll(context.Background(), "mer-1", pollRequest())
	require.NoError(t, err)

	detection, err := f.detections.GetBySessionID(context.Background(), "ses-1", "mer-1")
	require.NoError(t, err)
	assert.True(t, detection.Converted)
	assert.Equal(t, "purchase", detection.ConversionType)
}

func TestPoll_NoActiveRulesIsNotFound(t *testing.T) {
	f := newPdpFixture()

	_, err := f.service.Poll(context.Background(), "mer-1", pollRequest())
	assert.ErrorIs(t, err, intentrule.ErrNoActiveRules)

	_, err = f.detections.GetBySessionID(context.Background(), "ses-1", "mer-1")
	assert.Error(t, err)
}

func TestPoll_DeviceContextSignal(t *testing.T) {
	f := newPdpFixture()
	rule := entity.IntentRule{
		ID:         "rule-device",
		MerchantID: "mer-1",
		Rule: intent.Rule{
			IntentType: intent.TypeHighIntent,
			Threshold:  50,
			IsActive:   true,
			DeviceContext: []intent.Criterion{
				{Name: "deviceType", Enabled: true, Weight: 2},
			},
		},
	}
	f.rules.active = []entity.IntentRule{rule}
	f.widgets.activeWidget = urgencyWidget()

	req := pollRequest()
	req.BehavioralSignals = intent.SignalSet{}
	req.DeviceInfo = entity.DeviceInfo{Type: "mobile"}

	res, err := f.service.Poll(context.Background(), "mer-1", req)
	require.NoError(t, err)
	assert.Equal(t, string(intent.TypeHighIntent), res.Intent)
	assert.InDelta(t, 100, res.Score, 0.0001)
}

func TestPoll_InvalidDeviceType(t *testing.T) {
	f := newPdpFixture()

	req := pollRequest()
	req.DeviceInfo.Type = "smartwatch"

	_, err := f.service.Poll(context.Background(), "mer-1", req)
	assert.ErrorIs(t, err, pdp.ErrInvalidDeviceType)
}

func TestRecordInteraction(t *testing.T) {
	f := newPdpFixture()
	f.rules.active = []entity.IntentRule{highIntentRule()}
	f.widgets.activeWidget = urgencyWidget()

	_, err := f.service.Poll(context.Background(), "mer-1", pollRequest())
	require.NoError(t, err)

	err = f.service.RecordInteraction(context.Background(), "mer-1", pdp.InteractionRequest{
		SessionID:       "ses-1",
		InteractionType: "click",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, f.widgets.interactions)

	detection, err := f.detections.GetBySessionID(context.Background(), "ses-1", "mer-1")
	require.NoError(t, err)
	assert.True(t, detection.WidgetInteracted)
	assert.Equal(t, "click", detection.WidgetInteractionType)
}

func TestRecordInteraction_DismissCounts(t *testing.T) {
	f := newPdpFixture()
	f.rules.active = []entity.IntentRule{highIntentRule()}
	f.widgets.activeWidget = urgencyWidget()

	_, err := f.service.Poll(context.Background(), "mer-1", pollRequest())
	require.NoError(t, err)

	// Every interaction type moves the widget counter, dismissals too.
	err = f.service.RecordInteraction(context.Background(), "mer-1", pdp.InteractionRequest{
		SessionID:       "ses-1",
		InteractionType: "dismiss",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, f.widgets.interactions)
}

func TestRecordInteraction_Errors(t *testing.T) {
	f := newPdpFixture()

	err := f.service.RecordInteraction(context.Background(), "mer-1", pdp.InteractionRequest{
		SessionID:       "ses-1",
		InteractionType: "swipe",
	})
	assert.ErrorIs(t, err, pdp.ErrInvalidInteractionType)

	err = f.service.RecordInteraction(context.Background(), "mer-1", pdp.InteractionRequest{
		SessionID:       "missing",
		InteractionType: "click",
	})
	assert.ErrorIs(t, err, pdp.ErrSessionNotFound)
}

func TestRecordConversion_CountsWidgetOncePerSession(t *testing.T) {
	f := newPdpFixture()
	f.rules.active = []entity.IntentRule{highIntentRule()}
	f.widgets.activeWidget = urgencyWidget()

	_, err := f.service.Poll(context.Background(), "mer-1", pollRequest())
	require.NoError(t, err)

	err = f.service.RecordConversion(context.Background(), "mer-1", "ses-1", pdp.ConversionRequest{
		ConversionType:  "add_to_cart",
		ConversionValue: 49.99,
	})
	require.NoError(t, err)

	err = f.service.RecordConversion(context.Background(), "mer-1", "ses-1", pdp.ConversionRequest{
		ConversionType:  "purchase",
		ConversionValue: 99.98,
	})
	require.NoError(t, err)

	// The widget counter moves once, the detection row keeps the latest
	// conversion.
	assert.Equal(t, 1, f.widgets.conversions)

	detection, err := f.detections.GetBySessionID(context.Background(), "ses-1", "mer-1")
	require.NoError(t, err)
	assert.Equal(t, "purchase", detection.ConversionType)
	assert.Equal(t, 99.98, detection.ConversionValue)
}

func TestRecordConversion_Errors(t *testing.T) {
	f := newPdpFixture()

	err := f.service.RecordConversion(context.Background(), "mer-1", "ses-1", pdp.ConversionRequest{
		ConversionType: "subscription",
	})
	assert.ErrorIs(t, err, pdp.ErrInvalidConversionType)

	err = f.service.RecordConversion(context.Background(), "mer-1", "missing", pdp.ConversionRequest{
		ConversionType: "purchase",
	})
	assert.ErrorIs(t, err, pdp.ErrSessionNotFound)
}

func TestTrackEvent(t *testing.T) {
	f := newPdpFixture()
	f.rules.active = []entity.IntentRule{highIntentRule()}

	_, err := f.service.Poll(context.Background(), "mer-1", pollRequest())
	require.NoError(t, err)

	err = f.service.TrackEvent(context.Background(), "mer-1", pdp.EventRequest{
		SessionID: "ses-1",
		EventType: "image_zoom",
		EventData: map[string]interface{}{"image": 2},
	})
	require.NoError(t, err)

	events, err := f.events.GetBySessionID(context.Background(), "ses-1")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "image_zoom", events[0].EventType)
	assert.NotEmpty(t, events[0].ID)
}

func TestTrackEvent_Errors(t *testing.T) {
	f := newPdpFixture()
	f.rules.active = []entity.IntentRule{highIntentRule()}

	err := f.service.TrackEvent(context.Background(), "mer-1", pdp.EventRequest{
		SessionID: "ses-1",
	})
	assert.ErrorIs(t, err, pdp.ErrInvalidEventType)

	err = f.service.TrackEvent(context.Background(), "mer-1", pdp.EventRequest{
		SessionID: "missing",
		EventType: "image_zoom",
	})
	assert.ErrorIs(t, err, pdp.ErrSessionNotFound)
}

func TestTrackEvent_CapsSessionLog(t *testing.T) {
	f := newPdpFixture()
	f.rules.active = []entity.IntentRule{highIntentRule()}

	_, err := f.service.Poll(context.Background(), "mer-1", pollRequest())
	require.NoError(t, err)

	for i := 0; i < entity.MaxSessionEvents+10; i++ {
		err := f.service.TrackEvent(context.Background(), "mer-1", pdp.EventRequest{
			SessionID: "ses-1",
			EventType: "scroll",
		})
		require.NoError(t, err)
	}

	events, err := f.events.GetBySessionID(context.Background(), "ses-1")
	require.NoError(t, err)
	assert.Len(t, events, entity.MaxSessionEvents)
}

func TestGetSession(t *testing.T) {
	f := newPdpFixture()
	f.rules.active = []entity.IntentRule{highIntentRule()}

	_, err := f.service.Poll(context.Background(), "mer-1", pollRequest())
	require.NoError(t, err)

	err = f.service.TrackEvent(context.Background(), "mer-1", pdp.EventRequest{
		SessionID: "ses-1",
		EventType: "scroll",
	})
	require.NoError(t, err)

	detection, events, err := f.service.GetSession(context.Background(), "mer-1", "ses-1")
	require.NoError(t, err)
	assert.Equal(t, "ses-1", detection.SessionID)
	assert.Len(t, events, 1)

	_, _, err = f.service.GetSession(context.Background(), "other-merchant", "ses-1")
	assert.ErrorIs(t, err, pdp.ErrSessionNotFound)
}

func TestCleanupExpired(t *testing.T) {
	f := newPdpFixture()

	old := entity.Detection{
		SessionID:  "ses-old",
		MerchantID: "mer-1",
		CreatedAt:  time.Now().Add(-entity.DetectionRetention - time.Hour),
	}
	fresh := entity.Detection{
		SessionID:  "ses-new",
		MerchantID: "mer-1",
		CreatedAt:  time.Now(),
	}
	require.NoError(t, f.detections.UpsertBySessionID(context.Background(), old))
	require.NoError(t, f.detections.UpsertBySessionID(context.Background(), fresh))

	deleted, err := f.service.CleanupExpired(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	_, err = f.detections.GetBySessionID(context.Background(), "ses-old", "mer-1")
	assert.ErrorIs(t, err, pdp.ErrSessionNotFound)
	_, err = f.detections.GetBySessionID(context.Background(), "ses-new", "mer-1")
	assert.NoError(t, err)
}
