package intentRuleService

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"ProjectKwik/internal/api/intentrule"
	intentRuleRepository "ProjectKwik/internal/api/intentrule/repository"
	"ProjectKwik/internal/entity"
	"ProjectKwik/pkg/intent"
	"ProjectKwik/pkg/redis"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRuleStore struct {
	mu   sync.Mutex
	rows map[string]entity.IntentRule
}

func newFakeRuleStore() *fakeRuleStore {
	return &fakeRuleStore{rows: make(map[string]entity.IntentRule)}
}

func (f *fakeRuleStore) Create(_ context.Context, rule entity.IntentRule) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows[rule.ID] = rule
	return nil
}

func (f *fakeRuleStore) GetByID(_ context.Context, id string, merchantID string) (entity.IntentRule, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rule, ok := f.rows[id]
	if !ok || rule.MerchantID != merchantID {
		return entity.IntentRule{}, intentrule.ErrRuleNotFound
	}
	return rule, nil
}

func (f *fakeRuleStore) GetByMerchant(_ context.Context, merchantID string) ([]entity.IntentRule, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var rules []entity.IntentRule
	for _, rule := range f.rows {
		if rule.MerchantID == merchantID {
			rules = append(rules, rule)
		}
	}
	return rules, nil
}

func (f *fakeRuleStore) GetByIntentType(_ context.Context, merchantID string, intentType string) (entity.IntentRule, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, rule := range f.rows {
		if rule.MerchantID == merchantID && string(rule.IntentType) == intentType {
			return rule, nil
		}
	}
	return entity.IntentRule{}, intentrule.ErrRuleNotFound
}

func (f *fakeRuleStore) GetActiveRules(_ context.Context, merchantID string) ([]entity.IntentRule, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var rules []entity.IntentRule
	for _, rule := range f.rows {
		if rule.MerchantID == merchantID && rule.IsActive {
			rules = append(rules, rule)
		}
	}
	return rules, nil
}

func (f *fakeRuleStore) Update(_ context.Context, rule entity.IntentRule) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rows[rule.ID]; !ok {
		return intentrule.ErrRuleNotFound
	}
	f.rows[rule.ID] = rule
	return nil
}

func (f *fakeRuleStore) Delete(_ context.Context, id string, merchantID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	rule, ok := f.rows[id]
	if !ok || rule.MerchantID != merchantID {
		return intentrule.ErrRuleNotFound
	}
	delete(f.rows, id)
	return nil
}

func (f *fakeRuleStore) SetActive(_ context.Context, id string, merchantID string, active bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	rule, ok := f.rows[id]
	if !ok || rule.MerchantID != merchantID {
		return intentrule.ErrRuleNotFound
	}
	rule.IsActive = active
	f.rows[id] = rule
	return nil
}

func (f *fakeRuleStore) IncrementPerformance(_ context.Context, id string, accurate bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	rule, ok := f.rows[id]
	if !ok {
		return intentrule.ErrRuleNotFound
	}
	rule.Performance.TotalDetections++
	if accurate {
		rule.Performance.AccurateDetections++
	} else {
		rule.Performance.FalsePositives++
	}
	rule.Performance.LastUpdated = time.Now()
	f.rows[id] = rule
	return nil
}

type fakeRuleRepo struct {
	store *fakeRuleStore
}

func (f *fakeRuleRepo) NewClient(bool) (intentRuleRepository.Client, error) {
	return intentRuleRepository.Client{
		Rules:    f.store,
		Commit:   func() error { return nil },
		Rollback: func() error { return nil },
	}, nil
}

type fakeCache struct {
	mu      sync.Mutex
	items   map[string][]byte
	deletes []string
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
		f.deletes = append(f.deletes, key)
	}
	return nil
}

type fakeUtils struct {
	counter int
}

func (f *fakeUtils) NewULIDFromTimestamp(time.Time) (string, error) {
	f.counter++
	return fmt.Sprintf("01RULE%010d", f.counter), nil
}

func (f *fakeUtils) NewAPICredential() (string, string, error) { return "pk", "sk", nil }
func (f *fakeUtils) IsValidHexColor(string) bool               { return true }

type ruleFixture struct {
	service IIntentRuleService
	store   *fakeRuleStore
	cache   *fakeCache
}

func newRuleFixture() *ruleFixture {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)

	f := &ruleFixture{
		store: newFakeRuleStore(),
		cache: newFakeCache(),
	}
	f.service = New(log, &fakeRuleRepo{store: f.store}, f.cache, &fakeUtils{})
	return f
}

func createRuleRequest(intentType string) intentrule.CreateRuleRequest {
	return intentrule.CreateRuleRequest{
		IntentType: intentType,
		Threshold:  70,
		BehavioralSignals: []intent.Criterion{
			{Name: "addToCartHover", Enabled: true, Weight: 3},
		},
	}
}

func TestCreateRule(t *testing.T) {
	f := newRuleFixture()

	rule, err := f.service.CreateRule(context.Background(), "mer-1", createRuleRequest("high-intent"))
	require.NoError(t, err)
	assert.NotEmpty(t, rule.ID)
	assert.True(t, rule.IsActive)
	assert.Equal(t, intent.TypeHighIntent, rule.IntentType)

	// Rule writes drop the merchant's cached rule set.
	assert.Contains(t, f.cache.deletes, redis.RuleSetKey("mer-1"))
}

func TestCreateRule_OnePerIntentType(t *testing.T) {
	f := newRuleFixture()

	_, err := f.service.CreateRule(context.Background(), "mer-1", createRuleRequest("high-intent"))
	require.NoError(t, err)

	_, err = f.service.CreateRule(context.Background(), "mer-1", createRuleRequest("high-intent"))
	assert.ErrorIs(t, err, intentrule.ErrRuleAlreadyExists)

	// A different intent type and a different merchant are both fine.
	_, err = f.service.CreateRule(context.Background(), "mer-1", createRuleRequest("price-sensitive"))
	assert.NoError(t, err)
	_, err = f.service.CreateRule(context.Background(), "mer-2", createRuleRequest("high-intent"))
	assert.NoError(t, err)
}

func TestCreateRule_ValidatesCriteria(t *testing.T) {
	f := newRuleFixture()

	req := createRuleRequest("high-intent")
	req.BehavioralSignals[0].Weight = 15

	_, err := f.service.CreateRule(context.Background(), "mer-1", req)
	assert.ErrorIs(t, err, intentrule.ErrInvalidWeight)

	req = createRuleRequest("high-intent")
	req.BehavioralSignals[0].Name = ""

	_, err = f.service.CreateRule(context.Background(), "mer-1", req)
	assert.ErrorIs(t, err, intentrule.ErrInvalidCriterion)
}

func TestUpdateRule_PartialUpdate(t *testing.T) {
	f := newRuleFixture()

	created, err := f.service.CreateRule(context.Background(), "mer-1", createRuleRequest("high-intent"))
	require.NoError(t, err)

	newThreshold := 85.0
	inactive := false
	updated, err := f.service.UpdateRule(context.Background(), created.ID, "mer-1", intentrule.UpdateRuleRequest{
		Threshold: &newThreshold,
		IsActive:  &inactive,
	})
	require.NoError(t, err)

	assert.Equal(t, 85.0, updated.Threshold)
	assert.False(t, updated.IsActive)
	// Untouched fields survive.
	assert.Equal(t, created.BehavioralSignals, updated.BehavioralSignals)
}

func TestUpdateRule_NotFound(t *testing.T) {
	f := newRuleFixture()

	_, err := f.service.UpdateRule(context.Background(), "missing", "mer-1", intentrule.UpdateRuleRequest{})
	assert.ErrorIs(t, err, intentrule.ErrRuleNotFound)
}

func TestDeleteRule_InvalidatesCache(t *testing.T) {
	f := newRuleFixture()

	created, err := f.service.CreateRule(context.Background(), "mer-1", createRuleRequest("high-intent"))
	require.NoError(t, err)

	f.cache.deletes = nil
	require.NoError(t, f.service.DeleteRule(context.Background(), created.ID, "mer-1"))
	assert.Contains(t, f.cache.deletes, redis.RuleSetKey("mer-1"))

	_, err = f.service.GetRule(context.Background(), created.ID, "mer-1")
	assert.ErrorIs(t, err, intentrule.ErrRuleNotFound)
}

func TestRecordFeedbackAndPerformance(t *testing.T) {
	f := newRuleFixture()

	created, err := f.service.CreateRule(context.Background(), "mer-1", createRuleRequest("high-intent"))
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		require.NoError(t, f.service.RecordFeedback(context.Background(), created.ID, "mer-1", true))
	}
	require.NoError(t, f.service.RecordFeedback(context.Background(), created.ID, "mer-1", false))

	perf, err := f.service.GetRulePerformance(context.Background(), created.ID, "mer-1")
	require.NoError(t, err)

	assert.Equal(t, int64(4), perf.TotalDetections)
	assert.Equal(t, int64(3), perf.AccurateDetections)
	assert.Equal(t, int64(1), perf.FalsePositives)
	assert.InDelta(t, 0.75, perf.Accuracy, 0.0001)
	assert.InDelta(t, 0.75, perf.Precision, 0.0001)
	assert.InDelta(t, 1.0, perf.Recall, 0.0001)
}

func TestGetRulePerformance_ZeroDetections(t *testing.T) {
	f := newRuleFixture()

	created, err := f.service.CreateRule(context.Background(), "mer-1", createRuleRequest("high-intent"))
	require.NoError(t, err)

	perf, err := f.service.GetRulePerformance(context.Background(), created.ID, "mer-1")
	require.NoError(t, err)

	assert.Zero(t, perf.TotalDetections)
	assert.Zero(t, perf.Accuracy)
	assert.Zero(t, perf.Precision)
	assert.Zero(t, perf.Recall)
}

func TestRecordFeedback_UnknownRule(t *testing.T) {
	f := newRuleFixture()

	err := f.service.RecordFeedback(context.Background(), "missing", "mer-1", true)
	assert.ErrorIs(t, err, intentrule.ErrRuleNotFound)
}
