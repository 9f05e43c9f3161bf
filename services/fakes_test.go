package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Dosada05/pushbike-heats/brackets"
	"github.com/Dosada05/pushbike-heats/models"
	"github.com/Dosada05/pushbike-heats/repositories"
	"github.com/Dosada05/pushbike-heats/storage"
	"github.com/stretchr/testify/require"
)

type finishKey struct{ competitor, round int }

// memDB is an in-memory stand-in for postgres with all-or-nothing transactions.
type memDB struct {
	mu          sync.Mutex
	events      map[int]models.Event
	competitors map[int][]models.Competitor
	batches     map[int][]models.Batch
	finishes    map[finishKey]models.FinishRecord
	finalized   map[int]map[int]time.Time
	nextID      int

	failDeleteFinalized error
}

func newMemDB() *memDB {
	return &memDB{
		events:      map[int]models.Event{},
		competitors: map[int][]models.Competitor{},
		batches:     map[int][]models.Batch{},
		finishes:    map[finishKey]models.FinishRecord{},
		finalized:   map[int]map[int]time.Time{},
	}
}

type memState struct {
	batches   map[int][]models.Batch
	finishes  map[finishKey]models.FinishRecord
	finalized map[int]map[int]time.Time
}

func (m *memDB) save() memState {
	m.mu.Lock()
	defer m.mu.Unlock()
	st := memState{
		batches:   make(map[int][]models.Batch, len(m.batches)),
		finishes:  make(map[finishKey]models.FinishRecord, len(m.finishes)),
		finalized: make(map[int]map[int]time.Time, len(m.finalized)),
	}
	for k, v := range m.batches {
		st.batches[k] = v
	}
	for k, v := range m.finishes {
		st.finishes[k] = v
	}
	for k, v := range m.finalized {
		rounds := make(map[int]time.Time, len(v))
		for r, t := range v {
			rounds[r] = t
		}
		st.finalized[k] = rounds
	}
	return st
}

func (m *memDB) restore(st memState) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.batches, m.finishes, m.finalized = st.batches, st.finishes, st.finalized
}

type memTx struct{ db *memDB }

func (t memTx) RunInTx(ctx context.Context, fn func(exec repositories.SQLExecutor) error) error {
	saved := t.db.save()
	if err := fn(nil); err != nil {
		t.db.restore(saved)
		return err
	}
	return nil
}

type memEvents struct{ db *memDB }

func (r memEvents) GetByID(ctx context.Context, id int) (*models.Event, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	e, ok := r.db.events[id]
	if !ok {
		return nil, repositories.ErrEventNotFound
	}
	return &e, nil
}

type memCompetitors struct{ db *memDB }

func (r memCompetitors) ListByEvent(ctx context.Context, eventID int) ([]models.Competitor, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return append([]models.Competitor(nil), r.db.competitors[eventID]...), nil
}

type memBatches struct{ db *memDB }

func (r memBatches) ReplaceForEvent(ctx context.Context, exec repositories.SQLExecutor, eventID int, batches []models.Batch) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.batches[eventID] = batches
	return nil
}

func (r memBatches) ListByEvent(ctx context.Context, eventID int) ([]models.Batch, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return r.db.batches[eventID], nil
}

type memFinishes struct{ db *memDB }

func (r memFinishes) Upsert(ctx context.Context, exec repositories.SQLExecutor, rec *models.FinishRecord) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	key := finishKey{rec.CompetitorID, rec.Round}
	if prev, ok := r.db.finishes[key]; ok {
		rec.ID = prev.ID
	} else {
		r.db.nextID++
		rec.ID = r.db.nextID
	}
	rec.UpdatedAt = time.Now()
	r.db.finishes[key] = *rec
	return nil
}

func (r memFinishes) ListByEvent(ctx context.Context, eventID int) ([]models.FinishRecord, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := make([]models.FinishRecord, 0)
	for _, rec := range r.db.finishes {
		if rec.EventID == eventID {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Round != out[j].Round {
			return out[i].Round < out[j].Round
		}
		return out[i].CompetitorID < out[j].CompetitorID
	})
	return out, nil
}

func (r memFinishes) CountByEvent(ctx context.Context, eventID int) (int, error) {
	recs, _ := r.ListByEvent(ctx, eventID)
	return len(recs), nil
}

type memRounds struct{ db *memDB }

func (r memRounds) ListFinalized(ctx context.Context, eventID int) ([]models.RoundFinalization, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := make([]models.RoundFinalization, 0)
	for round, at := range r.db.finalized[eventID] {
		out = append(out, models.RoundFinalization{EventID: eventID, Round: round, FinalizedAt: at})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Round < out[j].Round })
	return out, nil
}

func (r memRounds) MarkFinalized(ctx context.Context, exec repositories.SQLExecutor, eventID, round int) (*models.RoundFinalization, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.db.finalized[eventID] == nil {
		r.db.finalized[eventID] = map[int]time.Time{}
	}
	if _, ok := r.db.finalized[eventID][round]; ok {
		return nil, repositories.ErrRoundAlreadyFinalized
	}
	at := time.Now()
	r.db.finalized[eventID][round] = at
	return &models.RoundFinalization{EventID: eventID, Round: round, FinalizedAt: at}, nil
}

func (r memRounds) DeleteFinalizedAfter(ctx context.Context, exec repositories.SQLExecutor, eventID, round int) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.db.failDeleteFinalized != nil {
		return 0, r.db.failDeleteFinalized
	}
	var n int64
	for rd := range r.db.finalized[eventID] {
		if rd > round {
			delete(r.db.finalized[eventID], rd)
			n++
		}
	}
	return n, nil
}

type recordingNotifier struct {
	mu       sync.Mutex
	messages []string
}

func (n *recordingNotifier) Notify(eventID int, msgType string, payload interface{}) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, msgType)
}

func (n *recordingNotifier) count(msgType string) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	c := 0
	for _, m := range n.messages {
		if m == msgType {
			c++
		}
	}
	return c
}

type memUploader struct {
	mu      sync.Mutex
	objects map[string][]byte
	fail    error
}

func (u *memUploader) Upload(ctx context.Context, key, contentType string, reader io.Reader) (*storage.UploadResult, error) {
	if u.fail != nil {
		return nil, u.fail
	}
	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.objects == nil {
		u.objects = map[string][]byte{}
	}
	u.objects[key] = body
	return &storage.UploadResult{Key: key, Location: u.GetPublicURL(key)}, nil
}

func (u *memUploader) GetPublicURL(key string) string {
	return "https://results.example.com/" + strings.TrimPrefix(key, "/")
}

type harness struct {
	db       *memDB
	notifier *recordingNotifier
	uploader *memUploader
	batches  BatchService
	brackets BracketService
	scores   ScoreService
	rounds   RoundService
}

const eventID = 1

// newHarness registers riders 1..riders for an event split into batchCount batches.
func newHarness(t *testing.T, riders, batchCount int) *harness {
	t.Helper()
	db := newMemDB()
	db.events[eventID] = models.Event{ID: eventID, Name: "Kejurda Push Bike", Category: "2019", BatchCount: batchCount}
	for i := 1; i <= riders; i++ {
		db.competitors[eventID] = append(db.competitors[eventID], models.Competitor{
			ID: i, EventID: eventID, PaymentStatus: models.PaymentPaid,
			RegisteredAt: time.Date(2024, 5, 1, 8, 0, i, 0, time.UTC),
		})
	}

	store := &Store{
		Events:      memEvents{db},
		Competitors: memCompetitors{db},
		Batches:     memBatches{db},
		Finishes:    memFinishes{db},
		Rounds:      memRounds{db},
		Tx:          memTx{db},
	}
	controller, err := brackets.NewController(brackets.DefaultSettings())
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	n := &recordingNotifier{}
	up := &memUploader{}
	return &harness{
		db:       db,
		notifier: n,
		uploader: up,
		batches:  NewBatchService(store, n, logger),
		brackets: NewBracketService(store, controller),
		scores:   NewScoreService(store, controller, n, up, logger),
		rounds:   NewRoundService(store, controller, n, up, logger),
	}
}

func intp(v int) *int { return &v }

func finish(id, round, placement int) FinishInput {
	return FinishInput{CompetitorID: id, Round: round, Placement: intp(placement)}
}

func requireAllApplied(t *testing.T, results []BulkItemResult) {
	t.Helper()
	for _, r := range results {
		require.NoError(t, r.Err(), "entry %d", r.Index)
	}
}

var errInjected = errors.New("injected failure")
