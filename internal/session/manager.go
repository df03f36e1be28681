package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/johnrirwin/fpviraq/internal/cache"
	"github.com/johnrirwin/fpviraq/internal/catalog"
	"github.com/johnrirwin/fpviraq/internal/compare"
	"github.com/johnrirwin/fpviraq/internal/detail"
	"github.com/johnrirwin/fpviraq/internal/logging"
	"github.com/johnrirwin/fpviraq/internal/models"
	"github.com/johnrirwin/fpviraq/internal/tasks"
)

var ErrSessionNotFound = errors.New("session not found")

const keyPrefix = "session:"

// Config holds session tuning
type Config struct {
	TTL               time.Duration
	StockRequestDelay time.Duration
}

// Manager owns session snapshots. Updates to one session are serialized;
// different sessions proceed independently.
type Manager struct {
	cache     cache.Cache
	catalog   *catalog.Store
	scheduler *tasks.Scheduler
	config    Config
	logger    *logging.Logger
	now       func() time.Time

	mu    sync.Mutex
	locks map[string]*sessionLock
}

// sessionLock is held in locks only while some caller holds or waits on it
type sessionLock struct {
	sync.Mutex
	refs int
}

func NewManager(c cache.Cache, store *catalog.Store, scheduler *tasks.Scheduler, cfg Config, logger *logging.Logger) *Manager {
	if cfg.TTL <= 0 {
		cfg.TTL = 24 * time.Hour
	}
	if cfg.StockRequestDelay <= 0 {
		cfg.StockRequestDelay = 500 * time.Millisecond
	}
	return &Manager{
		cache:     c,
		catalog:   store,
		scheduler: scheduler,
		config:    cfg,
		logger:    logger,
		now:       time.Now,
		locks:     make(map[string]*sessionLock),
	}
}

func (m *Manager) lock(id string) func() {
	m.mu.Lock()
	l, ok := m.locks[id]
	if !ok {
		l = &sessionLock{}
		m.locks[id] = l
	}
	l.refs++
	m.mu.Unlock()

	l.Lock()
	return func() {
		l.Unlock()

		m.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(m.locks, id)
		}
		m.mu.Unlock()
	}
}

func (m *Manager) save(ctx context.Context, s *Snapshot) error {
	s.UpdatedAt = m.now()
	if err := cache.SetJSON(ctx, m.cache, keyPrefix+s.ID, s, m.config.TTL); err != nil {
		return fmt.Errorf("failed to save session %s: %w", s.ID, err)
	}
	return nil
}

func (m *Manager) load(ctx context.Context, id string) (*Snapshot, error) {
	var s Snapshot
	if !cache.GetJSON(ctx, m.cache, keyPrefix+id, &s) {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return &s, nil
}

// Create starts an empty session with the default filter
func (m *Manager) Create(ctx context.Context) (*Snapshot, error) {
	s := newSnapshot(uuid.NewString(), m.now())
	if err := m.save(ctx, s); err != nil {
		return nil, err
	}
	m.logger.Debug("Session created", logging.WithField("session", s.ID))
	return s, nil
}

func (m *Manager) Get(ctx context.Context, id string) (*Snapshot, error) {
	return m.load(ctx, id)
}

// Update applies fn to the stored snapshot and saves it. If fn fails nothing is written.
func (m *Manager) Update(ctx context.Context, id string, fn func(*Snapshot) error) (*Snapshot, error) {
	unlock := m.lock(id)
	defer unlock()

	s, err := m.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(s); err != nil {
		return nil, err
	}
	if err := m.save(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

// Close drops the session and cancels anything scheduled for it
func (m *Manager) Close(ctx context.Context, id string) error {
	m.scheduler.CancelOwner(id)

	unlock := m.lock(id)
	err := m.cache.Delete(ctx, keyPrefix+id)
	unlock()

	if err != nil {
		return fmt.Errorf("failed to close session %s: %w", id, err)
	}
	m.logger.Debug("Session closed", logging.WithField("session", id))
	return nil
}

// SetFilter replaces the session filter; blank fields mean "All"
func (m *Manager) SetFilter(ctx context.Context, id string, f models.FilterState) (*Snapshot, error) {
	return m.Update(ctx, id, func(s *Snapshot) error {
		s.Filter = f.Normalize()
		return nil
	})
}

// Visible applies the session filter to the catalog
func (m *Manager) Visible(s *Snapshot) []models.PartRecord {
	return m.catalog.Search(s.Filter)
}

// CompareSet rebuilds the comparison set from the snapshot
func (m *Manager) CompareSet(s *Snapshot) *compare.Set {
	return compare.NewSet(m.catalog.Lookup(s.Compare)...)
}

// ToggleCompare adds or removes partID from the comparison set. A full set
// returns compare.ErrCompareFull and leaves the session unchanged.
func (m *Manager) ToggleCompare(ctx context.Context, id, partID string) (compare.Toggled, *Snapshot, error) {
	part, err := m.catalog.Get(partID)
	if err != nil {
		return compare.Rejected, nil, err
	}

	var toggled compare.Toggled
	s, err := m.Update(ctx, id, func(s *Snapshot) error {
		set := m.CompareSet(s)
		t, err := set.Toggle(part)
		if err != nil {
			return err
		}
		toggled = t
		s.Compare = set.IDs()
		return nil
	})
	if err != nil {
		return compare.Rejected, nil, err
	}
	return toggled, s, nil
}

func (m *Manager) RemoveCompare(ctx context.Context, id, partID string) (*Snapshot, error) {
	return m.Update(ctx, id, func(s *Snapshot) error {
		set := m.CompareSet(s)
		set.Remove(partID)
		s.Compare = set.IDs()
		return nil
	})
}

func (m *Manager) ClearCompare(ctx context.Context, id string) (*Snapshot, error) {
	return m.Update(ctx, id, func(s *Snapshot) error {
		s.Compare = []string{}
		return nil
	})
}

// DetailView rebuilds the detail projection from the snapshot
func (m *Manager) DetailView(s *Snapshot) *detail.View {
	v := &detail.View{}
	if s.DetailID == "" {
		return v
	}
	part, err := m.catalog.Get(s.DetailID)
	if err != nil {
		return v
	}
	v.Open(part)
	if err := v.Select(s.DetailCursor); err != nil {
		m.logger.Warn("Stored gallery cursor out of range", logging.WithFields(map[string]interface{}{
			"session": s.ID,
			"part":    s.DetailID,
			"cursor":  s.DetailCursor,
		}))
	}
	return v
}

// OpenDetail makes partID the detail subject with the cursor on its first image
func (m *Manager) OpenDetail(ctx context.Context, id, partID string) (*Snapshot, error) {
	if _, err := m.catalog.Get(partID); err != nil {
		return nil, err
	}
	return m.Update(ctx, id, func(s *Snapshot) error {
		s.DetailID = partID
		s.DetailCursor = 0
		return nil
	})
}

// SelectImage moves the gallery cursor of the open part
func (m *Manager) SelectImage(ctx context.Context, id string, index int) (*Snapshot, error) {
	return m.Update(ctx, id, func(s *Snapshot) error {
		v := m.DetailView(s)
		if err := v.Select(index); err != nil {
			return err
		}
		s.DetailCursor = v.Cursor()
		return nil
	})
}

func (m *Manager) CloseDetail(ctx context.Context, id string) (*Snapshot, error) {
	return m.Update(ctx, id, func(s *Snapshot) error {
		s.DetailID = ""
		s.DetailCursor = 0
		return nil
	})
}

// RequestStock marks partID as requested at once and queues the supplier
// notice after the configured delay. Repeat requests are no-ops. The notice
// is dropped if the session closes first.
func (m *Manager) RequestStock(ctx context.Context, id, partID string) (*Snapshot, error) {
	if _, err := m.catalog.Get(partID); err != nil {
		return nil, err
	}

	var fresh bool
	s, err := m.Update(ctx, id, func(s *Snapshot) error {
		if s.HasRequestedStock(partID) {
			return nil
		}
		fresh = true
		s.StockRequested = append(s.StockRequested, partID)
		return nil
	})
	if err != nil || !fresh {
		return s, err
	}

	err = m.scheduler.Schedule(id, m.config.StockRequestDelay, func(ctx context.Context) {
		_, err := m.Update(ctx, id, func(s *Snapshot) error {
			s.Notices = append(s.Notices, Notice{
				Kind:      NoticeStockRequest,
				Message:   StockRequestNotice,
				PartID:    partID,
				CreatedAt: m.now(),
			})
			return nil
		})
		if err != nil {
			m.logger.Debug("Dropped stock request notice", logging.WithFields(map[string]interface{}{
				"session": id,
				"part":    partID,
				"error":   err,
			}))
		}
	})
	if err != nil {
		return nil, fmt.Errorf("failed to schedule stock request: %w", err)
	}

	m.logger.Info("Stock request recorded", logging.WithFields(map[string]interface{}{
		"session": id,
		"part":    partID,
	}))
	return s, nil
}

// DrainNotices returns and clears pending notices
func (m *Manager) DrainNotices(ctx context.Context, id string) ([]Notice, error) {
	var notices []Notice
	_, err := m.Update(ctx, id, func(s *Snapshot) error {
		notices = s.Notices
		s.Notices = []Notice{}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if notices == nil {
		notices = []Notice{}
	}
	return notices, nil
}
