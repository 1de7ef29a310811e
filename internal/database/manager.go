package database

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// Backend identifies which document store the database URL selects.
type Backend int

const (
	// BackendPostgres stores documents in PostgreSQL through GORM.
	BackendPostgres Backend = iota
	// BackendSQLite stores documents in a SQLite file through GORM.
	BackendSQLite
	// BackendMongo stores documents in MongoDB collections.
	BackendMongo
)

func (b Backend) String() string {
	switch b {
	case BackendPostgres:
		return "postgres"
	case BackendSQLite:
		return "sqlite"
	case BackendMongo:
		return "mongodb"
	default:
		return "unknown"
	}
}

// DetectBackend chooses a backend from the URL scheme.
func DetectBackend(url string) (Backend, error) {
	lower := strings.ToLower(strings.TrimSpace(url))
	switch {
	case strings.HasPrefix(lower, "mongodb://"), strings.HasPrefix(lower, "mongodb+srv://"):
		return BackendMongo, nil
	case strings.HasPrefix(lower, "postgres://"), strings.HasPrefix(lower, "postgresql://"):
		return BackendPostgres, nil
	case strings.HasPrefix(lower, "sqlite://"), strings.HasPrefix(lower, "file:"):
		return BackendSQLite, nil
	default:
		return 0, fmt.Errorf("unsupported database url scheme")
	}
}

// State is the connectivity of the document store as last observed.
type State int32

const (
	StateDisconnected State = iota
	StateConnected
	StateConnecting
	StateDisconnecting
)

func (s State) String() string {
	switch s {
	case StateConnected:
		return "connected"
	case StateConnecting:
		return "connecting"
	case StateDisconnecting:
		return "disconnecting"
	default:
		return "disconnected"
	}
}

// Options configures a Manager.
type Options struct {
	URL          string
	DatabaseName string
	PingTimeout  time.Duration
	Logger       zerolog.Logger
}

// Manager owns the store handle and its connection state. It is the only writer of State.
type Manager struct {
	backend     Backend
	gormDB      *gorm.DB
	mongoClient *mongo.Client
	mongoDB     *mongo.Database
	pingTimeout time.Duration
	logger      zerolog.Logger

	state     atomic.Int32
	closeOnce sync.Once
}

// NewManager opens the store handle without requiring the server to be reachable.
func NewManager(opts Options) (*Manager, error) {
	backend, err := DetectBackend(opts.URL)
	if err != nil {
		return nil, err
	}
	if opts.PingTimeout <= 0 {
		opts.PingTimeout = 5 * time.Second
	}

	m := &Manager{
		backend:     backend,
		pingTimeout: opts.PingTimeout,
		logger:      opts.Logger.With().Str("component", "database").Str("backend", backend.String()).Logger(),
	}

	switch backend {
	case BackendMongo:
		client, err := OpenMongo(opts.URL)
		if err != nil {
			return nil, err
		}
		m.mongoClient = client
		m.mongoDB = client.Database(opts.DatabaseName)
	case BackendPostgres:
		db, err := OpenPostgres(opts.URL)
		if err != nil {
			return nil, err
		}
		m.gormDB = db
	case BackendSQLite:
		db, err := OpenSQLite(opts.URL)
		if err != nil {
			return nil, err
		}
		m.gormDB = db
	}

	return m, nil
}

// NewGORMManager wraps an already opened GORM handle.
func NewGORMManager(db *gorm.DB, logger zerolog.Logger) *Manager {
	m := &Manager{
		backend:     BackendSQLite,
		gormDB:      db,
		pingTimeout: 5 * time.Second,
		logger:      logger.With().Str("component", "database").Logger(),
	}
	return m
}

// Backend reports the selected store backend.
func (m *Manager) Backend() Backend {
	return m.backend
}

// GORM returns the relational handle, or nil for the MongoDB backend.
func (m *Manager) GORM() *gorm.DB {
	return m.gormDB
}

// Mongo returns the MongoDB database, or nil for relational backends.
func (m *Manager) Mongo() *mongo.Database {
	return m.mongoDB
}

// State returns the last observed connectivity.
func (m *Manager) State() State {
	return State(m.state.Load())
}

// Connect verifies the store is reachable and records the outcome.
func (m *Manager) Connect(ctx context.Context) error {
	m.state.Store(int32(StateConnecting))
	if err := m.ping(ctx); err != nil {
		m.state.Store(int32(StateDisconnected))
		m.logger.Error().Err(err).Msg("document store unreachable")
		return fmt.Errorf("connect %s: %w", m.backend, err)
	}
	m.state.Store(int32(StateConnected))
	m.logger.Info().Msg("document store connected")
	return nil
}

// Check pings the store and updates the state. A closing manager keeps its state.
func (m *Manager) Check(ctx context.Context) State {
	current := m.State()
	if current == StateDisconnecting || current == StateConnecting {
		return current
	}
	if err := m.ping(ctx); err != nil {
		if current == StateConnected {
			m.logger.Warn().Err(err).Msg("document store connection lost")
		}
		m.state.Store(int32(StateDisconnected))
		return StateDisconnected
	}
	if current != StateConnected {
		m.logger.Info().Msg("document store reconnected")
	}
	m.state.Store(int32(StateConnected))
	return StateConnected
}

// Close releases the store handle.
func (m *Manager) Close(ctx context.Context) error {
	var err error
	m.closeOnce.Do(func() {
		m.state.Store(int32(StateDisconnecting))
		switch {
		case m.mongoClient != nil:
			err = m.mongoClient.Disconnect(ctx)
		case m.gormDB != nil:
			sqlDB, dbErr := m.gormDB.DB()
			if dbErr != nil {
				err = dbErr
				break
			}
			err = sqlDB.Close()
		}
		m.state.Store(int32(StateDisconnected))
		if err != nil {
			m.logger.Error().Err(err).Msg("close document store")
			return
		}
		m.logger.Info().Msg("document store closed")
	})
	return err
}

func (m *Manager) ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, m.pingTimeout)
	defer cancel()

	if m.mongoClient != nil {
		return m.mongoClient.Ping(ctx, nil)
	}
	if m.gormDB == nil {
		return fmt.Errorf("no store handle")
	}
	sqlDB, err := m.gormDB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
