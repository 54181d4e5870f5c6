package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"tutormatch/backend/internal/config"
	"tutormatch/backend/internal/models"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate key")
	// ErrContention means the database aborted the statement or transaction
	// because a concurrent one held the rows it needed (deadlock, serialization, busy).
	ErrContention = errors.New("lock contention")
	// ErrNoBroker is returned by the pub/sub methods when Redis is not configured.
	ErrNoBroker = errors.New("redis is not configured")
)

type Storage interface {
	// Transaction runs fn against a Storage bound to one database transaction.
	// Returning an error from fn rolls everything back.
	Transaction(ctx context.Context, fn func(tx Storage) error) error

	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id uint) (*models.User, error)
	GetUserByPhone(ctx context.Context, phone string) (*models.User, error)
	GetUsersByIDs(ctx context.Context, ids []uint) (map[uint]models.User, error)
	SetUserVerified(ctx context.Context, id uint) error

	CreateMatch(ctx context.Context, m *models.Match) error
	GetMatchByID(ctx context.Context, id uint) (*models.Match, error)
	HasOpenMatch(ctx context.Context, userID uint) (bool, error)
	HasOpenMatchBetween(ctx context.Context, a, b uint) (bool, error)
	TransitionMatch(ctx context.Context, id uint, from, to string, endedAt *time.Time) (bool, error)
	ReleaseMatchLocks(ctx context.Context, matchID uint) error
	ListMatchesForUser(ctx context.Context, userID uint) ([]models.Match, error)
	MarkListingsMatched(ctx context.Context, userID uint, role string) error

	CreateTutorListing(ctx context.Context, l *models.TutorListing) error
	GetTutorListing(ctx context.Context, id uint) (*models.TutorListing, error)
	SaveTutorListing(ctx context.Context, l *models.TutorListing) error
	DeleteTutorListing(ctx context.Context, id uint) error
	ListTutorListingsByUser(ctx context.Context, userID uint) ([]models.TutorListing, error)
	ListOpenTutorListings(ctx context.Context, f models.ListingFilter) ([]models.TutorListing, error)

	CreateTutorRequest(ctx context.Context, r *models.TutorRequest) error
	GetTutorRequest(ctx context.Context, id uint) (*models.TutorRequest, error)
	SaveTutorRequest(ctx context.Context, r *models.TutorRequest) error
	DeleteTutorRequest(ctx context.Context, id uint) error
	ListTutorRequestsByUser(ctx context.Context, userID uint) ([]models.TutorRequest, error)
	ListOpenTutorRequests(ctx context.Context, f models.ListingFilter) ([]models.TutorRequest, error)
	LatestTutorRequestByUser(ctx context.Context, userID uint) (*models.TutorRequest, error)

	CreateMessage(ctx context.Context, msg *models.Message) error
	ListConversation(ctx context.Context, a, b uint) ([]models.Message, error)
	ListMessagesForUser(ctx context.Context, userID uint) ([]models.Message, error)

	PublishDelivery(ctx context.Context, d models.Delivery) error
	SubscribeDeliveries(ctx context.Context) (<-chan models.Delivery, func() error, error)
}

type Service struct {
	DB    *gorm.DB
	Redis *redis.Client
}

// NewStorageService Constructor. rdb may be nil.
func NewStorageService(db *gorm.DB, rdb *redis.Client) *Service {
	return &Service{
		DB:    db,
		Redis: rdb,
	}
}

// Migrate creates or updates every table the service owns.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Match{},
		&models.MatchLock{},
		&models.TutorListing{},
		&models.TutorRequest{},
		&models.Message{},
	)
}

// Transaction also translates a failed commit, so a commit lost to a
// concurrent writer surfaces as ErrContention.
func (s *Service) Transaction(ctx context.Context, fn func(tx Storage) error) error {
	return translate(s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Service{DB: tx, Redis: s.Redis})
	}))
}

// translate maps driver errors onto the storage sentinels.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrDuplicate), errors.Is(err, ErrContention):
		return err
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case isDuplicate(err):
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	case isContention(err):
		return fmt.Errorf("%w: %v", ErrContention, err)
	default:
		return err
	}
}

func isDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	// Драйвери без TranslateError
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "duplicate entry")
}

// isContention recognises deadlocks and lock timeouts from every supported driver.
func isContention(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// serialization_failure, deadlock_detected, lock_not_available
		return pgErr.Code == "40001" || pgErr.Code == "40P01" || pgErr.Code == "55P03"
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		// ER_LOCK_DEADLOCK, ER_LOCK_WAIT_TIMEOUT
		return myErr.Number == 1213 || myErr.Number == 1205
	}
	// SQLite
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "database is locked") ||
		strings.Contains(msg, "database table is locked") ||
		strings.Contains(msg, "sqlite_busy") ||
		strings.Contains(msg, "deadlock")
}

// PublishDelivery публікує повідомлення в Redis Pub/Sub
func (s *Service) PublishDelivery(ctx context.Context, d models.Delivery) error {
	if s.Redis == nil {
		return ErrNoBroker
	}
	payload, err := json.Marshal(d)
	if err != nil {
		return err
	}
	return s.Redis.Publish(ctx, config.MessageChannel, payload).Err()
}

// SubscribeDeliveries subscribes to the message channel and decodes every payload.
// The returned channel closes once the subscription is closed.
func (s *Service) SubscribeDeliveries(ctx context.Context) (<-chan models.Delivery, func() error, error) {
	if s.Redis == nil {
		return nil, nil, ErrNoBroker
	}
	pubsub := s.Redis.Subscribe(ctx, config.MessageChannel)
	// Підтверджуємо підписку до повернення
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, nil, err
	}

	out := make(chan models.Delivery)
	go func() {
		defer close(out)
		for msg := range pubsub.Channel() {
			var d models.Delivery
			if err := json.Unmarshal([]byte(msg.Payload), &d); err != nil {
				continue
			}
			select {
			case out <- d:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, pubsub.Close, nil
}

// rateLimitScript is a fixed-window counter: INCR, and set the TTL on the first hit.
var rateLimitScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return current
`)

// Allow reports whether key is still under limit in the current window.
func (s *Service) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	if s.Redis == nil || limit <= 0 {
		return true, nil
	}
	n, err := rateLimitScript.Run(ctx, s.Redis, []string{"ratelimit:" + key}, window.Milliseconds()).Int64()
	if err != nil {
		return false, err
	}
	return n <= int64(limit), nil
}
