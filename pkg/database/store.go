package database

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/arnavshah/restbook-api-go/pkg/models"
	"github.com/arnavshah/restbook-api-go/pkg/scheduler"
	"github.com/arnavshah/restbook-api-go/pkg/weektime"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrClosed         = errors.New("restaurant is closed at the requested time")
	ErrNoSpace        = errors.New("restaurant has no space at the requested time")
	ErrInvalidBooking = errors.New("invalid booking")
)

// Store keeps restaurants and their bookings. Booking creation for a single
// restaurant is serialised so the space check and the insert see the same
// bookings.
type Store struct {
	db     *gorm.DB
	logger *zap.Logger
	locks  sync.Map // RestaurantRecord.ID -> *sync.Mutex
	newID  func() string
}

// NewStore wraps an initialised database. A nil logger discards output.
func NewStore(db *gorm.DB, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		db:     db,
		logger: logger,
		newID:  uuid.NewString,
	}
}

// lock is only taken for restaurants that exist, so the map is bounded by
// the number of stored restaurants.
func (s *Store) lock(restaurantID uint) *sync.Mutex {
	mu, _ := s.locks.LoadOrStore(restaurantID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

func byPosition(db *gorm.DB) *gorm.DB {
	return db.Order("position")
}

// CreateRestaurant validates and stores a restaurant, returning its new
// identifier. Nothing is stored when validation fails.
func (s *Store) CreateRestaurant(ctx context.Context, r models.Restaurant) (string, error) {
	if err := r.Validate(); err != nil {
		s.logger.Debug("restaurant rejected", zap.String("name", r.Name), zap.Error(err))
		return "", err
	}

	rec := RestaurantRecord{
		UUID:        s.newID(),
		Name:        r.Name,
		Description: r.Description,
	}
	for i, p := range r.OpeningHours {
		rec.Periods = append(rec.Periods, OpeningPeriodRecord{
			Position:    i,
			StartOffset: int(p.Start),
			EndOffset:   int(p.End),
		})
	}
	for i, covers := range r.Tables {
		rec.Tables = append(rec.Tables, TableRecord{Position: i, Covers: covers})
	}

	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return "", fmt.Errorf("store restaurant: %w", err)
	}

	s.logger.Info("restaurant created",
		zap.String("restaurant_id", rec.UUID),
		zap.String("name", rec.Name),
		zap.Int("tables", len(rec.Tables)),
		zap.Int("periods", len(rec.Periods)),
	)
	return rec.UUID, nil
}

func (s *Store) findRestaurant(db *gorm.DB, id string) (RestaurantRecord, error) {
	var rec RestaurantRecord
	err := db.Preload("Periods", byPosition).
		Preload("Tables", byPosition).
		Where("uuid = ?", id).
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return rec, fmt.Errorf("restaurant %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return rec, fmt.Errorf("load restaurant %s: %w", id, err)
	}
	return rec, nil
}

// Restaurant returns the restaurant with the given identifier.
func (s *Store) Restaurant(ctx context.Context, id string) (models.Restaurant, error) {
	rec, err := s.findRestaurant(s.db.WithContext(ctx), id)
	if err != nil {
		return models.Restaurant{}, err
	}
	return rec.model(), nil
}

// Restaurants returns every stored restaurant in creation order.
func (s *Store) Restaurants(ctx context.Context) ([]models.Restaurant, error) {
	var recs []RestaurantRecord
	err := s.db.WithContext(ctx).
		Preload("Periods", byPosition).
		Preload("Tables", byPosition).
		Order("id").
		Find(&recs).Error
	if err != nil {
		return nil, fmt.Errorf("list restaurants: %w", err)
	}
	out := make([]models.Restaurant, len(recs))
	for i, rec := range recs {
		out[i] = rec.model()
	}
	return out, nil
}

// CreateBooking accepts a booking only when the restaurant's opening hours
// cover it and it can be seated without displacing an existing booking.
func (s *Store) CreateBooking(ctx context.Context, restaurantID string, b models.Booking) (string, error) {
	if b.Covers < 1 {
		return "", fmt.Errorf("%w: covers must be at least 1, got %d", ErrInvalidBooking, b.Covers)
	}
	if err := b.Validate(); err != nil {
		return "", err
	}

	id, err := s.insertBooking(ctx, restaurantID, b)
	if err != nil {
		s.logger.Info("booking rejected",
			zap.String("restaurant_id", restaurantID),
			zap.String("reference", b.Reference),
			zap.Int("covers", b.Covers),
			zap.String("reason", err.Error()),
		)
		return "", err
	}

	s.logger.Info("booking created",
		zap.String("restaurant_id", restaurantID),
		zap.String("booking_id", id),
		zap.String("reference", b.Reference),
		zap.Int("covers", b.Covers),
		zap.Time("start", b.Start),
		zap.Time("finish", b.Finish),
	)
	return id, nil
}

// insertBooking runs the closed and space checks and the insert under the
// restaurant's lock.
func (s *Store) insertBooking(ctx context.Context, restaurantID string, b models.Booking) (string, error) {
	rec, err := s.findRestaurant(s.db.WithContext(ctx), restaurantID)
	if err != nil {
		return "", err
	}
	restaurant := rec.model()

	mu := s.lock(rec.ID)
	mu.Lock()
	defer mu.Unlock()

	var id string
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(scheduler.FulfillsTimes(restaurant.OpeningHours, b.Start, b.Finish)) == 0 {
			return ErrClosed
		}

		existing, err := bookingsFor(tx, rec.ID)
		if err != nil {
			return err
		}
		if !scheduler.SpaceAvailable(b, restaurant.Tables, existing) {
			return ErrNoSpace
		}

		row := BookingRecord{
			UUID:         s.newID(),
			RestaurantID: rec.ID,
			Reference:    b.Reference,
			Covers:       b.Covers,
			Start:        b.Start,
			Finish:       b.Finish,
		}
		if err := tx.Create(&row).Error; err != nil {
			return fmt.Errorf("store booking: %w", err)
		}
		id = row.UUID
		return nil
	})
	return id, err
}

// Booking returns the booking with the given identifier.
func (s *Store) Booking(ctx context.Context, id string) (models.Booking, error) {
	var row BookingRecord
	err := s.db.WithContext(ctx).Where("uuid = ?", id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Booking{}, fmt.Errorf("booking %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return models.Booking{}, fmt.Errorf("load booking %s: %w", id, err)
	}
	return row.model(), nil
}

// Bookings returns a restaurant's bookings in the order they were accepted.
func (s *Store) Bookings(ctx context.Context, restaurantID string) ([]models.Booking, error) {
	db := s.db.WithContext(ctx)
	var rec RestaurantRecord
	err := db.Select("id").Where("uuid = ?", restaurantID).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("restaurant %s: %w", restaurantID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load restaurant %s: %w", restaurantID, err)
	}
	return bookingsFor(db, rec.ID)
}

func bookingsFor(db *gorm.DB, restaurantID uint) ([]models.Booking, error) {
	var rows []BookingRecord
	if err := db.Where("restaurant_id = ?", restaurantID).Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("load bookings: %w", err)
	}
	out := make([]models.Booking, len(rows))
	for i, row := range rows {
		out[i] = row.model()
	}
	return out, nil
}

func (rec RestaurantRecord) model() models.Restaurant {
	r := models.Restaurant{
		ID:           rec.UUID,
		Name:         rec.Name,
		Description:  rec.Description,
		OpeningHours: make(models.OpeningHours, len(rec.Periods)),
		Tables:       make([]int, len(rec.Tables)),
	}
	for i, p := range rec.Periods {
		r.OpeningHours[i] = models.OpeningPeriod{
			Start: weektime.MinuteOffset(p.StartOffset),
			End:   weektime.MinuteOffset(p.EndOffset),
		}
	}
	for i, t := range rec.Tables {
		r.Tables[i] = t.Covers
	}
	return r
}

func (row BookingRecord) model() models.Booking {
	return models.Booking{
		ID:        row.UUID,
		Reference: row.Reference,
		Covers:    row.Covers,
		Start:     row.Start,
		Finish:    row.Finish,
	}
}
