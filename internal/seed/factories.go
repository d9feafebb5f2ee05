// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"sigmat/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options controls seeding behaviour.
type Options struct {
	// SkipBcrypt stores a plaintext password for faster seeding in dev.
	SkipBcrypt bool
	// DryRun logs instead of writing.
	DryRun bool
	// MaxDays spreads created_at over this many days back.
	MaxDays int
}

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db   *gorm.DB
	opts Options
	rng  *rand.Rand
	// synthetic ID counter when running in DryRun mode
	nextID uint
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts Options) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	return &Factory{
		db:     db,
		opts:   opts,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
		nextID: 1000,
	}
}

func (f *Factory) spreadCreatedAt() time.Time {
	maxDays := f.opts.MaxDays
	if maxDays <= 0 {
		maxDays = 90
	}
	daysBack := f.rng.Intn(maxDays)
	hoursBack := f.rng.Intn(24)
	return time.Now().Add(-time.Duration(daysBack)*24*time.Hour - time.Duration(hoursBack)*time.Hour)
}

// CreateUser constructs and persists a sample member profile.
// Optional override functions may modify the generated user before saving.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	gender := models.GenderFemale
	if f.rng.Intn(2) == 0 {
		gender = models.GenderMale
	}

	user := &models.User{
		Name:         gofakeit.Name(),
		Email:        gofakeit.Email(),
		City:         gofakeit.City(),
		Gender:       gender,
		Age:          models.MinAge + f.rng.Intn(models.MaxAge-models.MinAge+1),
		Bio:          gofakeit.Sentence(10),
		ProfilePhoto: fmt.Sprintf("https://i.pravatar.cc/300?u=%s", gofakeit.UUID()),
		Points:       models.StartingPoints,
		Status:       models.UserStatusActive,
		CreatedAt:    f.spreadCreatedAt(),
	}

	if f.opts.SkipBcrypt {
		user.Password = "password123"
	} else {
		hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
		user.Password = string(hashedPassword)
	}

	for _, override := range overrides {
		override(user)
	}

	if f.opts.DryRun {
		f.nextID++
		user.ID = f.nextID
		log.Printf("[dry-run] CreateUser: %s <%s>", user.Name, user.Email)
		return user, nil
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreateFriendRequest persists a pending request between two users.
func (f *Factory) CreateFriendRequest(sender, receiver *models.User) (*models.FriendRequest, error) {
	req := &models.FriendRequest{
		SenderID:   sender.ID,
		ReceiverID: receiver.ID,
		PairKey:    models.PairKey(sender.ID, receiver.ID),
		Status:     models.FriendRequestPending,
		CreatedAt:  f.spreadCreatedAt(),
	}

	if f.opts.DryRun {
		f.nextID++
		req.ID = f.nextID
		log.Printf("[dry-run] CreateFriendRequest: %d -> %d", sender.ID, receiver.ID)
		return req, nil
	}

	if err := f.db.Create(req).Error; err != nil {
		return nil, err
	}
	return req, nil
}

// CreateFriendship persists an accepted request and the resulting edge.
func (f *Factory) CreateFriendship(a, b *models.User) (*models.Friendship, error) {
	now := time.Now()
	req := &models.FriendRequest{
		SenderID:   a.ID,
		ReceiverID: b.ID,
		PairKey:    models.PairKey(a.ID, b.ID),
		Status:     models.FriendRequestAccepted,
		CreatedAt:  f.spreadCreatedAt(),
		ResolvedAt: &now,
	}
	lo, hi := models.CanonicalPair(a.ID, b.ID)
	edge := &models.Friendship{
		UserLowID:  lo,
		UserHighID: hi,
	}

	if f.opts.DryRun {
		f.nextID++
		edge.ID = f.nextID
		log.Printf("[dry-run] CreateFriendship: %d <-> %d", a.ID, b.ID)
		return edge, nil
	}

	if err := f.db.Create(req).Error; err != nil {
		return nil, err
	}
	edge.RequestID = req.ID
	if err := f.db.Create(edge).Error; err != nil {
		return nil, err
	}
	return edge, nil
}

// CreateGalleryPhoto persists a gallery photo for the user.
func (f *Factory) CreateGalleryPhoto(user *models.User, status string) (*models.GalleryPhoto, error) {
	photo := &models.GalleryPhoto{
		UserID: user.ID,
		URL:    fmt.Sprintf("https://picsum.photos/seed/%s/600/800", gofakeit.UUID()),
		Status: status,
	}

	if f.opts.DryRun {
		f.nextID++
		photo.ID = f.nextID
		return photo, nil
	}

	if err := f.db.Create(photo).Error; err != nil {
		return nil, err
	}
	return photo, nil
}

// CreateBroadcast persists an admin announcement.
func (f *Factory) CreateBroadcast(overrides ...func(*models.Broadcast)) (*models.Broadcast, error) {
	broadcast := &models.Broadcast{
		Title:   gofakeit.Sentence(4),
		Content: gofakeit.Paragraph(1, 2, 6, "\n"),
		Type:    "info",
		Active:  true,
	}

	for _, override := range overrides {
		override(broadcast)
	}

	if f.opts.DryRun {
		f.nextID++
		broadcast.ID = f.nextID
		return broadcast, nil
	}

	if err := f.db.Create(broadcast).Error; err != nil {
		return nil, err
	}
	return broadcast, nil
}
