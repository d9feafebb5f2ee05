package seed

import (
	"fmt"
	"log"

	"sigmat/internal/models"

	"gorm.io/gorm"
)

// Run populates the database with a realistic demo dataset: a mesh of
// members, friendships, pending requests and a couple of broadcasts.
func Run(db *gorm.DB, numUsers int, opts Options) error {
	if numUsers < 4 {
		numUsers = 4
	}

	factory := NewFactory(db, opts)

	users := make([]*models.User, 0, numUsers)
	for i := 0; i < numUsers; i++ {
		user, err := factory.CreateUser()
		if err != nil {
			return fmt.Errorf("create user: %w", err)
		}
		users = append(users, user)
	}
	log.Printf("seeded %d users", len(users))

	// Roughly a third of all pairs become friends, and each user gets a
	// couple of pending requests from later signups.
	friendships := 0
	for i := 0; i < len(users); i++ {
		for j := i + 1; j < len(users) && j < i+4; j++ {
			if (i+j)%3 == 0 {
				if _, err := factory.CreateFriendship(users[i], users[j]); err != nil {
					return fmt.Errorf("create friendship: %w", err)
				}
				friendships++
			} else if (i+j)%3 == 1 {
				if _, err := factory.CreateFriendRequest(users[j], users[i]); err != nil {
					return fmt.Errorf("create friend request: %w", err)
				}
			}
		}
	}
	log.Printf("seeded %d friendships", friendships)

	for _, user := range users[:len(users)/2] {
		status := models.PhotoStatusApproved
		if user.ID%3 == 0 {
			status = models.PhotoStatusPending
		}
		if _, err := factory.CreateGalleryPhoto(user, status); err != nil {
			return fmt.Errorf("create gallery photo: %w", err)
		}
	}

	if _, err := factory.CreateBroadcast(func(b *models.Broadcast) {
		b.Title = "Welcome to SIGMAT"
		b.Content = "Find new friends near you. Complete your profile to show up in search."
	}); err != nil {
		return fmt.Errorf("create broadcast: %w", err)
	}

	return nil
}

// Clean truncates all seedable tables. Order matters for foreign keys.
func Clean(db *gorm.DB) error {
	tables := []interface{}{
		&models.Friendship{},
		&models.FriendRequest{},
		&models.GalleryPhoto{},
		&models.Payment{},
		&models.Notification{},
		&models.Broadcast{},
		&models.UserBlock{},
		&models.User{},
	}
	for _, table := range tables {
		if err := db.Session(&gorm.Session{AllowGlobalUpdate: true}).Unscoped().Delete(table).Error; err != nil {
			return err
		}
	}
	return nil
}
