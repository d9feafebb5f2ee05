package service

import (
	"context"
	"strings"

	"sigmat/internal/models"
	"sigmat/internal/repository"
	"sigmat/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

// UserService provides account and directory business logic.
type UserService struct {
	userRepo  repository.UserRepository
	photoRepo repository.PhotoRepository
}

// RegisterInput carries a new account's fields.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	City     string
	Gender   string
	Age      int
	Bio      string
}

// UpdateProfileInput carries changed profile fields; empty strings and zero
// age are left untouched.
type UpdateProfileInput struct {
	UserID       uint
	Name         string
	City         string
	Bio          string
	Age          int
	ProfilePhoto string
}

// NewUserService returns a new UserService.
func NewUserService(userRepo repository.UserRepository, photoRepo repository.PhotoRepository) *UserService {
	return &UserService{userRepo: userRepo, photoRepo: photoRepo}
}

// Register creates a new account with the starting points balance.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))

	if err := validation.Name(in.Name); err != nil {
		return nil, err
	}
	if err := validation.Email(in.Email); err != nil {
		return nil, err
	}
	if err := validation.Password(in.Password); err != nil {
		return nil, err
	}
	if err := validation.Age(in.Age); err != nil {
		return nil, err
	}
	if err := validation.Gender(in.Gender); err != nil {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		Name:     strings.TrimSpace(in.Name),
		Email:    in.Email,
		Password: string(hashed),
		City:     strings.TrimSpace(in.City),
		Gender:   in.Gender,
		Age:      in.Age,
		Bio:      in.Bio,
		Points:   models.StartingPoints,
		Status:   models.UserStatusActive,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate verifies credentials and returns the user. Blocked accounts
// cannot log in.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewUnauthorizedError("invalid email or password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, models.NewUnauthorizedError("invalid email or password")
	}
	if user.Status == models.UserStatusBlocked {
		return nil, models.NewUnauthorizedError("account is blocked")
	}
	return user, nil
}

// GetUserByID returns the user with the given ID.
func (s *UserService) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// GetProfile returns the user with their gallery preloaded.
func (s *UserService) GetProfile(ctx context.Context, id uint) (*models.User, error) {
	return s.userRepo.GetByIDWithGallery(ctx, id)
}

// Search runs a directory search on behalf of the viewer.
func (s *UserService) Search(ctx context.Context, viewerID uint, filter repository.SearchFilter) ([]models.User, error) {
	if filter.Gender != "" {
		if err := validation.Gender(filter.Gender); err != nil {
			return nil, err
		}
	}
	return s.userRepo.Search(ctx, viewerID, filter)
}

// ListUsers returns a page of all users.
func (s *UserService) ListUsers(ctx context.Context, limit, offset int) ([]models.User, error) {
	return s.userRepo.List(ctx, limit, offset)
}

// UpdateProfile applies non-empty fields to the user's profile. A new
// profile photo goes back through moderation.
func (s *UserService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	if in.Name != "" {
		if err := validation.Name(in.Name); err != nil {
			return nil, err
		}
		user.Name = strings.TrimSpace(in.Name)
	}
	if in.City != "" {
		if len(in.City) > validation.MaxCityLen {
			return nil, models.NewValidationError("city too long")
		}
		user.City = strings.TrimSpace(in.City)
	}
	if in.Bio != "" {
		if len(in.Bio) > validation.MaxBioLen {
			return nil, models.NewValidationError("bio too long (max 500 characters)")
		}
		user.Bio = in.Bio
	}
	if in.Age != 0 {
		if err := validation.Age(in.Age); err != nil {
			return nil, err
		}
		user.Age = in.Age
	}
	if in.ProfilePhoto != "" {
		user.ProfilePhoto = in.ProfilePhoto
		user.ProfilePhotoStatus = models.PhotoStatusPending
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// SetStatus changes an account's status from the admin dashboard.
func (s *UserService) SetStatus(ctx context.Context, userID uint, status models.UserStatus) (*models.User, error) {
	switch status {
	case models.UserStatusActive, models.UserStatusPaused, models.UserStatusBlocked:
	default:
		return nil, models.NewValidationError("invalid account status")
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.Status = status
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteUser removes an account.
func (s *UserService) DeleteUser(ctx context.Context, userID uint) error {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return err
	}
	return s.userRepo.Delete(ctx, userID)
}

// BlockUser records a directional block.
func (s *UserService) BlockUser(ctx context.Context, blockerID, blockedID uint) error {
	if blockerID == blockedID {
		return models.NewSelfRequestError("cannot block yourself")
	}
	if _, err := s.userRepo.GetByID(ctx, blockedID); err != nil {
		return err
	}
	return s.userRepo.CreateBlock(ctx, blockerID, blockedID)
}

// UnblockUser removes a directional block.
func (s *UserService) UnblockUser(ctx context.Context, blockerID, blockedID uint) error {
	return s.userRepo.RemoveBlock(ctx, blockerID, blockedID)
}

// BlockedUsers lists accounts the user has blocked.
func (s *UserService) BlockedUsers(ctx context.Context, blockerID uint) ([]models.User, error) {
	return s.userRepo.BlockedBy(ctx, blockerID)
}

// AddGalleryPhoto stores a new gallery photo pending moderation.
func (s *UserService) AddGalleryPhoto(ctx context.Context, userID uint, url string) (*models.GalleryPhoto, error) {
	if strings.TrimSpace(url) == "" {
		return nil, models.NewValidationError("photo is required")
	}

	count, err := s.photoRepo.CountByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if count >= models.MaxGalleryPhotos {
		return nil, models.NewValidationError("gallery is full (max 5 photos)")
	}

	photo := &models.GalleryPhoto{
		UserID: userID,
		URL:    url,
		Status: models.PhotoStatusPending,
	}
	if err := s.photoRepo.Create(ctx, photo); err != nil {
		return nil, err
	}
	return photo, nil
}

// RemoveGalleryPhoto deletes one of the user's own gallery photos.
func (s *UserService) RemoveGalleryPhoto(ctx context.Context, userID, photoID uint) error {
	photo, err := s.photoRepo.GetByID(ctx, photoID)
	if err != nil {
		return err
	}
	if photo.UserID != userID {
		return models.NewUnauthorizedError("you can only delete your own photos")
	}
	return s.photoRepo.Delete(ctx, photoID)
}
