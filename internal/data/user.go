package data

import (
	"context"
	"errors"
	"fmt"

	v1 "moviehub/api/movie/v1"
	"moviehub/internal/biz"

	"github.com/go-kratos/kratos/v2/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type userRepo struct {
	data *Data
	log  *log.Helper
}

// NewUserRepo creates a new user repository
func NewUserRepo(data *Data, logger log.Logger) biz.UserRepo {
	return &userRepo{
		data: data,
		log:  log.NewHelper(logger),
	}
}

func (r *userRepo) CreateUser(ctx context.Context, user *biz.User) error {
	dbUser := &User{
		ID:           user.ID,
		Username:     user.Username,
		Email:        user.Email,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		PasswordHash: user.PasswordHash,
	}
	if err := r.data.DB(ctx).Create(dbUser).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return v1.ErrorUsernameTaken("username %q is taken", user.Username)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	user.CreatedAt = dbUser.CreatedAt
	return nil
}

func (r *userRepo) GetUser(ctx context.Context, id string) (*biz.User, error) {
	var u User
	if err := r.data.DB(ctx).Where("id = ?", id).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, v1.ErrorUserNotFound("user %s not found", id)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return userToBiz(&u), nil
}

func (r *userRepo) GetUserByUsername(ctx context.Context, username string) (*biz.User, error) {
	var u User
	if err := r.data.DB(ctx).Where("username = ?", username).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, v1.ErrorUserNotFound("user %q not found", username)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return userToBiz(&u), nil
}

func userToBiz(u *User) *biz.User {
	return &biz.User{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		PasswordHash: u.PasswordHash,
		CreatedAt:    u.CreatedAt,
	}
}

func (r *userRepo) UsernameExists(ctx context.Context, username string) (bool, error) {
	var count int64
	if err := r.data.DB(ctx).Model(&User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *userRepo) UpdateNames(ctx context.Context, id string, firstName, lastName string) error {
	result := r.data.DB(ctx).Model(&User{}).Where("id = ?", id).Updates(map[string]interface{}{
		"first_name": firstName,
		"last_name":  lastName,
	})
	if result.Error != nil {
		return fmt.Errorf("failed to update user: %w", result.Error)
	}
	return nil
}

func (r *userRepo) GetProfile(ctx context.Context, userID string) (*biz.Profile, error) {
	var p Profile
	if err := r.data.DB(ctx).Where("user_id = ?", userID).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, v1.ErrorUserNotFound("profile of user %s not found", userID)
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return profileToBiz(&p), nil
}

// EnsureProfile is idempotent; concurrent callers end up with the same row.
func (r *userRepo) EnsureProfile(ctx context.Context, userID string) (*biz.Profile, error) {
	db := r.data.DB(ctx)
	err := db.Omit(clause.Associations).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoNothing: true,
	}).Create(&Profile{UserID: userID}).Error
	if err != nil {
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}
	return r.GetProfile(ctx, userID)
}

func (r *userRepo) SaveProfile(ctx context.Context, profile *biz.Profile) error {
	err := r.data.DB(ctx).Model(&Profile{}).Where("user_id = ?", profile.UserID).Updates(map[string]interface{}{
		"bio":        profile.Bio,
		"avatar_url": profile.AvatarURL,
	}).Error
	if err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	return nil
}

func profileToBiz(p *Profile) *biz.Profile {
	return &biz.Profile{
		UserID:    p.UserID,
		Bio:       p.Bio,
		AvatarURL: p.AvatarURL,
	}
}
