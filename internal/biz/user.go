package biz

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	v1 "moviehub/api/movie/v1"
	"moviehub/internal/conf"

	"github.com/go-kratos/kratos/v2/log"
	jwtv5 "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const defaultTokenTTL = 24 * time.Hour

// UserClaims are the claims carried by user tokens. The subject is the user ID.
type UserClaims struct {
	Username string `json:"username"`
	jwtv5.RegisteredClaims
}

// Registration is the input of Register.
type Registration struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// IssuedToken is a signed user token.
type IssuedToken struct {
	Token     string
	ExpiresAt time.Time
}

// UserUseCase handles account registration
type UserUseCase struct {
	tx       Transaction
	repo     UserRepo
	profiles *ProfileUseCase
	secret   []byte
	ttl      time.Duration
	log      *log.Helper
}

// NewUserUseCase creates a new UserUseCase instance
func NewUserUseCase(c *conf.Auth, tx Transaction, repo UserRepo, profiles *ProfileUseCase, logger log.Logger) *UserUseCase {
	ttl := c.TokenTTL.AsDuration()
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &UserUseCase{
		tx:       tx,
		repo:     repo,
		profiles: profiles,
		secret:   []byte(c.JWTSecret),
		ttl:      ttl,
		log:      log.NewHelper(logger),
	}
}

// Register creates a user, runs the post-creation profile hook and issues a
// token for the new account.
func (uc *UserUseCase) Register(ctx context.Context, in *Registration) (*User, *IssuedToken, error) {
	username := strings.TrimSpace(in.Username)
	exists, err := uc.repo.UsernameExists(ctx, username)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to check username: %w", err)
	}
	if exists {
		return nil, nil, v1.ErrorUsernameTaken("username %q is taken", username)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to hash password: %w", err)
	}
	userID, err := uuid.NewV7()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate user ID: %w", err)
	}

	user := &User{
		ID:           userID.String(),
		Username:     username,
		Email:        strings.TrimSpace(in.Email),
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		PasswordHash: string(hash),
	}
	err = uc.tx.InTx(ctx, func(ctx context.Context) error {
		if err := uc.repo.CreateUser(ctx, user); err != nil {
			return err
		}
		return uc.profiles.OnUserCreated(ctx, user)
	})
	if err != nil {
		return nil, nil, err
	}

	token, err := uc.IssueToken(user)
	if err != nil {
		return nil, nil, err
	}
	uc.log.Infof("registered user %s (%s)", user.Username, user.ID)
	return user, token, nil
}

// Login checks a username and password and issues a fresh token. Unknown
// users and wrong passwords get the same error.
func (uc *UserUseCase) Login(ctx context.Context, username, password string) (*User, *IssuedToken, error) {
	user, err := uc.repo.GetUserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if v1.IsUserNotFound(err) {
			return nil, nil, v1.ErrorUnauthorized("invalid username or password")
		}
		return nil, nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		uc.log.Infof("failed login for user %s", user.Username)
		return nil, nil, v1.ErrorUnauthorized("invalid username or password")
	}

	token, err := uc.IssueToken(user)
	if err != nil {
		return nil, nil, err
	}
	return user, token, nil
}

// IssueToken signs an HS256 token for user.
func (uc *UserUseCase) IssueToken(user *User) (*IssuedToken, error) {
	now := time.Now().UTC()
	expires := now.Add(uc.ttl)
	claims := &UserClaims{
		Username: user.Username,
		RegisteredClaims: jwtv5.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwtv5.NewNumericDate(now),
			ExpiresAt: jwtv5.NewNumericDate(expires),
		},
	}
	signed, err := jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, claims).SignedString(uc.secret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}
	return &IssuedToken{Token: signed, ExpiresAt: expires}, nil
}

// ProfileSummary is everything shown on a user's profile.
type ProfileSummary struct {
	User            *User
	Profile         *Profile
	Stats           *ReviewStats
	FavoriteGenre   *Genre
	Recommendations []*Movie
}

// ProfileEdit updates the non-nil fields.
type ProfileEdit struct {
	FirstName   *string
	LastName    *string
	Bio         *string
	AvatarURL   *string
	ClearAvatar bool
}

// ProfileUseCase handles profile reads and edits
type ProfileUseCase struct {
	tx         Transaction
	userRepo   UserRepo
	reviewRepo ReviewRepo
	movieRepo  MovieRepo
	log        *log.Helper
}

// NewProfileUseCase creates a new ProfileUseCase instance
func NewProfileUseCase(tx Transaction, userRepo UserRepo, reviewRepo ReviewRepo, movieRepo MovieRepo, logger log.Logger) *ProfileUseCase {
	return &ProfileUseCase{
		tx:         tx,
		userRepo:   userRepo,
		reviewRepo: reviewRepo,
		movieRepo:  movieRepo,
		log:        log.NewHelper(logger),
	}
}

// OnUserCreated is the post-creation hook run by registration.
func (uc *ProfileUseCase) OnUserCreated(ctx context.Context, user *User) error {
	if _, err := uc.userRepo.EnsureProfile(ctx, user.ID); err != nil {
		return fmt.Errorf("failed to create profile: %w", err)
	}
	return nil
}

// GetProfile assembles the profile summary of a user.
func (uc *ProfileUseCase) GetProfile(ctx context.Context, userID string) (*ProfileSummary, error) {
	user, err := uc.userRepo.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	profile, err := uc.userRepo.EnsureProfile(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	stats, err := uc.reviewRepo.UserStats(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load review stats: %w", err)
	}
	if stats.AverageRating != nil {
		rounded := math.Round(*stats.AverageRating*10) / 10
		stats.AverageRating = &rounded
	}
	favorite, err := uc.reviewRepo.FavoriteGenre(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load favorite genre: %w", err)
	}
	recommended, err := uc.movieRepo.Recommend(ctx, userID, RecommendationCount)
	if err != nil {
		return nil, fmt.Errorf("failed to load recommendations: %w", err)
	}

	return &ProfileSummary{
		User:            user,
		Profile:         profile,
		Stats:           stats,
		FavoriteGenre:   favorite,
		Recommendations: recommended,
	}, nil
}

// EditProfile applies edit and returns the updated user and profile.
func (uc *ProfileUseCase) EditProfile(ctx context.Context, userID string, edit *ProfileEdit) (*User, *Profile, error) {
	var (
		user    *User
		profile *Profile
	)
	err := uc.tx.InTx(ctx, func(ctx context.Context) error {
		var err error
		user, err = uc.userRepo.GetUser(ctx, userID)
		if err != nil {
			return err
		}
		if edit.FirstName != nil || edit.LastName != nil {
			if edit.FirstName != nil {
				user.FirstName = *edit.FirstName
			}
			if edit.LastName != nil {
				user.LastName = *edit.LastName
			}
			if err := uc.userRepo.UpdateNames(ctx, userID, user.FirstName, user.LastName); err != nil {
				return err
			}
		}

		profile, err = uc.userRepo.EnsureProfile(ctx, userID)
		if err != nil {
			return err
		}
		if edit.Bio != nil {
			profile.Bio = *edit.Bio
		}
		switch {
		case edit.ClearAvatar:
			profile.AvatarURL = nil
		case edit.AvatarURL != nil && *edit.AvatarURL != "":
			avatar := *edit.AvatarURL
			profile.AvatarURL = &avatar
		}
		return uc.userRepo.SaveProfile(ctx, profile)
	})
	if err != nil {
		return nil, nil, err
	}
	return user, profile, nil
}
