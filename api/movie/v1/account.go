package v1

import "net/http"

type UserItem struct {
	Id        string `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	CreatedAt string `json:"created_at"`
}

type RegisterRequest struct {
	Username  string `json:"username" validate:"required,min=3,max=150,excludesall= "`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8,max=72"`
	FirstName string `json:"first_name" validate:"max=150"`
	LastName  string `json:"last_name" validate:"max=150"`
}

type RegisterReply struct {
	User      *UserItem `json:"user"`
	Token     string    `json:"token"`
	ExpiresAt string    `json:"expires_at"`
}

func (r *RegisterReply) HTTPStatus() int {
	return http.StatusCreated
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type TokenReply struct {
	User      *UserItem `json:"user"`
	Token     string    `json:"token"`
	ExpiresAt string    `json:"expires_at"`
}

type GetProfileRequest struct{}

type ReviewStats struct {
	AverageRating *float64 `json:"average_rating"`
	TotalReviews  int64    `json:"total_reviews"`
}

type ProfileReply struct {
	User            *UserItem    `json:"user"`
	Bio             string       `json:"bio"`
	AvatarUrl       *string      `json:"avatar_url"`
	Stats           *ReviewStats `json:"stats,omitempty"`
	FavoriteGenre   *string      `json:"favorite_genre"`
	Recommendations []*MovieItem `json:"recommendations,omitempty"`
}

// EditProfileRequest updates only the fields that are present.
type EditProfileRequest struct {
	FirstName   *string `json:"first_name" validate:"omitempty,max=150"`
	LastName    *string `json:"last_name" validate:"omitempty,max=150"`
	Bio         *string `json:"bio"`
	AvatarUrl   *string `json:"avatar_url" validate:"omitempty,max=500"`
	ClearAvatar bool    `json:"clear_avatar"`
}

type ListMyReviewsRequest struct {
	Page string `json:"page"`
}

type ListMyWatchlistRequest struct {
	Sort string `json:"sort"`
}

type WatchlistItem struct {
	Id      uint64     `json:"id"`
	Movie   *MovieItem `json:"movie"`
	AddedOn string     `json:"added_on"`
}

type WatchlistReply struct {
	Items       []*WatchlistItem `json:"items"`
	CurrentSort string           `json:"current_sort"`
}

type ActivityFeedRequest struct {
	Page string `json:"page"`
}

type ActivityItem struct {
	Kind       string `json:"kind"`
	Text       string `json:"text"`
	Timestamp  string `json:"timestamp"`
	MovieId    string `json:"movie_id"`
	MovieTitle string `json:"movie_title"`
}

type ActivityFeedReply struct {
	Items      []*ActivityItem `json:"items"`
	Page       int32           `json:"page"`
	TotalPages int32           `json:"total_pages"`
	Total      int64           `json:"total"`
}

type AddToWatchlistRequest struct {
	MovieId string `json:"movie_id"`
}

// WatchlistEntryReply reports an add. Created is false when the movie was
// already on the watchlist.
type WatchlistEntryReply struct {
	Entry   *WatchlistItem `json:"entry"`
	Created bool           `json:"created"`
	Message string         `json:"message"`
}

func (r *WatchlistEntryReply) HTTPStatus() int {
	if r.Created {
		return http.StatusCreated
	}
	return http.StatusOK
}

type RemoveFromWatchlistRequest struct {
	MovieId string `json:"movie_id"`
}

type RemoveFromWatchlistReply struct {
	Removed bool   `json:"removed"`
	Message string `json:"message"`
}
