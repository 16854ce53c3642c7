package service

import (
	"context"
	"time"

	v1 "moviehub/api/movie/v1"
	"moviehub/internal/biz"

	"github.com/go-kratos/kratos/v2/middleware/auth/jwt"
	"github.com/google/wire"
)

// ProviderSet is service providers.
var ProviderSet = wire.NewSet(NewMovieService, NewAccountService, NewAdminService)

const (
	dateLayout      = "2006-01-02"
	timestampLayout = time.RFC3339
)

// currentUserID returns the subject of the verified token carried by ctx.
func currentUserID(ctx context.Context) (string, bool) {
	claims, ok := jwt.FromContext(ctx)
	if !ok {
		return "", false
	}
	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return "", false
	}
	return sub, true
}

func requireUser(ctx context.Context) (string, error) {
	id, ok := currentUserID(ctx)
	if !ok {
		return "", v1.ErrorUnauthorized("authentication required")
	}
	return id, nil
}

func movieToItem(m *biz.Movie) *v1.MovieItem {
	item := &v1.MovieItem{
		Id:              m.ID,
		Title:           m.Title,
		DurationDisplay: biz.FormatDuration(m.Duration),
		Description:     m.Description,
		ReleaseDate:     m.ReleaseDate.Format(dateLayout),
		Year:            int32(m.Year),
		Director:        m.Director,
		Actors:          m.Actors,
		Genres:          m.Genres,
		AverageRating:   m.AverageRating,
		PosterUrl:       m.PosterURL,
	}
	if m.Duration != nil {
		mins := int32(m.Duration.Minutes())
		item.DurationMinutes = &mins
	}
	if item.Actors == nil {
		item.Actors = []string{}
	}
	if item.Genres == nil {
		item.Genres = []string{}
	}
	return item
}

func moviesToItems(ms []*biz.Movie) []*v1.MovieItem {
	items := make([]*v1.MovieItem, 0, len(ms))
	for _, m := range ms {
		items = append(items, movieToItem(m))
	}
	return items
}

func reviewToItem(r *biz.Review) *v1.ReviewItem {
	return &v1.ReviewItem{
		Id:         r.ID,
		MovieId:    r.MovieID,
		MovieTitle: r.MovieTitle,
		UserId:     r.UserID,
		Username:   r.Username,
		Rating:     int32(r.Rating),
		Comment:    r.Comment,
		CreatedAt:  r.CreatedAt.UTC().Format(timestampLayout),
		UpdatedAt:  r.UpdatedAt.UTC().Format(timestampLayout),
	}
}

func reviewsToItems(rs []*biz.Review) []*v1.ReviewItem {
	items := make([]*v1.ReviewItem, 0, len(rs))
	for _, r := range rs {
		items = append(items, reviewToItem(r))
	}
	return items
}

func genreToItem(g *biz.Genre) *v1.GenreItem {
	return &v1.GenreItem{
		Id:          g.ID,
		Name:        g.Name,
		DisplayName: biz.GenreDisplayName(g.Name),
		MovieCount:  g.MovieCount,
	}
}

func userToItem(u *biz.User) *v1.UserItem {
	return &v1.UserItem{
		Id:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		CreatedAt: u.CreatedAt.UTC().Format(timestampLayout),
	}
}

func watchlistToItem(e *biz.WatchlistEntry) *v1.WatchlistItem {
	return &v1.WatchlistItem{
		Id:      e.ID,
		Movie:   movieToItem(e.Movie),
		AddedOn: e.AddedOn.UTC().Format(timestampLayout),
	}
}

func yearsToWire(years []int) []int32 {
	out := make([]int32, 0, len(years))
	for _, y := range years {
		out = append(out, int32(y))
	}
	return out
}
