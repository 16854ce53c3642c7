package data

import (
	"context"
	"errors"
	"fmt"
	"strings"

	v1 "moviehub/api/movie/v1"
	"moviehub/internal/biz"

	"github.com/go-kratos/kratos/v2/log"
	"gorm.io/gorm"
)

type genreRepo struct {
	data *Data
	log  *log.Helper
}

// NewGenreRepo creates a new genre repository
func NewGenreRepo(data *Data, logger log.Logger) biz.GenreRepo {
	return &genreRepo{
		data: data,
		log:  log.NewHelper(logger),
	}
}

func (r *genreRepo) CreateGenre(ctx context.Context, name string) (*biz.Genre, error) {
	g := &Genre{Name: name}
	if err := r.data.DB(ctx).Create(g).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, v1.ErrorGenreExists("genre %q already exists", name)
		}
		return nil, fmt.Errorf("failed to create genre: %w", err)
	}
	return &biz.Genre{ID: g.ID, Name: g.Name}, nil
}

// GetGenreByName matches name case-insensitively.
func (r *genreRepo) GetGenreByName(ctx context.Context, name string) (*biz.Genre, error) {
	var g Genre
	err := r.data.DB(ctx).Where("LOWER(name) = ?", strings.ToLower(strings.TrimSpace(name))).First(&g).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, v1.ErrorGenreNotFound("genre %q not found", name)
		}
		return nil, fmt.Errorf("failed to get genre: %w", err)
	}
	return &biz.Genre{ID: g.ID, Name: g.Name}, nil
}

// ListGenresInUse returns genres linked to at least one movie, by name.
func (r *genreRepo) ListGenresInUse(ctx context.Context) ([]*biz.Genre, error) {
	var rows []struct {
		ID         uint64
		Name       string
		MovieCount int64
	}
	err := r.data.DB(ctx).
		Table("genres").
		Select("genres.id AS id, genres.name AS name, COUNT(" + movieGenresTable + ".movie_id) AS movie_count").
		Joins("JOIN " + movieGenresTable + " ON " + movieGenresTable + ".genre_id = genres.id").
		Group("genres.id, genres.name").
		Order("genres.name").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list genres: %w", err)
	}

	genres := make([]*biz.Genre, 0, len(rows))
	for _, row := range rows {
		genres = append(genres, &biz.Genre{ID: row.ID, Name: row.Name, MovieCount: row.MovieCount})
	}
	return genres, nil
}
