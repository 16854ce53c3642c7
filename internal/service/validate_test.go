package service

import (
	"strings"
	"testing"

	v1 "moviehub/api/movie/v1"

	"github.com/go-kratos/kratos/v2/errors"
)

func TestValidateRequest(t *testing.T) {
	negative := int32(-5)
	tests := []struct {
		name string
		req  interface{}
		want []string
	}{
		{
			name: "valid review",
			req:  &v1.CreateReviewRequest{Id: "m1", Rating: 5, Comment: "great"},
		},
		{
			name: "rating out of range",
			req:  &v1.CreateReviewRequest{Id: "m1", Rating: 6, Comment: "great"},
			want: []string{"rating must be at most 5"},
		},
		{
			name: "every failure reported",
			req:  &v1.UpdateReviewRequest{Id: 1, Rating: 0},
			want: []string{"rating must be at least 1", "comment is required"},
		},
		{
			name: "movie input uses wire names",
			req: &v1.CreateMovieRequest{MovieInput: v1.MovieInput{
				ReleaseDate:     "15/12/1995",
				DurationMinutes: &negative,
				Genres:          []string{""},
			}},
			want: []string{
				"title is required",
				"duration_minutes must be at least 0",
				"release_date must be a date formatted as YYYY-MM-DD",
				"genres[0] is required",
			},
		},
		{
			name: "registration",
			req:  &v1.RegisterRequest{Username: "al", Email: "nope", Password: "short"},
			want: []string{
				"username must be at least 3",
				"email must be a valid email address",
				"password must be at least 8",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateRequest(tt.req)
			if len(tt.want) == 0 {
				if err != nil {
					t.Fatalf("validateRequest() error = %v", err)
				}
				return
			}
			if !v1.IsUnprocessableEntity(err) {
				t.Fatalf("validateRequest() error = %v, want 422", err)
			}
			msg := errors.FromError(err).Message
			for _, w := range tt.want {
				if !strings.Contains(msg, w) {
					t.Errorf("message %q does not mention %q", msg, w)
				}
			}
		})
	}
}
