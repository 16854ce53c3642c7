package service

import (
	"context"

	v1 "moviehub/api/movie/v1"
	"moviehub/internal/biz"

	"github.com/go-kratos/kratos/v2/log"
)

// AccountService implements registration and the signed-in user's pages
type AccountService struct {
	userUC      *biz.UserUseCase
	profileUC   *biz.ProfileUseCase
	reviewUC    *biz.ReviewUseCase
	watchlistUC *biz.WatchlistUseCase
	activity    *biz.ActivityComposer
	log         *log.Helper
}

// NewAccountService creates a new AccountService
func NewAccountService(
	userUC *biz.UserUseCase,
	profileUC *biz.ProfileUseCase,
	reviewUC *biz.ReviewUseCase,
	watchlistUC *biz.WatchlistUseCase,
	activity *biz.ActivityComposer,
	logger log.Logger,
) *AccountService {
	return &AccountService{
		userUC:      userUC,
		profileUC:   profileUC,
		reviewUC:    reviewUC,
		watchlistUC: watchlistUC,
		activity:    activity,
		log:         log.NewHelper(logger),
	}
}

func (s *AccountService) Register(ctx context.Context, req *v1.RegisterRequest) (*v1.RegisterReply, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	user, token, err := s.userUC.Register(ctx, &biz.Registration{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		return nil, err
	}
	return &v1.RegisterReply{
		User:      userToItem(user),
		Token:     token.Token,
		ExpiresAt: token.ExpiresAt.Format(timestampLayout),
	}, nil
}

func (s *AccountService) Login(ctx context.Context, req *v1.LoginRequest) (*v1.TokenReply, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	user, token, err := s.userUC.Login(ctx, req.Username, req.Password)
	if err != nil {
		return nil, err
	}
	return &v1.TokenReply{
		User:      userToItem(user),
		Token:     token.Token,
		ExpiresAt: token.ExpiresAt.Format(timestampLayout),
	}, nil
}

func (s *AccountService) GetProfile(ctx context.Context, req *v1.GetProfileRequest) (*v1.ProfileReply, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	summary, err := s.profileUC.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	reply := &v1.ProfileReply{
		User:      userToItem(summary.User),
		Bio:       summary.Profile.Bio,
		AvatarUrl: summary.Profile.AvatarURL,
		Stats: &v1.ReviewStats{
			AverageRating: summary.Stats.AverageRating,
			TotalReviews:  summary.Stats.TotalReviews,
		},
		Recommendations: moviesToItems(summary.Recommendations),
	}
	if summary.FavoriteGenre != nil {
		name := biz.GenreDisplayName(summary.FavoriteGenre.Name)
		reply.FavoriteGenre = &name
	}
	return reply, nil
}

func (s *AccountService) EditProfile(ctx context.Context, req *v1.EditProfileRequest) (*v1.ProfileReply, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	user, profile, err := s.profileUC.EditProfile(ctx, userID, &biz.ProfileEdit{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Bio:         req.Bio,
		AvatarURL:   req.AvatarUrl,
		ClearAvatar: req.ClearAvatar,
	})
	if err != nil {
		return nil, err
	}
	return &v1.ProfileReply{
		User:      userToItem(user),
		Bio:       profile.Bio,
		AvatarUrl: profile.AvatarURL,
	}, nil
}

func (s *AccountService) ListMyReviews(ctx context.Context, req *v1.ListMyReviewsRequest) (*v1.ListReviewsReply, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	page, err := s.reviewUC.ListUserReviews(ctx, userID, req.Page)
	if err != nil {
		return nil, err
	}
	return &v1.ListReviewsReply{
		Items:      reviewsToItems(page.Items),
		Page:       int32(page.Page.Number),
		TotalPages: int32(page.Page.TotalPages),
		Total:      page.Page.Total,
	}, nil
}

func (s *AccountService) ListMyWatchlist(ctx context.Context, req *v1.ListMyWatchlistRequest) (*v1.WatchlistReply, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	entries, key, err := s.watchlistUC.List(ctx, userID, req.Sort)
	if err != nil {
		return nil, err
	}
	items := make([]*v1.WatchlistItem, 0, len(entries))
	for _, e := range entries {
		items = append(items, watchlistToItem(e))
	}
	return &v1.WatchlistReply{Items: items, CurrentSort: string(key)}, nil
}

func (s *AccountService) ActivityFeed(ctx context.Context, req *v1.ActivityFeedRequest) (*v1.ActivityFeedReply, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	feed, err := s.activity.BuildFeed(ctx, userID, req.Page, biz.ActivityPageSize)
	if err != nil {
		return nil, err
	}

	items := make([]*v1.ActivityItem, 0, len(feed.Items))
	for _, a := range feed.Items {
		items = append(items, &v1.ActivityItem{
			Kind:       string(a.Kind),
			Text:       a.Text,
			Timestamp:  a.Timestamp.UTC().Format(timestampLayout),
			MovieId:    a.Movie.ID,
			MovieTitle: a.Movie.Title,
		})
	}
	return &v1.ActivityFeedReply{
		Items:      items,
		Page:       int32(feed.Page.Number),
		TotalPages: int32(feed.Page.TotalPages),
		Total:      feed.Page.Total,
	}, nil
}

func (s *AccountService) AddToWatchlist(ctx context.Context, req *v1.AddToWatchlistRequest) (*v1.WatchlistEntryReply, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	entry, created, err := s.watchlistUC.Add(ctx, userID, req.MovieId)
	if err != nil {
		return nil, err
	}
	reply := &v1.WatchlistEntryReply{Entry: watchlistToItem(entry), Created: created}
	if created {
		reply.Message = "Added to watchlist"
	} else {
		reply.Message = "Already in watchlist"
	}
	return reply, nil
}

func (s *AccountService) RemoveFromWatchlist(ctx context.Context, req *v1.RemoveFromWatchlistRequest) (*v1.RemoveFromWatchlistReply, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	removed, err := s.watchlistUC.Remove(ctx, userID, req.MovieId)
	if err != nil {
		return nil, err
	}
	reply := &v1.RemoveFromWatchlistReply{Removed: removed}
	if removed {
		reply.Message = "Removed from watchlist"
	} else {
		reply.Message = "Not in watchlist"
	}
	return reply, nil
}
