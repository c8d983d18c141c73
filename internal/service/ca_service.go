package service

import (
	"CAConnect/internal/api/dto"
	"CAConnect/internal/model"
	"CAConnect/internal/pkg/consts"
	"CAConnect/internal/pkg/es"
	"CAConnect/internal/pkg/minio"
	"CAConnect/internal/pkg/redis"
	"CAConnect/internal/pkg/util"
	"CAConnect/internal/repository"
	"context"
	log "log/slog"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

const caProfileCacheExpiration = time.Hour

type CAService interface {
	CreateProfile(ctx context.Context, userID uint64, req *dto.CAProfileCreateDTO) (*dto.CAProfileDTO, error)
	GetProfile(ctx context.Context, userID uint64) (*dto.CAProfileDTO, error)
	UpdateProfile(ctx context.Context, userID uint64, req *dto.CAProfileUpdateDTO) (*dto.CAProfileDTO, error)
	SetVerified(ctx context.Context, userID uint64, verified bool) error
	Search(ctx context.Context, req *dto.CASearchDTO) (*dto.CASearchResultDTO, error)
	GetSuggestions(ctx context.Context, keyword string) ([]string, error)
	GetDailyMetrics(ctx context.Context, caID uint64, days int) ([]*dto.CAMetricDTO, error)
}

type CAServiceImpl struct {
	profileRepo repository.CAProfileRepo
	metricRepo  repository.CAMetricRepo
	caES        es.CARepo
}

func NewCAService(profileRepo repository.CAProfileRepo, metricRepo repository.CAMetricRepo, caES es.CARepo) CAService {
	return &CAServiceImpl{
		profileRepo: profileRepo,
		metricRepo:  metricRepo,
		caES:        caES,
	}
}

func (s *CAServiceImpl) CreateProfile(ctx context.Context, userID uint64, req *dto.CAProfileCreateDTO) (*dto.CAProfileDTO, error) {
	existing, err := s.profileRepo.GetProfileByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrCAProfileExist
	}

	profile := &model.CAProfile{
		UserID:           userID,
		FirmName:         req.FirmName,
		MembershipNumber: req.MembershipNumber,
		PracticeAreas:    req.PracticeAreas,
		City:             req.City,
		ExperienceYears:  req.ExperienceYears,
		FeeBand:          req.FeeBand,
		About:            req.About,
	}
	if err = s.profileRepo.CreateProfile(ctx, profile); err != nil {
		if isDuplicateError(err) {
			return nil, ErrCAProfileExist
		}
		return nil, err
	}

	// Reload with the user's display fields for the index document.
	profile, err = s.profileRepo.GetProfileByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	s.syncToIndex(ctx, profile)

	return s.profileToDTO(profile), nil
}

func (s *CAServiceImpl) GetProfile(ctx context.Context, userID uint64) (*dto.CAProfileDTO, error) {
	cacheKey := consts.CAProfileKey + strconv.FormatUint(userID, 10)
	if value, err := redis.GetValue(ctx, cacheKey); err == nil && value != "" {
		var cached dto.CAProfileDTO
		if err = json.Unmarshal([]byte(value), &cached); err == nil {
			return &cached, nil
		}
	}

	profile, err := s.profileRepo.GetProfileByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, ErrCAProfileNotFound
	}

	result := s.profileToDTO(profile)
	if data, err := json.Marshal(result); err == nil {
		_ = redis.SetWithExpiration(ctx, cacheKey, string(data), caProfileCacheExpiration)
	}
	return result, nil
}

func (s *CAServiceImpl) UpdateProfile(ctx context.Context, userID uint64, req *dto.CAProfileUpdateDTO) (*dto.CAProfileDTO, error) {
	lockKey := consts.ProfileUpdateLock + strconv.FormatUint(userID, 10)
	lockToken := uuid.NewString()
	lock, err := redis.TryLock(ctx, lockKey, lockToken, 5*time.Second, 3)
	if err != nil {
		return nil, err
	}
	if !lock {
		return nil, UnExpectedError
	}
	defer redis.UnLock(ctx, lockKey, lockToken)

	existing, err := s.profileRepo.GetProfileByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrCAProfileNotFound
	}

	profile := &model.CAProfile{
		UserID:          userID,
		FirmName:        req.FirmName,
		PracticeAreas:   req.PracticeAreas,
		City:            req.City,
		ExperienceYears: req.ExperienceYears,
		FeeBand:         req.FeeBand,
		About:           req.About,
	}
	if err = s.profileRepo.UpdateProfile(ctx, profile); err != nil {
		return nil, err
	}

	profile, err = s.profileRepo.GetProfileByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	s.syncToIndex(ctx, profile)
	_ = redis.DeleteKey(ctx, consts.CAProfileKey+strconv.FormatUint(userID, 10))

	return s.profileToDTO(profile), nil
}

func (s *CAServiceImpl) SetVerified(ctx context.Context, userID uint64, verified bool) error {
	existing, err := s.profileRepo.GetProfileByUserID(ctx, userID)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrCAProfileNotFound
	}
	if err = s.profileRepo.UpdateVerified(ctx, userID, verified); err != nil {
		return err
	}

	profile, err := s.profileRepo.GetProfileByUserID(ctx, userID)
	if err != nil {
		return err
	}
	s.syncToIndex(ctx, profile)
	return redis.DeleteKey(ctx, consts.CAProfileKey+strconv.FormatUint(userID, 10))
}

func (s *CAServiceImpl) Search(ctx context.Context, req *dto.CASearchDTO) (*dto.CASearchResultDTO, error) {
	if s.caES == nil {
		return s.searchFallback(ctx, req)
	}

	sortValues, err := util.DecodeCursor(req.Cursor)
	if err != nil {
		return nil, ErrParamInvalid
	}

	filter := es.CASearchFilter{
		City:          req.City,
		PracticeArea:  req.PracticeArea,
		FeeBand:       req.FeeBand,
		MinExperience: req.MinExperience,
		VerifiedOnly:  req.VerifiedOnly,
	}
	docs, err := s.caES.SearchCAs(ctx, req.Query, filter, sortValues, req.PageSize)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.CAProfileDTO, 0, len(docs))
	for _, doc := range docs {
		items = append(items, esToDTO(doc))
	}
	nextCursor := ""
	if len(docs) == req.PageSize {
		nextCursor = util.EncodeCursor(docs[len(docs)-1].Sort)
	}
	return &dto.CASearchResultDTO{Items: items, NextCursor: nextCursor}, nil
}

// searchFallback serves city-filtered pages straight from the database when
// the search index is unavailable.
func (s *CAServiceImpl) searchFallback(ctx context.Context, req *dto.CASearchDTO) (*dto.CASearchResultDTO, error) {
	offset := 0
	if req.Cursor != "" {
		parsed, err := strconv.Atoi(req.Cursor)
		if err != nil {
			return nil, ErrParamInvalid
		}
		offset = parsed
	}
	profiles, err := s.profileRepo.GetProfilesByCity(ctx, req.City, req.PageSize, offset)
	if err != nil {
		return nil, err
	}
	items := make([]*dto.CAProfileDTO, 0, len(profiles))
	for _, profile := range profiles {
		items = append(items, s.profileToDTO(profile))
	}
	nextCursor := ""
	if len(profiles) == req.PageSize {
		nextCursor = strconv.Itoa(offset + req.PageSize)
	}
	return &dto.CASearchResultDTO{Items: items, NextCursor: nextCursor}, nil
}

func (s *CAServiceImpl) GetSuggestions(ctx context.Context, keyword string) ([]string, error) {
	if s.caES == nil || keyword == "" {
		return []string{}, nil
	}
	return s.caES.GetSuggestions(ctx, keyword)
}

// GetDailyMetrics returns the accountant's activity snapshots for the
// dashboard chart, oldest first.
func (s *CAServiceImpl) GetDailyMetrics(ctx context.Context, caID uint64, days int) ([]*dto.CAMetricDTO, error) {
	since := time.Now().AddDate(0, 0, -days)
	metrics, err := s.metricRepo.GetMetricsSince(ctx, caID, since)
	if err != nil {
		return nil, err
	}
	result := make([]*dto.CAMetricDTO, 0, len(metrics))
	for _, metric := range metrics {
		result = append(result, &dto.CAMetricDTO{
			MetricDate:     metric.MetricDate.Format("2006-01-02"),
			LeadsViewed:    metric.LeadsViewed,
			ContactsGained: metric.ContactsGained,
		})
	}
	return result, nil
}

// syncToIndex pushes the profile into Elasticsearch using the row's update
// time as the external version, so stale writers lose quietly.
func (s *CAServiceImpl) syncToIndex(ctx context.Context, profile *model.CAProfile) {
	if s.caES == nil || profile == nil {
		return
	}
	doc := &es.CAES{
		UserID:          profile.UserID,
		DisplayName:     profile.User.UserDetail.DisplayName,
		FirmName:        profile.FirmName,
		AvatarURL:       profile.User.UserDetail.AvatarURL,
		City:            profile.City,
		PracticeAreas:   profile.PracticeAreas,
		ExperienceYears: profile.ExperienceYears,
		FeeBand:         profile.FeeBand,
		IsVerified:      profile.IsVerified,
		Rating:          profile.Rating,
		ReviewCount:     profile.ReviewCount,
		CreatedAt:       profile.CreatedAt,
	}
	if profile.About != "" {
		doc.About = util.PtrStr(profile.About)
	}
	if err := s.caES.IndexCA(ctx, doc, profile.UpdatedAt.UnixMilli()); err != nil {
		log.Error("Failed to sync CA profile to index", "user_id", profile.UserID, "err", err)
	}
}

func (s *CAServiceImpl) profileToDTO(profile *model.CAProfile) *dto.CAProfileDTO {
	return &dto.CAProfileDTO{
		UserID:          profile.UserID,
		DisplayName:     profile.User.UserDetail.DisplayName,
		AvatarURL:       minio.GetPublicURL(profile.User.UserDetail.AvatarURL),
		FirmName:        profile.FirmName,
		PracticeAreas:   profile.PracticeAreas,
		City:            profile.City,
		ExperienceYears: profile.ExperienceYears,
		FeeBand:         profile.FeeBand,
		About:           profile.About,
		IsVerified:      profile.IsVerified,
		Rating:          profile.Rating,
		ReviewCount:     profile.ReviewCount,
	}
}

func esToDTO(doc *es.CAES) *dto.CAProfileDTO {
	about := ""
	if doc.About != nil {
		about = *doc.About
	}
	return &dto.CAProfileDTO{
		UserID:          doc.UserID,
		DisplayName:     doc.DisplayName,
		AvatarURL:       minio.GetPublicURL(doc.AvatarURL),
		FirmName:        doc.FirmName,
		PracticeAreas:   doc.PracticeAreas,
		City:            doc.City,
		ExperienceYears: doc.ExperienceYears,
		FeeBand:         doc.FeeBand,
		About:           about,
		IsVerified:      doc.IsVerified,
		Rating:          doc.Rating,
		ReviewCount:     doc.ReviewCount,
	}
}
