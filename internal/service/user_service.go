package service

import (
	"CAConnect/internal/api/dto"
	"CAConnect/internal/model"
	"CAConnect/internal/pkg/consts"
	"CAConnect/internal/pkg/es"
	"CAConnect/internal/pkg/minio"
	"CAConnect/internal/pkg/redis"
	"CAConnect/internal/pkg/security"
	"CAConnect/internal/repository"
	"context"
	log "log/slog"
	"strconv"
	"time"

	"github.com/goccy/go-json"
)

type UserService interface {
	Register(ctx context.Context, req *dto.RegisterDTO) error
	Login(ctx context.Context, req *dto.CredentialDTO) (*dto.TokenDTO, error)
	Logout(ctx context.Context, token string) error
	GetProfile(ctx context.Context, id uint64) (*dto.UserProfileDTO, error)
	GetUserSimpleInfoByIds(ctx context.Context, ids []uint64) (map[uint64]*dto.UserProfileDTO, error)
	UpdateDetail(ctx context.Context, id uint64, req *dto.UserDetailUpdateDTO) error
	UpdateAvatar(ctx context.Context, id uint64, objectName string) error
	BanUser(ctx context.Context, id uint64) error
	UnBanUser(ctx context.Context, id uint64) error
}

type UserServiceImpl struct {
	userRepo repository.UserRepo
	roleRepo repository.RoleRepo
	smsSvc   SmsService
	caES     es.CARepo
}

func NewUserService(userRepo repository.UserRepo, roleRepo repository.RoleRepo, smsSvc SmsService, caES es.CARepo) UserService {
	return &UserServiceImpl{
		userRepo: userRepo,
		roleRepo: roleRepo,
		smsSvc:   smsSvc,
		caES:     caES,
	}
}

// Register creates an account from either a username+password pair or a
// phone verified by an sms token. Every account gets the customer role;
// accountants additionally get the CA role and complete their profile
// separately.
func (s *UserServiceImpl) Register(ctx context.Context, req *dto.RegisterDTO) error {
	if req.Username == nil && req.Phone == nil {
		return ErrMissingLoginCredentials
	}

	if req.Username != nil {
		if req.Password == nil {
			return ErrMissingLoginCredentials
		}
		existing, err := s.userRepo.GetUserByUsername(ctx, *req.Username)
		if err != nil {
			return err
		}
		if existing != nil {
			return ErrUserUsernameExist
		}
	}

	user := &model.User{
		Username: req.Username,
		Phone:    req.Phone,
	}

	if req.Password != nil {
		passwordHash, err := security.HashPassword(*req.Password)
		if err != nil {
			return err
		}
		user.Password = &passwordHash
	}

	if req.Phone != nil {
		existing, err := s.userRepo.GetUserByPhone(ctx, *req.Phone)
		if err != nil {
			return err
		}
		if existing != nil {
			return ErrUserPhoneExist
		}
		if req.PhoneToken == nil {
			return ErrSmsRegTokenIncorrect
		}
		key := consts.SmsCheckTokenKey + *req.Phone
		value, err := redis.GetValue(ctx, key)
		if err != nil {
			return err
		}
		if value != *req.PhoneToken {
			return ErrSmsRegTokenIncorrect
		}
		_ = redis.DeleteKey(ctx, key)
	}

	detail := &model.UserDetail{
		DisplayName: req.DisplayName,
		AvatarURL:   consts.DefaultAvatarURL,
	}

	roleNames := []string{consts.RoleCustomer}
	if req.AsCA {
		roleNames = append(roleNames, consts.RoleCA)
	}
	roles := make([]*model.UserRole, 0, len(roleNames))
	for _, name := range roleNames {
		role, err := s.roleRepo.GetRoleByName(ctx, name)
		if err != nil {
			return err
		}
		if role == nil {
			return UnExpectedError
		}
		roles = append(roles, &model.UserRole{RoleID: role.ID})
	}

	return s.userRepo.CreateUser(ctx, user, detail, roles)
}

func (s *UserServiceImpl) Login(ctx context.Context, req *dto.CredentialDTO) (*dto.TokenDTO, error) {
	var user *model.User
	var err error

	switch {
	case req.Username != nil:
		if req.Password == nil {
			return nil, ErrMissingLoginCredentials
		}
		user, err = s.userRepo.GetUserByUsername(ctx, *req.Username)
		if err != nil {
			return nil, err
		}
		if user == nil {
			return nil, ErrUserNotFound
		}
		if user.Password == nil {
			return nil, ErrPasswordIncorrect
		}
		if err = security.CheckPasswordHash(*req.Password, *user.Password); err != nil {
			return nil, ErrPasswordIncorrect
		}

	case req.Phone != nil:
		if req.SmsCode == nil {
			return nil, ErrMissingLoginCredentials
		}
		if _, err = s.smsSvc.CheckCode(ctx, *req.Phone, *req.SmsCode); err != nil {
			return nil, err
		}
		user, err = s.userRepo.GetUserByPhone(ctx, *req.Phone)
		if err != nil {
			return nil, err
		}
		if user == nil {
			return nil, ErrUserPhoneNotFound
		}

	default:
		return nil, ErrMissingLoginCredentials
	}

	if user.IsBan || user.IsDelete {
		return nil, ErrUserBan
	}

	roleNames, err := s.getRoleNamesForUser(ctx, user)
	if err != nil {
		return nil, err
	}
	token, err := security.GenerateToken(user.ID, roleNames)
	if err != nil {
		return nil, err
	}
	return &dto.TokenDTO{UserID: user.ID, Token: token, Roles: roleNames}, nil
}

// Logout denylists the token signature until the token would have expired
// anyway.
func (s *UserServiceImpl) Logout(ctx context.Context, token string) error {
	signature, err := security.ExtractSignature(token)
	if err != nil {
		return err
	}
	return redis.SetWithExpiration(ctx, signature, true, security.JWTExpirationTime)
}

func (s *UserServiceImpl) GetProfile(ctx context.Context, id uint64) (*dto.UserProfileDTO, error) {
	user, err := s.userRepo.GetUserById(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil || user.IsDelete {
		return nil, ErrUserNotFound
	}
	roleNames, err := s.getRoleNamesForUser(ctx, user)
	if err != nil {
		return nil, err
	}
	return &dto.UserProfileDTO{
		UserID:      user.ID,
		DisplayName: user.UserDetail.DisplayName,
		AvatarURL:   minio.GetPublicURL(user.UserDetail.AvatarURL),
		Bio:         user.UserDetail.Bio,
		City:        user.UserDetail.City,
		Roles:       roleNames,
	}, nil
}

// GetUserSimpleInfoByIds resolves display cards for a batch of users with a
// one hour cache per user.
func (s *UserServiceImpl) GetUserSimpleInfoByIds(ctx context.Context, ids []uint64) (map[uint64]*dto.UserProfileDTO, error) {
	result := make(map[uint64]*dto.UserProfileDTO, len(ids))
	missed := make([]uint64, 0, len(ids))

	for _, id := range ids {
		value, err := redis.GetValue(ctx, consts.UserSimpleInfoKey+strconv.FormatUint(id, 10))
		if err != nil {
			return nil, err
		}
		if value == "" {
			missed = append(missed, id)
			continue
		}
		var profile dto.UserProfileDTO
		if err = json.Unmarshal([]byte(value), &profile); err != nil {
			missed = append(missed, id)
			continue
		}
		result[id] = &profile
	}

	if len(missed) > 0 {
		details, err := s.userRepo.GetUserSimpleInfoByIds(ctx, missed)
		if err != nil {
			return nil, err
		}
		for _, detail := range details {
			profile := &dto.UserProfileDTO{
				UserID:      detail.UserID,
				DisplayName: detail.DisplayName,
				AvatarURL:   minio.GetPublicURL(detail.AvatarURL),
				Bio:         detail.Bio,
				City:        detail.City,
			}
			result[detail.UserID] = profile
			if data, jsonErr := json.Marshal(profile); jsonErr == nil {
				_ = redis.SetWithExpiration(ctx, consts.UserSimpleInfoKey+strconv.FormatUint(detail.UserID, 10), string(data), time.Hour)
			}
		}
	}

	return result, nil
}

func (s *UserServiceImpl) UpdateDetail(ctx context.Context, id uint64, req *dto.UserDetailUpdateDTO) error {
	detail := &model.UserDetail{UserID: id}
	if req.DisplayName != nil {
		detail.DisplayName = *req.DisplayName
	}
	detail.Bio = req.Bio
	detail.City = req.City
	detail.Email = req.Email
	if err := s.userRepo.UpdateUserDetail(ctx, detail); err != nil {
		return err
	}
	s.syncSearchDisplay(ctx, id)
	return redis.DeleteKey(ctx, consts.UserSimpleInfoKey+strconv.FormatUint(id, 10))
}

func (s *UserServiceImpl) UpdateAvatar(ctx context.Context, id uint64, objectName string) error {
	if err := s.userRepo.UpdateUserDetail(ctx, &model.UserDetail{UserID: id, AvatarURL: objectName}); err != nil {
		return err
	}
	s.syncSearchDisplay(ctx, id)
	return redis.DeleteKey(ctx, consts.UserSimpleInfoKey+strconv.FormatUint(id, 10))
}

// syncSearchDisplay rewrites the display name and avatar denormalized into
// the accountant search index. Best effort; a miss heals on the next profile
// save.
func (s *UserServiceImpl) syncSearchDisplay(ctx context.Context, id uint64) {
	if s.caES == nil {
		return
	}
	user, err := s.userRepo.GetUserById(ctx, id)
	if err != nil || user == nil {
		log.WarnContext(ctx, "display sync read failed", "user_id", id, "err", err)
		return
	}
	if err = s.caES.UpdateCADisplay(ctx, id, user.UserDetail.DisplayName, user.UserDetail.AvatarURL); err != nil {
		log.WarnContext(ctx, "display sync to search index failed", "user_id", id, "err", err)
	}
}

func (s *UserServiceImpl) BanUser(ctx context.Context, id uint64) error {
	user, err := s.userRepo.GetUserById(ctx, id)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}
	if err = s.userRepo.UpdateUser(ctx, &model.User{ID: id, IsBan: true}); err != nil {
		return err
	}
	// A banned accountant must not surface in the directory.
	if s.caES != nil {
		if err = s.caES.DeleteCA(ctx, id); err != nil {
			log.WarnContext(ctx, "search index removal failed", "user_id", id, "err", err)
		}
	}
	return nil
}

func (s *UserServiceImpl) UnBanUser(ctx context.Context, id uint64) error {
	return s.userRepo.UpdateUser(ctx, &model.User{ID: id, IsBan: false})
}

func (s *UserServiceImpl) getRoleNamesForUser(ctx context.Context, user *model.User) ([]string, error) {
	roleIDs := make([]uint64, 0, len(user.UserRoles))
	for _, ur := range user.UserRoles {
		roleIDs = append(roleIDs, ur.RoleID)
	}
	roles, err := s.roleRepo.GetRoleByIDs(ctx, roleIDs)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(roles))
	for _, role := range roles {
		names = append(names, role.Name)
	}
	return names, nil
}
