package handler

import (
	"CAConnect/internal/api/dto"
	"CAConnect/internal/pkg/consts"
	"CAConnect/internal/pkg/minio"
	"CAConnect/internal/pkg/response"
	"CAConnect/internal/pkg/util"
	"CAConnect/internal/service"
	log "log/slog"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type UserHandler struct {
	userSvc service.UserService
	smsSvc  service.SmsService
}

func NewUserHandler(userSvc service.UserService, smsSvc service.SmsService) *UserHandler {
	return &UserHandler{
		userSvc: userSvc,
		smsSvc:  smsSvc,
	}
}

func (s *UserHandler) Register(c *gin.Context) {
	var registerDTO dto.RegisterDTO
	if err := c.ShouldBind(&registerDTO); err != nil {
		response.Error(c, err)
		return
	}
	if err := s.userSvc.Register(c.Request.Context(), &registerDTO); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *UserHandler) SendSmsCode(c *gin.Context) {
	var req dto.SmsSendDTO
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, err)
		return
	}
	if err := s.smsSvc.SendCode(c.Request.Context(), req.Phone); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *UserHandler) CheckSmsCode(c *gin.Context) {
	var req dto.SmsCheckDTO
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, err)
		return
	}
	token, err := s.smsSvc.CheckCode(c.Request.Context(), req.Phone, req.Code)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, map[string]string{
		"phoneToken": token,
	})
}

func (s *UserHandler) Login(c *gin.Context) {
	var loginDTO dto.CredentialDTO
	if err := c.ShouldBind(&loginDTO); err != nil {
		response.Error(c, err)
		return
	}
	token, err := s.userSvc.Login(c.Request.Context(), &loginDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, token)
}

func (s *UserHandler) Logout(c *gin.Context) {
	token := c.Request.Header.Get("Authorization")
	token = strings.Replace(token, "Bearer ", "", 1)
	if err := s.userSvc.Logout(c.Request.Context(), token); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *UserHandler) GetMyProfile(c *gin.Context) {
	userID := c.GetUint64("user_id")
	profile, err := s.userSvc.GetProfile(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, profile)
}

func (s *UserHandler) GetUserProfile(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Param("user_id"), 10, 64)
	if err != nil || userID == 0 {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	profile, err := s.userSvc.GetProfile(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, profile)
}

func (s *UserHandler) UpdateProfile(c *gin.Context) {
	userID := c.GetUint64("user_id")
	var req dto.UserDetailUpdateDTO
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, err)
		return
	}
	if err := util.ValidateDTO(&req); err != nil {
		response.Error(c, err)
		return
	}
	if err := s.userSvc.UpdateDetail(c.Request.Context(), userID, &req); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *UserHandler) UploadAvatar(c *gin.Context) {
	userID := c.GetUint64("user_id")
	file, err := c.FormFile("file")
	if err != nil || file == nil {
		response.Fail(c, response.BadRequest, service.ErrParamInvalid.Error())
		return
	}

	reader, err := file.Open()
	if err != nil {
		response.Error(c, err)
		return
	}
	defer func() {
		_ = reader.Close()
	}()

	contentType, err := util.GetSafeContentType(reader)
	if err != nil {
		response.Error(c, err)
		return
	}
	if !strings.HasPrefix(contentType, consts.MimePrefixImage) {
		response.Error(c, service.ErrFileNotSupported)
		return
	}

	objectName := "avatars/" + uuid.NewString() + ".jpg"
	fileKey, err := minio.UploadThumbnail(c.Request.Context(), objectName, reader, 512)
	if err != nil {
		log.ErrorContext(c, "MinIO upload failed", "err", err)
		response.Error(c, service.UnExpectedError)
		return
	}

	if err = s.userSvc.UpdateAvatar(c.Request.Context(), userID, fileKey); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, map[string]string{
		"avatarUrl": minio.GetPublicURL(fileKey),
	})
}

func (s *UserHandler) BanUser(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Param("user_id"), 10, 64)
	if err != nil || userID == 0 {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	if err = s.userSvc.BanUser(c.Request.Context(), userID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *UserHandler) UnbanUser(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Param("user_id"), 10, 64)
	if err != nil || userID == 0 {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	if err = s.userSvc.UnBanUser(c.Request.Context(), userID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
