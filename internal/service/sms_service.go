package service

import (
	"CAConnect/internal/pkg/consts"
	"CAConnect/internal/pkg/redis"
	"CAConnect/internal/pkg/util"
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	smsCodeExpiration  = 10 * time.Minute
	smsTokenExpiration = time.Hour
)

type SmsService interface {
	SendCode(ctx context.Context, phone string) error
	// CheckCode verifies the code and issues a short-lived token that
	// proves ownership of the phone during registration.
	CheckCode(ctx context.Context, phone, code string) (string, error)
}

type SmsServiceImpl struct{}

func NewSmsService() SmsService {
	return &SmsServiceImpl{}
}

func (s *SmsServiceImpl) SendCode(ctx context.Context, phone string) error {
	code := util.GenerateCode(6)
	if err := util.SendSms(phone, code); err != nil {
		return err
	}
	return redis.SetWithExpiration(ctx, consts.SmsKey+phone, code, smsCodeExpiration)
}

func (s *SmsServiceImpl) CheckCode(ctx context.Context, phone, code string) (string, error) {
	stored, err := redis.GetValue(ctx, consts.SmsKey+phone)
	if err != nil {
		return "", err
	}
	if stored == "" || stored != code {
		return "", ErrCodeIncorrect
	}
	_ = redis.DeleteKey(ctx, consts.SmsKey+phone)

	token := strings.ReplaceAll(uuid.NewString(), "-", "")
	if err = redis.SetWithExpiration(ctx, consts.SmsCheckTokenKey+phone, token, smsTokenExpiration); err != nil {
		return "", err
	}
	return token, nil
}
