package util

import (
	"CAConnect/internal/api/config"
	"fmt"
	log "log/slog"
	"math/rand"
	"net/http"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"
)

const SuccessResp = "0"
const digits = "0123456789"

func SendSms(phone string, code string) error {
	smsCfg := config.Cfg.SMS
	content := url.QueryEscape(fmt.Sprintf("[CAConnect] Your verification code is %s.", code))
	fullUrl := fmt.Sprintf("%s?u=%s&p=%s&m=%s&c=%s", smsCfg.URL, smsCfg.Username, smsCfg.ApiKey, phone, content)

	log.Info(fmt.Sprintf("calling sms gateway: %s", fullUrl))

	client := resty.New().SetTimeout(10 * time.Second)
	response, err := client.R().Get(fullUrl)
	if err != nil {
		return err
	}
	if response.StatusCode() != http.StatusOK {
		return fmt.Errorf("sms send failed: %s", response.Status())
	}
	if string(response.Body()) != SuccessResp {
		return fmt.Errorf("sms send failed: response code %s", string(response.Body()))
	}
	return nil
}

func GenerateCode(length int) string {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	code := make([]byte, length)
	for i := range code {
		code[i] = digits[r.Intn(len(digits))]
	}
	return string(code)
}
