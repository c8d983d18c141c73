package dto

// RegisterDTO covers both credential flavors: username+password, or a
// phone verified by an sms token.
type RegisterDTO struct {
	Username   *string `json:"username"`
	Password   *string `json:"password"`
	Phone      *string `json:"phone"`
	PhoneToken *string `json:"phoneToken"`

	DisplayName string `json:"displayName" binding:"required,max=50"`
	AsCA        bool   `json:"asCA"`
}

// CredentialDTO is the login body.
type CredentialDTO struct {
	Username *string `json:"username"`
	Password *string `json:"password"`
	Phone    *string `json:"phone"`
	SmsCode  *string `json:"smsCode"`
}

// TokenDTO returns a signed session token.
type TokenDTO struct {
	UserID uint64   `json:"userId"`
	Token  string   `json:"token"`
	Roles  []string `json:"roles"`
}

// SmsSendDTO requests a verification code.
type SmsSendDTO struct {
	Phone string `json:"phone" binding:"required,min=10,max=15"`
}

// SmsCheckDTO verifies a code and returns a short-lived registration token.
type SmsCheckDTO struct {
	Phone string `json:"phone" binding:"required"`
	Code  string `json:"code" binding:"required"`
}

// UserProfileDTO is the public view of a user.
type UserProfileDTO struct {
	UserID      uint64   `json:"userId"`
	DisplayName string   `json:"displayName"`
	AvatarURL   string   `json:"avatarUrl"`
	Bio         *string  `json:"bio"`
	City        *string  `json:"city"`
	Roles       []string `json:"roles"`
}

// UserDetailUpdateDTO edits the caller's own profile.
type UserDetailUpdateDTO struct {
	DisplayName *string `json:"displayName" binding:"omitempty,max=50"`
	Bio         *string `json:"bio" binding:"omitempty,max=255"`
	City        *string `json:"city" binding:"omitempty,max=100"`
	Email       *string `json:"email" binding:"omitempty,email"`
}
