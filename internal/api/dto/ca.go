package dto

// CAProfileCreateDTO registers an accountant profile.
type CAProfileCreateDTO struct {
	FirmName         string   `json:"firmName" binding:"required,max=255"`
	MembershipNumber string   `json:"membershipNumber" binding:"required,max=50"`
	PracticeAreas    []string `json:"practiceAreas" binding:"required,min=1"`
	City             string   `json:"city" binding:"required,max=100"`
	ExperienceYears  int      `json:"experienceYears" binding:"min=0,max=60"`
	FeeBand          int8     `json:"feeBand" binding:"min=0,max=3"`
	About            string   `json:"about" binding:"max=2000"`
}

// CAProfileUpdateDTO edits an existing profile. MembershipNumber is fixed
// after registration.
type CAProfileUpdateDTO struct {
	FirmName        string   `json:"firmName" binding:"required,max=255"`
	PracticeAreas   []string `json:"practiceAreas" binding:"required,min=1"`
	City            string   `json:"city" binding:"required,max=100"`
	ExperienceYears int      `json:"experienceYears" binding:"min=0,max=60"`
	FeeBand         int8     `json:"feeBand" binding:"min=0,max=3"`
	About           string   `json:"about" binding:"max=2000"`
}

// CASearchDTO queries the accountant directory.
type CASearchDTO struct {
	Query         string `form:"q"`
	City          string `form:"city"`
	PracticeArea  string `form:"practiceArea"`
	FeeBand       int8   `form:"feeBand"`
	MinExperience int    `form:"minExperience"`
	VerifiedOnly  bool   `form:"verifiedOnly"`
	Cursor        string `form:"cursor"`
	PageSize      int    `form:"pageSize,default=20" binding:"min=1,max=50"`
}

// CAProfileDTO is the public accountant card.
type CAProfileDTO struct {
	UserID          uint64   `json:"userId"`
	DisplayName     string   `json:"displayName"`
	AvatarURL       string   `json:"avatarUrl"`
	FirmName        string   `json:"firmName"`
	PracticeAreas   []string `json:"practiceAreas"`
	City            string   `json:"city"`
	ExperienceYears int      `json:"experienceYears"`
	FeeBand         int8     `json:"feeBand"`
	About           string   `json:"about"`
	IsVerified      bool     `json:"isVerified"`
	Rating          float64  `json:"rating"`
	ReviewCount     int      `json:"reviewCount"`
}

// CASearchResultDTO is one directory page plus the cursor for the next.
type CASearchResultDTO struct {
	Items      []*CAProfileDTO `json:"items"`
	NextCursor string          `json:"nextCursor"`
}
