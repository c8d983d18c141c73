package consts

const (
	MimePrefixImage = "image"
)

const (
	TargetTypePost    = "POST"
	TargetTypeComment = "COMMENT"
)

const (
	ReactionLike  = "LIKE"
	ReactionLove  = "LOVE"
	ReactionLaugh = "LAUGH"
	ReactionSad   = "SAD"
	ReactionAngry = "ANGRY"
)

// ReactionTypes lists every valid reaction bucket, in display order.
var ReactionTypes = []string{ReactionLike, ReactionLove, ReactionLaugh, ReactionSad, ReactionAngry}

const (
	RoleCustomer = "CUSTOMER"
	RoleCA       = "CA"
	RoleAdmin    = "ADMIN"
)

const (
	LeadStatusOpen   = 1
	LeadStatusClosed = 2
)

const (
	ContactRequestPending  = 0
	ContactRequestAccepted = 1
	ContactRequestDeclined = 2
)

const (
	DefaultAvatarURL = "default_avatar.png"
)

const BaseURL = "base_url"
