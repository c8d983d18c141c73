package consts

const (
	SmsKey           = "sms:validate:code:"
	SmsCheckTokenKey = "sms:check:token:"

	ReactionCountKey    = "reaction:count:"
	ReactionDirtyKey    = "reaction:dirty"
	ReactionReactorsKey = "reaction:reactors:"

	LeadViewerCountKey = "lead:viewer:count:"
	LeadDirtyKey       = "lead:dirty"

	CAProfileKey      = "ca:profile:"
	CARatingKey       = "ca:rating:"
	CASimpleInfoKey   = "ca:simple:info:"
	UserSimpleInfoKey = "user:simple:info:"

	InboxChannelKey = "inbox:channel:"
)

const (
	EngagementNoteLock = "lead:note:lock:"
	ProfileUpdateLock  = "ca:profile:lock:"
)
