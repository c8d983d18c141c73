package api

import "CAConnect/internal/api/handler"

// HandlersGroup bundles every initialized handler.
type HandlersGroup struct {
	UserHandler         *handler.UserHandler
	CAHandler           *handler.CAHandler
	LeadHandler         *handler.LeadHandler
	PostHandler         *handler.PostHandler
	ReactionHandler     *handler.ReactionHandler
	ContactHandler      *handler.ContactHandler
	NotificationHandler *handler.NotificationHandler
	WSHandler           *handler.WsHandler
}
