package handler

import (
	"gorm.io/gorm"

	"github.com/helpinghand/internal/auth"
	"github.com/helpinghand/internal/service"
)

// API bundles shared dependencies for HTTP handlers.
type API struct {
	db       *gorm.DB
	users    *service.UserService
	posts    *service.PostService
	comments *service.CommentService
	cards    *service.CardService
	visitors *service.VisitorService
	tokens   *auth.Manager
	store    service.ObjectStore
}

// NewAPI constructs a handler set with shared services.
func NewAPI(gdb *gorm.DB, store service.ObjectStore, tokens *auth.Manager, externalHosts []string) *API {
	cleaner := service.NewAssetCleaner(store)

	return &API{
		db:       gdb,
		users:    service.NewUserService(gdb, cleaner, tokens, externalHosts),
		posts:    service.NewPostService(gdb, cleaner),
		comments: service.NewCommentService(gdb),
		cards:    service.NewCardService(gdb, cleaner),
		visitors: service.NewVisitorService(gdb),
		tokens:   tokens,
		store:    store,
	}
}

// DB exposes the underlying gorm instance.
func (a *API) DB() *gorm.DB {
	return a.db
}
