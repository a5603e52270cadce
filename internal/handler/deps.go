package handler

import (
	"dmchat/internal/app/chat"
	"dmchat/internal/app/db"
	"dmchat/internal/app/storage"
	"dmchat/internal/configs"
)

// AppDeps bundles the collaborators every handler may need.
type AppDeps struct {
	Hub            *chat.Hub
	Config         *configs.AppConfig
	StorageService storage.StorageService
	DB             *db.Store
}
