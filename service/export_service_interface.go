package service

import (
	"value-helper/snapshot"
)

// ExportServiceInterface defines the contract for export session management
type ExportServiceInterface interface {
	Open(tpl snapshot.Template) *ExportSession
	Get(id string) (*ExportSession, bool)
	Close(id string) bool
	Shutdown()
}
