package model

// SyncStatus is the coarse session status surfaced to the UI. No error is
// ever surfaced as a blocking failure; everything degrades to one of these.
type SyncStatus string

const (
	StatusInit    SyncStatus = "init"
	StatusLoading SyncStatus = "loading"
	StatusSynced  SyncStatus = "synced"
	StatusOffline SyncStatus = "offline"
	StatusError   SyncStatus = "error"
	StatusDemo    SyncStatus = "demo"
)
