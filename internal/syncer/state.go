package syncer

import (
	"github.com/TyReed12/ResTracker/internal/model"
)

// event is a session-level occurrence that can move the sync status.
// Keeping the transition table in one pure function keeps it testable
// apart from any network or storage.
type event int

const (
	eventLoadStarted event = iota
	eventRemoteLoaded
	eventRemoteEmptyFirstRun
	eventRemoteUnreachable
	eventRemoteRejected
	eventConnectivityLost
	eventDrainSucceeded
	eventDrainFailed
	eventMutationSynced
)

// nextStatus is the single transition function for the session status.
func nextStatus(current model.SyncStatus, ev event) model.SyncStatus {
	switch ev {
	case eventLoadStarted:
		return model.StatusLoading
	case eventRemoteLoaded:
		return model.StatusSynced
	case eventRemoteEmptyFirstRun:
		return model.StatusDemo
	case eventRemoteUnreachable, eventConnectivityLost:
		return model.StatusOffline
	case eventRemoteRejected, eventDrainFailed:
		return model.StatusError
	case eventDrainSucceeded, eventMutationSynced:
		return model.StatusSynced
	}
	return current
}
