package syncer

import (
	"testing"

	"github.com/TyReed12/ResTracker/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestNextStatus(t *testing.T) {
	tests := []struct {
		name    string
		current model.SyncStatus
		ev      event
		want    model.SyncStatus
	}{
		{"init to loading", model.StatusInit, eventLoadStarted, model.StatusLoading},
		{"loading to synced", model.StatusLoading, eventRemoteLoaded, model.StatusSynced},
		{"loading to demo", model.StatusLoading, eventRemoteEmptyFirstRun, model.StatusDemo},
		{"loading to offline", model.StatusLoading, eventRemoteUnreachable, model.StatusOffline},
		{"loading to error", model.StatusLoading, eventRemoteRejected, model.StatusError},
		{"synced to offline on lost connectivity", model.StatusSynced, eventConnectivityLost, model.StatusOffline},
		{"demo to offline on lost connectivity", model.StatusDemo, eventConnectivityLost, model.StatusOffline},
		{"offline to synced after drain", model.StatusOffline, eventDrainSucceeded, model.StatusSynced},
		{"offline to error after partial drain", model.StatusOffline, eventDrainFailed, model.StatusError},
		{"error recovers via mutation sync", model.StatusError, eventMutationSynced, model.StatusSynced},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, nextStatus(tt.current, tt.ev))
		})
	}
}
