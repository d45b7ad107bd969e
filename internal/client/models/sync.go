package models

import "fmt"

// SyncStatus classifies the cart mirror's synchronization state.
type SyncStatus string

const (
	SyncIdle    SyncStatus = "idle"
	SyncLoading SyncStatus = "loading"
	SyncError   SyncStatus = "error"
)

// SyncState is attached to the cart mirror. Reason is set only for SyncError.
type SyncState struct {
	Status SyncStatus
	Reason string
}

// IdleState, LoadingState and ErrorState build the three SyncState values.
func IdleState() SyncState    { return SyncState{Status: SyncIdle} }
func LoadingState() SyncState { return SyncState{Status: SyncLoading} }
func ErrorState(reason string) SyncState {
	return SyncState{Status: SyncError, Reason: reason}
}

func (s SyncState) String() string {
	if s.Status == "" {
		return string(SyncIdle)
	}
	if s.Status == SyncError && s.Reason != "" {
		return fmt.Sprintf("%s(%s)", s.Status, s.Reason)
	}
	return string(s.Status)
}
