package tasks

import "fmt"

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	FetchTracks Phase = iota
	FetchAlbums
	FetchArtists
	UnsetStale
	AbsorbLikes
	FetchMetadata
	PushLikes
	WriteTable
)

func (p Phase) String() string {
	switch p {
	case FetchTracks:
		return "fetch_tracks"
	case FetchAlbums:
		return "fetch_albums"
	case FetchArtists:
		return "fetch_artists"
	case UnsetStale:
		return "unset_stale"
	case AbsorbLikes:
		return "absorb_likes"
	case FetchMetadata:
		return "fetch_metadata"
	case PushLikes:
		return "push_likes"
	case WriteTable:
		return "write_table"
	default:
		return ""
	}
}

func fetchLikedUpdate(phase Phase, step, total int, what string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   phase,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Fetching liked %s...", what),
	}
}

func fetchedLikedUpdate(phase Phase, step, total int, what string, count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   phase,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Fetched %d liked %s", count, what),
	}
}

func unsetStaleUpdate(count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   UnsetStale,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Unset %d stale likes", count),
	}
}

func absorbLikesUpdate(set, added int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   AbsorbLikes,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Re-affirmed %d likes, appended %d new rows", set, added),
	}
}

func fetchMetadataUpdate(step, total int, what string, count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchMetadata,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Fetching metadata for %d %s...", count, what),
	}
}

func pushLikesUpdate(step, total int, action, what string, count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   PushLikes,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("%s %d %s...", action, count, what),
	}
}

func writeTableUpdate(rows int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   WriteTable,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Writing %d rows to the table...", rows),
	}
}
