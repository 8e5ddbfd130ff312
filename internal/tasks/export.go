package tasks

import (
	"context"
	"fmt"

	"github.com/desertthunder/liketab/internal/models"
)

// likeBatch accumulates ids to add or remove at one level so the whole export
// settles in at most six service calls.
type likeBatch struct {
	level models.LikeLevel
	ids   []string
}

// Export pushes checkbox edits to the remote service.
//
// Unchecked rows whose like still exists online are queued for removal;
// checked rows absent online are queued for addition and stamped with the
// snapshot's capture time as an approximate like time. Rows already in the
// desired state are skipped. Mutations happen in at most six batched calls
// (remove then add, tracks then albums then artists); timestamps are adjusted
// at queue time, so a failing batch leaves earlier batches applied.
func (e *LikeEngine) Export(ctx context.Context, progress chan<- ProgressUpdate, snap *models.OnlineSnapshot, entries []models.LikedEntry) (*ExportResult, error) {
	remove := map[models.Granularity]*likeBatch{
		models.GranularityTrack:  {level: models.LevelTrack},
		models.GranularityAlbum:  {level: models.LevelAlbum},
		models.GranularityArtist: {level: models.LevelArtist},
	}
	add := map[models.Granularity]*likeBatch{
		models.GranularityTrack:  {level: models.LevelTrack},
		models.GranularityAlbum:  {level: models.LevelAlbum},
		models.GranularityArtist: {level: models.LevelArtist},
	}

	for i := range entries {
		c := &entries[i]
		g := c.Granularity()
		if g == models.GranularityNone {
			continue
		}
		online := snap.Contains(c.LikeKey)

		if !c.LikeOn {
			if !online {
				continue // already absent, nothing to push
			}
			batch := remove[g]
			batch.ids = append(batch.ids, granularityID(c.LikeKey, g))
			c.Timestamp = ""
			c.Time = 0
			continue
		}
		if online {
			continue // already liked, nothing to push
		}
		batch := add[g]
		batch.ids = append(batch.ids, granularityID(c.LikeKey, g))
		c.Timestamp = snap.Timestamp
		c.Time = snap.Time
	}

	result := &ExportResult{}
	order := []models.Granularity{models.GranularityTrack, models.GranularityAlbum, models.GranularityArtist}
	step := 0
	for _, g := range order {
		batch := remove[g]
		step++
		if len(batch.ids) == 0 {
			continue
		}
		e.sendProgress(progress, pushLikesUpdate(step, 6, "Removing", string(batch.level)+" likes", len(batch.ids)))
		if err := e.service.RemoveLikes(ctx, batch.level, batch.ids); err != nil {
			return result, fmt.Errorf("failed to remove %s likes: %w", batch.level, err)
		}
		result.Unset += len(batch.ids)
	}
	for _, g := range order {
		batch := add[g]
		step++
		if len(batch.ids) == 0 {
			continue
		}
		e.sendProgress(progress, pushLikesUpdate(step, 6, "Adding", string(batch.level)+" likes", len(batch.ids)))
		if err := e.service.AddLikes(ctx, batch.level, batch.ids); err != nil {
			return result, fmt.Errorf("failed to add %s likes: %w", batch.level, err)
		}
		result.Set += len(batch.ids)
	}

	e.logger.Info("pushed like edits", "added", result.Set, "removed", result.Unset)
	return result, nil
}

func granularityID(key models.LikeKey, g models.Granularity) string {
	switch g {
	case models.GranularityTrack:
		return key.TrackID
	case models.GranularityAlbum:
		return key.AlbumID
	default:
		return key.ArtistID
	}
}
