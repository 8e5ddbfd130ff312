// Package models defines domain entities for the like reconciliation service.
//
// The package contains three categories of types:
//
// 1. Table state: [LikeKey] and [LikedEntry], the persisted row representation
// of a like decision with its descriptive metadata.
//
// 2. Online state: [OnlineSnapshot] and the tagged like types
// [TrackLike], [AlbumLike], [ArtistLike] sharing the [OnlineLike] accessor,
// representing the remote service's current liked collections.
//
// 3. Metadata DTOs: [TrackInfo], [AlbumInfo], [ArtistInfo] returned by
// batched metadata lookups and used for entry enrichment.
//
// Identity works at exactly one granularity per row: a non-empty track id wins
// over a non-empty album id, which wins over a non-empty artist id. Two rows
// describe the same entity iff their keys are equal under that priority rule.
package models
