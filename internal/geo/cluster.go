// Ping - Campus Event Discovery
// Copyright 2026 Ping contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package geo

import (
	"github.com/pingcampus/ping/internal/models"
)

// ClusterPoints collapses event map points into per-cell cluster summaries.
//
// Input points must be type "event" with StartTime set, ordered newest
// start_time first (the order the viewport query returns). Each occupied
// cell becomes one "cluster" point anchored at the cell corner, counting
// members and carrying the most recent member start_time. Clusters are
// emitted in first-encounter order and truncated to maxPoints; there is no
// iterative re-gridding when the cluster count still exceeds the budget.
func ClusterPoints(points []models.MapPoint, gridSize float64, maxPoints int) []models.MapPoint {
	if gridSize <= 0 {
		gridSize = DefaultGridSize
	}

	clusters := make(map[string]*models.MapPoint)
	order := make([]string, 0, len(points))

	for i := range points {
		p := &points[i]
		key := CellKey(p.Lat, p.Lng, gridSize)

		cluster, ok := clusters[key]
		if !ok {
			cluster = &models.MapPoint{
				ID:   key,
				Type: models.PointCluster,
				Lat:  CellAnchor(p.Lat, gridSize),
				Lng:  CellAnchor(p.Lng, gridSize),
			}
			clusters[key] = cluster
			order = append(order, key)
		}

		cluster.Count++
		if p.StartTime != nil {
			if cluster.NewestStartTime == nil || p.StartTime.After(*cluster.NewestStartTime) {
				ts := *p.StartTime
				cluster.NewestStartTime = &ts
			}
		}
	}

	if maxPoints > 0 && len(order) > maxPoints {
		order = order[:maxPoints]
	}

	out := make([]models.MapPoint, 0, len(order))
	for _, key := range order {
		out = append(out, *clusters[key])
	}
	return out
}
