// Ping - Campus Event Discovery
// Copyright 2026 Ping contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package geo provides spherical distance and fixed-grid clustering for the
// map and discovery endpoints.
//
// The clustering here is deliberately simple: points snap to absolute
// 0.01-degree cells and each occupied cell collapses to one summary point.
// Cell boundaries are fixed to the grid origin, not the viewport, so a
// cluster's anchor is the cell corner rather than a member centroid.
package geo

import (
	"math"
	"strconv"
)

// EarthRadiusM is the mean Earth radius in meters.
const EarthRadiusM = 6371000.0

// DefaultGridSize is the clustering cell size in degrees (~1.1 km at
// mid-latitudes).
const DefaultGridSize = 0.01

// HaversineMeters returns the great-circle distance between two
// latitude/longitude points in meters. Inputs are degrees.
func HaversineMeters(lat1, lng1, lat2, lng2 float64) float64 {
	const degToRad = math.Pi / 180.0

	dLat := (lat2 - lat1) * degToRad
	dLng := (lng2 - lng1) * degToRad

	a := math.Pow(math.Sin(dLat/2), 2) +
		math.Cos(lat1*degToRad)*math.Cos(lat2*degToRad)*math.Pow(math.Sin(dLng/2), 2)

	return 2 * EarthRadiusM * math.Asin(math.Sqrt(a))
}

// CellAnchor snaps a coordinate down to its grid cell corner. Floor, not
// truncation: -0.005 at size 0.01 anchors to -0.01, not 0.
func CellAnchor(v, size float64) float64 {
	return math.Floor(v/size) * size
}

// CellKey returns the cell identifier for a point: the anchored latitude
// and longitude joined with an underscore.
func CellKey(lat, lng, size float64) string {
	return formatCoord(CellAnchor(lat, size)) + "_" + formatCoord(CellAnchor(lng, size))
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
