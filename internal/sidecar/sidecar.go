package sidecar

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Timestamp is the export's string-encoded Unix timestamp wrapper.
type Timestamp struct {
	Timestamp string `json:"timestamp"`
	Formatted string `json:"formatted"`
}

// GeoData carries the GPS coordinates recorded by the export.
type GeoData struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Altitude  float64 `json:"altitude"`
}

// Metadata is the subset of the sidecar schema the tool consumes.
type Metadata struct {
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	PhotoTakenTime *Timestamp `json:"photoTakenTime,omitempty"`
	GeoData        *GeoData   `json:"geoData,omitempty"`
}

// Read parses the sidecar at path.
func Read(path string) (*Metadata, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read sidecar: %w", err)
	}
	var meta Metadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("parse sidecar %s: %w", path, err)
	}
	return &meta, nil
}

// TakenTime returns the capture time in UTC, if the sidecar carries one.
func (m *Metadata) TakenTime() (time.Time, bool) {
	if m == nil || m.PhotoTakenTime == nil || m.PhotoTakenTime.Timestamp == "" {
		return time.Time{}, false
	}
	secs, err := strconv.ParseInt(m.PhotoTakenTime.Timestamp, 10, 64)
	if err != nil {
		return time.Time{}, false
	}
	return time.Unix(secs, 0).UTC(), true
}

// HasGeo reports whether the sidecar carries usable GPS coordinates.
func (m *Metadata) HasGeo() bool {
	return m != nil && m.GeoData != nil
}
