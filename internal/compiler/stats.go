package compiler

import (
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// AssetKind classifies an emitted file.
type AssetKind string

const (
	AssetChunk     AssetKind = "chunk"
	AssetRuntime   AssetKind = "runtime"
	AssetSourceMap AssetKind = "sourcemap"
	AssetFile      AssetKind = "asset"
)

// AssetInfo describes one emitted file.
type AssetInfo struct {
	Kind AssetKind `json:"kind"`
	// Name is the logical name, e.g. "main.js".
	Name string `json:"name"`
	// Hashname is the emitted file name, e.g. "main.a1b2c3d4.js".
	Hashname string `json:"hashname"`
	Path     string `json:"path"`
	Size     int    `json:"size"`
}

// ChunkInfo describes one emitted chunk.
type ChunkInfo struct {
	ID       string   `json:"id"`
	Hashname string   `json:"hashname"`
	Modules  []string `json:"modules"`
}

// StatsJSON is the aggregated result handed to BuildSuccess hooks.
type StatsJSON struct {
	BuildID   string      `json:"build_id"`
	StartTime time.Time   `json:"start_time"`
	EndTime   time.Time   `json:"end_time"`
	Assets    []AssetInfo `json:"assets"`
	Chunks    []ChunkInfo `json:"chunks"`
}

// Stats collects build statistics. Safe for concurrent use.
type Stats struct {
	mu        sync.Mutex
	buildID   string
	startTime time.Time
	assets    []AssetInfo
	chunks    []ChunkInfo
}

// NewStats starts a stats collection with a fresh build id.
func NewStats() *Stats {
	return &Stats{
		buildID:   uuid.NewString(),
		startTime: time.Now(),
	}
}

// BuildID returns the build id.
func (s *Stats) BuildID() string {
	return s.buildID
}

// AddAsset records an emitted file.
func (s *Stats) AddAsset(a AssetInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.assets = append(s.assets, a)
}

// AddChunk records an emitted chunk.
func (s *Stats) AddChunk(c ChunkInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chunks = append(s.chunks, c)
}

// ChunkFiles maps every recorded chunk id to its emitted file name.
func (s *Stats) ChunkFiles() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	files := make(map[string]string, len(s.chunks))
	for _, c := range s.chunks {
		files[c.ID] = c.Hashname
	}
	return files
}

// Assets returns the recorded assets sorted by hashname.
func (s *Stats) Assets() []AssetInfo {
	s.mu.Lock()
	assets := slices.Clone(s.assets)
	s.mu.Unlock()

	slices.SortFunc(assets, func(a, b AssetInfo) int {
		return strings.Compare(a.Hashname, b.Hashname)
	})
	return assets
}

// ToJSON snapshots the stats. Assets and chunks are sorted so the snapshot
// does not depend on completion order.
func (s *Stats) ToJSON(end time.Time) *StatsJSON {
	assets := s.Assets()

	s.mu.Lock()
	chunks := slices.Clone(s.chunks)
	s.mu.Unlock()

	slices.SortFunc(chunks, func(a, b ChunkInfo) int {
		return strings.Compare(a.ID, b.ID)
	})

	return &StatsJSON{
		BuildID:   s.buildID,
		StartTime: s.startTime,
		EndTime:   end,
		Assets:    assets,
		Chunks:    chunks,
	}
}
