package repository

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sync"

	"github.com/paulmach/orb/geojson"
)

// Property keys of the administrative boundary datasets.
const (
	KeyPrefecture    = "N03_001"
	KeySubprefecture = "N03_002"
	KeyMunicipality  = "N03_004"
	KeyCode          = "N03_007"
)

// RegionPrefectures is the dataset with one feature set per prefecture.
const RegionPrefectures = "prefecture"

var (
	ErrRegionNotFound = errors.New("region not found")
	ErrInvalidRegion  = errors.New("invalid region name")
)

// regionPattern accepts "prefecture", "NN" and "NN_subprefecture".
var regionPattern = regexp.MustCompile(`^(prefecture|\d{2}(_subprefecture)?)$`)

// RegionRepository loads GeoJSON boundary datasets from a directory.
// Each dataset is parsed once and then shared read-only.
type RegionRepository struct {
	dir string

	mu      sync.RWMutex
	regions map[string]*geojson.FeatureCollection
}

// NewRegionRepository creates a repository reading <dir>/<region>.json files.
func NewRegionRepository(dir string) *RegionRepository {
	return &RegionRepository{
		dir:     dir,
		regions: make(map[string]*geojson.FeatureCollection),
	}
}

// Get returns the parsed dataset for region.
func (r *RegionRepository) Get(region string) (*geojson.FeatureCollection, error) {
	if !regionPattern.MatchString(region) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidRegion, region)
	}

	r.mu.RLock()
	fc, ok := r.regions[region]
	r.mu.RUnlock()
	if ok {
		return fc, nil
	}

	fc, err := r.load(region)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.regions[region] = fc
	r.mu.Unlock()

	return fc, nil
}

func (r *RegionRepository) load(region string) (*geojson.FeatureCollection, error) {
	path := filepath.Join(r.dir, region+".json")

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrRegionNotFound, region)
		}
		return nil, fmt.Errorf("read region %s: %w", region, err)
	}

	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal region %s: %w", region, err)
	}

	return fc, nil
}

// RegionForCode returns the dataset name for a two digit prefecture code.
func RegionForCode(code int, subprefecture bool) string {
	name := fmt.Sprintf("%02d", code)
	if subprefecture {
		name += "_subprefecture"
	}
	return name
}
