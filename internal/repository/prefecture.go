package repository

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aliskhannn/todofuken-quiz-bot/internal/domain/entities"
)

// PrefectureCount is the number of entries the reference table must hold.
const PrefectureCount = 47

// Coordinate range every capital must fall into.
const (
	minLat, maxLat = 24.0, 46.0
	minLon, maxLon = 123.0, 154.0
)

var (
	ErrPrefectureNotFound     = errors.New("prefecture not found")
	ErrInvalidPrefectureTable = errors.New("invalid prefecture table")
)

//go:embed data/prefectures.json
var prefecturesJSON []byte

// PrefectureRepository provides read-only access to the 47 prefectures.
type PrefectureRepository struct {
	prefectures []entities.Prefecture
	byName      map[string]int
}

// NewPrefectureRepository loads and validates the embedded reference table.
func NewPrefectureRepository() (*PrefectureRepository, error) {
	return newPrefectureRepository(prefecturesJSON)
}

func newPrefectureRepository(data []byte) (*PrefectureRepository, error) {
	prefectures, err := parsePrefectures(data)
	if err != nil {
		return nil, err
	}

	byName := make(map[string]int, len(prefectures))
	for i, p := range prefectures {
		byName[p.Name] = i
	}

	return &PrefectureRepository{
		prefectures: prefectures,
		byName:      byName,
	}, nil
}

// GetAll returns a copy of the table in its canonical (north to south) order.
func (r *PrefectureRepository) GetAll() []entities.Prefecture {
	out := make([]entities.Prefecture, len(r.prefectures))
	copy(out, r.prefectures)
	return out
}

// GetByName looks a prefecture up by its full name, e.g. 北海道.
func (r *PrefectureRepository) GetByName(name string) (entities.Prefecture, error) {
	i, ok := r.byName[name]
	if !ok {
		return entities.Prefecture{}, fmt.Errorf("%w: %s", ErrPrefectureNotFound, name)
	}
	return r.prefectures[i], nil
}

// GetByCode returns the prefecture for a JIS code from 1 to 47.
func (r *PrefectureRepository) GetByCode(code int) (entities.Prefecture, error) {
	if code < 1 || code > len(r.prefectures) {
		return entities.Prefecture{}, fmt.Errorf("%w: code %d", ErrPrefectureNotFound, code)
	}
	return r.prefectures[code-1], nil
}

func parsePrefectures(data []byte) ([]entities.Prefecture, error) {
	var wrapper struct {
		Prefectures []entities.Prefecture `json:"prefectures"`
	}
	if err := json.Unmarshal(data, &wrapper); err != nil {
		return nil, fmt.Errorf("failed to unmarshal prefectures JSON: %w", err)
	}

	if len(wrapper.Prefectures) != PrefectureCount {
		return nil, fmt.Errorf("%w: expected %d prefectures, got %d",
			ErrInvalidPrefectureTable, PrefectureCount, len(wrapper.Prefectures))
	}

	seen := make(map[string]struct{}, len(wrapper.Prefectures))
	for _, p := range wrapper.Prefectures {
		if p.Name == "" || p.Capital == "" {
			return nil, fmt.Errorf("%w: empty name or capital", ErrInvalidPrefectureTable)
		}
		if _, dup := seen[p.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate prefecture %s", ErrInvalidPrefectureTable, p.Name)
		}
		seen[p.Name] = struct{}{}

		if p.Lat < minLat || p.Lat > maxLat || p.Lon < minLon || p.Lon > maxLon {
			return nil, fmt.Errorf("%w: %s out of range (%.5f, %.5f)",
				ErrInvalidPrefectureTable, p.Name, p.Lat, p.Lon)
		}
	}

	return wrapper.Prefectures, nil
}
