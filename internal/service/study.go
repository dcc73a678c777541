package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/paulmach/orb"
	"go.uber.org/zap"

	"github.com/aliskhannn/todofuken-quiz-bot/internal/domain/entities"
	"github.com/aliskhannn/todofuken-quiz-bot/internal/geo"
	"github.com/aliskhannn/todofuken-quiz-bot/internal/metrics"
	"github.com/aliskhannn/todofuken-quiz-bot/internal/repository"
	"github.com/aliskhannn/todofuken-quiz-bot/internal/storage"
	"github.com/aliskhannn/todofuken-quiz-bot/internal/study"
)

// hokkaidoCode is the only prefecture with a subprefecture dataset.
const hokkaidoCode = 1

var ErrInvalidStudyTarget = errors.New("invalid study target")

// StudySession is one running drill and the dataset it was built from.
type StudySession struct {
	Region     string
	Key        string
	Prefecture string // empty for the nationwide drill
	View       entities.MapView
	Drill      *study.Drill
}

// StudyState is a snapshot of a drill for rendering.
type StudyState struct {
	Prefecture string
	Target     string
	Finished   bool
	Progress   study.Progress
	View       entities.MapView
}

type StudyService struct {
	prefectures PrefectureRepository
	regions     RegionRepository
	drills      *storage.SessionStore[*StudySession]
	newRand     func() *rand.Rand
	logger      *zap.Logger
}

func NewStudyService(
	prefectures PrefectureRepository,
	regions RegionRepository,
	drills *storage.SessionStore[*StudySession],
	newRand func() *rand.Rand,
	logger *zap.Logger,
) *StudyService {
	if newRand == nil {
		newRand = func() *rand.Rand { return rand.New(rand.NewSource(time.Now().UnixNano())) }
	}

	return &StudyService{
		prefectures: prefectures,
		regions:     regions,
		drills:      drills,
		newRand:     newRand,
		logger:      logger,
	}
}

// Start builds a drill for chatID. Code 0 drills the prefectures themselves,
// codes 1 to 47 the municipalities of that prefecture. subprefecture switches
// Hokkaido to its subprefectures.
func (s *StudyService) Start(_ context.Context, chatID int64, code int, subprefecture bool) (StudyState, error) {
	session := &StudySession{Region: repository.RegionPrefectures, Key: repository.KeyPrefecture}

	if code != 0 {
		if subprefecture && code != hokkaidoCode {
			return StudyState{}, fmt.Errorf("%w: only Hokkaido has subprefectures", ErrInvalidStudyTarget)
		}
		pref, err := s.prefectures.GetByCode(code)
		if err != nil {
			return StudyState{}, fmt.Errorf("%w: %w", ErrInvalidStudyTarget, err)
		}

		session.Prefecture = pref.Name
		session.Region = repository.RegionForCode(code, subprefecture)
		session.Key = repository.KeyMunicipality
		if subprefecture {
			session.Key = repository.KeySubprefecture
		}
	}

	fc, err := s.regions.Get(session.Region)
	if err != nil {
		return StudyState{}, fmt.Errorf("load region %s: %w", session.Region, err)
	}

	session.View, err = study.Viewport(session.Prefecture, fc)
	if err != nil {
		return StudyState{}, err
	}

	session.Drill, err = study.New(geo.Names(fc, session.Key), s.newRand())
	if err != nil {
		return StudyState{}, fmt.Errorf("region %s: %w", session.Region, err)
	}

	s.drills.Put(chatID, session)
	s.logger.Debug("study started",
		zap.Int64("chat_id", chatID),
		zap.String("region", session.Region),
		zap.Int("targets", session.Drill.Progress().Total),
	)

	return stateOf(session), nil
}

// State returns the current drill snapshot.
func (s *StudyService) State(chatID int64) (StudyState, error) {
	var st StudyState
	err := s.drills.View(chatID, func(session *StudySession) error {
		st = stateOf(session)
		return nil
	})
	return st, err
}

// Answer resolves point to a feature of the drill region and grades it.
// A point outside every feature leaves the drill unchanged.
func (s *StudyService) Answer(_ context.Context, chatID int64, point orb.Point) (study.Outcome, StudyState, error) {
	var (
		out study.Outcome
		st  StudyState
	)

	err := s.drills.Update(chatID, func(session *StudySession) error {
		if session.Drill.Finished() {
			return study.ErrFinished
		}

		fc, err := s.regions.Get(session.Region)
		if err != nil {
			return fmt.Errorf("load region %s: %w", session.Region, err)
		}
		selected, err := geo.Locate(fc, point, session.Key)
		if err != nil {
			return err
		}

		out, err = session.Drill.Answer(selected)
		if err != nil {
			return err
		}
		metrics.StudyAnswersTotal.WithLabelValues(metrics.Result(out.Correct)).Inc()

		st = stateOf(session)
		return nil
	})

	return out, st, err
}

// Change swaps the current target for another remaining one.
func (s *StudyService) Change(chatID int64) (StudyState, error) {
	return s.update(chatID, func(d *study.Drill) error { return d.Change() })
}

// Reset restarts the drill over the same region.
func (s *StudyService) Reset(chatID int64) (StudyState, error) {
	return s.update(chatID, func(d *study.Drill) error {
		d.Reset()
		return nil
	})
}

// Stop discards the drill of chatID.
func (s *StudyService) Stop(chatID int64) bool {
	return s.drills.Delete(chatID)
}

func (s *StudyService) update(chatID int64, fn func(*study.Drill) error) (StudyState, error) {
	var st StudyState
	err := s.drills.Update(chatID, func(session *StudySession) error {
		if err := fn(session.Drill); err != nil {
			return err
		}
		st = stateOf(session)
		return nil
	})
	return st, err
}

func stateOf(session *StudySession) StudyState {
	target, _ := session.Drill.Current()
	return StudyState{
		Prefecture: session.Prefecture,
		Target:     target,
		Finished:   session.Drill.Finished(),
		Progress:   session.Drill.Progress(),
		View:       session.View,
	}
}
