package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/paulmach/orb/geojson"
	"go.uber.org/zap"

	"github.com/aliskhannn/todofuken-quiz-bot/internal/domain/entities"
	"github.com/aliskhannn/todofuken-quiz-bot/internal/quiz"
	"github.com/aliskhannn/todofuken-quiz-bot/internal/repository"
	"github.com/aliskhannn/todofuken-quiz-bot/internal/service"
	"github.com/aliskhannn/todofuken-quiz-bot/internal/storage"
)

const chatID int64 = 42

func newQuizService(t *testing.T, results service.ResultRepository, regions service.RegionRepository) *service.QuizService {
	t.Helper()
	return service.NewQuizService(
		prefectures(t),
		regions,
		results,
		storage.NewSessionStore[*quiz.Session](),
		service.QuizConfig{QuestionCount: 10, DefaultMode: entities.ModeMapChoice, NewRand: seeded(1)},
		zap.NewNop(),
	)
}

func answerFor(q quiz.Question) string {
	if q.Mode == entities.ModeCapitalChoice {
		return q.Prefecture.Capital
	}
	return q.Prefecture.Name
}

func TestQuizService_FullRun(t *testing.T) {
	var saved []*entities.QuizResult
	results := &mockResultRepo{
		saveFn: func(ctx context.Context, r *entities.QuizResult) (int64, error) {
			saved = append(saved, r)
			return int64(len(saved)), nil
		},
	}
	svc := newQuizService(t, results, nil)
	ctx := context.Background()

	q, err := svc.Start(ctx, chatID, "")
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if q.Mode != entities.ModeMapChoice {
		t.Fatalf("expected default mode mc_map, got %s", q.Mode)
	}

	var final *quiz.Summary
	for i := 0; final == nil; i++ {
		answer := answerFor(q)
		if i == 3 {
			answer = "wrong"
		}

		fb, err := svc.Submit(ctx, chatID, answer)
		if err != nil {
			t.Fatalf("submit %d: %v", i+1, err)
		}
		if fb.Number != i+1 || fb.Last != (i == 9) {
			t.Errorf("feedback %d: %+v", i+1, fb)
		}

		step, err := svc.Next(ctx, chatID)
		if err != nil {
			t.Fatalf("next %d: %v", i+1, err)
		}
		if step.Question != nil {
			q = *step.Question
		}
		final = step.Summary
	}

	if final.Score != 9 || final.Total != 10 || !final.Finished {
		t.Fatalf("unexpected summary: score=%d total=%d finished=%v", final.Score, final.Total, final.Finished)
	}
	if len(saved) != 1 {
		t.Fatalf("expected one saved result, got %d", len(saved))
	}
	if saved[0].ChatID != chatID || saved[0].Score != 9 || saved[0].Mode != entities.ModeMapChoice {
		t.Errorf("unexpected saved result: %+v", saved[0])
	}

	if _, err := svc.Next(ctx, chatID); !errors.Is(err, quiz.ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition after finish, got %v", err)
	}
}

func TestQuizService_SaveFailureStillFinishes(t *testing.T) {
	results := &mockResultRepo{
		saveFn: func(ctx context.Context, r *entities.QuizResult) (int64, error) {
			return 0, errors.New("db down")
		},
	}
	svc := service.NewQuizService(
		prefectures(t), nil, results,
		storage.NewSessionStore[*quiz.Session](),
		service.QuizConfig{QuestionCount: 1, NewRand: seeded(2)},
		zap.NewNop(),
	)
	ctx := context.Background()

	if _, err := svc.Start(ctx, chatID, entities.ModeTextInput); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := svc.GiveUp(ctx, chatID); err != nil {
		t.Fatalf("give up: %v", err)
	}
	step, err := svc.Next(ctx, chatID)
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if step.Summary == nil || step.Summary.Score != 0 {
		t.Fatalf("expected summary with score 0, got %+v", step)
	}
}

func TestQuizService_NoSession(t *testing.T) {
	svc := newQuizService(t, &mockResultRepo{}, nil)
	ctx := context.Background()

	if _, err := svc.Submit(ctx, chatID, "東京都"); !errors.Is(err, storage.ErrSessionNotFound) {
		t.Errorf("submit: expected ErrSessionNotFound, got %v", err)
	}
	if _, err := svc.Next(ctx, chatID); !errors.Is(err, storage.ErrSessionNotFound) {
		t.Errorf("next: expected ErrSessionNotFound, got %v", err)
	}
	if _, err := svc.Restart(ctx, chatID); !errors.Is(err, storage.ErrSessionNotFound) {
		t.Errorf("restart: expected ErrSessionNotFound, got %v", err)
	}
	if svc.Reset(chatID) {
		t.Error("reset reported a session that does not exist")
	}
}

func TestQuizService_NextBeforeAnswer(t *testing.T) {
	svc := newQuizService(t, &mockResultRepo{}, nil)
	ctx := context.Background()

	first, err := svc.Start(ctx, chatID, entities.ModeCapitalChoice)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := svc.Next(ctx, chatID); !errors.Is(err, quiz.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}

	cur, err := svc.Current(chatID)
	if err != nil {
		t.Fatalf("current: %v", err)
	}
	if cur.Number != first.Number || cur.Prefecture != first.Prefecture {
		t.Errorf("rejected next moved the session: %+v", cur)
	}
}

func TestQuizService_ResetAndRestart(t *testing.T) {
	svc := newQuizService(t, &mockResultRepo{}, nil)
	ctx := context.Background()

	if _, err := svc.Start(ctx, chatID, entities.ModeTextInput); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := svc.GiveUp(ctx, chatID); err != nil {
		t.Fatalf("give up: %v", err)
	}

	q, err := svc.Restart(ctx, chatID)
	if err != nil {
		t.Fatalf("restart: %v", err)
	}
	if q.Mode != entities.ModeTextInput || q.Number != 1 {
		t.Errorf("restart question: %+v", q)
	}
	sum, err := svc.Summary(chatID)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if sum.Score != 0 || sum.Results[0].Status != entities.StatusUnanswered {
		t.Errorf("restart kept old answers: %+v", sum.Results[0])
	}

	if !svc.Reset(chatID) {
		t.Fatal("reset found no session")
	}
	if _, err := svc.Current(chatID); !errors.Is(err, storage.ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound after reset, got %v", err)
	}
}

func TestQuizService_UnknownMode(t *testing.T) {
	svc := newQuizService(t, &mockResultRepo{}, nil)

	if _, err := svc.Start(context.Background(), chatID, "quick"); !errors.Is(err, quiz.ErrUnknownMode) {
		t.Fatalf("expected ErrUnknownMode, got %v", err)
	}
}

func TestQuizService_SubmitLocation(t *testing.T) {
	var fc *geojson.FeatureCollection
	regions := &mockRegionRepo{
		getFn: func(region string) (*geojson.FeatureCollection, error) {
			if region != repository.RegionPrefectures {
				t.Errorf("unexpected region %q", region)
			}
			return fc, nil
		},
	}
	svc := newQuizService(t, &mockResultRepo{}, regions)
	ctx := context.Background()

	q, err := svc.Start(ctx, chatID, entities.ModeMapChoice)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	fc = grid(repository.KeyPrefecture, "どこか県", q.Prefecture.Name)

	fb, err := svc.SubmitLocation(ctx, chatID, inside(1))
	if err != nil {
		t.Fatalf("submit location: %v", err)
	}
	if !fb.Record.IsCorrect || fb.Record.UserAnswer != q.Prefecture.Name {
		t.Errorf("unexpected record: %+v", fb.Record)
	}
}

func TestQuizService_SubmitLocationWrongMode(t *testing.T) {
	svc := newQuizService(t, &mockResultRepo{}, &mockRegionRepo{})
	ctx := context.Background()

	if _, err := svc.Start(ctx, chatID, entities.ModeTextInput); err != nil {
		t.Fatalf("start: %v", err)
	}
	_, err := svc.SubmitLocation(ctx, chatID, inside(0))
	if !errors.Is(err, service.ErrLocationNotAccepted) {
		t.Fatalf("expected ErrLocationNotAccepted, got %v", err)
	}
}

func TestQuizService_History(t *testing.T) {
	results := &mockResultRepo{
		historyFn: func(ctx context.Context, id int64, limit int) ([]*entities.QuizResult, error) {
			if id != chatID || limit != 10 {
				t.Errorf("unexpected args: chat=%d limit=%d", id, limit)
			}
			return []*entities.QuizResult{{ID: 1, Score: 7, Total: 10}}, nil
		},
		statsFn: func(ctx context.Context, id int64) ([]entities.PrefectureStat, error) {
			return nil, errors.New("boom")
		},
	}
	svc := newQuizService(t, results, nil)
	ctx := context.Background()

	history, err := svc.History(ctx, chatID, 0)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 1 || history[0].Score != 7 {
		t.Errorf("unexpected history: %+v", history)
	}

	if _, err := svc.Stats(ctx, chatID); err == nil {
		t.Error("expected stats error to be returned")
	}
}

func TestQuizService_SubmitOption(t *testing.T) {
	svc := newQuizService(t, &mockResultRepo{}, nil)
	ctx := context.Background()

	q1, err := svc.Start(ctx, chatID, entities.ModeCapitalChoice)
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	// Question 1 is passed by another client before the button press lands.
	if _, err := svc.GiveUp(ctx, chatID); err != nil {
		t.Fatalf("give up: %v", err)
	}
	step, err := svc.Next(ctx, chatID)
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	q2 := *step.Question

	tests := []struct {
		name   string
		number int
		index  int
	}{
		{"earlier question", q1.Number, 0},
		{"future question", q2.Number + 1, 0},
		{"index out of range", q2.Number, len(q2.Options)},
		{"negative index", q2.Number, -1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.SubmitOption(ctx, chatID, tc.number, tc.index); !errors.Is(err, service.ErrStaleQuestion) {
				t.Fatalf("expected ErrStaleQuestion, got %v", err)
			}
		})
	}

	sum, err := svc.Summary(chatID)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if sum.Results[1].Status != entities.StatusUnanswered {
		t.Fatalf("rejected submits touched question 2: %+v", sum.Results[1])
	}

	correct := -1
	for i, opt := range q2.Options {
		if opt == q2.Prefecture.Capital {
			correct = i
		}
	}
	fb, err := svc.SubmitOption(ctx, chatID, q2.Number, correct)
	if err != nil {
		t.Fatalf("submit option: %v", err)
	}
	if !fb.Record.IsCorrect || fb.Score != 1 || fb.Number != 2 {
		t.Errorf("unexpected feedback: %+v", fb)
	}

	if _, err := svc.SubmitOption(ctx, chatID, q2.Number, correct); !errors.Is(err, quiz.ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition on a second press, got %v", err)
	}
}

func TestQuizService_SubmitTextWrongMode(t *testing.T) {
	svc := newQuizService(t, &mockResultRepo{}, nil)
	ctx := context.Background()

	q, err := svc.Start(ctx, chatID, entities.ModeMapChoice)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := svc.SubmitText(ctx, chatID, q.Prefecture.Name); !errors.Is(err, service.ErrTextNotAccepted) {
		t.Fatalf("expected ErrTextNotAccepted, got %v", err)
	}

	sum, err := svc.Summary(chatID)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if sum.Results[0].Status != entities.StatusUnanswered {
		t.Errorf("rejected text answer was recorded: %+v", sum.Results[0])
	}

	if _, err := svc.SubmitText(ctx, 7, "大阪"); !errors.Is(err, storage.ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestQuizService_ResetAfterFinish(t *testing.T) {
	svc := newQuizService(t, &mockResultRepo{}, nil)
	ctx := context.Background()

	q, err := svc.Start(ctx, chatID, entities.ModeTextInput)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	for {
		if _, err := svc.SubmitText(ctx, chatID, q.Prefecture.Name); err != nil {
			t.Fatalf("submit %d: %v", q.Number, err)
		}
		step, err := svc.Next(ctx, chatID)
		if err != nil {
			t.Fatalf("next: %v", err)
		}
		if step.Summary != nil {
			if !step.Summary.Finished || step.Summary.Score != 10 {
				t.Fatalf("unexpected summary: %+v", step.Summary)
			}
			break
		}
		q = *step.Question
	}

	if !svc.Reset(chatID) {
		t.Fatal("reset found no finished session")
	}
	if _, err := svc.Summary(chatID); !errors.Is(err, storage.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound after reset, got %v", err)
	}

	first, err := svc.Start(ctx, chatID, entities.ModeTextInput)
	if err != nil {
		t.Fatalf("start after reset: %v", err)
	}
	if first.Number != 1 {
		t.Errorf("new quiz starts at question %d", first.Number)
	}

	sum, err := svc.Summary(chatID)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if sum.Score != 0 || sum.Finished || sum.Accuracy != 0 {
		t.Errorf("new quiz is not clean: %+v", sum)
	}
	for _, r := range sum.Results {
		if r.Status != entities.StatusUnanswered || r.Record != nil {
			t.Errorf("answer leaked into the new quiz: %+v", r)
		}
	}
}
