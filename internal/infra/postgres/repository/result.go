package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/aliskhannn/todofuken-quiz-bot/internal/domain/entities"
	"github.com/aliskhannn/todofuken-quiz-bot/internal/infra/postgres"
)

// TxRunner runs a function inside a database transaction.
type TxRunner interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx pgx.Tx) error) error
}

// ResultRepository stores finished quizzes and aggregates them.
type ResultRepository struct {
	db postgres.DBTX
	tx TxRunner
}

func NewResultRepository(db postgres.DBTX, tx TxRunner) *ResultRepository {
	return &ResultRepository{db: db, tx: tx}
}

// SaveResult writes the result and its answers in one transaction and returns the result id.
func (r *ResultRepository) SaveResult(ctx context.Context, res *entities.QuizResult) (int64, error) {
	var id int64

	err := r.tx.WithinTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		query := `
			INSERT INTO quiz_results (chat_id, mode, score, total, started_at, finished_at)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id
		`
		err := tx.QueryRow(ctx, query,
			res.ChatID,
			res.Mode,
			res.Score,
			res.Total,
			res.StartedAt,
			res.FinishedAt,
		).Scan(&id)
		if err != nil {
			return fmt.Errorf("insert result: %w", err)
		}

		batch := &pgx.Batch{}
		for i, a := range res.Answers {
			if a == nil {
				continue
			}
			batch.Queue(`
				INSERT INTO quiz_answers (
					result_id, question_num, prefecture, capital,
					user_answer, correct_answer, is_correct
				) VALUES ($1, $2, $3, $4, $5, $6, $7)
			`, id, i+1, a.Prefecture, a.Capital, a.UserAnswer, a.CorrectAnswer, a.IsCorrect)
		}
		if batch.Len() == 0 {
			return nil
		}

		br := tx.SendBatch(ctx, batch)
		defer br.Close()
		for i := 0; i < batch.Len(); i++ {
			if _, err := br.Exec(); err != nil {
				return fmt.Errorf("insert answer %d: %w", i, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("save quiz result: %w", err)
	}

	res.ID = id
	return id, nil
}

// GetHistory returns the latest results of chatID without their answers, newest first.
func (r *ResultRepository) GetHistory(ctx context.Context, chatID int64, limit int) ([]*entities.QuizResult, error) {
	query := `
		SELECT id, chat_id, mode, score, total, started_at, finished_at
		FROM quiz_results
		WHERE chat_id = $1
		ORDER BY finished_at DESC
		LIMIT $2
	`

	rows, err := r.db.Query(ctx, query, chatID, limit)
	if err != nil {
		return nil, fmt.Errorf("get history: %w", err)
	}
	defer rows.Close()

	var results []*entities.QuizResult
	for rows.Next() {
		var res entities.QuizResult
		if err := rows.Scan(
			&res.ID,
			&res.ChatID,
			&res.Mode,
			&res.Score,
			&res.Total,
			&res.StartedAt,
			&res.FinishedAt,
		); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		results = append(results, &res)
	}

	return results, rows.Err()
}

// GetPrefectureStats aggregates every stored answer of chatID by prefecture,
// weakest first.
func (r *ResultRepository) GetPrefectureStats(ctx context.Context, chatID int64) ([]entities.PrefectureStat, error) {
	query := `
		SELECT a.prefecture,
		       COUNT(*) AS attempts,
		       COUNT(*) FILTER (WHERE a.is_correct) AS corrects
		FROM quiz_answers a
		JOIN quiz_results r ON r.id = a.result_id
		WHERE r.chat_id = $1
		GROUP BY a.prefecture
		ORDER BY (COUNT(*) FILTER (WHERE a.is_correct))::float / COUNT(*), attempts DESC, a.prefecture
	`

	rows, err := r.db.Query(ctx, query, chatID)
	if err != nil {
		return nil, fmt.Errorf("get prefecture stats: %w", err)
	}
	defer rows.Close()

	var stats []entities.PrefectureStat
	for rows.Next() {
		var s entities.PrefectureStat
		if err := rows.Scan(&s.Prefecture, &s.Attempts, &s.Corrects); err != nil {
			return nil, fmt.Errorf("scan stat: %w", err)
		}
		stats = append(stats, s)
	}

	return stats, rows.Err()
}
