package catalog

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// VideoQuestionRow is one (video, question) pairing as stored in Postgres.
// A video may carry several candidate questions; the service picks one.
type VideoQuestionRow struct {
	VideoID      string
	VideoURL     string
	Title        string
	QuestionID   string
	Prompt       string
	Options      []string
	CorrectIndex int
}

// Repository reads the video/question catalog from Postgres.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository wraps a pgx pool for catalog queries.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ListVideoQuestions returns every video joined with its questions.
// Videos without questions are excluded by the inner join.
func (r *Repository) ListVideoQuestions(ctx context.Context) ([]VideoQuestionRow, error) {
	const query = `
		SELECT v.video_id, v.url, v.title,
		       q.question_id, q.question_text, q.options, q.correct_answer
		FROM videos v
		JOIN questions q ON q.video_id = v.video_id
		ORDER BY v.video_id, q.question_id`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list video questions: %w", err)
	}
	defer rows.Close()

	var result []VideoQuestionRow
	for rows.Next() {
		var row VideoQuestionRow
		if err := rows.Scan(
			&row.VideoID, &row.VideoURL, &row.Title,
			&row.QuestionID, &row.Prompt, &row.Options, &row.CorrectIndex,
		); err != nil {
			return nil, fmt.Errorf("scan video question: %w", err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate video questions: %w", err)
	}
	return result, nil
}
