package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/prompt-eval/evaluator/internal/model"
	"github.com/prompt-eval/evaluator/pkg/logger"
)

// Client is the durable store for raw evaluation results. It is
// write-append during a run and read back by the report tooling; the
// orchestrator never aggregates from it.
type Client struct {
	db *sql.DB
}

func NewClient(dbPath string) (*Client, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	logger.Info("SQLite client initialized", zap.String("path", dbPath))
	return &Client{db: db}, nil
}

func (c *Client) Close() error {
	return c.db.Close()
}

func (c *Client) InitSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS eval_sessions (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT,
		total_questions INTEGER NOT NULL,
		created_at INTEGER NOT NULL,
		finished INTEGER DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS response_records (
		id TEXT PRIMARY KEY,
		session_id TEXT NOT NULL,
		prompt_id TEXT NOT NULL,
		question_id TEXT NOT NULL,
		question TEXT NOT NULL,
		category TEXT,
		complexity TEXT,
		response TEXT NOT NULL,
		latency_ms INTEGER NOT NULL,
		timestamp INTEGER NOT NULL,
		status TEXT NOT NULL,
		error TEXT,
		conversation_id TEXT,
		FOREIGN KEY (session_id) REFERENCES eval_sessions(id)
	);
	CREATE INDEX IF NOT EXISTS idx_responses_session ON response_records(session_id, prompt_id);
	CREATE INDEX IF NOT EXISTS idx_responses_status ON response_records(status);

	CREATE TABLE IF NOT EXISTS link_results (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT NOT NULL,
		prompt_id TEXT NOT NULL,
		question_id TEXT NOT NULL,
		url TEXT NOT NULL,
		classification TEXT NOT NULL,
		status_code INTEGER,
		error TEXT,
		latency_ms INTEGER,
		final_url TEXT,
		redirects INTEGER,
		method TEXT,
		attempt INTEGER,
		page_title TEXT,
		FOREIGN KEY (session_id) REFERENCES eval_sessions(id)
	);
	CREATE INDEX IF NOT EXISTS idx_links_session ON link_results(session_id, prompt_id);
	CREATE INDEX IF NOT EXISTS idx_links_classification ON link_results(classification);
	`

	if _, err := c.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	logger.Info("SQLite schema initialized")
	return nil
}

func (c *Client) CreateSession(session *model.EvaluationSession) error {
	query := `
		INSERT INTO eval_sessions (id, name, description, total_questions, created_at)
		VALUES (?, ?, ?, ?, ?)
	`
	_, err := c.db.Exec(query,
		session.ID,
		session.Name,
		session.Description,
		len(session.Questions),
		session.CreatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

func (c *Client) MarkFinished(sessionID string) error {
	_, err := c.db.Exec(`UPDATE eval_sessions SET finished = 1 WHERE id = ?`, sessionID)
	if err != nil {
		return fmt.Errorf("failed to mark session finished: %w", err)
	}
	return nil
}

func (c *Client) SaveResponse(sessionID, promptID string, rec model.ResponseRecord) error {
	query := `
		INSERT INTO response_records (
			id, session_id, prompt_id, question_id, question, category,
			complexity, response, latency_ms, timestamp, status, error,
			conversation_id
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := c.db.Exec(query,
		rec.ID,
		sessionID,
		promptID,
		rec.Question.ID,
		rec.Question.Text,
		rec.Question.Category,
		rec.Question.Complexity,
		rec.Response,
		rec.LatencyMS,
		rec.Timestamp.Unix(),
		string(rec.Status),
		rec.Error,
		rec.ConversationID,
	)
	if err != nil {
		return fmt.Errorf("failed to save response record: %w", err)
	}
	return nil
}

func (c *Client) SaveLinkResult(sessionID, promptID string, res model.LinkValidationResult) error {
	query := `
		INSERT INTO link_results (
			session_id, prompt_id, question_id, url, classification,
			status_code, error, latency_ms, final_url, redirects, method,
			attempt, page_title
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := c.db.Exec(query,
		sessionID,
		promptID,
		res.QuestionID,
		res.URL,
		string(res.Classification),
		res.StatusCode,
		res.Error,
		res.LatencyMS,
		res.FinalURL,
		res.Redirects,
		res.Method,
		res.Attempt,
		res.PageTitle,
	)
	if err != nil {
		return fmt.Errorf("failed to save link result: %w", err)
	}
	return nil
}

// ListResponses reconstructs the ordered response records of one prompt
// version's run, in the order they were appended.
func (c *Client) ListResponses(sessionID, promptID string) ([]model.ResponseRecord, error) {
	query := `
		SELECT id, question_id, question, category, complexity, response,
			latency_ms, timestamp, status, error, conversation_id
		FROM response_records
		WHERE session_id = ? AND prompt_id = ?
		ORDER BY rowid
	`
	rows, err := c.db.Query(query, sessionID, promptID)
	if err != nil {
		return nil, fmt.Errorf("failed to list response records: %w", err)
	}
	defer rows.Close()

	var records []model.ResponseRecord
	for rows.Next() {
		var rec model.ResponseRecord
		var timestamp int64
		var status string

		err := rows.Scan(
			&rec.ID,
			&rec.Question.ID,
			&rec.Question.Text,
			&rec.Question.Category,
			&rec.Question.Complexity,
			&rec.Response,
			&rec.LatencyMS,
			&timestamp,
			&status,
			&rec.Error,
			&rec.ConversationID,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		rec.Timestamp = time.Unix(timestamp, 0)
		rec.Status = model.ResponseStatus(status)
		records = append(records, rec)
	}
	return records, rows.Err()
}
