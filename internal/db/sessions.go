package db

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/banshee-data/sprint.report/internal/sprint"
)

// ErrSessionNotFound is returned when a session id has no row.
var ErrSessionNotFound = errors.New("session not found")

// SessionInfo is a stored session with its frame count.
type SessionInfo struct {
	ID        string    `json:"session_id"`
	Label     string    `json:"label"`
	CreatedAt time.Time `json:"created_at"`
	Frames    int       `json:"frames"`
}

// CreateSession inserts a session row.
func (db *DB) CreateSession(id, label string, createdAt time.Time) error {
	_, err := db.Exec(
		`INSERT INTO sessions (session_id, label, created_at) VALUES (?, ?, ?)`,
		id, label, createdAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("failed to create session %s: %w", id, err)
	}
	return nil
}

// GetSession returns one session or ErrSessionNotFound.
func (db *DB) GetSession(id string) (*SessionInfo, error) {
	var (
		s         SessionInfo
		createdMs int64
	)
	err := db.QueryRow(`
		SELECT s.session_id, s.label, s.created_at,
		       (SELECT COUNT(*) FROM sprint_metrics m WHERE m.session_id = s.session_id)
		FROM sessions s WHERE s.session_id = ?`, id,
	).Scan(&s.ID, &s.Label, &createdMs, &s.Frames)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	s.CreatedAt = time.UnixMilli(createdMs).UTC()
	return &s, nil
}

// ListSessions returns sessions newest first.
func (db *DB) ListSessions() ([]SessionInfo, error) {
	rows, err := db.Query(`
		SELECT s.session_id, s.label, s.created_at, COUNT(m.metric_id)
		FROM sessions s
		LEFT JOIN sprint_metrics m ON m.session_id = s.session_id
		GROUP BY s.session_id
		ORDER BY s.created_at DESC, s.session_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sessions := []SessionInfo{}
	for rows.Next() {
		var (
			s         SessionInfo
			createdMs int64
		)
		if err := rows.Scan(&s.ID, &s.Label, &createdMs, &s.Frames); err != nil {
			return nil, err
		}
		s.CreatedAt = time.UnixMilli(createdMs).UTC()
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

// DeleteSession removes a session and, through the foreign key, its metrics.
func (db *DB) DeleteSession(id string) error {
	res, err := db.Exec(`DELETE FROM sessions WHERE session_id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrSessionNotFound
	}
	return nil
}

// RecordAnalysis appends one analysed frame to a session. Unmeasurable arm
// symmetry is stored as NULL.
func (db *DB) RecordAnalysis(sessionID string, a sprint.Analysis) error {
	recs := a.Recommendations
	if recs == nil {
		recs = []string{}
	}
	recJSON, err := json.Marshal(recs)
	if err != nil {
		return fmt.Errorf("failed to encode recommendations: %w", err)
	}

	var symmetry sql.NullFloat64
	if !sprint.IsUnmeasurable(a.Metrics.ArmSymmetry) {
		symmetry = sql.NullFloat64{Float64: a.Metrics.ArmSymmetry, Valid: true}
	}

	_, err = db.Exec(`
		INSERT INTO sprint_metrics (
			session_id, ts_ms, knee_angle, hip_velocity, arm_symmetry, overall_score,
			knee_feedback, velocity_feedback, symmetry_feedback, priority, recommendations
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sessionID, a.Metrics.Timestamp, a.Metrics.KneeAngle, a.Metrics.HipVelocity,
		symmetry, a.Metrics.OverallScore,
		a.Feedback.KneeAngle.String(), a.Feedback.HipVelocity.String(), a.Feedback.ArmSymmetry.String(),
		a.Priority.String(), string(recJSON),
	)
	if err != nil {
		return fmt.Errorf("failed to record analysis for session %s: %w", sessionID, err)
	}
	return nil
}

// SessionMetrics returns the most recent limit analyses of a session in
// capture order. limit <= 0 returns all of them.
func (db *DB) SessionMetrics(sessionID string, limit int) ([]sprint.Analysis, error) {
	if limit <= 0 {
		limit = -1 // sqlite: no limit
	}
	rows, err := db.Query(`
		SELECT ts_ms, knee_angle, hip_velocity, arm_symmetry, overall_score,
		       knee_feedback, velocity_feedback, symmetry_feedback, priority, recommendations
		FROM (
			SELECT * FROM sprint_metrics WHERE session_id = ?
			ORDER BY ts_ms DESC, metric_id DESC LIMIT ?
		)
		ORDER BY ts_ms ASC, metric_id ASC`, sessionID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []sprint.Analysis{}
	for rows.Next() {
		var (
			a                        sprint.Analysis
			symmetry                 sql.NullFloat64
			knee, velocity, sym, pri string
			recJSON                  string
		)
		if err := rows.Scan(
			&a.Metrics.Timestamp,
			&a.Metrics.KneeAngle,
			&a.Metrics.HipVelocity,
			&symmetry,
			&a.Metrics.OverallScore,
			&knee, &velocity, &sym, &pri,
			&recJSON,
		); err != nil {
			return nil, err
		}

		a.Metrics.ArmSymmetry = sprint.SymmetryUnmeasurable
		if symmetry.Valid {
			a.Metrics.ArmSymmetry = symmetry.Float64
		}
		if err := a.Feedback.KneeAngle.UnmarshalText([]byte(knee)); err != nil {
			return nil, err
		}
		if err := a.Feedback.HipVelocity.UnmarshalText([]byte(velocity)); err != nil {
			return nil, err
		}
		if err := a.Feedback.ArmSymmetry.UnmarshalText([]byte(sym)); err != nil {
			return nil, err
		}
		if a.Priority, err = sprint.ParsePriority(pri); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(recJSON), &a.Recommendations); err != nil {
			return nil, fmt.Errorf("failed to decode recommendations: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
