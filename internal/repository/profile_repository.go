package repository

import (
	"database/sql"
	"encoding/json"

	"marketlens/internal/model"
)

type ProfileRepository struct {
	db *sql.DB
}

func NewProfileRepository(db *sql.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

func (r *ProfileRepository) Save(profile *model.ExtractedProfile) error {
	fields, err := json.Marshal(profile.Fields)
	if err != nil {
		return err
	}

	return r.db.QueryRow(`
		INSERT INTO extracted_profile(session_id, fields, confirmed)
		VALUES($1, $2, $3)
		RETURNING id, created_at
	`, profile.SessionID, fields, profile.Confirmed).Scan(&profile.ID, &profile.CreatedAt)
}

func (r *ProfileRepository) GetLatestBySession(sessionID string) (*model.ExtractedProfile, error) {
	var p model.ExtractedProfile
	var fieldsJSON []byte
	err := r.db.QueryRow(`
		SELECT id, session_id, fields, confirmed, created_at
		FROM extracted_profile
		WHERE session_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`, sessionID).Scan(&p.ID, &p.SessionID, &fieldsJSON, &p.Confirmed, &p.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(fieldsJSON, &p.Fields); err != nil {
		return nil, err
	}

	return &p, nil
}

func (r *ProfileRepository) GetConfirmedBySession(sessionID string) (*model.ExtractedProfile, error) {
	var p model.ExtractedProfile
	var fieldsJSON []byte
	err := r.db.QueryRow(`
		SELECT id, session_id, fields, confirmed, created_at
		FROM extracted_profile
		WHERE session_id = $1 AND confirmed = TRUE
		ORDER BY created_at DESC
		LIMIT 1
	`, sessionID).Scan(&p.ID, &p.SessionID, &fieldsJSON, &p.Confirmed, &p.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(fieldsJSON, &p.Fields); err != nil {
		return nil, err
	}

	return &p, nil
}
