package sink

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/nvandessel/neurovis/internal/models"
	"github.com/nvandessel/neurovis/internal/render"

	_ "modernc.org/sqlite" // SQLite driver
)

// SQLiteSink stores the topology and every frame in a SQLite database.
// Each frame is written in its own transaction.
type SQLiteSink struct {
	db   *sql.DB
	path string
	n    int
}

// NewSQLiteSink creates a fresh database at path, replacing any previous render.
func NewSQLiteSink(path string) (*SQLiteSink, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to remove previous database: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := InitSchema(context.Background(), db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteSink{db: db, path: path}, nil
}

// Path returns the database file path.
func (s *SQLiteSink) Path() string { return s.path }

// SetTopology writes the neurons, legend and host_settings tables.
func (s *SQLiteSink) SetTopology(ctx context.Context, top render.Topology) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	neuronStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO neurons (idx, id, grp, type, x, y, z, polarity) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare neuron insert: %w", err)
	}
	defer neuronStmt.Close()

	for _, rec := range NeuronRecords(top.Neurons) {
		if _, err := neuronStmt.ExecContext(ctx,
			rec.Index, rec.ID, rec.Group, rec.Type, float64(rec.X), float64(rec.Y), float64(rec.Z), string(rec.Polarity)); err != nil {
			return fmt.Errorf("failed to insert neuron %s/%s/%s: %w", rec.Group, rec.Type, rec.ID, err)
		}
	}

	for _, e := range top.Legend {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO legend (key, grp, type, r, g, b) VALUES (?, ?, ?, ?, ?, ?)`,
			e.Key, e.Group, e.Type, e.Color.R, e.Color.G, e.Color.B); err != nil {
			return fmt.Errorf("failed to insert legend entry %s: %w", e.Key, err)
		}
	}

	for key, value := range map[string]float64{
		"emission":         top.Host.Emission,
		"resolution_scale": float64(top.Host.ResolutionScale),
	} {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR REPLACE INTO host_settings (key, value) VALUES (?, ?)`, key, value); err != nil {
			return fmt.Errorf("failed to insert host setting %s: %w", key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit topology: %w", err)
	}
	s.n = len(top.Neurons)
	return nil
}

// ApplyFrame writes one frame row and its per-neuron states.
func (s *SQLiteSink) ApplyFrame(ctx context.Context, buf models.VisualStateBuffer, frameIndex int) error {
	if len(buf.States) != s.n {
		return fmt.Errorf("frame %d has %d states, topology has %d neurons", frameIndex, len(buf.States), s.n)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT OR REPLACE INTO frames (frame, time) VALUES (?, ?)`, frameIndex, buf.Time); err != nil {
		return fmt.Errorf("failed to insert frame %d: %w", frameIndex, err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR REPLACE INTO frame_states (frame, idx, r, g, b, alpha, size) VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare state insert: %w", err)
	}
	defer stmt.Close()

	for i, st := range buf.States {
		if _, err := stmt.ExecContext(ctx,
			frameIndex, i, st.Color.R, st.Color.G, st.Color.B, st.Alpha, st.Size); err != nil {
			return fmt.Errorf("failed to insert state %d of frame %d: %w", i, frameIndex, err)
		}
	}

	return tx.Commit()
}

// Close closes the database.
func (s *SQLiteSink) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}
