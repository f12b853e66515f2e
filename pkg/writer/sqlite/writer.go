// Package sqlite provides SQLite database writing for fragment libraries
package sqlite

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/ChrisMcGann/pgfrag/pkg/core"
	"github.com/ChrisMcGann/pgfrag/pkg/fragment"
	"github.com/ChrisMcGann/pgfrag/pkg/notation"
	"github.com/ChrisMcGann/pgfrag/pkg/writer/text"
)

const (
	// Date format for HeaderTable (ISO 8601)
	headerDateFormat = "2006-01-02"
	// Schema version written to HeaderTable
	schemaVersion = 1
)

// Precursor is one fragmented structure ready to be stored
type Precursor struct {
	Structure *core.Structure
	Name      string
	Fragments []fragment.Fragment
}

// Writer handles writing fragment libraries to SQLite database files
type Writer struct {
	db            *sql.DB
	outputPath    string
	runID         uuid.UUID
	opts          fragment.Options
	precursorStmt *sql.Stmt
	fragmentStmt  *sql.Stmt
	precursorID   int
	fragmentID    int
	finalized     bool
}

// NewWriter creates a new SQLite writer recording opts in the header
func NewWriter(outputPath string, opts fragment.Options) (*Writer, error) {
	db, err := sql.Open("sqlite3", outputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	w := &Writer{
		db:          db,
		outputPath:  outputPath,
		runID:       uuid.New(),
		opts:        opts,
		precursorID: 1,
		fragmentID:  1,
	}

	if err := w.createTables(); err != nil {
		db.Close()
		return nil, err
	}

	if err := w.prepareStatements(); err != nil {
		db.Close()
		return nil, err
	}

	return w, nil
}

// RunID returns the identifier recorded for this database
func (w *Writer) RunID() uuid.UUID {
	return w.runID
}

// createTables creates the required database schema
func (w *Writer) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS PrecursorTable (
		PrecursorId INTEGER PRIMARY KEY,
		Name TEXT,
		Structure TEXT NOT NULL,
		Formula TEXT,
		MonoisotopicMass DOUBLE,
		MassText TEXT,
		FragmentCount INTEGER
	);

	CREATE TABLE IF NOT EXISTS FragmentTable (
		FragmentId INTEGER PRIMARY KEY,
		PrecursorId INTEGER REFERENCES PrecursorTable(PrecursorId),
		Structure TEXT NOT NULL,
		Formula TEXT,
		MonoisotopicMass DOUBLE,
		MassText TEXT,
		CleavedBonds TEXT,
		CleavageCount INTEGER
	);

	CREATE INDEX IF NOT EXISTS FragmentMassIndex ON FragmentTable (MonoisotopicMass);

	CREATE TABLE IF NOT EXISTS HeaderTable (
		version INTEGER NOT NULL DEFAULT 0,
		RunId TEXT,
		CreationDate TEXT,
		NotationVersion INTEGER,
		MaxCleavages INTEGER,
		Convention TEXT,
		AllProducts BOOL,
		NoofPrecursors INTEGER,
		NoofFragments INTEGER
	);
	`

	_, err := w.db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}

	return nil
}

// prepareStatements prepares SQL statements for batch insertion
func (w *Writer) prepareStatements() error {
	var err error

	w.precursorStmt, err = w.db.Prepare(`
		INSERT INTO PrecursorTable (
			PrecursorId, Name, Structure, Formula, MonoisotopicMass, MassText, FragmentCount
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare precursor statement: %w", err)
	}

	w.fragmentStmt, err = w.db.Prepare(`
		INSERT INTO FragmentTable (
			FragmentId, PrecursorId, Structure, Formula, MonoisotopicMass,
			MassText, CleavedBonds, CleavageCount
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare fragment statement: %w", err)
	}

	return nil
}

// WritePrecursor writes a precursor and all its fragments in one transaction
func (w *Writer) WritePrecursor(p Precursor) error {
	if p.Structure == nil {
		return fmt.Errorf("precursor %d has no structure", w.precursorID)
	}

	formula, err := p.Structure.Formula()
	if err != nil {
		return fmt.Errorf("precursor %d: %w", w.precursorID, err)
	}
	mass, err := formula.Mass()
	if err != nil {
		return fmt.Errorf("precursor %d: %w", w.precursorID, err)
	}

	tx, err := w.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	_, err = tx.Stmt(w.precursorStmt).Exec(
		w.precursorID,                // PrecursorId
		p.Name,                       // Name
		notation.Format(p.Structure), // Structure
		formula.String(),             // Formula
		mass.InexactFloat64(),        // MonoisotopicMass
		text.FormatMass(mass),        // MassText
		len(p.Fragments),             // FragmentCount
	)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to insert precursor: %w", err)
	}

	fragmentStmt := tx.Stmt(w.fragmentStmt)
	for _, f := range p.Fragments {
		_, err = fragmentStmt.Exec(
			w.fragmentID,            // FragmentId
			w.precursorID,           // PrecursorId
			f.Notation,              // Structure
			f.Formula.String(),      // Formula
			f.Mass.InexactFloat64(), // MonoisotopicMass
			text.FormatMass(f.Mass), // MassText
			joinBonds(f.Cleaved),    // CleavedBonds
			len(f.Cleaved),          // CleavageCount
		)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to insert fragment: %w", err)
		}
		w.fragmentID++
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit precursor: %w", err)
	}

	w.precursorID++
	return nil
}

// joinBonds encodes bond identifiers as a comma-separated list
func joinBonds(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ",")
}

// Finalize writes the header table and closes the database. Later calls
// do nothing.
func (w *Writer) Finalize() error {
	if w.finalized {
		return nil
	}
	w.finalized = true

	_, err := w.db.Exec(`
		INSERT INTO HeaderTable (version, RunId, CreationDate, NotationVersion, MaxCleavages, Convention, AllProducts, NoofPrecursors, NoofFragments)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, schemaVersion, w.runID.String(), time.Now().Format(headerDateFormat), notation.Version,
		w.opts.MaxCleavages, w.opts.Convention.String(), w.opts.AllProducts,
		w.precursorID-1, w.fragmentID-1)
	if err != nil {
		return fmt.Errorf("failed to insert header: %w", err)
	}

	// Close prepared statements
	if w.precursorStmt != nil {
		w.precursorStmt.Close()
	}
	if w.fragmentStmt != nil {
		w.fragmentStmt.Close()
	}

	// Close database
	if err := w.db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	return nil
}

// Close closes the database connection (alias for Finalize)
func (w *Writer) Close() error {
	return w.Finalize()
}
