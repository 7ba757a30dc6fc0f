package migration

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/template"
	"time"
)

// New migrations are scaffolded with the column conventions the sizing
// tables share: UUID primary keys and timestamptz audit columns.
const migrationUpTemplate = `-- {{.Version}} {{.Name}}
{{- if .Description}}
-- {{.Description}}
{{- end}}

CREATE TABLE IF NOT EXISTS {{.TableHint}} (
    id         UUID PRIMARY KEY,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

-- CREATE INDEX IF NOT EXISTS idx_{{.TableHint}}_<column> ON {{.TableHint}} (<column>);
`

const migrationDownTemplate = `-- {{.Version}} {{.Name}} (rollback)

DROP TABLE IF EXISTS {{.TableHint}};
`

// MigrationFile represents a scaffolded up/down file pair
type MigrationFile struct {
	Version     string
	Name        string
	Description string
	TableHint   string
	UpPath      string
	DownPath    string
}

// Entry is one migration pair parsed from a directory listing
type Entry struct {
	Version string
	Name    string
}

// CreateMigration scaffolds a new up/down migration pair in the
// sizing schema's file naming scheme
func CreateMigration(migrationsDir, name, description string) (*MigrationFile, error) {
	if err := os.MkdirAll(migrationsDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create migrations directory: %w", err)
	}

	// Version timestamps sort lexically, matching the shipped migrations
	version := time.Now().Format("20060102150405")

	baseName := fmt.Sprintf("%s_%s", version, sanitizeName(name))
	upPath := filepath.Join(migrationsDir, baseName+".up.sql")
	downPath := filepath.Join(migrationsDir, baseName+".down.sql")

	mf := &MigrationFile{
		Version:     version,
		Name:        name,
		Description: description,
		TableHint:   tableHint(name),
		UpPath:      upPath,
		DownPath:    downPath,
	}

	if err := writeFromTemplate(upPath, migrationUpTemplate, mf); err != nil {
		return nil, fmt.Errorf("failed to create up migration: %w", err)
	}

	if err := writeFromTemplate(downPath, migrationDownTemplate, mf); err != nil {
		_ = os.Remove(upPath)
		return nil, fmt.Errorf("failed to create down migration: %w", err)
	}

	return mf, nil
}

func writeFromTemplate(path, tmplContent string, data *MigrationFile) error {
	tmpl, err := template.New("migration").Parse(tmplContent)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file %s: %w", path, err)
	}
	defer f.Close()

	if err := tmpl.Execute(f, data); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}

	return nil
}

// sanitizeName converts a migration name to a safe file name format
func sanitizeName(name string) string {
	result := make([]byte, 0, len(name))
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'a' && c <= 'z':
			result = append(result, c)
		case c >= 'A' && c <= 'Z':
			result = append(result, c+'a'-'A')
		case c >= '0' && c <= '9':
			result = append(result, c)
		case c == ' ' || c == '-' || c == '_':
			if len(result) > 0 && result[len(result)-1] != '_' {
				result = append(result, '_')
			}
		}
	}
	if len(result) > 0 && result[len(result)-1] == '_' {
		result = result[:len(result)-1]
	}
	return string(result)
}

// tableHint guesses the target table from the migration name so the
// scaffold starts out close to the final DDL
func tableHint(name string) string {
	hint := sanitizeName(name)
	for _, prefix := range []string{"create_", "add_", "drop_"} {
		hint = strings.TrimPrefix(hint, prefix)
	}
	hint = strings.TrimSuffix(hint, "_table")
	if hint == "" {
		return "table_name"
	}
	return hint
}

// ListMigrations returns the migration pairs in a directory ordered
// by version. A missing directory is treated as empty.
func ListMigrations(migrationsDir string) ([]Entry, error) {
	dirEntries, err := os.ReadDir(migrationsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []Entry{}, nil
		}
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	migrations := make([]Entry, 0)
	seen := make(map[string]bool)

	for _, entry := range dirEntries {
		if entry.IsDir() {
			continue
		}
		base, ok := strings.CutSuffix(entry.Name(), ".up.sql")
		if !ok || seen[base] {
			continue
		}
		seen[base] = true

		version, name, _ := strings.Cut(base, "_")
		migrations = append(migrations, Entry{Version: version, Name: name})
	}

	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].Version < migrations[j].Version
	})

	return migrations, nil
}
