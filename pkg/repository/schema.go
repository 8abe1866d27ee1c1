package repository

import (
	"context"
	"fmt"

	"github.com/ruslano69/cgm-backoffice/pkg/fieldmap"
	"github.com/ruslano69/cgm-backoffice/pkg/query"
)

// columnTypes - типы колонок по диалекту
type columnTypes struct {
	id       string
	stamp    string
	text     string
	freeText string
	date     string
	currency string
	integer  string
	flag     string
}

var typesByDialect = map[string]columnTypes{
	"mssql": {
		id:       "INT IDENTITY(1,1) NOT NULL PRIMARY KEY",
		stamp:    "DATETIME2 NULL DEFAULT GETDATE()",
		text:     "NVARCHAR(255)",
		freeText: "NVARCHAR(MAX)",
		date:     "DATE",
		currency: "DECIMAL(18,2)",
		integer:  "INT",
		flag:     "BIT",
	},
	"sqlite": {
		id:       "INTEGER PRIMARY KEY AUTOINCREMENT",
		stamp:    "DATETIME DEFAULT CURRENT_TIMESTAMP",
		text:     "TEXT",
		freeText: "TEXT",
		date:     "DATE",
		currency: "DECIMAL(18,2)",
		integer:  "INTEGER",
		flag:     "INTEGER",
	},
	"postgres": {
		id:       "BIGSERIAL PRIMARY KEY",
		stamp:    "TIMESTAMP DEFAULT CURRENT_TIMESTAMP",
		text:     "VARCHAR(255)",
		freeText: "TEXT",
		date:     "DATE",
		currency: "NUMERIC(18,2)",
		integer:  "INTEGER",
		flag:     "SMALLINT",
	},
	"mysql": {
		id:       "BIGINT AUTO_INCREMENT PRIMARY KEY",
		stamp:    "DATETIME DEFAULT CURRENT_TIMESTAMP",
		text:     "VARCHAR(255)",
		freeText: "TEXT",
		date:     "DATE",
		currency: "DECIMAL(18,2)",
		integer:  "INT",
		flag:     "TINYINT(1)",
	},
}

func (t columnTypes) of(kind fieldmap.Type) string {
	switch kind {
	case fieldmap.TypeDate:
		return t.date
	case fieldmap.TypeCurrency:
		return t.currency
	case fieldmap.TypeInteger:
		return t.integer
	case fieldmap.TypeFlag:
		return t.flag
	case fieldmap.TypeFreeText:
		return t.freeText
	default:
		return t.text
	}
}

// CreateTableStatement returns the DDL of the entity's table for the
// provider's dialect. Production tables already exist; this is for local
// databases and tests.
func (r *Repository) CreateTableStatement() (query.Statement, error) {
	d := r.p.Dialect()
	types, ok := typesByDialect[d.Name()]
	if !ok {
		return query.Statement{}, fmt.Errorf("no column types for dialect %s", d.Name())
	}

	q := d.QuoteIdentifier
	cols := []string{q(r.e.PrimaryKey) + " " + types.id}
	for _, f := range r.e.Mapping.Fields() {
		cols = append(cols, q(f.Column)+" "+types.of(f.Type))
	}
	for _, s := range r.e.Stamps {
		cols = append(cols, q(s)+" "+types.stamp)
	}
	return query.CreateTable(d, r.e.Table, cols), nil
}

// CreateTable creates the entity's table if it does not exist.
func (r *Repository) CreateTable(ctx context.Context) error {
	st, err := r.CreateTableStatement()
	if err != nil {
		return err
	}
	if _, err := r.p.Exec(ctx, st); err != nil {
		return fmt.Errorf("failed to create table %s: %w", r.e.Table, err)
	}
	return nil
}
