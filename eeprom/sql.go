package eeprom

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
)

//
// SQL keeps the records in a table of a database/sql handle.  Any
// driver whose SQL accepts REPLACE INTO will do; the MySQL one is
// registered by this package.  Init creates the table if needed
//

const sqlTimeout = 5 * time.Second

type SQL struct {
	db    *sql.DB
	table string
}

func NewSQL(db *sql.DB, table string) *SQL {

	if table == "" {
		table = "ubasic_eeprom"
	}

	return &SQL{db: db, table: table}
}

//
// OpenMySQL opens a MySQL store from a go-sql-driver DSN such as
// "user:pass@tcp(host:3306)/db".  The caller closes the returned
// handle
//

func OpenMySQL(dsn, table string) (*SQL, *sql.DB, error) {

	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("eeprom: dsn: %w", err)
	}

	if cfg.DBName == "" {
		return nil, nil, errors.New("eeprom: dsn names no database")
	}

	db, err := sql.Open("mysql", cfg.FormatDSN())
	if err != nil {
		return nil, nil, fmt.Errorf("eeprom: open: %w", err)
	}

	return NewSQL(db, table), db, nil
}

func (s *SQL) Init() error {

	ctx, cancel := context.WithTimeout(context.Background(), sqlTimeout)
	defer cancel()

	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("eeprom: ping: %w", err)
	}

	_, err := s.db.ExecContext(ctx, "CREATE TABLE IF NOT EXISTS "+s.table+
		" (name VARCHAR(4) NOT NULL PRIMARY KEY, data VARBINARY(256) NOT NULL)")
	if err != nil {
		return fmt.Errorf("eeprom: create %s: %w", s.table, err)
	}

	return nil
}

func (s *SQL) WriteVariable(slot, kind uint8, data []byte) error {

	if err := checkKey(slot, kind); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), sqlTimeout)
	defer cancel()

	_, err := s.db.ExecContext(ctx, "REPLACE INTO "+s.table+" (name, data) VALUES (?, ?)",
		keyName(slot, kind), data)
	if err != nil {
		return fmt.Errorf("eeprom: write %s: %w", keyName(slot, kind), err)
	}

	return nil
}

func (s *SQL) ReadVariable(slot, kind uint8) ([]byte, error) {

	if err := checkKey(slot, kind); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), sqlTimeout)
	defer cancel()

	var data []byte

	err := s.db.QueryRowContext(ctx, "SELECT data FROM "+s.table+" WHERE name = ?",
		keyName(slot, kind)).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("eeprom: read %s: %w", keyName(slot, kind), err)
	}

	return data, nil
}
